package results

import (
	"fmt"
	"io"
)

// FormatText renders the summary as human-readable text.
func (s *Summary) FormatText(w io.Writer) error {
	for _, fileResult := range s.FileResults {
		status := "Success"
		if fileResult.Error != nil {
			status = fmt.Sprintf("Failed: %v", fileResult.Error)
		}
		_, err := fmt.Fprintf(w, "%s: %s (%d chain(s) in %d ms)\n",
			fileResult.Filename, status, fileResult.ChainCount, fileResult.Duration.Milliseconds())
		if err != nil {
			return err
		}
	}

	if _, err := fmt.Fprintln(w, "--------------------------------------------------------------------------------"); err != nil {
		return err
	}

	if _, err := fmt.Fprintf(w, "Run:              %s\n", s.RunID); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Executed files:   %d\n", s.ExecutedFiles); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Executed chains:  %d\n", s.ExecutedChains); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Succeeded files:  %d (%.1f%%)\n", s.SucceededFiles, s.SuccessPercentage()); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Failed files:     %d (%.1f%%)\n", s.FailedFiles, s.FailurePercentage()); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Duration:         %d ms\n", s.TotalDuration.Milliseconds()); err != nil {
		return err
	}

	return nil
}

// FormatDebug outputs debug information with a description and data.
func FormatDebug(w io.Writer, description string, data []byte) error {
	if _, err := fmt.Fprintln(w, "========================================"); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "%s:\n", description); err != nil {
		return err
	}
	if _, err := fmt.Fprintln(w, "========================================"); err != nil {
		return err
	}

	if _, err := w.Write(data); err != nil {
		return err
	}

	if _, err := fmt.Fprintln(w); err != nil {
		return err
	}

	return nil
}
