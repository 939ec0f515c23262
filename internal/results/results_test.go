package results

import (
	"errors"
	"testing"
	"time"
)

func TestSummaryAdd(t *testing.T) {
	summary := NewSummary("run-1", 3)

	summary.Add(FileResult{Filename: "a.yaml", ChainCount: 2, Duration: time.Second})
	summary.Add(FileResult{Filename: "b.yaml", ChainCount: 1, Duration: time.Second, Error: errors.New("boom")})
	summary.Add(FileResult{Filename: "c.yaml", ChainCount: 4, Duration: time.Second})

	if summary.ExecutedFiles != 3 {
		t.Errorf("ExecutedFiles = %d, want 3", summary.ExecutedFiles)
	}
	if summary.ExecutedChains != 7 {
		t.Errorf("ExecutedChains = %d, want 7", summary.ExecutedChains)
	}
	if summary.SucceededFiles != 2 {
		t.Errorf("SucceededFiles = %d, want 2", summary.SucceededFiles)
	}
	if summary.FailedFiles != 1 {
		t.Errorf("FailedFiles = %d, want 1", summary.FailedFiles)
	}
}

func TestSummaryPercentages(t *testing.T) {
	summary := NewSummary("run-1", 0)

	if got := summary.SuccessPercentage(); got != 0 {
		t.Errorf("SuccessPercentage() on empty summary = %f, want 0", got)
	}
	if got := summary.FailurePercentage(); got != 0 {
		t.Errorf("FailurePercentage() on empty summary = %f, want 0", got)
	}

	summary.Add(FileResult{Filename: "a.yaml"})
	summary.Add(FileResult{Filename: "b.yaml", Error: errors.New("boom")})

	if got := summary.SuccessPercentage(); got != 50 {
		t.Errorf("SuccessPercentage() = %f, want 50", got)
	}
	if got := summary.FailurePercentage(); got != 50 {
		t.Errorf("FailurePercentage() = %f, want 50", got)
	}
}
