// Package results aggregates expectation file outcomes for reporting.
package results

import (
	"time"
)

// FileResult is the outcome of running one expectation file.
type FileResult struct {
	Filename   string
	ChainCount int
	Duration   time.Duration
	Error      error
}

// Summary aggregates the results of one run.
type Summary struct {
	RunID          string
	FileResults    []FileResult
	ExecutedFiles  int
	ExecutedChains int
	SucceededFiles int
	FailedFiles    int
	TotalDuration  time.Duration
}

func NewSummary(runID string, expectedFiles int) *Summary {
	return &Summary{
		RunID:       runID,
		FileResults: make([]FileResult, 0, expectedFiles),
	}
}

func (s *Summary) Add(result FileResult) {
	s.FileResults = append(s.FileResults, result)
	s.ExecutedFiles++
	s.ExecutedChains += result.ChainCount

	if result.Error != nil {
		s.FailedFiles++
	} else {
		s.SucceededFiles++
	}
}

func (s *Summary) SetTotalDuration(duration time.Duration) {
	s.TotalDuration = duration
}

func (s *Summary) SuccessPercentage() float64 {
	if s.ExecutedFiles == 0 {
		return 0
	}
	return (float64(s.SucceededFiles) / float64(s.ExecutedFiles)) * 100
}

func (s *Summary) FailurePercentage() float64 {
	if s.ExecutedFiles == 0 {
		return 0
	}
	return (float64(s.FailedFiles) / float64(s.ExecutedFiles)) * 100
}
