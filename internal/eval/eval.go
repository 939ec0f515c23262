// Package eval holds the deferred step queue behind an expectation
// chain. Operations append named steps; a finalizer applies them in
// order against the live candidate set and renders the trace.
package eval

import (
	"fmt"
	"io"
	"strings"
)

// Result is the outcome of a single applied step. Passing steps still
// carry a message so the trace stays informative.
type Result struct {
	Passed  bool
	Message string
}

// Step is a named, deferred unit of work over the evaluation state.
type Step struct {
	Description string
	Run         func(*State) Result
}

// State owns the candidate set, the ordered step queue and the results
// produced by applying it. Steps may replace Candidates; the next step
// observes the mutation.
type State struct {
	Candidates []any

	depth   int
	steps   []Step
	results []Result
	applied bool
	passed  bool
}

// NewState starts a state with the given candidates at nesting depth
// zero.
func NewState(candidates []any) *State {
	return &State{Candidates: candidates}
}

// NewBranchState starts an empty state one nesting level below parent.
// Branch candidates are installed at apply time, not at fork time.
func NewBranchState(parent *State) *State {
	return &State{depth: parent.depth + 1}
}

// Depth reports how many ancestor forks produced this state.
func (s *State) Depth() int {
	return s.depth
}

// Append queues a step. Steps are never removed.
func (s *State) Append(description string, run func(*State) Result) {
	s.steps = append(s.steps, Step{Description: description, Run: run})
}

// StepCount returns the number of queued steps.
func (s *State) StepCount() int {
	return len(s.steps)
}

// Apply runs every queued step in insertion order and returns true iff
// all of them passed. Execution never short-circuits so the trace is
// complete even after a failure. Repeated calls return the first
// outcome without re-running steps.
func (s *State) Apply() bool {
	if s.applied {
		return s.passed
	}
	s.applied = true

	s.passed = true
	s.results = make([]Result, 0, len(s.steps))
	for _, step := range s.steps {
		result := step.Run(s)
		s.results = append(s.results, result)
		if !result.Passed {
			s.passed = false
		}
	}

	return s.passed
}

// Applied reports whether Apply already ran.
func (s *State) Applied() bool {
	return s.applied
}

// Results returns the per-step outcomes recorded by Apply.
func (s *State) Results() []Result {
	return s.results
}

// Indent returns the indentation prefix for the given nesting depth.
func Indent(depth int) string {
	return strings.Repeat("  ", depth)
}

// WriteTrace renders one line per applied step at the state's nesting
// depth. Messages may embed pre-indented blocks after their first line
// (branch steps do this to inline sub-traces).
func (s *State) WriteTrace(w io.Writer) {
	prefix := Indent(s.depth)
	for i, result := range s.results {
		marker := "ok  "
		if !result.Passed {
			marker = "fail"
		}

		head := result.Message
		var tail string
		if cut := strings.IndexByte(head, '\n'); cut >= 0 {
			head, tail = head[:cut], head[cut+1:]
		}

		line := fmt.Sprintf("%s%s %s", prefix, marker, s.steps[i].Description)
		if head != "" {
			line += ": " + head
		}
		fmt.Fprintln(w, line)
		if tail != "" {
			fmt.Fprintln(w, tail)
		}
	}
}

// Trace renders the trace into a string.
func (s *State) Trace() string {
	var b strings.Builder
	s.WriteTrace(&b)
	return b.String()
}
