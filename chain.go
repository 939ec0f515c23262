// Package jsonexpect is a fluent query-and-assertion engine for JSON
// documents inside tests. A chain navigates into a parsed document,
// narrows a set of candidate values, asserts properties on them and can
// combine alternative expectations. Every call only queues a step; a
// finalizer such as Verify or Exactly applies the queue and reports a
// single pass or fail outcome with a complete per-step trace.
package jsonexpect

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/jacoelho/jsonexpect/internal/eval"
	"github.com/jacoelho/jsonexpect/internal/stack"
)

var (
	ErrInvalidDocument = errors.New("invalid JSON document")
	ErrBranchMisuse    = errors.New("invalid branching")
	ErrNotFinalized    = errors.New("assertion chain was not finalized")
)

// Reporter receives the single failure outcome of a finalized chain.
// *testing.T satisfies it.
type Reporter interface {
	Errorf(format string, args ...any)
}

// Chain is a fluent expectation builder over one JSON document. All
// methods queue deferred steps and return a chain so calls compose;
// nothing executes until a finalizer runs.
type Chain struct {
	reporter Reporter
	root     any
	state    *eval.State
	parent   *Chain
	contexts *stack.Stack[*branchContext]

	description string
	parseErr    error
	misuse      error
	finalized   bool
	verdict     bool
}

// New parses document and starts a chain over it. A parse failure is
// recorded on the chain, not returned: every finalizer on an invalid
// document fails without running queued steps.
func New(reporter Reporter, document string) *Chain {
	value, err := decodeDocument([]byte(document))
	chain := &Chain{
		reporter: reporter,
		contexts: stack.New[*branchContext](),
	}

	if err != nil {
		chain.parseErr = fmt.Errorf("%w: %v", ErrInvalidDocument, err)
		chain.state = eval.NewState(nil)
		return chain
	}

	chain.root = value
	chain.state = eval.NewState([]any{value})
	return chain
}

// FromValue starts a chain over an already-decoded value.
func FromValue(reporter Reporter, value any) *Chain {
	return &Chain{
		reporter: reporter,
		root:     value,
		state:    eval.NewState([]any{value}),
		contexts: stack.New[*branchContext](),
	}
}

// decodeDocument decodes a complete JSON document, keeping numbers as
// json.Number so display precision survives while comparisons coerce.
func decodeDocument(document []byte) (any, error) {
	decoder := json.NewDecoder(bytes.NewReader(document))
	decoder.UseNumber()

	var value any
	if err := decoder.Decode(&value); err != nil {
		return nil, err
	}
	if _, err := decoder.Token(); !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("trailing data after JSON document")
	}

	return value, nil
}

// Describe sets the description used in failure reports.
func (c *Chain) Describe(description string) *Chain {
	c.description = description
	return c
}

// Close reports a failure if no finalizer ever ran. Intended for defer
// right after construction so a chain cannot silently be abandoned.
func (c *Chain) Close() {
	if c.finalized {
		return
	}
	c.finalized = true
	c.reporter.Errorf("%s: %v", c.describeForReport(), ErrNotFinalized)
}

// Verify applies every queued step in order and reports the aggregate
// outcome. It returns true iff the chain passed.
func (c *Chain) Verify() bool {
	return c.finalize()
}

// Exactly asserts the final candidate count equals n, then finalizes.
func (c *Chain) Exactly(n int) bool {
	c.appendCount("exactly", "exactly", n, func(have, want int) bool { return have == want })
	return c.finalize()
}

// AtLeast asserts the final candidate count is at least n, then
// finalizes.
func (c *Chain) AtLeast(n int) bool {
	c.appendCount("at_least", "at least", n, func(have, want int) bool { return have >= want })
	return c.finalize()
}

// AtMost asserts the final candidate count is at most n, then
// finalizes.
func (c *Chain) AtMost(n int) bool {
	c.appendCount("at_most", "at most", n, func(have, want int) bool { return have <= want })
	return c.finalize()
}

func (c *Chain) finalize() bool {
	if c.finalized {
		return c.verdict
	}
	c.finalized = true

	if c.parseErr != nil {
		c.reporter.Errorf("%s: %v", c.describeForReport(), c.parseErr)
		return false
	}

	if c.parent != nil {
		c.markMisuse(fmt.Errorf("%w: finalizer called on an open branch", ErrBranchMisuse))
	}
	if !c.contexts.IsEmpty() {
		c.markMisuse(fmt.Errorf("%w: %d branch context(s) not closed with End", ErrBranchMisuse, c.contexts.Size()))
	}

	passed := c.state.Apply()
	if c.misuse != nil {
		c.reporter.Errorf("%s: %v\n%s", c.describeForReport(), c.misuse, c.diagnostic())
		return false
	}
	if !passed {
		c.reporter.Errorf("%s\n%s", c.describeForReport(), c.diagnostic())
		return false
	}

	c.verdict = true
	return true
}

func (c *Chain) describeForReport() string {
	if c.description != "" {
		return fmt.Sprintf("expectation failed: %s", c.description)
	}
	return "expectation failed"
}

// diagnostic renders the full step trace followed by the surviving
// candidates.
func (c *Chain) diagnostic() string {
	var b strings.Builder
	b.WriteString("trace:\n")
	c.state.WriteTrace(&b)

	b.WriteString(fmt.Sprintf("candidates (%d):\n", len(c.state.Candidates)))
	for _, candidate := range c.state.Candidates {
		fmt.Fprintf(&b, "  %s\n", formatValue(candidate))
	}

	return strings.TrimRight(b.String(), "\n")
}

// formatValue serializes a candidate for diagnostics. Formatting is
// best effort; values that cannot round-trip through JSON fall back to
// their Go representation.
func formatValue(value any) string {
	encoded, err := json.Marshal(value)
	if err != nil {
		return fmt.Sprintf("%v", value)
	}
	return string(encoded)
}

func (c *Chain) appendStep(description string, run func(*eval.State) eval.Result) *Chain {
	c.state.Append(description, run)
	return c
}

func (c *Chain) appendCount(name, wording string, want int, satisfied func(have, want int) bool) {
	c.appendStep(fmt.Sprintf("%s %d", name, want), func(s *eval.State) eval.Result {
		have := len(s.Candidates)
		if !satisfied(have, want) {
			return eval.Result{Message: fmt.Sprintf("selected %d candidate(s), want %s %d", have, wording, want)}
		}
		return eval.Result{Passed: true, Message: fmt.Sprintf("selected %d candidate(s)", have)}
	})
}
