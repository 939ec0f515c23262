package jsonexpect

import (
	"fmt"
	"slices"
	"strings"

	"github.com/jacoelho/jsonexpect/internal/eval"
	"github.com/jacoelho/jsonexpect/internal/jsontype"
	"github.com/jacoelho/jsonexpect/internal/stack"
)

// branchContext tracks the sibling branches of one either/or_else/end
// scope. Contexts nest through the owning chain's stack.
type branchContext struct {
	branches []*Chain
}

// fork creates an independent chain sharing the document root. The
// fork's candidates are installed from the parent's live set when the
// closing End step executes, not at fork time.
func (c *Chain) fork() *Chain {
	return &Chain{
		reporter: c.reporter,
		root:     c.root,
		state:    eval.NewBranchState(c.state),
		parent:   c,
		contexts: stack.New[*branchContext](),
	}
}

// Either opens a branching scope and returns its first branch.
// Subsequent chained calls apply to the branch until OrElse or End.
func (c *Chain) Either() *Chain {
	branch := c.fork()
	c.contexts.Push(&branchContext{branches: []*Chain{branch}})
	return branch
}

// OrElse adds an alternative branch to the innermost open scope and
// returns it. Calling it without a preceding Either marks the chain
// invalid; a later finalizer fails.
func (c *Chain) OrElse() *Chain {
	scope := c.scopeOwner()
	if scope == nil {
		c.markMisuse(fmt.Errorf("%w: OrElse without a preceding Either", ErrBranchMisuse))
		return c
	}

	context, _ := scope.contexts.Peek()
	branch := scope.fork()
	context.branches = append(context.branches, branch)
	return branch
}

// End closes the innermost open scope and returns the chain that opened
// it. It queues a single step there which, when applied, evaluates
// every branch against a copy of the live candidate set: the step
// passes iff at least one branch passes, and on success the chain
// continues with the first-seen deduplicated union of the surviving
// candidates of all passing branches. On failure the candidate set is
// left untouched for diagnostics.
func (c *Chain) End() *Chain {
	scope := c.scopeOwner()
	if scope == nil {
		c.markMisuse(fmt.Errorf("%w: End without an open branch context", ErrBranchMisuse))
		return c
	}

	context, _ := scope.contexts.Pop()
	scope.state.Append("either", func(s *eval.State) eval.Result {
		return runBranches(context, s)
	})

	return scope
}

// scopeOwner walks parent links to the nearest chain with an open
// branch context, or nil if no Either is pending anywhere above.
func (c *Chain) scopeOwner() *Chain {
	for current := c; current != nil; current = current.parent {
		if !current.contexts.IsEmpty() {
			return current
		}
	}
	return nil
}

// markMisuse records a programmer error on this chain and on the
// outermost chain, so the failure surfaces no matter which of the two
// ends up finalized.
func (c *Chain) markMisuse(err error) {
	if c.misuse == nil {
		c.misuse = err
	}

	top := c
	for top.parent != nil {
		top = top.parent
	}
	if top.misuse == nil {
		top.misuse = err
	}
}

// runBranches evaluates every branch of context sequentially against a
// snapshot of the live candidates and merges the survivors of passing
// branches.
func runBranches(context *branchContext, s *eval.State) eval.Result {
	snapshot := s.Candidates

	var union []any
	passedCount := 0
	var trace strings.Builder
	labelPrefix := eval.Indent(s.Depth() + 1)

	for i, branch := range context.branches {
		branch.state.Candidates = slices.Clone(snapshot)
		passed := branch.state.Apply()
		if !branch.contexts.IsEmpty() {
			// An Either inside the branch was never closed with End.
			passed = false
		}

		label := "either"
		if i > 0 {
			label = "or_else"
		}
		fmt.Fprintf(&trace, "%s%s:\n", labelPrefix, label)
		for line := range strings.Lines(branch.state.Trace()) {
			trace.WriteString("  ")
			trace.WriteString(line)
		}

		if !passed {
			continue
		}
		passedCount++
		for _, candidate := range branch.state.Candidates {
			if !containsEqual(union, candidate) {
				union = append(union, candidate)
			}
		}
	}

	block := strings.TrimRight(trace.String(), "\n")
	if passedCount == 0 {
		return fail("no branch passed\n%s", block)
	}

	s.Candidates = union
	return pass("%d of %d branch(es) passed\n%s", passedCount, len(context.branches), block)
}

func containsEqual(values []any, value any) bool {
	for _, current := range values {
		if jsontype.Equal(current, value) {
			return true
		}
	}
	return false
}
