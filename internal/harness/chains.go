package harness

import (
	"errors"
	"fmt"
	"strings"

	"github.com/jacoelho/jsonexpect"
	"github.com/jacoelho/jsonexpect/internal/checkfile"
)

// recorder collects chain failures so one broken expectation does not
// stop the rest of the file.
type recorder struct {
	failures []string
}

func (r *recorder) Errorf(format string, args ...any) {
	r.failures = append(r.failures, fmt.Sprintf(format, args...))
}

// runChains builds and finalizes every declared chain against the
// loaded document. It returns the number of executed chains and the
// joined failures.
func (r *Runner) runChains(file *checkfile.File, doc document) (int, error) {
	var failures []error

	for i, expectation := range file.Expect {
		name := expectation.Describe
		if name == "" {
			name = fmt.Sprintf("chain %d", i+1)
		}

		rec := &recorder{}
		chain := newChain(rec, doc).Describe(name)

		steps := expectation.Steps
		last := steps[len(steps)-1]
		if last.Finalizing() {
			steps = steps[:len(steps)-1]
		}

		current := chain
		for _, step := range steps {
			current = applyStep(current, step)
		}
		finalizeWith(current, last)

		if len(rec.failures) > 0 {
			failures = append(failures, errors.New(strings.Join(rec.failures, "\n")))
		}
	}

	return len(file.Expect), errors.Join(failures...)
}

func newChain(reporter jsonexpect.Reporter, doc document) *jsonexpect.Chain {
	if doc.isValue {
		return jsonexpect.FromValue(reporter, doc.value)
	}
	return jsonexpect.New(reporter, doc.text)
}

func finalizeWith(chain *jsonexpect.Chain, last checkfile.Step) bool {
	switch last.Op {
	case "exactly":
		return chain.Exactly(last.Count)
	case "at_least":
		return chain.AtLeast(last.Count)
	case "at_most":
		return chain.AtMost(last.Count)
	default:
		// Covers an explicit verify step and chains without a
		// finalizing step.
		return chain.Verify()
	}
}

// applyStep queues one translated operation and returns the chain the
// next step applies to; branching ops move the cursor between forks.
func applyStep(chain *jsonexpect.Chain, step checkfile.Step) *jsonexpect.Chain {
	switch step.Op {
	case "at":
		return chain.At(step.Path)
	case "query":
		return chain.Query(step.Text)
	case "with_objects":
		return chain.WithObjects()
	case "containing":
		return chain.Containing(step.Key, step.Value)
	case "matching":
		return chain.Matching(step.Criteria)
	case "is_null":
		return chain.IsNull()
	case "is_bool":
		return chain.IsBool()
	case "is_number":
		return chain.IsNumber()
	case "is_string":
		return chain.IsString()
	case "is_array":
		return chain.IsArray()
	case "is_object":
		return chain.IsObject()
	case "is_type":
		t, err := jsonexpect.ParseType(step.Text)
		if err != nil {
			// Parse already validated type names.
			return chain
		}
		return chain.IsType(t)
	case "is_one_of_types":
		types := make([]jsonexpect.Type, 0, len(step.Types))
		for _, name := range step.Types {
			t, err := jsonexpect.ParseType(name)
			if err != nil {
				continue
			}
			types = append(types, t)
		}
		return chain.IsOneOfTypes(types...)
	case "is_empty":
		return chain.IsEmpty()
	case "is_not_empty":
		return chain.IsNotEmpty()
	case "has_size":
		return chain.HasSize(step.Count)
	case "has_element":
		return chain.HasElement(step.Value)
	case "must_be":
		return chain.MustBe(step.Value)
	case "must_not_be":
		return chain.MustNotBe(step.Value)
	case "must_contain":
		if step.HasValue {
			return chain.MustContain(step.Path, step.Value)
		}
		return chain.MustContain(step.Path)
	case "must_not_contain":
		if step.HasValue {
			return chain.MustNotContain(step.Path, step.Value)
		}
		return chain.MustNotContain(step.Path)
	case "must_begin_with":
		return chain.MustBeginWith(step.Text)
	case "must_end_with":
		return chain.MustEndWith(step.Text)
	case "must_match_regex":
		return chain.MustMatchRegex(step.Text)
	case "must_selected":
		return chain.MustSelected(step.Count)
	case "any_of":
		branch := chain.Either()
		for i, branchSteps := range step.Branches {
			if i > 0 {
				branch = branch.OrElse()
			}
			for _, branchStep := range branchSteps {
				branch = applyStep(branch, branchStep)
			}
		}
		return branch.End()
	default:
		return chain
	}
}
