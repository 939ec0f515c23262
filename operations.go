package jsonexpect

import (
	"fmt"
	"regexp"
	"slices"
	"sort"
	"strings"

	"github.com/theory/jsonpath"

	"github.com/jacoelho/jsonexpect/internal/docpath"
	"github.com/jacoelho/jsonexpect/internal/eval"
	"github.com/jacoelho/jsonexpect/internal/jsontype"
)

func pass(format string, args ...any) eval.Result {
	return eval.Result{Passed: true, Message: fmt.Sprintf(format, args...)}
}

func fail(format string, args ...any) eval.Result {
	return eval.Result{Message: fmt.Sprintf(format, args...)}
}

// resolveFrom resolves path against candidate, or against the document
// root when the path is absolute.
func (c *Chain) resolveFrom(candidate any, path string) docpath.Resolution {
	if docpath.IsAbsolute(path) {
		return docpath.Resolve(c.root, path)
	}
	return docpath.Resolve(candidate, path)
}

// At navigates every candidate to path and replaces the candidate set
// with the resolved values. An absolute path resolves from the document
// root instead of the current candidates. The step fails, clearing the
// set, unless every examined candidate resolves the path.
func (c *Chain) At(path string) *Chain {
	return c.appendStep("at "+path, func(s *eval.State) eval.Result {
		inputs := s.Candidates
		if docpath.IsAbsolute(path) {
			inputs = []any{c.root}
		}

		resolved := make([]any, 0, len(inputs))
		for _, candidate := range inputs {
			if r := c.resolveFrom(candidate, path); r.Found {
				resolved = append(resolved, r.Value)
			}
		}

		if len(resolved) != len(inputs) {
			s.Candidates = nil
			return fail("path resolved for %d of %d candidate(s)", len(resolved), len(inputs))
		}

		s.Candidates = resolved
		return pass("selected %d candidate(s)", len(resolved))
	})
}

// Query selects with an RFC 9535 JSONPath expression, evaluated per
// candidate; the candidate set becomes the concatenation of all
// matches. An invalid expression is a step failure.
func (c *Chain) Query(expression string) *Chain {
	return c.appendStep("query "+expression, func(s *eval.State) eval.Result {
		path, err := jsonpath.Parse(expression)
		if err != nil {
			s.Candidates = nil
			return fail("invalid JSONPath expression: %v", err)
		}

		var selected []any
		for _, candidate := range s.Candidates {
			selected = append(selected, path.Select(candidate)...)
		}

		s.Candidates = selected
		return pass("selected %d candidate(s)", len(selected))
	})
}

// WithObjects requires every candidate to be an array and replaces the
// candidate set with the object-typed elements of all of them,
// silently dropping other elements. An empty starting set fails.
func (c *Chain) WithObjects() *Chain {
	return c.appendStep("with_objects", func(s *eval.State) eval.Result {
		if len(s.Candidates) == 0 {
			s.Candidates = nil
			return fail("expected at least 1 candidate")
		}

		var objects []any
		for _, candidate := range s.Candidates {
			array, ok := candidate.([]any)
			if !ok {
				s.Candidates = nil
				return fail("expected array, got %s", jsontype.Classify(candidate))
			}
			for _, element := range array {
				if jsontype.Classify(element) == jsontype.Object {
					objects = append(objects, element)
				}
			}
		}

		s.Candidates = objects
		return pass("selected %d object(s)", len(objects))
	})
}

// Containing keeps only object candidates holding key with a value
// equal to value. Filters never fail; an empty survivor set is a
// passing outcome.
func (c *Chain) Containing(key string, value any) *Chain {
	description := fmt.Sprintf("containing %s=%s", key, formatValue(value))
	return c.appendStep(description, func(s *eval.State) eval.Result {
		s.Candidates = filterContaining(s.Candidates, key, value)
		return pass("%d candidate(s) remain", len(s.Candidates))
	})
}

// Matching applies Containing for every key in criteria, narrowing the
// candidate set to objects matching all of them.
func (c *Chain) Matching(criteria map[string]any) *Chain {
	keys := make([]string, 0, len(criteria))
	for key := range criteria {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	return c.appendStep(fmt.Sprintf("matching %s", formatValue(criteria)), func(s *eval.State) eval.Result {
		for _, key := range keys {
			s.Candidates = filterContaining(s.Candidates, key, criteria[key])
		}
		return pass("%d candidate(s) remain", len(s.Candidates))
	})
}

func filterContaining(candidates []any, key string, value any) []any {
	var kept []any
	for _, candidate := range candidates {
		object, ok := candidate.(map[string]any)
		if !ok {
			continue
		}
		held, exists := object[key]
		if exists && jsontype.Equal(held, value) {
			kept = append(kept, candidate)
		}
	}
	return kept
}

// assertEach runs check over every candidate, failing on an empty set
// or on the first candidate for which check returns a message.
func (c *Chain) assertEach(description string, check func(candidate any) (string, bool)) *Chain {
	return c.appendStep(description, func(s *eval.State) eval.Result {
		if len(s.Candidates) == 0 {
			return fail("expected at least 1 candidate")
		}

		for _, candidate := range s.Candidates {
			if message, ok := check(candidate); !ok {
				return fail("%s", message)
			}
		}

		return pass("%d candidate(s)", len(s.Candidates))
	})
}

// IsType asserts every candidate has the given JSON type.
func (c *Chain) IsType(t Type) *Chain {
	return c.assertEach("is_"+t.String(), func(candidate any) (string, bool) {
		if have := typeOf(candidate); have != t {
			return fmt.Sprintf("expected %s, got %s (%s)", t, have, formatValue(candidate)), false
		}
		return "", true
	})
}

func (c *Chain) IsNull() *Chain   { return c.IsType(Null) }
func (c *Chain) IsBool() *Chain   { return c.IsType(Bool) }
func (c *Chain) IsNumber() *Chain { return c.IsType(Number) }
func (c *Chain) IsString() *Chain { return c.IsType(String) }
func (c *Chain) IsArray() *Chain  { return c.IsType(Array) }
func (c *Chain) IsObject() *Chain { return c.IsType(Object) }

// IsOneOfTypes asserts every candidate's type is a member of types.
func (c *Chain) IsOneOfTypes(types ...Type) *Chain {
	names := make([]string, 0, len(types))
	for _, t := range types {
		names = append(names, t.String())
	}

	return c.assertEach("is_one_of_types "+strings.Join(names, "|"), func(candidate any) (string, bool) {
		if !slices.Contains(types, typeOf(candidate)) {
			return fmt.Sprintf("unexpected %s (%s)", typeOf(candidate), formatValue(candidate)), false
		}
		return "", true
	})
}

// IsEmpty asserts every candidate is an array, object or string of
// size zero. Any other type is a failure, not a skip.
func (c *Chain) IsEmpty() *Chain {
	return c.assertEach("is_empty", func(candidate any) (string, bool) {
		size, ok := jsontype.Size(candidate)
		if !ok {
			return fmt.Sprintf("%s has no size", jsontype.Classify(candidate)), false
		}
		if size != 0 {
			return fmt.Sprintf("size %d, want 0", size), false
		}
		return "", true
	})
}

// IsNotEmpty asserts every candidate is an array, object or string of
// size greater than zero.
func (c *Chain) IsNotEmpty() *Chain {
	return c.assertEach("is_not_empty", func(candidate any) (string, bool) {
		size, ok := jsontype.Size(candidate)
		if !ok {
			return fmt.Sprintf("%s has no size", jsontype.Classify(candidate)), false
		}
		if size == 0 {
			return "size 0, want > 0", false
		}
		return "", true
	})
}

// HasSize asserts every array, object or string candidate has exactly
// n elements.
func (c *Chain) HasSize(n int) *Chain {
	return c.assertEach(fmt.Sprintf("has_size %d", n), func(candidate any) (string, bool) {
		size, ok := jsontype.Size(candidate)
		if !ok {
			return fmt.Sprintf("%s has no size", jsontype.Classify(candidate)), false
		}
		if size != n {
			return fmt.Sprintf("size %d, want %d", size, n), false
		}
		return "", true
	})
}

// HasElement asserts every array candidate contains an element equal
// to value, or every string candidate contains value as a substring.
func (c *Chain) HasElement(value any) *Chain {
	return c.assertEach("has_element "+formatValue(value), func(candidate any) (string, bool) {
		switch current := candidate.(type) {
		case []any:
			for _, element := range current {
				if jsontype.Equal(element, value) {
					return "", true
				}
			}
			return fmt.Sprintf("element %s not found in %s", formatValue(value), formatValue(candidate)), false
		case string:
			substring, ok := value.(string)
			if !ok {
				return fmt.Sprintf("cannot search %s in a string", formatValue(value)), false
			}
			if !strings.Contains(current, substring) {
				return fmt.Sprintf("substring %q not found in %q", substring, current), false
			}
			return "", true
		default:
			return fmt.Sprintf("expected array or string, got %s", jsontype.Classify(candidate)), false
		}
	})
}

// MustBe asserts every candidate equals value.
func (c *Chain) MustBe(value any) *Chain {
	return c.assertEach("must_be "+formatValue(value), func(candidate any) (string, bool) {
		if !jsontype.Equal(candidate, value) {
			return fmt.Sprintf("%s does not equal %s", formatValue(candidate), formatValue(value)), false
		}
		return "", true
	})
}

// MustNotBe asserts no candidate equals value.
func (c *Chain) MustNotBe(value any) *Chain {
	return c.assertEach("must_not_be "+formatValue(value), func(candidate any) (string, bool) {
		if jsontype.Equal(candidate, value) {
			return fmt.Sprintf("%s equals %s", formatValue(candidate), formatValue(value)), false
		}
		return "", true
	})
}

// MustContain asserts every candidate resolves path. With a value
// argument the resolved value must also equal it; passing an explicit
// nil asserts the path exists and holds null. At most one value is
// used; the variadic form distinguishes "no value supplied" from a
// supplied zero value.
func (c *Chain) MustContain(path string, value ...any) *Chain {
	description := "must_contain " + path
	if len(value) > 0 {
		description += "=" + formatValue(value[0])
	}

	return c.assertEach(description, func(candidate any) (string, bool) {
		r := c.resolveFrom(candidate, path)
		if !r.Found {
			return fmt.Sprintf("path %s not found in %s", path, formatValue(candidate)), false
		}
		if len(value) > 0 && !jsontype.Equal(r.Value, value[0]) {
			return fmt.Sprintf("path %s resolved to %s, want %s", path, formatValue(r.Value), formatValue(value[0])), false
		}
		return "", true
	})
}

// MustNotContain asserts no candidate resolves path, or, with a value
// argument, that no candidate resolves it to an equal value.
func (c *Chain) MustNotContain(path string, value ...any) *Chain {
	description := "must_not_contain " + path
	if len(value) > 0 {
		description += "=" + formatValue(value[0])
	}

	return c.assertEach(description, func(candidate any) (string, bool) {
		r := c.resolveFrom(candidate, path)
		if !r.Found {
			return "", true
		}
		if len(value) == 0 {
			return fmt.Sprintf("path %s found in %s", path, formatValue(candidate)), false
		}
		if jsontype.Equal(r.Value, value[0]) {
			return fmt.Sprintf("path %s resolved to %s", path, formatValue(r.Value)), false
		}
		return "", true
	})
}

// MustBeginWith asserts every candidate is a string starting with
// prefix.
func (c *Chain) MustBeginWith(prefix string) *Chain {
	return c.assertEach(fmt.Sprintf("must_begin_with %q", prefix), func(candidate any) (string, bool) {
		current, ok := candidate.(string)
		if !ok {
			return fmt.Sprintf("expected string, got %s", jsontype.Classify(candidate)), false
		}
		if !strings.HasPrefix(current, prefix) {
			return fmt.Sprintf("%q does not begin with %q", current, prefix), false
		}
		return "", true
	})
}

// MustEndWith asserts every candidate is a string ending with suffix.
func (c *Chain) MustEndWith(suffix string) *Chain {
	return c.assertEach(fmt.Sprintf("must_end_with %q", suffix), func(candidate any) (string, bool) {
		current, ok := candidate.(string)
		if !ok {
			return fmt.Sprintf("expected string, got %s", jsontype.Classify(candidate)), false
		}
		if !strings.HasSuffix(current, suffix) {
			return fmt.Sprintf("%q does not end with %q", current, suffix), false
		}
		return "", true
	})
}

// MustSatisfy asserts predicate returns true for every candidate.
func (c *Chain) MustSatisfy(description string, predicate func(candidate any) bool) *Chain {
	return c.assertEach("must_satisfy "+description, func(candidate any) (string, bool) {
		if !predicate(candidate) {
			return fmt.Sprintf("%s does not satisfy %s", formatValue(candidate), description), false
		}
		return "", true
	})
}

// MustMatchRegex asserts every candidate is a string matching pattern.
// An invalid pattern is a step failure, not a panic.
func (c *Chain) MustMatchRegex(pattern string) *Chain {
	return c.appendStep(fmt.Sprintf("must_match_regex %q", pattern), func(s *eval.State) eval.Result {
		compiled, err := regexp.Compile(pattern)
		if err != nil {
			return fail("invalid pattern: %v", err)
		}

		if len(s.Candidates) == 0 {
			return fail("expected at least 1 candidate")
		}

		for _, candidate := range s.Candidates {
			current, ok := candidate.(string)
			if !ok {
				return fail("expected string, got %s", jsontype.Classify(candidate))
			}
			if !compiled.MatchString(current) {
				return fail("%q does not match %q", current, pattern)
			}
		}

		return pass("%d candidate(s)", len(s.Candidates))
	})
}

// MustSelected asserts the candidate count mid-chain without
// finalizing.
func (c *Chain) MustSelected(n int) *Chain {
	c.appendCount("must_selected", "exactly", n, func(have, want int) bool { return have == want })
	return c
}
