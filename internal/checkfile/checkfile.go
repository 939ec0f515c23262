// Package checkfile parses declarative expectation files: YAML
// documents naming a JSON document source and the expectation chains
// to run against it.
package checkfile

import (
	"errors"
	"fmt"
	"io"

	"github.com/goccy/go-yaml"

	"github.com/jacoelho/jsonexpect"
	"github.com/jacoelho/jsonexpect/internal/number"
)

var (
	ErrInvalidFile = errors.New("invalid expectation file")
	ErrInvalidStep = errors.New("invalid step")
)

// File is one parsed expectation file.
type File struct {
	Description string
	Document    Document
	Expect      []Expectation
}

// Document names exactly one source for the JSON document under test.
type Document struct {
	Inline    any
	HasInline bool
	File      string
	URL       string
}

// Expectation is a single chain: an optional description plus the
// steps to queue on it.
type Expectation struct {
	Describe string
	Steps    []Step
}

// Step is one translated chain operation. Op selects the operation;
// the remaining fields carry its arguments.
type Step struct {
	Op       string
	Path     string
	Text     string
	Key      string
	Value    any
	HasValue bool
	Count    int
	Criteria map[string]any
	Types    []string
	Branches [][]Step
}

// Finalizing reports whether the step terminates its chain.
func (s Step) Finalizing() bool {
	switch s.Op {
	case "verify", "exactly", "at_least", "at_most":
		return true
	default:
		return false
	}
}

type fileYAML struct {
	Description string            `yaml:"description"`
	Document    documentYAML      `yaml:"document"`
	Expect      []expectationYAML `yaml:"expect"`
}

type documentYAML struct {
	Inline *any   `yaml:"inline"`
	File   string `yaml:"file"`
	URL    string `yaml:"url"`
}

type expectationYAML struct {
	Describe string `yaml:"describe"`
	Steps    []any  `yaml:"steps"`
}

// Parse decodes and validates one expectation file.
func Parse(r io.Reader) (*File, error) {
	payload, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidFile, err)
	}

	var raw fileYAML
	if err := yaml.Unmarshal(payload, &raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidFile, err)
	}

	file := &File{
		Description: raw.Description,
		Document: Document{
			File: raw.Document.File,
			URL:  raw.Document.URL,
		},
	}
	if raw.Document.Inline != nil {
		file.Document.Inline = *raw.Document.Inline
		file.Document.HasInline = true
	}

	if err := validateDocument(file.Document); err != nil {
		return nil, err
	}

	if len(raw.Expect) == 0 {
		return nil, fmt.Errorf("%w: no expectations", ErrInvalidFile)
	}

	for i, expectation := range raw.Expect {
		steps, err := translateSteps(expectation.Steps, true)
		if err != nil {
			return nil, fmt.Errorf("expectation %d: %w", i+1, err)
		}
		file.Expect = append(file.Expect, Expectation{
			Describe: expectation.Describe,
			Steps:    steps,
		})
	}

	return file, nil
}

func validateDocument(document Document) error {
	sources := 0
	if document.HasInline {
		sources++
	}
	if document.File != "" {
		sources++
	}
	if document.URL != "" {
		sources++
	}
	if sources != 1 {
		return fmt.Errorf("%w: document requires exactly one of inline, file or url", ErrInvalidFile)
	}
	return nil
}

func translateSteps(raw []any, allowFinalizer bool) ([]Step, error) {
	if len(raw) == 0 {
		return nil, fmt.Errorf("%w: no steps", ErrInvalidStep)
	}

	steps := make([]Step, 0, len(raw))
	for i, entry := range raw {
		step, err := translateStep(entry)
		if err != nil {
			return nil, fmt.Errorf("step %d: %w", i+1, err)
		}
		if step.Finalizing() {
			if !allowFinalizer {
				return nil, fmt.Errorf("%w: %q not allowed inside any_of", ErrInvalidStep, step.Op)
			}
			if i != len(raw)-1 {
				return nil, fmt.Errorf("%w: %q must be the last step", ErrInvalidStep, step.Op)
			}
		}
		steps = append(steps, step)
	}

	return steps, nil
}

func translateStep(raw any) (Step, error) {
	switch entry := raw.(type) {
	case string:
		return translateOp(entry, nil, false)
	case map[string]any:
		if len(entry) != 1 {
			return Step{}, fmt.Errorf("%w: want a single op per step, got %d keys", ErrInvalidStep, len(entry))
		}
		for op, argument := range entry {
			return translateOp(op, argument, true)
		}
	}
	return Step{}, fmt.Errorf("%w: want string or map, got %T", ErrInvalidStep, raw)
}

func translateOp(op string, argument any, hasArgument bool) (Step, error) {
	step := Step{Op: op}

	switch op {
	case "with_objects", "is_empty", "is_not_empty", "verify",
		"is_null", "is_bool", "is_number", "is_string", "is_array", "is_object":
		if hasArgument && argument != nil {
			return Step{}, fmt.Errorf("%w: %q takes no argument", ErrInvalidStep, op)
		}
		return step, nil

	case "at", "query", "must_begin_with", "must_end_with", "must_match_regex":
		text, ok := argument.(string)
		if !ok {
			return Step{}, fmt.Errorf("%w: %q requires a string argument, got %T", ErrInvalidStep, op, argument)
		}
		if op == "at" {
			step.Path = text
		} else {
			step.Text = text
		}
		return step, nil

	case "is_type":
		name, ok := argument.(string)
		if !ok {
			return Step{}, fmt.Errorf("%w: %q requires a type name, got %T", ErrInvalidStep, op, argument)
		}
		if _, err := jsonexpect.ParseType(name); err != nil {
			return Step{}, fmt.Errorf("%w: %v", ErrInvalidStep, err)
		}
		step.Text = name
		return step, nil

	case "is_one_of_types":
		names, err := stringList(argument)
		if err != nil {
			return Step{}, fmt.Errorf("%w: %q: %v", ErrInvalidStep, op, err)
		}
		for _, name := range names {
			if _, err := jsonexpect.ParseType(name); err != nil {
				return Step{}, fmt.Errorf("%w: %v", ErrInvalidStep, err)
			}
		}
		step.Types = names
		return step, nil

	case "has_size", "must_selected", "exactly", "at_least", "at_most":
		count, err := number.ToStrictInt(argument)
		if err != nil {
			return Step{}, fmt.Errorf("%w: %q requires an integer argument: %v", ErrInvalidStep, op, err)
		}
		step.Count = count
		return step, nil

	case "has_element", "must_be", "must_not_be":
		if !hasArgument {
			return Step{}, fmt.Errorf("%w: %q requires an argument", ErrInvalidStep, op)
		}
		step.Value = argument
		step.HasValue = true
		return step, nil

	case "must_satisfy":
		return Step{}, fmt.Errorf("%w: %q is only available through the Go API", ErrInvalidStep, op)

	case "containing":
		arguments, ok := argument.(map[string]any)
		if !ok {
			return Step{}, fmt.Errorf("%w: %q requires key and value arguments", ErrInvalidStep, op)
		}
		key, ok := arguments["key"].(string)
		if !ok {
			return Step{}, fmt.Errorf("%w: %q requires a string key", ErrInvalidStep, op)
		}
		value, ok := arguments["value"]
		if !ok {
			return Step{}, fmt.Errorf("%w: %q requires a value", ErrInvalidStep, op)
		}
		step.Key = key
		step.Value = value
		step.HasValue = true
		return step, nil

	case "matching":
		criteria, ok := argument.(map[string]any)
		if !ok || len(criteria) == 0 {
			return Step{}, fmt.Errorf("%w: %q requires a non-empty criteria map", ErrInvalidStep, op)
		}
		step.Criteria = criteria
		return step, nil

	case "must_contain", "must_not_contain":
		arguments, ok := argument.(map[string]any)
		if !ok {
			return Step{}, fmt.Errorf("%w: %q requires a path argument", ErrInvalidStep, op)
		}
		path, ok := arguments["path"].(string)
		if !ok {
			return Step{}, fmt.Errorf("%w: %q requires a string path", ErrInvalidStep, op)
		}
		step.Path = path
		if value, exists := arguments["value"]; exists {
			step.Value = value
			step.HasValue = true
		}
		return step, nil

	case "any_of":
		branches, ok := argument.([]any)
		if !ok || len(branches) < 2 {
			return Step{}, fmt.Errorf("%w: %q requires at least two branches", ErrInvalidStep, op)
		}
		for i, branch := range branches {
			branchSteps, ok := branch.([]any)
			if !ok {
				return Step{}, fmt.Errorf("%w: %q branch %d is not a step list", ErrInvalidStep, op, i+1)
			}
			translated, err := translateSteps(branchSteps, false)
			if err != nil {
				return Step{}, fmt.Errorf("branch %d: %w", i+1, err)
			}
			step.Branches = append(step.Branches, translated)
		}
		return step, nil

	default:
		return Step{}, fmt.Errorf("%w: unknown op %q", ErrInvalidStep, op)
	}
}

func stringList(argument any) ([]string, error) {
	entries, ok := argument.([]any)
	if !ok || len(entries) == 0 {
		return nil, fmt.Errorf("want a non-empty list, got %T", argument)
	}

	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		name, ok := entry.(string)
		if !ok {
			return nil, fmt.Errorf("want strings, got %T", entry)
		}
		names = append(names, name)
	}

	return names, nil
}
