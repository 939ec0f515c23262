package checkfile

import (
	"errors"
	"strings"
	"testing"
)

func TestParse(t *testing.T) {
	t.Parallel()

	input := `
description: crew roster checks
document:
  inline:
    crew:
      - {name: Dan, role: engineer}
      - {name: Mona, role: pilot}
expect:
  - describe: engineer present
    steps:
      - at: /crew
      - with_objects
      - containing: {key: role, value: engineer}
      - must_contain: {path: name, value: Dan}
      - exactly: 1
  - steps:
      - at: /crew/0/name
      - is_string
      - verify
`

	file, err := Parse(strings.NewReader(input))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	if file.Description != "crew roster checks" {
		t.Errorf("Description = %q, want crew roster checks", file.Description)
	}
	if !file.Document.HasInline {
		t.Error("Document.HasInline = false, want true")
	}
	if len(file.Expect) != 2 {
		t.Fatalf("len(Expect) = %d, want 2", len(file.Expect))
	}

	first := file.Expect[0]
	if first.Describe != "engineer present" {
		t.Errorf("Describe = %q, want engineer present", first.Describe)
	}
	wantOps := []string{"at", "with_objects", "containing", "must_contain", "exactly"}
	if len(first.Steps) != len(wantOps) {
		t.Fatalf("len(Steps) = %d, want %d", len(first.Steps), len(wantOps))
	}
	for i, op := range wantOps {
		if first.Steps[i].Op != op {
			t.Errorf("Steps[%d].Op = %q, want %q", i, first.Steps[i].Op, op)
		}
	}

	containing := first.Steps[2]
	if containing.Key != "role" || containing.Value != "engineer" {
		t.Errorf("containing = %+v, want key=role value=engineer", containing)
	}
	if got := first.Steps[4].Count; got != 1 {
		t.Errorf("exactly count = %d, want 1", got)
	}
	if !first.Steps[4].Finalizing() {
		t.Error("exactly step should be finalizing")
	}
}

func TestParseAnyOf(t *testing.T) {
	t.Parallel()

	input := `
document:
  inline: {role: user}
expect:
  - steps:
      - at: /role
      - any_of:
          - - must_be: admin
          - - must_be: user
            - must_begin_with: us
      - verify
`

	file, err := Parse(strings.NewReader(input))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	anyOf := file.Expect[0].Steps[1]
	if anyOf.Op != "any_of" {
		t.Fatalf("Steps[1].Op = %q, want any_of", anyOf.Op)
	}
	if len(anyOf.Branches) != 2 {
		t.Fatalf("len(Branches) = %d, want 2", len(anyOf.Branches))
	}
	if got := len(anyOf.Branches[1]); got != 2 {
		t.Fatalf("branch 2 has %d step(s), want 2", got)
	}
	if anyOf.Branches[1][1].Op != "must_begin_with" {
		t.Errorf("branch 2 step 2 op = %q, want must_begin_with", anyOf.Branches[1][1].Op)
	}
}

func TestParseDocumentSources(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{
			name: "file_source",
			input: `
document:
  file: payload.json
expect:
  - steps: [is_object, verify]
`,
		},
		{
			name: "url_source",
			input: `
document:
  url: https://example.com/payload.json
expect:
  - steps: [is_object, verify]
`,
		},
		{
			name: "inline_null_is_a_source",
			input: `
document:
  inline: null
expect:
  - steps: [is_null, verify]
`,
		},
		{
			name: "no_source",
			input: `
document: {}
expect:
  - steps: [is_object, verify]
`,
			wantErr: true,
		},
		{
			name: "two_sources",
			input: `
document:
  file: payload.json
  url: https://example.com/payload.json
expect:
  - steps: [is_object, verify]
`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(strings.NewReader(tt.input))
			if (err != nil) != tt.wantErr {
				t.Fatalf("Parse() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr && !errors.Is(err, ErrInvalidFile) {
				t.Fatalf("Parse() error = %v, want ErrInvalidFile", err)
			}
		})
	}
}

func TestParseStepErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		steps string
	}{
		{name: "unknown_op", steps: `[frobnicate, verify]`},
		{name: "finalizer_not_last", steps: `[verify, is_object]`},
		{name: "at_without_path", steps: `[at, verify]`},
		{name: "exactly_non_integer", steps: `[{exactly: soon}]`},
		{name: "is_type_unknown_name", steps: `[{is_type: tuple}, verify]`},
		{name: "must_satisfy_unavailable", steps: `[{must_satisfy: positive}, verify]`},
		{name: "containing_missing_value", steps: `[{containing: {key: role}}, verify]`},
		{name: "any_of_single_branch", steps: `[{any_of: [[{must_be: a}]]}, verify]`},
		{name: "any_of_nested_finalizer", steps: `[{any_of: [[{must_be: a}], [verify]]}]`},
		{name: "empty_steps", steps: `[]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input := "document:\n  inline: {}\nexpect:\n  - steps: " + tt.steps + "\n"
			_, err := Parse(strings.NewReader(input))
			if err == nil {
				t.Fatal("Parse() error = nil, want error")
			}
			if !errors.Is(err, ErrInvalidStep) {
				t.Fatalf("Parse() error = %v, want ErrInvalidStep", err)
			}
		})
	}
}

func TestParseRejectsMissingExpectations(t *testing.T) {
	t.Parallel()

	input := `
document:
  inline: {}
`
	_, err := Parse(strings.NewReader(input))
	if !errors.Is(err, ErrInvalidFile) {
		t.Fatalf("Parse() error = %v, want ErrInvalidFile", err)
	}
}
