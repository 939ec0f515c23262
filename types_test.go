package jsonexpect

import "testing"

func TestParseType(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		want    Type
		wantErr bool
	}{
		{name: "null", want: Null},
		{name: "bool", want: Bool},
		{name: "number", want: Number},
		{name: "string", want: String},
		{name: "array", want: Array},
		{name: "object", want: Object},
		{name: "tuple", wantErr: true},
		{name: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseType(tt.name)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseType(%q) error = %v, wantErr %v", tt.name, err, tt.wantErr)
			}
			if !tt.wantErr && got != tt.want {
				t.Fatalf("ParseType(%q) = %v, want %v", tt.name, got, tt.want)
			}
		})
	}
}

func TestTypeString(t *testing.T) {
	t.Parallel()

	pairs := map[Type]string{
		Null:   "null",
		Bool:   "bool",
		Number: "number",
		String: "string",
		Array:  "array",
		Object: "object",
	}

	for typ, want := range pairs {
		if got := typ.String(); got != want {
			t.Errorf("%d.String() = %q, want %q", typ, got, want)
		}
	}
}
