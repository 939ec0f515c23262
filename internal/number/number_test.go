package number

import (
	"encoding/json"
	"testing"
)

func TestToFloat64(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input any
		ok    bool
		want  float64
	}{
		{name: "int", input: int(10), ok: true, want: 10},
		{name: "int64", input: int64(-3), ok: true, want: -3},
		{name: "uint64", input: uint64(9), ok: true, want: 9},
		{name: "float64", input: 12.5, ok: true, want: 12.5},
		{name: "json_number_integral", input: json.Number("200000"), ok: true, want: 200000},
		{name: "json_number_fractional", input: json.Number("200000.0"), ok: true, want: 200000},
		{name: "json_number_invalid", input: json.Number("nope"), ok: false, want: 0},
		{name: "non_numeric", input: "x", ok: false, want: 0},
		{name: "nil", input: nil, ok: false, want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ToFloat64(tt.input)
			if ok != tt.ok {
				t.Fatalf("ToFloat64(%v) ok = %v, want %v", tt.input, ok, tt.ok)
			}
			if got != tt.want {
				t.Fatalf("ToFloat64(%v) value = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestToStrictInt(t *testing.T) {
	t.Parallel()

	if got, err := ToStrictInt(int64(7)); err != nil || got != 7 {
		t.Fatalf("ToStrictInt(int64(7)) = (%d, %v), want (7, nil)", got, err)
	}

	if got, err := ToStrictInt(json.Number("12")); err != nil || got != 12 {
		t.Fatalf("ToStrictInt(json.Number(12)) = (%d, %v), want (12, nil)", got, err)
	}

	if _, err := ToStrictInt(4.2); err == nil {
		t.Fatal("ToStrictInt(4.2) expected error")
	}

	if _, err := ToStrictInt(json.Number("4.2")); err == nil {
		t.Fatal("ToStrictInt(json.Number(4.2)) expected error")
	}
}
