package jsonexpect

import (
	"fmt"

	"github.com/jacoelho/jsonexpect/internal/jsontype"
)

// Type identifies the JSON kind of a value under evaluation.
// The constants mirror internal/jsontype ordinals.
type Type int

const (
	Null Type = iota
	Bool
	Number
	String
	Array
	Object
)

func (t Type) String() string {
	return jsontype.Type(t).String()
}

// ParseType maps a type name such as "string" or "array" to its Type.
func ParseType(name string) (Type, error) {
	for t := Null; t <= Object; t++ {
		if t.String() == name {
			return t, nil
		}
	}
	return 0, fmt.Errorf("unknown JSON type %q", name)
}

func typeOf(value any) Type {
	return Type(jsontype.Classify(value))
}
