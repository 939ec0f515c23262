// Package jsontype classifies decoded JSON values and compares them
// structurally with numeric coercion.
package jsontype

import (
	"reflect"

	"github.com/jacoelho/jsonexpect/internal/number"
)

// Type is the closed set of JSON value kinds.
type Type int

const (
	Null Type = iota
	Bool
	Number
	String
	Array
	Object
)

var typeNames = map[Type]string{
	Null:   "null",
	Bool:   "bool",
	Number: "number",
	String: "string",
	Array:  "array",
	Object: "object",
}

func (t Type) String() string {
	if name, ok := typeNames[t]; ok {
		return name
	}
	return "unknown"
}

// Classify maps a decoded JSON value to its Type. It is total for values
// produced by encoding/json; foreign Go values fall back to reflection.
func Classify(value any) Type {
	if value == nil {
		return Null
	}

	if _, ok := number.ToFloat64(value); ok {
		return Number
	}

	switch value.(type) {
	case bool:
		return Bool
	case string:
		return String
	case []any:
		return Array
	case map[string]any:
		return Object
	}

	reflected := reflect.ValueOf(value)
	for reflected.Kind() == reflect.Interface || reflected.Kind() == reflect.Ptr {
		if reflected.IsNil() {
			return Null
		}
		reflected = reflected.Elem()
	}

	switch reflected.Kind() {
	case reflect.Bool:
		return Bool
	case reflect.String:
		return String
	case reflect.Array, reflect.Slice:
		return Array
	default:
		return Object
	}
}

// Equal reports deep structural equality between two JSON values.
// Numeric operands of any representation compare as float64, objects
// compare key sets order-independently, arrays compare elementwise in
// order, scalars compare by kind and value.
func Equal(a, b any) bool {
	if aNumber, ok := number.ToFloat64(a); ok {
		bNumber, ok := number.ToFloat64(b)
		return ok && aNumber == bNumber
	}

	switch aValue := a.(type) {
	case nil:
		return b == nil
	case bool:
		bValue, ok := b.(bool)
		return ok && aValue == bValue
	case string:
		bValue, ok := b.(string)
		return ok && aValue == bValue
	case []any:
		bValue, ok := b.([]any)
		if !ok || len(aValue) != len(bValue) {
			return false
		}
		for i := range aValue {
			if !Equal(aValue[i], bValue[i]) {
				return false
			}
		}
		return true
	case map[string]any:
		bValue, ok := b.(map[string]any)
		if !ok || len(aValue) != len(bValue) {
			return false
		}
		for key, value := range aValue {
			other, exists := bValue[key]
			if !exists || !Equal(value, other) {
				return false
			}
		}
		return true
	default:
		return reflect.DeepEqual(a, b)
	}
}

// Size returns the element count of array, object and string values.
func Size(value any) (int, bool) {
	switch current := value.(type) {
	case string:
		return len(current), true
	case []any:
		return len(current), true
	case map[string]any:
		return len(current), true
	default:
		return 0, false
	}
}
