// Package value defines the runtime values of the interpreter: a closed
// set of scalars with the equality, truthiness and printing rules the
// evaluator relies on.
package value

import (
	"fmt"
	"math"
	"strings"
)

// Kind identifies the runtime value category.
type Kind int

const (
	KindNil Kind = iota
	KindBool
	KindNumber
	KindString
)

func (k Kind) String() string {
	switch k {
	case KindNil:
		return "nil"
	case KindBool:
		return "bool"
	case KindNumber:
		return "number"
	case KindString:
		return "string"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Value is implemented only by Nil, Bool, Number and String.
type Value interface {
	Kind() Kind
	sealed()
}

// NilValue is the absence of a value.
type NilValue struct{}

// Bool is a boolean value.
type Bool bool

// Number is a double-precision number.
type Number float64

// String is a text value.
type String string

// Nil is the single nil value.
var Nil Value = NilValue{}

func (NilValue) Kind() Kind { return KindNil }
func (Bool) Kind() Kind     { return KindBool }
func (Number) Kind() Kind   { return KindNumber }
func (String) Kind() Kind   { return KindString }

func (NilValue) sealed() {}
func (Bool) sealed()     {}
func (Number) sealed()   {}
func (String) sealed()   {}

// Truthy maps a value to a boolean: nil and false are false, everything
// else is true.
func Truthy(v Value) bool {
	switch v := v.(type) {
	case nil, NilValue:
		return false
	case Bool:
		return bool(v)
	case Number, String:
		return true
	default:
		panic(fmt.Sprintf("value: unknown value %T", v))
	}
}

// Equal compares two values. Values of different kinds are never equal.
func Equal(a, b Value) bool {
	a, b = orNil(a), orNil(b)
	if a.Kind() != b.Kind() {
		return false
	}
	switch a := a.(type) {
	case NilValue:
		return true
	case Bool:
		return a == b.(Bool)
	case Number:
		return a == b.(Number)
	case String:
		return a == b.(String)
	default:
		panic(fmt.Sprintf("value: unknown value %T", a))
	}
}

// Stringify renders a value the way print shows it.
func Stringify(v Value) string {
	switch v := orNil(v).(type) {
	case NilValue:
		return "nil"
	case Bool:
		if v {
			return "true"
		}
		return "false"
	case Number:
		return FormatNumber(float64(v))
	case String:
		return string(v)
	default:
		panic(fmt.Sprintf("value: unknown value %T", v))
	}
}

// FormatNumber renders n with six decimals and drops the fraction when
// it is all zeros: 3 prints as "3", 2.5 as "2.500000".
func FormatNumber(n float64) string {
	switch {
	case math.IsNaN(n):
		return "nan"
	case math.IsInf(n, 1):
		return "inf"
	case math.IsInf(n, -1):
		return "-inf"
	}
	text := fmt.Sprintf("%f", n)
	return strings.TrimSuffix(text, ".000000")
}

func orNil(v Value) Value {
	if v == nil {
		return Nil
	}
	return v
}
