package formula

import (
	"fmt"
	"math"
	"strconv"
)

// Kind discriminates the runtime types a formula expression can produce.
type Kind int

const (
	KindNumber Kind = iota
	KindBool
	KindString
	KindList
)

func (k Kind) String() string {
	switch k {
	case KindNumber:
		return "number"
	case KindBool:
		return "bool"
	case KindString:
		return "string"
	case KindList:
		return "list"
	default:
		return "unknown"
	}
}

// Value is a tagged union for the values flowing through formula evaluation.
// Numbers and bools share the numeric slot; bools coerce to 0/1 in arithmetic.
type Value struct {
	Kind Kind
	Num  float64
	Str  string
	List []string
}

// Number wraps a float64 as a formula value.
func Number(f float64) Value { return Value{Kind: KindNumber, Num: f} }

// Bool wraps a bool as a formula value.
func Bool(b bool) Value {
	v := Value{Kind: KindBool}
	if b {
		v.Num = 1
	}
	return v
}

// String wraps a string as a formula value.
func String(s string) Value { return Value{Kind: KindString, Str: s} }

// Strings wraps a list of strings (the label set) as a formula value.
func Strings(ss []string) Value { return Value{Kind: KindList, List: ss} }

// NaN is the abstention sentinel.
func NaN() Value { return Number(math.NaN()) }

// AsNumber coerces the value to a float64. Bools become 0/1.
func (v Value) AsNumber() (float64, error) {
	switch v.Kind {
	case KindNumber, KindBool:
		return v.Num, nil
	default:
		return 0, &TypeError{Want: "number", Got: v.Kind.String(), Value: v.describe()}
	}
}

// Truthy reports whether the value counts as true in a boolean context.
// NaN is truthy, matching the numeric tower the formulas were written against.
func (v Value) Truthy() bool {
	switch v.Kind {
	case KindNumber, KindBool:
		return v.Num != 0
	case KindString:
		return v.Str != ""
	case KindList:
		return len(v.List) > 0
	default:
		return false
	}
}

func (v Value) describe() string {
	switch v.Kind {
	case KindNumber:
		return strconv.FormatFloat(v.Num, 'g', -1, 64)
	case KindBool:
		return strconv.FormatBool(v.Num != 0)
	case KindString:
		return fmt.Sprintf("%q", v.Str)
	case KindList:
		return fmt.Sprintf("%v", v.List)
	default:
		return "?"
	}
}
