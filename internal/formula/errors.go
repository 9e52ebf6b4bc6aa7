package formula

import "fmt"

// SyntaxError reports a malformed formula at parse time. Formulas are
// validated when set so evaluation never sees one of these.
type SyntaxError struct {
	Text string
	Pos  int
	Msg  string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("invalid formula syntax at offset %d: %s", e.Pos, e.Msg)
}

// UnknownVariableError means the resolver could not satisfy a variable
// reference through any of its fallback layers.
type UnknownVariableError struct {
	Name string
}

func (e *UnknownVariableError) Error() string {
	return fmt.Sprintf("unknown variable %q", e.Name)
}

// TypeError reports an operation applied to operands of the wrong type,
// e.g. ordering a string against a number.
type TypeError struct {
	Want  string
	Got   string
	Value string
}

func (e *TypeError) Error() string {
	return fmt.Sprintf("type mismatch: want %s, got %s (%s)", e.Want, e.Got, e.Value)
}
