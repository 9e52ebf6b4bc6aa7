package formula

import (
	"errors"
	"math"
	"testing"
)

// vars is a fixed-assignment resolver for tests.
type vars map[string]Value

func (v vars) Resolve(name string) (Value, error) {
	val, ok := v[name]
	if !ok {
		return Value{}, &UnknownVariableError{Name: name}
	}
	return val, nil
}

func evalNumber(t *testing.T, text string, env vars) float64 {
	t.Helper()
	f, err := Parse(text)
	if err != nil {
		t.Fatalf("Parse(%q) failed: %v", text, err)
	}
	n, err := f.EvalNumber(env)
	if err != nil {
		t.Fatalf("EvalNumber(%q) failed: %v", text, err)
	}
	return n
}

func TestArithmetic(t *testing.T) {
	tests := []struct {
		text string
		want float64
	}{
		{"1 + 2 * 3", 7},
		{"(1 + 2) * 3", 9},
		{"10 - 4 - 3", 3},
		{"7 / 2", 3.5},
		{"-3 + 5", 2},
		{"2 * -3", -6},
		{"1.5 + 0.25", 1.75},
	}

	for _, tt := range tests {
		if got := evalNumber(t, tt.text, nil); got != tt.want {
			t.Errorf("%q = %v, want %v", tt.text, got, tt.want)
		}
	}
}

func TestComparisonsCoerceToNumbers(t *testing.T) {
	tests := []struct {
		text string
		want float64
	}{
		{"(1 < 2) + (2 < 1)", 1},
		{"(3 >= 3) * 10", 10},
		{"(1 == 1) + (1 != 1)", 1},
		{"(2 > 1) + (2 > 1) + (1 > 2)", 2},
	}

	for _, tt := range tests {
		if got := evalNumber(t, tt.text, nil); got != tt.want {
			t.Errorf("%q = %v, want %v", tt.text, got, tt.want)
		}
	}
}

func TestBooleanOperators(t *testing.T) {
	env := vars{"x": Number(5), "zero": Number(0)}

	tests := []struct {
		text string
		want float64
	}{
		{"(x and 1) + 0", 1},
		{"(zero and 1) + 0", 0},
		{"(zero or 1) + 0", 1},
		{"(zero or zero) + 0", 0},
		{"(not zero) + 0", 1},
		{"(not x) + 0", 0},
		{"(x > 1 and x < 10) + 0", 1},
	}

	for _, tt := range tests {
		if got := evalNumber(t, tt.text, env); got != tt.want {
			t.Errorf("%q = %v, want %v", tt.text, got, tt.want)
		}
	}
}

func TestShortCircuit(t *testing.T) {
	// the right side references an unknown variable; short-circuiting must
	// keep it from being resolved
	env := vars{"x": Number(0)}

	if got := evalNumber(t, "(x and missing) + 0", env); got != 0 {
		t.Errorf("and short-circuit = %v, want 0", got)
	}
	if got := evalNumber(t, "(1 or missing) + 0", env); got != 1 {
		t.Errorf("or short-circuit = %v, want 1", got)
	}

	f, err := Parse("x or missing")
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	var unknownErr *UnknownVariableError
	if _, err := f.Eval(env); !errors.As(err, &unknownErr) {
		t.Errorf("expected UnknownVariableError when the right side is reached, got %v", err)
	}
}

func TestStringsAndMembership(t *testing.T) {
	env := vars{
		"gender": String("F"),
		"labels": Strings([]string{"INVITE", "VIP"}),
	}

	tests := []struct {
		text string
		want float64
	}{
		{"(gender == 'F') + 0", 1},
		{`(gender == "M") + 0`, 0},
		{"(gender != 'M') + 0", 1},
		{"('VIP' in labels) + 0", 1},
		{"('DECLINED' in labels) + 0", 0},
	}

	for _, tt := range tests {
		if got := evalNumber(t, tt.text, env); got != tt.want {
			t.Errorf("%q = %v, want %v", tt.text, got, tt.want)
		}
	}
}

func TestNaNPropagation(t *testing.T) {
	env := vars{"motivation": NaN(), "programming": Number(1)}

	got := evalNumber(t, "programming + motivation", env)
	if !math.IsNaN(got) {
		t.Errorf("expected NaN to propagate through +, got %v", got)
	}

	got = evalNumber(t, "0 / 0", nil)
	if !math.IsNaN(got) {
		t.Errorf("0/0 = %v, want NaN", got)
	}

	// NaN compares unequal to everything, including itself
	if got := evalNumber(t, "(motivation == motivation) + 0", env); got != 0 {
		t.Errorf("NaN == NaN coerced to %v, want 0", got)
	}

	// NaN is truthy
	if got := evalNumber(t, "(motivation and 1) + 0", env); got != 1 {
		t.Errorf("NaN and 1 = %v, want 1", got)
	}
}

func TestTypeErrors(t *testing.T) {
	env := vars{
		"gender": String("F"),
		"labels": Strings([]string{"VIP"}),
	}

	texts := []string{
		"gender + 1",
		"gender < 1",
		"gender == 1",
		"1 in labels",
		"gender in gender",
	}

	for _, text := range texts {
		f, err := Parse(text)
		if err != nil {
			t.Fatalf("Parse(%q) failed: %v", text, err)
		}
		var typeErr *TypeError
		if _, err := f.Eval(env); !errors.As(err, &typeErr) {
			t.Errorf("%q: expected TypeError, got %v", text, err)
		}
	}
}

func TestSyntaxErrors(t *testing.T) {
	texts := []string{
		"",
		"1 +",
		"(1 + 2",
		"1 2",
		"1 @ 2",
		"'unterminated",
		"not",
		"in labels",
	}

	for _, text := range texts {
		var synErr *SyntaxError
		if _, err := Parse(text); !errors.As(err, &synErr) {
			t.Errorf("Parse(%q): expected SyntaxError, got %v", text, err)
		}
	}
}

func TestVars(t *testing.T) {
	f, err := Parse("programming + python + (nationality != affiliation) + programming")
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	want := []string{"affiliation", "nationality", "programming", "python"}
	got := f.Vars()
	if len(got) != len(want) {
		t.Fatalf("Vars() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("Vars() = %v, want %v", got, want)
		}
	}
}

func TestTerms(t *testing.T) {
	f, err := Parse("programming + open_source + (motivation + 1) / 2")
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	terms := f.Terms()
	if len(terms) != 3 {
		t.Fatalf("expected 3 terms, got %d: %v", len(terms), terms)
	}
	if terms[0].Text() != "programming" {
		t.Errorf("first term = %q", terms[0].Text())
	}
	if terms[2].Text() != "(motivation + 1) / 2" {
		t.Errorf("third term = %q", terms[2].Text())
	}

	// '+' inside a string literal must not split
	f, err = Parse("(gender == 'a+b') + 1")
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if terms := f.Terms(); len(terms) != 2 {
		t.Errorf("expected 2 terms, got %d", len(terms))
	}

	// no top-level '+': the formula is its own single term
	f, err = Parse("programming * 2")
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if terms := f.Terms(); len(terms) != 1 || terms[0].Text() != "programming * 2" {
		t.Errorf("expected the formula itself as single term, got %v", terms)
	}
}

func TestRealisticFormula(t *testing.T) {
	text := "programming + open_source + motivation + (nationality != affiliation) + (nonmale and nationality != 'Utopia')"
	f, err := Parse(text)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	env := vars{
		"programming": Number(1),
		"open_source": Number(0.5),
		"motivation":  Number(1),
		"nationality": String("Freedonia"),
		"affiliation": String("Sylvania"),
		"nonmale":     Bool(true),
	}
	got, err := f.EvalNumber(env)
	if err != nil {
		t.Fatalf("EvalNumber failed: %v", err)
	}
	if got != 4.5 {
		t.Errorf("score = %v, want 4.5", got)
	}

	env["nonmale"] = Bool(false)
	env["nationality"] = String("Sylvania")
	got, err = f.EvalNumber(env)
	if err != nil {
		t.Fatalf("EvalNumber failed: %v", err)
	}
	if got != 2.5 {
		t.Errorf("score = %v, want 2.5", got)
	}
}
