// Package formula parses and evaluates the user-editable scoring expression.
//
// The grammar is deliberately closed: arithmetic, comparisons, boolean
// operators, string literals and label membership over a flat variable
// namespace. There are no function calls, no attribute access and no
// assignment, so operator-supplied formula text can never execute code.
package formula

import (
	"sort"
	"strings"
)

// Formula is a parsed, validated scoring expression.
type Formula struct {
	text string
	root node
	vars []string
}

// Parse validates and compiles a formula. It is the pre-flight syntax check:
// a formula that parses here will never fail with a syntax error at
// evaluation time.
func Parse(text string) (*Formula, error) {
	root, err := parse(text)
	if err != nil {
		return nil, err
	}
	seen := make(map[string]bool)
	collectVars(root, seen)
	vars := make([]string, 0, len(seen))
	for name := range seen {
		vars = append(vars, name)
	}
	sort.Strings(vars)
	return &Formula{text: text, root: root, vars: vars}, nil
}

// Text returns the original formula source.
func (f *Formula) Text() string { return f.text }

// Vars returns the free variable names referenced by the formula, sorted.
func (f *Formula) Vars() []string { return f.vars }

// Eval evaluates the formula against the given variable resolver.
func (f *Formula) Eval(r Resolver) (Value, error) {
	return f.root.eval(r)
}

// EvalNumber evaluates the formula and coerces the result to a float64.
func (f *Formula) EvalNumber(r Resolver) (float64, error) {
	v, err := f.Eval(r)
	if err != nil {
		return 0, err
	}
	return v.AsNumber()
}

// Terms splits the formula into its top-level additive terms, each parsed as
// a formula of its own. Splitting happens at '+' signs outside parentheses
// and string literals; a formula without top-level '+' yields itself as the
// single term.
func (f *Formula) Terms() []*Formula {
	pieces := splitTerms(f.text)
	terms := make([]*Formula, 0, len(pieces))
	for _, piece := range pieces {
		t, err := Parse(strings.TrimSpace(piece))
		if err != nil {
			// the whole formula parsed, so a term that does not stand on
			// its own means the split is not meaningful here
			return []*Formula{f}
		}
		terms = append(terms, t)
	}
	return terms
}

func splitTerms(text string) []string {
	var pieces []string
	depth := 0
	var quote byte
	start := 0
	for i := 0; i < len(text); i++ {
		c := text[i]
		switch {
		case quote != 0:
			if c == quote {
				quote = 0
			}
		case c == '\'' || c == '"':
			quote = c
		case c == '(':
			depth++
		case c == ')':
			depth--
		case c == '+' && depth == 0:
			pieces = append(pieces, text[start:i])
			start = i + 1
		}
	}
	pieces = append(pieces, text[start:])
	return pieces
}
