package score

import (
	"github.com/applyrank/applyrank/internal/applicant"
	"github.com/applyrank/applyrank/internal/formula"
)

// Env resolves formula variables for one applicant. Resolution is a closed
// dispatch, layered so the same formula text keeps working across editions
// whose survey fields differ slightly:
//
//  1. the literal name "nan" (intentional abstention)
//  2. "motivation": mean of recorded reviewer scores, NaN when ungraded
//  3. configured rating categories, looked up on the raw survey answer;
//     an empty answer means "not asked this edition" and resolves to NaN
//  4. plain applicant attributes, with type coercion
//  5. per-run parameters such as "location"
//
// Anything else is an unknown variable.
type Env struct {
	Person *applicant.Person
	Rules  *Rules
}

// Resolve implements formula.Resolver.
func (e Env) Resolve(name string) (formula.Value, error) {
	if name == "nan" {
		return formula.NaN(), nil
	}
	if name == "motivation" {
		return formula.Number(e.Person.MotivationMean()), nil
	}

	if e.Rules.Ratings().Has(name) {
		raw, _ := e.Person.RawValue(name)
		if raw == "" {
			return formula.NaN(), nil
		}
		value, err := e.Rules.Ratings().Lookup(name, raw)
		if err != nil {
			return formula.Value{}, err
		}
		return formula.Number(value), nil
	}

	if v, ok := e.attr(name); ok {
		return v, nil
	}

	if v, ok := e.Rules.Param(name); ok {
		return formula.String(v), nil
	}

	return formula.Value{}, &formula.UnknownVariableError{Name: name}
}

// attr is the attribute dispatch table: every plain applicant variable a
// formula may legally reference, in one place.
func (e Env) attr(name string) (formula.Value, bool) {
	p := e.Person
	switch name {
	case "born":
		return formula.Number(float64(p.Born)), true
	case "gender":
		return formula.String(p.GenderLabel()), true
	case "nonmale", "female": // "female" is a compat alias in old formulas
		return formula.Bool(p.Nonmale()), true
	case "applied":
		return formula.Number(float64(p.NApplied)), true
	case "nationality":
		return formula.String(p.Nationality), true
	case "affiliation":
		return formula.String(p.Affiliation), true
	case "institute":
		return formula.String(p.Institute), true
	case "group":
		return formula.String(p.Group), true
	case "email":
		return formula.String(p.Email), true
	case "labels":
		return formula.Strings(p.Labels()), true
	}
	return formula.Value{}, false
}
