package score

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/applyrank/applyrank/internal/formula"
)

// Analysis is the result of brute-forcing a formula over synthetic variable
// domains: the achievable score range and the share of that range each
// top-level additive term is responsible for.
type Analysis struct {
	Min, Max float64
	// Terms preserves the order the additive terms appear in the formula;
	// Contributions maps each term's text to its percentage of the range.
	Terms         []string
	Contributions map[string]float64
}

// Degenerate reports the defined "nothing to analyze" signal: a formula with
// no analyzable variables yields (NaN, NaN, {}).
func (a *Analysis) Degenerate() bool {
	return math.IsNaN(a.Min) && math.IsNaN(a.Max)
}

// mapResolver serves fixed variable assignments during range analysis.
type mapResolver map[string]formula.Value

func (m mapResolver) Resolve(name string) (formula.Value, error) {
	v, ok := m[name]
	if !ok {
		return formula.Value{}, &formula.UnknownVariableError{Name: name}
	}
	return v, nil
}

// Analyze exhaustively evaluates the current formula over a small synthetic
// domain per free variable and returns the global min/max plus per-term
// contributions. This is deliberate brute force, not optimization: the
// domains are shrunk by construction so the Cartesian product stays small,
// and exact min/max is required for the score bound invariant.
//
// appliedMax is the largest times-applied count seen in the pool; countries
// is the set of nationalities and affiliation countries present in the pool,
// used only to pick out the ones literally quoted in the formula.
func Analyze(rules *Rules, appliedMax int, countries []string) (*Analysis, error) {
	f := rules.Formula()
	if f == nil {
		return nil, ErrNoFormula
	}

	names := f.Vars()
	domains := make([][]formula.Value, 0, len(names))
	used := make([]string, 0, len(names))
	for _, name := range names {
		domain, err := rules.domainFor(name, f.Text(), appliedMax, countries)
		if err != nil {
			return nil, err
		}
		domains = append(domains, domain)
		used = append(used, name)
	}

	combos := cartesian(used, domains)
	if len(combos) == 0 {
		return &Analysis{Min: math.NaN(), Max: math.NaN(),
			Contributions: map[string]float64{}}, nil
	}

	min, max, err := evalRange(f, combos)
	if err != nil {
		return nil, err
	}

	analysis := &Analysis{Min: min, Max: max,
		Contributions: make(map[string]float64)}
	for _, term := range f.Terms() {
		tmin, tmax, err := evalRange(term, combos)
		if err != nil {
			return nil, err
		}
		text := strings.TrimSpace(term.Text())
		analysis.Terms = append(analysis.Terms, text)
		analysis.Contributions[text] = (tmax - tmin) / (max - min) * 100
	}
	return analysis, nil
}

// domainFor builds the representative value domain for one free variable.
// Labels get an empty domain on purpose: they are additive ranking bonuses,
// and enumerating label combinations would explode the product.
func (r *Rules) domainFor(name, formulaText string, appliedMax int, countries []string) ([]formula.Value, error) {
	switch name {
	case "born":
		return numbers(1900, float64(time.Now().Year())), nil
	case "gender":
		return strs("M", "F", "O", "U"), nil
	case "nonmale", "female":
		return []formula.Value{formula.Bool(false), formula.Bool(true)}, nil
	case "applied":
		return numbers(0, float64(appliedMax)), nil
	case "nationality", "affiliation":
		return strs(countryDomain(formulaText, r.location, countries)...), nil
	case "location":
		return strs(r.location), nil
	case "motivation":
		return numbers(-1, 0, 1), nil
	case "labels":
		return nil, nil
	}
	if r.ratings.Has(name) {
		return numbers(r.ratings.Values(name)...), nil
	}
	return nil, fmt.Errorf("no analysis domain for variable %q", name)
}

// countryDomain picks the countries that matter for range analysis: two
// synthetic "nowhere" sentinels (so terms like nationality != affiliation
// still have something to differ on), the home location (for terms like
// nationality != location), and every pool country literally quoted in the
// formula. Enumerating the whole pool would explode combinatorially.
func countryDomain(formulaText, location string, countries []string) []string {
	domain := []string{"NOWHERE", "NOWHERE2", location}
	for _, country := range countries {
		if country == location {
			continue
		}
		if strings.Contains(formulaText, "'"+country+"'") ||
			strings.Contains(formulaText, `"`+country+`"`) {
			domain = append(domain, country)
		}
	}
	return domain
}

type assignment struct {
	names  []string
	values []formula.Value
}

func (a assignment) resolver() mapResolver {
	m := make(mapResolver, len(a.names))
	for i, name := range a.names {
		m[name] = a.values[i]
	}
	return m
}

// cartesian enumerates the full product of the per-variable domains. An
// empty domain for any variable yields no combinations at all.
func cartesian(names []string, domains [][]formula.Value) []assignment {
	if len(names) == 0 {
		return nil
	}
	total := 1
	for _, d := range domains {
		total *= len(d)
	}
	if total == 0 {
		return nil
	}

	combos := make([]assignment, 0, total)
	idx := make([]int, len(domains))
	for {
		values := make([]formula.Value, len(domains))
		for i, d := range domains {
			values[i] = d[idx[i]]
		}
		combos = append(combos, assignment{names: names, values: values})

		i := len(idx) - 1
		for ; i >= 0; i-- {
			idx[i]++
			if idx[i] < len(domains[i]) {
				break
			}
			idx[i] = 0
		}
		if i < 0 {
			return combos
		}
	}
}

func evalRange(f *formula.Formula, combos []assignment) (min, max float64, err error) {
	min, max = math.NaN(), math.NaN()
	for _, combo := range combos {
		v, err := f.EvalNumber(combo.resolver())
		if err != nil {
			return 0, 0, err
		}
		if math.IsNaN(v) {
			continue
		}
		if math.IsNaN(min) || v < min {
			min = v
		}
		if math.IsNaN(max) || v > max {
			max = v
		}
	}
	return min, max, nil
}

func numbers(vals ...float64) []formula.Value {
	out := make([]formula.Value, len(vals))
	for i, v := range vals {
		out[i] = formula.Number(v)
	}
	return out
}

func strs(vals ...string) []formula.Value {
	out := make([]formula.Value, len(vals))
	for i, v := range vals {
		out[i] = formula.String(v)
	}
	return out
}
