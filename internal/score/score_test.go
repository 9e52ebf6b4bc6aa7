package score

import (
	"errors"
	"math"
	"testing"

	"github.com/applyrank/applyrank/internal/applicant"
	"github.com/applyrank/applyrank/internal/formula"
	"github.com/applyrank/applyrank/internal/rating"
)

func testRules(t *testing.T, formulaText string) *Rules {
	t.Helper()
	rules := NewRules()

	tables := make(rating.Tables)
	tables.Set("programming", "novice", 0)
	tables.Set("programming", "competent", 0.5)
	tables.Set("programming", "expert", 1)
	tables.Set("open_source", "never used", 0)
	tables.Set("open_source", "user", 0.3)
	tables.Set("open_source", "project membership", 1)
	rules.SetRatings(tables)
	rules.SetLocation("Freedonia")

	if err := rules.SetFormula(formulaText); err != nil {
		t.Fatalf("SetFormula(%q) failed: %v", formulaText, err)
	}
	return rules
}

func testPerson() *applicant.Person {
	return &applicant.Person{
		Name:        "Marie",
		Lastname:    "Curie",
		Gender:      "female",
		Programming: "Expert (10+ years)",
		OpenSource:  "User",
		Nationality: "Sylvania",
		Affiliation: "Freedonia",
		Born:        1990,
	}
}

func TestResolveOrder(t *testing.T) {
	rules := testRules(t, "programming")
	p := testPerson()
	env := Env{Person: p, Rules: rules}

	// literal nan
	v, err := env.Resolve("nan")
	if err != nil || !math.IsNaN(v.Num) {
		t.Errorf("Resolve(nan) = %v, %v", v, err)
	}

	// rating category on the raw answer, normalized
	v, err = env.Resolve("programming")
	if err != nil || v.Num != 1 {
		t.Errorf("Resolve(programming) = %v, %v", v, err)
	}

	// plain attribute
	v, err = env.Resolve("gender")
	if err != nil || v.Str != "F" {
		t.Errorf("Resolve(gender) = %v, %v", v, err)
	}

	// parameter
	v, err = env.Resolve("location")
	if err != nil || v.Str != "Freedonia" {
		t.Errorf("Resolve(location) = %v, %v", v, err)
	}

	var unknown *formula.UnknownVariableError
	if _, err := env.Resolve("juggling"); !errors.As(err, &unknown) {
		t.Errorf("expected UnknownVariableError, got %v", err)
	}
}

func TestResolveEmptyAnswerIsNaN(t *testing.T) {
	rules := testRules(t, "programming")
	p := testPerson()
	p.Programming = "" // field not present this edition
	env := Env{Person: p, Rules: rules}

	v, err := env.Resolve("programming")
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if !math.IsNaN(v.Num) {
		t.Errorf("empty answer resolved to %v, want NaN", v.Num)
	}
}

func TestResolveUnratedAnswerFails(t *testing.T) {
	rules := testRules(t, "programming")
	p := testPerson()
	p.Programming = "wizard"

	scorer := NewScorer(rules)
	_, err := scorer.Score(p)
	var notRated *rating.NotRatedError
	if !errors.As(err, &notRated) {
		t.Fatalf("expected NotRatedError, got %v", err)
	}
}

func TestMotivationResolution(t *testing.T) {
	rules := testRules(t, "motivation")
	p := testPerson()
	scorer := NewScorer(rules)

	// ungraded: NaN, not zero
	v, err := scorer.Score(p)
	if err != nil {
		t.Fatalf("Score failed: %v", err)
	}
	if !math.IsNaN(v) {
		t.Errorf("ungraded motivation scored %v, want NaN", v)
	}

	p.SetMotivationScore("alice", 1)
	p.SetMotivationScore("bob", 0)
	v, err = scorer.Score(p)
	if err != nil {
		t.Fatalf("Score failed: %v", err)
	}
	if v != 0.5 {
		t.Errorf("Score = %v, want 0.5", v)
	}
}

func TestScoreRounding(t *testing.T) {
	if got := Round(1.2600000000000002); got != 1.26 {
		t.Errorf("Round = %v, want 1.26", got)
	}
	if got := Round(0.000004); got != 0 {
		t.Errorf("Round = %v, want 0", got)
	}
	if !math.IsNaN(Round(math.NaN())) {
		t.Error("Round(NaN) must stay NaN")
	}
}

func TestScoreCaching(t *testing.T) {
	rules := testRules(t, "programming + motivation")
	p := testPerson()
	p.SetMotivationScore("alice", 0)
	scorer := NewScorer(rules)

	first, err := scorer.Score(p)
	if err != nil {
		t.Fatalf("Score failed: %v", err)
	}
	if first != 1 {
		t.Errorf("Score = %v, want 1", first)
	}

	// an applicant edit must invalidate the cached value
	p.SetMotivationScore("alice", 1)
	second, err := scorer.Score(p)
	if err != nil {
		t.Fatalf("Score failed: %v", err)
	}
	if second != 2 {
		t.Errorf("Score after applicant edit = %v, want 2", second)
	}

	// a rules edit must invalidate it too
	rules.SetRating("programming", "expert", 0.5)
	third, err := scorer.Score(p)
	if err != nil {
		t.Fatalf("Score failed: %v", err)
	}
	if third != 1.5 {
		t.Errorf("Score after rules edit = %v, want 1.5", third)
	}

	// unrelated applicants are cached independently
	q := testPerson()
	q.Name = "Ada"
	q.Programming = "novice"
	q.SetMotivationScore("alice", 1)
	qs, err := scorer.Score(q)
	if err != nil {
		t.Fatalf("Score failed: %v", err)
	}
	if qs != 1 {
		t.Errorf("Score(q) = %v, want 1", qs)
	}
	if again, _ := scorer.Score(p); again != third {
		t.Errorf("Score(p) changed to %v after scoring q", again)
	}
}

func TestScoreWithoutFormula(t *testing.T) {
	scorer := NewScorer(NewRules())
	if _, err := scorer.Score(testPerson()); !errors.Is(err, ErrNoFormula) {
		t.Errorf("expected ErrNoFormula, got %v", err)
	}
}

func TestCheckBounds(t *testing.T) {
	p := testPerson()

	if err := CheckBounds(p, 1.5, 0, 2); err != nil {
		t.Errorf("in-range score flagged: %v", err)
	}
	if err := CheckBounds(p, 3, 0, 2); err == nil {
		t.Error("out-of-range score not flagged")
	}
	if err := CheckBounds(p, math.NaN(), 0, 2); err != nil {
		t.Errorf("NaN score flagged: %v", err)
	}

	// labels push scores outside the analyzed range legitimately
	p.AddLabel("VIP")
	if err := CheckBounds(p, 1000, 0, 2); err != nil {
		t.Errorf("labeled score flagged: %v", err)
	}
}

func TestAnalyze(t *testing.T) {
	rules := testRules(t, "programming + (nationality != affiliation)")

	analysis, err := Analyze(rules, 1, []string{"Sylvania", "Freedonia"})
	if err != nil {
		t.Fatalf("Analyze failed: %v", err)
	}
	if analysis.Degenerate() {
		t.Fatal("unexpected degenerate analysis")
	}
	if analysis.Min != 0 || analysis.Max != 2 {
		t.Errorf("range = [%v, %v], want [0, 2]", analysis.Min, analysis.Max)
	}

	if len(analysis.Terms) != 2 {
		t.Fatalf("terms = %v", analysis.Terms)
	}
	if c := analysis.Contributions["programming"]; c != 50 {
		t.Errorf("programming contribution = %v, want 50", c)
	}
	if c := analysis.Contributions["(nationality != affiliation)"]; c != 50 {
		t.Errorf("comparison contribution = %v, want 50", c)
	}
}

func TestAnalyzeLocationTerm(t *testing.T) {
	// the home location must appear in the country domains so this term can
	// take both values
	rules := testRules(t, "(nationality != location) / 2")

	analysis, err := Analyze(rules, 1, nil)
	if err != nil {
		t.Fatalf("Analyze failed: %v", err)
	}
	if analysis.Min != 0 || analysis.Max != 0.5 {
		t.Errorf("range = [%v, %v], want [0, 0.5]", analysis.Min, analysis.Max)
	}
}

func TestAnalyzeQuotedCountry(t *testing.T) {
	rules := testRules(t, "(nationality == 'Sylvania') + programming")

	// Sylvania is quoted in the formula, so it must enter the domain even
	// though it is not the home location
	analysis, err := Analyze(rules, 1, []string{"Sylvania", "Freedonia"})
	if err != nil {
		t.Fatalf("Analyze failed: %v", err)
	}
	if analysis.Min != 0 || analysis.Max != 2 {
		t.Errorf("range = [%v, %v], want [0, 2]", analysis.Min, analysis.Max)
	}
}

func TestAnalyzeDegenerate(t *testing.T) {
	rules := testRules(t, "1 + 2")

	analysis, err := Analyze(rules, 1, nil)
	if err != nil {
		t.Fatalf("Analyze failed: %v", err)
	}
	if !analysis.Degenerate() {
		t.Errorf("constant formula should be degenerate, got [%v, %v]", analysis.Min, analysis.Max)
	}
	if len(analysis.Contributions) != 0 {
		t.Errorf("degenerate analysis has contributions: %v", analysis.Contributions)
	}
}

func TestAnalyzeLabelsDegenerate(t *testing.T) {
	// label membership has no enumerable domain; analysis degrades to the
	// defined degenerate result instead of guessing
	rules := testRules(t, "('VIP' in labels) + programming")

	analysis, err := Analyze(rules, 1, nil)
	if err != nil {
		t.Fatalf("Analyze failed: %v", err)
	}
	if !analysis.Degenerate() {
		t.Error("expected degenerate analysis for label formulas")
	}
}

func TestAnalyzeUnknownVariable(t *testing.T) {
	rules := testRules(t, "juggling + 1")

	if _, err := Analyze(rules, 1, nil); err == nil {
		t.Error("expected an error for a variable without a domain")
	}
}

func TestEquivMaster(t *testing.T) {
	rules := NewRules()
	rules.SetEquiv("University of Oslo", []string{"UiO", "Universitetet i Oslo"})

	tests := []struct {
		in   string
		want string
	}{
		{"UiO", "University of Oslo"},
		{"uio", "University of Oslo"},
		{"university of oslo", "University of Oslo"},
		{" Somewhere Else ", "Somewhere Else"},
	}
	for _, tt := range tests {
		if got := rules.EquivMaster(tt.in); got != tt.want {
			t.Errorf("EquivMaster(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
