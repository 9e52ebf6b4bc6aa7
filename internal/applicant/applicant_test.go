package applicant

import (
	"math"
	"testing"
)

func validPerson() *Person {
	return &Person{
		Name:        "Marie",
		Lastname:    "Curie",
		Email:       "marie@example.org",
		Gender:      "female",
		Programming: "expert",
		Python:      "competent/proficient",
		Position:    "post-doctorate",
		Born:        1990,
	}
}

func TestNormalize(t *testing.T) {
	p := &Person{Name: "  Marie   Skłodowska ", Lastname: " Curie ", Email: " marie@example.org "}
	p.Normalize()

	if p.Name != "Marie Skłodowska" {
		t.Errorf("Name = %q", p.Name)
	}
	if p.Lastname != "Curie" {
		t.Errorf("Lastname = %q", p.Lastname)
	}
	if p.Email != "marie@example.org" {
		t.Errorf("Email = %q", p.Email)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(*Person)
		wantErr bool
	}{
		{"valid", func(p *Person) {}, false},
		{"mixed case values", func(p *Person) { p.Gender = "Female" }, false},
		{"bad gender", func(p *Person) { p.Gender = "yes" }, true},
		{"bad programming", func(p *Person) { p.Programming = "wizard" }, true},
		{"bad position", func(p *Person) { p.Position = "wizard" }, true},
		{"born too early", func(p *Person) { p.Born = 1850 }, true},
		{"born in the future", func(p *Person) { p.Born = 3000 }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := validPerson()
			tt.modify(p)

			if err := p.Validate(false); (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			// relaxed mode accepts anything
			if err := p.Validate(true); err != nil {
				t.Errorf("Validate(relaxed) error = %v", err)
			}
		})
	}
}

func TestGenerationBumps(t *testing.T) {
	p := validPerson()
	gen := p.Generation()

	p.AddLabel("INVITE")
	if p.Generation() == gen {
		t.Error("AddLabel must bump the generation")
	}
	gen = p.Generation()

	// adding the same label again is a no-op
	p.AddLabel("INVITE")
	if p.Generation() != gen {
		t.Error("re-adding an existing label must not bump the generation")
	}

	p.SetMotivationScore("alice", 1)
	if p.Generation() == gen {
		t.Error("SetMotivationScore must bump the generation")
	}
	gen = p.Generation()

	p.RemoveLabel("INVITE")
	if p.Generation() == gen {
		t.Error("RemoveLabel must bump the generation")
	}
	gen = p.Generation()

	p.RemoveLabel("ABSENT")
	if p.Generation() != gen {
		t.Error("removing an absent label must not bump the generation")
	}

	p.ClearLabels()
	if p.Generation() != gen {
		t.Error("clearing an empty label set must not bump the generation")
	}
}

func TestLabels(t *testing.T) {
	p := validPerson()
	p.AddLabel("VIP")
	p.AddLabel("INVITE")

	labels := p.Labels()
	if len(labels) != 2 || labels[0] != "INVITE" || labels[1] != "VIP" {
		t.Errorf("Labels() = %v, want sorted [INVITE VIP]", labels)
	}
	if !p.HasLabel("VIP") || p.HasLabel("vip") {
		t.Error("HasLabel must be exact-match")
	}

	// returned slice is a copy
	labels[0] = "MUTATED"
	if p.HasLabel("MUTATED") {
		t.Error("Labels() must return a copy")
	}
}

func TestMotivationMean(t *testing.T) {
	p := validPerson()

	if !math.IsNaN(p.MotivationMean()) {
		t.Error("mean with no reviewers must be NaN")
	}

	p.SetMotivationScore("alice", 1)
	p.SetMotivationScore("bob", 0)
	if got := p.MotivationMean(); got != 0.5 {
		t.Errorf("MotivationMean() = %v, want 0.5", got)
	}

	// abstaining reviewers have no entry and do not drag the mean down
	p.SetMotivationScore("carol", -1)
	if got := p.MotivationMean(); got != 0 {
		t.Errorf("MotivationMean() = %v, want 0", got)
	}
}

func TestGenderLabel(t *testing.T) {
	tests := []struct {
		gender string
		want   string
	}{
		{"female", "F"},
		{"Male", "M"},
		{"other", "O"},
		{"non-binary", "O"},
		{"prefer not to say", "U"},
		{"", "U"},
	}

	for _, tt := range tests {
		p := &Person{Gender: tt.gender}
		if got := p.GenderLabel(); got != tt.want {
			t.Errorf("GenderLabel(%q) = %q, want %q", tt.gender, got, tt.want)
		}
	}
}

func TestNonmale(t *testing.T) {
	if (&Person{Gender: "Male"}).Nonmale() {
		t.Error("male must not be nonmale")
	}
	if !(&Person{Gender: "female"}).Nonmale() {
		t.Error("female must be nonmale")
	}
	if !(&Person{Gender: ""}).Nonmale() {
		t.Error("undeclared must count as nonmale")
	}
}

func TestParseApplied(t *testing.T) {
	tests := []struct {
		raw  string
		want bool
	}{
		{"Yes", true},
		{"yes, in 2024", true},
		{"No", false},
		{"no", false},
		{"never", false},
		{"", false},
		{"1", true},
	}

	for _, tt := range tests {
		if got := ParseApplied(tt.raw); got != tt.want {
			t.Errorf("ParseApplied(%q) = %v, want %v", tt.raw, got, tt.want)
		}
	}
}

func TestRawValue(t *testing.T) {
	p := validPerson()
	p.Extra = map[string]string{"underrep": "yes"}

	if v, ok := p.RawValue("programming"); !ok || v != "expert" {
		t.Errorf("RawValue(programming) = %q, %v", v, ok)
	}
	if v, ok := p.RawValue("underrep"); !ok || v != "yes" {
		t.Errorf("RawValue(underrep) = %q, %v", v, ok)
	}
	if _, ok := p.RawValue("juggling"); ok {
		t.Error("expected no value for unknown category")
	}
}

func TestComputeStats(t *testing.T) {
	pool := []*Person{
		{Name: "A", Gender: "female", Nationality: "Freedonia", Affiliation: "Sylvania", Position: "phd student"},
		{Name: "B", Gender: "male", Nationality: "Freedonia", Affiliation: "Freedonia", Position: "phd student", NApplied: 2},
		{Name: "C", Gender: "other", Nationality: "", Affiliation: "Sylvania", Position: "professor"},
	}
	pool[0].AddLabel("INVITE")
	pool[1].AddLabel("INVITE")
	pool[1].AddLabel("VIP")

	stats := ComputeStats(pool)
	if stats.Total != 3 || stats.Female != 1 || stats.Male != 1 || stats.OtherGender != 1 {
		t.Errorf("gender counts wrong: %+v", stats)
	}
	if stats.Repeat != 1 {
		t.Errorf("Repeat = %d, want 1", stats.Repeat)
	}
	if stats.Labels["INVITE"] != 2 || stats.Labels["VIP"] != 1 {
		t.Errorf("label counts wrong: %v", stats.Labels)
	}
	if stats.Nationalities["Freedonia"] != 2 || stats.Nationalities["(unknown)"] != 1 {
		t.Errorf("nationality counts wrong: %v", stats.Nationalities)
	}
	if stats.Affiliations["Sylvania"] != 2 {
		t.Errorf("affiliation counts wrong: %v", stats.Affiliations)
	}
}
