// Package applicant holds the applicant record and its mutable state:
// labels, per-reviewer motivation scores and the generation counter that
// score caching keys off.
package applicant

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"time"
)

// Valid values for enumerated survey fields. These must match what the
// application form offers.
var (
	ValidGender = []string{"male", "female", "other"}

	ValidPosition = []string{
		"bachelor student",
		"master student",
		"phd student",
		"post-doctorate",
		"professor",
		"technician",
		"employee",
		"other",
	}

	ValidProgramming = []string{
		"novice/advanced beginner",
		"competent/proficient",
		"expert",
	}

	ValidPython = append([]string{"none"}, ValidProgramming...)
)

// Person is one applicant record. Survey fields are immutable after
// ingestion; labels and motivation scores mutate through the setters below,
// which bump the generation counter.
type Person struct {
	ID                     string
	Name                   string
	Lastname               string
	Email                  string
	Gender                 string
	Institute              string
	Group                  string
	Affiliation            string // affiliation country
	Position               string // employment or educational status
	PositionOther          string
	Programming            string // programming experience level
	ProgrammingDescription string
	Python                 string // python experience level
	VCS                    string
	OpenSource             string
	OpenSourceDescription  string
	CV                     string
	Motivation             string // motivation statement text
	Born                   int    // birth year
	Nationality            string
	Applied                bool   // already applied? (self-reported, reconciled with archive)
	NApplied               int    // prior-edition appearances

	// Extra keeps survey columns with no dedicated field, addressable by
	// rating categories and formulas (e.g. "underrep").
	Extra map[string]string

	labels           []string
	motivationScores map[string]float64 // reviewer identity -> score
	generation       uint64
}

// Normalize strips extraneous whitespace from names and email.
func (p *Person) Normalize() {
	p.Name = strings.Join(strings.Fields(p.Name), " ")
	p.Lastname = strings.Join(strings.Fields(p.Lastname), " ")
	p.Email = strings.TrimSpace(p.Email)
}

// Validate checks enumerated survey values and the birth year. Old editions
// used slightly different vocabularies, so relaxed mode skips the checks.
func (p *Person) Validate(relaxed bool) error {
	if relaxed {
		return nil
	}
	if now := time.Now().Year(); p.Born < 1900 || p.Born > now {
		return fmt.Errorf("bad birth year %d", p.Born)
	}
	checks := []struct {
		field string
		value string
		valid []string
	}{
		{"gender", p.Gender, ValidGender},
		{"programming", p.Programming, ValidProgramming},
		{"python", p.Python, ValidPython},
		{"position", p.Position, ValidPosition},
	}
	for _, c := range checks {
		if !contains(c.valid, strings.ToLower(c.value)) {
			return fmt.Errorf("bad %s value: %q", c.field, c.value)
		}
	}
	return nil
}

// Fullname is the identity used by the label and motivation stores.
func (p *Person) Fullname() string {
	return p.Name + " " + p.Lastname
}

// Nonmale is the derived diversity flag formulas may reference.
func (p *Person) Nonmale() bool {
	return !strings.EqualFold(p.Gender, "male")
}

// Generation returns the mutation counter for this applicant.
func (p *Person) Generation() uint64 { return p.generation }

// Touch records a mutation, invalidating cached scores for this applicant.
func (p *Person) Touch() { p.generation++ }

// Labels returns the applicant's labels, sorted.
func (p *Person) Labels() []string {
	out := make([]string, len(p.labels))
	copy(out, p.labels)
	return out
}

// HasLabel reports whether the exact label is present.
func (p *Person) HasLabel(label string) bool {
	return contains(p.labels, label)
}

// SetLabels replaces the label set wholesale (used when hydrating from the
// store; still counts as a mutation).
func (p *Person) SetLabels(labels []string) {
	p.labels = append([]string(nil), labels...)
	sort.Strings(p.labels)
	p.Touch()
}

// AddLabel adds a label if not already present.
func (p *Person) AddLabel(label string) {
	if contains(p.labels, label) {
		return
	}
	p.labels = append(p.labels, label)
	sort.Strings(p.labels)
	p.Touch()
}

// RemoveLabel removes a label if present.
func (p *Person) RemoveLabel(label string) {
	for i, l := range p.labels {
		if l == label {
			p.labels = append(p.labels[:i], p.labels[i+1:]...)
			p.Touch()
			return
		}
	}
}

// ClearLabels removes all labels.
func (p *Person) ClearLabels() {
	if len(p.labels) == 0 {
		return
	}
	p.labels = nil
	p.Touch()
}

// MotivationScores returns the recorded per-reviewer motivation scores.
func (p *Person) MotivationScores() map[string]float64 {
	out := make(map[string]float64, len(p.motivationScores))
	for id, s := range p.motivationScores {
		out[id] = s
	}
	return out
}

// SetMotivationScore records one reviewer's motivation score.
func (p *Person) SetMotivationScore(identity string, score float64) {
	if p.motivationScores == nil {
		p.motivationScores = make(map[string]float64)
	}
	p.motivationScores[identity] = score
	p.Touch()
}

// MotivationMean is the mean over reviewers who graded this applicant.
// Abstaining reviewers simply have no entry; the mean of zero reviewers
// is NaN, the "not yet gradable" signal.
func (p *Person) MotivationMean() float64 {
	if len(p.motivationScores) == 0 {
		return math.NaN()
	}
	var sum float64
	for _, s := range p.motivationScores {
		sum += s
	}
	return sum / float64(len(p.motivationScores))
}

// RawValue returns the raw survey answer for a rating category, checking the
// dedicated fields first and falling back to extra columns.
func (p *Person) RawValue(category string) (string, bool) {
	switch category {
	case "programming":
		return p.Programming, true
	case "python":
		return p.Python, true
	case "vcs":
		return p.VCS, true
	case "open_source":
		return p.OpenSource, true
	}
	v, ok := p.Extra[category]
	return v, ok
}

// GenderLabel converts the survey gender value into the single-letter label
// formulas compare against.
func (p *Person) GenderLabel() string {
	switch strings.ToLower(p.Gender) {
	case "female":
		return "F"
	case "male":
		return "M"
	case "other", "non-binary":
		return "O"
	default: // unknown, including "prefer not to say" and blank
		return "U"
	}
}

// ParseApplied interprets the free-form "did you already apply" answer.
func ParseApplied(raw string) bool {
	raw = strings.TrimSpace(raw)
	return raw != "" && raw[0] != 'n' && raw[0] != 'N'
}

func contains(list []string, s string) bool {
	for _, item := range list {
		if item == s {
			return true
		}
	}
	return false
}
