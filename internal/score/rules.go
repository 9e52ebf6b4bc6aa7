// Package score evaluates the scoring formula against applicants, caches the
// results, and analyzes the achievable score range.
package score

import (
	"strings"

	"github.com/applyrank/applyrank/internal/formula"
	"github.com/applyrank/applyrank/internal/rating"
)

// Rules is the shared scoring configuration: the formula, the rating tables
// and the per-run parameters. Every mutation bumps a generation counter so
// cached scores invalidate by key mismatch; per-applicant edits (labels,
// motivation scores) are covered by the applicant's own counter instead and
// deliberately do not touch this one.
type Rules struct {
	generation  uint64
	formula     *formula.Formula
	location    string
	acceptCount int
	ratings     rating.Tables
	labelValues map[string]float64
	equivs      map[string][]string
}

// NewRules creates an empty rule store.
func NewRules() *Rules {
	return &Rules{
		ratings:     make(rating.Tables),
		labelValues: make(map[string]float64),
		equivs:      make(map[string][]string),
	}
}

// Generation returns the global configuration generation.
func (r *Rules) Generation() uint64 { return r.generation }

func (r *Rules) bump() { r.generation++ }

// Formula returns the current parsed formula, or nil when unset.
func (r *Rules) Formula() *formula.Formula { return r.formula }

// SetFormula validates and installs a new formula text. Rejecting bad
// formulas here keeps ranking from silently breaking later.
func (r *Rules) SetFormula(text string) error {
	f, err := formula.Parse(text)
	if err != nil {
		return err
	}
	r.formula = f
	r.bump()
	return nil
}

// Location returns the configured home location.
func (r *Rules) Location() string { return r.location }

// SetLocation sets the home location parameter.
func (r *Rules) SetLocation(location string) {
	r.location = location
	r.bump()
}

// AcceptCount returns the acceptance cutoff size.
func (r *Rules) AcceptCount() int { return r.acceptCount }

// SetAcceptCount sets the acceptance cutoff size.
func (r *Rules) SetAcceptCount(n int) {
	r.acceptCount = n
	r.bump()
}

// Ratings returns the rating tables for read access.
func (r *Rules) Ratings() rating.Tables { return r.ratings }

// SetRating stores one rating value and invalidates cached scores.
func (r *Rules) SetRating(category, key string, value float64) {
	r.ratings.Set(category, key, value)
	r.bump()
}

// SetRatings replaces the rating tables wholesale (hot reload).
func (r *Rules) SetRatings(tables rating.Tables) {
	r.ratings = tables
	r.bump()
}

// LabelValues returns the per-label score offsets used during ranking.
func (r *Rules) LabelValues() map[string]float64 { return r.labelValues }

// SetLabelValues replaces the label offset table.
func (r *Rules) SetLabelValues(values map[string]float64) {
	r.labelValues = values
	r.bump()
}

// Param resolves a formula-scoped global parameter by name.
func (r *Rules) Param(name string) (string, bool) {
	if name == "location" {
		return r.location, true
	}
	return "", false
}

// Equivs returns the institute/group spelling equivalences.
func (r *Rules) Equivs() map[string][]string { return r.equivs }

// SetEquiv registers spelling variants for a canonical institute or group
// name.
func (r *Rules) SetEquiv(canonical string, variants []string) {
	r.equivs[canonical] = append(r.equivs[canonical], variants...)
	r.bump()
}

// EquivMaster canonicalizes an institute or group spelling: the canonical
// key whose variant list contains it, else the trimmed input.
func (r *Rules) EquivMaster(variant string) string {
	lower := strings.ToLower(variant)
	for key, variants := range r.equivs {
		if strings.ToLower(key) == lower {
			return key
		}
		for _, spelling := range variants {
			if strings.ToLower(spelling) == lower {
				return key
			}
		}
	}
	return strings.TrimSpace(variant)
}
