package score

import (
	"errors"
	"fmt"
	"math"

	"github.com/applyrank/applyrank/internal/applicant"
)

// ErrNoFormula is returned when scoring is attempted before a formula is set.
var ErrNoFormula = errors.New("formula not set")

// Precision is the number of decimal digits scores are rounded to. Rounding
// keeps floating-point noise from perturbing the order of numerically
// identical candidates (1.26 vs 1.2600000000002).
const Precision = 5

// Round rounds a score to the fixed precision. NaN passes through.
func Round(score float64) float64 {
	const shift = 1e5
	return math.Round(score*shift) / shift
}

type cacheKey struct {
	applicantGen uint64
	rulesGen     uint64
	formulaText  string
}

// Cache memoizes computed scores for one applicant. Staleness is detected
// purely by key mismatch against the generation counters; entries are never
// evicted, which is fine because their count is bounded by how often the
// operator edits configuration, not by pool size.
type Cache struct {
	entries map[cacheKey]float64
}

func (c *Cache) get(key cacheKey) (float64, bool) {
	v, ok := c.entries[key]
	return v, ok
}

func (c *Cache) put(key cacheKey, score float64) {
	if c.entries == nil {
		c.entries = make(map[cacheKey]float64)
	}
	c.entries[key] = score
}

// Scorer computes rounded formula scores with per-applicant caching.
type Scorer struct {
	rules  *Rules
	caches map[*applicant.Person]*Cache
}

// NewScorer creates a Scorer over the given rule store.
func NewScorer(rules *Rules) *Scorer {
	return &Scorer{
		rules:  rules,
		caches: make(map[*applicant.Person]*Cache),
	}
}

// Score returns the applicant's score under the current formula, cached
// under (applicant generation, rules generation, formula text). A scoring
// failure aborts the whole pass: one unresolvable variable miscalibrates
// every ranking, so it must never be skipped silently.
func (s *Scorer) Score(p *applicant.Person) (float64, error) {
	f := s.rules.Formula()
	if f == nil {
		return 0, ErrNoFormula
	}

	key := cacheKey{
		applicantGen: p.Generation(),
		rulesGen:     s.rules.Generation(),
		formulaText:  f.Text(),
	}
	cache := s.caches[p]
	if cache == nil {
		cache = &Cache{}
		s.caches[p] = cache
	}
	if score, ok := cache.get(key); ok {
		return score, nil
	}

	raw, err := f.EvalNumber(Env{Person: p, Rules: s.rules})
	if err != nil {
		return 0, fmt.Errorf("scoring %s: %w", p.Fullname(), err)
	}
	score := Round(raw)
	cache.put(key, score)
	return score, nil
}

// CheckBounds verifies the score bound invariant: with no labels in play,
// every legitimate score lands inside the analyzed [min, max] range (or is
// NaN). A violation is a programming error, not an operator mistake.
func CheckBounds(p *applicant.Person, score, min, max float64) error {
	if math.IsNaN(score) || len(p.Labels()) > 0 {
		return nil
	}
	if score < min || score > max {
		return fmt.Errorf("score %v for %s outside analyzed range [%v, %v]",
			score, p.Fullname(), min, max)
	}
	return nil
}
