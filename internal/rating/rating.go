// Package rating maps free-text survey answers to numeric ratings.
package rating

import (
	"fmt"
	"sort"
	"strings"
)

// Tables holds one rating table per category, e.g.
// programming -> {"competent": 0.5, "novice": 0.0}.
// Table keys are stored normalized (see Normalize).
type Tables map[string]map[string]float64

// NotRatedError means a category has a table but the normalized answer is
// missing from it. The operator is expected to add the rating; callers must
// never default it silently.
type NotRatedError struct {
	Category string
	Key      string
}

func (e *NotRatedError) Error() string {
	return fmt.Sprintf("%s not rated for %q", e.Category, e.Key)
}

// NoTableError means the category has no rating table at all, i.e. the field
// is not rateable — distinct from an unrated value within an existing table.
type NoTableError struct {
	Category string
}

func (e *NoTableError) Error() string {
	return fmt.Sprintf("no rating table for category %q", e.Category)
}

// Normalize canonicalizes a raw survey answer for table lookup: lower-case,
// truncated at the first '(', '/' or ',' and trimmed. Applicants' free text
// often carries an explanatory suffix, e.g.
// "Minor contributions (bug reports, ...)" -> "minor contributions".
func Normalize(raw string) string {
	s := strings.ToLower(raw)
	if i := strings.IndexAny(s, "(/,"); i >= 0 {
		s = s[:i]
	}
	return strings.TrimSpace(s)
}

// Has reports whether a rating table exists for the category.
func (t Tables) Has(category string) bool {
	_, ok := t[category]
	return ok
}

// Lookup resolves a raw answer to its numeric rating.
func (t Tables) Lookup(category, raw string) (float64, error) {
	table, ok := t[category]
	if !ok {
		return 0, &NoTableError{Category: category}
	}
	key := Normalize(raw)
	value, ok := table[key]
	if !ok {
		return 0, &NotRatedError{Category: category, Key: key}
	}
	return value, nil
}

// Set stores a rating under the normalized form of key, creating the
// category table if needed.
func (t Tables) Set(category, key string, value float64) {
	table, ok := t[category]
	if !ok {
		table = make(map[string]float64)
		t[category] = table
	}
	table[Normalize(key)] = value
}

// Values returns the distinct rating values configured for a category,
// sorted ascending. Used for range-analysis domains.
func (t Tables) Values(category string) []float64 {
	table := t[category]
	seen := make(map[float64]bool, len(table))
	values := make([]float64, 0, len(table))
	for _, v := range table {
		if !seen[v] {
			seen[v] = true
			values = append(values, v)
		}
	}
	sort.Float64s(values)
	return values
}

// Categories returns the configured category names, sorted.
func (t Tables) Categories() []string {
	names := make([]string, 0, len(t))
	for name := range t {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
