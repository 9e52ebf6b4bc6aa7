package applicant

import "strings"

// Stats aggregates distribution counts over an applicant pool.
type Stats struct {
	Total         int
	Female        int
	Male          int
	OtherGender   int
	Repeat        int
	Labels        map[string]int
	Nationalities map[string]int
	Affiliations  map[string]int
	Positions     map[string]int
}

// ComputeStats counts the pool's gender, nationality, affiliation, position
// and label distributions.
func ComputeStats(pool []*Person) *Stats {
	stats := &Stats{
		Labels:        make(map[string]int),
		Nationalities: make(map[string]int),
		Affiliations:  make(map[string]int),
		Positions:     make(map[string]int),
	}

	for _, p := range pool {
		stats.Total++
		switch p.GenderLabel() {
		case "F":
			stats.Female++
		case "M":
			stats.Male++
		default:
			stats.OtherGender++
		}
		if p.NApplied > 0 {
			stats.Repeat++
		}
		for _, label := range p.Labels() {
			stats.Labels[label]++
		}
		stats.Nationalities[countKey(p.Nationality)]++
		stats.Affiliations[countKey(p.Affiliation)]++
		stats.Positions[countKey(p.Position)]++
	}

	return stats
}

func countKey(value string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return "(unknown)"
	}
	return value
}
