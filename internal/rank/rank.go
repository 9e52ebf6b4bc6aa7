// Package rank turns raw scores into the fair ordering used to decide the
// acceptance cutoff.
package rank

import (
	"math"
	"sort"
	"strings"

	"github.com/applyrank/applyrank/internal/applicant"
)

// Scored pairs an applicant with their raw formula score.
type Scored struct {
	Person *applicant.Person
	Score  float64
}

// Entry is one row of the ranking: derived, recomputed on every pass, never
// stored back on the applicant.
type Entry struct {
	Person     *applicant.Person
	Score      float64 // raw formula score (may be NaN)
	Rank       int
	Highlander bool // inside the acceptance cutoff
	SameLab    bool // shares the rank slot of an earlier same-affiliation entry
}

// Options configures a ranking pass.
type Options struct {
	// AcceptCount is the nominal number of acceptance slots.
	AcceptCount int
	// UseLabels applies the per-label score offsets before sorting.
	UseLabels bool
	// LabelValues maps a label to its score offset. Labels starting with
	// the InviteSameLabPrefix share that prefix's single offset. The
	// NaNKey entry is the sort sentinel for applicants without a score.
	LabelValues map[string]float64
	// EquivMaster canonicalizes institute/group spellings before
	// affiliation grouping; nil means identity.
	EquivMaster func(string) string
}

// NaNKey indexes LabelValues for the not-yet-gradable sentinel: applicants
// without a score sort below everyone with a real score but above the
// explicitly rejected.
const NaNKey = "__nan__"

// InviteSameLabPrefix is the label family whose sub-variants (INVITESL1,
// INVITESL2, ...) all share the base label's single bonus.
const InviteSameLabPrefix = "INVITESL"

// Rank orders the pool by label-adjusted score and assigns rank, highlander
// and samelab in one walk:
//
//   - a new rank number is handed out whenever the raw score differs from
//     the previous entry's; ties keep the previous number
//   - an applicant whose institute|group already holds a rank inside the
//     acceptance region inherits that rank (samelab) instead of consuming a
//     fresh slot
//   - highlander flips off once the pool walked past AcceptCount entries
//     onto a new score; a run sharing the cutoff score is never split
func Rank(pool []Scored, opts Options) []Entry {
	adjusted := make(map[*applicant.Person]float64, len(pool))
	for _, s := range pool {
		adjusted[s.Person] = adjustedScore(s, opts)
	}

	ordered := make([]Scored, len(pool))
	copy(ordered, pool)
	sort.SliceStable(ordered, func(i, j int) bool {
		return adjusted[ordered[i].Person] > adjusted[ordered[j].Person]
	})

	equivMaster := opts.EquivMaster
	if equivMaster == nil {
		equivMaster = func(s string) string { return s }
	}

	entries := make([]Entry, 0, len(ordered))
	rank := 0
	prevScore := math.Inf(1)
	highlander := true
	labs := make(map[string]int)
	count := 0

	for _, s := range ordered {
		lab := equivMaster(s.Person.Institute) + " | " + equivMaster(s.Person.Group)

		// NaN scores intentionally compare unequal to everything,
		// including each other, so each one starts a new rank
		sameLab := highlander && hasLab(labs, lab)
		var finalRank int
		if sameLab {
			finalRank = labs[lab]
		} else {
			if s.Score != prevScore {
				rank++
			}
			finalRank = rank
			labs[lab] = rank
		}

		count++
		if highlander && s.Score != prevScore && count > opts.AcceptCount {
			highlander = false
		}

		entries = append(entries, Entry{
			Person:     s.Person,
			Score:      s.Score,
			Rank:       finalRank,
			Highlander: highlander,
			SameLab:    sameLab,
		})
		prevScore = s.Score
	}
	return entries
}

// adjustedScore applies label offsets and maps NaN to the sort sentinel.
func adjustedScore(s Scored, opts Options) float64 {
	score := s.Score
	if opts.UseLabels {
		labels := s.Person.Labels()
		for label, value := range opts.LabelValues {
			if label == NaNKey {
				continue
			}
			switch {
			case containsLabel(labels, label):
				score += value
			case label == InviteSameLabPrefix && hasPrefixLabel(labels, label):
				score += value
			}
		}
	}
	if math.IsNaN(score) {
		return opts.LabelValues[NaNKey]
	}
	return score
}

func containsLabel(labels []string, label string) bool {
	for _, l := range labels {
		if l == label {
			return true
		}
	}
	return false
}

func hasPrefixLabel(labels []string, prefix string) bool {
	for _, l := range labels {
		if strings.HasPrefix(l, prefix) {
			return true
		}
	}
	return false
}

func hasLab(labs map[string]int, lab string) bool {
	_, ok := labs[lab]
	return ok
}
