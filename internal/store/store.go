// Package store persists the mutable grading state that accompanies an
// applications CSV: labels, per-reviewer motivation scores, rating tables,
// the formula and institute/group equivalences. The format is a plain INI
// file next to the CSV so it stays hand-editable and diffable.
package store

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"gopkg.in/ini.v1"

	"github.com/applyrank/applyrank/internal/rating"
)

const (
	formulaSection          = "formula"
	labelsSection           = "labels"
	equivsSection           = "equivs"
	ratingSectionSuffix     = "_rating"
	motivationSectionPrefix = "motivation_score-"
)

// Store is an open applications INI file.
type Store struct {
	path     string
	file     *ini.File
	modified bool
}

// Open loads the INI file at path; a missing file yields an empty store
// that will be created on save.
func Open(path string) (*Store, error) {
	file, err := ini.LooseLoad(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", path, err)
	}
	return &Store{path: path, file: file}, nil
}

// Modified reports whether there are unsaved changes.
func (s *Store) Modified() bool { return s.modified }

// Save writes the store back to its file.
func (s *Store) Save() error {
	if err := s.file.SaveTo(s.path); err != nil {
		return fmt.Errorf("failed to save %s: %w", s.path, err)
	}
	s.modified = false
	return nil
}

// Labels returns the labels recorded for an applicant.
func (s *Store) Labels(fullname string) []string {
	key := strings.ToLower(fullname)
	section := s.file.Section(labelsSection)
	if !section.HasKey(key) {
		return nil
	}
	labels := section.Key(key).Strings(",")
	sort.Strings(labels)
	return labels
}

// SetLabels records an applicant's label set; an empty set removes the key.
func (s *Store) SetLabels(fullname string, labels []string) {
	key := strings.ToLower(fullname)
	section := s.file.Section(labelsSection)
	if len(labels) == 0 {
		section.DeleteKey(key)
	} else {
		sorted := append([]string(nil), labels...)
		sort.Strings(sorted)
		section.Key(key).SetValue(strings.Join(sorted, ", "))
	}
	s.modified = true
}

// Identities lists the reviewer identities that have a motivation score
// section in the file.
func (s *Store) Identities() []string {
	var identities []string
	for _, section := range s.file.Sections() {
		name := section.Name()
		if rest, ok := strings.CutPrefix(name, motivationSectionPrefix); ok {
			identities = append(identities, rest)
		}
	}
	sort.Strings(identities)
	return identities
}

// MotivationScores returns identity -> score for one applicant, with
// abstaining reviewers absent.
func (s *Store) MotivationScores(fullname string) map[string]float64 {
	key := strings.ToLower(fullname)
	scores := make(map[string]float64)
	for _, identity := range s.Identities() {
		section := s.file.Section(motivationSectionPrefix + identity)
		if !section.HasKey(key) {
			continue
		}
		if v, err := section.Key(key).Float64(); err == nil {
			scores[identity] = v
		}
	}
	return scores
}

// SetMotivationScore records one reviewer's motivation score for an
// applicant.
func (s *Store) SetMotivationScore(fullname, identity string, score float64) {
	key := strings.ToLower(fullname)
	section := s.file.Section(motivationSectionPrefix + identity)
	section.Key(key).SetValue(strconv.FormatFloat(score, 'g', -1, 64))
	s.modified = true
}

// Ratings collects every <category>_rating section into rating tables.
func (s *Store) Ratings() rating.Tables {
	tables := make(rating.Tables)
	for _, section := range s.file.Sections() {
		name := section.Name()
		category, ok := strings.CutSuffix(name, ratingSectionSuffix)
		if !ok || category == "" {
			continue
		}
		for _, key := range section.Keys() {
			if v, err := key.Float64(); err == nil {
				tables.Set(category, key.Name(), v)
			}
		}
	}
	return tables
}

// SetRating stores one rating value.
func (s *Store) SetRating(category, key string, value float64) {
	section := s.file.Section(category + ratingSectionSuffix)
	section.Key(rating.Normalize(key)).SetValue(strconv.FormatFloat(value, 'g', -1, 64))
	s.modified = true
}

// Formula returns the stored formula text, if any.
func (s *Store) Formula() (string, bool) {
	return s.lookup(formulaSection, "formula")
}

// SetFormula stores the formula text. Callers validate the syntax first.
func (s *Store) SetFormula(text string) {
	s.file.Section(formulaSection).Key("formula").SetValue(text)
	s.modified = true
}

// Location returns the stored home location, if any.
func (s *Store) Location() (string, bool) {
	return s.lookup(formulaSection, "location")
}

// SetLocation stores the home location.
func (s *Store) SetLocation(location string) {
	s.file.Section(formulaSection).Key("location").SetValue(location)
	s.modified = true
}

// AcceptCount returns the stored acceptance cutoff, if any.
func (s *Store) AcceptCount() (int, bool) {
	raw, ok := s.lookup(formulaSection, "accept_count")
	if !ok {
		return 0, false
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, false
	}
	return n, true
}

// SetAcceptCount stores the acceptance cutoff.
func (s *Store) SetAcceptCount(n int) {
	s.file.Section(formulaSection).Key("accept_count").SetValue(strconv.Itoa(n))
	s.modified = true
}

// Equivs returns the canonical name -> spelling variants mapping.
func (s *Store) Equivs() map[string][]string {
	equivs := make(map[string][]string)
	for _, key := range s.file.Section(equivsSection).Keys() {
		equivs[key.Name()] = key.Strings(",")
	}
	return equivs
}

// AddEquiv appends spelling variants for a canonical institute/group name.
func (s *Store) AddEquiv(canonical string, variants []string) {
	section := s.file.Section(equivsSection)
	existing := section.Key(canonical).Strings(",")
	existing = append(existing, variants...)
	section.Key(canonical).SetValue(strings.Join(existing, ", "))
	s.modified = true
}

func (s *Store) lookup(sectionName, keyName string) (string, bool) {
	section := s.file.Section(sectionName)
	if !section.HasKey(keyName) {
		return "", false
	}
	return section.Key(keyName).String(), true
}
