package cli

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/applyrank/applyrank/internal/applicant"
	"github.com/applyrank/applyrank/internal/archive"
	"github.com/applyrank/applyrank/internal/config"
	"github.com/applyrank/applyrank/internal/ingest"
	"github.com/applyrank/applyrank/internal/rank"
	"github.com/applyrank/applyrank/internal/rating"
	"github.com/applyrank/applyrank/internal/score"
	"github.com/applyrank/applyrank/internal/store"
)

// session is everything a command needs: the config, the open INI store, the
// loaded applicant pool and the merged scoring rules.
type session struct {
	cfg   *config.Config
	store *store.Store
	pool  []*applicant.Person
	rules *score.Rules
}

// loadSession loads config, opens the INI store, builds the effective rules
// (store values override config defaults) and reads the applicant pool. When
// an archive database exists, prior-edition counts are reconciled into the
// pool and mismatches with the self-declared answer are reported on stderr.
func loadSession(ctx context.Context) (*session, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}

	st, err := store.Open(cfg.Pool.INIPath())
	if err != nil {
		return nil, err
	}

	rules, err := buildRules(cfg, st)
	if err != nil {
		return nil, err
	}

	pool, err := ingest.LoadCSV(cfg.Pool.CSV, st, relaxed)
	if err != nil {
		return nil, err
	}

	if cfg.Pool.ArchiveDB != "" {
		if _, err := os.Stat(cfg.Pool.ArchiveDB); err == nil {
			if err := reconcileArchive(ctx, cfg.Pool.ArchiveDB, pool); err != nil {
				return nil, err
			}
		}
	}

	return &session{cfg: cfg, store: st, pool: pool, rules: rules}, nil
}

// buildRules merges the config defaults with the INI store overrides.
func buildRules(cfg *config.Config, st *store.Store) (*score.Rules, error) {
	rules := score.NewRules()
	rules.SetLabelValues(cfg.Labels)

	tables := make(rating.Tables)
	for category, table := range cfg.Ratings {
		for key, value := range table {
			tables.Set(category, key, value)
		}
	}
	for category, table := range st.Ratings() {
		for key, value := range table {
			tables.Set(category, key, value)
		}
	}
	rules.SetRatings(tables)

	text := cfg.Formula.Expression
	if stored, ok := st.Formula(); ok {
		text = stored
	}
	if err := rules.SetFormula(text); err != nil {
		return nil, fmt.Errorf("invalid formula %q: %w", text, err)
	}

	location := cfg.Formula.Location
	if stored, ok := st.Location(); ok {
		location = stored
	}
	rules.SetLocation(location)

	acceptCount := cfg.Formula.AcceptCount
	if stored, ok := st.AcceptCount(); ok {
		acceptCount = stored
	}
	rules.SetAcceptCount(acceptCount)

	for canonical, variants := range st.Equivs() {
		rules.SetEquiv(canonical, variants)
	}

	return rules, nil
}

func reconcileArchive(ctx context.Context, path string, pool []*applicant.Person) error {
	db, err := archive.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open archive database: %w", err)
	}
	defer db.Close()

	mismatched, err := db.Reconcile(ctx, pool)
	if err != nil {
		return fmt.Errorf("failed to reconcile archive: %w", err)
	}
	for _, p := range mismatched {
		fmt.Fprintf(os.Stderr, "Warning: %s: archive disagrees with self-declared previous application\n",
			p.Fullname())
	}
	return nil
}

// save writes the INI store back if anything changed.
func (s *session) save() error {
	if !s.store.Modified() {
		return nil
	}
	return s.store.Save()
}

// scored computes the score of every applicant in the pool.
func (s *session) scored() ([]rank.Scored, error) {
	scorer := score.NewScorer(s.rules)
	scored := make([]rank.Scored, 0, len(s.pool))
	for _, p := range s.pool {
		value, err := scorer.Score(p)
		if err != nil {
			return nil, err
		}
		scored = append(scored, rank.Scored{Person: p, Score: value})
	}
	return scored, nil
}

// ranked runs a full scoring and ranking pass.
func (s *session) ranked(useLabels bool) ([]rank.Entry, error) {
	scored, err := s.scored()
	if err != nil {
		return nil, err
	}
	return rank.Rank(scored, rank.Options{
		AcceptCount: s.rules.AcceptCount(),
		UseLabels:   useLabels,
		LabelValues: s.rules.LabelValues(),
		EquivMaster: s.rules.EquivMaster,
	}), nil
}

// findPerson resolves a case-insensitive substring of a name or email to
// exactly one applicant.
func (s *session) findPerson(query string) (*applicant.Person, error) {
	needle := strings.ToLower(strings.TrimSpace(query))
	var matches []*applicant.Person
	for _, p := range s.pool {
		if strings.Contains(strings.ToLower(p.Fullname()), needle) ||
			strings.Contains(strings.ToLower(p.Email), needle) {
			matches = append(matches, p)
		}
	}
	switch len(matches) {
	case 0:
		return nil, fmt.Errorf("no applicant matches %q", query)
	case 1:
		return matches[0], nil
	default:
		names := make([]string, len(matches))
		for i, p := range matches {
			names[i] = p.Fullname()
		}
		return nil, fmt.Errorf("%q is ambiguous: %s", query, strings.Join(names, ", "))
	}
}

// poolCountries collects the distinct nationality and affiliation countries
// in the pool, for range analysis.
func (s *session) poolCountries() []string {
	seen := make(map[string]bool)
	var countries []string
	for _, p := range s.pool {
		for _, c := range []string{p.Nationality, p.Affiliation} {
			if c != "" && !seen[c] {
				seen[c] = true
				countries = append(countries, c)
			}
		}
	}
	return countries
}

// appliedMax is the largest prior-edition count in the pool, at least 1.
func (s *session) appliedMax() int {
	max := 1
	for _, p := range s.pool {
		if p.NApplied > max {
			max = p.NApplied
		}
	}
	return max
}
