// Package config loads the applyrank TOML configuration.
package config

import "strings"

// Config represents the application configuration.
type Config struct {
	Pool       PoolConfig                    `toml:"pool"`
	Formula    FormulaConfig                 `toml:"formula"`
	Labels     map[string]float64            `toml:"labels"`
	Identities []string                      `toml:"identities"`
	Ratings    map[string]map[string]float64 `toml:"ratings"`
}

// PoolConfig locates the applicant pool and its companion files.
type PoolConfig struct {
	CSV       string `toml:"csv"`
	INI       string `toml:"ini"`
	ArchiveDB string `toml:"archive_db"`
}

// FormulaConfig holds the scoring rule defaults. The live values may be
// overridden by the applications INI store and edited through the CLI.
type FormulaConfig struct {
	Expression  string `toml:"expression"`
	Location    string `toml:"location"`
	AcceptCount int    `toml:"accept_count"`
}

// INIPath returns the configured INI path, defaulting to the CSV path with
// an .ini extension.
func (p PoolConfig) INIPath() string {
	if p.INI != "" {
		return p.INI
	}
	csv := p.CSV
	if i := strings.LastIndex(csv, "."); i > 0 {
		csv = csv[:i]
	}
	return csv + ".ini"
}

// Default returns a Config with sensible defaults. The label offsets are the
// operator-tunable business constants applied during ranking; __nan__ is the
// sort sentinel for applicants without a computable score.
func Default() *Config {
	return &Config{
		Pool: PoolConfig{
			CSV:       "applications.csv",
			ArchiveDB: "~/.local/share/applyrank/archive.db",
		},
		Formula: FormulaConfig{
			Expression:  "programming + open_source + motivation + (nationality != affiliation)",
			AcceptCount: 30,
		},
		Labels: map[string]float64{
			"VIP":           1000,
			"CONFIRMED":     2000,
			"INVITE":        600,
			"INVITESL":      200,
			"SHORTLIST":     100,
			"__nan__":       -500,
			"DECLINED":      -650,
			"NEXT-YEAR":     -650,
			"WITHDRAWN":     -650,
			"OVERQUALIFIED": -650,
		},
		Identities: []string{"0", "1", "2"},
		Ratings: map[string]map[string]float64{
			"programming": {
				"novice": 0,
				"competent": 0.5,
				"expert": 1,
			},
			"open_source": {
				"never used": 0,
				"user": 0.3,
				"minor contributions": 0.5,
				"major contributions": 0.8,
				"project membership": 1,
			},
			"python": {
				"none": 0,
				"novice": 0.2,
				"competent": 0.6,
				"expert": 1,
			},
			"vcs": {
				"no": 0,
				"other": 0.5,
				"git": 1,
			},
		},
	}
}
