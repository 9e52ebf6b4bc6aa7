package cli

import (
	"fmt"
	"io"
	"math"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/applyrank/applyrank/internal/applicant"
	"github.com/applyrank/applyrank/internal/output"
	"github.com/applyrank/applyrank/internal/score"
)

var dumpCmd = &cobra.Command{
	Use:   "dump [applicant]",
	Short: "Dump applicant records",
	Long: `Print the full record of one applicant, or of the whole pool.

Examples:
  applyrank dump "marie curie"   # one applicant, human readable
  applyrank dump -o json         # whole pool as JSON`,
	Args: cobra.MaximumNArgs(1),
	RunE: runDump,
}

func init() {
	rootCmd.AddCommand(dumpCmd)
}

// dumpRecord is the externally visible shape of an applicant record,
// including the otherwise-unexported grading state.
type dumpRecord struct {
	Fullname         string             `json:"fullname"`
	Email            string             `json:"email"`
	Gender           string             `json:"gender"`
	Born             int                `json:"born"`
	Nationality      string             `json:"nationality"`
	Affiliation      string             `json:"affiliation"`
	Institute        string             `json:"institute"`
	Group            string             `json:"group"`
	Position         string             `json:"position"`
	Programming      string             `json:"programming"`
	Python           string             `json:"python"`
	VCS              string             `json:"vcs"`
	OpenSource       string             `json:"open_source"`
	NApplied         int                `json:"n_applied"`
	Labels           []string           `json:"labels"`
	MotivationScores map[string]float64 `json:"motivation_scores"`
	Score            *float64           `json:"score"` // null when not yet computable
}

func newDumpRecord(p *applicant.Person, scorer *score.Scorer) (dumpRecord, error) {
	value, err := scorer.Score(p)
	if err != nil {
		return dumpRecord{}, err
	}
	var scorePtr *float64
	if !math.IsNaN(value) {
		scorePtr = &value
	}

	return dumpRecord{
		Fullname:         p.Fullname(),
		Email:            p.Email,
		Gender:           p.Gender,
		Born:             p.Born,
		Nationality:      p.Nationality,
		Affiliation:      p.Affiliation,
		Institute:        p.Institute,
		Group:            p.Group,
		Position:         p.Position,
		Programming:      p.Programming,
		Python:           p.Python,
		VCS:              p.VCS,
		OpenSource:       p.OpenSource,
		NApplied:         p.NApplied,
		Labels:           p.Labels(),
		MotivationScores: p.MotivationScores(),
		Score:            scorePtr,
	}, nil
}

func runDump(cmd *cobra.Command, args []string) error {
	s, err := loadSession(cmd.Context())
	if err != nil {
		return err
	}
	scorer := score.NewScorer(s.rules)

	if len(args) == 1 {
		p, err := s.findPerson(args[0])
		if err != nil {
			return err
		}
		record, err := newDumpRecord(p, scorer)
		if err != nil {
			return err
		}
		if outputFmt == "json" {
			return output.JSON(record)
		}
		printRecord(os.Stdout, p, record)
		return nil
	}

	records := make([]dumpRecord, 0, len(s.pool))
	for _, p := range s.pool {
		record, err := newDumpRecord(p, scorer)
		if err != nil {
			return err
		}
		records = append(records, record)
	}
	if outputFmt == "json" {
		return output.JSON(records)
	}
	printRecords(os.Stdout, s.pool, records)
	return nil
}

// printRecords renders the whole pool human readable, one record per block.
func printRecords(w io.Writer, pool []*applicant.Person, records []dumpRecord) {
	for i, r := range records {
		if i > 0 {
			fmt.Fprintln(w)
			fmt.Fprintln(w, strings.Repeat("=", 60))
			fmt.Fprintln(w)
		}
		printRecord(w, pool[i], r)
	}
}

func printRecord(w io.Writer, p *applicant.Person, r dumpRecord) {
	fmt.Fprintf(w, "Name:        %s <%s>\n", r.Fullname, r.Email)
	fmt.Fprintf(w, "Born:        %d (%s, %s)\n", r.Born, r.Gender, r.Nationality)
	fmt.Fprintf(w, "Institute:   %s\n", r.Institute)
	fmt.Fprintf(w, "Group:       %s (%s)\n", r.Group, r.Affiliation)
	fmt.Fprintf(w, "Position:    %s\n", r.Position)
	fmt.Fprintf(w, "Programming: %s (python: %s, vcs: %s)\n", r.Programming, r.Python, r.VCS)
	fmt.Fprintf(w, "Open source: %s\n", r.OpenSource)
	fmt.Fprintf(w, "Applied:     %d previous edition(s)\n", r.NApplied)
	if len(r.Labels) > 0 {
		fmt.Fprintf(w, "Labels:      %s\n", strings.Join(r.Labels, ", "))
	}
	if len(r.MotivationScores) > 0 {
		fmt.Fprintf(w, "Motivation:  mean %g over %d reviewer(s)\n", p.MotivationMean(), len(r.MotivationScores))
	}
	if r.Score != nil {
		fmt.Fprintf(w, "Score:       %g\n", *r.Score)
	} else {
		fmt.Fprintln(w, "Score:       not yet computable")
	}
	if p.Motivation != "" {
		fmt.Fprintln(w)
		fmt.Fprintln(w, strings.TrimSpace(p.Motivation))
	}
}
