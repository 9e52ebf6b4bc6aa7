package cli

import (
	"github.com/spf13/cobra"

	"github.com/applyrank/applyrank/internal/output"
)

var rankCmd = &cobra.Command{
	Use:   "rank",
	Short: "Rank the applicant pool",
	Long: `Score every applicant with the current formula and print the fair
ranking: equal scores share a rank, applicants from an already-ranked lab do
not consume an extra acceptance slot, and the cutoff line never splits a run
of equal scores.

Examples:
  applyrank rank               # ranked pool with the acceptance cutoff marked
  applyrank rank --no-labels   # ignore label bonuses (raw formula order)
  applyrank rank -o json       # machine-readable output`,
	RunE: runRank,
}

var rankNoLabels bool

func init() {
	rootCmd.AddCommand(rankCmd)
	rankCmd.Flags().BoolVar(&rankNoLabels, "no-labels", false, "Ignore label bonuses when sorting")
}

func runRank(cmd *cobra.Command, args []string) error {
	s, err := loadSession(cmd.Context())
	if err != nil {
		return err
	}

	entries, err := s.ranked(!rankNoLabels)
	if err != nil {
		return err
	}

	return output.Output(outputFmt, entries)
}
