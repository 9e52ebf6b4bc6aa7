package cli

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/applyrank/applyrank/internal/applicant"
	"github.com/applyrank/applyrank/internal/output"
)

var statCmd = &cobra.Command{
	Use:   "stat",
	Short: "Show applicant pool statistics",
	Long: `Display distribution statistics over the applicant pool.

Examples:
  applyrank stat             # headline counts
  applyrank stat --detailed  # nationality, affiliation and position breakdowns`,
	RunE: runStat,
}

var statDetailed bool

func init() {
	rootCmd.AddCommand(statCmd)
	statCmd.Flags().BoolVar(&statDetailed, "detailed", false, "Show full breakdowns")
}

func runStat(cmd *cobra.Command, args []string) error {
	s, err := loadSession(cmd.Context())
	if err != nil {
		return err
	}

	stats := applicant.ComputeStats(s.pool)
	if statDetailed && outputFmt != "json" {
		return output.DetailedStats(os.Stdout, stats)
	}
	return output.Output(outputFmt, stats)
}
