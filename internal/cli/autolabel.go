package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/applyrank/applyrank/internal/rank"
)

var autolabelCmd = &cobra.Command{
	Use:   "autolabel",
	Short: "Label the current acceptance window",
	Long: `Run a ranking pass and translate it into labels: applicants inside
the acceptance window get INVITE, those sharing a lab with a higher-ranked
applicant get INVITESL, and the next tier below the cutoff gets SHORTLIST.
Applicants that already carry a decision label (CONFIRMED, DECLINED, ...) are
left alone.

Examples:
  applyrank autolabel --dry-run       # show what would change
  applyrank autolabel --shortlist 15  # widen the shortlist tier`,
	RunE: runAutolabel,
}

var (
	autolabelDryRun    bool
	autolabelShortlist int
)

// decisionLabels mark applicants whose outcome is already settled; autolabel
// never overrides them.
var decisionLabels = []string{"CONFIRMED", "VIP", "DECLINED", "NEXT-YEAR", "WITHDRAWN", "OVERQUALIFIED"}

func init() {
	rootCmd.AddCommand(autolabelCmd)
	autolabelCmd.Flags().BoolVar(&autolabelDryRun, "dry-run", false, "Print the changes without saving them")
	autolabelCmd.Flags().IntVar(&autolabelShortlist, "shortlist", 10, "Size of the shortlist tier below the cutoff")
}

func runAutolabel(cmd *cobra.Command, args []string) error {
	s, err := loadSession(cmd.Context())
	if err != nil {
		return err
	}

	entries, err := s.ranked(true)
	if err != nil {
		return err
	}

	changed := 0
	shortlisted := 0
	for _, e := range entries {
		if hasAnyLabel(e.Person.Labels(), decisionLabels) {
			continue
		}

		var want string
		switch {
		case e.Highlander && e.SameLab:
			want = rank.InviteSameLabPrefix
		case e.Highlander:
			want = "INVITE"
		case shortlisted < autolabelShortlist:
			want = "SHORTLIST"
			shortlisted++
		default:
			continue
		}
		if e.Person.HasLabel(want) {
			continue
		}

		fmt.Printf("%-30s -> %s\n", e.Person.Fullname(), want)
		changed++
		if autolabelDryRun {
			continue
		}
		e.Person.AddLabel(want)
		s.store.SetLabels(e.Person.Fullname(), e.Person.Labels())
	}

	if autolabelDryRun {
		fmt.Printf("%d change(s), none saved (dry run)\n", changed)
		return nil
	}
	fmt.Printf("%d change(s)\n", changed)
	return s.save()
}

func hasAnyLabel(labels, wanted []string) bool {
	for _, label := range labels {
		for _, w := range wanted {
			if label == w {
				return true
			}
		}
	}
	return false
}
