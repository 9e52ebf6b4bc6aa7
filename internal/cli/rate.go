package cli

import (
	"fmt"
	"sort"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/applyrank/applyrank/internal/output"
	"github.com/applyrank/applyrank/internal/rating"
)

var rateCmd = &cobra.Command{
	Use:   "rate",
	Short: "Show or edit the rating tables",
	Long: `Rating tables map raw survey answers to numbers the formula can use.
Keys are normalized (lowercased, truncated at the first parenthesis, slash or
comma), so "Novice (less than 1 year)" and "novice" are the same entry.

Examples:
  applyrank rate                          # show all rating tables
  applyrank rate --missing                # list answers the formula cannot score yet
  applyrank rate set programming novice 0 # set one value`,
	RunE: runRateShow,
}

var rateSetCmd = &cobra.Command{
	Use:   "set <category> <answer> <value>",
	Short: "Set one rating value",
	Args:  cobra.ExactArgs(3),
	RunE:  runRateSet,
}

var rateMissing bool

func init() {
	rootCmd.AddCommand(rateCmd)
	rateCmd.AddCommand(rateSetCmd)
	rateCmd.Flags().BoolVar(&rateMissing, "missing", false, "List pool answers without a rating entry")
}

func runRateShow(cmd *cobra.Command, args []string) error {
	s, err := loadSession(cmd.Context())
	if err != nil {
		return err
	}

	if rateMissing {
		return printMissingRatings(s)
	}
	return output.Output(outputFmt, s.rules.Ratings())
}

func runRateSet(cmd *cobra.Command, args []string) error {
	category, answer := args[0], args[1]
	value, err := strconv.ParseFloat(args[2], 64)
	if err != nil {
		return fmt.Errorf("rating value must be a number, got %q", args[2])
	}

	s, err := loadSession(cmd.Context())
	if err != nil {
		return err
	}

	s.store.SetRating(category, answer, value)
	if err := s.save(); err != nil {
		return err
	}
	fmt.Printf("%s[%s] = %g\n", category, rating.Normalize(answer), value)
	return nil
}

// printMissingRatings scans the pool for raw answers in the formula's rating
// categories that have no table entry yet.
func printMissingRatings(s *session) error {
	missing := make(map[string]map[string]int)
	for _, name := range s.rules.Formula().Vars() {
		if !s.rules.Ratings().Has(name) {
			continue
		}
		for _, p := range s.pool {
			raw, ok := p.RawValue(name)
			if !ok || raw == "" {
				continue
			}
			if _, err := s.rules.Ratings().Lookup(name, raw); err != nil {
				if missing[name] == nil {
					missing[name] = make(map[string]int)
				}
				missing[name][rating.Normalize(raw)]++
			}
		}
	}

	if len(missing) == 0 {
		fmt.Println("Every answer in the pool is rated.")
		return nil
	}

	categories := make([]string, 0, len(missing))
	for category := range missing {
		categories = append(categories, category)
	}
	sort.Strings(categories)

	for _, category := range categories {
		fmt.Printf("[%s]\n", category)
		for _, key := range sortedKeys(missing[category]) {
			fmt.Printf("  %-40s %d applicant(s)\n", key, missing[category][key])
		}
	}
	return nil
}

func sortedKeys(m map[string]int) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
