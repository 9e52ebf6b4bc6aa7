package cli

import (
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"
)

var equivCmd = &cobra.Command{
	Use:   "equiv",
	Short: "Manage institute and group spelling equivalences",
	Long: `Applicants spell their institute in many ways; equivalences fold the
variants onto one canonical name so the same-lab detection in the ranking
groups them correctly.

Examples:
  applyrank equiv list
  applyrank equiv add "University of Oslo" "UiO" "Universitetet i Oslo"`,
	RunE: runEquivList,
}

var equivListCmd = &cobra.Command{
	Use:   "list",
	Short: "List the recorded equivalences",
	RunE:  runEquivList,
}

var equivAddCmd = &cobra.Command{
	Use:   "add <canonical> <variant>...",
	Short: "Record spelling variants for a canonical name",
	Args:  cobra.MinimumNArgs(2),
	RunE:  runEquivAdd,
}

func init() {
	rootCmd.AddCommand(equivCmd)
	equivCmd.AddCommand(equivListCmd)
	equivCmd.AddCommand(equivAddCmd)
}

func runEquivList(cmd *cobra.Command, args []string) error {
	s, err := loadSession(cmd.Context())
	if err != nil {
		return err
	}

	equivs := s.rules.Equivs()
	if len(equivs) == 0 {
		fmt.Println("No equivalences recorded.")
		return nil
	}

	canonicals := make([]string, 0, len(equivs))
	for canonical := range equivs {
		canonicals = append(canonicals, canonical)
	}
	sort.Strings(canonicals)
	for _, canonical := range canonicals {
		fmt.Printf("%s = %s\n", canonical, strings.Join(equivs[canonical], " | "))
	}
	return nil
}

func runEquivAdd(cmd *cobra.Command, args []string) error {
	s, err := loadSession(cmd.Context())
	if err != nil {
		return err
	}

	s.store.AddEquiv(args[0], args[1:])
	if err := s.save(); err != nil {
		return err
	}
	fmt.Printf("%s = %s\n", args[0], strings.Join(args[1:], " | "))
	return nil
}
