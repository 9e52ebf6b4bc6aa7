package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/applyrank/applyrank/internal/formula"
	"github.com/applyrank/applyrank/internal/output"
	"github.com/applyrank/applyrank/internal/score"
)

var formulaCmd = &cobra.Command{
	Use:   "formula",
	Short: "Show, set or analyze the scoring formula",
}

var formulaShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the current formula and its parameters",
	RunE:  runFormulaShow,
}

var formulaSetCmd = &cobra.Command{
	Use:   "set <expression>",
	Short: "Set the scoring formula",
	Long: `Validate and store a new scoring formula.

The expression language supports numbers, quoted strings, parentheses, the
arithmetic operators + - * /, comparisons, and/or/not and 'in'. Variables are
rating categories (programming, python, ...), applicant attributes (born,
gender, nonmale, female, applied, nationality, affiliation, institute, group,
labels), the reviewer mean 'motivation', the parameter 'location' and the
constant 'nan'.

Example:
  applyrank formula set "programming + python + motivation + (nationality != affiliation)"`,
	Args: cobra.MinimumNArgs(1),
	RunE: runFormulaSet,
}

var formulaAnalyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Brute-force the formula's score range and term weights",
	RunE:  runFormulaAnalyze,
}

var formulaLocationCmd = &cobra.Command{
	Use:   "location [place]",
	Short: "Show or set the home location parameter",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runFormulaLocation,
}

var formulaAcceptCmd = &cobra.Command{
	Use:   "accept [count]",
	Short: "Show or set the acceptance cutoff size",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runFormulaAccept,
}

func init() {
	rootCmd.AddCommand(formulaCmd)
	formulaCmd.AddCommand(formulaShowCmd)
	formulaCmd.AddCommand(formulaSetCmd)
	formulaCmd.AddCommand(formulaAnalyzeCmd)
	formulaCmd.AddCommand(formulaLocationCmd)
	formulaCmd.AddCommand(formulaAcceptCmd)
}

func runFormulaShow(cmd *cobra.Command, args []string) error {
	s, err := loadSession(cmd.Context())
	if err != nil {
		return err
	}

	f := s.rules.Formula()
	fmt.Printf("Formula:      %s\n", f.Text())
	fmt.Printf("Variables:    %s\n", strings.Join(f.Vars(), ", "))
	fmt.Printf("Location:     %s\n", s.rules.Location())
	fmt.Printf("Accept count: %d\n", s.rules.AcceptCount())
	return nil
}

func runFormulaSet(cmd *cobra.Command, args []string) error {
	text := strings.Join(args, " ")
	// validate before persisting anything
	if _, err := formula.Parse(text); err != nil {
		return err
	}

	s, err := loadSession(cmd.Context())
	if err != nil {
		return err
	}
	if err := s.rules.SetFormula(text); err != nil {
		return err
	}

	// scoring the pool now surfaces unresolvable variables immediately
	if _, err := s.scored(); err != nil {
		return fmt.Errorf("formula does not evaluate over the pool: %w", err)
	}

	s.store.SetFormula(text)
	if err := s.save(); err != nil {
		return err
	}
	fmt.Printf("Formula set to: %s\n", text)
	return nil
}

func runFormulaAnalyze(cmd *cobra.Command, args []string) error {
	s, err := loadSession(cmd.Context())
	if err != nil {
		return err
	}

	analysis, err := score.Analyze(s.rules, s.appliedMax(), s.poolCountries())
	if err != nil {
		return err
	}

	if !analysis.Degenerate() {
		// every unlabeled applicant must land inside the analyzed range
		scored, err := s.scored()
		if err != nil {
			return err
		}
		for _, sc := range scored {
			if err := score.CheckBounds(sc.Person, sc.Score, analysis.Min, analysis.Max); err != nil {
				return err
			}
		}
	}

	return output.Output(outputFmt, analysis)
}

func runFormulaLocation(cmd *cobra.Command, args []string) error {
	s, err := loadSession(cmd.Context())
	if err != nil {
		return err
	}

	if len(args) == 0 {
		fmt.Println(s.rules.Location())
		return nil
	}

	s.store.SetLocation(args[0])
	if err := s.save(); err != nil {
		return err
	}
	fmt.Printf("Location set to: %s\n", args[0])
	return nil
}

func runFormulaAccept(cmd *cobra.Command, args []string) error {
	s, err := loadSession(cmd.Context())
	if err != nil {
		return err
	}

	if len(args) == 0 {
		fmt.Println(s.rules.AcceptCount())
		return nil
	}

	n, err := strconv.Atoi(args[0])
	if err != nil || n < 1 {
		return fmt.Errorf("accept count must be a positive integer, got %q", args[0])
	}

	s.store.SetAcceptCount(n)
	if err := s.save(); err != nil {
		return err
	}
	fmt.Printf("Accept count set to: %d\n", n)
	return nil
}
