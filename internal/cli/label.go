package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var labelCmd = &cobra.Command{
	Use:   "label",
	Short: "Manage applicant labels",
	Long: `Labels steer the ranking without touching the formula: CONFIRMED,
VIP, INVITE, SHORTLIST and the like add their configured bonus to the score;
DECLINED, WITHDRAWN, NEXT-YEAR and OVERQUALIFIED push applicants to the
bottom.

Examples:
  applyrank label show "marie curie"
  applyrank label add "marie curie" INVITE
  applyrank label rm "marie curie" SHORTLIST
  applyrank label clear "marie curie"`,
}

var labelShowCmd = &cobra.Command{
	Use:   "show <applicant>",
	Short: "Show an applicant's labels",
	Args:  cobra.ExactArgs(1),
	RunE:  runLabelShow,
}

var labelAddCmd = &cobra.Command{
	Use:   "add <applicant> <label>...",
	Short: "Add labels to an applicant",
	Args:  cobra.MinimumNArgs(2),
	RunE:  runLabelAdd,
}

var labelRmCmd = &cobra.Command{
	Use:   "rm <applicant> <label>...",
	Short: "Remove labels from an applicant",
	Args:  cobra.MinimumNArgs(2),
	RunE:  runLabelRm,
}

var labelClearCmd = &cobra.Command{
	Use:   "clear <applicant>",
	Short: "Remove all labels from an applicant",
	Args:  cobra.ExactArgs(1),
	RunE:  runLabelClear,
}

func init() {
	rootCmd.AddCommand(labelCmd)
	labelCmd.AddCommand(labelShowCmd)
	labelCmd.AddCommand(labelAddCmd)
	labelCmd.AddCommand(labelRmCmd)
	labelCmd.AddCommand(labelClearCmd)
}

func runLabelShow(cmd *cobra.Command, args []string) error {
	s, err := loadSession(cmd.Context())
	if err != nil {
		return err
	}
	p, err := s.findPerson(args[0])
	if err != nil {
		return err
	}

	labels := p.Labels()
	if len(labels) == 0 {
		fmt.Printf("%s has no labels.\n", p.Fullname())
		return nil
	}
	fmt.Printf("%s: %s\n", p.Fullname(), strings.Join(labels, ", "))
	return nil
}

func runLabelAdd(cmd *cobra.Command, args []string) error {
	return editLabels(cmd, args[0], func(p labeled) {
		for _, label := range args[1:] {
			p.AddLabel(strings.ToUpper(label))
		}
	})
}

func runLabelRm(cmd *cobra.Command, args []string) error {
	return editLabels(cmd, args[0], func(p labeled) {
		for _, label := range args[1:] {
			p.RemoveLabel(strings.ToUpper(label))
		}
	})
}

func runLabelClear(cmd *cobra.Command, args []string) error {
	return editLabels(cmd, args[0], func(p labeled) {
		p.ClearLabels()
	})
}

type labeled interface {
	AddLabel(string)
	RemoveLabel(string)
	ClearLabels()
}

func editLabels(cmd *cobra.Command, query string, edit func(labeled)) error {
	s, err := loadSession(cmd.Context())
	if err != nil {
		return err
	}
	p, err := s.findPerson(query)
	if err != nil {
		return err
	}

	edit(p)
	s.store.SetLabels(p.Fullname(), p.Labels())
	if err := s.save(); err != nil {
		return err
	}

	if labels := p.Labels(); len(labels) > 0 {
		fmt.Printf("%s: %s\n", p.Fullname(), strings.Join(labels, ", "))
	} else {
		fmt.Printf("%s: no labels\n", p.Fullname())
	}
	return nil
}
