package cli

import (
	"bufio"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
)

var gradeCmd = &cobra.Command{
	Use:   "grade [applicant] [score]",
	Short: "Grade motivation statements",
	Long: `Record motivation scores, one per reviewer identity.

Without arguments, walks interactively through the applicants the identity
has not graded yet. With an applicant and a score, records the score
directly. Scores run from -1 (weak) through 0 to 1 (strong); the applicant's
motivation value is the mean over the reviewers who graded them.

Examples:
  applyrank grade --identity alice           # interactive grading session
  applyrank grade "marie curie" 1 -i alice   # record one score`,
	Args: cobra.MaximumNArgs(2),
	RunE: runGrade,
}

var gradeIdentity string

func init() {
	rootCmd.AddCommand(gradeCmd)
	gradeCmd.Flags().StringVarP(&gradeIdentity, "identity", "i", "", "Reviewer identity (required)")
	gradeCmd.MarkFlagRequired("identity")
}

func runGrade(cmd *cobra.Command, args []string) error {
	s, err := loadSession(cmd.Context())
	if err != nil {
		return err
	}

	if len(args) == 2 {
		return gradeOne(s, args[0], args[1])
	}
	if len(args) == 1 {
		return fmt.Errorf("expected both an applicant and a score")
	}
	return gradeInteractive(cmd, s)
}

func gradeOne(s *session, query, rawScore string) error {
	value, err := parseMotivationScore(rawScore)
	if err != nil {
		return err
	}
	p, err := s.findPerson(query)
	if err != nil {
		return err
	}

	p.SetMotivationScore(gradeIdentity, value)
	s.store.SetMotivationScore(p.Fullname(), gradeIdentity, value)
	if err := s.save(); err != nil {
		return err
	}
	fmt.Printf("%s: motivation %g (reviewer %s, mean %g)\n",
		p.Fullname(), value, gradeIdentity, p.MotivationMean())
	return nil
}

func gradeInteractive(cmd *cobra.Command, s *session) error {
	reader := bufio.NewScanner(cmd.InOrStdin())
	graded := 0

	for _, p := range s.pool {
		if _, done := p.MotivationScores()[gradeIdentity]; done {
			continue
		}

		fmt.Printf("\n%s  (%s, %s)\n", p.Fullname(), p.Position, p.Affiliation)
		fmt.Println(strings.Repeat("-", 60))
		fmt.Println(strings.TrimSpace(p.Motivation))
		fmt.Println(strings.Repeat("-", 60))
		fmt.Print("score [-1..1], s = skip, q = quit: ")

		if !reader.Scan() {
			break
		}
		answer := strings.TrimSpace(reader.Text())
		switch answer {
		case "q":
			fmt.Printf("Graded %d applicant(s).\n", graded)
			return s.save()
		case "s", "":
			continue
		}

		value, err := parseMotivationScore(answer)
		if err != nil {
			fmt.Println(err)
			continue
		}
		p.SetMotivationScore(gradeIdentity, value)
		s.store.SetMotivationScore(p.Fullname(), gradeIdentity, value)
		graded++
	}

	fmt.Printf("Graded %d applicant(s); nothing left for reviewer %s.\n", graded, gradeIdentity)
	return s.save()
}

func parseMotivationScore(raw string) (float64, error) {
	value, err := strconv.ParseFloat(raw, 64)
	if err != nil || value < -1 || value > 1 {
		return 0, fmt.Errorf("motivation score must be a number in [-1, 1], got %q", raw)
	}
	return value, nil
}
