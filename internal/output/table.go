package output

import (
	"fmt"
	"io"
	"math"
	"os"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"

	"github.com/applyrank/applyrank/internal/applicant"
	"github.com/applyrank/applyrank/internal/archive"
	"github.com/applyrank/applyrank/internal/rank"
	"github.com/applyrank/applyrank/internal/rating"
	"github.com/applyrank/applyrank/internal/score"
)

// Table writes data as a formatted table to stdout
func Table(data interface{}) error {
	return TableTo(os.Stdout, data)
}

// TableTo writes data as a formatted table to the given writer
func TableTo(w io.Writer, data interface{}) error {
	switch v := data.(type) {
	case []rank.Entry:
		return rankingTable(w, v)
	case *score.Analysis:
		return analysisTable(w, v)
	case rating.Tables:
		return ratingTables(w, v)
	case []archive.Edition:
		return editionsTable(w, v)
	case *applicant.Stats:
		return statsTable(w, v)
	default:
		return fmt.Errorf("unsupported data type for table output: %T", data)
	}
}

var labelColors = map[string]*color.Color{
	"CONFIRMED":     color.New(color.Bold),
	"VIP":           color.New(color.FgMagenta),
	"INVITE":        color.New(color.FgYellow),
	"SHORTLIST":     color.New(color.FgCyan),
	"DECLINED":      color.New(color.FgRed),
	"NEXT-YEAR":     color.New(color.FgRed),
	"WITHDRAWN":     color.New(color.FgRed),
	"OVERQUALIFIED": color.New(color.FgRed),
}

func colorLabel(label string) string {
	if c, ok := labelColors[label]; ok {
		return c.Sprint(label)
	}
	// the same-lab label family shares one color
	if strings.HasPrefix(label, rank.InviteSameLabPrefix) {
		return color.New(color.FgGreen).Sprint(label)
	}
	return label
}

// rankingTable prints the ranked pool with a separator line where the
// acceptance window closes.
func rankingTable(w io.Writer, entries []rank.Entry) error {
	if len(entries) == 0 {
		fmt.Fprintln(w, "No applicants.")
		return nil
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "RANK\tSCORE\tNAME\tAFFILIATION\tINSTITUTE\tLABELS")

	separatorDrawn := false
	for _, e := range entries {
		if !e.Highlander && !separatorDrawn {
			fmt.Fprintln(tw, strings.Repeat("-", 8)+"\t\t\t\t\t")
			separatorDrawn = true
		}

		scoreText := fmt.Sprintf("%.2f", e.Score)
		if math.IsNaN(e.Score) {
			scoreText = "-"
		}

		labels := make([]string, 0, len(e.Person.Labels()))
		for _, label := range e.Person.Labels() {
			labels = append(labels, colorLabel(label))
		}

		name := e.Person.Fullname()
		if e.SameLab {
			name = name + " *"
		}

		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%s\n",
			e.Rank,
			scoreText,
			truncate(name, 30),
			truncate(e.Person.Affiliation, 20),
			truncate(e.Person.Institute, 30),
			strings.Join(labels, ", "),
		)
	}

	if err := tw.Flush(); err != nil {
		return err
	}
	fmt.Fprintln(w)
	fmt.Fprintf(w, "%d applicants, * = same lab as a higher-ranked applicant\n", len(entries))
	return nil
}

// analysisTable prints the formula's score range and the per-term share of
// that range, largest contribution first.
func analysisTable(w io.Writer, a *score.Analysis) error {
	if a.Degenerate() {
		fmt.Fprintln(w, "Formula has no free variables; every applicant scores the same.")
		return nil
	}

	fmt.Fprintf(w, "Score range: %.2f to %.2f\n\n", a.Min, a.Max)

	terms := append([]string(nil), a.Terms...)
	sort.SliceStable(terms, func(i, j int) bool {
		return a.Contributions[terms[i]] > a.Contributions[terms[j]]
	})

	table := tablewriter.NewWriter(w)
	table.Header("Term", "Contribution")
	for _, term := range terms {
		if err := table.Append([]string{term, fmt.Sprintf("%.1f%%", a.Contributions[term])}); err != nil {
			return err
		}
	}
	return table.Render()
}

func ratingTables(w io.Writer, tables rating.Tables) error {
	for i, category := range tables.Categories() {
		if i > 0 {
			fmt.Fprintln(w)
		}
		fmt.Fprintf(w, "[%s]\n", category)

		table := tablewriter.NewWriter(w)
		table.Header("Answer", "Value")

		keys := make([]string, 0, len(tables[category]))
		for key := range tables[category] {
			keys = append(keys, key)
		}
		sort.Strings(keys)
		for _, key := range keys {
			if err := table.Append([]string{key, fmt.Sprintf("%g", tables[category][key])}); err != nil {
				return err
			}
		}
		if err := table.Render(); err != nil {
			return err
		}
	}
	return nil
}

func editionsTable(w io.Writer, editions []archive.Edition) error {
	if len(editions) == 0 {
		fmt.Fprintln(w, "No editions imported.")
		return nil
	}

	table := tablewriter.NewWriter(w)
	table.Header("Edition", "Applicants", "Imported")
	for _, e := range editions {
		err := table.Append([]string{e.Name, fmt.Sprintf("%d", e.Applicants), e.ImportedAt.Format("Jan 02, 2006")})
		if err != nil {
			return err
		}
	}
	return table.Render()
}

func statsTable(w io.Writer, s *applicant.Stats) error {
	fmt.Fprintln(w, "Applicant Pool Statistics")
	fmt.Fprintln(w, strings.Repeat("-", 30))
	fmt.Fprintf(w, "Total applicants:       %d\n", s.Total)
	fmt.Fprintf(w, "Female:                 %d\n", s.Female)
	fmt.Fprintf(w, "Male:                   %d\n", s.Male)
	fmt.Fprintf(w, "Other/undeclared:       %d\n", s.OtherGender)
	fmt.Fprintf(w, "Repeat applicants:      %d\n", s.Repeat)

	if len(s.Labels) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Labels:")
		for _, label := range sortedKeys(s.Labels) {
			fmt.Fprintf(w, "  %-22s%d\n", colorLabel(label), s.Labels[label])
		}
	}
	return nil
}

// DetailedStats adds the nationality, affiliation and position breakdowns.
func DetailedStats(w io.Writer, s *applicant.Stats) error {
	if err := statsTable(w, s); err != nil {
		return err
	}

	for _, section := range []struct {
		title  string
		counts map[string]int
	}{
		{"Nationality", s.Nationalities},
		{"Affiliation", s.Affiliations},
		{"Position", s.Positions},
	} {
		fmt.Fprintln(w)
		table := tablewriter.NewWriter(w)
		table.Header(section.title, "Count")
		for _, key := range keysByCount(section.counts) {
			if err := table.Append([]string{key, fmt.Sprintf("%d", section.counts[key])}); err != nil {
				return err
			}
		}
		if err := table.Render(); err != nil {
			return err
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

// keysByCount orders keys by descending count, then alphabetically.
func keysByCount(m map[string]int) []string {
	keys := sortedKeys(m)
	sort.SliceStable(keys, func(i, j int) bool { return m[keys[i]] > m[keys[j]] })
	return keys
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max-3] + "..."
}
