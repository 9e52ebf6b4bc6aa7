// Package ingest loads applicant pools from survey CSV exports. Column
// headers vary between editions and survey tools, so they are mapped to
// canonical field names through an alias table.
package ingest

import (
	"encoding/csv"
	"fmt"
	"os"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/applyrank/applyrank/internal/applicant"
)

// knownFields maps canonical field names to header aliases seen across
// editions of the application form.
var knownFields = map[string][]string{
	"email":       {"email address"},
	"institute":   {"aff-uni", "institution", "affiliation[uni]", "university/institute/company"},
	"group":       {"aff-group", "affiliation[grp]", "group/division/department"},
	"nationality": {"nat"},
	"name":        {"first name"},
	"affiliation": {"country of affiliation", "aff-state", "instit loc"},
	"applied":     {"did you already apply", "prev-application"},
	"programming": {"estimate your programming skills"},
	"programming_description": {"programming experience"},
	"python":                  {"python skills"},
	"open_source":             {"exposure to open-source", "opensource"},
	"open_source_description": {"description of your contrib"},
	"motivation":              {"appropriate course for your skill profile"},
	"cv":                      {"curriculum vitae"},
	"lastname":                {"last name", "surname"},
	"born":                    {"year of birth"},
	"vcs":                     {"habitually use a version control system"},
	"position":                {"position"},
	"gender":                  {"gender"},
}

var otherPattern = regexp.MustCompile(`^(.+?)\s*\[other\]$|^\[other\]\s*(.+)$`)

// colToField resolves one CSV header description to a canonical field name.
// Descriptions may carry survey-tool prefixes ("KEY. Blah blah") and
// "[other]" variants, which map to the base field with an _other suffix.
func colToField(description string) (string, error) {
	desc := strings.Join(strings.Fields(strings.ToLower(description)), " ")
	desc = strings.Trim(desc, `"`)
	desc = strings.ReplaceAll(desc, ":", "")
	full := desc
	desc, _, _ = strings.Cut(desc, ".")
	desc = strings.TrimSpace(desc)

	suffix := ""
	if m := otherPattern.FindStringSubmatch(desc); m != nil {
		if m[1] != "" {
			desc = m[1]
		} else {
			desc = m[2]
		}
		suffix = "_other"
	}

	// exact field name or alias first, then fuzzy substring matches
	candidates := map[string]int{}
	for field, aliases := range knownFields {
		if desc == field {
			return field + suffix, nil
		}
		for _, alias := range aliases {
			if desc == alias {
				return field + suffix, nil
			}
			if strings.Contains(full, alias) {
				candidates[field] = len(alias)
				break
			}
		}
	}

	if len(candidates) == 0 {
		// unknown column: keep it, normalized, so formulas can still
		// reference it as an extra attribute
		return strings.ReplaceAll(desc, " ", "_") + suffix, nil
	}
	if len(candidates) == 1 {
		for field := range candidates {
			return field + suffix, nil
		}
	}

	// several fuzzy matches: accept the longest only if it wins clearly
	best := make([]string, 0, len(candidates))
	for field := range candidates {
		best = append(best, field)
	}
	sort.Slice(best, func(i, j int) bool { return candidates[best[i]] > candidates[best[j]] })
	if candidates[best[0]] > candidates[best[1]]+10 {
		return best[0] + suffix, nil
	}
	return "", fmt.Errorf("ambiguous column %q: candidates %v", description, best)
}

// headerToFields maps a full CSV header, rejecting collisions where two
// columns would land on the same field.
func headerToFields(header []string) ([]string, error) {
	fields := make([]string, 0, len(header))
	seen := make(map[string]string)
	for _, name := range header {
		field, err := colToField(name)
		if err != nil {
			return nil, err
		}
		if prev, ok := seen[field]; ok {
			return nil, fmt.Errorf("both %q and %q map to %q", name, prev, field)
		}
		seen[field] = name
		fields = append(fields, field)
	}
	return fields, nil
}

// Hydrator supplies per-applicant state recorded outside the CSV.
type Hydrator interface {
	Labels(fullname string) []string
	MotivationScores(fullname string) map[string]float64
}

// LoadCSV reads an applications CSV and returns the applicant pool. The
// hydrator (usually the INI store) attaches labels and motivation scores;
// it may be nil. Relaxed mode skips value validation for old editions.
func LoadCSV(path string, hydrator Hydrator, relaxed bool) ([]*applicant.Person, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	// tolerate a UTF-8 BOM from spreadsheet exports
	text := strings.TrimPrefix(string(data), "\uFEFF")

	reader := csv.NewReader(strings.NewReader(text))
	reader.Comma = sniffDelimiter(text)
	reader.FieldsPerRecord = -1

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("%s: empty file", path)
	}

	fields, err := headerToFields(rows[0])
	if err != nil {
		return nil, err
	}

	var pool []*applicant.Person
	for i, row := range rows[1:] {
		if emptyRow(row) {
			continue
		}
		p, err := buildPerson(fields, row, relaxed)
		if err != nil {
			return nil, fmt.Errorf("%s row %d: %w", path, i+2, err)
		}
		if hydrator != nil {
			p.SetLabels(hydrator.Labels(p.Fullname()))
			for identity, score := range hydrator.MotivationScores(p.Fullname()) {
				p.SetMotivationScore(identity, score)
			}
		}
		pool = append(pool, p)
	}
	return pool, nil
}

// sniffDelimiter picks the separator that splits the header into more
// columns; survey exports use either commas or semicolons.
func sniffDelimiter(text string) rune {
	header, _, _ := strings.Cut(text, "\n")
	if strings.Count(header, ";") > strings.Count(header, ",") {
		return ';'
	}
	return ','
}

func emptyRow(row []string) bool {
	distinct := make(map[string]bool)
	for _, cell := range row {
		distinct[cell] = true
	}
	return len(row) == 0 || len(distinct) <= 1
}

func buildPerson(fields, row []string, relaxed bool) (*applicant.Person, error) {
	p := &applicant.Person{
		ID:    uuid.NewString(),
		Extra: make(map[string]string),
	}
	for i, field := range fields {
		if i >= len(row) {
			break
		}
		value := row[i]
		switch field {
		case "name":
			p.Name = value
		case "lastname":
			p.Lastname = value
		case "email":
			p.Email = value
		case "gender":
			p.Gender = value
		case "institute":
			p.Institute = value
		case "group":
			p.Group = value
		case "affiliation":
			p.Affiliation = value
		case "position":
			p.Position = value
		case "position_other":
			p.PositionOther = value
		case "programming":
			p.Programming = value
		case "programming_description":
			p.ProgrammingDescription = value
		case "python":
			p.Python = value
		case "vcs":
			p.VCS = value
		case "open_source":
			p.OpenSource = value
		case "open_source_description":
			p.OpenSourceDescription = value
		case "cv":
			p.CV = value
		case "motivation":
			p.Motivation = value
		case "nationality":
			p.Nationality = value
		case "born":
			if trimmed := strings.TrimSpace(value); trimmed != "" {
				born, err := strconv.Atoi(trimmed)
				if err != nil {
					return nil, fmt.Errorf("bad birth year %q", value)
				}
				p.Born = born
			}
		case "applied":
			p.Applied = applicant.ParseApplied(value)
		default:
			p.Extra[field] = value
		}
	}

	p.Normalize()
	if err := p.Validate(relaxed); err != nil {
		return nil, err
	}
	return p, nil
}
