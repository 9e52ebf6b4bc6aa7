package cli

import (
	"strings"
	"testing"

	"github.com/applyrank/applyrank/internal/applicant"
)

func dumpFixture() (*applicant.Person, dumpRecord) {
	p := &applicant.Person{
		Name: "Marie", Lastname: "Curie", Email: "marie@example.org",
		Gender: "female", Born: 1990, Nationality: "Sylvania",
		Affiliation: "Freedonia", Institute: "Radium Institute", Group: "Physics",
		Position: "Post-doctorate", Programming: "Expert",
		Python: "Competent/Proficient", VCS: "Git", OpenSource: "User",
	}
	score := 1.5
	return p, dumpRecord{
		Fullname:  p.Fullname(),
		Email:     p.Email,
		Born:      p.Born,
		Institute: p.Institute,
		Labels:    []string{"INVITE"},
		Score:     &score,
	}
}

func TestPrintRecord(t *testing.T) {
	p, r := dumpFixture()

	var buf strings.Builder
	printRecord(&buf, p, r)
	got := buf.String()

	for _, want := range []string{
		"Marie Curie <marie@example.org>",
		"Radium Institute",
		"Labels:      INVITE",
		"Score:       1.5",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("record output missing %q:\n%s", want, got)
		}
	}
}

func TestPrintRecordWithoutScore(t *testing.T) {
	p, r := dumpFixture()
	r.Score = nil

	var buf strings.Builder
	printRecord(&buf, p, r)

	if !strings.Contains(buf.String(), "not yet computable") {
		t.Errorf("expected the missing-score placeholder:\n%s", buf.String())
	}
}

func TestPrintRecords(t *testing.T) {
	p1, r1 := dumpFixture()
	p2, r2 := dumpFixture()
	p2.Name, r2.Fullname = "Ada", "Ada Curie"

	var buf strings.Builder
	printRecords(&buf, []*applicant.Person{p1, p2}, []dumpRecord{r1, r2})
	got := buf.String()

	if !strings.Contains(got, "Marie Curie") || !strings.Contains(got, "Ada Curie") {
		t.Errorf("pool dump missing a record:\n%s", got)
	}
	if !strings.Contains(got, strings.Repeat("=", 60)) {
		t.Errorf("pool dump missing the record separator:\n%s", got)
	}
}
