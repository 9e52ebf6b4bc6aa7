package output

import (
	"encoding/json"
	"fmt"
	"io"
	"math"
	"os"

	"github.com/applyrank/applyrank/internal/rank"
	"github.com/applyrank/applyrank/internal/score"
)

// JSON writes data as indented JSON to stdout
func JSON(data interface{}) error {
	return JSONTo(os.Stdout, data)
}

// JSONTo writes data as indented JSON to the given writer
func JSONTo(w io.Writer, data interface{}) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(jsonSafe(data))
}

// Output writes data in the specified format
func Output(format string, data interface{}) error {
	switch format {
	case "json":
		return JSON(data)
	case "table", "":
		return Table(data)
	default:
		return fmt.Errorf("unknown output format: %s", format)
	}
}

// rankRecord is the JSON shape of one ranking row. Scores may be NaN (an
// ungraded applicant under a motivation formula), which encoding/json
// refuses, so they encode as null instead.
type rankRecord struct {
	Rank        int      `json:"rank"`
	Score       *float64 `json:"score"` // null when not yet computable
	Fullname    string   `json:"fullname"`
	Email       string   `json:"email"`
	Affiliation string   `json:"affiliation"`
	Institute   string   `json:"institute"`
	Group       string   `json:"group"`
	Labels      []string `json:"labels"`
	Highlander  bool     `json:"highlander"`
	SameLab     bool     `json:"samelab"`
}

type termRecord struct {
	Term         string   `json:"term"`
	Contribution *float64 `json:"contribution"`
}

// analysisRecord is the JSON shape of a range analysis; a degenerate
// analysis has null min and max.
type analysisRecord struct {
	Min   *float64     `json:"min"`
	Max   *float64     `json:"max"`
	Terms []termRecord `json:"terms"`
}

// jsonSafe converts values that may carry NaN into encodable shapes.
func jsonSafe(data interface{}) interface{} {
	switch v := data.(type) {
	case []rank.Entry:
		records := make([]rankRecord, 0, len(v))
		for _, e := range v {
			records = append(records, rankRecord{
				Rank:        e.Rank,
				Score:       nanNull(e.Score),
				Fullname:    e.Person.Fullname(),
				Email:       e.Person.Email,
				Affiliation: e.Person.Affiliation,
				Institute:   e.Person.Institute,
				Group:       e.Person.Group,
				Labels:      e.Person.Labels(),
				Highlander:  e.Highlander,
				SameLab:     e.SameLab,
			})
		}
		return records
	case *score.Analysis:
		record := analysisRecord{
			Min:   nanNull(v.Min),
			Max:   nanNull(v.Max),
			Terms: []termRecord{},
		}
		for _, term := range v.Terms {
			record.Terms = append(record.Terms, termRecord{
				Term:         term,
				Contribution: nanNull(v.Contributions[term]),
			})
		}
		return record
	default:
		return data
	}
}

func nanNull(v float64) *float64 {
	if math.IsNaN(v) {
		return nil
	}
	return &v
}
