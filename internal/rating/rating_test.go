package rating

import (
	"errors"
	"testing"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{"Novice/Advanced Beginner", "novice"},
		{"Minor contributions (bug reports, patches)", "minor contributions"},
		{"Competent, mostly self-taught", "competent"},
		{"  Expert  ", "expert"},
		{"expert", "expert"},
		{"", ""},
	}

	for _, tt := range tests {
		if got := Normalize(tt.raw); got != tt.want {
			t.Errorf("Normalize(%q) = %q, want %q", tt.raw, got, tt.want)
		}
	}

	// normalization is idempotent
	for _, tt := range tests {
		once := Normalize(tt.raw)
		if twice := Normalize(once); twice != once {
			t.Errorf("Normalize not idempotent: %q -> %q -> %q", tt.raw, once, twice)
		}
	}
}

func TestLookup(t *testing.T) {
	tables := make(Tables)
	tables.Set("programming", "Expert (10+ years)", 1)
	tables.Set("programming", "novice", 0)

	// raw variants with different suffixes resolve to the same entry
	for _, raw := range []string{"expert", "Expert", "expert/guru", "expert, really"} {
		v, err := tables.Lookup("programming", raw)
		if err != nil {
			t.Errorf("Lookup(programming, %q) error: %v", raw, err)
		}
		if v != 1 {
			t.Errorf("Lookup(programming, %q) = %v, want 1", raw, v)
		}
	}
}

func TestLookupErrors(t *testing.T) {
	tables := make(Tables)
	tables.Set("programming", "novice", 0)

	// unrated value within an existing table
	_, err := tables.Lookup("programming", "wizard")
	var notRated *NotRatedError
	if !errors.As(err, &notRated) {
		t.Fatalf("expected NotRatedError, got %v", err)
	}
	if notRated.Category != "programming" || notRated.Key != "wizard" {
		t.Errorf("unexpected error fields: %+v", notRated)
	}

	// category without any table is a different failure
	_, err = tables.Lookup("juggling", "expert")
	var noTable *NoTableError
	if !errors.As(err, &noTable) {
		t.Fatalf("expected NoTableError, got %v", err)
	}
	if errors.As(err, &notRated) {
		t.Error("NoTableError must not match NotRatedError")
	}
}

func TestValues(t *testing.T) {
	tables := make(Tables)
	tables.Set("open_source", "never used", 0)
	tables.Set("open_source", "user", 0.3)
	tables.Set("open_source", "contributor", 0.3)
	tables.Set("open_source", "member", 1)

	values := tables.Values("open_source")
	want := []float64{0, 0.3, 1}
	if len(values) != len(want) {
		t.Fatalf("Values() = %v, want %v", values, want)
	}
	for i := range want {
		if values[i] != want[i] {
			t.Fatalf("Values() = %v, want %v", values, want)
		}
	}
}

func TestCategories(t *testing.T) {
	tables := make(Tables)
	tables.Set("vcs", "git", 1)
	tables.Set("programming", "novice", 0)

	categories := tables.Categories()
	if len(categories) != 2 || categories[0] != "programming" || categories[1] != "vcs" {
		t.Errorf("Categories() = %v", categories)
	}
}
