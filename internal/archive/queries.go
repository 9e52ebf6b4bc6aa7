package archive

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/applyrank/applyrank/internal/applicant"
)

// Edition is one imported year of the applicant pool.
type Edition struct {
	Name       string
	ImportedAt time.Time
	Applicants int
}

// ImportEdition stores one edition's applicant pool, replacing any previous
// import under the same name.
func (db *DB) ImportEdition(ctx context.Context, edition string, pool []*applicant.Person) error {
	return db.Transaction(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM editions WHERE name = ?`, edition); err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO editions (name, imported_at) VALUES (?, ?)
		`, edition, time.Now()); err != nil {
			return err
		}

		for _, p := range pool {
			_, err := tx.ExecContext(ctx, `
				INSERT INTO past_applicants (
					id, edition, fullname, email, nationality, affiliation, created_at
				) VALUES (?, ?, ?, ?, ?, ?, ?)
			`,
				uuid.New().String(), edition, strings.ToLower(p.Fullname()),
				strings.ToLower(p.Email), p.Nationality, p.Affiliation, time.Now(),
			)
			if err != nil {
				return err
			}
		}
		return nil
	})
}

// CountAppearances returns how many editions an applicant appears in,
// matching by fullname or email.
func (db *DB) CountAppearances(ctx context.Context, fullname, email string) (int, error) {
	var count int
	err := db.QueryRowContext(ctx, `
		SELECT COUNT(DISTINCT edition) FROM past_applicants
		WHERE fullname = ? OR (email != '' AND email = ?)
	`, strings.ToLower(fullname), strings.ToLower(email)).Scan(&count)
	if err != nil {
		return 0, err
	}
	return count, nil
}

// ListEditions returns the imported editions, oldest first.
func (db *DB) ListEditions(ctx context.Context) ([]Edition, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT e.name, e.imported_at, COUNT(p.id)
		FROM editions e
		LEFT JOIN past_applicants p ON p.edition = e.name
		GROUP BY e.name
		ORDER BY e.name ASC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var editions []Edition
	for rows.Next() {
		var e Edition
		if err := rows.Scan(&e.Name, &e.ImportedAt, &e.Applicants); err != nil {
			return nil, err
		}
		editions = append(editions, e)
	}

	return editions, rows.Err()
}

// Reconcile fills in each applicant's repeat-application count from the
// archive. Applicants whose form answer disagrees with the archive are
// returned so the caller can warn about them.
func (db *DB) Reconcile(ctx context.Context, pool []*applicant.Person) ([]*applicant.Person, error) {
	var mismatched []*applicant.Person
	for _, p := range pool {
		count, err := db.CountAppearances(ctx, p.Fullname(), p.Email)
		if err != nil {
			return nil, err
		}
		if p.Applied && count == 0 || !p.Applied && count > 0 {
			mismatched = append(mismatched, p)
		}
		if p.Applied && count == 0 {
			// trust the self-declaration when the archive has gaps
			count = 1
		}
		if p.NApplied != count {
			p.NApplied = count
			p.Touch()
		}
	}
	return mismatched, nil
}
