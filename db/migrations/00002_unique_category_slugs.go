package migrations

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/pressly/goose/v3"
	"github.com/tfkr-ae/foundry/domain"
	_ "modernc.org/sqlite"
)

func init() {
	goose.AddMigrationContext(upUniqueCategorySlugs, downUniqueCategorySlugs)
}

// upUniqueCategorySlugs derives a slug for every category stored without one,
// suffixing duplicates, then enforces uniqueness.
func upUniqueCategorySlugs(ctx context.Context, tx *sql.Tx) error {
	rows, err := tx.QueryContext(ctx, "SELECT id, name, slug FROM category ORDER BY created_at")
	if err != nil {
		return fmt.Errorf("getting all categories: %w", err)
	}

	type category struct {
		id   string
		name string
		slug sql.NullString
	}
	var categories []category
	for rows.Next() {
		var c category
		if err := rows.Scan(&c.id, &c.name, &c.slug); err != nil {
			rows.Close()
			return fmt.Errorf("scanning row: %w", err)
		}
		categories = append(categories, c)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return fmt.Errorf("iterating rows: %w", err)
	}
	rows.Close()

	taken := make(map[string]bool, len(categories))
	for _, c := range categories {
		if c.slug.Valid && c.slug.String != "" {
			taken[c.slug.String] = true
		}
	}

	for _, c := range categories {
		if c.slug.Valid && c.slug.String != "" {
			continue
		}
		base := domain.Slugify(c.name)
		if base == "" {
			base = "category"
		}
		slug := base
		for n := 2; taken[slug]; n++ {
			slug = fmt.Sprintf("%s-%d", base, n)
		}
		taken[slug] = true

		if _, err := tx.ExecContext(ctx, "UPDATE category SET slug = ? WHERE id = ?", slug, c.id); err != nil {
			return fmt.Errorf("updating slug for row %s : %w", c.id, err)
		}
	}

	if _, err := tx.ExecContext(ctx, "CREATE UNIQUE INDEX IF NOT EXISTS category_slug_idx ON category(slug)"); err != nil {
		return fmt.Errorf("creating slug index: %w", err)
	}
	return nil
}

func downUniqueCategorySlugs(ctx context.Context, tx *sql.Tx) error {
	if _, err := tx.ExecContext(ctx, "DROP INDEX IF EXISTS category_slug_idx"); err != nil {
		return fmt.Errorf("dropping slug index: %w", err)
	}
	return nil
}
