package seeder

import (
	"context"
	"fmt"

	"skilltrade/internal/database"
)

type SkillsSeeder struct{}

func (SkillsSeeder) Name() string { return "skills" }

// Run inserts the starter skill catalog. User-suggested skills are created
// at runtime through the catalog endpoint; this seed only keeps a fresh
// database from rendering an empty picker.
func (SkillsSeeder) Run(ctx context.Context, db database.DB) error {
	if err := skillsTableReady(ctx, db); err != nil {
		return err
	}

	tx, err := db.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback(context.Background())
	}()

	names := []string{
		"Guitar",
		"Piano",
		"Coding",
		"Photography",
		"Cooking",
		"Drawing",
		"Spanish",
		"French",
		"Yoga",
		"Swimming",
		"Chess",
		"Public Speaking",
	}

	for _, name := range names {
		if _, err := tx.Exec(
			ctx,
			`INSERT INTO skills (id, name) VALUES (gen_random_uuid(), $1) ON CONFLICT DO NOTHING`,
			name,
		); err != nil {
			return err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

// skillsTableReady fails fast with a clear error when the catalog table is
// missing, instead of erroring halfway through the insert loop.
func skillsTableReady(ctx context.Context, db database.DB) error {
	var ok bool
	if err := db.QueryRow(ctx, `SELECT to_regclass('public.skills') IS NOT NULL`).Scan(&ok); err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("skills table missing, migrations have not run")
	}
	return nil
}
