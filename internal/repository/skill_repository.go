package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"skilltrade/internal/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

var ErrSkillNotFound = errors.New("skill not found")

type Skill struct {
	ID        uuid.UUID
	Name      string
	CreatedAt time.Time
}

type SkillRepository interface {
	GetAllSkills(ctx context.Context) ([]Skill, error)
	FindByName(ctx context.Context, name string) (Skill, error)
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]Skill, error)
	CountExisting(ctx context.Context, ids []uuid.UUID) (int, error)
	CreateSkill(ctx context.Context, name string) (Skill, error)
}

type PostgresSkillRepository struct {
	db database.DB
}

func NewPostgresSkillRepository(db database.DB) *PostgresSkillRepository {
	return &PostgresSkillRepository{db: db}
}

// GetAllSkills returns the catalog in insertion order so the client renders
// a stable list.
func (r *PostgresSkillRepository) GetAllSkills(ctx context.Context) ([]Skill, error) {
	rows, err := r.db.Query(ctx, `SELECT id, name, created_at FROM skills ORDER BY created_at ASC, id ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Skill, 0)
	for rows.Next() {
		var s Skill
		if err := rows.Scan(&s.ID, &s.Name, &s.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *PostgresSkillRepository) FindByName(ctx context.Context, name string) (Skill, error) {
	row := r.db.QueryRow(ctx,
		`SELECT id, name, created_at FROM skills WHERE LOWER(name) = LOWER($1)`,
		name,
	)

	var s Skill
	if err := row.Scan(&s.ID, &s.Name, &s.CreatedAt); err != nil {
		if err == sql.ErrNoRows || errors.Is(err, pgx.ErrNoRows) {
			return Skill{}, ErrSkillNotFound
		}
		return Skill{}, err
	}
	return s, nil
}

func (r *PostgresSkillRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]Skill, error) {
	if len(ids) == 0 {
		return []Skill{}, nil
	}

	rows, err := r.db.Query(ctx,
		`SELECT id, name, created_at FROM skills WHERE id = ANY($1) ORDER BY created_at ASC, id ASC`,
		ids,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Skill, 0, len(ids))
	for rows.Next() {
		var s Skill
		if err := rows.Scan(&s.ID, &s.Name, &s.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *PostgresSkillRepository) CountExisting(ctx context.Context, ids []uuid.UUID) (int, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	var n int
	row := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM skills WHERE id = ANY($1)`, ids)
	if err := row.Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

func (r *PostgresSkillRepository) CreateSkill(ctx context.Context, name string) (Skill, error) {
	id := uuid.New()
	row := r.db.QueryRow(ctx,
		`INSERT INTO skills (id, name) VALUES ($1, $2) RETURNING id, name, created_at`,
		id, name,
	)

	var s Skill
	if err := row.Scan(&s.ID, &s.Name, &s.CreatedAt); err != nil {
		return Skill{}, err
	}
	return s, nil
}
