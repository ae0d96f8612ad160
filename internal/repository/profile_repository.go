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

var ErrProfileNotFound = errors.New("profile not found")

const (
	SkillKindHave = "have"
	SkillKindWant = "want"
)

type Profile struct {
	UserID     uuid.UUID
	FullName   string
	Bio        string
	AvatarURL  string
	SkillsHave []uuid.UUID
	SkillsWant []uuid.UUID
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

type ProfileRepository interface {
	GetByUserID(ctx context.Context, userID uuid.UUID) (Profile, error)
	ExistsByUserID(ctx context.Context, userID uuid.UUID) (bool, error)
	Upsert(ctx context.Context, p Profile) (Profile, error)
	ListAll(ctx context.Context) ([]Profile, error)
}

type PostgresProfileRepository struct {
	db database.DB
}

func NewPostgresProfileRepository(db database.DB) *PostgresProfileRepository {
	return &PostgresProfileRepository{db: db}
}

func (r *PostgresProfileRepository) GetByUserID(ctx context.Context, userID uuid.UUID) (Profile, error) {
	row := r.db.QueryRow(ctx,
		`SELECT user_id, full_name, bio, avatar_url, created_at, updated_at
		 FROM profiles WHERE user_id = $1`,
		userID,
	)

	var p Profile
	if err := row.Scan(&p.UserID, &p.FullName, &p.Bio, &p.AvatarURL, &p.CreatedAt, &p.UpdatedAt); err != nil {
		if err == sql.ErrNoRows || errors.Is(err, pgx.ErrNoRows) {
			return Profile{}, ErrProfileNotFound
		}
		return Profile{}, err
	}

	have, want, err := r.loadSkills(ctx, userID)
	if err != nil {
		return Profile{}, err
	}
	p.SkillsHave = have
	p.SkillsWant = want
	return p, nil
}

func (r *PostgresProfileRepository) ExistsByUserID(ctx context.Context, userID uuid.UUID) (bool, error) {
	var exists bool
	row := r.db.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM profiles WHERE user_id = $1)`, userID)
	if err := row.Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

// Upsert writes the profile row and replaces both skill sets in a single
// transaction. Referential integrity against the skills table is enforced
// by foreign keys, so a bad skill id aborts the whole write.
func (r *PostgresProfileRepository) Upsert(ctx context.Context, p Profile) (Profile, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return Profile{}, err
	}
	defer func() {
		_ = tx.Rollback(context.Background())
	}()

	_, err = tx.Exec(ctx,
		`INSERT INTO profiles (user_id, full_name, bio, avatar_url)
		 VALUES ($1, $2, $3, $4)
		 ON CONFLICT (user_id) DO UPDATE
		 SET full_name = EXCLUDED.full_name,
		     bio = EXCLUDED.bio,
		     avatar_url = EXCLUDED.avatar_url,
		     updated_at = now()`,
		p.UserID, p.FullName, p.Bio, p.AvatarURL,
	)
	if err != nil {
		return Profile{}, err
	}

	if _, err := tx.Exec(ctx, `DELETE FROM profile_skills WHERE user_id = $1`, p.UserID); err != nil {
		return Profile{}, err
	}

	if err := insertSkillRows(ctx, tx, p.UserID, SkillKindHave, p.SkillsHave); err != nil {
		return Profile{}, err
	}
	if err := insertSkillRows(ctx, tx, p.UserID, SkillKindWant, p.SkillsWant); err != nil {
		return Profile{}, err
	}

	if err := tx.Commit(ctx); err != nil {
		return Profile{}, err
	}

	return r.GetByUserID(ctx, p.UserID)
}

func (r *PostgresProfileRepository) ListAll(ctx context.Context) ([]Profile, error) {
	rows, err := r.db.Query(ctx,
		`SELECT user_id, full_name, bio, avatar_url, created_at, updated_at
		 FROM profiles ORDER BY user_id ASC`,
	)
	if err != nil {
		return nil, err
	}

	out := make([]Profile, 0)
	byID := make(map[uuid.UUID]int)
	for rows.Next() {
		var p Profile
		if err := rows.Scan(&p.UserID, &p.FullName, &p.Bio, &p.AvatarURL, &p.CreatedAt, &p.UpdatedAt); err != nil {
			rows.Close()
			return nil, err
		}
		byID[p.UserID] = len(out)
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, err
	}
	rows.Close()

	skillRows, err := r.db.Query(ctx, `SELECT user_id, skill_id, kind FROM profile_skills`)
	if err != nil {
		return nil, err
	}
	defer skillRows.Close()

	for skillRows.Next() {
		var userID, skillID uuid.UUID
		var kind string
		if err := skillRows.Scan(&userID, &skillID, &kind); err != nil {
			return nil, err
		}
		idx, ok := byID[userID]
		if !ok {
			continue
		}
		switch kind {
		case SkillKindHave:
			out[idx].SkillsHave = append(out[idx].SkillsHave, skillID)
		case SkillKindWant:
			out[idx].SkillsWant = append(out[idx].SkillsWant, skillID)
		}
	}
	if err := skillRows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *PostgresProfileRepository) loadSkills(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, []uuid.UUID, error) {
	rows, err := r.db.Query(ctx,
		`SELECT skill_id, kind FROM profile_skills WHERE user_id = $1`,
		userID,
	)
	if err != nil {
		return nil, nil, err
	}
	defer rows.Close()

	have := make([]uuid.UUID, 0)
	want := make([]uuid.UUID, 0)
	for rows.Next() {
		var skillID uuid.UUID
		var kind string
		if err := rows.Scan(&skillID, &kind); err != nil {
			return nil, nil, err
		}
		switch kind {
		case SkillKindHave:
			have = append(have, skillID)
		case SkillKindWant:
			want = append(want, skillID)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, nil, err
	}
	return have, want, nil
}

func insertSkillRows(ctx context.Context, tx database.Tx, userID uuid.UUID, kind string, skillIDs []uuid.UUID) error {
	seen := make(map[uuid.UUID]struct{}, len(skillIDs))
	for _, id := range skillIDs {
		if id == uuid.Nil {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}

		_, err := tx.Exec(ctx,
			`INSERT INTO profile_skills (user_id, skill_id, kind) VALUES ($1, $2, $3)`,
			userID, id, kind,
		)
		if err != nil {
			return err
		}
	}
	return nil
}
