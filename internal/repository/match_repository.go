package repository

import (
	"context"
	"time"

	"skilltrade/internal/database"

	"github.com/google/uuid"
)

// MatchRow is a match record joined with the counterpart's display data,
// matched skill names and the viewer's existing rating of the counterpart.
type MatchRow struct {
	ID               uuid.UUID
	UserID           uuid.UUID
	MatchedUserID    uuid.UUID
	MatchedUserName  string
	MatchedUserBio   string
	MatchedAvatarURL string
	MatchedSkills    []MatchSkill
	MatchedOn        time.Time
	ExistingStars    *int
	ExistingFeedback *string
}

type MatchSkill struct {
	ID   uuid.UUID
	Name string
}

type MatchRepository interface {
	ListByUserID(ctx context.Context, userID uuid.UUID) ([]MatchRow, error)
	Save(ctx context.Context, userID, matchedUserID uuid.UUID, skillIDs []uuid.UUID) error
	DeleteExcept(ctx context.Context, userID uuid.UUID, keepMatchedUserIDs []uuid.UUID) error
}

type PostgresMatchRepository struct {
	db database.DB
}

func NewPostgresMatchRepository(db database.DB) *PostgresMatchRepository {
	return &PostgresMatchRepository{db: db}
}

// ListByUserID orders most-recently-matched first with the counterpart id as
// a deterministic tie-break.
func (r *PostgresMatchRepository) ListByUserID(ctx context.Context, userID uuid.UUID) ([]MatchRow, error) {
	rows, err := r.db.Query(ctx,
		`SELECT m.id, m.user_id, m.matched_user_id, p.full_name, p.bio, p.avatar_url, m.matched_on,
		        rt.stars, rt.feedback
		 FROM matches m
		 JOIN profiles p ON p.user_id = m.matched_user_id
		 LEFT JOIN ratings rt ON rt.from_user = m.user_id AND rt.to_user = m.matched_user_id
		 WHERE m.user_id = $1
		 ORDER BY m.matched_on DESC, m.matched_user_id ASC`,
		userID,
	)
	if err != nil {
		return nil, err
	}

	out := make([]MatchRow, 0)
	byMatchID := make(map[uuid.UUID]int)
	for rows.Next() {
		var mr MatchRow
		if err := rows.Scan(&mr.ID, &mr.UserID, &mr.MatchedUserID, &mr.MatchedUserName, &mr.MatchedUserBio,
			&mr.MatchedAvatarURL, &mr.MatchedOn, &mr.ExistingStars, &mr.ExistingFeedback); err != nil {
			rows.Close()
			return nil, err
		}
		byMatchID[mr.ID] = len(out)
		out = append(out, mr)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, err
	}
	rows.Close()

	if len(out) == 0 {
		return out, nil
	}

	matchIDs := make([]uuid.UUID, 0, len(out))
	for _, mr := range out {
		matchIDs = append(matchIDs, mr.ID)
	}

	skillRows, err := r.db.Query(ctx,
		`SELECT ms.match_id, s.id, s.name
		 FROM match_skills ms
		 JOIN skills s ON s.id = ms.skill_id
		 WHERE ms.match_id = ANY($1)
		 ORDER BY s.name ASC`,
		matchIDs,
	)
	if err != nil {
		return nil, err
	}
	defer skillRows.Close()

	for skillRows.Next() {
		var matchID uuid.UUID
		var sk MatchSkill
		if err := skillRows.Scan(&matchID, &sk.ID, &sk.Name); err != nil {
			return nil, err
		}
		if idx, ok := byMatchID[matchID]; ok {
			out[idx].MatchedSkills = append(out[idx].MatchedSkills, sk)
		}
	}
	if err := skillRows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// Save upserts a directed match record. An existing record keeps its
// matched_on timestamp so idempotent recalculations do not reshuffle the
// match ordering; only the matched skill set is refreshed.
func (r *PostgresMatchRepository) Save(ctx context.Context, userID, matchedUserID uuid.UUID, skillIDs []uuid.UUID) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback(context.Background())
	}()

	row := tx.QueryRow(ctx,
		`INSERT INTO matches (id, user_id, matched_user_id)
		 VALUES ($1, $2, $3)
		 ON CONFLICT (user_id, matched_user_id) DO UPDATE SET matched_on = matches.matched_on
		 RETURNING id`,
		uuid.New(), userID, matchedUserID,
	)

	var matchID uuid.UUID
	if err := row.Scan(&matchID); err != nil {
		return err
	}

	if _, err := tx.Exec(ctx,
		`DELETE FROM match_skills WHERE match_id = $1 AND skill_id != ALL($2)`,
		matchID, skillIDs,
	); err != nil {
		return err
	}

	for _, skillID := range skillIDs {
		if _, err := tx.Exec(ctx,
			`INSERT INTO match_skills (match_id, skill_id) VALUES ($1, $2) ON CONFLICT DO NOTHING`,
			matchID, skillID,
		); err != nil {
			return err
		}
	}

	return tx.Commit(ctx)
}

// DeleteExcept drops stale records in both directions: the user's own records
// whose counterpart no longer qualifies, and the mirrored records other users
// hold about this user.
func (r *PostgresMatchRepository) DeleteExcept(ctx context.Context, userID uuid.UUID, keepMatchedUserIDs []uuid.UUID) error {
	_, err := r.db.Exec(ctx,
		`DELETE FROM matches
		 WHERE (user_id = $1 AND matched_user_id != ALL($2))
		    OR (matched_user_id = $1 AND user_id != ALL($2))`,
		userID, keepMatchedUserIDs,
	)
	return err
}
