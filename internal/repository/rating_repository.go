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

var ErrRatingNotFound = errors.New("rating not found")

type Rating struct {
	FromUser  uuid.UUID
	ToUser    uuid.UUID
	Stars     int
	Feedback  string
	CreatedAt time.Time
}

// ReceivedRating is a rating joined with the rater's display name.
type ReceivedRating struct {
	FromUser     uuid.UUID
	FromUserName string
	Stars        int
	Feedback     string
	CreatedAt    time.Time
}

type RatingAggregate struct {
	Average float64
	Count   int
}

type RatingRepository interface {
	Upsert(ctx context.Context, rt Rating) (Rating, error)
	GetAggregate(ctx context.Context, userID uuid.UUID) (RatingAggregate, error)
	GetBetween(ctx context.Context, fromUser, toUser uuid.UUID) (Rating, error)
	ListReceived(ctx context.Context, userID uuid.UUID) ([]ReceivedRating, error)
}

type PostgresRatingRepository struct {
	db database.DB
}

func NewPostgresRatingRepository(db database.DB) *PostgresRatingRepository {
	return &PostgresRatingRepository{db: db}
}

// Upsert enforces at most one active rating per ordered (from, to) pair:
// re-submission replaces the previous rating instead of appending.
func (r *PostgresRatingRepository) Upsert(ctx context.Context, rt Rating) (Rating, error) {
	row := r.db.QueryRow(ctx,
		`INSERT INTO ratings (from_user, to_user, stars, feedback)
		 VALUES ($1, $2, $3, $4)
		 ON CONFLICT (from_user, to_user) DO UPDATE
		 SET stars = EXCLUDED.stars,
		     feedback = EXCLUDED.feedback,
		     created_at = now()
		 RETURNING from_user, to_user, stars, feedback, created_at`,
		rt.FromUser, rt.ToUser, rt.Stars, rt.Feedback,
	)

	var saved Rating
	if err := row.Scan(&saved.FromUser, &saved.ToUser, &saved.Stars, &saved.Feedback, &saved.CreatedAt); err != nil {
		return Rating{}, err
	}
	return saved, nil
}

// GetAggregate reports {0, 0} for an unrated user rather than an error.
func (r *PostgresRatingRepository) GetAggregate(ctx context.Context, userID uuid.UUID) (RatingAggregate, error) {
	row := r.db.QueryRow(ctx,
		`SELECT COALESCE(AVG(stars), 0), COUNT(*) FROM ratings WHERE to_user = $1`,
		userID,
	)

	var agg RatingAggregate
	if err := row.Scan(&agg.Average, &agg.Count); err != nil {
		return RatingAggregate{}, err
	}
	return agg, nil
}

func (r *PostgresRatingRepository) GetBetween(ctx context.Context, fromUser, toUser uuid.UUID) (Rating, error) {
	row := r.db.QueryRow(ctx,
		`SELECT from_user, to_user, stars, feedback, created_at
		 FROM ratings WHERE from_user = $1 AND to_user = $2`,
		fromUser, toUser,
	)

	var rt Rating
	if err := row.Scan(&rt.FromUser, &rt.ToUser, &rt.Stars, &rt.Feedback, &rt.CreatedAt); err != nil {
		if err == sql.ErrNoRows || errors.Is(err, pgx.ErrNoRows) {
			return Rating{}, ErrRatingNotFound
		}
		return Rating{}, err
	}
	return rt, nil
}

func (r *PostgresRatingRepository) ListReceived(ctx context.Context, userID uuid.UUID) ([]ReceivedRating, error) {
	rows, err := r.db.Query(ctx,
		`SELECT rt.from_user, COALESCE(p.full_name, ''), rt.stars, rt.feedback, rt.created_at
		 FROM ratings rt
		 LEFT JOIN profiles p ON p.user_id = rt.from_user
		 WHERE rt.to_user = $1
		 ORDER BY rt.created_at DESC, rt.from_user ASC`,
		userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]ReceivedRating, 0)
	for rows.Next() {
		var rr ReceivedRating
		if err := rows.Scan(&rr.FromUser, &rr.FromUserName, &rr.Stars, &rr.Feedback, &rr.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, rr)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
