package usecase

import (
	"context"
	"errors"
	"time"

	"skilltrade/internal/repository"

	"github.com/google/uuid"
)

var ErrRatingNotFound = errors.New("rating not found")

type PostRatingInput struct {
	FromUser uuid.UUID
	ToUser   uuid.UUID
	Stars    int
	Feedback string
}

type RatingItem struct {
	FromUser  uuid.UUID `json:"from_user"`
	ToUser    uuid.UUID `json:"to_user"`
	Stars     int       `json:"stars"`
	Feedback  string    `json:"feedback"`
	CreatedAt time.Time `json:"created_at"`
}

type ReceivedRatingItem struct {
	FromUser     uuid.UUID `json:"from_user"`
	FromUserName string    `json:"from_user_name"`
	Stars        int       `json:"stars"`
	Feedback     string    `json:"feedback"`
	CreatedAt    time.Time `json:"created_at"`
}

// UserRating is the /rating/{userId} payload: the profile summary, the
// aggregate, and every received rating entry.
type UserRating struct {
	UserID    uuid.UUID            `json:"user_id"`
	FullName  string               `json:"full_name"`
	Bio       string               `json:"bio"`
	AvatarURL string               `json:"avatar_url"`
	Average   float64              `json:"average"`
	Count     int                  `json:"count"`
	Ratings   []ReceivedRatingItem `json:"ratings"`
}

type RatingUsecase interface {
	PostRating(ctx context.Context, in PostRatingInput) (RatingItem, error)
	GetUserRating(ctx context.Context, userID uuid.UUID) (UserRating, error)
	GetRatingBetween(ctx context.Context, fromUser, toUser uuid.UUID) (RatingItem, error)
}

type Rating struct {
	ratings  repository.RatingRepository
	profiles repository.ProfileRepository
	cache    Cache
}

func NewRatingUsecase(ratings repository.RatingRepository, profiles repository.ProfileRepository, c Cache) *Rating {
	return &Rating{ratings: ratings, profiles: profiles, cache: c}
}

// PostRating validates before any mutation and replaces an existing rating
// for the ordered pair rather than duplicating it.
func (u *Rating) PostRating(ctx context.Context, in PostRatingInput) (RatingItem, error) {
	if in.FromUser == uuid.Nil || in.ToUser == uuid.Nil {
		return RatingItem{}, ErrInvalidInput
	}
	if in.FromUser == in.ToUser {
		return RatingItem{}, ErrInvalidInput
	}
	if in.Stars < 1 || in.Stars > 5 {
		return RatingItem{}, ErrInvalidInput
	}

	for _, id := range []uuid.UUID{in.FromUser, in.ToUser} {
		exists, err := u.profiles.ExistsByUserID(ctx, id)
		if err != nil {
			return RatingItem{}, ErrInternal
		}
		if !exists {
			return RatingItem{}, ErrUnknownUser
		}
	}

	saved, err := u.ratings.Upsert(ctx, repository.Rating{
		FromUser: in.FromUser,
		ToUser:   in.ToUser,
		Stars:    in.Stars,
		Feedback: in.Feedback,
	})
	if err != nil {
		if isForeignKeyViolation(err) {
			return RatingItem{}, ErrUnknownUser
		}
		return RatingItem{}, ErrInternal
	}

	_ = u.cache.Delete(ctx, ratingCacheKey(in.ToUser))
	// The rater's match list embeds existing_rating.
	_ = u.cache.Delete(ctx, matchListCacheKey(in.FromUser))

	return RatingItem{
		FromUser:  saved.FromUser,
		ToUser:    saved.ToUser,
		Stars:     saved.Stars,
		Feedback:  saved.Feedback,
		CreatedAt: saved.CreatedAt,
	}, nil
}

func (u *Rating) GetUserRating(ctx context.Context, userID uuid.UUID) (UserRating, error) {
	if userID == uuid.Nil {
		return UserRating{}, ErrInvalidInput
	}

	var cached UserRating
	if ok, _ := u.cache.GetJSON(ctx, ratingCacheKey(userID), &cached); ok {
		return cached, nil
	}

	p, err := u.profiles.GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrProfileNotFound) {
			return UserRating{}, ErrUnknownUser
		}
		return UserRating{}, ErrInternal
	}

	agg, err := u.ratings.GetAggregate(ctx, userID)
	if err != nil {
		return UserRating{}, ErrInternal
	}

	received, err := u.ratings.ListReceived(ctx, userID)
	if err != nil {
		return UserRating{}, ErrInternal
	}

	out := UserRating{
		UserID:    p.UserID,
		FullName:  p.FullName,
		Bio:       p.Bio,
		AvatarURL: p.AvatarURL,
		Average:   agg.Average,
		Count:     agg.Count,
		Ratings:   make([]ReceivedRatingItem, 0, len(received)),
	}
	for _, rr := range received {
		out.Ratings = append(out.Ratings, ReceivedRatingItem{
			FromUser:     rr.FromUser,
			FromUserName: rr.FromUserName,
			Stars:        rr.Stars,
			Feedback:     rr.Feedback,
			CreatedAt:    rr.CreatedAt,
		})
	}

	_ = u.cache.SetJSON(ctx, ratingCacheKey(userID), out, 2*time.Minute)
	return out, nil
}

func (u *Rating) GetRatingBetween(ctx context.Context, fromUser, toUser uuid.UUID) (RatingItem, error) {
	if fromUser == uuid.Nil || toUser == uuid.Nil {
		return RatingItem{}, ErrInvalidInput
	}

	rt, err := u.ratings.GetBetween(ctx, fromUser, toUser)
	if err != nil {
		if errors.Is(err, repository.ErrRatingNotFound) {
			return RatingItem{}, ErrRatingNotFound
		}
		return RatingItem{}, ErrInternal
	}
	return RatingItem{
		FromUser:  rt.FromUser,
		ToUser:    rt.ToUser,
		Stars:     rt.Stars,
		Feedback:  rt.Feedback,
		CreatedAt: rt.CreatedAt,
	}, nil
}

func ratingCacheKey(userID uuid.UUID) string {
	return "rating:" + userID.String()
}
