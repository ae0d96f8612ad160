package usecase

import (
	"context"
	"time"

	"skilltrade/internal/domain/matching"
	"skilltrade/internal/repository"

	"github.com/google/uuid"
)

type MatchSkillItem struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}

type MatchItem struct {
	ID               uuid.UUID        `json:"id"`
	UserID           uuid.UUID        `json:"user_id"`
	MatchedUserID    uuid.UUID        `json:"matched_user_id"`
	FullName         string           `json:"full_name"`
	Bio              string           `json:"bio"`
	AvatarURL        string           `json:"avatar_url"`
	MatchedSkills    []MatchSkillItem `json:"matched_skills"`
	MatchedOn        time.Time        `json:"matched_on"`
	ExistingRating   *int             `json:"existing_rating"`
	ExistingFeedback *string          `json:"existing_feedback"`
}

type MatchingUsecase interface {
	Recalculate(ctx context.Context, userID uuid.UUID) error
	GetMatches(ctx context.Context, userID uuid.UUID) ([]MatchItem, error)
}

type Matching struct {
	profiles repository.ProfileRepository
	matches  repository.MatchRepository
	cache    Cache
}

func NewMatchingUsecase(profiles repository.ProfileRepository, matches repository.MatchRepository, c Cache) *Matching {
	return &Matching{profiles: profiles, matches: matches, cache: c}
}

// Recalculate recomputes the match set for userID against every other
// profile and mirrors each record from the counterpart's perspective, so the
// symmetry invariant holds without a global recompute. Running it twice with
// unchanged profiles yields content-identical record sets.
func (u *Matching) Recalculate(ctx context.Context, userID uuid.UUID) error {
	if userID == uuid.Nil {
		return ErrInvalidInput
	}

	exists, err := u.profiles.ExistsByUserID(ctx, userID)
	if err != nil {
		return ErrInternal
	}
	if !exists {
		return ErrUnknownUser
	}

	all, err := u.profiles.ListAll(ctx)
	if err != nil {
		return ErrInternal
	}

	// Counterparts dropped by DeleteExcept lose their mirrored record, so
	// their cached lists go stale too. Collect everyone matched before the
	// recompute up front; the loop below adds everyone matched after it.
	prior, err := u.matches.ListByUserID(ctx, userID)
	if err != nil {
		return ErrInternal
	}
	touched := map[uuid.UUID]struct{}{userID: {}}
	for _, row := range prior {
		touched[row.MatchedUserID] = struct{}{}
	}

	var me repository.Profile
	for _, p := range all {
		if p.UserID == userID {
			me = p
			break
		}
	}

	mySet := matching.SkillSet{Have: me.SkillsHave, Want: me.SkillsWant}
	keep := make([]uuid.UUID, 0)

	for _, other := range all {
		if other.UserID == userID {
			continue
		}
		ov := matching.Compute(userID, mySet, other.UserID, matching.SkillSet{Have: other.SkillsHave, Want: other.SkillsWant})
		if !ov.Qualifies {
			continue
		}

		if err := u.matches.Save(ctx, userID, other.UserID, ov.MatchedSkillIDs); err != nil {
			return ErrInternal
		}
		if err := u.matches.Save(ctx, other.UserID, userID, ov.MatchedSkillIDs); err != nil {
			return ErrInternal
		}
		keep = append(keep, other.UserID)
		touched[other.UserID] = struct{}{}
	}

	if err := u.matches.DeleteExcept(ctx, userID, keep); err != nil {
		return ErrInternal
	}

	for id := range touched {
		_ = u.cache.Delete(ctx, matchListCacheKey(id))
	}
	return nil
}

func (u *Matching) GetMatches(ctx context.Context, userID uuid.UUID) ([]MatchItem, error) {
	if userID == uuid.Nil {
		return nil, ErrInvalidInput
	}

	exists, err := u.profiles.ExistsByUserID(ctx, userID)
	if err != nil {
		return nil, ErrInternal
	}
	if !exists {
		return nil, ErrUnknownUser
	}

	var cached []MatchItem
	if ok, _ := u.cache.GetJSON(ctx, matchListCacheKey(userID), &cached); ok {
		return cached, nil
	}

	rows, err := u.matches.ListByUserID(ctx, userID)
	if err != nil {
		return nil, ErrInternal
	}

	out := make([]MatchItem, 0, len(rows))
	for _, row := range rows {
		// A self-record never reaches the client.
		if row.MatchedUserID == row.UserID {
			continue
		}

		item := MatchItem{
			ID:               row.ID,
			UserID:           row.UserID,
			MatchedUserID:    row.MatchedUserID,
			FullName:         row.MatchedUserName,
			Bio:              row.MatchedUserBio,
			AvatarURL:        row.MatchedAvatarURL,
			MatchedSkills:    make([]MatchSkillItem, 0, len(row.MatchedSkills)),
			MatchedOn:        row.MatchedOn,
			ExistingRating:   row.ExistingStars,
			ExistingFeedback: row.ExistingFeedback,
		}
		for _, sk := range row.MatchedSkills {
			item.MatchedSkills = append(item.MatchedSkills, MatchSkillItem{ID: sk.ID, Name: sk.Name})
		}
		out = append(out, item)
	}

	_ = u.cache.SetJSON(ctx, matchListCacheKey(userID), out, 2*time.Minute)
	return out, nil
}

func matchListCacheKey(userID uuid.UUID) string {
	return "matches:" + userID.String()
}
