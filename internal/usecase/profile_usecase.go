package usecase

import (
	"context"
	"errors"

	"skilltrade/internal/repository"

	"github.com/google/uuid"
)

var (
	ErrUnknownUser  = errors.New("unknown user")
	ErrUnknownSkill = errors.New("unknown skill")
)

// Recalculator accepts asynchronous match-recalculation requests. Enqueue
// returns once the request is durably queued, not once it has run.
type Recalculator interface {
	Enqueue(userID uuid.UUID)
}

type ProfileSkill struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}

type ProfileDetail struct {
	UserID     uuid.UUID      `json:"user_id"`
	FullName   string         `json:"full_name"`
	Bio        string         `json:"bio"`
	AvatarURL  string         `json:"avatar_url"`
	SkillsHave []ProfileSkill `json:"skills_have"`
	SkillsWant []ProfileSkill `json:"skills_want"`
}

type SaveProfileInput struct {
	UserID     uuid.UUID
	FullName   string
	Bio        string
	AvatarURL  string
	SkillsHave []uuid.UUID
	SkillsWant []uuid.UUID
}

type ProfileUsecase interface {
	GetProfile(ctx context.Context, userID uuid.UUID) (ProfileDetail, error)
	SaveProfile(ctx context.Context, in SaveProfileInput) (ProfileDetail, error)
}

type Profile struct {
	profiles repository.ProfileRepository
	skills   repository.SkillRepository
	recalc   Recalculator
	cache    Cache
}

func NewProfileUsecase(profiles repository.ProfileRepository, skills repository.SkillRepository, recalc Recalculator, c Cache) *Profile {
	return &Profile{profiles: profiles, skills: skills, recalc: recalc, cache: c}
}

func (u *Profile) GetProfile(ctx context.Context, userID uuid.UUID) (ProfileDetail, error) {
	if userID == uuid.Nil {
		return ProfileDetail{}, ErrInvalidInput
	}

	p, err := u.profiles.GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrProfileNotFound) {
			return ProfileDetail{}, ErrUnknownUser
		}
		return ProfileDetail{}, ErrInternal
	}
	return u.toDetail(ctx, p)
}

// SaveProfile upserts the profile and enqueues a match recalculation before
// returning. A getMatches read racing the recalculation may observe stale
// records; that window is accepted rather than blocked on.
func (u *Profile) SaveProfile(ctx context.Context, in SaveProfileInput) (ProfileDetail, error) {
	if in.UserID == uuid.Nil {
		return ProfileDetail{}, ErrInvalidInput
	}

	in.SkillsHave = dedupeIDs(in.SkillsHave)
	in.SkillsWant = dedupeIDs(in.SkillsWant)

	if err := u.validateSkillRefs(ctx, in.SkillsHave, in.SkillsWant); err != nil {
		return ProfileDetail{}, err
	}

	saved, err := u.profiles.Upsert(ctx, repository.Profile{
		UserID:     in.UserID,
		FullName:   in.FullName,
		Bio:        in.Bio,
		AvatarURL:  in.AvatarURL,
		SkillsHave: in.SkillsHave,
		SkillsWant: in.SkillsWant,
	})
	if err != nil {
		if isForeignKeyViolation(err) {
			return ProfileDetail{}, ErrUnknownSkill
		}
		return ProfileDetail{}, ErrInternal
	}

	if u.recalc != nil {
		u.recalc.Enqueue(in.UserID)
	}

	// Display fields are embedded in other users' cached match lists too.
	_ = u.cache.InvalidateUser(ctx, in.UserID.String())

	return u.toDetail(ctx, saved)
}

// validateSkillRefs rejects the whole write when any referenced skill id is
// not in the catalog.
func (u *Profile) validateSkillRefs(ctx context.Context, sets ...[]uuid.UUID) error {
	all := make([]uuid.UUID, 0)
	seen := make(map[uuid.UUID]struct{})
	for _, set := range sets {
		for _, id := range set {
			if id == uuid.Nil {
				return ErrUnknownSkill
			}
			if _, ok := seen[id]; ok {
				continue
			}
			seen[id] = struct{}{}
			all = append(all, id)
		}
	}
	if len(all) == 0 {
		return nil
	}

	n, err := u.skills.CountExisting(ctx, all)
	if err != nil {
		return ErrInternal
	}
	if n != len(all) {
		return ErrUnknownSkill
	}
	return nil
}

func (u *Profile) toDetail(ctx context.Context, p repository.Profile) (ProfileDetail, error) {
	ids := append(append([]uuid.UUID{}, p.SkillsHave...), p.SkillsWant...)
	skills, err := u.skills.FindByIDs(ctx, ids)
	if err != nil {
		return ProfileDetail{}, ErrInternal
	}

	names := make(map[uuid.UUID]string, len(skills))
	for _, s := range skills {
		names[s.ID] = s.Name
	}

	detail := ProfileDetail{
		UserID:     p.UserID,
		FullName:   p.FullName,
		Bio:        p.Bio,
		AvatarURL:  p.AvatarURL,
		SkillsHave: make([]ProfileSkill, 0, len(p.SkillsHave)),
		SkillsWant: make([]ProfileSkill, 0, len(p.SkillsWant)),
	}
	for _, id := range p.SkillsHave {
		detail.SkillsHave = append(detail.SkillsHave, ProfileSkill{ID: id, Name: names[id]})
	}
	for _, id := range p.SkillsWant {
		detail.SkillsWant = append(detail.SkillsWant, ProfileSkill{ID: id, Name: names[id]})
	}
	return detail, nil
}

func dedupeIDs(ids []uuid.UUID) []uuid.UUID {
	out := make([]uuid.UUID, 0, len(ids))
	seen := make(map[uuid.UUID]struct{}, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
