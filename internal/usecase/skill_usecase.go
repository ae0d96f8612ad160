package usecase

import (
	"context"
	"errors"
	"strings"
	"time"

	"skilltrade/internal/repository"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
)

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrInternal     = errors.New("internal error")
)

const skillListCacheKey = "skills:list"

type SkillItem struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}

type SkillUsecase interface {
	ListSkills(ctx context.Context) ([]SkillItem, error)
	AddSkill(ctx context.Context, name string) (SkillItem, error)
}

type Skill struct {
	repo  repository.SkillRepository
	cache Cache
}

func NewSkillUsecase(repo repository.SkillRepository, c Cache) *Skill {
	return &Skill{repo: repo, cache: c}
}

func (u *Skill) ListSkills(ctx context.Context) ([]SkillItem, error) {
	var cached []SkillItem
	if ok, _ := u.cache.GetJSON(ctx, skillListCacheKey, &cached); ok {
		return cached, nil
	}

	items, err := u.repo.GetAllSkills(ctx)
	if err != nil {
		return nil, ErrInternal
	}

	out := make([]SkillItem, 0, len(items))
	for _, it := range items {
		out = append(out, SkillItem{ID: it.ID, Name: it.Name})
	}

	_ = u.cache.SetJSON(ctx, skillListCacheKey, out, 10*time.Minute)
	return out, nil
}

// AddSkill returns the existing skill when a case-insensitive match already
// exists; names are never duplicated under case folding.
func (u *Skill) AddSkill(ctx context.Context, name string) (SkillItem, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return SkillItem{}, ErrInvalidInput
	}

	existing, err := u.repo.FindByName(ctx, name)
	if err == nil {
		return SkillItem{ID: existing.ID, Name: existing.Name}, nil
	}
	if !errors.Is(err, repository.ErrSkillNotFound) {
		return SkillItem{}, ErrInternal
	}

	created, err := u.repo.CreateSkill(ctx, name)
	if err != nil {
		// Lost a create race: another request inserted the same name.
		if isUniqueViolation(err) {
			if won, ferr := u.repo.FindByName(ctx, name); ferr == nil {
				return SkillItem{ID: won.ID, Name: won.Name}, nil
			}
		}
		return SkillItem{}, ErrInternal
	}

	_ = u.cache.Delete(ctx, skillListCacheKey)
	return SkillItem{ID: created.ID, Name: created.Name}, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return false
}

func isForeignKeyViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23503"
	}
	return false
}
