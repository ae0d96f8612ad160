package usecase

import (
	"context"
	"errors"
	"testing"

	"skilltrade/internal/repository"

	"github.com/google/uuid"
)

func seedProfile(profiles *fakeProfileRepo, name string, have, want []uuid.UUID) uuid.UUID {
	id := uuid.New()
	profiles.put(repository.Profile{
		UserID:     id,
		FullName:   name,
		SkillsHave: have,
		SkillsWant: want,
	})
	return id
}

func TestRecalculate_UnknownUser(t *testing.T) {
	uc := NewMatchingUsecase(newFakeProfileRepo(), newFakeMatchRepo(), newFakeCache())

	if err := uc.Recalculate(context.Background(), uuid.New()); !errors.Is(err, ErrUnknownUser) {
		t.Fatalf("err = %v, want ErrUnknownUser", err)
	}
}

func TestRecalculate_MirrorsRecords(t *testing.T) {
	skills := &fakeSkillRepo{}
	guitar := skills.addSkill("Guitar")
	piano := skills.addSkill("Piano")

	profiles := newFakeProfileRepo()
	ana := seedProfile(profiles, "Ana", []uuid.UUID{guitar.ID}, []uuid.UUID{piano.ID})
	bea := seedProfile(profiles, "Bea", []uuid.UUID{piano.ID}, []uuid.UUID{guitar.ID})
	cal := seedProfile(profiles, "Cal", nil, nil)

	matches := newFakeMatchRepo()
	uc := NewMatchingUsecase(profiles, matches, newFakeCache())

	if err := uc.Recalculate(context.Background(), ana); err != nil {
		t.Fatalf("Recalculate: %v", err)
	}

	if _, ok := matches.get(ana, bea); !ok {
		t.Fatal("missing record from ana's perspective")
	}
	mirror, ok := matches.get(bea, ana)
	if !ok {
		t.Fatal("missing mirrored record from bea's perspective")
	}
	if len(mirror.SkillIDs) != 2 {
		t.Fatalf("mirrored skills = %v, want both overlap directions", mirror.SkillIDs)
	}
	if _, ok := matches.get(ana, cal); ok {
		t.Fatal("matched a user with no skill overlap")
	}
}

func TestRecalculate_IsIdempotent(t *testing.T) {
	skills := &fakeSkillRepo{}
	guitar := skills.addSkill("Guitar")

	profiles := newFakeProfileRepo()
	ana := seedProfile(profiles, "Ana", []uuid.UUID{guitar.ID}, nil)
	bea := seedProfile(profiles, "Bea", nil, []uuid.UUID{guitar.ID})

	matches := newFakeMatchRepo()
	uc := NewMatchingUsecase(profiles, matches, newFakeCache())

	if err := uc.Recalculate(context.Background(), ana); err != nil {
		t.Fatalf("first Recalculate: %v", err)
	}
	first, _ := matches.get(ana, bea)

	if err := uc.Recalculate(context.Background(), ana); err != nil {
		t.Fatalf("second Recalculate: %v", err)
	}
	second, _ := matches.get(ana, bea)

	if second.ID != first.ID {
		t.Fatal("record identity changed on unchanged recalculation")
	}
	if !second.MatchedOn.Equal(first.MatchedOn) {
		t.Fatal("matched_on changed on unchanged recalculation")
	}
	if matches.countFor(ana) != 1 {
		t.Fatalf("record count = %d after rerun, want 1", matches.countFor(ana))
	}
}

func TestRecalculate_RemovesStaleMatches(t *testing.T) {
	skills := &fakeSkillRepo{}
	guitar := skills.addSkill("Guitar")

	profiles := newFakeProfileRepo()
	ana := seedProfile(profiles, "Ana", []uuid.UUID{guitar.ID}, nil)
	bea := seedProfile(profiles, "Bea", nil, []uuid.UUID{guitar.ID})

	matches := newFakeMatchRepo()
	uc := NewMatchingUsecase(profiles, matches, newFakeCache())

	if err := uc.Recalculate(context.Background(), ana); err != nil {
		t.Fatalf("Recalculate: %v", err)
	}
	if matches.countFor(bea) != 1 {
		t.Fatal("expected initial match for bea")
	}

	// Bea no longer wants anything ana has.
	profiles.put(repository.Profile{UserID: bea, FullName: "Bea"})
	if err := uc.Recalculate(context.Background(), ana); err != nil {
		t.Fatalf("Recalculate after profile change: %v", err)
	}

	if matches.countFor(ana) != 0 {
		t.Fatal("stale record kept from ana's perspective")
	}
	if matches.countFor(bea) != 0 {
		t.Fatal("stale mirrored record kept from bea's perspective")
	}
}

func TestRecalculate_InvalidatesRemovedCounterpartCache(t *testing.T) {
	skills := &fakeSkillRepo{}
	guitar := skills.addSkill("Guitar")

	profiles := newFakeProfileRepo()
	ana := seedProfile(profiles, "Ana", []uuid.UUID{guitar.ID}, nil)
	bea := seedProfile(profiles, "Bea", nil, []uuid.UUID{guitar.ID})

	matches := newFakeMatchRepo()
	cache := newFakeCache()
	uc := NewMatchingUsecase(profiles, matches, cache)

	if err := uc.Recalculate(context.Background(), ana); err != nil {
		t.Fatalf("Recalculate: %v", err)
	}
	if _, err := uc.GetMatches(context.Background(), bea); err != nil {
		t.Fatalf("GetMatches warm-up: %v", err)
	}
	if !cache.has("matches:" + bea.String()) {
		t.Fatal("expected bea's match list to be cached after the read")
	}

	// Bea no longer wants anything ana has; her mirrored record goes away.
	profiles.put(repository.Profile{UserID: bea, FullName: "Bea"})
	if err := uc.Recalculate(context.Background(), ana); err != nil {
		t.Fatalf("Recalculate after profile change: %v", err)
	}

	if cache.has("matches:" + bea.String()) {
		t.Fatal("ex-counterpart kept a cached list naming a removed match")
	}
}

func TestGetMatches_UnknownUser(t *testing.T) {
	uc := NewMatchingUsecase(newFakeProfileRepo(), newFakeMatchRepo(), newFakeCache())

	_, err := uc.GetMatches(context.Background(), uuid.New())
	if !errors.Is(err, ErrUnknownUser) {
		t.Fatalf("err = %v, want ErrUnknownUser", err)
	}
}

func TestGetMatches_ReturnsRecords(t *testing.T) {
	skills := &fakeSkillRepo{}
	guitar := skills.addSkill("Guitar")

	profiles := newFakeProfileRepo()
	ana := seedProfile(profiles, "Ana", []uuid.UUID{guitar.ID}, nil)
	bea := seedProfile(profiles, "Bea", nil, []uuid.UUID{guitar.ID})

	matches := newFakeMatchRepo()
	uc := NewMatchingUsecase(profiles, matches, newFakeCache())

	if err := uc.Recalculate(context.Background(), ana); err != nil {
		t.Fatalf("Recalculate: %v", err)
	}

	items, err := uc.GetMatches(context.Background(), ana)
	if err != nil {
		t.Fatalf("GetMatches: %v", err)
	}
	if len(items) != 1 {
		t.Fatalf("got %d matches, want 1", len(items))
	}
	if items[0].MatchedUserID != bea {
		t.Fatalf("matched_user_id = %s, want %s", items[0].MatchedUserID, bea)
	}
	if len(items[0].MatchedSkills) != 1 || items[0].MatchedSkills[0].ID != guitar.ID {
		t.Fatalf("matched skills = %+v, want guitar", items[0].MatchedSkills)
	}
}
