package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
)

func TestPostRating_Validation(t *testing.T) {
	profiles := newFakeProfileRepo()
	ana := seedProfile(profiles, "Ana", nil, nil)
	bea := seedProfile(profiles, "Bea", nil, nil)
	uc := NewRatingUsecase(newFakeRatingRepo(), profiles, newFakeCache())

	cases := []struct {
		name string
		in   PostRatingInput
		want error
	}{
		{"stars too low", PostRatingInput{FromUser: ana, ToUser: bea, Stars: 0}, ErrInvalidInput},
		{"stars too high", PostRatingInput{FromUser: ana, ToUser: bea, Stars: 6}, ErrInvalidInput},
		{"self rating", PostRatingInput{FromUser: ana, ToUser: ana, Stars: 3}, ErrInvalidInput},
		{"missing rater", PostRatingInput{FromUser: uuid.Nil, ToUser: bea, Stars: 3}, ErrInvalidInput},
		{"unknown target", PostRatingInput{FromUser: ana, ToUser: uuid.New(), Stars: 3}, ErrUnknownUser},
	}

	for _, tc := range cases {
		if _, err := uc.PostRating(context.Background(), tc.in); !errors.Is(err, tc.want) {
			t.Fatalf("%s: err = %v, want %v", tc.name, err, tc.want)
		}
	}
}

func TestPostRating_ReplacesExisting(t *testing.T) {
	profiles := newFakeProfileRepo()
	ana := seedProfile(profiles, "Ana", nil, nil)
	bea := seedProfile(profiles, "Bea", nil, nil)
	ratings := newFakeRatingRepo()
	uc := NewRatingUsecase(ratings, profiles, newFakeCache())

	if _, err := uc.PostRating(context.Background(), PostRatingInput{FromUser: ana, ToUser: bea, Stars: 2, Feedback: "ok"}); err != nil {
		t.Fatalf("first PostRating: %v", err)
	}
	if _, err := uc.PostRating(context.Background(), PostRatingInput{FromUser: ana, ToUser: bea, Stars: 5, Feedback: "great"}); err != nil {
		t.Fatalf("second PostRating: %v", err)
	}

	if ratings.size() != 1 {
		t.Fatalf("rating count = %d, want 1", ratings.size())
	}

	got, err := uc.GetRatingBetween(context.Background(), ana, bea)
	if err != nil {
		t.Fatalf("GetRatingBetween: %v", err)
	}
	if got.Stars != 5 || got.Feedback != "great" {
		t.Fatalf("got %d/%q, want replacement 5/%q", got.Stars, got.Feedback, "great")
	}
}

func TestPostRating_DirectionsAreIndependent(t *testing.T) {
	profiles := newFakeProfileRepo()
	ana := seedProfile(profiles, "Ana", nil, nil)
	bea := seedProfile(profiles, "Bea", nil, nil)
	ratings := newFakeRatingRepo()
	uc := NewRatingUsecase(ratings, profiles, newFakeCache())

	if _, err := uc.PostRating(context.Background(), PostRatingInput{FromUser: ana, ToUser: bea, Stars: 4}); err != nil {
		t.Fatalf("PostRating ana->bea: %v", err)
	}
	if _, err := uc.PostRating(context.Background(), PostRatingInput{FromUser: bea, ToUser: ana, Stars: 2}); err != nil {
		t.Fatalf("PostRating bea->ana: %v", err)
	}

	if ratings.size() != 2 {
		t.Fatalf("rating count = %d, want 2 independent directions", ratings.size())
	}
}

func TestGetUserRating_UnratedUserHasZeroAggregate(t *testing.T) {
	profiles := newFakeProfileRepo()
	ana := seedProfile(profiles, "Ana", nil, nil)
	uc := NewRatingUsecase(newFakeRatingRepo(), profiles, newFakeCache())

	got, err := uc.GetUserRating(context.Background(), ana)
	if err != nil {
		t.Fatalf("GetUserRating: %v", err)
	}
	if got.Average != 0 || got.Count != 0 {
		t.Fatalf("aggregate = %v/%d, want 0/0", got.Average, got.Count)
	}
	if len(got.Ratings) != 0 {
		t.Fatalf("ratings = %+v, want empty", got.Ratings)
	}
}

func TestGetUserRating_Aggregates(t *testing.T) {
	profiles := newFakeProfileRepo()
	ana := seedProfile(profiles, "Ana", nil, nil)
	bea := seedProfile(profiles, "Bea", nil, nil)
	cal := seedProfile(profiles, "Cal", nil, nil)
	ratings := newFakeRatingRepo()
	uc := NewRatingUsecase(ratings, profiles, newFakeCache())

	for _, in := range []PostRatingInput{
		{FromUser: bea, ToUser: ana, Stars: 5},
		{FromUser: cal, ToUser: ana, Stars: 2},
	} {
		if _, err := uc.PostRating(context.Background(), in); err != nil {
			t.Fatalf("PostRating: %v", err)
		}
	}

	got, err := uc.GetUserRating(context.Background(), ana)
	if err != nil {
		t.Fatalf("GetUserRating: %v", err)
	}
	if got.Count != 2 {
		t.Fatalf("count = %d, want 2", got.Count)
	}
	if got.Average != 3.5 {
		t.Fatalf("average = %v, want 3.5", got.Average)
	}
}

func TestGetRatingBetween_NotFound(t *testing.T) {
	uc := NewRatingUsecase(newFakeRatingRepo(), newFakeProfileRepo(), newFakeCache())

	_, err := uc.GetRatingBetween(context.Background(), uuid.New(), uuid.New())
	if !errors.Is(err, ErrRatingNotFound) {
		t.Fatalf("err = %v, want ErrRatingNotFound", err)
	}
}
