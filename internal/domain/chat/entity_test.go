package chat

import (
	"testing"

	"github.com/google/uuid"
)

func TestCanonicalPair_OrderIndependent(t *testing.T) {
	a := uuid.New()
	b := uuid.New()

	x1, y1 := CanonicalPair(a, b)
	x2, y2 := CanonicalPair(b, a)

	if x1 != x2 || y1 != y2 {
		t.Fatalf("pair order leaked through: (%s,%s) vs (%s,%s)", x1, y1, x2, y2)
	}
	if x1.String() > y1.String() {
		t.Fatalf("pair not sorted: %s > %s", x1, y1)
	}
}

func TestCounterpart(t *testing.T) {
	a := uuid.New()
	b := uuid.New()
	c := Chat{ID: uuid.New(), User1ID: a, User2ID: b}

	if got, ok := c.Counterpart(a); !ok || got != b {
		t.Fatalf("Counterpart(a) = %s,%v, want %s,true", got, ok, b)
	}
	if got, ok := c.Counterpart(b); !ok || got != a {
		t.Fatalf("Counterpart(b) = %s,%v, want %s,true", got, ok, a)
	}
	if _, ok := c.Counterpart(uuid.New()); ok {
		t.Fatal("Counterpart for non-participant reported ok")
	}
}

func TestHasParticipant(t *testing.T) {
	a := uuid.New()
	b := uuid.New()
	c := Chat{User1ID: a, User2ID: b}

	if !c.HasParticipant(a) || !c.HasParticipant(b) {
		t.Fatal("participants not recognized")
	}
	if c.HasParticipant(uuid.New()) {
		t.Fatal("stranger recognized as participant")
	}
}
