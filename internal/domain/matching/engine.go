package matching

import (
	"sort"

	"github.com/google/uuid"
)

type SkillSet struct {
	Have []uuid.UUID
	Want []uuid.UUID
}

type Overlap struct {
	Qualifies       bool
	MatchedSkillIDs []uuid.UUID
}

// Compute evaluates the pair (user, other) against the either-direction
// match rule: the pair qualifies when other teaches something user wants,
// or user teaches something other wants. MatchedSkillIDs is the union of
// both directions, deduplicated, in a deterministic order. The overlap is
// symmetric: swapping the two sides yields the same result.
func Compute(userID uuid.UUID, user SkillSet, otherID uuid.UUID, other SkillSet) Overlap {
	if userID == uuid.Nil || otherID == uuid.Nil || userID == otherID {
		return Overlap{}
	}

	matched := make(map[uuid.UUID]struct{})
	intersect(other.Have, user.Want, matched)
	intersect(user.Have, other.Want, matched)

	if len(matched) == 0 {
		return Overlap{}
	}

	ids := make([]uuid.UUID, 0, len(matched))
	for id := range matched {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i].String() < ids[j].String() })

	return Overlap{Qualifies: true, MatchedSkillIDs: ids}
}

func intersect(have, want []uuid.UUID, out map[uuid.UUID]struct{}) {
	if len(have) == 0 || len(want) == 0 {
		return
	}
	haveSet := make(map[uuid.UUID]struct{}, len(have))
	for _, id := range have {
		if id == uuid.Nil {
			continue
		}
		haveSet[id] = struct{}{}
	}
	for _, id := range want {
		if _, ok := haveSet[id]; ok {
			out[id] = struct{}{}
		}
	}
}
