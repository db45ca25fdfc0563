// Package suggest implements one-hop collaborative filtering over favorite
// books: a user is offered what their taste neighbors liked that they have
// not favorited yet.
package suggest

import (
	"bytes"
	"slices"

	"github.com/google/uuid"
)

// Compute returns the books favorited by any user who shares at least one
// favorite with own, minus own. The result is deduplicated, unranked and
// uncapped. Books appear in the order they are first seen while walking
// neighbors by ascending user id, which keeps output stable for a given
// snapshot.
//
// An empty own set yields an empty, non-nil result.
func Compute(own []uuid.UUID, others map[uuid.UUID][]uuid.UUID) []uuid.UUID {
	result := []uuid.UUID{}
	if len(own) == 0 {
		return result
	}

	mine := make(map[uuid.UUID]struct{}, len(own))
	for _, id := range own {
		mine[id] = struct{}{}
	}

	seen := make(map[uuid.UUID]struct{})
	for _, userID := range sortedKeys(others) {
		favorites := others[userID]
		if !intersects(favorites, mine) {
			continue
		}
		for _, bookID := range favorites {
			if _, ok := mine[bookID]; ok {
				continue
			}
			if _, ok := seen[bookID]; ok {
				continue
			}
			seen[bookID] = struct{}{}
			result = append(result, bookID)
		}
	}

	return result
}

func intersects(favorites []uuid.UUID, set map[uuid.UUID]struct{}) bool {
	for _, id := range favorites {
		if _, ok := set[id]; ok {
			return true
		}
	}
	return false
}

func sortedKeys(m map[uuid.UUID][]uuid.UUID) []uuid.UUID {
	keys := make([]uuid.UUID, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.SortFunc(keys, func(a, b uuid.UUID) int {
		return bytes.Compare(a[:], b[:])
	})
	return keys
}
