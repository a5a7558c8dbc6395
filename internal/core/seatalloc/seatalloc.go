// Package seatalloc selects the seat a check-in assigns. The pick is
// deterministic: among free seats of the ticket's class on the flight's
// aircraft, the one with the lowest seat ID wins. Determinism makes the
// exhaustion point reproducible: with N seats of a class checked in, the
// (N+1)-th attempt fails the same way every time.
package seatalloc

import "github.com/aerotix/aerotix/internal/domain"

// Pick returns the free seat of the given class with the lowest ID.
// seats must be the full cabin of one aircraft; occupied holds the seat IDs
// already assigned on the flight being boarded. ok is false when every seat
// of the class is taken.
func Pick(seats []domain.Seat, class domain.SeatClass, occupied map[int64]bool) (domain.Seat, bool) {
	var best domain.Seat
	found := false
	for _, s := range seats {
		if s.Class != class || occupied[s.ID] {
			continue
		}
		if !found || s.ID < best.ID {
			best = s
			found = true
		}
	}
	return best, found
}
