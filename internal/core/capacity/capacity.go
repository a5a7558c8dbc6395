// Package capacity is the pure arithmetic of the capacity ledger: for each
// (flight, class), tickets sold must never exceed the seats of that class on
// the flight's aircraft. The functions here are side-effect free; callers
// evaluate them inside the same atomic scope as the writes they guard.
package capacity

import (
	"fmt"

	"github.com/aerotix/aerotix/internal/domain"
)

// ExceededError reports the first class whose requested count does not fit
// the remaining capacity.
type ExceededError struct {
	Class     domain.SeatClass
	Requested int
	Available int
}

func (e *ExceededError) Error() string {
	return fmt.Sprintf("capacity exceeded for class %q: requested %d, available %d",
		e.Class, e.Requested, e.Available)
}

// Available derives the remaining per-class capacity from the aircraft's
// seat counts and the tickets already sold on the flight. Classes with no
// seats are reported as zero rather than omitted.
func Available(seats, sold map[domain.SeatClass]int) map[domain.SeatClass]int {
	out := make(map[domain.SeatClass]int, len(seats))
	for _, class := range domain.Classes() {
		n := seats[class] - sold[class]
		if n < 0 {
			// Sold beyond physical seats means the ledger was corrupted
			// outside this core; clamp so callers still reject.
			n = 0
		}
		out[class] = n
	}
	return out
}

// Check rejects the request if any class asks for more than is available.
// Classes are evaluated in cabin order so the reported class is stable.
func Check(requested, available map[domain.SeatClass]int) error {
	for _, class := range domain.Classes() {
		want := requested[class]
		if want == 0 {
			continue
		}
		if have := available[class]; want > have {
			return &ExceededError{Class: class, Requested: want, Available: have}
		}
	}
	return nil
}
