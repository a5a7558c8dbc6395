package checkin

import "errors"

var (
	ErrTicketNotFound = errors.New("ticket not found")

	// ErrAlreadyCheckedIn marks the second and every later check-in attempt
	// for the same ticket; the seat assigned by the first attempt stands.
	ErrAlreadyCheckedIn = errors.New("ticket already checked in")
	ErrNoSeatAvailable  = errors.New("no seat available")
	ErrFlightDeparted   = errors.New("flight departed")
)
