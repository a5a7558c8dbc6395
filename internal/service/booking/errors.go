package booking

import "errors"

var (
	// Validation failures: safe to retry with corrected input.
	ErrFlightNotFound = errors.New("flight not found")
	ErrInvalidClass   = errors.New("invalid seat class")

	// Invariant violations: rejected atomically, retrying unchanged input
	// fails identically.
	ErrCapacityExceeded  = errors.New("capacity exceeded")
	ErrSaleAfterDeparture = errors.New("sale after departure")
)
