package admin

import "errors"

var (
	ErrAirportConflict  = errors.New("airport already exists")
	ErrAircraftConflict = errors.New("aircraft already exists")
	ErrAircraftNotFound = errors.New("aircraft not found")
	ErrInvalidSchedule  = errors.New("departure must precede arrival")
	ErrInvalidSeat      = errors.New("invalid seat definition")
)
