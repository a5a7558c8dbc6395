package repository

import "errors"

var (
	ErrNotFound = errors.New("not found")
	ErrConflict = errors.New("conflict")

	// ErrSerialization marks a transaction aborted by the storage engine's
	// concurrency control (SQLSTATE 40001/40P01). The whole unit of work may
	// be retried: no effect of the aborted attempt is visible.
	ErrSerialization = errors.New("serialization failure")
)
