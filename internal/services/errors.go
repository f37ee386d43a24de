package services

import "errors"

// Failure taxonomy shared by all services. Handlers translate these to HTTP
// statuses with errors.Is; services wrap them with context via fmt.Errorf.
var (
	// ErrNotFound: a referenced profile/attire/category/image/lore entry does
	// not exist. Nothing was written.
	ErrNotFound = errors.New("not found")

	// ErrConflict: a uniqueness rule was violated (e.g. duplicate category
	// name). Refused before any writes.
	ErrConflict = errors.New("conflict")

	// ErrInvalidOperation: the request itself is illegal (deleting the
	// sentinel lore entry, featuring zero or multiple images in a batch).
	ErrInvalidOperation = errors.New("invalid operation")

	// ErrIntegrityAnomaly: a multi-step operation observed an inconsistent
	// intermediate state (references cleared but the target row missing).
	// Indicates a race or bug and must never be swallowed.
	ErrIntegrityAnomaly = errors.New("integrity anomaly")
)
