package services

import "errors"

var (
	// ErrNotFound is returned when a referenced user or lesson does not exist.
	ErrNotFound = errors.New("not found")
	// ErrInsufficientSavers is returned when a streak-saver consumption is
	// requested with no unused saver available. Never a silent no-op.
	ErrInsufficientSavers = errors.New("no streak savers available")
	// ErrConflict is returned when the optimistic version check failed after
	// the internal retry.
	ErrConflict = errors.New("concurrent update conflict")
	// ErrInvalidQuantity is returned for a non-positive or oversized
	// purchase quantity.
	ErrInvalidQuantity = errors.New("invalid quantity")
	// ErrInvalidContentRef is returned when a completion event does not name
	// exactly one piece of content.
	ErrInvalidContentRef = errors.New("exactly one content reference must be set")
	// ErrInvalidPersona is returned for persona values other than the known
	// classifications.
	ErrInvalidPersona = errors.New("invalid persona")
	// ErrInvalidRequest is returned when required generation parameters are
	// missing.
	ErrInvalidRequest = errors.New("invalid request")
)
