package entities

import "errors"

var (
	// ErrInsufficientInput means a required width, micron, roll length or
	// quantity is missing or non-positive. Derived values stay undefined.
	ErrInsufficientInput = errors.New("insufficient input")

	// ErrMicronMismatch means a merge was requested across plans of differing micron
	ErrMicronMismatch = errors.New("micron mismatch")

	// ErrNotDriver means a write was attempted on a field that is currently derived
	ErrNotDriver = errors.New("field is derived from the current driver")

	// ErrInvalidQuantity means a driver value cannot be held by its field,
	// such as a fractional piece count
	ErrInvalidQuantity = errors.New("invalid quantity")

	// ErrOverWidth means the combined output width exceeds the source width
	ErrOverWidth = errors.New("combined output width exceeds source width")

	ErrNotFound          = errors.New("not found")
	ErrJobCompleted      = errors.New("job card is completed")
	ErrCoilNotFound      = errors.New("coil not found on job card")
	ErrLedgerRowNotFound = errors.New("ledger row not found")
	ErrInvalidTransition = errors.New("invalid status transition")

	// ErrLedgerOwned means an edit targeted a coil-linked line item, whose
	// quantities come only from the production ledger
	ErrLedgerOwned = errors.New("line item is owned by the production ledger")
)
