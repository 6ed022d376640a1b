package store

import "errors"

// Sentinel errors returned by store operations. Callers match them with
// errors.Is; everything else is a storage failure.
var (
	// ErrNotFound means the resource does not exist or does not belong to the
	// requesting user. The two cases are deliberately indistinguishable so
	// that callers cannot probe for other users' resources.
	ErrNotFound = errors.New("not found")

	// ErrInvalidReference means a referenced id (room, box, template) exists
	// but fails a same-move or known-template constraint.
	ErrInvalidReference = errors.New("invalid reference")

	// ErrValidation means a required field is missing or a field is outside
	// its allowed domain.
	ErrValidation = errors.New("invalid input")
)
