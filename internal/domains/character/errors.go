package character

import "errors"

// Repository-level errors
var (
	ErrCharacterNotFound = errors.New("character not found")
)

// Service-level errors
var (
	// ErrPermissionDenied: authenticated caller is not the record owner.
	ErrPermissionDenied = errors.New("permission denied")

	// ErrCouldNotSave / ErrCouldNotDelete: generic store failures after
	// validation passed. The underlying cause is logged, never surfaced.
	ErrCouldNotSave   = errors.New("could not save character")
	ErrCouldNotDelete = errors.New("could not delete character")
)
