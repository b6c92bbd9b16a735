package document

import "errors"

// Errors returned by document operations.
var (
	// ErrBlockNotFound indicates a block key is not present in the snapshot.
	ErrBlockNotFound = errors.New("block not found")

	// ErrDuplicateKey indicates a block key is already present in the snapshot.
	ErrDuplicateKey = errors.New("duplicate block key")

	// ErrInvalidSelection indicates the selection references a missing block
	// or an out of range offset.
	ErrInvalidSelection = errors.New("invalid selection")

	// ErrEntityNotFound indicates character metadata references a missing entity.
	ErrEntityNotFound = errors.New("entity not found")

	// ErrCharacterMetadata indicates a block's metadata length differs from
	// its text length.
	ErrCharacterMetadata = errors.New("character metadata length mismatch")
)
