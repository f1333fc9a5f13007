package schema

import "errors"

var (
	// ErrUnknownType is returned when an item's Type discriminator (or, when
	// absent, its sort key shape) does not match any known item variant.
	ErrUnknownType = errors.New("schema: unknown item type")

	// ErrInvalidStatus is returned when a seller status is not one of the known values.
	ErrInvalidStatus = errors.New("schema: invalid seller status")
)
