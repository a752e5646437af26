package schema

import "errors"

var (
	// ErrFieldRequired is returned when a required field is empty or absent.
	ErrFieldRequired = errors.New("lattice: this field is required")

	// ErrFieldWrongFormat is returned when a value does not match the field's kind.
	ErrFieldWrongFormat = errors.New("lattice: this field is not in the right format")

	// ErrValueAlreadyUsed is returned when a unique index already holds the value.
	ErrValueAlreadyUsed = errors.New("lattice: this value is already used")

	// ErrEmptySource is returned when an update is requested without identifying keys.
	ErrEmptySource = errors.New("lattice: the update source cannot be empty")
)
