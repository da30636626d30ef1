package scheduling

import "errors"

var (
	// ErrInvalidArgument is wrapped by every constructor that rejects its input.
	ErrInvalidArgument = errors.New("invalid argument")
)
