package playback

import "errors"

var (
	// ErrInvalidConfig is returned for unusable simulator configuration.
	ErrInvalidConfig = errors.New("invalid playback configuration")
	// ErrNilArgs is returned when Play receives no course arguments.
	ErrNilArgs = errors.New("course arguments are required")
)
