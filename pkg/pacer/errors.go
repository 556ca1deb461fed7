package pacer

import "errors"

// ErrInvalidConfig is returned for a negative or inverted delay range.
var ErrInvalidConfig = errors.New("invalid pacer configuration")
