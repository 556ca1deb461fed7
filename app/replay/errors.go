package replay

import "errors"

var (
	ErrInvalidConfig = errors.New("invalid replay configuration")
	ErrUnknownStore  = errors.New("unknown session store")
	ErrOpenStore     = errors.New("failed to open session store")
	ErrCountPages    = errors.New("failed to count chapter pages")
	ErrFetchPage     = errors.New("failed to fetch chapter page")
)
