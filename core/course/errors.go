package course

import "errors"

var (
	// ErrParse is returned when the course page does not carry the expected arguments.
	ErrParse = errors.New("failed to parse course arguments")
	// ErrTransport is returned when a request could not be completed.
	ErrTransport = errors.New("request failed")
	// ErrUnexpectedStatus is returned for non-2xx responses.
	ErrUnexpectedStatus = errors.New("unexpected response status")
	// ErrInvalidResponse is returned when a JSON response is malformed.
	ErrInvalidResponse = errors.New("invalid response body")
	// ErrInvalidArgument is returned when a required identifier is empty.
	ErrInvalidArgument = errors.New("invalid argument")
)
