package session

import "errors"

var (
	// ErrNotFound is returned by a Store when no persisted state exists.
	ErrNotFound = errors.New("session state not found")
	// ErrAuthenticationFailed is returned when the login request is rejected.
	ErrAuthenticationFailed = errors.New("authentication failed")
	// ErrMissingCredentials is returned when login is required but no credentials were given.
	ErrMissingCredentials = errors.New("username and password are required")
	// ErrLoadSession is returned when reading persisted state fails.
	ErrLoadSession = errors.New("failed to load session")
	// ErrSaveSession is returned when persisting session state fails.
	ErrSaveSession = errors.New("failed to save session")
	// ErrDeleteSession is returned when removing persisted state fails.
	ErrDeleteSession = errors.New("failed to delete session")
	// ErrInvalidState is returned when persisted state cannot be decoded.
	ErrInvalidState = errors.New("invalid session state")
	// ErrLoginRequest is returned when the login request cannot be sent.
	ErrLoginRequest = errors.New("login request failed")
	// ErrInvalidConfig is returned for unusable manager configuration.
	ErrInvalidConfig = errors.New("invalid session configuration")
)
