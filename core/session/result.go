package session

// LoginStatus describes how a session was obtained.
type LoginStatus int

const (
	// StatusAuthenticated means a fresh login succeeded.
	StatusAuthenticated LoginStatus = iota + 1
	// StatusRestored means cookies were loaded from the store without contacting the server.
	StatusRestored
	// StatusAuthenticationFailed means the login request was rejected.
	StatusAuthenticationFailed
)

func (s LoginStatus) String() string {
	switch s {
	case StatusAuthenticated:
		return "authenticated"
	case StatusRestored:
		return "restored"
	case StatusAuthenticationFailed:
		return "authentication_failed"
	default:
		return "unknown"
	}
}

// LoginResult is the outcome of LoadOrLogin.
// StatusCode and Body are set only when a login request was made.
type LoginResult struct {
	Status     LoginStatus
	StatusCode int
	Body       string
}

// OK reports whether the session is expected to be authenticated.
func (r LoginResult) OK() bool {
	return r.Status == StatusAuthenticated || r.Status == StatusRestored
}
