package session

import (
	"net/http"
	"net/url"
	"time"
)

// Session is an authenticated HTTP client and its cookie jar.
// Every response handled by Client updates the jar.
type Session struct {
	client *http.Client
	jar    *recordingJar
}

func newSession(transport http.RoundTripper, timeout time.Duration) (*Session, error) {
	jar, err := newRecordingJar()
	if err != nil {
		return nil, err
	}
	return &Session{
		client: &http.Client{
			Transport: transport,
			Jar:       jar,
			Timeout:   timeout,
		},
		jar: jar,
	}, nil
}

// Client returns the HTTP client bound to this session.
func (s *Session) Client() *http.Client {
	return s.client
}

// Cookies returns the cookies the session would send to u.
func (s *Session) Cookies(u *url.URL) []*http.Cookie {
	return s.jar.Cookies(u)
}

// State captures every cookie in the jar with its origin URL and attributes.
func (s *Session) State() State {
	return State{
		Version: stateVersion,
		SavedAt: time.Now().UTC(),
		Cookies: s.jar.snapshot(),
	}
}

func (s *Session) restore(st State) error {
	return s.jar.replay(st.Cookies)
}
