package session

import (
	"encoding/json"
	"errors"
	"time"
)

const stateVersion = 2

// State is the persisted form of a session: the full cookie store.
type State struct {
	Version int       `json:"version"`
	SavedAt time.Time `json:"saved_at"`
	Cookies []Cookie  `json:"cookies"`
}

// Cookie is one stored cookie and the URL that set it.
// Domain and Path hold the attributes as received; empty means host-only
// and the default path of URL respectively.
type Cookie struct {
	URL      string     `json:"url"`
	Name     string     `json:"name"`
	Value    string     `json:"value"`
	Domain   string     `json:"domain,omitempty"`
	Path     string     `json:"path,omitempty"`
	Secure   bool       `json:"secure,omitempty"`
	HttpOnly bool       `json:"http_only,omitempty"`
	Expires  *time.Time `json:"expires,omitempty"`
}

// EncodeState serializes s.
func EncodeState(s State) ([]byte, error) {
	s.Version = stateVersion
	return json.Marshal(s)
}

// DecodeState parses data produced by EncodeState.
func DecodeState(data []byte) (State, error) {
	var s State
	if err := json.Unmarshal(data, &s); err != nil {
		return State{}, errors.Join(ErrInvalidState, err)
	}
	if s.Version != stateVersion {
		return State{}, errors.Join(ErrInvalidState, errors.New("unsupported version"))
	}
	return s, nil
}
