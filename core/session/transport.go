package session

import "net/http"

// headerTransport adds a fixed header set to every outgoing request.
// Headers already present on the request win.
type headerTransport struct {
	base    http.RoundTripper
	headers http.Header
}

func (t *headerTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	r := req.Clone(req.Context())
	for k, v := range t.headers {
		if _, ok := r.Header[k]; !ok {
			r.Header[k] = v
		}
	}
	return t.base.RoundTrip(r)
}

func (m *Manager) defaultHeaders() http.Header {
	h := http.Header{}
	h.Set("Connection", "keep-alive")
	h.Set("DNT", "1")
	h.Set("User-Agent", m.cfg.UserAgent)
	h.Set("Content-Type", "application/x-www-form-urlencoded; charset=UTF-8")
	h.Set("Origin", m.cfg.Origin)
	h.Set("Accept-Language", "en")
	return h
}
