package session

import (
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"slices"
	"strings"
	"sync"
	"time"

	"golang.org/x/net/publicsuffix"
)

var _ http.CookieJar = (*recordingJar)(nil)

// recordingJar is a cookiejar.Jar that also remembers every cookie it accepted,
// with the URL it was set from, so the jar can be rebuilt from a snapshot.
type recordingJar struct {
	jar *cookiejar.Jar
	now func() time.Time

	mu      sync.Mutex
	entries map[cookieKey]Cookie
}

type cookieKey struct {
	name, domain, path string
}

func newRecordingJar() (*recordingJar, error) {
	jar, err := cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})
	if err != nil {
		return nil, err
	}
	return &recordingJar{
		jar:     jar,
		now:     time.Now,
		entries: make(map[cookieKey]Cookie),
	}, nil
}

func (j *recordingJar) Cookies(u *url.URL) []*http.Cookie {
	return j.jar.Cookies(u)
}

func (j *recordingJar) SetCookies(u *url.URL, cookies []*http.Cookie) {
	j.jar.SetCookies(u, cookies)

	now := j.now()
	origin := originURL(u)

	j.mu.Lock()
	defer j.mu.Unlock()
	for _, c := range cookies {
		key := cookieKey{name: c.Name, domain: cookieDomain(u, c), path: cookiePath(u, c)}
		if c.MaxAge < 0 || (!c.Expires.IsZero() && !c.Expires.After(now)) {
			delete(j.entries, key)
			continue
		}

		rec := Cookie{
			URL:      origin,
			Name:     c.Name,
			Value:    c.Value,
			Domain:   c.Domain,
			Path:     c.Path,
			Secure:   c.Secure,
			HttpOnly: c.HttpOnly,
		}
		switch {
		case c.MaxAge > 0:
			exp := now.Add(time.Duration(c.MaxAge) * time.Second).UTC()
			rec.Expires = &exp
		case !c.Expires.IsZero():
			exp := c.Expires.UTC()
			rec.Expires = &exp
		}
		j.entries[key] = rec
	}
}

// snapshot returns the live recorded cookies in a stable order.
func (j *recordingJar) snapshot() []Cookie {
	now := j.now()

	j.mu.Lock()
	out := make([]Cookie, 0, len(j.entries))
	for _, c := range j.entries {
		if c.Expires != nil && !c.Expires.After(now) {
			continue
		}
		out = append(out, c)
	}
	j.mu.Unlock()

	slices.SortFunc(out, func(a, b Cookie) int {
		if n := strings.Compare(a.URL, b.URL); n != 0 {
			return n
		}
		if n := strings.Compare(a.Path, b.Path); n != 0 {
			return n
		}
		return strings.Compare(a.Name, b.Name)
	})
	return out
}

// replay feeds recorded cookies back through SetCookies. Expired entries are dropped.
func (j *recordingJar) replay(cookies []Cookie) error {
	now := j.now()
	for _, c := range cookies {
		if c.Expires != nil && !c.Expires.After(now) {
			continue
		}
		u, err := url.Parse(c.URL)
		if err != nil {
			return err
		}
		hc := &http.Cookie{
			Name:     c.Name,
			Value:    c.Value,
			Domain:   c.Domain,
			Path:     c.Path,
			Secure:   c.Secure,
			HttpOnly: c.HttpOnly,
		}
		if c.Expires != nil {
			hc.Expires = *c.Expires
		}
		j.SetCookies(u, []*http.Cookie{hc})
	}
	return nil
}

func originURL(u *url.URL) string {
	o := url.URL{Scheme: u.Scheme, Host: u.Host, Path: u.Path}
	return o.String()
}

func cookieDomain(u *url.URL, c *http.Cookie) string {
	if c.Domain != "" {
		return strings.ToLower(strings.TrimPrefix(c.Domain, "."))
	}
	return strings.ToLower(u.Hostname())
}

// cookiePath applies the default-path rule of RFC 6265 section 5.1.4.
func cookiePath(u *url.URL, c *http.Cookie) string {
	if strings.HasPrefix(c.Path, "/") {
		return c.Path
	}
	p := u.Path
	i := strings.LastIndex(p, "/")
	if p == "" || p[0] != '/' || i <= 0 {
		return "/"
	}
	return p[:i]
}
