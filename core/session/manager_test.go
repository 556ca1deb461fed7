package session_test

import (
	"context"
	"encoding/base64"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"sort"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/chaoxing/core/session"
)

// mockStore implements session.Store for testing.
type mockStore struct {
	mock.Mock
}

func (m *mockStore) Load(ctx context.Context) ([]byte, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

func (m *mockStore) Save(ctx context.Context, data []byte) error {
	return m.Called(ctx, data).Error(0)
}

func (m *mockStore) Delete(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

// passport is a fake login endpoint.
type passport struct {
	status int
	body   string
	logins atomic.Int32
	last   atomic.Pointer[http.Request]
}

func (p *passport) handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/fanyalogin", func(w http.ResponseWriter, r *http.Request) {
		p.logins.Add(1)
		_ = r.ParseForm()
		p.last.Store(r)
		http.SetCookie(w, &http.Cookie{Name: "UID", Value: "42", Path: "/"})
		http.SetCookie(w, &http.Cookie{Name: "jrose", Value: "scoped", Path: "/mycourse", HttpOnly: true})
		w.WriteHeader(p.status)
		_, _ = w.Write([]byte(p.body))
	})
	mux.HandleFunc("/mycourse/cookies", func(w http.ResponseWriter, r *http.Request) {
		names := make([]string, 0, len(r.Cookies()))
		for _, c := range r.Cookies() {
			names = append(names, c.Name+"="+c.Value)
		}
		sort.Strings(names)
		_, _ = w.Write([]byte(strings.Join(names, ";")))
	})
	mux.HandleFunc("/mycourse/leave", func(w http.ResponseWriter, r *http.Request) {
		http.SetCookie(w, &http.Cookie{Name: "jrose", Path: "/mycourse", MaxAge: -1})
	})
	mux.HandleFunc("/whoami", func(w http.ResponseWriter, r *http.Request) {
		c, err := r.Cookie("UID")
		if err != nil {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		_, _ = w.Write([]byte(c.Value))
	})
	return mux
}

func newServer(t *testing.T, p *passport) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(p.handler())
	t.Cleanup(srv.Close)
	return srv
}

func newManager(t *testing.T, srv *httptest.Server, store session.Store, opts ...session.Option) *session.Manager {
	t.Helper()
	opts = append([]session.Option{
		session.WithPassportURL(srv.URL),
		session.WithBaseURL(srv.URL),
	}, opts...)
	m, err := session.NewManager(store, opts...)
	require.NoError(t, err)
	return m
}

func whoami(t *testing.T, sess *session.Session, base string) int {
	t.Helper()
	resp, err := sess.Client().Get(base + "/whoami")
	require.NoError(t, err)
	defer resp.Body.Close()
	return resp.StatusCode
}

func get(t *testing.T, sess *session.Session, endpoint string) string {
	t.Helper()
	resp, err := sess.Client().Get(endpoint)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return string(body)
}

func TestNewManager(t *testing.T) {
	t.Parallel()

	_, err := session.NewManager(nil)
	assert.ErrorIs(t, err, session.ErrInvalidConfig)

	m, err := session.NewFromConfig(session.Config{}, session.NewFileStore(filepath.Join(t.TempDir(), "c.bin")))
	require.NoError(t, err)
	assert.NotNil(t, m)
}

func TestLoadOrLogin(t *testing.T) {
	t.Parallel()

	t.Run("logs in when nothing is persisted", func(t *testing.T) {
		t.Parallel()
		p := &passport{status: http.StatusOK, body: `{"url":"x","status":true}`}
		srv := newServer(t, p)
		store := session.NewFileStore(filepath.Join(t.TempDir(), "cookie.bin"))
		m := newManager(t, srv, store)

		sess, res, err := m.LoadOrLogin(context.Background(), "student", "s3cret")
		require.NoError(t, err)
		require.NotNil(t, sess)
		assert.Equal(t, session.StatusAuthenticated, res.Status)
		assert.True(t, res.OK())
		assert.Equal(t, http.StatusOK, res.StatusCode)

		req := p.last.Load()
		require.NotNil(t, req)
		assert.Equal(t, http.MethodPost, req.Method)
		assert.Equal(t, "2182", req.PostForm.Get("fid"))
		assert.Equal(t, "student", req.PostForm.Get("uname"))
		assert.Equal(t, base64.StdEncoding.EncodeToString([]byte("s3cret")), req.PostForm.Get("password"))
		assert.Equal(t, "https://mooc1-1.chaoxing.com", req.PostForm.Get("refer"))
		assert.Equal(t, "true", req.PostForm.Get("t"))
		assert.Equal(t, session.DefaultUserAgent, req.Header.Get("User-Agent"))
		assert.Equal(t, "http://mooc1-1.chaoxing.com", req.Header.Get("Origin"))
		assert.Equal(t, "1", req.Header.Get("DNT"))
		assert.Equal(t, "en", req.Header.Get("Accept-Language"))

		assert.Equal(t, http.StatusOK, whoami(t, sess, srv.URL))
	})

	t.Run("restores persisted cookies without logging in", func(t *testing.T) {
		t.Parallel()
		p := &passport{status: http.StatusOK, body: `{"status":true}`}
		srv := newServer(t, p)
		store := session.NewFileStore(filepath.Join(t.TempDir(), "cookie.bin"))

		first := newManager(t, srv, store)
		sess, _, err := first.LoadOrLogin(context.Background(), "student", "pw")
		require.NoError(t, err)
		require.NoError(t, first.Persist(context.Background(), sess))

		second := newManager(t, srv, store)
		restored, res, err := second.LoadOrLogin(context.Background(), "", "")
		require.NoError(t, err)
		assert.Equal(t, session.StatusRestored, res.Status)
		assert.Equal(t, int32(1), p.logins.Load())

		u, _ := url.Parse(srv.URL)
		cookies := restored.Cookies(u)
		require.Len(t, cookies, 1)
		assert.Equal(t, "UID", cookies[0].Name)
		assert.Equal(t, http.StatusOK, whoami(t, restored, srv.URL))
	})

	t.Run("restores path scoped cookies", func(t *testing.T) {
		t.Parallel()
		p := &passport{status: http.StatusOK, body: `{"status":true}`}
		srv := newServer(t, p)
		store := session.NewFileStore(filepath.Join(t.TempDir(), "cookie.bin"))

		first := newManager(t, srv, store)
		live, _, err := first.LoadOrLogin(context.Background(), "student", "pw")
		require.NoError(t, err)
		require.Equal(t, "UID=42;jrose=scoped", get(t, live, srv.URL+"/mycourse/cookies"))
		require.NoError(t, first.Persist(context.Background(), live))

		restored, res, err := newManager(t, srv, store).LoadOrLogin(context.Background(), "", "")
		require.NoError(t, err)
		require.Equal(t, session.StatusRestored, res.Status)

		assert.Equal(t, "UID=42;jrose=scoped", get(t, restored, srv.URL+"/mycourse/cookies"))
		u, _ := url.Parse(srv.URL + "/")
		require.Len(t, restored.Cookies(u), 1, "scoped cookie stays out of the root path")

		var scoped *session.Cookie
		for _, c := range restored.State().Cookies {
			if c.Name == "jrose" {
				scoped = &c
			}
		}
		require.NotNil(t, scoped)
		assert.Equal(t, "/mycourse", scoped.Path)
		assert.True(t, scoped.HttpOnly)
	})

	t.Run("deleted cookies are not persisted", func(t *testing.T) {
		t.Parallel()
		p := &passport{status: http.StatusOK, body: `{"status":true}`}
		srv := newServer(t, p)

		m := newManager(t, srv, &mockStore{})
		sess, err := m.NewSession()
		require.NoError(t, err)
		_, err = m.Login(context.Background(), sess, "student", "pw")
		require.NoError(t, err)
		require.Len(t, sess.State().Cookies, 2)

		get(t, sess, srv.URL+"/mycourse/leave")
		cookies := sess.State().Cookies
		require.Len(t, cookies, 1)
		assert.Equal(t, "UID", cookies[0].Name)
		assert.Equal(t, "UID=42", get(t, sess, srv.URL+"/mycourse/cookies"))
	})

	t.Run("non-200 login fails by default", func(t *testing.T) {
		t.Parallel()
		p := &passport{status: http.StatusForbidden, body: "denied"}
		srv := newServer(t, p)
		m := newManager(t, srv, session.NewFileStore(filepath.Join(t.TempDir(), "cookie.bin")))

		sess, res, err := m.LoadOrLogin(context.Background(), "student", "pw")
		require.ErrorIs(t, err, session.ErrAuthenticationFailed)
		assert.Nil(t, sess)
		assert.Equal(t, session.StatusAuthenticationFailed, res.Status)
		assert.Equal(t, http.StatusForbidden, res.StatusCode)
		assert.Equal(t, "denied", res.Body)
		assert.False(t, res.OK())
	})

	t.Run("best effort keeps the session after a rejected login", func(t *testing.T) {
		t.Parallel()
		p := &passport{status: http.StatusInternalServerError, body: "oops"}
		srv := newServer(t, p)
		m := newManager(t, srv, session.NewFileStore(filepath.Join(t.TempDir(), "cookie.bin")),
			session.WithBestEffort(true))

		sess, res, err := m.LoadOrLogin(context.Background(), "student", "pw")
		require.NoError(t, err)
		assert.NotNil(t, sess)
		assert.Equal(t, session.StatusAuthenticationFailed, res.Status)
	})

	t.Run("status false in a 200 body is a rejection", func(t *testing.T) {
		t.Parallel()
		p := &passport{status: http.StatusOK, body: `{"status":false,"msg2":"wrong password"}`}
		srv := newServer(t, p)
		m := newManager(t, srv, session.NewFileStore(filepath.Join(t.TempDir(), "cookie.bin")))

		_, res, err := m.LoadOrLogin(context.Background(), "student", "pw")
		require.ErrorIs(t, err, session.ErrAuthenticationFailed)
		assert.Equal(t, http.StatusOK, res.StatusCode)
	})

	t.Run("unreadable state falls back to login", func(t *testing.T) {
		t.Parallel()
		p := &passport{status: http.StatusOK, body: "ok"}
		srv := newServer(t, p)
		store := &mockStore{}
		store.On("Load", mock.Anything).Return([]byte("not json"), nil)
		m := newManager(t, srv, store)

		_, res, err := m.LoadOrLogin(context.Background(), "student", "pw")
		require.NoError(t, err)
		assert.Equal(t, session.StatusAuthenticated, res.Status)
		assert.Equal(t, int32(1), p.logins.Load())
		store.AssertExpectations(t)
	})

	t.Run("store failure is reported", func(t *testing.T) {
		t.Parallel()
		p := &passport{status: http.StatusOK}
		srv := newServer(t, p)
		store := &mockStore{}
		store.On("Load", mock.Anything).Return(nil, errors.New("disk on fire"))
		m := newManager(t, srv, store)

		_, _, err := m.LoadOrLogin(context.Background(), "student", "pw")
		assert.ErrorIs(t, err, session.ErrLoadSession)
		assert.Zero(t, p.logins.Load())
	})

	t.Run("login requires credentials", func(t *testing.T) {
		t.Parallel()
		p := &passport{status: http.StatusOK}
		srv := newServer(t, p)
		m := newManager(t, srv, session.NewFileStore(filepath.Join(t.TempDir(), "cookie.bin")))

		_, _, err := m.LoadOrLogin(context.Background(), "", "")
		assert.ErrorIs(t, err, session.ErrMissingCredentials)
	})
}

func TestPersistAndForget(t *testing.T) {
	t.Parallel()

	t.Run("save failure is wrapped", func(t *testing.T) {
		t.Parallel()
		p := &passport{status: http.StatusOK}
		srv := newServer(t, p)
		store := &mockStore{}
		store.On("Save", mock.Anything, mock.Anything).Return(errors.New("boom"))
		m := newManager(t, srv, store)

		sess, err := m.NewSession()
		require.NoError(t, err)
		assert.ErrorIs(t, m.Persist(context.Background(), sess), session.ErrSaveSession)
	})

	t.Run("forget deletes persisted state", func(t *testing.T) {
		t.Parallel()
		p := &passport{status: http.StatusOK}
		srv := newServer(t, p)
		store := session.NewFileStore(filepath.Join(t.TempDir(), "cookie.bin"))
		m := newManager(t, srv, store)

		sess, _, err := m.LoadOrLogin(context.Background(), "u", "p")
		require.NoError(t, err)
		require.NoError(t, m.Persist(context.Background(), sess))
		require.NoError(t, m.Forget(context.Background()))

		_, err = store.Load(context.Background())
		assert.ErrorIs(t, err, session.ErrNotFound)
	})

	t.Run("delete failure is wrapped", func(t *testing.T) {
		t.Parallel()
		store := &mockStore{}
		store.On("Delete", mock.Anything).Return(errors.New("nope"))
		m, err := session.NewManager(store)
		require.NoError(t, err)
		assert.ErrorIs(t, m.Forget(context.Background()), session.ErrDeleteSession)
	})
}
