package session

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/tidwall/gjson"

	"github.com/dmitrymomot/chaoxing/core/logger"
)

// maxLoginBody caps how much of the login response is kept for reporting.
const maxLoginBody = 64 << 10

// Manager creates, restores and persists sessions.
type Manager struct {
	cfg       Config
	store     Store
	transport http.RoundTripper
	logger    *slog.Logger
}

// NewManager creates a session manager persisting through store.
func NewManager(store Store, opts ...Option) (*Manager, error) {
	if store == nil {
		return nil, fmt.Errorf("%w: store is required", ErrInvalidConfig)
	}

	m := &Manager{
		cfg:       defaultConfig(),
		store:     store,
		transport: http.DefaultTransport,
		logger:    logger.Discard(),
	}
	for _, opt := range opts {
		opt(m)
	}

	if _, err := url.Parse(m.cfg.PassportURL); err != nil {
		return nil, errors.Join(ErrInvalidConfig, err)
	}
	if _, err := url.Parse(m.cfg.BaseURL); err != nil {
		return nil, errors.Join(ErrInvalidConfig, err)
	}

	return m, nil
}

// NewFromConfig creates a manager from cfg. Options are applied after cfg.
func NewFromConfig(cfg Config, store Store, opts ...Option) (*Manager, error) {
	return NewManager(store, append([]Option{WithConfig(cfg)}, opts...)...)
}

// NewSession returns an empty session wired with the manager's headers.
func (m *Manager) NewSession() (*Session, error) {
	rt := &headerTransport{base: m.transport, headers: m.defaultHeaders()}
	return newSession(rt, m.cfg.Timeout)
}

// LoadOrLogin restores the persisted session if the store has one, and logs in otherwise.
// Restored cookies are trusted as-is; expiry is left for the server to enforce.
//
// A rejected login returns ErrAuthenticationFailed unless best-effort mode is on,
// in which case the unauthenticated session is returned together with the failed result.
func (m *Manager) LoadOrLogin(ctx context.Context, username, password string) (*Session, LoginResult, error) {
	sess, err := m.NewSession()
	if err != nil {
		return nil, LoginResult{}, err
	}

	data, err := m.store.Load(ctx)
	switch {
	case err == nil:
		st, derr := DecodeState(data)
		if derr == nil {
			derr = sess.restore(st)
		}
		if derr == nil {
			m.logger.InfoContext(ctx, "session loaded from store",
				logger.Action("restore"),
				logger.Count("cookies", len(st.Cookies)),
			)
			return sess, LoginResult{Status: StatusRestored}, nil
		}
		m.logger.WarnContext(ctx, "persisted session is unreadable, logging in", logger.Error(derr))
	case errors.Is(err, ErrNotFound):
	default:
		return nil, LoginResult{}, errors.Join(ErrLoadSession, err)
	}

	res, err := m.Login(ctx, sess, username, password)
	if err != nil {
		return nil, res, err
	}
	if res.Status == StatusAuthenticationFailed {
		m.logger.WarnContext(ctx, "login rejected",
			logger.StatusCode(res.StatusCode),
			slog.String("body", res.Body),
			slog.Bool("best_effort", m.cfg.BestEffort),
		)
		if !m.cfg.BestEffort {
			return nil, res, ErrAuthenticationFailed
		}
		return sess, res, nil
	}

	m.logger.InfoContext(ctx, "session from login request", logger.StatusCode(res.StatusCode))
	return sess, res, nil
}

// Login posts the credentials form on behalf of sess.
// The returned error is non-nil only when the request could not be completed.
func (m *Manager) Login(ctx context.Context, sess *Session, username, password string) (LoginResult, error) {
	if username == "" || password == "" {
		return LoginResult{}, ErrMissingCredentials
	}

	form := url.Values{
		"fid":      {m.cfg.FID},
		"uname":    {username},
		"password": {base64.StdEncoding.EncodeToString([]byte(password))},
		"refer":    {m.cfg.Refer},
		"t":        {"true"},
	}

	endpoint := strings.TrimSuffix(m.cfg.PassportURL, "/") + "/fanyalogin"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return LoginResult{}, errors.Join(ErrLoginRequest, err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded; charset=UTF-8")

	resp, err := sess.Client().Do(req)
	if err != nil {
		return LoginResult{}, errors.Join(ErrLoginRequest, err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxLoginBody))
	if err != nil {
		return LoginResult{}, errors.Join(ErrLoginRequest, err)
	}

	m.logger.DebugContext(ctx, "login response",
		logger.StatusCode(resp.StatusCode),
		slog.String("body", string(body)),
	)

	res := LoginResult{
		Status:     StatusAuthenticated,
		StatusCode: resp.StatusCode,
		Body:       string(body),
	}
	if resp.StatusCode != http.StatusOK || rejected(body) {
		res.Status = StatusAuthenticationFailed
	}
	return res, nil
}

// Persist writes the session cookies to the store.
func (m *Manager) Persist(ctx context.Context, sess *Session) error {
	data, err := EncodeState(sess.State())
	if err != nil {
		return errors.Join(ErrSaveSession, err)
	}
	if err := m.store.Save(ctx, data); err != nil {
		return errors.Join(ErrSaveSession, err)
	}
	m.logger.DebugContext(ctx, "session persisted", logger.Action("persist"))
	return nil
}

// Forget deletes the persisted session so the next LoadOrLogin logs in again.
func (m *Manager) Forget(ctx context.Context) error {
	if err := m.store.Delete(ctx); err != nil {
		return errors.Join(ErrDeleteSession, err)
	}
	return nil
}

// rejected reports a JSON login response carrying "status": false.
func rejected(body []byte) bool {
	if !gjson.ValidBytes(body) {
		return false
	}
	status := gjson.GetBytes(body, "status")
	return status.Exists() && status.Type == gjson.False
}
