package replay

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrymomot/chaoxing/core/course"
	"github.com/dmitrymomot/chaoxing/core/logger"
	"github.com/dmitrymomot/chaoxing/core/playback"
	"github.com/dmitrymomot/chaoxing/core/session"
)

// persistTimeout bounds the final save, which runs even after cancellation.
const persistTimeout = 10 * time.Second

// App replays playback progress for every page of one chapter.
type App struct {
	config    Config
	logger    *slog.Logger
	store     session.Store
	closer    func() error
	transport http.RoundTripper
	simOpts   []playback.Option
	forget    bool
}

type AppOption func(*App) error

// Summary describes a finished run.
type Summary struct {
	RunID  string
	Login  session.LoginStatus
	Pages  int
	Report playback.Report
}

// NewApp validates cfg and opens the session store unless one was injected.
func NewApp(ctx context.Context, cfg Config, opts ...AppOption) (*App, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	app := &App{
		config: cfg,
		logger: logger.New(
			logger.ForEnv(cfg.Env, cfg.AppName),
			logger.WithLevel(logger.ParseLevel(cfg.LogLevel)),
			logger.WithContextExtractors(logger.RunIDExtractor),
		),
		closer: func() error { return nil },
	}

	for _, opt := range opts {
		if err := opt(app); err != nil {
			return nil, err
		}
	}

	if app.store == nil {
		store, closer, err := openStore(ctx, cfg)
		if err != nil {
			return nil, err
		}
		app.store = store
		app.closer = closer
	}

	return app, nil
}

func WithLogger(logger *slog.Logger) AppOption {
	return func(app *App) error {
		if logger == nil {
			return errors.New("logger cannot be nil")
		}
		app.logger = logger
		return nil
	}
}

func WithStore(store session.Store) AppOption {
	return func(app *App) error {
		if store == nil {
			return errors.New("session store cannot be nil")
		}
		app.store = store
		return nil
	}
}

// WithTransport sets the base round tripper of the session HTTP client.
func WithTransport(rt http.RoundTripper) AppOption {
	return func(app *App) error {
		if rt == nil {
			return errors.New("transport cannot be nil")
		}
		app.transport = rt
		return nil
	}
}

// WithSimulatorOptions appends options applied after the playback config.
func WithSimulatorOptions(opts ...playback.Option) AppOption {
	return func(app *App) error {
		app.simOpts = append(app.simOpts, opts...)
		return nil
	}
}

// WithForget drops the persisted session before running, forcing a fresh login.
func WithForget(forget bool) AppOption {
	return func(app *App) error {
		app.forget = forget
		return nil
	}
}

// Close releases the session store connection.
func (a *App) Close() error {
	return a.closer()
}

// Run logs in (or restores the session), counts the chapter pages and plays each page.
// Attachment failures are counted in the summary; errors are returned only for
// configuration, authentication, store and page-level failures or cancellation.
// The session is persisted before Run returns whenever one was obtained.
func (a *App) Run(ctx context.Context) (Summary, error) {
	sum := Summary{RunID: uuid.NewString()}
	ctx = logger.WithRunID(ctx, sum.RunID)
	started := time.Now()

	sessOpts := []session.Option{session.WithLogger(a.logger)}
	if a.transport != nil {
		sessOpts = append(sessOpts, session.WithTransport(a.transport))
	}
	manager, err := session.NewFromConfig(a.config.Session, a.store, sessOpts...)
	if err != nil {
		return sum, err
	}

	if a.forget {
		if err := manager.Forget(ctx); err != nil {
			return sum, err
		}
		a.logger.InfoContext(ctx, "persisted session removed", logger.Action("forget"))
	}

	sess, res, err := manager.LoadOrLogin(ctx, a.config.Username, a.config.Password)
	sum.Login = res.Status
	if err != nil {
		return sum, err
	}
	defer a.persist(ctx, manager, sess)

	if res.Status == session.StatusAuthenticated {
		if err := manager.Persist(ctx, sess); err != nil {
			a.logger.WarnContext(ctx, "failed to persist session after login", logger.Error(err))
		}
	}

	client := course.NewClient(sess.Client(),
		course.WithConfig(a.config.Course),
		course.WithLogger(a.logger),
	)

	pages, err := client.CountPages(ctx, a.config.ChapterID, a.config.ClazzID, a.config.CourseID)
	if err != nil {
		return sum, errors.Join(ErrCountPages, err)
	}
	sum.Pages = pages
	a.logger.InfoContext(ctx, "chapter pages counted", logger.Count("pages", pages))

	sim, err := playback.New(client, a.config.ClazzID, append([]playback.Option{
		playback.WithConfig(a.config.Playback),
		playback.WithLogger(a.logger),
	}, a.simOpts...)...)
	if err != nil {
		return sum, err
	}

	for page := range pages {
		args, err := client.FetchArgs(ctx, a.config.ChapterID, a.config.ClazzID, a.config.CourseID, page)
		if err != nil {
			return sum, errors.Join(ErrFetchPage, err)
		}

		rep, err := sim.Play(ctx, args)
		sum.Report.Add(rep)
		if err != nil {
			return sum, err
		}
		a.logger.InfoContext(ctx, "page processed",
			logger.Page(page),
			slog.Int("played", rep.Played),
			slog.Int("skipped", rep.Skipped),
			slog.Int("failed", rep.Failed),
		)
	}

	a.logger.InfoContext(ctx, "replay finished",
		logger.Count("pages", sum.Pages),
		slog.Int("played", sum.Report.Played),
		slog.Int("skipped", sum.Report.Skipped),
		slog.Int("passed", sum.Report.Passed),
		slog.Int("failed", sum.Report.Failed),
		logger.Elapsed(started),
	)
	return sum, nil
}

// persist saves the session on the way out, even when ctx is already canceled.
func (a *App) persist(ctx context.Context, manager *session.Manager, sess *session.Session) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), persistTimeout)
	defer cancel()

	if err := manager.Persist(ctx, sess); err != nil {
		a.logger.ErrorContext(ctx, "failed to persist session", logger.Error(err))
	}
}
