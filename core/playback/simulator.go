package playback

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/dmitrymomot/chaoxing/core/course"
	"github.com/dmitrymomot/chaoxing/core/logger"
	"github.com/dmitrymomot/chaoxing/pkg/pacer"
)

// API is the subset of the course client the simulator needs.
type API interface {
	PlayStatus(ctx context.Context, objectID string) (*course.PlayStatus, error)
	SubmitLog(ctx context.Context, p course.LogParams) (*course.LogResult, error)
}

var _ API = (*course.Client)(nil)

// Simulator replays a start and a completion event for each playable attachment.
// Calls are strictly sequential and separated by random delays.
type Simulator struct {
	api       API
	clazzID   string
	cfg       Config
	ignore    map[string]struct{}
	pacer     *pacer.Pacer
	observers []Observer
	sleep     func(ctx context.Context, d time.Duration) error
	randN     func(n int64) int64
	logger    *slog.Logger
}

// New creates a simulator submitting logs for clazzID through api.
func New(api API, clazzID string, opts ...Option) (*Simulator, error) {
	if api == nil {
		return nil, fmt.Errorf("%w: api is required", ErrInvalidConfig)
	}
	if clazzID == "" {
		return nil, fmt.Errorf("%w: clazz id is required", ErrInvalidConfig)
	}

	s := &Simulator{
		api:     api,
		clazzID: clazzID,
		cfg:     defaultConfig(),
		logger:  logger.Discard(),
	}
	for _, opt := range opts {
		opt(s)
	}

	p, err := pacer.New(s.cfg.MinDelay, s.cfg.MaxDelay, pacer.WithSleep(s.sleep), pacer.WithRand(s.randN))
	if err != nil {
		return nil, errors.Join(ErrInvalidConfig, err)
	}
	s.pacer = p

	s.ignore = make(map[string]struct{}, len(s.cfg.IgnoreModules))
	for _, m := range s.cfg.IgnoreModules {
		s.ignore[m] = struct{}{}
	}

	return s, nil
}

// Play processes every attachment of one page.
// Failures of a single attachment are reported and do not stop the loop;
// only context cancellation aborts Play early.
func (s *Simulator) Play(ctx context.Context, args *course.Args) (Report, error) {
	var rep Report
	if args == nil {
		return rep, ErrNilArgs
	}

	for _, a := range args.Attachments {
		if reason, skip := s.skipReason(a); skip {
			rep.Skipped++
			s.emit(Event{Kind: EventSkipped, Attachment: a, Reason: reason})
			s.logger.DebugContext(ctx, "attachment skipped",
				logger.ObjectID(a.ObjectID),
				slog.String("module", a.Module),
				slog.String("reason", reason),
			)
			continue
		}

		rep.Played++
		passed, err := s.playOne(ctx, args, a)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return rep, ctxErr
			}
			rep.Failed++
			s.emit(Event{Kind: EventFailed, Attachment: a, Err: err})
			s.logger.WarnContext(ctx, "attachment playback failed",
				logger.ObjectID(a.ObjectID),
				logger.JobID(a.JobID),
				logger.Error(err),
			)
			continue
		}
		if passed {
			rep.Passed++
		}
		s.logger.InfoContext(ctx, "attachment played",
			logger.ObjectID(a.ObjectID),
			slog.String("name", a.Name),
			slog.Bool("is_passed", passed),
		)
	}

	return rep, nil
}

func (s *Simulator) skipReason(a course.Attachment) (string, bool) {
	if _, ok := s.ignore[a.Module]; ok {
		return ReasonIgnoredModule, true
	}
	if a.Type == course.TypeWork {
		return ReasonWork, true
	}
	if a.ObjectID == "" {
		return ReasonNoObject, true
	}
	return "", false
}

// playOne sends the start event and then the completion event.
// Status is fetched right before each submission since dtoken and duration may change.
// A failed start submission means the completion is not sent.
func (s *Simulator) playOne(ctx context.Context, args *course.Args, a course.Attachment) (bool, error) {
	var passed bool
	for _, drag := range [...]int{course.DragNone, course.DragComplete} {
		if err := s.pace(ctx, a); err != nil {
			return false, err
		}
		st, err := s.api.PlayStatus(ctx, a.ObjectID)
		if err != nil {
			return false, fmt.Errorf("status: %w", err)
		}
		s.emit(Event{Kind: EventStatusFetched, Attachment: a, Duration: st.Duration, IsPassed: st.IsPassed})

		var playing int64
		if drag == course.DragComplete {
			playing = st.Duration
		}

		if err := s.pace(ctx, a); err != nil {
			return false, err
		}
		res, err := s.api.SubmitLog(ctx, course.LogParams{
			ClazzID:     s.clazzID,
			UserID:      args.UserID,
			CPI:         args.CPI,
			DToken:      st.DToken,
			JobID:       a.JobID,
			ObjectID:    a.ObjectID,
			OtherInfo:   a.OtherInfo,
			DType:       a.DType(),
			PlayingTime: playing,
			Duration:    st.Duration,
			IsDrag:      drag,
		})
		if err != nil {
			return false, fmt.Errorf("submit isdrag=%d: %w", drag, err)
		}
		passed = res.IsPassed
		s.emit(Event{
			Kind:        EventSubmitted,
			Attachment:  a,
			Duration:    st.Duration,
			PlayingTime: playing,
			IsDrag:      drag,
			IsPassed:    res.IsPassed,
		})
		s.logger.DebugContext(ctx, "playback log submitted",
			logger.ObjectID(a.ObjectID),
			slog.Int64("playing_time", playing),
			slog.Int("is_drag", drag),
			slog.Bool("is_passed", res.IsPassed),
			logger.StatusCode(res.StatusCode),
		)
	}
	return passed, nil
}

func (s *Simulator) pace(ctx context.Context, a course.Attachment) error {
	d, err := s.pacer.Wait(ctx)
	if d > 0 {
		s.emit(Event{Kind: EventDelay, Attachment: a, Delay: d})
	}
	return err
}

func (s *Simulator) emit(e Event) {
	for _, o := range s.observers {
		o(e)
	}
}
