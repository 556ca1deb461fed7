package playback

import (
	"time"

	"github.com/dmitrymomot/chaoxing/core/course"
)

// EventKind names what happened.
type EventKind string

const (
	EventSkipped       EventKind = "skipped"
	EventDelay         EventKind = "delay"
	EventStatusFetched EventKind = "status_fetched"
	EventSubmitted     EventKind = "submitted"
	EventFailed        EventKind = "failed"
)

// Skip reasons.
const (
	ReasonIgnoredModule = "ignored module"
	ReasonWork          = "work attachment"
	ReasonNoObject      = "no media object"
)

// Event is emitted for every decision and network call the simulator makes.
// Only the fields relevant to Kind are set.
type Event struct {
	Kind        EventKind
	Attachment  course.Attachment
	Reason      string
	Delay       time.Duration
	Duration    int64
	PlayingTime int64
	IsDrag      int
	IsPassed    bool
	Err         error
}

// Observer receives simulator events synchronously.
type Observer func(Event)

// Report summarizes one or more Play calls.
type Report struct {
	Played  int
	Skipped int
	Passed  int
	Failed  int
}

// Add accumulates r2 into r.
func (r *Report) Add(r2 Report) {
	r.Played += r2.Played
	r.Skipped += r2.Skipped
	r.Passed += r2.Passed
	r.Failed += r2.Failed
}
