package capture

import (
	"context"
	"fmt"
	"time"

	"github.com/classpulse/rollcall/internal/attendance"
	"github.com/classpulse/rollcall/internal/notify"
	"github.com/classpulse/rollcall/internal/recognizer"
)

// Recognizer is the slice of the remote client the loop needs.
type Recognizer interface {
	Recognize(ctx context.Context, frame []byte) recognizer.Outcome
}

// Recorder is the slice of the attendance store the loop needs.
type Recorder interface {
	Add(entry attendance.Entry) (bool, error)
}

// Loop drives periodic attendance capture: a ticker asks the throttle for
// permission, captures a frame, submits it, and merges recognized
// identities into the store. Everything runs on one goroutine; the
// network call is the only suspension point and the throttle's in-flight
// flag covers it.
type Loop struct {
	throttle *Throttle
	source   FrameSource
	client   Recognizer
	store    Recorder
	sink     notify.Sink
	period   time.Duration
	now      func() time.Time
}

// LoopOption tweaks a Loop; used by tests to inject a clock.
type LoopOption func(*Loop)

// WithClock replaces the wall clock.
func WithClock(now func() time.Time) LoopOption {
	return func(l *Loop) { l.now = now }
}

// NewLoop wires a capture loop. period is the sampling cadence, which may
// be shorter than the throttle floor; surplus ticks are silently denied.
func NewLoop(throttle *Throttle, source FrameSource, client Recognizer, store Recorder, sink notify.Sink, period time.Duration, opts ...LoopOption) *Loop {
	l := &Loop{
		throttle: throttle,
		source:   source,
		client:   client,
		store:    store,
		sink:     sink,
		period:   period,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Run ticks until the context is cancelled. The first attempt fires
// immediately rather than one period in.
func (l *Loop) Run(ctx context.Context) error {
	ticker := time.NewTicker(l.period)
	defer ticker.Stop()

	l.Tick(ctx)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			l.Tick(ctx)
		}
	}
}

// Tick performs at most one recognition attempt. Denied ticks return
// immediately; that is the expected steady state when the sampling cadence
// outpaces the throttle floor.
func (l *Loop) Tick(ctx context.Context) {
	if !l.throttle.TryAcquire(l.now()) {
		return
	}

	frame, err := l.source.Capture(ctx)
	if err != nil {
		l.throttle.Release(l.now(), false)
		l.sink.Warn(notify.Event{Kind: "capture_failed", Message: err.Error()})
		return
	}

	outcome := l.client.Recognize(ctx, frame)
	if !outcome.OK() {
		l.throttle.Release(l.now(), false)
		l.report(outcome)
		return
	}

	for _, id := range outcome.Identities {
		added, err := l.store.Add(attendance.Entry{
			Name:       id.Name,
			RollNumber: id.RollNumber,
			Timestamp:  l.now(),
			Confidence: id.Confidence,
			Status:     id.Status,
		})
		if err != nil {
			l.sink.Error(notify.Event{Kind: "store_failed", Message: err.Error()})
			continue
		}
		if added {
			l.sink.Info(notify.Event{
				Kind:    "attendance_marked",
				Message: fmt.Sprintf("%s (roll %s) marked present", id.Name, id.RollNumber),
			})
		}
	}
	l.throttle.Release(l.now(), true)
}

// report forwards a failed outcome to the sink at the severity the
// taxonomy calls for.
func (l *Loop) report(outcome recognizer.Outcome) {
	event := notify.Event{Kind: string(outcome.Failure), Message: outcome.Message}
	switch outcome.Failure {
	case recognizer.KindNoStudentsRegistered,
		recognizer.KindNoFaceEncodings,
		recognizer.KindFaceNotRecognized,
		recognizer.KindFaceDetectionFailed:
		l.sink.Warn(event)
	default:
		l.sink.Error(event)
	}
}
