package capture

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/classpulse/rollcall/internal/attendance"
	"github.com/classpulse/rollcall/internal/notify"
	"github.com/classpulse/rollcall/internal/recognizer"
)

type fakeSource struct {
	frame []byte
	err   error
	calls int
}

func (f *fakeSource) Capture(context.Context) ([]byte, error) {
	f.calls++
	return f.frame, f.err
}

type fakeRecognizer struct {
	outcome recognizer.Outcome
	calls   int
}

func (f *fakeRecognizer) Recognize(context.Context, []byte) recognizer.Outcome {
	f.calls++
	return f.outcome
}

type fakeRecorder struct {
	entries []attendance.Entry
	skip    bool
}

func (f *fakeRecorder) Add(e attendance.Entry) (bool, error) {
	if f.skip {
		return false, nil
	}
	f.entries = append(f.entries, e)
	return true, nil
}

type recordingSink struct {
	infos, warns, errors []notify.Event
}

func (r *recordingSink) Info(e notify.Event)  { r.infos = append(r.infos, e) }
func (r *recordingSink) Warn(e notify.Event)  { r.warns = append(r.warns, e) }
func (r *recordingSink) Error(e notify.Event) { r.errors = append(r.errors, e) }

// testLoop builds a loop with a manually advanced clock.
func testLoop(source *fakeSource, client *fakeRecognizer, store *fakeRecorder, sink *recordingSink) (*Loop, *time.Time) {
	now := t0
	loop := NewLoop(
		NewThrottle(10*time.Second),
		source, client, store, sink,
		5*time.Second,
		WithClock(func() time.Time { return now }),
	)
	return loop, &now
}

func TestTick_RecognizedIdentitiesLandInStore(t *testing.T) {
	source := &fakeSource{frame: []byte("jpeg")}
	client := &fakeRecognizer{outcome: recognizer.Recognized([]recognizer.Identity{
		{Name: "Alice", RollNumber: "1", Confidence: 0.9, Status: "Attendance marked"},
		{Name: "Bob", RollNumber: "2", Confidence: 0.8, Status: "Recognized"},
	})}
	store := &fakeRecorder{}
	sink := &recordingSink{}
	loop, _ := testLoop(source, client, store, sink)

	loop.Tick(context.Background())

	if len(store.entries) != 2 {
		t.Fatalf("expected 2 entries stored, got %d", len(store.entries))
	}
	if store.entries[0].Name != "Alice" || store.entries[0].Confidence != 0.9 {
		t.Errorf("unexpected first entry: %+v", store.entries[0])
	}
	if store.entries[0].Timestamp.IsZero() {
		t.Error("expected loop to stamp entries with the capture time")
	}
	if len(sink.infos) != 2 {
		t.Errorf("expected 2 info events, got %d", len(sink.infos))
	}
	if loop.throttle.InFlight() {
		t.Error("expected throttle released after a completed attempt")
	}
}

func TestTick_SamplingFasterThanThrottle(t *testing.T) {
	source := &fakeSource{frame: []byte("jpeg")}
	client := &fakeRecognizer{outcome: recognizer.Recognized(nil)}
	loop, now := testLoop(source, client, &fakeRecorder{}, &recordingSink{})

	// Ticks every 5s against a 10s floor: attempts 1, 3, 5 submit.
	for i := 0; i < 5; i++ {
		loop.Tick(context.Background())
		*now = now.Add(5 * time.Second)
	}

	if client.calls != 3 {
		t.Errorf("expected 3 submissions over 5 ticks, got %d", client.calls)
	}
}

func TestTick_FailedOutcomeDoesNotAdvanceFloor(t *testing.T) {
	source := &fakeSource{frame: []byte("jpeg")}
	client := &fakeRecognizer{outcome: recognizer.Failed(recognizer.KindNetworkUnreachable, "connection refused")}
	sink := &recordingSink{}
	loop, now := testLoop(source, client, &fakeRecorder{}, sink)

	loop.Tick(context.Background())
	*now = now.Add(5 * time.Second)
	loop.Tick(context.Background())

	// Both ticks attempt because failures never start the interval.
	if client.calls != 2 {
		t.Errorf("expected 2 attempts, got %d", client.calls)
	}
	if len(sink.errors) != 2 {
		t.Errorf("expected network failures at error level, got %d", len(sink.errors))
	}
}

func TestTick_RecoverableFailuresAreWarnings(t *testing.T) {
	kinds := []recognizer.FailureKind{
		recognizer.KindNoStudentsRegistered,
		recognizer.KindNoFaceEncodings,
		recognizer.KindFaceNotRecognized,
		recognizer.KindFaceDetectionFailed,
	}
	for _, kind := range kinds {
		t.Run(string(kind), func(t *testing.T) {
			source := &fakeSource{frame: []byte("jpeg")}
			client := &fakeRecognizer{outcome: recognizer.Failed(kind, "nope")}
			sink := &recordingSink{}
			loop, _ := testLoop(source, client, &fakeRecorder{}, sink)

			loop.Tick(context.Background())

			if len(sink.warns) != 1 {
				t.Errorf("expected %s at warning level, got warns=%d errors=%d", kind, len(sink.warns), len(sink.errors))
			}
		})
	}
}

func TestTick_CaptureFailureReleasesThrottle(t *testing.T) {
	source := &fakeSource{err: errors.New("no webcam")}
	client := &fakeRecognizer{}
	sink := &recordingSink{}
	loop, _ := testLoop(source, client, &fakeRecorder{}, sink)

	loop.Tick(context.Background())

	if client.calls != 0 {
		t.Error("expected no submission when capture fails")
	}
	if loop.throttle.InFlight() {
		t.Error("expected throttle released after capture failure")
	}
	if len(sink.warns) != 1 {
		t.Errorf("expected capture failure warning, got %d", len(sink.warns))
	}
}

func TestTick_EmptyRecognitionStillAdvancesFloor(t *testing.T) {
	source := &fakeSource{frame: []byte("jpeg")}
	client := &fakeRecognizer{outcome: recognizer.Recognized(nil)}
	loop, now := testLoop(source, client, &fakeRecorder{}, &recordingSink{})

	loop.Tick(context.Background())
	*now = now.Add(5 * time.Second)
	loop.Tick(context.Background())

	// An empty result is a completed submission; the second tick is denied.
	if client.calls != 1 {
		t.Errorf("expected 1 submission, got %d", client.calls)
	}
}

func TestTick_SkippedDuplicatesProduceNoSignal(t *testing.T) {
	source := &fakeSource{frame: []byte("jpeg")}
	client := &fakeRecognizer{outcome: recognizer.Recognized([]recognizer.Identity{
		{Name: "Alice", RollNumber: "1"},
	})}
	sink := &recordingSink{}
	loop, _ := testLoop(source, client, &fakeRecorder{skip: true}, sink)

	loop.Tick(context.Background())

	if len(sink.infos) != 0 {
		t.Errorf("expected no info event for a skipped duplicate, got %d", len(sink.infos))
	}
}

func TestRun_StopsOnContextCancel(t *testing.T) {
	source := &fakeSource{frame: []byte("jpeg")}
	client := &fakeRecognizer{outcome: recognizer.Recognized(nil)}
	loop := NewLoop(NewThrottle(time.Hour), source, client, &fakeRecorder{}, notify.Noop{}, 10*time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	err := loop.Run(ctx)
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("expected deadline exceeded, got %v", err)
	}
	if client.calls != 1 {
		t.Errorf("expected exactly the immediate attempt under a 1h floor, got %d", client.calls)
	}
}
