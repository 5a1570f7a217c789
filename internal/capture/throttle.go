package capture

import "time"

// Throttle gates recognition attempts. The sampling trigger fires more
// often than attempts are allowed, so most ticks are silently denied;
// that decouples how often we look from how often we bother the remote
// service. The inFlight flag is the only concurrency control: it stops a
// slow outstanding call from overlapping the next tick.
type Throttle struct {
	minInterval time.Duration
	lastAttempt time.Time
	inFlight    bool
}

// NewThrottle creates a throttle with the given floor between submissions.
func NewThrottle(minInterval time.Duration) *Throttle {
	return &Throttle{minInterval: minInterval}
}

// TryAcquire reports whether an attempt may start at the given instant.
// Denied while an attempt is in flight, regardless of elapsed time, and
// while the floor since the last successful submission has not passed.
// On acquisition the in-flight flag is set before any I/O happens.
func (t *Throttle) TryAcquire(now time.Time) bool {
	if t.inFlight {
		return false
	}
	if !t.lastAttempt.IsZero() && now.Sub(t.lastAttempt) < t.minInterval {
		return false
	}
	t.inFlight = true
	return true
}

// Release must be called once per acquisition, success or failure.
// Only a completed successful submission advances the attempt floor;
// failed attempts retry naturally on the next permitted tick.
func (t *Throttle) Release(now time.Time, submitted bool) {
	t.inFlight = false
	if submitted && now.After(t.lastAttempt) {
		t.lastAttempt = now
	}
}

// InFlight reports whether an attempt is currently running.
func (t *Throttle) InFlight() bool {
	return t.inFlight
}
