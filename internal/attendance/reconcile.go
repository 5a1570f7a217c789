package attendance

import (
	"context"
	"fmt"
)

// Remote is the slice of the recognizer API the reconciler needs.
type Remote interface {
	DeleteAttendance(ctx context.Context, rollNumber string) error
	ClearAttendance(ctx context.Context) error
}

// Reconciler removes attendance remotely and locally, in that order. The
// local cache is only touched after the server confirms, so it never runs
// ahead of the authoritative state.
type Reconciler struct {
	remote Remote
	store  *Store
}

// NewReconciler wires a reconciler over the remote API and local store.
func NewReconciler(remote Remote, store *Store) *Reconciler {
	return &Reconciler{remote: remote, store: store}
}

// DeleteAttendance deletes one roll number's attendance for today. On a
// remote failure the local store is left untouched.
func (r *Reconciler) DeleteAttendance(ctx context.Context, rollNumber string) (int, error) {
	if err := r.remote.DeleteAttendance(ctx, rollNumber); err != nil {
		return 0, fmt.Errorf("remote deletion failed: %w", err)
	}
	removed, err := r.store.RemoveByRoll(rollNumber)
	if err != nil {
		return 0, fmt.Errorf("remote deleted but local removal failed: %w", err)
	}
	return removed, nil
}

// ClearToday deletes all of today's attendance, remote first.
func (r *Reconciler) ClearToday(ctx context.Context) (int, error) {
	if err := r.remote.ClearAttendance(ctx); err != nil {
		return 0, fmt.Errorf("remote clear failed: %w", err)
	}
	removed, err := r.store.RemoveToday()
	if err != nil {
		return 0, fmt.Errorf("remote cleared but local removal failed: %w", err)
	}
	return removed, nil
}
