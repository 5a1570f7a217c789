package attendance

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"
)

// fakeRemote records calls and fails on demand.
type fakeRemote struct {
	deleteErr   error
	clearErr    error
	deleteCalls []string
	clearCalls  int
}

func (f *fakeRemote) DeleteAttendance(_ context.Context, rollNumber string) error {
	f.deleteCalls = append(f.deleteCalls, rollNumber)
	return f.deleteErr
}

func (f *fakeRemote) ClearAttendance(context.Context) error {
	f.clearCalls++
	return f.clearErr
}

func TestDeleteAttendance_RemoteConfirmedThenLocal(t *testing.T) {
	store := newTestStore(t)
	mustAdd(t, store, Entry{Name: "Alice", RollNumber: "1", Timestamp: testDay})
	mustAdd(t, store, Entry{Name: "Bob", RollNumber: "2", Timestamp: testDay})

	remote := &fakeRemote{}
	removed, err := NewReconciler(remote, store).DeleteAttendance(context.Background(), "1")
	if err != nil {
		t.Fatalf("DeleteAttendance failed: %v", err)
	}
	if removed != 1 {
		t.Errorf("expected 1 removed, got %d", removed)
	}
	if len(remote.deleteCalls) != 1 || remote.deleteCalls[0] != "1" {
		t.Errorf("expected one remote call for roll 1, got %v", remote.deleteCalls)
	}

	entries, _ := store.ListToday()
	if len(entries) != 1 || entries[0].RollNumber != "2" {
		t.Errorf("expected only Bob locally, got %+v", entries)
	}
}

func TestDeleteAttendance_RemoteFailureLeavesStoreUntouched(t *testing.T) {
	store := newTestStore(t)
	mustAdd(t, store, Entry{Name: "Alice", RollNumber: "1", Timestamp: testDay})

	remote := &fakeRemote{deleteErr: errors.New("network down")}
	_, err := NewReconciler(remote, store).DeleteAttendance(context.Background(), "1")
	if err == nil {
		t.Fatal("expected remote failure to surface")
	}

	entries, _ := store.ListToday()
	if len(entries) != 1 {
		t.Errorf("expected local store unchanged after remote failure, got %d entries", len(entries))
	}
}

func TestClearToday_RemoteFirst(t *testing.T) {
	store := newTestStore(t)
	mustAdd(t, store, Entry{Name: "Alice", RollNumber: "1", Timestamp: testDay})
	mustAdd(t, store, Entry{Name: "Bob", RollNumber: "2", Timestamp: testDay})
	// Yesterday's partition must survive a clear of today.
	mustAdd(t, store, Entry{Name: "Carol", RollNumber: "3", Timestamp: testDay.AddDate(0, 0, -1)})

	remote := &fakeRemote{}
	removed, err := NewReconciler(remote, store).ClearToday(context.Background())
	if err != nil {
		t.Fatalf("ClearToday failed: %v", err)
	}
	if removed != 2 {
		t.Errorf("expected 2 removed, got %d", removed)
	}
	if remote.clearCalls != 1 {
		t.Errorf("expected one remote clear call, got %d", remote.clearCalls)
	}

	if entries, _ := store.ListToday(); len(entries) != 0 {
		t.Error("expected today's partition to be empty")
	}
	yesterday, _ := store.ListDay(dayKey(testDay.AddDate(0, 0, -1)))
	if len(yesterday) != 1 {
		t.Error("expected yesterday's partition to be untouched")
	}
}

func TestClearToday_RemoteFailureLeavesStoreUntouched(t *testing.T) {
	store := newTestStore(t)
	mustAdd(t, store, Entry{Name: "Alice", RollNumber: "1", Timestamp: testDay})

	remote := &fakeRemote{clearErr: errors.New("503")}
	if _, err := NewReconciler(remote, store).ClearToday(context.Background()); err == nil {
		t.Fatal("expected remote failure to surface")
	}

	if entries, _ := store.ListToday(); len(entries) != 1 {
		t.Error("expected local store unchanged after remote failure")
	}
}

func TestExportCSV(t *testing.T) {
	store := newTestStore(t)
	mustAdd(t, store, Entry{Name: "Alice", RollNumber: "1", Timestamp: testDay.Add(time.Minute)})
	mustAdd(t, store, Entry{Name: "Bob", RollNumber: "2", Timestamp: testDay.Add(2 * time.Minute)})
	mustAdd(t, store, Entry{Name: "Carol", RollNumber: "3", Timestamp: testDay.AddDate(0, 0, -1)})

	var buf strings.Builder
	var progress []ExportProgress
	rows, err := store.ExportCSV(&buf, testDay.AddDate(0, 0, -7), testDay, func(p ExportProgress) {
		progress = append(progress, p)
	})
	if err != nil {
		t.Fatalf("ExportCSV failed: %v", err)
	}
	if rows != 3 {
		t.Errorf("expected 3 rows, got %d", rows)
	}
	if len(progress) != 2 {
		t.Errorf("expected progress for 2 partitions, got %d", len(progress))
	}
	if progress[len(progress)-1].Current != progress[len(progress)-1].Total {
		t.Error("expected final progress to be complete")
	}

	out := buf.String()
	if !strings.Contains(out, "Name,Roll Number,Timestamp") {
		t.Errorf("missing CSV header in output:\n%s", out)
	}
	if !strings.Contains(out, "Alice,1,"+testDay.Add(time.Minute).Format(time.RFC3339)) {
		t.Errorf("missing Alice row in output:\n%s", out)
	}
}
