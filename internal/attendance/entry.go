// Package attendance holds the per-user, date-partitioned attendance cache
// and the reconciliation against the remote recognizer.
package attendance

import (
	"strings"
	"time"

	"golang.org/x/text/cases"
)

// Entry is one recognized person on one day.
type Entry struct {
	Name       string    `json:"name"`
	RollNumber string    `json:"rollNumber"`
	Timestamp  time.Time `json:"timestamp"`
	Confidence float64   `json:"confidence"`
	Status     string    `json:"status"`
}

// PartitionMap maps an ISO calendar date to that day's entries, ordered by
// insertion.
type PartitionMap map[string][]Entry

// dayLayout is the partition key format.
const dayLayout = "2006-01-02"

// dayKey returns the partition key for a timestamp.
func dayKey(t time.Time) string {
	return t.Format(dayLayout)
}

var nameFolder = cases.Fold()

// foldName normalizes a display name for duplicate comparison. "alice" and
// "ALICE" are the same person; counting them twice is worse than missing a
// genuine namesake.
func foldName(name string) string {
	return nameFolder.String(strings.TrimSpace(name))
}
