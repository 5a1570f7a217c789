package attendance

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/classpulse/rollcall/internal/kv"
)

const (
	sessionEmailKey = "session:email"
	sessionTokenKey = "session:token"
)

// ErrNoSession is returned when no authenticated user has been resolved.
var ErrNoSession = errors.New("attendance: no active session")

// Store is the durable attendance cache for the current session's user.
// Partition maps are keyed by owner email so switching accounts never
// merges data. Every mutation rewrites the owner's whole map through the
// key-value layer; volumes are small (day cap x retention window).
type Store struct {
	kv     kv.Store
	dayCap int
	now    func() time.Time
}

// Option tweaks a Store; used by tests to inject a clock.
type Option func(*Store)

// WithClock replaces the wall clock.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// NewStore creates a store over the given key-value backend. dayCap bounds
// each day partition.
func NewStore(kvs kv.Store, dayCap int, opts ...Option) *Store {
	s := &Store{kv: kvs, dayCap: dayCap, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// SaveSession persists the resolved owner email and bearer token.
func (s *Store) SaveSession(email, token string) error {
	if err := s.kv.Set(sessionEmailKey, email); err != nil {
		return fmt.Errorf("could not persist session email: %w", err)
	}
	if err := s.kv.Set(sessionTokenKey, token); err != nil {
		return fmt.Errorf("could not persist session token: %w", err)
	}
	return nil
}

// Session returns the persisted owner email and token.
func (s *Store) Session() (email, token string, err error) {
	email, err = s.kv.Get(sessionEmailKey)
	if errors.Is(err, kv.ErrNotFound) {
		return "", "", ErrNoSession
	}
	if err != nil {
		return "", "", err
	}
	token, err = s.kv.Get(sessionTokenKey)
	if errors.Is(err, kv.ErrNotFound) {
		return email, "", nil
	}
	if err != nil {
		return "", "", err
	}
	return email, token, nil
}

// ClearSession forgets the session keys. The owner's attendance map stays.
func (s *Store) ClearSession() error {
	if err := s.kv.Remove(sessionEmailKey); err != nil {
		return err
	}
	return s.kv.Remove(sessionTokenKey)
}

// owner resolves the attendance map key for the current session.
func (s *Store) owner() (string, error) {
	email, err := s.kv.Get(sessionEmailKey)
	if errors.Is(err, kv.ErrNotFound) {
		return "", ErrNoSession
	}
	if err != nil {
		return "", err
	}
	return email, nil
}

func attendanceKey(owner string) string {
	return "attendance:" + owner
}

// load reads the owner's partition map, lazily empty on first use.
func (s *Store) load(owner string) (PartitionMap, error) {
	raw, err := s.kv.Get(attendanceKey(owner))
	if errors.Is(err, kv.ErrNotFound) {
		return PartitionMap{}, nil
	}
	if err != nil {
		return nil, err
	}
	var partitions PartitionMap
	if err := json.Unmarshal([]byte(raw), &partitions); err != nil {
		return nil, fmt.Errorf("corrupt attendance data for %s: %w", owner, err)
	}
	return partitions, nil
}

// save rewrites the owner's whole partition map.
func (s *Store) save(owner string, partitions PartitionMap) error {
	raw, err := json.Marshal(partitions)
	if err != nil {
		return fmt.Errorf("could not marshal attendance data: %w", err)
	}
	return s.kv.Set(attendanceKey(owner), string(raw))
}

// Add inserts an entry into its day partition. The insert is skipped (added
// is false, err is nil) when the partition already holds the roll number or
// the folded name; either collision alone blocks the insert to avoid double
// counting the same person under a slightly different label. The partition
// keeps at most dayCap entries, dropping the oldest by insertion order.
func (s *Store) Add(entry Entry) (added bool, err error) {
	if strings.TrimSpace(entry.Name) == "" {
		return false, errors.New("attendance: entry name is empty")
	}
	if entry.RollNumber == "" {
		return false, errors.New("attendance: entry roll number is empty")
	}
	if entry.Timestamp.IsZero() {
		entry.Timestamp = s.now()
	}
	if entry.Status == "" {
		entry.Status = "Recognized"
	}

	owner, err := s.owner()
	if err != nil {
		return false, err
	}
	partitions, err := s.load(owner)
	if err != nil {
		return false, err
	}

	day := dayKey(entry.Timestamp)
	folded := foldName(entry.Name)
	for _, existing := range partitions[day] {
		if existing.RollNumber == entry.RollNumber || foldName(existing.Name) == folded {
			return false, nil
		}
	}

	partition := append(partitions[day], entry)
	if len(partition) > s.dayCap {
		partition = partition[len(partition)-s.dayCap:]
	}
	partitions[day] = partition

	if err := s.save(owner, partitions); err != nil {
		return false, err
	}
	return true, nil
}

// ListToday returns today's entries, most recent first. Non-destructive.
func (s *Store) ListToday() ([]Entry, error) {
	return s.ListDay(dayKey(s.now()))
}

// ListDay returns the entries of one partition, most recent first.
func (s *Store) ListDay(day string) ([]Entry, error) {
	owner, err := s.owner()
	if err != nil {
		return nil, err
	}
	partitions, err := s.load(owner)
	if err != nil {
		return nil, err
	}

	entries := make([]Entry, len(partitions[day]))
	copy(entries, partitions[day])
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Timestamp.After(entries[j].Timestamp)
	})
	return entries, nil
}

// RemoveByRoll drops today's entries with the given roll number and reports
// how many were removed. Called by the reconciler only after the remote
// deletion is confirmed.
func (s *Store) RemoveByRoll(rollNumber string) (int, error) {
	owner, err := s.owner()
	if err != nil {
		return 0, err
	}
	partitions, err := s.load(owner)
	if err != nil {
		return 0, err
	}

	day := dayKey(s.now())
	kept := partitions[day][:0]
	removed := 0
	for _, entry := range partitions[day] {
		if entry.RollNumber == rollNumber {
			removed++
			continue
		}
		kept = append(kept, entry)
	}
	if removed == 0 {
		return 0, nil
	}

	if len(kept) == 0 {
		delete(partitions, day)
	} else {
		partitions[day] = kept
	}
	if err := s.save(owner, partitions); err != nil {
		return 0, err
	}
	return removed, nil
}

// RemoveToday drops today's whole partition and reports the entry count.
func (s *Store) RemoveToday() (int, error) {
	owner, err := s.owner()
	if err != nil {
		return 0, err
	}
	partitions, err := s.load(owner)
	if err != nil {
		return 0, err
	}

	day := dayKey(s.now())
	removed := len(partitions[day])
	if removed == 0 {
		return 0, nil
	}
	delete(partitions, day)
	if err := s.save(owner, partitions); err != nil {
		return 0, err
	}
	return removed, nil
}

// PurgeOlderThan deletes whole partitions dated before today minus the
// given number of days and returns how many partitions were removed.
func (s *Store) PurgeOlderThan(days int) (int, error) {
	owner, err := s.owner()
	if err != nil {
		return 0, err
	}
	partitions, err := s.load(owner)
	if err != nil {
		return 0, err
	}

	cutoff := dayKey(s.now().AddDate(0, 0, -days))
	removed := 0
	for day := range partitions {
		// Partition keys are ISO dates, so string order is date order.
		if day < cutoff {
			delete(partitions, day)
			removed++
		}
	}
	if removed == 0 {
		return 0, nil
	}
	if err := s.save(owner, partitions); err != nil {
		return 0, err
	}
	return removed, nil
}

// Days returns the partition keys within [from, to], oldest first.
func (s *Store) Days(from, to time.Time) ([]string, error) {
	owner, err := s.owner()
	if err != nil {
		return nil, err
	}
	partitions, err := s.load(owner)
	if err != nil {
		return nil, err
	}

	lo, hi := dayKey(from), dayKey(to)
	var days []string
	for day := range partitions {
		if day >= lo && day <= hi {
			days = append(days, day)
		}
	}
	sort.Strings(days)
	return days, nil
}
