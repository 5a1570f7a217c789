package attendance

import (
	"encoding/csv"
	"fmt"
	"io"
	"time"
)

// ExportProgress is passed to the export callback once per day partition.
type ExportProgress struct {
	Day     string
	Current int
	Total   int
}

// ExportCSV writes all entries within [from, to] as CSV, one row per entry,
// oldest partition first. The row format matches the recognizer backend's
// attendance download: Name, Roll Number, Timestamp. onProgress may be nil.
// Returns the number of rows written.
func (s *Store) ExportCSV(w io.Writer, from, to time.Time, onProgress func(ExportProgress)) (int, error) {
	days, err := s.Days(from, to)
	if err != nil {
		return 0, err
	}

	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"Name", "Roll Number", "Timestamp"}); err != nil {
		return 0, fmt.Errorf("could not write CSV header: %w", err)
	}

	rows := 0
	for i, day := range days {
		entries, err := s.ListDay(day)
		if err != nil {
			return rows, err
		}
		// ListDay sorts newest first; export reads better oldest first.
		for j := len(entries) - 1; j >= 0; j-- {
			entry := entries[j]
			record := []string{entry.Name, entry.RollNumber, entry.Timestamp.Format(time.RFC3339)}
			if err := cw.Write(record); err != nil {
				return rows, fmt.Errorf("could not write CSV row: %w", err)
			}
			rows++
		}
		if onProgress != nil {
			onProgress(ExportProgress{Day: day, Current: i + 1, Total: len(days)})
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return rows, fmt.Errorf("could not flush CSV: %w", err)
	}
	return rows, nil
}
