// Package ledger owns the attendance CSV files. All reads and writes go
// through one Ledger guarded by a mutex, so concurrent dashboard requests and
// the capture loop cannot interleave the read-modify-write cycle.
package ledger

import (
	"encoding/csv"
	"log"
	"os"
	"path/filepath"
	"sync"
	"time"

	"attendance/config"
)

const (
	AttendanceFile = "Attendance_.csv"
	LateFile       = "late_attendance_record.csv"

	TimeLayout = "15:04:05"
	DateLayout = "02-01-2006"
)

var header = []string{"Name", "Time", "Date"}

type Record struct {
	Name string `json:"name"`
	Time string `json:"time"`
	Date string `json:"date"`
}

type Outcome int

const (
	MarkedOnTime Outcome = iota
	MarkedLate
	AlreadyMarked
)

func (o Outcome) String() string {
	switch o {
	case MarkedOnTime:
		return "marked on time"
	case MarkedLate:
		return "marked late"
	case AlreadyMarked:
		return "already marked today"
	}
	return "unknown"
}

type Ledger struct {
	mu           sync.Mutex
	dir          string
	cutoffHour   int
	cutoffMinute int
}

var Default *Ledger

func Init() {
	Default = New(config.ATTENDANCE_DIR, config.LATE_CUTOFF_HOUR, config.LATE_CUTOFF_MINUTE)
}

func New(dir string, cutoffHour, cutoffMinute int) *Ledger {
	return &Ledger{
		dir:          dir,
		cutoffHour:   cutoffHour,
		cutoffMinute: cutoffMinute,
	}
}

func (l *Ledger) AttendancePath() string {
	return filepath.Join(l.dir, AttendanceFile)
}

func (l *Ledger) LatePath() string {
	return filepath.Join(l.dir, LateFile)
}

// Mark records attendance for name at the given time. A name is recorded at
// most once per date; a late-ledger row is added only when a new main row is
// created at or after the cutoff.
func (l *Ledger) Mark(name string, now time.Time) (Outcome, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	date := now.Format(DateLayout)
	records, err := l.readTable(l.AttendancePath())
	if err != nil {
		return AlreadyMarked, err
	}
	for _, r := range records {
		if r.Name == name && r.Date == date {
			return AlreadyMarked, nil
		}
	}

	entry := Record{Name: name, Time: now.Format(TimeLayout), Date: date}
	records = append(records, entry)
	if err = l.writeTable(l.AttendancePath(), records); err != nil {
		return AlreadyMarked, err
	}

	if !l.pastCutoff(now) {
		return MarkedOnTime, nil
	}
	late, err := l.readTable(l.LatePath())
	if err != nil {
		return MarkedLate, err
	}
	late = append(late, entry)
	if err = l.writeTable(l.LatePath(), late); err != nil {
		return MarkedLate, err
	}
	return MarkedLate, nil
}

// Records returns every main-ledger row.
func (l *Ledger) Records() ([]Record, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.readTable(l.AttendancePath())
}

// RecordsOn returns the main-ledger rows for one date (DD-MM-YYYY).
func (l *Ledger) RecordsOn(date string) ([]Record, error) {
	records, err := l.Records()
	if err != nil {
		return nil, err
	}
	result := []Record{}
	for _, r := range records {
		if r.Date == date {
			result = append(result, r)
		}
	}
	return result, nil
}

// LateRecords returns every late-ledger row.
func (l *Ledger) LateRecords() ([]Record, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.readTable(l.LatePath())
}

// Clear resets both ledgers to a header-only table.
func (l *Ledger) Clear() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if err := l.writeTable(l.AttendancePath(), nil); err != nil {
		return err
	}
	return l.writeTable(l.LatePath(), nil)
}

func (l *Ledger) pastCutoff(now time.Time) bool {
	if now.Hour() != l.cutoffHour {
		return now.Hour() > l.cutoffHour
	}
	return now.Minute() >= l.cutoffMinute
}

// readTable loads a ledger CSV. A missing or malformed file (bad header,
// unreadable rows) is replaced with a fresh header-only table - prior
// contents are discarded with a logged warning, never surfaced as an error.
func (l *Ledger) readTable(path string) ([]Record, error) {
	file, err := os.Open(path)
	if err != nil {
		if !os.IsNotExist(err) {
			log.Printf("Replacing unreadable ledger %s: %v", path, err)
		}
		return []Record{}, l.writeTable(path, nil)
	}
	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1
	rows, err := reader.ReadAll()
	file.Close()
	if err != nil || len(rows) == 0 || !validHeader(rows[0]) {
		log.Printf("Replacing malformed ledger %s with an empty table", path)
		return []Record{}, l.writeTable(path, nil)
	}

	// Header columns may appear in any order in a hand-edited file, and may
	// carry extra columns we ignore. Rows must reach the last column we need.
	index := map[string]int{}
	for i, col := range rows[0] {
		index[col] = i
	}
	need := max(index["Name"], index["Time"], index["Date"])
	records := []Record{}
	for _, row := range rows[1:] {
		if len(row) <= need {
			continue
		}
		records = append(records, Record{
			Name: row[index["Name"]],
			Time: row[index["Time"]],
			Date: row[index["Date"]],
		})
	}
	return records, nil
}

func (l *Ledger) writeTable(path string, records []Record) error {
	if err := os.MkdirAll(l.dir, 0777); err != nil {
		return err
	}
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	writer := csv.NewWriter(file)
	if err = writer.Write(header); err != nil {
		file.Close()
		return err
	}
	for _, r := range records {
		if err = writer.Write([]string{r.Name, r.Time, r.Date}); err != nil {
			file.Close()
			return err
		}
	}
	writer.Flush()
	if err = writer.Error(); err != nil {
		file.Close()
		return err
	}
	return file.Close()
}

func validHeader(row []string) bool {
	found := map[string]bool{}
	for _, col := range row {
		found[col] = true
	}
	for _, col := range header {
		if !found[col] {
			return false
		}
	}
	return true
}
