package ledger

import (
	"bytes"
	"os"
	"time"

	"attendance/storage"
)

// Snapshot copies both ledger files to every backup target, stamped with the
// given time. Missing files are skipped. Returns the snapshot names written.
func (l *Ledger) Snapshot(now time.Time, targets []storage.Target) ([]string, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	stamp := now.Format("20060102_150405")
	sources := []struct {
		path string
		name string
	}{
		{l.AttendancePath(), "Attendance_backup_" + stamp + ".csv"},
		{l.LatePath(), "late_attendance_backup_" + stamp + ".csv"},
	}

	written := []string{}
	for _, src := range sources {
		data, err := os.ReadFile(src.path)
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return written, err
		}
		for _, target := range targets {
			if err = target.Save(src.name, bytes.NewReader(data)); err != nil {
				return written, err
			}
		}
		written = append(written, src.name)
	}
	return written, nil
}
