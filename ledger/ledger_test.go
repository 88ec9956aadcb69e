package ledger

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"attendance/storage"
)

func testLedger(t *testing.T) *Ledger {
	t.Helper()
	return New(t.TempDir(), 9, 0)
}

func at(t *testing.T, value string) time.Time {
	t.Helper()
	ts, err := time.Parse("02-01-2006 15:04:05", value)
	if err != nil {
		t.Fatalf("bad test time %q: %v", value, err)
	}
	return ts
}

func TestMarkOnTime(t *testing.T) {
	l := testLedger(t)

	outcome, err := l.Mark("Alice", at(t, "01-01-2024 08:59:59"))
	if err != nil {
		t.Fatalf("Mark() error: %v", err)
	}
	if outcome != MarkedOnTime {
		t.Fatalf("Mark() = %v, want MarkedOnTime", outcome)
	}

	records, err := l.Records()
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 1 {
		t.Fatalf("main ledger has %d rows, want 1", len(records))
	}
	want := Record{Name: "Alice", Time: "08:59:59", Date: "01-01-2024"}
	if records[0] != want {
		t.Errorf("main row = %+v, want %+v", records[0], want)
	}

	late, err := l.LateRecords()
	if err != nil {
		t.Fatal(err)
	}
	if len(late) != 0 {
		t.Errorf("late ledger has %d rows before cutoff, want 0", len(late))
	}
}

func TestMarkLate(t *testing.T) {
	l := testLedger(t)

	tests := []struct {
		name    string
		when    string
		outcome Outcome
	}{
		{"exactly at cutoff", "01-01-2024 09:00:00", MarkedLate},
		{"well past cutoff", "02-01-2024 14:30:00", MarkedLate},
		{"just before cutoff", "03-01-2024 08:59:59", MarkedOnTime},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			outcome, err := l.Mark("Bob", at(t, tt.when))
			if err != nil {
				t.Fatalf("Mark() error: %v", err)
			}
			if outcome != tt.outcome {
				t.Errorf("Mark() = %v, want %v", outcome, tt.outcome)
			}
		})
	}

	late, err := l.LateRecords()
	if err != nil {
		t.Fatal(err)
	}
	if len(late) != 2 {
		t.Errorf("late ledger has %d rows, want 2", len(late))
	}
}

func TestMarkDeduplicatesPerDate(t *testing.T) {
	l := testLedger(t)

	// First mark before the cutoff, second attempt after it. The second must
	// neither add a main row nor a late row, since no new entry was created.
	if _, err := l.Mark("Alice", at(t, "01-01-2024 08:59:59")); err != nil {
		t.Fatal(err)
	}
	outcome, err := l.Mark("Alice", at(t, "01-01-2024 09:30:00"))
	if err != nil {
		t.Fatal(err)
	}
	if outcome != AlreadyMarked {
		t.Fatalf("second Mark() = %v, want AlreadyMarked", outcome)
	}

	records, _ := l.Records()
	if len(records) != 1 {
		t.Errorf("main ledger has %d rows, want 1", len(records))
	}
	late, _ := l.LateRecords()
	if len(late) != 0 {
		t.Errorf("late ledger has %d rows, want 0", len(late))
	}

	// A new date is a fresh slate.
	outcome, err = l.Mark("Alice", at(t, "02-01-2024 08:00:00"))
	if err != nil {
		t.Fatal(err)
	}
	if outcome != MarkedOnTime {
		t.Errorf("next-day Mark() = %v, want MarkedOnTime", outcome)
	}
}

func TestMalformedHeaderIsReplaced(t *testing.T) {
	l := testLedger(t)

	// Header is missing the Date column.
	if err := os.MkdirAll(l.dir, 0777); err != nil {
		t.Fatal(err)
	}
	bad := "Name,Time\nAlice,08:00:00\n"
	if err := os.WriteFile(l.AttendancePath(), []byte(bad), 0666); err != nil {
		t.Fatal(err)
	}

	records, err := l.Records()
	if err != nil {
		t.Fatalf("Records() error on malformed file: %v", err)
	}
	if len(records) != 0 {
		t.Fatalf("Records() = %v, want empty after header repair", records)
	}

	data, err := os.ReadFile(l.AttendancePath())
	if err != nil {
		t.Fatal(err)
	}
	if strings.TrimSpace(string(data)) != "Name,Time,Date" {
		t.Errorf("repaired file contents = %q, want header only", string(data))
	}
}

func TestHeaderColumnOrderIsFlexible(t *testing.T) {
	l := testLedger(t)

	if err := os.MkdirAll(l.dir, 0777); err != nil {
		t.Fatal(err)
	}
	shuffled := "Date,Name,Time\n01-01-2024,Alice,08:00:00\n"
	if err := os.WriteFile(l.AttendancePath(), []byte(shuffled), 0666); err != nil {
		t.Fatal(err)
	}

	records, err := l.Records()
	if err != nil {
		t.Fatal(err)
	}
	want := Record{Name: "Alice", Time: "08:00:00", Date: "01-01-2024"}
	if len(records) != 1 || records[0] != want {
		t.Errorf("Records() = %v, want [%+v]", records, want)
	}
}

func TestExtraHeaderColumnsAreIgnored(t *testing.T) {
	l := testLedger(t)

	if err := os.MkdirAll(l.dir, 0777); err != nil {
		t.Fatal(err)
	}
	// A hand-migrated late file may carry extra columns ahead of the ones we
	// need. Rows too short to reach the last needed column are skipped, not
	// indexed out of range.
	extended := "Reason,Name,Time,Date\n" +
		"Alice,08:00:00,01-01-2024\n" +
		"overslept,Bob,09:30:00,01-01-2024\n"
	if err := os.WriteFile(l.AttendancePath(), []byte(extended), 0666); err != nil {
		t.Fatal(err)
	}

	records, err := l.Records()
	if err != nil {
		t.Fatalf("Records() error: %v", err)
	}
	want := Record{Name: "Bob", Time: "09:30:00", Date: "01-01-2024"}
	if len(records) != 1 || records[0] != want {
		t.Errorf("Records() = %v, want [%+v]", records, want)
	}
}

func TestRecordsOn(t *testing.T) {
	l := testLedger(t)

	_, _ = l.Mark("Alice", at(t, "01-01-2024 08:00:00"))
	_, _ = l.Mark("Bob", at(t, "01-01-2024 08:10:00"))
	_, _ = l.Mark("Alice", at(t, "02-01-2024 08:00:00"))

	records, err := l.RecordsOn("01-01-2024")
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 2 {
		t.Errorf("RecordsOn() returned %d rows, want 2", len(records))
	}
}

func TestClear(t *testing.T) {
	l := testLedger(t)

	_, _ = l.Mark("Alice", at(t, "01-01-2024 09:30:00"))
	if err := l.Clear(); err != nil {
		t.Fatalf("Clear() error: %v", err)
	}

	records, _ := l.Records()
	late, _ := l.LateRecords()
	if len(records) != 0 || len(late) != 0 {
		t.Errorf("ledgers not empty after Clear(): %d main, %d late", len(records), len(late))
	}
}

func TestSnapshot(t *testing.T) {
	l := testLedger(t)
	backupDir := t.TempDir()

	_, _ = l.Mark("Alice", at(t, "01-01-2024 09:30:00"))

	now := at(t, "01-01-2024 23:55:00")
	written, err := l.Snapshot(now, []storage.Target{storage.NewDiskTarget(backupDir)})
	if err != nil {
		t.Fatalf("Snapshot() error: %v", err)
	}
	// Both files exist: the late file was created by the late mark.
	if len(written) != 2 {
		t.Fatalf("Snapshot() wrote %d files, want 2", len(written))
	}
	for _, name := range written {
		data, err := os.ReadFile(filepath.Join(backupDir, name))
		if err != nil {
			t.Fatalf("snapshot %s not readable: %v", name, err)
		}
		if !strings.HasPrefix(string(data), "Name,Time,Date") {
			t.Errorf("snapshot %s does not start with the ledger header", name)
		}
	}
}
