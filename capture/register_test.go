package capture

import (
	"image"
	"path/filepath"
	"testing"

	"attendance/config"
	"attendance/db"
	"attendance/models"

	"github.com/pkg/errors"
)

func setupTestDB(t *testing.T) {
	t.Helper()
	config.MYSQL_DSN = ""
	config.SQLITE_FILE = filepath.Join(t.TempDir(), "attendance.db")
	db.Init()
	models.Init()
}

func testBlobs(n int) [][]byte {
	blobs := make([][]byte, n)
	for i := range blobs {
		blob := make([]byte, models.SampleBytes)
		blob[0] = byte(i)
		blobs[i] = blob
	}
	return blobs
}

func TestPersistSamplesGate(t *testing.T) {
	tests := []struct {
		name      string
		collected int
		persisted int
		refused   bool
	}{
		{"one short of the minimum", 19, 0, true},
		{"exactly the minimum", 20, 20, false},
		{"full sample cap", 100, 100, false},
		{"nothing collected", 0, 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setupTestDB(t)

			count, err := persistSamples("Alice", testBlobs(tt.collected), 20)
			if count != tt.collected {
				t.Errorf("persistSamples() count = %d, want %d", count, tt.collected)
			}
			if tt.refused {
				if errors.Cause(err) != ErrTooFewSamples {
					t.Fatalf("persistSamples() error = %v, want ErrTooFewSamples", err)
				}
			} else if err != nil {
				t.Fatalf("persistSamples() error: %v", err)
			}

			stored, err := models.AllFaceSamples()
			if err != nil {
				t.Fatal(err)
			}
			if len(stored) != tt.persisted {
				t.Errorf("store holds %d samples, want %d", len(stored), tt.persisted)
			}
		})
	}
}

func TestLargestBox(t *testing.T) {
	boxes := []image.Rectangle{
		image.Rect(0, 0, 40, 40),
		image.Rect(100, 100, 220, 220),
		image.Rect(300, 300, 360, 360),
	}
	if got := largestBox(boxes); got != boxes[1] {
		t.Errorf("largestBox() = %v, want %v", got, boxes[1])
	}
	single := []image.Rectangle{image.Rect(0, 0, 10, 10)}
	if got := largestBox(single); got != single[0] {
		t.Errorf("largestBox() = %v, want %v", got, single[0])
	}
}
