package models

import (
	"bytes"
	"path/filepath"
	"testing"

	"attendance/config"
	"attendance/db"
)

func setupTestDB(t *testing.T) {
	t.Helper()
	config.MYSQL_DSN = ""
	config.SQLITE_FILE = filepath.Join(t.TempDir(), "attendance.db")
	db.Init()
	Init()
}

func sampleBlob(seed byte) []byte {
	blob := make([]byte, SampleBytes)
	for i := range blob {
		blob[i] = seed + byte(i%251)
	}
	return blob
}

func TestFaceSampleRoundTrip(t *testing.T) {
	setupTestDB(t)

	blobs := [][]byte{sampleBlob(1), sampleBlob(2), sampleBlob(3)}
	if err := AddFaceSamples("Alice", blobs); err != nil {
		t.Fatalf("AddFaceSamples() error: %v", err)
	}

	samples, err := AllFaceSamples()
	if err != nil {
		t.Fatalf("AllFaceSamples() error: %v", err)
	}
	if len(samples) != len(blobs) {
		t.Fatalf("AllFaceSamples() returned %d samples, want %d", len(samples), len(blobs))
	}
	for i, sample := range samples {
		if sample.Name != "Alice" {
			t.Errorf("sample %d name = %q, want Alice", i, sample.Name)
		}
		if !bytes.Equal(sample.FaceData, blobs[i]) {
			t.Errorf("sample %d pixel bytes differ after round-trip", i)
		}
	}
}

func TestDistinctFaceNames(t *testing.T) {
	setupTestDB(t)

	if err := AddFaceSamples("Bob", [][]byte{sampleBlob(1), sampleBlob(2)}); err != nil {
		t.Fatal(err)
	}
	if err := AddFaceSamples("Alice", [][]byte{sampleBlob(3)}); err != nil {
		t.Fatal(err)
	}

	names, err := DistinctFaceNames()
	if err != nil {
		t.Fatalf("DistinctFaceNames() error: %v", err)
	}
	want := []string{"Alice", "Bob"}
	if len(names) != len(want) {
		t.Fatalf("DistinctFaceNames() = %v, want %v", names, want)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Fatalf("DistinctFaceNames() = %v, want %v", names, want)
		}
	}
}

func TestFaceSampleCounts(t *testing.T) {
	setupTestDB(t)

	_ = AddFaceSamples("Bob", [][]byte{sampleBlob(1), sampleBlob(2)})
	_ = AddFaceSamples("Alice", [][]byte{sampleBlob(3)})

	counts, err := FaceSampleCounts()
	if err != nil {
		t.Fatalf("FaceSampleCounts() error: %v", err)
	}
	if len(counts) != 2 {
		t.Fatalf("FaceSampleCounts() returned %d rows, want 2", len(counts))
	}
	if counts[0].Name != "Alice" || counts[0].Samples != 1 {
		t.Errorf("counts[0] = %+v, want {Alice 1}", counts[0])
	}
	if counts[1].Name != "Bob" || counts[1].Samples != 2 {
		t.Errorf("counts[1] = %+v, want {Bob 2}", counts[1])
	}
}

func TestFaceNameExists(t *testing.T) {
	setupTestDB(t)

	if FaceNameExists("Alice") {
		t.Error("FaceNameExists(Alice) = true on empty store")
	}
	_ = AddFaceSamples("Alice", [][]byte{sampleBlob(1)})
	if !FaceNameExists("Alice") {
		t.Error("FaceNameExists(Alice) = false after registration")
	}
}

func TestClearFaceSamples(t *testing.T) {
	setupTestDB(t)

	_ = AddFaceSamples("Alice", [][]byte{sampleBlob(1), sampleBlob(2)})
	if err := ClearFaceSamples(); err != nil {
		t.Fatalf("ClearFaceSamples() error: %v", err)
	}
	samples, err := AllFaceSamples()
	if err != nil {
		t.Fatal(err)
	}
	if len(samples) != 0 {
		t.Errorf("store still holds %d samples after clear", len(samples))
	}
}
