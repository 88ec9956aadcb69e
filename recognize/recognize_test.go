package recognize

import (
	"testing"

	"attendance/models"
)

func TestTrainRefusesEmptyStore(t *testing.T) {
	if _, err := Train(nil); err != ErrNoSamples {
		t.Errorf("Train(nil) error = %v, want ErrNoSamples", err)
	}
	if _, err := Train([]models.FaceSample{}); err != ErrNoSamples {
		t.Errorf("Train(empty) error = %v, want ErrNoSamples", err)
	}
}

func TestAssignLabels(t *testing.T) {
	names := []string{"Alice", "Alice", "Bob", "Alice", "Carol", "Bob"}
	labels, labelNames := assignLabels(names)

	wantLabels := []int{0, 0, 1, 0, 2, 1}
	if len(labels) != len(wantLabels) {
		t.Fatalf("got %d labels, want %d", len(labels), len(wantLabels))
	}
	for i := range wantLabels {
		if labels[i] != wantLabels[i] {
			t.Errorf("labels[%d] = %d, want %d", i, labels[i], wantLabels[i])
		}
	}

	wantNames := map[int]string{0: "Alice", 1: "Bob", 2: "Carol"}
	if len(labelNames) != len(wantNames) {
		t.Fatalf("got %d label names, want %d", len(labelNames), len(wantNames))
	}
	for label, name := range wantNames {
		if labelNames[label] != name {
			t.Errorf("labelNames[%d] = %q, want %q", label, labelNames[label], name)
		}
	}
}
