// Package recognize builds the in-memory face classifier from the stored
// samples. The model is rebuilt from scratch at every capture-session start;
// people registered while a session is running are picked up on the next one.
package recognize

import (
	"errors"
	"log"

	"attendance/models"

	"gocv.io/x/gocv"
	"gocv.io/x/gocv/contrib"
)

var ErrNoSamples = errors.New("no registered face samples, train refused")

// Model pairs a trained LBPH recognizer with its label -> name mapping.
// LBPH confidence is a distance: lower means a closer match.
type Model struct {
	recognizer *contrib.LBPHFaceRecognizer
	labelNames map[int]string
}

// Train fits an LBPH classifier over all stored samples, one integer label
// per distinct name in first-seen order. Samples with an unexpected blob size
// are skipped with a warning. Training with nothing usable is refused.
func Train(samples []models.FaceSample) (*Model, error) {
	if len(samples) == 0 {
		return nil, ErrNoSamples
	}

	images := []gocv.Mat{}
	names := []string{}
	defer func() {
		for i := range images {
			images[i].Close()
		}
	}()
	for _, sample := range samples {
		gray, err := grayMatFromBlob(sample.FaceData)
		if err != nil {
			log.Printf("Skipping unusable sample %d for %s: %v", sample.ID, sample.Name, err)
			continue
		}
		images = append(images, gray)
		names = append(names, sample.Name)
	}
	if len(images) == 0 {
		return nil, ErrNoSamples
	}

	labels, labelNames := assignLabels(names)
	model := &Model{
		recognizer: contrib.NewLBPHFaceRecognizer(),
		labelNames: labelNames,
	}
	model.recognizer.Train(images, labels)
	log.Printf("Trained recognizer with %d samples from %d people", len(images), len(labelNames))
	return model, nil
}

// Predict classifies one grayscale face crop (models.SampleSize square).
// ok is false when the predicted label has no known name.
func (m *Model) Predict(face gocv.Mat) (name string, confidence float32, ok bool) {
	resp := m.recognizer.PredictExtendedResponse(face)
	name, ok = m.labelNames[int(resp.Label)]
	return name, resp.Confidence, ok
}

// People returns the number of distinct names the model was trained on.
func (m *Model) People() int {
	return len(m.labelNames)
}

// assignLabels gives each distinct name a sequential label in first-seen
// order and returns the per-sample label list alongside the reverse mapping.
func assignLabels(names []string) ([]int, map[int]string) {
	labels := make([]int, 0, len(names))
	labelNames := map[int]string{}
	byName := map[string]int{}
	for _, name := range names {
		label, seen := byName[name]
		if !seen {
			label = len(byName)
			byName[name] = label
			labelNames[label] = name
		}
		labels = append(labels, label)
	}
	return labels, labelNames
}

// grayMatFromBlob reshapes a stored BGR blob and converts it to grayscale,
// matching the training-time preprocessing of the capture loop.
func grayMatFromBlob(blob []byte) (gocv.Mat, error) {
	if len(blob) != models.SampleBytes {
		return gocv.Mat{}, errors.New("unexpected blob size")
	}
	bgr, err := gocv.NewMatFromBytes(models.SampleSize, models.SampleSize, gocv.MatTypeCV8UC3, blob)
	if err != nil {
		return gocv.Mat{}, err
	}
	defer bgr.Close()

	gray := gocv.NewMat()
	gocv.CvtColor(bgr, &gray, gocv.ColorBGRToGray)
	return gray, nil
}
