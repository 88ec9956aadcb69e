package capture

import (
	"image"
	"image/color"
	"log"
	"time"

	"attendance/models"

	"github.com/pkg/errors"
	"gocv.io/x/gocv"
)

var (
	ErrEmptyName         = errors.New("name cannot be empty")
	ErrAlreadyRegistered = errors.New("name is already registered")
	ErrTooFewSamples     = errors.New("not enough face samples collected")
)

// RegisterOptions extends the capture options with the sampling policy.
type RegisterOptions struct {
	Options
	MinSamples  int
	MaxSamples  int
	SampleEvery int // store every Nth frame that contains a face
}

// Register collects face crops for one person and persists them in a single
// bulk insert. Nothing is written unless at least MinSamples crops were
// collected; collection ends at MaxSamples or when stop is closed. Returns
// the number of samples collected.
func Register(opts RegisterOptions, name string, stop <-chan struct{}) (int, error) {
	if name == "" {
		return 0, ErrEmptyName
	}
	if models.FaceNameExists(name) {
		return 0, ErrAlreadyRegistered
	}

	dev, err := openDevice(opts.Options)
	if err != nil {
		return 0, err
	}
	defer dev.close()

	// Let the camera warm up, early frames tend to be under-exposed.
	time.Sleep(2 * time.Second)

	blobs, err := collectSamples(dev, opts, name, stop)
	if err != nil {
		return len(blobs), err
	}
	return persistSamples(name, blobs, opts.MinSamples)
}

// persistSamples is the all-or-nothing gate at the end of registration:
// below minSamples nothing is written, otherwise every collected blob is
// stored in one bulk insert.
func persistSamples(name string, blobs [][]byte, minSamples int) (int, error) {
	if len(blobs) < minSamples {
		return len(blobs), errors.Wrapf(ErrTooFewSamples, "collected %d, need %d", len(blobs), minSamples)
	}
	if err := models.AddFaceSamples(name, blobs); err != nil {
		return len(blobs), errors.Wrap(err, "saving face samples")
	}
	log.Printf("Registered %s with %d face samples", name, len(blobs))
	return len(blobs), nil
}

func collectSamples(dev *device, opts RegisterOptions, name string, stop <-chan struct{}) ([][]byte, error) {
	frame := gocv.NewMat()
	defer frame.Close()
	gray := gocv.NewMat()
	defer gray.Close()

	var window *gocv.Window
	if opts.ShowWindow {
		window = gocv.NewWindow("Face Registration - " + name)
		defer window.Close()
	}

	blobs := [][]byte{}
	frameCount := 0
	for len(blobs) < opts.MaxSamples {
		select {
		case <-stop:
			return blobs, nil
		default:
		}
		if !dev.readFrame(&frame) {
			continue
		}
		frameCount++

		boxes := dev.detect(frame, &gray)
		// Sample sparsely so consecutive near-identical frames don't dominate
		// the training set. One face per sampled frame: the largest box is the
		// registrant, smaller detections are bystanders or noise.
		if len(boxes) > 0 && frameCount%opts.SampleEvery == 0 {
			blob, err := cropSample(frame, largestBox(boxes))
			if err != nil {
				log.Printf("Skipping sample: %v", err)
			} else {
				blobs = append(blobs, blob)
			}
		}

		if window != nil {
			for _, box := range boxes {
				gocv.Rectangle(&frame, box, color.RGBA{G: 255}, 2)
			}
			window.IMShow(frame)
			if key := window.WaitKey(1); key == 'q' || key == 'Q' {
				return blobs, nil
			}
		}
	}
	return blobs, nil
}

func largestBox(boxes []image.Rectangle) image.Rectangle {
	largest := boxes[0]
	for _, box := range boxes[1:] {
		if box.Dx()*box.Dy() > largest.Dx()*largest.Dy() {
			largest = box
		}
	}
	return largest
}

// cropSample cuts the detected color region and resizes it to the stored
// sample size, yielding the raw BGR blob the face store expects.
func cropSample(frame gocv.Mat, box image.Rectangle) ([]byte, error) {
	region := frame.Region(box)
	defer region.Close()

	face := gocv.NewMat()
	defer face.Close()
	gocv.Resize(region, &face, image.Pt(models.SampleSize, models.SampleSize), 0, 0, gocv.InterpolationLinear)

	blob := face.ToBytes()
	if len(blob) != models.SampleBytes {
		return nil, errors.Errorf("unexpected sample size %d", len(blob))
	}
	// ToBytes returns a view over the Mat's data, copy before the Mat closes.
	out := make([]byte, len(blob))
	copy(out, blob)
	return out, nil
}
