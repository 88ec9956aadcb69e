// Package capture owns the camera. One session at a time runs either the
// attendance loop or the registration flow; the device and the trained model
// live on the session and are released when it ends.
package capture

import (
	"image"
	"image/color"
	"log"
	"sync"
	"time"

	"attendance/config"
	"attendance/events"
	"attendance/ledger"
	"attendance/models"
	"attendance/recognize"

	"github.com/pkg/errors"
	"gocv.io/x/gocv"
)

const facePadding = 10 // extra pixels kept around a detected box

type Options struct {
	DeviceID    int
	CascadeFile string
	FrameWidth  int
	FrameHeight int

	ScaleFactor  float64
	MinNeighbors int
	MinFaceSize  int
	MaxFaceSize  int

	Confidence float64
	Cooldown   time.Duration
	ShowWindow bool
}

func OptionsFromConfig() Options {
	return Options{
		DeviceID:     config.CAMERA_DEVICE,
		CascadeFile:  config.CASCADE_FILE,
		FrameWidth:   config.FRAME_WIDTH,
		FrameHeight:  config.FRAME_HEIGHT,
		ScaleFactor:  config.SCALE_FACTOR,
		MinNeighbors: config.MIN_NEIGHBORS,
		MinFaceSize:  config.MIN_FACE_SIZE,
		MaxFaceSize:  config.MAX_FACE_SIZE,
		Confidence:   config.CONFIDENCE_THRESHOLD,
		Cooldown:     time.Duration(config.COOLDOWN_SECONDS) * time.Second,
		ShowWindow:   config.SHOW_WINDOW,
	}
}

// device bundles the camera and the cascade classifier, the two resources
// every capture flow needs. Opening either can fail at startup and is fatal
// for the flow; a failed frame read later is only a skipped frame.
type device struct {
	camera     *gocv.VideoCapture
	classifier gocv.CascadeClassifier
	opts       Options
}

func openDevice(opts Options) (*device, error) {
	camera, err := gocv.OpenVideoCapture(opts.DeviceID)
	if err != nil {
		return nil, errors.Wrapf(err, "cannot open camera device %d", opts.DeviceID)
	}
	camera.Set(gocv.VideoCaptureFrameWidth, float64(opts.FrameWidth))
	camera.Set(gocv.VideoCaptureFrameHeight, float64(opts.FrameHeight))

	classifier := gocv.NewCascadeClassifier()
	if !classifier.Load(opts.CascadeFile) {
		camera.Close()
		classifier.Close()
		return nil, errors.Errorf("cannot load cascade file %s", opts.CascadeFile)
	}
	return &device{camera: camera, classifier: classifier, opts: opts}, nil
}

func (d *device) close() {
	d.camera.Close()
	d.classifier.Close()
}

// readFrame pulls the next frame. A failed read is reported as a skip, not
// an error - a stalled camera shows up as repeated warnings.
func (d *device) readFrame(frame *gocv.Mat) bool {
	if ok := d.camera.Read(frame); !ok || frame.Empty() {
		log.Println("Warning: could not read frame from camera")
		time.Sleep(50 * time.Millisecond)
		return false
	}
	return true
}

// detect runs the cascade over an equalized grayscale copy of the frame and
// returns the face bounding boxes.
func (d *device) detect(frame gocv.Mat, gray *gocv.Mat) []image.Rectangle {
	gocv.CvtColor(frame, gray, gocv.ColorBGRToGray)
	gocv.EqualizeHist(*gray, gray)
	return d.classifier.DetectMultiScaleWithParams(
		*gray,
		d.opts.ScaleFactor,
		d.opts.MinNeighbors,
		0,
		image.Pt(d.opts.MinFaceSize, d.opts.MinFaceSize),
		image.Pt(d.opts.MaxFaceSize, d.opts.MaxFaceSize),
	)
}

// Session is an attendance capture run: detect, recognize, dedupe, mark.
type Session struct {
	opts     Options
	dev      *device
	model    *recognize.Model
	ledger   *ledger.Ledger
	cooldown *cooldownTracker
	stop     chan struct{}
	stopOnce sync.Once
}

func NewSession(opts Options, model *recognize.Model, l *ledger.Ledger) (*Session, error) {
	dev, err := openDevice(opts)
	if err != nil {
		return nil, err
	}
	return &Session{
		opts:     opts,
		dev:      dev,
		model:    model,
		ledger:   l,
		cooldown: newCooldownTracker(opts.Cooldown),
		stop:     make(chan struct{}),
	}, nil
}

// Stop asks the loop to exit after the current frame.
func (s *Session) Stop() {
	s.stopOnce.Do(func() { close(s.stop) })
}

// Close releases the camera and classifier. Call after Run has returned.
func (s *Session) Close() {
	s.dev.close()
}

// Run blocks until Stop is called or, with a preview window, 'q' is pressed.
func (s *Session) Run() error {
	frame := gocv.NewMat()
	defer frame.Close()
	gray := gocv.NewMat()
	defer gray.Close()

	var window *gocv.Window
	if s.opts.ShowWindow {
		window = gocv.NewWindow("Face Attendance")
		defer window.Close()
	}

	log.Printf("Attendance session started: %d people known, threshold %.0f, cooldown %s",
		s.model.People(), s.opts.Confidence, s.opts.Cooldown)

	for {
		select {
		case <-s.stop:
			return nil
		default:
		}
		if !s.dev.readFrame(&frame) {
			continue
		}
		boxes := s.dev.detect(frame, &gray)
		for _, box := range boxes {
			s.handleFace(&frame, gray, box, window != nil)
		}
		if window != nil {
			window.IMShow(frame)
			if key := window.WaitKey(1); key == 'q' || key == 'Q' {
				return nil
			}
		}
	}
}

// handleFace classifies one detected box and marks attendance when the match
// is close enough and outside the per-name cooldown window.
func (s *Session) handleFace(frame *gocv.Mat, gray gocv.Mat, box image.Rectangle, draw bool) {
	padded := padBox(box, facePadding, gray.Cols(), gray.Rows())
	region := gray.Region(padded)
	defer region.Close()

	face := gocv.NewMat()
	defer face.Close()
	gocv.Resize(region, &face, image.Pt(models.SampleSize, models.SampleSize), 0, 0, gocv.InterpolationLinear)

	name, confidence, known := s.model.Predict(face)
	accepted := known && float64(confidence) < s.opts.Confidence

	if draw {
		boxColor := color.RGBA{R: 255} // red for unknown
		label := "Unknown"
		if accepted {
			boxColor = color.RGBA{G: 255}
			label = name
		}
		gocv.Rectangle(frame, box, boxColor, 2)
		gocv.PutText(frame, label, image.Pt(box.Min.X, box.Min.Y-10),
			gocv.FontHersheySimplex, 0.6, boxColor, 2)
	}

	if !accepted || !s.cooldown.Allow(name) {
		return
	}
	outcome, err := s.ledger.Mark(name, time.Now())
	if err != nil {
		log.Printf("Could not mark attendance for %s: %v", name, err)
		return
	}
	log.Printf("%s: %s (confidence %.1f)", name, outcome, confidence)
	events.Broadcast(events.TypeMark, name, outcome.String())
}

// padBox grows the box on every side, clamped to the frame.
func padBox(box image.Rectangle, padding, width, height int) image.Rectangle {
	return image.Rect(
		max(0, box.Min.X-padding),
		max(0, box.Min.Y-padding),
		min(width, box.Max.X+padding),
		min(height, box.Max.Y+padding),
	)
}
