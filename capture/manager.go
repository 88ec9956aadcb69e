package capture

import (
	"fmt"
	"log"
	"sync"
	"time"

	"attendance/config"
	"attendance/events"
	"attendance/ledger"
	"attendance/models"
	"attendance/recognize"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// ErrBusy means the camera is already owned by a running session.
var ErrBusy = errors.New("a camera session is already running")

const (
	StateIdle         = "idle"
	StateAttendance   = "attendance"
	StateRegistration = "registration"
)

type Status struct {
	State     string `json:"state"`
	SessionID string `json:"session_id,omitempty"`
	Name      string `json:"name,omitempty"`
	StartedAt string `json:"started_at,omitempty"`
}

// Manager serializes access to the camera: at most one attendance or
// registration session exists at a time, and dashboards query it instead of
// scanning the process table.
type Manager struct {
	mu        sync.Mutex
	state     string
	sessionID string
	name      string
	startedAt time.Time
	session   *Session      // set while state == StateAttendance
	stop      chan struct{} // set while state == StateRegistration
}

var Default = &Manager{state: StateIdle}

// StartAttendance trains a fresh model from the face store and launches the
// capture loop in a goroutine. Fails when the store is empty, the camera is
// busy, or the device cannot be opened.
func (m *Manager) StartAttendance() (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.state != StateIdle {
		return "", ErrBusy
	}

	samples, err := models.AllFaceSamples()
	if err != nil {
		return "", errors.Wrap(err, "loading face samples")
	}
	model, err := recognize.Train(samples)
	if err != nil {
		return "", err
	}
	session, err := NewSession(OptionsFromConfig(), model, ledger.Default)
	if err != nil {
		return "", err
	}

	id := uuid.NewString()
	m.state = StateAttendance
	m.sessionID = id
	m.name = ""
	m.startedAt = time.Now()
	m.session = session

	go func() {
		err := session.Run()
		session.Close()
		if err != nil {
			log.Printf("Attendance session %s failed: %v", id, err)
		}
		m.finish(id)
		events.Broadcast(events.TypeSession, "", "attendance session ended")
	}()
	events.Broadcast(events.TypeSession, "", "attendance session started")
	return id, nil
}

// StartRegistration launches the sample-collection flow for name in a
// goroutine. Name validation happens up front so the caller gets an
// immediate rejection; camera errors surface asynchronously via events.
func (m *Manager) StartRegistration(name string) (string, error) {
	if name == "" {
		return "", ErrEmptyName
	}
	if models.FaceNameExists(name) {
		return "", ErrAlreadyRegistered
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.state != StateIdle {
		return "", ErrBusy
	}

	id := uuid.NewString()
	stop := make(chan struct{})
	m.state = StateRegistration
	m.sessionID = id
	m.name = name
	m.startedAt = time.Now()
	m.stop = stop

	opts := RegisterOptions{
		Options:     OptionsFromConfig(),
		MinSamples:  config.MIN_SAMPLES,
		MaxSamples:  config.MAX_SAMPLES,
		SampleEvery: config.SAMPLE_EVERY,
	}
	go func() {
		count, err := Register(opts, name, stop)
		m.finish(id)
		if err != nil {
			log.Printf("Registration of %s failed: %v", name, err)
			events.Broadcast(events.TypeRegistration, name, fmt.Sprintf("registration failed: %v", err))
			return
		}
		events.Broadcast(events.TypeRegistration, name, fmt.Sprintf("registered with %d samples", count))
	}()
	events.Broadcast(events.TypeRegistration, name, "registration started")
	return id, nil
}

// Stop cancels the running session, if any.
func (m *Manager) Stop() {
	m.mu.Lock()
	defer m.mu.Unlock()
	switch m.state {
	case StateAttendance:
		m.session.Stop()
	case StateRegistration:
		if m.stop != nil {
			close(m.stop)
			m.stop = nil
		}
	}
}

func (m *Manager) Status() Status {
	m.mu.Lock()
	defer m.mu.Unlock()
	status := Status{State: m.state}
	if m.state != StateIdle {
		status.SessionID = m.sessionID
		status.Name = m.name
		status.StartedAt = m.startedAt.Format(time.RFC3339)
	}
	return status
}

// Running reports whether any session currently owns the camera.
func (m *Manager) Running() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state != StateIdle
}

// finish resets the manager, but only if the finishing session is still the
// current one.
func (m *Manager) finish(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.sessionID != id {
		return
	}
	m.state = StateIdle
	m.sessionID = ""
	m.name = ""
	m.session = nil
	m.stop = nil
}
