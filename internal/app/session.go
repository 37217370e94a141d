// Package app wires the camera, detector, classifier and overlay into the
// mudra finger-counting session.
package app

import (
	"log"
	"sync"
	"time"

	"github.com/google/uuid"
	"gocv.io/x/gocv"

	"github.com/ayusman/mudra/internal/capture"
	"github.com/ayusman/mudra/internal/counter"
	"github.com/ayusman/mudra/internal/detector"
	"github.com/ayusman/mudra/internal/overlay"
	"github.com/ayusman/mudra/internal/store"
)

// WindowTitle is the display window name.
const WindowTitle = "Hand Tracking"

// Headless pipeline timing constants.
const (
	// IdleFPS is the frame rate while no motion is detected.
	IdleFPS = 5
	// ActiveFPS is the frame rate during active detection.
	ActiveFPS = 15
	// IdleTimeout is how long without motion before dropping back to idle.
	IdleTimeout = 2 * time.Second
)

// Observation is one per-hand classification result for one frame.
type Observation struct {
	Side      string  `json:"side"`
	Fingers   int     `json:"fingers"`
	Score     float64 `json:"score"`
	Timestamp int64   `json:"timestamp"` // milliseconds since epoch
}

// Publisher receives live observations, e.g. for websocket fan-out.
type Publisher interface {
	Publish(Observation)
}

// Config holds configuration options for the session.
type Config struct {
	// Camera overrides the default gocv camera; used in tests.
	Camera capture.Camera
	// Detector overrides detector selection; used in tests.
	Detector detector.Detector

	Store     *store.Store
	Publisher Publisher

	CameraID     int
	FPS          int
	Mirror       bool
	Sliders      bool
	Thresholds   counter.Thresholds
	Policy       counter.Policy
	MotionThresh float64
}

// Session owns the frame-loop resources: capture device, detector handle,
// thresholds and policy. All mutable state lives here; nothing is ambient.
type Session struct {
	config   Config
	camera   capture.Camera
	motion   *capture.MotionDetector
	detector detector.Detector

	mu         sync.RWMutex
	thresholds counter.Thresholds
	policy     counter.Policy
	enabled    bool
	lastCount  map[string]int
	onObserve  func(Observation)

	stopCh chan struct{}
}

// NewSession creates a Session from the given configuration. Thresholds
// persisted in the store take precedence over the configured ones.
func NewSession(config Config) *Session {
	motionThreshold := config.MotionThresh
	if motionThreshold <= 0 {
		motionThreshold = 1.0 // Default threshold: 1% pixel change
	}

	thresholds := config.Thresholds
	if thresholds == (counter.Thresholds{}) || !thresholds.Valid() {
		thresholds = counter.DefaultThresholds()
	}

	s := &Session{
		config:     config,
		camera:     config.Camera,
		motion:     capture.NewMotionDetector(motionThreshold),
		detector:   config.Detector,
		thresholds: thresholds,
		policy:     config.Policy,
		enabled:    true,
		lastCount:  make(map[string]int),
	}

	if s.camera == nil {
		s.camera = capture.NewCamera(config.CameraID)
	}

	if s.detector == nil {
		// Try MediaPipe first, fall back to the mock detector
		if mp, err := detector.NewMediaPipeDetector(detector.DefaultConfig()); err == nil {
			s.detector = mp
			log.Println("Using MediaPipe hand detection")
		} else {
			log.Printf("MediaPipe not available (%v), using mock detector", err)
			s.detector = detector.NewMockDetector()
		}
	}

	s.loadSettings()

	return s
}

// loadSettings applies persisted thresholds and policy, when present.
func (s *Session) loadSettings() {
	if s.config.Store == nil {
		return
	}

	settings := s.config.Store.Settings()

	th := s.thresholds
	if v, err := settings.GetFloat(store.SettingThumbIndexThreshold); err == nil {
		th.ThumbIndex = v
	}
	if v, err := settings.GetFloat(store.SettingIndexMiddleThreshold); err == nil {
		th.IndexMiddle = v
	}
	if th.Valid() {
		s.thresholds = th
	}

	if v, err := settings.GetBool(store.SettingLittleAlwaysUp); err == nil {
		s.policy.LittleAlwaysUp = v
	}
}

// SaveSettings persists the current thresholds and policy.
func (s *Session) SaveSettings() error {
	if s.config.Store == nil {
		return nil
	}

	settings := s.config.Store.Settings()
	th := s.Thresholds()

	if err := settings.SetFloat(store.SettingThumbIndexThreshold, th.ThumbIndex); err != nil {
		return err
	}
	if err := settings.SetFloat(store.SettingIndexMiddleThreshold, th.IndexMiddle); err != nil {
		return err
	}
	return settings.SetBool(store.SettingLittleAlwaysUp, s.Policy().LittleAlwaysUp)
}

// Thresholds returns the active threshold pair.
func (s *Session) Thresholds() counter.Thresholds {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.thresholds
}

// SetThresholds replaces the active threshold pair. Invalid (negative)
// thresholds are ignored.
func (s *Session) SetThresholds(th counter.Thresholds) {
	if !th.Valid() {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.thresholds = th
}

// Policy returns the active counting policy.
func (s *Session) Policy() counter.Policy {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.policy
}

// SetPolicy replaces the active counting policy.
func (s *Session) SetPolicy(pol counter.Policy) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.policy = pol
}

// SetEnabled enables or disables finger counting.
func (s *Session) SetEnabled(enabled bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.enabled = enabled
}

// IsEnabled returns whether finger counting is currently enabled.
func (s *Session) IsEnabled() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.enabled
}

// OnObservation registers a callback invoked for every observation,
// e.g. to update the tray menu.
func (s *Session) OnObservation(fn func(Observation)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onObserve = fn
}

// Camera returns the capture device.
func (s *Session) Camera() capture.Camera {
	return s.camera
}

// Detector returns the hand detector.
func (s *Session) Detector() detector.Detector {
	return s.detector
}

// Run executes the interactive frame loop: read, mirror, detect, classify,
// overlay, display, poll for 'q'. It blocks until the user quits or the
// camera stops yielding frames; a failed read is unrecoverable for the
// session and ends the loop. All resources are released on every exit path.
func (s *Session) Run() error {
	if err := s.camera.Open(); err != nil {
		return err
	}
	defer s.release()

	window := gocv.NewWindow(WindowTitle)
	defer window.Close()

	var sliders *overlay.Sliders
	if s.config.Sliders {
		sliders = overlay.NewSliders(s.Thresholds())
		defer sliders.Close()
	}

	s.camera.SetFPS(s.config.FPS)

	for {
		frame, err := s.camera.ReadFrame()
		if err != nil {
			log.Printf("Camera read failed, stopping session: %v", err)
			break
		}

		if sliders != nil {
			s.SetThresholds(sliders.Read())
		}

		if s.config.Mirror {
			overlay.Mirror(frame)
		}

		if s.IsEnabled() {
			s.processFrame(frame, true)
		}

		window.IMShow(*frame)
		frame.Close()

		if window.WaitKey(1) == 'q' {
			break
		}
	}

	if err := s.SaveSettings(); err != nil {
		log.Printf("Failed to persist settings: %v", err)
	}

	return nil
}

// Start begins the headless detection pipeline.
func (s *Session) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.stopCh != nil {
		return nil
	}

	if err := s.camera.Open(); err != nil {
		return err
	}

	s.camera.SetFPS(IdleFPS)

	s.stopCh = make(chan struct{})
	go s.runPipeline(s.stopCh)

	log.Println("Detection pipeline started")
	return nil
}

// Stop halts the headless pipeline and releases resources.
func (s *Session) Stop() {
	s.mu.Lock()
	if s.stopCh != nil {
		close(s.stopCh)
		s.stopCh = nil
	}
	s.mu.Unlock()

	s.release()
	log.Println("Detection pipeline stopped")
}

// release closes the camera, motion detector and hand detector.
func (s *Session) release() {
	if err := s.camera.Close(); err != nil {
		log.Printf("Error closing camera: %v", err)
	}

	s.motion.Close()

	if s.detector != nil {
		if err := s.detector.Close(); err != nil {
			log.Printf("Error closing detector: %v", err)
		}
	}
}

// runPipeline is the headless detection loop. Motion gates the expensive
// hand detection: the camera idles at IdleFPS until the scene changes,
// ramps to ActiveFPS while hands move, and drops back after IdleTimeout.
func (s *Session) runPipeline(stopCh <-chan struct{}) {
	activeMode := false
	lastMotionTime := time.Now()

	frameInterval := time.Second / time.Duration(IdleFPS)
	ticker := time.NewTicker(frameInterval)
	defer ticker.Stop()

	for {
		select {
		case <-stopCh:
			return
		case <-ticker.C:
			if !s.IsEnabled() {
				continue
			}

			frame, err := s.camera.ReadFrame()
			if err != nil {
				log.Printf("Error reading frame: %v", err)
				continue
			}

			motionDetected, _ := s.motion.Detect(frame)

			if motionDetected {
				lastMotionTime = time.Now()

				if !activeMode {
					activeMode = true
					s.camera.SetFPS(ActiveFPS)
					ticker.Reset(time.Second / time.Duration(ActiveFPS))
					log.Println("Switched to active mode")
				}
			} else if activeMode && time.Since(lastMotionTime) > IdleTimeout {
				activeMode = false
				s.camera.SetFPS(IdleFPS)
				ticker.Reset(time.Second / time.Duration(IdleFPS))
				log.Println("Switched to idle mode")
			}

			if !activeMode {
				frame.Close()
				continue
			}

			if s.config.Mirror {
				overlay.Mirror(frame)
			}

			s.processFrame(frame, false)
			frame.Close()
		}
	}
}

// processFrame runs detection and classification over one frame, optionally
// drawing the overlay in place. Returns the per-hand observations.
func (s *Session) processFrame(frame *gocv.Mat, draw bool) []Observation {
	width := frame.Cols()
	height := frame.Rows()

	hands, err := s.detector.Detect(frame)
	if err != nil {
		detectionErrors.Inc()
		log.Printf("Error detecting hands: %v", err)
		return nil
	}

	framesProcessed.Inc()

	th := s.Thresholds()
	pol := s.Policy()

	var layout overlay.Layout
	var observations []Observation

	for i := range hands {
		hand := &hands[i]
		points := hand.PixelPoints(width, height)

		fingers, err := counter.Count(points, th, pol)
		if err != nil {
			log.Printf("Skipping hand with malformed landmarks: %v", err)
			continue
		}

		side := counter.Side(points[detector.Wrist].X, width)

		handsDetected.Inc()
		fingerCount.WithLabelValues(side).Set(float64(fingers))

		obs := Observation{
			Side:      side,
			Fingers:   fingers,
			Score:     hand.Score,
			Timestamp: time.Now().UnixMilli(),
		}
		observations = append(observations, obs)

		if draw {
			overlay.DrawSkeleton(frame, points)
			overlay.DrawCount(frame, side, fingers, layout.Next(side))
		}

		s.record(obs)

		if s.config.Publisher != nil {
			s.config.Publisher.Publish(obs)
		}

		s.mu.RLock()
		onObserve := s.onObserve
		s.mu.RUnlock()
		if onObserve != nil {
			onObserve(obs)
		}
	}

	return observations
}

// record persists an observation when the side's count changed since the
// previous frame it was seen in.
func (s *Session) record(obs Observation) {
	if s.config.Store == nil {
		return
	}

	s.mu.Lock()
	last, seen := s.lastCount[obs.Side]
	if seen && last == obs.Fingers {
		s.mu.Unlock()
		return
	}
	s.lastCount[obs.Side] = obs.Fingers
	s.mu.Unlock()

	event := &store.Event{
		ID:         uuid.NewString(),
		Side:       obs.Side,
		Fingers:    obs.Fingers,
		Score:      obs.Score,
		ObservedAt: time.UnixMilli(obs.Timestamp),
	}

	if err := s.config.Store.Events().Insert(event); err != nil {
		log.Printf("Failed to record count event: %v", err)
	}
}
