package app

import (
	"path/filepath"
	"sync"
	"testing"
	"time"

	"gocv.io/x/gocv"

	"github.com/ayusman/mudra/internal/capture"
	"github.com/ayusman/mudra/internal/counter"
	"github.com/ayusman/mudra/internal/detector"
	"github.com/ayusman/mudra/internal/store"
)

type capturePublisher struct {
	mu  sync.Mutex
	obs []Observation
}

func (p *capturePublisher) Publish(o Observation) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.obs = append(p.obs, o)
}

func (p *capturePublisher) observations() []Observation {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]Observation(nil), p.obs...)
}

func newTestStore(t *testing.T) *store.Store {
	t.Helper()

	s, err := store.New(filepath.Join(t.TempDir(), "mudra.db"))
	if err != nil {
		t.Fatalf("store.New() error = %v", err)
	}
	t.Cleanup(func() { s.Close() })

	return s
}

// fourFingerHand tweaks the five-finger pose so the little tip sits above
// the ring tip, dropping the ring comparison.
func fourFingerHand() detector.Hand {
	hand := detector.FiveFingerLandmarks()
	hand.Points[detector.PinkyTip] = detector.Point3D{X: 0.61, Y: 0.55, Z: 0.0}
	return hand
}

func TestSession_ProcessFrame(t *testing.T) {
	mock := detector.NewMockDetector()
	mock.SetHands([]detector.Hand{detector.FiveFingerLandmarks()})

	pub := &capturePublisher{}
	s := NewSession(Config{
		Camera:    capture.NewMockCamera(nil, false),
		Detector:  mock,
		Publisher: pub,
	})

	frame := gocv.NewMatWithSize(480, 640, gocv.MatTypeCV8UC3)
	defer frame.Close()

	obs := s.processFrame(&frame, false)

	if len(obs) != 1 {
		t.Fatalf("processFrame() returned %d observations, want 1", len(obs))
	}
	if obs[0].Fingers != 5 {
		t.Errorf("Fingers = %d, want 5", obs[0].Fingers)
	}
	if obs[0].Side != "Right" {
		t.Errorf("Side = %q, want Right (wrist on right half)", obs[0].Side)
	}

	published := pub.observations()
	if len(published) != 1 || published[0] != obs[0] {
		t.Errorf("publisher received %+v, want %+v", published, obs)
	}
}

func TestSession_ProcessFrame_DrawsWithoutPanic(t *testing.T) {
	mock := detector.NewMockDetector()
	mock.SetHands([]detector.Hand{
		detector.FiveFingerLandmarks(),
		detector.ClosedFistLandmarks(),
	})

	s := NewSession(Config{
		Camera:   capture.NewMockCamera(nil, false),
		Detector: mock,
	})

	frame := gocv.NewMatWithSize(480, 640, gocv.MatTypeCV8UC3)
	defer frame.Close()

	obs := s.processFrame(&frame, true)

	if len(obs) != 2 {
		t.Fatalf("processFrame() returned %d observations, want 2", len(obs))
	}
	if obs[1].Fingers != 0 {
		t.Errorf("fist Fingers = %d, want 0", obs[1].Fingers)
	}
	if obs[1].Side != "Left" {
		t.Errorf("fist Side = %q, want Left", obs[1].Side)
	}
}

func TestSession_RecordsOnlyOnCountChange(t *testing.T) {
	st := newTestStore(t)
	mock := detector.NewMockDetector()
	mock.SetHands([]detector.Hand{detector.FiveFingerLandmarks()})

	s := NewSession(Config{
		Camera:   capture.NewMockCamera(nil, false),
		Detector: mock,
		Store:    st,
	})

	frame := gocv.NewMatWithSize(480, 640, gocv.MatTypeCV8UC3)
	defer frame.Close()

	// Same pose twice: one event
	s.processFrame(&frame, false)
	s.processFrame(&frame, false)

	events, err := st.Events().Recent(10)
	if err != nil {
		t.Fatalf("Recent() error = %v", err)
	}
	if len(events) != 1 {
		t.Fatalf("got %d events after identical frames, want 1", len(events))
	}
	if events[0].Fingers != 5 || events[0].Side != "Right" {
		t.Errorf("event = %+v, want 5 fingers on Right", events[0])
	}

	// Count change on the same side: second event
	mock.SetHands([]detector.Hand{fourFingerHand()})
	s.processFrame(&frame, false)

	events, err = st.Events().Recent(10)
	if err != nil {
		t.Fatalf("Recent() error = %v", err)
	}
	if len(events) != 2 {
		t.Fatalf("got %d events after count change, want 2", len(events))
	}
	if events[0].Fingers != 4 {
		t.Errorf("latest event Fingers = %d, want 4", events[0].Fingers)
	}
}

func TestSession_DetectorError(t *testing.T) {
	st := newTestStore(t)
	mock := detector.NewMockDetector()
	mock.SetError(capture.ErrReadFailed)

	s := NewSession(Config{
		Camera:   capture.NewMockCamera(nil, false),
		Detector: mock,
		Store:    st,
	})

	frame := gocv.NewMatWithSize(480, 640, gocv.MatTypeCV8UC3)
	defer frame.Close()

	if obs := s.processFrame(&frame, false); obs != nil {
		t.Errorf("processFrame() with failing detector = %+v, want nil", obs)
	}

	events, _ := st.Events().Recent(10)
	if len(events) != 0 {
		t.Errorf("no events should be recorded on detector failure, got %d", len(events))
	}
}

func TestSession_Thresholds(t *testing.T) {
	s := NewSession(Config{
		Camera:   capture.NewMockCamera(nil, false),
		Detector: detector.NewMockDetector(),
	})

	if got := s.Thresholds(); got != counter.DefaultThresholds() {
		t.Errorf("initial Thresholds() = %+v, want defaults", got)
	}

	s.SetThresholds(counter.Thresholds{ThumbIndex: 0.2, IndexMiddle: 0.3})
	if got := s.Thresholds(); got.ThumbIndex != 0.2 || got.IndexMiddle != 0.3 {
		t.Errorf("Thresholds() = %+v after set", got)
	}

	// Invalid thresholds are ignored
	s.SetThresholds(counter.Thresholds{ThumbIndex: -1, IndexMiddle: 0.3})
	if got := s.Thresholds(); got.ThumbIndex != 0.2 {
		t.Errorf("negative thresholds should be rejected, got %+v", got)
	}
}

func TestSession_SettingsRoundTrip(t *testing.T) {
	st := newTestStore(t)

	first := NewSession(Config{
		Camera:   capture.NewMockCamera(nil, false),
		Detector: detector.NewMockDetector(),
		Store:    st,
	})
	first.SetThresholds(counter.Thresholds{ThumbIndex: 0.42, IndexMiddle: 0.17})
	first.SetPolicy(counter.Policy{LittleAlwaysUp: false})

	if err := first.SaveSettings(); err != nil {
		t.Fatalf("SaveSettings() error = %v", err)
	}

	// A new session against the same store picks the persisted values up.
	second := NewSession(Config{
		Camera:   capture.NewMockCamera(nil, false),
		Detector: detector.NewMockDetector(),
		Store:    st,
	})

	if got := second.Thresholds(); got.ThumbIndex != 0.42 || got.IndexMiddle != 0.17 {
		t.Errorf("persisted Thresholds() = %+v, want {0.42 0.17}", got)
	}
	if second.Policy().LittleAlwaysUp {
		t.Error("persisted Policy().LittleAlwaysUp should be false")
	}
}

func TestSession_EnableToggle(t *testing.T) {
	s := NewSession(Config{
		Camera:   capture.NewMockCamera(nil, false),
		Detector: detector.NewMockDetector(),
	})

	if !s.IsEnabled() {
		t.Error("session should start enabled")
	}

	s.SetEnabled(false)
	if s.IsEnabled() {
		t.Error("SetEnabled(false) did not take effect")
	}
}

func TestSession_StartStop(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping pipeline test in short mode")
	}

	frame := gocv.NewMatWithSize(480, 640, gocv.MatTypeCV8UC3)
	defer frame.Close()

	mock := detector.NewMockDetector()
	mock.SetHands([]detector.Hand{detector.FiveFingerLandmarks()})

	s := NewSession(Config{
		Camera:   capture.NewMockCamera([]*gocv.Mat{&frame}, true),
		Detector: mock,
	})

	if err := s.Start(); err != nil {
		t.Fatalf("Start() error = %v", err)
	}

	// Start is idempotent
	if err := s.Start(); err != nil {
		t.Fatalf("second Start() error = %v", err)
	}

	time.Sleep(300 * time.Millisecond)
	s.Stop()

	if s.Camera().IsOpen() {
		t.Error("camera should be closed after Stop()")
	}
}
