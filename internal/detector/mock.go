package detector

import (
	"gocv.io/x/gocv"
)

// MockDetector is a test implementation of the Detector interface.
// It allows tests to control the detection results.
type MockDetector struct {
	hands []Hand
	err   error
}

// NewMockDetector creates a new MockDetector instance.
func NewMockDetector() *MockDetector {
	return &MockDetector{}
}

// SetHands sets the hands that will be returned by Detect.
func (m *MockDetector) SetHands(hands []Hand) {
	m.hands = hands
}

// SetError sets the error that will be returned by Detect.
func (m *MockDetector) SetError(err error) {
	m.err = err
}

// Detect returns the pre-configured hands or error.
func (m *MockDetector) Detect(frame *gocv.Mat) ([]Hand, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.hands, nil
}

// Close is a no-op for the mock detector.
func (m *MockDetector) Close() error {
	return nil
}

// FiveFingerLandmarks returns a preset Hand whose fingertips descend in
// strict y order from thumb to little finger. The vertical-ordering
// heuristic counts every finger as extended for this pose.
func FiveFingerLandmarks() Hand {
	hand := Hand{
		Handedness: "Right",
		Score:      0.97,
	}

	hand.Points[Wrist] = Point3D{X: 0.70, Y: 0.85, Z: 0.0}

	// Thumb: tip highest in the image
	hand.Points[ThumbCMC] = Point3D{X: 0.75, Y: 0.78, Z: 0.0}
	hand.Points[ThumbMCP] = Point3D{X: 0.78, Y: 0.65, Z: 0.0}
	hand.Points[ThumbIP] = Point3D{X: 0.79, Y: 0.45, Z: 0.0}
	hand.Points[ThumbTip] = Point3D{X: 0.80, Y: 0.30, Z: 0.0}

	// Index
	hand.Points[IndexMCP] = Point3D{X: 0.73, Y: 0.68, Z: 0.0}
	hand.Points[IndexPIP] = Point3D{X: 0.74, Y: 0.58, Z: 0.0}
	hand.Points[IndexDIP] = Point3D{X: 0.74, Y: 0.48, Z: 0.0}
	hand.Points[IndexTip] = Point3D{X: 0.75, Y: 0.40, Z: 0.0}

	// Middle
	hand.Points[MiddleMCP] = Point3D{X: 0.70, Y: 0.70, Z: 0.0}
	hand.Points[MiddlePIP] = Point3D{X: 0.70, Y: 0.62, Z: 0.0}
	hand.Points[MiddleDIP] = Point3D{X: 0.70, Y: 0.55, Z: 0.0}
	hand.Points[MiddleTip] = Point3D{X: 0.70, Y: 0.50, Z: 0.0}

	// Ring
	hand.Points[RingMCP] = Point3D{X: 0.67, Y: 0.72, Z: 0.0}
	hand.Points[RingPIP] = Point3D{X: 0.66, Y: 0.66, Z: 0.0}
	hand.Points[RingDIP] = Point3D{X: 0.66, Y: 0.62, Z: 0.0}
	hand.Points[RingTip] = Point3D{X: 0.65, Y: 0.60, Z: 0.0}

	// Little finger: tip lowest in the image
	hand.Points[PinkyMCP] = Point3D{X: 0.64, Y: 0.75, Z: 0.0}
	hand.Points[PinkyPIP] = Point3D{X: 0.63, Y: 0.72, Z: 0.0}
	hand.Points[PinkyDIP] = Point3D{X: 0.62, Y: 0.71, Z: 0.0}
	hand.Points[PinkyTip] = Point3D{X: 0.61, Y: 0.70, Z: 0.0}

	return hand
}

// ClosedFistLandmarks returns a preset Hand with all fingertips at the same
// height, which trips the thumb-index/index-middle proximity special case
// for any positive threshold pair.
func ClosedFistLandmarks() Hand {
	hand := Hand{
		Handedness: "Left",
		Score:      0.93,
	}

	hand.Points[Wrist] = Point3D{X: 0.25, Y: 0.80, Z: 0.0}

	// Knuckle row
	hand.Points[ThumbCMC] = Point3D{X: 0.30, Y: 0.74, Z: 0.0}
	hand.Points[ThumbMCP] = Point3D{X: 0.33, Y: 0.68, Z: 0.0}
	hand.Points[IndexMCP] = Point3D{X: 0.28, Y: 0.64, Z: 0.0}
	hand.Points[MiddleMCP] = Point3D{X: 0.25, Y: 0.63, Z: 0.0}
	hand.Points[RingMCP] = Point3D{X: 0.22, Y: 0.64, Z: 0.0}
	hand.Points[PinkyMCP] = Point3D{X: 0.19, Y: 0.66, Z: 0.0}

	// Curled joints tucked toward the palm
	hand.Points[ThumbIP] = Point3D{X: 0.31, Y: 0.60, Z: -0.02}
	hand.Points[IndexPIP] = Point3D{X: 0.28, Y: 0.58, Z: -0.04}
	hand.Points[IndexDIP] = Point3D{X: 0.27, Y: 0.57, Z: -0.05}
	hand.Points[MiddlePIP] = Point3D{X: 0.25, Y: 0.57, Z: -0.04}
	hand.Points[MiddleDIP] = Point3D{X: 0.25, Y: 0.56, Z: -0.05}
	hand.Points[RingPIP] = Point3D{X: 0.22, Y: 0.58, Z: -0.04}
	hand.Points[RingDIP] = Point3D{X: 0.22, Y: 0.57, Z: -0.05}
	hand.Points[PinkyPIP] = Point3D{X: 0.20, Y: 0.59, Z: -0.04}
	hand.Points[PinkyDIP] = Point3D{X: 0.20, Y: 0.58, Z: -0.05}

	// All five tips on the same row
	hand.Points[ThumbTip] = Point3D{X: 0.30, Y: 0.55, Z: -0.02}
	hand.Points[IndexTip] = Point3D{X: 0.27, Y: 0.55, Z: -0.06}
	hand.Points[MiddleTip] = Point3D{X: 0.25, Y: 0.55, Z: -0.06}
	hand.Points[RingTip] = Point3D{X: 0.23, Y: 0.55, Z: -0.06}
	hand.Points[PinkyTip] = Point3D{X: 0.21, Y: 0.55, Z: -0.06}

	return hand
}
