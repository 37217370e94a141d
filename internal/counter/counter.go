// Package counter classifies how many fingers a detected hand holds up.
//
// The classifier is a pure function over the 21 MediaPipe hand landmarks in
// frame pixel space. It compares fingertip y-coordinates against each other,
// which makes it orientation-dependent: it works for an upright hand facing
// the camera and degrades when the hand is rotated. That limitation is
// inherited deliberately; see Policy for the one knob that changes behavior.
package counter

import (
	"errors"
	"fmt"
	"image"

	"github.com/ayusman/mudra/internal/detector"
)

// ErrInvalidLandmarks is returned when the input does not contain exactly
// 21 landmark points.
var ErrInvalidLandmarks = errors.New("landmark list must contain exactly 21 points")

// Thresholds holds the two closed-fist proximity thresholds.
// Both values must be non-negative. They are compared directly against
// pixel-space |Δy| distances between fingertips.
type Thresholds struct {
	// ThumbIndex is the maximum |y(thumb tip) - y(index tip)| distance for
	// the fist special case.
	ThumbIndex float64
	// IndexMiddle is the maximum |y(index tip) - y(middle tip)| distance for
	// the fist special case.
	IndexMiddle float64
}

// DefaultThresholds returns the stock threshold pair.
func DefaultThresholds() Thresholds {
	return Thresholds{ThumbIndex: 0.1, IndexMiddle: 0.1}
}

// Valid reports whether both thresholds are non-negative.
func (t Thresholds) Valid() bool {
	return t.ThumbIndex >= 0 && t.IndexMiddle >= 0
}

// Policy names the behavioral choices the classifier exposes.
//
// LittleAlwaysUp preserves the original heuristic of unconditionally counting
// the little finger as extended, regardless of landmark 20. When false, the
// little finger is counted only when its tip sits above its PIP joint.
type Policy struct {
	LittleAlwaysUp bool
}

// DefaultPolicy returns the behavior-preserving policy.
func DefaultPolicy() Policy {
	return Policy{LittleAlwaysUp: true}
}

// Count returns the number of extended fingers, in [0, 5], for a hand given
// as 21 pixel-space landmark points in MediaPipe order.
//
// Steps:
//  1. If both the thumb-index and index-middle tip distances fall below their
//     thresholds, the hand is treated as a closed fist and the count is 0.
//     This is a proximity heuristic, not a real closed-hand detector.
//  2. Otherwise each finger is counted independently by comparing adjacent
//     fingertip y values: a smaller y means higher in the image.
//
// Returns ErrInvalidLandmarks if points does not have exactly 21 entries.
func Count(points []image.Point, th Thresholds, pol Policy) (int, error) {
	if len(points) != detector.NumLandmarks {
		return 0, fmt.Errorf("%w: got %d", ErrInvalidLandmarks, len(points))
	}

	thumbTip := points[detector.ThumbTip]
	indexTip := points[detector.IndexTip]
	middleTip := points[detector.MiddleTip]
	ringTip := points[detector.RingTip]
	littleTip := points[detector.PinkyTip]

	thumbIndexDist := absInt(thumbTip.Y - indexTip.Y)
	indexMiddleDist := absInt(indexTip.Y - middleTip.Y)

	// Closed-fist special case: both tip pairs close together vertically.
	if float64(thumbIndexDist) < th.ThumbIndex && float64(indexMiddleDist) < th.IndexMiddle {
		return 0, nil
	}

	count := 0

	if thumbTip.Y < indexTip.Y {
		count++
	}
	if indexTip.Y < middleTip.Y {
		count++
	}
	if middleTip.Y < ringTip.Y {
		count++
	}
	if ringTip.Y < littleTip.Y {
		count++
	}

	if pol.LittleAlwaysUp {
		count++
	} else if littleTip.Y < points[detector.PinkyPIP].Y {
		count++
	}

	return count, nil
}

// Side labels a hand by the horizontal position of its wrist landmark.
// A wrist left of the frame midpoint is "Left"; the midpoint itself and
// everything right of it is "Right".
func Side(wristX, frameWidth int) string {
	if wristX < frameWidth/2 {
		return "Left"
	}
	return "Right"
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
