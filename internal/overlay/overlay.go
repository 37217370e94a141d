// Package overlay renders finger-count results onto video frames using GoCV.
package overlay

import (
	"fmt"
	"image"
	"image/color"

	"gocv.io/x/gocv"

	"github.com/ayusman/mudra/internal/detector"
)

// Text placement constants. Left-hand text starts at (10, 30), right-hand
// text at (10, 60); each additional hand on the same side moves down one
// line so labels never overlap.
const (
	textX      = 10
	leftBaseY  = 30
	rightBaseY = 60
	lineHeight = 30
)

var (
	textColor     = color.RGBA{R: 0, G: 255, B: 255, A: 0}
	boneColor     = color.RGBA{R: 0, G: 255, B: 0, A: 0}
	landmarkColor = color.RGBA{R: 255, G: 0, B: 0, A: 0}
)

// Layout assigns non-overlapping text origins to hands within one frame.
// The zero value is ready to use; create a fresh Layout per frame.
type Layout struct {
	left  int
	right int
}

// Next returns the text origin for the next hand on the given side.
func (l *Layout) Next(side string) image.Point {
	if side == "Left" {
		y := leftBaseY + l.left*lineHeight
		l.left++
		return image.Point{X: textX, Y: y}
	}
	y := rightBaseY + l.right*lineHeight
	l.right++
	return image.Point{X: textX, Y: y}
}

// DrawCount writes the per-hand finger count label at the given origin.
func DrawCount(frame *gocv.Mat, side string, fingers int, org image.Point) {
	text := fmt.Sprintf("%s Hand Fingers: %d", side, fingers)
	gocv.PutText(frame, text, org, gocv.FontHersheySimplex, 1.0, textColor, 2)
}

// DrawSkeleton renders the hand landmark skeleton: a line per anatomical
// connection and a dot per landmark. Points must be the full 21-point set;
// shorter slices are ignored.
func DrawSkeleton(frame *gocv.Mat, points []image.Point) {
	if len(points) != detector.NumLandmarks {
		return
	}

	for _, c := range detector.Connections {
		gocv.Line(frame, points[c[0]], points[c[1]], boneColor, 2)
	}

	for _, p := range points {
		gocv.Circle(frame, p, 3, landmarkColor, -1)
	}
}

// Mirror flips the frame horizontally in place for the selfie view.
func Mirror(frame *gocv.Mat) {
	gocv.Flip(*frame, frame, 1)
}
