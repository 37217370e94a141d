package overlay

import (
	"gocv.io/x/gocv"

	"github.com/ayusman/mudra/internal/counter"
)

// Slider window layout. Trackbar positions 0-100 map to thresholds
// 0.00-1.00 in steps of 0.01.
const (
	slidersWindowTitle    = "Threshold Sliders"
	thumbIndexSliderName  = "Thumb-Index Threshold"
	indexMiddleSliderName = "Index-Middle Threshold"
	sliderMax             = 100
)

// Sliders is the threshold tuning window. The frame loop polls Read once
// per iteration; staleness of one frame has no correctness impact.
type Sliders struct {
	window      *gocv.Window
	thumbIndex  *gocv.Trackbar
	indexMiddle *gocv.Trackbar
}

// NewSliders opens the slider window with both trackbars positioned to
// match the given thresholds.
func NewSliders(initial counter.Thresholds) *Sliders {
	window := gocv.NewWindow(slidersWindowTitle)

	s := &Sliders{
		window:      window,
		thumbIndex:  window.CreateTrackbar(thumbIndexSliderName, sliderMax),
		indexMiddle: window.CreateTrackbar(indexMiddleSliderName, sliderMax),
	}

	s.thumbIndex.SetPos(toSliderPos(initial.ThumbIndex))
	s.indexMiddle.SetPos(toSliderPos(initial.IndexMiddle))

	return s
}

// Read returns the threshold pair currently selected on the sliders.
func (s *Sliders) Read() counter.Thresholds {
	return counter.Thresholds{
		ThumbIndex:  float64(s.thumbIndex.GetPos()) / sliderMax,
		IndexMiddle: float64(s.indexMiddle.GetPos()) / sliderMax,
	}
}

// Close destroys the slider window.
func (s *Sliders) Close() error {
	return s.window.Close()
}

func toSliderPos(threshold float64) int {
	pos := int(threshold * sliderMax)
	if pos < 0 {
		return 0
	}
	if pos > sliderMax {
		return sliderMax
	}
	return pos
}
