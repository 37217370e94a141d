package overlay

import (
	"image"
	"testing"
)

func TestLayout_Next(t *testing.T) {
	t.Run("base positions per side", func(t *testing.T) {
		var l Layout

		if got := l.Next("Left"); got != (image.Point{X: 10, Y: 30}) {
			t.Errorf("first left origin = %v, want (10, 30)", got)
		}
		if got := l.Next("Right"); got != (image.Point{X: 10, Y: 60}) {
			t.Errorf("first right origin = %v, want (10, 60)", got)
		}
	})

	t.Run("hands on the same side stack downward", func(t *testing.T) {
		var l Layout

		first := l.Next("Left")
		second := l.Next("Left")
		third := l.Next("Left")

		if second.Y != first.Y+30 {
			t.Errorf("second left origin Y = %d, want %d", second.Y, first.Y+30)
		}
		if third.Y != first.Y+60 {
			t.Errorf("third left origin Y = %d, want %d", third.Y, first.Y+60)
		}
	})

	t.Run("sides stack independently", func(t *testing.T) {
		var l Layout

		l.Next("Left")
		got := l.Next("Right")

		if got.Y != 60 {
			t.Errorf("first right origin Y = %d, want 60 regardless of left hands", got.Y)
		}
	})
}

func TestToSliderPos(t *testing.T) {
	tests := []struct {
		name      string
		threshold float64
		want      int
	}{
		{"default", 0.1, 10},
		{"zero", 0.0, 0},
		{"full", 1.0, 100},
		{"clamped above", 1.5, 100},
		{"clamped below", -0.2, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := toSliderPos(tt.threshold); got != tt.want {
				t.Errorf("toSliderPos(%f) = %d, want %d", tt.threshold, got, tt.want)
			}
		})
	}
}
