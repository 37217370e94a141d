package app

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Pipeline metrics, exposed through the server's /metrics endpoint.
var (
	framesProcessed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "mudra_frames_processed_total",
		Help: "Number of frames run through the detection pipeline.",
	})

	handsDetected = promauto.NewCounter(prometheus.CounterOpts{
		Name: "mudra_hands_detected_total",
		Help: "Number of hands returned by the landmark detector.",
	})

	detectionErrors = promauto.NewCounter(prometheus.CounterOpts{
		Name: "mudra_detection_errors_total",
		Help: "Number of failed detector invocations.",
	})

	fingerCount = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "mudra_finger_count",
		Help: "Most recently observed finger count per hand side.",
	}, []string{"side"})
)
