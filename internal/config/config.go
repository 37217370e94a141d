// Package config loads process configuration for mudra.
//
// Precedence, low to high: built-in defaults, a YAML file named by the
// MUDRA_CONFIG environment variable, then MUDRA_-prefixed environment
// variables (MUDRA_CAMERA_ID, MUDRA_ADDR, ...).
package config

import (
	"errors"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/ayusman/mudra/internal/counter"
)

// Config contains process configuration.
type Config struct {
	// CameraID selects the capture device index.
	CameraID int `koanf:"camera_id"`

	// FPS is the interactive frame loop rate.
	FPS int `koanf:"fps"`

	// Mirror flips frames horizontally for the selfie view.
	Mirror bool `koanf:"mirror"`

	// ThumbIndexThreshold and IndexMiddleThreshold are the closed-fist
	// proximity thresholds.
	ThumbIndexThreshold  float64 `koanf:"thumb_index_threshold"`
	IndexMiddleThreshold float64 `koanf:"index_middle_threshold"`

	// Sliders opens the "Threshold Sliders" tuning window. When false the
	// configured thresholds are fixed for the session.
	Sliders bool `koanf:"sliders"`

	// LittleAlwaysUp preserves the original heuristic of unconditionally
	// counting the little finger as extended.
	LittleAlwaysUp bool `koanf:"little_always_up"`

	// Headless runs the motion-gated background pipeline with the system
	// tray instead of the display window.
	Headless bool `koanf:"headless"`

	// Addr is the HTTP listen address; empty disables the server.
	Addr string `koanf:"addr"`

	// DBPath locates the sqlite database. Empty means ~/.mudra/mudra.db.
	DBPath string `koanf:"db_path"`

	// MotionThreshold is the percent of changed pixels that wakes the
	// headless pipeline.
	MotionThreshold float64 `koanf:"motion_threshold"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		CameraID:             0,
		FPS:                  15,
		Mirror:               true,
		ThumbIndexThreshold:  0.1,
		IndexMiddleThreshold: 0.1,
		Sliders:              true,
		LittleAlwaysUp:       true,
		Headless:             false,
		Addr:                 ":8080",
		MotionThreshold:      1.0,
	}
}

// Load builds a Config by layering defaults, optional file, and env vars.
func Load() (*Config, error) {
	k := koanf.New(".")

	if path := os.Getenv("MUDRA_CONFIG"); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, err
		}
	}

	// MUDRA_CAMERA_ID -> camera_id; underscores preserved to match tags.
	envProvider := env.Provider("MUDRA_", ".", func(s string) string {
		s = strings.ToLower(s)
		return strings.TrimPrefix(s, "mudra_")
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, err
	}

	cfg := *Default()
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, err
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	if c.CameraID < 0 {
		return errors.New("camera_id must not be negative")
	}
	if c.FPS <= 0 {
		return errors.New("fps must be positive")
	}
	if !c.Thresholds().Valid() {
		return errors.New("thresholds must not be negative")
	}
	return nil
}

// Thresholds returns the configured closed-fist threshold pair.
func (c *Config) Thresholds() counter.Thresholds {
	return counter.Thresholds{
		ThumbIndex:  c.ThumbIndexThreshold,
		IndexMiddle: c.IndexMiddleThreshold,
	}
}

// Policy returns the configured counting policy.
func (c *Config) Policy() counter.Policy {
	return counter.Policy{LittleAlwaysUp: c.LittleAlwaysUp}
}
