// Package config provides YAML-based game configuration loading and
// difficulty presets for bullet.
package config

import (
	"errors"
	"fmt"
	"time"
)

// BulletConfig contains all tunable constants of the simulation.
type BulletConfig struct {
	Field      FieldConfig      `yaml:"field"`
	Timing     TimingConfig     `yaml:"timing"`
	Player     PlayerConfig     `yaml:"player"`
	Explosion  ExplosionConfig  `yaml:"explosion"`
	Capture    CaptureConfig    `yaml:"capture"`
	Agent      AgentConfig      `yaml:"agent"`
	Difficulty DifficultyConfig `yaml:"difficulty"`
}

// FieldConfig defines the playfield geometry.
type FieldConfig struct {
	Width         float64 `yaml:"width"`
	Height        float64 `yaml:"height"`
	CaptureHeight float64 `yaml:"capture_height"` // Height of the region the agent observes
	PlayerX       float64 `yaml:"player_x"`
	PlayerY       float64 `yaml:"player_y"`
}

// TimingConfig defines the tick rate and run-length constants.
type TimingConfig struct {
	FPS         int     `yaml:"fps"`
	GracePeriod int     `yaml:"grace_period"` // Ticks from death to end of run
	StageLength float64 `yaml:"stage_length"` // Seconds, ramped stages only
}

// PlayerConfig defines player steering parameters.
type PlayerConfig struct {
	MaxSpeed float64 `yaml:"max_speed"`
	Radius   float64 `yaml:"radius"`
}

// ExplosionConfig defines the death burst.
type ExplosionConfig struct {
	Count    int     `yaml:"count"`
	MaxSpeed float64 `yaml:"max_speed"`
	Radius   float64 `yaml:"radius"`
}

// CaptureConfig defines the agent's frame-buffer ring.
type CaptureConfig struct {
	Buffers     int     `yaml:"buffers"`
	BlendWeight float64 `yaml:"blend_weight"`
	Scale       float64 `yaml:"scale"`
}

// AgentConfig defines the reference autonomous controller.
type AgentConfig struct {
	MaxSpeed          float64 `yaml:"max_speed"`
	DecisionTimeoutMS int     `yaml:"decision_timeout_ms"`
}

// DecisionTimeout returns the agent decision deadline, or 0 for none.
func (a AgentConfig) DecisionTimeout() time.Duration {
	if a.DecisionTimeoutMS <= 0 {
		return 0
	}
	return time.Duration(a.DecisionTimeoutMS) * time.Millisecond
}

// DifficultyConfig maps presets to the endless spawner's starting time.
type DifficultyConfig struct {
	Preset       DifficultyPreset             `yaml:"preset"`
	StartingTime map[DifficultyPreset]float64 `yaml:"starting_time"`
}

// Validate checks that the configuration can drive a simulation.
func (c BulletConfig) Validate() error {
	var errs []error

	if c.Timing.FPS <= 0 {
		errs = append(errs, fmt.Errorf("timing.fps must be positive, got %d", c.Timing.FPS))
	}
	if c.Timing.GracePeriod < 0 {
		errs = append(errs, fmt.Errorf("timing.grace_period must not be negative, got %d", c.Timing.GracePeriod))
	}
	if c.Field.Width <= 0 || c.Field.Height <= 0 {
		errs = append(errs, fmt.Errorf("field must have positive size, got %gx%g", c.Field.Width, c.Field.Height))
	}
	if c.Field.CaptureHeight <= 0 {
		errs = append(errs, fmt.Errorf("field.capture_height must be positive, got %g", c.Field.CaptureHeight))
	}
	if c.Player.MaxSpeed <= 0 {
		errs = append(errs, fmt.Errorf("player.max_speed must be positive, got %g", c.Player.MaxSpeed))
	}
	if c.Player.Radius < 0 || c.Explosion.Radius < 0 {
		errs = append(errs, errors.New("radii must not be negative"))
	}
	if c.Explosion.Count < 0 {
		errs = append(errs, fmt.Errorf("explosion.count must not be negative, got %d", c.Explosion.Count))
	}
	if c.Capture.Buffers < 2 {
		errs = append(errs, fmt.Errorf("capture.buffers must be at least 2, got %d", c.Capture.Buffers))
	}
	if c.Capture.BlendWeight < 0 || c.Capture.BlendWeight > 1 {
		errs = append(errs, fmt.Errorf("capture.blend_weight must be in [0, 1], got %g", c.Capture.BlendWeight))
	}
	if c.Capture.Scale <= 0 {
		errs = append(errs, fmt.Errorf("capture.scale must be positive, got %g", c.Capture.Scale))
	}

	if len(errs) > 0 {
		return fmt.Errorf("config: invalid configuration: %w", errors.Join(errs...))
	}
	return nil
}
