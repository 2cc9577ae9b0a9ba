// Package bullet implements the hail-dodging arcade simulation.
// The player steers a point through projectiles spawned by a seeded,
// time-driven generator; survival time in frames is the score.
package bullet

import (
	"github.com/aizikovskyi/bullet/internal/config"
	"github.com/aizikovskyi/bullet/internal/core"
)

// Status is the run-level state. It only ever moves Running -> Finished.
type Status string

const (
	StatusRunning  Status = "running"
	StatusFinished Status = "finished"
)

// PlayerStatus describes how the simulation treats the player.
type PlayerStatus string

const (
	PlayerAlive        PlayerStatus = "alive"
	PlayerInvulnerable PlayerStatus = "invulnerable" // Steers but never collides
	PlayerDead         PlayerStatus = "dead"
	PlayerDisabled     PlayerStatus = "disabled" // Not drawn, not scored
)

// Steerable reports whether steering requests are honored in this status.
func (p PlayerStatus) Steerable() bool {
	return p == PlayerAlive || p == PlayerInvulnerable
}

// Field is the immutable size of the play area.
type Field struct {
	Width  float64
	Height float64
}

// Params holds the per-run tuning constants taken from configuration.
type Params struct {
	GracePeriod      int
	ParticleCount    int
	ParticleMaxSpeed float64
	ParticleRadius   float64
	PlayerStart      core.Vec
	PlayerMaxSpeed   float64
	PlayerRadius     float64
	StageLength      float64 // Seconds
}

// ParamsFromConfig extracts simulation parameters from a configuration.
func ParamsFromConfig(cfg config.BulletConfig) Params {
	return Params{
		GracePeriod:      cfg.Timing.GracePeriod,
		ParticleCount:    cfg.Explosion.Count,
		ParticleMaxSpeed: cfg.Explosion.MaxSpeed,
		ParticleRadius:   cfg.Explosion.Radius,
		PlayerStart:      core.V(cfg.Field.PlayerX, cfg.Field.PlayerY),
		PlayerMaxSpeed:   cfg.Player.MaxSpeed,
		PlayerRadius:     cfg.Player.Radius,
		StageLength:      cfg.Timing.StageLength,
	}
}

// State is the complete simulation state of one run.
// It is written only by Sim.Tick and read by the render passes between ticks.
type State struct {
	Frame           int
	FPS             int
	Status          Status
	PlayerStatus    PlayerStatus
	Field           Field
	Objects         []Object // Spawn order
	Player          Player
	LastFrame       int // -1 until the end of the run is scheduled
	LastLivingFrame int // -1 while the player lives
	Spawned         int // Objects created by spawners so far
	Params          Params
}

// NewState creates the state a run starts from.
func NewState(fps int, field Field, params Params) *State {
	return &State{
		Frame:           0,
		FPS:             fps,
		Status:          StatusRunning,
		PlayerStatus:    PlayerAlive,
		Field:           field,
		Objects:         make([]Object, 0, 64),
		Player:          NewPlayer(params.PlayerStart, params.PlayerMaxSpeed, params.PlayerRadius, 0),
		LastFrame:       -1,
		LastLivingFrame: -1,
		Params:          params,
	}
}

// NewStateFromConfig creates a fresh state using configured constants.
func NewStateFromConfig(cfg config.BulletConfig) *State {
	return NewState(
		cfg.Timing.FPS,
		Field{Width: cfg.Field.Width, Height: cfg.Field.Height},
		ParamsFromConfig(cfg),
	)
}

// Seconds converts a frame count into simulated seconds.
func (s *State) Seconds(frames int) float64 {
	return float64(frames) / float64(s.FPS)
}

// ScoringFrame returns the frame the score is measured at.
func (s *State) ScoringFrame() int {
	if s.PlayerStatus == PlayerDead {
		return s.LastLivingFrame
	}
	return s.Frame
}

// Finish ends the run. It is idempotent.
func (s *State) Finish() {
	s.Status = StatusFinished
}

// AddObject appends a spawned object, preserving spawn order.
func (s *State) AddObject(o Object) {
	s.Objects = append(s.Objects, o)
	s.Spawned++
}

