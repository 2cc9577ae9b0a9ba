package config

import (
	_ "embed"
)

//go:embed defaults/bullet.yaml
var defaultBulletYAML []byte

// DefaultConfig returns the built-in configuration of the reference design.
func DefaultConfig() BulletConfig {
	return BulletConfig{
		Field: FieldConfig{
			Width:         100,
			Height:        180,
			CaptureHeight: 130,
			PlayerX:       50,
			PlayerY:       120,
		},
		Timing: TimingConfig{
			FPS:         30,
			GracePeriod: 30,
			StageLength: 45,
		},
		Player: PlayerConfig{
			MaxSpeed: 1.3,
			Radius:   1,
		},
		Explosion: ExplosionConfig{
			Count:    35,
			MaxSpeed: 0.5,
			Radius:   0.4,
		},
		Capture: CaptureConfig{
			Buffers:     5,
			BlendWeight: 0.4,
			Scale:       0.5,
		},
		Agent: AgentConfig{
			MaxSpeed:          1.0,
			DecisionTimeoutMS: 0,
		},
		Difficulty: DifficultyConfig{
			Preset: DifficultyNormal,
			StartingTime: map[DifficultyPreset]float64{
				DifficultyEasy:   0,
				DifficultyNormal: 60,
				DifficultyHard:   180,
				DifficultyFixed:  60,
			},
		},
	}
}

// DefaultYAML returns the embedded default YAML.
func DefaultYAML() []byte {
	return defaultBulletYAML
}
