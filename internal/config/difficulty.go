package config

import "fmt"

// DifficultyPreset represents a named difficulty level.
type DifficultyPreset string

const (
	DifficultyEasy   DifficultyPreset = "easy"
	DifficultyNormal DifficultyPreset = "normal"
	DifficultyHard   DifficultyPreset = "hard"
	DifficultyFixed  DifficultyPreset = "fixed"
)

// ParsePreset converts a flag value into a preset. Empty means normal.
func ParsePreset(s string) (DifficultyPreset, error) {
	switch DifficultyPreset(s) {
	case "":
		return DifficultyNormal, nil
	case DifficultyEasy, DifficultyNormal, DifficultyHard, DifficultyFixed:
		return DifficultyPreset(s), nil
	default:
		return "", fmt.Errorf("config: unknown difficulty %q (want easy, normal, hard or fixed)", s)
	}
}

// IsFixedPreset returns true if the preset disables progression.
func IsFixedPreset(preset DifficultyPreset) bool {
	return preset == DifficultyFixed
}

// OffsetFor returns the spawner starting time, in seconds, for the preset.
func (d DifficultyConfig) OffsetFor(preset DifficultyPreset) float64 {
	if t, ok := d.StartingTime[preset]; ok {
		return t
	}
	return DefaultConfig().Difficulty.StartingTime[preset]
}

// ApplyPreset selects the preset for subsequent runs.
func ApplyPreset(cfg *BulletConfig, preset DifficultyPreset) {
	cfg.Difficulty.Preset = preset
}
