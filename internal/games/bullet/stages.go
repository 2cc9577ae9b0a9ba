package bullet

import (
	"github.com/aizikovskyi/bullet/internal/config"
	"github.com/aizikovskyi/bullet/internal/registry"
)

// Registered stage IDs.
const (
	StageEndless = "endless"
	StageOne     = "stage1"
)

// StageFactory builds the spawner of a fresh run.
type StageFactory func(cfg config.BulletConfig) Spawner

// Stages holds every playable stage.
var Stages = registry.New[StageFactory]("stage")

func init() {
	Stages.Register(StageEndless, "Endless", func(cfg config.BulletConfig) Spawner {
		preset := cfg.Difficulty.Preset
		return &Endless{
			StartingTime: cfg.Difficulty.OffsetFor(preset),
			Fixed:        config.IsFixedPreset(preset),
		}
	})
	Stages.Register(StageOne, "Stage 1", func(cfg config.BulletConfig) Spawner {
		return NewStage1(0, cfg.Timing.StageLength)
	})
}

// LookupStage returns the factory for a registered stage.
func LookupStage(id string) (StageFactory, error) {
	return Stages.Lookup(id)
}

// ListStages returns the registered stages sorted by ID.
func ListStages() []registry.Info {
	return Stages.List()
}
