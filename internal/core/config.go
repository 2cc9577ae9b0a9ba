package core

// RuntimeConfig contains configuration passed to a session at initialization.
// The platform fills it from the terminal and CLI flags.
type RuntimeConfig struct {
	ScreenW  int    // Screen width in characters
	ScreenH  int    // Screen height in characters
	TickRate int    // Simulation ticks per second override (0 = use game config)
	Seed     uint64 // RNG seed for deterministic gameplay (0 = random)
}

// DefaultConfig returns a RuntimeConfig with sensible defaults.
func DefaultConfig() RuntimeConfig {
	return RuntimeConfig{
		ScreenW:  80,
		ScreenH:  24,
		TickRate: 0,
		Seed:     0, // Fresh seed per run
	}
}
