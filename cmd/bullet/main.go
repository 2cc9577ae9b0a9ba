// bullet is a fixed-step hail-dodging arcade game for the terminal.
//
// Usage:
//
//	bullet play [stage]      - Play a stage, or pick one from the menu
//	bullet list              - List available stages
//	bullet scores [stage]    - Show best times and recent runs
//	bullet sim               - Run a stage headless (agent, replay, CSV, metrics)
//	bullet bench             - Run many seeds headless and summarize survival
//	bullet serve             - Start SSH server for remote play
//
// Global flags:
//
//	--fps <rate>          - Override the simulation tick rate
//	--seed <value>        - Set RNG seed for reproducible runs
//	--db <path>           - Set database path (default: ~/.bullet/scores.db)
//	--config <path>       - Load a custom bullet.yaml
//	--difficulty <preset> - easy, normal, hard or fixed
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/aizikovskyi/bullet/internal/config"
)

var (
	// Global flags
	flagFPS        int
	flagSeed       uint64
	flagDBPath     string
	flagConfig     string
	flagDifficulty string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "bullet",
	Short: "bullet - dodge the hail for as long as you can",
	Long: `bullet is a terminal arcade game: steer a point with the mouse through
projectiles falling at an ever increasing rate. Survival time is the score.

Available commands:
  play     - Play a stage (menu when no stage is given)
  list     - Show all stages
  scores   - View best times and recent runs
  sim      - Run a stage headless
  bench    - Survival statistics over many seeds
  serve    - Start SSH server for remote play

Examples:
  bullet play
  bullet play stage1 --difficulty hard
  bullet sim --controller agent --seed 42 --verify
  bullet bench --runs 200
  bullet serve --ssh :2222`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().IntVar(&flagFPS, "fps", 0, "Tick rate override (0 = use config)")
	rootCmd.PersistentFlags().Uint64Var(&flagSeed, "seed", 0, "RNG seed (0 = random based on time)")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "~/.bullet/scores.db", "Path to scores database")
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to custom bullet.yaml")
	rootCmd.PersistentFlags().StringVar(&flagDifficulty, "difficulty", "", "Difficulty preset: easy, normal, hard, fixed")

	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(scoresCmd)
	rootCmd.AddCommand(simCmd)
	rootCmd.AddCommand(benchCmd)
	rootCmd.AddCommand(serveCmd)
}

// loadConfig resolves the configuration from --config, --difficulty and --fps.
func loadConfig() (config.BulletConfig, error) {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return config.BulletConfig{}, err
	}
	if flagDifficulty != "" {
		preset, err := config.ParsePreset(flagDifficulty)
		if err != nil {
			return config.BulletConfig{}, err
		}
		config.ApplyPreset(&cfg, preset)
	}
	if flagFPS > 0 {
		cfg.Timing.FPS = flagFPS
	}
	return cfg, nil
}
