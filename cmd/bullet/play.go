package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/aizikovskyi/bullet/internal/core"
	"github.com/aizikovskyi/bullet/internal/games/bullet"
	"github.com/aizikovskyi/bullet/internal/platform/tui"
	"github.com/aizikovskyi/bullet/internal/storage"
)

var flagPlayController string

var playCmd = &cobra.Command{
	Use:   "play [stage]",
	Short: "Play a stage",
	Long: `Start playing the given stage, or open the stage menu when none is given.

Controls:
  Mouse      - Hold the button and drag to steer; release to stop
  P          - Pause
  A          - Toggle the autonomous agent
  R          - Restart (after the run ends)
  Esc        - Back to the menu
  Q/Ctrl+C   - Quit

Difficulty options (endless stage):
  easy   - The spawner clock starts at 0 seconds
  normal - Starts at 60 seconds
  hard   - Starts at 180 seconds
  fixed  - The spawn rate never changes

Examples:
  bullet play
  bullet play endless --difficulty hard
  bullet play stage1 --controller agent
  bullet play endless --config ./my-bullet.yaml`,
	Args: cobra.MaximumNArgs(1),
	RunE: runPlay,
}

func init() {
	playCmd.Flags().StringVar(&flagPlayController, "controller", "human", "Who steers: human or agent")
}

func runPlay(cmd *cobra.Command, args []string) error {
	stage := ""
	if len(args) == 1 {
		stage = args[0]
		if !bullet.Stages.Exists(stage) {
			return fmt.Errorf("unknown stage %q (run 'bullet list' to see available stages)", stage)
		}
	}

	ctrl, ok := bullet.ParseControllerKind(flagPlayController)
	if !ok || ctrl == bullet.ControllerReplay {
		return fmt.Errorf("unknown controller %q (want human or agent)", flagPlayController)
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	width, height := 80, 24 // Defaults
	if w, h, termErr := term.GetSize(int(os.Stdout.Fd())); termErr == nil {
		width = w
		height = h
	}

	store, err := storage.Open(flagDBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not open scores database: %v\n", err)
		// Continue without storage - the game still works
		store = nil
	}
	if store != nil {
		defer store.Close()
	}

	return tui.Run(tui.AppOptions{
		Config:     cfg,
		Store:      store,
		Stage:      stage,
		Controller: ctrl,
		Seed:       flagSeed,
		Runtime: core.RuntimeConfig{
			ScreenW:  width,
			ScreenH:  height,
			TickRate: flagFPS,
			Seed:     flagSeed,
		},
	})
}
