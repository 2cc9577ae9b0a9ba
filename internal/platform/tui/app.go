package tui

import (
	"io"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/aizikovskyi/bullet/internal/config"
	"github.com/aizikovskyi/bullet/internal/core"
	"github.com/aizikovskyi/bullet/internal/games/bullet"
	"github.com/aizikovskyi/bullet/internal/storage"
)

type appScreen int

const (
	screenMenu appScreen = iota
	screenScoreboard
	screenGame
)

// AppOptions configures the terminal application.
type AppOptions struct {
	Config     config.BulletConfig
	Store      *storage.Store // Optional
	Stage      string         // Non-empty skips the menu and starts this stage
	Controller bullet.ControllerKind
	Seed       uint64
	Runtime    core.RuntimeConfig
	Logger     *log.Logger
}

// AppModel manages the full flow: menu -> game -> menu, plus the scoreboard.
// It is the top-level model both locally and over SSH.
type AppModel struct {
	opts     AppOptions
	screen   appScreen
	menu     MenuModel
	board    ScoreboardModel
	game     Model
	width    int
	height   int
	quitting bool
	err      error
}

// NewAppModel creates the application model.
func NewAppModel(opts AppOptions) (AppModel, error) {
	if opts.Logger == nil {
		opts.Logger = log.New(io.Discard)
	}
	if opts.Seed == 0 {
		opts.Seed = opts.Runtime.Seed
	}
	if opts.Runtime.ScreenW <= 0 || opts.Runtime.ScreenH <= 0 {
		def := core.DefaultConfig()
		opts.Runtime.ScreenW, opts.Runtime.ScreenH = def.ScreenW, def.ScreenH
	}

	m := AppModel{
		opts:   opts,
		width:  opts.Runtime.ScreenW,
		height: opts.Runtime.ScreenH,
	}
	m.menu = NewMenuModel(opts.Store, opts.Config, m.width, m.height, opts.Logger)

	if opts.Stage != "" {
		game, err := m.newGame(opts.Stage, opts.Config, opts.Controller, opts.Seed)
		if err != nil {
			return AppModel{}, err
		}
		m.game = game
		m.screen = screenGame
	}
	return m, nil
}

func (m AppModel) newGame(stage string, cfg config.BulletConfig, ctrl bullet.ControllerKind, seed uint64) (Model, error) {
	rt := m.opts.Runtime
	rt.ScreenW, rt.ScreenH = m.width, m.height
	return NewGameModel(GameOptions{
		Config:     cfg,
		Stage:      stage,
		Controller: ctrl,
		Seed:       seed,
		Store:      m.opts.Store,
		Runtime:    rt,
		Logger:     m.opts.Logger,
	})
}

// Init starts the game loops when the app opens straight into a stage.
func (m AppModel) Init() tea.Cmd {
	if m.screen == screenGame {
		return m.game.Init()
	}
	return m.menu.Init()
}

// Update routes messages to the active screen and handles transitions.
func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if wsm, ok := msg.(tea.WindowSizeMsg); ok {
		m.width = wsm.Width
		m.height = wsm.Height
	}

	switch m.screen {
	case screenGame:
		return m.updateGame(msg)
	case screenScoreboard:
		return m.updateScoreboard(msg)
	default:
		return m.updateMenu(msg)
	}
}

func (m AppModel) updateMenu(msg tea.Msg) (tea.Model, tea.Cmd) {
	next, cmd := m.menu.Update(msg)
	if menu, ok := next.(MenuModel); ok {
		m.menu = menu
	}

	switch {
	case m.menu.IsQuitting():
		m.quitting = true
		return m, tea.Quit

	case m.menu.WantsScoreboard():
		m.board = NewScoreboardModel(m.opts.Store, m.opts.Config.Timing.FPS, m.width, m.height)
		m.screen = screenScoreboard
		return m, m.board.Init()

	case m.menu.Selected() != nil:
		sel := m.menu.Selected()
		cfg := m.opts.Config
		config.ApplyPreset(&cfg, sel.Difficulty)
		game, err := m.newGame(sel.StageID, cfg, sel.Controller, 0)
		if err != nil {
			m.err = err
			m.quitting = true
			return m, tea.Quit
		}
		m.game = game
		m.screen = screenGame
		return m, m.game.Init()
	}
	return m, cmd
}

func (m AppModel) updateScoreboard(msg tea.Msg) (tea.Model, tea.Cmd) {
	next, cmd := m.board.Update(msg)
	if board, ok := next.(ScoreboardModel); ok {
		m.board = board
	}

	switch {
	case m.board.IsQuitting():
		m.quitting = true
		return m, tea.Quit
	case m.board.IsGoingBack():
		return m.backToMenu()
	}
	return m, cmd
}

func (m AppModel) updateGame(msg tea.Msg) (tea.Model, tea.Cmd) {
	next, cmd := m.game.Update(msg)
	if game, ok := next.(Model); ok {
		m.game = game
	}

	switch {
	case m.game.IsQuitting():
		m.quitting = true
		return m, tea.Quit
	case m.game.BackToMenu():
		// Pending ticks carry the old model ID and are dropped.
		m.game = Model{}
		return m.backToMenu()
	}
	return m, cmd
}

func (m AppModel) backToMenu() (tea.Model, tea.Cmd) {
	m.menu = NewMenuModel(m.opts.Store, m.opts.Config, m.width, m.height, m.opts.Logger)
	m.screen = screenMenu
	return m, m.menu.Init()
}

// View renders the active screen.
func (m AppModel) View() string {
	if m.quitting {
		return ""
	}
	switch m.screen {
	case screenGame:
		return m.game.View()
	case screenScoreboard:
		return m.board.View()
	default:
		return m.menu.View()
	}
}

// Err returns the error that ended the app, if any.
func (m AppModel) Err() error {
	return m.err
}

// Run starts the Bubble Tea program in the local terminal.
func Run(opts AppOptions) error {
	model, err := NewAppModel(opts)
	if err != nil {
		return err
	}

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(), // Press, drag and release steer the player
	)

	final, err := p.Run()
	if err != nil {
		return err
	}
	if app, ok := final.(AppModel); ok {
		return app.Err()
	}
	return nil
}
