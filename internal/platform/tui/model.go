package tui

import (
	"context"
	"fmt"
	"io"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"github.com/aizikovskyi/bullet/internal/config"
	"github.com/aizikovskyi/bullet/internal/core"
	"github.com/aizikovskyi/bullet/internal/games/bullet"
	"github.com/aizikovskyi/bullet/internal/rng"
	"github.com/aizikovskyi/bullet/internal/storage"
)

// GameOptions configures one stage played in the terminal.
type GameOptions struct {
	Config     config.BulletConfig
	Stage      string
	Controller bullet.ControllerKind
	Seed       uint64 // First run only; restarts pick fresh seeds
	Store      *storage.Store
	Runtime    core.RuntimeConfig
	Logger     *log.Logger
}

// Model is the Bubble Tea model for a running stage.
// Ticks and display passes arrive as separate messages; Bubble Tea delivers
// them one at a time, so neither loop ever overlaps itself or the other.
type Model struct {
	id      int
	opts    GameOptions
	session *bullet.Session
	human   *bullet.Human
	agent   *bullet.Agent
	screen  *core.Screen
	sink    *ScreenSink
	keys    GameKeyMap
	help    help.Model
	ctx     context.Context
	fps     int

	paused     bool
	pressed    bool
	quitting   bool
	backToMenu bool
}

// NewGameModel creates the model and starts the first run.
func NewGameModel(opts GameOptions) (Model, error) {
	if opts.Runtime.ScreenW <= 0 || opts.Runtime.ScreenH <= 0 {
		def := core.DefaultConfig()
		opts.Runtime.ScreenW, opts.Runtime.ScreenH = def.ScreenW, def.ScreenH
	}
	if opts.Logger == nil {
		opts.Logger = log.New(io.Discard)
	}
	if opts.Stage == "" {
		opts.Stage = bullet.StageEndless
	}
	fps := opts.Config.Timing.FPS
	if opts.Runtime.TickRate > 0 {
		fps = opts.Runtime.TickRate
		opts.Config.Timing.FPS = fps
	}

	human := bullet.NewHuman(core.NewInputQueue(0))
	agent := bullet.NewAgent(rng.New(opts.Seed), opts.Config.Agent.MaxSpeed)
	var ctrl bullet.Controller = human
	if opts.Controller == bullet.ControllerAgent {
		ctrl = agent
	}

	var scores bullet.HighScoreStore
	if opts.Store != nil {
		scores = opts.Store.ForStage(opts.Stage)
	}
	session, err := bullet.NewSession(bullet.SessionOptions{
		Config:     opts.Config,
		Stage:      opts.Stage,
		Controller: ctrl,
		Scores:     scores,
		Continuous: true,
		Logger:     opts.Logger,
	})
	if err != nil {
		return Model{}, err
	}
	session.Start(opts.Seed)

	screen := core.NewScreen(opts.Runtime.ScreenW, fieldScreenHeight(opts.Runtime.ScreenH))
	field := session.State().Field
	return Model{
		id:      nextID(),
		opts:    opts,
		session: session,
		human:   human,
		agent:   agent,
		screen:  screen,
		sink:    NewScreenSink(screen, field),
		keys:    DefaultGameKeyMap(),
		help:    help.New(),
		ctx:     context.Background(),
		fps:     fps,
	}, nil
}

// fieldScreenHeight leaves the last terminal row to the help line.
func fieldScreenHeight(h int) int {
	return max(h-1, 1)
}

// Init starts both loops.
func (m Model) Init() tea.Cmd {
	return tea.Batch(tickCmd(m.id, m.fps), drawCmd(m.id))
}

// Update handles messages and updates the model state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.MouseMsg:
		return m.handleMouse(msg)

	case tea.WindowSizeMsg:
		m.screen.Resize(msg.Width, fieldScreenHeight(msg.Height))
		m.sink.Resize(m.session.State().Field)
		m.help.Width = msg.Width
		return m, nil

	case TickMsg:
		if msg.ID != m.id {
			return m, nil
		}
		return m.handleTick(msg)

	case DrawMsg:
		if msg.ID != m.id {
			return m, nil
		}
		m.handleDraw(msg)
		return m, drawCmd(m.id)
	}

	return m, nil
}

// handleKey processes keyboard input. Steering never comes from the keyboard.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	over := m.session.Outcome() != bullet.OutcomeNone

	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		return m, nil

	case key.Matches(msg, m.keys.Back):
		m.backToMenu = true
		return m, nil

	case key.Matches(msg, m.keys.Pause):
		if !over {
			m.paused = !m.paused
		}

	case key.Matches(msg, m.keys.Restart):
		if over {
			m.restart()
		}

	case key.Matches(msg, m.keys.ToggleAgent):
		m.toggleController()
	}

	return m, nil
}

// handleMouse turns pointer presses and drags into steering events.
func (m Model) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	if m.session.Controller() != m.human {
		return m, nil
	}
	queue := m.human.Queue()
	point := m.sink.Viewport().ToField(msg.X, msg.Y)

	switch msg.Action {
	case tea.MouseActionPress:
		if msg.Button != tea.MouseButtonLeft {
			return m, nil
		}
		m.pressed = true
		queue.Push(core.MoveTowards{Point: point})

	case tea.MouseActionMotion:
		if m.pressed {
			queue.Push(core.MoveTowards{Point: point})
		}

	case tea.MouseActionRelease:
		m.pressed = false
		queue.Push(core.StopMoving{})
	}
	return m, nil
}

// handleTick runs one simulation step unless paused.
func (m Model) handleTick(msg TickMsg) (tea.Model, tea.Cmd) {
	if m.paused {
		return m, tickCmd(m.id, m.fps)
	}

	// A finished run keeps reporting its outcome; only the finishing tick counts.
	report := m.session.Step(m.ctx, msg.Time)
	if report.Tick.Ticked && report.Outcome != bullet.OutcomeNone {
		m.saveRun(report)
	}
	return m, tickCmd(m.id, m.fps)
}

// handleDraw runs the display pass. A skipped pass leaves the last frame on screen.
func (m *Model) handleDraw(msg DrawMsg) {
	m.session.Draw(msg.Time, m.sink)

	switch {
	case m.paused:
		m.drawBanner("PAUSED", "p to resume")
	case m.session.Outcome() == bullet.OutcomeGameOver:
		m.drawBanner("GAME OVER", "r to retry, esc for menu")
	}
}

func (m *Model) drawBanner(title, hint string) {
	b := m.sink.Viewport().Bounds()
	y := b.Y + b.H/3
	m.screen.DrawTextCentered(y, title, core.ColorWhite)
	m.screen.DrawTextCentered(y+2, hint, core.ColorGray)
}

func (m *Model) restart() {
	m.session.Start(0)
	m.paused = false
	m.pressed = false
}

func (m *Model) toggleController() {
	if m.session.Controller() == m.human {
		m.session.SetController(m.agent)
		return
	}
	m.human.Reset()
	m.pressed = false
	m.session.SetController(m.human)
}

// saveRun records the finished run. Storage errors are logged and play continues.
// A cleared stage has already restarted, so the run is described by the report.
func (m *Model) saveRun(r bullet.StepReport) {
	if m.opts.Store == nil {
		return
	}
	_, err := m.opts.Store.SaveRun(storage.RunEntry{
		StageID:    m.session.Stage(),
		Frames:     r.Frames,
		Seed:       r.Seed,
		Controller: string(m.session.Controller().Kind()),
	})
	if err != nil {
		m.opts.Logger.Warn("could not save run", "stage", m.session.Stage(), "error", err)
	}
}

// View renders the current state to a string for display.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	status := fmt.Sprintf("%s · %s", m.session.Stage(), m.session.Controller().Kind())
	helpLine := lipgloss.NewStyle().Foreground(lipgloss.Color("241")).
		Render(status + "  " + m.help.View(m.keys))
	return RenderScreen(m.screen) + "\n" + helpLine
}

// Session returns the run group the model drives.
func (m Model) Session() *bullet.Session {
	return m.session
}

// Paused reports whether ticks are suspended.
func (m Model) Paused() bool {
	return m.paused
}

// IsQuitting returns true if user requested to quit entirely.
func (m Model) IsQuitting() bool {
	return m.quitting
}

// BackToMenu returns true if user requested to go back to menu.
func (m Model) BackToMenu() bool {
	return m.backToMenu
}
