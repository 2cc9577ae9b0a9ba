package tui

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"github.com/aizikovskyi/bullet/internal/config"
	"github.com/aizikovskyi/bullet/internal/games/bullet"
	"github.com/aizikovskyi/bullet/internal/storage"
)

// difficultyCycle is the order the difficulty key steps through.
var difficultyCycle = []config.DifficultyPreset{
	config.DifficultyEasy,
	config.DifficultyNormal,
	config.DifficultyHard,
	config.DifficultyFixed,
}

// MenuItem represents a selectable stage in the menu.
type MenuItem struct {
	StageID string
	Title   string
	Best    int // Frames; 0 when never played
}

// MenuSelection is what the player picked.
type MenuSelection struct {
	StageID    string
	Difficulty config.DifficultyPreset
	Controller bullet.ControllerKind
}

// MenuModel is the Bubble Tea model for the stage picker.
type MenuModel struct {
	items          []MenuItem
	cursor         int
	width          int
	height         int
	fps            int
	difficulty     config.DifficultyPreset
	controller     bullet.ControllerKind
	keys           MenuKeyMap
	help           help.Model
	quitting       bool
	selected       *MenuSelection
	openScoreboard bool
}

// NewMenuModel creates a menu over every registered stage.
// Best times are read from store when it is non-nil; a failed read is
// logged and the stage shows no best time.
func NewMenuModel(store *storage.Store, cfg config.BulletConfig, width, height int, logger *log.Logger) MenuModel {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	stages := bullet.ListStages()
	items := make([]MenuItem, 0, len(stages))
	for _, st := range stages {
		item := MenuItem{StageID: st.ID, Title: st.Title}
		if store != nil {
			best, err := store.HighScore(st.ID)
			if err != nil {
				logger.Debug("cannot read best time", "stage", st.ID, "error", err)
			}
			item.Best = best
		}
		items = append(items, item)
	}

	difficulty := cfg.Difficulty.Preset
	if difficulty == "" {
		difficulty = config.DifficultyNormal
	}
	return MenuModel{
		items:      items,
		width:      width,
		height:     height,
		fps:        cfg.Timing.FPS,
		difficulty: difficulty,
		controller: bullet.ControllerHuman,
		keys:       DefaultMenuKeyMap(),
		help:       help.New(),
	}
}

// Init initializes the menu model.
func (m MenuModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the menu.
func (m MenuModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil
	}

	return m, nil
}

// handleKey processes keyboard input for menu navigation.
func (m MenuModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true

	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}

	case key.Matches(msg, m.keys.Down):
		if m.cursor < len(m.items)-1 {
			m.cursor++
		}

	case key.Matches(msg, m.keys.Difficulty):
		m.difficulty = nextDifficulty(m.difficulty)

	case key.Matches(msg, m.keys.Controller):
		if m.controller == bullet.ControllerHuman {
			m.controller = bullet.ControllerAgent
		} else {
			m.controller = bullet.ControllerHuman
		}

	case key.Matches(msg, m.keys.Select):
		if len(m.items) > 0 {
			m.selected = &MenuSelection{
				StageID:    m.items[m.cursor].StageID,
				Difficulty: m.difficulty,
				Controller: m.controller,
			}
		}

	case key.Matches(msg, m.keys.Scores):
		m.openScoreboard = true
	}

	return m, nil
}

func nextDifficulty(d config.DifficultyPreset) config.DifficultyPreset {
	for i, p := range difficultyCycle {
		if p == d {
			return difficultyCycle[(i+1)%len(difficultyCycle)]
		}
	}
	return config.DifficultyNormal
}

// View renders the menu.
func (m MenuModel) View() string {
	if m.quitting {
		return ""
	}

	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("9"))
	selectedStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("11"))
	dimStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("241"))

	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(centerText(titleStyle.Render("B U L L E T"), m.width))
	b.WriteString("\n\n")
	b.WriteString(centerText("Select a stage", m.width))
	b.WriteString("\n\n")

	for i, item := range m.items {
		cursor := "  "
		if i == m.cursor {
			cursor = "> "
		}
		best := "--"
		if item.Best > 0 && m.fps > 0 {
			best = fmt.Sprintf("%.2fs", float64(item.Best)/float64(m.fps))
		}
		line := fmt.Sprintf("%s%-12s best %s", cursor, item.Title, best)
		if i == m.cursor {
			line = selectedStyle.Render(line)
		}
		b.WriteString(centerText(line, m.width))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	settings := fmt.Sprintf("difficulty: %s   controller: %s", m.difficulty, m.controller)
	b.WriteString(centerText(settings, m.width))
	b.WriteString("\n\n")
	b.WriteString(centerText(dimStyle.Render(m.help.View(m.keys)), m.width))
	b.WriteString("\n")

	return b.String()
}

// Selected returns the selection, or nil if none was made.
func (m MenuModel) Selected() *MenuSelection {
	return m.selected
}

// IsQuitting returns true if user requested to quit.
func (m MenuModel) IsQuitting() bool {
	return m.quitting
}

// WantsScoreboard returns true if user requested scoreboard.
func (m MenuModel) WantsScoreboard() bool {
	return m.openScoreboard
}

// centerText centers text within given width.
// Width is measured on the visible text, so styled strings center correctly.
func centerText(text string, width int) string {
	w := lipgloss.Width(text)
	if w >= width {
		return text
	}
	padding := (width - w) / 2
	return strings.Repeat(" ", padding) + text
}
