package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/aizikovskyi/bullet/internal/games/bullet"
	"github.com/aizikovskyi/bullet/internal/registry"
	"github.com/aizikovskyi/bullet/internal/storage"
)

const (
	statsPanelWidth = 24 // Stats panel is shown beside the table
	minWidthStats   = 72 // when the terminal is at least this wide
	maxRuns         = 50
)

var (
	boardTitleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("229"))
	boardDimStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	boardTabStyle   = lipgloss.NewStyle().Bold(true).
			Foreground(lipgloss.Color("229")).
			Background(lipgloss.Color("88")).
			Padding(0, 1)
	boardBoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240")).
			Padding(0, 1)
)

// ScoreboardModel lists the best runs of each stage.
type ScoreboardModel struct {
	stages    []registry.Info
	cursor    int
	store     *storage.Store
	fps       int
	best      int
	stats     *storage.StageStats
	runs      []storage.RunEntry
	table     table.Model
	help      help.Model
	keys      ScoreboardKeyMap
	width     int
	height    int
	quitting  bool
	goingBack bool
}

// NewScoreboardModel creates a scoreboard over every registered stage.
// fps converts stored frame counts into seconds; store may be nil.
func NewScoreboardModel(store *storage.Store, fps, width, height int) ScoreboardModel {
	m := ScoreboardModel{
		stages: bullet.ListStages(),
		store:  store,
		fps:    max(fps, 1),
		keys:   DefaultScoreboardKeyMap(),
		help:   help.New(),
		width:  width,
		height: height,
	}
	m.table = m.newTable()
	m.reload()
	return m
}

func (m ScoreboardModel) showStats() bool {
	return m.width >= minWidthStats
}

func (m ScoreboardModel) newTable() table.Model {
	t := table.New(
		table.WithColumns([]table.Column{
			{Title: "#", Width: 4},
			{Title: "Time", Width: 9},
			{Title: "By", Width: 7},
			{Title: "Seed", Width: 10},
			{Title: "Played", Width: 12},
		}),
		table.WithFocused(true),
		table.WithHeight(max(m.height-9, 3)),
	)

	styles := table.DefaultStyles()
	styles.Header = styles.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(true)
	styles.Selected = styles.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("88")).
		Bold(false)
	t.SetStyles(styles)
	return t
}

// reload reads the current stage from the store. Read errors leave the
// stage looking empty.
func (m *ScoreboardModel) reload() {
	m.best, m.stats, m.runs = 0, nil, nil
	if m.store != nil && len(m.stages) > 0 {
		id := m.stages[m.cursor].ID
		if best, err := m.store.HighScore(id); err == nil {
			m.best = best
		}
		if stats, err := m.store.GetStageStats(id); err == nil {
			m.stats = stats
		}
		if runs, err := m.store.TopRuns(id, maxRuns); err == nil {
			m.runs = runs
		}
	}

	rows := make([]table.Row, 0, len(m.runs))
	for i, r := range m.runs {
		rows = append(rows, table.Row{
			fmt.Sprint(i + 1),
			m.seconds(r.Frames),
			r.Controller,
			shortSeed(r.Seed),
			r.CreatedAt.Local().Format("Jan 02 15:04"),
		})
	}
	m.table.SetRows(rows)
	m.table.GotoTop()
}

func (m ScoreboardModel) seconds(frames int) string {
	return fmt.Sprintf("%.2fs", float64(frames)/float64(m.fps))
}

// shortSeed keeps the low digits that tell runs apart at a glance.
func shortSeed(seed uint64) string {
	s := fmt.Sprintf("%x", seed)
	if len(s) > 8 {
		s = s[len(s)-8:]
	}
	return s
}

// Init implements tea.Model.
func (m ScoreboardModel) Init() tea.Cmd {
	return nil
}

// Update handles stage switching and table scrolling.
func (m ScoreboardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, nil
		case key.Matches(msg, m.keys.Back):
			m.goingBack = true
			return m, nil
		case key.Matches(msg, m.keys.Next):
			m.moveStage(1)
			return m, nil
		case key.Matches(msg, m.keys.Prev):
			m.moveStage(-1)
			return m, nil
		}

	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.help.Width = msg.Width
		m.table = m.newTable()
		m.reload()
		return m, nil
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

func (m *ScoreboardModel) moveStage(delta int) {
	if n := len(m.stages); n > 0 {
		m.cursor = (m.cursor + delta + n) % n
		m.reload()
	}
}

// Stage returns the ID of the stage on display.
func (m ScoreboardModel) Stage() string {
	if len(m.stages) == 0 {
		return ""
	}
	return m.stages[m.cursor].ID
}

// View renders the tab strip, the runs table and, when it fits, the stats panel.
func (m ScoreboardModel) View() string {
	if m.quitting || m.goingBack {
		return ""
	}

	var b strings.Builder
	b.WriteString(boardTitleStyle.Render(centerText("BEST RUNS", m.width)))
	b.WriteString("\n\n")
	b.WriteString(centerText(m.tabs(), m.width))
	b.WriteString("\n\n")

	body := boardBoxStyle.Render(m.runsView())
	if m.showStats() {
		body = lipgloss.JoinHorizontal(lipgloss.Top, body, " ", m.statsView())
	} else {
		body = lipgloss.JoinVertical(lipgloss.Center, boardDimStyle.Render(m.summary()), body)
	}
	b.WriteString(lipgloss.PlaceHorizontal(m.width, lipgloss.Center, body))
	b.WriteString("\n")
	b.WriteString(boardDimStyle.Render(m.help.View(m.keys)))
	return b.String()
}

// tabs renders every stage title, or just the current one between arrows
// when the strip does not fit.
func (m ScoreboardModel) tabs() string {
	if len(m.stages) == 0 {
		return boardDimStyle.Render("no stages")
	}
	parts := make([]string, len(m.stages))
	for i, st := range m.stages {
		if i == m.cursor {
			parts[i] = boardTabStyle.Render(st.Title)
		} else {
			parts[i] = boardDimStyle.Render(" " + st.Title + " ")
		}
	}
	line := strings.Join(parts, " ")
	if lipgloss.Width(line) > m.width-2 {
		line = boardTabStyle.Render("← " + m.stages[m.cursor].Title + " →")
	}
	return line
}

func (m ScoreboardModel) runsView() string {
	if len(m.runs) == 0 {
		return boardDimStyle.Italic(true).Padding(1, 2).
			Render("No runs yet.\nFinish a run to put a time here.")
	}
	return m.table.View()
}

func (m ScoreboardModel) statsView() string {
	lines := []string{
		boardTitleStyle.Render("Stage"),
		"best   " + m.seconds(m.best),
	}
	if m.stats != nil && m.stats.RunsCount > 0 {
		lines = append(lines,
			fmt.Sprintf("runs   %d", m.stats.RunsCount),
			"avg    "+m.seconds(int(m.stats.AvgFrames)),
			"last   "+m.stats.LastPlayed.Local().Format("Jan 02"),
		)
	}
	return boardBoxStyle.Width(statsPanelWidth).Render(strings.Join(lines, "\n"))
}

// summary is the one-line stats header used instead of the panel.
func (m ScoreboardModel) summary() string {
	if m.stats == nil || m.stats.RunsCount == 0 {
		return "best " + m.seconds(m.best)
	}
	return fmt.Sprintf("best %s   runs %d   avg %s",
		m.seconds(m.best), m.stats.RunsCount, m.seconds(int(m.stats.AvgFrames)))
}

// IsGoingBack returns true if user wants to go back to menu.
func (m ScoreboardModel) IsGoingBack() bool {
	return m.goingBack
}

// IsQuitting returns true if user wants to quit entirely.
func (m ScoreboardModel) IsQuitting() bool {
	return m.quitting
}
