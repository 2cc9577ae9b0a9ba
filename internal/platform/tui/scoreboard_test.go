package tui

import (
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/aizikovskyi/bullet/internal/games/bullet"
	"github.com/aizikovskyi/bullet/internal/storage"
)

func TestScoreboardShowsStoredRuns(t *testing.T) {
	store, err := storage.Open(filepath.Join(t.TempDir(), "scores.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer store.Close()

	first := bullet.ListStages()[0].ID
	for _, frames := range []int{120, 300} {
		if _, err := store.SaveRun(storage.RunEntry{StageID: first, Frames: frames, Seed: 0xabc, Controller: "human"}); err != nil {
			t.Fatalf("SaveRun: %v", err)
		}
	}
	if err := store.SetHighScore(first, 300); err != nil {
		t.Fatalf("SetHighScore: %v", err)
	}

	m := NewScoreboardModel(store, 60, 100, 30)
	if m.Stage() != first {
		t.Fatalf("Stage() = %q, expected %q", m.Stage(), first)
	}
	if len(m.runs) != 2 || m.runs[0].Frames != 300 {
		t.Fatalf("runs = %+v, expected best first", m.runs)
	}

	view := m.View()
	for _, want := range []string{"BEST RUNS", "5.00s", "2.00s", "abc"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}
}

func TestScoreboardStageSwitching(t *testing.T) {
	m := NewScoreboardModel(nil, 60, 50, 20)
	stages := bullet.ListStages()
	if len(stages) < 2 {
		t.Skip("needs two stages")
	}

	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyTab})
	m = next.(ScoreboardModel)
	if m.Stage() != stages[1].ID {
		t.Errorf("tab: stage = %q, expected %q", m.Stage(), stages[1].ID)
	}

	next, _ = m.Update(tea.KeyMsg{Type: tea.KeyLeft})
	m = next.(ScoreboardModel)
	next, _ = m.Update(tea.KeyMsg{Type: tea.KeyLeft})
	m = next.(ScoreboardModel)
	if m.Stage() != stages[len(stages)-1].ID {
		t.Errorf("left should wrap, stage = %q", m.Stage())
	}

	if !strings.Contains(m.View(), "No runs yet") {
		t.Error("a scoreboard without a store should show the empty message")
	}

	next, _ = m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if !next.(ScoreboardModel).IsGoingBack() {
		t.Error("esc should go back")
	}
}

func TestShortSeed(t *testing.T) {
	if got := shortSeed(0x1234); got != "1234" {
		t.Errorf("shortSeed(0x1234) = %q", got)
	}
	if got := shortSeed(0x1122334455667788); got != "55667788" {
		t.Errorf("shortSeed(long) = %q", got)
	}
}
