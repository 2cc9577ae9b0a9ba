package bullet

import (
	"fmt"

	"github.com/aizikovskyi/bullet/internal/core"
)

// MaxFrameDelta is the largest extrapolation the display pass will draw.
// Anything older means the loop stalled and the state is too stale to show.
const MaxFrameDelta = 2

// Sink receives the drawing primitives of one frame, in field coordinates.
type Sink interface {
	DrawCircle(x, y, r float64, c core.Color)
	ShowScore(text string)
	ShowHighScore(text string)
}

// FrameSink is a Sink that wants to know where a frame starts and ends.
type FrameSink interface {
	Sink
	Begin()
	End()
}

// FrameDelta converts the wall time since the last tick into frames to extrapolate.
// ok is false when the frame should not be drawn at all.
func FrameDelta(elapsedSeconds float64, fps int, finished bool) (delta float64, ok bool) {
	if finished {
		return 0, true
	}
	delta = elapsedSeconds * float64(fps)
	if delta > MaxFrameDelta {
		return 0, false
	}
	return delta, true
}

// Draw renders s into sink with every moving thing pushed frameDelta ticks ahead.
// best is the high score in frames; negative hides it.
func Draw(s *State, sink Sink, frameDelta float64, best int) {
	fs, framed := sink.(FrameSink)
	if framed {
		fs.Begin()
	}

	for i := range s.Objects {
		o := &s.Objects[i]
		sink.DrawCircle(o.Pos.X+o.Vel.X*frameDelta, o.Pos.Y+o.Vel.Y*frameDelta, o.Radius, o.Color)
	}

	if s.PlayerStatus != PlayerDead && s.PlayerStatus != PlayerDisabled {
		p := &s.Player
		sink.DrawCircle(p.Pos.X+p.Vel.X*frameDelta, p.Pos.Y+p.Vel.Y*frameDelta, p.Radius, core.ColorRed)
	}

	if s.PlayerStatus != PlayerDisabled {
		sink.ShowScore(FormatScore(s.Seconds(s.ScoringFrame())))
	}
	if best >= 0 {
		sink.ShowHighScore(FormatHighScore(s.Seconds(best)))
	}

	if framed {
		fs.End()
	}
}

// FormatScore renders survival seconds the way the HUD shows them.
func FormatScore(seconds float64) string {
	return fmt.Sprintf("TIME: %.2f", seconds)
}

// FormatHighScore renders the best survival seconds.
func FormatHighScore(seconds float64) string {
	return fmt.Sprintf("BEST: %.2f", seconds)
}
