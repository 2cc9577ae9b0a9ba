package bullet

import (
	"bytes"
	"math"
	"testing"

	"github.com/aizikovskyi/bullet/internal/core"
	"github.com/aizikovskyi/bullet/internal/rng"
)

var idle = SpawnerFunc(func(*State, *rng.Source) {})

func newTestSim(spawner Spawner, seed uint64) *Sim {
	return NewSim(newTestState(), spawner, rng.New(seed), 0)
}

func countKind(objects []Object, k Kind) int {
	n := 0
	for _, o := range objects {
		if o.Kind == k {
			n++
		}
	}
	return n
}

func TestTickAdvancesFrame(t *testing.T) {
	sim := newTestSim(idle, 1)
	for i := 1; i <= 3; i++ {
		res := sim.Tick(nil)
		if !res.Ticked || res.Frame != i {
			t.Fatalf("tick %d: result = %+v", i, res)
		}
	}
	if sim.State().Frame != 3 {
		t.Errorf("frame = %d, expected 3", sim.State().Frame)
	}
}

func TestDeathScenario(t *testing.T) {
	// A stationary projectile appears on the player at the end of frame 99.
	spawner := SpawnerFunc(func(s *State, _ *rng.Source) {
		if s.Frame == 99 {
			s.AddObject(NewProjectile(s.Player.Pos, core.Vec{}, 1, s.Frame, core.ColorWhite))
		}
	})
	sim := newTestSim(spawner, 7)
	s := sim.State()

	var died, finishedAt int
	for tick := 0; tick < 200; tick++ {
		res := sim.Tick(nil)
		if res.Died {
			died++
		}
		if res.Finished {
			finishedAt = res.Frame
			break
		}
	}

	if died != 1 {
		t.Errorf("died %d times, expected 1", died)
	}
	if s.PlayerStatus != PlayerDead {
		t.Errorf("player status = %s, expected dead", s.PlayerStatus)
	}
	if s.LastLivingFrame != 100 || s.LastFrame != 130 {
		t.Errorf("lastLiving = %d, last = %d, expected 100 and 130", s.LastLivingFrame, s.LastFrame)
	}
	if finishedAt != 130 || s.Status != StatusFinished {
		t.Errorf("finished at %d (status %s), expected 130", finishedAt, s.Status)
	}
	if got := countKind(s.Objects, KindParticle); got != 35 {
		t.Errorf("particles = %d, expected 35", got)
	}
	if s.Spawned != 1 {
		t.Errorf("spawned = %d, expected explosion particles not counted", s.Spawned)
	}
	if s.ScoringFrame() != 100 {
		t.Errorf("ScoringFrame() = %d, expected 100", s.ScoringFrame())
	}
	if sim.HighScore() != 100 {
		t.Errorf("HighScore() = %d, expected 100", sim.HighScore())
	}

	// Finished runs ignore further ticks.
	res := sim.Tick(nil)
	if res.Ticked || s.Frame != 130 {
		t.Errorf("tick after finish changed state: %+v", res)
	}
}

func TestDoubleCollisionTriggersOnce(t *testing.T) {
	const frame = 5
	tests := []struct {
		name  string
		radii []float64
	}{
		{"small first", []float64{2, 3}},
		{"large first", []float64{3, 2}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sim := newTestSim(idle, 3)
			s := sim.State()
			for range frame {
				sim.Tick(nil)
			}
			for _, r := range tt.radii {
				s.AddObject(NewProjectile(s.Player.Pos, core.Vec{}, r, s.Frame, core.ColorWhite))
			}

			res := sim.Tick(nil)
			if !res.Died {
				t.Fatal("player should die")
			}
			if s.LastLivingFrame != frame {
				t.Errorf("lastLivingFrame = %d, expected %d", s.LastLivingFrame, frame)
			}
			if want := frame + s.Params.GracePeriod; s.LastFrame != want {
				t.Errorf("lastFrame = %d, expected %d", s.LastFrame, want)
			}
			if got := countKind(s.Objects, KindParticle); got != s.Params.ParticleCount {
				t.Errorf("particles = %d, expected one burst of %d", got, s.Params.ParticleCount)
			}
			if got := len(s.Objects); got != len(tt.radii)+s.Params.ParticleCount {
				t.Errorf("objects = %d, expected both projectiles plus one burst", got)
			}
		})
	}
}

func TestHighScoreOnlyWhenBeaten(t *testing.T) {
	s := newTestState()
	s.AddObject(NewProjectile(s.Player.Pos, core.Vec{}, 2, 0, core.ColorWhite))
	sim := NewSim(s, idle, rng.New(1), 500)

	res := sim.Tick(nil)
	if !res.Died || res.NewHighScore {
		t.Errorf("result = %+v, expected death without a new high score", res)
	}
	if sim.HighScore() != 500 {
		t.Errorf("HighScore() = %d, expected 500", sim.HighScore())
	}
}

func TestInvulnerablePlayerNeverDies(t *testing.T) {
	sim := newTestSim(idle, 1)
	s := sim.State()
	if !sim.SetPlayerStatus(PlayerInvulnerable) {
		t.Fatal("SetPlayerStatus(invulnerable) refused")
	}
	s.AddObject(NewProjectile(s.Player.Pos, core.Vec{}, 5, 0, core.ColorWhite))

	for range 10 {
		if sim.Tick(nil).Died {
			t.Fatal("invulnerable player died")
		}
	}
}

func TestSetPlayerStatusRefusesDeath(t *testing.T) {
	sim := newTestSim(idle, 1)
	if sim.SetPlayerStatus(PlayerDead) {
		t.Error("SetPlayerStatus(dead) should be refused")
	}

	s := sim.State()
	s.AddObject(NewProjectile(s.Player.Pos, core.Vec{}, 2, 0, core.ColorWhite))
	sim.Tick(nil)
	if sim.SetPlayerStatus(PlayerAlive) {
		t.Error("leaving dead should be refused")
	}
	if s.PlayerStatus != PlayerDead {
		t.Errorf("status = %s, expected dead", s.PlayerStatus)
	}
}

func TestRemovalKeepsOrder(t *testing.T) {
	sim := newTestSim(idle, 1)
	s := sim.State()
	sim.SetPlayerStatus(PlayerDisabled)
	for i := range 6 {
		x := 10.0 * float64(i+1)
		if i%2 == 1 {
			x = -50 // leaves the field
		}
		s.AddObject(NewProjectile(core.V(x, 10), core.Vec{}, 1, i, core.ColorWhite))
	}

	sim.Tick(nil)
	if len(s.Objects) != 3 {
		t.Fatalf("objects = %d, expected 3", len(s.Objects))
	}
	for i, want := range []int{0, 2, 4} {
		if s.Objects[i].BirthFrame != want {
			t.Errorf("object %d born at %d, expected %d", i, s.Objects[i].BirthFrame, want)
		}
	}
}

func TestParticlesGoneAfterOneSecond(t *testing.T) {
	sim := newTestSim(idle, 5)
	s := sim.State()
	sim.SetPlayerStatus(PlayerInvulnerable)
	s.Objects = append(s.Objects, NewParticle(core.V(50, 50), core.Vec{}, 0.4, 0, core.ColorRed))

	for s.Frame < s.FPS {
		sim.Tick(nil)
	}
	// frame == fps: the particle survived every removal pass so far.
	if countKind(s.Objects, KindParticle) != 1 {
		t.Fatalf("particle missing at frame %d", s.Frame)
	}
	sim.Tick(nil)
	sim.Tick(nil)
	if countKind(s.Objects, KindParticle) != 0 {
		t.Errorf("particle still present at frame %d", s.Frame)
	}
}

func TestDeterminism(t *testing.T) {
	targets := make([]*core.Vec, 900)
	for i := range targets {
		if i%7 != 0 {
			v := core.V(float64(i%100), 60+float64(i%40))
			targets[i] = &v
		}
	}

	run := func() [][]byte {
		sim := NewSim(newTestState(), NewEndless(60), rng.New(42), 0)
		var frames [][]byte
		for _, target := range targets {
			sim.Tick(target)
			snap, err := sim.Snapshot()
			if err != nil {
				t.Fatal(err)
			}
			data, err := snap.Encode()
			if err != nil {
				t.Fatal(err)
			}
			frames = append(frames, data)
		}
		return frames
	}

	a, b := run(), run()
	for i := range a {
		if !bytes.Equal(a[i], b[i]) {
			t.Fatalf("frame %d differs between identical runs", i+1)
		}
	}
}

func TestEndlessSpawnRate(t *testing.T) {
	const ticks = 1800
	sim := NewSim(newTestState(), NewEndless(0), rng.New(20240601), 0)
	sim.SetPlayerStatus(PlayerInvulnerable)

	e := NewEndless(0)
	var mean, variance float64
	for frame := range ticks {
		p := 1 - math.Pow(0.7, e.GameTime(&State{Frame: frame, FPS: 30})/60)
		mean += p
		variance += p * (1 - p)
	}

	for range ticks {
		sim.Tick(nil)
	}

	if s := sim.State(); s.Frame != ticks || s.Status != StatusRunning {
		t.Fatalf("after %d ticks: frame %d, status %s", ticks, s.Frame, s.Status)
	}

	got := float64(sim.State().Spawned)
	band := 5 * math.Sqrt(variance)
	if got < mean-band || got > mean+band {
		t.Errorf("spawned %g over %d ticks, expected %.1f ± %.1f", got, ticks, mean, band)
	}
}

func TestEndlessFixedPresetFreezesDifficulty(t *testing.T) {
	e := &Endless{StartingTime: 60, Fixed: true}
	early := e.SpawnProbability(&State{Frame: 0, FPS: 30})
	late := e.SpawnProbability(&State{Frame: 30 * 600, FPS: 30})
	if early != late {
		t.Errorf("fixed probability moved from %g to %g", early, late)
	}

	e.Fixed = false
	if e.SpawnProbability(&State{Frame: 30 * 600, FPS: 30}) <= early {
		t.Error("endless probability should grow with time")
	}
}

func TestEndlessSpawnShape(t *testing.T) {
	s := newTestState()
	e := NewEndless(600) // high enough that nearly every roll spawns
	src := rng.New(9)
	for range 200 {
		e.Spawn(s, src)
	}
	if len(s.Objects) == 0 {
		t.Fatal("nothing spawned")
	}
	for _, o := range s.Objects {
		if o.Pos.Y != SpawnY || o.Pos.X < 0 || o.Pos.X > s.Field.Width || o.Pos.X != math.Round(o.Pos.X) {
			t.Fatalf("bad spawn position %v", o.Pos)
		}
		if o.Radius < 1 || o.Radius > 4 || o.Radius != math.Round(o.Radius) {
			t.Fatalf("bad radius %g", o.Radius)
		}
		if o.Vel.Y <= 1 || o.Color != core.ColorWhite {
			t.Fatalf("bad projectile %+v", o)
		}
	}
}

func TestStage1CapFinishesAliveRun(t *testing.T) {
	sim := NewSim(newTestState(), NewStage1(0, 45), rng.New(11), 0)
	sim.SetPlayerStatus(PlayerInvulnerable)

	ticks := 0
	for sim.State().Status == StatusRunning {
		sim.Tick(nil)
		ticks++
		if ticks > 5000 {
			t.Fatal("stage never finished")
		}
	}

	s := sim.State()
	if s.Frame != 45*30+2 {
		t.Errorf("finished at frame %d, expected %d", s.Frame, 45*30+2)
	}
	if s.PlayerStatus != PlayerInvulnerable {
		t.Errorf("player status = %s", s.PlayerStatus)
	}
	if s.Spawned == 0 {
		t.Error("stage spawned nothing")
	}
}

func TestPhaseProbability(t *testing.T) {
	p := Phase{Start: 10, End: 40, StartProbability: 0.3, EndProbability: 0.1}
	if p.Active(9.99) || !p.Active(10) || p.Active(40) {
		t.Error("phase window should be [10, 40)")
	}
	if got := p.Probability(25); math.Abs(got-0.2) > 1e-12 {
		t.Errorf("Probability(25) = %g, expected 0.2", got)
	}
}

func TestHomingAimsAtPlayer(t *testing.T) {
	s := newTestState()
	emitHoming(s, rng.New(4))

	o := s.Objects[0]
	if o.Color != core.ColorYellow || o.Radius != 2 {
		t.Errorf("homing = %+v", o)
	}
	if math.Abs(o.Vel.Length()-2) > 1e-9 {
		t.Errorf("speed = %g, expected 2", o.Vel.Length())
	}
	want := o.Pos.UnitTo(s.Player.Pos)
	got := o.Vel.Scaled(0.5)
	if math.Abs(got.X-want.X) > 1e-9 || math.Abs(got.Y-want.Y) > 1e-9 {
		t.Errorf("direction = %v, expected %v", got, want)
	}
}
