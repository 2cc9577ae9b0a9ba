package bullet

import (
	"testing"

	"github.com/aizikovskyi/bullet/internal/core"
	"github.com/aizikovskyi/bullet/internal/rng"
)

func rngFor(seed uint64) *rng.Source {
	return rng.New(seed)
}

func digest(t *testing.T, sim *Sim) uint64 {
	t.Helper()
	snap, err := sim.Snapshot()
	if err != nil {
		t.Fatal(err)
	}
	d, err := snap.Digest()
	if err != nil {
		t.Fatal(err)
	}
	return d
}

func TestSnapshotDecode(t *testing.T) {
	sim := NewSim(newTestState(), NewEndless(120), rng.New(17), 0)
	target := core.V(30, 100)
	for range 50 {
		sim.Tick(&target)
	}

	snap, err := sim.Snapshot()
	if err != nil {
		t.Fatal(err)
	}
	data, err := snap.Encode()
	if err != nil {
		t.Fatal(err)
	}
	back, err := DecodeSnapshot(data)
	if err != nil {
		t.Fatal(err)
	}

	if back.Frame != 50 || back.Spawned != snap.Spawned || len(back.Objects) != len(snap.Objects) {
		t.Errorf("decoded snapshot = frame %d, %d objects", back.Frame, len(back.Objects))
	}
	if back.Player != snap.Player {
		t.Errorf("player = %+v, expected %+v", back.Player, snap.Player)
	}
}

func TestDigestTracksState(t *testing.T) {
	sim := NewSim(newTestState(), idle, rng.New(1), 0)
	a := digest(t, sim)
	if b := digest(t, sim); a != b {
		t.Error("digest of unchanged state should be stable")
	}
	sim.Tick(nil)
	if digest(t, sim) == a {
		t.Error("digest should change after a tick")
	}
}

func TestRestoreResumesRun(t *testing.T) {
	target := core.V(30, 100)
	orig := NewSim(newTestState(), NewEndless(120), rng.New(17), 0)
	for range 40 {
		orig.Tick(&target)
	}
	snap, err := orig.Snapshot()
	if err != nil {
		t.Fatal(err)
	}
	data, err := snap.Encode()
	if err != nil {
		t.Fatal(err)
	}
	decoded, err := DecodeSnapshot(data)
	if err != nil {
		t.Fatal(err)
	}

	// A fresh sim on another seed, moved onto the saved position.
	resumed := NewSim(newTestState(), NewEndless(120), rng.New(99), 0)
	if err := resumed.Restore(decoded); err != nil {
		t.Fatalf("Restore() failed: %v", err)
	}
	if digest(t, resumed) != digest(t, orig) {
		t.Fatal("restored state differs from the snapshot")
	}

	for i := range 60 {
		orig.Tick(&target)
		resumed.Tick(&target)
		if digest(t, resumed) != digest(t, orig) {
			t.Fatalf("resumed run diverged %d ticks after restore", i+1)
		}
	}
}

func TestRestoreRejectsBadRNGState(t *testing.T) {
	sim := NewSim(newTestState(), idle, rng.New(1), 0)
	snap, err := sim.Snapshot()
	if err != nil {
		t.Fatal(err)
	}
	snap.RNGState = []byte("garbage")
	if err := sim.Restore(snap); err == nil {
		t.Error("Restore() should fail on a corrupt generator state")
	}
}
