package bullet

import (
	"fmt"

	"github.com/cespare/xxhash/v2"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/aizikovskyi/bullet/internal/core"
)

// ObjectSnapshot is the serializable form of an Object.
type ObjectSnapshot struct {
	Kind       uint8   `msgpack:"k"`
	X          float64 `msgpack:"x"`
	Y          float64 `msgpack:"y"`
	VX         float64 `msgpack:"vx"`
	VY         float64 `msgpack:"vy"`
	Radius     float64 `msgpack:"r"`
	Deadly     bool    `msgpack:"d"`
	Color      uint8   `msgpack:"c"`
	BirthFrame int     `msgpack:"b"`
}

// Snapshot contains the complete run state for determinism checks and replay verification.
// Uses primitive types only for stable serialization.
type Snapshot struct {
	Frame           int              `msgpack:"frame"`
	FPS             int              `msgpack:"fps"`
	Status          string           `msgpack:"status"`
	PlayerStatus    string           `msgpack:"player_status"`
	Width           float64          `msgpack:"width"`
	Height          float64          `msgpack:"height"`
	Player          ObjectSnapshot   `msgpack:"player"`
	PlayerMaxSpeed  float64          `msgpack:"player_max_speed"`
	Objects         []ObjectSnapshot `msgpack:"objects"`
	LastFrame       int              `msgpack:"last_frame"`
	LastLivingFrame int              `msgpack:"last_living_frame"`
	Spawned         int              `msgpack:"spawned"`

	// RNG position of the spawn source
	RNGState []byte `msgpack:"rng"`
}

func snapshotObject(o Object) ObjectSnapshot {
	return ObjectSnapshot{
		Kind:       uint8(o.Kind),
		X:          o.Pos.X,
		Y:          o.Pos.Y,
		VX:         o.Vel.X,
		VY:         o.Vel.Y,
		Radius:     o.Radius,
		Deadly:     o.Deadly,
		Color:      uint8(o.Color),
		BirthFrame: o.BirthFrame,
	}
}

func restoreObject(o ObjectSnapshot) Object {
	return Object{
		Kind:       Kind(o.Kind),
		Pos:        core.V(o.X, o.Y),
		Vel:        core.V(o.VX, o.VY),
		Radius:     o.Radius,
		Deadly:     o.Deadly,
		Color:      core.Color(o.Color),
		BirthFrame: o.BirthFrame,
	}
}

// Snapshot returns a value copy of the current run state.
func (sim *Sim) Snapshot() (Snapshot, error) {
	s := sim.state

	objects := make([]ObjectSnapshot, len(s.Objects))
	for i, o := range s.Objects {
		objects[i] = snapshotObject(o)
	}

	rngState, err := sim.src.State()
	if err != nil {
		return Snapshot{}, err
	}

	return Snapshot{
		Frame:           s.Frame,
		FPS:             s.FPS,
		Status:          string(s.Status),
		PlayerStatus:    string(s.PlayerStatus),
		Width:           s.Field.Width,
		Height:          s.Field.Height,
		Player:          snapshotObject(s.Player.Object),
		PlayerMaxSpeed:  s.Player.MaxSpeed,
		Objects:         objects,
		LastFrame:       s.LastFrame,
		LastLivingFrame: s.LastLivingFrame,
		Spawned:         s.Spawned,
		RNGState:        rngState,
	}, nil
}

// Restore puts the sim back at the position described by snap, including the
// spawn source. Params and the spawner still come from what the sim was
// built with, so snap must come from a run of the same stage and config.
func (sim *Sim) Restore(snap Snapshot) error {
	if err := sim.src.Restore(snap.RNGState); err != nil {
		return fmt.Errorf("bullet: restore snapshot: %w", err)
	}

	s := sim.state
	s.Frame = snap.Frame
	s.FPS = snap.FPS
	s.Status = Status(snap.Status)
	s.PlayerStatus = PlayerStatus(snap.PlayerStatus)
	s.Field = Field{Width: snap.Width, Height: snap.Height}
	s.Player = Player{Object: restoreObject(snap.Player), MaxSpeed: snap.PlayerMaxSpeed}
	s.LastFrame = snap.LastFrame
	s.LastLivingFrame = snap.LastLivingFrame
	s.Spawned = snap.Spawned

	clear(s.Objects)
	s.Objects = s.Objects[:0]
	for _, o := range snap.Objects {
		s.Objects = append(s.Objects, restoreObject(o))
	}
	return nil
}

// Encode returns the canonical msgpack encoding of the snapshot.
func (snap Snapshot) Encode() ([]byte, error) {
	data, err := msgpack.Marshal(&snap)
	if err != nil {
		return nil, fmt.Errorf("bullet: encode snapshot: %w", err)
	}
	return data, nil
}

// Digest returns the xxhash64 of the encoded snapshot.
func (snap Snapshot) Digest() (uint64, error) {
	data, err := snap.Encode()
	if err != nil {
		return 0, err
	}
	return xxhash.Sum64(data), nil
}

// DecodeSnapshot parses an encoded snapshot.
func DecodeSnapshot(data []byte) (Snapshot, error) {
	var snap Snapshot
	if err := msgpack.Unmarshal(data, &snap); err != nil {
		return Snapshot{}, fmt.Errorf("bullet: decode snapshot: %w", err)
	}
	return snap, nil
}
