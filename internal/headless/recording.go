package headless

import (
	"fmt"
	"os"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/aizikovskyi/bullet/internal/games/bullet"
)

// SaveRecording writes rec to path as msgpack.
func SaveRecording(path string, rec bullet.Recording) error {
	data, err := msgpack.Marshal(&rec)
	if err != nil {
		return fmt.Errorf("headless: cannot encode recording: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("headless: cannot write recording %s: %w", path, err)
	}
	return nil
}

// LoadRecording reads a recording written by SaveRecording.
func LoadRecording(path string) (bullet.Recording, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return bullet.Recording{}, fmt.Errorf("headless: cannot read recording %s: %w", path, err)
	}
	var rec bullet.Recording
	if err := msgpack.Unmarshal(data, &rec); err != nil {
		return bullet.Recording{}, fmt.Errorf("headless: cannot decode recording %s: %w", path, err)
	}
	return rec, nil
}
