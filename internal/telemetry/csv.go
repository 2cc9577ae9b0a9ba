// Package telemetry writes per-tick simulation records as CSV.
package telemetry

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/gocarina/gocsv"

	"github.com/aizikovskyi/bullet/internal/games/bullet"
)

// FrameRecord is one CSV row, written after each tick.
type FrameRecord struct {
	Frame        int     `csv:"frame"`
	Seed         uint64  `csv:"seed"`
	Objects      int     `csv:"objects"`
	Spawned      int     `csv:"spawned"`
	PlayerX      float64 `csv:"player_x"`
	PlayerY      float64 `csv:"player_y"`
	Status       string  `csv:"status"`
	PlayerStatus string  `csv:"player_status"`
	Outcome      string  `csv:"outcome"`
}

// CSVWriter streams FrameRecords to a writer. It satisfies bullet.Observer;
// because observers cannot fail, the first write error is kept for Err.
type CSVWriter struct {
	out           io.Writer
	closer        io.Closer
	headerWritten bool
	rows          int
	err           error
}

// NewCSVWriter writes records to out.
func NewCSVWriter(out io.Writer) *CSVWriter {
	return &CSVWriter{out: out}
}

// CreateCSV creates the file at path, including parent directories.
func CreateCSV(path string) (*CSVWriter, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("telemetry: creating output directory: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("telemetry: creating %s: %w", path, err)
	}
	return &CSVWriter{out: f, closer: f}, nil
}

// Write appends one record. The first write includes headers.
func (w *CSVWriter) Write(rec FrameRecord) error {
	records := []FrameRecord{rec}

	if !w.headerWritten {
		if err := gocsv.Marshal(records, w.out); err != nil {
			return fmt.Errorf("telemetry: writing record: %w", err)
		}
		w.headerWritten = true
	} else {
		if err := gocsv.MarshalWithoutHeaders(records, w.out); err != nil {
			return fmt.Errorf("telemetry: writing record: %w", err)
		}
	}

	w.rows++
	return nil
}

// OnStep satisfies bullet.Observer.
func (w *CSVWriter) OnStep(s *bullet.State, r bullet.StepReport) {
	if w.err != nil || !r.Tick.Ticked {
		return
	}
	w.err = w.Write(FrameRecord{
		Frame:        s.Frame,
		Seed:         r.Seed,
		Objects:      len(s.Objects),
		Spawned:      s.Spawned,
		PlayerX:      s.Player.Pos.X,
		PlayerY:      s.Player.Pos.Y,
		Status:       string(s.Status),
		PlayerStatus: string(s.PlayerStatus),
		Outcome:      string(r.Outcome),
	})
}

// Rows returns the number of records written.
func (w *CSVWriter) Rows() int {
	return w.rows
}

// Err returns the first error hit while observing.
func (w *CSVWriter) Err() error {
	return w.err
}

// Close closes the underlying file, if CreateCSV opened one.
func (w *CSVWriter) Close() error {
	if w.closer == nil {
		return w.err
	}
	if err := w.closer.Close(); err != nil {
		return fmt.Errorf("telemetry: closing output: %w", err)
	}
	return w.err
}

// ReadCSV parses records written by a CSVWriter.
func ReadCSV(in io.Reader) ([]FrameRecord, error) {
	var records []FrameRecord
	if err := gocsv.Unmarshal(in, &records); err != nil {
		return nil, fmt.Errorf("telemetry: reading records: %w", err)
	}
	return records, nil
}
