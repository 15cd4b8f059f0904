package storage

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/san-kum/rocketsim/internal/dynamo"
	"github.com/san-kum/rocketsim/internal/flight"
	"github.com/san-kum/rocketsim/internal/models"
)

// Columns are the telemetry CSV columns after time.
var Columns = []string{
	"x", "y", "vx", "vy", "angle", "omega",
	"fuel", "health", "altitude", "speed", "state",
	"main", "rear", "left", "right",
}

func row(s flight.Snapshot) []float64 {
	return []float64{
		s.Position.X, s.Position.Y, s.Velocity.X, s.Velocity.Y, s.Angle, s.AngularVelocity,
		s.Fuel, s.Health, s.Altitude, s.Speed(), float64(s.FlightState),
		s.ThrusterPowers[models.Main], s.ThrusterPowers[models.Rear],
		s.ThrusterPowers[models.Left], s.ThrusterPowers[models.Right],
	}
}

// WriteCSV writes one row per snapshot.
func WriteCSV(w io.Writer, snaps []flight.Snapshot) error {
	cw := csv.NewWriter(w)

	header := append([]string{"time"}, Columns...)
	if err := cw.Write(header); err != nil {
		return err
	}
	for _, s := range snaps {
		rec := []string{strconv.FormatFloat(s.Time, 'f', 6, 64)}
		for _, v := range row(s) {
			rec = append(rec, strconv.FormatFloat(v, 'f', 6, 64))
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// Telemetry is a telemetry table read back from CSV.
type Telemetry struct {
	Columns []string
	Times   []float64
	Rows    [][]float64
}

// Column returns one named column, aligned with Times.
func (t *Telemetry) Column(name string) ([]float64, error) {
	for i, c := range t.Columns {
		if c != name {
			continue
		}
		out := make([]float64, 0, len(t.Rows))
		for n, r := range t.Rows {
			if i >= len(r) {
				return nil, fmt.Errorf("telemetry row %d has %d fields, column %q is %d: %w", n, len(r), name, i, dynamo.ErrDimensionMismatch)
			}
			out = append(out, r[i])
		}
		return out, nil
	}
	return nil, fmt.Errorf("no telemetry column %q", name)
}

// ReadCSV parses the format written by WriteCSV. Rows with an unparsable
// time are skipped.
func ReadCSV(r io.Reader) (*Telemetry, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	records, err := cr.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return &Telemetry{}, nil
	}

	t := &Telemetry{
		Columns: records[0][1:],
		Times:   make([]float64, 0, len(records)-1),
		Rows:    make([][]float64, 0, len(records)-1),
	}
	for _, record := range records[1:] {
		if len(record) == 0 {
			continue
		}
		tm, err := strconv.ParseFloat(record[0], 64)
		if err != nil {
			continue
		}
		vals := make([]float64, 0, len(record)-1)
		for _, field := range record[1:] {
			v, err := strconv.ParseFloat(field, 64)
			if err != nil {
				v = 0
			}
			vals = append(vals, v)
		}
		t.Times = append(t.Times, tm)
		t.Rows = append(t.Rows, vals)
	}
	return t, nil
}
