package storage

import (
	"encoding/json"
	"io"

	"github.com/san-kum/rocketsim/internal/flight"
	"github.com/san-kum/rocketsim/internal/sim"
)

type ExportData struct {
	Run       RunMetadata          `json:"run"`
	Snapshots []flight.Snapshot    `json:"snapshots"`
	Damage    []flight.DamageEvent `json:"damage,omitempty"`
}

// ExportJSON writes the run description and every recorded snapshot.
func ExportJSON(w io.Writer, meta RunMetadata, result *sim.Result) error {
	data := ExportData{
		Run:       meta,
		Snapshots: result.Snapshots,
		Damage:    result.Damage,
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}
