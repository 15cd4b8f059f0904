package storage

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/san-kum/rocketsim/internal/config"
	"github.com/san-kum/rocketsim/internal/flight"
	"github.com/san-kum/rocketsim/internal/sim"
)

const (
	metadataFile  = "metadata.json"
	configFile    = "config.yaml"
	telemetryFile = "telemetry.csv"
)

type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

type RunMetadata struct {
	ID         string               `json:"id"`
	Name       string               `json:"name"`
	Timestamp  time.Time            `json:"timestamp"`
	Dt         float64              `json:"dt"`
	Duration   float64              `json:"duration"`
	Integrator string               `json:"integrator"`
	Pilot      string               `json:"pilot"`
	Home       string               `json:"home"`
	Steps      int                  `json:"steps"`
	FinalState string               `json:"final_state"`
	Metrics    map[string]float64   `json:"metrics"`
	Events     []flight.StateChange `json:"events,omitempty"`
}

// NewMetadata describes a finished run of cfg.
func NewMetadata(name string, cfg *config.Config, result *sim.Result) RunMetadata {
	return RunMetadata{
		Name:       name,
		Timestamp:  time.Now(),
		Dt:         cfg.Dt,
		Duration:   cfg.Duration,
		Integrator: cfg.Integrator,
		Pilot:      cfg.Pilot.Name,
		Home:       cfg.Home,
		Steps:      result.StepsTaken,
		FinalState: result.Final().FlightState.String(),
		Metrics:    result.Metrics,
		Events:     result.Events,
	}
}

// Save writes the run metadata, the config it ran with and its telemetry
// into a new run directory and returns the run id.
func (s *Store) Save(name string, cfg *config.Config, result *sim.Result) (string, error) {
	meta := NewMetadata(name, cfg, result)
	runID, runDir, err := s.newRunDir(name, meta.Timestamp)
	if err != nil {
		return "", err
	}
	meta.ID = runID

	metaFile, err := os.Create(filepath.Join(runDir, metadataFile))
	if err != nil {
		return "", err
	}
	defer metaFile.Close()

	enc := json.NewEncoder(metaFile)
	enc.SetIndent("", "  ")
	if err := enc.Encode(meta); err != nil {
		return "", err
	}

	if err := config.Save(filepath.Join(runDir, configFile), cfg); err != nil {
		return "", err
	}

	csvFile, err := os.Create(filepath.Join(runDir, telemetryFile))
	if err != nil {
		return "", err
	}
	defer csvFile.Close()

	if err := WriteCSV(csvFile, result.Snapshots); err != nil {
		return "", err
	}
	return runID, nil
}

func (s *Store) newRunDir(name string, ts time.Time) (string, string, error) {
	base := fmt.Sprintf("%s_%d", name, ts.Unix())
	runID := base
	for i := 2; ; i++ {
		runDir := filepath.Join(s.baseDir, runID)
		err := os.Mkdir(runDir, 0755)
		if err == nil {
			return runID, runDir, nil
		}
		if !os.IsExist(err) {
			return "", "", err
		}
		runID = fmt.Sprintf("%s_%d", base, i)
	}
}

// List returns the stored runs, oldest first.
func (s *Store) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []RunMetadata{}, nil
		}
		return nil, err
	}

	runs := make([]RunMetadata, 0)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		meta, err := s.Load(entry.Name())
		if err != nil {
			continue
		}
		runs = append(runs, *meta)
	}

	sort.SliceStable(runs, func(i, j int) bool {
		if !runs[i].Timestamp.Equal(runs[j].Timestamp) {
			return runs[i].Timestamp.Before(runs[j].Timestamp)
		}
		return runs[i].ID < runs[j].ID
	})
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, metadataFile))
	if err != nil {
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}
	return &meta, nil
}

// LoadConfig reads the config a run was made with.
func (s *Store) LoadConfig(runID string) (*config.Config, error) {
	return config.Load(filepath.Join(s.baseDir, runID, configFile))
}

func (s *Store) LoadTelemetry(runID string) (*Telemetry, error) {
	file, err := os.Open(filepath.Join(s.baseDir, runID, telemetryFile))
	if err != nil {
		return nil, err
	}
	defer file.Close()
	return ReadCSV(file)
}

// CopyTelemetry streams a run's raw telemetry CSV to w.
func (s *Store) CopyTelemetry(runID string, w io.Writer) error {
	file, err := os.Open(filepath.Join(s.baseDir, runID, telemetryFile))
	if err != nil {
		return err
	}
	defer file.Close()
	_, err = io.Copy(w, file)
	return err
}
