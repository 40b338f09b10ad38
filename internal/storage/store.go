// Package storage persists completed runs: one directory per run with a
// metadata JSON and the trajectory as CSV.
package storage

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/lfelipessoa/kinsim/internal/export"
	"github.com/lfelipessoa/kinsim/internal/kinet"
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
	ID        string    `json:"id"`
	Network   string    `json:"network"`
	Stepper   string    `json:"stepper"`
	Output    string    `json:"output"`
	Timestamp time.Time `json:"timestamp"`
	Seed      int64     `json:"seed"`
	Start     float64   `json:"start"`
	End       float64   `json:"end"`
	Phases    int       `json:"phases"`
	Samples   int       `json:"samples"`

	// Response is nil when the output never switched.
	Response *float64 `json:"response_time,omitempty"`
}

// Save persists one run and returns its generated ID. IDs are derived
// from the network name and a nanosecond timestamp; on a collision a
// numeric suffix is appended rather than overwriting the earlier run.
func (s *Store) Save(meta RunMetadata, series *kinet.Series) (string, error) {
	if err := os.MkdirAll(s.baseDir, 0755); err != nil {
		return "", err
	}

	stamp := time.Now().UnixNano()
	runID := fmt.Sprintf("%s_%d", meta.Network, stamp)
	runDir := filepath.Join(s.baseDir, runID)
	for n := 1; ; n++ {
		err := os.Mkdir(runDir, 0755)
		if err == nil {
			break
		}
		if !os.IsExist(err) {
			return "", err
		}
		runID = fmt.Sprintf("%s_%d_%d", meta.Network, stamp, n)
		runDir = filepath.Join(s.baseDir, runID)
	}

	meta.ID = runID
	meta.Timestamp = time.Now()
	meta.Start = series.Start()
	meta.End = series.End()
	meta.Samples = series.Len()

	metaFile, err := os.Create(filepath.Join(runDir, "metadata.json"))
	if err != nil {
		return "", err
	}
	defer metaFile.Close()

	enc := json.NewEncoder(metaFile)
	enc.SetIndent("", "  ")
	if err := enc.Encode(meta); err != nil {
		return "", err
	}

	csvFile, err := os.Create(filepath.Join(runDir, "series.csv"))
	if err != nil {
		return "", err
	}
	defer csvFile.Close()

	if err := export.WriteSeries(csvFile, series); err != nil {
		return "", err
	}
	return runID, nil
}

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
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, "metadata.json"))
	if err != nil {
		return nil, err
	}
	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}
	return &meta, nil
}

// LoadSeries reads a stored trajectory back into a Series.
func (s *Store) LoadSeries(runID string) (*kinet.Series, error) {
	file, err := os.Open(filepath.Join(s.baseDir, runID, "series.csv"))
	if err != nil {
		return nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	records, err := r.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) < 2 {
		return nil, fmt.Errorf("run %s: empty series", runID)
	}

	header := records[0]
	if len(header) < 2 || header[0] != "time" {
		return nil, fmt.Errorf("run %s: malformed series header", runID)
	}

	series := kinet.NewSeries(header[1:])
	vals := make([]float64, len(header)-1)
	for _, record := range records[1:] {
		if len(record) != len(header) {
			return nil, fmt.Errorf("run %s: ragged series row", runID)
		}
		t, err := strconv.ParseFloat(record[0], 64)
		if err != nil {
			return nil, err
		}
		for i, cell := range record[1:] {
			if vals[i], err = strconv.ParseFloat(cell, 64); err != nil {
				return nil, err
			}
		}
		series.Add(t, vals)
	}
	return series, nil
}
