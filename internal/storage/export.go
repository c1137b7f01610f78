package storage

import (
	"encoding/json"
	"io"
	"os"
	"path/filepath"

	"github.com/gocarina/gocsv"
)

type ExportData struct {
	Run    RunMetadata    `json:"run"`
	Frames []*FrameRecord `json:"frames"`
}

func (s *Store) exportData(runID string) (*ExportData, error) {
	meta, err := s.Load(runID)
	if err != nil {
		return nil, err
	}
	frames, err := s.LoadFrames(runID)
	if err != nil {
		return nil, err
	}
	return &ExportData{Run: *meta, Frames: frames}, nil
}

// ExportJSON writes the metadata and telemetry of a run to w.
func (s *Store) ExportJSON(w io.Writer, runID string) error {
	data, err := s.exportData(runID)
	if err != nil {
		return err
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(data)
}

// ExportCSV copies the telemetry of a run to w.
func (s *Store) ExportCSV(w io.Writer, runID string) error {
	frames, err := s.LoadFrames(runID)
	if err != nil {
		return err
	}
	return gocsv.Marshal(frames, w)
}

// ExportFile writes the run to path, as JSON when the extension is .json
// and as CSV otherwise.
func (s *Store) ExportFile(path, runID string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	if filepath.Ext(path) == ".json" {
		return s.ExportJSON(f, runID)
	}
	return s.ExportCSV(f, runID)
}
