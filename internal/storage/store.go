package storage

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/gocarina/gocsv"

	"github.com/san-kum/binsim/internal/config"
	"github.com/san-kum/binsim/internal/sim"
)

const (
	metadataFile = "metadata.json"
	framesFile   = "frames.csv"
	configFile   = "config.yaml"

	// runs being written live under this prefix until renamed into place
	tempPrefix = ".saving-"
)

// Store keeps one directory per run holding its metadata, the config it
// ran with and per-frame telemetry. Particle state is never written.
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
	ID        string             `json:"id"`
	Preset    string             `json:"preset"`
	Timestamp time.Time          `json:"timestamp"`
	Seed      int64              `json:"seed"`
	Particles int                `json:"particles"`
	Frames    int                `json:"frames"`
	FrameDt   float64            `json:"frame_dt"`
	Layout    string             `json:"layout"`
	Errors    []string           `json:"errors,omitempty"`
	Metrics   map[string]float64 `json:"metrics"`
}

// FrameRecord is one row of frames.csv.
type FrameRecord struct {
	Frame          int     `csv:"frame"`
	Time           float64 `csv:"time"`
	KineticEnergy  float64 `csv:"kinetic_energy"`
	MeanSpeed      float64 `csv:"mean_speed"`
	MaxOccupancy   int     `csv:"max_occupancy"`
	Candidates     int     `csv:"candidates"`
	Hits           int     `csv:"hits"`
	AttractionHits int     `csv:"attraction_hits"`
	PointerHits    int     `csv:"pointer_hits"`
	Bounces        int     `csv:"bounces"`
}

func RecordsFromSamples(samples []sim.Sample) []*FrameRecord {
	records := make([]*FrameRecord, len(samples))
	for i, s := range samples {
		records[i] = &FrameRecord{
			Frame:          s.Frame,
			Time:           s.Time,
			KineticEnergy:  s.KineticEnergy,
			MeanSpeed:      s.MeanSpeed,
			MaxOccupancy:   s.MaxOccupancy,
			Candidates:     s.Stats.Repulsion.Candidates,
			Hits:           s.Stats.Repulsion.Hits,
			AttractionHits: s.Stats.Attraction.Hits,
			PointerHits:    s.Stats.Pointer.Hits,
			Bounces:        s.Stats.Bounces,
		}
	}
	return records
}

// Save writes a new run directory and returns its id. meta.ID, Timestamp
// and Metrics are filled in from the result when empty. NaN or infinite
// metrics are left out of the metadata and noted in its Errors. The run
// is written under a temporary name and renamed into place, so a failed
// save leaves nothing behind; saving under an existing id replaces it.
func (s *Store) Save(meta RunMetadata, cfg *config.Config, result *sim.Result) (id string, err error) {
	if meta.Timestamp.IsZero() {
		meta.Timestamp = time.Now()
	}
	if meta.ID == "" {
		name := meta.Preset
		if name == "" {
			name = "run"
		}
		meta.ID = fmt.Sprintf("%s_%d", name, meta.Timestamp.UnixNano())
	}
	meta.Frames = result.FramesRun
	if meta.Metrics == nil {
		meta.Metrics = result.Metrics
	}
	meta.Metrics, meta.Errors = finiteMetrics(meta.Metrics, meta.Errors)
	for _, e := range result.Errors {
		meta.Errors = append(meta.Errors, e.Error())
	}

	runDir := filepath.Join(s.baseDir, meta.ID)
	if err := os.MkdirAll(filepath.Dir(runDir), 0755); err != nil {
		return "", err
	}
	tmp, err := os.MkdirTemp(s.baseDir, tempPrefix)
	if err != nil {
		return "", err
	}
	defer func() {
		if err != nil {
			os.RemoveAll(tmp)
		}
	}()
	if err = os.Chmod(tmp, 0755); err != nil {
		return "", err
	}

	if err = writeRun(tmp, meta, cfg, result); err != nil {
		return "", err
	}
	if info, statErr := os.Stat(runDir); statErr == nil && info.IsDir() {
		if err = os.RemoveAll(runDir); err != nil {
			return "", err
		}
	}
	if err = os.Rename(tmp, runDir); err != nil {
		return "", err
	}
	return meta.ID, nil
}

func writeRun(dir string, meta RunMetadata, cfg *config.Config, result *sim.Result) error {
	if err := writeJSON(filepath.Join(dir, metadataFile), meta); err != nil {
		return fmt.Errorf("writing %s: %w", metadataFile, err)
	}
	if cfg != nil {
		if err := config.Save(filepath.Join(dir, configFile), cfg); err != nil {
			return fmt.Errorf("writing %s: %w", configFile, err)
		}
	}

	f, err := os.Create(filepath.Join(dir, framesFile))
	if err != nil {
		return err
	}
	defer f.Close()

	if err := gocsv.MarshalFile(RecordsFromSamples(result.Samples), f); err != nil {
		return fmt.Errorf("writing %s: %w", framesFile, err)
	}
	return f.Close()
}

// finiteMetrics copies m without its NaN and infinite values, which json
// cannot encode, and notes each one in errs.
func finiteMetrics(m map[string]float64, errs []string) (map[string]float64, []string) {
	if m == nil {
		return nil, errs
	}
	out := make(map[string]float64, len(m))
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		v := m[name]
		if math.IsNaN(v) || math.IsInf(v, 0) {
			errs = append(errs, fmt.Sprintf("metric %s is %v", name, v))
			continue
		}
		out[name] = v
	}
	return out, errs
}

// List returns every readable run, oldest first.
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
		if !entry.IsDir() || strings.HasPrefix(entry.Name(), tempPrefix) {
			continue
		}
		meta, err := s.Load(entry.Name())
		if err != nil {
			continue
		}
		runs = append(runs, *meta)
	}

	sort.Slice(runs, func(i, j int) bool { return runs[i].Timestamp.Before(runs[j].Timestamp) })
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

// LoadConfig returns the config a run was started with.
func (s *Store) LoadConfig(runID string) (*config.Config, error) {
	return config.Load(filepath.Join(s.baseDir, runID, configFile))
}

func (s *Store) LoadFrames(runID string) ([]*FrameRecord, error) {
	f, err := os.Open(filepath.Join(s.baseDir, runID, framesFile))
	if err != nil {
		return nil, err
	}
	defer f.Close()

	records := []*FrameRecord{}
	if err := gocsv.UnmarshalFile(f, &records); err != nil {
		return nil, fmt.Errorf("reading %s: %w", framesFile, err)
	}
	return records, nil
}

// Column extracts one named series from records, for plotting.
func Column(records []*FrameRecord, name string) ([]float64, error) {
	pick, ok := columns[name]
	if !ok {
		return nil, fmt.Errorf("unknown column %q", name)
	}
	out := make([]float64, len(records))
	for i, r := range records {
		out[i] = pick(r)
	}
	return out, nil
}

var columns = map[string]func(*FrameRecord) float64{
	"kinetic_energy":  func(r *FrameRecord) float64 { return r.KineticEnergy },
	"mean_speed":      func(r *FrameRecord) float64 { return r.MeanSpeed },
	"max_occupancy":   func(r *FrameRecord) float64 { return float64(r.MaxOccupancy) },
	"candidates":      func(r *FrameRecord) float64 { return float64(r.Candidates) },
	"hits":            func(r *FrameRecord) float64 { return float64(r.Hits) },
	"attraction_hits": func(r *FrameRecord) float64 { return float64(r.AttractionHits) },
	"pointer_hits":    func(r *FrameRecord) float64 { return float64(r.PointerHits) },
	"bounces":         func(r *FrameRecord) float64 { return float64(r.Bounces) },
}

// Columns lists the names accepted by Column.
func Columns() []string {
	names := make([]string, 0, len(columns))
	for name := range columns {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func writeJSON(path string, v any) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
