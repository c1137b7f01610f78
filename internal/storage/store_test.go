package storage

import (
	"bytes"
	"encoding/json"
	"errors"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/san-kum/binsim/internal/config"
	"github.com/san-kum/binsim/internal/particles"
	"github.com/san-kum/binsim/internal/sim"
)

func testResult() *sim.Result {
	return &sim.Result{
		Samples: []sim.Sample{
			{Frame: 0, Time: 0.5, KineticEnergy: 12, MeanSpeed: 1.5, MaxOccupancy: 4,
				Stats: particles.StepStats{Repulsion: particles.Interaction{Candidates: 40, Hits: 6}, Bounces: 1}},
			{Frame: 1, Time: 1.0, KineticEnergy: 10, MeanSpeed: 1.25, MaxOccupancy: 5,
				Stats: particles.StepStats{Attraction: particles.Interaction{Hits: 3}, Pointer: particles.Interaction{Hits: 2}}},
		},
		Metrics:   map[string]float64{"kinetic_energy": 11},
		FramesRun: 2,
	}
}

func newStore(t *testing.T) *Store {
	t.Helper()
	st := New(t.TempDir())
	if err := st.Init(); err != nil {
		t.Fatalf("init failed: %v", err)
	}
	return st
}

func TestStoreSaveLoad(t *testing.T) {
	st := newStore(t)

	runID, err := st.Save(RunMetadata{Preset: "calm", Seed: 42, Particles: 100}, config.DefaultConfig(), testResult())
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}
	if !strings.HasPrefix(runID, "calm_") {
		t.Errorf("unexpected run id %q", runID)
	}

	meta, err := st.Load(runID)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if meta.Seed != 42 || meta.Particles != 100 {
		t.Errorf("unexpected metadata %+v", meta)
	}
	if meta.Frames != 2 {
		t.Errorf("expected 2 frames, got %d", meta.Frames)
	}
	if meta.Metrics["kinetic_energy"] != 11 {
		t.Errorf("expected kinetic_energy 11, got %f", meta.Metrics["kinetic_energy"])
	}

	frames, err := st.LoadFrames(runID)
	if err != nil {
		t.Fatalf("load frames failed: %v", err)
	}
	if len(frames) != 2 {
		t.Fatalf("expected 2 frames, got %d", len(frames))
	}
	if frames[0].Candidates != 40 || frames[0].Hits != 6 || frames[0].Bounces != 1 {
		t.Errorf("unexpected first frame %+v", *frames[0])
	}
	if frames[1].AttractionHits != 3 || frames[1].PointerHits != 2 || frames[1].MeanSpeed != 1.25 {
		t.Errorf("unexpected second frame %+v", *frames[1])
	}

	cfg, err := st.LoadConfig(runID)
	if err != nil {
		t.Fatalf("load config failed: %v", err)
	}
	if cfg.Population.Count != config.DefaultCount {
		t.Errorf("expected default count, got %d", cfg.Population.Count)
	}
}

func TestStoreSaveErrors(t *testing.T) {
	st := newStore(t)
	result := testResult()
	result.Errors = []error{errors.New("diverged")}

	runID, err := st.Save(RunMetadata{}, nil, result)
	if err != nil {
		t.Fatal(err)
	}
	meta, _ := st.Load(runID)
	if len(meta.Errors) != 1 || meta.Errors[0] != "diverged" {
		t.Errorf("expected recorded error, got %v", meta.Errors)
	}
	if _, err := st.LoadConfig(runID); err == nil {
		t.Error("expected missing config for a run saved without one")
	}
}

func TestStoreSaveNonFiniteMetrics(t *testing.T) {
	st := newStore(t)
	result := testResult()
	result.Metrics = map[string]float64{"kinetic_energy": math.Inf(1), "mean_speed": 1, "max_speed": math.NaN()}

	runID, err := st.Save(RunMetadata{}, nil, result)
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}
	meta, err := st.Load(runID)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if meta.Metrics["mean_speed"] != 1 || len(meta.Metrics) != 1 {
		t.Errorf("expected only the finite metric, got %v", meta.Metrics)
	}
	want := []string{"metric kinetic_energy is +Inf", "metric max_speed is NaN"}
	if len(meta.Errors) != len(want) || meta.Errors[0] != want[0] || meta.Errors[1] != want[1] {
		t.Errorf("errors = %v, want %v", meta.Errors, want)
	}
	if !math.IsInf(result.Metrics["kinetic_energy"], 1) {
		t.Error("result metrics were modified")
	}

	runs, err := st.List()
	if err != nil || len(runs) != 1 {
		t.Errorf("expected the run to be listed, got %v, %v", runs, err)
	}
}

func TestStoreSaveFailureLeavesNothing(t *testing.T) {
	st := newStore(t)
	blocker := filepath.Join(st.baseDir, "taken")
	if err := os.WriteFile(blocker, []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}

	if _, err := st.Save(RunMetadata{ID: "taken"}, config.DefaultConfig(), testResult()); err == nil {
		t.Fatal("expected save over a regular file to fail")
	}
	entries, err := os.ReadDir(st.baseDir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 || entries[0].Name() != "taken" || entries[0].IsDir() {
		t.Errorf("expected only the original file, found %v", entries)
	}
	runs, _ := st.List()
	if len(runs) != 0 {
		t.Errorf("expected no runs, got %v", runs)
	}
}

func TestStoreSaveReplacesID(t *testing.T) {
	st := newStore(t)
	if _, err := st.Save(RunMetadata{ID: "same", Seed: 1}, nil, testResult()); err != nil {
		t.Fatal(err)
	}
	if _, err := st.Save(RunMetadata{ID: "same", Seed: 2}, nil, testResult()); err != nil {
		t.Fatal(err)
	}
	meta, err := st.Load("same")
	if err != nil {
		t.Fatal(err)
	}
	if meta.Seed != 2 {
		t.Errorf("expected the second save to win, got seed %d", meta.Seed)
	}
}

func TestStoreList(t *testing.T) {
	st := newStore(t)

	runs, err := st.List()
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(runs) != 0 {
		t.Errorf("expected 0 runs, got %d", len(runs))
	}

	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	for _, off := range []int{2, 0, 1} {
		meta := RunMetadata{Timestamp: base.Add(time.Duration(off) * time.Minute), Seed: int64(off)}
		if _, err := st.Save(meta, nil, testResult()); err != nil {
			t.Fatal(err)
		}
	}

	runs, err = st.List()
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(runs) != 3 {
		t.Fatalf("expected 3 runs, got %d", len(runs))
	}
	for i, r := range runs {
		if r.Seed != int64(i) {
			t.Errorf("runs not sorted by time: %d has seed %d", i, r.Seed)
		}
	}
}

func TestStoreListMissingDir(t *testing.T) {
	st := New(filepath.Join(t.TempDir(), "nope"))
	runs, err := st.List()
	if err != nil || len(runs) != 0 {
		t.Errorf("expected empty list, got %v, %v", runs, err)
	}
}

func TestStoreFileStructure(t *testing.T) {
	st := newStore(t)
	runID, err := st.Save(RunMetadata{ID: "fixed"}, config.DefaultConfig(), testResult())
	if err != nil {
		t.Fatal(err)
	}
	if runID != "fixed" {
		t.Errorf("expected explicit id to be kept, got %q", runID)
	}

	for _, name := range []string{metadataFile, framesFile, configFile} {
		if _, err := os.Stat(filepath.Join(st.baseDir, runID, name)); err != nil {
			t.Errorf("%s missing: %v", name, err)
		}
	}

	data, _ := os.ReadFile(filepath.Join(st.baseDir, runID, framesFile))
	header := strings.SplitN(string(data), "\n", 2)[0]
	if !strings.HasPrefix(header, "frame,time,kinetic_energy") {
		t.Errorf("unexpected csv header %q", header)
	}
}

func TestColumn(t *testing.T) {
	records := RecordsFromSamples(testResult().Samples)
	ke, err := Column(records, "kinetic_energy")
	if err != nil {
		t.Fatal(err)
	}
	if len(ke) != 2 || ke[0] != 12 || ke[1] != 10 {
		t.Errorf("unexpected series %v", ke)
	}
	if _, err := Column(records, "mass"); err == nil {
		t.Error("expected error for unknown column")
	}
	if len(Columns()) != len(columns) {
		t.Error("Columns should list every column")
	}
}

func TestExportJSON(t *testing.T) {
	st := newStore(t)
	runID, _ := st.Save(RunMetadata{Seed: 9}, nil, testResult())

	var buf bytes.Buffer
	if err := st.ExportJSON(&buf, runID); err != nil {
		t.Fatal(err)
	}
	var data ExportData
	if err := json.Unmarshal(buf.Bytes(), &data); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if data.Run.Seed != 9 || len(data.Frames) != 2 {
		t.Errorf("unexpected export %+v", data)
	}
}

func TestExportFile(t *testing.T) {
	st := newStore(t)
	runID, _ := st.Save(RunMetadata{}, nil, testResult())

	path := filepath.Join(t.TempDir(), "out.csv")
	if err := st.ExportFile(path, runID); err != nil {
		t.Fatal(err)
	}
	data, _ := os.ReadFile(path)
	if lines := strings.Count(strings.TrimSpace(string(data)), "\n"); lines != 2 {
		t.Errorf("expected header and 2 rows, got %d newlines", lines)
	}
}
