package storage

import (
	"math"
	"testing"

	"github.com/lfelipessoa/kinsim/internal/kinet"
)

func sampleSeries() *kinet.Series {
	s := kinet.NewSeries([]string{"req_out", "ack_out"})
	s.Add(0, []float64{0, 1})
	s.Add(0.5, []float64{0.25, 0.75})
	s.Add(1, []float64{0.5, 0.5})
	return s
}

func TestStoreRoundTrip(t *testing.T) {
	store := New(t.TempDir())
	if err := store.Init(); err != nil {
		t.Fatalf("init failed: %v", err)
	}

	resp := 0.5
	meta := RunMetadata{
		Network:  "cascade",
		Stepper:  "rk4",
		Output:   "req_out",
		Seed:     42,
		Phases:   3,
		Response: &resp,
	}

	runID, err := store.Save(meta, sampleSeries())
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}
	if runID == "" {
		t.Fatal("empty run ID")
	}

	loaded, err := store.Load(runID)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if loaded.ID != runID || loaded.Network != "cascade" || loaded.Samples != 3 {
		t.Errorf("metadata mismatch: %+v", loaded)
	}
	if loaded.Response == nil || *loaded.Response != 0.5 {
		t.Errorf("response not persisted: %v", loaded.Response)
	}

	series, err := store.LoadSeries(runID)
	if err != nil {
		t.Fatalf("load series failed: %v", err)
	}
	if series.Len() != 3 {
		t.Fatalf("expected 3 samples, got %d", series.Len())
	}

	col, ok := series.Channel("ack_out")
	if !ok {
		t.Fatal("ack_out channel missing after round trip")
	}
	want := []float64{1, 0.75, 0.5}
	for i, v := range want {
		if math.Abs(col[i]-v) > 1e-6 {
			t.Errorf("sample %d = %.6f, want %.6f", i, col[i], v)
		}
	}
}

func TestStoreList(t *testing.T) {
	store := New(t.TempDir())
	if err := store.Init(); err != nil {
		t.Fatalf("init failed: %v", err)
	}

	runs, err := store.List()
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(runs) != 0 {
		t.Errorf("expected empty store, got %d runs", len(runs))
	}

	if _, err := store.Save(RunMetadata{Network: "celement"}, sampleSeries()); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	runs, err = store.List()
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(runs) != 1 {
		t.Fatalf("expected 1 run, got %d", len(runs))
	}
	if runs[0].Network != "celement" {
		t.Errorf("listed network = %q, want celement", runs[0].Network)
	}
}

func TestStoreSaveNeverOverwrites(t *testing.T) {
	store := New(t.TempDir())
	if err := store.Init(); err != nil {
		t.Fatalf("init failed: %v", err)
	}

	meta := RunMetadata{Network: "cascade"}
	ids := make(map[string]bool)
	for i := 0; i < 5; i++ {
		runID, err := store.Save(meta, sampleSeries())
		if err != nil {
			t.Fatalf("save %d failed: %v", i, err)
		}
		if ids[runID] {
			t.Fatalf("run ID %q issued twice", runID)
		}
		ids[runID] = true
	}

	runs, err := store.List()
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(runs) != 5 {
		t.Errorf("expected 5 stored runs, got %d", len(runs))
	}
}

func TestStoreListMissingDir(t *testing.T) {
	store := New(t.TempDir() + "/never-created")

	runs, err := store.List()
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(runs) != 0 {
		t.Errorf("expected no runs, got %d", len(runs))
	}
}

func TestLoadUnknownRun(t *testing.T) {
	store := New(t.TempDir())
	if _, err := store.Load("nope"); err == nil {
		t.Error("expected error for unknown run, got nil")
	}
	if _, err := store.LoadSeries("nope"); err == nil {
		t.Error("expected error for unknown run, got nil")
	}
}
