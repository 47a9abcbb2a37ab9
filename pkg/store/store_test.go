package store

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spampipe/spampipe/pkg/config"
	"github.com/spampipe/spampipe/pkg/learning"
)

func testSnapshot() *learning.Snapshot {
	return &learning.Snapshot{
		Vocabulary:   []string{"free", "meeting", "pills"},
		Weights:      []float64{2.5, -1.5, 3.0},
		Bias:         -0.25,
		Threshold:    0.5,
		Config:       learning.DefaultConfig(),
		TrainedAt:    time.Now().UTC().Truncate(time.Second),
		TrainingRows: 20,
	}
}

func TestFileStoreRoundtrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "models", "spam.json")
	st := NewFileStore(path)

	snap := testSnapshot()
	if err := st.Save(context.Background(), snap); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	loaded, err := st.Load(context.Background())
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if len(loaded.Vocabulary) != 3 || loaded.Vocabulary[2] != "pills" {
		t.Errorf("Vocabulary changed: %v", loaded.Vocabulary)
	}
	if loaded.Bias != snap.Bias || loaded.Threshold != snap.Threshold {
		t.Errorf("Parameters changed: bias %v threshold %v", loaded.Bias, loaded.Threshold)
	}
	if loaded.TrainingRows != 20 {
		t.Errorf("TrainingRows = %d, expected 20", loaded.TrainingRows)
	}

	// The restored snapshot rebuilds a working model
	if _, err := loaded.Model(); err != nil {
		t.Errorf("Restored snapshot does not rebuild: %v", err)
	}
}

func TestFileStoreLoadMissing(t *testing.T) {
	st := NewFileStore(filepath.Join(t.TempDir(), "missing.json"))
	if _, err := st.Load(context.Background()); err == nil {
		t.Error("Expected error for missing model file")
	}
}

func TestOpenSelectsBackend(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Model.Path = filepath.Join(t.TempDir(), "model.json")

	st, err := Open(cfg)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	if _, ok := st.(*FileStore); !ok {
		t.Errorf("Expected file store, got %T", st)
	}

	cfg.Model.Backend = "bogus"
	if _, err := Open(cfg); err == nil {
		t.Error("Expected error for unknown backend")
	}
}

// Integration test, needs a running Redis
func TestRedisStoreRoundtrip(t *testing.T) {
	url := os.Getenv("SPAMPIPE_TEST_REDIS_URL")
	if url == "" {
		t.Skip("SPAMPIPE_TEST_REDIS_URL not set, skipping Redis store test")
	}

	st, err := NewRedisStore(&config.RedisConfig{
		RedisURL: url,
		Key:      "spampipe:test:model",
	})
	if err != nil {
		t.Fatalf("Failed to connect to Redis: %v", err)
	}
	defer st.Close()

	snap := testSnapshot()
	if err := st.Save(context.Background(), snap); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	loaded, err := st.Load(context.Background())
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(loaded.Weights) != 3 || loaded.Weights[0] != 2.5 {
		t.Errorf("Weights changed: %v", loaded.Weights)
	}
}
