package chart

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spampipe/spampipe/pkg/eval"
)

func TestRenderSweep(t *testing.T) {
	points := []eval.SweepPoint{
		{Threshold: 0.1, SpamRate: 0.9, Accuracy: 0.6},
		{Threshold: 0.5, SpamRate: 0.5, Accuracy: 0.95},
		{Threshold: 0.9, SpamRate: 0.2, Accuracy: 0.7},
	}

	path := filepath.Join(t.TempDir(), "sweep.png")
	if err := RenderSweep(points, path); err != nil {
		t.Fatalf("RenderSweep failed: %v", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("Chart file missing: %v", err)
	}
	if info.Size() == 0 {
		t.Error("Chart file is empty")
	}
}

func TestRenderSweepNoPoints(t *testing.T) {
	if err := RenderSweep(nil, filepath.Join(t.TempDir(), "x.png")); err == nil {
		t.Error("Expected error for empty sweep")
	}
}
