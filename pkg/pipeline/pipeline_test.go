package pipeline

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/spampipe/spampipe/pkg/dataset"
)

// recordStep tags each row count it saw into a shared log, so tests can
// check fit order
type recordStep struct {
	id  string
	log *[]string
}

func (s *recordStep) Name() string { return s.id }

func (s *recordStep) Fit(ds *dataset.Dataset) (Stage, error) {
	*s.log = append(*s.log, s.id)
	return &recordStage{id: s.id}, nil
}

type recordStage struct {
	id string
}

func (s *recordStage) Name() string { return s.id }

func (s *recordStage) Transform(ds *dataset.Dataset) (*dataset.Dataset, error) {
	return ds, nil
}

// failStep fails at fit with a sentinel error
type failStep struct {
	err error
}

func (s *failStep) Name() string { return "boom" }

func (s *failStep) Fit(ds *dataset.Dataset) (Stage, error) {
	return nil, s.err
}

func TestAppendOrderPreserved(t *testing.T) {
	ctx := NewContext(1)
	var log []string

	p := New(ctx).
		AppendBy(func(c *Context) Step { return &recordStep{id: "first", log: &log} }).
		AppendBy(func(c *Context) Step { return &recordStep{id: "second", log: &log} }).
		AppendBy(func(c *Context) Step { return &recordStep{id: "third", log: &log} })

	if p.Len() != 3 {
		t.Fatalf("Expected 3 steps, got %d", p.Len())
	}

	names := p.StepNames()
	want := []string{"first", "second", "third"}
	for i, name := range want {
		if names[i] != name {
			t.Errorf("Step %d is %q, expected %q", i, names[i], name)
		}
	}

	model, err := p.Fit(dataset.FromMessages([]string{"hello"}))
	if err != nil {
		t.Fatalf("Fit failed: %v", err)
	}

	// Steps were fitted in append order
	for i, name := range want {
		if log[i] != name {
			t.Errorf("Fit order position %d is %q, expected %q", i, log[i], name)
		}
		if model.StageNames()[i] != name {
			t.Errorf("Stage %d is %q, expected %q", i, model.StageNames()[i], name)
		}
	}
}

func TestFitErrorCarriesPosition(t *testing.T) {
	ctx := NewContext(1)
	var log []string
	sentinel := errors.New("schema mismatch")

	p := New(ctx).
		Append(&recordStep{id: "ok", log: &log}).
		Append(&failStep{err: sentinel})

	_, err := p.Fit(dataset.FromMessages([]string{"x"}))
	if err == nil {
		t.Fatal("Expected fit error")
	}
	if !errors.Is(err, sentinel) {
		t.Errorf("Original error not preserved: %v", err)
	}
	if !strings.Contains(err.Error(), "step 2") {
		t.Errorf("Expected failing position in error, got: %v", err)
	}
}

func TestCacheCheckpointIsNeutral(t *testing.T) {
	ctx := NewContext(1)
	var log []string

	plain := New(ctx).Append(&recordStep{id: "a", log: &log})
	hinted := New(ctx).Append(&recordStep{id: "a", log: &log})
	hinted.AppendCacheCheckpoint()

	ds := dataset.FromMessages([]string{"one", "two"})

	m1, err := plain.Fit(ds)
	if err != nil {
		t.Fatalf("Fit failed: %v", err)
	}
	m2, err := hinted.Fit(ds)
	if err != nil {
		t.Fatalf("Fit failed: %v", err)
	}

	out1, err := m1.Transform(ds)
	if err != nil {
		t.Fatalf("Transform failed: %v", err)
	}
	out2, err := m2.Transform(ds)
	if err != nil {
		t.Fatalf("Transform failed: %v", err)
	}

	t1, _ := out1.Strings(dataset.ColText)
	t2, _ := out2.Strings(dataset.ColText)
	if fmt.Sprint(t1) != fmt.Sprint(t2) {
		t.Errorf("Checkpoint changed output: %v vs %v", t1, t2)
	}
}

func TestCatalog(t *testing.T) {
	ctx := NewContext(1)
	var log []string

	factory := func(c *Context) Step { return &recordStep{id: "tok", log: &log} }
	if err := ctx.Register("tok", factory); err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	if err := ctx.Register("tok", factory); err == nil {
		t.Error("Expected error for duplicate registration")
	}
	if err := ctx.Register("nil", nil); err == nil {
		t.Error("Expected error for nil factory")
	}

	if _, ok := ctx.Factory("tok"); !ok {
		t.Error("Registered factory not found")
	}
	if _, ok := ctx.Factory("nope"); ok {
		t.Error("Unregistered factory found")
	}

	// Unknown names are deferred to Fit
	p := New(ctx).AppendNamed("missing")
	if _, err := p.Fit(dataset.FromMessages([]string{"x"})); err == nil {
		t.Error("Expected fit error for unknown catalog name")
	}
}

func TestContextRandDeterministic(t *testing.T) {
	ctx := NewContext(42)

	a := ctx.Rand()
	b := ctx.Rand()
	for i := 0; i < 10; i++ {
		if a.Int63() != b.Int63() {
			t.Fatal("Rand sources from the same Context diverged")
		}
	}

	other := NewContext(43)
	if ctx.Rand().Int63() == other.Rand().Int63() {
		t.Error("Different seeds produced the same first draw")
	}
}

func TestWithThresholdRequiresThresholdStage(t *testing.T) {
	model := NewModel(&recordStage{id: "plain"})
	if _, err := model.WithThreshold(0.3); err == nil {
		t.Error("Expected error for non-threshold terminal stage")
	}

	empty := NewModel()
	if _, err := empty.WithThreshold(0.3); err == nil {
		t.Error("Expected error for empty model")
	}
}
