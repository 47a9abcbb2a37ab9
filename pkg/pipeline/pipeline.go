package pipeline

import (
	"fmt"

	"github.com/spampipe/spampipe/pkg/dataset"
)

// Step is one unfitted unit of a chain. Fit learns whatever the step
// needs from the training data and returns the fitted Stage.
type Step interface {
	Name() string
	Fit(ds *dataset.Dataset) (Stage, error)
}

// Stage is a fitted chain unit that maps a dataset to a new dataset
type Stage interface {
	Name() string
	Transform(ds *dataset.Dataset) (*dataset.Dataset, error)
}

// Pipeline accumulates an ordered, append-only chain of steps bound to a
// shared Context. Steps are appended in order and never reordered; the
// builder performs no compatibility checks, so schema mismatches surface
// at Fit time from the step that hits them.
type Pipeline struct {
	ctx   *Context
	steps []Step
}

// New creates an empty pipeline bound to the given Context
func New(ctx *Context) *Pipeline {
	return &Pipeline{ctx: ctx}
}

// Context returns the Context the pipeline is bound to
func (p *Pipeline) Context() *Context {
	return p.ctx
}

// AppendBy invokes the factory with the bound Context and appends the
// produced step to the end of the chain. Returns the pipeline for
// chaining.
func (p *Pipeline) AppendBy(factory Factory) *Pipeline {
	p.steps = append(p.steps, factory(p.ctx))
	return p
}

// Append appends an already constructed step
func (p *Pipeline) Append(step Step) *Pipeline {
	p.steps = append(p.steps, step)
	return p
}

// AppendNamed appends a step resolved from the Context catalog. Unknown
// names are deferred to Fit, keeping the append path infallible like the
// other append operations.
func (p *Pipeline) AppendNamed(name string) *Pipeline {
	if factory, ok := p.ctx.Factory(name); ok {
		return p.AppendBy(factory)
	}
	return p.Append(&missingStep{name: name})
}

// AppendCacheCheckpoint appends a materialization hint: the execution
// engine loads and caches intermediate results at this point so upstream
// steps are not recomputed on repeated passes. Purely a performance
// hint; the chain output is unchanged.
func (p *Pipeline) AppendCacheCheckpoint() *Pipeline {
	return p.Append(cacheCheckpoint{})
}

// Len returns the number of steps appended so far
func (p *Pipeline) Len() int {
	return len(p.steps)
}

// StepNames returns the names of the appended steps, in chain order
func (p *Pipeline) StepNames() []string {
	names := make([]string, len(p.steps))
	for i, s := range p.steps {
		names[i] = s.Name()
	}
	return names
}

// Fit applies every step in order against the dataset: each step is
// fitted, then its fitted stage transforms the data that the next step
// sees. Any step failure aborts the whole chain and is returned with the
// failing position; there is no retry and no partial result.
func (p *Pipeline) Fit(ds *dataset.Dataset) (*Model, error) {
	stages := make([]Stage, 0, len(p.steps))
	cur := ds
	for i, step := range p.steps {
		stage, err := step.Fit(cur)
		if err != nil {
			return nil, fmt.Errorf("failed to fit step %d (%s): %w", i+1, step.Name(), err)
		}
		next, err := stage.Transform(cur)
		if err != nil {
			return nil, fmt.Errorf("failed to apply step %d (%s): %w", i+1, step.Name(), err)
		}
		stages = append(stages, stage)
		cur = next
	}
	return &Model{stages: stages}, nil
}

// cacheCheckpoint forces lazy sources to materialize and passes the
// dataset through unchanged
type cacheCheckpoint struct{}

func (cacheCheckpoint) Name() string { return "cache-checkpoint" }

func (c cacheCheckpoint) Fit(ds *dataset.Dataset) (Stage, error) {
	return c, nil
}

func (cacheCheckpoint) Transform(ds *dataset.Dataset) (*dataset.Dataset, error) {
	if err := ds.Materialize(); err != nil {
		return nil, err
	}
	return ds, nil
}

// missingStep reports an unknown catalog name at Fit time
type missingStep struct {
	name string
}

func (m *missingStep) Name() string { return m.name }

func (m *missingStep) Fit(ds *dataset.Dataset) (Stage, error) {
	return nil, fmt.Errorf("no step factory %q in catalog", m.name)
}
