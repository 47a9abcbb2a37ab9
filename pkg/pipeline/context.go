package pipeline

import (
	"fmt"
	"math/rand"
	"sort"
)

// Factory produces a Step from the shared pipeline Context
type Factory func(*Context) Step

// Context is the shared environment threaded through a pipeline-building
// session. It carries the random seed and a catalog of named step
// factories. All steps of one pipeline must be produced against the same
// Context; it is read-only after creation.
type Context struct {
	seed    int64
	catalog map[string]Factory
}

// NewContext creates a Context with the given random seed
func NewContext(seed int64) *Context {
	return &Context{
		seed:    seed,
		catalog: make(map[string]Factory),
	}
}

// Seed returns the seed the Context was created with
func (c *Context) Seed() int64 {
	return c.seed
}

// Rand returns a fresh deterministic source derived from the seed.
// Each call returns an independent source with the same sequence, so a
// step draws the same values no matter how many siblings drew before it.
func (c *Context) Rand() *rand.Rand {
	return rand.New(rand.NewSource(c.seed))
}

// Register adds a named step factory to the catalog
func (c *Context) Register(name string, factory Factory) error {
	if factory == nil {
		return fmt.Errorf("factory for %q is nil", name)
	}
	if _, exists := c.catalog[name]; exists {
		return fmt.Errorf("step factory %q already registered", name)
	}
	c.catalog[name] = factory
	return nil
}

// Factory looks up a registered step factory by name
func (c *Context) Factory(name string) (Factory, bool) {
	f, ok := c.catalog[name]
	return f, ok
}

// Catalog returns the registered factory names, sorted
func (c *Context) Catalog() []string {
	names := make([]string, 0, len(c.catalog))
	for name := range c.catalog {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
