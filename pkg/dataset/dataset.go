package dataset

import (
	"fmt"
)

// Kind identifies the value type of a column
type Kind int

const (
	KindString Kind = iota
	KindBool
	KindFloat
	KindVector
)

// String returns a readable name for the kind
func (k Kind) String() string {
	switch k {
	case KindString:
		return "string"
	case KindBool:
		return "bool"
	case KindFloat:
		return "float"
	case KindVector:
		return "vector"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Column describes a single schema column
type Column struct {
	Name string
	Kind Kind
}

// Schema is the ordered column layout of a dataset
type Schema []Column

// Has reports whether the schema contains a column with the given name
func (s Schema) Has(name string) bool {
	_, ok := s.Lookup(name)
	return ok
}

// Lookup returns the column with the given name
func (s Schema) Lookup(name string) (Column, bool) {
	for _, c := range s {
		if c.Name == name {
			return c, true
		}
	}
	return Column{}, false
}

// Dataset is a column-oriented, schema-typed table. File-backed datasets
// are lazy: rows are read and parsed on first access, so a missing or
// malformed file surfaces as an error from the first operation that
// touches the data, not from the constructor.
type Dataset struct {
	schema Schema
	cols   map[string]interface{} // []string | []bool | []float64 | [][]float64
	rows   int

	// load materializes a lazy source. Cleared once it succeeds; a
	// failed load is retried so every access reports the error.
	load func(d *Dataset) error
}

// Schema returns the column layout. The schema is known without
// materializing the data.
func (d *Dataset) Schema() Schema {
	out := make(Schema, len(d.schema))
	copy(out, d.schema)
	return out
}

// Len returns the number of rows, materializing a lazy source if needed
func (d *Dataset) Len() (int, error) {
	if err := d.Materialize(); err != nil {
		return 0, err
	}
	return d.rows, nil
}

// Materialize forces a lazy source to load. Calling it on an already
// materialized dataset is a no-op.
func (d *Dataset) Materialize() error {
	if d.load == nil {
		return nil
	}
	if err := d.load(d); err != nil {
		return err
	}
	d.load = nil
	return nil
}

// Strings returns the values of a string column
func (d *Dataset) Strings(name string) ([]string, error) {
	v, err := d.column(name, KindString)
	if err != nil {
		return nil, err
	}
	return v.([]string), nil
}

// Bools returns the values of a bool column
func (d *Dataset) Bools(name string) ([]bool, error) {
	v, err := d.column(name, KindBool)
	if err != nil {
		return nil, err
	}
	return v.([]bool), nil
}

// Floats returns the values of a float column
func (d *Dataset) Floats(name string) ([]float64, error) {
	v, err := d.column(name, KindFloat)
	if err != nil {
		return nil, err
	}
	return v.([]float64), nil
}

// Vectors returns the values of a vector column
func (d *Dataset) Vectors(name string) ([][]float64, error) {
	v, err := d.column(name, KindVector)
	if err != nil {
		return nil, err
	}
	return v.([][]float64), nil
}

func (d *Dataset) column(name string, kind Kind) (interface{}, error) {
	if err := d.Materialize(); err != nil {
		return nil, err
	}
	col, ok := d.schema.Lookup(name)
	if !ok {
		return nil, fmt.Errorf("dataset has no column %q (schema: %s)", name, d.schema.names())
	}
	if col.Kind != kind {
		return nil, fmt.Errorf("column %q is %s, not %s", name, col.Kind, kind)
	}
	return d.cols[name], nil
}

func (s Schema) names() string {
	out := ""
	for i, c := range s {
		if i > 0 {
			out += ", "
		}
		out += c.Name
	}
	return out
}

// WithStrings returns a new dataset with the given string column added,
// or replaced if a column with that name already exists
func (d *Dataset) WithStrings(name string, values []string) (*Dataset, error) {
	return d.with(Column{Name: name, Kind: KindString}, values, len(values))
}

// WithBools returns a new dataset with the given bool column added or replaced
func (d *Dataset) WithBools(name string, values []bool) (*Dataset, error) {
	return d.with(Column{Name: name, Kind: KindBool}, values, len(values))
}

// WithFloats returns a new dataset with the given float column added or replaced
func (d *Dataset) WithFloats(name string, values []float64) (*Dataset, error) {
	return d.with(Column{Name: name, Kind: KindFloat}, values, len(values))
}

// WithVectors returns a new dataset with the given vector column added or replaced
func (d *Dataset) WithVectors(name string, values [][]float64) (*Dataset, error) {
	return d.with(Column{Name: name, Kind: KindVector}, values, len(values))
}

func (d *Dataset) with(col Column, values interface{}, n int) (*Dataset, error) {
	if err := d.Materialize(); err != nil {
		return nil, err
	}
	if n != d.rows {
		return nil, fmt.Errorf("column %q has %d values, dataset has %d rows", col.Name, n, d.rows)
	}

	schema := make(Schema, 0, len(d.schema)+1)
	replaced := false
	for _, c := range d.schema {
		if c.Name == col.Name {
			schema = append(schema, col)
			replaced = true
			continue
		}
		schema = append(schema, c)
	}
	if !replaced {
		schema = append(schema, col)
	}

	cols := make(map[string]interface{}, len(schema))
	for k, v := range d.cols {
		cols[k] = v
	}
	cols[col.Name] = values

	return &Dataset{schema: schema, cols: cols, rows: d.rows}, nil
}

// Drop returns a new dataset without the named column. Dropping a column
// that does not exist is not an error.
func (d *Dataset) Drop(name string) (*Dataset, error) {
	if err := d.Materialize(); err != nil {
		return nil, err
	}
	schema := make(Schema, 0, len(d.schema))
	cols := make(map[string]interface{}, len(d.cols))
	for _, c := range d.schema {
		if c.Name == name {
			continue
		}
		schema = append(schema, c)
		cols[c.Name] = d.cols[c.Name]
	}
	return &Dataset{schema: schema, cols: cols, rows: d.rows}, nil
}

// Subset returns a new dataset containing only the rows at the given
// indices, in the given order
func (d *Dataset) Subset(indices []int) (*Dataset, error) {
	if err := d.Materialize(); err != nil {
		return nil, err
	}
	for _, idx := range indices {
		if idx < 0 || idx >= d.rows {
			return nil, fmt.Errorf("row index %d out of range (0..%d)", idx, d.rows-1)
		}
	}

	schema := d.Schema()
	cols := make(map[string]interface{}, len(schema))
	for _, c := range schema {
		switch c.Kind {
		case KindString:
			src := d.cols[c.Name].([]string)
			dst := make([]string, len(indices))
			for i, idx := range indices {
				dst[i] = src[idx]
			}
			cols[c.Name] = dst
		case KindBool:
			src := d.cols[c.Name].([]bool)
			dst := make([]bool, len(indices))
			for i, idx := range indices {
				dst[i] = src[idx]
			}
			cols[c.Name] = dst
		case KindFloat:
			src := d.cols[c.Name].([]float64)
			dst := make([]float64, len(indices))
			for i, idx := range indices {
				dst[i] = src[idx]
			}
			cols[c.Name] = dst
		case KindVector:
			src := d.cols[c.Name].([][]float64)
			dst := make([][]float64, len(indices))
			for i, idx := range indices {
				dst[i] = src[idx]
			}
			cols[c.Name] = dst
		}
	}
	return &Dataset{schema: schema, cols: cols, rows: len(indices)}, nil
}
