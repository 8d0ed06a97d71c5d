package tripload

import "fmt"

// ColumnType is the semantic type of a schema column. It governs both
// value coercion in the source reader and column declaration in the
// destination table.
type ColumnType int

const (
	// TypeInt64 is a nullable 64-bit integer. An empty field is stored
	// as a missing value, never as zero.
	TypeInt64 ColumnType = iota

	// TypeFloat64 is a nullable 64-bit float.
	TypeFloat64

	// TypeText is a UTF-8 string.
	TypeText

	// TypeTimestamp is a point in time parsed from the column's textual
	// representation.
	TypeTimestamp
)

// String returns a human-readable name for the column type.
func (t ColumnType) String() string {
	switch t {
	case TypeInt64:
		return "int64"
	case TypeFloat64:
		return "float64"
	case TypeText:
		return "text"
	case TypeTimestamp:
		return "timestamp"
	default:
		return fmt.Sprintf("Unknown(%d)", t)
	}
}

// IsValid returns true if the ColumnType is a defined value.
func (t ColumnType) IsValid() bool {
	return t >= TypeInt64 && t <= TypeTimestamp
}

// Column is a single named, typed column of the dataset schema.
type Column struct {
	Name string
	Type ColumnType
}

// Schema is the fixed, ordered column layout shared by the source reader
// and the destination table. Every batch produced by a reader conforms to
// it exactly: same columns, same order, same types. That invariant is what
// makes per-batch appends safe without re-inspecting data.
type Schema []Column

// Names returns the column names in schema order.
func (s Schema) Names() []string {
	names := make([]string, len(s))
	for i, c := range s {
		names[i] = c.Name
	}
	return names
}

// Index returns the position of the named column, or -1 if absent.
func (s Schema) Index(name string) int {
	for i, c := range s {
		if c.Name == name {
			return i
		}
	}
	return -1
}

// Validate checks that the schema is non-empty, has no duplicate column
// names, and uses only defined column types.
func (s Schema) Validate() error {
	if len(s) == 0 {
		return fmt.Errorf("schema has no columns: %w", ErrInvalidConfig)
	}
	seen := make(map[string]bool, len(s))
	for _, c := range s {
		if c.Name == "" {
			return fmt.Errorf("schema has an unnamed column: %w", ErrInvalidConfig)
		}
		if seen[c.Name] {
			return fmt.Errorf("schema has duplicate column %q: %w", c.Name, ErrInvalidConfig)
		}
		seen[c.Name] = true
		if !c.Type.IsValid() {
			return fmt.Errorf("schema column %q has invalid type: %w", c.Name, ErrInvalidConfig)
		}
	}
	return nil
}

// Batch is a bounded, ordered group of typed rows processed as one append
// unit. Rows are positional: Rows[i][j] holds the value for schema column j.
// Cell values are int64, float64, string, time.Time, or nil for a missing
// value in a nullable column.
type Batch struct {
	// Rows holds the typed values, one slice per source row, in file order.
	Rows [][]any

	// Offset is the zero-based data-row offset of the first row in this
	// batch (the header row is not counted).
	Offset int64
}

// Len returns the number of rows in the batch.
func (b *Batch) Len() int {
	if b == nil {
		return 0
	}
	return len(b.Rows)
}
