package tripload

import "context"

// TableWriter abstracts the two store operations the loader needs:
// "create/replace table with schema X" and "append a batch of rows".
// It is agnostic to the specific store technology as long as appends
// are per-batch atomic.
type TableWriter interface {
	// TableExists reports whether a table of the given name exists.
	TableExists(ctx context.Context, table string) (bool, error)

	// CreateTable drops any existing table of the given name and creates
	// it empty with one column per schema entry, plus a store-assigned
	// row identity column. Destructive by contract: prior data in a
	// same-named table is discarded.
	CreateTable(ctx context.Context, table string, schema Schema) error

	// AppendBatch durably inserts all rows of the batch into the table
	// in file order, as a single atomic unit: after a successful return
	// every row of the batch is visible; on error none are. Returns the
	// number of rows appended.
	AppendBatch(ctx context.Context, table string, schema Schema, batch *Batch) (int64, error)
}
