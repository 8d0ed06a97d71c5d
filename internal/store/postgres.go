// Package store implements the PostgreSQL table writer: destructive
// create/replace table DDL and per-batch transactional appends.
package store

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/vvka-141/tripload/pkg/tripload"
)

// Writer persists batches into a PostgreSQL table via a connection pool.
//
// Thread-Safety: safe for concurrent use (pgxpool.Pool is thread-safe),
// but the loader drives it strictly sequentially — no transaction ever
// spans more than one batch.
type Writer struct {
	pool *pgxpool.Pool
}

// NewWriter creates a Writer on the given pool.
//
// Panics if pool is nil: a missing pool is a programmer error that should
// fail loudly at startup, not as a nil dereference mid-load.
func NewWriter(pool *pgxpool.Pool) *Writer {
	if pool == nil {
		panic("pool cannot be nil")
	}
	return &Writer{pool: pool}
}

// TableExists reports whether a table of the given name exists in the
// current schema search path.
func (w *Writer) TableExists(ctx context.Context, table string) (bool, error) {
	var exists bool
	err := w.pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM pg_tables WHERE schemaname = current_schema() AND tablename = $1)`,
		table,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("%w: checking table %q: %v", tripload.ErrStoreFailure, table, err)
	}
	return exists, nil
}

// CreateTable drops any existing table of the given name and creates it
// empty from the schema. The trip_id bigserial column is the
// store-assigned row identity; the loader never supplies it.
func (w *Writer) CreateTable(ctx context.Context, table string, sch tripload.Schema) error {
	if err := sch.Validate(); err != nil {
		return err
	}

	ident := pgx.Identifier{table}.Sanitize()

	cols := make([]string, 0, len(sch)+1)
	cols = append(cols, "trip_id bigserial")
	for _, c := range sch {
		cols = append(cols, fmt.Sprintf("%s %s", pgx.Identifier{c.Name}.Sanitize(), sqlType(c.Type)))
	}

	ddl := fmt.Sprintf("DROP TABLE IF EXISTS %s; CREATE TABLE %s (%s)",
		ident, ident, strings.Join(cols, ", "))

	if _, err := w.pool.Exec(ctx, ddl); err != nil {
		return fmt.Errorf("%w: creating table %q: %v", tripload.ErrStoreFailure, table, err)
	}
	return nil
}

// AppendBatch inserts all rows of the batch inside a single transaction
// using the COPY protocol. Either every row of the batch becomes durably
// visible, or none do.
func (w *Writer) AppendBatch(ctx context.Context, table string, sch tripload.Schema, batch *tripload.Batch) (int64, error) {
	if batch.Len() == 0 {
		return 0, nil
	}

	tx, err := w.pool.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("%w: beginning append transaction: %v", tripload.ErrStoreFailure, err)
	}
	// Rollback is a no-op after a successful Commit.
	defer tx.Rollback(ctx) //nolint:errcheck

	columns := make([]string, len(sch))
	for i, c := range sch {
		columns[i] = c.Name
	}

	copied, err := tx.CopyFrom(ctx,
		pgx.Identifier{table},
		columns,
		pgx.CopyFromRows(batch.Rows),
	)
	if err != nil {
		return 0, fmt.Errorf("%w: appending batch at row %d: %v", tripload.ErrStoreFailure, batch.Offset, err)
	}
	if copied != int64(batch.Len()) {
		return 0, fmt.Errorf("%w: appended %d of %d rows at offset %d", tripload.ErrStoreFailure, copied, batch.Len(), batch.Offset)
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("%w: committing batch at row %d: %v", tripload.ErrStoreFailure, batch.Offset, err)
	}
	return copied, nil
}

// sqlType maps a semantic column type to its PostgreSQL declaration.
func sqlType(t tripload.ColumnType) string {
	switch t {
	case tripload.TypeInt64:
		return "bigint"
	case tripload.TypeFloat64:
		return "double precision"
	case tripload.TypeTimestamp:
		return "timestamp"
	default:
		return "text"
	}
}

// Verify Writer implements the interface at compile time
var _ tripload.TableWriter = (*Writer)(nil)
