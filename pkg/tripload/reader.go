package tripload

import "context"

// BatchReader exposes a lazy, finite sequence of typed row batches.
//
// The sequence is not restartable: once Next has been called, re-reading
// the source requires constructing a new reader. Underlying I/O happens
// lazily, one read per batch boundary — the whole source is never
// buffered in memory at once.
type BatchReader interface {
	// Schema returns the fixed column layout every batch conforms to.
	Schema() Schema

	// Next returns the next batch in file order, or io.EOF once the
	// source is exhausted. Each returned batch holds at most the
	// configured chunk size of rows; only the final batch may be
	// smaller. A cell that cannot be coerced to its declared type fails
	// the whole batch with a SchemaViolationError.
	//
	// Cancellation is honored at batch boundaries: the context is
	// checked before each batch is read, never mid-batch.
	Next(ctx context.Context) (*Batch, error)

	// Close releases the underlying file or network resources.
	Close() error
}
