package tripload

import "github.com/google/uuid"

// ProgressSink receives per-batch progress events from the loader.
// Rendering the events (console, log, metrics) is the sink's concern;
// the loader only reports.
type ProgressSink interface {
	// LoadStarted is emitted once, before the first batch is requested.
	LoadStarted(runID uuid.UUID, table string)

	// BatchLoaded is emitted after each successful append, carrying the
	// row count of that batch and the cumulative total so far.
	BatchLoaded(batchRows, totalRows int64)

	// LoadCompleted is emitted once the source is exhausted.
	LoadCompleted(totalRows int64)
}

// NullProgress is a ProgressSink that discards all events.
type NullProgress struct{}

func (NullProgress) LoadStarted(uuid.UUID, string) {}
func (NullProgress) BatchLoaded(int64, int64)      {}
func (NullProgress) LoadCompleted(int64)           {}

// Verify NullProgress implements the interface at compile time
var _ ProgressSink = NullProgress{}
