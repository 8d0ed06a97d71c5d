package services

import (
	"context"
	"io"

	"github.com/google/uuid"
	"github.com/vvka-141/tripload/pkg/tripload"
)

type mockApprover struct {
	approved bool
	err      error
	calls    int
}

func (m *mockApprover) RequestApproval(_ context.Context, _ string) (bool, error) {
	m.calls++
	return m.approved, m.err
}

type mockLogger struct{}

func (m *mockLogger) Verbose(_ string, _ ...interface{}) {}
func (m *mockLogger) Info(_ string, _ ...interface{})    {}
func (m *mockLogger) Error(_ string, _ ...interface{})   {}

type mockWriter struct {
	exists      bool
	existsErr   error
	createErr   error
	appendErr   error
	failAtBatch int // append fails on the Nth call (1-based); 0 means never

	createCalls  int
	appendCalls  int
	appendedRows int64
	dropped      []string
}

func (m *mockWriter) TableExists(_ context.Context, _ string) (bool, error) {
	return m.exists, m.existsErr
}

func (m *mockWriter) CreateTable(_ context.Context, table string, _ tripload.Schema) error {
	if m.createErr != nil {
		return m.createErr
	}
	m.createCalls++
	m.dropped = append(m.dropped, table)
	return nil
}

func (m *mockWriter) AppendBatch(_ context.Context, _ string, _ tripload.Schema, batch *tripload.Batch) (int64, error) {
	m.appendCalls++
	if m.appendErr != nil && (m.failAtBatch == 0 || m.appendCalls == m.failAtBatch) {
		return 0, m.appendErr
	}
	n := int64(batch.Len())
	m.appendedRows += n
	return n, nil
}

// mockReader replays a fixed sequence of batch sizes.
type mockReader struct {
	sch     tripload.Schema
	sizes   []int
	nextErr error // returned after the sequence is drained, instead of io.EOF
	pos     int
	offset  int64
	closed  bool
}

func (m *mockReader) Schema() tripload.Schema { return m.sch }

func (m *mockReader) Next(_ context.Context) (*tripload.Batch, error) {
	if m.pos >= len(m.sizes) {
		if m.nextErr != nil {
			return nil, m.nextErr
		}
		return nil, io.EOF
	}
	size := m.sizes[m.pos]
	m.pos++

	batch := &tripload.Batch{Rows: make([][]any, size), Offset: m.offset}
	for i := range batch.Rows {
		batch.Rows[i] = []any{int64(i)}
	}
	m.offset += int64(size)
	return batch, nil
}

func (m *mockReader) Close() error {
	m.closed = true
	return nil
}

type progressEvent struct {
	kind      string
	batchRows int64
	totalRows int64
}

type mockProgress struct {
	events []progressEvent
}

func (m *mockProgress) LoadStarted(_ uuid.UUID, _ string) {
	m.events = append(m.events, progressEvent{kind: "started"})
}

func (m *mockProgress) BatchLoaded(batchRows, totalRows int64) {
	m.events = append(m.events, progressEvent{kind: "batch", batchRows: batchRows, totalRows: totalRows})
}

func (m *mockProgress) LoadCompleted(totalRows int64) {
	m.events = append(m.events, progressEvent{kind: "completed", totalRows: totalRows})
}
