// Package services contains the load orchestration: driving the batch
// reader and persisting each batch through the table writer.
package services

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/google/uuid"
	"github.com/vvka-141/tripload/pkg/tripload"
)

// LoadService drives a single chunked load: pull one batch, persist it
// durably, report progress, then pull the next. Strictly sequential —
// no batch is read while the previous one is in flight, which is the
// bounded-memory guarantee the design exists to provide.
//
// Thread-Safety: NOT safe for concurrent Run() calls on the same
// instance. Create separate instances for concurrent loads.
type LoadService struct {
	writer   tripload.TableWriter
	approver tripload.Approver
	logger   tripload.Logger
	progress tripload.ProgressSink
}

// NewLoadService creates a LoadService with all dependencies injected.
//
// Panics on nil dependencies: these are programmer errors that should
// fail loudly at application startup, not surface as nil dereferences
// deep in the load loop. Runtime conditions (bad config, I/O failures)
// are returned as errors from Run instead.
func NewLoadService(
	writer tripload.TableWriter,
	approver tripload.Approver,
	logger tripload.Logger,
	progress tripload.ProgressSink,
) *LoadService {
	if writer == nil {
		panic("writer cannot be nil")
	}
	if approver == nil {
		panic("approver cannot be nil")
	}
	if logger == nil {
		panic("logger cannot be nil")
	}
	if progress == nil {
		panic("progress cannot be nil")
	}
	return &LoadService{
		writer:   writer,
		approver: approver,
		logger:   logger,
		progress: progress,
	}
}

// Run executes one full load of the reader's sequence into the named
// table and returns the total number of rows appended.
//
// The first batch drops and recreates the destination table from the
// reader's schema; every batch, including the first, is appended as one
// atomic unit, in file order. The cumulative counter advances only after
// a successful append. Any coercion or store error stops the whole load
// at the current batch boundary — rows from earlier batches remain
// durably persisted, and no resume is attempted.
//
// If the destination table already exists, approval is requested before
// it is replaced; a denial aborts the load before any data is touched.
func (s *LoadService) Run(ctx context.Context, table string, reader tripload.BatchReader) (int64, error) {
	if table == "" {
		return 0, fmt.Errorf("table name is required: %w", tripload.ErrInvalidConfig)
	}
	if reader == nil {
		return 0, fmt.Errorf("reader is required: %w", tripload.ErrInvalidConfig)
	}

	if err := s.approveReplace(ctx, table); err != nil {
		return 0, err
	}

	runID := uuid.New()
	s.logger.Verbose("Starting load %s into table '%s'", runID, table)
	s.progress.LoadStarted(runID, table)

	var total int64
	tableCreated := false

	for {
		batch, err := reader.Next(ctx)
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return total, err
		}

		if !tableCreated {
			if err := s.writer.CreateTable(ctx, table, reader.Schema()); err != nil {
				return total, err
			}
			tableCreated = true
			s.logger.Verbose("Created table '%s' with %d columns", table, len(reader.Schema()))
		}

		appended, err := s.writer.AppendBatch(ctx, table, reader.Schema(), batch)
		if err != nil {
			return total, err
		}

		total += appended
		s.progress.BatchLoaded(appended, total)
		s.logger.Verbose("Appended batch of %d rows (total %d)", appended, total)
	}

	s.progress.LoadCompleted(total)
	s.logger.Info("✓ Load complete: %d rows in table '%s'", total, table)
	return total, nil
}

// approveReplace requests approval when the destination table already
// exists. Creating a fresh table needs no confirmation.
func (s *LoadService) approveReplace(ctx context.Context, table string) error {
	exists, err := s.writer.TableExists(ctx, table)
	if err != nil {
		return err
	}
	if !exists {
		return nil
	}

	s.logger.Verbose("Table '%s' exists. Requesting approval for replacement.", table)
	approved, err := s.approver.RequestApproval(ctx, table)
	if err != nil {
		return fmt.Errorf("approval request failed: %w", err)
	}
	if !approved {
		return tripload.ErrApprovalDenied
	}
	return nil
}
