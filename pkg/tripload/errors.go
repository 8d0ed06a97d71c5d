package tripload

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for common failure scenarios.
// These enable callers to distinguish error types using errors.Is().
//
// Example usage:
//
//	err := loader.Run(ctx, reader)
//	if errors.Is(err, tripload.ErrSchemaViolation) {
//	    // A cell could not be coerced to its declared type
//	}
var (
	// ErrInvalidConfig indicates the provided configuration is invalid.
	ErrInvalidConfig = errors.New("invalid configuration")

	// ErrSourceUnavailable indicates the source location could not be
	// opened or read (network failure, missing file, bad decompression).
	ErrSourceUnavailable = errors.New("source unavailable")

	// ErrSchemaViolation indicates a cell's raw value could not be
	// coerced to its declared column type. The batch containing the
	// offending cell is never appended.
	ErrSchemaViolation = errors.New("schema violation")

	// ErrStoreFailure indicates table creation or a batch append failed.
	// Rows from previously appended batches remain persisted.
	ErrStoreFailure = errors.New("store failure")

	// ErrApprovalDenied indicates the user denied approval for replacing
	// an existing destination table.
	ErrApprovalDenied = errors.New("approval denied")

	// ErrConnectionFailed indicates database connection failed.
	ErrConnectionFailed = errors.New("connection failed")

	// ErrUnsupportedAuthMethod indicates the requested authentication method is not supported.
	ErrUnsupportedAuthMethod = errors.New("unsupported authentication method")
)

// SchemaViolationError describes a single cell that failed type coercion.
// Row is the zero-based data-row offset within the source (header excluded).
type SchemaViolationError struct {
	Column string
	Row    int64
	Value  string
	Reason error
}

func (e *SchemaViolationError) Error() string {
	msg := fmt.Sprintf("column %q, row %d: cannot coerce %q", e.Column, e.Row, e.Value)
	if e.Reason != nil {
		msg += ": " + e.Reason.Error()
	}
	return msg
}

// Unwrap makes errors.Is(err, ErrSchemaViolation) hold for every
// SchemaViolationError.
func (e *SchemaViolationError) Unwrap() error {
	return ErrSchemaViolation
}

// ExitCodeForError returns the appropriate exit code for an error.
// Returns ExitSuccess (0) for nil errors, semantic codes for known errors,
// and ExitGeneralError (1) for unclassified errors.
func ExitCodeForError(err error) int {
	if err == nil {
		return ExitSuccess
	}

	switch {
	case errors.Is(err, ErrInvalidConfig):
		return ExitConfigError
	case errors.Is(err, ErrApprovalDenied):
		return ExitApprovalDenied
	case errors.Is(err, ErrSchemaViolation):
		return ExitSchemaViolation
	case errors.Is(err, ErrSourceUnavailable):
		return ExitSourceUnavailable
	case errors.Is(err, ErrStoreFailure):
		return ExitStoreFailure
	case errors.Is(err, ErrConnectionFailed):
		return ExitConnectionError
	case errors.Is(err, ErrUnsupportedAuthMethod):
		return ExitConfigError
	}

	// Check for common connection error patterns
	errStr := err.Error()
	if strings.Contains(errStr, "failed to connect") ||
		strings.Contains(errStr, "connection refused") ||
		strings.Contains(errStr, "no such host") {
		return ExitConnectionError
	}

	return ExitGeneralError
}
