package tripload

import "time"

// Exit codes for semantic error classification.
// These follow Unix/GNU conventions:
//   - 0: Success
//   - 1: General error
//   - 2: CLI usage error (misuse of command line)
//   - 3+: Application-specific errors
const (
	ExitSuccess           = 0  // Load completed successfully
	ExitGeneralError      = 1  // Unknown or unclassified error
	ExitUsageError        = 2  // CLI usage error (missing args, invalid flags)
	ExitPanic             = 3  // Internal panic (unexpected crash)
	ExitConfigError       = 10 // Invalid configuration or parameters
	ExitConnectionError   = 11 // Failed to connect to database
	ExitApprovalDenied    = 12 // User denied table replacement approval
	ExitSchemaViolation   = 13 // A cell could not be coerced to its declared type
	ExitSourceUnavailable = 14 // Source file/URL could not be opened or read
	ExitStoreFailure      = 15 // Table creation or batch append failed
)

const (
	// DefaultChunkSize is the default upper bound on rows per batch.
	DefaultChunkSize = 100000

	// DefaultTableName is the default destination table.
	DefaultTableName = "yellow_taxi_data"

	// DefaultDatabase is the default target database name.
	DefaultDatabase = "ny_taxi"

	// DefaultYear and DefaultMonth select the default dataset release.
	DefaultYear  = 2021
	DefaultMonth = 1

	// DefaultForceApprovalCountdown is the countdown duration before
	// forced approval proceeds with replacing an existing table.
	DefaultForceApprovalCountdown = 5 * time.Second

	// MinChunkSize guards against degenerate per-row round trips.
	MinChunkSize = 1
)
