package tripload

import (
	"errors"
	"fmt"
	"time"
)

// LoadConfig contains all parameters needed for one load run.
// It is constructed once by the CLI (or another external caller) and
// passed by value; the core never mutates global state.
type LoadConfig struct {
	// Source is the resolved resource location: an http(s) URL or a
	// local file path pointing to a CSV payload, optionally
	// gzip-compressed.
	Source string

	// TableName is the destination table. If a table of that name
	// already exists it is dropped and recreated — prior data is
	// discarded. This is a documented destructive operation.
	TableName string

	// DatabaseName is the target database name.
	DatabaseName string

	// ConnectionString is the PostgreSQL connection string (URI or
	// key=value format) for the target database.
	ConnectionString string

	// ChunkSize is the upper bound on rows per batch. Every batch has
	// exactly ChunkSize rows except possibly the last.
	ChunkSize int

	// Force bypasses interactive approval when the destination table
	// already exists.
	Force bool

	// Timeout is the global timeout for the entire load.
	Timeout time.Duration

	// Verbose enables detailed logging.
	Verbose bool

	// AuthMethod indicates the authentication mechanism to use.
	AuthMethod AuthMethod

	// Azure Entra ID authentication parameters (used when AuthMethod is AuthMethodAzureEntraID)
	AzureTenantID     string
	AzureClientID     string
	AzureClientSecret string
}

// Validate checks if the LoadConfig has all required fields and valid values.
// It returns a multi-error if multiple validation failures occur.
func (c *LoadConfig) Validate() error {
	var errs []error

	if c.Source == "" {
		errs = append(errs, fmt.Errorf("Source is required: %w", ErrInvalidConfig))
	}

	if c.TableName == "" {
		errs = append(errs, fmt.Errorf("TableName is required: %w", ErrInvalidConfig))
	}

	if c.ConnectionString == "" {
		errs = append(errs, fmt.Errorf("ConnectionString is required: %w", ErrInvalidConfig))
	}

	if c.ChunkSize < MinChunkSize {
		errs = append(errs, fmt.Errorf("ChunkSize must be positive, got %d: %w", c.ChunkSize, ErrInvalidConfig))
	}

	if c.Timeout < 0 {
		errs = append(errs, fmt.Errorf("timeout cannot be negative: %w", ErrInvalidConfig))
	}

	return errors.Join(errs...)
}

// ConnectionConfig represents parsed connection parameters.
type ConnectionConfig struct {
	Host     string
	Port     int
	Database string
	Username string
	Password string
	SSLMode  string

	// AuthMethod indicates the authentication mechanism to use
	AuthMethod AuthMethod

	// Additional connection parameters
	AppName          string
	ConnectTimeout   time.Duration
	AdditionalParams map[string]string

	// AWSRegion is required for AWS RDS IAM authentication.
	AWSRegion string

	// GoogleInstance is the Cloud SQL instance connection name
	// (project:region:instance), required for Google IAM authentication.
	GoogleInstance string

	// Azure Entra ID authentication parameters (used when AuthMethod is AuthMethodAzureEntraID)
	// If all three are provided, Service Principal authentication is used.
	// If none are provided, DefaultAzureCredential chain is used (env vars, managed identity, CLI, etc.)
	AzureTenantID     string
	AzureClientID     string
	AzureClientSecret string
}

// AuthMethod represents the type of authentication to use.
type AuthMethod int

const (
	AuthMethodStandard     AuthMethod = iota // Username/Password
	AuthMethodAWSIAM                         // AWS IAM Database Authentication
	AuthMethodGoogleIAM                      // Google Cloud SQL IAM
	AuthMethodAzureEntraID                   // Azure Active Directory (Entra ID)
)

// String returns a human-readable string representation of the AuthMethod.
func (a AuthMethod) String() string {
	switch a {
	case AuthMethodStandard:
		return "Standard"
	case AuthMethodAWSIAM:
		return "AWS IAM"
	case AuthMethodGoogleIAM:
		return "Google IAM"
	case AuthMethodAzureEntraID:
		return "Azure Entra ID"
	default:
		return fmt.Sprintf("Unknown(%d)", a)
	}
}

// IsValid returns true if the AuthMethod is a valid, defined value.
func (a AuthMethod) IsValid() bool {
	return a >= AuthMethodStandard && a <= AuthMethodAzureEntraID
}
