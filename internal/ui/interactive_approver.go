package ui

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/vvka-141/tripload/pkg/tripload"
)

// InteractiveApprover implements the Approver interface for console-based
// interactive confirmation. It prompts the user to type the table name
// to confirm destructive operations.
type InteractiveApprover struct {
	verbose bool
	input   io.Reader
	output  io.Writer
}

// NewInteractiveApprover creates a new InteractiveApprover reading from
// stdin and writing prompts to stderr.
func NewInteractiveApprover(verbose bool) tripload.Approver {
	return &InteractiveApprover{
		verbose: verbose,
		input:   os.Stdin,
		output:  os.Stderr,
	}
}

// RequestApproval prompts the user to type the table name to confirm.
func (a *InteractiveApprover) RequestApproval(ctx context.Context, tableName string) (bool, error) {
	in := a.input
	if in == nil {
		in = os.Stdin
	}
	out := a.output
	if out == nil {
		out = os.Stderr
	}

	fmt.Fprintf(out, "\n⚠️  WARNING: You are about to DROP and RECREATE the table '%s'\n", tableName)
	fmt.Fprintln(out, "This will permanently delete all rows in this table!")
	fmt.Fprintf(out, "\nTo confirm, type the table name '%s' and press Enter: ", tableName)

	// Read user input with context cancellation support
	inputChan := make(chan string, 1)
	errChan := make(chan error, 1)

	go func() {
		reader := bufio.NewReader(in)
		input, err := reader.ReadString('\n')
		if err != nil {
			errChan <- err
			return
		}
		inputChan <- strings.TrimSpace(input)
	}()

	select {
	case <-ctx.Done():
		return false, ctx.Err()
	case err := <-errChan:
		return false, fmt.Errorf("failed to read input: %w", err)
	case input := <-inputChan:
		if input == tableName {
			fmt.Fprintln(out, "✓ Confirmed. Proceeding with table replacement...")
			return true, nil
		}
		fmt.Fprintf(out, "✗ Input '%s' does not match table name '%s'. Operation cancelled.\n", input, tableName)
		return false, nil
	}
}

// Verify InteractiveApprover implements the Approver interface at compile time
var _ tripload.Approver = (*InteractiveApprover)(nil)
