package ui

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/vvka-141/tripload/pkg/tripload"
)

// ForcedApprover implements the Approver interface for forced (non-interactive)
// approval. It displays a countdown and automatically approves after the countdown,
// used when the --force flag is provided.
type ForcedApprover struct {
	verbose bool
	output  io.Writer
	sleepFn func(time.Duration)
}

// NewForcedApprover creates a new ForcedApprover.
func NewForcedApprover(verbose bool) tripload.Approver {
	return &ForcedApprover{
		verbose: verbose,
		output:  os.Stderr,
		sleepFn: time.Sleep,
	}
}

// RequestApproval displays a countdown and automatically approves after the countdown.
func (a *ForcedApprover) RequestApproval(ctx context.Context, tableName string) (bool, error) {
	out := a.output
	if out == nil {
		out = os.Stderr
	}
	sleep := a.sleepFn
	if sleep == nil {
		sleep = time.Sleep
	}

	fmt.Fprintf(out, "\n⚠️  --force: table '%s' will be dropped and recreated.\n", tableName)

	countdownSeconds := int(tripload.DefaultForceApprovalCountdown.Seconds())
	for i := countdownSeconds; i > 0; i-- {
		select {
		case <-ctx.Done():
			return false, ctx.Err()
		default:
			fmt.Fprintf(out, "\rDropping in: %d seconds... (Press Ctrl+C to cancel)", i)
			sleep(1 * time.Second)
		}
	}

	if err := ctx.Err(); err != nil {
		return false, err
	}

	fmt.Fprintf(out, "\r✓ Proceeding with table replacement...                              \n")
	return true, nil
}

// Verify ForcedApprover implements the Approver interface at compile time
var _ tripload.Approver = (*ForcedApprover)(nil)
