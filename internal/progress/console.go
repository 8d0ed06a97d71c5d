// Package progress provides console implementations of the tripload.ProgressSink interface.
package progress

import (
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"
	"github.com/schollz/progressbar/v3"
	"golang.org/x/term"

	"github.com/vvka-141/tripload/pkg/tripload"
)

var (
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#00CC66")).Bold(true)
	mutedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#666666"))
)

// ConsoleReporter reports load progress to stderr.
//
// When stderr is a terminal it renders an animated row counter; otherwise
// (CI, piped output) it prints one plain line per chunk so logs stay readable.
type ConsoleReporter struct {
	interactive bool
	bar         *progressbar.ProgressBar
	started     time.Time
	table       string
}

var _ tripload.ProgressSink = (*ConsoleReporter)(nil)

// NewConsoleReporter creates a ConsoleReporter. Terminal detection happens
// once at construction time.
func NewConsoleReporter() *ConsoleReporter {
	return &ConsoleReporter{
		interactive: term.IsTerminal(int(os.Stderr.Fd())),
	}
}

// LoadStarted begins progress reporting for a load run.
// The total row count is unknown up front, so the bar runs in spinner mode.
func (r *ConsoleReporter) LoadStarted(runID uuid.UUID, tableName string) {
	r.started = time.Now()
	r.table = tableName

	if !r.interactive {
		fmt.Fprintf(os.Stderr, "Load %s started: table '%s'\n", runID, tableName)
		return
	}

	fmt.Fprintln(os.Stderr, mutedStyle.Render(fmt.Sprintf("run %s", runID)))
	r.bar = progressbar.NewOptions64(-1,
		progressbar.OptionSetDescription(fmt.Sprintf("Loading %s", tableName)),
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionSetWidth(40),
		progressbar.OptionShowBytes(false),
		progressbar.OptionShowCount(),
		progressbar.OptionSetItsString("rows"),
		progressbar.OptionShowIts(),
		progressbar.OptionSpinnerType(14),
		progressbar.OptionThrottle(100*time.Millisecond),
		progressbar.OptionClearOnFinish(),
	)
}

// BatchLoaded records a committed chunk.
func (r *ConsoleReporter) BatchLoaded(batchRows, totalRows int64) {
	if r.bar != nil {
		_ = r.bar.Add64(batchRows)
		return
	}
	fmt.Fprintf(os.Stderr, "Inserted chunk: %d rows (total %d)\n", batchRows, totalRows)
}

// LoadCompleted finishes the bar and prints the elapsed time. The row
// total itself is logged by the load service, not here.
func (r *ConsoleReporter) LoadCompleted(totalRows int64) {
	elapsed := time.Since(r.started).Round(time.Millisecond)

	if r.bar != nil {
		_ = r.bar.Finish()
		r.bar = nil
		fmt.Fprintln(os.Stderr, successStyle.Render(fmt.Sprintf("✓ %s", r.table))+
			mutedStyle.Render(fmt.Sprintf(" (%s)", elapsed)))
		return
	}
	fmt.Fprintf(os.Stderr, "Elapsed: %s\n", elapsed)
}
