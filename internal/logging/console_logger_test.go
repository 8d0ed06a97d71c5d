package logging

import (
	"bytes"
	"io"
	"os"
	"strings"
	"sync"
	"testing"
)

func captureStderr(t *testing.T, fn func()) string {
	t.Helper()

	old := os.Stderr
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("create pipe: %v", err)
	}
	os.Stderr = w

	fn()

	w.Close()
	os.Stderr = old

	var buf bytes.Buffer
	io.Copy(&buf, r) //nolint:errcheck
	return buf.String()
}

func TestConsoleLogger_Verbose_WhenEnabled(t *testing.T) {
	output := captureStderr(t, func() {
		NewConsoleLogger(true).Verbose("test message: %s", "value")
	})

	expected := "[VERBOSE] test message: value\n"
	if output != expected {
		t.Errorf("Expected %q, got %q", expected, output)
	}
}

func TestConsoleLogger_Verbose_WhenDisabled(t *testing.T) {
	output := captureStderr(t, func() {
		NewConsoleLogger(false).Verbose("test message: %s", "value")
	})

	if output != "" {
		t.Errorf("Expected no output, got %q", output)
	}
}

func TestConsoleLogger_Info(t *testing.T) {
	output := captureStderr(t, func() {
		NewConsoleLogger(false).Info("loaded %d rows", 42)
	})

	expected := "loaded 42 rows\n"
	if output != expected {
		t.Errorf("Expected %q, got %q", expected, output)
	}
}

func TestConsoleLogger_Error(t *testing.T) {
	output := captureStderr(t, func() {
		NewConsoleLogger(false).Error("boom: %v", "reason")
	})

	expected := "[ERROR] boom: reason\n"
	if output != expected {
		t.Errorf("Expected %q, got %q", expected, output)
	}
}

func TestConsoleLogger_NoArgs(t *testing.T) {
	// Messages without args must not be re-interpreted as format strings.
	output := captureStderr(t, func() {
		NewConsoleLogger(false).Info("literal 100%% free")
	})

	if !strings.Contains(output, "literal") {
		t.Errorf("unexpected output %q", output)
	}
}

func TestConsoleLogger_ConcurrentUse(t *testing.T) {
	logger := NewConsoleLogger(true)

	output := captureStderr(t, func() {
		var wg sync.WaitGroup
		for i := 0; i < 20; i++ {
			wg.Add(1)
			go func(n int) {
				defer wg.Done()
				logger.Info("line %d", n)
			}(i)
		}
		wg.Wait()
	})

	lines := strings.Count(output, "\n")
	if lines != 20 {
		t.Errorf("Expected 20 complete lines, got %d", lines)
	}
}

func TestNullLogger_DiscardsEverything(t *testing.T) {
	output := captureStderr(t, func() {
		logger := NewNullLogger()
		logger.Verbose("a")
		logger.Info("b")
		logger.Error("c")
	})

	if output != "" {
		t.Errorf("Expected no output, got %q", output)
	}
}
