package source

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/klauspost/compress/gzip"

	"github.com/vvka-141/tripload/pkg/tripload"
)

func testSchema() tripload.Schema {
	return tripload.Schema{
		{Name: "id", Type: tripload.TypeInt64},
		{Name: "pickup", Type: tripload.TypeTimestamp},
		{Name: "distance", Type: tripload.TypeFloat64},
		{Name: "flag", Type: tripload.TypeText},
	}
}

// writeCSV writes a fixture with the test schema header and n generated rows.
func writeCSV(t *testing.T, n int) string {
	t.Helper()

	var sb strings.Builder
	sb.WriteString("id,pickup,distance,flag\n")
	for i := 0; i < n; i++ {
		fmt.Fprintf(&sb, "%d,2021-01-01 00:%02d:%02d,%d.5,N\n", i, i/60%60, i%60, i)
	}

	path := filepath.Join(t.TempDir(), "trips.csv")
	if err := os.WriteFile(path, []byte(sb.String()), 0644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	return path
}

func writeRawCSV(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "trips.csv")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	return path
}

func TestReader_BatchSizeSequence(t *testing.T) {
	// 2500 rows with chunk size 1000 must yield exactly 1000, 1000, 500.
	path := writeCSV(t, 2500)
	ctx := context.Background()

	r, err := Open(ctx, path, testSchema(), 1000)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer r.Close()

	var sizes []int
	var offsets []int64
	for {
		batch, err := r.Next(ctx)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			t.Fatalf("Next() error = %v", err)
		}
		sizes = append(sizes, batch.Len())
		offsets = append(offsets, batch.Offset)
	}

	wantSizes := []int{1000, 1000, 500}
	if len(sizes) != len(wantSizes) {
		t.Fatalf("got %d batches %v, want %v", len(sizes), sizes, wantSizes)
	}
	for i := range wantSizes {
		if sizes[i] != wantSizes[i] {
			t.Errorf("batch %d has %d rows, want %d", i, sizes[i], wantSizes[i])
		}
	}

	wantOffsets := []int64{0, 1000, 2000}
	for i := range wantOffsets {
		if offsets[i] != wantOffsets[i] {
			t.Errorf("batch %d has offset %d, want %d", i, offsets[i], wantOffsets[i])
		}
	}

	// Exhausted readers keep returning io.EOF.
	if _, err := r.Next(ctx); !errors.Is(err, io.EOF) {
		t.Errorf("Next() after exhaustion = %v, want io.EOF", err)
	}
}

func TestReader_ExactMultipleOfChunkSize(t *testing.T) {
	path := writeCSV(t, 200)
	ctx := context.Background()

	r, err := Open(ctx, path, testSchema(), 100)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer r.Close()

	var sizes []int
	for {
		batch, err := r.Next(ctx)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			t.Fatalf("Next() error = %v", err)
		}
		sizes = append(sizes, batch.Len())
	}

	// No trailing empty batch when the row count divides evenly.
	if len(sizes) != 2 || sizes[0] != 100 || sizes[1] != 100 {
		t.Errorf("got batches %v, want [100 100]", sizes)
	}
}

func TestReader_GzipSource(t *testing.T) {
	var sb strings.Builder
	sb.WriteString("id,pickup,distance,flag\n")
	for i := 0; i < 30; i++ {
		fmt.Fprintf(&sb, "%d,2021-01-01 00:00:%02d,1.0,Y\n", i, i%60)
	}

	path := filepath.Join(t.TempDir(), "trips.csv.gz")
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create fixture: %v", err)
	}
	gz := gzip.NewWriter(f)
	if _, err := gz.Write([]byte(sb.String())); err != nil {
		t.Fatalf("write gzip fixture: %v", err)
	}
	if err := gz.Close(); err != nil {
		t.Fatalf("close gzip writer: %v", err)
	}
	if err := f.Close(); err != nil {
		t.Fatalf("close fixture: %v", err)
	}

	ctx := context.Background()
	r, err := Open(ctx, path, testSchema(), 100)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer r.Close()

	batch, err := r.Next(ctx)
	if err != nil {
		t.Fatalf("Next() error = %v", err)
	}
	if batch.Len() != 30 {
		t.Errorf("batch has %d rows, want 30", batch.Len())
	}
	if got := batch.Rows[0][0]; got != int64(0) {
		t.Errorf("first id = %v, want 0", got)
	}
}

func TestReader_HTTPSource(t *testing.T) {
	content := "id,pickup,distance,flag\n7,2021-01-01 12:00:00,3.2,N\n"
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		fmt.Fprint(w, content)
	}))
	defer srv.Close()

	ctx := context.Background()
	r, err := Open(ctx, srv.URL, testSchema(), 10)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer r.Close()

	batch, err := r.Next(ctx)
	if err != nil {
		t.Fatalf("Next() error = %v", err)
	}
	if batch.Len() != 1 {
		t.Fatalf("batch has %d rows, want 1", batch.Len())
	}
	if got := batch.Rows[0][0]; got != int64(7) {
		t.Errorf("id = %v, want 7", got)
	}
}

func TestReader_HTTPNotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		http.NotFound(w, req)
	}))
	defer srv.Close()

	_, err := Open(context.Background(), srv.URL, testSchema(), 10)
	if !errors.Is(err, tripload.ErrSourceUnavailable) {
		t.Errorf("Open() error = %v, want ErrSourceUnavailable", err)
	}
}

func TestReader_MissingFile(t *testing.T) {
	_, err := Open(context.Background(), filepath.Join(t.TempDir(), "nope.csv"), testSchema(), 10)
	if !errors.Is(err, tripload.ErrSourceUnavailable) {
		t.Errorf("Open() error = %v, want ErrSourceUnavailable", err)
	}
}

func TestReader_InvalidChunkSize(t *testing.T) {
	path := writeCSV(t, 1)
	_, err := Open(context.Background(), path, testSchema(), 0)
	if !errors.Is(err, tripload.ErrInvalidConfig) {
		t.Errorf("Open() error = %v, want ErrInvalidConfig", err)
	}
}

func TestReader_EmptyCellsBecomeNil(t *testing.T) {
	// Empty numeric and timestamp cells are missing values, not zeros.
	// The text column stays an empty string.
	path := writeRawCSV(t, "id,pickup,distance,flag\n,,,\n")
	ctx := context.Background()

	r, err := Open(ctx, path, testSchema(), 10)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer r.Close()

	batch, err := r.Next(ctx)
	if err != nil {
		t.Fatalf("Next() error = %v", err)
	}
	row := batch.Rows[0]

	if row[0] != nil {
		t.Errorf("empty int cell = %v, want nil", row[0])
	}
	if row[1] != nil {
		t.Errorf("empty timestamp cell = %v, want nil", row[1])
	}
	if row[2] != nil {
		t.Errorf("empty float cell = %v, want nil", row[2])
	}
	if row[3] != "" {
		t.Errorf("empty text cell = %v, want empty string", row[3])
	}
}

func TestReader_SchemaViolationDetails(t *testing.T) {
	path := writeRawCSV(t,
		"id,pickup,distance,flag\n"+
			"1,2021-01-01 00:00:00,1.0,N\n"+
			"2,2021-01-01 00:01:00,banana,N\n")
	ctx := context.Background()

	r, err := Open(ctx, path, testSchema(), 10)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer r.Close()

	_, err = r.Next(ctx)
	if !errors.Is(err, tripload.ErrSchemaViolation) {
		t.Fatalf("Next() error = %v, want ErrSchemaViolation", err)
	}

	var sv *tripload.SchemaViolationError
	if !errors.As(err, &sv) {
		t.Fatalf("error %v is not a SchemaViolationError", err)
	}
	if sv.Column != "distance" {
		t.Errorf("violation column = %q, want distance", sv.Column)
	}
	if sv.Row != 1 {
		t.Errorf("violation row = %d, want 1", sv.Row)
	}
	if sv.Value != "banana" {
		t.Errorf("violation value = %q, want banana", sv.Value)
	}
}

func TestReader_HeaderMissingColumn(t *testing.T) {
	path := writeRawCSV(t, "id,pickup,flag\n1,2021-01-01 00:00:00,N\n")
	_, err := Open(context.Background(), path, testSchema(), 10)
	if !errors.Is(err, tripload.ErrSourceUnavailable) {
		t.Errorf("Open() error = %v, want ErrSourceUnavailable", err)
	}
	if err == nil || !strings.Contains(err.Error(), "distance") {
		t.Errorf("error %v does not name the missing column", err)
	}
}

func TestReader_ExtraColumnsIgnored(t *testing.T) {
	path := writeRawCSV(t,
		"extra_front,id,pickup,distance,flag,extra_back\n"+
			"x,5,2021-01-01 00:00:00,2.5,Y,z\n")
	ctx := context.Background()

	r, err := Open(ctx, path, testSchema(), 10)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer r.Close()

	batch, err := r.Next(ctx)
	if err != nil {
		t.Fatalf("Next() error = %v", err)
	}
	if got := batch.Rows[0][0]; got != int64(5) {
		t.Errorf("id = %v, want 5", got)
	}
	if got := batch.Rows[0][3]; got != "Y" {
		t.Errorf("flag = %v, want Y", got)
	}
}

func TestReader_HeaderOnly(t *testing.T) {
	// A source with a header and no data rows is a valid, empty sequence.
	path := writeRawCSV(t, "id,pickup,distance,flag\n")
	ctx := context.Background()

	r, err := Open(ctx, path, testSchema(), 10)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer r.Close()

	if _, err := r.Next(ctx); !errors.Is(err, io.EOF) {
		t.Errorf("Next() = %v, want io.EOF", err)
	}
}

func TestReader_EmptyFile(t *testing.T) {
	path := writeRawCSV(t, "")
	_, err := Open(context.Background(), path, testSchema(), 10)
	if !errors.Is(err, tripload.ErrSourceUnavailable) {
		t.Errorf("Open() error = %v, want ErrSourceUnavailable", err)
	}
}

func TestReader_ContextCancelled(t *testing.T) {
	path := writeCSV(t, 10)
	ctx, cancel := context.WithCancel(context.Background())

	r, err := Open(ctx, path, testSchema(), 5)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer r.Close()

	cancel()
	if _, err := r.Next(ctx); !errors.Is(err, context.Canceled) {
		t.Errorf("Next() = %v, want context.Canceled", err)
	}
}
