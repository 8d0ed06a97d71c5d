// Package schema implements value coercion from raw CSV fields to the
// typed values declared by a tripload.Schema.
package schema

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/vvka-141/tripload/pkg/tripload"
)

// Timestamp layouts ordered by likelihood for the taxi dataset.
// Parsing is permissive across common textual forms but deterministic:
// the first matching layout wins.
var timestampLayouts = []string{
	"2006-01-02 15:04:05", // taxi CSV native format
	"2006-01-02T15:04:05Z07:00",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05.000",
	"2006-01-02",
	time.RFC3339,
	time.RFC3339Nano,
}

// Coerce converts a raw CSV field to the typed value for the given column
// type. An empty field in a nullable column (all numeric and timestamp
// columns) yields nil, representing an absent value — never zero.
//
// The returned error describes only the coercion failure; callers attach
// column and row context via tripload.SchemaViolationError.
func Coerce(raw string, typ tripload.ColumnType) (any, error) {
	switch typ {
	case tripload.TypeText:
		return raw, nil

	case tripload.TypeInt64:
		if raw == "" {
			return nil, nil
		}
		v, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
		if err != nil {
			return nil, fmt.Errorf("not a 64-bit integer")
		}
		return v, nil

	case tripload.TypeFloat64:
		if raw == "" {
			return nil, nil
		}
		v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
		if err != nil {
			return nil, fmt.Errorf("not a 64-bit float")
		}
		return v, nil

	case tripload.TypeTimestamp:
		if raw == "" {
			return nil, nil
		}
		return parseTimestamp(strings.TrimSpace(raw))

	default:
		return nil, fmt.Errorf("unknown column type %v", typ)
	}
}

func parseTimestamp(s string) (any, error) {
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return nil, fmt.Errorf("not a timestamp")
}
