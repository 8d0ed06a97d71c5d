package tripload

import (
	"errors"
	"strings"
	"testing"
	"time"
)

func validLoadConfig() LoadConfig {
	return LoadConfig{
		Source:           "https://example.com/yellow_tripdata_2021-01.csv.gz",
		TableName:        "yellow_taxi_data",
		DatabaseName:     "ny_taxi",
		ConnectionString: "postgresql://root@localhost:5432/ny_taxi",
		ChunkSize:        100000,
		Timeout:          30 * time.Minute,
	}
}

func TestLoadConfig_Validate(t *testing.T) {
	t.Run("valid config", func(t *testing.T) {
		cfg := validLoadConfig()
		if err := cfg.Validate(); err != nil {
			t.Errorf("Validate() error = %v", err)
		}
	})

	t.Run("missing source", func(t *testing.T) {
		cfg := validLoadConfig()
		cfg.Source = ""
		if err := cfg.Validate(); !errors.Is(err, ErrInvalidConfig) {
			t.Errorf("Validate() error = %v, want ErrInvalidConfig", err)
		}
	})

	t.Run("missing table name", func(t *testing.T) {
		cfg := validLoadConfig()
		cfg.TableName = ""
		if err := cfg.Validate(); !errors.Is(err, ErrInvalidConfig) {
			t.Errorf("Validate() error = %v, want ErrInvalidConfig", err)
		}
	})

	t.Run("missing connection string", func(t *testing.T) {
		cfg := validLoadConfig()
		cfg.ConnectionString = ""
		if err := cfg.Validate(); !errors.Is(err, ErrInvalidConfig) {
			t.Errorf("Validate() error = %v, want ErrInvalidConfig", err)
		}
	})

	t.Run("zero chunk size", func(t *testing.T) {
		cfg := validLoadConfig()
		cfg.ChunkSize = 0
		if err := cfg.Validate(); !errors.Is(err, ErrInvalidConfig) {
			t.Errorf("Validate() error = %v, want ErrInvalidConfig", err)
		}
	})

	t.Run("negative timeout", func(t *testing.T) {
		cfg := validLoadConfig()
		cfg.Timeout = -time.Second
		if err := cfg.Validate(); !errors.Is(err, ErrInvalidConfig) {
			t.Errorf("Validate() error = %v, want ErrInvalidConfig", err)
		}
	})

	t.Run("multiple failures joined", func(t *testing.T) {
		cfg := LoadConfig{}
		err := cfg.Validate()
		if err == nil {
			t.Fatal("Validate() = nil for empty config")
		}
		msg := err.Error()
		for _, want := range []string{"Source", "TableName", "ConnectionString", "ChunkSize"} {
			if !strings.Contains(msg, want) {
				t.Errorf("joined error %q does not mention %s", msg, want)
			}
		}
	})
}

func TestAuthMethod_String(t *testing.T) {
	tests := []struct {
		method AuthMethod
		want   string
	}{
		{AuthMethodStandard, "Standard"},
		{AuthMethodAWSIAM, "AWS IAM"},
		{AuthMethodGoogleIAM, "Google IAM"},
		{AuthMethodAzureEntraID, "Azure Entra ID"},
	}
	for _, tt := range tests {
		if got := tt.method.String(); got != tt.want {
			t.Errorf("AuthMethod(%d).String() = %q, want %q", tt.method, got, tt.want)
		}
	}
}

func TestAuthMethod_IsValid(t *testing.T) {
	for _, m := range []AuthMethod{AuthMethodStandard, AuthMethodAWSIAM, AuthMethodGoogleIAM, AuthMethodAzureEntraID} {
		if !m.IsValid() {
			t.Errorf("AuthMethod %v should be valid", m)
		}
	}
	if AuthMethod(99).IsValid() {
		t.Error("AuthMethod(99) should be invalid")
	}
}

func TestSchema_Validate(t *testing.T) {
	tests := []struct {
		name    string
		sch     Schema
		wantErr bool
	}{
		{
			name: "valid schema",
			sch:  Schema{{Name: "a", Type: TypeInt64}, {Name: "b", Type: TypeText}},
		},
		{name: "empty schema", sch: Schema{}, wantErr: true},
		{
			name:    "duplicate column",
			sch:     Schema{{Name: "a", Type: TypeInt64}, {Name: "a", Type: TypeText}},
			wantErr: true,
		},
		{
			name:    "unnamed column",
			sch:     Schema{{Name: "", Type: TypeInt64}},
			wantErr: true,
		},
		{
			name:    "invalid type",
			sch:     Schema{{Name: "a", Type: ColumnType(42)}},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.sch.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr && !errors.Is(err, ErrInvalidConfig) {
				t.Errorf("Validate() error = %v, want ErrInvalidConfig", err)
			}
		})
	}
}

func TestSchema_Index(t *testing.T) {
	sch := Schema{{Name: "a", Type: TypeInt64}, {Name: "b", Type: TypeText}}

	if got := sch.Index("b"); got != 1 {
		t.Errorf("Index(b) = %d, want 1", got)
	}
	if got := sch.Index("missing"); got != -1 {
		t.Errorf("Index(missing) = %d, want -1", got)
	}
}

func TestBatch_Len(t *testing.T) {
	var nilBatch *Batch
	if nilBatch.Len() != 0 {
		t.Error("nil batch must have length 0")
	}

	b := &Batch{Rows: [][]any{{int64(1)}, {int64(2)}}}
	if b.Len() != 2 {
		t.Errorf("Len() = %d, want 2", b.Len())
	}
}
