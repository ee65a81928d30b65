package types

import (
	"errors"
	"testing"
)

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		config  Config
		wantErr error
	}{
		{
			name:    "empty storage returns ErrStorageEmpty",
			config:  Config{FilePath: "file.json"},
			wantErr: ErrStorageEmpty,
		},
		{
			name:    "unknown storage returns ErrStorageUnknown",
			config:  Config{Storage: "redis"},
			wantErr: ErrStorageUnknown,
		},
		{
			name:    "file storage without path",
			config:  Config{Storage: StorageFile},
			wantErr: ErrFilePathEmpty,
		},
		{
			name:   "valid file config",
			config: Config{Storage: StorageFile, FilePath: "file.json"},
		},
		{
			name:    "db storage with unknown driver",
			config:  Config{Storage: StorageDB, DBDriver: "mysql", DSN: "x"},
			wantErr: ErrDriverUnknown,
		},
		{
			name:    "db storage without dsn",
			config:  Config{Storage: StorageDB, DBDriver: DriverSQLite},
			wantErr: ErrDSNEmpty,
		},
		{
			name:   "valid sqlite config",
			config: Config{Storage: StorageDB, DBDriver: DriverSQLite, DSN: "hbnb.db"},
		},
		{
			name:   "valid postgres config",
			config: Config{Storage: StorageDB, DBDriver: DriverPostgres, DSN: "postgres://localhost/hbnb"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if tt.wantErr == nil {
				if err != nil {
					t.Fatalf("expected nil error, got %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("expected error %v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestConfigIsTest(t *testing.T) {
	if !(Config{Env: EnvTest}).IsTest() {
		t.Fatal("expected env test to be a test config")
	}
	if (Config{Env: "dev"}).IsTest() {
		t.Fatal("expected env dev not to be a test config")
	}
}
