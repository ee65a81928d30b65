package types

import "errors"

// Config selects and parameterises a storage backend.
type Config struct {
	Storage  string `json:"storage" yaml:"storage"`
	FilePath string `json:"file_path" yaml:"file_path"`
	DBDriver string `json:"db_driver" yaml:"db_driver"`
	DSN      string `json:"dsn" yaml:"dsn"`
	Env      string `json:"env" yaml:"env"`
}

// Supported backends.
const (
	StorageFile = "file"
	StorageDB   = "db"
)

// Supported database drivers.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "pgx"
)

// EnvTest marks a test deployment. The database backend drops its schema on
// open in this environment.
const EnvTest = "test"

// Config validation errors.
var (
	ErrStorageEmpty   = errors.New("storage must not be empty")
	ErrStorageUnknown = errors.New("unknown storage")
	ErrDriverUnknown  = errors.New("unknown database driver")
	ErrFilePathEmpty  = errors.New("file path must not be empty")
	ErrDSNEmpty       = errors.New("database dsn must not be empty")
)

// Validate checks that the Config is well-formed. It returns one of the
// sentinel errors above.
func (c Config) Validate() error {
	switch c.Storage {
	case "":
		return ErrStorageEmpty
	case StorageFile:
		if c.FilePath == "" {
			return ErrFilePathEmpty
		}
	case StorageDB:
		if c.DBDriver != DriverSQLite && c.DBDriver != DriverPostgres {
			return ErrDriverUnknown
		}
		if c.DSN == "" {
			return ErrDSNEmpty
		}
	default:
		return ErrStorageUnknown
	}
	return nil
}

// IsTest reports whether the config targets the test environment.
func (c Config) IsTest() bool {
	return c.Env == EnvTest
}
