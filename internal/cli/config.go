package cli

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/NateMachoka/AirBnB-clone-v2/internal/paths"
	"github.com/NateMachoka/AirBnB-clone-v2/pkg/types"
)

const (
	configFileName = "config"
	configFileType = "yaml"
	envPrefix      = "HBNB"
	defaultEnvFile = ".env"

	cfgKeyStorage    = "storage"
	cfgKeyFilePath   = "file_path"
	cfgKeyDataDir    = "data_dir"
	cfgKeyDBDriver   = "db.driver"
	cfgKeyDBDSN      = "db.dsn"
	cfgKeyEnv        = "env"
	cfgKeyLogLevel   = "log_level"
	cfgKeyListenAddr = "listen_addr"

	defaultStorage    = types.StorageFile
	defaultDBDriver   = types.DriverSQLite
	defaultLogLevel   = "warn"
	defaultListenAddr = "0.0.0.0:5000"
)

// loadConfig reads config.yaml from the resolved config directory, then the
// per-user config directory, and layers HBNB_* environment variables and
// flags on top. A missing config.yaml is not an error.
func loadConfig(f rootFlags) (*viper.Viper, error) {
	if err := loadEnvFile(f.envFile); err != nil {
		return nil, err
	}

	configDir, err := paths.ResolveConfigDir(f.configDir)
	if err != nil {
		return nil, fmt.Errorf("resolve config dir: %w", err)
	}

	v := viper.New()
	v.SetDefault(cfgKeyStorage, defaultStorage)
	v.SetDefault(cfgKeyDBDriver, defaultDBDriver)
	v.SetDefault(cfgKeyLogLevel, defaultLogLevel)
	v.SetDefault(cfgKeyListenAddr, defaultListenAddr)

	v.SetConfigName(configFileName)
	v.SetConfigType(configFileType)
	v.AddConfigPath(configDir)
	if f.configDir == "" {
		if userDir, err := paths.UserConfigDir(); err == nil {
			v.AddConfigPath(userDir)
		}
	}

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	// HBNB_TYPE_STORAGE is the historical name of the backend switch.
	if err := v.BindEnv(cfgKeyStorage, "HBNB_TYPE_STORAGE", "HBNB_STORAGE"); err != nil {
		return nil, fmt.Errorf("bind env: %w", err)
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	if f.storage != "" {
		v.Set(cfgKeyStorage, f.storage)
	}
	if f.logLevel != "" {
		v.Set(cfgKeyLogLevel, f.logLevel)
	}
	return v, nil
}

// loadEnvFile loads environment variables from path, or from .env in the
// working directory when path is empty and the file exists. Variables
// already set in the environment win.
func loadEnvFile(path string) error {
	if path == "" {
		if _, err := os.Stat(defaultEnvFile); errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		path = defaultEnvFile
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("load env file %s: %w", path, err)
	}
	return nil
}

// storageConfig derives the backend configuration from v. Paths that are
// not configured default to files in the data directory, which is created.
func storageConfig(v *viper.Viper, dataDirFlag string) (types.Config, error) {
	cfg := types.Config{
		Storage:  strings.ToLower(v.GetString(cfgKeyStorage)),
		FilePath: v.GetString(cfgKeyFilePath),
		DBDriver: v.GetString(cfgKeyDBDriver),
		DSN:      v.GetString(cfgKeyDBDSN),
		Env:      v.GetString(cfgKeyEnv),
	}

	needsDataDir := (cfg.Storage == types.StorageFile && cfg.FilePath == "") ||
		(cfg.Storage == types.StorageDB && cfg.DBDriver == types.DriverSQLite && cfg.DSN == "")
	if needsDataDir {
		dataDir, err := paths.ResolveDataDir(dataDirFlag, v.GetString(cfgKeyDataDir))
		if err != nil {
			return types.Config{}, fmt.Errorf("resolve data dir: %w", err)
		}
		if err := os.MkdirAll(dataDir, 0o755); err != nil {
			return types.Config{}, fmt.Errorf("create data dir: %w", err)
		}
		if cfg.Storage == types.StorageFile {
			cfg.FilePath = paths.JSONFile(dataDir)
		} else {
			cfg.DSN = paths.SQLiteFile(dataDir)
		}
	}

	if err := cfg.Validate(); err != nil {
		return types.Config{}, err
	}
	return cfg, nil
}
