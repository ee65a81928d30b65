package cli

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/NateMachoka/AirBnB-clone-v2/internal/paths"
)

// configFile holds the structure written to config.yaml.
type configFile struct {
	Storage    string       `yaml:"storage"`
	DataDir    string       `yaml:"data_dir,omitempty"`
	FilePath   string       `yaml:"file_path,omitempty"`
	DB         configFileDB `yaml:"db"`
	Env        string       `yaml:"env,omitempty"`
	LogLevel   string       `yaml:"log_level"`
	ListenAddr string       `yaml:"listen_addr"`
}

type configFileDB struct {
	Driver string `yaml:"driver"`
	DSN    string `yaml:"dsn,omitempty"`
}

func newInitCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Initialize hbnb configuration and storage",
		Long: "Create the configuration directory with a default config.yaml if it is\n" +
			"missing, then open the configured storage once so the data file or\n" +
			"database schema exists.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runInit(cmd)
		},
	}
}

func (a *app) runInit(cmd *cobra.Command) (err error) {
	configDir, err := paths.ResolveConfigDir(a.flags.configDir)
	if err != nil {
		return sysError(fmt.Errorf("resolve config dir: %w", err))
	}
	if err := os.MkdirAll(configDir, 0o755); err != nil {
		return sysError(fmt.Errorf("create config directory: %w", err))
	}

	configPath := paths.ConfigFile(configDir)
	written, err := writeConfigIfMissing(configPath, a.flags.dataDir)
	if err != nil {
		return sysError(fmt.Errorf("write config: %w", err))
	}
	if written {
		// Pick up the file that was just written.
		if a.config, err = loadConfig(a.flags); err != nil {
			return userError(err)
		}
	}

	store, err := a.openStore()
	if err != nil {
		return err
	}
	defer a.closeStore(store, &err)

	if err := store.Save(); err != nil {
		return sysError(fmt.Errorf("initialize storage: %w", err))
	}

	fmt.Fprintf(cmd.OutOrStdout(), "hbnb initialized (config: %s)\n", configPath)
	return nil
}

// writeConfigIfMissing creates config.yaml with default values if the file
// does not exist. It reports whether the file was written.
func writeConfigIfMissing(path, dataDir string) (bool, error) {
	if _, err := os.Stat(path); err == nil {
		return false, nil
	} else if !errors.Is(err, fs.ErrNotExist) {
		return false, err
	}

	cfg := configFile{
		Storage:    defaultStorage,
		DataDir:    dataDir,
		DB:         configFileDB{Driver: defaultDBDriver},
		LogLevel:   defaultLogLevel,
		ListenAddr: defaultListenAddr,
	}

	data, err := yaml.Marshal(&cfg)
	if err != nil {
		return false, fmt.Errorf("marshal config: %w", err)
	}

	header := []byte("# hbnb configuration. Environment variables HBNB_* override these values.\n")
	if err := os.WriteFile(path, append(header, data...), 0o644); err != nil {
		return false, err
	}
	return true, nil
}
