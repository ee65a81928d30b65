// Package cli implements the hbnb command-line interface: the interactive
// console, one-shot command execution, the web server and setup commands.
package cli

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/NateMachoka/AirBnB-clone-v2/internal/logging"
	"github.com/NateMachoka/AirBnB-clone-v2/internal/storage"
	"github.com/NateMachoka/AirBnB-clone-v2/pkg/types"
)

// Exit codes.
const (
	exitSuccess   = 0
	exitUserError = 1
	exitSysError  = 2
)

// rootFlags holds global flag values accessible to all subcommands.
type rootFlags struct {
	configDir string
	dataDir   string
	storage   string
	envFile   string
	logLevel  string
}

// app is the state shared by the subcommands of one invocation.
type app struct {
	flags  rootFlags
	config *viper.Viper
	logger *slog.Logger
}

// NewRootCmd creates the top-level "hbnb" command with global flags and all
// subcommands registered. Without a subcommand it runs the console.
func NewRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:   "hbnb",
		Short: "Manage hbnb model objects",
		Long: "hbnb stores users, states, cities, amenities, places and reviews\n" +
			"in a JSON file or a SQL database, and serves them over HTTP.",
		Version: Version,
		// Do not print usage on errors returned by subcommands.
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runConsole(cmd)
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&a.flags.configDir, "config-dir", "", "configuration directory (default: $(CWD)/.hbnb)")
	pf.StringVar(&a.flags.dataDir, "data-dir", "", "data directory (default: $(CWD)/.hbnb-db)")
	pf.StringVar(&a.flags.storage, "storage", "", "storage backend: file or db")
	pf.StringVar(&a.flags.envFile, "env-file", "", "load environment variables from this file (default: .env if present)")
	pf.StringVar(&a.flags.logLevel, "log-level", "", "log level: debug, info, warn or error")

	root.AddCommand(newVersionCmd())
	root.AddCommand(newInitCmd(a))
	root.AddCommand(newConsoleCmd(a))
	root.AddCommand(newExecCmd(a))
	root.AddCommand(newServeCmd(a))

	return root
}

// Execute runs the root command and exits with the appropriate code.
func Execute() {
	root := NewRootCmd()
	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(exitCode(err))
	}
	os.Exit(exitSuccess)
}

// setup loads configuration and builds the logger.
func (a *app) setup(cmd *cobra.Command) error {
	v, err := loadConfig(a.flags)
	if err != nil {
		return userError(err)
	}
	a.config = v
	a.logger = logging.New(v.GetString(cfgKeyEnv), v.GetString(cfgKeyLogLevel), cmd.ErrOrStderr())
	return nil
}

// openStore opens the configured backend.
func (a *app) openStore() (types.Storage, error) {
	cfg, err := storageConfig(a.config, a.flags.dataDir)
	if err != nil {
		return nil, userError(err)
	}
	store, err := storage.Open(cfg, a.logger)
	if err != nil {
		if errors.Is(err, types.ErrStorageUnknown) || errors.Is(err, types.ErrDriverUnknown) {
			return nil, userError(err)
		}
		return nil, sysError(fmt.Errorf("open storage: %w", err))
	}
	a.logger.Debug("storage opened", "storage", cfg.Storage, "env", cfg.Env)
	return store, nil
}

// closeStore closes store and reports the error unless an earlier one is
// already being returned.
func (a *app) closeStore(store types.Storage, err *error) {
	if cerr := store.Close(); cerr != nil && *err == nil {
		*err = sysError(fmt.Errorf("close storage: %w", cerr))
	}
}

// exitError carries the process exit code for an error.
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string { return e.err.Error() }
func (e *exitError) Unwrap() error { return e.err }

func userError(err error) error { return &exitError{code: exitUserError, err: err} }
func sysError(err error) error  { return &exitError{code: exitSysError, err: err} }

// exitCode maps an error to an exit code. Errors without one, such as
// cobra's flag errors, are user errors.
func exitCode(err error) int {
	if err == nil {
		return exitSuccess
	}
	var ee *exitError
	if errors.As(err, &ee) {
		return ee.code
	}
	return exitUserError
}
