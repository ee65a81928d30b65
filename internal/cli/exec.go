package cli

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/NateMachoka/AirBnB-clone-v2/internal/console"
)

func newExecCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "exec <command> [args...]",
		Short: "Run one shell command and exit",
		Long: "Run a single console command, for example:\n\n" +
			"  hbnb exec create State 'name=\"California\"'\n" +
			"  hbnb exec -- 'State.count()'",
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			store, err := a.openStore()
			if err != nil {
				return err
			}
			defer a.closeStore(store, &err)

			sh := console.New(store, cmd.InOrStdin(), cmd.OutOrStdout(), console.WithLogger(a.logger))
			sh.Execute(strings.Join(args, " "))
			return nil
		},
	}
}
