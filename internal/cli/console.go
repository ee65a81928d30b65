package cli

import (
	"os"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/NateMachoka/AirBnB-clone-v2/internal/console"
)

func newConsoleCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "console",
		Short: "Run the interactive command shell",
		Long: "Read commands from standard input until quit or end of input.\n" +
			"Type help inside the shell for the command list.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runConsole(cmd)
		},
	}
}

func (a *app) runConsole(cmd *cobra.Command) (err error) {
	store, err := a.openStore()
	if err != nil {
		return err
	}
	defer a.closeStore(store, &err)

	in := cmd.InOrStdin()
	prompt := ""
	if f, ok := in.(*os.File); ok && isTerminal(f) {
		prompt = console.DefaultPrompt
	}

	sh := console.New(store, in, cmd.OutOrStdout(),
		console.WithPrompt(prompt),
		console.WithLogger(a.logger),
	)
	if err := sh.Run(); err != nil {
		return sysError(err)
	}
	return nil
}

func isTerminal(f *os.File) bool {
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
