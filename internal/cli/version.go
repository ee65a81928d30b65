package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

const modulePath = "github.com/NateMachoka/AirBnB-clone-v2"

// Version is the release version, overridden at build time with
// -ldflags "-X github.com/NateMachoka/AirBnB-clone-v2/internal/cli.Version=...".
var Version = "0.1.0"

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the hbnb version",
		Args:  cobra.NoArgs,
		// Version needs no configuration.
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return nil },
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintf(cmd.OutOrStdout(), "hbnb v%s\nmodule: %s\n", Version, modulePath)
			return nil
		},
	}
}
