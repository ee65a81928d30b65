package cli

import (
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"github.com/NateMachoka/AirBnB-clone-v2/internal/logging"
	"github.com/NateMachoka/AirBnB-clone-v2/internal/web"
)

func newServeCmd(a *app) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the HTML front",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			if addr == "" {
				addr = a.config.GetString(cfgKeyListenAddr)
			}
			if logging.ParseLevel(a.config.GetString(cfgKeyLogLevel)) != slog.LevelDebug {
				gin.SetMode(gin.ReleaseMode)
			}

			store, err := a.openStore()
			if err != nil {
				return err
			}
			defer a.closeStore(store, &err)

			srv, err := web.NewServer(store, a.logger)
			if err != nil {
				return sysError(err)
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			if err := srv.ListenAndServe(ctx, addr); err != nil {
				return sysError(err)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config listen_addr, 0.0.0.0:5000)")
	return cmd
}
