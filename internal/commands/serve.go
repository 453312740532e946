package commands

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"github.com/sleekspend/sleekspend/internal/server"
)

func newServeCommand(opts *globalOptions) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the JSON API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.withApp(cmd, func(a *app) error {
				cfg := server.Config{
					Addr:         a.cfg.Server.Addr,
					AllowOrigins: a.cfg.Server.AllowOrigins,
				}
				if addr != "" {
					cfg.Addr = addr
				}

				ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
				defer stop()

				gin.SetMode(server.Mode(a.cfg.Log.Level))
				srv := server.New(cfg, a.ledger, a.factory, a.catalog, a.logger)
				return srv.Run(ctx)
			})
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (overrides server.addr)")

	return cmd
}
