package main

import (
	"log/slog"

	"github.com/spf13/cobra"
	"github.com/storefront-dev/storefront/internal/mockapi"
	"github.com/storefront-dev/storefront/internal/version"
)

func newMockServerCmd(a *app) *cobra.Command {
	var (
		host string
		port int
	)
	cmd := &cobra.Command{
		Use:   "mock-server",
		Short: "Run the in-memory storefront backend for local development",
		Long: `Serve an in-memory storefront API under /api, seeded with demo data.

Demo accounts (password "` + mockapi.DemoPassword + `"):
  ` + mockapi.DemoCustomerEmail + `
  ` + mockapi.DemoSellerEmail + `
  ` + mockapi.DemoAdminEmail,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := mockapi.Config{
				Host:           a.cfg.MockHost,
				Port:           a.cfg.MockPort,
				Environment:    a.cfg.Environment,
				Secret:         a.cfg.MockSecret,
				AllowedOrigins: a.cfg.AllowedOrigins(),
			}
			if cmd.Flags().Changed("host") {
				cfg.Host = host
			}
			if cmd.Flags().Changed("port") {
				cfg.Port = port
			}

			server, err := mockapi.NewServer(cfg, a.logger)
			if err != nil {
				return err
			}

			a.logger.Info("starting mock api", slog.String("version", version.Get().Version))
			if err := server.Run(cmd.Context()); err != nil {
				return err
			}
			a.logger.Info("mock api shutdown complete")
			return nil
		},
	}
	cmd.Flags().StringVar(&host, "host", "", "listen host (overrides STOREFRONT_MOCK_HOST)")
	cmd.Flags().IntVar(&port, "port", 0, "listen port (overrides STOREFRONT_MOCK_PORT)")
	return cmd
}
