package cmd

import (
	"os"
	"os/signal"
	"syscall"

	"bvgview/pkg/config"
	"bvgview/pkg/server"
	"bvgview/pkg/transit"

	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP proxy for stop search and departures",
	Long: `Serve /api/stops and /api/departures in front of the transport.rest API.
Settings are read from bvgview.yml (or --config) and PORT overrides the port.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		path, _ := cmd.Flags().GetString("config")

		cfg, err := config.LoadServerConfig(path)
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		client := transit.NewClient(transit.WithBaseURL(cfg.APIBaseURL))
		return server.New(client, *cfg).ListenAndServe(ctx)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringP("config", "c", "", "Path to the YAML server config (default bvgview.yml)")
}
