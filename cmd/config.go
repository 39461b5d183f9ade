package cmd

import (
	"fmt"
	"strings"

	"bvgview/pkg/config"
	"bvgview/pkg/kvstore"
	"bvgview/pkg/tui"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage bvgview configuration",
	Long:  "View or edit your local configuration settings (storage backend, API host, theme).",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}

		flags := cmd.Flags()
		if !anyChanged(cmd) {
			// If no flags are given, launch the interactive TUI flow
			return tui.RunConfigTUI(cfg)
		}

		if flags.Changed("show") {
			tui.PrintConfig(cfg)
			return nil
		}

		if flags.Changed("storage") {
			backend, _ := flags.GetString("storage")
			backend = strings.ToLower(strings.TrimSpace(backend))
			switch backend {
			case kvstore.BackendFile, kvstore.BackendMemory, kvstore.BackendMongo, kvstore.BackendPostgres:
				cfg.Storage = backend
			default:
				return fmt.Errorf("unknown storage backend %q (use file, memory, mongo or postgres)", backend)
			}
		}
		if flags.Changed("storage-dir") {
			cfg.StorageDir, _ = flags.GetString("storage-dir")
		}
		if flags.Changed("mongo-uri") {
			cfg.MongoURI, _ = flags.GetString("mongo-uri")
		}
		if flags.Changed("mongo-db") {
			cfg.MongoDatabase, _ = flags.GetString("mongo-db")
		}
		if flags.Changed("postgres-dsn") {
			cfg.PostgresDSN, _ = flags.GetString("postgres-dsn")
		}
		if flags.Changed("api") {
			api, _ := flags.GetString("api")
			cfg.APIBaseURL = strings.TrimRight(strings.TrimSpace(api), "/")
		}
		if flags.Changed("accent") {
			cfg.AccentColor, _ = flags.GetString("accent")
		}
		if flags.Changed("grouped") {
			cfg.GroupByRoute, _ = flags.GetBool("grouped")
		}

		if err := config.Save(cfg); err != nil {
			return err
		}

		fmt.Println("✅ Configuration saved.")
		return nil
	},
}

func anyChanged(cmd *cobra.Command) bool {
	changed := false
	cmd.LocalFlags().VisitAll(func(f *pflag.Flag) {
		if f.Changed {
			changed = true
		}
	})
	return changed
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.Flags().Bool("show", false, "Print the current configuration")
	configCmd.Flags().String("storage", "", "Storage backend for recent stations: file, memory, mongo or postgres")
	configCmd.Flags().String("storage-dir", "", "Directory for the file backend (default ~/.bvgview)")
	configCmd.Flags().String("mongo-uri", "", "MongoDB connection URI")
	configCmd.Flags().String("mongo-db", "", "MongoDB database name")
	configCmd.Flags().String("postgres-dsn", "", "PostgreSQL connection string")
	configCmd.Flags().String("api", "", "transport.rest base URL (empty for the default)")
	configCmd.Flags().String("accent", "", "Accent color, e.g. 220 or #FFD800")
	configCmd.Flags().Bool("grouped", false, "Group the live board by station, line and direction")
}
