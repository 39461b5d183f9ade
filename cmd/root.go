package cmd

import (
	"fmt"
	"os"

	"bvgview/internal/logging"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "bvgview",
	Short: "A CLI and TUI for live Berlin/Brandenburg departures",
	Long: `bvgview watches several public transport stops at once and merges
their live departures into a single board, refreshed every 10 seconds.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		debug, _ := cmd.Flags().GetBool("debug")
		logging.Init(debug)
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().Bool("debug", false, "Enable debug logging")
}
