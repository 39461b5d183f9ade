package cmd

import (
	"fmt"
	"os"
	"time"

	"bvgview/pkg/exporter"
	"bvgview/pkg/feed"
	"bvgview/pkg/transit"

	"github.com/charmbracelet/huh/spinner"
	"github.com/spf13/cobra"
)

var exportCmd = &cobra.Command{
	Use:   "export <stopID...>",
	Short: "Export upcoming departures to an ICS file",
	Long:  `Fetch the next departures of the given stops once and write them as calendar events.`,
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		output, _ := cmd.Flags().GetString("output")

		e, err := openEnv(cmd.Context())
		if err != nil {
			return err
		}
		defer e.close()

		stops := resolveStops(args, e.recents.List())
		byStop := make(map[string][]transit.Departure, len(stops))

		_ = spinner.New().
			Title(fmt.Sprintf("Fetching departures for %d stop(s)...", len(stops))).
			Action(func() {
				for _, st := range stops {
					deps, fetchErr := e.client.FetchDepartures(cmd.Context(), st.ID)
					if fetchErr != nil {
						err = fmt.Errorf("failed to fetch departures for %s: %w", st.ID, fetchErr)
						return
					}
					byStop[st.ID] = deps
				}
			}).
			Run()

		if err != nil {
			return err
		}

		entries := feed.Merge(stops, byStop)
		if len(entries) == 0 {
			return fmt.Errorf("no upcoming departures found")
		}

		file, err := os.Create(output)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer file.Close()

		if err := exporter.GenerateICS(entries, time.Now(), file); err != nil {
			return fmt.Errorf("failed to generate ICS: %w", err)
		}

		fmt.Printf("Successfully exported %d departures to %s\n", len(entries), output)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(exportCmd)

	exportCmd.Flags().StringP("output", "o", "departures.ics", "Output file path")
}
