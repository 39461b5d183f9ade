package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"bvgview/pkg/recent"
	"bvgview/pkg/transit"
	"bvgview/pkg/tui"

	"github.com/spf13/cobra"
)

var watchCmd = &cobra.Command{
	Use:   "watch [stopID...]",
	Short: "Show a live departure board for one or more stops",
	Long: `Poll the departures of every given stop every 10 seconds and show them
as one board sorted by departure time. Use --recent to watch the recent stations.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		useRecent, _ := cmd.Flags().GetBool("recent")
		grouped, _ := cmd.Flags().GetBool("grouped")

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		e, err := openEnv(ctx)
		if err != nil {
			return err
		}
		defer e.close()

		stops := resolveStops(args, e.recents.List())
		if useRecent {
			for _, st := range e.recents.List() {
				stops = append(stops, transit.Stop{ID: st.ID, Name: st.Name})
			}
		}

		if len(stops) == 0 {
			return fmt.Errorf("no stops given; pass stop IDs (see 'bvgview search') or --recent")
		}

		session, updates := tui.NewSession(e.client, e.recents)
		defer session.Close()

		session.SelectAll(ctx, stops)
		return tui.RunBoard(ctx, session, updates, grouped || e.cfg.GroupByRoute)
	},
}

// resolveStops turns stop IDs into stops, naming them from the recent
// stations where possible.
func resolveStops(ids []string, known []recent.Station) []transit.Stop {
	names := make(map[string]string, len(known))
	for _, st := range known {
		names[st.ID] = st.Name
	}

	stops := make([]transit.Stop, 0, len(ids))
	for _, id := range ids {
		name, ok := names[id]
		if !ok {
			name = id
		}
		stops = append(stops, transit.Stop{ID: id, Name: name})
	}
	return stops
}

func init() {
	rootCmd.AddCommand(watchCmd)
	watchCmd.Flags().BoolP("recent", "r", false, "Watch all recent stations")
	watchCmd.Flags().BoolP("grouped", "g", false, "Group departures by station, line and direction")
}
