package cmd

import (
	"fmt"
	"strings"

	"bvgview/pkg/config"
	"bvgview/pkg/transit"

	"github.com/charmbracelet/huh/spinner"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
)

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search for stops by name",
	Long:  "Look up stops by name. The printed IDs can be passed to 'bvgview watch' and 'bvgview export'.",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}

		query := strings.Join(args, " ")
		if strings.TrimSpace(query) == "" {
			return fmt.Errorf("query must not be empty")
		}

		client := newClient(cfg)

		var found []transit.Stop
		_ = spinner.New().
			Title(fmt.Sprintf("Searching stops for %q...", query)).
			Action(func() {
				found, err = client.SearchStops(cmd.Context(), query)
			}).
			Run()

		if err != nil {
			return fmt.Errorf("could not search stops: %w", err)
		}

		if len(found) == 0 {
			fmt.Printf("No stops found for '%s'.\n", query)
			return nil
		}

		idStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("205")).Bold(true)
		for _, st := range found {
			fmt.Printf("%s  %s\n", idStyle.Render(fmt.Sprintf("%-12s", st.ID)), st.Name)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(searchCmd)
}
