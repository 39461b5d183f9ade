package cmd

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
)

var recentCmd = &cobra.Command{
	Use:   "recent",
	Short: "List or clear recently selected stations",
	RunE: func(cmd *cobra.Command, args []string) error {
		clearAll, _ := cmd.Flags().GetBool("clear")

		e, err := openEnv(cmd.Context())
		if err != nil {
			return err
		}
		defer e.close()

		if clearAll {
			if err := e.recents.Clear(cmd.Context()); err != nil {
				return fmt.Errorf("could not clear recent stations: %w", err)
			}
			fmt.Println("✅ Recent stations cleared.")
			return nil
		}

		stations := e.recents.List()
		if len(stations) == 0 {
			fmt.Println("No recent stations yet.")
			return nil
		}

		idStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("205")).Bold(true)
		for _, st := range stations {
			fmt.Printf("%s  %s (%s)\n", idStyle.Render(fmt.Sprintf("%-12s", st.ID)), st.Name, st.Timestamp.Local().Format("02.01.2006 15:04"))
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(recentCmd)
	recentCmd.Flags().Bool("clear", false, "Remove all recent stations")
}
