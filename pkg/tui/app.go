package tui

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"bvgview/pkg/config"
	"bvgview/pkg/recent"
	"bvgview/pkg/transit"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
)

var (
	// These act as fallbacks initially, but should ideally be dynamically instantiated by GetTheme()
	accentStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("220"))
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)
	mutedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
)

const defaultAccent = "220" // BVG yellow

// GetTheme loads the user's saved Accent Color and constructs the UI theme.
func GetTheme() *huh.Theme {
	cfg, err := config.Load()
	baseColor := defaultAccent

	if err == nil && cfg != nil && cfg.AccentColor != "" {
		baseColor = cfg.AccentColor
	}

	// Update the global lipgloss accent so manual CLI print statements also receive the color
	accentStyle = lipgloss.NewStyle().Foreground(lipgloss.Color(baseColor))

	return GetCustomTheme(baseColor)
}

// GetCustomTheme returns a new huh.Theme instantiated with the provided lipgloss color string.
// This is used for live-previewing styles before they are officially saved.
func GetCustomTheme(baseColor string) *huh.Theme {
	t := huh.ThemeCharm()
	p := lipgloss.Color(baseColor)

	t.Focused.Title = t.Focused.Title.Foreground(p).Bold(true)
	t.Focused.Base = t.Focused.Base.Border(lipgloss.RoundedBorder()).BorderForeground(p).Padding(0, 1)
	t.Focused.SelectSelector = t.Focused.SelectSelector.Foreground(p)
	t.Focused.MultiSelectSelector = t.Focused.MultiSelectSelector.Foreground(p)
	t.Focused.SelectedOption = t.Focused.SelectedOption.Foreground(p)
	t.Focused.SelectedPrefix = t.Focused.SelectedPrefix.Foreground(p)
	t.Focused.UnselectedPrefix = t.Focused.UnselectedPrefix.Foreground(lipgloss.AdaptiveColor{Light: "", Dark: "235"})
	t.Focused.TextInput.Cursor = t.Focused.TextInput.Cursor.Foreground(p)
	t.Focused.TextInput.Prompt = t.Focused.TextInput.Prompt.Foreground(p)
	t.Focused.FocusedButton = t.Focused.FocusedButton.Foreground(lipgloss.Color("0")).Background(p)

	// Softer borders for unfocused elements
	t.Blurred.Base = t.Blurred.Base.Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("238")).Padding(0, 1)

	return t
}

// App bundles what the interactive screens need
type App struct {
	Client  *transit.Client
	Recents *recent.Store
	Config  *config.AppConfig
}

// RunTUI launches the main menu. One live session lives for the whole run:
// picks from search or the recent list join it at once and start polling,
// removals take effect immediately.
func (a *App) RunTUI(ctx context.Context) error {
	session, updates := NewSession(a.Client, a.Recents)
	defer session.Close()

	for {
		var action string
		selection := session.Selected()

		options := []huh.Option[string]{
			huh.NewOption("🔍 Search Stops", "search"),
		}
		if len(a.Recents.List()) > 0 {
			options = append(options, huh.NewOption("🕘 Recent Stations", "recent"))
		}
		if len(selection) > 0 {
			options = append(options,
				huh.NewOption(fmt.Sprintf("🚆 Open Live Board (%d stops)", len(selection)), "board"),
				huh.NewOption("✖️ Remove Selected Stops", "remove"),
			)
		}
		options = append(options,
			huh.NewOption("⚙️ Settings", "config"),
			huh.NewOption("Quit", "quit"),
		)

		menu := huh.NewForm(
			huh.NewGroup(
				huh.NewSelect[string]().
					Title("What would you like to do?").
					Description(selectionSummary(selection)).
					Options(options...).
					Value(&action),
			),
		).WithTheme(GetTheme())

		if err := menu.RunWithContext(ctx); err != nil {
			return err
		}

		var err error
		switch action {
		case "search":
			var picked []transit.Stop
			if picked, err = runSearchTUI(ctx, a.Client); err == nil {
				session.SelectAll(ctx, picked)
			}
		case "recent":
			var picked []recent.Station
			if picked, err = runRecentTUI(ctx, a.Recents); err == nil {
				session.SelectRecent(ctx, picked...)
			}
		case "remove":
			var drop []string
			if drop, err = runRemoveTUI(ctx, selection); err == nil {
				for _, id := range drop {
					session.Deselect(id)
				}
			}
		case "board":
			boardCtx, stop := signal.NotifyContext(ctx, os.Interrupt)
			err = RunBoard(boardCtx, session, updates, a.Config.GroupByRoute)
			stop()
		case "config":
			err = RunConfigTUI(a.Config)
		case "quit":
			return nil
		}

		if err != nil {
			return err
		}
		if ctx.Err() != nil {
			return nil
		}
	}
}

func selectionSummary(stops []transit.Stop) string {
	if len(stops) == 0 {
		return "No stops selected yet."
	}
	s := "Selected:"
	for _, st := range stops {
		s += "\n • " + st.Name
	}
	return s
}
