package tui

import (
	"context"
	"fmt"
	"strings"

	"bvgview/pkg/recent"
	"bvgview/pkg/transit"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/huh/spinner"
)

func runSearchTUI(ctx context.Context, client *transit.Client) ([]transit.Stop, error) {
	var query string

	queryForm := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Search for a stop").
				Placeholder("Alexanderplatz").
				Value(&query).
				Validate(notBlank("Search")),
		),
	).WithTheme(GetTheme())

	if err := queryForm.Run(); err != nil {
		return nil, err
	}

	var stops []transit.Stop
	var err error

	_ = spinner.New().
		Title(fmt.Sprintf("Searching stops for %q...", strings.TrimSpace(query))).
		Action(func() {
			stops, err = client.SearchStops(ctx, query)
		}).
		Run()

	if err != nil {
		return nil, fmt.Errorf("could not search stops: %w", err)
	}

	if len(stops) == 0 {
		fmt.Println(errorStyle.Render("No stops found."))
		return nil, nil
	}

	byID := make(map[string]transit.Stop, len(stops))
	var options []huh.Option[string]
	for _, st := range stops {
		byID[st.ID] = st
		options = append(options, huh.NewOption(st.Name, st.ID))
	}

	var picked []string
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewMultiSelect[string]().
				Title("Select stops to watch").
				Description("Space = toggle, Enter = confirm.").
				Options(options...).
				Value(&picked),
		),
	).WithTheme(GetTheme())

	if err := form.Run(); err != nil {
		return nil, err
	}

	result := make([]transit.Stop, 0, len(picked))
	for _, id := range picked {
		result = append(result, byID[id])
	}
	return result, nil
}

func runRecentTUI(ctx context.Context, recents *recent.Store) ([]recent.Station, error) {
	stations := recents.List()

	var options []huh.Option[string]
	byID := make(map[string]recent.Station, len(stations))
	for _, st := range stations {
		byID[st.ID] = st
		label := fmt.Sprintf("%s %s", st.Name, mutedStyle.Render(st.Timestamp.Local().Format("02.01. 15:04")))
		options = append(options, huh.NewOption(label, st.ID))
	}
	options = append(options, huh.NewOption("🗑️ Clear Recent Stations", "clear"))

	var picked []string
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewMultiSelect[string]().
				Title("Recent Stations").
				Description("Space = toggle, Enter = confirm.").
				Options(options...).
				Value(&picked),
		),
	).WithTheme(GetTheme())

	if err := form.Run(); err != nil {
		return nil, err
	}

	var result []recent.Station
	for _, id := range picked {
		if id == "clear" {
			if err := recents.Clear(ctx); err != nil {
				return nil, err
			}
			fmt.Println(accentStyle.Render("\n✅ Recent stations cleared.\n"))
			continue
		}
		result = append(result, byID[id])
	}
	return result, nil
}

// runRemoveTUI asks which selected stops to drop and returns their IDs
func runRemoveTUI(ctx context.Context, selection []transit.Stop) ([]string, error) {
	var options []huh.Option[string]
	for _, st := range selection {
		options = append(options, huh.NewOption(st.Name, st.ID))
	}

	var drop []string
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewMultiSelect[string]().
				Title("Remove stops from the board").
				Options(options...).
				Value(&drop),
		),
	).WithTheme(GetTheme())

	if err := form.RunWithContext(ctx); err != nil {
		return nil, err
	}
	return drop, nil
}
