package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"bvgview/pkg/feed"
	"bvgview/pkg/live"
	"bvgview/pkg/poller"
	"bvgview/pkg/recent"
	"bvgview/pkg/transit"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// routeDepth is how many upcoming departures a grouped route shows
const routeDepth = 3

var (
	countdownStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("205")).Bold(true).Width(8)
	badgeStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("15")).Bold(true).Padding(0, 1)
)

// transitTypeColor picks the badge color for a product type
func transitTypeColor(kind string) lipgloss.Color {
	switch strings.ToLower(kind) {
	case "subway", "u-bahn":
		return lipgloss.Color("#0067C5")
	case "suburban", "s-bahn":
		return lipgloss.Color("#006F35")
	case "bus":
		return lipgloss.Color("#925CAB")
	default:
		return lipgloss.Color("#6B7280")
	}
}

func lineBadge(d transit.Departure) string {
	return badgeStyle.Background(transitTypeColor(d.Type)).Render(d.Line)
}

func typeLabel(kind string) string {
	return cases.Title(language.German).String(kind)
}

func platformLabel(p string) string {
	if p == "" || p == transit.NotAvailable {
		return ""
	}
	return mutedStyle.Render(" · Platform " + p)
}

// RenderBoard draws the merged departure feed for the selected stops.
// With grouped set, departures are collected per station, line and direction.
func RenderBoard(selected []transit.Stop, entries []feed.Entry, now time.Time, grouped bool) string {
	var b strings.Builder

	b.WriteString(accentStyle.Render("--- 🚆 Live Departures ---"))
	b.WriteString("\n")

	if len(selected) == 0 {
		b.WriteString(mutedStyle.Render("No stops selected."))
		b.WriteString("\n")
		return b.String()
	}

	names := make([]string, 0, len(selected))
	for _, st := range selected {
		names = append(names, st.Name)
	}
	b.WriteString(mutedStyle.Render(strings.Join(names, " | ")))
	b.WriteString("\n\n")

	if len(entries) == 0 {
		b.WriteString(errorStyle.Render("No upcoming departures found in the next 30 minutes."))
		b.WriteString("\n")
		return b.String()
	}

	if grouped {
		for _, route := range feed.SummarizeByRoute(entries, routeDepth) {
			first := route.Entries[0]
			fmt.Fprintf(&b, "%s -> %s %s\n", lineBadge(first.Departure), route.Direction, mutedStyle.Render("("+typeLabel(route.Type)+")"))
			fmt.Fprintf(&b, "  %s\n", route.StationName)
			for _, e := range route.Entries {
				fmt.Fprintf(&b, "  • %s%s\n", countdownStyle.Render(feed.FormatCountdown(e.When, now)), platformLabel(e.Platform))
			}
			b.WriteString("\n")
		}
		return b.String()
	}

	for _, e := range entries {
		fmt.Fprintf(&b, "%s %s -> %s\n", countdownStyle.Render(feed.FormatCountdown(e.When, now)), lineBadge(e.Departure), e.Direction)
		fmt.Fprintf(&b, "%s %s%s\n", strings.Repeat(" ", 8), e.StationName, platformLabel(e.Platform))
	}
	return b.String()
}

// NewSession starts a live session whose updates are signalled on the
// returned channel. The channel holds at most one pending signal.
func NewSession(fetcher poller.DepartureFetcher, recents *recent.Store) (*live.Session, <-chan struct{}) {
	updates := make(chan struct{}, 1)
	notify := func(string) {
		select {
		case updates <- struct{}{}:
		default:
		}
	}
	return live.NewSession(fetcher, recents, poller.WithOnUpdate(notify)), updates
}

// RunBoard redraws the session's board on every update and once per second
// until ctx is cancelled. The session keeps polling after it returns.
func RunBoard(ctx context.Context, session *live.Session, updates <-chan struct{}, grouped bool) error {
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	draw := func() {
		fmt.Print("\033[H\033[2J")
		fmt.Print(RenderBoard(session.Selected(), session.Feed(), time.Now(), grouped))
		fmt.Println(mutedStyle.Render(fmt.Sprintf("\nUpdated %s · Polling: %s · Ctrl+C to stop", time.Now().Format("15:04:05"), session.State())))
	}

	draw()
	for {
		select {
		case <-ctx.Done():
			fmt.Println()
			return nil
		case <-updates:
			draw()
		case <-ticker.C:
			draw()
		}
	}
}
