package exporter

import (
	"fmt"
	"io"
	"time"

	"bvgview/pkg/feed"

	ics "github.com/arran4/golang-ical"
)

// eventLength is the duration given to each departure event
const eventLength = 2 * time.Minute

// GenerateICS writes one calendar event per timed departure of the feed.
// Departures without a time are skipped. now stamps the events.
func GenerateICS(entries []feed.Entry, now time.Time, w io.Writer) error {
	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId("-//bvgview//departures//EN")

	for i, e := range entries {
		if e.When == nil {
			continue
		}
		start := e.When.UTC()

		event := cal.AddEvent(fmt.Sprintf("%s-%s-%s-%d@bvgview", e.StopID, e.Line, start.Format("20060102T150405Z"), i))
		event.SetCreatedTime(now)
		event.SetDtStampTime(now)
		event.SetModifiedAt(now)
		event.SetStartAt(start)
		event.SetEndAt(start.Add(eventLength))
		event.SetSummary(fmt.Sprintf("%s → %s", e.Line, e.Direction))

		location := e.StationName
		if e.Platform != "" && e.Platform != "N/A" {
			location = fmt.Sprintf("%s (Platform %s)", e.StationName, e.Platform)
		}
		event.SetLocation(location)
		event.SetDescription(fmt.Sprintf("Type: %s\nStop ID: %s", e.Type, e.StopID))
	}

	return cal.SerializeTo(w)
}
