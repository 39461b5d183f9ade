package feed

import (
	"fmt"
	"math"
	"time"
)

// FormatCountdown renders the time left until when as seen at now:
// "N/A" without a time, "NOW" once due, "7 min" under an hour, "1h 30m" beyond.
func FormatCountdown(when *time.Time, now time.Time) string {
	if when == nil {
		return "N/A"
	}

	diff := int(math.Floor(when.Sub(now).Minutes()))
	if diff <= 0 {
		return "NOW"
	}
	if diff < 60 {
		return fmt.Sprintf("%d min", diff)
	}

	return fmt.Sprintf("%dh %dm", diff/60, diff%60)
}
