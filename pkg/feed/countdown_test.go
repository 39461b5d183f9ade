package feed

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFormatCountdown(t *testing.T) {
	now := time.Date(2026, 2, 25, 8, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		when *time.Time
		want string
	}{
		{"no time", nil, "N/A"},
		{"due now", at(now, 0), "NOW"},
		{"already gone", at(now, -3), "NOW"},
		{"under a minute", ptr(now.Add(59 * time.Second)), "NOW"},
		{"five minutes", at(now, 5), "5 min"},
		{"five and a half minutes", ptr(now.Add(5*time.Minute + 30*time.Second)), "5 min"},
		{"just under an hour", at(now, 59), "59 min"},
		{"exactly an hour", at(now, 60), "1h 0m"},
		{"ninety minutes", at(now, 90), "1h 30m"},
		{"long wait", at(now, 185), "3h 5m"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatCountdown(tt.when, now))
		})
	}
}

func ptr(t time.Time) *time.Time {
	return &t
}
