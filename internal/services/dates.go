package services

import (
	"fmt"
	"strings"
	"time"

	"github.com/araddon/dateparse"
)

// ToEpochSeconds parses a calendar date and returns whole seconds since the
// Unix epoch. Dates without a zone are read as UTC, so "2024-12-13" is
// midnight UTC. Sub-second remainders are truncated toward zero.
func ToEpochSeconds(dateText string) (int64, error) {
	text := strings.TrimSpace(dateText)
	if text == "" {
		return 0, NewError(KindDateParse, "parse date", fmt.Errorf("empty date string"))
	}

	t, err := dateparse.ParseIn(text, time.UTC)
	if err != nil {
		return 0, NewError(KindDateParse, "parse date", fmt.Errorf("unrecognized date %q: %w", dateText, err))
	}
	// Month/day strings without a year parse as year 0
	if t.Year() == 0 {
		return 0, NewError(KindDateParse, "parse date", fmt.Errorf("date %q has no year", dateText))
	}

	return truncateToSeconds(t), nil
}

// truncateToSeconds drops the sub-second part toward zero. time.Unix floors,
// which differs for instants before the epoch.
func truncateToSeconds(t time.Time) int64 {
	millis := t.UnixMilli()
	return millis / 1000
}

// optionalEpoch converts an optional date; nil stays nil
func optionalEpoch(dateText *string) (*int64, error) {
	if dateText == nil {
		return nil, nil
	}
	epoch, err := ToEpochSeconds(*dateText)
	if err != nil {
		return nil, err
	}
	return &epoch, nil
}
