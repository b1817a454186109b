package utils

import (
	"fmt"
	"time"
)

const DateLayout = "2006-01-02"

// MustParseDate parses a YYYY-MM-DD string, returning the zero time on error.
// Intended for literals in seeds and tests.
func MustParseDate(dateStr string) time.Time {
	t, _ := time.ParseInLocation(DateLayout, dateStr, time.UTC)
	return t
}

// DateOf truncates a timestamp to its calendar date in UTC. Attendance and
// holiday rows are keyed by this value.
func DateOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// DateKey formats a date the way punch logs and map keys carry it.
func DateKey(t time.Time) string {
	return t.Format(DateLayout)
}

func ParseISOTime(s string) (*time.Time, error) {
	if s == "" {
		return nil, fmt.Errorf("empty time string")
	}

	t, err := time.Parse(time.RFC3339, s)
	if err == nil {
		return &t, nil
	}

	t, err = time.Parse(time.RFC3339Nano, s)
	if err == nil {
		return &t, nil
	}

	// Fallback formats some devices emit
	layouts := []string{
		"2006-01-02 15:04:05",
		"2006-01-02T15:04:05",
		DateLayout,
	}
	for _, layout := range layouts {
		if tt, e := time.ParseInLocation(layout, s, time.UTC); e == nil {
			return &tt, nil
		}
	}

	return nil, fmt.Errorf("failed to parse time: %v", s)
}
