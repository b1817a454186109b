package core

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCountWorkingDays(t *testing.T) {
	tests := []struct {
		name     string
		from     time.Time
		to       time.Time
		holidays map[string]bool
		expected int
	}{
		{
			name:     "Full business week",
			from:     date(2026, 2, 2),
			to:       date(2026, 2, 6),
			expected: 5,
		},
		{
			name:     "Week spanning a weekend",
			from:     date(2026, 2, 2),
			to:       date(2026, 2, 9),
			expected: 6,
		},
		{
			name:     "Weekend only",
			from:     date(2026, 2, 7),
			to:       date(2026, 2, 8),
			expected: 0,
		},
		{
			name:     "Single weekday",
			from:     date(2026, 2, 4),
			to:       date(2026, 2, 4),
			expected: 1,
		},
		{
			name:     "Holiday counted when set is nil",
			from:     date(2026, 1, 26),
			to:       date(2026, 1, 30),
			expected: 5,
		},
		{
			name:     "Holiday excluded when present in set",
			from:     date(2026, 1, 26),
			to:       date(2026, 1, 30),
			holidays: map[string]bool{"2026-01-26": true},
			expected: 4,
		},
		{
			name:     "Holiday on weekend changes nothing",
			from:     date(2026, 2, 2),
			to:       date(2026, 2, 8),
			holidays: map[string]bool{"2026-02-07": true},
			expected: 5,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, CountWorkingDays(tt.from, tt.to, tt.holidays))
		})
	}
}

func TestWorkingDaysSkipsWeekends(t *testing.T) {
	days := WorkingDays(date(2026, 2, 6), date(2026, 2, 10), nil)

	assert.Len(t, days, 3)
	assert.Equal(t, date(2026, 2, 6), days[0])
	assert.Equal(t, date(2026, 2, 9), days[1])
	assert.Equal(t, date(2026, 2, 10), days[2])
}

func TestIsWeekend(t *testing.T) {
	assert.False(t, IsWeekend(date(2026, 2, 6)))
	assert.True(t, IsWeekend(date(2026, 2, 7)))
	assert.True(t, IsWeekend(date(2026, 2, 8)))
	assert.False(t, IsWeekend(date(2026, 2, 9)))
}
