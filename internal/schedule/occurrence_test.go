package schedule

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNextOccurrence_StrictlyFuture(t *testing.T) {
	// 2025-09-03 is a Wednesday.
	ref := time.Date(2025, 9, 3, 12, 0, 0, 0, time.UTC)

	for _, day := range []string{"Sunday", "Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday"} {
		got := NextOccurrence(ref, day)
		assert.True(t, got.After(ref.Truncate(24*time.Hour)), "occurrence of %s not after reference", day)
		assert.Equal(t, day, got.Weekday().String())
	}
}

func TestNextOccurrence_SameWeekdayAdvancesFullWeek(t *testing.T) {
	// Reference is itself a Wednesday; "next Wednesday" is 7 days out,
	// never today.
	ref := time.Date(2025, 9, 3, 0, 0, 0, 0, time.UTC)

	got := NextOccurrence(ref, "Wednesday")
	assert.Equal(t, time.Date(2025, 9, 10, 0, 0, 0, 0, time.UTC), got)
}

func TestNextOccurrence_RepeatedAdvancesBySevenDays(t *testing.T) {
	ref := time.Date(2025, 9, 3, 0, 0, 0, 0, time.UTC)

	first := NextOccurrence(ref, "Sunday")
	second := NextOccurrence(first, "Sunday")
	assert.Equal(t, 7*24*time.Hour, second.Sub(first))
}

func TestNextOccurrence_ConcreteDates(t *testing.T) {
	// Wednesday 2025-09-03: next Sunday is the 7th, next Tuesday the 9th.
	ref := time.Date(2025, 9, 3, 15, 30, 0, 0, time.UTC)

	assert.Equal(t, 7, NextOccurrence(ref, "Sunday").Day())
	assert.Equal(t, 9, NextOccurrence(ref, "Tuesday").Day())
}

func TestCombine(t *testing.T) {
	loc, err := time.LoadLocation("Asia/Dhaka")
	require.NoError(t, err)
	date := time.Date(2025, 9, 7, 0, 0, 0, 0, loc)

	tests := []struct {
		name string
		in   ClockTime
		hour int
	}{
		{"morning", ClockTime{Hour: 8, Minute: 0, Meridiem: "AM"}, 8},
		{"afternoon", ClockTime{Hour: 2, Minute: 0, Meridiem: "PM"}, 14},
		{"midnight", ClockTime{Hour: 12, Minute: 0, Meridiem: "AM"}, 0},
		{"noon", ClockTime{Hour: 12, Minute: 0, Meridiem: "PM"}, 12},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Combine(date, tt.in, loc)
			assert.Equal(t, tt.hour, got.Hour())
			assert.Equal(t, tt.in.Minute, got.Minute())
			assert.Equal(t, 0, got.Second())
			assert.Equal(t, loc, got.Location())
			assert.Equal(t, date.Day(), got.Day())
		})
	}
}
