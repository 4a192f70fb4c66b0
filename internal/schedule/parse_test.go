package schedule

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_NewlineConvention(t *testing.T) {
	raw := "SUNDAY(8:00 AM-9:20 AM-10B-18C)\nTUESDAY(8:00 AM-9:20 AM-10B-18C)"

	tokens := Parse(raw)
	require.Len(t, tokens, 2)

	assert.Equal(t, "Sunday", tokens[0].Weekday)
	assert.Equal(t, ClockTime{Hour: 8, Minute: 0, Meridiem: "AM"}, tokens[0].Start)
	assert.Equal(t, ClockTime{Hour: 9, Minute: 20, Meridiem: "AM"}, tokens[0].End)

	assert.Equal(t, "Tuesday", tokens[1].Weekday)
	assert.Equal(t, ClockTime{Hour: 8, Minute: 0, Meridiem: "AM"}, tokens[1].Start)
	assert.Equal(t, ClockTime{Hour: 9, Minute: 20, Meridiem: "AM"}, tokens[1].End)
}

func TestParse_CommaConvention(t *testing.T) {
	raw := "Sunday(08:00 AM-09:20 AM-UB0000),Tuesday(08:00 AM-09:20 AM-UB0000)"

	tokens := Parse(raw)
	require.Len(t, tokens, 2)
	assert.Equal(t, "Sunday", tokens[0].Weekday)
	assert.Equal(t, "Tuesday", tokens[1].Weekday)
}

func TestParse_CaseNormalization(t *testing.T) {
	for _, in := range []string{"SUNDAY", "sunday", "Sunday", "sUnDaY"} {
		tokens := Parse(in + "(8:00 AM-9:20 AM)")
		require.Len(t, tokens, 1, "input %q", in)
		assert.Equal(t, "Sunday", tokens[0].Weekday)
	}
}

func TestParse_Afternoon(t *testing.T) {
	tokens := Parse("Wednesday(2:00 PM-3:20 PM-09A-01C)")
	require.Len(t, tokens, 1)
	assert.Equal(t, ClockTime{Hour: 2, Minute: 0, Meridiem: "PM"}, tokens[0].Start)
	assert.Equal(t, 14, tokens[0].Start.Hour24())
}

func TestParse_MalformedInput(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"empty", ""},
		{"whitespace", "   "},
		{"no parenthesis", "Sunday 8:00 AM-9:20 AM"},
		{"malformed time range", "Sunday(8-9)"},
		{"unknown day name", "Someday(8:00 AM-9:20 AM)"},
		{"out of range hour", "Sunday(13:00 AM-14:20 AM)"},
		{"out of range minute", "Sunday(8:75 AM-9:80 AM)"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Empty(t, Parse(tt.raw))
		})
	}
}

func TestParse_MalformedSegmentsDropped(t *testing.T) {
	// Only the well-formed middle segment survives.
	raw := "garbage,Tuesday(8:00 AM-9:20 AM-10B),also garbage"

	tokens := Parse(raw)
	require.Len(t, tokens, 1)
	assert.Equal(t, "Tuesday", tokens[0].Weekday)
}

func TestClockTime_Hour24Edges(t *testing.T) {
	assert.Equal(t, 0, ClockTime{Hour: 12, Minute: 0, Meridiem: "AM"}.Hour24())
	assert.Equal(t, 12, ClockTime{Hour: 12, Minute: 0, Meridiem: "PM"}.Hour24())
	assert.Equal(t, 11, ClockTime{Hour: 11, Minute: 0, Meridiem: "AM"}.Hour24())
	assert.Equal(t, 23, ClockTime{Hour: 11, Minute: 0, Meridiem: "PM"}.Hour24())
}

func TestClockTime_String(t *testing.T) {
	assert.Equal(t, "8:05 AM", ClockTime{Hour: 8, Minute: 5, Meridiem: "AM"}.String())
	assert.Equal(t, "12:30 PM", ClockTime{Hour: 12, Minute: 30, Meridiem: "PM"}.String())
}

func TestExtractRoom(t *testing.T) {
	assert.Equal(t, "UB0000", ExtractRoom("Sunday(08:00 AM-09:20 AM-UB0000)"))
	assert.Equal(t, "10B-18C", ExtractRoom("SUNDAY(8:00 AM-9:20 AM-10B-18C)\nTUESDAY(8:00 AM-9:20 AM-10B-18C)"))
	assert.Equal(t, "", ExtractRoom("Sunday(8:00 AM-9:20 AM)"))
	assert.Equal(t, "", ExtractRoom("Sunday 8 AM"))
	assert.Equal(t, "", ExtractRoom(""))
}
