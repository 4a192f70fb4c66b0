package export

import (
	"strings"
	"testing"
	"time"

	ical "github.com/arran4/golang-ical"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"routine2cal/internal/model"
)

func dhaka(t *testing.T) *time.Location {
	t.Helper()
	loc, err := time.LoadLocation("Asia/Dhaka")
	require.NoError(t, err)
	return loc
}

func testEvents(loc *time.Location) []model.CompiledEvent {
	return []model.CompiledEvent{
		{
			SessionID:      "101",
			Weekday:        "Sunday",
			Start:          time.Date(2025, time.September, 7, 8, 0, 0, 0, loc),
			End:            time.Date(2025, time.September, 7, 9, 20, 0, 0, loc),
			Title:          "CSE110 (10B-18C)",
			Description:    "Course: Programming Language I\nInstructor: ABC",
			Location:       "10B-18C, BRAC University",
			Category:       model.CategoryNormal,
			UID:            "101-Sunday-1757210400000@routine2cal.app",
			RecurrenceRule: "FREQ=WEEKLY;COUNT=15",
		},
		{
			SessionID:      "101",
			Weekday:        "Tuesday",
			Start:          time.Date(2025, time.September, 9, 8, 0, 0, 0, loc),
			End:            time.Date(2025, time.September, 9, 9, 20, 0, 0, loc),
			Title:          "CSE110 (10B-18C)",
			Description:    "Course: Programming Language I\nInstructor: ABC",
			Location:       "10B-18C, BRAC University",
			Category:       model.CategoryNormal,
			UID:            "101-Tuesday-1757383200000@routine2cal.app",
			RecurrenceRule: "FREQ=WEEKLY;COUNT=15",
		},
	}
}

func newTestICS(t *testing.T) *ICS {
	t.Helper()
	return NewICS(dhaka(t), "BST", "BRACU Schedule", "BRAC University Class Schedule")
}

func TestSerialize_ParsesBack(t *testing.T) {
	doc := newTestICS(t).Serialize(testEvents(dhaka(t)), 0)

	cal, err := ical.ParseCalendar(strings.NewReader(doc))
	require.NoError(t, err)

	events := cal.Events()
	require.Len(t, events, 2)

	uids := []string{
		events[0].GetProperty(ical.ComponentPropertyUniqueId).Value,
		events[1].GetProperty(ical.ComponentPropertyUniqueId).Value,
	}
	assert.Equal(t, "101-Sunday-1757210400000@routine2cal.app", uids[0])
	assert.Equal(t, "101-Tuesday-1757383200000@routine2cal.app", uids[1])
	assert.NotEqual(t, uids[0], uids[1])
}

func TestSerialize_HeaderAndTimezone(t *testing.T) {
	doc := newTestICS(t).Serialize(nil, 0)

	assert.True(t, strings.HasPrefix(doc, "BEGIN:VCALENDAR\r\n"))
	assert.True(t, strings.HasSuffix(doc, "END:VCALENDAR\r\n"))
	assert.Contains(t, doc, "VERSION:2.0\r\n")
	assert.Contains(t, doc, "PRODID:-//Routine2Cal//BRACU Schedule//EN\r\n")
	assert.Contains(t, doc, "BEGIN:VTIMEZONE\r\nTZID:Asia/Dhaka\r\n")
	assert.Contains(t, doc, "TZOFFSETFROM:+0600\r\n")
	assert.Contains(t, doc, "TZOFFSETTO:+0600\r\n")
	assert.Contains(t, doc, "TZNAME:BST\r\n")
	// No events, but still a well-formed document.
	assert.NotContains(t, doc, "BEGIN:VEVENT")

	_, err := ical.ParseCalendar(strings.NewReader(doc))
	assert.NoError(t, err)
}

func TestSerialize_EventProperties(t *testing.T) {
	doc := newTestICS(t).Serialize(testEvents(dhaka(t))[:1], 0)

	assert.Contains(t, doc, "DTSTART;TZID=Asia/Dhaka:20250907T080000\r\n")
	assert.Contains(t, doc, "DTEND;TZID=Asia/Dhaka:20250907T092000\r\n")
	assert.Contains(t, doc, "RRULE:FREQ=WEEKLY;COUNT=15\r\n")
	assert.Contains(t, doc, "SUMMARY:CSE110 (10B-18C)\r\n")
	assert.Contains(t, doc, "CATEGORIES:NORMAL\r\n")
	assert.Contains(t, doc, "STATUS:CONFIRMED\r\n")
	assert.Contains(t, doc, "TRANSP:OPAQUE\r\n")
}

func TestSerialize_ReminderToggle(t *testing.T) {
	s := newTestICS(t)
	events := testEvents(dhaka(t))

	withAlarm := s.Serialize(events, 10)
	assert.Equal(t, 2, strings.Count(withAlarm, "BEGIN:VALARM\r\n"))
	assert.Equal(t, 2, strings.Count(withAlarm, "TRIGGER:-PT10M\r\n"))
	assert.Contains(t, withAlarm, "ACTION:DISPLAY\r\n")
	assert.Contains(t, withAlarm, "DESCRIPTION:Reminder: CSE110 (10B-18C)\r\n")

	without := s.Serialize(events, 0)
	assert.NotContains(t, without, "VALARM")
}

func TestSerialize_TextEscaping(t *testing.T) {
	loc := dhaka(t)
	ev := testEvents(loc)[0]
	ev.Title = "CSE110; Lab, Section 1"
	ev.Description = "line one\nline two"
	ev.Location = "10B-18C, BRAC University"

	doc := newTestICS(t).Serialize([]model.CompiledEvent{ev}, 0)

	assert.Contains(t, doc, `SUMMARY:CSE110\; Lab\, Section 1`+"\r\n")
	assert.Contains(t, doc, `DESCRIPTION:line one\nline two`+"\r\n")
	assert.Contains(t, doc, `LOCATION:10B-18C\, BRAC University`+"\r\n")
}

func TestSerialize_Deterministic(t *testing.T) {
	s := newTestICS(t)
	events := testEvents(dhaka(t))
	assert.Equal(t, s.Serialize(events, 10), s.Serialize(events, 10))
}

func TestEscapeText(t *testing.T) {
	assert.Equal(t, `a\\b\;c\,d\ne`, escapeText("a\\b;c,d\ne"))
	assert.Equal(t, "plain", escapeText("plain"))
	assert.Equal(t, `ab`, escapeText("a\rb"))
}
