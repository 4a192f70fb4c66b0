package export

import (
	"strconv"
	"strings"

	"routine2cal/internal/model"
	"routine2cal/internal/schedule"
)

// TextSummary renders the selection list as a human-readable plain-text
// schedule, one numbered block per selection, for clipboard export. No
// recurrence expansion happens here.
func TextSummary(title string, selections []model.SelectedSession) string {
	var b strings.Builder
	b.WriteString(title)
	b.WriteString("\n\n")

	for i, sel := range selections {
		b.WriteString(strconv.Itoa(i+1) + ". " + sel.Name + "\n")
		b.WriteString("   Title: " + sel.Title + "\n")
		b.WriteString("   Instructor: " + sel.FacultyName + "\n")
		b.WriteString("   Room: " + sel.RoomNumber + "\n")
		b.WriteString("   Schedule: " + describeSchedule(sel.ScheduleSource) + "\n")
		b.WriteString("   Type: " + titleCase(string(sel.Category)) + "\n\n")
	}

	return b.String()
}

// describeSchedule renders a raw schedule string as "Sunday 8:00 AM-9:20 AM,
// Tuesday 8:00 AM-9:20 AM", or "Schedule TBA" when nothing parses.
func describeSchedule(raw string) string {
	tokens := schedule.Parse(raw)
	if len(tokens) == 0 {
		return "Schedule TBA"
	}
	parts := make([]string, len(tokens))
	for i, tok := range tokens {
		parts[i] = tok.Weekday + " " + tok.Start.String() + "-" + tok.End.String()
	}
	return strings.Join(parts, ", ")
}

func titleCase(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
