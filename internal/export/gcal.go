package export

import (
	"net/url"
	"strconv"

	"routine2cal/internal/model"
)

// googleCalendarBase is the "create event" template endpoint. Opening one of
// these URLs pre-fills Google Calendar's event form; no API credentials are
// involved.
const googleCalendarBase = "https://calendar.google.com/calendar/render"

// googleStamp is the UTC instant layout Google expects in the dates pair.
const googleStamp = "20060102T150405Z"

// GoogleLinks renders one deep-link URL per compiled event. Multi-weekday
// sessions therefore expand to multiple links. The local start/end pair is
// converted to UTC instants; the recurrence rule rides along unchanged.
// All parameter values are percent-encoded by url.Values.
func GoogleLinks(events []model.CompiledEvent, reminderMinutes int, campus string) []string {
	links := make([]string, 0, len(events))

	for _, ev := range events {
		details := ev.Description
		if reminderMinutes > 0 {
			details += "\n\n\U0001F514 Reminder: Set " + humanizeReminder(reminderMinutes) + " reminder in Google Calendar"
		}

		params := url.Values{}
		params.Set("action", "TEMPLATE")
		params.Set("text", ev.Title)
		params.Set("dates", ev.Start.UTC().Format(googleStamp)+"/"+ev.End.UTC().Format(googleStamp))
		params.Set("details", details)
		params.Set("location", campus)
		params.Set("recur", "RRULE:"+ev.RecurrenceRule)

		links = append(links, googleCalendarBase+"?"+params.Encode())
	}

	return links
}

// humanizeReminder renders a minute offset as reminder-hint text
// ("10 minutes", "2 hours", "1 day").
func humanizeReminder(minutes int) string {
	switch {
	case minutes <= 0:
		return "at event time"
	case minutes < 60:
		return strconv.Itoa(minutes) + plural(minutes, " minute")
	case minutes < 24*60:
		h := minutes / 60
		return strconv.Itoa(h) + plural(h, " hour")
	default:
		d := minutes / (24 * 60)
		return strconv.Itoa(d) + plural(d, " day")
	}
}

func plural(n int, unit string) string {
	if n > 1 {
		return unit + "s"
	}
	return unit
}
