package export

import (
	"strconv"
	"strings"
	"time"

	"routine2cal/internal/model"
)

const (
	prodID = "-//Routine2Cal//BRACU Schedule//EN"

	// icsStamp is the RFC5545 local date-time layout.
	icsStamp = "20060102T150405"

	// crlf is the mandated content-line terminator.
	crlf = "\r\n"
)

// contentLine is one rendered ICS property. Text-typed values get the
// RFC5545 TEXT escaping applied at render time; structured values (dates,
// RRULE, offsets) are emitted verbatim.
type contentLine struct {
	name   string
	params []string // rendered as ;K=V after the name
	value  string
	text   bool
}

func textLine(name, value string) contentLine {
	return contentLine{name: name, value: value, text: true}
}

func rawLine(name, value string) contentLine {
	return contentLine{name: name, value: value}
}

func (l contentLine) render() string {
	var b strings.Builder
	b.WriteString(l.name)
	for _, p := range l.params {
		b.WriteString(";")
		b.WriteString(p)
	}
	b.WriteString(":")
	if l.text {
		b.WriteString(escapeText(l.value))
	} else {
		b.WriteString(l.value)
	}
	return b.String()
}

// escapeText applies RFC5545 TEXT escaping: backslash, semicolon and comma
// are backslash-escaped, newlines become the two-character sequence \n.
func escapeText(s string) string {
	var b strings.Builder
	for _, r := range s {
		switch r {
		case '\\':
			b.WriteString(`\\`)
		case ';':
			b.WriteString(`\;`)
		case ',':
			b.WriteString(`\,`)
		case '\n':
			b.WriteString(`\n`)
		case '\r':
			// bare CR never appears in a content line
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}

// ICS renders compiled events as an RFC5545 calendar document with a single
// static timezone definition for the configured zone.
type ICS struct {
	tzID     string
	tzName   string
	utcOff   string
	calName  string
	calDesc  string
	tzParams []string
}

// NewICS builds an ICS serializer for the given zone. tzName is the short
// zone name for the VTIMEZONE block; the UTC offset is derived from loc.
// The zone is modeled without DST transitions, matching the single fixed
// offset the upstream region uses.
func NewICS(loc *time.Location, tzName, calName, calDesc string) *ICS {
	ref := time.Date(2023, 1, 1, 0, 0, 0, 0, loc)
	return &ICS{
		tzID:     loc.String(),
		tzName:   tzName,
		utcOff:   ref.Format("-0700"),
		calName:  calName,
		calDesc:  calDesc,
		tzParams: []string{"TZID=" + loc.String()},
	}
}

// Serialize renders events into one calendar document. reminderMinutes > 0
// appends a display alarm that many minutes before each start; 0 omits the
// alarm block entirely.
//
// The output is deterministic: serializing the same event sequence twice
// yields byte-identical text. Zero events yield a well-formed header/footer
// document.
func (s *ICS) Serialize(events []model.CompiledEvent, reminderMinutes int) string {
	lines := make([]contentLine, 0, 16+len(events)*12)

	lines = append(lines,
		rawLine("BEGIN", "VCALENDAR"),
		rawLine("VERSION", "2.0"),
		rawLine("PRODID", prodID),
		rawLine("CALSCALE", "GREGORIAN"),
		rawLine("METHOD", "PUBLISH"),
		textLine("X-WR-CALNAME", s.calName),
		rawLine("X-WR-TIMEZONE", s.tzID),
		textLine("X-WR-CALDESC", s.calDesc),
		rawLine("BEGIN", "VTIMEZONE"),
		rawLine("TZID", s.tzID),
		rawLine("BEGIN", "STANDARD"),
		rawLine("DTSTART", "20230101T000000"),
		rawLine("TZOFFSETFROM", s.utcOff),
		rawLine("TZOFFSETTO", s.utcOff),
		rawLine("TZNAME", s.tzName),
		rawLine("END", "STANDARD"),
		rawLine("END", "VTIMEZONE"),
	)

	for _, ev := range events {
		lines = append(lines, s.eventLines(ev, reminderMinutes)...)
	}

	lines = append(lines, rawLine("END", "VCALENDAR"))

	var b strings.Builder
	for _, l := range lines {
		b.WriteString(l.render())
		b.WriteString(crlf)
	}
	return b.String()
}

func (s *ICS) eventLines(ev model.CompiledEvent, reminderMinutes int) []contentLine {
	lines := []contentLine{
		rawLine("BEGIN", "VEVENT"),
		rawLine("UID", ev.UID),
		{name: "DTSTART", params: s.tzParams, value: ev.Start.Format(icsStamp)},
		{name: "DTEND", params: s.tzParams, value: ev.End.Format(icsStamp)},
		rawLine("RRULE", ev.RecurrenceRule),
		textLine("SUMMARY", ev.Title),
		textLine("DESCRIPTION", ev.Description),
		textLine("LOCATION", ev.Location),
		textLine("CATEGORIES", strings.ToUpper(string(ev.Category))),
		rawLine("STATUS", "CONFIRMED"),
		rawLine("TRANSP", "OPAQUE"),
	}

	if reminderMinutes > 0 {
		lines = append(lines,
			rawLine("BEGIN", "VALARM"),
			rawLine("ACTION", "DISPLAY"),
			textLine("DESCRIPTION", "Reminder: "+ev.Title),
			rawLine("TRIGGER", "-PT"+strconv.Itoa(reminderMinutes)+"M"),
			rawLine("END", "VALARM"),
		)
	}

	return append(lines, rawLine("END", "VEVENT"))
}
