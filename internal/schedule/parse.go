package schedule

import (
	"regexp"
	"strconv"
	"strings"
)

// The upstream feed has used two conventions for schedule strings:
//
//	"Sunday(08:00 AM-09:20 AM-UB0000),Tuesday(08:00 AM-09:20 AM-UB0000)"
//	"SUNDAY(8:00 AM-9:20 AM-10B-18C)\nTUESDAY(8:00 AM-9:20 AM-10B-18C)"
//
// The separator is sniffed per call: newline wins if present, comma
// otherwise. Each segment must look like <word>(<contents>); anything else
// is silently dropped. Trailing room/building codes inside the parentheses
// are ignored here (rooms come from the section record, with
// ExtractRoom as a fallback).

var (
	segmentRe   = regexp.MustCompile(`(\w+)\(([^)]+)\)`)
	timeRangeRe = regexp.MustCompile(`(\d{1,2}):(\d{2}) ([AP]M)-(\d{1,2}):(\d{2}) ([AP]M)`)
)

// canonical weekday names, index matching time.Weekday (Sunday=0).
var weekdayNames = [7]string{
	"Sunday", "Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday",
}

// ClockTime is a 12-hour wall-clock time.
type ClockTime struct {
	Hour     int    // 1..12
	Minute   int    // 0..59
	Meridiem string // "AM" or "PM"
}

// Hour24 converts to a 24-hour clock hour, handling 12 AM -> 0 and
// 12 PM -> 12.
func (c ClockTime) Hour24() int {
	h := c.Hour
	if c.Meridiem == "PM" && h != 12 {
		h += 12
	} else if c.Meridiem == "AM" && h == 12 {
		h = 0
	}
	return h
}

func (c ClockTime) String() string {
	return strconv.Itoa(c.Hour) + ":" + pad2(c.Minute) + " " + c.Meridiem
}

func pad2(n int) string {
	if n < 10 {
		return "0" + strconv.Itoa(n)
	}
	return strconv.Itoa(n)
}

// Token is one parsed weekday meeting: a canonical weekday name plus a
// start/end time pair.
type Token struct {
	Weekday string
	Start   ClockTime
	End     ClockTime
}

// Parse turns one raw schedule string into an ordered token sequence.
//
// It is total over string input: empty input, malformed segments, and
// unknown day names all degrade to fewer (possibly zero) tokens, never an
// error. Well-formed segments among malformed ones are still returned.
func Parse(raw string) []Token {
	tokens := make([]Token, 0, 2)
	if strings.TrimSpace(raw) == "" {
		return tokens
	}

	sep := ","
	if strings.Contains(raw, "\n") {
		sep = "\n"
	}

	for _, segment := range strings.Split(raw, sep) {
		m := segmentRe.FindStringSubmatch(segment)
		if m == nil {
			continue
		}
		day, ok := NormalizeWeekday(m[1])
		if !ok {
			continue
		}
		tr := timeRangeRe.FindStringSubmatch(m[2])
		if tr == nil {
			continue
		}
		start, ok1 := clockTimeFrom(tr[1], tr[2], tr[3])
		end, ok2 := clockTimeFrom(tr[4], tr[5], tr[6])
		if !ok1 || !ok2 {
			continue
		}
		tokens = append(tokens, Token{Weekday: day, Start: start, End: end})
	}

	return tokens
}

// NormalizeWeekday case-normalizes a day name ("SUNDAY", "sunday", "Sunday"
// all -> "Sunday") and reports whether it is one of the seven weekdays.
func NormalizeWeekday(name string) (string, bool) {
	if name == "" {
		return "", false
	}
	norm := strings.ToUpper(name[:1]) + strings.ToLower(name[1:])
	for _, d := range weekdayNames {
		if d == norm {
			return norm, true
		}
	}
	return "", false
}

// WeekdayIndex returns the Sunday=0..Saturday=6 index for a canonical
// weekday name.
func WeekdayIndex(name string) (int, bool) {
	for i, d := range weekdayNames {
		if d == name {
			return i, true
		}
	}
	return 0, false
}

// ExtractRoom pulls the room code trailing the time range out of a
// schedule string's first segment, e.g.
// "Sunday(08:00 AM-09:20 AM-UB0000)" -> "UB0000" and
// "SUNDAY(8:00 AM-9:20 AM-10B-18C)" -> "10B-18C". Returns "" when no room
// code is present.
func ExtractRoom(raw string) string {
	m := segmentRe.FindStringSubmatch(raw)
	if m == nil {
		return ""
	}
	contents := m[2]
	loc := timeRangeRe.FindStringIndex(contents)
	if loc == nil {
		return ""
	}
	room := strings.TrimPrefix(contents[loc[1]:], "-")
	return strings.TrimSpace(room)
}

func clockTimeFrom(hour, minute, meridiem string) (ClockTime, bool) {
	h, err := strconv.Atoi(hour)
	if err != nil || h < 1 || h > 12 {
		return ClockTime{}, false
	}
	m, err := strconv.Atoi(minute)
	if err != nil || m < 0 || m > 59 {
		return ClockTime{}, false
	}
	return ClockTime{Hour: h, Minute: m, Meridiem: meridiem}, true
}
