package compile

import (
	"fmt"
	"strings"
	"time"

	"github.com/teambition/rrule-go"

	"routine2cal/internal/model"
	"routine2cal/internal/schedule"
)

// uidDomain is the fixed token suffixing every event UID.
const uidDomain = "routine2cal.app"

// Compiler turns a selection list into concrete calendar events: one event
// per weekday a selection meets, anchored to the next occurrence of that
// weekday after the reference date, recurring weekly for one semester.
type Compiler struct {
	loc    *time.Location
	campus string
	rule   string
}

// New constructs a Compiler. loc is the single zone all class times live
// in; campus is appended to event locations; weeks caps the weekly
// recurrence of every event.
func New(loc *time.Location, campus string, weeks int) (*Compiler, error) {
	if loc == nil {
		return nil, fmt.Errorf("compile: location is nil")
	}
	if weeks <= 0 {
		return nil, fmt.Errorf("compile: semester weeks must be positive, got %d", weeks)
	}
	r, err := rrule.NewRRule(rrule.ROption{Freq: rrule.WEEKLY, Count: weeks})
	if err != nil {
		return nil, fmt.Errorf("compile: build recurrence rule: %w", err)
	}
	return &Compiler{
		loc:    loc,
		campus: campus,
		rule:   r.OrigOptions.RRuleString(),
	}, nil
}

// RecurrenceRule returns the RRULE value attached to every compiled event,
// e.g. "FREQ=WEEKLY;COUNT=15".
func (c *Compiler) RecurrenceRule() string {
	return c.rule
}

// Compile expands every selection into events, in selection order then
// parser token order. A selection whose schedule source is empty or wholly
// unparseable contributes zero events; the rest still compile.
//
// Compilation is deterministic in (selections, ref): identical inputs yield
// identical events with identical UIDs.
func (c *Compiler) Compile(selections []model.SelectedSession, ref time.Time) []model.CompiledEvent {
	events := make([]model.CompiledEvent, 0, len(selections))

	for _, sel := range selections {
		for _, tok := range schedule.Parse(sel.ScheduleSource) {
			date := schedule.NextOccurrence(ref, tok.Weekday)
			start := schedule.Combine(date, tok.Start, c.loc)
			end := schedule.Combine(date, tok.End, c.loc)

			events = append(events, model.CompiledEvent{
				SessionID:      sel.SessionID,
				Weekday:        tok.Weekday,
				Start:          start,
				End:            end,
				Title:          eventTitle(sel),
				Description:    eventDescription(sel),
				Location:       sel.RoomNumber + ", " + c.campus,
				Category:       sel.Category,
				UID:            eventUID(sel.SessionID, tok.Weekday, start),
				RecurrenceRule: c.rule,
			})
		}
	}

	return events
}

func eventTitle(sel model.SelectedSession) string {
	return sel.Name + sel.Category.TitleSuffix() + " (" + sel.RoomNumber + ")"
}

func eventDescription(sel model.SelectedSession) string {
	lines := []string{
		"Course: " + sel.Title,
		"Instructor: " + sel.FacultyName,
		"Email: " + sel.InstructorEmail,
		"Room: " + sel.RoomNumber,
		"Section: " + sel.SectionName,
	}
	return strings.Join(lines, "\n")
}

// eventUID derives the stable identifier for one (session, weekday, start)
// triple. Millisecond epoch keeps it collision-free across sessions and
// idempotent across recompiles of an unchanged selection.
func eventUID(sessionID, weekday string, start time.Time) string {
	return fmt.Sprintf("%s-%s-%d@%s", sessionID, weekday, start.UnixMilli(), uidDomain)
}
