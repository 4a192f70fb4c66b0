package export

import (
	"errors"
	"time"

	"routine2cal/internal/compile"
	"routine2cal/internal/model"
)

// ErrEmptySelection is returned when an export is requested with no
// selections; it is surfaced before any serialization work begins.
var ErrEmptySelection = errors.New("no sessions selected")

// Service ties the compiler to the serializers. It holds no mutable state:
// every export takes the selection snapshot and reference time as arguments
// and recompiles from scratch.
type Service struct {
	compiler  *compile.Compiler
	ics       *ICS
	campus    string
	textTitle string
}

// NewService constructs an export Service.
func NewService(compiler *compile.Compiler, ics *ICS, campus, textTitle string) *Service {
	return &Service{
		compiler:  compiler,
		ics:       ics,
		campus:    campus,
		textTitle: textTitle,
	}
}

// Compile exposes the underlying compilation for callers that want the raw
// events.
func (s *Service) Compile(selections []model.SelectedSession, ref time.Time) []model.CompiledEvent {
	return s.compiler.Compile(selections, ref)
}

// ICSDocument compiles and serializes the selections into a calendar
// document.
func (s *Service) ICSDocument(selections []model.SelectedSession, ref time.Time, reminderMinutes int) (string, error) {
	if len(selections) == 0 {
		return "", ErrEmptySelection
	}
	events := s.compiler.Compile(selections, ref)
	return s.ics.Serialize(events, reminderMinutes), nil
}

// GoogleURLs compiles the selections and renders one deep link per event.
func (s *Service) GoogleURLs(selections []model.SelectedSession, ref time.Time, reminderMinutes int) ([]string, error) {
	if len(selections) == 0 {
		return nil, ErrEmptySelection
	}
	events := s.compiler.Compile(selections, ref)
	return GoogleLinks(events, reminderMinutes, s.campus), nil
}

// Text renders the plain-text schedule summary.
func (s *Service) Text(selections []model.SelectedSession) (string, error) {
	if len(selections) == 0 {
		return "", ErrEmptySelection
	}
	return TextSummary(s.textTitle, selections), nil
}
