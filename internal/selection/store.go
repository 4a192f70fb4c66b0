package selection

import (
	"errors"
	"strings"
	"sync"

	"routine2cal/internal/model"
	"routine2cal/internal/schedule"
)

var (
	// ErrDuplicate is returned when a selection with the same session id
	// and kind already exists.
	ErrDuplicate = errors.New("selection already exists for this session and kind")

	// ErrIndexOutOfRange is returned by Edit/Remove for a stale index.
	ErrIndexOutOfRange = errors.New("selection index out of range")
)

// SeedOptions controls how override fields are seeded from a catalog record.
type SeedOptions struct {
	// EmailDomain synthesizes instructor emails from the faculty short name.
	EmailDomain string
	// PlaceholderEmail is used when the instructor is unknown.
	PlaceholderEmail string
}

// FromCatalog builds a new selection entry for a catalog session, seeding
// all override fields.
//
// Room fallback order: explicit lab room (lab) or explicit room name
// (lecture), then the trailing room token of the schedule string, then
// "TBA". A lab selection reads its lab schedule; a lecture its regular one.
func FromCatalog(cs model.CatalogSession, kind model.Kind, opts SeedOptions) model.SelectedSession {
	sel := model.SelectedSession{
		SessionID:       cs.ID,
		Kind:            kind,
		Category:        model.CategoryNormal,
		Name:            cs.CourseCode,
		Title:           cs.CourseTitle,
		FacultyName:     cs.Faculty,
		SectionName:     cs.SectionName,
		InstructorEmail: synthesizeEmail(cs.Faculty, opts),
	}

	switch kind {
	case model.KindLab:
		sel.Category = model.CategoryLab
		sel.ScheduleSource = cs.LabSchedule
		if cs.LabName != "" {
			sel.Title = cs.LabName
		}
		sel.RoomNumber = firstNonEmpty(cs.LabRoomName, schedule.ExtractRoom(cs.LabSchedule), "TBA")
	default:
		sel.ScheduleSource = cs.Schedule
		sel.RoomNumber = firstNonEmpty(cs.RoomName, schedule.ExtractRoom(cs.Schedule), "TBA")
	}

	return sel
}

func synthesizeEmail(faculty string, opts SeedOptions) string {
	if faculty == "" || faculty == "TBA" {
		return opts.PlaceholderEmail
	}
	return strings.ToLower(faculty) + "@" + opts.EmailDomain
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}

// Fields carries an edit to one selection entry. Nil members leave the
// current value unchanged. Kind and schedule source are not editable.
type Fields struct {
	Name            *string
	Title           *string
	FacultyName     *string
	RoomNumber      *string
	InstructorEmail *string
	Category        *model.Category
}

// Store is the ordered collection of the user's selected sessions. It is an
// explicit, injectable object: construct isolated instances freely, there is
// no process-wide store. All methods are safe for concurrent use.
type Store struct {
	mu      sync.RWMutex
	entries []model.SelectedSession
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{}
}

// Add appends a selection, rejecting a second entry with the same session
// id and kind. Lecture and lab of the same session are independent entries.
func (s *Store) Add(sel model.SelectedSession) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, e := range s.entries {
		if e.SessionID == sel.SessionID && e.Kind == sel.Kind {
			return ErrDuplicate
		}
	}
	s.entries = append(s.entries, sel)
	return nil
}

// Edit updates the override fields and/or category of the entry at index.
func (s *Store) Edit(index int, f Fields) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if index < 0 || index >= len(s.entries) {
		return ErrIndexOutOfRange
	}
	e := &s.entries[index]
	if f.Name != nil {
		e.Name = *f.Name
	}
	if f.Title != nil {
		e.Title = *f.Title
	}
	if f.FacultyName != nil {
		e.FacultyName = *f.FacultyName
	}
	if f.RoomNumber != nil {
		e.RoomNumber = *f.RoomNumber
	}
	if f.InstructorEmail != nil {
		e.InstructorEmail = *f.InstructorEmail
	}
	if f.Category != nil {
		e.Category = *f.Category
	}
	return nil
}

// Remove deletes the entry at index, preserving the order of the rest.
func (s *Store) Remove(index int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if index < 0 || index >= len(s.entries) {
		return ErrIndexOutOfRange
	}
	s.entries = append(s.entries[:index], s.entries[index+1:]...)
	return nil
}

// Reset clears all selections unconditionally.
func (s *Store) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = nil
}

// List returns the selections in insertion order. The returned slice is a
// copy; mutating it does not affect the store.
func (s *Store) List() []model.SelectedSession {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]model.SelectedSession, len(s.entries))
	copy(out, s.entries)
	return out
}

// Len reports the number of selections.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}
