package model

import "time"

// Kind distinguishes the two ways a catalog section can be selected.
// At most one selection of each kind may exist per section id.
type Kind string

const (
	KindLecture Kind = "lecture"
	KindLab     Kind = "lab"
)

// ParseKind maps a wire/user string onto a Kind.
func ParseKind(s string) (Kind, bool) {
	switch Kind(s) {
	case KindLecture, KindLab:
		return Kind(s), true
	}
	return "", false
}

// Category is the user-assignable event tag. It is independent of Kind:
// it controls the title suffix and the ICS CATEGORIES value, nothing else.
type Category string

const (
	CategoryNormal Category = "normal"
	CategoryLab    Category = "lab"
	CategoryExam   Category = "exam"
)

// ParseCategory maps a wire/user string onto a Category.
func ParseCategory(s string) (Category, bool) {
	switch Category(s) {
	case CategoryNormal, CategoryLab, CategoryExam:
		return Category(s), true
	}
	return "", false
}

// TitleSuffix returns the decoration appended to event titles for this
// category (" Lab", " Exam", or empty).
func (c Category) TitleSuffix() string {
	switch c {
	case CategoryLab:
		return " Lab"
	case CategoryExam:
		return " Exam"
	}
	return ""
}

// CatalogSession is one section row from the merged catalog feeds. It is an
// immutable snapshot: selections copy from it at add time and never write
// back.
type CatalogSession struct {
	ID            string  `json:"id"`
	CourseCode    string  `json:"courseCode"`
	CourseTitle   string  `json:"courseTitle"`
	Department    string  `json:"department"`
	Faculty       string  `json:"faculty"`
	SectionName   string  `json:"sectionName"`
	RoomName      string  `json:"roomName"`
	Credit        float64 `json:"credit"`
	Capacity      int     `json:"capacity"`
	AvailableSeat int     `json:"availableSeat"`

	// Schedule is the raw regular-class schedule string; LabSchedule the raw
	// lab schedule string. Both are in one of the two upstream conventions
	// (comma-joined or newline-joined) and are parsed lazily at compile time.
	Schedule    string `json:"schedule"`
	LabSchedule string `json:"labSchedule,omitempty"`

	LabName     string `json:"labName,omitempty"`
	LabRoomName string `json:"labRoomName,omitempty"`

	Prerequisites string `json:"prerequisites,omitempty"`
}

// SelectedSession is one entry of the user's timetable: a catalog section
// chosen either as its lecture or its lab, plus the user-editable override
// fields seeded from the catalog record. Overrides are independent per entry;
// editing one never touches the catalog snapshot or any other entry.
type SelectedSession struct {
	SessionID string   `json:"sessionId"`
	Kind      Kind     `json:"kind"`
	Category  Category `json:"category"`

	// Override fields, all user-editable.
	Name            string `json:"name"`
	Title           string `json:"title"`
	FacultyName     string `json:"facultyName"`
	RoomNumber      string `json:"roomNumber"`
	InstructorEmail string `json:"instructorEmail"`

	SectionName string `json:"sectionName"`

	// ScheduleSource is the raw schedule string occurrences are generated
	// from: the regular schedule for a lecture, the lab schedule for a lab.
	// Fixed at add time; edits never change it.
	ScheduleSource string `json:"scheduleSource"`
}

// CompiledEvent is one weekday meeting of one selection, anchored to a
// concrete next-occurrence date. Derived and ephemeral: recomputed on every
// export, never stored.
type CompiledEvent struct {
	SessionID string
	Weekday   string

	// Start/End are naive-local wall times carrying the configured zone's
	// *time.Location; serializers stamp or convert them, never shift them.
	Start time.Time
	End   time.Time

	Title       string
	Description string
	Location    string
	Category    Category

	// UID is derived from (SessionID, Weekday, Start), so recompiling an
	// unchanged selection yields the same identifier.
	UID string

	// RecurrenceRule is the weekly count-capped RRULE value, without the
	// "RRULE:" property name.
	RecurrenceRule string
}
