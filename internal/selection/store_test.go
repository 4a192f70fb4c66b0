package selection

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"routine2cal/internal/model"
)

var seedOpts = SeedOptions{
	EmailDomain:      "bracu.ac.bd",
	PlaceholderEmail: "instructor@bracu.ac.bd",
}

func sampleSession() model.CatalogSession {
	return model.CatalogSession{
		ID:          "101",
		CourseCode:  "CSE110",
		CourseTitle: "Programming Language I",
		Faculty:     "ABC",
		SectionName: "01",
		RoomName:    "09A-01C",
		Schedule:    "SUNDAY(8:00 AM-9:20 AM-10B-18C)\nTUESDAY(8:00 AM-9:20 AM-10B-18C)",
		LabSchedule: "MONDAY(2:00 PM-4:50 PM-12D-25L)",
		LabName:     "CSE110 Lab",
		LabRoomName: "12D-25L",
	}
}

func TestFromCatalog_LectureSeeding(t *testing.T) {
	sel := FromCatalog(sampleSession(), model.KindLecture, seedOpts)

	assert.Equal(t, "101", sel.SessionID)
	assert.Equal(t, model.KindLecture, sel.Kind)
	assert.Equal(t, model.CategoryNormal, sel.Category)
	assert.Equal(t, "CSE110", sel.Name)
	assert.Equal(t, "Programming Language I", sel.Title)
	assert.Equal(t, "ABC", sel.FacultyName)
	assert.Equal(t, "09A-01C", sel.RoomNumber)
	assert.Equal(t, "abc@bracu.ac.bd", sel.InstructorEmail)
	assert.Equal(t, sampleSession().Schedule, sel.ScheduleSource)
}

func TestFromCatalog_LabSeeding(t *testing.T) {
	sel := FromCatalog(sampleSession(), model.KindLab, seedOpts)

	assert.Equal(t, model.CategoryLab, sel.Category)
	assert.Equal(t, "CSE110 Lab", sel.Title)
	assert.Equal(t, "12D-25L", sel.RoomNumber)
	assert.Equal(t, sampleSession().LabSchedule, sel.ScheduleSource)
}

func TestFromCatalog_RoomFallbacks(t *testing.T) {
	t.Run("schedule token when no explicit room", func(t *testing.T) {
		cs := sampleSession()
		cs.RoomName = ""
		sel := FromCatalog(cs, model.KindLecture, seedOpts)
		assert.Equal(t, "10B-18C", sel.RoomNumber)
	})

	t.Run("TBA when nothing available", func(t *testing.T) {
		cs := sampleSession()
		cs.RoomName = ""
		cs.Schedule = ""
		sel := FromCatalog(cs, model.KindLecture, seedOpts)
		assert.Equal(t, "TBA", sel.RoomNumber)
	})
}

func TestFromCatalog_PlaceholderEmail(t *testing.T) {
	cs := sampleSession()
	cs.Faculty = "TBA"
	sel := FromCatalog(cs, model.KindLecture, seedOpts)
	assert.Equal(t, "instructor@bracu.ac.bd", sel.InstructorEmail)
}

func TestStore_AddRejectsDuplicate(t *testing.T) {
	s := NewStore()
	sel := FromCatalog(sampleSession(), model.KindLecture, seedOpts)

	require.NoError(t, s.Add(sel))
	err := s.Add(sel)
	assert.ErrorIs(t, err, ErrDuplicate)
	assert.Equal(t, 1, s.Len())
}

func TestStore_LectureAndLabAreIndependent(t *testing.T) {
	s := NewStore()
	require.NoError(t, s.Add(FromCatalog(sampleSession(), model.KindLecture, seedOpts)))
	require.NoError(t, s.Add(FromCatalog(sampleSession(), model.KindLab, seedOpts)))
	assert.Equal(t, 2, s.Len())
}

func TestStore_EditDoesNotLeak(t *testing.T) {
	s := NewStore()
	require.NoError(t, s.Add(FromCatalog(sampleSession(), model.KindLecture, seedOpts)))
	require.NoError(t, s.Add(FromCatalog(sampleSession(), model.KindLab, seedOpts)))

	newRoom := "UB0701"
	exam := model.CategoryExam
	require.NoError(t, s.Edit(0, Fields{RoomNumber: &newRoom, Category: &exam}))

	entries := s.List()
	assert.Equal(t, "UB0701", entries[0].RoomNumber)
	assert.Equal(t, model.CategoryExam, entries[0].Category)
	// The sibling lab selection is untouched.
	assert.Equal(t, "12D-25L", entries[1].RoomNumber)
	assert.Equal(t, model.CategoryLab, entries[1].Category)
	// Kind and schedule source are not editable.
	assert.Equal(t, model.KindLecture, entries[0].Kind)
	assert.Equal(t, sampleSession().Schedule, entries[0].ScheduleSource)
}

func TestStore_EditPartialFieldsLeaveRestUnchanged(t *testing.T) {
	s := NewStore()
	require.NoError(t, s.Add(FromCatalog(sampleSession(), model.KindLecture, seedOpts)))

	name := "CSE110 (morning)"
	require.NoError(t, s.Edit(0, Fields{Name: &name}))

	got := s.List()[0]
	assert.Equal(t, "CSE110 (morning)", got.Name)
	assert.Equal(t, "Programming Language I", got.Title)
	assert.Equal(t, "abc@bracu.ac.bd", got.InstructorEmail)
}

func TestStore_IndexOutOfRange(t *testing.T) {
	s := NewStore()
	assert.ErrorIs(t, s.Edit(0, Fields{}), ErrIndexOutOfRange)
	assert.ErrorIs(t, s.Remove(0), ErrIndexOutOfRange)
	assert.ErrorIs(t, s.Remove(-1), ErrIndexOutOfRange)
}

func TestStore_RemovePreservesOrder(t *testing.T) {
	s := NewStore()
	for _, id := range []string{"1", "2", "3"} {
		cs := sampleSession()
		cs.ID = id
		require.NoError(t, s.Add(FromCatalog(cs, model.KindLecture, seedOpts)))
	}

	require.NoError(t, s.Remove(1))

	entries := s.List()
	require.Len(t, entries, 2)
	assert.Equal(t, "1", entries[0].SessionID)
	assert.Equal(t, "3", entries[1].SessionID)
}

func TestStore_Reset(t *testing.T) {
	s := NewStore()
	require.NoError(t, s.Add(FromCatalog(sampleSession(), model.KindLecture, seedOpts)))
	s.Reset()
	assert.Equal(t, 0, s.Len())
}

func TestStore_ListReturnsCopy(t *testing.T) {
	s := NewStore()
	require.NoError(t, s.Add(FromCatalog(sampleSession(), model.KindLecture, seedOpts)))

	got := s.List()
	got[0].Name = "mutated"
	assert.Equal(t, "CSE110", s.List()[0].Name)
}

func TestStore_PersistRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state", "selection.json")

	s := NewStore()
	require.NoError(t, s.Add(FromCatalog(sampleSession(), model.KindLecture, seedOpts)))
	require.NoError(t, s.Add(FromCatalog(sampleSession(), model.KindLab, seedOpts)))
	require.NoError(t, s.SaveFile(path))

	restored := NewStore()
	require.NoError(t, restored.LoadFile(path))
	assert.Equal(t, s.List(), restored.List())
}

func TestStore_LoadMissingFileIsEmpty(t *testing.T) {
	s := NewStore()
	require.NoError(t, s.LoadFile(filepath.Join(t.TempDir(), "nope.json")))
	assert.Equal(t, 0, s.Len())
}
