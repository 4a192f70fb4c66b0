package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	gocache "github.com/patrickmn/go-cache"

	appLog "routine2cal/internal/log"
	"routine2cal/internal/model"
	"routine2cal/internal/schedule"
)

// sectionRecord is one row of the section feed, as served upstream.
type sectionRecord struct {
	SectionID           json.Number `json:"sectionId"`
	CourseCode          string      `json:"courseCode"`
	Faculties           string      `json:"faculties"`
	PreRegSchedule      string      `json:"preRegSchedule"`
	PreRegLabSchedule   string      `json:"preRegLabSchedule"`
	CourseCredit        float64     `json:"courseCredit"`
	Capacity            int         `json:"capacity"`
	ConsumedSeat        int         `json:"consumedSeat"`
	SectionName         string      `json:"sectionName"`
	RoomName            string      `json:"roomName"`
	PrerequisiteCourses string      `json:"prerequisiteCourses"`
	LabName             string      `json:"labName"`
	LabRoomName         string      `json:"labRoomName"`
}

// titleRecord is one row of the course-title dump.
type titleRecord struct {
	CourseCode  string `json:"courseCode"`
	CourseTitle string `json:"courseTitle"`
}

const snapshotKey = "catalog-snapshot"

// Service fetches, merges and memoizes the two catalog feeds. The merged
// snapshot is immutable; consumers copy from it and never write back.
type Service struct {
	fetcher    *Fetcher
	sectionURL string
	titleURL   string
	cache      *gocache.Cache
	ttl        time.Duration
}

// NewService constructs a catalog Service with the given feed endpoints and
// in-memory snapshot TTL.
func NewService(fetcher *Fetcher, sectionURL, titleURL string, ttl time.Duration) *Service {
	return &Service{
		fetcher:    fetcher,
		sectionURL: sectionURL,
		titleURL:   titleURL,
		cache:      gocache.New(ttl, 2*ttl),
		ttl:        ttl,
	}
}

// Sessions returns the merged catalog, serving the memoized snapshot while
// it is fresh.
func (s *Service) Sessions(ctx context.Context) ([]model.CatalogSession, error) {
	if cached, ok := s.cache.Get(snapshotKey); ok {
		return cached.([]model.CatalogSession), nil
	}
	return s.Refresh(ctx)
}

// Refresh fetches both feeds, rebuilds the snapshot and replaces the
// memoized copy.
func (s *Service) Refresh(ctx context.Context) ([]model.CatalogSession, error) {
	sectionBody, err := s.fetcher.Fetch(ctx, "sections", s.sectionURL)
	if err != nil {
		return nil, fmt.Errorf("catalog: fetch sections: %w", err)
	}
	titleBody, err := s.fetcher.Fetch(ctx, "titles", s.titleURL)
	if err != nil {
		return nil, fmt.Errorf("catalog: fetch titles: %w", err)
	}

	sessions, err := Merge(sectionBody, titleBody)
	if err != nil {
		return nil, err
	}

	s.cache.Set(snapshotKey, sessions, s.ttl)
	appLog.Info("catalog refreshed", "sessions", len(sessions))
	return sessions, nil
}

// Find looks a session up by id in the current snapshot.
func (s *Service) Find(ctx context.Context, id string) (model.CatalogSession, bool, error) {
	sessions, err := s.Sessions(ctx)
	if err != nil {
		return model.CatalogSession{}, false, err
	}
	for _, cs := range sessions {
		if cs.ID == id {
			return cs, true, nil
		}
	}
	return model.CatalogSession{}, false, nil
}

// Filter returns the snapshot narrowed by an optional case-insensitive
// query over course code/title, a weekday name, and an exact section name.
func (s *Service) Filter(ctx context.Context, query, day, section string) ([]model.CatalogSession, error) {
	sessions, err := s.Sessions(ctx)
	if err != nil {
		return nil, err
	}

	query = strings.ToLower(strings.TrimSpace(query))
	wantDay, _ := schedule.NormalizeWeekday(day)

	out := make([]model.CatalogSession, 0, len(sessions))
	for _, cs := range sessions {
		if query != "" &&
			!strings.Contains(strings.ToLower(cs.CourseCode), query) &&
			!strings.Contains(strings.ToLower(cs.CourseTitle), query) {
			continue
		}
		if section != "" && cs.SectionName != section {
			continue
		}
		if wantDay != "" && !meetsOn(cs.Schedule, wantDay) {
			continue
		}
		out = append(out, cs)
	}
	return out, nil
}

func meetsOn(rawSchedule, day string) bool {
	for _, tok := range schedule.Parse(rawSchedule) {
		if tok.Weekday == day {
			return true
		}
	}
	return false
}

// Merge decodes the two feed bodies and joins them into catalog sessions:
// titles are looked up by course code (falling back to the code itself),
// the department is the course code with digits stripped, and an unknown
// instructor becomes "TBA".
func Merge(sectionBody, titleBody []byte) ([]model.CatalogSession, error) {
	var records []sectionRecord
	if err := json.Unmarshal(sectionBody, &records); err != nil {
		return nil, fmt.Errorf("catalog: decode section feed: %w", err)
	}

	var titles []titleRecord
	if err := json.Unmarshal(titleBody, &titles); err != nil {
		return nil, fmt.Errorf("catalog: decode title feed: %w", err)
	}

	titleByCode := make(map[string]string, len(titles))
	for _, t := range titles {
		if t.CourseCode != "" && t.CourseTitle != "" {
			titleByCode[t.CourseCode] = t.CourseTitle
		}
	}

	sessions := make([]model.CatalogSession, 0, len(records))
	for _, r := range records {
		title := titleByCode[r.CourseCode]
		if title == "" {
			title = r.CourseCode
		}
		faculty := r.Faculties
		if faculty == "" {
			faculty = "TBA"
		}

		sessions = append(sessions, model.CatalogSession{
			ID:            r.SectionID.String(),
			CourseCode:    r.CourseCode,
			CourseTitle:   title,
			Department:    departmentFromCode(r.CourseCode),
			Faculty:       faculty,
			SectionName:   r.SectionName,
			RoomName:      r.RoomName,
			Credit:        r.CourseCredit,
			Capacity:      r.Capacity,
			AvailableSeat: r.Capacity - r.ConsumedSeat,
			Schedule:      r.PreRegSchedule,
			LabSchedule:   r.PreRegLabSchedule,
			LabName:       r.LabName,
			LabRoomName:   r.LabRoomName,
			Prerequisites: r.PrerequisiteCourses,
		})
	}
	return sessions, nil
}

// departmentFromCode strips the numeric tail of a course code ("CSE110" ->
// "CSE").
func departmentFromCode(code string) string {
	prefix := strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return -1
		}
		return r
	}, code)
	if prefix == "" {
		return "Unknown"
	}
	return prefix
}
