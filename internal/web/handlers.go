package web

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"routine2cal/internal/export"
	appLog "routine2cal/internal/log"
	"routine2cal/internal/metrics"
	"routine2cal/internal/model"
	"routine2cal/internal/selection"
)

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		appLog.Error("write response failed", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleCatalogList(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	sessions, err := s.catalog.Filter(r.Context(), q.Get("q"), q.Get("day"), q.Get("section"))
	if err != nil {
		writeError(w, http.StatusBadGateway, "catalog unavailable: "+err.Error())
		return
	}
	writeJSON(w, http.StatusOK, sessions)
}

func (s *Server) handleCatalogRefresh(w http.ResponseWriter, r *http.Request) {
	sessions, err := s.catalog.Refresh(r.Context())
	if err != nil {
		metrics.IncCatalogRefresh("error")
		writeError(w, http.StatusBadGateway, "catalog refresh failed: "+err.Error())
		return
	}
	metrics.IncCatalogRefresh("ok")
	writeJSON(w, http.StatusOK, map[string]int{"sessions": len(sessions)})
}

func (s *Server) handleSelectionList(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.store.List())
}

type addRequest struct {
	SectionID string `json:"sectionId"`
	Kind      string `json:"kind"`
}

func (s *Server) handleSelectionAdd(w http.ResponseWriter, r *http.Request) {
	var req addRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	kind, ok := model.ParseKind(req.Kind)
	if !ok {
		writeError(w, http.StatusBadRequest, "kind must be \"lecture\" or \"lab\"")
		return
	}

	cs, found, err := s.catalog.Find(r.Context(), req.SectionID)
	if err != nil {
		writeError(w, http.StatusBadGateway, "catalog unavailable: "+err.Error())
		return
	}
	if !found {
		writeError(w, http.StatusNotFound, "unknown section id")
		return
	}
	if kind == model.KindLab && cs.LabSchedule == "" {
		writeError(w, http.StatusBadRequest, "section has no lab schedule")
		return
	}

	sel := selection.FromCatalog(cs, kind, selection.SeedOptions{
		EmailDomain:      s.cfg.EmailDomain,
		PlaceholderEmail: s.cfg.PlaceholderEmail,
	})
	if err := s.store.Add(sel); err != nil {
		if errors.Is(err, selection.ErrDuplicate) {
			writeError(w, http.StatusConflict, err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	metrics.IncSelectionOp("add")
	s.persist()
	writeJSON(w, http.StatusCreated, sel)
}

type editRequest struct {
	Name            *string `json:"name"`
	Title           *string `json:"title"`
	FacultyName     *string `json:"facultyName"`
	RoomNumber      *string `json:"roomNumber"`
	InstructorEmail *string `json:"instructorEmail"`
	Category        *string `json:"category"`
}

func (s *Server) handleSelectionEdit(w http.ResponseWriter, r *http.Request) {
	index, err := strconv.Atoi(r.PathValue("index"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid selection index")
		return
	}

	var req editRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	fields := selection.Fields{
		Name:            req.Name,
		Title:           req.Title,
		FacultyName:     req.FacultyName,
		RoomNumber:      req.RoomNumber,
		InstructorEmail: req.InstructorEmail,
	}
	if req.Category != nil {
		cat, ok := model.ParseCategory(*req.Category)
		if !ok {
			writeError(w, http.StatusBadRequest, "category must be \"normal\", \"lab\" or \"exam\"")
			return
		}
		fields.Category = &cat
	}

	if err := s.store.Edit(index, fields); err != nil {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}

	metrics.IncSelectionOp("edit")
	s.persist()
	writeJSON(w, http.StatusOK, map[string]string{"status": "updated"})
}

func (s *Server) handleSelectionRemove(w http.ResponseWriter, r *http.Request) {
	index, err := strconv.Atoi(r.PathValue("index"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid selection index")
		return
	}
	if err := s.store.Remove(index); err != nil {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}

	metrics.IncSelectionOp("remove")
	s.persist()
	writeJSON(w, http.StatusOK, map[string]string{"status": "removed"})
}

func (s *Server) handleSelectionReset(w http.ResponseWriter, r *http.Request) {
	s.store.Reset()
	metrics.IncSelectionOp("reset")
	s.persist()
	writeJSON(w, http.StatusOK, map[string]string{"status": "reset"})
}

func (s *Server) handleExportICS(w http.ResponseWriter, r *http.Request) {
	reminder, ok := s.reminderParam(w, r)
	if !ok {
		return
	}
	doc, err := s.exporter.ICSDocument(s.store.List(), s.now(), reminder)
	if err != nil {
		s.writeExportError(w, err)
		return
	}

	metrics.IncExport("ics")
	w.Header().Set("Content-Type", "text/calendar; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="`+icsFilename+`"`)
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte(doc)); err != nil {
		appLog.Error("write ics response failed", err)
	}
}

func (s *Server) handleExportGoogle(w http.ResponseWriter, r *http.Request) {
	reminder, ok := s.reminderParam(w, r)
	if !ok {
		return
	}
	urls, err := s.exporter.GoogleURLs(s.store.List(), s.now(), reminder)
	if err != nil {
		s.writeExportError(w, err)
		return
	}

	metrics.IncExport("google")
	writeJSON(w, http.StatusOK, map[string]any{"urls": urls, "count": len(urls)})
}

func (s *Server) handleExportText(w http.ResponseWriter, r *http.Request) {
	text, err := s.exporter.Text(s.store.List())
	if err != nil {
		s.writeExportError(w, err)
		return
	}

	metrics.IncExport("text")
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte(text)); err != nil {
		appLog.Error("write text response failed", err)
	}
}

// reminderParam reads the optional ?reminder=M minutes override, falling
// back to the configured default. Reports false after writing an error
// response for a malformed value.
func (s *Server) reminderParam(w http.ResponseWriter, r *http.Request) (int, bool) {
	raw := r.URL.Query().Get("reminder")
	if raw == "" {
		return s.cfg.ReminderMinutes, true
	}
	minutes, err := strconv.Atoi(raw)
	if err != nil || minutes < 0 {
		writeError(w, http.StatusBadRequest, "reminder must be a non-negative integer of minutes")
		return 0, false
	}
	return minutes, true
}

func (s *Server) writeExportError(w http.ResponseWriter, err error) {
	if errors.Is(err, export.ErrEmptySelection) {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeError(w, http.StatusInternalServerError, err.Error())
}

// persist writes the selection state file; failures are logged, not
// surfaced, so a read-only disk does not break the in-memory session.
func (s *Server) persist() {
	if err := s.store.SaveFile(s.cfg.StatePath); err != nil {
		appLog.Error("selection state save failed", err, "path", s.cfg.StatePath)
	}
}
