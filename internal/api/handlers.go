package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/aquasentry/aquasentry/internal/domain"
	"github.com/aquasentry/aquasentry/internal/store"
)

// handleListReports returns the role-filtered report feed. Analysts see
// everything, authorities see only triaged reports, citizens are directed to
// /api/my-reports.
func (s *Server) handleListReports(w http.ResponseWriter, r *http.Request) {
	id := callerIdentity(r)

	var (
		reports []domain.Report
		err     error
	)
	switch id.Role {
	case domain.RoleAnalyst:
		reports, err = s.store.List(r.Context())
	case domain.RoleAuthority:
		reports, err = s.store.ListNonNew(r.Context())
	default:
		writeError(w, http.StatusForbidden, "citizens may only view their own reports")
		return
	}
	if err != nil {
		s.logger.Error("list reports failed", "error", err, "role", id.Role)
		writeError(w, http.StatusInternalServerError, "storage error")
		return
	}

	writeJSON(w, http.StatusOK, reports)
}

// handleMyReports returns the citizen caller's own submissions. Analysts and
// authorities use /api/reports instead.
func (s *Server) handleMyReports(w http.ResponseWriter, r *http.Request) {
	id := callerIdentity(r)
	if id.Role != domain.RoleCitizen {
		writeError(w, http.StatusForbidden, "only citizens have a personal report feed")
		return
	}

	reports, err := s.store.ListByUser(r.Context(), id.UserID)
	if err != nil {
		s.logger.Error("list own reports failed", "error", err, "user_id", id.UserID)
		writeError(w, http.StatusInternalServerError, "storage error")
		return
	}

	writeJSON(w, http.StatusOK, reports)
}

type createReportRequest struct {
	Description string   `json:"description"`
	Latitude    *float64 `json:"latitude"`
	Longitude   *float64 `json:"longitude"`
	ImageURL    *string  `json:"image_url"`
}

// handleCreateReport accepts a citizen's hazard submission.
func (s *Server) handleCreateReport(w http.ResponseWriter, r *http.Request) {
	id := callerIdentity(r)
	if id.Role != domain.RoleCitizen {
		writeError(w, http.StatusForbidden, "only citizens submit reports")
		return
	}

	var req createReportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad json")
		return
	}
	if req.Latitude == nil || req.Longitude == nil {
		writeError(w, http.StatusBadRequest, "latitude and longitude are required")
		return
	}

	sentiment := domain.SentimentNeutral
	report := domain.Report{
		Description: req.Description,
		Latitude:    *req.Latitude,
		Longitude:   *req.Longitude,
		Source:      domain.SourceCrowdsource,
		Timestamp:   domain.Now(),
		UserID:      &id.UserID,
		ImageURL:    req.ImageURL,
		Status:      domain.StatusNew,
		Sentiment:   &sentiment,
	}
	if err := report.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	reportID, err := s.store.Create(r.Context(), report)
	if err != nil {
		s.logger.Error("create report failed", "error", err)
		writeError(w, http.StatusInternalServerError, "storage error")
		return
	}

	report.ID = reportID
	writeJSON(w, http.StatusCreated, report)
}

type updateStatusRequest struct {
	Status domain.Status `json:"status"`
	Notes  *string       `json:"notes"`
}

// handleUpdateStatus lets an analyst move a report through triage.
func (s *Server) handleUpdateStatus(w http.ResponseWriter, r *http.Request) {
	id := callerIdentity(r)
	if id.Role != domain.RoleAnalyst {
		writeError(w, http.StatusForbidden, "only analysts update report status")
		return
	}

	reportID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid report id")
		return
	}

	var req updateStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad json")
		return
	}

	report, err := s.store.UpdateStatus(r.Context(), reportID, req.Status, req.Notes)
	switch {
	case errors.Is(err, domain.ErrInvalidStatus):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, store.ErrNotFound):
		writeError(w, http.StatusNotFound, "report not found")
	case err != nil:
		s.logger.Error("update status failed", "error", err, "report_id", reportID)
		writeError(w, http.StatusInternalServerError, "storage error")
	default:
		writeJSON(w, http.StatusOK, report)
	}
}

// handleSummary returns the authority dashboard: triage counts, source
// counts, and the latest processed reports.
func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	id := callerIdentity(r)
	if id.Role != domain.RoleAuthority {
		writeError(w, http.StatusForbidden, "summary is restricted to authorities")
		return
	}

	summary, err := s.store.Summary(r.Context())
	if err != nil {
		s.logger.Error("summary failed", "error", err)
		writeError(w, http.StatusInternalServerError, "storage error")
		return
	}

	writeJSON(w, http.StatusOK, summary)
}
