package http

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/petpoint/pet_point/internal/reports/domain"
	"github.com/petpoint/pet_point/internal/reports/service"
)

// ReportsAPI is the slice of the report service the gateway consumes.
type ReportsAPI interface {
	Submit(ctx context.Context, report *domain.Report) (*domain.Report, error)
	Update(ctx context.Context, reporterID string, report *domain.Report) (*domain.Report, error)
	Hide(ctx context.Context, reporterID, reportID string) error
	Search(ctx context.Context, query, kindFacet, statusFacet string) ([]domain.Report, error)
	Mine(ctx context.Context, reporterID string) ([]domain.Report, error)
}

type ReportsHandler struct {
	reports ReportsAPI
	timeout time.Duration
}

func NewReportsHandler(reports ReportsAPI, timeout time.Duration) *ReportsHandler {
	return &ReportsHandler{
		reports: reports,
		timeout: timeout,
	}
}

type ReportRequestDTO struct {
	Kind         string    `json:"kind"`
	Title        string    `json:"title"`
	Category     string    `json:"category"`
	Description  string    `json:"description"`
	Location     string    `json:"location"`
	Date         time.Time `json:"date"`
	ReporterName string    `json:"reporter_name"`
	ImageURL     string    `json:"image_url"`
	ContactInfo  string    `json:"contact_info"`
}

func (dto *ReportRequestDTO) toDomain(reporterID string) *domain.Report {
	return &domain.Report{
		Kind:         domain.Kind(dto.Kind),
		Title:        dto.Title,
		Category:     dto.Category,
		Description:  dto.Description,
		Location:     dto.Location,
		Date:         dto.Date,
		ReporterID:   reporterID,
		ReporterName: dto.ReporterName,
		ImageURL:     dto.ImageURL,
		ContactInfo:  dto.ContactInfo,
	}
}

// List handles the public listing with free-text search and facet filters:
// GET /reports?q=...&kind=Lost&status=Open
func (h *ReportsHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	query := r.URL.Query().Get("q")
	kind := r.URL.Query().Get("kind")
	status := r.URL.Query().Get("status")
	if kind == "" {
		kind = service.FacetAll
	}
	if status == "" {
		status = service.FacetAll
	}

	reports, err := h.reports.Search(ctx, query, kind, status)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, reports)
}

func (h *ReportsHandler) Create(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	userID := getUserIDFromContext(r.Context())
	if userID == "" {
		respondError(w, http.StatusUnauthorized, "unauthorized", "missing user authentication")
		return
	}

	var req ReportRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	report, err := h.reports.Submit(ctx, req.toDomain(userID))
	if err != nil {
		handleServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, report)
}

func (h *ReportsHandler) Update(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	userID := getUserIDFromContext(r.Context())
	if userID == "" {
		respondError(w, http.StatusUnauthorized, "unauthorized", "missing user authentication")
		return
	}

	var req ReportRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	report := req.toDomain(userID)
	report.ID = chi.URLParam(r, "id")

	updated, err := h.reports.Update(ctx, userID, report)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, updated)
}

func (h *ReportsHandler) Hide(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	userID := getUserIDFromContext(r.Context())
	if userID == "" {
		respondError(w, http.StatusUnauthorized, "unauthorized", "missing user authentication")
		return
	}

	if err := h.reports.Hide(ctx, userID, chi.URLParam(r, "id")); err != nil {
		handleServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *ReportsHandler) Mine(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	userID := getUserIDFromContext(r.Context())
	if userID == "" {
		respondError(w, http.StatusUnauthorized, "unauthorized", "missing user authentication")
		return
	}

	reports, err := h.reports.Mine(ctx, userID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, reports)
}
