package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/petpoint/pet_point/internal/reports/domain"
	reportsservice "github.com/petpoint/pet_point/internal/reports/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type reportsAPIMock struct {
	reports []domain.Report
	err     error

	searchQuery  string
	searchKind   string
	searchStatus string
	submitted    *domain.Report
	hiddenID     string
}

func (m *reportsAPIMock) Submit(_ context.Context, report *domain.Report) (*domain.Report, error) {
	if m.err != nil {
		return nil, m.err
	}
	m.submitted = report
	out := *report
	out.ID = "generated-id"
	return &out, nil
}

func (m *reportsAPIMock) Update(_ context.Context, _ string, report *domain.Report) (*domain.Report, error) {
	if m.err != nil {
		return nil, m.err
	}
	return report, nil
}

func (m *reportsAPIMock) Hide(_ context.Context, _, reportID string) error {
	if m.err != nil {
		return m.err
	}
	m.hiddenID = reportID
	return nil
}

func (m *reportsAPIMock) Search(_ context.Context, query, kindFacet, statusFacet string) ([]domain.Report, error) {
	if m.err != nil {
		return nil, m.err
	}
	m.searchQuery = query
	m.searchKind = kindFacet
	m.searchStatus = statusFacet
	return m.reports, nil
}

func (m *reportsAPIMock) Mine(context.Context, string) ([]domain.Report, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.reports, nil
}

func reportsRouter(mock *reportsAPIMock) http.Handler {
	h := NewReportsHandler(mock, time.Second)
	r := chi.NewRouter()
	r.Use(MockAuthMiddleware)
	r.Get("/reports", h.List)
	r.Post("/reports", h.Create)
	r.Put("/reports/{id}", h.Update)
	r.Delete("/reports/{id}", h.Hide)
	r.Get("/reports/mine", h.Mine)
	return r
}

func TestReportsList_PassesQueryAndFacets(t *testing.T) {
	mock := &reportsAPIMock{reports: []domain.Report{{ID: "r1", Title: "Lost tabby cat"}}}
	router := reportsRouter(mock)

	req := httptest.NewRequest(http.MethodGet, "/reports?q=tabby&kind=Lost&status=Open", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "tabby", mock.searchQuery)
	assert.Equal(t, "Lost", mock.searchKind)
	assert.Equal(t, "Open", mock.searchStatus)

	var got []domain.Report
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.Len(t, got, 1)
	assert.Equal(t, "r1", got[0].ID)
}

func TestReportsList_DefaultsFacetsToAll(t *testing.T) {
	mock := &reportsAPIMock{}
	router := reportsRouter(mock)

	req := httptest.NewRequest(http.MethodGet, "/reports", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, reportsservice.FacetAll, mock.searchKind)
	assert.Equal(t, reportsservice.FacetAll, mock.searchStatus)
}

func TestReportsCreate_Created(t *testing.T) {
	mock := &reportsAPIMock{}
	router := reportsRouter(mock)

	body := `{"kind":"Lost","title":"Lost tabby cat","category":"Cat","location":"Riverside Park","contact_info":"555-0100"}`
	req := httptest.NewRequest(http.MethodPost, "/reports", bytes.NewBufferString(body))
	req.Header.Set("X-User-ID", "u1")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)
	require.NotNil(t, mock.submitted)
	assert.Equal(t, "u1", mock.submitted.ReporterID)
	assert.Equal(t, domain.KindLost, mock.submitted.Kind)

	var got domain.Report
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, "generated-id", got.ID)
}

func TestReportsCreate_InvalidBody(t *testing.T) {
	router := reportsRouter(&reportsAPIMock{})

	req := httptest.NewRequest(http.MethodPost, "/reports", bytes.NewBufferString("not json"))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestReportsCreate_InvalidReport_MapsToBadRequest(t *testing.T) {
	router := reportsRouter(&reportsAPIMock{err: reportsservice.ErrInvalidReport})

	req := httptest.NewRequest(http.MethodPost, "/reports", bytes.NewBufferString(`{"kind":"Lost"}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)

	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "invalid_report", resp.Code)
}

func TestReportsHide_NoContent(t *testing.T) {
	mock := &reportsAPIMock{}
	router := reportsRouter(mock)

	req := httptest.NewRequest(http.MethodDelete, "/reports/r1", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "r1", mock.hiddenID)
}

func TestReportsHide_NotOwner_MapsToForbidden(t *testing.T) {
	router := reportsRouter(&reportsAPIMock{err: reportsservice.ErrNotOwner})

	req := httptest.NewRequest(http.MethodDelete, "/reports/r1", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestReportsMine_OK(t *testing.T) {
	mock := &reportsAPIMock{reports: []domain.Report{{ID: "r1"}, {ID: "r2"}}}
	router := reportsRouter(mock)

	req := httptest.NewRequest(http.MethodGet, "/reports/mine", nil)
	req.Header.Set("X-User-ID", "u1")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var got []domain.Report
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Len(t, got, 2)
}
