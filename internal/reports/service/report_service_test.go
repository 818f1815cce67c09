package service

import (
	"context"
	"testing"

	"github.com/petpoint/pet_point/internal/reports/domain"
	"github.com/petpoint/pet_point/internal/reports/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockReportRepo struct {
	reports map[string]*domain.Report
	err     error
}

func newMockReportRepo() *mockReportRepo {
	return &mockReportRepo{reports: make(map[string]*domain.Report)}
}

func (m *mockReportRepo) Create(_ context.Context, report *domain.Report) error {
	if m.err != nil {
		return m.err
	}
	cp := *report
	m.reports[report.ID] = &cp
	return nil
}

func (m *mockReportRepo) Update(_ context.Context, report *domain.Report) error {
	if m.err != nil {
		return m.err
	}
	if _, ok := m.reports[report.ID]; !ok {
		return repository.ErrReportNotFound
	}
	cp := *report
	m.reports[report.ID] = &cp
	return nil
}

func (m *mockReportRepo) GetByID(_ context.Context, id string) (*domain.Report, error) {
	if m.err != nil {
		return nil, m.err
	}
	report, ok := m.reports[id]
	if !ok {
		return nil, repository.ErrReportNotFound
	}
	cp := *report
	return &cp, nil
}

func (m *mockReportRepo) ListVisible(_ context.Context) ([]domain.Report, error) {
	if m.err != nil {
		return nil, m.err
	}
	var out []domain.Report
	for _, r := range m.reports {
		if r.Visible {
			out = append(out, *r)
		}
	}
	return out, nil
}

func (m *mockReportRepo) ListByReporter(_ context.Context, reporterID string) ([]domain.Report, error) {
	if m.err != nil {
		return nil, m.err
	}
	var out []domain.Report
	for _, r := range m.reports {
		if r.ReporterID == reporterID {
			out = append(out, *r)
		}
	}
	return out, nil
}

func (m *mockReportRepo) Hide(_ context.Context, id string) error {
	report, ok := m.reports[id]
	if !ok {
		return repository.ErrReportNotFound
	}
	report.Visible = false
	return nil
}

func validReport() *domain.Report {
	return &domain.Report{
		Kind:        domain.KindLost,
		Title:       "Lost tabby cat",
		Category:    "Cat",
		Location:    "Riverside Park",
		ContactInfo: "555-0100",
		ReporterID:  "u1",
	}
}

func TestSubmit_Success(t *testing.T) {
	repo := newMockReportRepo()
	sut := NewReportService(repo)

	report, err := sut.Submit(context.Background(), validReport())
	require.NoError(t, err)

	assert.NotEmpty(t, report.ID)
	assert.True(t, report.Visible)
	assert.Equal(t, domain.StatusOpen, report.Status)
	assert.False(t, report.Date.IsZero())
	assert.Contains(t, repo.reports, report.ID)
}

func TestSubmit_Validation(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*domain.Report)
	}{
		{"missing title", func(r *domain.Report) { r.Title = "" }},
		{"missing category", func(r *domain.Report) { r.Category = "" }},
		{"missing location", func(r *domain.Report) { r.Location = "" }},
		{"missing contact", func(r *domain.Report) { r.ContactInfo = "" }},
		{"bad kind", func(r *domain.Report) { r.Kind = "Stolen" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sut := NewReportService(newMockReportRepo())
			report := validReport()
			tt.mutate(report)

			_, err := sut.Submit(context.Background(), report)
			assert.ErrorIs(t, err, ErrInvalidReport)
		})
	}
}

func TestUpdate_OnlyOwner(t *testing.T) {
	repo := newMockReportRepo()
	sut := NewReportService(repo)

	created, err := sut.Submit(context.Background(), validReport())
	require.NoError(t, err)

	edited := *created
	edited.Title = "Lost tabby cat (updated)"

	_, err = sut.Update(context.Background(), "someone-else", &edited)
	assert.ErrorIs(t, err, ErrNotOwner)

	updated, err := sut.Update(context.Background(), "u1", &edited)
	require.NoError(t, err)
	assert.Equal(t, "Lost tabby cat (updated)", updated.Title)
}

func TestHide_SoftDeletes(t *testing.T) {
	repo := newMockReportRepo()
	sut := NewReportService(repo)

	created, err := sut.Submit(context.Background(), validReport())
	require.NoError(t, err)

	assert.ErrorIs(t, sut.Hide(context.Background(), "someone-else", created.ID), ErrNotOwner)
	require.NoError(t, sut.Hide(context.Background(), "u1", created.ID))

	// Hidden report disappears from search but stays in the owner view
	found, err := sut.Search(context.Background(), "", FacetAll, FacetAll)
	require.NoError(t, err)
	assert.Empty(t, found)

	mine, err := sut.Mine(context.Background(), "u1")
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.False(t, mine[0].Visible)
}

func TestSearch_AppliesFilters(t *testing.T) {
	repo := newMockReportRepo()
	sut := NewReportService(repo)
	ctx := context.Background()

	_, err := sut.Submit(ctx, validReport())
	require.NoError(t, err)

	other := validReport()
	other.Kind = domain.KindFound
	other.Title = "Found beagle"
	other.Category = "Dog"
	_, err = sut.Submit(ctx, other)
	require.NoError(t, err)

	found, err := sut.Search(ctx, "beagle", FacetAll, FacetAll)
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "Found beagle", found[0].Title)

	lost, err := sut.Search(ctx, "", string(domain.KindLost), FacetAll)
	require.NoError(t, err)
	require.Len(t, lost, 1)
	assert.Equal(t, "Lost tabby cat", lost[0].Title)
}
