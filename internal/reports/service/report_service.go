package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/petpoint/pet_point/internal/reports/domain"
	"github.com/petpoint/pet_point/internal/reports/repository"
)

var (
	ErrInvalidReport = errors.New("invalid report")
	ErrNotOwner      = errors.New("report belongs to another user")
)

type ReportService struct {
	repo repository.ReportRepository
}

func NewReportService(repo repository.ReportRepository) *ReportService {
	return &ReportService{repo: repo}
}

// Submit validates and stores a new report. New reports are visible and open.
func (s *ReportService) Submit(ctx context.Context, report *domain.Report) (*domain.Report, error) {
	if err := validate(report); err != nil {
		return nil, err
	}

	report.ID = uuid.New().String()
	report.Status = domain.StatusOpen
	report.Visible = true
	if report.Date.IsZero() {
		report.Date = time.Now()
	}

	if err := s.repo.Create(ctx, report); err != nil {
		return nil, err
	}
	return report, nil
}

// Update replaces an existing report's content; only the reporter may edit.
func (s *ReportService) Update(ctx context.Context, reporterID string, report *domain.Report) (*domain.Report, error) {
	if err := validate(report); err != nil {
		return nil, err
	}

	existing, err := s.repo.GetByID(ctx, report.ID)
	if err != nil {
		return nil, err
	}
	if existing.ReporterID != reporterID {
		return nil, ErrNotOwner
	}

	report.ReporterID = existing.ReporterID
	report.Visible = existing.Visible
	report.CreatedAt = existing.CreatedAt
	if report.Status == "" {
		report.Status = existing.Status
	}

	if err := s.repo.Update(ctx, report); err != nil {
		return nil, err
	}
	return report, nil
}

// Hide soft-deletes a report; only the reporter may hide it.
func (s *ReportService) Hide(ctx context.Context, reporterID, reportID string) error {
	existing, err := s.repo.GetByID(ctx, reportID)
	if err != nil {
		return err
	}
	if existing.ReporterID != reporterID {
		return ErrNotOwner
	}
	return s.repo.Hide(ctx, reportID)
}

// Search fetches the visible report list and filters it in memory.
func (s *ReportService) Search(ctx context.Context, query, kindFacet, statusFacet string) ([]domain.Report, error) {
	reports, err := s.repo.ListVisible(ctx)
	if err != nil {
		return nil, err
	}
	return ApplyFilters(reports, query, kindFacet, statusFacet), nil
}

// Mine is the owner management view; hidden reports are included.
func (s *ReportService) Mine(ctx context.Context, reporterID string) ([]domain.Report, error) {
	return s.repo.ListByReporter(ctx, reporterID)
}

func validate(report *domain.Report) error {
	if !report.Kind.Valid() {
		return fmt.Errorf("%w: kind must be Lost or Found", ErrInvalidReport)
	}
	if report.Title == "" {
		return fmt.Errorf("%w: title is required", ErrInvalidReport)
	}
	if report.Category == "" {
		return fmt.Errorf("%w: category is required", ErrInvalidReport)
	}
	if report.Location == "" {
		return fmt.Errorf("%w: location is required", ErrInvalidReport)
	}
	if report.ContactInfo == "" {
		return fmt.Errorf("%w: contact info is required", ErrInvalidReport)
	}
	return nil
}
