package repository

import (
	"context"

	"github.com/petpoint/pet_point/internal/reports/domain"
)

// ReportRepository defines the interface for lost-and-found report storage
// Consumers define this interface, not the MongoDB implementation
type ReportRepository interface {
	Create(ctx context.Context, report *domain.Report) error
	Update(ctx context.Context, report *domain.Report) error
	GetByID(ctx context.Context, id string) (*domain.Report, error)
	// ListVisible returns reports with visible=true, newest first
	ListVisible(ctx context.Context) ([]domain.Report, error)
	// ListByReporter is the owner management view; it includes hidden reports
	ListByReporter(ctx context.Context, reporterID string) ([]domain.Report, error)
	// Hide soft-deletes a report by setting visible=false
	Hide(ctx context.Context, id string) error
}
