package repository

import (
	"context"
	"time"

	"github.com/kreditin/loan-origination/internal/domain"
)

// ApplicantRepository defines the interface for applicant data operations
type ApplicantRepository interface {
	// Create persists a new applicant
	Create(ctx context.Context, applicant *domain.Applicant) error

	// GetByID retrieves an applicant by its identifier
	GetByID(ctx context.Context, applicantID string) (*domain.Applicant, error)
}

// ApplicationRepository defines the interface for loan application data operations
type ApplicationRepository interface {
	// Create persists a new application; the store assigns id and created_at
	Create(ctx context.Context, application *domain.LoanApplication) error

	// UpdateStatus overwrites the status of a single application
	UpdateStatus(ctx context.Context, applicationID int64, statusID int) error

	// GetDetail retrieves an application joined with its applicant
	GetDetail(ctx context.Context, applicationID int64) (*domain.ApplicationDetail, error)

	// CountByStatusOlderThan counts applications in a status created before a cutoff
	CountByStatusOlderThan(ctx context.Context, statusID int, before time.Time) (int64, error)
}

// AuditRepository defines the interface for the append-only audit log
type AuditRepository interface {
	// Create appends one audit entry; the store assigns id and created_at
	Create(ctx context.Context, entry *domain.AuditEntry) error

	// Count returns the total number of audit entries
	Count(ctx context.Context) (int64, error)
}

// StatusRepository reads the status reference data
type StatusRepository interface {
	// List returns every row of the status catalog
	List(ctx context.Context) ([]domain.Status, error)
}
