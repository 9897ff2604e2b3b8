package mocks

import (
	"context"
	"time"

	"github.com/kreditin/loan-origination/internal/domain"
	"github.com/stretchr/testify/mock"
)

type MockApplicantRepository struct {
	mock.Mock
}

func (m *MockApplicantRepository) Create(ctx context.Context, applicant *domain.Applicant) error {
	args := m.Called(ctx, applicant)
	return args.Error(0)
}

func (m *MockApplicantRepository) GetByID(ctx context.Context, applicantID string) (*domain.Applicant, error) {
	args := m.Called(ctx, applicantID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Applicant), args.Error(1)
}

type MockApplicationRepository struct {
	mock.Mock
}

func (m *MockApplicationRepository) Create(ctx context.Context, application *domain.LoanApplication) error {
	args := m.Called(ctx, application)
	return args.Error(0)
}

func (m *MockApplicationRepository) UpdateStatus(ctx context.Context, applicationID int64, statusID int) error {
	args := m.Called(ctx, applicationID, statusID)
	return args.Error(0)
}

func (m *MockApplicationRepository) GetDetail(ctx context.Context, applicationID int64) (*domain.ApplicationDetail, error) {
	args := m.Called(ctx, applicationID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ApplicationDetail), args.Error(1)
}

func (m *MockApplicationRepository) CountByStatusOlderThan(ctx context.Context, statusID int, before time.Time) (int64, error) {
	args := m.Called(ctx, statusID, before)
	return args.Get(0).(int64), args.Error(1)
}

type MockAuditRepository struct {
	mock.Mock
}

func (m *MockAuditRepository) Create(ctx context.Context, entry *domain.AuditEntry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *MockAuditRepository) Count(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

type MockStatusRepository struct {
	mock.Mock
}

func (m *MockStatusRepository) List(ctx context.Context) ([]domain.Status, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Status), args.Error(1)
}
