package mocks

import (
	"context"

	"github.com/kreditin/loan-origination/internal/domain"
	"github.com/stretchr/testify/mock"
)

type MockLoanService struct {
	mock.Mock
}

func (m *MockLoanService) CreateApplicant(ctx context.Context, request *domain.CreateApplicantRequest) (*domain.Applicant, error) {
	args := m.Called(ctx, request)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Applicant), args.Error(1)
}

func (m *MockLoanService) GetApplicant(ctx context.Context, applicantID string) (*domain.Applicant, error) {
	args := m.Called(ctx, applicantID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Applicant), args.Error(1)
}

func (m *MockLoanService) SubmitApplication(ctx context.Context, request *domain.SubmitApplicationRequest) (*domain.LoanApplication, error) {
	args := m.Called(ctx, request)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.LoanApplication), args.Error(1)
}

func (m *MockLoanService) SetStatus(ctx context.Context, applicationID int64, statusID int) error {
	args := m.Called(ctx, applicationID, statusID)
	return args.Error(0)
}

func (m *MockLoanService) GetDetail(ctx context.Context, applicationID int64) (*domain.ApplicationDetail, error) {
	args := m.Called(ctx, applicationID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ApplicationDetail), args.Error(1)
}

func (m *MockLoanService) RecordAudit(ctx context.Context, request *domain.RecordAuditRequest) (*domain.AuditEntry, error) {
	args := m.Called(ctx, request)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.AuditEntry), args.Error(1)
}

func (m *MockLoanService) ListStatuses() []domain.Status {
	args := m.Called()
	if args.Get(0) == nil {
		return nil
	}
	return args.Get(0).([]domain.Status)
}

// NewMockLoanService creates a new mock loan service instance
func NewMockLoanService() *MockLoanService {
	return &MockLoanService{}
}
