package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log"

	"github.com/kreditin/loan-origination/internal/config"
	"github.com/kreditin/loan-origination/internal/domain"
	"github.com/kreditin/loan-origination/internal/repository"
	pkgerrors "github.com/kreditin/loan-origination/pkg/errors"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

type ctxKey int

const txIDKey ctxKey = iota

// WithTransactionID attaches a caller-supplied correlation id to the context.
// Audit entries written while handling the request carry it.
func WithTransactionID(ctx context.Context, txID string) context.Context {
	return context.WithValue(ctx, txIDKey, txID)
}

func transactionIDFrom(ctx context.Context) string {
	if v, ok := ctx.Value(txIDKey).(string); ok {
		return v
	}
	return ""
}

type LoanService struct {
	ApplicantRepo   repository.ApplicantRepository
	ApplicationRepo repository.ApplicationRepository
	AuditRepo       repository.AuditRepository
	catalog         *domain.StatusCatalog
	redis           *redis.Client
	config          *config.Config
}

func NewLoanService(
	applicantRepo repository.ApplicantRepository,
	applicationRepo repository.ApplicationRepository,
	auditRepo repository.AuditRepository,
	catalog *domain.StatusCatalog,
	redis *redis.Client,
	config *config.Config,
) *LoanService {
	return &LoanService{
		ApplicantRepo:   applicantRepo,
		ApplicationRepo: applicationRepo,
		AuditRepo:       auditRepo,
		catalog:         catalog,
		redis:           redis,
		config:          config,
	}
}

// ListStatuses exposes the status reference data loaded at startup.
func (s *LoanService) ListStatuses() []domain.Status {
	return s.catalog.All()
}

// CreateApplicant onboards a new applicant with a caller-supplied identifier.
func (s *LoanService) CreateApplicant(ctx context.Context, request *domain.CreateApplicantRequest) (*domain.Applicant, error) {
	applicant := &domain.Applicant{
		ID:          request.ApplicantID,
		Name:        request.Name,
		Phone:       request.Phone,
		Email:       request.Email,
		Salary:      request.Salary,
		CreditScore: request.CreditScore,
		NationalID:  request.NationalID,
		Gender:      request.Gender,
		Address:     request.Address,
	}

	err := s.ApplicantRepo.Create(ctx, applicant)
	if err != nil {
		if errors.Is(err, pkgerrors.ErrApplicantAlreadyExists) {
			err = pkgerrors.WrapApplicantAlreadyExists(request.ApplicantID)
		} else {
			err = pkgerrors.WrapDatabaseError(err)
		}
		s.audit(ctx, domain.LogTypeCreateApplicant, request, errPayload(err))
		return nil, err
	}

	s.audit(ctx, domain.LogTypeCreateApplicant, request, applicant)
	return applicant, nil
}

// GetApplicant returns a single applicant record.
func (s *LoanService) GetApplicant(ctx context.Context, applicantID string) (*domain.Applicant, error) {
	auditReq := map[string]interface{}{"applicant_id": applicantID}

	applicant, err := s.ApplicantRepo.GetByID(ctx, applicantID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			err = pkgerrors.WrapApplicantNotFound(applicantID)
		} else {
			err = pkgerrors.WrapDatabaseError(err)
		}
		s.audit(ctx, domain.LogTypeGetApplicant, auditReq, errPayload(err))
		return nil, err
	}

	s.audit(ctx, domain.LogTypeGetApplicant, auditReq, applicant)
	return applicant, nil
}

// SubmitApplication persists a new loan application referencing an existing
// applicant. Salary, credit score, amount, term and monthly payment are taken
// as given; the only validation is the applicant referential constraint.
func (s *LoanService) SubmitApplication(ctx context.Context, request *domain.SubmitApplicationRequest) (*domain.LoanApplication, error) {
	statusID := request.StatusID
	if statusID == 0 {
		statusID = domain.StatusPending
	}

	application := &domain.LoanApplication{
		ApplicantID:    request.ApplicantID,
		Salary:         request.Salary,
		LoanAmount:     request.LoanAmount,
		TermMonths:     request.TermMonths,
		CreditScore:    request.CreditScore,
		StatusID:       statusID,
		MonthlyPayment: request.MonthlyPayment,
	}

	err := s.ApplicationRepo.Create(ctx, application)
	if err != nil {
		switch {
		case errors.Is(err, pkgerrors.ErrApplicantNotFound):
			err = pkgerrors.WrapApplicantNotFound(request.ApplicantID)
		case errors.Is(err, pkgerrors.ErrUnknownStatus):
			err = pkgerrors.WrapUnknownStatus(statusID)
		default:
			err = pkgerrors.WrapDatabaseError(err)
		}
		s.audit(ctx, domain.LogTypeSubmitApplication, request, errPayload(err))
		return nil, err
	}

	s.audit(ctx, domain.LogTypeSubmitApplication, request, application)
	return application, nil
}

// SetStatus overwrites the status of a single application. A missing target
// row is reported as a not-found error rather than completing silently. No
// transition-legality check is performed; the storage constraint is the only
// guard against codes outside the catalog.
func (s *LoanService) SetStatus(ctx context.Context, applicationID int64, statusID int) error {
	auditReq := map[string]interface{}{"application_id": applicationID, "status_id": statusID}

	err := s.ApplicationRepo.UpdateStatus(ctx, applicationID, statusID)
	if err != nil {
		switch {
		case errors.Is(err, pkgerrors.ErrApplicationNotFound):
			err = pkgerrors.WrapApplicationNotFound(applicationID)
		case errors.Is(err, pkgerrors.ErrUnknownStatus):
			err = pkgerrors.WrapUnknownStatus(statusID)
		default:
			err = pkgerrors.WrapDatabaseError(err)
		}
		s.audit(ctx, domain.LogTypeSetStatus, auditReq, errPayload(err))
		return err
	}

	s.invalidateDetail(ctx, applicationID)

	s.audit(ctx, domain.LogTypeSetStatus, auditReq, map[string]interface{}{"updated": true})
	return nil
}

// GetDetail returns an application joined with its applicant. Inner-join
// semantics: a missing application or a dangling applicant reference is
// reported as application-not-found.
func (s *LoanService) GetDetail(ctx context.Context, applicationID int64) (*domain.ApplicationDetail, error) {
	auditReq := map[string]interface{}{"application_id": applicationID}

	if detail, ok := s.cachedDetail(ctx, applicationID); ok {
		s.audit(ctx, domain.LogTypeGetDetail, auditReq, detail)
		return detail, nil
	}

	detail, err := s.ApplicationRepo.GetDetail(ctx, applicationID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			err = pkgerrors.WrapApplicationNotFound(applicationID)
		} else {
			err = pkgerrors.WrapDatabaseError(err)
		}
		s.audit(ctx, domain.LogTypeGetDetail, auditReq, errPayload(err))
		return nil, err
	}

	detail.StatusName = s.catalog.Name(detail.StatusID)
	s.cacheDetail(ctx, detail)

	s.audit(ctx, domain.LogTypeGetDetail, auditReq, detail)
	return detail, nil
}

// RecordAudit appends one audit entry with the payloads stored verbatim. A
// blank transaction id gets a generated one.
func (s *LoanService) RecordAudit(ctx context.Context, request *domain.RecordAuditRequest) (*domain.AuditEntry, error) {
	txID := request.TransactionID
	if txID == "" {
		txID = transactionIDFrom(ctx)
	}
	if txID == "" {
		txID = uuid.NewString()
	}

	entry := &domain.AuditEntry{
		TransactionID:   txID,
		RequestPayload:  request.RequestPayload,
		ResponsePayload: request.ResponsePayload,
		LogType:         request.LogType,
	}

	if err := s.AuditRepo.Create(ctx, entry); err != nil {
		return nil, pkgerrors.WrapDatabaseError(err)
	}

	return entry, nil
}

// audit writes the one entry each operation owes the trail. Failures are
// logged, not propagated: the trail must never fail the operation it records.
func (s *LoanService) audit(ctx context.Context, logType string, request, response interface{}) {
	txID := transactionIDFrom(ctx)
	if txID == "" {
		txID = uuid.NewString()
	}

	entry := &domain.AuditEntry{
		TransactionID:   txID,
		RequestPayload:  marshalPayload(request),
		ResponsePayload: marshalPayload(response),
		LogType:         logType,
	}

	if err := s.AuditRepo.Create(ctx, entry); err != nil {
		log.Printf("audit write failed (type=%s tx=%s): %v", logType, txID, err)
	}
}

func marshalPayload(v interface{}) string {
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprintf("%+v", v)
	}
	return string(b)
}

func errPayload(err error) map[string]string {
	return map[string]string{"error": err.Error()}
}

func detailCacheKey(applicationID int64) string {
	return fmt.Sprintf("application:detail:%d", applicationID)
}

func (s *LoanService) cachedDetail(ctx context.Context, applicationID int64) (*domain.ApplicationDetail, bool) {
	if s.redis == nil {
		return nil, false
	}

	raw, err := s.redis.Get(ctx, detailCacheKey(applicationID)).Result()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			log.Printf("detail cache read failed: %v", err)
		}
		return nil, false
	}

	var detail domain.ApplicationDetail
	if err := json.Unmarshal([]byte(raw), &detail); err != nil {
		return nil, false
	}

	return &detail, true
}

func (s *LoanService) cacheDetail(ctx context.Context, detail *domain.ApplicationDetail) {
	if s.redis == nil {
		return
	}

	raw, err := json.Marshal(detail)
	if err != nil {
		return
	}

	if err := s.redis.Set(ctx, detailCacheKey(detail.ApplicationID), raw, s.config.Cache.DetailTTL).Err(); err != nil {
		log.Printf("detail cache write failed: %v", err)
	}
}

func (s *LoanService) invalidateDetail(ctx context.Context, applicationID int64) {
	if s.redis == nil {
		return
	}

	if err := s.redis.Del(ctx, detailCacheKey(applicationID)).Err(); err != nil {
		log.Printf("detail cache invalidation failed: %v", err)
	}
}
