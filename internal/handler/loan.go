package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/kreditin/loan-origination/internal/config"
	"github.com/kreditin/loan-origination/internal/domain"
	"github.com/kreditin/loan-origination/internal/service"
	pkgerrors "github.com/kreditin/loan-origination/pkg/errors"
	"github.com/kreditin/loan-origination/pkg/response"
	"github.com/kreditin/loan-origination/pkg/utils"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"
)

// TransactionIDHeader carries the caller's audit correlation key.
const TransactionIDHeader = "X-Transaction-ID"

// LoanService is the surface of the service layer the handlers use.
type LoanService interface {
	CreateApplicant(ctx context.Context, request *domain.CreateApplicantRequest) (*domain.Applicant, error)
	GetApplicant(ctx context.Context, applicantID string) (*domain.Applicant, error)
	SubmitApplication(ctx context.Context, request *domain.SubmitApplicationRequest) (*domain.LoanApplication, error)
	SetStatus(ctx context.Context, applicationID int64, statusID int) error
	GetDetail(ctx context.Context, applicationID int64) (*domain.ApplicationDetail, error)
	RecordAudit(ctx context.Context, request *domain.RecordAuditRequest) (*domain.AuditEntry, error)
	ListStatuses() []domain.Status
}

type LoanHandler struct {
	service   LoanService
	config    *config.Config
	validator *validator.Validate
}

func NewLoanHandler(service LoanService, config *config.Config) *LoanHandler {
	return &LoanHandler{
		service:   service,
		config:    config,
		validator: validator.New(),
	}
}

// CreateApplicant handles POST /api/v1/applicants
func (h *LoanHandler) CreateApplicant(w http.ResponseWriter, r *http.Request) {
	var request domain.CreateApplicantRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		response.BadRequest(w, "Invalid request body", err)
		return
	}

	if err := h.validator.Struct(&request); err != nil {
		response.BadRequest(w, "Validation failed", err)
		return
	}

	applicant, err := h.service.CreateApplicant(h.requestContext(r), &request)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	response.Created(w, applicant)
}

// GetApplicant handles GET /api/v1/applicants/{applicantId}
func (h *LoanHandler) GetApplicant(w http.ResponseWriter, r *http.Request) {
	applicantID := mux.Vars(r)["applicantId"]

	applicant, err := h.service.GetApplicant(h.requestContext(r), applicantID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	response.Success(w, applicant)
}

// SubmitApplication handles POST /api/v1/applications
func (h *LoanHandler) SubmitApplication(w http.ResponseWriter, r *http.Request) {
	var request domain.SubmitApplicationRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		response.BadRequest(w, "Invalid request body", err)
		return
	}

	if err := h.validator.Struct(&request); err != nil {
		response.BadRequest(w, "Validation failed", err)
		return
	}

	// The monthly payment is the caller's responsibility; derive one from the
	// configured default rate only when the request leaves it out.
	if request.MonthlyPayment.IsZero() && request.LoanAmount.IsPositive() {
		request.MonthlyPayment = utils.CalculateMonthlyPayment(
			request.LoanAmount,
			h.config.GetDefaultAnnualRate(),
			request.TermMonths,
		)
	}

	application, err := h.service.SubmitApplication(h.requestContext(r), &request)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	response.Created(w, domain.SubmitApplicationResponse{Application: application})
}

// SetStatus handles PUT /api/v1/applications/{applicationId}/status
func (h *LoanHandler) SetStatus(w http.ResponseWriter, r *http.Request) {
	applicationID, err := parseApplicationID(r)
	if err != nil {
		response.BadRequest(w, "Invalid application ID", err)
		return
	}

	var request domain.SetStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		response.BadRequest(w, "Invalid request body", err)
		return
	}

	if err := h.validator.Struct(&request); err != nil {
		response.BadRequest(w, "Validation failed", err)
		return
	}

	if err := h.service.SetStatus(h.requestContext(r), applicationID, request.StatusID); err != nil {
		writeServiceError(w, err)
		return
	}

	response.Success(w, map[string]interface{}{
		"application_id": applicationID,
		"status_id":      request.StatusID,
	})
}

// GetDetail handles GET /api/v1/applications/{applicationId}
func (h *LoanHandler) GetDetail(w http.ResponseWriter, r *http.Request) {
	applicationID, err := parseApplicationID(r)
	if err != nil {
		response.BadRequest(w, "Invalid application ID", err)
		return
	}

	detail, err := h.service.GetDetail(h.requestContext(r), applicationID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	response.Success(w, detail)
}

// RecordAudit handles POST /api/v1/audit
func (h *LoanHandler) RecordAudit(w http.ResponseWriter, r *http.Request) {
	var request domain.RecordAuditRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		response.BadRequest(w, "Invalid request body", err)
		return
	}

	if err := h.validator.Struct(&request); err != nil {
		response.BadRequest(w, "Validation failed", err)
		return
	}

	entry, err := h.service.RecordAudit(h.requestContext(r), &request)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	response.Created(w, entry)
}

// ListStatuses handles GET /api/v1/statuses
func (h *LoanHandler) ListStatuses(w http.ResponseWriter, r *http.Request) {
	response.Success(w, h.service.ListStatuses())
}

func (h *LoanHandler) requestContext(r *http.Request) context.Context {
	ctx := r.Context()
	if txID := r.Header.Get(TransactionIDHeader); txID != "" {
		ctx = service.WithTransactionID(ctx, txID)
	}
	return ctx
}

func parseApplicationID(r *http.Request) (int64, error) {
	return strconv.ParseInt(mux.Vars(r)["applicationId"], 10, 64)
}

func writeServiceError(w http.ResponseWriter, err error) {
	var bizErr *pkgerrors.BusinessError
	if !errors.As(err, &bizErr) {
		response.InternalServerError(w, "Unexpected error", err)
		return
	}

	switch bizErr.Code {
	case pkgerrors.ErrCodeApplicantNotFound, pkgerrors.ErrCodeApplicationNotFound:
		response.ErrorWithCode(w, http.StatusNotFound, bizErr.Code, bizErr.Message, nil)
	case pkgerrors.ErrCodeApplicantAlreadyExists:
		response.ErrorWithCode(w, http.StatusConflict, bizErr.Code, bizErr.Message, nil)
	case pkgerrors.ErrCodeUnknownStatus:
		response.ErrorWithCode(w, http.StatusUnprocessableEntity, bizErr.Code, bizErr.Message, nil)
	default:
		response.ErrorWithCode(w, http.StatusInternalServerError, bizErr.Code, bizErr.Message, bizErr.Err)
	}
}
