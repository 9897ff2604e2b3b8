package handler_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/kreditin/loan-origination/internal/config"
	"github.com/kreditin/loan-origination/internal/domain"
	"github.com/kreditin/loan-origination/internal/handler"
	pkgerrors "github.com/kreditin/loan-origination/pkg/errors"
	"github.com/kreditin/loan-origination/pkg/utils"
	"github.com/kreditin/loan-origination/tests/mocks"
)

func testConfig() *config.Config {
	return &config.Config{
		Business: config.BusinessConfig{DefaultAnnualRate: "0.10"},
		Cache:    config.CacheConfig{DetailTTL: time.Minute},
	}
}

func newRouter(mockService *mocks.MockLoanService) *mux.Router {
	h := handler.NewLoanHandler(mockService, testConfig())

	router := mux.NewRouter()
	api := router.PathPrefix("/api/v1").Subrouter()
	api.HandleFunc("/applicants", h.CreateApplicant).Methods("POST")
	api.HandleFunc("/applicants/{applicantId}", h.GetApplicant).Methods("GET")
	api.HandleFunc("/applications", h.SubmitApplication).Methods("POST")
	api.HandleFunc("/applications/{applicationId}", h.GetDetail).Methods("GET")
	api.HandleFunc("/applications/{applicationId}/status", h.SetStatus).Methods("PUT")
	api.HandleFunc("/audit", h.RecordAudit).Methods("POST")
	api.HandleFunc("/statuses", h.ListStatuses).Methods("GET")
	return router
}

func doJSON(t *testing.T, router *mux.Router, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestLoanHandler_SubmitApplication(t *testing.T) {
	t.Run("created with supplied monthly payment", func(t *testing.T) {
		mockService := mocks.NewMockLoanService()
		mockService.On("SubmitApplication", mock.Anything, mock.MatchedBy(func(req *domain.SubmitApplicationRequest) bool {
			return req.ApplicantID == "A1003" && req.MonthlyPayment.Equal(decimal.NewFromFloat(1800.00))
		})).Return(&domain.LoanApplication{
			ID:             1000,
			ApplicantID:    "A1003",
			LoanAmount:     decimal.NewFromFloat(20000.00),
			TermMonths:     12,
			StatusID:       domain.StatusPending,
			MonthlyPayment: decimal.NewFromFloat(1800.00),
			CreatedAt:      time.Now(),
		}, nil).Once()

		router := newRouter(mockService)
		w := doJSON(t, router, http.MethodPost, "/api/v1/applications", domain.SubmitApplicationRequest{
			ApplicantID:    "A1003",
			Salary:         decimal.NewFromFloat(1000.00),
			LoanAmount:     decimal.NewFromFloat(20000.00),
			TermMonths:     12,
			CreditScore:    650,
			MonthlyPayment: decimal.NewFromFloat(1800.00),
		})

		assert.Equal(t, http.StatusCreated, w.Code)

		var envelope struct {
			Success bool                             `json:"success"`
			Data    domain.SubmitApplicationResponse `json:"data"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
		assert.True(t, envelope.Success)
		require.NotNil(t, envelope.Data.Application)
		assert.Equal(t, int64(1000), envelope.Data.Application.ID)
		assert.Equal(t, domain.StatusPending, envelope.Data.Application.StatusID)

		mockService.AssertExpectations(t)
	})

	t.Run("monthly payment derived when omitted", func(t *testing.T) {
		expected := utils.CalculateMonthlyPayment(decimal.NewFromFloat(20000.00), decimal.NewFromFloat(0.10), 12)

		mockService := mocks.NewMockLoanService()
		mockService.On("SubmitApplication", mock.Anything, mock.MatchedBy(func(req *domain.SubmitApplicationRequest) bool {
			return req.MonthlyPayment.Equal(expected)
		})).Return(&domain.LoanApplication{ID: 1001, MonthlyPayment: expected}, nil).Once()

		router := newRouter(mockService)
		w := doJSON(t, router, http.MethodPost, "/api/v1/applications", domain.SubmitApplicationRequest{
			ApplicantID: "A1003",
			LoanAmount:  decimal.NewFromFloat(20000.00),
			TermMonths:  12,
		})

		assert.Equal(t, http.StatusCreated, w.Code)
		mockService.AssertExpectations(t)
	})

	t.Run("unknown applicant maps to 404", func(t *testing.T) {
		mockService := mocks.NewMockLoanService()
		mockService.On("SubmitApplication", mock.Anything, mock.Anything).
			Return(nil, pkgerrors.WrapApplicantNotFound("GHOST")).Once()

		router := newRouter(mockService)
		w := doJSON(t, router, http.MethodPost, "/api/v1/applications", domain.SubmitApplicationRequest{
			ApplicantID: "GHOST",
			LoanAmount:  decimal.NewFromFloat(20000.00),
			TermMonths:  12,
		})

		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Contains(t, w.Body.String(), pkgerrors.ErrCodeApplicantNotFound)
	})

	t.Run("missing applicant id fails validation", func(t *testing.T) {
		mockService := mocks.NewMockLoanService()
		router := newRouter(mockService)

		w := doJSON(t, router, http.MethodPost, "/api/v1/applications", domain.SubmitApplicationRequest{
			LoanAmount: decimal.NewFromFloat(20000.00),
			TermMonths: 12,
		})

		assert.Equal(t, http.StatusBadRequest, w.Code)
		mockService.AssertNotCalled(t, "SubmitApplication")
	})

	t.Run("malformed body rejected", func(t *testing.T) {
		mockService := mocks.NewMockLoanService()
		router := newRouter(mockService)

		req := httptest.NewRequest(http.MethodPost, "/api/v1/applications", bytes.NewBufferString("{not json"))
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestLoanHandler_SetStatus(t *testing.T) {
	t.Run("status overwritten", func(t *testing.T) {
		mockService := mocks.NewMockLoanService()
		mockService.On("SetStatus", mock.Anything, int64(1000), domain.StatusValidated).Return(nil).Once()

		router := newRouter(mockService)
		w := doJSON(t, router, http.MethodPut, "/api/v1/applications/1000/status", domain.SetStatusRequest{
			StatusID: domain.StatusValidated,
		})

		assert.Equal(t, http.StatusOK, w.Code)
		mockService.AssertExpectations(t)
	})

	t.Run("missing application maps to 404", func(t *testing.T) {
		mockService := mocks.NewMockLoanService()
		mockService.On("SetStatus", mock.Anything, int64(999999), domain.StatusValidated).
			Return(pkgerrors.WrapApplicationNotFound(999999)).Once()

		router := newRouter(mockService)
		w := doJSON(t, router, http.MethodPut, "/api/v1/applications/999999/status", domain.SetStatusRequest{
			StatusID: domain.StatusValidated,
		})

		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Contains(t, w.Body.String(), pkgerrors.ErrCodeApplicationNotFound)
	})

	t.Run("status outside catalog maps to 422", func(t *testing.T) {
		mockService := mocks.NewMockLoanService()
		mockService.On("SetStatus", mock.Anything, int64(1000), 42).
			Return(pkgerrors.WrapUnknownStatus(42)).Once()

		router := newRouter(mockService)
		w := doJSON(t, router, http.MethodPut, "/api/v1/applications/1000/status", domain.SetStatusRequest{
			StatusID: 42,
		})

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
		assert.Contains(t, w.Body.String(), pkgerrors.ErrCodeUnknownStatus)
	})

	t.Run("non-numeric application id rejected", func(t *testing.T) {
		mockService := mocks.NewMockLoanService()
		router := newRouter(mockService)

		w := doJSON(t, router, http.MethodPut, "/api/v1/applications/abc/status", domain.SetStatusRequest{
			StatusID: domain.StatusValidated,
		})

		assert.Equal(t, http.StatusBadRequest, w.Code)
		mockService.AssertNotCalled(t, "SetStatus")
	})
}

func TestLoanHandler_GetDetail(t *testing.T) {
	t.Run("joined detail returned", func(t *testing.T) {
		mockService := mocks.NewMockLoanService()
		mockService.On("GetDetail", mock.Anything, int64(1000)).Return(&domain.ApplicationDetail{
			ApplicationID:        1000,
			ApplicantID:          "A1003",
			StatusID:             domain.StatusValidated,
			StatusName:           "Validated",
			Salary:               decimal.NewFromFloat(1000.00),
			ApplicantSalary:      decimal.NewFromFloat(1250.00),
			ApplicantCreditScore: 700,
			ApplicantName:        "Dewi",
		}, nil).Once()

		router := newRouter(mockService)
		w := doJSON(t, router, http.MethodGet, "/api/v1/applications/1000", nil)

		assert.Equal(t, http.StatusOK, w.Code)

		var envelope struct {
			Data domain.ApplicationDetail `json:"data"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
		assert.Equal(t, int64(1000), envelope.Data.ApplicationID)
		assert.Equal(t, "Validated", envelope.Data.StatusName)
		assert.Equal(t, "Dewi", envelope.Data.ApplicantName)
	})

	t.Run("missing application maps to 404", func(t *testing.T) {
		mockService := mocks.NewMockLoanService()
		mockService.On("GetDetail", mock.Anything, int64(424242)).
			Return(nil, pkgerrors.WrapApplicationNotFound(424242)).Once()

		router := newRouter(mockService)
		w := doJSON(t, router, http.MethodGet, "/api/v1/applications/424242", nil)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestLoanHandler_CreateApplicant(t *testing.T) {
	t.Run("applicant onboarded", func(t *testing.T) {
		mockService := mocks.NewMockLoanService()
		mockService.On("CreateApplicant", mock.Anything, mock.MatchedBy(func(req *domain.CreateApplicantRequest) bool {
			return req.ApplicantID == "A1003"
		})).Return(&domain.Applicant{ID: "A1003", Name: "Dewi", CreatedAt: time.Now()}, nil).Once()

		router := newRouter(mockService)
		w := doJSON(t, router, http.MethodPost, "/api/v1/applicants", domain.CreateApplicantRequest{
			ApplicantID: "A1003",
			Name:        "Dewi",
			Salary:      decimal.NewFromFloat(1000.00),
			CreditScore: 650,
			Gender:      "F",
		})

		assert.Equal(t, http.StatusCreated, w.Code)
		mockService.AssertExpectations(t)
	})

	t.Run("duplicate identifier maps to 409", func(t *testing.T) {
		mockService := mocks.NewMockLoanService()
		mockService.On("CreateApplicant", mock.Anything, mock.Anything).
			Return(nil, pkgerrors.WrapApplicantAlreadyExists("A1003")).Once()

		router := newRouter(mockService)
		w := doJSON(t, router, http.MethodPost, "/api/v1/applicants", domain.CreateApplicantRequest{
			ApplicantID: "A1003",
			Name:        "Dewi",
		})

		assert.Equal(t, http.StatusConflict, w.Code)
		assert.Contains(t, w.Body.String(), pkgerrors.ErrCodeApplicantAlreadyExists)
	})
}

func TestLoanHandler_ListStatuses(t *testing.T) {
	mockService := mocks.NewMockLoanService()
	mockService.On("ListStatuses").Return([]domain.Status{
		{ID: 1, Name: "Pending"},
		{ID: 2, Name: "Validated"},
		{ID: 5, Name: "Rejected"},
	}).Once()

	router := newRouter(mockService)
	w := doJSON(t, router, http.MethodGet, "/api/v1/statuses", nil)

	assert.Equal(t, http.StatusOK, w.Code)

	var envelope struct {
		Data []domain.Status `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	assert.Len(t, envelope.Data, 3)
	assert.Equal(t, "Rejected", envelope.Data[2].Name)
}

func TestLoanHandler_RecordAudit(t *testing.T) {
	mockService := mocks.NewMockLoanService()
	mockService.On("RecordAudit", mock.Anything, mock.MatchedBy(func(req *domain.RecordAuditRequest) bool {
		return req.LogType == "EXTERNAL_CALL" && req.RequestPayload == `{"k":"v"}`
	})).Return(&domain.AuditEntry{
		ID:             1,
		TransactionID:  "tx-7",
		RequestPayload: `{"k":"v"}`,
		LogType:        "EXTERNAL_CALL",
		CreatedAt:      time.Now(),
	}, nil).Once()

	router := newRouter(mockService)
	w := doJSON(t, router, http.MethodPost, "/api/v1/audit", domain.RecordAuditRequest{
		TransactionID:  "tx-7",
		RequestPayload: `{"k":"v"}`,
		LogType:        "EXTERNAL_CALL",
	})

	assert.Equal(t, http.StatusCreated, w.Code)
	mockService.AssertExpectations(t)
}
