package domain

import "time"

// Log types written by the service's own operations.
const (
	LogTypeCreateApplicant   = "CREATE_APPLICANT"
	LogTypeGetApplicant      = "GET_APPLICANT"
	LogTypeSubmitApplication = "SUBMIT_APPLICATION"
	LogTypeSetStatus         = "SET_STATUS"
	LogTypeGetDetail         = "GET_DETAIL"
)

// AuditEntry is one append-only request/response record. Payloads are stored
// verbatim; nothing parses or validates their contents.
type AuditEntry struct {
	ID              int64     `json:"id" db:"id"`
	TransactionID   string    `json:"transaction_id" db:"transaction_id"`
	RequestPayload  string    `json:"request_payload" db:"request_payload"`
	ResponsePayload string    `json:"response_payload" db:"response_payload"`
	LogType         string    `json:"log_type" db:"log_type"`
	CreatedAt       time.Time `json:"created_at" db:"created_at"`
}

// DTOs for requests and responses

type RecordAuditRequest struct {
	TransactionID   string `json:"transaction_id"`
	RequestPayload  string `json:"request_payload"`
	ResponsePayload string `json:"response_payload"`
	LogType         string `json:"log_type" validate:"required"`
}
