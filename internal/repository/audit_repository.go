package repository

import (
	"context"

	"github.com/kreditin/loan-origination/internal/domain"

	"github.com/jmoiron/sqlx"
)

type auditRepository struct {
	db *sqlx.DB
}

func NewAuditRepository(db *sqlx.DB) AuditRepository {
	return &auditRepository{db: db}
}

func (r *auditRepository) Create(ctx context.Context, entry *domain.AuditEntry) error {
	query := `
		INSERT INTO audit_logs (transaction_id, request_payload, response_payload, log_type)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at
	`

	return r.db.QueryRowxContext(ctx, query,
		entry.TransactionID,
		entry.RequestPayload,
		entry.ResponsePayload,
		entry.LogType,
	).Scan(&entry.ID, &entry.CreatedAt)
}

func (r *auditRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM audit_logs`)
	if err != nil {
		return 0, err
	}

	return count, nil
}
