package repository

import (
	"context"

	"github.com/kreditin/loan-origination/internal/domain"

	"github.com/jmoiron/sqlx"
)

type statusRepository struct {
	db *sqlx.DB
}

func NewStatusRepository(db *sqlx.DB) StatusRepository {
	return &statusRepository{db: db}
}

func (r *statusRepository) List(ctx context.Context) ([]domain.Status, error) {
	query := `
		SELECT status_id, status_name
		FROM application_statuses
		ORDER BY status_id
	`

	var statuses []domain.Status
	err := r.db.SelectContext(ctx, &statuses, query)
	if err != nil {
		return nil, err
	}

	return statuses, nil
}
