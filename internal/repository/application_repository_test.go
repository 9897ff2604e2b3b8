package repository

import (
	"errors"
	"testing"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"

	pkgerrors "github.com/kreditin/loan-origination/pkg/errors"
)

func TestTranslateConstraint(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected error
	}{
		{
			name:     "nil passes through",
			err:      nil,
			expected: nil,
		},
		{
			name:     "applicant foreign key violation",
			err:      &pq.Error{Code: pqForeignKeyViolation, Constraint: fkApplicant},
			expected: pkgerrors.ErrApplicantNotFound,
		},
		{
			name:     "status foreign key violation",
			err:      &pq.Error{Code: pqForeignKeyViolation, Constraint: fkStatus},
			expected: pkgerrors.ErrUnknownStatus,
		},
		{
			name:     "unrelated foreign key passes through",
			err:      &pq.Error{Code: pqForeignKeyViolation, Constraint: "something_else_fkey"},
			expected: nil, // original error returned unchanged
		},
		{
			name:     "non-constraint error passes through",
			err:      errors.New("connection reset"),
			expected: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := translateConstraint(tt.err)
			if tt.expected != nil {
				assert.ErrorIs(t, got, tt.expected)
			} else {
				assert.Equal(t, tt.err, got)
			}
		})
	}
}
