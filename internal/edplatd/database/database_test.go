package database

import (
	"database/sql"
	"errors"
	"testing"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"

	werrors "github.com/khaledhosny129/Educational-platform/internal/edplatd/errors"
)

func TestMapError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		sentinel error
		code     string
	}{
		{
			name:     "unique violation",
			err:      &pq.Error{Code: "23505"},
			sentinel: werrors.ErrConflict,
			code:     "CONFLICT",
		},
		{
			name:     "foreign key violation",
			err:      &pq.Error{Code: "23503"},
			sentinel: werrors.ErrNotFound,
			code:     "NOT_FOUND",
		},
		{
			name:     "check violation",
			err:      &pq.Error{Code: "23514", Message: "bad row"},
			sentinel: werrors.ErrInvalidInput,
			code:     "INVALID_INPUT",
		},
		{
			name:     "no rows",
			err:      sql.ErrNoRows,
			sentinel: werrors.ErrNotFound,
			code:     "NOT_FOUND",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := MapError(tt.err, "Test.Op")
			assert.ErrorIs(t, err, tt.sentinel)
			assert.Equal(t, tt.code, werrors.CodeOf(err))
		})
	}

	t.Run("unclassified", func(t *testing.T) {
		cause := errors.New("connection reset")
		err := MapError(cause, "Test.Op")
		assert.ErrorIs(t, err, cause)
		assert.Equal(t, "DB_ERROR", werrors.CodeOf(err))
	})

	t.Run("nil", func(t *testing.T) {
		assert.NoError(t, MapError(nil, "Test.Op"))
	})
}

func TestIsUniqueViolation(t *testing.T) {
	err := &pq.Error{Code: "23505", Constraint: "activations_video_user_key"}

	assert.True(t, IsUniqueViolation(err, ""))
	assert.True(t, IsUniqueViolation(err, "activations_video_user_key"))
	assert.False(t, IsUniqueViolation(err, "access_codes_code_key"))
	assert.False(t, IsUniqueViolation(&pq.Error{Code: "23503"}, ""))
	assert.False(t, IsUniqueViolation(errors.New("boom"), ""))
}
