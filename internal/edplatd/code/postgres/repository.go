// Package postgres implements the access code repository using PostgreSQL
package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/khaledhosny129/Educational-platform/internal/edplatd/code"
	"github.com/khaledhosny129/Educational-platform/internal/edplatd/database"
	werrors "github.com/khaledhosny129/Educational-platform/internal/edplatd/errors"
)

const selectCode = `
	SELECT id, code, used, expires_at, created_at
	FROM access_codes
`

// Repository implements code.Repository using PostgreSQL
type Repository struct {
	db     *sql.DB
	logger zerolog.Logger
}

// NewRepository creates a new PostgreSQL access code repository
func NewRepository(db *sql.DB, logger zerolog.Logger) code.Repository {
	return &Repository{
		db:     db,
		logger: logger.With().Str("component", "code-repository").Logger(),
	}
}

func (r *Repository) Create(ctx context.Context, c *code.AccessCode) error {
	const op = "AccessCodeRepository.Create"

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO access_codes (id, code, used, expires_at, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`, c.ID, c.Code, c.Used, c.ExpiresAt, c.CreatedAt)
	if database.IsUniqueViolation(err, "") {
		return code.ErrCodeExists
	}
	if err != nil {
		return database.MapError(err, op)
	}
	return nil
}

func (r *Repository) FindByToken(ctx context.Context, token string) (*code.AccessCode, error) {
	const op = "AccessCodeRepository.FindByToken"

	row := r.db.QueryRowContext(ctx, selectCode+`WHERE code = $1`, token)
	return r.scanOne(row, op)
}

func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*code.AccessCode, error) {
	const op = "AccessCodeRepository.FindByID"

	row := r.db.QueryRowContext(ctx, selectCode+`WHERE id = $1`, id)
	return r.scanOne(row, op)
}

func (r *Repository) List(ctx context.Context) ([]*code.AccessCode, error) {
	const op = "AccessCodeRepository.List"

	rows, err := r.db.QueryContext(ctx, selectCode+`ORDER BY created_at`)
	if err != nil {
		return nil, database.MapError(err, op)
	}
	defer rows.Close()

	var codes []*code.AccessCode
	for rows.Next() {
		c, err := Scan(rows)
		if err != nil {
			return nil, werrors.NewError("DB_ERROR", "failed to scan access code", op, err)
		}
		codes = append(codes, c)
	}
	if err := rows.Err(); err != nil {
		return nil, database.MapError(err, op)
	}
	return codes, nil
}

func (r *Repository) scanOne(row *sql.Row, op string) (*code.AccessCode, error) {
	c, err := Scan(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, code.ErrCodeNotFound
	}
	if err != nil {
		r.logger.Error().Err(err).Str("operation", op).Msg("failed to load access code")
		return nil, werrors.NewError("DB_ERROR", "failed to find access code", op, err)
	}
	return c, nil
}

// Scan reads an access code from the column order id, code, used,
// expires_at, created_at
func Scan(s interface{ Scan(dest ...any) error }) (*code.AccessCode, error) {
	var (
		c         code.AccessCode
		expiresAt sql.NullTime
	)
	if err := s.Scan(&c.ID, &c.Code, &c.Used, &expiresAt, &c.CreatedAt); err != nil {
		return nil, err
	}
	if expiresAt.Valid {
		t := expiresAt.Time
		c.ExpiresAt = &t
	}
	return &c, nil
}
