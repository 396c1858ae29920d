// Package postgres implements the activation repository using PostgreSQL
package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/khaledhosny129/Educational-platform/internal/edplatd/activation"
	"github.com/khaledhosny129/Educational-platform/internal/edplatd/database"
	werrors "github.com/khaledhosny129/Educational-platform/internal/edplatd/errors"
)

const (
	pairConstraint = "activations_video_user_key"
	codeConstraint = "activations_code_key"
)

const activationColumns = `id, video_id, user_id, code_id, activated_at, expires_at`

// Repository implements activation.Repository using PostgreSQL
type Repository struct {
	db     *sql.DB
	logger zerolog.Logger
}

// NewRepository creates a new PostgreSQL activation repository
func NewRepository(db *sql.DB, logger zerolog.Logger) activation.Repository {
	return &Repository{
		db:     db,
		logger: logger.With().Str("component", "activation-repository").Logger(),
	}
}

// Redeem runs the whole redemption in one READ COMMITTED transaction. The
// code row is locked so concurrent redemptions of the same code serialize,
// and the unique (video_id, user_id) index arbitrates concurrent
// redemptions for the same pair.
func (r *Repository) Redeem(ctx context.Context, a *activation.Activation, now time.Time) error {
	const op = "ActivationRepository.Redeem"

	err := database.RunInTx(ctx, r.db, database.ReadCommitted, func(tx *database.Tx) error {
		var (
			used      bool
			expiresAt sql.NullTime
		)
		err := tx.QueryRowContext(ctx, `
			SELECT used, expires_at
			FROM access_codes
			WHERE id = $1
			FOR UPDATE
		`, a.CodeID).Scan(&used, &expiresAt)
		if errors.Is(err, sql.ErrNoRows) {
			return activation.ErrInvalidCode
		}
		if err != nil {
			return err
		}
		if used || (expiresAt.Valid && now.After(expiresAt.Time)) {
			return activation.ErrInvalidCode
		}

		if _, err := tx.ExecContext(ctx, `
			DELETE FROM activations
			WHERE video_id = $1 AND user_id = $2 AND expires_at < $3
		`, a.VideoID, a.UserID, now); err != nil {
			return err
		}

		_, err = tx.ExecContext(ctx, `
			INSERT INTO activations (`+activationColumns+`)
			VALUES ($1, $2, $3, $4, $5, $6)
		`,
			a.ID,
			a.VideoID,
			a.UserID,
			a.CodeID,
			a.ActivatedAt,
			a.ExpiresAt,
		)
		switch {
		case database.IsUniqueViolation(err, pairConstraint):
			return activation.ErrAlreadyActive
		case database.IsUniqueViolation(err, codeConstraint):
			return activation.ErrInvalidCode
		case err != nil:
			return err
		}

		result, err := tx.ExecContext(ctx, `
			UPDATE access_codes SET used = TRUE
			WHERE id = $1 AND used = FALSE
		`, a.CodeID)
		if err != nil {
			return err
		}
		rows, err := result.RowsAffected()
		if err != nil {
			return err
		}
		if rows == 0 {
			return activation.ErrInvalidCode
		}
		return nil
	})

	switch {
	case err == nil:
		return nil
	case errors.Is(err, activation.ErrAlreadyActive), errors.Is(err, activation.ErrInvalidCode):
		return err
	default:
		r.logger.Error().Err(err).
			Str("videoID", a.VideoID.String()).
			Str("userID", a.UserID).
			Msg("failed to redeem access code")
		return database.MapError(err, op)
	}
}

func (r *Repository) FindByVideoAndUser(ctx context.Context, videoID uuid.UUID, userID string) (*activation.Activation, error) {
	const op = "ActivationRepository.FindByVideoAndUser"

	row := r.db.QueryRowContext(ctx, `
		SELECT `+activationColumns+`
		FROM activations
		WHERE video_id = $1 AND user_id = $2
	`, videoID, userID)
	return scanOne(row, op)
}

func (r *Repository) FindByCode(ctx context.Context, codeID uuid.UUID) (*activation.Activation, error) {
	const op = "ActivationRepository.FindByCode"

	row := r.db.QueryRowContext(ctx, `
		SELECT `+activationColumns+`
		FROM activations
		WHERE code_id = $1
	`, codeID)
	return scanOne(row, op)
}

func (r *Repository) ListByUser(ctx context.Context, userID string) ([]*activation.Activation, error) {
	const op = "ActivationRepository.ListByUser"

	rows, err := r.db.QueryContext(ctx, `
		SELECT `+activationColumns+`
		FROM activations
		WHERE user_id = $1
		ORDER BY activated_at
	`, userID)
	if err != nil {
		return nil, database.MapError(err, op)
	}
	return scanAll(rows, op)
}

func (r *Repository) List(ctx context.Context) ([]*activation.Activation, error) {
	const op = "ActivationRepository.List"

	rows, err := r.db.QueryContext(ctx, `
		SELECT `+activationColumns+`
		FROM activations
		ORDER BY activated_at
	`)
	if err != nil {
		return nil, database.MapError(err, op)
	}
	return scanAll(rows, op)
}

func (r *Repository) DeleteByVideoAndUser(ctx context.Context, videoID uuid.UUID, userID string) (*activation.Activation, error) {
	const op = "ActivationRepository.DeleteByVideoAndUser"

	row := r.db.QueryRowContext(ctx, `
		DELETE FROM activations
		WHERE video_id = $1 AND user_id = $2
		RETURNING `+activationColumns,
		videoID, userID)
	return scanOne(row, op)
}

func (r *Repository) DeleteExpired(ctx context.Context, now time.Time) ([]*activation.Activation, error) {
	const op = "ActivationRepository.DeleteExpired"

	rows, err := r.db.QueryContext(ctx, `
		DELETE FROM activations
		WHERE expires_at < $1
		RETURNING `+activationColumns,
		now)
	if err != nil {
		return nil, database.MapError(err, op)
	}
	return scanAll(rows, op)
}

func scanOne(row *sql.Row, op string) (*activation.Activation, error) {
	a, err := scanActivation(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, activation.ErrActivationNotFound
	}
	if err != nil {
		return nil, werrors.NewError("DB_ERROR", "failed to load activation", op, err)
	}
	return a, nil
}

func scanAll(rows *sql.Rows, op string) ([]*activation.Activation, error) {
	defer rows.Close()

	var list []*activation.Activation
	for rows.Next() {
		a, err := scanActivation(rows)
		if err != nil {
			return nil, werrors.NewError("DB_ERROR", "failed to scan activation", op, err)
		}
		list = append(list, a)
	}
	if err := rows.Err(); err != nil {
		return nil, database.MapError(err, op)
	}
	return list, nil
}

func scanActivation(s interface{ Scan(dest ...any) error }) (*activation.Activation, error) {
	var a activation.Activation
	if err := s.Scan(&a.ID, &a.VideoID, &a.UserID, &a.CodeID, &a.ActivatedAt, &a.ExpiresAt); err != nil {
		return nil, err
	}
	return &a, nil
}
