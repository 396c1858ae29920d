// Package postgres implements the catalog repository using PostgreSQL
package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/khaledhosny129/Educational-platform/internal/edplatd/catalog"
	"github.com/khaledhosny129/Educational-platform/internal/edplatd/database"
	werrors "github.com/khaledhosny129/Educational-platform/internal/edplatd/errors"
)

const naturalKeyConstraint = "videos_natural_key"

const selectVideo = `
	SELECT
		id, grade, level, kind, part, session,
		title, description, url, youtube_code,
		created_at, updated_at
	FROM videos
`

// Repository implements catalog.Repository using PostgreSQL
type Repository struct {
	db     *sql.DB
	logger zerolog.Logger
}

// NewRepository creates a new PostgreSQL catalog repository
func NewRepository(db *sql.DB, logger zerolog.Logger) catalog.Repository {
	return &Repository{
		db:     db,
		logger: logger.With().Str("component", "catalog-repository").Logger(),
	}
}

func (r *Repository) Create(ctx context.Context, v *catalog.Video) error {
	const op = "VideoRepository.Create"

	p := v.Key.Parts()
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO videos (
			id, grade, level, kind, part, session,
			title, description, url, youtube_code,
			created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`,
		v.ID,
		p.Grade,
		p.Level,
		string(p.Kind),
		p.Part,
		p.Session,
		v.Title,
		v.Description,
		v.URL,
		v.YouTubeCode,
		v.CreatedAt,
		v.UpdatedAt,
	)
	if database.IsUniqueViolation(err, naturalKeyConstraint) {
		return catalog.ErrVideoExists
	}
	if err != nil {
		return database.MapError(err, op)
	}
	return nil
}

func (r *Repository) FindByKey(ctx context.Context, key catalog.Key) (*catalog.Video, error) {
	const op = "VideoRepository.FindByKey"

	p := key.Parts()
	row := r.db.QueryRowContext(ctx, selectVideo+`
		WHERE grade = $1 AND level = $2 AND kind = $3 AND part = $4 AND session = $5
	`, p.Grade, p.Level, string(p.Kind), p.Part, p.Session)

	return r.scanOne(row, op)
}

func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Video, error) {
	const op = "VideoRepository.FindByID"

	row := r.db.QueryRowContext(ctx, selectVideo+`WHERE id = $1`, id)
	return r.scanOne(row, op)
}

func (r *Repository) Update(ctx context.Context, v *catalog.Video) error {
	const op = "VideoRepository.Update"

	p := v.Key.Parts()
	result, err := r.db.ExecContext(ctx, `
		UPDATE videos SET
			title = $1,
			description = $2,
			url = $3,
			youtube_code = $4,
			updated_at = $5
		WHERE grade = $6 AND level = $7 AND kind = $8 AND part = $9 AND session = $10
	`,
		v.Title,
		v.Description,
		v.URL,
		v.YouTubeCode,
		v.UpdatedAt,
		p.Grade,
		p.Level,
		string(p.Kind),
		p.Part,
		p.Session,
	)
	if err != nil {
		return database.MapError(err, op)
	}
	return requireRow(result, op)
}

func (r *Repository) DeleteByKey(ctx context.Context, key catalog.Key) error {
	const op = "VideoRepository.DeleteByKey"

	p := key.Parts()
	result, err := r.db.ExecContext(ctx, `
		DELETE FROM videos
		WHERE grade = $1 AND level = $2 AND kind = $3 AND part = $4 AND session = $5
	`, p.Grade, p.Level, string(p.Kind), p.Part, p.Session)
	if err != nil {
		return database.MapError(err, op)
	}
	return requireRow(result, op)
}

func (r *Repository) List(ctx context.Context) ([]*catalog.Video, error) {
	const op = "VideoRepository.List"

	rows, err := r.db.QueryContext(ctx, selectVideo+`
		ORDER BY grade, level, kind, part, session
	`)
	if err != nil {
		return nil, database.MapError(err, op)
	}
	defer rows.Close()

	var videos []*catalog.Video
	for rows.Next() {
		v, err := scanVideo(rows)
		if err != nil {
			return nil, werrors.NewError("DB_ERROR", "failed to scan video", op, err)
		}
		videos = append(videos, v)
	}
	if err := rows.Err(); err != nil {
		return nil, database.MapError(err, op)
	}
	return videos, nil
}

func (r *Repository) scanOne(row *sql.Row, op string) (*catalog.Video, error) {
	v, err := scanVideo(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, catalog.ErrVideoNotFound
	}
	if err != nil {
		r.logger.Error().Err(err).Str("operation", op).Msg("failed to load video")
		return nil, werrors.NewError("DB_ERROR", "failed to find video", op, err)
	}
	return v, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanVideo(s scanner) (*catalog.Video, error) {
	var (
		v    catalog.Video
		p    catalog.KeyParts
		kind string
	)
	err := s.Scan(
		&v.ID,
		&p.Grade,
		&p.Level,
		&kind,
		&p.Part,
		&p.Session,
		&v.Title,
		&v.Description,
		&v.URL,
		&v.YouTubeCode,
		&v.CreatedAt,
		&v.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	p.Kind = catalog.Kind(kind)
	if v.Key, err = catalog.FromParts(p); err != nil {
		return nil, err
	}
	return &v, nil
}

func requireRow(result sql.Result, op string) error {
	rows, err := result.RowsAffected()
	if err != nil {
		return werrors.NewError("DB_ERROR", "failed to get affected rows", op, err)
	}
	if rows == 0 {
		return catalog.ErrVideoNotFound
	}
	return nil
}
