package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"uploadai/internal/apperr"
	"uploadai/internal/model"

	"github.com/google/uuid"
)

// SQLVideoRepository implements VideoRepository on database/sql
type SQLVideoRepository struct {
	db *DB
}

// NewSQLVideoRepository creates a video repository and ensures its table exists
func NewSQLVideoRepository(db *DB) (*SQLVideoRepository, error) {
	repo := &SQLVideoRepository{db: db}
	if err := repo.createTables(); err != nil {
		return nil, fmt.Errorf("failed to create videos table: %w", err)
	}
	return repo, nil
}

func (r *SQLVideoRepository) createTables() error {
	_, err := r.db.Exec(`
	CREATE TABLE IF NOT EXISTS videos (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		path TEXT NOT NULL,
		transcription TEXT,
		created_at TEXT NOT NULL
	)`)
	return err
}

// Create creates a new video record
func (r *SQLVideoRepository) Create(ctx context.Context, video *model.Video) error {
	if video.ID == uuid.Nil {
		video.ID = uuid.New()
	}
	if video.CreatedAt.IsZero() {
		video.CreatedAt = time.Now().UTC()
	}

	query := r.db.rebind(`INSERT INTO videos (id, name, path, transcription, created_at) VALUES (?, ?, ?, ?, ?)`)

	var transcription sql.NullString
	if video.Transcription != nil {
		transcription = sql.NullString{String: *video.Transcription, Valid: true}
	}

	_, err := r.db.ExecContext(ctx, query,
		video.ID.String(),
		video.Name,
		video.Path,
		transcription,
		TimeToString(video.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("failed to create video: %w", err)
	}

	return nil
}

// GetByID retrieves a video by ID
func (r *SQLVideoRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Video, error) {
	query := r.db.rebind(`SELECT id, name, path, transcription, created_at FROM videos WHERE id = ?`)

	var (
		video         model.Video
		idStr         string
		transcription sql.NullString
		createdAt     string
	)

	err := r.db.QueryRowContext(ctx, query, id.String()).Scan(&idStr, &video.Name, &video.Path, &transcription, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get video: %w", err)
	}

	if video.ID, err = uuid.Parse(idStr); err != nil {
		return nil, fmt.Errorf("failed to parse video id: %w", err)
	}
	if video.CreatedAt, err = StringToTime(createdAt); err != nil {
		return nil, fmt.Errorf("failed to parse created_at: %w", err)
	}
	if transcription.Valid {
		text := transcription.String
		video.Transcription = &text
	}

	return &video, nil
}

// UpdateTranscription updates the transcription of a video
func (r *SQLVideoRepository) UpdateTranscription(ctx context.Context, id uuid.UUID, transcription string) error {
	query := r.db.rebind(`UPDATE videos SET transcription = ? WHERE id = ?`)

	res, err := r.db.ExecContext(ctx, query, transcription, id.String())
	if err != nil {
		return fmt.Errorf("failed to update transcription: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if affected == 0 {
		return apperr.NewNotFoundError("video", id.String())
	}

	return nil
}
