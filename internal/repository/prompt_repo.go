package repository

import (
	"context"
	"fmt"
	"time"

	"uploadai/internal/model"

	"github.com/google/uuid"
)

// SQLPromptRepository implements PromptRepository on database/sql
type SQLPromptRepository struct {
	db *DB
}

// NewSQLPromptRepository creates a prompt repository and ensures its table exists
func NewSQLPromptRepository(db *DB) (*SQLPromptRepository, error) {
	repo := &SQLPromptRepository{db: db}
	if err := repo.createTables(); err != nil {
		return nil, fmt.Errorf("failed to create prompts table: %w", err)
	}
	return repo, nil
}

func (r *SQLPromptRepository) createTables() error {
	_, err := r.db.Exec(`
	CREATE TABLE IF NOT EXISTS prompts (
		id TEXT PRIMARY KEY,
		title TEXT NOT NULL,
		template TEXT NOT NULL,
		created_at TEXT NOT NULL
	)`)
	return err
}

// List retrieves all prompts, oldest first
func (r *SQLPromptRepository) List(ctx context.Context) ([]model.Prompt, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, title, template, created_at FROM prompts ORDER BY created_at ASC, id ASC`)
	if err != nil {
		return nil, fmt.Errorf("failed to query prompts: %w", err)
	}
	defer rows.Close()

	prompts := make([]model.Prompt, 0)
	for rows.Next() {
		var (
			prompt    model.Prompt
			idStr     string
			createdAt string
		)
		if err := rows.Scan(&idStr, &prompt.Title, &prompt.Template, &createdAt); err != nil {
			return nil, fmt.Errorf("failed to scan prompt: %w", err)
		}
		if prompt.ID, err = uuid.Parse(idStr); err != nil {
			return nil, fmt.Errorf("failed to parse prompt id: %w", err)
		}
		if prompt.CreatedAt, err = StringToTime(createdAt); err != nil {
			return nil, fmt.Errorf("failed to parse created_at: %w", err)
		}
		prompts = append(prompts, prompt)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return prompts, nil
}

// Upsert inserts a prompt or updates an existing one with the same ID
func (r *SQLPromptRepository) Upsert(ctx context.Context, prompt *model.Prompt) error {
	if prompt.ID == uuid.Nil {
		prompt.ID = uuid.New()
	}
	if prompt.CreatedAt.IsZero() {
		prompt.CreatedAt = time.Now().UTC()
	}

	query := r.db.rebind(`
	INSERT INTO prompts (id, title, template, created_at) VALUES (?, ?, ?, ?)
	ON CONFLICT (id) DO UPDATE SET title = excluded.title, template = excluded.template`)

	_, err := r.db.ExecContext(ctx, query,
		prompt.ID.String(),
		prompt.Title,
		prompt.Template,
		TimeToString(prompt.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("failed to upsert prompt: %w", err)
	}

	return nil
}
