package postgres

import (
	"context"
	"database/sql"

	"siteship/internal/domain"

	"github.com/google/uuid"
)

// PromptRepo implements repository.PromptRepository
type PromptRepo struct {
	db *sql.DB
}

// NewPromptRepo creates a new prompt repository
func NewPromptRepo(db *sql.DB) *PromptRepo {
	return &PromptRepo{db: db}
}

// Save appends one prompt record. Rows are never updated afterwards.
func (r *PromptRepo) Save(ctx context.Context, prompt domain.Prompt) (*domain.Prompt, error) {
	prompt.ID = uuid.NewString()

	query := `
		INSERT INTO prompts (id, user_id, project_id, message_id, prompt_text, model_response)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at
	`
	err := r.db.QueryRowContext(ctx, query,
		prompt.ID, prompt.UserID, prompt.ProjectID, prompt.MessageID,
		prompt.PromptText, nullable(prompt.ModelResponse),
	).Scan(&prompt.CreatedAt)
	if err != nil {
		return nil, err
	}

	return &prompt, nil
}
