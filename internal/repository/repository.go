package repository

import (
	"context"

	"siteship/internal/domain"
)

// UserRepository defines user data operations
type UserRepository interface {
	// GetByPhone returns nil, nil when no user exists for the address
	GetByPhone(ctx context.Context, platform, phoneNumber string) (*domain.User, error)
	Create(ctx context.Context, phoneNumber, platform, displayName string) (*domain.User, error)
	UpdateState(ctx context.Context, userID string, state domain.State) error
}

// ProjectRepository defines project data operations
type ProjectRepository interface {
	Create(ctx context.Context, userID, name string) (*domain.Project, error)
	// GetByID returns nil, nil when the project does not exist
	GetByID(ctx context.Context, projectID string) (*domain.Project, error)
	// ListByUser returns the user's projects, most recently created first
	ListByUser(ctx context.Context, userID string) ([]domain.Project, error)
	UpdateSummary(ctx context.Context, projectID, summary string) error
}

// PromptRepository defines the append-only prompt log
type PromptRepository interface {
	Save(ctx context.Context, prompt domain.Prompt) (*domain.Prompt, error)
}
