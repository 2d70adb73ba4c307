package postgres

import (
	"context"
	"database/sql"

	"siteship/internal/domain"

	"github.com/google/uuid"
)

// ProjectRepo implements repository.ProjectRepository
type ProjectRepo struct {
	db *sql.DB
}

// NewProjectRepo creates a new project repository
func NewProjectRepo(db *sql.DB) *ProjectRepo {
	return &ProjectRepo{db: db}
}

// Create inserts a new project for the user
func (r *ProjectRepo) Create(ctx context.Context, userID, name string) (*domain.Project, error) {
	p := domain.Project{
		ID:     uuid.NewString(),
		UserID: userID,
		Name:   name,
	}

	query := `
		INSERT INTO projects (id, user_id, name)
		VALUES ($1, $2, $3)
		RETURNING created_at
	`
	err := r.db.QueryRowContext(ctx, query, p.ID, p.UserID, p.Name).Scan(&p.CreatedAt)
	if err != nil {
		return nil, err
	}

	return &p, nil
}

// GetByID looks a project up by id
func (r *ProjectRepo) GetByID(ctx context.Context, projectID string) (*domain.Project, error) {
	var p domain.Project
	var summary sql.NullString
	query := `
		SELECT id, user_id, name, last_ai_summary, created_at
		FROM projects
		WHERE id = $1
	`
	err := r.db.QueryRowContext(ctx, query, projectID).Scan(
		&p.ID, &p.UserID, &p.Name, &summary, &p.CreatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	if summary.Valid {
		p.LastAISummary = summary.String
	}

	return &p, nil
}

// ListByUser returns the user's projects, most recently created first.
// Selection replies index into this ordering, so it must stay stable.
func (r *ProjectRepo) ListByUser(ctx context.Context, userID string) ([]domain.Project, error) {
	query := `
		SELECT id, user_id, name, last_ai_summary, created_at
		FROM projects
		WHERE user_id = $1
		ORDER BY created_at DESC
	`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var projects []domain.Project
	for rows.Next() {
		var p domain.Project
		var summary sql.NullString
		if err := rows.Scan(&p.ID, &p.UserID, &p.Name, &summary, &p.CreatedAt); err != nil {
			return nil, err
		}
		if summary.Valid {
			p.LastAISummary = summary.String
		}
		projects = append(projects, p)
	}

	return projects, rows.Err()
}

// UpdateSummary stores the latest generation summary as context for the next turn
func (r *ProjectRepo) UpdateSummary(ctx context.Context, projectID, summary string) error {
	query := `UPDATE projects SET last_ai_summary = $1 WHERE id = $2`
	_, err := r.db.ExecContext(ctx, query, summary, projectID)
	return err
}
