package postgres

import (
	"context"
	"database/sql"

	"siteship/internal/domain"

	"github.com/google/uuid"
)

// UserRepo implements repository.UserRepository
type UserRepo struct {
	db *sql.DB
}

// NewUserRepo creates a new user repository
func NewUserRepo(db *sql.DB) *UserRepo {
	return &UserRepo{db: db}
}

// GetByPhone looks a user up by (platform, phone_number)
func (r *UserRepo) GetByPhone(ctx context.Context, platform, phoneNumber string) (*domain.User, error) {
	var u domain.User
	var displayName sql.NullString
	var rawState string
	query := `
		SELECT id, phone_number, platform, display_name, state, created_at
		FROM users
		WHERE platform = $1 AND phone_number = $2
	`
	err := r.db.QueryRowContext(ctx, query, platform, phoneNumber).Scan(
		&u.ID, &u.PhoneNumber, &u.Platform, &displayName, &rawState, &u.CreatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	if displayName.Valid {
		u.DisplayName = displayName.String
	}
	u.State = domain.ParseState(rawState)

	return &u, nil
}

// Create inserts a new user in the initial conversation state
func (r *UserRepo) Create(ctx context.Context, phoneNumber, platform, displayName string) (*domain.User, error) {
	u := domain.User{
		ID:          uuid.NewString(),
		PhoneNumber: phoneNumber,
		Platform:    platform,
		DisplayName: displayName,
		State:       domain.State{Kind: domain.StateWaitingForProjectName},
	}

	query := `
		INSERT INTO users (id, phone_number, platform, display_name, state)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at
	`
	err := r.db.QueryRowContext(ctx, query,
		u.ID, u.PhoneNumber, u.Platform, nullable(displayName), u.State.String(),
	).Scan(&u.CreatedAt)
	if err != nil {
		return nil, err
	}

	return &u, nil
}

// UpdateState persists the user's conversation state
func (r *UserRepo) UpdateState(ctx context.Context, userID string, state domain.State) error {
	query := `UPDATE users SET state = $1 WHERE id = $2`
	_, err := r.db.ExecContext(ctx, query, state.String(), userID)
	return err
}

func nullable(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
