package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/unicampus/college-api/internal/models"
)

// ResetTokenRepository manages persistence for password-reset records.
type ResetTokenRepository struct {
	db *sqlx.DB
}

// NewResetTokenRepository constructs a ResetTokenRepository.
func NewResetTokenRepository(db *sqlx.DB) *ResetTokenRepository {
	return &ResetTokenRepository{db: db}
}

// Create inserts a new reset record.
func (r *ResetTokenRepository) Create(ctx context.Context, token *models.PasswordResetToken) error {
	if token.ID == "" {
		token.ID = uuid.NewString()
	}
	if token.CreatedAt.IsZero() {
		token.CreatedAt = time.Now().UTC()
	}
	const query = `INSERT INTO password_reset_tokens (id, user_id, user_type, token, created_at)
        VALUES (:id, :user_id, :user_type, :token, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, token); err != nil {
		return fmt.Errorf("create reset token: %w", err)
	}
	return nil
}

// FindByID fetches a reset record by ID.
func (r *ResetTokenRepository) FindByID(ctx context.Context, id string) (*models.PasswordResetToken, error) {
	var token models.PasswordResetToken
	err := r.db.GetContext(ctx, &token,
		"SELECT id, user_id, user_type, token, created_at FROM password_reset_tokens WHERE id = $1", id)
	if err != nil {
		return nil, err
	}
	return &token, nil
}

// DeleteForUser removes every reset record for the user+type pair. Called
// both when superseding a request and when a reset completes.
func (r *ResetTokenRepository) DeleteForUser(ctx context.Context, userID string, userType models.UserRole) error {
	const query = `DELETE FROM password_reset_tokens WHERE user_id = $1 AND user_type = $2`
	if _, err := r.db.ExecContext(ctx, query, userID, string(userType)); err != nil {
		return fmt.Errorf("delete reset tokens: %w", err)
	}
	return nil
}
