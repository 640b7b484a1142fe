package models

import "time"

// PasswordResetToken is a single-use reset record. The embedded JWT carries
// the expiry; a new forgot-password request supersedes any prior record for
// the same user, and consumption deletes it.
type PasswordResetToken struct {
	ID        string    `db:"id" json:"id"`
	UserID    string    `db:"user_id" json:"userId"`
	UserType  UserRole  `db:"user_type" json:"userType"`
	Token     string    `db:"token" json:"-"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
}
