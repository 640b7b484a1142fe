package repository

import (
	"context"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/unicampus/college-api/internal/models"
)

func newResetTokenMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func TestResetTokenRepositoryCreateAssignsID(t *testing.T) {
	db, mock, cleanup := newResetTokenMock(t)
	defer cleanup()
	repo := NewResetTokenRepository(db)

	mock.ExpectExec("INSERT INTO password_reset_tokens").WillReturnResult(sqlmock.NewResult(0, 1))

	token := &models.PasswordResetToken{UserID: "stu-1", UserType: models.RoleStudent, Token: "signed-jwt"}
	err := repo.Create(context.Background(), token)
	require.NoError(t, err)
	assert.NotEmpty(t, token.ID)
	assert.False(t, token.CreatedAt.IsZero())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestResetTokenRepositoryFindByID(t *testing.T) {
	db, mock, cleanup := newResetTokenMock(t)
	defer cleanup()
	repo := NewResetTokenRepository(db)

	mock.ExpectQuery(`SELECT id, user_id, user_type, token, created_at FROM password_reset_tokens WHERE id = \$1`).
		WithArgs("reset-1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "user_type", "token", "created_at"}).
			AddRow("reset-1", "stu-1", "student", "signed-jwt", time.Now()))

	token, err := repo.FindByID(context.Background(), "reset-1")
	require.NoError(t, err)
	assert.Equal(t, "stu-1", token.UserID)
	assert.Equal(t, models.RoleStudent, token.UserType)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestResetTokenRepositoryDeleteForUser(t *testing.T) {
	db, mock, cleanup := newResetTokenMock(t)
	defer cleanup()
	repo := NewResetTokenRepository(db)

	mock.ExpectExec(`DELETE FROM password_reset_tokens WHERE user_id = \$1 AND user_type = \$2`).
		WithArgs("stu-1", "student").
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.DeleteForUser(context.Background(), "stu-1", models.RoleStudent))
	assert.NoError(t, mock.ExpectationsWereMet())
}
