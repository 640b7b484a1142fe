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

func newBranchMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func TestBranchRepositoryListFiltersByName(t *testing.T) {
	db, mock, cleanup := newBranchMock(t)
	defer cleanup()
	repo := NewBranchRepository(db)

	now := time.Now()
	mock.ExpectQuery(`SELECT id, name, code, created_at, updated_at FROM branches WHERE name ILIKE \$1 ORDER BY name ASC`).
		WithArgs("%comp%").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "code", "created_at", "updated_at"}).
			AddRow("branch-1", "Computer Engineering", "CE", now, now))

	branches, err := repo.List(context.Background(), models.BranchFilter{Name: "comp"})
	require.NoError(t, err)
	require.Len(t, branches, 1)
	assert.Equal(t, "CE", branches[0].Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBranchRepositoryExistsByNameOrCode(t *testing.T) {
	db, mock, cleanup := newBranchMock(t)
	defer cleanup()
	repo := NewBranchRepository(db)

	mock.ExpectQuery(`SELECT 1 FROM branches WHERE \(LOWER\(name\) = LOWER\(\$1\) OR code = \$2\) LIMIT 1`).
		WithArgs("Computer Engineering", "CE").
		WillReturnRows(sqlmock.NewRows([]string{"?column?"}).AddRow(1))

	exists, err := repo.ExistsByNameOrCode(context.Background(), "Computer Engineering", "CE", "")
	require.NoError(t, err)
	assert.True(t, exists)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBranchRepositoryExistsByNameOrCodeExcludesSelf(t *testing.T) {
	db, mock, cleanup := newBranchMock(t)
	defer cleanup()
	repo := NewBranchRepository(db)

	mock.ExpectQuery(`SELECT 1 FROM branches WHERE \(LOWER\(name\) = LOWER\(\$1\) OR code = \$2\) AND id <> \$3 LIMIT 1`).
		WithArgs("Computer Engineering", "CE", "branch-1").
		WillReturnRows(sqlmock.NewRows([]string{"?column?"}))

	exists, err := repo.ExistsByNameOrCode(context.Background(), "Computer Engineering", "CE", "branch-1")
	require.NoError(t, err)
	assert.False(t, exists)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBranchRepositoryCreate(t *testing.T) {
	db, mock, cleanup := newBranchMock(t)
	defer cleanup()
	repo := NewBranchRepository(db)

	mock.ExpectExec("INSERT INTO branches").WillReturnResult(sqlmock.NewResult(0, 1))

	branch := &models.Branch{Name: "Computer Engineering", Code: "CE"}
	err := repo.Create(context.Background(), branch)
	require.NoError(t, err)
	assert.NotEmpty(t, branch.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBranchRepositoryUpdate(t *testing.T) {
	db, mock, cleanup := newBranchMock(t)
	defer cleanup()
	repo := NewBranchRepository(db)

	mock.ExpectExec("UPDATE branches SET name = (.+), code = (.+), updated_at = (.+) WHERE id =").
		WillReturnResult(sqlmock.NewResult(0, 1))

	branch := &models.Branch{ID: "branch-1", Name: "Computer Engineering", Code: "CSE"}
	require.NoError(t, repo.Update(context.Background(), branch))
	assert.NoError(t, mock.ExpectationsWereMet())
}
