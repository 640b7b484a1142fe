package repository

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/unicampus/college-api/internal/models"
)

func newStudentMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func studentRows() *sqlmock.Rows {
	now := time.Now()
	return sqlmock.NewRows([]string{
		"id", "enrollment_no", "first_name", "middle_name", "last_name", "email", "phone",
		"semester", "branch_id", "gender", "dob", "address", "city", "state", "pincode", "country",
		"profile_ref", "status", "password_hash", "created_at", "updated_at", "branch_name",
	}).AddRow("stu-1", 100001, "Jane", "", "Roe", "100001@college.edu", "9876500001",
		3, "branch-1", "female", nil, "12 Main St", "Pune", "MH", "411001", "India",
		"", "active", "$2a$hash", now, now, "Computer Engineering")
}

func TestStudentRepositorySearch(t *testing.T) {
	db, mock, cleanup := newStudentMock(t)
	defer cleanup()
	repo := NewStudentRepository(db)

	semester := 3
	mock.ExpectQuery(`SELECT s.id, s.enrollment_no, (.+) FROM students s LEFT JOIN branches b ON b.id = s.branch_id WHERE 1=1 AND (.+) ORDER BY s.enrollment_no ASC LIMIT 20 OFFSET 0`).
		WithArgs("%ja%", semester).
		WillReturnRows(studentRows())
	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM students s LEFT JOIN branches b ON b.id = s.branch_id WHERE 1=1`).
		WithArgs("%ja%", semester).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	students, total, err := repo.Search(context.Background(), models.StudentFilter{Name: "ja", Semester: &semester})
	require.NoError(t, err)
	require.Len(t, students, 1)
	assert.Equal(t, 100001, students[0].EnrollmentNo)
	require.NotNil(t, students[0].BranchName)
	assert.Equal(t, "Computer Engineering", *students[0].BranchName)
	assert.Equal(t, 1, total)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStudentRepositoryFindByEmailMissing(t *testing.T) {
	db, mock, cleanup := newStudentMock(t)
	defer cleanup()
	repo := NewStudentRepository(db)

	mock.ExpectQuery(`SELECT (.+) FROM students s WHERE s.email = \$1 LIMIT 1`).
		WithArgs("ghost@college.edu").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.FindByEmail(context.Background(), "ghost@college.edu")
	assert.True(t, errors.Is(err, sql.ErrNoRows))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStudentRepositoryExistsByEmailOrPhone(t *testing.T) {
	db, mock, cleanup := newStudentMock(t)
	defer cleanup()
	repo := NewStudentRepository(db)

	mock.ExpectQuery(`SELECT 1 FROM students WHERE \(email = \$1 OR phone = \$2\) LIMIT 1`).
		WithArgs("100001@college.edu", "9876500001").
		WillReturnRows(sqlmock.NewRows([]string{"?column?"}).AddRow(1))

	exists, err := repo.ExistsByEmailOrPhone(context.Background(), "100001@college.edu", "9876500001", "")
	require.NoError(t, err)
	assert.True(t, exists)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStudentRepositoryExistsByEmailOrPhoneExcludesSelf(t *testing.T) {
	db, mock, cleanup := newStudentMock(t)
	defer cleanup()
	repo := NewStudentRepository(db)

	mock.ExpectQuery(`SELECT 1 FROM students WHERE \(email = \$1 OR phone = \$2\) AND id <> \$3 LIMIT 1`).
		WithArgs("100001@college.edu", "9876500001", "stu-1").
		WillReturnRows(sqlmock.NewRows([]string{"?column?"}))

	exists, err := repo.ExistsByEmailOrPhone(context.Background(), "100001@college.edu", "9876500001", "stu-1")
	require.NoError(t, err)
	assert.False(t, exists)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStudentRepositoryCreate(t *testing.T) {
	db, mock, cleanup := newStudentMock(t)
	defer cleanup()
	repo := NewStudentRepository(db)

	mock.ExpectExec("INSERT INTO students").WillReturnResult(sqlmock.NewResult(0, 1))

	student := &models.Student{EnrollmentNo: 100001, FirstName: "Jane", LastName: "Roe", Email: "100001@college.edu", Phone: "9876500001", Semester: 3, BranchID: "branch-1", Status: "active"}
	err := repo.Create(context.Background(), student)
	require.NoError(t, err)
	assert.NotEmpty(t, student.ID)
	assert.False(t, student.CreatedAt.IsZero())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStudentRepositoryUpdatePassword(t *testing.T) {
	db, mock, cleanup := newStudentMock(t)
	defer cleanup()
	repo := NewStudentRepository(db)

	mock.ExpectExec(`UPDATE students SET password_hash = \$2, updated_at = \$3 WHERE id = \$1`).
		WithArgs("stu-1", "new-hash", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.UpdatePassword(context.Background(), "stu-1", "new-hash")
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStudentRepositoryListByBranchSemester(t *testing.T) {
	db, mock, cleanup := newStudentMock(t)
	defer cleanup()
	repo := NewStudentRepository(db)

	now := time.Now()
	rows := sqlmock.NewRows([]string{
		"id", "enrollment_no", "first_name", "middle_name", "last_name", "email", "phone",
		"semester", "branch_id", "gender", "dob", "address", "city", "state", "pincode", "country",
		"profile_ref", "status", "password_hash", "created_at", "updated_at",
	}).AddRow("stu-1", 100001, "Jane", "", "Roe", "100001@college.edu", "9876500001",
		3, "branch-1", "female", nil, "", "", "", "", "", "", "active", "$2a$hash", now, now)
	mock.ExpectQuery(`SELECT (.+) FROM students s WHERE s.branch_id = \$1 AND s.semester = \$2 ORDER BY s.enrollment_no ASC`).
		WithArgs("branch-1", 3).
		WillReturnRows(rows)

	students, err := repo.ListByBranchSemester(context.Background(), "branch-1", 3)
	require.NoError(t, err)
	require.Len(t, students, 1)
	assert.Equal(t, "stu-1", students[0].ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStudentRepositoryDelete(t *testing.T) {
	db, mock, cleanup := newStudentMock(t)
	defer cleanup()
	repo := NewStudentRepository(db)

	mock.ExpectExec(`DELETE FROM students WHERE id = \$1`).
		WithArgs("stu-1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.Delete(context.Background(), "stu-1"))
	assert.NoError(t, mock.ExpectationsWereMet())
}
