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

func newMarksMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func marksColumns() []string {
	return []string{"id", "student_id", "subject_id", "exam_id", "semester", "marks_obtained", "created_at", "updated_at"}
}

func TestMarksRepositoryFindByComposite(t *testing.T) {
	db, mock, cleanup := newMarksMock(t)
	defer cleanup()
	repo := NewMarksRepository(db)

	now := time.Now()
	mock.ExpectQuery(`SELECT (.+) FROM marks WHERE student_id = \$1 AND subject_id = \$2 AND exam_id = \$3 AND semester = \$4 LIMIT 1`).
		WithArgs("stu-1", "sub-1", "exam-1", 3).
		WillReturnRows(sqlmock.NewRows(marksColumns()).AddRow("marks-1", "stu-1", "sub-1", "exam-1", 3, 88.0, now, now))

	m, err := repo.FindByComposite(context.Background(), "stu-1", "sub-1", "exam-1", 3)
	require.NoError(t, err)
	assert.Equal(t, "marks-1", m.ID)
	assert.Equal(t, 88.0, m.MarksObtained)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMarksRepositoryFindByCompositeMissing(t *testing.T) {
	db, mock, cleanup := newMarksMock(t)
	defer cleanup()
	repo := NewMarksRepository(db)

	mock.ExpectQuery(`SELECT (.+) FROM marks WHERE student_id = \$1`).
		WithArgs("stu-1", "sub-1", "exam-1", 3).
		WillReturnError(sql.ErrNoRows)

	_, err := repo.FindByComposite(context.Background(), "stu-1", "sub-1", "exam-1", 3)
	assert.True(t, errors.Is(err, sql.ErrNoRows))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMarksRepositoryListByStudent(t *testing.T) {
	db, mock, cleanup := newMarksMock(t)
	defer cleanup()
	repo := NewMarksRepository(db)

	now := time.Now()
	mock.ExpectQuery(`SELECT (.+) FROM marks WHERE student_id = \$1 ORDER BY created_at ASC`).
		WithArgs("stu-1").
		WillReturnRows(sqlmock.NewRows(marksColumns()).
			AddRow("marks-1", "stu-1", "sub-1", "exam-1", 3, 88.0, now, now).
			AddRow("marks-2", "stu-1", "sub-2", "exam-1", 3, 71.5, now, now))

	rows, err := repo.List(context.Background(), models.MarksFilter{StudentID: "stu-1"})
	require.NoError(t, err)
	assert.Len(t, rows, 2)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMarksRepositoryListForExamSubject(t *testing.T) {
	db, mock, cleanup := newMarksMock(t)
	defer cleanup()
	repo := NewMarksRepository(db)

	now := time.Now()
	mock.ExpectQuery(`SELECT (.+) FROM marks WHERE exam_id = \? AND subject_id = \? AND semester = \? AND student_id IN \(\?, \?\)`).
		WithArgs("exam-1", "sub-1", 3, "stu-1", "stu-2").
		WillReturnRows(sqlmock.NewRows(marksColumns()).AddRow("marks-1", "stu-1", "sub-1", "exam-1", 3, 88.0, now, now))

	rows, err := repo.ListForExamSubject(context.Background(), "exam-1", "sub-1", 3, []string{"stu-1", "stu-2"})
	require.NoError(t, err)
	assert.Len(t, rows, 1)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMarksRepositoryListForExamSubjectNoStudents(t *testing.T) {
	db, _, cleanup := newMarksMock(t)
	defer cleanup()
	repo := NewMarksRepository(db)

	rows, err := repo.ListForExamSubject(context.Background(), "exam-1", "sub-1", 3, nil)
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestMarksRepositoryCreate(t *testing.T) {
	db, mock, cleanup := newMarksMock(t)
	defer cleanup()
	repo := NewMarksRepository(db)

	mock.ExpectExec("INSERT INTO marks").WillReturnResult(sqlmock.NewResult(0, 1))

	record := &models.Marks{StudentID: "stu-1", SubjectID: "sub-1", ExamID: "exam-1", Semester: 3, MarksObtained: 88}
	err := repo.Create(context.Background(), record)
	require.NoError(t, err)
	assert.NotEmpty(t, record.ID)
	assert.False(t, record.CreatedAt.IsZero())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMarksRepositoryUpdateObtained(t *testing.T) {
	db, mock, cleanup := newMarksMock(t)
	defer cleanup()
	repo := NewMarksRepository(db)

	mock.ExpectExec(`UPDATE marks SET marks_obtained = \$2, updated_at = \$3 WHERE id = \$1`).
		WithArgs("marks-1", 92.0, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.UpdateObtained(context.Background(), "marks-1", 92))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMarksRepositoryDeleteByStudent(t *testing.T) {
	db, mock, cleanup := newMarksMock(t)
	defer cleanup()
	repo := NewMarksRepository(db)

	mock.ExpectExec(`DELETE FROM marks WHERE student_id = \$1`).
		WithArgs("stu-1").
		WillReturnResult(sqlmock.NewResult(0, 2))

	require.NoError(t, repo.DeleteByStudent(context.Background(), "stu-1"))
	assert.NoError(t, mock.ExpectationsWereMet())
}
