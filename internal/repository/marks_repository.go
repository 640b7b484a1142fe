package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/unicampus/college-api/internal/models"
)

// MarksRepository manages persistence for marks records.
type MarksRepository struct {
	db *sqlx.DB
}

// NewMarksRepository constructs a MarksRepository.
func NewMarksRepository(db *sqlx.DB) *MarksRepository {
	return &MarksRepository{db: db}
}

// FindByComposite looks up the single logical record for the four-part key.
// Returns sql.ErrNoRows when absent.
func (r *MarksRepository) FindByComposite(ctx context.Context, studentID, subjectID, examID string, semester int) (*models.Marks, error) {
	const query = `SELECT id, student_id, subject_id, exam_id, semester, marks_obtained, created_at, updated_at
        FROM marks WHERE student_id = $1 AND subject_id = $2 AND exam_id = $3 AND semester = $4 LIMIT 1`
	var m models.Marks
	if err := r.db.GetContext(ctx, &m, query, studentID, subjectID, examID, semester); err != nil {
		return nil, err
	}
	return &m, nil
}

// List returns marks matching the filter.
func (r *MarksRepository) List(ctx context.Context, filter models.MarksFilter) ([]models.Marks, error) {
	query := "SELECT id, student_id, subject_id, exam_id, semester, marks_obtained, created_at, updated_at FROM marks"
	args := []interface{}{}
	conditions := []string{}

	if filter.StudentID != "" {
		conditions = append(conditions, fmt.Sprintf("student_id = $%d", len(args)+1))
		args = append(args, filter.StudentID)
	}
	if filter.SubjectID != "" {
		conditions = append(conditions, fmt.Sprintf("subject_id = $%d", len(args)+1))
		args = append(args, filter.SubjectID)
	}
	if filter.ExamID != "" {
		conditions = append(conditions, fmt.Sprintf("exam_id = $%d", len(args)+1))
		args = append(args, filter.ExamID)
	}
	if filter.Semester != nil {
		conditions = append(conditions, fmt.Sprintf("semester = $%d", len(args)+1))
		args = append(args, *filter.Semester)
	}
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY created_at ASC"

	var rows []models.Marks
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list marks: %w", err)
	}
	return rows, nil
}

// ListForExamSubject returns marks for one exam+subject+semester limited to
// the supplied student ids. Feeds the gradebook join.
func (r *MarksRepository) ListForExamSubject(ctx context.Context, examID, subjectID string, semester int, studentIDs []string) ([]models.Marks, error) {
	if len(studentIDs) == 0 {
		return nil, nil
	}
	query, args, err := sqlx.In(`SELECT id, student_id, subject_id, exam_id, semester, marks_obtained, created_at, updated_at
        FROM marks WHERE exam_id = ? AND subject_id = ? AND semester = ? AND student_id IN (?)`,
		examID, subjectID, semester, studentIDs)
	if err != nil {
		return nil, fmt.Errorf("build marks query: %w", err)
	}
	query = r.db.Rebind(query)

	var rows []models.Marks
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("list marks for exam: %w", err)
	}
	return rows, nil
}

// Create inserts a new marks record.
func (r *MarksRepository) Create(ctx context.Context, m *models.Marks) error {
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if m.CreatedAt.IsZero() {
		m.CreatedAt = now
	}
	m.UpdatedAt = now
	const query = `INSERT INTO marks (id, student_id, subject_id, exam_id, semester, marks_obtained, created_at, updated_at)
        VALUES (:id, :student_id, :subject_id, :exam_id, :semester, :marks_obtained, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, m); err != nil {
		return fmt.Errorf("create marks: %w", err)
	}
	return nil
}

// UpdateObtained overwrites the score of an existing record.
func (r *MarksRepository) UpdateObtained(ctx context.Context, id string, marksObtained float64) error {
	const query = `UPDATE marks SET marks_obtained = $2, updated_at = $3 WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id, marksObtained, time.Now().UTC()); err != nil {
		return fmt.Errorf("update marks: %w", err)
	}
	return nil
}

// DeleteByStudent removes all marks for a student. Called when the student is
// hard-deleted.
func (r *MarksRepository) DeleteByStudent(ctx context.Context, studentID string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM marks WHERE student_id = $1`, studentID); err != nil {
		return fmt.Errorf("delete marks by student: %w", err)
	}
	return nil
}
