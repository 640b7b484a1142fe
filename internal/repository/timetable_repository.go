package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/unicampus/college-api/internal/models"
)

// TimetableRepository manages persistence for timetable records.
type TimetableRepository struct {
	db *sqlx.DB
}

// NewTimetableRepository constructs a TimetableRepository.
func NewTimetableRepository(db *sqlx.DB) *TimetableRepository {
	return &TimetableRepository{db: db}
}

// List returns timetables matching the filter.
func (r *TimetableRepository) List(ctx context.Context, filter models.TimetableFilter) ([]models.Timetable, error) {
	query := "SELECT id, branch_id, semester, file_ref, created_at, updated_at FROM timetables"
	args := []interface{}{}
	conditions := []string{}

	if filter.BranchID != "" {
		conditions = append(conditions, fmt.Sprintf("branch_id = $%d", len(args)+1))
		args = append(args, filter.BranchID)
	}
	if filter.Semester != nil {
		conditions = append(conditions, fmt.Sprintf("semester = $%d", len(args)+1))
		args = append(args, *filter.Semester)
	}
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY semester ASC"

	var timetables []models.Timetable
	if err := r.db.SelectContext(ctx, &timetables, query, args...); err != nil {
		return nil, fmt.Errorf("list timetables: %w", err)
	}
	return timetables, nil
}

// FindByID fetches a timetable by ID.
func (r *TimetableRepository) FindByID(ctx context.Context, id string) (*models.Timetable, error) {
	var timetable models.Timetable
	err := r.db.GetContext(ctx, &timetable,
		"SELECT id, branch_id, semester, file_ref, created_at, updated_at FROM timetables WHERE id = $1", id)
	if err != nil {
		return nil, err
	}
	return &timetable, nil
}

// FindByBranchSemester fetches the single record for the unique pair.
// Returns sql.ErrNoRows when absent.
func (r *TimetableRepository) FindByBranchSemester(ctx context.Context, branchID string, semester int) (*models.Timetable, error) {
	var timetable models.Timetable
	err := r.db.GetContext(ctx, &timetable,
		"SELECT id, branch_id, semester, file_ref, created_at, updated_at FROM timetables WHERE branch_id = $1 AND semester = $2 LIMIT 1",
		branchID, semester)
	if err != nil {
		return nil, err
	}
	return &timetable, nil
}

// Create inserts a new timetable.
func (r *TimetableRepository) Create(ctx context.Context, timetable *models.Timetable) error {
	if timetable.ID == "" {
		timetable.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if timetable.CreatedAt.IsZero() {
		timetable.CreatedAt = now
	}
	timetable.UpdatedAt = now
	const query = `INSERT INTO timetables (id, branch_id, semester, file_ref, created_at, updated_at)
        VALUES (:id, :branch_id, :semester, :file_ref, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, timetable); err != nil {
		return fmt.Errorf("create timetable: %w", err)
	}
	return nil
}

// UpdateFile replaces the file reference of an existing record.
func (r *TimetableRepository) UpdateFile(ctx context.Context, id, fileRef string) error {
	const query = `UPDATE timetables SET file_ref = $2, updated_at = $3 WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id, fileRef, time.Now().UTC()); err != nil {
		return fmt.Errorf("update timetable file: %w", err)
	}
	return nil
}

// Delete removes a timetable permanently.
func (r *TimetableRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM timetables WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete timetable: %w", err)
	}
	return nil
}
