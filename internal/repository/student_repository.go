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

const studentColumns = `s.id, s.enrollment_no, s.first_name, s.middle_name, s.last_name, s.email, s.phone,
        s.semester, s.branch_id, s.gender, s.dob, s.address, s.city, s.state, s.pincode, s.country,
        s.profile_ref, s.status, s.password_hash, s.created_at, s.updated_at`

// StudentRepository manages persistence for student records.
type StudentRepository struct {
	db *sqlx.DB
}

// NewStudentRepository constructs a StudentRepository.
func NewStudentRepository(db *sqlx.DB) *StudentRepository {
	return &StudentRepository{db: db}
}

// Search returns students matching the provided filters joined with their branch.
func (r *StudentRepository) Search(ctx context.Context, filter models.StudentFilter) ([]models.StudentDetail, int, error) {
	base := "FROM students s LEFT JOIN branches b ON b.id = s.branch_id"
	args := []interface{}{}
	conditions := []string{"1=1"}

	if filter.Name != "" {
		conditions = append(conditions, fmt.Sprintf("(s.first_name || ' ' || s.last_name) ILIKE $%d", len(args)+1))
		args = append(args, "%"+filter.Name+"%")
	}
	if filter.EnrollmentNo != nil {
		conditions = append(conditions, fmt.Sprintf("s.enrollment_no = $%d", len(args)+1))
		args = append(args, *filter.EnrollmentNo)
	}
	if filter.Semester != nil {
		conditions = append(conditions, fmt.Sprintf("s.semester = $%d", len(args)+1))
		args = append(args, *filter.Semester)
	}
	if filter.BranchID != "" {
		conditions = append(conditions, fmt.Sprintf("s.branch_id = $%d", len(args)+1))
		args = append(args, filter.BranchID)
	}

	base = fmt.Sprintf("%s WHERE %s", base, strings.Join(conditions, " AND "))

	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 || size > 100 {
		size = 20
	}
	offset := (page - 1) * size

	query := fmt.Sprintf(`SELECT %s, b.name AS branch_name %s ORDER BY s.enrollment_no ASC LIMIT %d OFFSET %d`,
		studentColumns, base, size, offset)

	var students []models.StudentDetail
	if err := r.db.SelectContext(ctx, &students, query, args...); err != nil {
		return nil, 0, fmt.Errorf("search students: %w", err)
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) %s", base)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count students: %w", err)
	}
	return students, total, nil
}

// FindByID fetches a student detail by ID.
func (r *StudentRepository) FindByID(ctx context.Context, id string) (*models.StudentDetail, error) {
	query := fmt.Sprintf(`SELECT %s, b.name AS branch_name
        FROM students s LEFT JOIN branches b ON b.id = s.branch_id
        WHERE s.id = $1`, studentColumns)
	var detail models.StudentDetail
	if err := r.db.GetContext(ctx, &detail, query, id); err != nil {
		return nil, err
	}
	return &detail, nil
}

// FindByEmail fetches a student by email for credential checks.
func (r *StudentRepository) FindByEmail(ctx context.Context, email string) (*models.Student, error) {
	query := fmt.Sprintf(`SELECT %s FROM students s WHERE s.email = $1 LIMIT 1`, studentColumns)
	var student models.Student
	if err := r.db.GetContext(ctx, &student, query, email); err != nil {
		return nil, err
	}
	return &student, nil
}

// ExistsByEmailOrPhone checks whether another student already claims the
// email or phone, optionally excluding an ID.
func (r *StudentRepository) ExistsByEmailOrPhone(ctx context.Context, email, phone, excludeID string) (bool, error) {
	query := "SELECT 1 FROM students WHERE (email = $1 OR phone = $2)"
	args := []interface{}{email, phone}
	if excludeID != "" {
		query += " AND id <> $3"
		args = append(args, excludeID)
	}
	var exists int
	if err := r.db.GetContext(ctx, &exists, query+" LIMIT 1", args...); err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, fmt.Errorf("check student contact: %w", err)
	}
	return true, nil
}

// ExistsByEnrollmentNo checks whether an enrollment number is taken.
func (r *StudentRepository) ExistsByEnrollmentNo(ctx context.Context, enrollmentNo int) (bool, error) {
	var exists int
	err := r.db.GetContext(ctx, &exists, "SELECT 1 FROM students WHERE enrollment_no = $1 LIMIT 1", enrollmentNo)
	if err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, fmt.Errorf("check enrollment no: %w", err)
	}
	return true, nil
}

// Create inserts a new student record.
func (r *StudentRepository) Create(ctx context.Context, student *models.Student) error {
	if student.ID == "" {
		student.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if student.CreatedAt.IsZero() {
		student.CreatedAt = now
	}
	student.UpdatedAt = now
	const query = `INSERT INTO students (id, enrollment_no, first_name, middle_name, last_name, email, phone,
        semester, branch_id, gender, dob, address, city, state, pincode, country, profile_ref, status,
        password_hash, created_at, updated_at)
        VALUES (:id, :enrollment_no, :first_name, :middle_name, :last_name, :email, :phone,
        :semester, :branch_id, :gender, :dob, :address, :city, :state, :pincode, :country, :profile_ref, :status,
        :password_hash, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, student); err != nil {
		return fmt.Errorf("create student: %w", err)
	}
	return nil
}

// Update modifies an existing student.
func (r *StudentRepository) Update(ctx context.Context, student *models.Student) error {
	student.UpdatedAt = time.Now().UTC()
	const query = `UPDATE students SET first_name = :first_name, middle_name = :middle_name, last_name = :last_name,
        email = :email, phone = :phone, semester = :semester, branch_id = :branch_id, gender = :gender, dob = :dob,
        address = :address, city = :city, state = :state, pincode = :pincode, country = :country,
        profile_ref = :profile_ref, status = :status, password_hash = :password_hash, updated_at = :updated_at
        WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, student); err != nil {
		return fmt.Errorf("update student: %w", err)
	}
	return nil
}

// UpdatePassword writes a new password hash.
func (r *StudentRepository) UpdatePassword(ctx context.Context, id, passwordHash string) error {
	const query = `UPDATE students SET password_hash = $2, updated_at = $3 WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id, passwordHash, time.Now().UTC()); err != nil {
		return fmt.Errorf("update student password: %w", err)
	}
	return nil
}

// Delete removes a student permanently.
func (r *StudentRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM students WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete student: %w", err)
	}
	return nil
}

// ListByBranchSemester returns the roster for a branch+semester, ordered by
// enrollment number. Used by the gradebook view.
func (r *StudentRepository) ListByBranchSemester(ctx context.Context, branchID string, semester int) ([]models.Student, error) {
	query := fmt.Sprintf(`SELECT %s FROM students s WHERE s.branch_id = $1 AND s.semester = $2 ORDER BY s.enrollment_no ASC`, studentColumns)
	var students []models.Student
	if err := r.db.SelectContext(ctx, &students, query, branchID, semester); err != nil {
		return nil, fmt.Errorf("list students by branch and semester: %w", err)
	}
	return students, nil
}
