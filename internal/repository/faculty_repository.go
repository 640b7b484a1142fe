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

const facultyColumns = `f.id, f.employee_id, f.first_name, f.middle_name, f.last_name, f.email, f.phone,
        f.branch_id, f.designation, f.salary, f.joining_date, f.gender, f.dob, f.address, f.city, f.state,
        f.pincode, f.country, f.profile_ref, f.password_hash, f.created_at, f.updated_at`

// FacultyRepository manages persistence for faculty records.
type FacultyRepository struct {
	db *sqlx.DB
}

// NewFacultyRepository constructs a FacultyRepository.
func NewFacultyRepository(db *sqlx.DB) *FacultyRepository {
	return &FacultyRepository{db: db}
}

// Search returns faculty matching the provided filters joined with their branch.
func (r *FacultyRepository) Search(ctx context.Context, filter models.FacultyFilter) ([]models.FacultyDetail, int, error) {
	base := "FROM faculty f LEFT JOIN branches b ON b.id = f.branch_id"
	args := []interface{}{}
	conditions := []string{"1=1"}

	if filter.Name != "" {
		conditions = append(conditions, fmt.Sprintf("(f.first_name || ' ' || f.last_name) ILIKE $%d", len(args)+1))
		args = append(args, "%"+filter.Name+"%")
	}
	if filter.EmployeeID != nil {
		conditions = append(conditions, fmt.Sprintf("f.employee_id = $%d", len(args)+1))
		args = append(args, *filter.EmployeeID)
	}
	if filter.BranchID != "" {
		conditions = append(conditions, fmt.Sprintf("f.branch_id = $%d", len(args)+1))
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

	query := fmt.Sprintf(`SELECT %s, b.name AS branch_name %s ORDER BY f.employee_id ASC LIMIT %d OFFSET %d`,
		facultyColumns, base, size, offset)

	var rows []models.FacultyDetail
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, 0, fmt.Errorf("search faculty: %w", err)
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) %s", base)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count faculty: %w", err)
	}
	return rows, total, nil
}

// FindByID fetches a faculty detail by ID.
func (r *FacultyRepository) FindByID(ctx context.Context, id string) (*models.FacultyDetail, error) {
	query := fmt.Sprintf(`SELECT %s, b.name AS branch_name
        FROM faculty f LEFT JOIN branches b ON b.id = f.branch_id
        WHERE f.id = $1`, facultyColumns)
	var detail models.FacultyDetail
	if err := r.db.GetContext(ctx, &detail, query, id); err != nil {
		return nil, err
	}
	return &detail, nil
}

// FindByEmail fetches a faculty member by email for credential checks.
func (r *FacultyRepository) FindByEmail(ctx context.Context, email string) (*models.Faculty, error) {
	query := fmt.Sprintf(`SELECT %s FROM faculty f WHERE f.email = $1 LIMIT 1`, facultyColumns)
	var faculty models.Faculty
	if err := r.db.GetContext(ctx, &faculty, query, email); err != nil {
		return nil, err
	}
	return &faculty, nil
}

// ExistsByEmailOrPhone checks contact uniqueness, optionally excluding an ID.
func (r *FacultyRepository) ExistsByEmailOrPhone(ctx context.Context, email, phone, excludeID string) (bool, error) {
	query := "SELECT 1 FROM faculty WHERE (email = $1 OR phone = $2)"
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
		return false, fmt.Errorf("check faculty contact: %w", err)
	}
	return true, nil
}

// ExistsByEmployeeID checks whether an employee id is taken.
func (r *FacultyRepository) ExistsByEmployeeID(ctx context.Context, employeeID int) (bool, error) {
	var exists int
	err := r.db.GetContext(ctx, &exists, "SELECT 1 FROM faculty WHERE employee_id = $1 LIMIT 1", employeeID)
	if err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, fmt.Errorf("check employee id: %w", err)
	}
	return true, nil
}

// Create inserts a new faculty record.
func (r *FacultyRepository) Create(ctx context.Context, faculty *models.Faculty) error {
	if faculty.ID == "" {
		faculty.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if faculty.CreatedAt.IsZero() {
		faculty.CreatedAt = now
	}
	faculty.UpdatedAt = now
	const query = `INSERT INTO faculty (id, employee_id, first_name, middle_name, last_name, email, phone,
        branch_id, designation, salary, joining_date, gender, dob, address, city, state, pincode, country,
        profile_ref, password_hash, created_at, updated_at)
        VALUES (:id, :employee_id, :first_name, :middle_name, :last_name, :email, :phone,
        :branch_id, :designation, :salary, :joining_date, :gender, :dob, :address, :city, :state, :pincode, :country,
        :profile_ref, :password_hash, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, faculty); err != nil {
		return fmt.Errorf("create faculty: %w", err)
	}
	return nil
}

// Update modifies an existing faculty member.
func (r *FacultyRepository) Update(ctx context.Context, faculty *models.Faculty) error {
	faculty.UpdatedAt = time.Now().UTC()
	const query = `UPDATE faculty SET first_name = :first_name, middle_name = :middle_name, last_name = :last_name,
        email = :email, phone = :phone, branch_id = :branch_id, designation = :designation, salary = :salary,
        joining_date = :joining_date, gender = :gender, dob = :dob, address = :address, city = :city,
        state = :state, pincode = :pincode, country = :country, profile_ref = :profile_ref,
        password_hash = :password_hash, updated_at = :updated_at
        WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, faculty); err != nil {
		return fmt.Errorf("update faculty: %w", err)
	}
	return nil
}

// UpdatePassword writes a new password hash.
func (r *FacultyRepository) UpdatePassword(ctx context.Context, id, passwordHash string) error {
	const query = `UPDATE faculty SET password_hash = $2, updated_at = $3 WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id, passwordHash, time.Now().UTC()); err != nil {
		return fmt.Errorf("update faculty password: %w", err)
	}
	return nil
}

// Delete removes a faculty member permanently.
func (r *FacultyRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM faculty WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete faculty: %w", err)
	}
	return nil
}
