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

const adminColumns = `a.id, a.employee_id, a.first_name, a.middle_name, a.last_name, a.email, a.phone,
        a.gender, a.dob, a.address, a.city, a.state, a.pincode, a.country, a.is_super_admin,
        a.profile_ref, a.password_hash, a.created_at, a.updated_at`

// AdminRepository manages persistence for admin records.
type AdminRepository struct {
	db *sqlx.DB
}

// NewAdminRepository constructs an AdminRepository.
func NewAdminRepository(db *sqlx.DB) *AdminRepository {
	return &AdminRepository{db: db}
}

// Search returns admins matching the provided filters.
func (r *AdminRepository) Search(ctx context.Context, filter models.AdminFilter) ([]models.Admin, int, error) {
	base := "FROM admins a"
	args := []interface{}{}
	conditions := []string{"1=1"}

	if filter.Name != "" {
		conditions = append(conditions, fmt.Sprintf("(a.first_name || ' ' || a.last_name) ILIKE $%d", len(args)+1))
		args = append(args, "%"+filter.Name+"%")
	}
	if filter.EmployeeID != nil {
		conditions = append(conditions, fmt.Sprintf("a.employee_id = $%d", len(args)+1))
		args = append(args, *filter.EmployeeID)
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

	query := fmt.Sprintf(`SELECT %s %s ORDER BY a.employee_id ASC LIMIT %d OFFSET %d`, adminColumns, base, size, offset)

	var rows []models.Admin
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, 0, fmt.Errorf("search admins: %w", err)
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) %s", base)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count admins: %w", err)
	}
	return rows, total, nil
}

// FindByID fetches an admin by ID.
func (r *AdminRepository) FindByID(ctx context.Context, id string) (*models.Admin, error) {
	query := fmt.Sprintf(`SELECT %s FROM admins a WHERE a.id = $1`, adminColumns)
	var admin models.Admin
	if err := r.db.GetContext(ctx, &admin, query, id); err != nil {
		return nil, err
	}
	return &admin, nil
}

// FindByEmail fetches an admin by email for credential checks.
func (r *AdminRepository) FindByEmail(ctx context.Context, email string) (*models.Admin, error) {
	query := fmt.Sprintf(`SELECT %s FROM admins a WHERE a.email = $1 LIMIT 1`, adminColumns)
	var admin models.Admin
	if err := r.db.GetContext(ctx, &admin, query, email); err != nil {
		return nil, err
	}
	return &admin, nil
}

// ExistsByEmailOrPhone checks contact uniqueness, optionally excluding an ID.
func (r *AdminRepository) ExistsByEmailOrPhone(ctx context.Context, email, phone, excludeID string) (bool, error) {
	query := "SELECT 1 FROM admins WHERE (email = $1 OR phone = $2)"
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
		return false, fmt.Errorf("check admin contact: %w", err)
	}
	return true, nil
}

// ExistsByEmployeeID checks whether an employee id is taken.
func (r *AdminRepository) ExistsByEmployeeID(ctx context.Context, employeeID int) (bool, error) {
	var exists int
	err := r.db.GetContext(ctx, &exists, "SELECT 1 FROM admins WHERE employee_id = $1 LIMIT 1", employeeID)
	if err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, fmt.Errorf("check employee id: %w", err)
	}
	return true, nil
}

// Create inserts a new admin record.
func (r *AdminRepository) Create(ctx context.Context, admin *models.Admin) error {
	if admin.ID == "" {
		admin.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if admin.CreatedAt.IsZero() {
		admin.CreatedAt = now
	}
	admin.UpdatedAt = now
	const query = `INSERT INTO admins (id, employee_id, first_name, middle_name, last_name, email, phone,
        gender, dob, address, city, state, pincode, country, is_super_admin, profile_ref, password_hash,
        created_at, updated_at)
        VALUES (:id, :employee_id, :first_name, :middle_name, :last_name, :email, :phone,
        :gender, :dob, :address, :city, :state, :pincode, :country, :is_super_admin, :profile_ref, :password_hash,
        :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, admin); err != nil {
		return fmt.Errorf("create admin: %w", err)
	}
	return nil
}

// Update modifies an existing admin.
func (r *AdminRepository) Update(ctx context.Context, admin *models.Admin) error {
	admin.UpdatedAt = time.Now().UTC()
	const query = `UPDATE admins SET first_name = :first_name, middle_name = :middle_name, last_name = :last_name,
        email = :email, phone = :phone, gender = :gender, dob = :dob, address = :address, city = :city,
        state = :state, pincode = :pincode, country = :country, is_super_admin = :is_super_admin,
        profile_ref = :profile_ref, password_hash = :password_hash, updated_at = :updated_at
        WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, admin); err != nil {
		return fmt.Errorf("update admin: %w", err)
	}
	return nil
}

// UpdatePassword writes a new password hash.
func (r *AdminRepository) UpdatePassword(ctx context.Context, id, passwordHash string) error {
	const query = `UPDATE admins SET password_hash = $2, updated_at = $3 WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id, passwordHash, time.Now().UTC()); err != nil {
		return fmt.Errorf("update admin password: %w", err)
	}
	return nil
}

// Delete removes an admin permanently.
func (r *AdminRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM admins WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete admin: %w", err)
	}
	return nil
}
