package models

import "time"

// Admin represents an administrative account.
type Admin struct {
	ID           string     `db:"id" json:"id"`
	EmployeeID   int        `db:"employee_id" json:"employeeId"`
	FirstName    string     `db:"first_name" json:"firstName"`
	MiddleName   string     `db:"middle_name" json:"middleName,omitempty"`
	LastName     string     `db:"last_name" json:"lastName"`
	Email        string     `db:"email" json:"email"`
	Phone        string     `db:"phone" json:"phone"`
	Gender       string     `db:"gender" json:"gender"`
	DOB          *time.Time `db:"dob" json:"dob,omitempty"`
	Address      string     `db:"address" json:"address"`
	City         string     `db:"city" json:"city"`
	State        string     `db:"state" json:"state"`
	Pincode      string     `db:"pincode" json:"pincode"`
	Country      string     `db:"country" json:"country"`
	IsSuperAdmin bool       `db:"is_super_admin" json:"isSuperAdmin"`
	ProfileRef   string     `db:"profile_ref" json:"profile"`
	PasswordHash string     `db:"password_hash" json:"-"`
	CreatedAt    time.Time  `db:"created_at" json:"createdAt"`
	UpdatedAt    time.Time  `db:"updated_at" json:"updatedAt"`
}

// AdminFilter encapsulates recognized search parameters.
type AdminFilter struct {
	Name       string
	EmployeeID *int
	Page       int
	PageSize   int
}
