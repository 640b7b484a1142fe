package models

import "time"

// Faculty represents a teaching staff member.
type Faculty struct {
	ID           string     `db:"id" json:"id"`
	EmployeeID   int        `db:"employee_id" json:"employeeId"`
	FirstName    string     `db:"first_name" json:"firstName"`
	MiddleName   string     `db:"middle_name" json:"middleName,omitempty"`
	LastName     string     `db:"last_name" json:"lastName"`
	Email        string     `db:"email" json:"email"`
	Phone        string     `db:"phone" json:"phone"`
	BranchID     string     `db:"branch_id" json:"branchId"`
	Designation  string     `db:"designation" json:"designation"`
	Salary       float64    `db:"salary" json:"salary"`
	JoiningDate  *time.Time `db:"joining_date" json:"joiningDate,omitempty"`
	Gender       string     `db:"gender" json:"gender"`
	DOB          *time.Time `db:"dob" json:"dob,omitempty"`
	Address      string     `db:"address" json:"address"`
	City         string     `db:"city" json:"city"`
	State        string     `db:"state" json:"state"`
	Pincode      string     `db:"pincode" json:"pincode"`
	Country      string     `db:"country" json:"country"`
	ProfileRef   string     `db:"profile_ref" json:"profile"`
	PasswordHash string     `db:"password_hash" json:"-"`
	CreatedAt    time.Time  `db:"created_at" json:"createdAt"`
	UpdatedAt    time.Time  `db:"updated_at" json:"updatedAt"`
}

// FacultyDetail carries a faculty member joined with their branch.
type FacultyDetail struct {
	Faculty
	BranchName *string `db:"branch_name" json:"branchName,omitempty"`
}

// FacultyFilter encapsulates recognized search parameters.
type FacultyFilter struct {
	Name       string
	EmployeeID *int
	BranchID   string
	Page       int
	PageSize   int
}
