package models

import "time"

// Student represents a learner enrolled at the college.
type Student struct {
	ID           string     `db:"id" json:"id"`
	EnrollmentNo int        `db:"enrollment_no" json:"enrollmentNo"`
	FirstName    string     `db:"first_name" json:"firstName"`
	MiddleName   string     `db:"middle_name" json:"middleName,omitempty"`
	LastName     string     `db:"last_name" json:"lastName"`
	Email        string     `db:"email" json:"email"`
	Phone        string     `db:"phone" json:"phone"`
	Semester     int        `db:"semester" json:"semester"`
	BranchID     string     `db:"branch_id" json:"branchId"`
	Gender       string     `db:"gender" json:"gender"`
	DOB          *time.Time `db:"dob" json:"dob,omitempty"`
	Address      string     `db:"address" json:"address"`
	City         string     `db:"city" json:"city"`
	State        string     `db:"state" json:"state"`
	Pincode      string     `db:"pincode" json:"pincode"`
	Country      string     `db:"country" json:"country"`
	ProfileRef   string     `db:"profile_ref" json:"profile"`
	Status       string     `db:"status" json:"status"`
	PasswordHash string     `db:"password_hash" json:"-"`
	CreatedAt    time.Time  `db:"created_at" json:"createdAt"`
	UpdatedAt    time.Time  `db:"updated_at" json:"updatedAt"`
}

// StudentDetail carries a student joined with their branch.
type StudentDetail struct {
	Student
	BranchName *string `db:"branch_name" json:"branchName,omitempty"`
}

// StudentFilter encapsulates recognized search parameters.
type StudentFilter struct {
	Name         string
	EnrollmentNo *int
	Semester     *int
	BranchID     string
	Page         int
	PageSize     int
}
