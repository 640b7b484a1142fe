package models

import "time"

// Subject represents a course taught within a branch and semester.
type Subject struct {
	ID        string    `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	Code      string    `db:"code" json:"code"`
	BranchID  string    `db:"branch_id" json:"branchId"`
	Semester  int       `db:"semester" json:"semester"`
	Credits   int       `db:"credits" json:"credits"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt time.Time `db:"updated_at" json:"updatedAt"`
}

// SubjectDetail carries a subject joined with its branch.
type SubjectDetail struct {
	Subject
	BranchName *string `db:"branch_name" json:"branchName,omitempty"`
}

// SubjectFilter narrows subject listings.
type SubjectFilter struct {
	BranchID string
	Semester *int
}
