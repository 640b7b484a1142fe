package models

import "time"

// Timetable links a (branch, semester) pair to its schedule image. The pair
// is unique; add behaves as an upsert.
type Timetable struct {
	ID        string    `db:"id" json:"id"`
	BranchID  string    `db:"branch_id" json:"branchId"`
	Semester  int       `db:"semester" json:"semester"`
	FileRef   string    `db:"file_ref" json:"link"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt time.Time `db:"updated_at" json:"updatedAt"`
}

// TimetableFilter narrows timetable listings.
type TimetableFilter struct {
	BranchID string
	Semester *int
}
