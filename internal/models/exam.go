package models

import "time"

// ExamType distinguishes the two examination flavours.
type ExamType string

const (
	ExamTypeMid ExamType = "mid"
	ExamTypeEnd ExamType = "end"
)

// Exam represents a scheduled examination.
type Exam struct {
	ID         string    `db:"id" json:"id"`
	Name       string    `db:"name" json:"name"`
	Date       time.Time `db:"date" json:"date"`
	Semester   int       `db:"semester" json:"semester"`
	ExamType   ExamType  `db:"exam_type" json:"examType"`
	TotalMarks int       `db:"total_marks" json:"totalMarks"`
	FileRef    string    `db:"file_ref" json:"timetableLink,omitempty"`
	CreatedAt  time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt  time.Time `db:"updated_at" json:"updatedAt"`
}

// ExamFilter narrows exam listings.
type ExamFilter struct {
	Semester *int
	ExamType string
}
