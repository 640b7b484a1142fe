package models

import "time"

// Marks records a single student's score for one subject in one exam. A row
// is logically singular per (student, subject, exam, semester); the service
// enforces that with a find-then-create-or-update, not a database constraint.
type Marks struct {
	ID            string    `db:"id" json:"id"`
	StudentID     string    `db:"student_id" json:"studentId"`
	SubjectID     string    `db:"subject_id" json:"subjectId"`
	ExamID        string    `db:"exam_id" json:"examId"`
	Semester      int       `db:"semester" json:"semester"`
	MarksObtained float64   `db:"marks_obtained" json:"marksObtained"`
	CreatedAt     time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt     time.Time `db:"updated_at" json:"updatedAt"`
}

// GradebookRow joins the class roster with scores for one exam+subject.
// Students without a Marks record appear with ObtainedMarks zero.
type GradebookRow struct {
	StudentID     string  `json:"studentId"`
	EnrollmentNo  int     `json:"enrollmentNo"`
	Name          string  `json:"name"`
	ObtainedMarks float64 `json:"obtainedMarks"`
}

// MarksFilter narrows marks listings.
type MarksFilter struct {
	StudentID string
	SubjectID string
	ExamID    string
	Semester  *int
}
