package models

import "time"

// MaterialType enumerates study material categories.
type MaterialType string

const (
	MaterialTypeNotes      MaterialType = "notes"
	MaterialTypeAssignment MaterialType = "assignment"
	MaterialTypeSyllabus   MaterialType = "syllabus"
	MaterialTypeOther      MaterialType = "other"
)

// Material represents a study material uploaded by a faculty member. The
// faculty field is the owner; only the owner may mutate the record.
type Material struct {
	ID        string       `db:"id" json:"id"`
	Title     string       `db:"title" json:"title"`
	SubjectID string       `db:"subject_id" json:"subjectId"`
	FacultyID string       `db:"faculty_id" json:"facultyId"`
	BranchID  string       `db:"branch_id" json:"branchId"`
	Semester  int          `db:"semester" json:"semester"`
	Type      MaterialType `db:"type" json:"type"`
	FileRef   string       `db:"file_ref" json:"file"`
	CreatedAt time.Time    `db:"created_at" json:"createdAt"`
	UpdatedAt time.Time    `db:"updated_at" json:"updatedAt"`
}

// MaterialFilter narrows material listings.
type MaterialFilter struct {
	SubjectID string
	BranchID  string
	FacultyID string
	Semester  *int
	Type      string
}
