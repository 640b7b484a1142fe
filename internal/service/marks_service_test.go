package service

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"strings"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/unicampus/college-api/internal/models"
)

type mockMarksRepo struct {
	records map[string]models.Marks
	seq     int
	creates int
	updates int
}

func marksKey(studentID, subjectID, examID string, semester int) string {
	return fmt.Sprintf("%s|%s|%s|%d", studentID, subjectID, examID, semester)
}

func (m *mockMarksRepo) FindByComposite(ctx context.Context, studentID, subjectID, examID string, semester int) (*models.Marks, error) {
	if r, ok := m.records[marksKey(studentID, subjectID, examID, semester)]; ok {
		return &r, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockMarksRepo) List(ctx context.Context, filter models.MarksFilter) ([]models.Marks, error) {
	out := []models.Marks{}
	for _, r := range m.records {
		if filter.StudentID != "" && r.StudentID != filter.StudentID {
			continue
		}
		out = append(out, r)
	}
	return out, nil
}

func (m *mockMarksRepo) ListForExamSubject(ctx context.Context, examID, subjectID string, semester int, studentIDs []string) ([]models.Marks, error) {
	wanted := make(map[string]bool, len(studentIDs))
	for _, id := range studentIDs {
		wanted[id] = true
	}
	var out []models.Marks
	for _, r := range m.records {
		if r.ExamID == examID && r.SubjectID == subjectID && r.Semester == semester && wanted[r.StudentID] {
			out = append(out, r)
		}
	}
	return out, nil
}

func (m *mockMarksRepo) Create(ctx context.Context, record *models.Marks) error {
	if m.records == nil {
		m.records = make(map[string]models.Marks)
	}
	if record.ID == "" {
		m.seq++
		record.ID = fmt.Sprintf("marks-%d", m.seq)
	}
	m.creates++
	m.records[marksKey(record.StudentID, record.SubjectID, record.ExamID, record.Semester)] = *record
	return nil
}

func (m *mockMarksRepo) UpdateObtained(ctx context.Context, id string, marksObtained float64) error {
	for key, r := range m.records {
		if r.ID == id {
			r.MarksObtained = marksObtained
			m.records[key] = r
			m.updates++
			return nil
		}
	}
	return sql.ErrNoRows
}

type mockRoster struct {
	students []models.Student
}

func (m *mockRoster) ListByBranchSemester(ctx context.Context, branchID string, semester int) ([]models.Student, error) {
	return m.students, nil
}

func TestMarksServiceAddBulkCreatesAndKeepsOrder(t *testing.T) {
	repo := &mockMarksRepo{}
	svc := NewMarksService(repo, &mockRoster{}, validator.New(), zap.NewNop())

	results, err := svc.AddBulk(context.Background(), BulkMarksRequest{
		SubjectID: "sub-1",
		ExamID:    "exam-1",
		Semester:  3,
		Entries: []BulkMarksEntry{
			{StudentID: "stu-2", MarksObtained: 71},
			{StudentID: "stu-1", MarksObtained: 88},
		},
	})
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, "stu-2", results[0].StudentID)
	assert.Equal(t, "stu-1", results[1].StudentID)
	assert.Equal(t, 2, repo.creates)
	assert.Equal(t, 0, repo.updates)
}

func TestMarksServiceAddBulkIsIdempotent(t *testing.T) {
	repo := &mockMarksRepo{}
	svc := NewMarksService(repo, &mockRoster{}, validator.New(), zap.NewNop())
	req := BulkMarksRequest{
		SubjectID: "sub-1",
		ExamID:    "exam-1",
		Semester:  3,
		Entries:   []BulkMarksEntry{{StudentID: "stu-1", MarksObtained: 88}},
	}

	_, err := svc.AddBulk(context.Background(), req)
	require.NoError(t, err)

	req.Entries[0].MarksObtained = 92
	results, err := svc.AddBulk(context.Background(), req)
	require.NoError(t, err)

	require.Len(t, repo.records, 1)
	assert.Equal(t, float64(92), results[0].MarksObtained)
	assert.Equal(t, 1, repo.creates)
	assert.Equal(t, 1, repo.updates)
}

func TestMarksServiceAddBulkRejectsEmpty(t *testing.T) {
	svc := NewMarksService(&mockMarksRepo{}, &mockRoster{}, validator.New(), zap.NewNop())

	_, err := svc.AddBulk(context.Background(), BulkMarksRequest{SubjectID: "sub-1", ExamID: "exam-1", Semester: 3})
	require.Error(t, err)
	assert.Equal(t, http.StatusBadRequest, errorStatus(t, err))
}

func TestMarksServiceGradebookFillsMissingScores(t *testing.T) {
	repo := &mockMarksRepo{}
	roster := &mockRoster{students: []models.Student{
		{ID: "stu-1", EnrollmentNo: 100001, FirstName: "Jane", LastName: "Roe"},
		{ID: "stu-2", EnrollmentNo: 100002, FirstName: "John", MiddleName: "Q", LastName: "Public"},
		{ID: "stu-3", EnrollmentNo: 100003, FirstName: "Ada"},
	}}
	svc := NewMarksService(repo, roster, validator.New(), zap.NewNop())

	_, err := svc.AddBulk(context.Background(), BulkMarksRequest{
		SubjectID: "sub-1",
		ExamID:    "exam-1",
		Semester:  3,
		Entries: []BulkMarksEntry{
			{StudentID: "stu-1", MarksObtained: 88},
			{StudentID: "stu-2", MarksObtained: 71.5},
		},
	})
	require.NoError(t, err)

	rows, err := svc.Gradebook(context.Background(), GradebookRequest{BranchID: "branch-1", Semester: 3, SubjectID: "sub-1", ExamID: "exam-1"})
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "Jane Roe", rows[0].Name)
	assert.Equal(t, float64(88), rows[0].ObtainedMarks)
	assert.Equal(t, "John Q Public", rows[1].Name)
	assert.Equal(t, 71.5, rows[1].ObtainedMarks)
	assert.Equal(t, "Ada", rows[2].Name)
	assert.Zero(t, rows[2].ObtainedMarks)
}

func TestMarksServiceGradebookEmptyRoster(t *testing.T) {
	svc := NewMarksService(&mockMarksRepo{}, &mockRoster{}, validator.New(), zap.NewNop())

	_, err := svc.Gradebook(context.Background(), GradebookRequest{BranchID: "branch-1", Semester: 3, SubjectID: "sub-1", ExamID: "exam-1"})
	require.Error(t, err)
	assert.Equal(t, http.StatusNotFound, errorStatus(t, err))
}

func TestMarksServiceGradebookCSV(t *testing.T) {
	roster := &mockRoster{students: []models.Student{{ID: "stu-1", EnrollmentNo: 100001, FirstName: "Jane", LastName: "Roe"}}}
	svc := NewMarksService(&mockMarksRepo{}, roster, validator.New(), zap.NewNop())

	payload, err := svc.GradebookCSV(context.Background(), GradebookRequest{BranchID: "branch-1", Semester: 3, SubjectID: "sub-1", ExamID: "exam-1"})
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(string(payload)), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "Enrollment No,Name,Obtained Marks", lines[0])
	assert.Equal(t, "100001,Jane Roe,0", lines[1])
}

func TestMarksServiceListFiltersNilToEmpty(t *testing.T) {
	svc := NewMarksService(&mockMarksRepo{}, &mockRoster{}, validator.New(), zap.NewNop())

	marks, err := svc.List(context.Background(), models.MarksFilter{StudentID: "stu-1"})
	require.NoError(t, err)
	assert.NotNil(t, marks)
	assert.Empty(t, marks)
}
