package handler

import (
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/unicampus/college-api/internal/middleware"
	"github.com/unicampus/college-api/internal/models"
	"github.com/unicampus/college-api/internal/service"
)

type responseEnvelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

type fakeMarksRepo struct {
	records    []models.Marks
	lastFilter models.MarksFilter
}

func (f *fakeMarksRepo) FindByComposite(ctx context.Context, studentID, subjectID, examID string, semester int) (*models.Marks, error) {
	return nil, sql.ErrNoRows
}

func (f *fakeMarksRepo) List(ctx context.Context, filter models.MarksFilter) ([]models.Marks, error) {
	f.lastFilter = filter
	return f.records, nil
}

func (f *fakeMarksRepo) ListForExamSubject(ctx context.Context, examID, subjectID string, semester int, studentIDs []string) ([]models.Marks, error) {
	return f.records, nil
}

func (f *fakeMarksRepo) Create(ctx context.Context, m *models.Marks) error {
	if m.ID == "" {
		m.ID = "marks-1"
	}
	f.records = append(f.records, *m)
	return nil
}

func (f *fakeMarksRepo) UpdateObtained(ctx context.Context, id string, marksObtained float64) error {
	return nil
}

type fakeRoster struct {
	students []models.Student
}

func (f *fakeRoster) ListByBranchSemester(ctx context.Context, branchID string, semester int) ([]models.Student, error) {
	return f.students, nil
}

func newMarksHandler(repo *fakeMarksRepo, roster *fakeRoster) *MarksHandler {
	return NewMarksHandler(service.NewMarksService(repo, roster, nil, nil))
}

func TestMarksHandlerListScopesStudentToSelf(t *testing.T) {
	gin.SetMode(gin.TestMode)
	repo := &fakeMarksRepo{}
	handler := newMarksHandler(repo, &fakeRoster{})

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/marks?student=stu-2", nil)
	c.Set(middleware.ContextUserKey, &models.JWTClaims{UserID: "stu-1", Role: models.RoleStudent})

	handler.List(c)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "stu-1", repo.lastFilter.StudentID, "student callers never read other students' scores")
}

func TestMarksHandlerListKeepsStaffFilter(t *testing.T) {
	gin.SetMode(gin.TestMode)
	repo := &fakeMarksRepo{}
	handler := newMarksHandler(repo, &fakeRoster{})

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/marks?student=stu-2&semester=3", nil)
	c.Set(middleware.ContextUserKey, &models.JWTClaims{UserID: "fac-1", Role: models.RoleFaculty})

	handler.List(c)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "stu-2", repo.lastFilter.StudentID)
	require.NotNil(t, repo.lastFilter.Semester)
	assert.Equal(t, 3, *repo.lastFilter.Semester)
}

func TestMarksHandlerAddBulkInvalidBody(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := newMarksHandler(&fakeMarksRepo{}, &fakeRoster{})

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodPost, "/marks/bulk", strings.NewReader("not-json"))
	c.Request.Header.Set("Content-Type", "application/json")

	handler.AddBulk(c)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	var envelope responseEnvelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	assert.False(t, envelope.Success)
}

func TestMarksHandlerAddBulk(t *testing.T) {
	gin.SetMode(gin.TestMode)
	repo := &fakeMarksRepo{}
	handler := newMarksHandler(repo, &fakeRoster{})

	body := `{"subjectId":"sub-1","examId":"exam-1","semester":3,"marks":[{"studentId":"stu-1","marksObtained":88}]}`
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodPost, "/marks/bulk", strings.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")

	handler.AddBulk(c)

	assert.Equal(t, http.StatusOK, rec.Code)
	var envelope responseEnvelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	assert.True(t, envelope.Success)
	assert.Equal(t, "marks recorded", envelope.Message)
	assert.Len(t, repo.records, 1)
}

func TestMarksHandlerExportUnknownFormat(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := newMarksHandler(&fakeMarksRepo{}, &fakeRoster{})

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/marks/gradebook/export?branch=branch-1&semester=3&subject=sub-1&exam=exam-1&format=xlsx", nil)

	handler.Export(c)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	var envelope responseEnvelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	assert.Equal(t, "format must be csv or pdf", envelope.Message)
}

func TestMarksHandlerExportCSV(t *testing.T) {
	gin.SetMode(gin.TestMode)
	roster := &fakeRoster{students: []models.Student{{ID: "stu-1", EnrollmentNo: 100001, FirstName: "Jane", LastName: "Roe"}}}
	handler := newMarksHandler(&fakeMarksRepo{}, roster)

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/marks/gradebook/export?branch=branch-1&semester=3&subject=sub-1&exam=exam-1", nil)

	handler.Export(c)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/csv", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "gradebook-sem3.csv")
	assert.Contains(t, rec.Body.String(), "Enrollment No,Name,Obtained Marks")
	assert.Contains(t, rec.Body.String(), "Jane Roe")
}
