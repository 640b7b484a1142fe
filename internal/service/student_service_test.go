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
	"golang.org/x/crypto/bcrypt"

	"github.com/unicampus/college-api/internal/models"
)

type mockStudentRepo struct {
	students    map[string]models.Student
	takenEmails map[string]string
	takenPhones map[string]string
	existsCalls int
	searchTotal int
	deleted     []string
	seq         int
}

func (m *mockStudentRepo) Search(ctx context.Context, filter models.StudentFilter) ([]models.StudentDetail, int, error) {
	details := make([]models.StudentDetail, 0, len(m.students))
	for _, s := range m.students {
		details = append(details, models.StudentDetail{Student: s})
	}
	return details, m.searchTotal, nil
}

func (m *mockStudentRepo) FindByID(ctx context.Context, id string) (*models.StudentDetail, error) {
	if s, ok := m.students[id]; ok {
		return &models.StudentDetail{Student: s}, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockStudentRepo) ExistsByEmailOrPhone(ctx context.Context, email, phone, excludeID string) (bool, error) {
	m.existsCalls++
	if id, ok := m.takenEmails[email]; ok && id != excludeID {
		return true, nil
	}
	if id, ok := m.takenPhones[phone]; ok && id != excludeID {
		return true, nil
	}
	return false, nil
}

func (m *mockStudentRepo) ExistsByEnrollmentNo(ctx context.Context, enrollmentNo int) (bool, error) {
	return false, nil
}

func (m *mockStudentRepo) Create(ctx context.Context, student *models.Student) error {
	if m.students == nil {
		m.students = make(map[string]models.Student)
	}
	if student.ID == "" {
		m.seq++
		student.ID = fmt.Sprintf("stu-%d", m.seq)
	}
	m.students[student.ID] = *student
	return nil
}

func (m *mockStudentRepo) Update(ctx context.Context, student *models.Student) error {
	m.students[student.ID] = *student
	return nil
}

func (m *mockStudentRepo) Delete(ctx context.Context, id string) error {
	delete(m.students, id)
	m.deleted = append(m.deleted, id)
	return nil
}

type mockMarksRemover struct {
	removedFor []string
}

func (m *mockMarksRemover) DeleteByStudent(ctx context.Context, studentID string) error {
	m.removedFor = append(m.removedFor, studentID)
	return nil
}

func TestStudentServiceRegister(t *testing.T) {
	repo := &mockStudentRepo{}
	svc := NewStudentService(repo, &mockMarksRemover{}, validator.New(), zap.NewNop())

	student, err := svc.Register(context.Background(), RegisterStudentRequest{
		FirstName: "Jane",
		LastName:  "Roe",
		Phone:     "9876500001",
		Semester:  3,
		BranchID:  "branch-1",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, student.ID)
	assert.GreaterOrEqual(t, student.EnrollmentNo, 100000)
	assert.LessOrEqual(t, student.EnrollmentNo, 999999)
	assert.Equal(t, fmt.Sprintf("%d@college.edu", student.EnrollmentNo), student.Email)
	assert.Equal(t, "active", student.Status)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(student.PasswordHash), []byte("student123")))
	assert.Len(t, repo.students, 1)
}

func TestStudentServiceRegisterDuplicatePhone(t *testing.T) {
	repo := &mockStudentRepo{takenPhones: map[string]string{"9876500001": "other"}}
	svc := NewStudentService(repo, &mockMarksRemover{}, validator.New(), zap.NewNop())

	_, err := svc.Register(context.Background(), RegisterStudentRequest{
		FirstName: "Jane",
		LastName:  "Roe",
		Phone:     "9876500001",
		Semester:  3,
		BranchID:  "branch-1",
	})
	require.Error(t, err)
	assert.Equal(t, http.StatusConflict, errorStatus(t, err))
	assert.Empty(t, repo.students)
}

func TestStudentServiceRegisterMissingFields(t *testing.T) {
	svc := NewStudentService(&mockStudentRepo{}, &mockMarksRemover{}, validator.New(), zap.NewNop())

	_, err := svc.Register(context.Background(), RegisterStudentRequest{FirstName: "Jane"})
	require.Error(t, err)
	assert.Equal(t, http.StatusBadRequest, errorStatus(t, err))
}

func TestStudentServiceSearchEmpty(t *testing.T) {
	svc := NewStudentService(&mockStudentRepo{}, &mockMarksRemover{}, validator.New(), zap.NewNop())

	_, _, err := svc.Search(context.Background(), models.StudentFilter{Name: "nobody"})
	require.Error(t, err)
	assert.Equal(t, http.StatusNotFound, errorStatus(t, err))
}

func TestStudentServiceSearchPagination(t *testing.T) {
	repo := &mockStudentRepo{
		students:    map[string]models.Student{"stu-1": {ID: "stu-1", FirstName: "Jane"}},
		searchTotal: 41,
	}
	svc := NewStudentService(repo, &mockMarksRemover{}, validator.New(), zap.NewNop())

	students, pagination, err := svc.Search(context.Background(), models.StudentFilter{Page: 2, PageSize: 20})
	require.NoError(t, err)
	assert.Len(t, students, 1)
	assert.Equal(t, 2, pagination.Page)
	assert.Equal(t, 20, pagination.PageSize)
	assert.Equal(t, 41, pagination.TotalCount)
}

func TestStudentServiceUpdatePartial(t *testing.T) {
	repo := &mockStudentRepo{
		students: map[string]models.Student{"stu-1": {ID: "stu-1", FirstName: "Jane", LastName: "Roe", Email: "100001@college.edu", Phone: "9876500001", Semester: 3}},
	}
	svc := NewStudentService(repo, &mockMarksRemover{}, validator.New(), zap.NewNop())

	name := "Janet"
	updated, err := svc.Update(context.Background(), "stu-1", UpdateStudentRequest{FirstName: &name})
	require.NoError(t, err)
	assert.Equal(t, "Janet", updated.FirstName)
	assert.Equal(t, "100001@college.edu", updated.Email)
	assert.Equal(t, 0, repo.existsCalls, "contact check should be skipped when email and phone are untouched")
}

func TestStudentServiceUpdateEmailConflict(t *testing.T) {
	repo := &mockStudentRepo{
		students:    map[string]models.Student{"stu-1": {ID: "stu-1", FirstName: "Jane", Email: "100001@college.edu", Phone: "9876500001"}},
		takenEmails: map[string]string{"taken@college.edu": "other"},
	}
	svc := NewStudentService(repo, &mockMarksRemover{}, validator.New(), zap.NewNop())

	email := "taken@college.edu"
	_, err := svc.Update(context.Background(), "stu-1", UpdateStudentRequest{Email: &email})
	require.Error(t, err)
	assert.Equal(t, http.StatusConflict, errorStatus(t, err))
}

func TestStudentServiceUpdateRehashesPassword(t *testing.T) {
	repo := &mockStudentRepo{
		students: map[string]models.Student{"stu-1": {ID: "stu-1", FirstName: "Jane", PasswordHash: "old-hash"}},
	}
	svc := NewStudentService(repo, &mockMarksRemover{}, validator.New(), zap.NewNop())

	password := "replacement1"
	updated, err := svc.Update(context.Background(), "stu-1", UpdateStudentRequest{Password: &password})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(updated.PasswordHash, "$2"))
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(updated.PasswordHash), []byte("replacement1")))
}

func TestStudentServiceDeleteCascadesMarks(t *testing.T) {
	repo := &mockStudentRepo{
		students: map[string]models.Student{"stu-1": {ID: "stu-1", FirstName: "Jane"}},
	}
	marks := &mockMarksRemover{}
	svc := NewStudentService(repo, marks, validator.New(), zap.NewNop())

	deleted, err := svc.Delete(context.Background(), "stu-1")
	require.NoError(t, err)
	assert.Equal(t, "stu-1", deleted.ID)
	assert.Contains(t, marks.removedFor, "stu-1")
	assert.Contains(t, repo.deleted, "stu-1")
}

func TestStudentServiceDeleteMissing(t *testing.T) {
	svc := NewStudentService(&mockStudentRepo{}, &mockMarksRemover{}, validator.New(), zap.NewNop())

	_, err := svc.Delete(context.Background(), "ghost")
	require.Error(t, err)
	assert.Equal(t, http.StatusNotFound, errorStatus(t, err))
}

func TestStudentServiceMyDetailsRequiresStudentRole(t *testing.T) {
	svc := NewStudentService(&mockStudentRepo{}, &mockMarksRemover{}, validator.New(), zap.NewNop())

	_, err := svc.MyDetails(context.Background(), &models.JWTClaims{UserID: "fac-1", Role: models.RoleFaculty})
	require.Error(t, err)
	assert.Equal(t, http.StatusForbidden, errorStatus(t, err))
}
