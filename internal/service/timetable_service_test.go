package service

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/unicampus/college-api/internal/models"
)

type mockTimetableRepo struct {
	timetables map[string]models.Timetable
	deleted    []string
	seq        int
}

func pairKey(branchID string, semester int) string {
	return fmt.Sprintf("%s|%d", branchID, semester)
}

func (m *mockTimetableRepo) List(ctx context.Context, filter models.TimetableFilter) ([]models.Timetable, error) {
	out := []models.Timetable{}
	for _, tt := range m.timetables {
		out = append(out, tt)
	}
	return out, nil
}

func (m *mockTimetableRepo) FindByID(ctx context.Context, id string) (*models.Timetable, error) {
	for _, tt := range m.timetables {
		if tt.ID == id {
			return &tt, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (m *mockTimetableRepo) FindByBranchSemester(ctx context.Context, branchID string, semester int) (*models.Timetable, error) {
	if tt, ok := m.timetables[pairKey(branchID, semester)]; ok {
		return &tt, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockTimetableRepo) Create(ctx context.Context, timetable *models.Timetable) error {
	if m.timetables == nil {
		m.timetables = make(map[string]models.Timetable)
	}
	if timetable.ID == "" {
		m.seq++
		timetable.ID = fmt.Sprintf("tt-%d", m.seq)
	}
	m.timetables[pairKey(timetable.BranchID, timetable.Semester)] = *timetable
	return nil
}

func (m *mockTimetableRepo) UpdateFile(ctx context.Context, id, fileRef string) error {
	for key, tt := range m.timetables {
		if tt.ID == id {
			tt.FileRef = fileRef
			m.timetables[key] = tt
			return nil
		}
	}
	return sql.ErrNoRows
}

func (m *mockTimetableRepo) Delete(ctx context.Context, id string) error {
	for key, tt := range m.timetables {
		if tt.ID == id {
			delete(m.timetables, key)
		}
	}
	m.deleted = append(m.deleted, id)
	return nil
}

func TestTimetableServiceUpsertCreates(t *testing.T) {
	repo := &mockTimetableRepo{}
	svc := NewTimetableService(repo, validator.New(), zap.NewNop())

	timetable, replaced, err := svc.Upsert(context.Background(), UpsertTimetableRequest{
		BranchID: "branch-1",
		Semester: 3,
		FileRef:  "timetables/sem3.png",
	})
	require.NoError(t, err)
	assert.Empty(t, replaced)
	assert.NotEmpty(t, timetable.ID)
	assert.Len(t, repo.timetables, 1)
}

func TestTimetableServiceUpsertReplacesExisting(t *testing.T) {
	repo := &mockTimetableRepo{}
	svc := NewTimetableService(repo, validator.New(), zap.NewNop())

	first, _, err := svc.Upsert(context.Background(), UpsertTimetableRequest{BranchID: "branch-1", Semester: 3, FileRef: "timetables/v1.png"})
	require.NoError(t, err)

	second, replaced, err := svc.Upsert(context.Background(), UpsertTimetableRequest{BranchID: "branch-1", Semester: 3, FileRef: "timetables/v2.png"})
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID, "the pair stays a single row")
	assert.Equal(t, "timetables/v1.png", replaced)
	assert.Equal(t, "timetables/v2.png", second.FileRef)
	assert.Len(t, repo.timetables, 1)
}

func TestTimetableServiceUpsertRequiresFile(t *testing.T) {
	svc := NewTimetableService(&mockTimetableRepo{}, validator.New(), zap.NewNop())

	_, _, err := svc.Upsert(context.Background(), UpsertTimetableRequest{BranchID: "branch-1", Semester: 3})
	require.Error(t, err)
	assert.Equal(t, http.StatusBadRequest, errorStatus(t, err))
}

func TestTimetableServiceDeleteReturnsFileRef(t *testing.T) {
	repo := &mockTimetableRepo{timetables: map[string]models.Timetable{
		pairKey("branch-1", 3): {ID: "tt-1", BranchID: "branch-1", Semester: 3, FileRef: "timetables/sem3.png"},
	}}
	svc := NewTimetableService(repo, validator.New(), zap.NewNop())

	timetable, err := svc.Delete(context.Background(), "tt-1")
	require.NoError(t, err)
	assert.Equal(t, "timetables/sem3.png", timetable.FileRef)
	assert.Contains(t, repo.deleted, "tt-1")
}

func TestTimetableServiceDeleteMissing(t *testing.T) {
	svc := NewTimetableService(&mockTimetableRepo{}, validator.New(), zap.NewNop())

	_, err := svc.Delete(context.Background(), "ghost")
	require.Error(t, err)
	assert.Equal(t, http.StatusNotFound, errorStatus(t, err))
}
