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

type mockMaterialRepo struct {
	materials map[string]models.Material
	deleted   []string
	seq       int
}

func (m *mockMaterialRepo) List(ctx context.Context, filter models.MaterialFilter) ([]models.Material, error) {
	out := []models.Material{}
	for _, mat := range m.materials {
		out = append(out, mat)
	}
	return out, nil
}

func (m *mockMaterialRepo) FindByID(ctx context.Context, id string) (*models.Material, error) {
	if mat, ok := m.materials[id]; ok {
		return &mat, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockMaterialRepo) Create(ctx context.Context, material *models.Material) error {
	if m.materials == nil {
		m.materials = make(map[string]models.Material)
	}
	if material.ID == "" {
		m.seq++
		material.ID = fmt.Sprintf("mat-%d", m.seq)
	}
	m.materials[material.ID] = *material
	return nil
}

func (m *mockMaterialRepo) Update(ctx context.Context, material *models.Material) error {
	m.materials[material.ID] = *material
	return nil
}

func (m *mockMaterialRepo) Delete(ctx context.Context, id string) error {
	delete(m.materials, id)
	m.deleted = append(m.deleted, id)
	return nil
}

func facultyClaims(id string) *models.JWTClaims {
	return &models.JWTClaims{UserID: id, Role: models.RoleFaculty}
}

func TestMaterialServiceCreateStampsOwner(t *testing.T) {
	repo := &mockMaterialRepo{}
	svc := NewMaterialService(repo, validator.New(), zap.NewNop())

	material, err := svc.Create(context.Background(), facultyClaims("fac-1"), CreateMaterialRequest{
		Title:     "Signals lecture 4",
		SubjectID: "sub-1",
		BranchID:  "branch-1",
		Semester:  3,
		Type:      "notes",
		FileRef:   "materials/lecture4.pdf",
	})
	require.NoError(t, err)
	assert.Equal(t, "fac-1", material.FacultyID)
	assert.Equal(t, models.MaterialTypeNotes, material.Type)
	assert.Len(t, repo.materials, 1)
}

func TestMaterialServiceCreateRejectsUnknownType(t *testing.T) {
	svc := NewMaterialService(&mockMaterialRepo{}, validator.New(), zap.NewNop())

	_, err := svc.Create(context.Background(), facultyClaims("fac-1"), CreateMaterialRequest{
		Title:     "Signals lecture 4",
		SubjectID: "sub-1",
		BranchID:  "branch-1",
		Semester:  3,
		Type:      "video",
		FileRef:   "materials/lecture4.pdf",
	})
	require.Error(t, err)
	assert.Equal(t, http.StatusBadRequest, errorStatus(t, err))
}

func TestMaterialServiceUpdateByNonOwner(t *testing.T) {
	repo := &mockMaterialRepo{materials: map[string]models.Material{
		"mat-1": {ID: "mat-1", Title: "Old", FacultyID: "fac-1"},
	}}
	svc := NewMaterialService(repo, validator.New(), zap.NewNop())

	title := "Hijacked"
	_, err := svc.Update(context.Background(), facultyClaims("fac-2"), "mat-1", UpdateMaterialRequest{Title: &title})
	require.Error(t, err)
	assert.Equal(t, http.StatusUnauthorized, errorStatus(t, err))
	assert.Equal(t, "Old", repo.materials["mat-1"].Title)
}

func TestMaterialServiceUpdateByOwner(t *testing.T) {
	repo := &mockMaterialRepo{materials: map[string]models.Material{
		"mat-1": {ID: "mat-1", Title: "Old", FacultyID: "fac-1", Type: models.MaterialTypeNotes},
	}}
	svc := NewMaterialService(repo, validator.New(), zap.NewNop())

	title := "Revised"
	kind := "assignment"
	material, err := svc.Update(context.Background(), facultyClaims("fac-1"), "mat-1", UpdateMaterialRequest{Title: &title, Type: &kind})
	require.NoError(t, err)
	assert.Equal(t, "Revised", material.Title)
	assert.Equal(t, models.MaterialTypeAssignment, material.Type)
}

func TestMaterialServiceDeleteByNonOwner(t *testing.T) {
	repo := &mockMaterialRepo{materials: map[string]models.Material{
		"mat-1": {ID: "mat-1", FacultyID: "fac-1"},
	}}
	svc := NewMaterialService(repo, validator.New(), zap.NewNop())

	_, err := svc.Delete(context.Background(), facultyClaims("fac-2"), "mat-1")
	require.Error(t, err)
	assert.Equal(t, http.StatusUnauthorized, errorStatus(t, err))
	assert.Contains(t, repo.materials, "mat-1")
}

func TestMaterialServiceDeleteByOwner(t *testing.T) {
	repo := &mockMaterialRepo{materials: map[string]models.Material{
		"mat-1": {ID: "mat-1", FacultyID: "fac-1", FileRef: "materials/lecture4.pdf"},
	}}
	svc := NewMaterialService(repo, validator.New(), zap.NewNop())

	material, err := svc.Delete(context.Background(), facultyClaims("fac-1"), "mat-1")
	require.NoError(t, err)
	assert.Equal(t, "materials/lecture4.pdf", material.FileRef)
	assert.Contains(t, repo.deleted, "mat-1")
}
