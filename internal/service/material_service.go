package service

import (
	"context"
	"database/sql"
	"errors"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/unicampus/college-api/internal/models"
	appErrors "github.com/unicampus/college-api/pkg/errors"
)

type materialRepository interface {
	List(ctx context.Context, filter models.MaterialFilter) ([]models.Material, error)
	FindByID(ctx context.Context, id string) (*models.Material, error)
	Create(ctx context.Context, material *models.Material) error
	Update(ctx context.Context, material *models.Material) error
	Delete(ctx context.Context, id string) error
}

// CreateMaterialRequest holds payload for uploading study material. The file
// reference is required and the owner comes from the caller's token.
type CreateMaterialRequest struct {
	Title     string `json:"title" validate:"required"`
	SubjectID string `json:"subjectId" validate:"required"`
	BranchID  string `json:"branchId" validate:"required"`
	Semester  int    `json:"semester" validate:"required,min=1,max=8"`
	Type      string `json:"type" validate:"required,oneof=notes assignment syllabus other"`
	FileRef   string `json:"-" validate:"required"`
}

// UpdateMaterialRequest holds a partial material update.
type UpdateMaterialRequest struct {
	Title     *string `json:"title"`
	SubjectID *string `json:"subjectId"`
	BranchID  *string `json:"branchId"`
	Semester  *int    `json:"semester" validate:"omitempty,min=1,max=8"`
	Type      *string `json:"type" validate:"omitempty,oneof=notes assignment syllabus other"`
	FileRef   *string `json:"-"`
}

// MaterialService handles study material use-cases. Mutation is restricted
// to the uploading faculty member.
type MaterialService struct {
	repo      materialRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewMaterialService constructs the material service.
func NewMaterialService(repo materialRepository, validate *validator.Validate, logger *zap.Logger) *MaterialService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &MaterialService{repo: repo, validator: validate, logger: logger}
}

// List returns study materials. An empty result is a valid empty listing.
func (s *MaterialService) List(ctx context.Context, filter models.MaterialFilter) ([]models.Material, error) {
	materials, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list materials")
	}
	if materials == nil {
		materials = []models.Material{}
	}
	return materials, nil
}

// Get returns one material record.
func (s *MaterialService) Get(ctx context.Context, id string) (*models.Material, error) {
	material, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "material not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load material")
	}
	return material, nil
}

// Create stores a material record owned by the calling faculty member.
func (s *MaterialService) Create(ctx context.Context, claims *models.JWTClaims, req CreateMaterialRequest) (*models.Material, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid material payload")
	}

	material := &models.Material{
		Title:     req.Title,
		SubjectID: req.SubjectID,
		FacultyID: claims.UserID,
		BranchID:  req.BranchID,
		Semester:  req.Semester,
		Type:      models.MaterialType(req.Type),
		FileRef:   req.FileRef,
	}
	if err := s.repo.Create(ctx, material); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create material")
	}
	return material, nil
}

// Update modifies a material record. Only the uploading faculty member may
// change it; anyone else is rejected as unauthorized.
func (s *MaterialService) Update(ctx context.Context, claims *models.JWTClaims, id string, req UpdateMaterialRequest) (*models.Material, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid material payload")
	}

	material, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "material not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load material")
	}
	if material.FacultyID != claims.UserID {
		return nil, appErrors.Clone(appErrors.ErrUnauthorized, "only the uploader can modify this material")
	}

	if req.Title != nil {
		material.Title = *req.Title
	}
	if req.SubjectID != nil {
		material.SubjectID = *req.SubjectID
	}
	if req.BranchID != nil {
		material.BranchID = *req.BranchID
	}
	if req.Semester != nil {
		material.Semester = *req.Semester
	}
	if req.Type != nil {
		material.Type = models.MaterialType(*req.Type)
	}
	if req.FileRef != nil {
		material.FileRef = *req.FileRef
	}

	if err := s.repo.Update(ctx, material); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update material")
	}
	return material, nil
}

// Delete removes a material record. Only the uploader may delete it.
func (s *MaterialService) Delete(ctx context.Context, claims *models.JWTClaims, id string) (*models.Material, error) {
	material, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "material not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load material")
	}
	if material.FacultyID != claims.UserID {
		return nil, appErrors.Clone(appErrors.ErrUnauthorized, "only the uploader can delete this material")
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete material")
	}
	return material, nil
}
