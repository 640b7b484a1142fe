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

type timetableRepository interface {
	List(ctx context.Context, filter models.TimetableFilter) ([]models.Timetable, error)
	FindByID(ctx context.Context, id string) (*models.Timetable, error)
	FindByBranchSemester(ctx context.Context, branchID string, semester int) (*models.Timetable, error)
	Create(ctx context.Context, timetable *models.Timetable) error
	UpdateFile(ctx context.Context, id, fileRef string) error
	Delete(ctx context.Context, id string) error
}

// UpsertTimetableRequest holds payload for publishing a schedule. The file
// reference is required; a schedule without its image is meaningless.
type UpsertTimetableRequest struct {
	BranchID string `json:"branchId" validate:"required"`
	Semester int    `json:"semester" validate:"required,min=1,max=8"`
	FileRef  string `json:"-" validate:"required"`
}

// TimetableService handles schedule use-cases.
type TimetableService struct {
	repo      timetableRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewTimetableService constructs the timetable service.
func NewTimetableService(repo timetableRepository, validate *validator.Validate, logger *zap.Logger) *TimetableService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TimetableService{repo: repo, validator: validate, logger: logger}
}

// List returns timetables. An empty result is a valid empty listing.
func (s *TimetableService) List(ctx context.Context, filter models.TimetableFilter) ([]models.Timetable, error) {
	timetables, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list timetables")
	}
	if timetables == nil {
		timetables = []models.Timetable{}
	}
	return timetables, nil
}

// Get returns one timetable.
func (s *TimetableService) Get(ctx context.Context, id string) (*models.Timetable, error) {
	timetable, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "timetable not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load timetable")
	}
	return timetable, nil
}

// Upsert publishes a schedule for a branch and semester. When one already
// exists for the pair, its file is replaced instead of adding a second row.
// The replaced file reference is returned so the caller can remove the blob.
func (s *TimetableService) Upsert(ctx context.Context, req UpsertTimetableRequest) (*models.Timetable, string, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, "", appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid timetable payload")
	}

	existing, err := s.repo.FindByBranchSemester(ctx, req.BranchID, req.Semester)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load timetable")
	}

	if existing != nil {
		replaced := existing.FileRef
		if err := s.repo.UpdateFile(ctx, existing.ID, req.FileRef); err != nil {
			return nil, "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to replace timetable")
		}
		existing.FileRef = req.FileRef
		return existing, replaced, nil
	}

	timetable := &models.Timetable{
		BranchID: req.BranchID,
		Semester: req.Semester,
		FileRef:  req.FileRef,
	}
	if err := s.repo.Create(ctx, timetable); err != nil {
		return nil, "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create timetable")
	}
	return timetable, "", nil
}

// Delete removes a timetable permanently. The stored file reference is
// returned so the caller can remove the blob.
func (s *TimetableService) Delete(ctx context.Context, id string) (*models.Timetable, error) {
	timetable, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "timetable not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load timetable")
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete timetable")
	}
	return timetable, nil
}
