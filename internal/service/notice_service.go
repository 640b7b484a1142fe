package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/unicampus/college-api/internal/models"
	appErrors "github.com/unicampus/college-api/pkg/errors"
)

const noticeCachePrefix = "notices"

type noticeRepository interface {
	List(ctx context.Context, filter models.NoticeFilter) ([]models.Notice, error)
	FindByID(ctx context.Context, id string) (*models.Notice, error)
	Create(ctx context.Context, notice *models.Notice) error
	Update(ctx context.Context, notice *models.Notice) error
	Delete(ctx context.Context, id string) error
}

// CreateNoticeRequest holds payload for publishing a notice.
type CreateNoticeRequest struct {
	Title       string `json:"title" validate:"required"`
	Description string `json:"description" validate:"required"`
	Audience    string `json:"type" validate:"required,notice_audience"`
}

// UpdateNoticeRequest holds a partial notice update.
type UpdateNoticeRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Audience    *string `json:"type" validate:"omitempty,notice_audience"`
}

// NoticeService handles broadcast announcements. Listings are cached; every
// write invalidates the whole notice keyspace.
type NoticeService struct {
	repo      noticeRepository
	cache     *CacheService
	validator *validator.Validate
	logger    *zap.Logger
}

// NewNoticeService constructs the notice service and registers the audience
// validation rule.
func NewNoticeService(repo noticeRepository, cache *CacheService, validate *validator.Validate, logger *zap.Logger) *NoticeService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	_ = validate.RegisterValidation("notice_audience", func(fl validator.FieldLevel) bool {
		switch models.NoticeAudience(fl.Field().String()) {
		case models.NoticeAudienceStudent, models.NoticeAudienceFaculty, models.NoticeAudienceBoth:
			return true
		}
		return false
	})
	return &NoticeService{repo: repo, cache: cache, validator: validate, logger: logger}
}

// List returns notices visible to the requested audience. Notices addressed
// to both roles are always included. An empty result is a valid listing.
func (s *NoticeService) List(ctx context.Context, filter models.NoticeFilter) ([]models.Notice, error) {
	cacheKey := fmt.Sprintf("%s:audience:%s", noticeCachePrefix, filter.Audience)
	var notices []models.Notice
	if s.cache.Get(ctx, cacheKey, &notices) {
		return notices, nil
	}

	notices, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list notices")
	}
	if notices == nil {
		notices = []models.Notice{}
	}
	s.cache.Set(ctx, cacheKey, notices)
	return notices, nil
}

// Get returns one notice.
func (s *NoticeService) Get(ctx context.Context, id string) (*models.Notice, error) {
	notice, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "notice not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load notice")
	}
	return notice, nil
}

// Create publishes a notice.
func (s *NoticeService) Create(ctx context.Context, req CreateNoticeRequest) (*models.Notice, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid notice payload")
	}

	notice := &models.Notice{
		Title:       req.Title,
		Description: req.Description,
		Audience:    models.NoticeAudience(req.Audience),
	}
	if err := s.repo.Create(ctx, notice); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create notice")
	}
	s.cache.Invalidate(ctx, noticeCachePrefix+":*")
	return notice, nil
}

// Update modifies an existing notice.
func (s *NoticeService) Update(ctx context.Context, id string, req UpdateNoticeRequest) (*models.Notice, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid notice payload")
	}

	notice, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "notice not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load notice")
	}

	if req.Title != nil {
		notice.Title = *req.Title
	}
	if req.Description != nil {
		notice.Description = *req.Description
	}
	if req.Audience != nil {
		notice.Audience = models.NoticeAudience(*req.Audience)
	}

	if err := s.repo.Update(ctx, notice); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update notice")
	}
	s.cache.Invalidate(ctx, noticeCachePrefix+":*")
	return notice, nil
}

// Delete removes a notice permanently.
func (s *NoticeService) Delete(ctx context.Context, id string) (*models.Notice, error) {
	notice, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "notice not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load notice")
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete notice")
	}
	s.cache.Invalidate(ctx, noticeCachePrefix+":*")
	return notice, nil
}
