package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/unicampus/college-api/internal/models"
	appErrors "github.com/unicampus/college-api/pkg/errors"
)

const defaultAdminPassword = "admin123"

type adminRepository interface {
	Search(ctx context.Context, filter models.AdminFilter) ([]models.Admin, int, error)
	FindByID(ctx context.Context, id string) (*models.Admin, error)
	ExistsByEmailOrPhone(ctx context.Context, email, phone, excludeID string) (bool, error)
	ExistsByEmployeeID(ctx context.Context, employeeID int) (bool, error)
	Create(ctx context.Context, admin *models.Admin) error
	Update(ctx context.Context, admin *models.Admin) error
	Delete(ctx context.Context, id string) error
}

// RegisterAdminRequest holds payload for registering an admin. The employee
// id, email, and initial password are system assigned.
type RegisterAdminRequest struct {
	FirstName    string     `json:"firstName" validate:"required"`
	MiddleName   string     `json:"middleName"`
	LastName     string     `json:"lastName" validate:"required"`
	Phone        string     `json:"phone" validate:"required"`
	Gender       string     `json:"gender"`
	DOB          *time.Time `json:"dob"`
	Address      string     `json:"address"`
	City         string     `json:"city"`
	State        string     `json:"state"`
	Pincode      string     `json:"pincode"`
	Country      string     `json:"country"`
	IsSuperAdmin bool       `json:"isSuperAdmin"`
	ProfileRef   string     `json:"-"`
}

// UpdateAdminRequest holds a partial update. Nil fields are untouched.
type UpdateAdminRequest struct {
	FirstName    *string    `json:"firstName"`
	MiddleName   *string    `json:"middleName"`
	LastName     *string    `json:"lastName"`
	Email        *string    `json:"email" validate:"omitempty,email"`
	Phone        *string    `json:"phone"`
	Gender       *string    `json:"gender"`
	DOB          *time.Time `json:"dob"`
	Address      *string    `json:"address"`
	City         *string    `json:"city"`
	State        *string    `json:"state"`
	Pincode      *string    `json:"pincode"`
	Country      *string    `json:"country"`
	IsSuperAdmin *bool      `json:"isSuperAdmin"`
	Password     *string    `json:"password" validate:"omitempty,min=8"`
	ProfileRef   *string    `json:"-"`
}

// AdminService handles admin account use-cases.
type AdminService struct {
	repo      adminRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewAdminService constructs the admin service.
func NewAdminService(repo adminRepository, validate *validator.Validate, logger *zap.Logger) *AdminService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AdminService{repo: repo, validator: validate, logger: logger}
}

// Search returns admins matching the filters. Zero matches is reported as
// not found rather than an empty collection.
func (s *AdminService) Search(ctx context.Context, filter models.AdminFilter) ([]models.Admin, *models.Pagination, error) {
	admins, total, err := s.repo.Search(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to search admins")
	}
	if len(admins) == 0 {
		return nil, nil, appErrors.Clone(appErrors.ErrNotFound, "no admins found")
	}
	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 {
		size = 20
	}
	return admins, &models.Pagination{Page: page, PageSize: size, TotalCount: total}, nil
}

// Get returns one admin account.
func (s *AdminService) Get(ctx context.Context, id string) (*models.Admin, error) {
	admin, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "admin not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load admin")
	}
	return admin, nil
}

// Register creates an admin with a generated employee id, an email derived
// from it, and the default initial password.
func (s *AdminService) Register(ctx context.Context, req RegisterAdminRequest) (*models.Admin, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid admin payload")
	}

	employeeID := randomSixDigit()
	email := fmt.Sprintf("%d@%s", employeeID, generatedEmailDomain)

	exists, err := s.repo.ExistsByEmailOrPhone(ctx, email, req.Phone, "")
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to validate contact details")
	}
	if exists {
		return nil, appErrors.Clone(appErrors.ErrConflict, "admin with this email or phone already exists")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(defaultAdminPassword), bcrypt.DefaultCost)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to hash password")
	}

	admin := &models.Admin{
		EmployeeID:   employeeID,
		FirstName:    req.FirstName,
		MiddleName:   req.MiddleName,
		LastName:     req.LastName,
		Email:        email,
		Phone:        req.Phone,
		Gender:       req.Gender,
		DOB:          req.DOB,
		Address:      req.Address,
		City:         req.City,
		State:        req.State,
		Pincode:      req.Pincode,
		Country:      req.Country,
		IsSuperAdmin: req.IsSuperAdmin,
		ProfileRef:   req.ProfileRef,
		PasswordHash: string(hash),
	}
	if err := s.repo.Create(ctx, admin); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create admin")
	}

	s.logger.Info("admin registered", zap.Int("employee_id", employeeID), zap.String("id", admin.ID))
	return admin, nil
}

// Update applies a partial update to an admin account.
func (s *AdminService) Update(ctx context.Context, id string, req UpdateAdminRequest) (*models.Admin, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid admin payload")
	}

	admin, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "admin not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load admin")
	}

	if req.FirstName != nil {
		admin.FirstName = *req.FirstName
	}
	if req.MiddleName != nil {
		admin.MiddleName = *req.MiddleName
	}
	if req.LastName != nil {
		admin.LastName = *req.LastName
	}
	if req.Email != nil {
		admin.Email = *req.Email
	}
	if req.Phone != nil {
		admin.Phone = *req.Phone
	}
	if req.Gender != nil {
		admin.Gender = *req.Gender
	}
	if req.DOB != nil {
		admin.DOB = req.DOB
	}
	if req.Address != nil {
		admin.Address = *req.Address
	}
	if req.City != nil {
		admin.City = *req.City
	}
	if req.State != nil {
		admin.State = *req.State
	}
	if req.Pincode != nil {
		admin.Pincode = *req.Pincode
	}
	if req.Country != nil {
		admin.Country = *req.Country
	}
	if req.IsSuperAdmin != nil {
		admin.IsSuperAdmin = *req.IsSuperAdmin
	}
	if req.ProfileRef != nil {
		admin.ProfileRef = *req.ProfileRef
	}

	if req.Email != nil || req.Phone != nil {
		exists, err := s.repo.ExistsByEmailOrPhone(ctx, admin.Email, admin.Phone, id)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to validate contact details")
		}
		if exists {
			return nil, appErrors.Clone(appErrors.ErrConflict, "another admin already uses this email or phone")
		}
	}

	if req.Password != nil {
		hash, err := bcrypt.GenerateFromPassword([]byte(*req.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to hash password")
		}
		admin.PasswordHash = string(hash)
	}

	if err := s.repo.Update(ctx, admin); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update admin")
	}
	return admin, nil
}

// Delete removes an admin account permanently.
func (s *AdminService) Delete(ctx context.Context, id string) (*models.Admin, error) {
	admin, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "admin not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load admin")
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete admin")
	}
	return admin, nil
}

// MyDetails returns the profile of the authenticated admin.
func (s *AdminService) MyDetails(ctx context.Context, claims *models.JWTClaims) (*models.Admin, error) {
	if claims == nil || claims.Role != models.RoleAdmin {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "admin account required")
	}
	return s.Get(ctx, claims.UserID)
}
