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

const defaultFacultyPassword = "faculty123"

type facultyRepository interface {
	Search(ctx context.Context, filter models.FacultyFilter) ([]models.FacultyDetail, int, error)
	FindByID(ctx context.Context, id string) (*models.FacultyDetail, error)
	ExistsByEmailOrPhone(ctx context.Context, email, phone, excludeID string) (bool, error)
	ExistsByEmployeeID(ctx context.Context, employeeID int) (bool, error)
	Create(ctx context.Context, faculty *models.Faculty) error
	Update(ctx context.Context, faculty *models.Faculty) error
	Delete(ctx context.Context, id string) error
}

// RegisterFacultyRequest holds payload for registering faculty. The employee
// id, email, and initial password are system assigned.
type RegisterFacultyRequest struct {
	FirstName   string     `json:"firstName" validate:"required"`
	MiddleName  string     `json:"middleName"`
	LastName    string     `json:"lastName" validate:"required"`
	Phone       string     `json:"phone" validate:"required"`
	BranchID    string     `json:"branchId" validate:"required"`
	Designation string     `json:"designation" validate:"required"`
	Salary      float64    `json:"salary"`
	JoiningDate *time.Time `json:"joiningDate"`
	Gender      string     `json:"gender"`
	DOB         *time.Time `json:"dob"`
	Address     string     `json:"address"`
	City        string     `json:"city"`
	State       string     `json:"state"`
	Pincode     string     `json:"pincode"`
	Country     string     `json:"country"`
	ProfileRef  string     `json:"-"`
}

// UpdateFacultyRequest holds a partial update. Nil fields are untouched.
type UpdateFacultyRequest struct {
	FirstName   *string    `json:"firstName"`
	MiddleName  *string    `json:"middleName"`
	LastName    *string    `json:"lastName"`
	Email       *string    `json:"email" validate:"omitempty,email"`
	Phone       *string    `json:"phone"`
	BranchID    *string    `json:"branchId"`
	Designation *string    `json:"designation"`
	Salary      *float64   `json:"salary"`
	JoiningDate *time.Time `json:"joiningDate"`
	Gender      *string    `json:"gender"`
	DOB         *time.Time `json:"dob"`
	Address     *string    `json:"address"`
	City        *string    `json:"city"`
	State       *string    `json:"state"`
	Pincode     *string    `json:"pincode"`
	Country     *string    `json:"country"`
	Password    *string    `json:"password" validate:"omitempty,min=8"`
	ProfileRef  *string    `json:"-"`
}

// FacultyService handles faculty use-cases.
type FacultyService struct {
	repo      facultyRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewFacultyService constructs the faculty service.
func NewFacultyService(repo facultyRepository, validate *validator.Validate, logger *zap.Logger) *FacultyService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &FacultyService{repo: repo, validator: validate, logger: logger}
}

// Search returns faculty matching the filters. Zero matches is reported as
// not found rather than an empty collection.
func (s *FacultyService) Search(ctx context.Context, filter models.FacultyFilter) ([]models.FacultyDetail, *models.Pagination, error) {
	members, total, err := s.repo.Search(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to search faculty")
	}
	if len(members) == 0 {
		return nil, nil, appErrors.Clone(appErrors.ErrNotFound, "no faculty found")
	}
	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 {
		size = 20
	}
	return members, &models.Pagination{Page: page, PageSize: size, TotalCount: total}, nil
}

// Get returns one faculty member with branch details.
func (s *FacultyService) Get(ctx context.Context, id string) (*models.FacultyDetail, error) {
	member, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "faculty not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load faculty")
	}
	return member, nil
}

// Register creates a faculty member with a generated employee id, an email
// derived from it, and the default initial password.
func (s *FacultyService) Register(ctx context.Context, req RegisterFacultyRequest) (*models.FacultyDetail, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid faculty payload")
	}

	employeeID := randomSixDigit()
	email := fmt.Sprintf("%d@%s", employeeID, generatedEmailDomain)

	exists, err := s.repo.ExistsByEmailOrPhone(ctx, email, req.Phone, "")
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to validate contact details")
	}
	if exists {
		return nil, appErrors.Clone(appErrors.ErrConflict, "faculty with this email or phone already exists")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(defaultFacultyPassword), bcrypt.DefaultCost)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to hash password")
	}

	member := &models.Faculty{
		EmployeeID:   employeeID,
		FirstName:    req.FirstName,
		MiddleName:   req.MiddleName,
		LastName:     req.LastName,
		Email:        email,
		Phone:        req.Phone,
		BranchID:     req.BranchID,
		Designation:  req.Designation,
		Salary:       req.Salary,
		JoiningDate:  req.JoiningDate,
		Gender:       req.Gender,
		DOB:          req.DOB,
		Address:      req.Address,
		City:         req.City,
		State:        req.State,
		Pincode:      req.Pincode,
		Country:      req.Country,
		ProfileRef:   req.ProfileRef,
		PasswordHash: string(hash),
	}
	if err := s.repo.Create(ctx, member); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create faculty")
	}

	s.logger.Info("faculty registered", zap.Int("employee_id", employeeID), zap.String("id", member.ID))
	return &models.FacultyDetail{Faculty: *member}, nil
}

// Update applies a partial update to a faculty member.
func (s *FacultyService) Update(ctx context.Context, id string, req UpdateFacultyRequest) (*models.FacultyDetail, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid faculty payload")
	}

	detail, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "faculty not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load faculty")
	}
	member := detail.Faculty

	if req.FirstName != nil {
		member.FirstName = *req.FirstName
	}
	if req.MiddleName != nil {
		member.MiddleName = *req.MiddleName
	}
	if req.LastName != nil {
		member.LastName = *req.LastName
	}
	if req.Email != nil {
		member.Email = *req.Email
	}
	if req.Phone != nil {
		member.Phone = *req.Phone
	}
	if req.BranchID != nil {
		member.BranchID = *req.BranchID
	}
	if req.Designation != nil {
		member.Designation = *req.Designation
	}
	if req.Salary != nil {
		member.Salary = *req.Salary
	}
	if req.JoiningDate != nil {
		member.JoiningDate = req.JoiningDate
	}
	if req.Gender != nil {
		member.Gender = *req.Gender
	}
	if req.DOB != nil {
		member.DOB = req.DOB
	}
	if req.Address != nil {
		member.Address = *req.Address
	}
	if req.City != nil {
		member.City = *req.City
	}
	if req.State != nil {
		member.State = *req.State
	}
	if req.Pincode != nil {
		member.Pincode = *req.Pincode
	}
	if req.Country != nil {
		member.Country = *req.Country
	}
	if req.ProfileRef != nil {
		member.ProfileRef = *req.ProfileRef
	}

	if req.Email != nil || req.Phone != nil {
		exists, err := s.repo.ExistsByEmailOrPhone(ctx, member.Email, member.Phone, id)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to validate contact details")
		}
		if exists {
			return nil, appErrors.Clone(appErrors.ErrConflict, "another faculty member already uses this email or phone")
		}
	}

	if req.Password != nil {
		hash, err := bcrypt.GenerateFromPassword([]byte(*req.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to hash password")
		}
		member.PasswordHash = string(hash)
	}

	if err := s.repo.Update(ctx, &member); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update faculty")
	}
	return &models.FacultyDetail{Faculty: member, BranchName: detail.BranchName}, nil
}

// Delete removes a faculty member permanently.
func (s *FacultyService) Delete(ctx context.Context, id string) (*models.FacultyDetail, error) {
	detail, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "faculty not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load faculty")
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete faculty")
	}
	return detail, nil
}

// MyDetails returns the profile of the authenticated faculty member.
func (s *FacultyService) MyDetails(ctx context.Context, claims *models.JWTClaims) (*models.FacultyDetail, error) {
	if claims == nil || claims.Role != models.RoleFaculty {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "faculty account required")
	}
	return s.Get(ctx, claims.UserID)
}
