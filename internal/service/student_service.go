package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/unicampus/college-api/internal/models"
	appErrors "github.com/unicampus/college-api/pkg/errors"
)

const (
	defaultStudentPassword = "student123"
	generatedEmailDomain   = "college.edu"
)

type studentRepository interface {
	Search(ctx context.Context, filter models.StudentFilter) ([]models.StudentDetail, int, error)
	FindByID(ctx context.Context, id string) (*models.StudentDetail, error)
	ExistsByEmailOrPhone(ctx context.Context, email, phone, excludeID string) (bool, error)
	ExistsByEnrollmentNo(ctx context.Context, enrollmentNo int) (bool, error)
	Create(ctx context.Context, student *models.Student) error
	Update(ctx context.Context, student *models.Student) error
	Delete(ctx context.Context, id string) error
}

type studentMarksRemover interface {
	DeleteByStudent(ctx context.Context, studentID string) error
}

// RegisterStudentRequest holds payload for registering a student. The
// enrollment number, email, and initial password are system assigned.
type RegisterStudentRequest struct {
	FirstName  string     `json:"firstName" validate:"required"`
	MiddleName string     `json:"middleName"`
	LastName   string     `json:"lastName" validate:"required"`
	Phone      string     `json:"phone" validate:"required"`
	Semester   int        `json:"semester" validate:"required,min=1,max=8"`
	BranchID   string     `json:"branchId" validate:"required"`
	Gender     string     `json:"gender"`
	DOB        *time.Time `json:"dob"`
	Address    string     `json:"address"`
	City       string     `json:"city"`
	State      string     `json:"state"`
	Pincode    string     `json:"pincode"`
	Country    string     `json:"country"`
	ProfileRef string     `json:"-"`
}

// UpdateStudentRequest holds a partial update. Nil fields are untouched.
type UpdateStudentRequest struct {
	FirstName  *string    `json:"firstName"`
	MiddleName *string    `json:"middleName"`
	LastName   *string    `json:"lastName"`
	Email      *string    `json:"email" validate:"omitempty,email"`
	Phone      *string    `json:"phone"`
	Semester   *int       `json:"semester" validate:"omitempty,min=1,max=8"`
	BranchID   *string    `json:"branchId"`
	Gender     *string    `json:"gender"`
	DOB        *time.Time `json:"dob"`
	Address    *string    `json:"address"`
	City       *string    `json:"city"`
	State      *string    `json:"state"`
	Pincode    *string    `json:"pincode"`
	Country    *string    `json:"country"`
	Status     *string    `json:"status"`
	Password   *string    `json:"password" validate:"omitempty,min=8"`
	ProfileRef *string    `json:"-"`
}

// StudentService handles student use-cases.
type StudentService struct {
	repo      studentRepository
	marks     studentMarksRemover
	validator *validator.Validate
	logger    *zap.Logger
}

// NewStudentService constructs the student service.
func NewStudentService(repo studentRepository, marks studentMarksRemover, validate *validator.Validate, logger *zap.Logger) *StudentService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StudentService{repo: repo, marks: marks, validator: validate, logger: logger}
}

// Search returns students matching the filters. Zero matches is reported as
// not found rather than an empty collection.
func (s *StudentService) Search(ctx context.Context, filter models.StudentFilter) ([]models.StudentDetail, *models.Pagination, error) {
	students, total, err := s.repo.Search(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to search students")
	}
	if len(students) == 0 {
		return nil, nil, appErrors.Clone(appErrors.ErrNotFound, "no students found")
	}
	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 {
		size = 20
	}
	return students, &models.Pagination{Page: page, PageSize: size, TotalCount: total}, nil
}

// Get returns one student with branch details.
func (s *StudentService) Get(ctx context.Context, id string) (*models.StudentDetail, error) {
	student, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "student not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load student")
	}
	return student, nil
}

// Register creates a student with a generated enrollment number, an email
// derived from it, and the default initial password.
func (s *StudentService) Register(ctx context.Context, req RegisterStudentRequest) (*models.StudentDetail, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid student payload")
	}

	enrollmentNo := randomSixDigit()
	email := fmt.Sprintf("%d@%s", enrollmentNo, generatedEmailDomain)

	exists, err := s.repo.ExistsByEmailOrPhone(ctx, email, req.Phone, "")
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to validate contact details")
	}
	if exists {
		return nil, appErrors.Clone(appErrors.ErrConflict, "student with this email or phone already exists")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(defaultStudentPassword), bcrypt.DefaultCost)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to hash password")
	}

	student := &models.Student{
		EnrollmentNo: enrollmentNo,
		FirstName:    req.FirstName,
		MiddleName:   req.MiddleName,
		LastName:     req.LastName,
		Email:        email,
		Phone:        req.Phone,
		Semester:     req.Semester,
		BranchID:     req.BranchID,
		Gender:       req.Gender,
		DOB:          req.DOB,
		Address:      req.Address,
		City:         req.City,
		State:        req.State,
		Pincode:      req.Pincode,
		Country:      req.Country,
		ProfileRef:   req.ProfileRef,
		Status:       "active",
		PasswordHash: string(hash),
	}
	if err := s.repo.Create(ctx, student); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create student")
	}

	s.logger.Info("student registered", zap.Int("enrollment_no", enrollmentNo), zap.String("id", student.ID))
	return &models.StudentDetail{Student: *student}, nil
}

// Update applies a partial update to a student.
func (s *StudentService) Update(ctx context.Context, id string, req UpdateStudentRequest) (*models.StudentDetail, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid student payload")
	}

	detail, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "student not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load student")
	}
	student := detail.Student

	if req.FirstName != nil {
		student.FirstName = *req.FirstName
	}
	if req.MiddleName != nil {
		student.MiddleName = *req.MiddleName
	}
	if req.LastName != nil {
		student.LastName = *req.LastName
	}
	if req.Email != nil {
		student.Email = *req.Email
	}
	if req.Phone != nil {
		student.Phone = *req.Phone
	}
	if req.Semester != nil {
		student.Semester = *req.Semester
	}
	if req.BranchID != nil {
		student.BranchID = *req.BranchID
	}
	if req.Gender != nil {
		student.Gender = *req.Gender
	}
	if req.DOB != nil {
		student.DOB = req.DOB
	}
	if req.Address != nil {
		student.Address = *req.Address
	}
	if req.City != nil {
		student.City = *req.City
	}
	if req.State != nil {
		student.State = *req.State
	}
	if req.Pincode != nil {
		student.Pincode = *req.Pincode
	}
	if req.Country != nil {
		student.Country = *req.Country
	}
	if req.Status != nil {
		student.Status = *req.Status
	}
	if req.ProfileRef != nil {
		student.ProfileRef = *req.ProfileRef
	}

	if req.Email != nil || req.Phone != nil {
		exists, err := s.repo.ExistsByEmailOrPhone(ctx, student.Email, student.Phone, id)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to validate contact details")
		}
		if exists {
			return nil, appErrors.Clone(appErrors.ErrConflict, "another student already uses this email or phone")
		}
	}

	if req.Password != nil {
		hash, err := bcrypt.GenerateFromPassword([]byte(*req.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to hash password")
		}
		student.PasswordHash = string(hash)
	}

	if err := s.repo.Update(ctx, &student); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update student")
	}
	return &models.StudentDetail{Student: student, BranchName: detail.BranchName}, nil
}

// Delete removes a student and their marks.
func (s *StudentService) Delete(ctx context.Context, id string) (*models.StudentDetail, error) {
	detail, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "student not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load student")
	}

	if s.marks != nil {
		if err := s.marks.DeleteByStudent(ctx, id); err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete student marks")
		}
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete student")
	}
	return detail, nil
}

// MyDetails returns the profile of the authenticated student.
func (s *StudentService) MyDetails(ctx context.Context, claims *models.JWTClaims) (*models.StudentDetail, error) {
	if claims == nil || claims.Role != models.RoleStudent {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "student account required")
	}
	return s.Get(ctx, claims.UserID)
}

// randomSixDigit returns an identifier in [100000, 999999]. No collision
// retry; a fresh clash surfaces as a database error.
func randomSixDigit() int {
	return 100000 + rand.Intn(900000)
}
