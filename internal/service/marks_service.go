package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/unicampus/college-api/internal/models"
	appErrors "github.com/unicampus/college-api/pkg/errors"
	"github.com/unicampus/college-api/pkg/export"
)

type marksRepository interface {
	FindByComposite(ctx context.Context, studentID, subjectID, examID string, semester int) (*models.Marks, error)
	List(ctx context.Context, filter models.MarksFilter) ([]models.Marks, error)
	ListForExamSubject(ctx context.Context, examID, subjectID string, semester int, studentIDs []string) ([]models.Marks, error)
	Create(ctx context.Context, m *models.Marks) error
	UpdateObtained(ctx context.Context, id string, marksObtained float64) error
}

type rosterRepository interface {
	ListByBranchSemester(ctx context.Context, branchID string, semester int) ([]models.Student, error)
}

// BulkMarksEntry is one student's score within a bulk submission.
type BulkMarksEntry struct {
	StudentID     string  `json:"studentId" validate:"required"`
	MarksObtained float64 `json:"marksObtained" validate:"min=0"`
}

// BulkMarksRequest submits scores for a whole class at once.
type BulkMarksRequest struct {
	SubjectID string           `json:"subjectId" validate:"required"`
	ExamID    string           `json:"examId" validate:"required"`
	Semester  int              `json:"semester" validate:"required,min=1,max=8"`
	Entries   []BulkMarksEntry `json:"marks" validate:"required,min=1,dive"`
}

// GradebookRequest identifies the roster and the exam+subject to join.
type GradebookRequest struct {
	BranchID  string `json:"branchId" validate:"required"`
	Semester  int    `json:"semester" validate:"required,min=1,max=8"`
	SubjectID string `json:"subjectId" validate:"required"`
	ExamID    string `json:"examId" validate:"required"`
}

// MarksService handles score entry and the gradebook view.
type MarksService struct {
	repo      marksRepository
	roster    rosterRepository
	csv       *export.CSVExporter
	pdf       *export.PDFExporter
	validator *validator.Validate
	logger    *zap.Logger
}

// NewMarksService constructs the marks service.
func NewMarksService(repo marksRepository, roster rosterRepository, validate *validator.Validate, logger *zap.Logger) *MarksService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &MarksService{
		repo:      repo,
		roster:    roster,
		csv:       export.NewCSVExporter(),
		pdf:       export.NewPDFExporter(),
		validator: validate,
		logger:    logger,
	}
}

// AddBulk records scores for many students in one call. Each entry is a
// find-or-create on (student, subject, exam, semester): an existing row has
// its score overwritten, so resubmitting the same payload is idempotent.
// Results come back in input order.
func (s *MarksService) AddBulk(ctx context.Context, req BulkMarksRequest) ([]models.Marks, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid marks payload")
	}

	results := make([]models.Marks, 0, len(req.Entries))
	for _, entry := range req.Entries {
		existing, err := s.repo.FindByComposite(ctx, entry.StudentID, req.SubjectID, req.ExamID, req.Semester)
		if err != nil && !errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to look up existing marks")
		}

		if existing != nil {
			if err := s.repo.UpdateObtained(ctx, existing.ID, entry.MarksObtained); err != nil {
				return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update marks")
			}
			existing.MarksObtained = entry.MarksObtained
			results = append(results, *existing)
			continue
		}

		record := &models.Marks{
			StudentID:     entry.StudentID,
			SubjectID:     req.SubjectID,
			ExamID:        req.ExamID,
			Semester:      req.Semester,
			MarksObtained: entry.MarksObtained,
		}
		if err := s.repo.Create(ctx, record); err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to record marks")
		}
		results = append(results, *record)
	}

	s.logger.Info("bulk marks recorded",
		zap.String("subject_id", req.SubjectID),
		zap.String("exam_id", req.ExamID),
		zap.Int("count", len(results)))
	return results, nil
}

// List returns marks matching the filters. Students querying their own
// scores arrive here with their id forced into the filter.
func (s *MarksService) List(ctx context.Context, filter models.MarksFilter) ([]models.Marks, error) {
	marks, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list marks")
	}
	if marks == nil {
		marks = []models.Marks{}
	}
	return marks, nil
}

// Gradebook joins the full branch+semester roster with scores for one
// exam+subject. Every enrolled student appears exactly once; a student with
// no recorded score shows zero.
func (s *MarksService) Gradebook(ctx context.Context, req GradebookRequest) ([]models.GradebookRow, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid gradebook request")
	}

	students, err := s.roster.ListByBranchSemester(ctx, req.BranchID, req.Semester)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load class roster")
	}
	if len(students) == 0 {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "no students found for this branch and semester")
	}

	studentIDs := make([]string, 0, len(students))
	for _, st := range students {
		studentIDs = append(studentIDs, st.ID)
	}

	marks, err := s.repo.ListForExamSubject(ctx, req.ExamID, req.SubjectID, req.Semester, studentIDs)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load marks")
	}

	scoreByStudent := make(map[string]float64, len(marks))
	for _, m := range marks {
		scoreByStudent[m.StudentID] = m.MarksObtained
	}

	rows := make([]models.GradebookRow, 0, len(students))
	for _, st := range students {
		rows = append(rows, models.GradebookRow{
			StudentID:     st.ID,
			EnrollmentNo:  st.EnrollmentNo,
			Name:          displayName(st),
			ObtainedMarks: scoreByStudent[st.ID],
		})
	}
	return rows, nil
}

// GradebookCSV renders the gradebook as a CSV document.
func (s *MarksService) GradebookCSV(ctx context.Context, req GradebookRequest) ([]byte, error) {
	rows, err := s.Gradebook(ctx, req)
	if err != nil {
		return nil, err
	}
	payload, err := s.csv.Render(gradebookDataset(rows))
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render gradebook csv")
	}
	return payload, nil
}

// GradebookPDF renders the gradebook as a PDF document.
func (s *MarksService) GradebookPDF(ctx context.Context, req GradebookRequest) ([]byte, error) {
	rows, err := s.Gradebook(ctx, req)
	if err != nil {
		return nil, err
	}
	title := fmt.Sprintf("Gradebook - Semester %d", req.Semester)
	payload, err := s.pdf.Render(gradebookDataset(rows), title)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render gradebook pdf")
	}
	return payload, nil
}

func gradebookDataset(rows []models.GradebookRow) export.Dataset {
	data := export.Dataset{Headers: []string{"Enrollment No", "Name", "Obtained Marks"}}
	for _, row := range rows {
		data.Rows = append(data.Rows, map[string]string{
			"Enrollment No":  strconv.Itoa(row.EnrollmentNo),
			"Name":           row.Name,
			"Obtained Marks": strconv.FormatFloat(row.ObtainedMarks, 'f', -1, 64),
		})
	}
	return data
}

func displayName(st models.Student) string {
	parts := []string{st.FirstName}
	if st.MiddleName != "" {
		parts = append(parts, st.MiddleName)
	}
	if st.LastName != "" {
		parts = append(parts, st.LastName)
	}
	return strings.Join(parts, " ")
}
