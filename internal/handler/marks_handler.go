package handler

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/unicampus/college-api/internal/models"
	"github.com/unicampus/college-api/internal/service"
	appErrors "github.com/unicampus/college-api/pkg/errors"
	"github.com/unicampus/college-api/pkg/response"
)

// MarksHandler exposes score entry and gradebook endpoints.
type MarksHandler struct {
	marks *service.MarksService
}

// NewMarksHandler constructs MarksHandler.
func NewMarksHandler(marks *service.MarksService) *MarksHandler {
	return &MarksHandler{marks: marks}
}

// AddBulk godoc
// @Summary Record marks for a whole class
// @Tags Marks
// @Accept json
// @Produce json
// @Param payload body service.BulkMarksRequest true "Bulk marks payload"
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /marks/bulk [post]
func (h *MarksHandler) AddBulk(c *gin.Context) {
	var req service.BulkMarksRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid request body"))
		return
	}
	results, err := h.marks.AddBulk(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "marks recorded", results)
}

// List godoc
// @Summary List marks
// @Tags Marks
// @Produce json
// @Param student query string false "Student id (ignored for student callers)"
// @Param subject query string false "Subject id"
// @Param exam query string false "Exam id"
// @Param semester query int false "Semester"
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /marks [get]
func (h *MarksHandler) List(c *gin.Context) {
	filter := models.MarksFilter{
		StudentID: c.Query("student"),
		SubjectID: c.Query("subject"),
		ExamID:    c.Query("exam"),
	}
	if v := c.Query("semester"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			filter.Semester = &n
		}
	}

	// Students only ever see their own scores.
	if claims := claimsFromContext(c); claims != nil && claims.Role == models.RoleStudent {
		filter.StudentID = claims.UserID
	}

	marks, err := h.marks.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "marks", marks)
}

// Gradebook godoc
// @Summary Gradebook for a class and exam subject
// @Tags Marks
// @Produce json
// @Param branch query string true "Branch id"
// @Param semester query int true "Semester"
// @Param subject query string true "Subject id"
// @Param exam query string true "Exam id"
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /marks/gradebook [get]
func (h *MarksHandler) Gradebook(c *gin.Context) {
	req := gradebookRequestFromQuery(c)
	rows, err := h.marks.Gradebook(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "gradebook", rows)
}

// Export godoc
// @Summary Export the gradebook
// @Tags Marks
// @Produce octet-stream
// @Param branch query string true "Branch id"
// @Param semester query int true "Semester"
// @Param subject query string true "Subject id"
// @Param exam query string true "Exam id"
// @Param format query string false "csv or pdf (default csv)"
// @Success 200 {file} binary
// @Security BearerAuth
// @Router /marks/gradebook/export [get]
func (h *MarksHandler) Export(c *gin.Context) {
	req := gradebookRequestFromQuery(c)
	format := c.DefaultQuery("format", "csv")

	var (
		payload     []byte
		contentType string
		ext         string
		err         error
	)
	switch format {
	case "csv":
		payload, err = h.marks.GradebookCSV(c.Request.Context(), req)
		contentType, ext = "text/csv", "csv"
	case "pdf":
		payload, err = h.marks.GradebookPDF(c.Request.Context(), req)
		contentType, ext = "application/pdf", "pdf"
	default:
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "format must be csv or pdf"))
		return
	}
	if err != nil {
		response.Error(c, err)
		return
	}

	filename := fmt.Sprintf("gradebook-sem%d.%s", req.Semester, ext)
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, contentType, payload)
}

func gradebookRequestFromQuery(c *gin.Context) service.GradebookRequest {
	req := service.GradebookRequest{
		BranchID:  c.Query("branch"),
		SubjectID: c.Query("subject"),
		ExamID:    c.Query("exam"),
	}
	if n, err := strconv.Atoi(c.Query("semester")); err == nil {
		req.Semester = n
	}
	return req
}
