package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/unicampus/college-api/internal/models"
	"github.com/unicampus/college-api/internal/service"
	appErrors "github.com/unicampus/college-api/pkg/errors"
	"github.com/unicampus/college-api/pkg/response"
	"github.com/unicampus/college-api/pkg/storage"
)

// ExamHandler exposes examination endpoints.
type ExamHandler struct {
	exams   *service.ExamService
	media   *storage.MediaStore
	metrics *service.MetricsService
}

// NewExamHandler constructs ExamHandler.
func NewExamHandler(exams *service.ExamService, media *storage.MediaStore, metrics *service.MetricsService) *ExamHandler {
	return &ExamHandler{exams: exams, media: media, metrics: metrics}
}

// List godoc
// @Summary List exams
// @Tags Exams
// @Produce json
// @Param semester query int false "Semester"
// @Param examType query string false "mid or end"
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /exams [get]
func (h *ExamHandler) List(c *gin.Context) {
	filter := models.ExamFilter{ExamType: c.Query("examType")}
	if v := c.Query("semester"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			filter.Semester = &n
		}
	}
	exams, err := h.exams.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "exams", exams)
}

// Get godoc
// @Summary Get exam detail
// @Tags Exams
// @Produce json
// @Param id path string true "Exam ID"
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /exams/{id} [get]
func (h *ExamHandler) Get(c *gin.Context) {
	exam, err := h.exams.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "exam details", exam)
}

// Create godoc
// @Summary Schedule an exam
// @Tags Exams
// @Accept mpfd
// @Produce json
// @Param name formData string true "Exam name"
// @Param date formData string true "Date (YYYY-MM-DD)"
// @Param semester formData int true "Semester"
// @Param examType formData string true "mid or end"
// @Param totalMarks formData int true "Total marks"
// @Param timetable formData file false "Exam timetable document"
// @Success 201 {object} response.Envelope
// @Security BearerAuth
// @Router /exams [post]
func (h *ExamHandler) Create(c *gin.Context) {
	req := service.CreateExamRequest{
		Name:       c.PostForm("name"),
		Semester:   formInt(c, "semester"),
		ExamType:   c.PostForm("examType"),
		TotalMarks: formInt(c, "totalMarks"),
	}
	if date := formDate(c, "date"); date != nil {
		req.Date = *date
	}

	if file, err := c.FormFile("timetable"); err == nil {
		ref, err := h.media.SaveUpload("exams", file)
		if err != nil {
			response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "failed to store timetable document"))
			return
		}
		h.metrics.RecordUpload("exams")
		req.FileRef = ref
	}

	exam, err := h.exams.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, "exam scheduled", exam)
}

// Update godoc
// @Summary Update an exam
// @Tags Exams
// @Accept mpfd
// @Produce json
// @Param id path string true "Exam ID"
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /exams/{id} [patch]
func (h *ExamHandler) Update(c *gin.Context) {
	req := service.UpdateExamRequest{
		Name:       optionalFormString(c, "name"),
		Date:       formDate(c, "date"),
		Semester:   optionalFormInt(c, "semester"),
		ExamType:   optionalFormString(c, "examType"),
		TotalMarks: optionalFormInt(c, "totalMarks"),
	}

	var replacedRef string
	if file, err := c.FormFile("timetable"); err == nil {
		ref, err := h.media.SaveUpload("exams", file)
		if err != nil {
			response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "failed to store timetable document"))
			return
		}
		h.metrics.RecordUpload("exams")
		req.FileRef = &ref
		if current, err := h.exams.Get(c.Request.Context(), c.Param("id")); err == nil {
			replacedRef = current.FileRef
		}
	}

	exam, err := h.exams.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	if replacedRef != "" && req.FileRef != nil && replacedRef != *req.FileRef {
		_ = h.media.Delete(replacedRef)
	}
	response.OK(c, "exam updated", exam)
}

// Delete godoc
// @Summary Delete an exam
// @Tags Exams
// @Produce json
// @Param id path string true "Exam ID"
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /exams/{id} [delete]
func (h *ExamHandler) Delete(c *gin.Context) {
	exam, err := h.exams.Delete(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	if exam.FileRef != "" {
		_ = h.media.Delete(exam.FileRef)
	}
	response.OK(c, "exam deleted", exam)
}
