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

// TimetableHandler exposes class schedule endpoints.
type TimetableHandler struct {
	timetables *service.TimetableService
	media      *storage.MediaStore
	metrics    *service.MetricsService
}

// NewTimetableHandler constructs TimetableHandler.
func NewTimetableHandler(timetables *service.TimetableService, media *storage.MediaStore, metrics *service.MetricsService) *TimetableHandler {
	return &TimetableHandler{timetables: timetables, media: media, metrics: metrics}
}

// List godoc
// @Summary List timetables
// @Tags Timetables
// @Produce json
// @Param branch query string false "Branch id"
// @Param semester query int false "Semester"
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /timetables [get]
func (h *TimetableHandler) List(c *gin.Context) {
	filter := models.TimetableFilter{BranchID: c.Query("branch")}
	if v := c.Query("semester"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			filter.Semester = &n
		}
	}
	timetables, err := h.timetables.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "timetables", timetables)
}

// Upsert godoc
// @Summary Publish or replace a timetable
// @Tags Timetables
// @Accept mpfd
// @Produce json
// @Param branchId formData string true "Branch id"
// @Param semester formData int true "Semester"
// @Param timetable formData file true "Schedule image"
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /timetables [post]
func (h *TimetableHandler) Upsert(c *gin.Context) {
	file, err := c.FormFile("timetable")
	if err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "timetable file is required"))
		return
	}
	ref, err := h.media.SaveUpload("timetables", file)
	if err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "failed to store timetable"))
		return
	}
	h.metrics.RecordUpload("timetables")

	req := service.UpsertTimetableRequest{
		BranchID: c.PostForm("branchId"),
		Semester: formInt(c, "semester"),
		FileRef:  ref,
	}
	timetable, replaced, err := h.timetables.Upsert(c.Request.Context(), req)
	if err != nil {
		_ = h.media.Delete(ref)
		response.Error(c, err)
		return
	}
	if replaced != "" && replaced != ref {
		_ = h.media.Delete(replaced)
	}
	response.OK(c, "timetable published", timetable)
}

// Delete godoc
// @Summary Delete a timetable
// @Tags Timetables
// @Produce json
// @Param id path string true "Timetable ID"
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /timetables/{id} [delete]
func (h *TimetableHandler) Delete(c *gin.Context) {
	timetable, err := h.timetables.Delete(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	if timetable.FileRef != "" {
		_ = h.media.Delete(timetable.FileRef)
	}
	response.OK(c, "timetable deleted", timetable)
}
