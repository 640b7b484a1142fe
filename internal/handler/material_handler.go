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

// MaterialHandler exposes study material endpoints.
type MaterialHandler struct {
	materials *service.MaterialService
	media     *storage.MediaStore
	metrics   *service.MetricsService
}

// NewMaterialHandler constructs MaterialHandler.
func NewMaterialHandler(materials *service.MaterialService, media *storage.MediaStore, metrics *service.MetricsService) *MaterialHandler {
	return &MaterialHandler{materials: materials, media: media, metrics: metrics}
}

// List godoc
// @Summary List study materials
// @Tags Materials
// @Produce json
// @Param subject query string false "Subject id"
// @Param branch query string false "Branch id"
// @Param faculty query string false "Uploading faculty id"
// @Param semester query int false "Semester"
// @Param type query string false "notes, assignment, syllabus or other"
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /materials [get]
func (h *MaterialHandler) List(c *gin.Context) {
	filter := models.MaterialFilter{
		SubjectID: c.Query("subject"),
		BranchID:  c.Query("branch"),
		FacultyID: c.Query("faculty"),
		Type:      c.Query("type"),
	}
	if v := c.Query("semester"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			filter.Semester = &n
		}
	}
	materials, err := h.materials.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "materials", materials)
}

// Get godoc
// @Summary Get material detail
// @Tags Materials
// @Produce json
// @Param id path string true "Material ID"
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /materials/{id} [get]
func (h *MaterialHandler) Get(c *gin.Context) {
	material, err := h.materials.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "material details", material)
}

// Create godoc
// @Summary Upload study material
// @Tags Materials
// @Accept mpfd
// @Produce json
// @Param title formData string true "Title"
// @Param subjectId formData string true "Subject id"
// @Param branchId formData string true "Branch id"
// @Param semester formData int true "Semester"
// @Param type formData string true "notes, assignment, syllabus or other"
// @Param material formData file true "Document"
// @Success 201 {object} response.Envelope
// @Security BearerAuth
// @Router /materials [post]
func (h *MaterialHandler) Create(c *gin.Context) {
	file, err := c.FormFile("material")
	if err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "material file is required"))
		return
	}
	ref, err := h.media.SaveUpload("materials", file)
	if err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "failed to store material"))
		return
	}
	h.metrics.RecordUpload("materials")

	req := service.CreateMaterialRequest{
		Title:     c.PostForm("title"),
		SubjectID: c.PostForm("subjectId"),
		BranchID:  c.PostForm("branchId"),
		Semester:  formInt(c, "semester"),
		Type:      c.PostForm("type"),
		FileRef:   ref,
	}
	material, err := h.materials.Create(c.Request.Context(), claimsFromContext(c), req)
	if err != nil {
		_ = h.media.Delete(ref)
		response.Error(c, err)
		return
	}
	response.Created(c, "material uploaded", material)
}

// Update godoc
// @Summary Update study material
// @Tags Materials
// @Accept mpfd
// @Produce json
// @Param id path string true "Material ID"
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /materials/{id} [patch]
func (h *MaterialHandler) Update(c *gin.Context) {
	req := service.UpdateMaterialRequest{
		Title:     optionalFormString(c, "title"),
		SubjectID: optionalFormString(c, "subjectId"),
		BranchID:  optionalFormString(c, "branchId"),
		Semester:  optionalFormInt(c, "semester"),
		Type:      optionalFormString(c, "type"),
	}

	var replacedRef string
	if file, err := c.FormFile("material"); err == nil {
		ref, err := h.media.SaveUpload("materials", file)
		if err != nil {
			response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "failed to store material"))
			return
		}
		h.metrics.RecordUpload("materials")
		req.FileRef = &ref
		if current, err := h.materials.Get(c.Request.Context(), c.Param("id")); err == nil {
			replacedRef = current.FileRef
		}
	}

	material, err := h.materials.Update(c.Request.Context(), claimsFromContext(c), c.Param("id"), req)
	if err != nil {
		if req.FileRef != nil {
			_ = h.media.Delete(*req.FileRef)
		}
		response.Error(c, err)
		return
	}
	if replacedRef != "" && req.FileRef != nil && replacedRef != *req.FileRef {
		_ = h.media.Delete(replacedRef)
	}
	response.OK(c, "material updated", material)
}

// Delete godoc
// @Summary Delete study material
// @Tags Materials
// @Produce json
// @Param id path string true "Material ID"
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /materials/{id} [delete]
func (h *MaterialHandler) Delete(c *gin.Context) {
	material, err := h.materials.Delete(c.Request.Context(), claimsFromContext(c), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	if material.FileRef != "" {
		_ = h.media.Delete(material.FileRef)
	}
	response.OK(c, "material deleted", material)
}
