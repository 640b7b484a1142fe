package handler

import (
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/unicampus/college-api/internal/models"
	"github.com/unicampus/college-api/internal/service"
	appErrors "github.com/unicampus/college-api/pkg/errors"
	"github.com/unicampus/college-api/pkg/response"
	"github.com/unicampus/college-api/pkg/storage"
)

// FacultyHandler exposes faculty endpoints.
type FacultyHandler struct {
	faculty *service.FacultyService
	media   *storage.MediaStore
	metrics *service.MetricsService
}

// NewFacultyHandler constructs FacultyHandler.
func NewFacultyHandler(faculty *service.FacultyService, media *storage.MediaStore, metrics *service.MetricsService) *FacultyHandler {
	return &FacultyHandler{faculty: faculty, media: media, metrics: metrics}
}

// Search godoc
// @Summary Search faculty
// @Tags Faculty
// @Produce json
// @Param name query string false "Partial name match"
// @Param employeeId query int false "Exact employee id"
// @Param branch query string false "Branch id"
// @Param page query int false "Page"
// @Param limit query int false "Page size"
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /faculty [get]
func (h *FacultyHandler) Search(c *gin.Context) {
	var filter models.FacultyFilter
	filter.Name = strings.TrimSpace(c.Query("name"))
	filter.BranchID = c.Query("branch")
	if v := c.Query("employeeId"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			filter.EmployeeID = &n
		}
	}
	if page, err := strconv.Atoi(c.DefaultQuery("page", "1")); err == nil {
		filter.Page = page
	}
	if size, err := strconv.Atoi(c.DefaultQuery("limit", "20")); err == nil {
		filter.PageSize = size
	}

	members, pagination, err := h.faculty.Search(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "faculty found", gin.H{"faculty": members, "pagination": pagination})
}

// Me godoc
// @Summary Get the logged-in faculty member's profile
// @Tags Faculty
// @Produce json
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /faculty/me [get]
func (h *FacultyHandler) Me(c *gin.Context) {
	member, err := h.faculty.MyDetails(c.Request.Context(), claimsFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "faculty details", member)
}

// Get godoc
// @Summary Get faculty detail
// @Tags Faculty
// @Produce json
// @Param id path string true "Faculty ID"
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /faculty/{id} [get]
func (h *FacultyHandler) Get(c *gin.Context) {
	member, err := h.faculty.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "faculty details", member)
}

// Register godoc
// @Summary Register a faculty member
// @Tags Faculty
// @Accept mpfd
// @Produce json
// @Success 201 {object} response.Envelope
// @Security BearerAuth
// @Router /faculty [post]
func (h *FacultyHandler) Register(c *gin.Context) {
	req := service.RegisterFacultyRequest{
		FirstName:   c.PostForm("firstName"),
		MiddleName:  c.PostForm("middleName"),
		LastName:    c.PostForm("lastName"),
		Phone:       c.PostForm("phone"),
		BranchID:    c.PostForm("branchId"),
		Designation: c.PostForm("designation"),
		Salary:      formFloat(c, "salary"),
		JoiningDate: formDate(c, "joiningDate"),
		Gender:      c.PostForm("gender"),
		DOB:         formDate(c, "dob"),
		Address:     c.PostForm("address"),
		City:        c.PostForm("city"),
		State:       c.PostForm("state"),
		Pincode:     c.PostForm("pincode"),
		Country:     c.PostForm("country"),
	}

	if file, err := c.FormFile("profile"); err == nil {
		ref, err := h.media.SaveUpload("profiles", file)
		if err != nil {
			response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "failed to store profile image"))
			return
		}
		h.metrics.RecordUpload("profiles")
		req.ProfileRef = ref
	}

	member, err := h.faculty.Register(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, "faculty registered", member)
}

// Update godoc
// @Summary Update a faculty member
// @Tags Faculty
// @Accept mpfd
// @Produce json
// @Param id path string true "Faculty ID"
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /faculty/{id} [patch]
func (h *FacultyHandler) Update(c *gin.Context) {
	req := service.UpdateFacultyRequest{
		FirstName:   optionalFormString(c, "firstName"),
		MiddleName:  optionalFormString(c, "middleName"),
		LastName:    optionalFormString(c, "lastName"),
		Email:       optionalFormString(c, "email"),
		Phone:       optionalFormString(c, "phone"),
		BranchID:    optionalFormString(c, "branchId"),
		Designation: optionalFormString(c, "designation"),
		Salary:      optionalFormFloat(c, "salary"),
		JoiningDate: formDate(c, "joiningDate"),
		Gender:      optionalFormString(c, "gender"),
		DOB:         formDate(c, "dob"),
		Address:     optionalFormString(c, "address"),
		City:        optionalFormString(c, "city"),
		State:       optionalFormString(c, "state"),
		Pincode:     optionalFormString(c, "pincode"),
		Country:     optionalFormString(c, "country"),
		Password:    optionalFormString(c, "password"),
	}

	var replacedRef string
	if file, err := c.FormFile("profile"); err == nil {
		ref, err := h.media.SaveUpload("profiles", file)
		if err != nil {
			response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "failed to store profile image"))
			return
		}
		h.metrics.RecordUpload("profiles")
		req.ProfileRef = &ref
	}

	if req.ProfileRef != nil {
		if current, err := h.faculty.Get(c.Request.Context(), c.Param("id")); err == nil {
			replacedRef = current.ProfileRef
		}
	}

	member, err := h.faculty.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	if replacedRef != "" && req.ProfileRef != nil && replacedRef != *req.ProfileRef {
		_ = h.media.Delete(replacedRef)
	}
	response.OK(c, "faculty updated", member)
}

// Delete godoc
// @Summary Delete a faculty member
// @Tags Faculty
// @Produce json
// @Param id path string true "Faculty ID"
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /faculty/{id} [delete]
func (h *FacultyHandler) Delete(c *gin.Context) {
	member, err := h.faculty.Delete(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	if member.ProfileRef != "" {
		_ = h.media.Delete(member.ProfileRef)
	}
	response.OK(c, "faculty deleted", member)
}
