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

// StudentHandler exposes student endpoints.
type StudentHandler struct {
	students *service.StudentService
	media    *storage.MediaStore
	metrics  *service.MetricsService
}

// NewStudentHandler constructs StudentHandler.
func NewStudentHandler(students *service.StudentService, media *storage.MediaStore, metrics *service.MetricsService) *StudentHandler {
	return &StudentHandler{students: students, media: media, metrics: metrics}
}

// Search godoc
// @Summary Search students
// @Tags Students
// @Produce json
// @Param name query string false "Partial name match"
// @Param enrollmentNo query int false "Exact enrollment number"
// @Param semester query int false "Semester"
// @Param branch query string false "Branch id"
// @Param page query int false "Page"
// @Param limit query int false "Page size"
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /students [get]
func (h *StudentHandler) Search(c *gin.Context) {
	var filter models.StudentFilter
	filter.Name = strings.TrimSpace(c.Query("name"))
	filter.BranchID = c.Query("branch")
	if v := c.Query("enrollmentNo"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			filter.EnrollmentNo = &n
		}
	}
	if v := c.Query("semester"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			filter.Semester = &n
		}
	}
	if page, err := strconv.Atoi(c.DefaultQuery("page", "1")); err == nil {
		filter.Page = page
	}
	if size, err := strconv.Atoi(c.DefaultQuery("limit", "20")); err == nil {
		filter.PageSize = size
	}

	students, pagination, err := h.students.Search(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "students found", gin.H{"students": students, "pagination": pagination})
}

// Me godoc
// @Summary Get the logged-in student's profile
// @Tags Students
// @Produce json
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /students/me [get]
func (h *StudentHandler) Me(c *gin.Context) {
	student, err := h.students.MyDetails(c.Request.Context(), claimsFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "student details", student)
}

// Get godoc
// @Summary Get student detail
// @Tags Students
// @Produce json
// @Param id path string true "Student ID"
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /students/{id} [get]
func (h *StudentHandler) Get(c *gin.Context) {
	student, err := h.students.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "student details", student)
}

// Register godoc
// @Summary Register a student
// @Tags Students
// @Accept mpfd
// @Produce json
// @Param firstName formData string true "First name"
// @Param lastName formData string true "Last name"
// @Param phone formData string true "Phone"
// @Param semester formData int true "Semester"
// @Param branchId formData string true "Branch id"
// @Param profile formData file false "Profile image"
// @Success 201 {object} response.Envelope
// @Security BearerAuth
// @Router /students [post]
func (h *StudentHandler) Register(c *gin.Context) {
	req := service.RegisterStudentRequest{
		FirstName:  c.PostForm("firstName"),
		MiddleName: c.PostForm("middleName"),
		LastName:   c.PostForm("lastName"),
		Phone:      c.PostForm("phone"),
		Semester:   formInt(c, "semester"),
		BranchID:   c.PostForm("branchId"),
		Gender:     c.PostForm("gender"),
		DOB:        formDate(c, "dob"),
		Address:    c.PostForm("address"),
		City:       c.PostForm("city"),
		State:      c.PostForm("state"),
		Pincode:    c.PostForm("pincode"),
		Country:    c.PostForm("country"),
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

	student, err := h.students.Register(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, "student registered", student)
}

// Update godoc
// @Summary Update a student
// @Tags Students
// @Accept mpfd
// @Produce json
// @Param id path string true "Student ID"
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /students/{id} [patch]
func (h *StudentHandler) Update(c *gin.Context) {
	req := service.UpdateStudentRequest{
		FirstName:  optionalFormString(c, "firstName"),
		MiddleName: optionalFormString(c, "middleName"),
		LastName:   optionalFormString(c, "lastName"),
		Email:      optionalFormString(c, "email"),
		Phone:      optionalFormString(c, "phone"),
		Semester:   optionalFormInt(c, "semester"),
		BranchID:   optionalFormString(c, "branchId"),
		Gender:     optionalFormString(c, "gender"),
		DOB:        formDate(c, "dob"),
		Address:    optionalFormString(c, "address"),
		City:       optionalFormString(c, "city"),
		State:      optionalFormString(c, "state"),
		Pincode:    optionalFormString(c, "pincode"),
		Country:    optionalFormString(c, "country"),
		Status:     optionalFormString(c, "status"),
		Password:   optionalFormString(c, "password"),
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
		if current, err := h.students.Get(c.Request.Context(), c.Param("id")); err == nil {
			replacedRef = current.ProfileRef
		}
	}

	student, err := h.students.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	if replacedRef != "" && req.ProfileRef != nil && replacedRef != *req.ProfileRef {
		_ = h.media.Delete(replacedRef)
	}
	response.OK(c, "student updated", student)
}

// Delete godoc
// @Summary Delete a student
// @Tags Students
// @Produce json
// @Param id path string true "Student ID"
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /students/{id} [delete]
func (h *StudentHandler) Delete(c *gin.Context) {
	student, err := h.students.Delete(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	if student.ProfileRef != "" {
		_ = h.media.Delete(student.ProfileRef)
	}
	response.OK(c, "student deleted", student)
}
