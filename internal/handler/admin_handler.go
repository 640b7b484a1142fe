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

// AdminHandler exposes admin account endpoints.
type AdminHandler struct {
	admins  *service.AdminService
	media   *storage.MediaStore
	metrics *service.MetricsService
}

// NewAdminHandler constructs AdminHandler.
func NewAdminHandler(admins *service.AdminService, media *storage.MediaStore, metrics *service.MetricsService) *AdminHandler {
	return &AdminHandler{admins: admins, media: media, metrics: metrics}
}

// Search godoc
// @Summary Search admin accounts
// @Tags Admins
// @Produce json
// @Param name query string false "Partial name match"
// @Param employeeId query int false "Exact employee id"
// @Param page query int false "Page"
// @Param limit query int false "Page size"
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /admins [get]
func (h *AdminHandler) Search(c *gin.Context) {
	var filter models.AdminFilter
	filter.Name = strings.TrimSpace(c.Query("name"))
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

	admins, pagination, err := h.admins.Search(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "admins found", gin.H{"admins": admins, "pagination": pagination})
}

// Me godoc
// @Summary Get the logged-in admin's profile
// @Tags Admins
// @Produce json
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /admins/me [get]
func (h *AdminHandler) Me(c *gin.Context) {
	admin, err := h.admins.MyDetails(c.Request.Context(), claimsFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "admin details", admin)
}

// Get godoc
// @Summary Get admin detail
// @Tags Admins
// @Produce json
// @Param id path string true "Admin ID"
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /admins/{id} [get]
func (h *AdminHandler) Get(c *gin.Context) {
	admin, err := h.admins.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "admin details", admin)
}

// Register godoc
// @Summary Register an admin account
// @Tags Admins
// @Accept mpfd
// @Produce json
// @Success 201 {object} response.Envelope
// @Security BearerAuth
// @Router /admins [post]
func (h *AdminHandler) Register(c *gin.Context) {
	isSuper := false
	if v := optionalFormBool(c, "isSuperAdmin"); v != nil {
		isSuper = *v
	}
	req := service.RegisterAdminRequest{
		FirstName:    c.PostForm("firstName"),
		MiddleName:   c.PostForm("middleName"),
		LastName:     c.PostForm("lastName"),
		Phone:        c.PostForm("phone"),
		Gender:       c.PostForm("gender"),
		DOB:          formDate(c, "dob"),
		Address:      c.PostForm("address"),
		City:         c.PostForm("city"),
		State:        c.PostForm("state"),
		Pincode:      c.PostForm("pincode"),
		Country:      c.PostForm("country"),
		IsSuperAdmin: isSuper,
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

	admin, err := h.admins.Register(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, "admin registered", admin)
}

// Update godoc
// @Summary Update an admin account
// @Tags Admins
// @Accept mpfd
// @Produce json
// @Param id path string true "Admin ID"
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /admins/{id} [patch]
func (h *AdminHandler) Update(c *gin.Context) {
	req := service.UpdateAdminRequest{
		FirstName:    optionalFormString(c, "firstName"),
		MiddleName:   optionalFormString(c, "middleName"),
		LastName:     optionalFormString(c, "lastName"),
		Email:        optionalFormString(c, "email"),
		Phone:        optionalFormString(c, "phone"),
		Gender:       optionalFormString(c, "gender"),
		DOB:          formDate(c, "dob"),
		Address:      optionalFormString(c, "address"),
		City:         optionalFormString(c, "city"),
		State:        optionalFormString(c, "state"),
		Pincode:      optionalFormString(c, "pincode"),
		Country:      optionalFormString(c, "country"),
		IsSuperAdmin: optionalFormBool(c, "isSuperAdmin"),
		Password:     optionalFormString(c, "password"),
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
		if current, err := h.admins.Get(c.Request.Context(), c.Param("id")); err == nil {
			replacedRef = current.ProfileRef
		}
	}

	admin, err := h.admins.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	if replacedRef != "" && req.ProfileRef != nil && replacedRef != *req.ProfileRef {
		_ = h.media.Delete(replacedRef)
	}
	response.OK(c, "admin updated", admin)
}

// Delete godoc
// @Summary Delete an admin account
// @Tags Admins
// @Produce json
// @Param id path string true "Admin ID"
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /admins/{id} [delete]
func (h *AdminHandler) Delete(c *gin.Context) {
	admin, err := h.admins.Delete(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	if admin.ProfileRef != "" {
		_ = h.media.Delete(admin.ProfileRef)
	}
	response.OK(c, "admin deleted", admin)
}
