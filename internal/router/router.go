package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	"github.com/unicampus/college-api/internal/handler"
	"github.com/unicampus/college-api/internal/middleware"
	"github.com/unicampus/college-api/internal/models"
	"github.com/unicampus/college-api/internal/service"
	"github.com/unicampus/college-api/pkg/config"
	"github.com/unicampus/college-api/pkg/logger"
	corsmiddleware "github.com/unicampus/college-api/pkg/middleware/cors"
	reqidmiddleware "github.com/unicampus/college-api/pkg/middleware/requestid"
	"github.com/unicampus/college-api/pkg/storage"
)

// Dependencies carries everything the route table needs.
type Dependencies struct {
	Config  *config.Config
	Logger  *zap.Logger
	Media   *storage.MediaStore
	Metrics *service.MetricsService

	Auth       *service.AuthService
	Students   *service.StudentService
	Faculty    *service.FacultyService
	Admins     *service.AdminService
	Branches   *service.BranchService
	Subjects   *service.SubjectService
	Exams      *service.ExamService
	Marks      *service.MarksService
	Materials  *service.MaterialService
	Timetables *service.TimetableService
	Notices    *service.NoticeService
}

// New assembles the gin engine with the full route table.
func New(deps Dependencies) *gin.Engine {
	if deps.Config.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(deps.Logger))
	r.Use(corsmiddleware.New(deps.Config.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(deps.Metrics))

	r.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(deps.Metrics.Handler()))

	if deps.Config.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	// Uploaded files are served read-only under /media.
	r.Static("/media", deps.Media.BaseDir())

	authHandler := handler.NewAuthHandler(deps.Auth)
	studentHandler := handler.NewStudentHandler(deps.Students, deps.Media, deps.Metrics)
	facultyHandler := handler.NewFacultyHandler(deps.Faculty, deps.Media, deps.Metrics)
	adminHandler := handler.NewAdminHandler(deps.Admins, deps.Media, deps.Metrics)
	branchHandler := handler.NewBranchHandler(deps.Branches)
	subjectHandler := handler.NewSubjectHandler(deps.Subjects)
	examHandler := handler.NewExamHandler(deps.Exams, deps.Media, deps.Metrics)
	marksHandler := handler.NewMarksHandler(deps.Marks)
	materialHandler := handler.NewMaterialHandler(deps.Materials, deps.Media, deps.Metrics)
	timetableHandler := handler.NewTimetableHandler(deps.Timetables, deps.Media, deps.Metrics)
	noticeHandler := handler.NewNoticeHandler(deps.Notices)

	authRequired := middleware.JWT(deps.Auth)
	adminOnly := middleware.RequireRoles(models.RoleAdmin)
	facultyOnly := middleware.RequireRoles(models.RoleFaculty)
	staff := middleware.RequireRoles(models.RoleAdmin, models.RoleFaculty)

	api := r.Group(deps.Config.APIPrefix)

	// Per-role credential endpoints.
	api.POST("/students/login", authHandler.Login(models.RoleStudent))
	api.POST("/students/forgot-password", authHandler.ForgotPassword(models.RoleStudent))
	api.POST("/faculty/login", authHandler.Login(models.RoleFaculty))
	api.POST("/faculty/forgot-password", authHandler.ForgotPassword(models.RoleFaculty))
	api.POST("/admins/login", authHandler.Login(models.RoleAdmin))
	api.POST("/admins/forgot-password", authHandler.ForgotPassword(models.RoleAdmin))
	api.POST("/auth/reset-password", authHandler.ResetPassword)
	api.POST("/auth/change-password", authRequired, authHandler.ChangePassword)

	students := api.Group("/students", authRequired)
	{
		students.GET("", staff, studentHandler.Search)
		students.GET("/me", middleware.RequireRoles(models.RoleStudent), studentHandler.Me)
		students.GET("/:id", studentHandler.Get)
		students.POST("", adminOnly, studentHandler.Register)
		students.PATCH("/:id", adminOnly, studentHandler.Update)
		students.DELETE("/:id", adminOnly, studentHandler.Delete)
	}

	faculty := api.Group("/faculty", authRequired)
	{
		faculty.GET("", staff, facultyHandler.Search)
		faculty.GET("/me", facultyOnly, facultyHandler.Me)
		faculty.GET("/:id", facultyHandler.Get)
		faculty.POST("", adminOnly, facultyHandler.Register)
		faculty.PATCH("/:id", adminOnly, facultyHandler.Update)
		faculty.DELETE("/:id", adminOnly, facultyHandler.Delete)
	}

	admins := api.Group("/admins", authRequired, adminOnly)
	{
		admins.GET("", adminHandler.Search)
		admins.GET("/me", adminHandler.Me)
		admins.GET("/:id", adminHandler.Get)
		admins.POST("", adminHandler.Register)
		admins.PATCH("/:id", adminHandler.Update)
		admins.DELETE("/:id", adminHandler.Delete)
	}

	branches := api.Group("/branches", authRequired)
	{
		branches.GET("", branchHandler.List)
		branches.GET("/:id", branchHandler.Get)
		branches.POST("", adminOnly, branchHandler.Create)
		branches.PATCH("/:id", adminOnly, branchHandler.Update)
		branches.DELETE("/:id", adminOnly, branchHandler.Delete)
	}

	subjects := api.Group("/subjects", authRequired)
	{
		subjects.GET("", subjectHandler.List)
		subjects.GET("/:id", subjectHandler.Get)
		subjects.POST("", adminOnly, subjectHandler.Create)
		subjects.PATCH("/:id", adminOnly, subjectHandler.Update)
		subjects.DELETE("/:id", adminOnly, subjectHandler.Delete)
	}

	exams := api.Group("/exams", authRequired)
	{
		exams.GET("", examHandler.List)
		exams.GET("/:id", examHandler.Get)
		exams.POST("", adminOnly, examHandler.Create)
		exams.PATCH("/:id", adminOnly, examHandler.Update)
		exams.DELETE("/:id", adminOnly, examHandler.Delete)
	}

	marks := api.Group("/marks", authRequired)
	{
		marks.GET("", marksHandler.List)
		marks.POST("/bulk", facultyOnly, marksHandler.AddBulk)
		marks.GET("/gradebook", staff, marksHandler.Gradebook)
		marks.GET("/gradebook/export", staff, marksHandler.Export)
	}

	materials := api.Group("/materials", authRequired)
	{
		materials.GET("", materialHandler.List)
		materials.GET("/:id", materialHandler.Get)
		materials.POST("", facultyOnly, materialHandler.Create)
		materials.PATCH("/:id", facultyOnly, materialHandler.Update)
		materials.DELETE("/:id", facultyOnly, materialHandler.Delete)
	}

	timetables := api.Group("/timetables", authRequired)
	{
		timetables.GET("", timetableHandler.List)
		timetables.POST("", adminOnly, timetableHandler.Upsert)
		timetables.DELETE("/:id", adminOnly, timetableHandler.Delete)
	}

	notices := api.Group("/notices", authRequired)
	{
		notices.GET("", noticeHandler.List)
		notices.GET("/:id", noticeHandler.Get)
		notices.POST("", adminOnly, noticeHandler.Create)
		notices.PATCH("/:id", adminOnly, noticeHandler.Update)
		notices.DELETE("/:id", adminOnly, noticeHandler.Delete)
	}

	return r
}
