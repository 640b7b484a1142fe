package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	_ "github.com/unicampus/college-api/api/swagger"
	"github.com/unicampus/college-api/internal/repository"
	"github.com/unicampus/college-api/internal/router"
	"github.com/unicampus/college-api/internal/service"
	"github.com/unicampus/college-api/pkg/cache"
	"github.com/unicampus/college-api/pkg/config"
	"github.com/unicampus/college-api/pkg/database"
	"github.com/unicampus/college-api/pkg/jobs"
	"github.com/unicampus/college-api/pkg/logger"
	"github.com/unicampus/college-api/pkg/mailer"
	"github.com/unicampus/college-api/pkg/storage"
)

// @title College API
// @version 1.0.0
// @description College management REST API
// @BasePath /api/v1
// @schemes http

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	for _, warning := range cfg.Warnings() {
		logr.Warn(warning)
	}

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Fatal("failed to connect to postgres", zap.Error(err))
	}
	defer db.Close()

	media, err := storage.NewMediaStore(cfg.Uploads.Dir, cfg.Uploads.MaxFileSizeBytes)
	if err != nil {
		logr.Fatal("failed to init media store", zap.Error(err))
	}

	metrics := service.NewMetricsService()

	// Redis is optional: without it list caching is simply off.
	var cacheRepo *repository.CacheRepository
	cacheEnabled := cfg.Cache.Enabled
	redisClient, err := cache.NewRedis(cfg.Redis)
	if err != nil {
		logr.Warn("redis unavailable, caching disabled", zap.Error(err))
		cacheEnabled = false
	} else {
		cacheRepo = repository.NewCacheRepository(redisClient, logr)
		defer cacheRepo.Close() //nolint:errcheck
	}
	var cacheBackend service.CacheRepository
	if cacheRepo != nil {
		cacheBackend = cacheRepo
	}
	cacheSvc := service.NewCacheService(cacheBackend, metrics, cfg.Cache.TTL, logr, cacheEnabled)

	validate := validator.New()

	studentRepo := repository.NewStudentRepository(db)
	facultyRepo := repository.NewFacultyRepository(db)
	adminRepo := repository.NewAdminRepository(db)
	branchRepo := repository.NewBranchRepository(db)
	subjectRepo := repository.NewSubjectRepository(db)
	examRepo := repository.NewExamRepository(db)
	marksRepo := repository.NewMarksRepository(db)
	materialRepo := repository.NewMaterialRepository(db)
	timetableRepo := repository.NewTimetableRepository(db)
	noticeRepo := repository.NewNoticeRepository(db)
	resetTokenRepo := repository.NewResetTokenRepository(db)

	smtpMailer := mailer.NewSMTPMailer(cfg.SMTP, cfg.Reset.FrontendBaseURL, logr)
	queuedMailer := mailer.NewQueuedMailer(smtpMailer, jobs.QueueConfig{
		Workers:    cfg.Mail.Workers,
		MaxRetries: cfg.Mail.MaxRetries,
		RetryDelay: cfg.Mail.RetryDelay,
		Logger:     logr,
	}, metrics.RecordMailOutcome)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	queuedMailer.Queue().Start(ctx)
	defer queuedMailer.Queue().Stop()

	directories := repository.Directories(studentRepo, facultyRepo, adminRepo)

	authSvc := service.NewAuthService(directories, resetTokenRepo, queuedMailer, validate, logr, service.AuthConfig{
		Secret:      cfg.JWT.Secret,
		TokenExpiry: cfg.JWT.Expiration,
		ResetTTL:    cfg.Reset.TokenTTL,
		Issuer:      "college-api",
	})

	deps := router.Dependencies{
		Config:     cfg,
		Logger:     logr,
		Media:      media,
		Metrics:    metrics,
		Auth:       authSvc,
		Students:   service.NewStudentService(studentRepo, marksRepo, validate, logr),
		Faculty:    service.NewFacultyService(facultyRepo, validate, logr),
		Admins:     service.NewAdminService(adminRepo, validate, logr),
		Branches:   service.NewBranchService(branchRepo, validate, logr),
		Subjects:   service.NewSubjectService(subjectRepo, validate, logr),
		Exams:      service.NewExamService(examRepo, validate, logr),
		Marks:      service.NewMarksService(marksRepo, studentRepo, validate, logr),
		Materials:  service.NewMaterialService(materialRepo, validate, logr),
		Timetables: service.NewTimetableService(timetableRepo, validate, logr),
		Notices:    service.NewNoticeService(noticeRepo, cacheSvc, validate, logr),
	}

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Port),
		Handler: router.New(deps),
	}

	go func() {
		logr.Sugar().Infow("server starting", "addr", srv.Addr, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logr.Sugar().Fatalw("server failed", "error", err)
		}
	}()

	<-ctx.Done()
	logr.Info("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logr.Error("server shutdown failed", zap.Error(err))
	}
	logr.Info("server stopped")
}
