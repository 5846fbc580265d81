package app

import (
	"database/sql"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"hostelpass/internal/admin"
	"hostelpass/internal/auth"
	"hostelpass/internal/authz"
	"hostelpass/internal/config"
	"hostelpass/internal/hierarchy"
	"hostelpass/internal/history"
	"hostelpass/internal/media"
	"hostelpass/internal/messaging/kafka"
	"hostelpass/internal/middleware"
	"hostelpass/internal/pass"
	"hostelpass/internal/scope"
	"hostelpass/internal/student"
)

func registerModules(
	router *gin.Engine,
	db *sql.DB,
	gormDB *gorm.DB,
	rdb *redis.Client,
) error {
	cfg := config.LoadWorkflow()
	hier := hierarchy.New(cfg.Roles)

	gate, err := authz.NewGate(cfg.Roles)
	if err != nil {
		return err
	}

	// --- Repositories ---
	studentRepo := student.NewRepository(gormDB)
	adminRepo := admin.NewRepository(gormDB)
	passRepo := pass.NewRepository(gormDB)
	historyRepo := history.NewRepository(gormDB)
	outboxRepo := kafka.NewOutboxRepository(db)

	scoper := scope.NewScoper(studentRepo)
	archiver := history.NewArchiver(historyRepo)

	mediaDir := os.Getenv("MEDIA_DIR")
	if mediaDir == "" {
		mediaDir = "uploads"
	}
	imageStore, err := media.NewDiskStore(mediaDir)
	if err != nil {
		return err
	}

	// --- Services ---
	authService := auth.NewService(studentRepo, adminRepo)
	studentService := student.NewService(db, studentRepo, scoper, cfg)
	adminService := admin.NewService(adminRepo, hier)
	passService := pass.NewService(db, passRepo, studentRepo, scoper, hier, archiver, outboxRepo)
	historyService := history.NewService(historyRepo, scoper)

	// --- Handlers ---
	authHandler := auth.NewHandler(authService)
	studentHandler := student.NewHandler(studentService, imageStore)
	adminHandler := admin.NewHandler(adminService)
	leaveHandler := pass.NewHandler(pass.KindLeave, passService)
	outingHandler := pass.NewHandler(pass.KindOuting, passService)
	if rdb != nil {
		studentHandler = student.NewHandlerWithRedis(studentService, imageStore, rdb)
		leaveHandler = pass.NewHandlerWithRedis(pass.KindLeave, passService, rdb)
		outingHandler = pass.NewHandlerWithRedis(pass.KindOuting, passService, rdb)
	}
	leaveHistoryHandler := history.NewHandler(pass.KindLeave, historyService)
	outingHistoryHandler := history.NewHandler(pass.KindOuting, historyService)

	// --- Routes Registration ---
	api := router.Group("/api/v1")
	api.Use(middleware.RequestID())
	{
		auth.RegisterRoutes(api, authHandler)
		student.RegisterRoutes(api, studentHandler, gate, rdb)
		admin.RegisterRoutes(api, adminHandler, gate)
		pass.RegisterRoutes(api, pass.KindLeave, leaveHandler, gate, rdb)
		pass.RegisterRoutes(api, pass.KindOuting, outingHandler, gate, rdb)
		history.RegisterRoutes(api, pass.KindLeave, leaveHistoryHandler, gate)
		history.RegisterRoutes(api, pass.KindOuting, outingHistoryHandler, gate)
	}

	return nil
}
