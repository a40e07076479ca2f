package app

import (
	"database/sql"

	devattendance "go-hrm/internal/devapi/attendance"
	devauth "go-hrm/internal/devapi/auth"
	"go-hrm/internal/devapi/middleware"
	"go-hrm/internal/rbac"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func registerModules(
	router *gin.Engine,
	db *sql.DB,
	gormDB *gorm.DB,
	rdb *redis.Client,
	cfg moduleConfig,
	logger *zap.Logger,
) (devauth.Service, error) {
	// --- Repositories ---
	authRepo := devauth.NewRepository(gormDB)
	attendanceRepo := devattendance.NewRepository(gormDB)

	// --- RBAC Core ---
	rbacService, err := rbac.NewService(logger)
	if err != nil {
		return nil, err
	}

	// --- Services ---
	authService := devauth.NewService(authRepo, cfg.jwtSecret, cfg.tokenTTL, logger)
	attendanceService := devattendance.NewService(db, attendanceRepo, cfg.location, logger)

	// --- Handlers ---
	authHandler := devauth.NewHandler(authService)
	attendanceHandler := devattendance.NewHandler(attendanceService)
	rbacHandler := rbac.NewHandler(rbacService, logger)

	// --- Routes Registration ---
	router.Use(middleware.ContextLogger(logger))
	api := router.Group("/api/v1")
	{
		devauth.RegisterRoutes(api, authHandler, cfg.jwtSecret)
		devattendance.RegisterRoutes(api, attendanceHandler, rbacService, cfg.jwtSecret, rdb)
		rbac.RegisterRoutes(api, rbacHandler, middleware.Auth(cfg.jwtSecret))
	}

	return authService, nil
}
