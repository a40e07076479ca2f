package app

import (
	"context"
	"database/sql"
	"time"

	devattendance "go-hrm/internal/devapi/attendance"
	devauth "go-hrm/internal/devapi/auth"
	"go-hrm/internal/config"
	"go-hrm/internal/shared/connection"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// DevAPI holds the infrastructure of the local stand-in backend.
type DevAPI struct {
	DB    *gorm.DB
	Redis *redis.Client
	Auth  devauth.Service

	sqlDB  *sql.DB
	logger *zap.Logger
}

func BuildDevAPI(ctx context.Context, cfg config.DevAPI, router *gin.Engine, logger *zap.Logger) (*DevAPI, error) {
	if logger == nil {
		logger = zap.L()
	}
	logger = logger.Named("app.devapi")

	// 1. Setup Infrastructure
	gormDB, err := connection.ConnectGORMWithRetry(ctx, cfg.DBDSN, 5, logger)
	if err != nil {
		return nil, err
	}
	sqlDB, err := gormDB.DB()
	if err != nil {
		return nil, err
	}

	if err := gormDB.WithContext(ctx).AutoMigrate(&devauth.User{}, &devattendance.Attendance{}); err != nil {
		_ = sqlDB.Close()
		return nil, err
	}
	logger.Info("database migrated")

	var rdb *redis.Client
	if cfg.RedisAddr != "" {
		rdb, err = connection.ConnectRedisWithRetry(ctx, cfg.RedisAddr, 5, logger)
		if err != nil {
			_ = sqlDB.Close()
			return nil, err
		}
	} else {
		logger.Info("REDIS_ADDR not set, idempotency keys are ignored")
	}

	loc, err := cfg.Location()
	if err != nil {
		_ = sqlDB.Close()
		return nil, err
	}

	// 2. Register Modules & Routes
	authService, err := registerModules(router, sqlDB, gormDB, rdb, moduleConfig{
		jwtSecret: cfg.JWTSecret,
		tokenTTL:  cfg.AccessTokenTTL,
		location:  loc,
	}, logger)
	if err != nil {
		_ = sqlDB.Close()
		return nil, err
	}

	return &DevAPI{DB: gormDB, Redis: rdb, Auth: authService, sqlDB: sqlDB, logger: logger}, nil
}

// Seed creates the demo Admin and Employee accounts.
func (d *DevAPI) Seed(ctx context.Context, password string) error {
	return d.Auth.Seed(ctx, DemoUsers(password))
}

func DemoUsers(password string) []devauth.SeedUser {
	return []devauth.SeedUser{
		{Name: "Admin", Email: "admin@hrm.local", Password: password, Role: "Admin"},
		{Name: "Employee", Email: "employee@hrm.local", Password: password, Role: "Employee"},
	}
}

func (d *DevAPI) Close() error {
	if d.Redis != nil {
		_ = d.Redis.Close()
	}
	return d.sqlDB.Close()
}

type moduleConfig struct {
	jwtSecret string
	tokenTTL  time.Duration
	location  *time.Location
}
