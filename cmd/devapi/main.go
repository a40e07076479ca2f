package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go-hrm/internal/app"
	"go-hrm/internal/bootstrap"
	"go-hrm/internal/config"
	"go-hrm/internal/shared/apperror"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func main() {
	seed := flag.Bool("seed", false, "create the demo admin and employee accounts before serving")
	flag.Parse()

	cfg, cfgErr := config.LoadDevAPI()

	logger, err := newLogger(cfg.AppEnv)
	if err != nil {
		panic(err)
	}
	defer logger.Sync()
	zap.ReplaceGlobals(logger)

	if cfgErr != nil {
		logger.Fatal("load config failed", zap.Error(cfgErr))
	}
	if cfg.AppEnv == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	apperror.Init()
	r := gin.New()
	r.Use(gin.Recovery())

	// build dependency + routes
	devAPI, err := app.BuildDevAPI(ctx, cfg, r, logger)
	if err != nil {
		logger.Fatal("build app failed", zap.Error(err))
	}
	defer devAPI.Close()

	auditLogger := bootstrap.NewStdoutAuditLogger(logger)

	if *seed {
		if err := devAPI.Seed(ctx, cfg.SeedPassword); err != nil {
			logger.Fatal("seed failed", zap.Error(err))
		}
		auditLogger.Log(ctx, bootstrap.AuditLog{
			Action:  "SEED_USERS",
			Message: "Demo accounts ensured",
			Meta:    map[string]any{"emails": []string{"admin@hrm.local", "employee@hrm.local"}},
		})
	}

	if err := bootstrap.RunHTTPServer(
		ctx,
		r,
		bootstrap.ServerConfig{
			Port:         cfg.Port,
			ReadTimeout:  5 * time.Second,
			WriteTimeout: 10 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		auditLogger,
		logger,
	); err != nil {
		logger.Error("server stopped", zap.Error(err))
	}
}

func newLogger(env string) (*zap.Logger, error) {
	if env == "production" {
		return zap.NewProduction()
	}
	return zap.NewDevelopment()
}
