package connection

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// RetryDelay is the pause between connection attempts.
var RetryDelay = 5 * time.Second

func ConnectGORMWithRetry(ctx context.Context, dsn string, maxRetries int, logger *zap.Logger) (*gorm.DB, error) {
	if logger == nil {
		logger = zap.L()
	}
	logger = logger.Named("connection.postgres")

	var db *gorm.DB
	err := retry(ctx, maxRetries, logger, func(ctx context.Context) error {
		var err error
		db, err = gorm.Open(postgres.Open(dsn), &gorm.Config{
			Logger: gormlogger.Default.LogMode(gormlogger.Warn),
		})
		if err != nil {
			return err
		}

		sqlDB, err := db.DB()
		if err != nil {
			return err
		}
		if err := sqlDB.PingContext(ctx); err != nil {
			return err
		}

		// Pool config
		sqlDB.SetMaxOpenConns(25)
		sqlDB.SetMaxIdleConns(10)
		sqlDB.SetConnMaxLifetime(time.Hour)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("database connection failed: %w", err)
	}

	logger.Info("GORM connected to database")
	return db, nil
}

func ConnectRedisWithRetry(ctx context.Context, addr string, maxRetries int, logger *zap.Logger) (*redis.Client, error) {
	if logger == nil {
		logger = zap.L()
	}
	logger = logger.Named("connection.redis")

	rdb := redis.NewClient(&redis.Options{
		Addr: addr,
	})

	err := retry(ctx, maxRetries, logger, func(ctx context.Context) error {
		return rdb.Ping(ctx).Err()
	})
	if err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("failed to connect redis: %w", err)
	}

	logger.Info("Connected to Redis", zap.String("addr", addr))
	return rdb, nil
}

func retry(ctx context.Context, maxRetries int, logger *zap.Logger, attempt func(context.Context) error) error {
	if maxRetries < 1 {
		maxRetries = 1
	}

	var lastErr error
	for i := 1; i <= maxRetries; i++ {
		if lastErr = attempt(ctx); lastErr == nil {
			return nil
		}
		logger.Warn("connection attempt failed",
			zap.Int("attempt", i),
			zap.Int("max", maxRetries),
			zap.Error(lastErr),
		)
		if i == maxRetries {
			break
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(RetryDelay):
		}
	}
	return fmt.Errorf("after %d attempts: %w", maxRetries, lastErr)
}
