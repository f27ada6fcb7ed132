package app

import (
	"go-attendance/internal/config"
	"go-attendance/internal/shared/audit"
	"go-attendance/internal/shared/connection"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const connectRetries = 5

// App is the wired API. ShutdownHooks close connections the HTTP server
// does not track; Close releases the stores.
type App struct {
	ShutdownHooks []func()
	cleanup       func()
}

func (a *App) Close() {
	if a != nil && a.cleanup != nil {
		a.cleanup()
	}
}

// BuildApp connects the stores and registers every module on router.
func BuildApp(router *gin.Engine, cfg config.Config, auditLogger audit.Logger) (*App, error) {
	logger := zap.L().Named("app")

	db, err := openDatabase(cfg)
	if err != nil {
		return nil, err
	}
	logger.Info("database connection established")

	rdb, err := connection.ConnectRedisWithRetry(cfg.RedisAddr, connectRetries)
	if err != nil {
		closeDatabase(db)
		return nil, err
	}
	logger.Info("redis connection established")

	cleanup := func() {
		if err := rdb.Close(); err != nil {
			logger.Warn("close redis failed", zap.Error(err))
		}
		closeDatabase(db)
	}

	hooks, err := registerModules(router, cfg, db, rdb, auditLogger)
	if err != nil {
		cleanup()
		return nil, err
	}
	return &App{ShutdownHooks: hooks, cleanup: cleanup}, nil
}

func openDatabase(cfg config.Config) (*gorm.DB, error) {
	return connection.ConnectGORMWithRetry(
		cfg.DBHost,
		cfg.DBUser,
		cfg.DBPassword,
		cfg.DBName,
		cfg.DBPort,
		cfg.DBSSLMode,
		connectRetries,
	)
}

func closeDatabase(db *gorm.DB) {
	sqlDB, err := db.DB()
	if err != nil {
		return
	}
	if err := sqlDB.Close(); err != nil {
		zap.L().Named("app").Warn("close database failed", zap.Error(err))
	}
}
