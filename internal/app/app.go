package app

import (
	"os"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"hostelpass/internal/shared/connection"
)

func BuildApp(router *gin.Engine) error {
	gormDB, err := connection.ConnectGORMWithRetry(
		os.Getenv("DB_HOST"),
		os.Getenv("DB_USER"),
		os.Getenv("DB_PASSWORD"),
		os.Getenv("DB_NAME"),
		os.Getenv("DB_PORT"),
		os.Getenv("DB_SSLMODE"),
		5,
	)
	if err != nil {
		return err
	}
	zap.L().Info("database connection established")

	db, err := gormDB.DB()
	if err != nil {
		return err
	}

	// Redis is optional: without it the idempotency shield is skipped.
	rdb, err := connection.ConnectRedisWithRetry(os.Getenv("REDIS_ADDR"), 5)
	if err != nil {
		zap.L().Warn("redis unavailable, idempotency disabled", zap.Error(err))
		rdb = nil
	} else {
		zap.L().Info("redis connection established")
	}

	return registerModules(router, db, gormDB, rdb)
}
