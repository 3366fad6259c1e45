package health

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/portfolio-space/core/internal/database"
	pkgredis "github.com/portfolio-space/core/internal/pkg/redis"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

const pingTimeout = 2 * time.Second

// Report is the body of GET /health. Redis is "disabled" when no client is
// configured; a failing redis degrades the status without failing the check.
type Report struct {
	Status   string `json:"status"`
	Database bool   `json:"database"`
	Redis    string `json:"redis"`
}

func Check(ctx context.Context, db *gorm.DB, rdb *redis.Client) (Report, int) {
	ctx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	report := Report{Status: "ok", Database: database.Ping(ctx, db) == nil, Redis: "ok"}
	code := http.StatusOK
	switch err := pkgredis.Ping(ctx, rdb); {
	case errors.Is(err, pkgredis.ErrDisabled):
		report.Redis = "disabled"
	case err != nil:
		report.Redis = "down"
		report.Status = "degraded"
	}
	if !report.Database {
		report.Status = "degraded"
		code = http.StatusServiceUnavailable
	}
	return report, code
}

func RegisterRoutes(rg *gin.RouterGroup, db *gorm.DB, rdb *redis.Client) {
	rg.GET("/health", func(c *gin.Context) {
		report, code := Check(c.Request.Context(), db, rdb)
		c.JSON(code, report)
	})
	rg.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"data": "pong"})
	})
}
