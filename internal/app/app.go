package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"path"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/portfolio-space/core/internal/config"
	"github.com/portfolio-space/core/internal/database"
	"github.com/portfolio-space/core/internal/middleware"
	"github.com/portfolio-space/core/internal/pkg/blob"
	"github.com/portfolio-space/core/internal/pkg/blob/localstore"
	pkgredis "github.com/portfolio-space/core/internal/pkg/redis"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// App holds all application dependencies.
type App struct {
	cfg    *config.AppConfig
	router *gin.Engine
	db     *gorm.DB
	rdb    *redis.Client
	images *blob.Store
	local  *localstore.Bucket
	logger *zap.Logger
}

// Options overrides dependencies New would otherwise build from config.
type Options struct {
	DB     *gorm.DB
	Redis  *redis.Client
	Bucket blob.Bucket
}

// New initializes the application: config → DB → Redis → storage → routes.
func New(logger *zap.Logger, cfg *config.AppConfig) (*App, error) {
	return NewWithOptions(logger, cfg, Options{})
}

func NewWithOptions(logger *zap.Logger, cfg *config.AppConfig, opts Options) (*App, error) {
	if cfg == nil {
		return nil, errors.New("config is nil")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if err := applyRuntimeSettings(cfg); err != nil {
		return nil, err
	}
	var err error
	ready := false

	db := opts.DB
	if db == nil {
		if db, err = database.Connect(cfg, true); err != nil {
			return nil, fmt.Errorf("database: %w", err)
		}
		defer func() {
			if !ready {
				_ = database.Close(db)
			}
		}()
	}

	rdb := opts.Redis
	if rdb == nil && cfg.Redis.Enable {
		if rdb, err = pkgredis.Connect(context.Background(), cfg.RedisURL); err != nil {
			return nil, fmt.Errorf("redis: %w", err)
		}
		defer func() {
			if !ready {
				_ = rdb.Close()
			}
		}()
	}

	bucket := opts.Bucket
	if bucket == nil {
		if bucket, err = newBucket(cfg); err != nil {
			return nil, fmt.Errorf("storage: %w", err)
		}
	}
	local, _ := bucket.(*localstore.Bucket)

	if cfg.IsDev() {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.HandleMethodNotAllowed = true
	router.MaxMultipartMemory = 8 << 20
	router.Use(gin.Recovery())
	router.Use(middleware.Logger(logger))
	router.Use(cors.New(corsConfig(cfg)))

	app := &App{
		cfg:    cfg,
		router: router,
		db:     db,
		rdb:    rdb,
		images: blob.NewStore(bucket),
		local:  local,
		logger: logger,
	}
	app.registerRoutes()
	ready = true

	logger.Info("app initialized",
		zap.String("env", cfg.Env),
		zap.String("database", cfg.Database.Driver),
		zap.String("storage", cfg.Storage.Driver),
		zap.Bool("redis", rdb != nil),
	)
	return app, nil
}

func corsConfig(cfg *config.AppConfig) cors.Config {
	corsConfig := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", middleware.IdempotenceHeader},
		ExposeHeaders:    []string{"Content-Length", "x-portfolio-cache"},
		AllowCredentials: true,
	}
	if len(cfg.AllowedOrigins) > 0 && !cfg.IsDev() {
		patterns := cfg.AllowedOrigins
		corsConfig.AllowOriginFunc = func(origin string) bool { return originAllowed(patterns, origin) }
	} else {
		corsConfig.AllowOriginFunc = func(origin string) bool { return true }
	}
	return corsConfig
}

// originAllowed matches the host[:port] of origin against glob patterns such
// as "*.example.com" or "localhost:*".
func originAllowed(patterns []string, origin string) bool {
	host := origin
	if u, err := url.Parse(origin); err == nil && u.Host != "" {
		host = u.Host
	}
	for _, pattern := range patterns {
		if ok, err := path.Match(pattern, host); err == nil && ok {
			return true
		}
	}
	return false
}

// Addr returns the listen address.
func (a *App) Addr() string { return fmt.Sprintf(":%d", a.cfg.Port) }

// Router returns the HTTP handler.
func (a *App) Router() http.Handler { return a.router }

// Shutdown releases the database pool and the redis client.
func (a *App) Shutdown() {
	if a.rdb != nil {
		if err := a.rdb.Close(); err != nil {
			a.logger.Warn("close redis", zap.Error(err))
		}
	}
	if err := database.Close(a.db); err != nil {
		a.logger.Warn("close database", zap.Error(err))
	}
}
