package app

import (
	"net/url"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/portfolio-space/core/internal/middleware"
	"github.com/portfolio-space/core/internal/modules/health"
	"github.com/portfolio-space/core/internal/modules/objects"
	"github.com/portfolio-space/core/internal/modules/portfolio/aggregate"
	"github.com/portfolio-space/core/internal/modules/portfolio/project"
	"github.com/portfolio-space/core/internal/modules/portfolio/resource"
	"github.com/portfolio-space/core/internal/modules/portfolio/skill"
	"github.com/portfolio-space/core/internal/modules/portfolio/testimonial"
	"github.com/portfolio-space/core/internal/pkg/response"
	"go.uber.org/zap"
)

// APIPrefix is the mount point of the JSON API.
const APIPrefix = "/api/v1"

func (a *App) registerRoutes() {
	r := a.router
	db := a.db
	log := a.logger

	r.NoRoute(func(c *gin.Context) {
		response.NotFound(c)
	})
	r.NoMethod(func(c *gin.Context) {
		response.MethodNotAllowed(c)
	})

	api := r.Group(APIPrefix)
	health.RegisterRoutes(api, db, a.rdb)

	cache := middleware.HTTPCache(a.rdb, middleware.HTTPCacheOptions{})
	mw := resource.Middleware{
		Read: []gin.HandlerFunc{cache},
		// No access control sits in front of the mutating routes yet; an
		// auth middleware belongs first in this list.
		Write: []gin.HandlerFunc{
			middleware.RateLimit(a.rdb, middleware.DefaultRateLimit, log),
			middleware.Idempotence(a.rdb),
			middleware.PurgeOnWrite(a.rdb, log),
		},
	}

	skills := skill.NewService(db, log)
	projects := project.NewService(db, a.images, log)
	testimonials := testimonial.NewService(db, log)

	skill.NewHandler(skills).RegisterRoutes(api, mw)
	project.NewHandler(projects).RegisterRoutes(api, mw)
	testimonial.NewHandler(testimonials).RegisterRoutes(api, mw)
	aggregate.NewHandler(aggregate.NewService(skills, projects, testimonials)).RegisterRoutes(api, cache)

	if a.local != nil {
		if prefix := objectRoutePrefix(a.cfg.Storage.PublicBaseURL); prefix != "" {
			objects.NewHandler(a.local).RegisterRoutes(r, prefix)
		} else {
			log.Warn("local objects are not served, public_base_url has no path", zap.String("public_base_url", a.cfg.Storage.PublicBaseURL))
		}
	}
}

// objectRoutePrefix returns the path component of the public base URL of
// local objects, or "" when it cannot be mounted.
func objectRoutePrefix(base string) string {
	u, err := url.Parse(strings.TrimSpace(base))
	if err != nil {
		return ""
	}
	p := strings.TrimRight(u.Path, "/")
	if p == "" || p == APIPrefix || strings.HasPrefix(p, APIPrefix+"/") || strings.HasPrefix(APIPrefix, p+"/") {
		return ""
	}
	return p
}
