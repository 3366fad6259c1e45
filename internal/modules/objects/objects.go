// Package objects serves blobs written by the local storage driver.
package objects

import (
	"os"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/portfolio-space/core/internal/pkg/blob/localstore"
	"github.com/portfolio-space/core/internal/pkg/response"
)

type Handler struct {
	bucket *localstore.Bucket
}

func NewHandler(bucket *localstore.Bucket) *Handler { return &Handler{bucket: bucket} }

// RegisterRoutes mounts GET and HEAD <prefix>/*key.
func (h *Handler) RegisterRoutes(r gin.IRoutes, prefix string) {
	pattern := strings.TrimRight(prefix, "/") + "/*key"
	r.GET(pattern, h.get)
	r.HEAD(pattern, h.get)
}

func (h *Handler) get(c *gin.Context) {
	path, err := h.bucket.Path(strings.TrimPrefix(c.Param("key"), "/"))
	if err != nil {
		response.NotFound(c)
		return
	}
	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		response.NotFound(c)
		return
	}

	// keys carry a timestamp and never get rewritten
	c.Header("Cache-Control", "public, max-age=31536000, immutable")
	c.Header("X-Content-Type-Options", "nosniff")
	c.File(path)
}
