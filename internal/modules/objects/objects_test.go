package objects

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/portfolio-space/core/internal/pkg/blob/localstore"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestServeLocalObjects(t *testing.T) {
	gin.SetMode(gin.TestMode)
	bucket, err := localstore.New(t.TempDir(), "/objects")
	require.NoError(t, err)
	require.NoError(t, bucket.Put(context.Background(), "projects/1_ab_shot.png", strings.NewReader("png-bytes"), 9, "image/png"))

	r := gin.New()
	NewHandler(bucket).RegisterRoutes(r, "/objects")

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/objects/projects/1_ab_shot.png", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "png-bytes", w.Body.String())
	assert.Contains(t, w.Header().Get("Cache-Control"), "immutable")

	for _, path := range []string{"/objects/projects/missing.png", "/objects/projects", "/objects/../secret"} {
		w = httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, http.StatusNotFound, w.Code, path)
	}
}
