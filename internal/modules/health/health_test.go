package health

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/portfolio-space/core/internal/database"
	"github.com/portfolio-space/core/internal/database/dbtest"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() { gin.SetMode(gin.TestMode) }

func get(t *testing.T, r http.Handler, path string) (*httptest.ResponseRecorder, Report) {
	t.Helper()
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
	var report Report
	if path == "/health" {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &report))
	}
	return w, report
}

func TestHealth(t *testing.T) {
	db := dbtest.New(t)
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer rdb.Close()

	r := gin.New()
	RegisterRoutes(r.Group(""), db, rdb)

	w, report := get(t, r, "/health")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, Report{Status: "ok", Database: true, Redis: "ok"}, report)

	mr.Close()
	w, report = get(t, r, "/health")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "degraded", report.Status)
	assert.Equal(t, "down", report.Redis)

	w, _ = get(t, r, "/ping")
	assert.JSONEq(t, `{"data":"pong"}`, w.Body.String())
}

func TestHealthDatabaseDown(t *testing.T) {
	db := dbtest.New(t)
	require.NoError(t, database.Close(db))

	r := gin.New()
	RegisterRoutes(r.Group(""), db, nil)

	w, report := get(t, r, "/health")
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Equal(t, Report{Status: "degraded", Database: false, Redis: "disabled"}, report)
}
