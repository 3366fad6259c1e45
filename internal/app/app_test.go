package app

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/portfolio-space/core/internal/config"
	"github.com/portfolio-space/core/internal/database/dbtest"
	"github.com/portfolio-space/core/internal/middleware"
	"github.com/portfolio-space/core/internal/pkg/blob/localstore"
	"github.com/portfolio-space/core/internal/pkg/blob/miniostore"
	"github.com/portfolio-space/core/internal/pkg/blob/s3store"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestApp(t *testing.T) *App {
	t.Helper()
	cfg, err := config.Parse([]byte("env: production\ndatabase:\n  driver: sqlite\n  path: \":memory:\"\n"), "inline")
	require.NoError(t, err)

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	bucket, err := localstore.New(t.TempDir(), cfg.Storage.PublicBaseURL)
	require.NoError(t, err)

	a, err := NewWithOptions(zap.NewNop(), cfg, Options{DB: dbtest.New(t), Redis: rdb, Bucket: bucket})
	require.NoError(t, err)
	t.Cleanup(func() { _ = rdb.Close() })
	return a
}

func request(a *App, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	a.Router().ServeHTTP(w, req)
	return w
}

func TestProjectImageFlow(t *testing.T) {
	a := newTestApp(t)

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	require.NoError(t, mw.WriteField("title", "Portfolio"))
	require.NoError(t, mw.WriteField("description", "This site"))
	require.NoError(t, mw.WriteField("technologies", "Go, gin"))
	part, err := mw.CreateFormFile("imageFile", "shot.png")
	require.NoError(t, err)
	_, err = part.Write([]byte("\x89PNG\r\n\x1a\nfake"))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/projects", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	w := request(a, req)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var created struct {
		ID       string `json:"id"`
		ImageURL string `json:"imageUrl"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	require.NotEmpty(t, created.ImageURL)

	imageURL, err := url.Parse(created.ImageURL)
	require.NoError(t, err)
	w = request(a, httptest.NewRequest(http.MethodGet, imageURL.Path, nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "\x89PNG\r\n\x1a\nfake", w.Body.String())

	// warm the cache, then make sure a delete is visible right away
	w = request(a, httptest.NewRequest(http.MethodGet, "/api/v1/projects", nil))
	require.Equal(t, http.StatusOK, w.Code)
	w = request(a, httptest.NewRequest(http.MethodGet, "/api/v1/projects", nil))
	assert.Equal(t, "hit", w.Header().Get("x-portfolio-cache"))

	w = request(a, httptest.NewRequest(http.MethodDelete, "/api/v1/projects/"+created.ID, nil))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = request(a, httptest.NewRequest(http.MethodGet, "/api/v1/projects", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[]`, w.Body.String())

	w = request(a, httptest.NewRequest(http.MethodGet, imageURL.Path, nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func postSkill(a *App, key string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/skills", bytes.NewBufferString(`{"name":"Go","category":"Backend"}`))
	req.Header.Set("Content-Type", "application/json")
	if key != "" {
		req.Header.Set(middleware.IdempotenceHeader, key)
	}
	return request(a, req)
}

func TestDuplicatePostRejected(t *testing.T) {
	a := newTestApp(t)

	assert.Equal(t, http.StatusCreated, postSkill(a, "create-go").Code)
	assert.Equal(t, http.StatusConflict, postSkill(a, "create-go").Code)

	w := request(a, httptest.NewRequest(http.MethodGet, "/api/v1/skills", nil))
	require.Equal(t, http.StatusOK, w.Code)
	var skills []map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &skills))
	assert.Len(t, skills, 1)
}

func TestRecreateAfterDelete(t *testing.T) {
	a := newTestApp(t)

	w := postSkill(a, "")
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var created struct {
		ID string `json:"id"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))

	w = request(a, httptest.NewRequest(http.MethodDelete, "/api/v1/skills/"+created.ID, nil))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = postSkill(a, "")
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = request(a, httptest.NewRequest(http.MethodGet, "/api/v1/skills", nil))
	require.Equal(t, http.StatusOK, w.Code)
	var skills []struct {
		ID   string `json:"id"`
		Name string `json:"name"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &skills))
	require.Len(t, skills, 1)
	assert.Equal(t, "Go", skills[0].Name)
	assert.NotEqual(t, created.ID, skills[0].ID)
}

func TestUnknownRouteAndMethod(t *testing.T) {
	a := newTestApp(t)

	w := request(a, httptest.NewRequest(http.MethodGet, "/api/v1/nope", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), `"error":"Not Found"`)

	w = request(a, httptest.NewRequest(http.MethodPatch, "/api/v1/skills", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)

	w = request(a, httptest.NewRequest(http.MethodGet, "/api/v1/health", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestNewBucket(t *testing.T) {
	cfg := &config.AppConfig{Storage: config.StorageRuntimeConfig{
		Driver:        config.StorageLocal,
		LocalDir:      t.TempDir(),
		PublicBaseURL: "/objects",
	}}
	b, err := newBucket(cfg)
	require.NoError(t, err)
	assert.IsType(t, &localstore.Bucket{}, b)

	cfg.Storage = config.StorageRuntimeConfig{
		Driver: config.StorageS3, Region: "us-east-1", Bucket: "assets",
		AccessKeyID: "a", SecretAccessKey: "s",
	}
	b, err = newBucket(cfg)
	require.NoError(t, err)
	assert.IsType(t, &s3store.Bucket{}, b)

	cfg.Storage = config.StorageRuntimeConfig{
		Driver: config.StorageMinIO, Endpoint: "localhost:9000", Bucket: "assets",
		AccessKeyID: "a", SecretAccessKey: "s",
	}
	b, err = newBucket(cfg)
	require.NoError(t, err)
	assert.IsType(t, &miniostore.Bucket{}, b)

	cfg.Storage.Driver = "ftp"
	_, err = newBucket(cfg)
	require.Error(t, err)
}

func TestObjectRoutePrefix(t *testing.T) {
	cases := map[string]string{
		"/objects":                       "/objects",
		"https://cdn.example.com/media/": "/media",
		"https://cdn.example.com":        "",
		"/api/v1/objects":                "",
		"/api":                           "",
	}
	for in, want := range cases {
		assert.Equal(t, want, objectRoutePrefix(in), in)
	}
}

func TestCORSOrigins(t *testing.T) {
	patterns := []string{"*.example.com", "localhost:*", "portfolio.dev"}
	assert.True(t, originAllowed(patterns, "https://admin.example.com"))
	assert.True(t, originAllowed(patterns, "http://localhost:5173"))
	assert.True(t, originAllowed(patterns, "https://portfolio.dev"))
	assert.False(t, originAllowed(patterns, "https://example.com"))
	assert.False(t, originAllowed(patterns, "https://evil.com"))

	cfg := &config.AppConfig{Env: "production", AllowedOrigins: []string{"*.example.com"}}
	c := corsConfig(cfg)
	assert.True(t, c.AllowOriginFunc("https://admin.example.com"))
	assert.False(t, c.AllowOriginFunc("https://evil.com"))
}

func TestParseTimezoneLocation(t *testing.T) {
	loc, err := parseTimezoneLocation("+05:30")
	require.NoError(t, err)
	_, offset := time.Date(2026, 1, 1, 0, 0, 0, 0, loc).Zone()
	assert.Equal(t, 5*3600+30*60, offset)

	_, err = parseTimezoneLocation("Mars/Olympus")
	require.Error(t, err)
}
