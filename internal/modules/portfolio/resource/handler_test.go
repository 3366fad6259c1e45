package resource_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/portfolio-space/core/internal/modules/portfolio/project"
	"github.com/portfolio-space/core/internal/modules/portfolio/resource"
	"github.com/portfolio-space/core/internal/modules/portfolio/skill"
	"github.com/portfolio-space/core/internal/modules/portfolio/testimonial"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() { gin.SetMode(gin.TestMode) }

func (h *harness) router() *gin.Engine {
	r := gin.New()
	api := r.Group("/api/v1")
	skill.NewHandler(h.skills).RegisterRoutes(api, resource.Middleware{})
	project.NewHandler(h.projects).RegisterRoutes(api, resource.Middleware{})
	testimonial.NewHandler(h.testimonials).RegisterRoutes(api, resource.Middleware{})
	return r
}

func doJSON(t *testing.T, r http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func doForm(t *testing.T, r http.Handler, method, path string, fields map[string]string, fileName string, file []byte) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	if fileName != "" {
		part, err := mw.CreateFormFile(resource.ImageField, fileName)
		require.NoError(t, err)
		_, err = part.Write(file)
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}

type errorBody struct {
	Error   string          `json:"error"`
	Details json.RawMessage `json:"details"`
}

func TestHandlerSkillLifecycle(t *testing.T) {
	h := newHarness(t)
	r := h.router()

	w := doJSON(t, r, http.MethodGet, "/api/v1/skills", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[]`, w.Body.String())

	w = doJSON(t, r, http.MethodPost, "/api/v1/skills", map[string]any{"name": "Go", "category": "Backend"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	created := decode[map[string]any](t, w)
	id, _ := created["id"].(string)
	require.NotEmpty(t, id)
	assert.Equal(t, "Go", created["name"])

	w = doJSON(t, r, http.MethodPut, "/api/v1/skills", map[string]any{"id": id, "name": "Gin", "category": "Backend"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "Gin", decode[map[string]any](t, w)["name"])

	w = doJSON(t, r, http.MethodGet, "/api/v1/skills/"+id, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Gin", decode[map[string]any](t, w)["name"])

	w = doJSON(t, r, http.MethodDelete, "/api/v1/skills?id="+id, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.JSONEq(t, `{"message":"Skill deleted successfully","skillId":"`+id+`"}`, w.Body.String())

	w = doJSON(t, r, http.MethodDelete, "/api/v1/skills/"+id, nil)
	require.Equal(t, http.StatusNotFound, w.Code)
	body := decode[errorBody](t, w)
	assert.JSONEq(t, `"Skill not found"`, string(body.Details))
}

func TestHandlerValidationFailed(t *testing.T) {
	h := newHarness(t)
	r := h.router()

	w := doJSON(t, r, http.MethodPost, "/api/v1/skills", map[string]any{"name": "", "category": "Cooking"})
	require.Equal(t, http.StatusBadRequest, w.Code)
	body := decode[errorBody](t, w)
	assert.Equal(t, "Validation failed", body.Error)

	var details []resource.FieldError
	require.NoError(t, json.Unmarshal(body.Details, &details))
	require.Len(t, details, 2)
	assert.Equal(t, resource.FieldError{Field: "name", Message: "Name is required"}, details[0])
	assert.Equal(t, "category", details[1].Field)

	items, err := h.skills.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestHandlerRejectsMalformedBodies(t *testing.T) {
	h := newHarness(t)
	r := h.router()

	req := httptest.NewRequest(http.MethodPost, "/api/v1/testimonials", bytes.NewBufferString(`{"name":`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Invalid JSON", decode[errorBody](t, w).Error)

	w = doJSON(t, r, http.MethodPost, "/api/v1/testimonials", []string{"not", "an", "object"})
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Invalid JSON", decode[errorBody](t, w).Error)
}

func TestHandlerMissingID(t *testing.T) {
	h := newHarness(t)
	r := h.router()

	w := doJSON(t, r, http.MethodDelete, "/api/v1/testimonials", nil)
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `"Testimonial ID is required"`, string(decode[errorBody](t, w).Details))

	w = doJSON(t, r, http.MethodPut, "/api/v1/testimonials", map[string]any{"name": "a", "role": "b", "quote": "c"})
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHandlerProjectMultipart(t *testing.T) {
	h := newHarness(t)
	r := h.router()

	w := doForm(t, r, http.MethodPost, "/api/v1/projects", map[string]string{
		"title":        "Portfolio",
		"description":  "This site",
		"technologies": "React, Node.js,  , TypeScript",
		"githubLink":   "",
	}, "Screen Shot.png", []byte("\x89PNG\r\n\x1a\n"))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	created := decode[map[string]any](t, w)
	id := created["id"].(string)
	assert.Equal(t, []any{"React", "Node.js", "TypeScript"}, created["technologies"])
	assert.Nil(t, created["githubLink"])
	imageURL, _ := created["imageUrl"].(string)
	assert.Contains(t, imageURL, "/projects/")
	assert.NotContains(t, created, "imageKey")
	require.Len(t, h.bucket.Puts, 1)
	assert.Equal(t, "image/png", h.bucket.ContentType(h.bucket.Puts[0]))

	w = doForm(t, r, http.MethodPut, "/api/v1/projects", map[string]string{
		"id":           id,
		"title":        "Portfolio v2",
		"description":  "This site",
		"technologies": "Go",
	}, "", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	updated := decode[map[string]any](t, w)
	assert.Equal(t, "Portfolio v2", updated["title"])
	assert.Equal(t, imageURL, updated["imageUrl"])

	w = doJSON(t, r, http.MethodDelete, "/api/v1/projects/"+id, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, id, decode[map[string]any](t, w)["projectId"])
	assert.Zero(t, h.bucket.Len())
}

func TestHandlerProjectImageErrors(t *testing.T) {
	fields := map[string]string{"title": "t", "description": "d", "technologies": "Go"}

	t.Run("unsupported type", func(t *testing.T) {
		h := newHarness(t)
		w := doForm(t, h.router(), http.MethodPost, "/api/v1/projects", fields, "notes.txt", []byte("hello"))
		require.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "Unsupported media type", decode[errorBody](t, w).Error)
		assert.Empty(t, h.bucket.Puts)
	})

	t.Run("upload failure", func(t *testing.T) {
		h := newHarness(t)
		h.bucket.PutErr = errors.New("bucket offline")
		w := doForm(t, h.router(), http.MethodPost, "/api/v1/projects", fields, "a.png", []byte("\x89PNG"))
		require.Equal(t, http.StatusBadGateway, w.Code)
		assert.Equal(t, "Failed to upload image", decode[errorBody](t, w).Error)

		items, err := h.projects.List(context.Background())
		require.NoError(t, err)
		assert.Empty(t, items)
	})

	t.Run("unknown id", func(t *testing.T) {
		h := newHarness(t)
		w := doForm(t, h.router(), http.MethodPut, "/api/v1/projects/missing", fields, "a.png", []byte("\x89PNG"))
		require.Equal(t, http.StatusNotFound, w.Code)
		assert.JSONEq(t, `"Project not found"`, string(decode[errorBody](t, w).Details))
		assert.Empty(t, h.bucket.Puts)
	})
}

func TestHandlerIgnoresFileForKindsWithoutImages(t *testing.T) {
	h := newHarness(t)
	w := doForm(t, h.router(), http.MethodPost, "/api/v1/testimonials", map[string]string{
		"name": "Ann", "role": "CTO", "quote": "Great", "imageUrl": "https://example.com/ann.jpg",
	}, "ann.png", []byte("\x89PNG"))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.Equal(t, "https://example.com/ann.jpg", decode[map[string]any](t, w)["imageUrl"])
	assert.Empty(t, h.bucket.Puts)
}
