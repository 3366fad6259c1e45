package resource

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/portfolio-space/core/internal/pkg/blob"
	"github.com/portfolio-space/core/internal/pkg/response"
)

const (
	// ImageField is the multipart part carrying a new image.
	ImageField = "imageFile"
	// RemoveImageField clears the current image on update.
	RemoveImageField = "removeImage"

	maxBodyBytes = blob.MaxUploadSize + 1<<20
)

// Middleware is attached to the collection routes. Read runs on GETs, Write
// on every mutating route.
type Middleware struct {
	Read  []gin.HandlerFunc
	Write []gin.HandlerFunc
}

type Handler[T any, P Model[T]] struct {
	svc *Service[T, P]
}

func NewHandler[T any, P Model[T]](svc *Service[T, P]) *Handler[T, P] {
	return &Handler[T, P]{svc: svc}
}

func (h *Handler[T, P]) RegisterRoutes(rg *gin.RouterGroup, mw Middleware) {
	g := rg.Group("/" + h.svc.Schema().Path)

	r := g.Group("", mw.Read...)
	r.GET("", h.list)
	r.GET("/:id", h.get)

	w := g.Group("", mw.Write...)
	w.POST("", h.create)
	w.PUT("", h.update)
	w.PUT("/:id", h.update)
	w.DELETE("", h.delete)
	w.DELETE("/:id", h.delete)
}

func (h *Handler[T, P]) list(c *gin.Context) {
	items, err := h.svc.List(c.Request.Context())
	if err != nil {
		h.fail(c, "fetch", err)
		return
	}
	response.List(c, items)
}

func (h *Handler[T, P]) get(c *gin.Context) {
	rec, err := h.svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.fail(c, "fetch", err)
		return
	}
	response.OK(c, rec)
}

func (h *Handler[T, P]) create(c *gin.Context) {
	req, closeBody, ok := h.bind(c)
	if !ok {
		return
	}
	defer closeBody()

	rec, err := h.svc.Create(c.Request.Context(), req)
	if err != nil {
		h.fail(c, "create", err)
		return
	}
	response.Created(c, rec)
}

func (h *Handler[T, P]) update(c *gin.Context) {
	req, closeBody, ok := h.bind(c)
	if !ok {
		return
	}
	defer closeBody()

	id := resolveID(c, req.Fields)
	if id == "" {
		h.missingID(c)
		return
	}
	rec, err := h.svc.Update(c.Request.Context(), id, req)
	if err != nil {
		h.fail(c, "update", err)
		return
	}
	response.OK(c, rec)
}

func (h *Handler[T, P]) delete(c *gin.Context) {
	var fields Input
	if c.Param("id") == "" && c.Query("id") == "" && c.Request.ContentLength > 0 {
		req, closeBody, ok := h.bind(c)
		if !ok {
			return
		}
		defer closeBody()
		fields = req.Fields
	}
	id := resolveID(c, fields)
	if id == "" {
		h.missingID(c)
		return
	}

	deleted, err := h.svc.Delete(c.Request.Context(), id)
	if err != nil {
		h.fail(c, "delete", err)
		return
	}
	schema := h.svc.Schema()
	response.OK(c, gin.H{
		"message":       schema.Label + " deleted successfully",
		schema.IDKey(): deleted,
	})
}

func (h *Handler[T, P]) missingID(c *gin.Context) {
	response.BadRequest(c, "Missing ID", h.svc.Schema().Label+" ID is required")
}

func (h *Handler[T, P]) fail(c *gin.Context, action string, err error) {
	label := h.svc.Schema().Label
	var verr *ValidationError
	var uerr *UploadError
	switch {
	case errors.As(err, &verr):
		response.ValidationFailed(c, verr.Violations)
	case errors.Is(err, ErrNotFound):
		response.NotFoundMsg(c, label+" not found")
	case errors.Is(err, blob.ErrUnsupportedMediaType):
		response.BadRequest(c, "Unsupported media type", err.Error())
	case errors.Is(err, blob.ErrPayloadTooLarge):
		response.BadRequest(c, "Payload too large", err.Error())
	case errors.As(err, &uerr):
		response.BadGateway(c, "Failed to upload image", uerr.Err)
	default:
		response.InternalError(c, fmt.Sprintf("Failed to %s %s", action, strings.ToLower(label)), err)
	}
}

// bind decodes the body into a Request. The returned func closes an opened
// image part and must be called once the request is done.
func (h *Handler[T, P]) bind(c *gin.Context) (Request, func(), bool) {
	noop := func() {}
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBodyBytes)

	mediaType, _, _ := mime.ParseMediaType(c.GetHeader("Content-Type"))
	switch mediaType {
	case "multipart/form-data":
		form, err := c.MultipartForm()
		if err != nil {
			h.bodyError(c, "Invalid form", err)
			return Request{}, noop, false
		}
		req := Request{Fields: formInput(form.Value)}
		req.RemoveImage = truthy(req.Fields[RemoveImageField])
		closeBody := noop
		if fh := imagePart(form); fh != nil && h.svc.HandlesImages() {
			up, f, err := openUpload(fh)
			if err != nil {
				h.bodyError(c, "Invalid form", err)
				return Request{}, noop, false
			}
			req.Image = &up
			closeBody = func() { _ = f.Close() }
		}
		return req, closeBody, true

	case "application/x-www-form-urlencoded":
		if err := c.Request.ParseForm(); err != nil {
			h.bodyError(c, "Invalid form", err)
			return Request{}, noop, false
		}
		req := Request{Fields: formInput(c.Request.PostForm)}
		req.RemoveImage = truthy(req.Fields[RemoveImageField])
		return req, noop, true

	default:
		fields := Input{}
		if err := json.NewDecoder(c.Request.Body).Decode(&fields); err != nil {
			if errors.Is(err, io.EOF) {
				err = errors.New("request body is empty")
			}
			h.bodyError(c, "Invalid JSON", err)
			return Request{}, noop, false
		}
		return Request{Fields: fields, RemoveImage: truthy(fields[RemoveImageField])}, noop, true
	}
}

func (h *Handler[T, P]) bodyError(c *gin.Context, msg string, err error) {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		response.BadRequest(c, "Payload too large", fmt.Sprintf("request body exceeds %d bytes", tooLarge.Limit))
		return
	}
	response.BadRequest(c, msg, err.Error())
}

// resolveID reads the record id from the path, then the body, then the query.
func resolveID(c *gin.Context, fields Input) string {
	if id := strings.TrimSpace(c.Param("id")); id != "" {
		return id
	}
	if v, ok := fields["id"].(string); ok && strings.TrimSpace(v) != "" {
		return strings.TrimSpace(v)
	}
	return strings.TrimSpace(c.Query("id"))
}

func formInput(values map[string][]string) Input {
	in := make(Input, len(values))
	for k, vs := range values {
		switch len(vs) {
		case 0:
		case 1:
			in[k] = vs[0]
		default:
			in[k] = vs
		}
	}
	return in
}

// imagePart returns the image part, treating an empty part as absent.
func imagePart(form *multipart.Form) *multipart.FileHeader {
	files := form.File[ImageField]
	if len(files) == 0 || files[0].Size == 0 {
		return nil
	}
	return files[0]
}

func openUpload(fh *multipart.FileHeader) (blob.Upload, multipart.File, error) {
	f, err := fh.Open()
	if err != nil {
		return blob.Upload{}, nil, err
	}
	contentType, err := detectContentType(fh, f)
	if err != nil {
		_ = f.Close()
		return blob.Upload{}, nil, err
	}
	return blob.Upload{Body: f, ContentType: contentType, Size: fh.Size, Name: fh.Filename}, f, nil
}

// detectContentType prefers the declared part type, then the file extension,
// then the leading bytes.
func detectContentType(fh *multipart.FileHeader, f multipart.File) (string, error) {
	if ct := strings.TrimSpace(fh.Header.Get("Content-Type")); ct != "" && ct != "application/octet-stream" {
		return ct, nil
	}
	if ct := mime.TypeByExtension(strings.ToLower(filepath.Ext(fh.Filename))); ct != "" {
		return ct, nil
	}
	head := make([]byte, 512)
	n, err := io.ReadFull(f, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return "", err
	}
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return "", err
	}
	return http.DetectContentType(head[:n]), nil
}

func truthy(v any) bool {
	switch t := v.(type) {
	case bool:
		return t
	case string:
		b, err := strconv.ParseBool(strings.TrimSpace(t))
		return err == nil && b
	}
	return false
}
