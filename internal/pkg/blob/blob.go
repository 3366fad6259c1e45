// Package blob stores image payloads in an object store under namespaced,
// time-uniqued keys and hands back publicly resolvable URLs.
package blob

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"strings"
	"time"

	"github.com/google/uuid"
)

// MaxUploadSize is the largest payload Store accepts.
const MaxUploadSize int64 = 10 << 20

var (
	// ErrNotExist is returned by buckets when the object is already gone.
	ErrNotExist = errors.New("blob: object does not exist")
	// ErrUnsupportedMediaType rejects payloads outside AllowedContentTypes.
	ErrUnsupportedMediaType = errors.New("unsupported media type")
	// ErrPayloadTooLarge rejects payloads above MaxUploadSize.
	ErrPayloadTooLarge = errors.New("payload too large")
)

// AllowedContentTypes is the image allow-list.
var AllowedContentTypes = []string{"image/jpeg", "image/png", "image/gif", "image/webp"}

// Bucket is one object-store backend.
type Bucket interface {
	Put(ctx context.Context, key string, body io.Reader, size int64, contentType string) error
	// Delete returns ErrNotExist when the backend can tell the key is missing.
	Delete(ctx context.Context, key string) error
	// URL returns the unauthenticated public URL of key.
	URL(key string) string
	// KeyFromURL maps a URL produced by URL back to its key.
	KeyFromURL(rawURL string) (string, bool)
}

// Upload is an image payload as received from a client.
type Upload struct {
	Body        io.Reader
	ContentType string
	Size        int64
	Name        string
}

// Object is a stored blob.
type Object struct {
	Key string `json:"key"`
	URL string `json:"url"`
}

// Store validates uploads, derives keys and delegates to a Bucket.
type Store struct {
	bucket Bucket
	now    func() time.Time
	suffix func() string
}

func NewStore(bucket Bucket) *Store {
	return &Store{bucket: bucket, now: time.Now, suffix: randomSuffix}
}

// Put writes up under folder and returns its key and public URL.
func (s *Store) Put(ctx context.Context, up Upload, folder string) (Object, error) {
	contentType := normalizeContentType(up.ContentType)
	if !isAllowedContentType(contentType) {
		return Object{}, fmt.Errorf("%w: %q, allowed types: %s",
			ErrUnsupportedMediaType, up.ContentType, strings.Join(AllowedContentTypes, ", "))
	}
	if up.Size > MaxUploadSize {
		return Object{}, fmt.Errorf("%w: maximum size is %d bytes, got %d", ErrPayloadTooLarge, MaxUploadSize, up.Size)
	}
	if up.Body == nil {
		return Object{}, errors.New("blob: empty upload body")
	}

	key := BuildKey(folder, up.Name, s.now(), s.suffix())
	if err := s.bucket.Put(ctx, key, up.Body, up.Size, contentType); err != nil {
		return Object{}, fmt.Errorf("put %s: %w", key, err)
	}
	return Object{Key: key, URL: s.bucket.URL(key)}, nil
}

// Delete removes obj. A missing object, or a URL that does not belong to this
// bucket, is not an error.
func (s *Store) Delete(ctx context.Context, obj Object) error {
	key := obj.Key
	if key == "" {
		k, ok := s.bucket.KeyFromURL(obj.URL)
		if !ok {
			return nil
		}
		key = k
	}
	if err := s.bucket.Delete(ctx, key); err != nil {
		if errors.Is(err, ErrNotExist) {
			return nil
		}
		return fmt.Errorf("delete %s: %w", key, err)
	}
	return nil
}

func normalizeContentType(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	if mt, _, err := mime.ParseMediaType(raw); err == nil {
		return strings.ToLower(mt)
	}
	return strings.ToLower(raw)
}

func isAllowedContentType(contentType string) bool {
	for _, allowed := range AllowedContentTypes {
		if contentType == allowed {
			return true
		}
	}
	return false
}

func randomSuffix() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
}
