// Package localstore is a blob.Bucket on the local filesystem. Objects are
// served by the HTTP layer under the configured public base URL.
package localstore

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/portfolio-space/core/internal/pkg/blob"
)

const (
	dirPerm  = 0o755
	filePerm = 0o644
)

type Bucket struct {
	dir     string
	baseURL string
}

func New(dir, baseURL string) (*Bucket, error) {
	dir = strings.TrimSpace(dir)
	if dir == "" {
		return nil, fmt.Errorf("local storage dir is required")
	}
	if err := os.MkdirAll(dir, dirPerm); err != nil {
		return nil, fmt.Errorf("create storage dir: %w", err)
	}
	return &Bucket{dir: dir, baseURL: strings.TrimRight(baseURL, "/")}, nil
}

// Dir returns the root directory objects are written to.
func (b *Bucket) Dir() string { return b.dir }

func (b *Bucket) Put(ctx context.Context, key string, body io.Reader, size int64, contentType string) error {
	target, err := b.Path(key)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(target), dirPerm); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(filepath.Dir(target), ".upload-*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := io.Copy(tmp, body); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmpName, filePerm); err != nil {
		return err
	}
	return os.Rename(tmpName, target)
}

func (b *Bucket) Delete(ctx context.Context, key string) error {
	target, err := b.Path(key)
	if err != nil {
		return err
	}
	if err := os.Remove(target); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return blob.ErrNotExist
		}
		return err
	}
	return nil
}

func (b *Bucket) URL(key string) string { return blob.JoinURL(b.baseURL, key) }

func (b *Bucket) KeyFromURL(rawURL string) (string, bool) {
	return blob.TrimBaseURL(b.baseURL, rawURL)
}

// Path maps key to a file under the root, rejecting keys that would escape it.
func (b *Bucket) Path(key string) (string, error) {
	key = blob.NormalizeKey(key)
	if key == "" {
		return "", fmt.Errorf("invalid object key")
	}
	for _, seg := range strings.Split(key, "/") {
		if seg == "." || seg == ".." {
			return "", fmt.Errorf("invalid object key %q", key)
		}
	}
	return filepath.Join(b.dir, filepath.FromSlash(key)), nil
}
