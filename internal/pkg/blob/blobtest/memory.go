// Package blobtest provides an in-memory blob.Bucket for tests.
package blobtest

import (
	"bytes"
	"context"
	"io"
	"sync"

	"github.com/portfolio-space/core/internal/pkg/blob"
)

const BaseURL = "https://blobs.test"

// Bucket keeps objects in memory and records every call.
type Bucket struct {
	mu      sync.Mutex
	objects map[string][]byte
	types   map[string]string

	// PutErr and DeleteErr, when set, are returned by the next calls.
	PutErr    error
	DeleteErr error

	Puts    []string
	Deletes []string
}

func New() *Bucket {
	return &Bucket{objects: map[string][]byte{}, types: map[string]string{}}
}

func (b *Bucket) Put(ctx context.Context, key string, body io.Reader, size int64, contentType string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.Puts = append(b.Puts, key)
	if b.PutErr != nil {
		return b.PutErr
	}
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, body); err != nil {
		return err
	}
	b.objects[key] = buf.Bytes()
	b.types[key] = contentType
	return nil
}

func (b *Bucket) Delete(ctx context.Context, key string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.Deletes = append(b.Deletes, key)
	if b.DeleteErr != nil {
		return b.DeleteErr
	}
	if _, ok := b.objects[key]; !ok {
		return blob.ErrNotExist
	}
	delete(b.objects, key)
	delete(b.types, key)
	return nil
}

func (b *Bucket) URL(key string) string { return blob.JoinURL(BaseURL, key) }

func (b *Bucket) KeyFromURL(rawURL string) (string, bool) { return blob.TrimBaseURL(BaseURL, rawURL) }

// Has reports whether key is stored.
func (b *Bucket) Has(key string) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	_, ok := b.objects[key]
	return ok
}

// ContentType returns the stored content type of key.
func (b *Bucket) ContentType(key string) string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.types[key]
}

// Len returns the number of stored objects.
func (b *Bucket) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.objects)
}

// Seed stores payload under key without recording a Put.
func (b *Bucket) Seed(key string, payload []byte) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.objects[key] = payload
}
