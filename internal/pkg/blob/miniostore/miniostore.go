// Package miniostore is a blob.Bucket on a MinIO server.
package miniostore

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/portfolio-space/core/internal/pkg/blob"
)

type Options struct {
	Endpoint        string
	Region          string
	Bucket          string
	AccessKeyID     string
	SecretAccessKey string
	CustomDomain    string
	UseSSL          bool
	PublicReadACL   bool
}

type Bucket struct {
	cl         *minio.Client
	bucket     string
	publicBase string
	publicRead bool
}

func New(opts Options) (*Bucket, error) {
	host, secure, err := splitEndpoint(opts.Endpoint, opts.UseSSL)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(opts.Bucket) == "" {
		return nil, fmt.Errorf("minio bucket is required")
	}
	cl, err := minio.New(host, &minio.Options{
		Creds:        credentials.NewStaticV4(opts.AccessKeyID, opts.SecretAccessKey, ""),
		Secure:       secure,
		Region:       opts.Region,
		BucketLookup: minio.BucketLookupPath,
	})
	if err != nil {
		return nil, fmt.Errorf("minio client: %w", err)
	}

	base := strings.TrimRight(strings.TrimSpace(opts.CustomDomain), "/")
	if base == "" {
		scheme := "http"
		if secure {
			scheme = "https"
		}
		base = scheme + "://" + host + "/" + url.PathEscape(opts.Bucket)
	} else if !strings.HasPrefix(base, "http://") && !strings.HasPrefix(base, "https://") {
		base = "https://" + base
	}

	return &Bucket{cl: cl, bucket: opts.Bucket, publicBase: base, publicRead: opts.PublicReadACL}, nil
}

func (b *Bucket) Put(ctx context.Context, key string, body io.Reader, size int64, contentType string) error {
	opts := minio.PutObjectOptions{
		ContentType:  contentType,
		CacheControl: "public, max-age=31536000, immutable",
	}
	if b.publicRead {
		opts.UserMetadata = map[string]string{"x-amz-acl": "public-read"}
	}
	if _, err := b.cl.PutObject(ctx, b.bucket, blob.NormalizeKey(key), body, size, opts); err != nil {
		return fmt.Errorf("minio put object: %w", err)
	}
	return nil
}

func (b *Bucket) Delete(ctx context.Context, key string) error {
	err := b.cl.RemoveObject(ctx, b.bucket, blob.NormalizeKey(key), minio.RemoveObjectOptions{})
	if err == nil {
		return nil
	}
	if resp := minio.ToErrorResponse(err); resp.Code == "NoSuchKey" {
		return blob.ErrNotExist
	}
	return fmt.Errorf("minio remove object: %w", err)
}

func (b *Bucket) URL(key string) string { return blob.JoinURL(b.publicBase, key) }

func (b *Bucket) KeyFromURL(rawURL string) (string, bool) {
	return blob.TrimBaseURL(b.publicBase, rawURL)
}

// splitEndpoint accepts "host:port" or a full URL; a URL scheme overrides useSSL.
func splitEndpoint(raw string, useSSL bool) (string, bool, error) {
	raw = strings.TrimRight(strings.TrimSpace(raw), "/")
	if raw == "" {
		return "", false, fmt.Errorf("minio endpoint is required")
	}
	if strings.HasPrefix(raw, "http://") || strings.HasPrefix(raw, "https://") {
		u, err := url.Parse(raw)
		if err != nil || u.Host == "" {
			return "", false, fmt.Errorf("invalid minio endpoint: %s", raw)
		}
		return u.Host, u.Scheme == "https", nil
	}
	return raw, useSSL, nil
}
