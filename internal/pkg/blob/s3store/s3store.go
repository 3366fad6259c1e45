// Package s3store is a blob.Bucket on AWS S3 or any S3-compatible service.
package s3store

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awshttp "github.com/aws/aws-sdk-go-v2/aws/transport/http"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"
	"github.com/portfolio-space/core/internal/pkg/blob"
)

const cacheControl = "public, max-age=31536000, immutable"

type Options struct {
	Endpoint        string
	Region          string
	Bucket          string
	AccessKeyID     string
	SecretAccessKey string
	CustomDomain    string
	PathStyleAccess bool
	// PublicReadACL sets the public-read canned ACL on every object. Leave it
	// off for buckets with ACLs disabled that are public through policy.
	PublicReadACL bool
}

type Bucket struct {
	client     *s3.Client
	bucket     string
	publicBase string
	publicRead bool
}

func New(opts Options) (*Bucket, error) {
	bucket := strings.TrimSpace(opts.Bucket)
	region := strings.TrimSpace(opts.Region)
	accessKey := strings.TrimSpace(opts.AccessKeyID)
	secretKey := strings.TrimSpace(opts.SecretAccessKey)
	if bucket == "" || region == "" || accessKey == "" || secretKey == "" {
		return nil, fmt.Errorf("incomplete s3 config: bucket/region/access_key_id/secret_access_key are required")
	}

	endpoint := strings.TrimSpace(opts.Endpoint)
	pathStyle := opts.PathStyleAccess
	if endpoint != "" {
		if !strings.HasPrefix(endpoint, "http://") && !strings.HasPrefix(endpoint, "https://") {
			endpoint = "https://" + endpoint
		}
		endpoint = strings.TrimSuffix(endpoint, "/")
		parsed, err := url.Parse(endpoint)
		if err != nil || parsed.Host == "" {
			return nil, fmt.Errorf("invalid s3 endpoint: %s", endpoint)
		}
		// Custom endpoints (R2, MinIO gateways, localstack) rarely do virtual hosts.
		pathStyle = true
	}

	client := s3.NewFromConfig(aws.Config{
		Region:      region,
		Credentials: credentials.NewStaticCredentialsProvider(accessKey, secretKey, ""),
	}, func(o *s3.Options) {
		if endpoint != "" {
			o.BaseEndpoint = aws.String(endpoint)
		}
		o.UsePathStyle = pathStyle
	})

	return &Bucket{
		client:     client,
		bucket:     bucket,
		publicBase: publicBaseURL(opts.CustomDomain, endpoint, bucket, region, pathStyle),
		publicRead: opts.PublicReadACL,
	}, nil
}

func (b *Bucket) Put(ctx context.Context, key string, body io.Reader, size int64, contentType string) error {
	input := &s3.PutObjectInput{
		Bucket:        aws.String(b.bucket),
		Key:           aws.String(blob.NormalizeKey(key)),
		Body:          body,
		ContentLength: aws.Int64(size),
		ContentType:   aws.String(contentType),
		CacheControl:  aws.String(cacheControl),
	}
	if b.publicRead {
		input.ACL = types.ObjectCannedACLPublicRead
	}
	if _, err := b.client.PutObject(ctx, input); err != nil {
		return fmt.Errorf("s3 put object: %w", err)
	}
	return nil
}

func (b *Bucket) Delete(ctx context.Context, key string) error {
	_, err := b.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(b.bucket),
		Key:    aws.String(blob.NormalizeKey(key)),
	})
	if err == nil {
		return nil
	}
	if isNotFound(err) {
		return blob.ErrNotExist
	}
	return fmt.Errorf("s3 delete object: %w", err)
}

func (b *Bucket) URL(key string) string { return blob.JoinURL(b.publicBase, key) }

func (b *Bucket) KeyFromURL(rawURL string) (string, bool) {
	return blob.TrimBaseURL(b.publicBase, rawURL)
}

func isNotFound(err error) bool {
	var noSuchKey *types.NoSuchKey
	if errors.As(err, &noSuchKey) {
		return true
	}
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.ErrorCode() {
		case "NoSuchKey", "NotFound":
			return true
		}
	}
	var respErr *awshttp.ResponseError
	return errors.As(err, &respErr) && respErr.HTTPStatusCode() == http.StatusNotFound
}

func publicBaseURL(customDomain, endpoint, bucket, region string, pathStyle bool) string {
	if d := strings.TrimRight(strings.TrimSpace(customDomain), "/"); d != "" {
		if !strings.HasPrefix(d, "http://") && !strings.HasPrefix(d, "https://") {
			d = "https://" + d
		}
		return d
	}
	if endpoint == "" {
		endpoint = fmt.Sprintf("https://s3.%s.amazonaws.com", region)
	}
	parsed, err := url.Parse(endpoint)
	if err != nil {
		return strings.TrimRight(endpoint, "/") + "/" + bucket
	}
	basePath := strings.TrimSuffix(parsed.Path, "/")
	if pathStyle {
		return parsed.Scheme + "://" + parsed.Host + basePath + "/" + url.PathEscape(bucket)
	}
	host := parsed.Host
	if !strings.HasPrefix(strings.ToLower(host), strings.ToLower(bucket)+".") {
		host = bucket + "." + host
	}
	return parsed.Scheme + "://" + host + basePath
}
