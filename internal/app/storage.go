package app

import (
	"fmt"

	"github.com/portfolio-space/core/internal/config"
	"github.com/portfolio-space/core/internal/pkg/blob"
	"github.com/portfolio-space/core/internal/pkg/blob/localstore"
	"github.com/portfolio-space/core/internal/pkg/blob/miniostore"
	"github.com/portfolio-space/core/internal/pkg/blob/s3store"
)

// newBucket builds the object-store backend selected by storage.driver.
func newBucket(cfg *config.AppConfig) (blob.Bucket, error) {
	s := cfg.Storage
	switch s.Driver {
	case config.StorageS3:
		return s3store.New(s3store.Options{
			Endpoint:        s.Endpoint,
			Region:          s.Region,
			Bucket:          s.Bucket,
			AccessKeyID:     s.AccessKeyID,
			SecretAccessKey: s.SecretAccessKey,
			CustomDomain:    s.CustomDomain,
			PathStyleAccess: s.PathStyleAccess,
			PublicReadACL:   s.PublicReadACL,
		})
	case config.StorageMinIO:
		return miniostore.New(miniostore.Options{
			Endpoint:        s.Endpoint,
			Region:          s.Region,
			Bucket:          s.Bucket,
			AccessKeyID:     s.AccessKeyID,
			SecretAccessKey: s.SecretAccessKey,
			CustomDomain:    s.CustomDomain,
			UseSSL:          s.UseSSL,
			PublicReadACL:   s.PublicReadACL,
		})
	case config.StorageLocal:
		return localstore.New(cfg.LocalObjectDir(), s.PublicBaseURL)
	default:
		return nil, fmt.Errorf("unknown storage driver %q", s.Driver)
	}
}
