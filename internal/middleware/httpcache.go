package middleware

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	// APICachePrefix namespaces cached GET responses in redis.
	APICachePrefix = "portfolio:api-cache:"
	// cacheGenerationKey is bumped on every purge. It sits outside
	// APICachePrefix so a purge scan never deletes it.
	cacheGenerationKey = "portfolio:api-cache-generation"
	cacheStatusHeader  = "x-portfolio-cache"

	defaultCacheTTL     = 15 * time.Second
	defaultCacheMaxBody = 1 << 20
)

// HTTPCacheOptions tunes HTTPCache. The zero value caches bodies up to 1 MiB
// for 15s.
type HTTPCacheOptions struct {
	TTL          time.Duration
	MaxBodyBytes int
}

// HTTPCache serves repeated GETs from redis. Entries are keyed by the cache
// generation read when the request started, so a response computed before a
// purge lands under a generation nobody reads anymore. A nil client disables it.
func HTTPCache(rdb *redis.Client, opts HTTPCacheOptions) gin.HandlerFunc {
	if opts.TTL <= 0 {
		opts.TTL = defaultCacheTTL
	}
	if opts.MaxBodyBytes <= 0 {
		opts.MaxBodyBytes = defaultCacheMaxBody
	}
	return func(c *gin.Context) {
		if rdb == nil || c.Request.Method != http.MethodGet {
			c.Next()
			return
		}
		ctx := c.Request.Context()

		gen, err := cacheGeneration(ctx, rdb)
		if err != nil {
			c.Next()
			return
		}
		key := cacheKey(gen, c.Request.URL.RequestURI())

		if entry, ok := loadCached(ctx, rdb, key); ok {
			c.Header(cacheStatusHeader, "hit")
			c.Data(entry.status, entry.contentType, entry.body)
			c.Abort()
			return
		}

		rec := &recordingWriter{ResponseWriter: c.Writer, limit: opts.MaxBodyBytes}
		c.Writer = rec
		c.Header(cacheStatusHeader, "miss")
		c.Next()

		if c.Writer.Status() != http.StatusOK || rec.overflow || rec.buf.Len() == 0 {
			return
		}
		_, _ = rdb.TxPipelined(ctx, func(p redis.Pipeliner) error {
			p.HSet(ctx, key,
				"status", c.Writer.Status(),
				"type", c.Writer.Header().Get("Content-Type"),
				"body", rec.buf.Bytes())
			p.Expire(ctx, key, opts.TTL)
			return nil
		})
	}
}

// PurgeOnWrite drops every cached response after a successful mutation.
func PurgeOnWrite(rdb *redis.Client, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()
		if rdb == nil || c.Request.Method == http.MethodGet {
			return
		}
		if status := c.Writer.Status(); status < 200 || status >= 300 {
			return
		}
		if _, err := PurgeHTTPCache(c.Request.Context(), rdb); err != nil {
			log.Warn("purge http cache failed", zap.String("path", c.Request.URL.Path), zap.Error(err))
		}
	}
}

// PurgeHTTPCache moves readers to a fresh generation, then deletes the cached
// entries and reports how many went.
func PurgeHTTPCache(ctx context.Context, rdb *redis.Client) (int64, error) {
	if rdb == nil {
		return 0, nil
	}
	if err := rdb.Incr(ctx, cacheGenerationKey).Err(); err != nil {
		return 0, err
	}
	var deleted int64
	iter := rdb.Scan(ctx, 0, APICachePrefix+"*", 200).Iterator()
	for iter.Next(ctx) {
		n, err := rdb.Del(ctx, iter.Val()).Result()
		if err != nil {
			return deleted, err
		}
		deleted += n
	}
	return deleted, iter.Err()
}

func cacheGeneration(ctx context.Context, rdb *redis.Client) (int64, error) {
	gen, err := rdb.Get(ctx, cacheGenerationKey).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	return gen, err
}

func cacheKey(gen int64, uri string) string {
	return APICachePrefix + strconv.FormatInt(gen, 10) + ":" + uri
}

type cachedResponse struct {
	status      int
	contentType string
	body        []byte
}

func loadCached(ctx context.Context, rdb *redis.Client, key string) (cachedResponse, bool) {
	fields, err := rdb.HGetAll(ctx, key).Result()
	if err != nil || len(fields) == 0 {
		return cachedResponse{}, false
	}
	status, err := strconv.Atoi(fields["status"])
	if err != nil || status != http.StatusOK {
		return cachedResponse{}, false
	}
	contentType := fields["type"]
	if strings.TrimSpace(contentType) == "" {
		contentType = "application/json; charset=utf-8"
	}
	return cachedResponse{status: status, contentType: contentType, body: []byte(fields["body"])}, true
}

// recordingWriter copies up to limit bytes of the body while it is written.
type recordingWriter struct {
	gin.ResponseWriter
	buf      bytes.Buffer
	limit    int
	overflow bool
}

func (w *recordingWriter) Write(p []byte) (int, error) {
	w.record(p)
	return w.ResponseWriter.Write(p)
}

func (w *recordingWriter) WriteString(s string) (int, error) {
	w.record([]byte(s))
	return w.ResponseWriter.WriteString(s)
}

func (w *recordingWriter) record(p []byte) {
	if w.overflow {
		return
	}
	if w.buf.Len()+len(p) > w.limit {
		w.overflow = true
		w.buf.Reset()
		return
	}
	w.buf.Write(p)
}
