package middleware

import (
    "bytes"
    "context"
    "crypto/sha1"
    "encoding/binary"
    "encoding/json"
    "errors"
    "fmt"
    "net/http"
    "strings"
    "time"

    "github.com/labstack/echo/v4"
    "github.com/redis/go-redis/v9"
    "github.com/sirupsen/logrus"

    "github.com/iliyamo/venue-directory/internal/config"
)

// captureWriter captures response body/status while forwarding to the client.
type captureWriter struct {
    http.ResponseWriter
    status int
    buf    bytes.Buffer
    size   int64
    limit  int64
}

func (cw *captureWriter) WriteHeader(code int) { cw.status = code; cw.ResponseWriter.WriteHeader(code) }
func (cw *captureWriter) Write(b []byte) (int, error) {
    if cw.limit <= 0 {
        cw.buf.Write(b)
    } else if remain := cw.limit - cw.size; remain > 0 {
        if int64(len(b)) <= remain {
            cw.buf.Write(b)
        } else {
            cw.buf.Write(b[:remain])
        }
    }
    cw.size += int64(len(b))
    return cw.ResponseWriter.Write(b)
}

// ResponseCache stores successful GET responses of the public read routes
// in Redis.  Keys carry a generation number kept under <prefix>:gen; Purge
// bumps it so every stored response becomes unreachable at once, including
// one written by a request that read the database before the mutation
// committed.  A nil Redis client or a disabled config turns both the
// middleware and Purge into no-ops.
type ResponseCache struct {
    cfg config.CacheConfig
    rdb *redis.Client
    log logrus.FieldLogger
}

// NewResponseCache builds the cache.  rdb may be nil.
func NewResponseCache(cfg config.CacheConfig, rdb *redis.Client, log logrus.FieldLogger) *ResponseCache {
    return &ResponseCache{cfg: cfg, rdb: rdb, log: log}
}

func (rc *ResponseCache) enabled() bool { return rc.cfg.Enabled && rc.rdb != nil }

func (rc *ResponseCache) genKey() string { return rc.cfg.Prefix + ":gen" }

// generation returns the current generation; a missing counter is 0.
func (rc *ResponseCache) generation(ctx context.Context) (int64, error) {
    gen, err := rc.rdb.Get(ctx, rc.genKey()).Int64()
    if errors.Is(err, redis.Nil) {
        return 0, nil
    }
    return gen, err
}

// cacheKey builds a stable key from the concrete request path (not the
// route pattern, which would collide across ids) and the raw query.
func cacheKey(prefix string, gen int64, r *http.Request) string {
    sum := sha1.Sum([]byte("path:" + r.URL.Path + ":q:" + r.URL.RawQuery))
    return fmt.Sprintf("%s:%d:%x", prefix, gen, sum[:])
}

// encodePayload packs: [4 bytes status][4 bytes headerLen][headerJSON][body]
func encodePayload(status int, header http.Header, body []byte) ([]byte, error) {
    hdrJSON, err := json.Marshal(header)
    if err != nil {
        return nil, err
    }
    out := make([]byte, 8+len(hdrJSON)+len(body))
    binary.BigEndian.PutUint32(out[0:4], uint32(status))
    binary.BigEndian.PutUint32(out[4:8], uint32(len(hdrJSON)))
    copy(out[8:8+len(hdrJSON)], hdrJSON)
    copy(out[8+len(hdrJSON):], body)
    return out, nil
}

func decodePayload(bs []byte) (status int, header http.Header, body []byte, ok bool) {
    if len(bs) < 8 {
        return 0, nil, nil, false
    }
    status = int(binary.BigEndian.Uint32(bs[0:4]))
    hlen := int(binary.BigEndian.Uint32(bs[4:8]))
    if hlen < 0 || 8+hlen > len(bs) {
        return 0, nil, nil, false
    }
    hdr := make(http.Header)
    if hlen > 0 {
        if err := json.Unmarshal(bs[8:8+hlen], &hdr); err != nil {
            return 0, nil, nil, false
        }
    }
    return status, hdr, bs[8+hlen:], true
}

// Middleware caches responses for the configured TTL.  Use it on routes
// whose body does not depend on the current time.
func (rc *ResponseCache) Middleware() echo.MiddlewareFunc {
    return rc.middleware(rc.cfg.TTL)
}

// LiveMiddleware caches responses for LiveTTL.  Upcoming show counts and
// the past/upcoming split change as time passes, so routes returning them
// are only cached briefly.
func (rc *ResponseCache) LiveMiddleware() echo.MiddlewareFunc {
    return rc.middleware(rc.cfg.LiveTTL)
}

// middleware serves cached GET responses and records 200 responses on a
// miss.  Other methods and status codes pass through untouched.
func (rc *ResponseCache) middleware(ttl time.Duration) echo.MiddlewareFunc {
    if !rc.enabled() || ttl <= 0 {
        return func(next echo.HandlerFunc) echo.HandlerFunc { return next }
    }
    maxBody := int64(rc.cfg.MaxBodyBytes)

    return func(next echo.HandlerFunc) echo.HandlerFunc {
        return func(c echo.Context) error {
            if c.Request().Method != http.MethodGet {
                return next(c)
            }

            ctx := c.Request().Context()
            // the generation is read before the handler touches the database
            gen, err := rc.generation(ctx)
            if err != nil {
                rc.log.WithError(err).Debug("cache generation lookup failed")
                c.Response().Header().Set("X-Cache", "MISS")
                return next(c)
            }
            key := cacheKey(rc.cfg.Prefix, gen, c.Request())

            if bs, err := rc.rdb.Get(ctx, key).Bytes(); err == nil {
                if status, hdr, body, ok := decodePayload(bs); ok {
                    for k, vals := range hdr {
                        // Content-Length is recomputed by the server
                        if strings.EqualFold(k, echo.HeaderContentLength) {
                            continue
                        }
                        for _, v := range vals {
                            c.Response().Header().Add(k, v)
                        }
                    }
                    c.Response().Header().Set("X-Cache", "HIT")
                    c.Response().WriteHeader(status)
                    _, _ = c.Response().Write(body)
                    return nil
                }
            } else if !errors.Is(err, redis.Nil) {
                rc.log.WithError(err).Debug("cache lookup failed")
            }

            cw := &captureWriter{ResponseWriter: c.Response().Writer, status: http.StatusOK, limit: maxBody}
            c.Response().Writer = cw
            c.Response().Header().Set("X-Cache", "MISS")

            if err := next(c); err != nil {
                return err
            }
            // truncated bodies are never stored
            if cw.status != http.StatusOK || (maxBody > 0 && cw.size > maxBody) {
                return nil
            }

            hdr := c.Response().Header().Clone()
            hdr.Del("X-Cache")
            payload, err := encodePayload(cw.status, hdr, cw.buf.Bytes())
            if err != nil {
                return nil
            }
            if err := rc.rdb.SetEx(context.WithoutCancel(ctx), key, payload, ttl).Err(); err != nil {
                rc.log.WithError(err).Debug("cache store failed")
            }
            return nil
        }
    }
}

// Purge makes every cached response unreachable by moving to the next
// generation.  Old entries expire with their TTL.  It is called after each
// successful mutation.
func (rc *ResponseCache) Purge(ctx context.Context) error {
    if !rc.enabled() {
        return nil
    }
    return rc.rdb.Incr(ctx, rc.genKey()).Err()
}
