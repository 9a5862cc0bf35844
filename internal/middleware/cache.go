package middleware

import (
	"bytes"
	"context"
	"crypto/sha1"
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/iliyamo/event-ticket-dashboard/internal/config"
)

// captureWriter tees the response body, up to limit bytes, while
// forwarding it to the client.
type captureWriter struct {
	http.ResponseWriter
	status int
	buf    bytes.Buffer
	size   int64
	limit  int64
}

func (cw *captureWriter) WriteHeader(code int) {
	cw.status = code
	cw.ResponseWriter.WriteHeader(code)
}

func (cw *captureWriter) Write(b []byte) (int, error) {
	switch room := cw.limit - cw.size; {
	case cw.limit <= 0:
		cw.buf.Write(b)
	case room > 0:
		if int64(len(b)) > room {
			cw.buf.Write(b[:room])
		} else {
			cw.buf.Write(b)
		}
	}
	cw.size += int64(len(b))
	return cw.ResponseWriter.Write(b)
}

// cacheKey hashes the parts of the request named by the key strategy.
func cacheKey(cfg config.CacheConfig, c echo.Context) string {
	r := c.Request()
	var parts []string
	switch strings.ToLower(cfg.KeyStrategy) {
	case "route":
		parts = []string{"route", c.Path()}
	case "method_route":
		parts = []string{"method", r.Method, "route", c.Path()}
	case "method_route_query":
		parts = []string{"method", r.Method, "route", c.Path(), "q", r.URL.RawQuery}
	default: // route_query
		parts = []string{"route", c.Path(), "q", r.URL.RawQuery}
	}
	sum := sha1.Sum([]byte(strings.Join(parts, ":")))
	return fmt.Sprintf("%s:%x", cfg.Prefix, sum[:])
}

// encodePayload packs [4 bytes status][4 bytes header length][header JSON][body].
func encodePayload(status int, header http.Header, body []byte) ([]byte, error) {
	hdr, err := json.Marshal(header)
	if err != nil {
		return nil, err
	}
	out := make([]byte, 8+len(hdr)+len(body))
	binary.BigEndian.PutUint32(out[0:4], uint32(status))
	binary.BigEndian.PutUint32(out[4:8], uint32(len(hdr)))
	copy(out[8:], hdr)
	copy(out[8+len(hdr):], body)
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
	header = make(http.Header)
	if hlen > 0 {
		if err := json.Unmarshal(bs[8:8+hlen], &header); err != nil {
			return 0, nil, nil, false
		}
	}
	return status, header, bs[8+hlen:], true
}

// storeIfCurrent writes a response only while the purge epoch still has
// the value read before the handler ran.  A purge in between bumps the
// epoch and the now stale body is dropped.
var storeIfCurrent = redis.NewScript(`
if (redis.call('GET', KEYS[1]) or '0') ~= ARGV[1] then
  return 0
end
redis.call('SET', KEYS[2], ARGV[2], 'PX', ARGV[3])
return 1
`)

func epochKey(cfg config.CacheConfig) string { return cfg.Prefix + ":epoch" }

func readEpoch(ctx context.Context, rdb *redis.Client, key string) (string, error) {
	v, err := rdb.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return "0", nil
	}
	return v, err
}

// NewRedisCache serves repeated dashboard reads from Redis.  Only 200
// responses are stored; headers are kept so a hit is byte identical.
// A response is stored only if no purge ran while it was being built.
func NewRedisCache(cfg config.CacheConfig, rdb *redis.Client) echo.MiddlewareFunc {
	if !cfg.Enabled || rdb == nil {
		return passThrough
	}
	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = 30 * time.Second
	}
	maxBody := int64(cfg.MaxBodyBytes)
	epochK := epochKey(cfg)

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if !cfg.Methods[strings.ToUpper(c.Request().Method)] {
				return next(c)
			}
			ctx := c.Request().Context()
			key := cacheKey(cfg, c)

			if bs, err := rdb.Get(ctx, key).Bytes(); err == nil {
				if status, hdr, body, ok := decodePayload(bs); ok {
					for k, vals := range hdr {
						if strings.EqualFold(k, "Content-Length") {
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
			}

			epoch, err := readEpoch(ctx, rdb, epochK)
			if err != nil {
				return next(c)
			}

			cw := &captureWriter{ResponseWriter: c.Response().Writer, status: http.StatusOK, limit: maxBody}
			c.Response().Writer = cw
			c.Response().Header().Set("X-Cache", "MISS")
			if err := next(c); err != nil {
				return err
			}
			if cw.status != http.StatusOK || (maxBody > 0 && cw.size > maxBody) {
				return nil
			}
			hdr := c.Response().Header().Clone()
			hdr.Del("X-Cache")
			payload, err := encodePayload(cw.status, hdr, cw.buf.Bytes())
			if err != nil {
				return nil
			}
			keys := []string{epochK, key}
			if err := storeIfCurrent.Run(context.WithoutCancel(ctx), rdb, keys, epoch, payload, ttl.Milliseconds()).Err(); err != nil {
				log.Printf("cache: store %s failed: %v", key, err)
			}
			return nil
		}
	}
}

// NewCachePurger returns a hook that deletes every cached response under
// cfg.Prefix.  It is run after each ticket write so no replica serves a
// page older than the write.  The epoch is bumped before the scan so a
// read that started before the write cannot store its body afterwards.
func NewCachePurger(cfg config.CacheConfig, rdb *redis.Client) func(ctx context.Context) {
	if !cfg.Enabled || rdb == nil {
		return func(context.Context) {}
	}
	pattern := cfg.Prefix + ":*"
	epochK := epochKey(cfg)
	return func(ctx context.Context) {
		if err := rdb.Incr(ctx, epochK).Err(); err != nil {
			log.Printf("cache: bump %s failed: %v", epochK, err)
		}
		iter := rdb.Scan(ctx, 0, pattern, 200).Iterator()
		var keys []string
		for iter.Next(ctx) {
			if k := iter.Val(); k != epochK {
				keys = append(keys, k)
			}
		}
		if err := iter.Err(); err != nil {
			log.Printf("cache: scan %s failed: %v", pattern, err)
			return
		}
		if len(keys) == 0 {
			return
		}
		if err := rdb.Del(ctx, keys...).Err(); err != nil {
			log.Printf("cache: purge of %d keys failed: %v", len(keys), err)
		}
	}
}
