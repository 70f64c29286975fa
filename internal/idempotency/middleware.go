package idempotency

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

const (
	Header = "Idempotency-Key"

	// ResourceKey is the gin context key a handler sets to the id it created.
	ResourceKey = "idempotency.resource"

	maxKeyLen = 255

	settleTimeout = 2 * time.Second
)

// Middleware rejects a repeated Idempotency-Key with 409 Conflict. Requests
// without the header pass through. A failed request (status >= 400) releases
// its key. Redis outages fail open so order creation keeps working. The key is
// settled even when the client has already gone away.
func Middleware(log *slog.Logger, s *Store, scope string) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := c.GetHeader(Header)
		if raw == "" || s == nil {
			c.Next()
			return
		}
		if len(raw) > maxKeyLen {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Idempotency-Key is too long"})
			return
		}

		ctx := c.Request.Context()
		key := s.Key(scope, raw)

		first, err := s.Reserve(ctx, key)
		if err != nil {
			log.WarnContext(ctx, "idempotency store unavailable", "err", err)
			c.Next()
			return
		}
		if !first {
			body := gin.H{"error": "A request with this Idempotency-Key was already received"}
			if id, err := s.Lookup(ctx, key); err == nil && id != "" {
				body["resourceId"] = id
			}
			c.AbortWithStatusJSON(http.StatusConflict, body)
			return
		}

		c.Next()

		ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), settleTimeout)
		defer cancel()

		if c.Writer.Status() >= http.StatusBadRequest {
			if err := s.Release(ctx, key); err != nil {
				log.WarnContext(ctx, "release idempotency key", "err", err)
			}
			return
		}
		if id := c.GetString(ResourceKey); id != "" {
			if err := s.Complete(ctx, key, id); err != nil {
				log.WarnContext(ctx, "complete idempotency key", "err", err)
			}
		}
	}
}
