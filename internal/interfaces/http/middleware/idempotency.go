package middleware

import (
	"context"
	"net/http"
	"time"

	"github.com/Honest-88/pos-sample/internal/domain/shared"
	"github.com/Honest-88/pos-sample/internal/infrastructure/logger"
	"github.com/Honest-88/pos-sample/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// IdempotencyKeyHeader carries the client chosen submission key
const IdempotencyKeyHeader = "Idempotency-Key"

const maxIdempotencyKeyLength = 128

// Idempotency rejects a repeated submission of the same Idempotency-Key
// within ttl. Keys are scoped to the authenticated user. Requests without
// the header pass through. A request that ends with a 4xx or 5xx status,
// or panics, releases its key so the client can retry.
func Idempotency(store shared.IdempotencyStore, ttl time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := c.GetHeader(IdempotencyKeyHeader)
		if key == "" {
			c.Next()
			return
		}
		requestID := c.GetString(RequestIDKey)
		if len(key) > maxIdempotencyKeyLength {
			c.AbortWithStatusJSON(http.StatusBadRequest, dto.NewValidationErrorResponse(
				"Idempotency-Key is too long", requestID,
				[]dto.ValidationDetail{{Field: IdempotencyKeyHeader, Message: "Must be at most 128 characters", Code: "max"}},
			))
			return
		}

		ctx := c.Request.Context()
		log := logger.FromContext(ctx)
		scoped := GetJWTUserID(c) + ":" + key

		claimed, err := store.Claim(ctx, scoped, ttl)
		if err != nil {
			log.Error("Failed to claim idempotency key", zap.String("key", key), zap.Error(err))
			c.AbortWithStatusJSON(http.StatusServiceUnavailable, dto.NewErrorResponseWithRequestID(
				dto.ErrCodeUnavailable, "Duplicate protection is temporarily unavailable", requestID))
			return
		}
		if !claimed {
			log.Info("Duplicate submission rejected", zap.String("key", key))
			c.AbortWithStatusJSON(http.StatusConflict, dto.NewErrorResponseWithRequestID(
				dto.ErrCodeDuplicateRequest, "This request has already been submitted", requestID))
			return
		}

		release := func() {
			if err := store.Release(context.WithoutCancel(ctx), scoped); err != nil {
				log.Warn("Failed to release idempotency key", zap.String("key", key), zap.Error(err))
			}
		}
		defer func() {
			if r := recover(); r != nil {
				release()
				panic(r)
			}
		}()

		c.Next()

		if c.Writer.Status() >= http.StatusBadRequest {
			release()
		}
	}
}
