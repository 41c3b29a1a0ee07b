package errorx

import (
	"errors"
	"runtime"
	"time"

	"github.com/amoylab/lokal/internal/common/cnst"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ErrorHandler owns the request-scoped error plumbing: trace ids, panic
// recovery and logging of errors attached to the gin context.
type ErrorHandler struct {
	logger *zap.Logger
}

// NewErrorHandler creates a new error handler
func NewErrorHandler(logger *zap.Logger) *ErrorHandler {
	return &ErrorHandler{logger: logger.Named("errorx")}
}

// TraceMiddleware assigns a trace id to every request and echoes it back
func (h *ErrorHandler) TraceMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		traceID := c.GetHeader(cnst.XTraceID)
		if traceID == "" {
			traceID = uuid.NewString()
		}
		c.Set(cnst.CtxTraceID, traceID)
		c.Header(cnst.XTraceID, traceID)
		c.Next()
	}
}

// ErrorMiddleware logs the errors handlers attached with c.Error. The
// response itself has already been written by the handler.
func (h *ErrorHandler) ErrorMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()
		for _, e := range c.Errors {
			h.logger.Error("request failed",
				zap.String("trace_id", TraceID(c)),
				zap.String("method", c.Request.Method),
				zap.String("path", c.Request.URL.Path),
				zap.Int("status", c.Writer.Status()),
				zap.Error(e.Err))
		}
	}
}

// RecoveryMiddleware turns a panic into a 500 APIError carrying the trace id
func (h *ErrorHandler) RecoveryMiddleware() gin.HandlerFunc {
	return gin.CustomRecoveryWithWriter(nil, func(c *gin.Context, v any) {
		apiErr := newPanicError(v)
		apiErr.TraceID = TraceID(c)
		apiErr.Timestamp = time.Now().UTC().Format(time.RFC3339)

		buf := make([]byte, 4096)
		n := runtime.Stack(buf, false)
		h.logger.Error(apiErr.Message,
			zap.String("trace_id", apiErr.TraceID),
			zap.String("path", c.Request.URL.Path),
			zap.Any("panic", v),
			zap.String("stack_trace", string(buf[:n])))

		c.AbortWithStatusJSON(apiErr.HTTPStatus, gin.H{"error": apiErr})
	})
}

// TraceID returns the trace id of the request, creating one when missing
func TraceID(c *gin.Context) string {
	if id := c.GetString(cnst.CtxTraceID); id != "" {
		return id
	}
	id := uuid.NewString()
	c.Set(cnst.CtxTraceID, id)
	return id
}

// AsAPIError extracts an APIError from err
func AsAPIError(err error) (*APIError, bool) {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	return nil, false
}
