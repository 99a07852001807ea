// Common helper functions for HTTP handlers.

package handlers

import (
	stderrors "errors"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/Odnson/fobi-amaturalist-sub002/internal/infrastructure/monitoring/logging"
	"github.com/Odnson/fobi-amaturalist-sub002/internal/interfaces/http/middleware"
	"github.com/Odnson/fobi-amaturalist-sub002/pkg/errors"
)

// ErrorResponse is the standard error response body.
type ErrorResponse struct {
	Success   bool   `json:"success"`
	Code      string `json:"code"`
	Message   string `json:"message"`
	Detail    string `json:"detail,omitempty"`
	RequestID string `json:"request_id,omitempty"`
}

// writeAppError maps err to its HTTP status and writes the error body.
// Server-side failures are logged and their message masked.
func writeAppError(c *gin.Context, logger logging.Logger, err error) {
	code := errors.GetCode(err)
	status := errors.HTTPStatusForCode(code)

	resp := ErrorResponse{
		Code:      string(code),
		Message:   errors.DefaultMessageForCode(code),
		RequestID: middleware.GetRequestID(c),
	}
	var appErr *errors.AppError
	if stderrors.As(err, &appErr) && status < 500 {
		resp.Message = appErr.Message
		resp.Detail = appErr.Detail
	}
	if status >= 500 {
		logger.Error("Request failed",
			logging.String("path", c.Request.URL.Path),
			logging.String("request_id", resp.RequestID),
			logging.Err(err))
	}
	_ = c.Error(err)
	c.AbortWithStatusJSON(status, resp)
}

// badRequest writes a COMMON_002 error naming the offending input.
func badRequest(c *gin.Context, logger logging.Logger, detail string) {
	writeAppError(c, logger, errors.New(errors.ErrCodeBadRequest, "invalid request").WithDetail(detail))
}

// queryInt parses an optional positive integer query parameter.  Missing
// values return def; values above max are clamped when max > 0.
func queryInt(c *gin.Context, key string, def, max int) (int, bool) {
	raw := c.Query(key)
	if raw == "" {
		return def, true
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 1 {
		return 0, false
	}
	if max > 0 && v > max {
		v = max
	}
	return v, true
}

//Personal.AI order the ending
