// Package handlers provides HTTP handler implementations for the public API.
//
// This file holds the response helpers every endpoint goes through. Errors
// always leave the API as an ErrorResponse with a stable machine-readable
// code (see errors.go) so addon clients can branch on `code` instead of
// parsing messages, and 5xx failures are logged with the request-scoped
// logger before the envelope is written. Success bodies are plain JSON of
// whatever DTO the endpoint returns:
//
//	HTTP/1.1 409 Conflict
//	{"request_id": "4f0c...", "code": "already_claimed", "message": "request already claimed"}
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/go-guild-backend/internal/http/middleware"
)

// ErrorResponse is the error envelope for every non-2xx outcome. RequestID
// echoes X-Request-ID so a client report can be matched to server logs; Code
// is one of the ErrCode constants; Message is safe to surface to guild
// members verbatim.
type ErrorResponse struct {
	RequestID string `json:"request_id,omitempty" example:"123e4567-e89b-12d3-a456-426614174000"`
	Code      string `json:"code" example:"already_claimed"`
	Message   string `json:"message" example:"request already claimed"`
}

// fail writes the error envelope with the given status and aborts the
// handler chain. Statuses >= 500 are logged first, carrying the envelope
// fields, via the request-scoped logger.
func fail(c *gin.Context, status int, code, msg string) {
	resp := ErrorResponse{
		RequestID: c.Writer.Header().Get("X-Request-ID"),
		Code:      code,
		Message:   msg,
	}

	if status >= http.StatusInternalServerError {
		middleware.LoggerFrom(c).Error().
			Int("status", status).
			Str("code", code).
			Str("message", msg).
			Msg("api error")
	}

	c.AbortWithStatusJSON(status, resp)
}

// Fail exposes fail to other packages; the router's NoRoute/NoMethod
// fallbacks use it so 404/405 share the envelope shape.
func Fail(c *gin.Context, status int, code, msg string) { fail(c, status, code, msg) }

// ok writes body as JSON with the given status.
func ok(c *gin.Context, status int, body any) {
	c.JSON(status, body)
}

// noContent writes a bodyless 204.
func noContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}
