// Package middleware contains shared Gin middleware used by the HTTP layer.
//
// This file carries the correlation-id and panic-safety plumbing every
// request passes through: RequestID stamps (or propagates) X-Request-ID,
// Logger is a plain structured access logger for deployments that do not
// want the redacting variant, Recovery turns panics into JSON 500s that
// still carry the correlation id, and LoggerFrom hands handlers the
// request-scoped logger. Install RequestID before either logger so log
// lines and error envelopes share the same id.
package middleware

import (
	"net/http"
	"runtime/debug"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const (
	// requestIDKey is the Gin context key holding the correlation id.
	requestIDKey = "requestID"
	// requestIDHeader propagates the correlation id on both directions.
	requestIDHeader = "X-Request-ID"
	// maxQueryLogLength caps how much of a raw query string gets logged.
	maxQueryLogLength = 2048
)

// RequestID reuses the caller's X-Request-ID when present (header lookup is
// case-insensitive) and mints a UUIDv4 otherwise. The id is mirrored onto
// the response header and stored in the Gin context for everything
// downstream.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		rid := c.GetHeader(requestIDHeader)
		if rid == "" {
			rid = uuid.NewString()
		}
		c.Set(requestIDKey, rid)
		c.Writer.Header().Set(requestIDHeader, rid)
		c.Next()
	}
}

// Logger emits one structured access-log line per request (msg "request")
// and stores a request-scoped zerolog.Logger under the "logger" context key.
// Level tracks the outcome: error when Gin collected errors or the status is
// 5xx, warn for 4xx, info otherwise. Routes that matched log their pattern
// (e.g. /requests/:id); unmatched requests fall back to the raw URL path.
func Logger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		rid, _ := c.Get(requestIDKey)
		uid, _ := c.Get("userID")
		path := c.FullPath()
		if path == "" {
			path = c.Request.URL.Path
		}

		l := log.With().
			Str("request_id", asString(rid)).
			Str("user_id", asString(uid)).
			Str("method", c.Request.Method).
			Str("path", path).
			Str("remote_ip", c.ClientIP()).
			Str("user_agent", c.Request.UserAgent()).
			Str("referer", c.Request.Referer()).
			Str("query", truncate(c.Request.URL.RawQuery, maxQueryLogLength)).
			Int64("bytes_in", c.Request.ContentLength). // -1 when unknown
			Logger()
		c.Set("logger", &l)

		c.Next()

		outcome := l.With().
			Int("status", c.Writer.Status()).
			Dur("latency", time.Since(start)).
			Int("bytes_out", c.Writer.Size()).
			Logger()

		switch status := c.Writer.Status(); {
		case len(c.Errors) > 0:
			outcome.Error().Str("errors", c.Errors.String()).Msg("request")
		case status >= 500:
			outcome.Error().Msg("request")
		case status >= 400:
			outcome.Warn().Msg("request")
		default:
			outcome.Info().Msg("request")
		}
	}
}

// Recovery converts panics into the standard error envelope. The panic value
// and stack land in the log with the correlation id; the client gets
//
//	{"request_id": "...", "code": "internal_error", "message": "internal server error"}
//
// unless a partial response was already written, in which case only the
// status is forced to 500.
func Recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}
			rid, _ := c.Get(requestIDKey)
			log.Error().
				Interface("panic", rec).
				Bytes("stack", debug.Stack()).
				Str("request_id", asString(rid)).
				Msg("panic recovered")

			if c.Writer.Written() {
				c.AbortWithStatus(http.StatusInternalServerError)
				return
			}
			c.Header("Content-Type", "application/json")
			c.Header(requestIDHeader, asString(rid))
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
				"request_id": asString(rid),
				"code":       "internal_error",
				"message":    "internal server error",
			})
		}()
		c.Next()
	}
}

// LoggerFrom returns the request-scoped logger attached by Logger or
// RedactingLogger. When neither ran (tests, background goroutines wired
// through Gin) it falls back to the global logger, so callers never need a
// nil check.
func LoggerFrom(c *gin.Context) *zerolog.Logger {
	if v, ok := c.Get("logger"); ok {
		if lg, ok := v.(*zerolog.Logger); ok {
			return lg
		}
	}
	l := log.With().Logger()
	return &l
}

// asString unwraps a context value as a string, yielding "" for nil or
// non-string values.
func asString(v interface{}) string {
	if s, ok := v.(string); ok {
		return s
	}
	return ""
}

// truncate caps s at max bytes, appending an ellipsis when cut. max <= 0
// disables the cap. Byte truncation can split a rune, which is acceptable
// for log output.
func truncate(s string, max int) string {
	if max <= 0 || len(s) <= max {
		return s
	}
	return s[:max] + "…"
}
