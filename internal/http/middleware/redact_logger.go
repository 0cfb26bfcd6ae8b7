// Package middleware contains shared Gin middleware used by the HTTP layer.
//
// This file implements RedactingLogger, the access logger installed in front
// of the board API. Request bodies and response bodies are never logged;
// query strings and header values are scrubbed before they reach the log
// stream, because clients routinely put member ids (UUIDs) and contact
// details into both. Scrubbing reduces, not eliminates, leak risk: keep PII
// out of query strings in the first place.
package middleware

import (
	"regexp"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// piiPatterns are applied in order to every logged query string and header
// value. UUIDs go first: the phone pattern is loose enough to latch onto the
// digit groups inside an id, so ids must already be gone by then.
var piiPatterns = []struct {
	re    *regexp.Regexp
	token string
}{
	{regexp.MustCompile(`(?i)\b[0-9a-f]{8}\-[0-9a-f]{4}\-[1-5][0-9a-f]{3}\-[89ab][0-9a-f]{3}\-[0-9a-f]{12}\b`), "[REDACTED:id]"},
	{regexp.MustCompile(`(?i)\b[a-z0-9._%+\-]+@[a-z0-9.\-]+\.[a-z]{2,}\b`), "[REDACTED:email]"},
	{regexp.MustCompile(`\b(?:\+?\d{1,3}[ .-]?)?(?:\(?\d{2,4}\)?[ .-]?)?\d{3,4}[ .-]?\d{4}\b`), "[REDACTED:phone]"},
}

// scrubPII replaces UUIDs, email addresses, and phone-number-shaped digit
// runs with typed placeholder tokens.
func scrubPII(s string) string {
	if s == "" {
		return s
	}
	for _, p := range piiPatterns {
		s = p.re.ReplaceAllString(s, p.token)
	}
	return s
}

// RedactOptions extends the built-in masked header set (Authorization,
// Cookie, Set-Cookie). Names listed in MaskHeaders have their values
// replaced wholesale with "[REDACTED]"; matching is case-insensitive.
type RedactOptions struct {
	MaskHeaders []string
}

// RedactingLogger returns the access-log middleware. Per request it emits
// one structured line (msg "http_request") carrying method, route path,
// scrubbed query, scrubbed headers, status, response size, and latency, at
// info for 2xx/3xx, warn for 4xx, and error for 5xx.
//
// It also stores a request-scoped zerolog.Logger under the "logger" context
// key so handlers can log with the request's correlation fields already
// attached (see LoggerFrom).
func RedactingLogger(opts RedactOptions) gin.HandlerFunc {
	masked := map[string]struct{}{
		"authorization": {},
		"cookie":        {},
		"set-cookie":    {},
	}
	for _, h := range opts.MaskHeaders {
		if h = strings.ToLower(strings.TrimSpace(h)); h != "" {
			masked[h] = struct{}{}
		}
	}

	return func(c *gin.Context) {
		start := time.Now()

		path := c.FullPath()
		if path == "" {
			path = c.Request.URL.Path
		}
		safeQuery := scrubPII(c.Request.URL.RawQuery)

		safeHeaders := make(map[string]string, len(c.Request.Header))
		for name, vals := range c.Request.Header {
			if _, hide := masked[strings.ToLower(name)]; hide {
				safeHeaders[name] = "[REDACTED]"
				continue
			}
			safeHeaders[name] = scrubPII(strings.Join(vals, ", "))
		}

		// Request-scoped logger for handlers and services.
		rid, _ := c.Get(requestIDKey)
		scoped := log.With().
			Str("request_id", asString(rid)).
			Str("method", c.Request.Method).
			Str("path", path).
			Logger()
		c.Set("logger", &scoped)

		c.Next()

		status := c.Writer.Status()
		reqID := c.Writer.Header().Get("X-Request-ID")
		if reqID == "" {
			reqID = c.GetHeader("X-Request-ID")
		}

		ev := log.Info()
		switch {
		case status >= 500:
			ev = log.Error()
		case status >= 400:
			ev = log.Warn()
		}
		ev.
			Str("request_id", reqID).
			Str("method", c.Request.Method).
			Str("path", path).
			Str("query", safeQuery).
			Int("status", status).
			Int("bytes", c.Writer.Size()).
			Dur("latency", time.Since(start)).
			Interface("headers", safeHeaders).
			Msg("http_request")
	}
}
