// Package middleware contains shared Gin middleware used by the HTTP layer.
//
// This file hardens API responses with a conservative header set. The guild
// backend serves JSON only, so there is no CSP here; frame/MIME protections,
// optional cache suppression, and opt-in HSTS cover the surface a pure API
// exposes when sitting behind a reverse proxy.
package middleware

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
)

const defaultHSTSMaxAge = 180 * 24 * time.Hour

// SecurityOptions selects which optional response headers SecurityHeaders
// emits on top of its always-on baseline.
//
// EnableHSTS must only be set when traffic is HTTPS end-to-end, proxy hop
// included; the header is suppressed on plain-HTTP requests regardless.
// HSTSMaxAge values <= 0 fall back to 180 days.
//
// NoStore adds the Cache-Control/Pragma/Expires trio for deployments where
// request payloads (character names, claim attribution) must not land in
// intermediary caches.
//
// EnablePolicy adds Permissions-Policy and X-Permitted-Cross-Domain-Policies.
// Browsers are the only clients that honor them; they are inert for CLI or
// addon clients hitting the board.
type SecurityOptions struct {
	EnableHSTS   bool
	HSTSMaxAge   time.Duration
	NoStore      bool
	EnablePolicy bool
}

// SecurityHeaders returns a middleware that stamps every response with:
//
//	X-Content-Type-Options: nosniff
//	X-Frame-Options: DENY
//	Referrer-Policy: no-referrer
//
// plus the optional sets described on SecurityOptions. When an upstream
// middleware already placed X-Request-ID on the response, the header name is
// appended to Access-Control-Expose-Headers (without duplicating an existing
// entry) so browser clients can read the correlation id.
func SecurityHeaders(opt SecurityOptions) gin.HandlerFunc {
	maxAge := opt.HSTSMaxAge
	if maxAge <= 0 {
		maxAge = defaultHSTSMaxAge
	}
	hstsValue := "max-age=" + strconv.FormatInt(int64(maxAge.Seconds()), 10) +
		"; includeSubDomains; preload"

	return func(c *gin.Context) {
		h := c.Writer.Header()

		h.Set("X-Content-Type-Options", "nosniff")
		h.Set("X-Frame-Options", "DENY")
		h.Set("Referrer-Policy", "no-referrer")

		if opt.EnablePolicy {
			h.Set("Permissions-Policy", "geolocation=(), microphone=(), camera=(), payment=()")
			h.Set("X-Permitted-Cross-Domain-Policies", "none")
		}

		if opt.NoStore {
			h.Set("Cache-Control", "no-store")
			h.Set("Pragma", "no-cache")
			h.Set("Expires", "0")
		}

		if opt.EnableHSTS && isHTTPS(c.Request) {
			h.Set("Strict-Transport-Security", hstsValue)
		}

		if rid := h.Get("X-Request-ID"); rid != "" {
			exposeRequestID(h)
		}

		c.Next()
	}
}

// exposeRequestID appends X-Request-ID to Access-Control-Expose-Headers,
// preserving whatever CORS middleware already listed there.
func exposeRequestID(h http.Header) {
	const key = "Access-Control-Expose-Headers"
	cur := h.Get(key)
	switch {
	case cur == "":
		h.Set(key, "X-Request-ID")
	case strings.Contains(cur, "X-Request-ID"):
		// already exposed
	default:
		h.Set(key, cur+", X-Request-ID")
	}
}

// isHTTPS reports whether the request arrived over TLS, either directly or
// via a proxy that set X-Forwarded-Proto: https.
func isHTTPS(r *http.Request) bool {
	if r.TLS != nil {
		return true
	}
	return strings.EqualFold(r.Header.Get("X-Forwarded-Proto"), "https")
}
