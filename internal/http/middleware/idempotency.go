// Package middleware contains shared Gin middleware used by the HTTP layer.
//
// This file carries the Idempotency-Key support for the board's lifecycle
// POSTs. Claim, release, start, progress, and deny are all unsafe retries:
// an addon that resends a claim after a timeout must not arbitrate the claim
// twice. The middleware validates the header, stashes the key for handlers,
// and consults a storage-provided lookup to flag replays; what to serve for
// a replay stays a handler decision, persistence stays in the repo layer.
package middleware

import (
	"context"
	"net/http"
	"regexp"
	"time"

	"github.com/gin-gonic/gin"
)

// HeaderIdempotencyKey is the request header carrying the client-chosen key.
// A client keeps the key stable across retries of one semantic operation.
const HeaderIdempotencyKey = "Idempotency-Key"

// Context keys stashing idempotency state; read through the accessors below
// (and IsRateBypass in ratelimit.go).
const (
	ctxKeyIdemKey    = "idem.key"
	ctxKeyIdemReplay = "idem.replay"
	ctxKeyRateBypass = "rate.bypass"
)

// defaultKeyPattern accepts RFC 7230 token characters plus the separators
// clients commonly put in keys (UUIDs, ULIDs, "op:attempt" composites).
var defaultKeyPattern = regexp.MustCompile(`^[A-Za-z0-9._~\-:]+$`)

// GetIdempotencyKey returns the validated key stashed by IdempotencyValidator
// and whether one is present. Handlers read this instead of the raw header.
func GetIdempotencyKey(c *gin.Context) (string, bool) {
	v, ok := c.Get(ctxKeyIdemKey)
	if !ok {
		return "", false
	}
	s, _ := v.(string)
	return s, s != ""
}

// IsReplay reports whether this request repeats an operation that already
// completed under the same (member, scope, key). Handlers serve the stored
// outcome instead of re-running the mutation.
func IsReplay(c *gin.Context) bool {
	v, ok := c.Get(ctxKeyIdemReplay)
	if !ok {
		return false
	}
	b, _ := v.(bool)
	return b
}

// IdempotencyOptions tunes header validation. MaxLen <= 0 defaults to 200;
// a nil Pattern uses defaultKeyPattern. TTL is not a validation concern and
// belongs inside the lookup.
type IdempotencyOptions struct {
	MaxLen  int
	Pattern *regexp.Regexp
}

// IdempotencyLookup reports whether a completed, still-valid outcome exists
// for (userID, scope, key) at the given time. scope pins the key to one
// resource, normally the request id of a lifecycle POST. Lookup errors must
// not block processing; a failed lookup means "treat as first attempt".
type IdempotencyLookup func(ctx context.Context, userID, scope, key string, now time.Time) (exists bool, err error)

// IdempotencyValidator returns the header-validation middleware. Requests
// without the header pass through untouched. A malformed key is rejected
// with a 400 and code "bad_idempotency_key". A well-formed key is stashed
// for handlers, and when lookup confirms a prior completion the replay and
// rate-bypass flags are set so the limiter lets the replay through for free.
func IdempotencyValidator(opts IdempotencyOptions, lookup IdempotencyLookup) gin.HandlerFunc {
	maxLen := opts.MaxLen
	if maxLen <= 0 {
		maxLen = 200
	}
	pattern := opts.Pattern
	if pattern == nil {
		pattern = defaultKeyPattern
	}

	return func(c *gin.Context) {
		key := c.GetHeader(HeaderIdempotencyKey)
		if key == "" {
			c.Next()
			return
		}
		if len(key) > maxLen || !pattern.MatchString(key) {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
				"code":    "bad_idempotency_key",
				"message": "invalid Idempotency-Key",
			})
			return
		}

		c.Set(ctxKeyIdemKey, key)

		if lookup != nil {
			// Lifecycle POSTs scope the key to the request id; routes
			// without :id fall back to the matched route pattern.
			scope := c.Param("id")
			if scope == "" {
				scope = c.FullPath()
			}
			exists, _ := lookup(c.Request.Context(), userIDFromCtx(c), scope, key, time.Now().UTC())
			if exists {
				c.Set(ctxKeyIdemReplay, true)
				c.Set(ctxKeyRateBypass, true)
			}
		}

		c.Next()
	}
}

// userIDFromCtx reads the member identity placed in the context by the
// identity middleware, falling back to the demo identity used throughout
// the API when none is present.
func userIDFromCtx(c *gin.Context) string {
	if v, ok := c.Get("userID"); ok {
		if s, ok := v.(string); ok && s != "" {
			return s
		}
	}
	return "demo-user"
}
