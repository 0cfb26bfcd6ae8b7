package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// withEnvelopeRouter builds a router whose middleware mimics the production
// stack: a response X-Request-ID and a request-scoped logger writing to buf.
func withEnvelopeRouter(rid string, buf *bytes.Buffer) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	logger := zerolog.New(buf)
	r.Use(func(c *gin.Context) {
		c.Writer.Header().Set("X-Request-ID", rid)
		c.Set("logger", &logger)
		c.Next()
	})
	return r
}

func TestFail_ServerErrorLogsAndWritesEnvelope(t *testing.T) {
	var buf bytes.Buffer
	r := withEnvelopeRouter("rid-catalog", &buf)
	r.GET("/items", func(c *gin.Context) {
		fail(c, http.StatusInternalServerError, ErrCodeInternal, "catalog not loaded")
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/items", nil))

	if w.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d", w.Code)
	}
	var resp ErrorResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("envelope not JSON: %v", err)
	}
	if resp.RequestID != "rid-catalog" || resp.Code != ErrCodeInternal || resp.Message != "catalog not loaded" {
		t.Fatalf("unexpected envelope: %+v", resp)
	}
	logs := buf.String()
	if !strings.Contains(logs, `"level":"error"`) || !strings.Contains(logs, `"code":"internal_error"`) {
		t.Fatalf("expected error-level log for 5xx, got: %s", logs)
	}
}

func TestFail_ClientErrorSkipsLog(t *testing.T) {
	var buf bytes.Buffer
	r := withEnvelopeRouter("rid-claim", &buf)
	r.POST("/requests/:id/claim", func(c *gin.Context) {
		Fail(c, http.StatusConflict, ErrCodeAlreadyClaimed, "request already claimed")
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/requests/r1/claim", nil))

	if w.Code != http.StatusConflict {
		t.Fatalf("status = %d", w.Code)
	}
	var resp ErrorResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("envelope not JSON: %v", err)
	}
	if resp.RequestID != "rid-claim" || resp.Code != ErrCodeAlreadyClaimed {
		t.Fatalf("unexpected envelope: %+v", resp)
	}
	if buf.Len() != 0 {
		t.Fatalf("4xx must not log, got: %s", buf.String())
	}
}

func TestSuccessHelpers(t *testing.T) {
	var buf bytes.Buffer
	r := withEnvelopeRouter("rid-ok", &buf)
	r.POST("/characters", func(c *gin.Context) {
		ok(c, http.StatusCreated, gin.H{"name": "Mogra", "professions": []string{"tailoring"}})
	})
	r.DELETE("/session", func(c *gin.Context) { noContent(c) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/characters", nil))
	if w.Code != http.StatusCreated {
		t.Fatalf("create status = %d", w.Code)
	}
	var body map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("body not JSON: %v", err)
	}
	if body["name"] != "Mogra" {
		t.Fatalf("unexpected body: %#v", body)
	}

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/session", nil))
	if w.Code != http.StatusNoContent || w.Body.Len() != 0 {
		t.Fatalf("204 must have no body, got %d with %q", w.Code, w.Body.String())
	}
}
