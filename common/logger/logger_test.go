package logger

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func TestInitializeWithWriterTeesJSON(t *testing.T) {
	var sink bytes.Buffer
	log := InitializeWithWriter("production", &sink)
	defer zap.ReplaceGlobals(zap.NewNop())

	log.Info("catalog cleaned", zap.Int("total", 3))
	_ = log.Sync()

	out := sink.String()
	if !strings.Contains(out, `"msg":"catalog cleaned"`) || !strings.Contains(out, `"total":3`) {
		t.Fatalf("expected JSON entry in sink, got %q", out)
	}
	if zap.L() != log {
		t.Fatal("expected global logger to be replaced")
	}
}

func TestRequestIDMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RequestID())
	var seen string
	r.GET("/x", func(c *gin.Context) {
		seen = c.GetString(RequestIDKey)
		For(c).Debug("handled")
		c.Status(http.StatusNoContent)
	})

	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set(RequestIDHeader, "abc-123")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if seen != "abc-123" || w.Header().Get(RequestIDHeader) != "abc-123" {
		t.Fatalf("expected caller request id to be reused, got %q", seen)
	}

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/x", nil))
	if w.Header().Get(RequestIDHeader) == "" {
		t.Fatal("expected generated request id")
	}
}
