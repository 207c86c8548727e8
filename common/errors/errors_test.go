package errors

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func TestErrorUnwrapAndMessage(t *testing.T) {
	cause := errors.New("boom")
	err := BadRequest("Invalid upload", cause)

	if !errors.Is(err, cause) {
		t.Fatal("expected wrapped cause")
	}
	if err.Error() != "Invalid upload: boom" {
		t.Fatalf("unexpected message %q", err.Error())
	}
}

func TestErrorMiddlewareRendersAppError(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(ErrorMiddleware())
	r.GET("/x", func(c *gin.Context) {
		_ = c.Error(Unprocessable("missing columns", nil).With("missing", []string{"gtin"}))
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/x", nil))

	if w.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", w.Code)
	}
	var body struct {
		Error   string   `json:"error"`
		Missing []string `json:"missing"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if body.Error != "missing columns" || len(body.Missing) != 1 || body.Missing[0] != "gtin" {
		t.Fatalf("unexpected body %s", w.Body.String())
	}
}

func TestErrorMiddlewarePlainErrorIs500(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(ErrorMiddleware())
	r.GET("/x", func(c *gin.Context) {
		_ = c.Error(errors.New("redis down"))
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/x", nil))

	if w.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", w.Code)
	}
	if w.Body.String() != `{"error":"Internal server error"}` {
		t.Fatalf("internal details leaked: %s", w.Body.String())
	}
}
