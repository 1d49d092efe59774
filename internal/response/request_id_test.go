package response

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

func newRequestIDRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RequestIDMiddleware())
	r.GET("/ping", func(c *gin.Context) {
		Success(c, http.StatusOK, gin.H{"status": "ok"})
	})
	return r
}

func TestRequestIDMiddleware(t *testing.T) {
	router := newRequestIDRouter()

	t.Run("propagates a well-formed id", func(t *testing.T) {
		supplied := uuid.New().String()
		req := httptest.NewRequest(http.MethodGet, "/ping", nil)
		req.Header.Set("X-Request-ID", supplied)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		if got := rec.Header().Get("X-Request-ID"); got != supplied {
			t.Errorf("X-Request-ID = %q, want the supplied %q", got, supplied)
		}
	})

	t.Run("replaces a malformed id", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/ping", nil)
		req.Header.Set("X-Request-ID", "not-a-uuid'; DROP TABLE logs;--")
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		got := rec.Header().Get("X-Request-ID")
		if _, err := uuid.Parse(got); err != nil {
			t.Errorf("X-Request-ID = %q, want a generated UUID", got)
		}
	})

	t.Run("generates when absent", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/ping", nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		got := rec.Header().Get("X-Request-ID")
		if _, err := uuid.Parse(got); err != nil {
			t.Errorf("X-Request-ID = %q, want a generated UUID", got)
		}
	})
}
