package middleware

import (
	"bytes"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// TestRequestID はRequestIDミドルウェアを検証する。
func TestRequestID(t *testing.T) {
	t.Parallel()

	newRouter := func(captured *string) *gin.Engine {
		router := gin.New()
		router.Use(RequestID())
		router.GET("/test", func(c *gin.Context) {
			*captured = GetRequestID(c)
			c.Status(http.StatusOK)
		})
		return router
	}

	t.Run("IDが無い場合はUUIDが生成されること", func(t *testing.T) {
		t.Parallel()

		var captured string
		router := newRouter(&captured)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/test", nil))

		if _, err := uuid.Parse(captured); err != nil {
			t.Errorf("リクエストIDがUUIDではない: %q", captured)
		}
		if got := w.Header().Get("X-Request-ID"); got != captured {
			t.Errorf("X-Request-ID = %q, want %q", got, captured)
		}
	})

	t.Run("クライアントのIDが引き継がれること", func(t *testing.T) {
		t.Parallel()

		var captured string
		router := newRouter(&captured)
		req := httptest.NewRequest(http.MethodGet, "/test", nil)
		req.Header.Set("X-Request-ID", "client-id-1")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		if captured != "client-id-1" {
			t.Errorf("リクエストID = %q, want %q", captured, "client-id-1")
		}
	})
}

// TestSecurityHeaders はSecurityHeadersミドルウェアを検証する。
func TestSecurityHeaders(t *testing.T) {
	t.Parallel()

	router := gin.New()
	router.Use(SecurityHeaders())
	router.GET("/test", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/test", nil))

	if got := w.Header().Get("X-Content-Type-Options"); got != "nosniff" {
		t.Errorf("X-Content-Type-Options = %q, want %q", got, "nosniff")
	}
	if got := w.Header().Get("X-Frame-Options"); got != "DENY" {
		t.Errorf("X-Frame-Options = %q, want %q", got, "DENY")
	}
	if got := w.Header().Get("X-Powered-By"); got != "" {
		t.Errorf("X-Powered-By = %q, want empty string", got)
	}
}

// TestBodyLimit はBodyLimitミドルウェアを検証する。
func TestBodyLimit(t *testing.T) {
	t.Parallel()

	newRouter := func(readErr *error) *gin.Engine {
		router := gin.New()
		router.Use(BodyLimit(16))
		router.POST("/test", func(c *gin.Context) {
			_, *readErr = io.ReadAll(c.Request.Body)
			c.Status(http.StatusOK)
		})
		return router
	}

	t.Run("上限以内のボディは読み取れること", func(t *testing.T) {
		t.Parallel()

		var readErr error
		router := newRouter(&readErr)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/test", strings.NewReader(`{"a":1}`)))

		if w.Code != http.StatusOK {
			t.Errorf("ステータスコード = %d, want %d", w.Code, http.StatusOK)
		}
		if readErr != nil {
			t.Errorf("ボディの読み取りでエラー: %v", readErr)
		}
	})

	t.Run("Content-Lengthが上限を超える場合は413が返ること", func(t *testing.T) {
		t.Parallel()

		var readErr error
		router := newRouter(&readErr)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/test", strings.NewReader(strings.Repeat("x", 64))))

		if w.Code != http.StatusRequestEntityTooLarge {
			t.Errorf("ステータスコード = %d, want %d", w.Code, http.StatusRequestEntityTooLarge)
		}
	})

	t.Run("長さ不明のボディは読み取り時にMaxBytesErrorになること", func(t *testing.T) {
		t.Parallel()

		var readErr error
		router := newRouter(&readErr)
		req := httptest.NewRequest(http.MethodPost, "/test", io.NopCloser(bytes.NewReader(bytes.Repeat([]byte("x"), 64))))
		req.ContentLength = -1
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		var maxErr *http.MaxBytesError
		if !errors.As(readErr, &maxErr) {
			t.Errorf("err = %v, want *http.MaxBytesError", readErr)
		}
	})
}

// TestRequestLogger はRequestLoggerミドルウェアがハンドラーの処理を妨げないことを検証する。
func TestRequestLogger(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	log := newTestLogger()
	log.SetOutput(&buf)

	router := gin.New()
	router.Use(RequestID(), RequestLogger(log))
	router.GET("/test", func(c *gin.Context) {
		c.Status(http.StatusTeapot)
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/test", nil))

	if w.Code != http.StatusTeapot {
		t.Errorf("ステータスコード = %d, want %d", w.Code, http.StatusTeapot)
	}
	out := buf.String()
	if !strings.Contains(out, "path=/test") {
		t.Errorf("ログにパスが含まれない: %s", out)
	}
	if !strings.Contains(out, "status=418") {
		t.Errorf("ログにステータスが含まれない: %s", out)
	}
}
