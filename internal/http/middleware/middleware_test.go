package middleware

import (
	"bytes"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func serve(router *gin.Engine, method, path string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestRecovery(t *testing.T) {
	gin.SetMode(gin.TestMode)

	panics := []struct {
		name    string
		handler gin.HandlerFunc
	}{
		{
			name:    "panic with a string",
			handler: func(c *gin.Context) { panic("boom") },
		},
		{
			name:    "panic with an error",
			handler: func(c *gin.Context) { panic(assert.AnError) },
		},
		{
			name: "nil pointer dereference",
			handler: func(c *gin.Context) {
				var ptr *string
				_ = *ptr
			},
		},
	}

	for _, tt := range panics {
		t.Run(tt.name, func(t *testing.T) {
			router := gin.New()
			router.Use(Recovery())
			router.GET("/panic", tt.handler)

			w := serve(router, http.MethodGet, "/panic")

			assert.Equal(t, http.StatusInternalServerError, w.Code)
			assert.JSONEq(t, `{"error":"Internal Server Error"}`, w.Body.String())
		})
	}

	t.Run("normal requests pass through", func(t *testing.T) {
		router := gin.New()
		router.Use(Recovery())
		router.GET("/ok", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"message": "success"})
		})

		w := serve(router, http.MethodGet, "/ok")

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "success")
	})
}

func TestCORS(t *testing.T) {
	gin.SetMode(gin.TestMode)

	router := gin.New()
	router.Use(CORS())
	router.GET("/test", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "success"})
	})
	router.OPTIONS("/test", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "should not reach here"})
	})

	t.Run("adds the cross-origin headers to responses", func(t *testing.T) {
		w := serve(router, http.MethodGet, "/test")

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
		assert.Equal(t, "GET, POST, PUT, PATCH, DELETE, OPTIONS", w.Header().Get("Access-Control-Allow-Methods"))
		assert.Equal(t, "Content-Type, Authorization", w.Header().Get("Access-Control-Allow-Headers"))
		assert.Equal(t, "86400", w.Header().Get("Access-Control-Max-Age"))
	})

	t.Run("answers OPTIONS preflight before the handler", func(t *testing.T) {
		w := serve(router, http.MethodOptions, "/test")

		assert.Equal(t, http.StatusNoContent, w.Code)
		assert.NotContains(t, w.Body.String(), "should not reach here")
		assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
	})
}

func TestLogger(t *testing.T) {
	gin.SetMode(gin.TestMode)

	captureLog := func(t *testing.T) *bytes.Buffer {
		t.Helper()
		var buf bytes.Buffer
		previous := slog.Default()
		slog.SetDefault(slog.New(slog.NewTextHandler(&buf, nil)))
		t.Cleanup(func() { slog.SetDefault(previous) })
		return &buf
	}

	router := gin.New()
	router.Use(Logger())
	router.GET("/test", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "success"})
	})
	router.GET("/error", func(c *gin.Context) {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "server error"})
	})

	t.Run("logs method, path and status", func(t *testing.T) {
		buf := captureLog(t)

		w := serve(router, http.MethodGet, "/test")

		assert.Equal(t, http.StatusOK, w.Code)
		logLine := buf.String()
		assert.Contains(t, logLine, "method=GET")
		assert.Contains(t, logLine, "path=/test")
		assert.Contains(t, logLine, "status=200")
		assert.Contains(t, logLine, "duration=")
	})

	t.Run("keeps the query string in the logged path", func(t *testing.T) {
		buf := captureLog(t)

		w := serve(router, http.MethodGet, "/test?page=2")

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, buf.String(), "path=/test?page=2")
	})

	t.Run("logs error statuses too", func(t *testing.T) {
		buf := captureLog(t)

		w := serve(router, http.MethodGet, "/error")

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.Contains(t, buf.String(), "status=500")
	})
}
