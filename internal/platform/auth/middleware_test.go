package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func setupTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	return gin.New()
}

func TestMiddleware(t *testing.T) {
	manager := NewTokenManager("access-secret-32-characters!!", 15*time.Minute)

	t.Run("allows request with valid token", func(t *testing.T) {
		token, _ := manager.GenerateToken("service-1")

		router := setupTestRouter()
		router.GET("/protected", Middleware(manager), func(c *gin.Context) {
			caller, _ := Caller(c)
			c.JSON(http.StatusOK, gin.H{"caller": caller})
		})

		req, _ := http.NewRequest(http.MethodGet, "/protected", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("rejects request without authorization header", func(t *testing.T) {
		router := setupTestRouter()
		router.GET("/protected", Middleware(manager), func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{})
		})

		req, _ := http.NewRequest(http.MethodGet, "/protected", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("rejects request with invalid authorization format", func(t *testing.T) {
		router := setupTestRouter()
		router.GET("/protected", Middleware(manager), func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{})
		})

		req, _ := http.NewRequest(http.MethodGet, "/protected", nil)
		req.Header.Set("Authorization", "InvalidFormat")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("rejects request with non-Bearer prefix", func(t *testing.T) {
		router := setupTestRouter()
		router.GET("/protected", Middleware(manager), func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{})
		})

		req, _ := http.NewRequest(http.MethodGet, "/protected", nil)
		req.Header.Set("Authorization", "Basic sometoken")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("rejects request with invalid token", func(t *testing.T) {
		router := setupTestRouter()
		router.GET("/protected", Middleware(manager), func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{})
		})

		req, _ := http.NewRequest(http.MethodGet, "/protected", nil)
		req.Header.Set("Authorization", "Bearer invalid-token")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("rejects request with expired token", func(t *testing.T) {
		expired := NewTokenManager("access-secret-32-characters!!", -1*time.Second)
		token, _ := expired.GenerateToken("service-1")

		router := setupTestRouter()
		router.GET("/protected", Middleware(manager), func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{})
		})

		req, _ := http.NewRequest(http.MethodGet, "/protected", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

func TestCaller(t *testing.T) {
	t.Run("returns caller when set", func(t *testing.T) {
		gin.SetMode(gin.TestMode)
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Set("caller", "service-1")

		caller, exists := Caller(c)

		assert.True(t, exists)
		assert.Equal(t, "service-1", caller)
	})

	t.Run("returns false when caller not set", func(t *testing.T) {
		gin.SetMode(gin.TestMode)
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)

		caller, exists := Caller(c)

		assert.False(t, exists)
		assert.Empty(t, caller)
	})
}
