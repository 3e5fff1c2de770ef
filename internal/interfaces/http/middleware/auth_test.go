package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cardwallet/internal/shared/logger"
)

func protectedEngine(mw gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	engine := gin.New()
	engine.Use(mw)
	engine.GET("/protected", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	return engine
}

func TestApplePassAuth(t *testing.T) {
	engine := protectedEngine(ApplePassAuth("secret", logger.NewLogger()))

	tests := []struct {
		name   string
		header string
		status int
	}{
		{name: "valid token", header: "ApplePass secret", status: http.StatusOK},
		{name: "missing header", header: "", status: http.StatusUnauthorized},
		{name: "wrong token", header: "ApplePass nope", status: http.StatusUnauthorized},
		{name: "wrong scheme", header: "Bearer secret", status: http.StatusUnauthorized},
		{name: "scheme only", header: "ApplePass", status: http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/protected", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			engine.ServeHTTP(w, req)
			assert.Equal(t, tt.status, w.Code)
			// Device responses never carry an error body.
			if tt.status != http.StatusOK {
				assert.Empty(t, w.Body.String())
			}
		})
	}
}

func signedToken(t *testing.T, secret string, exp time.Time) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "operator",
		"exp": exp.Unix(),
		"iat": time.Now().Unix(),
	})
	signed, err := token.SignedString([]byte(secret))
	require.NoError(t, err)
	return signed
}

func TestAdminAuth(t *testing.T) {
	engine := protectedEngine(AdminAuth("jwt-secret", logger.NewLogger()))

	tests := []struct {
		name   string
		header string
		status int
	}{
		{name: "valid token", header: "Bearer " + signedToken(t, "jwt-secret", time.Now().Add(time.Hour)), status: http.StatusOK},
		{name: "expired token", header: "Bearer " + signedToken(t, "jwt-secret", time.Now().Add(-time.Hour)), status: http.StatusUnauthorized},
		{name: "wrong secret", header: "Bearer " + signedToken(t, "other-secret", time.Now().Add(time.Hour)), status: http.StatusUnauthorized},
		{name: "missing header", header: "", status: http.StatusUnauthorized},
		{name: "not a bearer", header: "ApplePass x", status: http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/protected", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			engine.ServeHTTP(w, req)
			assert.Equal(t, tt.status, w.Code)
		})
	}
}
