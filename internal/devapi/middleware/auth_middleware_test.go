package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"go-hrm/internal/devapi/middleware"
	"go-hrm/internal/rbac"
	"go-hrm/internal/shared/contextutil"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const secret = "test-secret"

func sign(t *testing.T, method jwt.SigningMethod, key interface{}, claims jwt.MapClaims) string {
	t.Helper()
	s, err := jwt.NewWithClaims(method, claims).SignedString(key)
	require.NoError(t, err)
	return s
}

func TestAuth(t *testing.T) {
	gin.SetMode(gin.TestMode)

	r := gin.New()
	r.GET("/me", middleware.Auth(secret), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"user_id": c.GetString(middleware.ContextUserID),
			"role":    c.GetString(rbac.ContextRole),
			"ctx":     contextutil.GetUserID(c.Request.Context()),
		})
	})

	call := func(header string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		if header != "" {
			req.Header.Set("Authorization", header)
		}
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w
	}

	t.Run("Valid Token", func(t *testing.T) {
		token := sign(t, jwt.SigningMethodHS256, []byte(secret), jwt.MapClaims{
			"user_id": "u-1",
			"role":    "Admin",
			"exp":     time.Now().Add(time.Hour).Unix(),
		})

		w := call("Bearer " + token)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"user_id":"u-1","role":"Admin","ctx":"u-1"}`, w.Body.String())
	})

	t.Run("Missing Header", func(t *testing.T) {
		w := call("")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Contains(t, w.Body.String(), "Authorization header is required")
	})

	t.Run("Not Bearer", func(t *testing.T) {
		w := call("Basic abc")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("Wrong Secret", func(t *testing.T) {
		token := sign(t, jwt.SigningMethodHS256, []byte("other"), jwt.MapClaims{
			"user_id": "u-1",
			"exp":     time.Now().Add(time.Hour).Unix(),
		})
		w := call("Bearer " + token)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Contains(t, w.Body.String(), "Invalid token")
	})

	t.Run("Expired", func(t *testing.T) {
		token := sign(t, jwt.SigningMethodHS256, []byte(secret), jwt.MapClaims{
			"user_id": "u-1",
			"exp":     time.Now().Add(-time.Hour).Unix(),
		})
		w := call("Bearer " + token)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Contains(t, w.Body.String(), "Token expired")
	})

	t.Run("Missing User Claim", func(t *testing.T) {
		token := sign(t, jwt.SigningMethodHS256, []byte(secret), jwt.MapClaims{
			"role": "Admin",
			"exp":  time.Now().Add(time.Hour).Unix(),
		})
		w := call("Bearer " + token)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}
