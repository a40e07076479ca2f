package auth_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"go-hrm/internal/apiclient"
	"go-hrm/internal/auth"
	autherrors "go-hrm/internal/auth/errors"
	"go-hrm/internal/shared/apperror"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type staticSession struct {
	token        string
	unauthorized int
}

func (s *staticSession) Token() string { return s.token }

func (s *staticSession) HandleUnauthorized(context.Context, string) { s.unauthorized++ }

func newRepo(t *testing.T, h gin.HandlerFunc) (auth.Repository, *staticSession) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/auth/signin", h)
	r.GET("/auth/me", h)
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)

	client := apiclient.New(srv.URL, time.Second)
	sess := &staticSession{token: "tok"}
	client.Bind(sess)
	return auth.NewRepository(client), sess
}

func TestRepository_SignIn_Shapes(t *testing.T) {
	cases := []struct {
		name string
		body gin.H
	}{
		{"flat camelCase", gin.H{"accessToken": "abc", "id": "u1", "name": "Ann", "email": "ann@hrm.local", "role": "Employee"}},
		{"data envelope", gin.H{"ok": true, "data": gin.H{"accessToken": "abc", "id": "u1", "name": "Ann", "email": "ann@hrm.local", "role": "Employee"}}},
		{"snake token nested user", gin.H{"access_token": "abc", "user": gin.H{"id": "u1", "name": "Ann", "email": "ann@hrm.local", "role": "Employee"}}},
		{"bare token numeric id", gin.H{"token": "abc", "user": gin.H{"id": 1, "name": "Ann", "email": "ann@hrm.local", "role": "Employee"}}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var got auth.SignInRequest
			repo, _ := newRepo(t, func(c *gin.Context) {
				_ = c.ShouldBindJSON(&got)
				assert.Empty(t, c.GetHeader("Authorization"))
				c.JSON(http.StatusOK, tc.body)
			})

			res, err := repo.SignIn(context.Background(), auth.SignInRequest{Email: "ann@hrm.local", Password: "secret1"})
			require.NoError(t, err)
			assert.Equal(t, "abc", res.AccessToken)
			assert.Equal(t, "Ann", res.User.Name)
			assert.Equal(t, "ann@hrm.local", res.User.Email)
			assert.Equal(t, "Employee", res.User.Role)
			assert.NotEmpty(t, res.User.ID)
			assert.Equal(t, "ann@hrm.local", got.Email)
		})
	}
}

func TestRepository_SignIn_Failures(t *testing.T) {
	t.Run("missing token", func(t *testing.T) {
		repo, _ := newRepo(t, func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"id": "u1", "email": "ann@hrm.local"})
		})
		_, err := repo.SignIn(context.Background(), auth.SignInRequest{Email: "ann@hrm.local", Password: "secret1"})
		assert.ErrorIs(t, err, autherrors.ErrUnexpectedSignIn)
		assert.Equal(t, "Unexpected sign-in response", apperror.Message(err))
	})

	t.Run("invalid credentials do not expire the session", func(t *testing.T) {
		repo, sess := newRepo(t, func(c *gin.Context) {
			c.JSON(http.StatusUnauthorized, gin.H{"message": "Invalid credentials"})
		})
		_, err := repo.SignIn(context.Background(), auth.SignInRequest{Email: "ann@hrm.local", Password: "wrong12"})
		assert.True(t, apperror.IsUnauthorized(err))
		assert.Equal(t, "Invalid credentials", apperror.Message(err))
		assert.Equal(t, 0, sess.unauthorized)
	})
}

func TestRepository_Me(t *testing.T) {
	t.Run("nested user", func(t *testing.T) {
		repo, _ := newRepo(t, func(c *gin.Context) {
			assert.Equal(t, "Bearer tok", c.GetHeader("Authorization"))
			c.JSON(http.StatusOK, gin.H{"data": gin.H{"user": gin.H{"id": "u2", "name": "Bob", "email": "bob@hrm.local", "role": "Admin"}}})
		})
		user, err := repo.Me(context.Background())
		require.NoError(t, err)
		assert.Equal(t, auth.UserResponse{ID: "u2", Name: "Bob", Email: "bob@hrm.local", Role: "Admin"}, user)
	})

	t.Run("expired token", func(t *testing.T) {
		repo, sess := newRepo(t, func(c *gin.Context) {
			c.JSON(http.StatusUnauthorized, gin.H{"message": "Token expired"})
		})
		_, err := repo.Me(context.Background())
		assert.True(t, apperror.IsUnauthorized(err))
		assert.Equal(t, 1, sess.unauthorized)
	})

	t.Run("empty profile", func(t *testing.T) {
		repo, _ := newRepo(t, func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{})
		})
		_, err := repo.Me(context.Background())
		assert.ErrorIs(t, err, autherrors.ErrUnexpectedProfile)
	})
}
