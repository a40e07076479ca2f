package app_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"go-hrm/internal/app"
	"go-hrm/internal/attendance"
	"go-hrm/internal/config"
	"go-hrm/internal/notify"
	"go-hrm/internal/rbac"
	"go-hrm/internal/session"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func stubServer(t *testing.T, calls *int32) *httptest.Server {
	t.Helper()
	gin.SetMode(gin.TestMode)

	r := gin.New()
	r.Use(func(c *gin.Context) { atomic.AddInt32(calls, 1) })
	r.POST("/api/v1/auth/signin", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true, "data": gin.H{
			"access_token": "tok-1",
			"user":         gin.H{"id": "u-1", "name": "Budi", "email": "budi@hrm.local", "role": "EMPLOYEE"},
		}})
	})
	r.GET("/api/v1/attendance/get_today_attendance_status", func(c *gin.Context) {
		if c.GetHeader("Authorization") != "Bearer tok-1" {
			c.JSON(http.StatusUnauthorized, gin.H{"ok": false, "error": gin.H{"code": "UNAUTHORIZED", "message": "Invalid token"}})
			return
		}
		c.JSON(http.StatusOK, gin.H{"ok": true, "data": gin.H{"attendance": nil}})
	})

	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv
}

func testConfig(baseURL string) config.Client {
	return config.Client{
		APIBaseURL:     baseURL + "/api",
		APIVersion:     "v1",
		StoragePrefix:  "hrm_",
		StorageDriver:  config.StorageFile,
		RequestTimeout: 2 * time.Second,
		TickInterval:   time.Second,
		Timezone:       "UTC",
	}
}

func TestBuildClient_LoginThenRestore(t *testing.T) {
	var calls int32
	srv := stubServer(t, &calls)
	cfg := testConfig(srv.URL)
	cfg.StorageDir = t.TempDir()
	ctx := context.Background()

	rec := notify.NewRecorder()
	c, err := app.BuildClient(ctx, cfg, app.WithNotifier(rec), app.WithLogger(zap.NewNop()))
	require.NoError(t, err)
	defer c.Close()

	require.NoError(t, c.Start(ctx))
	assert.False(t, c.Session.IsAuthenticated())

	_, err = c.Session.Login(ctx, session.Credentials{Email: "budi@hrm.local", Password: "password123"})
	require.NoError(t, err)

	_, err = c.Attendance.FetchTodayStatus(ctx)
	require.NoError(t, err)
	assert.Equal(t, attendance.StateNotCheckedIn, c.Attendance.View().State)
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))

	// a fresh process on the same storage is authenticated without a request
	c2, err := app.BuildClient(ctx, cfg, app.WithLogger(zap.NewNop()))
	require.NoError(t, err)
	defer c2.Close()

	require.NoError(t, c2.Start(ctx))
	assert.True(t, c2.Session.IsAuthenticated())
	role, ok := c2.Session.UserRole()
	assert.True(t, ok)
	assert.Equal(t, rbac.RoleEmployee, role)
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
}

func TestBuildClient_UnknownDriver(t *testing.T) {
	cfg := testConfig("http://localhost")
	cfg.StorageDriver = "sqlite"

	_, err := app.BuildClient(context.Background(), cfg)
	assert.Error(t, err)
}
