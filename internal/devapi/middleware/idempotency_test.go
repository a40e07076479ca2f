package middleware_test

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"go-hrm/internal/devapi/middleware"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"
)

func idempotentRouter(t *testing.T, calls *int) (*gin.Engine, redismock.ClientMock) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	rdb, mock := redismock.NewClientMock()
	r := gin.New()
	r.POST("/checkin",
		func(c *gin.Context) { c.Set(middleware.ContextUserID, "u-1"); c.Next() },
		middleware.Idempotency(rdb),
		func(c *gin.Context) {
			*calls++
			c.JSON(http.StatusCreated, gin.H{"n": *calls})
		},
	)
	return r, mock
}

func post(r *gin.Engine, key string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/checkin", nil)
	if key != "" {
		req.Header.Set(middleware.HeaderIdempotencyKey, key)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestIdempotency(t *testing.T) {
	cacheKey := "idemp:/checkin:u-1:key-1"
	lockKey := cacheKey + ":lock"

	t.Run("First Request Stores Response", func(t *testing.T) {
		calls := 0
		r, mock := idempotentRouter(t, &calls)

		mock.ExpectGet(cacheKey).RedisNil()
		mock.ExpectSetNX(lockKey, "locked", 30*time.Second).SetVal(true)
		mock.ExpectSet(cacheKey, []byte(`{"status":201,"body":{"n":1}}`), 24*time.Hour).SetVal("OK")
		mock.ExpectDel(lockKey).SetVal(1)

		w := post(r, "key-1")
		assert.Equal(t, http.StatusCreated, w.Code)
		assert.Equal(t, 1, calls)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Replay Skips Handler", func(t *testing.T) {
		calls := 0
		r, mock := idempotentRouter(t, &calls)

		mock.ExpectGet(cacheKey).SetVal(`{"status":201,"body":{"n":1}}`)

		w := post(r, "key-1")
		assert.Equal(t, http.StatusCreated, w.Code)
		assert.Equal(t, "true", w.Header().Get(middleware.HeaderReplayed))
		assert.JSONEq(t, `{"n":1}`, w.Body.String())
		assert.Equal(t, 0, calls)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Concurrent Duplicate Conflicts", func(t *testing.T) {
		calls := 0
		r, mock := idempotentRouter(t, &calls)

		mock.ExpectGet(cacheKey).RedisNil()
		mock.ExpectSetNX(lockKey, "locked", 30*time.Second).SetVal(false)

		w := post(r, "key-1")
		assert.Equal(t, http.StatusConflict, w.Code)
		assert.Equal(t, 0, calls)
	})

	t.Run("Redis Down Passes Through", func(t *testing.T) {
		calls := 0
		r, mock := idempotentRouter(t, &calls)

		mock.ExpectGet(cacheKey).SetErr(errors.New("connection refused"))

		w := post(r, "key-1")
		assert.Equal(t, http.StatusCreated, w.Code)
		assert.Equal(t, 1, calls)
	})

	t.Run("No Key", func(t *testing.T) {
		calls := 0
		r, mock := idempotentRouter(t, &calls)

		w := post(r, "")
		assert.Equal(t, http.StatusCreated, w.Code)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
