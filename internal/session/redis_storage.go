package session

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// RedisStorage keeps the pair under <prefix>token and <prefix>user, for
// machines where several terminals share one login.
type RedisStorage struct {
	rdb      *redis.Client
	tokenKey string
	userKey  string
}

func NewRedisStorage(rdb *redis.Client, prefix string) *RedisStorage {
	return &RedisStorage{
		rdb:      rdb,
		tokenKey: prefix + "token",
		userKey:  prefix + "user",
	}
}

func (r *RedisStorage) Load(ctx context.Context) (*Session, error) {
	vals, err := r.rdb.MGet(ctx, r.tokenKey, r.userKey).Result()
	if err != nil {
		return nil, fmt.Errorf("session: redis load: %w", err)
	}

	token, tokenOK := stringValue(vals, 0)
	user, userOK := stringValue(vals, 1)
	switch {
	case !tokenOK && !userOK:
		return nil, nil
	case !tokenOK || !userOK:
		return nil, r.Clear(ctx)
	}

	s, err := decodeSession([]byte(token), []byte(user))
	if err != nil {
		_ = r.Clear(ctx)
		return nil, err
	}
	if s == nil {
		return nil, r.Clear(ctx)
	}
	return s, nil
}

func (r *RedisStorage) Save(ctx context.Context, s Session) error {
	token, user, err := encodeSession(s)
	if err != nil {
		return err
	}
	// MSET writes both keys atomically
	if err := r.rdb.MSet(ctx, r.tokenKey, string(token), r.userKey, string(user)).Err(); err != nil {
		return fmt.Errorf("session: redis save: %w", err)
	}
	return nil
}

func (r *RedisStorage) Clear(ctx context.Context) error {
	if err := r.rdb.Del(ctx, r.tokenKey, r.userKey).Err(); err != nil {
		return fmt.Errorf("session: redis clear: %w", err)
	}
	return nil
}

func stringValue(vals []interface{}, i int) (string, bool) {
	if i >= len(vals) || vals[i] == nil {
		return "", false
	}
	s, ok := vals[i].(string)
	return s, ok
}
