package sessions

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/dmitrijs2005/sessionkeeper/internal/session"
)

const defaultConnectTimeout = 5 * time.Second

// RedisConfig captures the settings for establishing a Redis connection.
type RedisConfig struct {
	Addr    string
	DB      int
	Timeout time.Duration
}

// Connect initialises a Redis client and validates connectivity with a ping.
// A default timeout is applied when none is provided.
func Connect(ctx context.Context, cfg RedisConfig) (*redis.Client, error) {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultConnectTimeout
	}

	client := redis.NewClient(&redis.Options{
		Addr: cfg.Addr,
		DB:   cfg.DB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	return client, nil
}

// RedisRepository stores records as JSON under "session:<store_id>". When the
// record carries a credential expiry, the key expires with it; a record the
// store can no longer vouch for has no business outliving its token.
type RedisRepository struct {
	client *redis.Client
}

func NewRedisRepository(client *redis.Client) *RedisRepository {
	return &RedisRepository{client: client}
}

func sessionKey(storeID string) string {
	return "session:" + storeID
}

func (r *RedisRepository) Load(ctx context.Context, storeID string) (*session.Record, error) {
	data, err := r.client.Get(ctx, sessionKey(storeID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load session[%s]: %w", storeID, err)
	}

	var rec session.Record
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("failed to decode session[%s]: %w", storeID, err)
	}
	return &rec, nil
}

func (r *RedisRepository) Save(ctx context.Context, storeID string, rec *session.Record) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("failed to encode session[%s]: %w", storeID, err)
	}

	var ttl time.Duration
	if rec.User.Expires > 0 {
		ttl = time.Until(time.UnixMilli(rec.User.Expires))
		if ttl <= 0 {
			// Already expired: clearing is the closest honest write.
			return r.Clear(ctx, storeID)
		}
	}

	if err := r.client.Set(ctx, sessionKey(storeID), data, ttl).Err(); err != nil {
		return fmt.Errorf("failed to save session[%s]: %w", storeID, err)
	}
	return nil
}

func (r *RedisRepository) Clear(ctx context.Context, storeID string) error {
	if err := r.client.Del(ctx, sessionKey(storeID)).Err(); err != nil {
		return fmt.Errorf("failed to clear session[%s]: %w", storeID, err)
	}
	return nil
}
