package tokenstore

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

const redisTimeout = 1 * time.Second

// RedisStore keeps refresh tokens as Redis hashes keyed by user id.
type RedisStore struct {
	db *redis.Client
}

// NewRedisStore creates a Store backed by the given client.
func NewRedisStore(db *redis.Client) *RedisStore {
	return &RedisStore{db: db}
}

// NewRedisClient parses url and returns a connected client.
func NewRedisClient(ctx context.Context, url string) (*redis.Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	client := redis.NewClient(opts)

	pingCtx, cancel := context.WithTimeout(ctx, redisTimeout)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return client, nil
}

func refreshKey(userID int64) string {
	return fmt.Sprintf("refreshToken:%d", userID)
}

// Save stores token for userID and sets its expiry in one transaction.
func (s *RedisStore) Save(ctx context.Context, userID int64, token string, ttl time.Duration) error {
	if ttl <= 0 {
		return fmt.Errorf("refresh token ttl must be positive")
	}
	ctx, cancel := context.WithTimeout(ctx, redisTimeout)
	defer cancel()

	key := refreshKey(userID)
	data := map[string]interface{}{
		"userId":       userID,
		"refreshToken": token,
	}

	pipe := s.db.TxPipeline()
	pipe.HSet(ctx, key, data)
	pipe.Expire(ctx, key, ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("save refresh token: %w", err)
	}
	return nil
}

// Get returns the stored token for userID.
func (s *RedisStore) Get(ctx context.Context, userID int64) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, redisTimeout)
	defer cancel()

	data, err := s.db.HGetAll(ctx, refreshKey(userID)).Result()
	if err != nil {
		return "", fmt.Errorf("get refresh token: %w", err)
	}
	token, ok := data["refreshToken"]
	if !ok || token == "" {
		return "", ErrNotFound
	}
	if stored, err := strconv.ParseInt(data["userId"], 10, 64); err != nil || stored != userID {
		return "", ErrNotFound
	}
	return token, nil
}

// Delete removes the stored token for userID. Missing keys are not an error.
func (s *RedisStore) Delete(ctx context.Context, userID int64) error {
	ctx, cancel := context.WithTimeout(ctx, redisTimeout)
	defer cancel()

	if err := s.db.Del(ctx, refreshKey(userID)).Err(); err != nil {
		return fmt.Errorf("delete refresh token: %w", err)
	}
	return nil
}
