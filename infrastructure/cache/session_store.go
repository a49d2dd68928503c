package cache

import (
	"context"
	"fmt"
	"time"

	"lustroom-portal/domain/repository"
	"lustroom-portal/infrastructure/logger"

	"github.com/redis/go-redis/v9"
)

const sessionKeyPrefix = "lustroom:session:"

// RedisSessionStore keeps each session as a Redis hash with a TTL.
type RedisSessionStore struct {
	client *redis.Client
	prefix string
}

func NewRedisSessionStore(client *redis.Client) repository.ISessionStore {
	return &RedisSessionStore{client: client, prefix: sessionKeyPrefix}
}

func (s *RedisSessionStore) key(sessionID string) string {
	return s.prefix + sessionID
}

func (s *RedisSessionStore) Load(ctx context.Context, sessionID string) (map[string]string, error) {
	values, err := s.client.HGetAll(ctx, s.key(sessionID)).Result()
	if err != nil {
		logger.GetLogger().WithField("error", err).Error("Error while loading session")
		return nil, fmt.Errorf("load session: %w", err)
	}
	return values, nil
}

func (s *RedisSessionStore) Save(ctx context.Context, sessionID string, values map[string]string, ttl time.Duration) error {
	if len(values) == 0 {
		return nil
	}
	fields := make(map[string]interface{}, len(values))
	for k, v := range values {
		fields[k] = v
	}
	key := s.key(sessionID)
	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HSet(ctx, key, fields)
		if ttl > 0 {
			pipe.Expire(ctx, key, ttl)
		}
		return nil
	})
	if err != nil {
		logger.GetLogger().WithField("error", err).Error("Error while saving session")
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

func (s *RedisSessionStore) Clear(ctx context.Context, sessionID string) error {
	if err := s.client.Del(ctx, s.key(sessionID)).Err(); err != nil {
		logger.GetLogger().WithField("error", err).Error("Error while clearing session")
		return fmt.Errorf("clear session: %w", err)
	}
	return nil
}
