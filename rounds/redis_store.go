package rounds

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"arcade/models"

	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"
)

const redisKeyPrefix = "arcade:round:"

// NewRedisClient connects to the redis server at url and verifies the connection
func NewRedisClient(ctx context.Context, url string) (*redis.Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis URL: %w", err)
	}

	rdb := redis.NewClient(opts)
	if err := rdb.Ping(ctx).Err(); err != nil {
		rdb.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	log.WithField("addr", opts.Addr).Info("Connected to Redis")
	return rdb, nil
}

// RedisStore keeps open rounds in redis so they survive restarts and are shared
// across server instances
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisStore creates a redis-backed round store. A zero ttl keeps rounds until taken.
func NewRedisStore(client *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{client: client, ttl: ttl}
}

func redisKey(userID int64) string {
	return fmt.Sprintf("%s%d", redisKeyPrefix, userID)
}

// Put stores the round, overwriting any open round for the same user
func (s *RedisStore) Put(ctx context.Context, round *models.Round) error {
	data, err := json.Marshal(round)
	if err != nil {
		return fmt.Errorf("failed to marshal round: %w", err)
	}

	if err := s.client.Set(ctx, redisKey(round.UserID), data, s.ttl).Err(); err != nil {
		return fmt.Errorf("failed to store round for user %d: %w", round.UserID, err)
	}
	return nil
}

// Take reads and deletes the round with a single GETDEL
func (s *RedisStore) Take(ctx context.Context, userID int64) (*models.Round, error) {
	data, err := s.client.GetDel(ctx, redisKey(userID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to take round for user %d: %w", userID, err)
	}

	var round models.Round
	if err := json.Unmarshal(data, &round); err != nil {
		return nil, fmt.Errorf("failed to unmarshal round for user %d: %w", userID, err)
	}
	return &round, nil
}
