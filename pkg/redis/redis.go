package redis

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/reviewboost/reviewboost-backend/config"
	"github.com/reviewboost/reviewboost-backend/pkg/logger"
)

var client *redis.Client

const (
	blacklistPrefix = "token:blacklist:"
	scanPrefix      = "funnel:scans:"
)

// Init initializes Redis connection
func Init(cfg *config.RedisConfig) error {
	logger.Info("Initializing Redis connection", map[string]interface{}{
		"host": cfg.Host,
		"port": cfg.Port,
		"db":   cfg.DB,
	})

	client = redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%s", cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		client = nil
		return fmt.Errorf("failed to connect to Redis: %w", err)
	}

	logger.Info("Redis connection established successfully", nil)
	return nil
}

// GetClient returns the Redis client instance (nil when Redis is disabled)
func GetClient() *redis.Client {
	return client
}

// Enabled reports whether a Redis connection is available
func Enabled() bool {
	return client != nil
}

// Close closes the Redis connection
func Close() error {
	if client != nil {
		logger.Info("Closing Redis connection", nil)
		err := client.Close()
		client = nil
		return err
	}
	return nil
}

// BlacklistToken invalidates a token until its natural expiry
func BlacklistToken(ctx context.Context, token string, expiry time.Duration) error {
	if client == nil {
		return nil
	}
	return client.Set(ctx, blacklistPrefix+token, "1", expiry).Err()
}

// IsTokenBlacklisted checks whether a token has been invalidated by logout
func IsTokenBlacklisted(ctx context.Context, token string) bool {
	if client == nil {
		return false
	}
	exists, err := client.Exists(ctx, blacklistPrefix+token).Result()
	if err != nil {
		logger.Warn("Failed to check token blacklist", map[string]interface{}{
			"error": err.Error(),
		})
		return false
	}
	return exists > 0
}

// IncrementScanCount bumps the pending scan counter for a funnel slug.
// Counters are flushed into the database by the scheduler.
func IncrementScanCount(ctx context.Context, slug string) error {
	if client == nil {
		return nil
	}
	return client.Incr(ctx, scanPrefix+slug).Err()
}

// DrainScanCounts atomically reads and resets all pending scan counters,
// returning slug -> count.
func DrainScanCounts(ctx context.Context) (map[string]int64, error) {
	if client == nil {
		return nil, nil
	}

	counts := make(map[string]int64)
	iter := client.Scan(ctx, 0, scanPrefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		key := iter.Val()
		val, err := client.GetDel(ctx, key).Result()
		if err != nil {
			continue
		}
		n, err := strconv.ParseInt(val, 10, 64)
		if err != nil {
			continue
		}
		counts[key[len(scanPrefix):]] = n
	}
	if err := iter.Err(); err != nil {
		return counts, err
	}
	return counts, nil
}
