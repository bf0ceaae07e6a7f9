package utils

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/sirupsen/logrus"

	"github.com/yoonly93/posikiCS/shared/models"
)

var (
	RedisClient *redis.Client
	ctx         = context.Background()
)

// ErrCacheMiss is returned when a key is absent from the cache.
var ErrCacheMiss = errors.New("cache miss")

// InitRedis initializes the Redis client
func InitRedis() error {
	redisHost := os.Getenv("REDIS_HOST")
	if redisHost == "" {
		redisHost = "localhost"
	}

	redisPort := os.Getenv("REDIS_PORT")
	if redisPort == "" {
		redisPort = "6379"
	}

	addr := fmt.Sprintf("%s:%s", redisHost, redisPort)

	RedisClient = redis.NewClient(&redis.Options{
		Addr:         addr,
		Password:     "",
		DB:           0,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
		PoolSize:     10,
		MinIdleConns: 5,
	})

	if _, err := RedisClient.Ping(ctx).Result(); err != nil {
		return fmt.Errorf("failed to connect to Redis at %s: %w", addr, err)
	}

	logrus.Infof("Connected to Redis at %s", addr)
	return nil
}

// CacheSet stores a value in Redis with expiration
func CacheSet(key string, value string, expiration time.Duration) error {
	if RedisClient == nil {
		return fmt.Errorf("Redis client not initialized")
	}
	return RedisClient.Set(ctx, key, value, expiration).Err()
}

// CacheGet retrieves a value from Redis
func CacheGet(key string) (string, error) {
	if RedisClient == nil {
		return "", fmt.Errorf("Redis client not initialized")
	}
	val, err := RedisClient.Get(ctx, key).Result()
	if err == redis.Nil {
		return "", ErrCacheMiss
	}
	return val, err
}

// CacheDelete removes a key from Redis
func CacheDelete(key string) error {
	if RedisClient == nil {
		return fmt.Errorf("Redis client not initialized")
	}
	return RedisClient.Del(ctx, key).Err()
}

// GetRedisClient returns the Redis client instance (for advanced operations)
func GetRedisClient() *redis.Client {
	return RedisClient
}

// GetRedisContext returns the Redis context
func GetRedisContext() context.Context {
	return ctx
}

// CloseRedis closes the Redis connection
func CloseRedis() error {
	if RedisClient != nil {
		return RedisClient.Close()
	}
	return nil
}

// Form index caching

const formIndexCacheTTL = 60 * time.Second

func formIndexCacheKey(formID string) string {
	return "formindex:" + formID
}

// CacheFormIndexEntry caches a form index entry for fast public resolution.
// Cache failures are non-critical and logged, never propagated.
func CacheFormIndexEntry(entry *models.FormIndexEntry) {
	if RedisClient == nil {
		return
	}
	data, err := json.Marshal(entry)
	if err != nil {
		return
	}
	if err := CacheSet(formIndexCacheKey(entry.FormID), string(data), formIndexCacheTTL); err != nil {
		logrus.Warnf("Failed to cache form index entry %s: %v", entry.FormID, err)
	}
}

// GetCachedFormIndexEntry returns a cached form index entry, or ErrCacheMiss.
func GetCachedFormIndexEntry(formID string) (*models.FormIndexEntry, error) {
	data, err := CacheGet(formIndexCacheKey(formID))
	if err != nil {
		return nil, err
	}
	var entry models.FormIndexEntry
	if err := json.Unmarshal([]byte(data), &entry); err != nil {
		return nil, err
	}
	return &entry, nil
}

// InvalidateFormIndexEntry drops the cached entry after an admin form write.
func InvalidateFormIndexEntry(formID string) {
	if RedisClient == nil {
		return
	}
	if err := CacheDelete(formIndexCacheKey(formID)); err != nil {
		logrus.Warnf("Failed to invalidate form index entry %s: %v", formID, err)
	}
}
