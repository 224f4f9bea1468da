// internal/cache/redis.go
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/pongarena/matchengine/internal/models"
)

// Rdb is the global Redis client. Connect it once at application startup.
var Rdb *redis.Client

// DefaultQueueName is the Redis list the tournament service consumes
// match result events from.
var DefaultQueueName = "game.result"

// ConnectRedis initializes the global Redis client with environment variables:
//   - REDIS_ADDR (default "localhost:6379")
//   - REDIS_DB (optional, default 0)
func ConnectRedis() error {
	addr := getEnv("REDIS_ADDR", "localhost:6379")
	dbIdx := getEnvInt("REDIS_DB", 0)

	Rdb = redis.NewClient(&redis.Options{
		Addr: addr,
		DB:   dbIdx,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := Rdb.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("failed to connect to Redis at %s: %w", addr, err)
	}
	return nil
}

// Bus pushes result events onto a Redis list queue.
type Bus struct {
	Client *redis.Client
	Queue  string
}

// NewBus wraps client with the queue named by GAME_EVENTS_QUEUE.
func NewBus(client *redis.Client) *Bus {
	return &Bus{
		Client: client,
		Queue:  getEnv("GAME_EVENTS_QUEUE", DefaultQueueName),
	}
}

// PublishMatchResult serializes the event to JSON, then pushes it onto the
// queue. Consumers pop with BRPOP, so LPush keeps delivery ordered.
func (b *Bus) PublishMatchResult(ctx context.Context, ev models.MatchResultEvent) error {
	data, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("failed to marshal match result event: %w", err)
	}
	if err := b.Client.LPush(ctx, b.Queue, data).Err(); err != nil {
		return fmt.Errorf("failed to LPush to Redis list '%s': %w", b.Queue, err)
	}
	return nil
}

// getEnv is a helper to read an environment variable or return a default value.
func getEnv(key, def string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return def
}

// getEnvInt is a helper to parse an environment variable as integer, else a default value.
func getEnvInt(key string, def int) int {
	s := os.Getenv(key)
	if s == "" {
		return def
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return v
}
