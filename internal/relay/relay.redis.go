// FilePath: internal/relay/relay.redis.go
package relay

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/roadvision/store/internal/config"
	"github.com/roadvision/store/internal/models"
	nuts "github.com/vaudience/go-nuts"
)

const publishTimeout = 2 * time.Second

// redisPublisher is the subset of *redis.Client the relay needs
type redisPublisher interface {
	Publish(ctx context.Context, channel string, message interface{}) *redis.IntCmd
	Close() error
}

// RedisRelay republishes created records on a Redis pub/sub channel so that
// processes outside this one can follow new data.
type RedisRelay struct {
	client  redisPublisher
	channel string
}

// NewRedisRelay connects to Redis and verifies the connection
func NewRedisRelay(cfg config.RedisConfig) (*RedisRelay, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("error connecting to Redis: %w", err)
	}

	nuts.L.Infof("[Redis] Relaying created records to channel %s on %s:%d", cfg.Channel, cfg.Host, cfg.Port)
	return newRedisRelay(client, cfg.Channel), nil
}

func newRedisRelay(client redisPublisher, channel string) *RedisRelay {
	return &RedisRelay{client: client, channel: channel}
}

// Publish sends record to the relay channel. Failures are logged only.
func (r *RedisRelay) Publish(ctx context.Context, record *models.ProcessedAgentDataInDB) {
	payload, err := json.Marshal(record)
	if err != nil {
		nuts.L.Errorf("[Redis] Failed to marshal record %d: %v", record.ID, err)
		return
	}

	// The request may finish before Redis answers; don't inherit its cancellation.
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), publishTimeout)
	defer cancel()

	if err := r.client.Publish(ctx, r.channel, payload).Err(); err != nil {
		nuts.L.Warnf("[Redis] Failed to relay record %d: %v", record.ID, err)
	}
}

// Close releases the Redis connection pool
func (r *RedisRelay) Close() error {
	return r.client.Close()
}
