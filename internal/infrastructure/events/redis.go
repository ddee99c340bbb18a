package events

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"

	appErrors "github.com/johnquangdev/meeting-coach/errors"
	"github.com/johnquangdev/meeting-coach/internal/domain/entities"
)

// RedisPublisher publishes events on Redis pub/sub channels named <prefix>.<event type>
type RedisPublisher struct {
	client *redis.Client
	prefix string
}

// NewRedisPublisher creates a publisher on an existing client. Close does not close the client.
func NewRedisPublisher(client *redis.Client, prefix string) *RedisPublisher {
	return &RedisPublisher{client: client, prefix: prefix}
}

func (p *RedisPublisher) Publish(ctx context.Context, event *entities.CoachingEvent) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	channel := Topic(p.prefix, event.Type)
	if err := p.client.Publish(ctx, channel, data).Err(); err != nil {
		return appErrors.ErrEventPublishFailed(channel, fmt.Errorf("failed to publish to %s: %w", channel, err))
	}
	return nil
}

func (p *RedisPublisher) Close() error {
	return nil
}
