package events

import (
	"context"
	"fmt"
	"strings"

	"github.com/redis/go-redis/v9"

	"github.com/johnquangdev/meeting-coach/internal/domain/entities"
	"github.com/johnquangdev/meeting-coach/pkg/config"
)

// Publisher publishes coaching events to a message bus
type Publisher interface {
	Publish(ctx context.Context, event *entities.CoachingEvent) error
	Close() error
}

// Topic returns the channel or subject an event type is published on
func Topic(prefix string, eventType entities.CoachingEventType) string {
	if prefix == "" {
		return string(eventType)
	}
	return prefix + "." + string(eventType)
}

// New creates the publisher selected by cfg.Backend. The redis client is only used by the redis backend.
func New(cfg config.EventsConfig, rdb *redis.Client) (Publisher, error) {
	switch strings.ToLower(cfg.Backend) {
	case "", "none":
		return &NoopPublisher{}, nil
	case "redis":
		if rdb == nil {
			return nil, fmt.Errorf("redis event backend requires a redis client")
		}
		return NewRedisPublisher(rdb, cfg.ChannelPrefix), nil
	case "nats":
		return NewNATSPublisher(cfg.NATSURL, cfg.ChannelPrefix)
	}
	return nil, fmt.Errorf("unknown event backend %q", cfg.Backend)
}
