package events

import (
	"context"

	"github.com/johnquangdev/meeting-coach/internal/domain/entities"
)

// NoopPublisher is a Publisher that does nothing (used when no event backend is configured).
type NoopPublisher struct{}

func (n *NoopPublisher) Publish(ctx context.Context, event *entities.CoachingEvent) error {
	return nil
}

func (n *NoopPublisher) Close() error {
	return nil
}
