package events

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	natsserver "github.com/nats-io/nats-server/v2/server"
	"github.com/nats-io/nats.go"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appErrors "github.com/johnquangdev/meeting-coach/errors"
	"github.com/johnquangdev/meeting-coach/internal/domain/entities"
	"github.com/johnquangdev/meeting-coach/pkg/config"
)

func startTestNATS(t *testing.T) string {
	t.Helper()
	opts := &natsserver.Options{Host: "127.0.0.1", Port: -1}
	srv, err := natsserver.NewServer(opts)
	require.NoError(t, err, "starting embedded NATS")
	srv.Start()
	t.Cleanup(srv.Shutdown)
	if !srv.ReadyForConnections(5 * time.Second) {
		t.Fatal("embedded NATS not ready")
	}
	return srv.ClientURL()
}

func testEvent() *entities.CoachingEvent {
	return &entities.CoachingEvent{
		Type:      entities.EventNudgeEmitted,
		MeetingID: "m1",
		SessionID: "session_m1",
		UserID:    "user_abcd1234",
		Timestamp: time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC),
		Payload:   map[string]any{"message": "Speak up"},
	}
}

func TestTopic(t *testing.T) {
	assert.Equal(t, "meeting_coach.session.started", Topic("meeting_coach", entities.EventSessionStarted))
	assert.Equal(t, "summary.compiled", Topic("", entities.EventSummaryCompiled))
}

func TestNoopPublisher(t *testing.T) {
	pub := &NoopPublisher{}
	assert.NoError(t, pub.Publish(context.Background(), testEvent()))
	assert.NoError(t, pub.Close())
}

func TestPublishersImplementPublisher(t *testing.T) {
	var _ Publisher = (*NoopPublisher)(nil)
	var _ Publisher = (*NATSPublisher)(nil)
	var _ Publisher = (*RedisPublisher)(nil)
}

func TestNATSPublisher_Publish(t *testing.T) {
	url := startTestNATS(t)

	pub, err := NewNATSPublisher(url, "meeting_coach")
	require.NoError(t, err)
	defer pub.Close()

	nc, err := nats.Connect(url)
	require.NoError(t, err)
	defer nc.Close()

	ch := make(chan *nats.Msg, 1)
	sub, err := nc.ChanSubscribe("meeting_coach.>", ch)
	require.NoError(t, err)
	defer sub.Unsubscribe() //nolint:errcheck
	require.NoError(t, nc.Flush())

	require.NoError(t, pub.Publish(context.Background(), testEvent()))
	require.NoError(t, pub.conn.Flush())

	select {
	case msg := <-ch:
		assert.Equal(t, "meeting_coach.nudge.emitted", msg.Subject)
		var got entities.CoachingEvent
		require.NoError(t, json.Unmarshal(msg.Data, &got))
		assert.Equal(t, "m1", got.MeetingID)
		assert.Equal(t, entities.EventNudgeEmitted, got.Type)
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for published message")
	}
}

func TestNATSPublisher_ConnectFailure(t *testing.T) {
	_, err := NewNATSPublisher("nats://127.0.0.1:1", "meeting_coach")
	assert.Error(t, err)
}

func TestRedisPublisher_UnreachableServer(t *testing.T) {
	client := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		MaxRetries:  -1,
		DialTimeout: 200 * time.Millisecond,
	})
	defer client.Close()

	pub := NewRedisPublisher(client, "meeting_coach")
	err := pub.Publish(context.Background(), testEvent())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "meeting_coach.nudge.emitted")

	var appErr appErrors.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, appErrors.ErrorCode_INTEGRATION_EVENTS_FAILED, appErr.Code)
	assert.Equal(t, "meeting_coach.nudge.emitted", appErr.Details["topic"])
}

func TestNew(t *testing.T) {
	pub, err := New(config.EventsConfig{Backend: "none"}, nil)
	require.NoError(t, err)
	assert.IsType(t, &NoopPublisher{}, pub)

	_, err = New(config.EventsConfig{Backend: "redis"}, nil)
	assert.Error(t, err)

	client := redis.NewClient(&redis.Options{Addr: "127.0.0.1:1"})
	defer client.Close()
	pub, err = New(config.EventsConfig{Backend: "redis", ChannelPrefix: "mc"}, client)
	require.NoError(t, err)
	assert.IsType(t, &RedisPublisher{}, pub)

	_, err = New(config.EventsConfig{Backend: "kafka"}, nil)
	assert.Error(t, err)
}
