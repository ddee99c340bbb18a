package session

import (
	"context"
	"regexp"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/johnquangdev/meeting-coach/internal/domain/entities"
)

func TestRegistry_CreateWithDefaults(t *testing.T) {
	r := NewRegistry(Defaults{UserName: "User", DurationMinutes: 30})

	s, err := r.Create("", "", 0, nil)
	require.NoError(t, err)

	assert.Regexp(t, regexp.MustCompile(`^[a-z0-9]{12}$`), s.MeetingID)
	assert.Regexp(t, regexp.MustCompile(`^user_[0-9a-f]{8}$`), s.UserID)
	assert.Regexp(t, regexp.MustCompile(`^session_`+s.MeetingID+`_[a-z0-9]{8}$`), s.SessionID)
	assert.Equal(t, "User", s.Config.UserName)
	assert.Equal(t, 30, s.Config.DurationMinutes)
	assert.Empty(t, s.Config.AgendaItems)
	assert.True(t, s.IsActive)
	assert.False(t, s.StartTime.IsZero())
}

func TestRegistry_Lifecycle(t *testing.T) {
	r := NewRegistry(Defaults{})

	s, err := r.Create("standup", "Alex", 15, []string{"Blockers"})
	require.NoError(t, err)
	assert.Equal(t, "standup", s.MeetingID)
	assert.Equal(t, 1, r.ActiveCount())

	got, err := r.Get("standup")
	require.NoError(t, err)
	assert.Equal(t, s, got)

	require.NoError(t, r.UpdateConfig(s.SessionID, entities.MeetingConfig{UserName: "Riley", DurationMinutes: 20, AgendaItems: []string{"Demo"}}))
	got, _ = r.Get("standup")
	assert.Equal(t, "Riley", got.Config.UserName)
	assert.Equal(t, []string{"Demo"}, got.Config.AgendaItems)

	ended, err := r.End(s.SessionID)
	require.NoError(t, err)
	assert.False(t, ended.IsActive)
	assert.Equal(t, 0, r.ActiveCount())

	_, err = r.Get("standup")
	assert.NoError(t, err, "ended sessions are kept until removed")

	r.Remove(s.SessionID)
	_, err = r.Get("standup")
	assert.ErrorIs(t, err, entities.ErrSessionNotFound)
}

func TestRegistry_UnknownMeeting(t *testing.T) {
	r := NewRegistry(Defaults{})

	_, err := r.End("nope")
	assert.ErrorIs(t, err, entities.ErrSessionNotFound)
	assert.ErrorIs(t, r.UpdateConfig("nope", entities.MeetingConfig{}), entities.ErrSessionNotFound)
	assert.ErrorIs(t, r.AttachCancel("nope", func() {}), entities.ErrSessionNotFound)
	r.Remove("nope")
}

func TestRegistry_ReturnsCopies(t *testing.T) {
	r := NewRegistry(Defaults{})
	s, err := r.Create("m1", "Alex", 30, []string{"Budget"})
	require.NoError(t, err)

	s.IsActive = false
	s.Config.AgendaItems[0] = "changed"

	got, _ := r.Get("m1")
	assert.True(t, got.IsActive)
	assert.Equal(t, []string{"Budget"}, got.Config.AgendaItems)
}

func TestRegistry_CancelAll(t *testing.T) {
	r := NewRegistry(Defaults{})
	a, _ := r.Create("a", "", 0, nil)
	b, _ := r.Create("b", "", 0, nil)
	_, _ = r.Create("c", "", 0, nil)

	ctxA, cancelA := context.WithCancel(context.Background())
	ctxB, cancelB := context.WithCancel(context.Background())
	require.NoError(t, r.AttachCancel(a.SessionID, cancelA))
	require.NoError(t, r.AttachCancel(b.SessionID, cancelB))

	assert.Equal(t, 2, r.CancelAll())
	assert.Error(t, ctxA.Err())
	assert.Error(t, ctxB.Err())
}

func TestRegistry_ReconnectKeepsNewerSession(t *testing.T) {
	r := NewRegistry(Defaults{})

	first, err := r.Create("m1", "Alex", 30, nil)
	require.NoError(t, err)
	second, err := r.Create("m1", "Alex", 30, nil)
	require.NoError(t, err)
	assert.NotEqual(t, first.SessionID, second.SessionID)
	assert.Equal(t, 2, r.ActiveCount())

	ctx, cancel := context.WithCancel(context.Background())
	require.NoError(t, r.AttachCancel(second.SessionID, cancel))

	_, err = r.End(first.SessionID)
	require.NoError(t, err)
	r.Remove(first.SessionID)

	got, err := r.Get("m1")
	require.NoError(t, err)
	assert.Equal(t, second.SessionID, got.SessionID)
	assert.True(t, got.IsActive)
	assert.Equal(t, 1, r.ActiveCount())

	require.NoError(t, r.UpdateConfig(second.SessionID, entities.MeetingConfig{UserName: "Riley", DurationMinutes: 20}))
	assert.Equal(t, 1, r.CancelAll())
	assert.Error(t, ctx.Err())

	r.Remove(second.SessionID)
	_, err = r.Get("m1")
	assert.ErrorIs(t, err, entities.ErrSessionNotFound)
}

func TestRegistry_ConcurrentCreate(t *testing.T) {
	r := NewRegistry(Defaults{})

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s, err := r.Create("", "", 0, nil)
			if err == nil {
				r.ActiveCount()
				_, _ = r.End(s.SessionID)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 0, r.ActiveCount())
}
