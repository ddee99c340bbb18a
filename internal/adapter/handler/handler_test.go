package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	appErrors "github.com/johnquangdev/meeting-coach/errors"
	"github.com/johnquangdev/meeting-coach/internal/adapter/repository"
	"github.com/johnquangdev/meeting-coach/internal/domain/entities"
	"github.com/johnquangdev/meeting-coach/internal/domain/repositories"
	"github.com/johnquangdev/meeting-coach/internal/infrastructure/cache"
	"github.com/johnquangdev/meeting-coach/internal/infrastructure/external/gemini"
	"github.com/johnquangdev/meeting-coach/internal/infrastructure/http/wsconn"
	"github.com/johnquangdev/meeting-coach/internal/infrastructure/metrics"
	"github.com/johnquangdev/meeting-coach/internal/usecase/bridge"
	historyUsecase "github.com/johnquangdev/meeting-coach/internal/usecase/history"
	"github.com/johnquangdev/meeting-coach/internal/usecase/session"
	"github.com/johnquangdev/meeting-coach/pkg/validator"
)

type testServer struct {
	srv      *httptest.Server
	repo     repositories.MeetingRepository
	bridge   *bridge.BridgeService
	registry *prometheus.Registry
}

func newTestServer(t *testing.T, allowedOrigins []string) *testServer {
	t.Helper()
	logger := zap.NewNop()

	store := cache.NewMemoryStore(time.Minute)
	t.Cleanup(store.Close)
	repo := repository.NewMemoryMeetingRepository(store, 0)

	reg := prometheus.NewRegistry()
	registry := session.NewRegistry(session.Defaults{UserName: "User", DurationMinutes: 30})
	bridgeService := bridge.NewBridgeService(
		registry,
		gemini.NewMockConnector(logger),
		repo,
		nil,
		metrics.NewCoachMetrics(reg),
		validator.New(),
		logger,
		bridge.Options{StateUpdateInterval: time.Second, PersistTimeout: time.Second},
	)

	e := echo.New()
	e.Validator = validator.New()
	NewRouter(
		bridgeService,
		NewMeetingHandler(bridgeService, allowedOrigins, wsconn.Options{WriteTimeout: time.Second}, logger),
		NewHistoryHandler(historyUsecase.NewHistoryService(repo, logger), logger),
		reg,
	).Setup(e)

	srv := httptest.NewServer(e)
	t.Cleanup(srv.Close)
	return &testServer{srv: srv, repo: repo, bridge: bridgeService, registry: reg}
}

func (s *testServer) dial(t *testing.T, path string, header http.Header) (*websocket.Conn, *http.Response, error) {
	t.Helper()
	url := "ws" + strings.TrimPrefix(s.srv.URL, "http") + path
	return websocket.DefaultDialer.Dial(url, header)
}

func readUntil(t *testing.T, conn *websocket.Conn, frameType string) map[string]any {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(3*time.Second)))
	for {
		var frame map[string]any
		require.NoError(t, conn.ReadJSON(&frame))
		if frame["type"] == frameType {
			return frame
		}
	}
}

func TestMeetingStream_EndToEnd(t *testing.T) {
	s := newTestServer(t, nil)

	conn, _, err := s.dial(t, "/ws/meeting/standup", nil)
	require.NoError(t, err)
	defer conn.Close()

	ready := readUntil(t, conn, "connection_ready")
	assert.Equal(t, "standup", ready["meeting_id"])
	assert.Regexp(t, `^session_standup_[a-z0-9]{8}$`, ready["session_id"])

	require.NoError(t, conn.WriteJSON(map[string]any{
		"type":   "config",
		"config": map[string]any{"user_name": "Alex", "meeting_duration_minutes": 15},
	}))
	require.NoError(t, conn.WriteMessage(websocket.BinaryMessage, []byte{0, 0, 1, 0}))
	require.NoError(t, conn.WriteJSON(map[string]any{"type": "end_meeting"}))

	frame := readUntil(t, conn, "summary")
	summary, ok := frame["summary"].(map[string]any)
	require.True(t, ok)
	assert.EqualValues(t, 15, summary["duration_planned_minutes"])

	require.NoError(t, conn.Close())
	require.Eventually(t, func() bool { return s.bridge.ActiveSessions() == 0 }, 3*time.Second, 10*time.Millisecond)
}

func TestMeetingStream_InvalidConfig(t *testing.T) {
	s := newTestServer(t, nil)

	conn, _, err := s.dial(t, "/ws/meeting/m1", nil)
	require.NoError(t, err)
	defer conn.Close()
	readUntil(t, conn, "connection_ready")

	require.NoError(t, conn.WriteJSON(map[string]any{
		"type":   "config",
		"config": map[string]any{"meeting_duration_minutes": -5},
	}))
	frame := readUntil(t, conn, "error")
	assert.Equal(t, "invalid_config", frame["category"])
}

func TestMeetingStream_OriginRejected(t *testing.T) {
	s := newTestServer(t, []string{"https://coach.example.com"})

	header := http.Header{"Origin": []string{"https://evil.example.com"}}
	_, resp, err := s.dial(t, "/ws/meeting/m1", header)
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	header = http.Header{"Origin": []string{"https://coach.example.com"}}
	conn, _, err := s.dial(t, "/ws/meeting/m1", header)
	require.NoError(t, err)
	conn.Close()
}

func TestHealthCheck(t *testing.T) {
	s := newTestServer(t, nil)

	resp, err := http.Get(s.srv.URL + "/health")
	require.NoError(t, err)
	defer resp.Body.Close()

	var body map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "healthy", body["status"])
	assert.EqualValues(t, 0, body["active_sessions"])
}

func TestMetricsEndpoint(t *testing.T) {
	s := newTestServer(t, nil)

	resp, err := http.Get(s.srv.URL + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestListMeetings(t *testing.T) {
	s := newTestServer(t, nil)
	ctx := context.Background()

	for _, id := range []string{"m1", "m2", "m3"} {
		state := entities.NewMeetingState(id, "Alex", 30, nil, time.Now())
		require.NoError(t, s.repo.Save(ctx, id, state))
		require.NoError(t, s.repo.SaveSummary(ctx, id, &entities.MeetingSummary{DurationPlannedMinutes: 30}, "user_1"))
		time.Sleep(5 * time.Millisecond)
	}

	resp, err := http.Get(s.srv.URL + "/v1/users/user_1/meetings?limit=2")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body struct {
		Code int `json:"code"`
		Data struct {
			UserID   string `json:"user_id"`
			Count    int    `json:"count"`
			Meetings []struct {
				MeetingID string `json:"meeting_id"`
				Status    string `json:"status"`
			} `json:"meetings"`
		} `json:"data"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, 200, body.Code)
	assert.Equal(t, "user_1", body.Data.UserID)
	require.Equal(t, 2, body.Data.Count)
	assert.Equal(t, "m3", body.Data.Meetings[0].MeetingID)
	assert.Equal(t, "completed", body.Data.Meetings[0].Status)
}

func TestListMeetings_InvalidLimit(t *testing.T) {
	s := newTestServer(t, nil)

	resp, err := http.Get(s.srv.URL + "/v1/users/user_1/meetings?limit=1000")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp2, err := http.Get(s.srv.URL + "/v1/users/user_1/meetings?limit=abc")
	require.NoError(t, err)
	defer resp2.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp2.StatusCode)
}

func TestMeetingStream_RejectsInvalidMeetingID(t *testing.T) {
	s := newTestServer(t, nil)

	_, resp, err := s.dial(t, "/ws/meeting/bad.id", nil)
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestMeetingStream_GeneratesMeetingID(t *testing.T) {
	s := newTestServer(t, nil)

	for _, path := range []string{"/ws/meeting", "/ws/meeting/"} {
		conn, _, err := s.dial(t, path, nil)
		require.NoError(t, err, path)

		ready := readUntil(t, conn, "connection_ready")
		id, _ := ready["meeting_id"].(string)
		assert.Regexp(t, `^[a-z0-9]{12}$`, id, path)
		require.NoError(t, conn.Close())
	}
}

type failingRepo struct {
	repositories.MeetingRepository
	err error
}

func (r failingRepo) ListHistory(context.Context, string, int) ([]*entities.MeetingHistoryEntry, error) {
	return nil, r.err
}

func TestListMeetings_StoreFailure(t *testing.T) {
	e := echo.New()
	e.Validator = validator.New()
	repo := failingRepo{err: errors.New("connection reset by peer")}
	NewRouter(nil, nil, NewHistoryHandler(historyUsecase.NewHistoryService(repo, zap.NewNop()), zap.NewNop()), nil).Setup(e)

	req := httptest.NewRequest(http.MethodGet, "/v1/users/user_1/meetings", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.EqualValues(t, appErrors.ErrorCode_INTEGRATION_STORAGE_FAILED, body["code"])
	assert.Equal(t, "Storage operation failed: list_history", body["message"])
}
