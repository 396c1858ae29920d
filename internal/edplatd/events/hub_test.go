package events

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/khaledhosny129/Educational-platform/api/types/v1alpha1"
)

func dial(t *testing.T, srv *httptest.Server) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	ws, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	return ws
}

func TestHubBroadcast(t *testing.T) {
	hub := NewHub(zerolog.Nop())
	srv := httptest.NewServer(hub)
	defer srv.Close()

	first := dial(t, srv)
	defer first.Close()
	second := dial(t, srv)
	defer second.Close()

	require.Eventually(t, func() bool { return hub.Subscribers() == 2 }, time.Second, 5*time.Millisecond)

	activationID := uuid.New()
	expiresAt := time.Date(2024, 3, 8, 12, 0, 0, 0, time.UTC)
	require.NoError(t, hub.Publish(context.Background(), Event{
		Type:         ActivationCreated,
		ActivationID: activationID,
		UserID:       "u1",
		VideoPath:    "g1/l1/u1/1",
		ExpiresAt:    expiresAt,
		Timestamp:    expiresAt.Add(-7 * 24 * time.Hour),
	}))

	for _, ws := range []*websocket.Conn{first, second} {
		_ = ws.SetReadDeadline(time.Now().Add(time.Second))
		_, msg, err := ws.ReadMessage()
		require.NoError(t, err)

		var got v1alpha1.Event
		require.NoError(t, json.Unmarshal(msg, &got))
		assert.Equal(t, v1alpha1.EventActivationCreated, got.Type)
		require.NotNil(t, got.ActivationID)
		assert.Equal(t, activationID, *got.ActivationID)
		assert.Nil(t, got.CodeID)
		assert.Equal(t, "u1", got.UserID)
	}
}

func TestHubDisconnect(t *testing.T) {
	hub := NewHub(zerolog.Nop())
	srv := httptest.NewServer(hub)
	defer srv.Close()

	ws := dial(t, srv)
	require.Eventually(t, func() bool { return hub.Subscribers() == 1 }, time.Second, 5*time.Millisecond)

	ws.Close()
	assert.Eventually(t, func() bool { return hub.Subscribers() == 0 }, time.Second, 5*time.Millisecond)
}

func TestHubRunClosesSubscribers(t *testing.T) {
	hub := NewHub(zerolog.Nop())
	srv := httptest.NewServer(hub)
	defer srv.Close()

	ws := dial(t, srv)
	defer ws.Close()
	require.Eventually(t, func() bool { return hub.Subscribers() == 1 }, time.Second, 5*time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- hub.Run(ctx) }()
	cancel()
	require.NoError(t, <-done)

	assert.Equal(t, 0, hub.Subscribers())

	_ = ws.SetReadDeadline(time.Now().Add(time.Second))
	_, _, err := ws.ReadMessage()
	assert.Error(t, err)
}

func TestNopPublisher(t *testing.T) {
	assert.NoError(t, NopPublisher{}.Publish(context.Background(), Event{Type: CodeGenerated}))
}
