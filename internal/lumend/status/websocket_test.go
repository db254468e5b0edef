package status

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lumen-signage/lumen-player/api/types/v1alpha1"
	"github.com/lumen-signage/lumen-player/internal/lumend/engine"
)

func TestEventStream(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	hub := NewHub(zerolog.Nop())
	go hub.Run(ctx)

	h := NewHandler(testState(), &stubSpans{}, nil, hub, "dev", zerolog.Nop())
	srv := httptest.NewServer(h.Router())
	defer srv.Close()

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + "/api/v1alpha1/events"
	conn, resp, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	defer resp.Body.Close()
	defer conn.Close()

	// Registration races the publish; wait until the hub has the subscriber
	// by publishing until a frame arrives
	event := engine.Event{
		Type:            engine.EventItemShown,
		CanvasID:        "default",
		Item:            "promo",
		ManifestVersion: 4,
		Timestamp:       time.Now(),
	}
	done := make(chan struct{})
	defer close(done)
	go func() {
		ticker := time.NewTicker(10 * time.Millisecond)
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				_ = hub.Publish(context.Background(), event)
			}
		}
	}()

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, message, err := conn.ReadMessage()
	require.NoError(t, err)

	var frame v1alpha1.EventFrame
	require.NoError(t, json.Unmarshal(message, &frame))
	assert.Equal(t, "itemShown", frame.Type)
	assert.Equal(t, "default", frame.CanvasID)
	assert.Equal(t, "promo", frame.Item)
	assert.Equal(t, uint64(4), frame.ManifestVersion)
}

func TestPublish_NeverBlocks(t *testing.T) {
	// No Run loop is draining the hub; fill the buffer and keep publishing
	hub := NewHub(zerolog.Nop())

	for i := 0; i < 200; i++ {
		err := hub.Publish(context.Background(), engine.Event{Type: engine.EventBlackout})
		assert.NoError(t, err)
	}
}
