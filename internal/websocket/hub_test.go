package websocket

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/collegelink-api/internal/domain/entity"
)

func TestHubBroadcastNewPost(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	client := &Client{hub: hub, send: make(chan []byte, 4), userID: "user-1"}
	hub.register <- client

	hub.BroadcastNewPost(&entity.Post{ID: "p1", Content: "hello campus"})

	select {
	case message := <-client.send:
		var event Event
		require.NoError(t, json.Unmarshal(message, &event))
		assert.Equal(t, "new_post", event.Type)

		data, ok := event.Data.(map[string]interface{})
		require.True(t, ok)
		assert.Equal(t, "p1", data["id"])
		assert.Equal(t, "hello campus", data["content"])
	case <-time.After(time.Second):
		t.Fatal("no broadcast received")
	}
}

func TestHubUnregisterClosesSendChannel(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	client := &Client{hub: hub, send: make(chan []byte, 4), userID: "user-1"}
	hub.register <- client
	hub.unregister <- client

	select {
	case _, open := <-client.send:
		assert.False(t, open, "send channel is closed on unregister")
	case <-time.After(time.Second):
		t.Fatal("send channel was not closed")
	}
}

func TestHubDropsSlowClients(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	// A full send buffer means the broadcast cannot be delivered and the
	// client must be evicted.
	slow := &Client{hub: hub, send: make(chan []byte, 1), userID: "slow"}
	slow.send <- []byte("stuck")
	hub.register <- slow

	hub.BroadcastNewPost(&entity.Post{ID: "p1"})

	// Registering another client only completes after the hub finishes
	// the broadcast pass, so the slow client's fate is decided by now.
	sync := &Client{hub: hub, send: make(chan []byte, 1), userID: "sync"}
	hub.register <- sync

	assert.Equal(t, []byte("stuck"), <-slow.send, "buffered message survives eviction")
	select {
	case _, open := <-slow.send:
		assert.False(t, open, "slow client's channel is closed on eviction")
	case <-time.After(time.Second):
		t.Fatal("slow client was not dropped")
	}
}
