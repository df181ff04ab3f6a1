package websocket

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/reviewboost/reviewboost-backend/internal/app/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func waitFor(t *testing.T, condition func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if condition() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("condition not reached in time")
}

func newFeedClient(hub *Hub, userID uint) *Client {
	return &Client{
		Hub:    hub,
		UserID: userID,
		Send:   make(chan []byte, 4),
	}
}

func TestHub_RegisterUnregister(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	client := newFeedClient(hub, 1)
	hub.Register(client)
	waitFor(t, func() bool { return hub.ConnectedAdmins() == 1 })

	hub.Unregister(client)
	waitFor(t, func() bool { return hub.ConnectedAdmins() == 0 })

	// the dropped session's channel is closed so its WritePump exits
	_, open := <-client.Send
	assert.False(t, open)
}

// An admin session can be unregistered twice: once by the slow-consumer drop
// in the broadcast loop and once by its own ReadPump on exit. The second
// unregister must be a no-op, not a double close that panics the hub.
func TestHub_UnregisterTwiceKeepsSiblingSessions(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	first := newFeedClient(hub, 1)
	second := newFeedClient(hub, 1)
	hub.Register(first)
	hub.Register(second)
	waitFor(t, func() bool { return hub.sessionCount(1) == 2 })

	hub.Unregister(first)
	hub.Unregister(first)
	waitFor(t, func() bool { return hub.sessionCount(1) == 1 })

	// the hub goroutine must still be alive and serving the sibling session
	hub.BroadcastActivity(&model.ActivityLog{
		ActingUserID: 7,
		Action:       model.ActionBusinessArchived,
	})

	select {
	case data := <-second.Send:
		var event FeedEvent
		require.NoError(t, json.Unmarshal(data, &event))
		assert.Equal(t, "activity", event.Type)
		require.NotNil(t, event.Activity)
		assert.Equal(t, model.ActionBusinessArchived, event.Activity.Action)
	case <-time.After(2 * time.Second):
		t.Fatal("surviving session received no event")
	}

	_, open := <-first.Send
	assert.False(t, open)
}

func TestHub_BroadcastFansOutToAllAdmins(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	one := newFeedClient(hub, 1)
	two := newFeedClient(hub, 2)
	hub.Register(one)
	hub.Register(two)
	waitFor(t, func() bool { return hub.ConnectedAdmins() == 2 })

	hub.BroadcastActivity(&model.ActivityLog{Action: model.ActionBusinessRestored})

	for _, client := range []*Client{one, two} {
		select {
		case data := <-client.Send:
			var event FeedEvent
			require.NoError(t, json.Unmarshal(data, &event))
			assert.Equal(t, model.ActionBusinessRestored, event.Activity.Action)
		case <-time.After(2 * time.Second):
			t.Fatalf("client %d received no event", client.UserID)
		}
	}
}

func TestHub_SlowConsumerIsDropped(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	slow := &Client{Hub: hub, UserID: 1, Send: make(chan []byte)} // unbuffered, never read
	hub.Register(slow)
	waitFor(t, func() bool { return hub.ConnectedAdmins() == 1 })

	hub.BroadcastActivity(&model.ActivityLog{Action: model.ActionBusinessParked})
	waitFor(t, func() bool { return hub.ConnectedAdmins() == 0 })

	// ReadPump's unregister after the drop must not kill the hub
	hub.Unregister(slow)

	late := newFeedClient(hub, 2)
	hub.Register(late)
	waitFor(t, func() bool { return hub.ConnectedAdmins() == 1 })
}
