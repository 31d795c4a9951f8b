package realtime

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type captureBridge struct {
	events []*Event
}

func (b *captureBridge) Publish(_ context.Context, event *Event) error {
	b.events = append(b.events, event)
	return nil
}

func newTestClient(hub *Hub, key string) *Client {
	return NewClient(hub, nil, key, "Test User", "127.0.0.1:0")
}

func TestHubRoomMembership(t *testing.T) {
	hub := NewHub()
	alice := newTestClient(hub, "student:1")
	bob := newTestClient(hub, "student:2")
	hub.addClient(alice)
	hub.addClient(bob)

	room := RoomPrefixSession + "10"
	hub.JoinRoom(alice, room)
	hub.JoinRoom(bob, room)
	assert.Equal(t, 2, hub.RoomSize(room))

	hub.LeaveRoom(alice, room)
	assert.Equal(t, 1, hub.RoomSize(room))

	// Removing the last member drops the room entirely
	hub.LeaveRoom(bob, room)
	assert.Equal(t, 0, hub.RoomSize(room))
}

func TestHubBroadcastReachesRoomMembers(t *testing.T) {
	hub := NewHub()
	alice := newTestClient(hub, "student:1")
	bob := newTestClient(hub, "student:2")
	outsider := newTestClient(hub, "student:3")
	hub.addClient(alice)
	hub.addClient(bob)
	hub.addClient(outsider)

	room := RoomPrefixGroup + "5"
	hub.JoinRoom(alice, room)
	hub.JoinRoom(bob, room)

	hub.Broadcast(&Event{
		Type:      EventMessage,
		Room:      room,
		SenderKey: "student:1",
		Data:      json.RawMessage(`{"body":"hello"}`),
	})

	for _, member := range []*Client{alice, bob} {
		select {
		case payload := <-member.send:
			var event Event
			require.NoError(t, json.Unmarshal(payload, &event))
			assert.Equal(t, EventMessage, event.Type)
			assert.Equal(t, room, event.Room)
			assert.Equal(t, "student:1", event.SenderKey)
			assert.False(t, event.SentAt.IsZero())
		default:
			t.Fatalf("expected event for %s", member.PrincipalKey)
		}
	}

	select {
	case <-outsider.send:
		t.Fatal("outsider received an event for a room it never joined")
	default:
	}
}

func TestHubBroadcastStampsOrigin(t *testing.T) {
	hub := NewHub()
	bridge := &captureBridge{}
	hub.SetBridge(bridge)

	hub.Broadcast(&Event{Type: EventTyping, Room: RoomPrefixSession + "1"})

	require.Len(t, bridge.events, 1)
	assert.Equal(t, hub.instanceID, bridge.events[0].Origin)
}

func TestHubRemoveClientLeavesRooms(t *testing.T) {
	hub := NewHub()
	alice := newTestClient(hub, "student:1")
	hub.addClient(alice)

	room := RoomPrefixSession + "7"
	hub.JoinRoom(alice, room)
	require.Equal(t, 1, hub.RoomSize(room))

	hub.removeClient(alice)
	assert.Equal(t, 0, hub.RoomSize(room))

	// send channel is closed so the write pump terminates
	_, open := <-alice.send
	assert.False(t, open)
}

func TestHubRunStopsOnContextCancel(t *testing.T) {
	hub := NewHub()
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan struct{})
	go func() {
		hub.Run(ctx)
		close(done)
	}()

	alice := newTestClient(hub, "student:1")
	hub.register <- alice

	cancel()
	<-done

	_, open := <-alice.send
	assert.False(t, open)
}
