package realtime

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// roomListAuthorizer admits a principal only into the rooms it was built with
type roomListAuthorizer struct {
	allowed map[string]bool
}

func (a *roomListAuthorizer) CanJoinRoom(_ context.Context, _, room string) error {
	if a.allowed[room] {
		return nil
	}
	return errors.New("not a participant")
}

func TestClientJoinRejectedByAuthorizer(t *testing.T) {
	hub := NewHub()
	room := RoomPrefixSession + "10"

	member := newTestClient(hub, "student:1")
	hub.addClient(member)
	hub.JoinRoom(member, room)
	require.Equal(t, 1, hub.RoomSize(room))

	intruder := newTestClient(hub, "student:99")
	intruder.authorizer = &roomListAuthorizer{}
	hub.addClient(intruder)

	intruder.handleFrame(&inboundFrame{Type: EventJoin, Room: room})
	assert.Equal(t, 1, hub.RoomSize(room))
	assert.False(t, hub.InRoom(intruder, room))
}

func TestClientRelayDroppedForUnjoinedRoom(t *testing.T) {
	hub := NewHub()
	room := RoomPrefixSession + "10"

	member := newTestClient(hub, "student:1")
	hub.addClient(member)
	hub.JoinRoom(member, room)

	// Never joined the room; typing and read receipts must not reach members
	intruder := newTestClient(hub, "student:99")
	intruder.authorizer = &roomListAuthorizer{}
	hub.addClient(intruder)

	intruder.handleFrame(&inboundFrame{Type: EventTyping, Room: room})
	intruder.handleFrame(&inboundFrame{Type: EventReadReceipt, Room: room, Data: json.RawMessage(`{"messageId":1}`)})
	intruder.handleFrame(&inboundFrame{Type: EventLeave, Room: room})

	select {
	case payload := <-member.send:
		var event Event
		require.NoError(t, json.Unmarshal(payload, &event))
		t.Fatalf("member received %s event from a non-participant", event.Type)
	default:
	}
}

func TestClientRelayDeliversAfterJoin(t *testing.T) {
	hub := NewHub()
	room := RoomPrefixGroup + "5"

	member := newTestClient(hub, "student:1")
	hub.addClient(member)
	hub.JoinRoom(member, room)

	peer := newTestClient(hub, "student:2")
	peer.authorizer = &roomListAuthorizer{allowed: map[string]bool{room: true}}
	hub.addClient(peer)

	peer.handleFrame(&inboundFrame{Type: EventJoin, Room: room})
	require.True(t, hub.InRoom(peer, room))

	peer.handleFrame(&inboundFrame{Type: EventTyping, Room: room})

	var types []string
	for len(member.send) > 0 {
		var event Event
		require.NoError(t, json.Unmarshal(<-member.send, &event))
		assert.Equal(t, "student:2", event.SenderKey)
		types = append(types, event.Type)
	}
	assert.Equal(t, []string{EventJoin, EventTyping}, types)
}
