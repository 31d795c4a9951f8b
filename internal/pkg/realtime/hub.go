package realtime

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/crestview/chronicle/internal/pkg/logger"
)

// Event types relayed over websocket connections
const (
	EventJoin        = "join"
	EventLeave       = "leave"
	EventTyping      = "typing"
	EventMessage     = "message"
	EventReadReceipt = "read_receipt"
)

// Room key prefixes. A room is "session:<id>" for direct chats and
// "group:<id>" for group chats.
const (
	RoomPrefixSession = "session:"
	RoomPrefixGroup   = "group:"
)

// Event is the wire format for realtime notifications. Origin identifies the
// publishing instance so the bridge can skip events it already delivered.
type Event struct {
	Type       string          `json:"type"`
	Room       string          `json:"room"`
	SenderKey  string          `json:"senderKey,omitempty"`
	SenderName string          `json:"senderName,omitempty"`
	Data       json.RawMessage `json:"data,omitempty"`
	SentAt     time.Time       `json:"sentAt"`
	Origin     string          `json:"origin,omitempty"`
}

// Bridge fans events out across processes. The redis bridge implements it;
// a nil bridge keeps the hub process-local.
type Bridge interface {
	Publish(ctx context.Context, event *Event) error
}

// Hub keeps track of connected clients and room membership, and routes
// events to room subscribers. All connection I/O stays in the client pumps;
// the hub only ever touches the client's send channel.
type Hub struct {
	mu      sync.RWMutex
	clients map[*Client]bool
	rooms   map[string]map[*Client]bool

	register   chan *Client
	unregister chan *Client

	bridge     Bridge
	instanceID string
}

// NewHub creates a new realtime hub
func NewHub() *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		rooms:      make(map[string]map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		instanceID: uuid.New().String(),
	}
}

// SetBridge attaches a cross-process fan-out bridge. Must be called before Run.
func (h *Hub) SetBridge(b Bridge) {
	h.bridge = b
}

// Run processes client registration until the context is cancelled
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case client := <-h.register:
			h.addClient(client)
		case client := <-h.unregister:
			h.removeClient(client)
		case <-ctx.Done():
			h.closeAll()
			return
		}
	}
}

func (h *Hub) addClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.clients[client] = true
	logger.Debug().Str("principal", client.PrincipalKey).Str("remoteAddr", client.RemoteAddr).Msg("Websocket client connected")
}

func (h *Hub) removeClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.clients[client]; !ok {
		return
	}
	delete(h.clients, client)
	for room := range client.rooms {
		h.leaveRoomLocked(client, room)
	}
	close(client.send)
	logger.Debug().Str("principal", client.PrincipalKey).Msg("Websocket client disconnected")
}

func (h *Hub) closeAll() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for client := range h.clients {
		close(client.send)
		delete(h.clients, client)
	}
	h.rooms = make(map[string]map[*Client]bool)
}

// JoinRoom subscribes a client to a room
func (h *Hub) JoinRoom(client *Client, room string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.rooms[room] == nil {
		h.rooms[room] = make(map[*Client]bool)
	}
	h.rooms[room][client] = true
	client.rooms[room] = true
}

// LeaveRoom unsubscribes a client from a room
func (h *Hub) LeaveRoom(client *Client, room string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.leaveRoomLocked(client, room)
}

func (h *Hub) leaveRoomLocked(client *Client, room string) {
	if members, ok := h.rooms[room]; ok {
		delete(members, client)
		if len(members) == 0 {
			delete(h.rooms, room)
		}
	}
	delete(client.rooms, room)
}

// InRoom reports whether a client is currently subscribed to a room
func (h *Hub) InRoom(client *Client, room string) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return client.rooms[room]
}

// RoomSize returns the number of clients currently subscribed to a room
func (h *Hub) RoomSize(room string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms[room])
}

// Broadcast delivers an event to every client in its room and publishes it
// through the bridge for other instances.
func (h *Hub) Broadcast(event *Event) {
	if event.SentAt.IsZero() {
		event.SentAt = time.Now()
	}
	event.Origin = h.instanceID

	h.deliverLocal(event)

	if h.bridge != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := h.bridge.Publish(ctx, event); err != nil {
			logger.Warn().Err(err).Str("room", event.Room).Msg("Failed to publish event to bridge")
		}
	}
}

// deliverLocal sends an event to room members connected to this instance.
// The bridge calls this for events received from other instances.
func (h *Hub) deliverLocal(event *Event) {
	payload, err := json.Marshal(event)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to marshal realtime event")
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	for client := range h.rooms[event.Room] {
		select {
		case client.send <- payload:
		default:
			// Slow consumer, drop the event rather than block the hub
			logger.Warn().Str("principal", client.PrincipalKey).Msg("Dropping event for slow websocket client")
		}
	}
}
