package realtime

import (
	"context"
	"encoding/json"
	"time"

	"github.com/gorilla/websocket"

	"github.com/crestview/chronicle/internal/pkg/logger"
)

const (
	// Time allowed to write a message to the peer
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer
	pongWait = 60 * time.Second

	// Send pings to peer with this period, must be less than pongWait
	pingPeriod = (pongWait * 9) / 10

	// Maximum inbound message size in bytes
	maxMessageSize = 8192

	sendBufferSize = 64
)

// inboundFrame is what clients send over the socket
type inboundFrame struct {
	Type string          `json:"type"`
	Room string          `json:"room"`
	Data json.RawMessage `json:"data,omitempty"`
}

// Client is a single websocket connection bound to an authenticated principal
type Client struct {
	hub  *Hub
	conn *websocket.Conn
	send chan []byte

	PrincipalKey string
	Name         string
	RemoteAddr   string

	// authorizer gates room joins; nil allows everything (used in tests)
	authorizer RoomAuthorizer

	// rooms this client has joined, owned by the hub under its lock
	rooms map[string]bool
}

// NewClient wraps an upgraded websocket connection
func NewClient(hub *Hub, conn *websocket.Conn, principalKey, name, remoteAddr string) *Client {
	return &Client{
		hub:          hub,
		conn:         conn,
		send:         make(chan []byte, sendBufferSize),
		PrincipalKey: principalKey,
		Name:         name,
		RemoteAddr:   remoteAddr,
		rooms:        make(map[string]bool),
	}
}

// Start registers the client and launches the read and write pumps
func (c *Client) Start() {
	c.hub.register <- c
	go c.writePump()
	go c.readPump()
}

// readPump reads frames from the socket and dispatches them to the hub
func (c *Client) readPump() {
	defer func() {
		c.hub.unregister <- c
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, raw, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				logger.Warn().Err(err).Str("principal", c.PrincipalKey).Msg("Unexpected websocket close")
			}
			return
		}

		var frame inboundFrame
		if err := json.Unmarshal(raw, &frame); err != nil {
			logger.Debug().Err(err).Str("principal", c.PrincipalKey).Msg("Discarding malformed websocket frame")
			continue
		}

		c.handleFrame(&frame)
	}
}

// handleFrame applies a single inbound frame. Joins and leaves change the
// client's subscriptions; typing and read receipts are relayed to the room.
func (c *Client) handleFrame(frame *inboundFrame) {
	if frame.Room == "" {
		return
	}

	switch frame.Type {
	case EventJoin:
		if c.authorizer != nil {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			err := c.authorizer.CanJoinRoom(ctx, c.PrincipalKey, frame.Room)
			cancel()
			if err != nil {
				logger.Warn().Err(err).Str("principal", c.PrincipalKey).Str("room", frame.Room).Msg("Room join rejected")
				return
			}
		}
		c.hub.JoinRoom(c, frame.Room)
		c.hub.Broadcast(&Event{
			Type:       EventJoin,
			Room:       frame.Room,
			SenderKey:  c.PrincipalKey,
			SenderName: c.Name,
		})
	case EventLeave:
		if !c.hub.InRoom(c, frame.Room) {
			return
		}
		c.hub.Broadcast(&Event{
			Type:       EventLeave,
			Room:       frame.Room,
			SenderKey:  c.PrincipalKey,
			SenderName: c.Name,
		})
		c.hub.LeaveRoom(c, frame.Room)
	case EventTyping, EventReadReceipt:
		// Relay only into rooms the client has joined, so the join-time
		// membership check cannot be skipped
		if !c.hub.InRoom(c, frame.Room) {
			logger.Warn().Str("principal", c.PrincipalKey).Str("room", frame.Room).Str("type", frame.Type).Msg("Dropping relay frame for unjoined room")
			return
		}
		c.hub.Broadcast(&Event{
			Type:       frame.Type,
			Room:       frame.Room,
			SenderKey:  c.PrincipalKey,
			SenderName: c.Name,
			Data:       frame.Data,
		})
	default:
		logger.Debug().Str("type", frame.Type).Str("principal", c.PrincipalKey).Msg("Ignoring unknown websocket frame type")
	}
}

// writePump writes hub events and keepalive pings to the socket
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case payload, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			if err := c.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
