package realtime

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/crestview/chronicle/internal/pkg/logger"
)

// RoomAuthorizer decides whether a principal may subscribe to a room. The
// chat service implements this against session and group membership.
type RoomAuthorizer interface {
	CanJoinRoom(ctx context.Context, principalKey, room string) error
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Origin is enforced by the CORS layer in front of the API
	CheckOrigin: func(r *http.Request) bool { return true },
}

// ServeWS upgrades an authenticated request to a websocket connection and
// attaches it to the hub.
func ServeWS(c *gin.Context, hub *Hub, authorizer RoomAuthorizer, principalKey, name string) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		logger.Warn().Err(err).Str("principal", principalKey).Msg("Websocket upgrade failed")
		return
	}

	client := NewClient(hub, conn, principalKey, name, c.Request.RemoteAddr)
	client.authorizer = authorizer
	client.Start()
}
