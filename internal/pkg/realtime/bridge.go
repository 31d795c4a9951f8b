package realtime

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/crestview/chronicle/internal/pkg/logger"
)

const bridgeChannel = "chronicle:realtime"

// RedisBridge fans realtime events out through redis pub/sub so that clients
// connected to different instances still receive room events.
type RedisBridge struct {
	rdb *redis.Client
	hub *Hub
}

// NewRedisBridge connects to redis and verifies the connection
func NewRedisBridge(ctx context.Context, addr, password string, db int, hub *Hub) (*RedisBridge, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return &RedisBridge{rdb: rdb, hub: hub}, nil
}

// Publish sends an event to the shared channel
func (b *RedisBridge) Publish(ctx context.Context, event *Event) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}
	return b.rdb.Publish(ctx, bridgeChannel, payload).Err()
}

// Listen subscribes to the shared channel and delivers remote events to the
// local hub. Blocks until the context is cancelled.
func (b *RedisBridge) Listen(ctx context.Context) {
	sub := b.rdb.Subscribe(ctx, bridgeChannel)
	defer sub.Close()

	ch := sub.Channel()
	for {
		select {
		case msg, ok := <-ch:
			if !ok {
				return
			}
			var event Event
			if err := json.Unmarshal([]byte(msg.Payload), &event); err != nil {
				logger.Warn().Err(err).Msg("Discarding malformed bridge event")
				continue
			}
			if event.Origin == b.hub.instanceID {
				continue
			}
			b.hub.deliverLocal(&event)
		case <-ctx.Done():
			return
		}
	}
}

// Close releases the redis connection
func (b *RedisBridge) Close() error {
	return b.rdb.Close()
}
