package websocket

import (
	"encoding/json"
	"fmt"

	"github.com/rs/zerolog"

	"relaychat/server/internal/logger"
	"relaychat/server/internal/models"
)

// Router fans frames out to every live connection in a registry,
// including the connections of the frame's own sender. Delivery is best
// effort: a failed send is logged and skipped, never returned, and the
// failing entry stays registered until its connection closes.
type Router struct {
	registry *Registry
	log      zerolog.Logger
}

// NewRouter creates a router over registry.
func NewRouter(registry *Registry) *Router {
	return &Router{
		registry: registry,
		log:      logger.L().With().Str("component", "router").Logger(),
	}
}

// Publish encodes frame once and delivers it. It returns the number of
// connections the frame was handed to.
func (r *Router) Publish(frame any) int {
	data, err := json.Marshal(frame)
	if err != nil {
		r.log.Error().Err(err).Msg("failed to encode frame")
		return 0
	}
	return r.PublishRaw(data)
}

// PublishRaw delivers an encoded frame to the current snapshot, in
// registration order, skipping connections that are not open.
func (r *Router) PublishRaw(data []byte) int {
	delivered := 0
	for _, entry := range r.registry.Snapshot() {
		if !entry.Conn.IsOpen() {
			continue
		}
		if err := deliver(entry.Conn, data); err != nil {
			r.log.Warn().Err(err).
				Str(logger.FieldHandle, string(entry.Handle)).
				Str(logger.FieldUserID, entry.UserID).
				Msg("dropped live frame")
			continue
		}
		delivered++
	}
	return delivered
}

// PublishMessage broadcasts a persisted message.
func (r *Router) PublishMessage(msg models.Message) int {
	return r.Publish(NewMessageFrame(msg))
}

// PublishChat relays a client chat frame stamped with its sender.
func (r *Router) PublishChat(senderID string, f ChatFrame) int {
	return r.Publish(NewChatRelayFrame(senderID, f))
}

func deliver(conn Conn, data []byte) (err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("send panicked: %v", p)
		}
	}()
	return conn.Send(data)
}
