//go:generate go run go.uber.org/mock/mockgen -source=chat.go -destination=../mocks/mock_publisher.go -package=mocks

// Package service holds the core operations of the chat: sending and
// replaying messages, the friend graph and user accounts. Transport
// concerns stay in the handlers and websocket packages.
package service

import (
	"context"

	"relaychat/server/internal/config"
	"relaychat/server/internal/logger"
	"relaychat/server/internal/models"
	"relaychat/server/internal/store"
)

// Publisher fans a persisted message out to live connections. Delivery is
// best effort and reports how many connections took the frame.
type Publisher interface {
	PublishMessage(msg models.Message) int
}

// ChatService persists messages and announces them live.
type ChatService struct {
	messages store.MessageStore
	router   Publisher
	mode     string
}

// NewChatService creates a chat service. mode is one of the config
// delivery modes; in relay mode the server stays silent and clients push
// their own frames.
func NewChatService(messages store.MessageStore, router Publisher, mode string) *ChatService {
	if mode == "" {
		mode = config.DeliveryServer
	}
	return &ChatService{messages: messages, router: router, mode: mode}
}

// Send appends a message to the global log and, unless relaying is left to
// clients, broadcasts the stored record. The broadcast never fails Send.
func (s *ChatService) Send(ctx context.Context, senderID, content string, fileURL *string) (models.Message, error) {
	msg, err := s.messages.Append(ctx, senderID, content, fileURL)
	if err != nil {
		return models.Message{}, err
	}

	log := logger.Ctx(ctx)
	if s.mode == config.DeliveryRelay || s.router == nil {
		log.Debug().Int64(logger.FieldMessageID, msg.ID).Msg("message stored; live delivery left to clients")
		return msg, nil
	}

	n := s.router.PublishMessage(msg)
	log.Debug().Int64(logger.FieldMessageID, msg.ID).Int("recipients", n).Msg("message broadcast")
	return msg, nil
}

// List replays the full log in (timestamp, id) order.
func (s *ChatService) List(ctx context.Context) ([]models.Message, error) {
	return s.messages.ListAll(ctx)
}
