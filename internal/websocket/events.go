package websocket

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"relaychat/server/internal/models"
)

// FrameType tags every frame on the live channel.
type FrameType string

const (
	// Client -> server
	FrameAuth FrameType = "auth"
	FrameChat FrameType = "chat"

	// Server -> client
	FrameAuthOK  FrameType = "auth_ok"
	FrameMessage FrameType = "message"
	FrameError   FrameType = "error"
)

// Error codes carried by error frames.
const (
	ErrCodeBadFrame             = "BAD_FRAME"
	ErrCodeUnknownType          = "UNKNOWN_TYPE"
	ErrCodeNotAuthenticated     = "NOT_AUTHENTICATED"
	ErrCodeAuthMismatch         = "AUTH_MISMATCH"
	ErrCodeAlreadyAuthenticated = "ALREADY_AUTHENTICATED"
	ErrCodeRelayDisabled        = "RELAY_DISABLED"
)

var (
	errUnknownType = errors.New("unknown frame type")
	errBadFrame    = errors.New("malformed frame")
)

// Inbound is a frame a client may send. The set is closed: AuthFrame and
// ChatFrame are the only implementations.
type Inbound interface {
	inbound()
}

// AuthFrame binds the connection to a user. It must come first.
type AuthFrame struct {
	UserID string `json:"userId"`
}

// ChatFrame is a chat payload pushed by a client for relay.
type ChatFrame struct {
	Content string  `json:"content"`
	FileURL *string `json:"fileUrl,omitempty"`
}

func (AuthFrame) inbound() {}
func (ChatFrame) inbound() {}

// DecodeInbound parses a client frame. Unknown types and frames missing
// their required fields are rejected.
func DecodeInbound(data []byte) (Inbound, error) {
	var envelope struct {
		Type FrameType `json:"type"`
	}
	if err := json.Unmarshal(data, &envelope); err != nil {
		return nil, fmt.Errorf("%w: %v", errBadFrame, err)
	}

	switch envelope.Type {
	case FrameAuth:
		var f AuthFrame
		if err := json.Unmarshal(data, &f); err != nil {
			return nil, fmt.Errorf("%w: %v", errBadFrame, err)
		}
		f.UserID = strings.TrimSpace(f.UserID)
		if f.UserID == "" {
			return nil, fmt.Errorf("%w: auth frame needs userId", errBadFrame)
		}
		return f, nil

	case FrameChat:
		var f ChatFrame
		if err := json.Unmarshal(data, &f); err != nil {
			return nil, fmt.Errorf("%w: %v", errBadFrame, err)
		}
		draft := models.MessageDraft{Content: f.Content, FileURL: f.FileURL}.Normalize()
		if !draft.HasBody() {
			return nil, fmt.Errorf("%w: chat frame needs content or fileUrl", errBadFrame)
		}
		if draft.ContentTooLong() {
			return nil, fmt.Errorf("%w: content exceeds %d characters", errBadFrame, models.MaxContentLength)
		}
		f.FileURL = draft.FileURL
		return f, nil
	}
	return nil, fmt.Errorf("%w: %q", errUnknownType, envelope.Type)
}

// AuthOKFrame acknowledges a successful handshake.
type AuthOKFrame struct {
	Type   FrameType `json:"type"`
	UserID string    `json:"userId"`
}

// MessageFrame carries a persisted message.
type MessageFrame struct {
	Type FrameType `json:"type"`
	models.Message
}

// ChatRelayFrame is a client chat frame relayed to every live channel,
// stamped with the authenticated sender.
type ChatRelayFrame struct {
	Type     FrameType `json:"type"`
	SenderID string    `json:"senderId"`
	Content  string    `json:"content"`
	FileURL  *string   `json:"fileUrl,omitempty"`
}

// ErrorFrame reports a rejected client frame.
type ErrorFrame struct {
	Type    FrameType `json:"type"`
	Code    string    `json:"code"`
	Message string    `json:"message"`
}

func NewMessageFrame(msg models.Message) MessageFrame {
	return MessageFrame{Type: FrameMessage, Message: msg}
}

func NewChatRelayFrame(senderID string, f ChatFrame) ChatRelayFrame {
	return ChatRelayFrame{Type: FrameChat, SenderID: senderID, Content: f.Content, FileURL: f.FileURL}
}

func NewErrorFrame(code, message string) ErrorFrame {
	return ErrorFrame{Type: FrameError, Code: code, Message: message}
}
