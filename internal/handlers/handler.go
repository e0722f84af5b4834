// Package handlers exposes the chat core over HTTP and the live channel.
package handlers

import (
	"github.com/go-playground/validator/v10"

	"relaychat/server/internal/service"
	"relaychat/server/internal/utils"
	ws "relaychat/server/internal/websocket"
)

// Deps are the collaborators a Handler serves.
type Deps struct {
	Chat     *service.ChatService
	Friends  *service.FriendGraph
	Accounts *service.Accounts
	Tokens   *utils.TokenManager
	Registry *ws.Registry
	Router   *ws.Router

	WSOptions    ws.Options
	CookieSecure bool
}

// Handler groups the HTTP endpoints.
type Handler struct {
	chat     *service.ChatService
	friends  *service.FriendGraph
	accounts *service.Accounts
	tokens   *utils.TokenManager
	registry *ws.Registry
	router   *ws.Router

	wsOptions    ws.Options
	cookieSecure bool
	validate     *validator.Validate
}

// New creates a Handler.
func New(d Deps) *Handler {
	return &Handler{
		chat:         d.Chat,
		friends:      d.Friends,
		accounts:     d.Accounts,
		tokens:       d.Tokens,
		registry:     d.Registry,
		router:       d.Router,
		wsOptions:    d.WSOptions,
		cookieSecure: d.CookieSecure,
		validate:     newValidator(),
	}
}
