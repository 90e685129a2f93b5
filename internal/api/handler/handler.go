package handler

import (
	"mailroom/backend/internal/chathub"
)

// Handler holds the transport-layer dependencies for the gin routes.
type Handler struct {
	Hub         *chathub.Hub
	Coordinator *chathub.Coordinator
	Tokens      *TokenIssuer
}

func NewHandler(hub *chathub.Hub, coordinator *chathub.Coordinator, tokens *TokenIssuer) *Handler {
	return &Handler{Hub: hub, Coordinator: coordinator, Tokens: tokens}
}
