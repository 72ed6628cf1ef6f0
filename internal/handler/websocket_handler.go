package handler

import (
	"context"
	"net/http"
	"strings"

	"github.com/google/uuid"
	ws "github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	"github.com/pennywise/pennywise-backend/internal/websocket"
	"github.com/rs/zerolog/log"
)

// TokenResolver maps a raw session JWT or API token to its user
type TokenResolver interface {
	ResolveUser(ctx context.Context, token string) (uuid.UUID, error)
}

// WebSocketHandler upgrades authenticated clients onto the live update hub
type WebSocketHandler struct {
	hub            *websocket.Hub
	resolver       TokenResolver
	allowedOrigins map[string]bool
	upgrader       ws.Upgrader
}

// NewWebSocketHandler creates a new WebSocketHandler
func NewWebSocketHandler(hub *websocket.Hub, resolver TokenResolver, allowedOrigins []string) *WebSocketHandler {
	h := &WebSocketHandler{
		hub:            hub,
		resolver:       resolver,
		allowedOrigins: make(map[string]bool, len(allowedOrigins)),
	}
	for _, origin := range allowedOrigins {
		h.allowedOrigins[origin] = true
	}
	h.upgrader = ws.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin:     h.checkOrigin,
	}
	return h
}

// checkOrigin admits listed browser origins and clients that send none
func (h *WebSocketHandler) checkOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" || h.allowedOrigins[origin] {
		return true
	}
	log.Warn().Str("origin", origin).Msg("WebSocket connection rejected: origin not allowed")
	return false
}

// socketToken reads the token from ?token= (browsers cannot set headers on the
// handshake) or from a bearer Authorization header
func socketToken(c echo.Context) string {
	if token := c.QueryParam("token"); token != "" {
		return token
	}
	if auth := c.Request().Header.Get(echo.HeaderAuthorization); len(auth) > 7 && strings.EqualFold(auth[:7], "bearer ") {
		return auth[7:]
	}
	return ""
}

// HandleWS handles GET /ws
func (h *WebSocketHandler) HandleWS(c echo.Context) error {
	token := socketToken(c)
	if token == "" {
		return NewUnauthorizedError(c, "Missing token")
	}

	userID, err := h.resolver.ResolveUser(c.Request().Context(), token)
	if err != nil {
		log.Debug().Err(err).Msg("WebSocket connection rejected: invalid token")
		return NewUnauthorizedError(c, "Invalid token")
	}

	conn, err := h.upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		// the upgrader has already written the error response
		log.Debug().Err(err).Msg("WebSocket upgrade failed")
		return nil
	}

	client := websocket.NewClient(conn, userID, h.hub)
	log.Info().
		Str("user_id", userID.String()).
		Str("client_id", client.ID()).
		Msg("WebSocket client connected")

	go client.Serve()
	return nil
}
