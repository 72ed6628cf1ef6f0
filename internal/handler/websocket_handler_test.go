package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	ws "github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	"github.com/pennywise/pennywise-backend/internal/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubResolver accepts a single token
type stubResolver struct {
	token  string
	userID uuid.UUID
}

func (s *stubResolver) ResolveUser(ctx context.Context, token string) (uuid.UUID, error) {
	if token != s.token {
		return uuid.Nil, errors.New("token is expired")
	}
	return s.userID, nil
}

var testAllowedOrigins = []string{"http://localhost:3000", "https://app.pennywise.dev"}

func TestWebSocketHandler_RejectsBeforeUpgrade(t *testing.T) {
	h := NewWebSocketHandler(websocket.NewHub(), &stubResolver{token: "good", userID: uuid.New()}, testAllowedOrigins)

	tests := []struct {
		name   string
		target string
		header string
	}{
		{"missing token", "/ws", ""},
		{"invalid query token", "/ws?token=bad", ""},
		{"invalid header token", "/ws", "Bearer bad"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tt.target, nil)
			if tt.header != "" {
				req.Header.Set(echo.HeaderAuthorization, tt.header)
			}
			rec := httptest.NewRecorder()
			require.NoError(t, h.HandleWS(echo.New().NewContext(req, rec)))
			assert.Equal(t, http.StatusUnauthorized, rec.Code)
			assert.Contains(t, rec.Body.String(), ErrorTypeUnauthorized)
		})
	}
}

func TestWebSocketHandler_NonUpgradeRequest(t *testing.T) {
	hub := websocket.NewHub()
	userID := uuid.New()
	h := NewWebSocketHandler(hub, &stubResolver{token: "good", userID: userID}, testAllowedOrigins)

	req := httptest.NewRequest(http.MethodGet, "/ws?token=good", nil)
	rec := httptest.NewRecorder()
	require.NoError(t, h.HandleWS(echo.New().NewContext(req, rec)))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, 0, hub.ClientCount(userID))
}

func TestWebSocketHandler_LiveUpdates(t *testing.T) {
	hub := websocket.NewHub()
	userID := uuid.New()
	h := NewWebSocketHandler(hub, &stubResolver{token: "good", userID: userID}, testAllowedOrigins)

	e := echo.New()
	e.GET("/ws", h.HandleWS)
	srv := httptest.NewServer(e)
	defer srv.Close()

	// one change before connecting
	hub.Broadcast(userID, websocket.ReportInvalidated())

	header := http.Header{}
	header.Set(echo.HeaderAuthorization, "Bearer good")
	conn, _, err := ws.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http")+"/ws", header)
	require.NoError(t, err)
	defer conn.Close()

	readEvent := func() map[string]interface{} {
		t.Helper()
		require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
		_, data, err := conn.ReadMessage()
		require.NoError(t, err)
		var evt map[string]interface{}
		require.NoError(t, json.Unmarshal(data, &evt))
		return evt
	}

	ready := readEvent()
	assert.Equal(t, "session.ready", ready["type"])
	assert.Equal(t, float64(1), ready["seq"])

	require.Eventually(t, func() bool { return hub.ClientCount(userID) == 1 }, time.Second, 10*time.Millisecond)
	hub.Broadcast(userID, websocket.TransactionCreated(map[string]interface{}{"id": 7}))

	evt := readEvent()
	assert.Equal(t, "transaction.created", evt["type"])
	assert.Equal(t, float64(2), evt["seq"])

	hub.Shutdown()
	assert.Equal(t, 0, hub.TotalClientCount())
}

func TestWebSocketHandler_CheckOrigin(t *testing.T) {
	h := NewWebSocketHandler(websocket.NewHub(), &stubResolver{}, testAllowedOrigins)

	tests := []struct {
		name     string
		origin   string
		expected bool
	}{
		{"allowed origin", "http://localhost:3000", true},
		{"allowed origin https", "https://app.pennywise.dev", true},
		{"disallowed origin", "https://evil.com", false},
		{"no origin", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/ws", nil)
			if tt.origin != "" {
				req.Header.Set("Origin", tt.origin)
			}
			assert.Equal(t, tt.expected, h.checkOrigin(req))
		})
	}
}
