package handlers

import (
	"net/http"
	"slices"

	"github.com/google/uuid"
	ws "github.com/gorilla/websocket"

	"github.com/dom/libriverse/internal/api/middleware"
	"github.com/dom/libriverse/internal/api/response"
	"github.com/dom/libriverse/internal/config"
	"github.com/dom/libriverse/internal/logging"
	"github.com/dom/libriverse/internal/service"
	"github.com/dom/libriverse/internal/websocket"
)

type WebSocketHandler struct {
	hub         *websocket.Hub
	authService *service.AuthService
	upgrader    ws.Upgrader
}

func NewWebSocketHandler(hub *websocket.Hub, authService *service.AuthService, cfg *config.Config) *WebSocketHandler {
	return &WebSocketHandler{
		hub:         hub,
		authService: authService,
		upgrader: ws.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     originChecker(cfg.ClientOrigins),
		},
	}
}

// Handle upgrades an authenticated request to the activity feed. Browsers
// send the session cookie; other clients may pass ?token= or the header.
func (h *WebSocketHandler) Handle(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("token")
	if token == "" {
		var err error
		token, _, err = middleware.TokenFromRequest(r)
		if err != nil {
			response.Error(w, r, http.StatusUnauthorized, "Authentication required")
			return
		}
	}

	claims, err := h.authService.ValidateToken(token)
	if err != nil {
		response.Error(w, r, http.StatusUnauthorized, "Invalid or expired token")
		return
	}

	userID, err := uuid.Parse(claims.UserID)
	if err != nil {
		response.Error(w, r, http.StatusUnauthorized, "Invalid or expired token")
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade has already written an HTTP error.
		logging.Ctx(r.Context()).Warn().Err(err).Str("component", "handlers.WebSocket").Msg("upgrade failed")
		return
	}

	client := websocket.NewClient(h.hub, conn, userID)
	h.hub.Register(client)

	go client.WritePump()
	go client.ReadPump()
}

// originChecker allows any origin when none are configured.
func originChecker(origins []string) func(r *http.Request) bool {
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" || len(origins) == 0 || slices.Contains(origins, "*") {
			return true
		}
		return slices.Contains(origins, origin)
	}
}
