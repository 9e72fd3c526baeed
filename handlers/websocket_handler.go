package handlers

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/Dosada05/gameet/live"
	"github.com/Dosada05/gameet/services"
	"github.com/gorilla/websocket"
)

type WebSocketHandler struct {
	hub          *live.Hub
	eventService services.EventService
	upgrader     websocket.Upgrader
}

// NewWebSocketHandler accepts connections from allowedOrigins; "*" allows any origin.
// Requests without an Origin header (mobile clients) are always accepted.
func NewWebSocketHandler(hub *live.Hub, es services.EventService, allowedOrigins []string) *WebSocketHandler {
	allowed := make(map[string]bool, len(allowedOrigins))
	for _, origin := range allowedOrigins {
		allowed[strings.TrimRight(strings.TrimSpace(origin), "/")] = true
	}

	return &WebSocketHandler{
		hub:          hub,
		eventService: es,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				return origin == "" || allowed["*"] || allowed[origin]
			},
		},
	}
}

// ServeWs subscribes the connection to live updates of one event: GET /ws/event/{id}.
func (h *WebSocketHandler) ServeWs(w http.ResponseWriter, r *http.Request) {
	eventID, err := getIDFromURL(r, "id")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	if _, err := h.eventService.GetByID(r.Context(), eventID); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.Default().Warn("websocket upgrade failed", slog.Int("event_id", eventID), slog.Any("error", err))
		return
	}

	client := live.NewClient(h.hub, conn, live.EventRoom(eventID))
	h.hub.Register(client)

	go client.WritePump()
	go client.ReadPump()
}
