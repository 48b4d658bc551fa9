package handlers

import (
	"log/slog"
	"net/http"

	"github.com/draftleague/bracket-engine/live"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// TODO: restrict to the league frontend origin once it is deployed.
		return true
	},
}

type WebSocketHandler struct {
	hub *live.Hub
}

func NewWebSocketHandler(hub *live.Hub) *WebSocketHandler {
	return &WebSocketHandler{hub: hub}
}

// ServeWs subscribes a client to one season's bracket updates.
// GET /ws/seasons/{seasonID}
func (h *WebSocketHandler) ServeWs(w http.ResponseWriter, r *http.Request) {
	seasonID, err := getIDFromURL(r, "seasonID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade already replied to the client.
		slog.Error("websocket upgrade failed", slog.Int("season_id", seasonID), slog.Any("error", err))
		return
	}

	client := live.NewClient(h.hub, conn, live.SeasonRoom(seasonID))
	client.Hub.Register <- client

	go client.WritePump()
	go client.ReadPump()
}
