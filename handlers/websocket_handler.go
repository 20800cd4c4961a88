package handlers

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/Dosada05/auction-system/live"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// В продакшене здесь должна быть проверка Origin.
		return true
	},
}

type WebSocketHandler struct {
	hub    *live.Hub
	engine *live.Engine
}

func NewWebSocketHandler(hub *live.Hub, engine *live.Engine) *WebSocketHandler {
	return &WebSocketHandler{
		hub:    hub,
		engine: engine,
	}
}

// ServeWs upgrades the connection and registers the client for auction
// broadcasts. The current snapshot is sent immediately so late joiners
// render the live state without waiting for the next event.
func (h *WebSocketHandler) ServeWs(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("Failed to upgrade auction websocket connection: %v", err)
		return
	}

	client := &live.Client{
		Hub:  h.hub,
		Conn: conn,
		Send: make(chan []byte, 256),
	}
	client.Hub.Register <- client

	go client.WritePump()
	go client.ReadPump()

	snapshot, err := json.Marshal(live.Message{
		Type:    live.MessageAuctionState,
		Payload: h.engine.Snapshot(),
	})
	if err != nil {
		log.Printf("Error marshalling initial snapshot: %v", err)
		return
	}

	// Клиент мог отключиться сразу после регистрации; тогда его канал уже
	// закрыт и кадр просто отбрасывается.
	if !client.TrySend(snapshot) {
		log.Printf("Dropped initial snapshot for a departed client")
	}
}
