package config

import (
	"net/http"

	"github.com/gorilla/websocket"
)

type WebSocket struct {
	Upgrader websocket.Upgrader
}

// NewWebSocket accepts any origin in development and only same-origin
// requests otherwise.
func NewWebSocket(development bool) *WebSocket {
	upgrader := websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 4096,
	}
	if development {
		upgrader.CheckOrigin = func(r *http.Request) bool {
			return true
		}
	}
	return &WebSocket{Upgrader: upgrader}
}
