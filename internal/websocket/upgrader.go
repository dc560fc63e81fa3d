package websocket

import (
	"net/http"

	"github.com/gorilla/websocket"

	"forum-relay/internal/config"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return config.OriginAllowed(r.Header.Get("Origin"))
	},
}
