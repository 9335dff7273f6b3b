package websocket

import (
	"net/http"

	"github.com/gorilla/websocket"
)

// sendBuffer is the number of outbound frames a client may lag behind
// before frames are dropped for it.
const sendBuffer = 16

var Upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

type Client struct {
	ID   string
	Conn *websocket.Conn
	Send chan []byte
	Room *Room
}

func NewClient(id string, conn *websocket.Conn) *Client {
	return &Client{
		ID:   id,
		Conn: conn,
		Send: make(chan []byte, sendBuffer),
	}
}
