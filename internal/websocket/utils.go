package websocket

import (
	"time"

	"github.com/gorilla/websocket"
)

const (
	// writeWait bounds a single event write; the audit stream drops the
	// connection rather than queue behind a slow client.
	writeWait = 10 * time.Second
	// readWait is how long a client may stay silent. Clients ping well
	// inside this window to keep the stream open.
	readWait = 5 * time.Minute
)

// WriteTyped sends one typed event, failing the connection if the client
// cannot drain it within writeWait.
func WriteTyped(conn *websocket.Conn, v interface{}) error {
	conn.SetWriteDeadline(time.Now().Add(writeWait))
	return conn.WriteJSON(v)
}

// WriteError sends a typed ErrorResponse.
func WriteError(conn *websocket.Conn, errMsg string) error {
	return WriteTyped(conn, ErrorResponse{
		Event: EventError,
		Error: errMsg,
	})
}

// ReadRequest blocks for the next client request on the stream, refreshing
// the read deadline first.
func ReadRequest(conn *websocket.Conn) (RequestEnvelope, error) {
	conn.SetReadDeadline(time.Now().Add(readWait))
	var req RequestEnvelope
	err := conn.ReadJSON(&req)
	return req, err
}
