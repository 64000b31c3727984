package ws

import (
	"time"

	"github.com/gorilla/websocket"
)

// Connection binds one websocket to one participant's event channel. The
// stream is one-way: the server pushes frames, the read side exists only to
// notice the peer going away.
type Connection struct {
	Conn          *websocket.Conn
	Send          chan Frame
	ParticipantID string
}

// StartWrite drains the event channel onto the socket, emitting a ping frame
// whenever a full interval passes with nothing to send. Returns when the
// channel closes or a write fails.
func (c *Connection) StartWrite(pingInterval time.Duration) {
	ticker := time.NewTicker(pingInterval)
	defer func() {
		ticker.Stop()
		c.Conn.Close()
	}()
	for {
		select {
		case f, ok := <-c.Send:
			if !ok {
				c.Conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
				return
			}
			if err := c.Conn.WriteJSON(f); err != nil {
				return
			}
		case <-ticker.C:
			if err := c.Conn.WriteJSON(Ping); err != nil {
				return
			}
		}
	}
}

// StartRead blocks until the socket errors or the peer closes it. Inbound
// payloads are discarded; mutations arrive over the REST surface.
func (c *Connection) StartRead() {
	for {
		if _, _, err := c.Conn.ReadMessage(); err != nil {
			return
		}
	}
}
