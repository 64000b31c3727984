package handlers

import (
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"coedit/internal/ws"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// StreamHandler owns the /ws endpoint: the one-way push stream carrying event
// frames to a participant. All mutations arrive over REST; the socket's read
// side exists only to detect the peer going away.
type StreamHandler struct {
	Channels     *ws.Table
	PingInterval time.Duration
}

func (h *StreamHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	participantID := r.URL.Query().Get("participant_id")
	if participantID == "" {
		http.Error(w, "participant_id required", http.StatusBadRequest)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade already wrote the error response
		return
	}

	send := h.Channels.Open(participantID)
	c := &ws.Connection{
		Conn:          conn,
		Send:          send,
		ParticipantID: participantID,
	}
	logrus.Infof("stream opened: %s", participantID)

	go c.StartWrite(h.PingInterval)

	// blocks until disconnect
	c.StartRead()

	// release the channel; room membership is the sweeper's business
	h.Channels.Close(participantID, send)
	conn.Close()
	logrus.Infof("stream closed: %s", participantID)
}
