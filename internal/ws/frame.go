package ws

// Frame is the envelope for every event pushed to a client stream.
type Frame struct {
	Type string      `json:"type"`
	Data interface{} `json:"data,omitempty"`
}

// Ping is the synthetic keep-alive frame written when a stream sits idle for a
// full ping interval.
var Ping = Frame{Type: "ping"}
