package events

import (
	"encoding/json"
	"time"
)

const (
	TypePing        = "ping"
	TypeLeadCreated = "lead_created"
)

// Envelope is what dashboard clients receive on /events.
type Envelope struct {
	Type      string          `json:"type"`
	Version   int             `json:"v"`
	At        time.Time       `json:"at"`
	RequestID string          `json:"request_id,omitempty"`
	Data      json.RawMessage `json:"data,omitempty"`
}

func Encode(reqID, typ string, data any) []byte {
	var raw json.RawMessage
	if data != nil {
		b, _ := json.Marshal(data)
		raw = b
	}
	b, _ := json.Marshal(Envelope{
		Type:      typ,
		Version:   1,
		At:        time.Now().UTC(),
		RequestID: reqID,
		Data:      raw,
	})
	return b
}
