package amqp

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// EntryEventMessage announces a change to the entry collection. It carries
// only ids; consumers read the entries themselves.
type EntryEventMessage struct {
	Kind      string      `json:"kind"`
	IDs       []uuid.UUID `json:"ids"`
	Timestamp time.Time   `json:"timestamp"`
}

// NewEntryEventMessage creates a message stamped with at, or now when at is zero.
func NewEntryEventMessage(kind string, ids []uuid.UUID, at time.Time) *EntryEventMessage {
	if at.IsZero() {
		at = time.Now()
	}
	if ids == nil {
		ids = []uuid.UUID{}
	}
	return &EntryEventMessage{
		Kind:      kind,
		IDs:       ids,
		Timestamp: at.UTC(),
	}
}

// ToJSON converts the message to JSON bytes
func (m *EntryEventMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// EntryEventMessageFromJSON decodes a message body.
func EntryEventMessageFromJSON(data []byte) (*EntryEventMessage, error) {
	var msg EntryEventMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
