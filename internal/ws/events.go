package ws

import (
	"encoding/json"
	"sync/atomic"
	"time"
)

// Event types broadcast during ingestion.
const (
	EventDocumentIngested = "document_ingested"
	EventNodeCreated      = "node_created"
	EventEdgeCreated      = "edge_created"
	EventNodeDeleted      = "node_deleted"
	EventEdgeDeleted      = "edge_deleted"
)

// Event is the structured message sent to WebSocket clients.
type Event struct {
	Type string          `json:"type"`
	ID   uint64          `json:"id"`
	Data json.RawMessage `json:"data"`
	Time time.Time       `json:"time"`
}

// SubscribeMsg is sent by the client on connect to request event replay.
type SubscribeMsg struct {
	Type        string `json:"type"`
	LastEventID uint64 `json:"last_event_id"`
}

// ResetMsg tells the client to do a full refresh (requested events too old).
type ResetMsg struct {
	Type   string `json:"type"`
	Reason string `json:"reason"`
}

// EventSequence issues monotonic event IDs.
type EventSequence struct {
	counter atomic.Uint64
}

// NewEventSequence creates a new EventSequence.
func NewEventSequence() *EventSequence {
	return &EventSequence{}
}

// Next returns the next sequence number.
func (es *EventSequence) Next() uint64 {
	return es.counter.Add(1)
}
