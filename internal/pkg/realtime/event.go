// Package realtime pushes row-change and notification events to connected users over WebSocket.
package realtime

import "time"

// EventType distinguishes the kinds of frames sent to clients
type EventType string

const (
	EventNotification EventType = "notification"
	EventRowChange    EventType = "row_change"
	EventPong         EventType = "pong"
)

// Action is the kind of row change
type Action string

const (
	ActionInsert Action = "insert"
	ActionUpdate Action = "update"
	ActionDelete Action = "delete"
)

// Event is a single frame pushed to a client
type Event struct {
	Type      EventType `json:"type"`
	Table     string    `json:"table,omitempty"`
	Action    Action    `json:"action,omitempty"`
	RecordID  int64     `json:"recordId,omitempty"`
	Payload   any       `json:"payload,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// RowChange builds a row_change event
func RowChange(table string, action Action, recordID int64, payload any) Event {
	return Event{
		Type:      EventRowChange,
		Table:     table,
		Action:    action,
		RecordID:  recordID,
		Payload:   payload,
		Timestamp: time.Now(),
	}
}

// Notification builds a notification event
func Notification(recordID int64, payload any) Event {
	return Event{
		Type:      EventNotification,
		Table:     "notifications",
		Action:    ActionInsert,
		RecordID:  recordID,
		Payload:   payload,
		Timestamp: time.Now(),
	}
}

// inbound is the only client frame the server understands
type inbound struct {
	Type string `json:"type"`
}
