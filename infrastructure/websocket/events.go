package websocket

import "github.com/cheerioo/api/infrastructure/realtime"

const (
	ActivityChanged = "activity.changed"
	PresenceChanged = "presence.changed"
	MessageChanged  = "message.changed"

	ConnectionLost = "connection.lost"

	ErrorEvent          = "error"
	AuthenticationError = "error.auth"
	RateLimited         = "error.rate_limited"
)

type WSMessage struct {
	Type    string `json:"type"`
	EventID string `json:"eventId"`
	Data    any    `json:"data"`
}

// InvalidationPayload tells the client that rows changed server-side. It
// carries no row data: the client refetches through the HTTP API.
type InvalidationPayload struct {
	Table     string `json:"table"`
	Action    string `json:"action"`
	RecordID  string `json:"recordId,omitempty"`
	Timestamp string `json:"timestamp"`
}

func NewInvalidation(eventID, table, action, recordID, timestamp string) *WSMessage {
	return &WSMessage{
		Type:    typeForTable(table),
		EventID: eventID,
		Data: InvalidationPayload{
			Table:     table,
			Action:    action,
			RecordID:  recordID,
			Timestamp: timestamp,
		},
	}
}

func NewConnectionLost(eventID, table string) *WSMessage {
	return &WSMessage{
		Type:    ConnectionLost,
		EventID: eventID,
		Data:    InvalidationPayload{Table: table},
	}
}

func typeForTable(table string) string {
	switch table {
	case realtime.TablePresence:
		return PresenceChanged
	case realtime.TableMessages:
		return MessageChanged
	default:
		return ActivityChanged
	}
}
