package realtime

import (
	"fmt"
	"time"
)

// Tables whose row changes are fanned out to subscribers.
const (
	TableActivity = "activity_records"
	TablePresence = "presence"
	TableMessages = "messages"
)

const (
	ActionInsert = "insert"
	ActionUpdate = "update"
	ActionDelete = "delete"
)

// ChangeEvent tells subscribers that a row changed. It carries no row data:
// subscribers invalidate and refetch, they never apply deltas.
type ChangeEvent struct {
	EventID   string    `json:"eventId"`
	Table     string    `json:"table"`
	Action    string    `json:"action"`
	RecordID  string    `json:"recordId,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// ChannelKey names the logical channel for one (event, table) pair.
func ChannelKey(eventID, table string) string {
	return fmt.Sprintf("realtime:%s:%s", eventID, table)
}
