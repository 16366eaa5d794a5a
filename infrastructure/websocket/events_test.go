package websocket

import (
	"testing"
	"time"

	"github.com/cheerioo/api/infrastructure/realtime"
)

func TestNewInvalidationRoutesTableToMessageType(t *testing.T) {
	cases := []struct {
		table string
		want  string
	}{
		{realtime.TableActivity, ActivityChanged},
		{realtime.TablePresence, PresenceChanged},
		{realtime.TableMessages, MessageChanged},
	}

	ts := time.Now().UTC().Format(time.RFC3339)
	for _, tc := range cases {
		msg := NewInvalidation("evt-1", tc.table, realtime.ActionInsert, "rec-1", ts)
		if msg.Type != tc.want {
			t.Errorf("table %q: type = %q, want %q", tc.table, msg.Type, tc.want)
		}

		payload, ok := msg.Data.(InvalidationPayload)
		if !ok {
			t.Fatalf("table %q: unexpected payload %T", tc.table, msg.Data)
		}
		if payload.Table != tc.table || payload.RecordID != "rec-1" {
			t.Errorf("table %q: payload = %+v", tc.table, payload)
		}
	}
}
