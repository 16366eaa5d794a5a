package websocket

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/websocket"
)

// newTestConn returns the server side of a real websocket connection.
func newTestConn(t *testing.T) *websocket.Conn {
	t.Helper()

	conns := make(chan *websocket.Conn, 1)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			t.Errorf("upgrade failed: %v", err)
			return
		}
		conns <- conn
	}))
	t.Cleanup(srv.Close)

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	clientSide, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial failed: %v", err)
	}
	t.Cleanup(func() { _ = clientSide.Close() })

	return <-conns
}

func TestRemoveClientKeepsOtherSocketsOfSameUser(t *testing.T) {
	em := NewEventManager()

	tab1 := NewClient(newTestConn(t), "user-1", "evt-1", "alice")
	tab2 := NewClient(newTestConn(t), "user-1", "evt-1", "alice")

	if first := em.AddClient(tab1); !first {
		t.Fatal("first socket should open the event")
	}
	if first := em.AddClient(tab2); first {
		t.Fatal("second socket must not report first")
	}
	if got := em.ClientCount("evt-1"); got != 2 {
		t.Fatalf("ClientCount = %d, want 2", got)
	}

	if last := em.RemoveClient(tab2); last {
		t.Fatal("a closing socket must not report last while a sibling remains")
	}
	if got := em.ClientCount("evt-1"); got != 1 {
		t.Fatalf("ClientCount = %d, want 1", got)
	}
	if tab1.IsClosed() {
		t.Fatal("surviving socket was closed")
	}

	if err := em.Broadcast(&WSMessage{Type: ActivityChanged, EventID: "evt-1"}); err != nil {
		t.Fatalf("broadcast after sibling disconnect: %v", err)
	}
	select {
	case msg := <-tab1.Message:
		if msg.Type != ActivityChanged {
			t.Fatalf("message type = %q, want %q", msg.Type, ActivityChanged)
		}
	default:
		t.Fatal("surviving socket received no message")
	}

	if last := em.RemoveClient(tab1); !last {
		t.Fatal("the final socket should report last")
	}
}

func TestRemoveClientIgnoresRepeatedRemoval(t *testing.T) {
	em := NewEventManager()

	stays := NewClient(newTestConn(t), "user-1", "evt-1", "alice")
	leaves := NewClient(newTestConn(t), "user-2", "evt-1", "bob")

	em.AddClient(stays)
	em.AddClient(leaves)

	if last := em.RemoveClient(leaves); last {
		t.Fatal("unexpected last on first removal")
	}
	// A second removal of the same handle must not touch the survivor.
	if last := em.RemoveClient(leaves); last {
		t.Fatal("repeated removal reported last")
	}
	if got := em.ClientCount("evt-1"); got != 1 {
		t.Fatalf("ClientCount = %d, want 1", got)
	}
}
