package realtime

import (
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
)

func TestForwardPayloadsUnblocksOnDone(t *testing.T) {
	in := make(chan *redis.Message, 1)
	out := make(chan []byte)
	done := make(chan struct{})

	go forwardPayloads(in, out, done)

	// Nobody receives from out, so the forwarder parks on the send.
	in <- &redis.Message{Payload: "stranded"}
	time.Sleep(10 * time.Millisecond)

	close(done)

	select {
	case _, ok := <-out:
		if ok {
			t.Fatal("expected out to be closed without delivering after done")
		}
	case <-time.After(time.Second):
		t.Fatal("forwarder still blocked after done was closed")
	}
}

func TestForwardPayloadsClosesOutWhenSourceCloses(t *testing.T) {
	in := make(chan *redis.Message, 1)
	out := make(chan []byte, 1)
	done := make(chan struct{})
	defer close(done)

	in <- &redis.Message{Payload: "hello"}
	close(in)

	go forwardPayloads(in, out, done)

	select {
	case payload := <-out:
		if string(payload) != "hello" {
			t.Fatalf("payload = %q, want %q", payload, "hello")
		}
	case <-time.After(time.Second):
		t.Fatal("payload never forwarded")
	}

	select {
	case _, ok := <-out:
		if ok {
			t.Fatal("expected closed out channel")
		}
	case <-time.After(time.Second):
		t.Fatal("out never closed after source closed")
	}
}
