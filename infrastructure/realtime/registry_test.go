package realtime

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/cheerioo/api/infrastructure/logger"
)

type fakeBus struct {
	mu      sync.Mutex
	opens   int
	closes  int
	streams map[string]chan []byte
}

func newFakeBus() *fakeBus {
	return &fakeBus{streams: make(map[string]chan []byte)}
}

func (b *fakeBus) open(ctx context.Context, channel string) (<-chan []byte, func() error, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.opens++
	stream := make(chan []byte, 8)
	b.streams[channel] = stream
	return stream, func() error {
		b.mu.Lock()
		defer b.mu.Unlock()
		b.closes++
		return nil
	}, nil
}

func (b *fakeBus) openCount() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.opens
}

func (b *fakeBus) closeCount() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.closes
}

func (b *fakeBus) publish(t *testing.T, channel string, payload []byte) {
	t.Helper()
	b.mu.Lock()
	stream, ok := b.streams[channel]
	b.mu.Unlock()
	if !ok {
		t.Fatalf("no open stream for channel %s", channel)
	}
	stream <- payload
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("condition not met before deadline")
}

func TestRegistrySharesUnderlyingSubscription(t *testing.T) {
	bus := newFakeBus()
	r := newRegistry(bus.open, logger.NewNop())
	ctx := context.Background()

	h1, err := r.Subscribe(ctx, "evt-1", TableActivity)
	if err != nil {
		t.Fatalf("subscribe: %v", err)
	}
	h2, err := r.Subscribe(ctx, "evt-1", TableActivity)
	if err != nil {
		t.Fatalf("subscribe: %v", err)
	}
	h3, err := r.Subscribe(ctx, "evt-1", TableActivity)
	if err != nil {
		t.Fatalf("subscribe: %v", err)
	}

	if got := bus.openCount(); got != 1 {
		t.Fatalf("expected 1 underlying subscription, got %d", got)
	}

	h1.Close()
	h2.Close()
	if got := bus.closeCount(); got != 0 {
		t.Fatalf("subscription torn down while a handle remained, closes=%d", got)
	}
	if got := len(r.ActiveChannels()); got != 1 {
		t.Fatalf("expected channel to stay active, got %d active", got)
	}

	h3.Close()
	waitFor(t, func() bool { return bus.closeCount() == 1 })
	if got := len(r.ActiveChannels()); got != 0 {
		t.Fatalf("expected no active channels after last close, got %d", got)
	}
}

func TestRegistryFansOutToEveryHandle(t *testing.T) {
	bus := newFakeBus()
	r := newRegistry(bus.open, logger.NewNop())
	ctx := context.Background()

	h1, _ := r.Subscribe(ctx, "evt-1", TableMessages)
	h2, _ := r.Subscribe(ctx, "evt-1", TableMessages)
	defer h1.Close()
	defer h2.Close()

	bus.publish(t, ChannelKey("evt-1", TableMessages),
		[]byte(`{"eventId":"evt-1","table":"messages","action":"insert","recordId":"m-1"}`))

	for _, h := range []*Handle{h1, h2} {
		select {
		case evt := <-h.Events():
			if evt.RecordID != "m-1" || evt.Action != ActionInsert {
				t.Fatalf("unexpected event: %+v", evt)
			}
		case <-time.After(time.Second):
			t.Fatal("handle never received the event")
		}
	}
}

func TestRegistrySeparateChannelsGetSeparateSubscriptions(t *testing.T) {
	bus := newFakeBus()
	r := newRegistry(bus.open, logger.NewNop())
	ctx := context.Background()

	h1, _ := r.Subscribe(ctx, "evt-1", TableActivity)
	h2, _ := r.Subscribe(ctx, "evt-1", TablePresence)
	h3, _ := r.Subscribe(ctx, "evt-2", TableActivity)
	defer h1.Close()
	defer h2.Close()
	defer h3.Close()

	if got := bus.openCount(); got != 3 {
		t.Fatalf("expected 3 underlying subscriptions, got %d", got)
	}
}

func TestRegistryReconnectsAfterStreamLoss(t *testing.T) {
	bus := newFakeBus()
	r := newRegistry(bus.open, logger.NewNop())
	r.baseBackoff = time.Millisecond
	ctx := context.Background()

	h, _ := r.Subscribe(ctx, "evt-1", TableActivity)
	defer h.Close()

	key := ChannelKey("evt-1", TableActivity)
	bus.mu.Lock()
	close(bus.streams[key])
	bus.mu.Unlock()

	waitFor(t, func() bool { return bus.openCount() == 2 })

	bus.publish(t, key, []byte(`{"eventId":"evt-1","table":"activity_records","action":"insert"}`))
	select {
	case evt := <-h.Events():
		if evt.Table != TableActivity {
			t.Fatalf("unexpected event after reconnect: %+v", evt)
		}
	case <-time.After(time.Second):
		t.Fatal("no event delivered after reconnect")
	}
}

func TestRegistryMarksHandlesLostWhenRetriesExhausted(t *testing.T) {
	var mu sync.Mutex
	opens := 0
	open := func(ctx context.Context, channel string) (<-chan []byte, func() error, error) {
		mu.Lock()
		defer mu.Unlock()
		opens++
		if opens > 1 {
			return nil, nil, context.DeadlineExceeded
		}
		stream := make(chan []byte)
		close(stream)
		return stream, func() error { return nil }, nil
	}

	r := newRegistry(open, logger.NewNop())
	r.baseBackoff = time.Millisecond
	r.maxRetries = 2

	h, err := r.Subscribe(context.Background(), "evt-1", TableActivity)
	if err != nil {
		t.Fatalf("subscribe: %v", err)
	}

	select {
	case <-h.Lost():
	case <-time.After(2 * time.Second):
		t.Fatal("handle never marked lost")
	}
	if got := len(r.ActiveChannels()); got != 0 {
		t.Fatalf("lost channel still active, got %d", got)
	}
}
