package realtime

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	mapset "github.com/deckarep/golang-set/v2"
	"go.uber.org/zap"

	"github.com/cheerioo/api/infrastructure/logger"
)

const (
	defaultMaxRetries  = 5
	defaultBaseBackoff = 500 * time.Millisecond
	handleBufferSize   = 64
)

// openFunc opens one underlying subscription for a channel. The returned
// stream is closed when the subscription dies; the closer tears it down.
type openFunc func(ctx context.Context, channel string) (<-chan []byte, func() error, error)

// Handle is one local subscriber's view of a shared channel subscription.
type Handle struct {
	channel  string
	events   chan ChangeEvent
	lost     chan struct{}
	lostOnce sync.Once
	closeFn  func()
}

// Events delivers change notifications. The channel is closed after Close.
func (h *Handle) Events() <-chan ChangeEvent { return h.events }

// Lost is closed when the underlying subscription could not be restored.
func (h *Handle) Lost() <-chan struct{} { return h.lost }

func (h *Handle) Close() { h.closeFn() }

func (h *Handle) markLost() {
	h.lostOnce.Do(func() { close(h.lost) })
}

type entry struct {
	refs    int
	handles map[*Handle]struct{}
	cancel  context.CancelFunc
}

// Registry multiplexes local subscribers over shared channel subscriptions.
// The first subscriber to a channel opens the underlying subscription, later
// ones piggyback on it, and the last one to leave tears it down.
type Registry struct {
	mu      sync.Mutex
	entries map[string]*entry
	active  mapset.Set[string]

	open        openFunc
	logger      *logger.Logger
	maxRetries  int
	baseBackoff time.Duration
}

func NewRegistry(client redisSubscriber, logger *logger.Logger) *Registry {
	return newRegistry(redisOpen(client), logger)
}

func newRegistry(open openFunc, logger *logger.Logger) *Registry {
	return &Registry{
		entries:     make(map[string]*entry),
		active:      mapset.NewSet[string](),
		open:        open,
		logger:      logger,
		maxRetries:  defaultMaxRetries,
		baseBackoff: defaultBaseBackoff,
	}
}

// ActiveChannels reports the channels with a live underlying subscription.
func (r *Registry) ActiveChannels() []string {
	return r.active.ToSlice()
}

// Subscribe attaches a new handle to the channel for (eventID, table),
// opening the underlying subscription if this is the first handle.
func (r *Registry) Subscribe(ctx context.Context, eventID, table string) (*Handle, error) {
	channel := ChannelKey(eventID, table)

	r.mu.Lock()
	defer r.mu.Unlock()

	h := &Handle{
		channel: channel,
		events:  make(chan ChangeEvent, handleBufferSize),
		lost:    make(chan struct{}),
	}
	h.closeFn = func() { r.release(channel, h) }

	if e, ok := r.entries[channel]; ok {
		e.refs++
		e.handles[h] = struct{}{}
		return h, nil
	}

	runCtx, cancel := context.WithCancel(context.Background())
	e := &entry{
		refs:    1,
		handles: map[*Handle]struct{}{h: {}},
		cancel:  cancel,
	}
	r.entries[channel] = e
	r.active.Add(channel)

	stream, closer, err := r.open(ctx, channel)
	if err != nil {
		delete(r.entries, channel)
		r.active.Remove(channel)
		cancel()
		return nil, err
	}

	go r.pump(runCtx, channel, e, stream, closer)
	return h, nil
}

func (r *Registry) release(channel string, h *Handle) {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.entries[channel]
	if !ok {
		return
	}
	if _, member := e.handles[h]; !member {
		return
	}
	delete(e.handles, h)
	close(h.events)
	e.refs--
	if e.refs > 0 {
		return
	}
	delete(r.entries, channel)
	r.active.Remove(channel)
	e.cancel()
}

// pump reads the underlying stream and fans messages out to every handle.
// When the stream dies it reopens with exponential backoff; after all
// retries fail the remaining handles are marked lost.
func (r *Registry) pump(ctx context.Context, channel string, e *entry, stream <-chan []byte, closer func() error) {
	defer func() {
		if closer != nil {
			if err := closer(); err != nil {
				r.logger.Warn("failed to close subscription", zap.String("channel", channel), zap.Error(err))
			}
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return
		case payload, ok := <-stream:
			if !ok {
				stream = r.reopen(ctx, channel, &closer)
				if stream == nil {
					r.abandon(channel, e)
					return
				}
				continue
			}
			var evt ChangeEvent
			if err := json.Unmarshal(payload, &evt); err != nil {
				r.logger.Warn("dropping malformed change event", zap.String("channel", channel), zap.Error(err))
				continue
			}
			r.fanout(channel, evt)
		}
	}
}

func (r *Registry) reopen(ctx context.Context, channel string, closer *func() error) <-chan []byte {
	if *closer != nil {
		_ = (*closer)()
		*closer = nil
	}

	backoff := r.baseBackoff
	for attempt := 1; attempt <= r.maxRetries; attempt++ {
		select {
		case <-ctx.Done():
			return nil
		case <-time.After(backoff):
		}

		stream, c, err := r.open(ctx, channel)
		if err == nil {
			r.logger.Info("resubscribed after connection loss",
				zap.String("channel", channel),
				zap.Int("attempt", attempt))
			*closer = c
			return stream
		}
		r.logger.Warn("resubscribe attempt failed",
			zap.String("channel", channel),
			zap.Int("attempt", attempt),
			zap.Error(err))
		backoff *= 2
	}
	return nil
}

func (r *Registry) fanout(channel string, evt ChangeEvent) {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.entries[channel]
	if !ok {
		return
	}
	for h := range e.handles {
		select {
		case h.events <- evt:
		default:
			// Slow consumer: drop rather than stall the bus. Consumers
			// refetch state on the next event anyway.
		}
	}
}

func (r *Registry) abandon(channel string, e *entry) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if current, ok := r.entries[channel]; !ok || current != e {
		return
	}
	delete(r.entries, channel)
	r.active.Remove(channel)

	r.logger.Error("subscription lost permanently", zap.String("channel", channel))
	for h := range e.handles {
		h.markLost()
		close(h.events)
	}
}
