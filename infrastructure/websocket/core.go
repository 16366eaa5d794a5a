package websocket

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/cheerioo/api/infrastructure/logger"
	"github.com/cheerioo/api/infrastructure/metrics"
	"github.com/cheerioo/api/infrastructure/realtime"
)

// Forward rate per bridged table. Clients refetch the whole table on every
// invalidation, so past this budget only the newest event matters.
const (
	forwardInterval   = 100 * time.Millisecond
	forwardBurst      = 20
	forwardFlushDelay = 250 * time.Millisecond
)

// HeartbeatRunner keeps a presence row fresh while a client stays connected.
type HeartbeatRunner interface {
	Start(ctx context.Context)
	Stop()
}

// HeartbeatFactory builds one runner per connected client. May be nil, in
// which case socket clients are expected to heartbeat over HTTP themselves.
type HeartbeatFactory func(eventID, userID string) HeartbeatRunner

var bridgedTables = []string{
	realtime.TableActivity,
	realtime.TablePresence,
	realtime.TableMessages,
}

// bridge is the fan-in from the realtime bus to one event's socket clients.
// One bridge exists per event with at least one connected client.
type bridge struct {
	handles []*realtime.Handle
	cancel  context.CancelFunc
}

type Core struct {
	eventMgr     *EventManager
	register     chan *Client
	unregister   chan *Client
	broadcast    chan *WSMessage
	registry     *realtime.Registry
	newHeartbeat HeartbeatFactory
	metrics      metrics.Manager
	logger       *logger.Logger

	bridges    map[string]*bridge
	heartbeats map[*Client]HeartbeatRunner

	shutdown chan struct{}
	wg       sync.WaitGroup
	once     sync.Once
}

func NewCore(registry *realtime.Registry, newHeartbeat HeartbeatFactory, manager metrics.Manager, logger *logger.Logger) *Core {
	return &Core{
		eventMgr:     NewEventManager(),
		register:     make(chan *Client),
		unregister:   make(chan *Client),
		broadcast:    make(chan *WSMessage, 256),
		registry:     registry,
		newHeartbeat: newHeartbeat,
		metrics:      manager,
		logger:       logger,
		bridges:      make(map[string]*bridge),
		heartbeats:   make(map[*Client]HeartbeatRunner),
		shutdown:     make(chan struct{}),
	}
}

func (c *Core) EventManager() *EventManager {
	return c.eventMgr
}

func (c *Core) Run(ctx context.Context) {
	defer c.wg.Wait()

	for {
		select {
		case <-ctx.Done():
			c.logger.Info("websocket core shutting down")
			c.Shutdown()
			return

		case <-c.shutdown:
			return

		case cl := <-c.register:
			if first := c.eventMgr.AddClient(cl); first {
				c.attachBridge(cl.EventID)
			}
			if c.metrics != nil {
				c.metrics.DeltaUpDownCounter(ctx, metrics.ActiveWSConnections, 1)
			}
			if c.newHeartbeat != nil {
				hb := c.newHeartbeat(cl.EventID, cl.UserID)
				hb.Start(ctx)
				c.heartbeats[cl] = hb
			}

		case cl := <-c.unregister:
			if hb, ok := c.heartbeats[cl]; ok {
				delete(c.heartbeats, cl)
				go hb.Stop()
			}
			if last := c.eventMgr.RemoveClient(cl); last {
				c.detachBridge(cl.EventID)
			}
			if c.metrics != nil {
				c.metrics.DeltaUpDownCounter(ctx, metrics.ActiveWSConnections, -1)
			}

		case msg := <-c.broadcast:
			if err := c.eventMgr.Broadcast(msg); err != nil {
				c.logger.Debug("broadcast to empty event", zap.String("event_id", msg.EventID))
			}
		}
	}
}

// attachBridge opens one shared subscription per bridged table and forwards
// change events to the event's clients as invalidation messages.
func (c *Core) attachBridge(eventID string) {
	ctx, cancel := context.WithCancel(context.Background())
	b := &bridge{cancel: cancel}

	for _, table := range bridgedTables {
		handle, err := c.registry.Subscribe(ctx, eventID, table)
		if err != nil {
			c.logger.Error("failed to attach realtime bridge",
				zap.String("event_id", eventID),
				zap.String("table", table),
				zap.Error(err))
			continue
		}
		b.handles = append(b.handles, handle)

		c.wg.Add(1)
		go c.forward(ctx, eventID, table, handle)
	}

	c.bridges[eventID] = b
}

func (c *Core) detachBridge(eventID string) {
	b, ok := c.bridges[eventID]
	if !ok {
		return
	}
	delete(c.bridges, eventID)

	b.cancel()
	for _, h := range b.handles {
		h.Close()
	}
}

func (c *Core) forward(ctx context.Context, eventID, table string, handle *realtime.Handle) {
	defer c.wg.Done()

	limiter := rate.NewLimiter(rate.Every(forwardInterval), forwardBurst)
	var pending *realtime.ChangeEvent
	var flush *time.Timer
	var flushC <-chan time.Time

	deliver := func(evt realtime.ChangeEvent) bool {
		msg := NewInvalidation(eventID, evt.Table, evt.Action, evt.RecordID, evt.Timestamp.Format(time.RFC3339))
		select {
		case c.broadcast <- msg:
			if c.metrics != nil {
				c.metrics.IncrementCounter(ctx, metrics.RealtimeEventsForwarded, "table", evt.Table)
			}
			return true
		case <-ctx.Done():
			return false
		}
	}

	for {
		select {
		case <-ctx.Done():
			if flush != nil {
				flush.Stop()
			}
			return

		case evt, ok := <-handle.Events():
			if !ok {
				return
			}
			if limiter.Allow() {
				pending = nil
				if !deliver(evt) {
					return
				}
				continue
			}
			// Over budget: hold the newest event and flush it trailing-edge.
			pending = &evt
			if flushC == nil {
				flush = time.NewTimer(forwardFlushDelay)
				flushC = flush.C
			}

		case <-flushC:
			flushC = nil
			if pending != nil {
				evt := *pending
				pending = nil
				if !deliver(evt) {
					return
				}
			}

		case <-handle.Lost():
			// The bus could not be restored: tell clients so they fall back
			// to polling instead of waiting for invalidations forever.
			select {
			case c.broadcast <- NewConnectionLost(eventID, table):
			case <-ctx.Done():
			}
			return
		}
	}
}

func (c *Core) Register() chan<- *Client {
	return c.register
}

func (c *Core) Unregister() chan<- *Client {
	return c.unregister
}

func (c *Core) Broadcast() chan<- *WSMessage {
	return c.broadcast
}

func (c *Core) Shutdown() {
	c.once.Do(func() {
		close(c.shutdown)

		for id := range c.bridges {
			c.detachBridge(id)
		}
		for cl, hb := range c.heartbeats {
			delete(c.heartbeats, cl)
			hb.Stop()
		}

		c.eventMgr.DisconnectAll()
	})
}
