package realtime

import (
	"context"
	"sync"

	"github.com/redis/go-redis/v9"
)

// redisSubscriber is the slice of redis.Client the registry needs.
type redisSubscriber interface {
	Subscribe(ctx context.Context, channels ...string) *redis.PubSub
}

// redisOpen adapts a redis pub/sub subscription to the registry's openFunc.
func redisOpen(client redisSubscriber) openFunc {
	return func(ctx context.Context, channel string) (<-chan []byte, func() error, error) {
		ps := client.Subscribe(ctx, channel)
		if _, err := ps.Receive(ctx); err != nil {
			_ = ps.Close()
			return nil, nil, err
		}

		// done unblocks the forwarder if the consumer stops receiving
		// before the pub/sub channel closes.
		done := make(chan struct{})
		var once sync.Once
		closer := func() error {
			once.Do(func() { close(done) })
			return ps.Close()
		}

		out := make(chan []byte)
		go forwardPayloads(ps.Channel(), out, done)

		return out, closer, nil
	}
}

// forwardPayloads copies pub/sub payloads to out until the source closes or
// done fires. The send also selects on done so a consumer that went away
// mid-message cannot strand this goroutine.
func forwardPayloads(in <-chan *redis.Message, out chan<- []byte, done <-chan struct{}) {
	defer close(out)

	for {
		select {
		case <-done:
			return
		case msg, ok := <-in:
			if !ok {
				return
			}
			select {
			case out <- []byte(msg.Payload):
			case <-done:
				return
			}
		}
	}
}
