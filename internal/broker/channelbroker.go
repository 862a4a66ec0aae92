package broker

import (
	"context"

	"github.com/myrjola/reaksi/internal/errors"
)

var ErrStopped = errors.NewSentinel("broker stopped")

type publication[TID comparable, TPayload any] struct {
	id      TID
	channel chan TPayload
}

type subscription[TID comparable, TPayload any] struct {
	id      TID
	channel chan chan TPayload
}

// ChannelBroker passes a channel with ID from producer to the first consumer.
// The subsequent consumers block until the producer unpublishes so that they
// can resolve the situation, e.g., by reading the persisted result.
//
// The producer is the goroutine evaluating a submission. The first consumer is
// the HTTP handler waiting for the result. Subsequent consumers are usually page
// reloads; they wait for the producer to finish and read the stored submission.
type ChannelBroker[TID comparable, TPayload any] struct {
	done      chan struct{}
	publish   chan publication[TID, TPayload]
	unpublish chan TID
	subscribe chan subscription[TID, TPayload]
}

// NewChannelBroker creates a ChannelBroker. It does nothing before [ChannelBroker.Run] is called.
func NewChannelBroker[TID comparable, TPayload any]() *ChannelBroker[TID, TPayload] {
	return &ChannelBroker[TID, TPayload]{
		done:      make(chan struct{}),
		publish:   make(chan publication[TID, TPayload]),
		unpublish: make(chan TID),
		subscribe: make(chan subscription[TID, TPayload]),
	}
}

// Run handles publish, unpublish and subscribe events until ctx is done. Waiting subscribers are released when it
// returns and later calls never block.
func (b *ChannelBroker[TID, TPayload]) Run(ctx context.Context) error {
	published := map[TID]chan TPayload{}
	waiting := map[TID][]chan chan TPayload{}
	defer func() {
		close(b.done)
		for _, subscribers := range waiting {
			for _, s := range subscribers {
				close(s)
			}
		}
	}()
	for {
		select {
		case <-ctx.Done():
			return nil

		case s := <-b.subscribe:
			c, ok := published[s.id]
			if !ok {
				// The producer is finished or hasn't started.
				close(s.channel)
				break
			}
			if _, claimed := waiting[s.id]; !claimed {
				s.channel <- c
				close(s.channel)
				waiting[s.id] = []chan chan TPayload{}
				break
			}
			waiting[s.id] = append(waiting[s.id], s.channel)

		case p := <-b.publish:
			published[p.id] = p.channel

		case id := <-b.unpublish:
			for _, s := range waiting[id] {
				close(s)
			}
			delete(published, id)
			delete(waiting, id)
		}
	}
}

// Subscribe to the channel with ID.
//
// The first subscriber receives the published channel. The returned channel is closed without a value when nothing
// is published with the ID. Subsequent subscribers get a channel that is closed when the producer unpublishes.
func (b *ChannelBroker[TID, TPayload]) Subscribe(id TID) <-chan chan TPayload {
	channel := make(chan chan TPayload, 1)
	select {
	case b.subscribe <- subscription[TID, TPayload]{id: id, channel: channel}:
	case <-b.done:
		close(channel)
	}
	return channel
}

// Publish the channel with ID. The channel will be sent to the first subscriber.
func (b *ChannelBroker[TID, TPayload]) Publish(id TID, channel chan TPayload) error {
	select {
	case b.publish <- publication[TID, TPayload]{id: id, channel: channel}:
		return nil
	case <-b.done:
		return ErrStopped
	}
}

// Unpublish the channel with ID and release the waiting subscribers. The producer should have finished writing to
// the channel, since subscribers arriving after this never receive it.
func (b *ChannelBroker[TID, TPayload]) Unpublish(id TID) {
	select {
	case b.unpublish <- id:
	case <-b.done:
	}
}
