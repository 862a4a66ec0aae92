package broker_test

import (
	"context"
	"sync/atomic"
	"testing"

	"github.com/myrjola/reaksi/internal/broker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChannelBroker(t *testing.T) {
	type testCase struct {
		name     string
		testFunc func(t *testing.T, b *broker.ChannelBroker[string, string])
	}
	tests := []testCase{
		{
			name: "subscriber receives content",
			testFunc: func(t *testing.T, b *broker.ChannelBroker[string, string]) {
				id := "task"
				channel := make(chan string)
				require.NoError(t, b.Publish(id, channel))
				go func() {
					channel <- "hello"
					close(channel)
					b.Unpublish(id)
				}()
				subscriptionChan := <-b.Subscribe(id)
				require.Equal(t, "hello", <-subscriptionChan, "subscriber did not receive content")
				msg, ok := <-subscriptionChan
				require.Empty(t, msg, "subscriber received content after producer closed")
				require.False(t, ok, "channel not closed")
			},
		},
		{
			name: "unknown id closes subscription",
			testFunc: func(t *testing.T, b *broker.ChannelBroker[string, string]) {
				c, ok := <-b.Subscribe("unknown")
				require.Nil(t, c)
				require.False(t, ok)
			},
		},
		{
			name: "subsequent subscribers block until producer is finished",
			testFunc: func(t *testing.T, b *broker.ChannelBroker[string, string]) {
				id := "task"
				channel := make(chan string)
				require.NoError(t, b.Publish(id, channel))
				producerFinished := atomic.Bool{}

				subscriptionChan := <-b.Subscribe(id)
				require.NotNil(t, subscriptionChan)

				nextDone := make(chan struct{})
				go func() {
					defer close(nextDone)
					nextSubscriptionChan, ok := <-b.Subscribe(id)
					assert.Nil(t, nextSubscriptionChan, "subsequent subscriber received content")
					assert.False(t, ok, "channel not closed to signal producer is finished")
					assert.True(t, producerFinished.Load(), "producer not finished before subsequent subscriber unblocked")
				}()

				go func() {
					channel <- "hello"
					close(channel)
					producerFinished.Store(true)
					b.Unpublish(id)
				}()
				require.Equal(t, "hello", <-subscriptionChan, "subscriber did not receive content")
				<-nextDone

				lastSubscriptionChan, ok := <-b.Subscribe(id)
				require.Nil(t, lastSubscriptionChan, "last subscriber received content")
				require.False(t, ok, "last subscriber channel not closed")
				require.True(t, producerFinished.Load())
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx, cancel := context.WithCancel(context.Background())
			br := broker.NewChannelBroker[string, string]()
			done := make(chan error)
			go func() { done <- br.Run(ctx) }()
			t.Cleanup(func() {
				cancel()
				require.NoError(t, <-done)
			})
			tt.testFunc(t, br)
		})
	}
}

func TestChannelBroker_stopped(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	br := broker.NewChannelBroker[string, int]()
	done := make(chan error)
	go func() { done <- br.Run(ctx) }()

	require.NoError(t, br.Publish("task", make(chan int)))
	<-br.Subscribe("task")
	waiting := br.Subscribe("task")

	cancel()
	require.NoError(t, <-done)

	_, ok := <-waiting
	require.False(t, ok, "waiting subscriber released at shutdown")
	require.ErrorIs(t, br.Publish("other", make(chan int)), broker.ErrStopped)
	_, ok = <-br.Subscribe("other")
	require.False(t, ok)
	br.Unpublish("task")
}
