package kafka

import (
	"context"
	"errors"
	"testing"
	"time"

	"docemania/config"
	"docemania/infras/otel/mocks"

	kafkaGo "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
)

func fastRetries(t *testing.T) {
	t.Helper()

	previous := consumerRetryWait
	consumerRetryWait = time.Millisecond

	t.Cleanup(func() { consumerRetryWait = previous })
}

// failing returns a handler that fails the first n calls and counts every call.
func failing(n int, calls *int) Handler {
	return func(context.Context, kafkaGo.Message) error {
		*calls++
		if *calls <= n {
			return errors.New("notifier unavailable")
		}

		return nil
	}
}

func TestDeliver(t *testing.T) {
	fastRetries(t)

	msg := kafkaGo.Message{Topic: "bookings.created", Offset: 42}

	t.Run("retries until the handler succeeds", func(t *testing.T) {
		calls, parked := 0, 0

		err := deliver(context.Background(), msg, failing(2, &calls), func(context.Context, kafkaGo.Message, error) error {
			parked++

			return nil
		})

		assert.NoError(t, err)
		assert.Equal(t, 3, calls)
		assert.Zero(t, parked)
	})

	t.Run("dead-letters after the last attempt", func(t *testing.T) {
		calls := 0

		var cause error

		err := deliver(context.Background(), msg, failing(100, &calls), func(_ context.Context, _ kafkaGo.Message, err error) error {
			cause = err

			return nil
		})

		assert.NoError(t, err)
		assert.Equal(t, consumerMaxAttempts, calls)
		assert.EqualError(t, cause, "notifier unavailable")
	})

	t.Run("keeps the message while it cannot be parked", func(t *testing.T) {
		calls, parks := 0, 0

		err := deliver(context.Background(), msg, failing(consumerMaxAttempts+1, &calls), func(context.Context, kafkaGo.Message, error) error {
			parks++

			return ErrNoDeadLetter
		})

		assert.NoError(t, err)
		assert.Equal(t, consumerMaxAttempts+2, calls)
		assert.Equal(t, 2, parks)
	})

	t.Run("stops unsettled when the context ends", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		calls := 0

		handler := func(context.Context, kafkaGo.Message) error {
			calls++
			cancel()

			return errors.New("notifier unavailable")
		}

		err := deliver(ctx, msg, handler, func(context.Context, kafkaGo.Message, error) error {
			return ErrNoDeadLetter
		})

		assert.ErrorIs(t, err, context.Canceled)
		assert.Equal(t, 1, calls)
	})
}

func TestWait(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	start := time.Now()
	assert.ErrorIs(t, wait(ctx, time.Hour), context.Canceled)
	assert.Less(t, time.Since(start), time.Second)

	assert.NoError(t, wait(context.Background(), time.Millisecond))
}

func TestDeadLetter_Unconfigured(t *testing.T) {
	client, ok := New(&config.Config{}, mocks.NewOtel()).(*kafkaClientImpl)
	assert.True(t, ok)

	err := client.deadLetter(context.Background(), kafkaGo.Message{Topic: "bookings.created"}, errors.New("boom"))
	assert.ErrorIs(t, err, ErrNoDeadLetter)
}
