package eventbus_test

import (
	"context"
	"errors"
	"log/slog"
	"testing"

	infraeventbus "github.com/amirasaad/affiliates/infra/eventbus"
	"github.com/amirasaad/affiliates/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testEvent struct{ name string }

func (e testEvent) Type() string { return e.name }

func TestPublishDispatchesToSubscribers(t *testing.T) {
	bus := infraeventbus.NewWithMemory(slog.Default())

	var got []domain.Event
	bus.Subscribe("ping", func(ctx context.Context, e domain.Event) error {
		got = append(got, e)
		return nil
	})

	require.NoError(t, bus.Publish(context.Background(), testEvent{name: "ping"}))
	require.NoError(t, bus.Publish(context.Background(), testEvent{name: "other"}))

	require.Len(t, got, 1)
	assert.Equal(t, "ping", got[0].Type())
	assert.Len(t, bus.Published(), 2)
}

func TestFailingHandlerDoesNotStopOthers(t *testing.T) {
	bus := infraeventbus.NewWithMemory(slog.Default())

	var secondRan bool
	bus.Subscribe("ping", func(ctx context.Context, e domain.Event) error {
		return errors.New("handler failed")
	})
	bus.Subscribe("ping", func(ctx context.Context, e domain.Event) error {
		secondRan = true
		return nil
	})

	require.NoError(t, bus.Publish(context.Background(), testEvent{name: "ping"}))
	assert.True(t, secondRan)
}

func TestClearPublished(t *testing.T) {
	bus := infraeventbus.NewWithMemory(slog.Default())
	require.NoError(t, bus.Publish(context.Background(), testEvent{name: "ping"}))
	bus.ClearPublished()
	assert.Empty(t, bus.Published())
}
