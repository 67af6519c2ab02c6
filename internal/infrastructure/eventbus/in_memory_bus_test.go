package eventbus_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/rcarvalho-pb/kyc_deposit-go/internal/domain/event"
	"github.com/rcarvalho-pb/kyc_deposit-go/internal/infrastructure/eventbus"
)

func TestInMemoryBus_ShouldRouteByTypeThenCatchAll(t *testing.T) {
	bus := eventbus.NewInMemoryBus()
	var got []string

	bus.Subscribe(event.ChargeCreated, func(evt event.Event) error {
		got = append(got, "typed:"+string(evt.Type))
		return nil
	})
	bus.SubscribeAll(func(evt event.Event) error {
		got = append(got, "all:"+string(evt.Type))
		return nil
	})

	require.NoError(t, bus.Publish(event.Event{Type: event.ChargeCreated}))
	require.NoError(t, bus.Publish(event.Event{Type: event.SessionClosed}))

	require.Equal(t, []string{
		"typed:CHARGE_CREATED",
		"all:CHARGE_CREATED",
		"all:SESSION_CLOSED",
	}, got)
}

func TestInMemoryBus_WhenHandlerFails_ShouldStillDeliverToOthers(t *testing.T) {
	bus := eventbus.NewInMemoryBus()
	boom := errors.New("boom")
	delivered := 0

	bus.Subscribe(event.PaymentDetected, func(event.Event) error { return boom })
	bus.SubscribeAll(func(event.Event) error {
		delivered++
		return nil
	})

	err := bus.Publish(event.Event{Type: event.PaymentDetected})

	require.ErrorIs(t, err, boom)
	require.Equal(t, 1, delivered)
}

func TestInMemoryBus_HandlerMaySubscribeDuringPublish(t *testing.T) {
	bus := eventbus.NewInMemoryBus()

	bus.SubscribeAll(func(event.Event) error {
		bus.Subscribe(event.SessionOpened, func(event.Event) error { return nil })
		return nil
	})

	require.NoError(t, bus.Publish(event.Event{Type: event.SessionOpened}))
}
