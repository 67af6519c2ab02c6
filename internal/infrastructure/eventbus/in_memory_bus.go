package eventbus

import (
	"errors"
	"sync"

	"github.com/rcarvalho-pb/kyc_deposit-go/internal/domain/event"
)

type HandlerFunc func(event.Event) error

// InMemoryBus delivers events synchronously, in subscription order. Handlers
// for the event type run before catch-all handlers. A failing handler does not
// stop delivery to the others; all errors are joined and returned.
type InMemoryBus struct {
	mu       sync.RWMutex
	handlers map[event.Type][]HandlerFunc
	all      []HandlerFunc
}

func NewInMemoryBus() *InMemoryBus {
	return &InMemoryBus{
		handlers: make(map[event.Type][]HandlerFunc),
	}
}

func (b *InMemoryBus) Subscribe(eventType event.Type, handler HandlerFunc) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.handlers[eventType] = append(b.handlers[eventType], handler)
}

// SubscribeAll registers a handler for every event type.
func (b *InMemoryBus) SubscribeAll(handler HandlerFunc) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.all = append(b.all, handler)
}

func (b *InMemoryBus) Publish(evt event.Event) error {
	b.mu.RLock()
	handlers := make([]HandlerFunc, 0, len(b.handlers[evt.Type])+len(b.all))
	handlers = append(handlers, b.handlers[evt.Type]...)
	handlers = append(handlers, b.all...)
	b.mu.RUnlock()

	var errs []error
	for _, handler := range handlers {
		if err := handler(evt); err != nil {
			errs = append(errs, err)
		}
	}

	return errors.Join(errs...)
}
