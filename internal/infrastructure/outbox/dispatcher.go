package outbox

import (
	"context"
	"time"

	"github.com/rcarvalho-pb/kyc_deposit-go/internal/domain/event"
	"github.com/rcarvalho-pb/kyc_deposit-go/internal/infra/logging"
	"github.com/rcarvalho-pb/kyc_deposit-go/internal/infra/metrics"
)

type Publisher interface {
	Publish(event.Event) error
}

// Dispatcher delivers unpublished outbox events at least once. An event is
// marked published only after the publisher accepted it.
type Dispatcher struct {
	Repo         Repository
	Publisher    Publisher
	Logger       logging.Logger
	Metrics      *metrics.Counters
	PollInterval time.Duration
	BatchSize    int
}

func (d *Dispatcher) Run(ctx context.Context) {
	ticker := time.NewTicker(d.PollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			d.DispatchOnce()
		}
	}
}

// DispatchOnce delivers one batch and returns how many events were published.
func (d *Dispatcher) DispatchOnce() int {
	events, err := d.Repo.FindUnpublished(d.BatchSize)
	if err != nil {
		d.logger().Error("load outbox batch failed", map[string]any{"error": err.Error()})
		return 0
	}

	published := 0
	for _, evt := range events {
		payload, err := event.DecodePayload(evt.Type, evt.Payload)
		if err != nil {
			d.Metrics.IncOutboxDispatched("invalid")
			d.logger().Error("outbox payload undecodable", map[string]any{
				"outbox-id":  evt.ID,
				"event-type": string(evt.Type),
				"error":      err.Error(),
			})
			continue
		}

		domainEvent := event.Event{
			Type:       evt.Type,
			SessionID:  evt.SessionID,
			Owner:      evt.Owner,
			Payload:    payload,
			OccurredAt: evt.CreatedAt,
		}

		if err := d.Publisher.Publish(domainEvent); err != nil {
			d.Metrics.IncOutboxDispatched("error")
			d.logger().Warn("outbox publish failed", map[string]any{
				"outbox-id":  evt.ID,
				"event-type": string(evt.Type),
				"error":      err.Error(),
			})
			continue
		}

		if err := d.Repo.MarkPublished(evt.ID); err != nil {
			d.logger().Error("mark outbox event published failed", map[string]any{
				"outbox-id": evt.ID,
				"error":     err.Error(),
			})
			continue
		}

		d.Metrics.IncOutboxDispatched("published")
		published++
	}

	return published
}

func (d *Dispatcher) logger() logging.Logger {
	if d.Logger == nil {
		return logging.Nop{}
	}
	return d.Logger
}
