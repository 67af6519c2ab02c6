package outbox

import (
	"github.com/rcarvalho-pb/kyc_deposit-go/internal/domain/event"
	"github.com/rcarvalho-pb/kyc_deposit-go/internal/infra/logging"
)

// LogPublisher is the delivery target when no broker is configured.
type LogPublisher struct {
	Logger logging.Logger
}

func (p *LogPublisher) Publish(evt event.Event) error {
	p.Logger.Info("outbox event delivered", map[string]any{
		"event-type":  string(evt.Type),
		"session-id":  evt.SessionID,
		"owner":       evt.Owner,
		"payload":     evt.Payload,
		"occurred-at": evt.OccurredAt,
	})
	return nil
}
