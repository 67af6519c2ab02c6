package outbox

import (
	"time"

	"github.com/rcarvalho-pb/kyc_deposit-go/internal/domain/event"
)

// OutboxEvent is an event waiting for delivery. SessionID and Owner keep the
// attribution of the original event.
type OutboxEvent struct {
	ID        string
	Type      event.Type
	SessionID string
	Owner     string
	Payload   []byte
	Published bool
	CreatedAt time.Time
}

type Repository interface {
	Save(OutboxEvent) error
	FindUnpublished(int) ([]OutboxEvent, error)
	MarkPublished(string) error
}
