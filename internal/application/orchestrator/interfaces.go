package orchestrator

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/rcarvalho-pb/kyc_deposit-go/internal/domain/event"
)

type EventPublisher interface {
	Publish(event.Event) error
}

// Tracker receives the purchase conversion of a charge. It is fire-and-forget:
// implementations handle their own failures.
type Tracker interface {
	TrackPurchase(ctx context.Context, value decimal.Decimal)
}

// Callbacks are supplied by whoever opens a session. Nil callbacks are skipped.
type Callbacks struct {
	OnComplete func()
	OnFailed   func()
	OnClose    func()
}
