package tracking

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/rcarvalho-pb/kyc_deposit-go/internal/application/contracts"
	"github.com/rcarvalho-pb/kyc_deposit-go/internal/domain/event"
	"github.com/rcarvalho-pb/kyc_deposit-go/internal/infra/logging"
)

const (
	PurchaseEvent   = "Purchase"
	DefaultCurrency = "BRL"
)

// ConversionTracker hands purchase conversions to the outbox. Recording
// failures are logged and dropped.
type ConversionTracker struct {
	Recorder contracts.EventRecorder
	Logger   logging.Logger
	Currency string
	Now      func() time.Time
}

// TrackPurchase records even when the session that settled the charge has
// already been torn down.
func (t *ConversionTracker) TrackPurchase(_ context.Context, value decimal.Decimal) {
	currency := t.Currency
	if currency == "" {
		currency = DefaultCurrency
	}

	now := time.Now
	if t.Now != nil {
		now = t.Now
	}

	err := t.Recorder.Record(event.Event{
		Type: event.ConversionTracked,
		Payload: event.ConversionPayload{
			EventName: PurchaseEvent,
			Value:     value,
			Currency:  currency,
		},
		OccurredAt: now(),
	})
	if err != nil {
		t.Logger.Error("conversion not recorded", map[string]any{
			"value": value.String(),
			"error": err.Error(),
		})
	}
}
