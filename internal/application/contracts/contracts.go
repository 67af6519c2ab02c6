package contracts

import "github.com/rcarvalho-pb/kyc_deposit-go/internal/domain/event"

// EventRecorder persists an event for later delivery.
type EventRecorder interface {
	Record(event.Event) error
}
