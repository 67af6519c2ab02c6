package outbox

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/rcarvalho-pb/kyc_deposit-go/internal/domain/event"
)

// Recorder persists events so the Dispatcher can deliver them later.
type Recorder struct {
	Repo Repository
	Now  func() time.Time
}

func (r *Recorder) Record(evt event.Event) error {
	payload, err := json.Marshal(evt.Payload)
	if err != nil {
		return fmt.Errorf("encode %s payload: %w", evt.Type, err)
	}

	createdAt := evt.OccurredAt
	if createdAt.IsZero() {
		createdAt = r.now()
	}

	return r.Repo.Save(OutboxEvent{
		ID:        uuid.NewString(),
		Type:      evt.Type,
		SessionID: evt.SessionID,
		Owner:     evt.Owner,
		Payload:   payload,
		CreatedAt: createdAt,
	})
}

func (r *Recorder) now() time.Time {
	if r.Now == nil {
		return time.Now()
	}
	return r.Now()
}
