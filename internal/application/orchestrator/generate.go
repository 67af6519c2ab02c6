package orchestrator

import (
	"context"
	"fmt"
	"time"

	"github.com/rcarvalho-pb/kyc_deposit-go/internal/domain/charge"
	"github.com/rcarvalho-pb/kyc_deposit-go/internal/domain/event"
	"github.com/rcarvalho-pb/kyc_deposit-go/internal/domain/session"
)

// Generate requests a charge for the configured deposit amount. On success the
// session waits for payment and polls immediately, then every PollPeriod. On
// failure the session returns to StepIdle and the error wraps ErrGenerationFailed;
// calling Generate again retries.
func (o *Orchestrator) Generate(ctx context.Context) (charge.Charge, error) {
	o.mu.Lock()
	s := o.sess
	if s == nil {
		o.mu.Unlock()
		return charge.Charge{}, ErrNotOpen
	}
	if s.closing != nil {
		o.mu.Unlock()
		return charge.Charge{}, ErrClosing
	}
	if !s.step.CanGenerate() {
		step := s.step
		o.mu.Unlock()
		return charge.Charge{}, fmt.Errorf("%w: %s", ErrInvalidStep, step)
	}

	s.step = session.StepGenerating
	s.charge = nil
	s.lastErr = ""
	s.polls, s.failures = 0, 0
	s.retryAt = time.Time{}
	amount := o.Config.DepositAmount
	o.mu.Unlock()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	stop := context.AfterFunc(s.ctx, cancel)
	defer stop()

	created, err := o.Charges.CreatePix(ctx, amount)

	o.mu.Lock()
	if o.sess != s {
		o.mu.Unlock()
		return charge.Charge{}, ErrSessionClosed
	}

	if err != nil {
		s.step = session.StepIdle
		s.lastErr = err.Error()
		o.mu.Unlock()

		o.Metrics.IncGenerationFailed()
		o.logger().Error("charge generation failed", map[string]any{
			"session-id": s.id,
			"owner":      o.Owner,
			"amount":     amount.String(),
			"error":      err.Error(),
		})
		o.publish(s, event.ChargeGenerationFailed, event.GenerationFailedPayload{Reason: err.Error()})
		return charge.Charge{}, fmt.Errorf("%w: %w", ErrGenerationFailed, err)
	}

	s.step = session.StepAwaitingPayment
	s.charge = &created
	s.poll = s.tasks.Every(o.Config.PollPeriod, func() { o.pollOnce(s) })
	o.mu.Unlock()

	o.Metrics.IncChargeCreated()
	o.logger().Info("charge created", map[string]any{
		"session-id":     s.id,
		"owner":          o.Owner,
		"transaction-id": created.TransactionID,
		"amount":         created.Amount.String(),
	})
	o.publish(s, event.ChargeCreated, event.ChargePayload{
		TransactionID: created.TransactionID,
		Amount:        created.Amount,
	})

	o.pollOnce(s)

	return created, nil
}
