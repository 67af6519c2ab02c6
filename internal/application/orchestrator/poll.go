package orchestrator

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/rcarvalho-pb/kyc_deposit-go/internal/domain/event"
	"github.com/rcarvalho-pb/kyc_deposit-go/internal/domain/session"
)

// pollOnce checks the status of the session's charge. Only the first paid
// result observed while the session is still awaiting payment moves it on.
func (o *Orchestrator) pollOnce(s *activeSession) {
	o.mu.Lock()
	if o.sess != s || s.step != session.StepAwaitingPayment || s.charge == nil {
		o.mu.Unlock()
		return
	}
	if !s.retryAt.IsZero() && o.clock().Now().Before(s.retryAt) {
		o.mu.Unlock()
		return
	}
	s.polls++
	txID := s.charge.TransactionID
	o.mu.Unlock()

	ctx := s.ctx
	if o.Config.PollTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, o.Config.PollTimeout)
		defer cancel()
	}

	result, err := o.Charges.CheckStatus(ctx, txID)

	o.mu.Lock()
	if o.sess != s || s.step != session.StepAwaitingPayment || s.charge == nil || s.charge.TransactionID != txID {
		o.mu.Unlock()
		return
	}

	if err != nil {
		s.failures++
		failures := s.failures
		if delay := o.Config.FailureBackoff.Delay(failures); delay > 0 {
			s.retryAt = o.clock().Now().Add(delay)
		}
		polls, expired := s.polls, o.expireIfExhaustedLocked(s)
		o.mu.Unlock()

		o.Metrics.IncPoll("error")
		o.logger().Warn("status check failed", map[string]any{
			"session-id":     s.id,
			"transaction-id": txID,
			"failures":       failures,
			"error":          err.Error(),
		})
		if expired {
			o.onExpired(s, txID, polls)
		}
		return
	}

	s.failures = 0
	s.retryAt = time.Time{}

	if !result.IsPaid() {
		polls, expired := s.polls, o.expireIfExhaustedLocked(s)
		o.mu.Unlock()

		o.Metrics.IncPoll("pending")
		if expired {
			o.onExpired(s, txID, polls)
		}
		return
	}

	s.poll.Cancel()
	s.poll = nil
	s.step = session.StepProcessing
	s.tasks.After(o.Config.SettleDelay, func() { o.settle(s) })
	polls := s.polls
	o.mu.Unlock()

	o.Metrics.IncPoll("paid")
	o.logger().Info("payment detected", map[string]any{
		"session-id":     s.id,
		"transaction-id": txID,
		"value":          result.Value.String(),
		"polls":          polls,
	})
	o.track(s, result.Value)
	o.publish(s, event.PaymentDetected, event.PaymentDetectedPayload{
		TransactionID: txID,
		Value:         result.Value,
		Polls:         polls,
	})
}

// expireIfExhaustedLocked stops polling once MaxPolls checks went unconfirmed.
func (o *Orchestrator) expireIfExhaustedLocked(s *activeSession) bool {
	if o.Config.MaxPolls == 0 || s.polls < o.Config.MaxPolls {
		return false
	}
	s.poll.Cancel()
	s.poll = nil
	s.step = session.StepExpired
	s.lastErr = ErrPollingExhausted.Error()
	return true
}

func (o *Orchestrator) onExpired(s *activeSession, txID string, polls int) {
	o.logger().Warn("polling stopped without confirmation", map[string]any{
		"session-id":     s.id,
		"transaction-id": txID,
		"polls":          polls,
	})
	o.publish(s, event.PollingExpired, event.PollingExpiredPayload{TransactionID: txID, Polls: polls})
}

func (o *Orchestrator) track(s *activeSession, value decimal.Decimal) {
	if o.Tracker == nil {
		return
	}
	o.Tracker.TrackPurchase(context.WithoutCancel(s.ctx), value)
	o.Metrics.IncConversionTracked()
}
