package orchestrator

import (
	"github.com/rcarvalho-pb/kyc_deposit-go/internal/domain/event"
	"github.com/rcarvalho-pb/kyc_deposit-go/internal/domain/session"
)

// settle resolves a detected payment once the settle delay has passed.
func (o *Orchestrator) settle(s *activeSession) {
	o.mu.Lock()
	if o.sess != s || s.step != session.StepProcessing {
		o.mu.Unlock()
		return
	}

	outcome := o.policy()(s.attempt)
	payload := event.OutcomePayload{AttemptNumber: s.attempt}
	if s.charge != nil {
		payload.TransactionID = s.charge.TransactionID
	}

	var onComplete func()
	if outcome == session.OutcomeDeclined {
		s.step = session.StepDeclined
		s.remaining = o.Config.countdownSeconds()
		if s.remaining > 0 {
			s.countdown = s.tasks.Every(o.Config.CountdownTick, func() { o.countdownTick(s) })
		}
		s.tasks.After(o.Config.DeclineDisplay, func() { o.declineExpired(s) })
	} else {
		s.step = session.StepSuccess
		s.closing = s.tasks.After(o.Config.CloseDelay, func() { o.autoClose(s) })
		onComplete = s.callbacks.OnComplete
	}
	o.mu.Unlock()

	o.Metrics.IncOutcome(string(outcome))
	o.logger().Info("verification resolved", map[string]any{
		"session-id": s.id,
		"owner":      o.Owner,
		"attempt":    payload.AttemptNumber,
		"outcome":    string(outcome),
	})

	if outcome == session.OutcomeDeclined {
		o.publish(s, event.VerificationDeclined, payload)
		return
	}

	o.publish(s, event.VerificationSucceeded, payload)
	o.publish(s, event.VerificationCompleted, payload)
	if onComplete != nil {
		onComplete()
	}
}

func (o *Orchestrator) countdownTick(s *activeSession) {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.sess != s || s.step != session.StepDeclined {
		return
	}
	if s.remaining > 0 {
		s.remaining--
	}
	if s.remaining == 0 {
		s.countdown.Cancel()
		s.countdown = nil
	}
}

// declineExpired reports the failure to the caller, resets the session to
// StepIdle and schedules the modal to close.
func (o *Orchestrator) declineExpired(s *activeSession) {
	o.mu.Lock()
	if o.sess != s || s.step != session.StepDeclined {
		o.mu.Unlock()
		return
	}
	s.countdown.Cancel()
	s.countdown = nil
	s.remaining = 0
	onFailed := s.callbacks.OnFailed
	payload := event.OutcomePayload{AttemptNumber: s.attempt}
	if s.charge != nil {
		payload.TransactionID = s.charge.TransactionID
	}
	o.mu.Unlock()

	o.publish(s, event.VerificationFailed, payload)
	if onFailed != nil {
		onFailed()
	}

	o.mu.Lock()
	defer o.mu.Unlock()

	// the callback may have closed the session already
	if o.sess != s {
		return
	}
	s.step = session.StepIdle
	s.charge = nil
	s.polls = 0
	s.closing = s.tasks.After(o.Config.CloseDelay, func() { o.autoClose(s) })
}
