// Package orchestrator drives the verification deposit flow: it creates a
// charge, polls its status and resolves a confirmed payment into a declined or
// successful outcome according to an attempt-based policy.
//
// Session state is written only while holding the orchestrator's lock and every
// timer belongs to the session's scheduler group, so closing a session cancels
// all pending work. Calls to the charge service, the tracker and the caller's
// callbacks happen outside the lock.
package orchestrator

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/rcarvalho-pb/kyc_deposit-go/internal/application/scheduler"
	"github.com/rcarvalho-pb/kyc_deposit-go/internal/domain/charge"
	"github.com/rcarvalho-pb/kyc_deposit-go/internal/domain/event"
	"github.com/rcarvalho-pb/kyc_deposit-go/internal/domain/session"
	"github.com/rcarvalho-pb/kyc_deposit-go/internal/infra/clock"
	"github.com/rcarvalho-pb/kyc_deposit-go/internal/infra/logging"
	"github.com/rcarvalho-pb/kyc_deposit-go/internal/infra/metrics"
)

type Orchestrator struct {
	Owner    string
	Charges  charge.Service
	Tracker  Tracker
	Policy   session.OutcomePolicy
	EventBus EventPublisher
	Clock    clock.Clock
	Logger   logging.Logger
	Metrics  *metrics.Counters
	Config   Config

	mu   sync.Mutex
	sess *activeSession
}

type activeSession struct {
	id        string
	attempt   int
	callbacks Callbacks

	step      session.Step
	charge    *charge.Charge
	polls     int
	failures  int
	retryAt   time.Time
	remaining int
	lastErr   string

	tasks     *scheduler.Group
	poll      *scheduler.Task
	countdown *scheduler.Task
	closing   *scheduler.Task

	ctx    context.Context
	cancel context.CancelFunc
}

// Open starts a session in StepIdle for the given 1-indexed attempt.
func (o *Orchestrator) Open(attemptNumber int, callbacks Callbacks) (session.Snapshot, error) {
	if attemptNumber < 1 {
		return session.Snapshot{}, ErrInvalidAttempt
	}

	o.mu.Lock()
	if o.sess != nil {
		o.mu.Unlock()
		return session.Snapshot{}, ErrAlreadyOpen
	}

	ctx, cancel := context.WithCancel(context.Background())
	s := &activeSession{
		id:        uuid.NewString(),
		attempt:   attemptNumber,
		callbacks: callbacks,
		step:      session.StepIdle,
		tasks:     scheduler.NewGroup(o.clock()),
		ctx:       ctx,
		cancel:    cancel,
	}
	o.sess = s
	snap := o.snapshotLocked()
	o.mu.Unlock()

	o.Metrics.IncSessionOpened()
	o.logger().Info("deposit session opened", map[string]any{
		"session-id": s.id,
		"owner":      o.Owner,
		"attempt":    attemptNumber,
	})
	o.publish(s, event.SessionOpened, event.SessionOpenedPayload{AttemptNumber: attemptNumber})

	return snap, nil
}

// Close tears the session down from any step: pending timers are cancelled,
// in-flight service calls are abandoned and the charge is discarded. The
// caller's OnClose is not invoked, the caller is the one closing.
func (o *Orchestrator) Close() {
	o.mu.Lock()
	s := o.sess
	if s == nil {
		o.mu.Unlock()
		return
	}
	step := s.step
	o.teardownLocked(s)
	o.mu.Unlock()

	o.afterTeardown(s, step, "closed by caller")
}

func (o *Orchestrator) Snapshot() session.Snapshot {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.snapshotLocked()
}

func (o *Orchestrator) snapshotLocked() session.Snapshot {
	s := o.sess
	if s == nil {
		return session.Snapshot{Owner: o.Owner, Step: session.StepIdle}
	}

	snap := session.Snapshot{
		SessionID:          s.id,
		Owner:              o.Owner,
		Open:               true,
		Step:               s.step,
		AttemptNumber:      s.attempt,
		ConversionTracked:  s.step.HasDetectedPayment(),
		CountdownRemaining: s.remaining,
		Polls:              s.polls,
		LastError:          s.lastErr,
	}
	if s.charge != nil {
		c := *s.charge
		snap.Charge = &c
	}
	return snap
}

func (o *Orchestrator) teardownLocked(s *activeSession) {
	s.tasks.CancelAll()
	s.cancel()
	s.poll, s.countdown, s.closing = nil, nil, nil
	s.charge = nil
	s.step = session.StepIdle
	s.remaining = 0
	o.sess = nil
}

func (o *Orchestrator) afterTeardown(s *activeSession, from session.Step, reason string) {
	o.Metrics.IncSessionClosed()
	o.logger().Info("deposit session closed", map[string]any{
		"session-id": s.id,
		"owner":      o.Owner,
		"from-step":  string(from),
		"reason":     reason,
	})
	o.publish(s, event.SessionClosed, nil)
}

// autoClose ends a session after its outcome was shown.
func (o *Orchestrator) autoClose(s *activeSession) {
	o.mu.Lock()
	if o.sess != s {
		o.mu.Unlock()
		return
	}
	step := s.step
	onClose := s.callbacks.OnClose
	o.teardownLocked(s)
	o.mu.Unlock()

	o.afterTeardown(s, step, "outcome displayed")
	if onClose != nil {
		onClose()
	}
}

func (o *Orchestrator) publish(s *activeSession, t event.Type, payload any) {
	if o.EventBus == nil {
		return
	}

	err := o.EventBus.Publish(event.Event{
		Type:       t,
		SessionID:  s.id,
		Owner:      o.Owner,
		Payload:    payload,
		OccurredAt: o.clock().Now(),
	})
	if err != nil {
		o.logger().Error("publish event failed", map[string]any{
			"session-id": s.id,
			"event-type": string(t),
			"error":      err.Error(),
		})
	}
}

func (o *Orchestrator) clock() clock.Clock {
	if o.Clock == nil {
		return clock.System{}
	}
	return o.Clock
}

func (o *Orchestrator) logger() logging.Logger {
	if o.Logger == nil {
		return logging.Nop{}
	}
	return o.Logger
}

func (o *Orchestrator) policy() session.OutcomePolicy {
	if o.Policy == nil {
		return session.DeclineFirstAttempt
	}
	return o.Policy
}
