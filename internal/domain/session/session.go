package session

import "github.com/rcarvalho-pb/kyc_deposit-go/internal/domain/charge"

type Step string

const (
	StepIdle            Step = "IDLE"
	StepGenerating      Step = "GENERATING"
	StepAwaitingPayment Step = "AWAITING_PAYMENT"
	StepProcessing      Step = "PROCESSING"
	StepDeclined        Step = "DECLINED"
	StepSuccess         Step = "SUCCESS"
	StepExpired         Step = "EXPIRED"
)

// CanGenerate reports whether a new charge may be requested from this step.
func (s Step) CanGenerate() bool {
	return s == StepIdle || s == StepExpired
}

// HasDetectedPayment reports whether the current charge was already seen as paid.
func (s Step) HasDetectedPayment() bool {
	switch s {
	case StepProcessing, StepDeclined, StepSuccess:
		return true
	}
	return false
}

// Snapshot is a read-only copy of a session's state.
type Snapshot struct {
	SessionID          string         `json:"session_id,omitempty"`
	Owner              string         `json:"owner,omitempty"`
	Open               bool           `json:"open"`
	Step               Step           `json:"step"`
	AttemptNumber      int            `json:"attempt_number,omitempty"`
	Charge             *charge.Charge `json:"charge,omitempty"`
	ConversionTracked  bool           `json:"conversion_tracked"`
	CountdownRemaining int            `json:"countdown_remaining,omitempty"`
	Polls              int            `json:"polls,omitempty"`
	LastError          string         `json:"last_error,omitempty"`
}
