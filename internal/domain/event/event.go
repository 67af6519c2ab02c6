package event

import "time"

type Type string

const (
	SessionOpened          Type = "SESSION_OPENED"
	SessionClosed          Type = "SESSION_CLOSED"
	ChargeCreated          Type = "CHARGE_CREATED"
	ChargeGenerationFailed Type = "CHARGE_GENERATION_FAILED"
	PaymentDetected        Type = "PAYMENT_DETECTED"
	PollingExpired         Type = "POLLING_EXPIRED"
	VerificationDeclined   Type = "VERIFICATION_DECLINED"
	VerificationSucceeded  Type = "VERIFICATION_SUCCEEDED"
	VerificationFailed     Type = "VERIFICATION_FAILED"
	VerificationCompleted  Type = "VERIFICATION_COMPLETED"
	ConversionTracked      Type = "CONVERSION_TRACKED"
)

type Event struct {
	Type       Type      `json:"type"`
	SessionID  string    `json:"session_id,omitempty"`
	Owner      string    `json:"owner,omitempty"`
	Payload    any       `json:"payload,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}
