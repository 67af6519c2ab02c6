package event

import (
	"encoding/json"

	"github.com/shopspring/decimal"
)

type SessionOpenedPayload struct {
	AttemptNumber int `json:"attempt_number"`
}

type ChargePayload struct {
	TransactionID string          `json:"transaction_id"`
	Amount        decimal.Decimal `json:"amount"`
}

type GenerationFailedPayload struct {
	Reason string `json:"reason"`
}

type PaymentDetectedPayload struct {
	TransactionID string          `json:"transaction_id"`
	Value         decimal.Decimal `json:"value"`
	Polls         int             `json:"polls"`
}

type OutcomePayload struct {
	TransactionID string `json:"transaction_id,omitempty"`
	AttemptNumber int    `json:"attempt_number"`
}

type PollingExpiredPayload struct {
	TransactionID string `json:"transaction_id"`
	Polls         int    `json:"polls"`
}

type ConversionPayload struct {
	EventName string          `json:"event_name"`
	Value     decimal.Decimal `json:"value"`
	Currency  string          `json:"currency"`
}

// DecodePayload restores the typed payload of a serialized event. Types without a
// registered payload decode into a generic map.
func DecodePayload(t Type, data []byte) (any, error) {
	var target any
	switch t {
	case SessionOpened:
		target = &SessionOpenedPayload{}
	case ChargeCreated:
		target = &ChargePayload{}
	case ChargeGenerationFailed:
		target = &GenerationFailedPayload{}
	case PaymentDetected:
		target = &PaymentDetectedPayload{}
	case VerificationDeclined, VerificationSucceeded, VerificationFailed, VerificationCompleted:
		target = &OutcomePayload{}
	case PollingExpired:
		target = &PollingExpiredPayload{}
	case ConversionTracked:
		target = &ConversionPayload{}
	default:
		var generic map[string]any
		if err := json.Unmarshal(data, &generic); err != nil {
			return nil, err
		}
		return generic, nil
	}

	if err := json.Unmarshal(data, target); err != nil {
		return nil, err
	}
	return derefPayload(target), nil
}

func derefPayload(p any) any {
	switch v := p.(type) {
	case *SessionOpenedPayload:
		return *v
	case *ChargePayload:
		return *v
	case *GenerationFailedPayload:
		return *v
	case *PaymentDetectedPayload:
		return *v
	case *OutcomePayload:
		return *v
	case *PollingExpiredPayload:
		return *v
	case *ConversionPayload:
		return *v
	}
	return p
}
