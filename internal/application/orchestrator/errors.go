package orchestrator

import "errors"

var (
	ErrNotOpen          = errors.New("deposit session is not open")
	ErrAlreadyOpen      = errors.New("deposit session already open")
	ErrInvalidAttempt   = errors.New("attempt number must be positive")
	ErrInvalidStep      = errors.New("operation not allowed in current step")
	ErrClosing          = errors.New("deposit session is closing")
	ErrSessionClosed    = errors.New("deposit session closed during operation")
	ErrGenerationFailed = errors.New("charge generation failed")
	ErrPollingExhausted = errors.New("payment not confirmed within poll limit")
)
