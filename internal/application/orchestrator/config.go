package orchestrator

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

type Config struct {
	DepositAmount decimal.Decimal
	PollPeriod    time.Duration
	// PollTimeout bounds a single status check. Zero leaves it to the caller's service.
	PollTimeout    time.Duration
	SettleDelay    time.Duration
	DeclineDisplay time.Duration
	CountdownTick  time.Duration
	CloseDelay     time.Duration

	// MaxPolls stops polling after that many checks without confirmation and
	// moves the session to StepExpired. Zero polls indefinitely.
	MaxPolls int
	// FailureBackoff delays polling after consecutive failed checks. The zero
	// value keeps the fixed period.
	FailureBackoff Backoff
}

func DefaultConfig() Config {
	return Config{
		DepositAmount:  decimal.RequireFromString("4.90"),
		PollPeriod:     3 * time.Second,
		SettleDelay:    2500 * time.Millisecond,
		DeclineDisplay: 3 * time.Second,
		CountdownTick:  time.Second,
		CloseDelay:     3 * time.Second,
	}
}

func (c Config) Validate() error {
	if !c.DepositAmount.IsPositive() {
		return errors.New("deposit amount must be positive")
	}
	if c.PollPeriod <= 0 {
		return errors.New("poll period must be positive")
	}
	if c.SettleDelay < 0 || c.DeclineDisplay < 0 || c.CloseDelay < 0 || c.CountdownTick < 0 {
		return errors.New("delays must not be negative")
	}
	if c.MaxPolls < 0 {
		return errors.New("max polls must not be negative")
	}
	return nil
}

func (c Config) countdownSeconds() int {
	if c.CountdownTick <= 0 || c.DeclineDisplay <= 0 {
		return 0
	}
	return int((c.DeclineDisplay + c.CountdownTick - 1) / c.CountdownTick)
}
