package orchestrator

import "time"

type Backoff struct {
	BaseDelay time.Duration
	MaxDelay  time.Duration
}

func (b Backoff) Enabled() bool {
	return b.BaseDelay > 0
}

// Delay is the wait after the given number of consecutive failures.
func (b Backoff) Delay(failures int) time.Duration {
	if !b.Enabled() || failures < 1 {
		return 0
	}

	shift := min(failures-1, 30)
	delay := b.BaseDelay * time.Duration(1<<shift)
	if b.MaxDelay > 0 && (delay > b.MaxDelay || delay <= 0) {
		delay = b.MaxDelay
	}
	return delay
}
