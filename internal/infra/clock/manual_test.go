package clock_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/rcarvalho-pb/kyc_deposit-go/internal/infra/clock"
)

func TestManual_FiresInDueOrder(t *testing.T) {
	c := clock.NewManual(time.Unix(0, 0))
	var fired []string

	c.AfterFunc(2*time.Second, func() { fired = append(fired, "b") })
	c.AfterFunc(time.Second, func() { fired = append(fired, "a") })
	c.AfterFunc(2*time.Second, func() { fired = append(fired, "c") })

	c.Advance(1500 * time.Millisecond)
	require.Equal(t, []string{"a"}, fired)

	c.Advance(500 * time.Millisecond)
	require.Equal(t, []string{"a", "b", "c"}, fired)
	require.Equal(t, time.Unix(2, 0), c.Now())
}

func TestManual_StopPreventsFire(t *testing.T) {
	c := clock.NewManual(time.Unix(0, 0))
	fired := false

	timer := c.AfterFunc(time.Second, func() { fired = true })
	require.True(t, timer.Stop())
	require.False(t, timer.Stop())

	c.Advance(time.Minute)
	require.False(t, fired)
	require.Equal(t, 0, c.Pending())
}

func TestManual_CallbackCanRearm(t *testing.T) {
	c := clock.NewManual(time.Unix(0, 0))
	var at []time.Time

	var tick func()
	tick = func() {
		at = append(at, c.Now())
		c.AfterFunc(time.Second, tick)
	}
	c.AfterFunc(time.Second, tick)

	c.Advance(3 * time.Second)
	require.Equal(t, []time.Time{time.Unix(1, 0), time.Unix(2, 0), time.Unix(3, 0)}, at)
}
