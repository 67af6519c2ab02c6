package session_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/rcarvalho-pb/kyc_deposit-go/internal/domain/session"
)

func TestDeclineFirstAttempt(t *testing.T) {
	assert.Equal(t, session.OutcomeDeclined, session.DeclineFirstAttempt(1))
	assert.Equal(t, session.OutcomeSuccess, session.DeclineFirstAttempt(2))
	assert.Equal(t, session.OutcomeSuccess, session.DeclineFirstAttempt(7))
}

func TestPolicyByName(t *testing.T) {
	assert.Equal(t, session.OutcomeSuccess, session.PolicyByName("always-succeed")(1))
	assert.Equal(t, session.OutcomeDeclined, session.PolicyByName("")(1))
	assert.Equal(t, session.OutcomeDeclined, session.PolicyByName("unknown")(1))
}

func TestStep_CanGenerate(t *testing.T) {
	assert.True(t, session.StepIdle.CanGenerate())
	assert.True(t, session.StepExpired.CanGenerate())
	assert.False(t, session.StepAwaitingPayment.CanGenerate())
	assert.False(t, session.StepDeclined.CanGenerate())
}
