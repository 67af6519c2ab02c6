package verification_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/rcarvalho-pb/kyc_deposit-go/internal/application/orchestrator"
	"github.com/rcarvalho-pb/kyc_deposit-go/internal/application/verification"
	"github.com/rcarvalho-pb/kyc_deposit-go/internal/domain/profile"
	"github.com/rcarvalho-pb/kyc_deposit-go/internal/domain/session"
	"github.com/rcarvalho-pb/kyc_deposit-go/internal/infra/clock"
	"github.com/rcarvalho-pb/kyc_deposit-go/internal/infrastructure/persistence/inmemory"
	"github.com/rcarvalho-pb/kyc_deposit-go/internal/infrastructure/pix"
)

type fixture struct {
	svc      *verification.Service
	clock    *clock.Manual
	profiles *inmemory.ProfileRepository
}

// newFixture wires a service whose charges are paid on the first status check.
func newFixture(t *testing.T) *fixture {
	t.Helper()

	f := &fixture{
		clock:    clock.NewManual(time.Unix(0, 0)),
		profiles: inmemory.NewProfileRepository(),
	}
	sim := &pix.Simulator{
		Repo:         inmemory.NewChargeRepository(),
		Merchant:     pix.Merchant{Key: "k", Name: "N", City: "C"},
		AutoPayAfter: 1,
	}

	f.svc = &verification.Service{
		Profiles: f.profiles,
		NewOrchestrator: func(owner string) *orchestrator.Orchestrator {
			return &orchestrator.Orchestrator{
				Owner:   owner,
				Charges: sim,
				Policy:  session.DeclineFirstAttempt,
				Clock:   f.clock,
				Config:  orchestrator.DefaultConfig(),
			}
		},
	}
	return f
}

// runToClose drives a paid session through its outcome and the close delay.
func (f *fixture) runToClose(t *testing.T, userID string) {
	t.Helper()

	_, err := f.svc.Generate(context.Background(), userID)
	require.NoError(t, err)
	require.Equal(t, session.StepProcessing, f.svc.Snapshot(userID).Step)

	f.clock.Advance(2500 * time.Millisecond)
	f.clock.Advance(3 * time.Second)
	f.clock.Advance(3 * time.Second)

	require.False(t, f.svc.Snapshot(userID).Open)
}

func TestService_FirstAttemptDeclines_SecondVerifies(t *testing.T) {
	f := newFixture(t)

	snap, err := f.svc.Open("u1")
	require.NoError(t, err)
	require.Equal(t, 1, snap.AttemptNumber)

	f.runToClose(t, "u1")

	p, err := f.svc.Profile("u1")
	require.NoError(t, err)
	require.Equal(t, 1, p.DepositAttempts)
	require.False(t, p.DepositVerified)

	snap, err = f.svc.Open("u1")
	require.NoError(t, err)
	require.Equal(t, 2, snap.AttemptNumber)

	f.runToClose(t, "u1")

	p, err = f.svc.Profile("u1")
	require.NoError(t, err)
	require.Equal(t, 2, p.DepositAttempts)
	require.True(t, p.DepositVerified)

	_, err = f.svc.Open("u1")
	require.ErrorIs(t, err, verification.ErrAlreadyVerified)
}

func TestService_DeclineIsRecordedBeforeAutoClose(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.Open("u1")
	require.NoError(t, err)
	_, err = f.svc.Generate(context.Background(), "u1")
	require.NoError(t, err)

	f.clock.Advance(2500 * time.Millisecond)
	require.Equal(t, session.StepDeclined, f.svc.Snapshot("u1").Step)

	_, err = f.profiles.FindByUserID("u1")
	require.ErrorIs(t, err, profile.ErrProfileNotFound)

	f.clock.Advance(3 * time.Second)

	snap := f.svc.Snapshot("u1")
	require.True(t, snap.Open)
	require.Equal(t, session.StepIdle, snap.Step)

	p, err := f.profiles.FindByUserID("u1")
	require.NoError(t, err)
	require.Equal(t, 1, p.DepositAttempts)
}

func TestService_ExplicitCloseDoesNotCountAnAttempt(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.Open("u1")
	require.NoError(t, err)
	require.NoError(t, f.svc.Close("u1"))

	p, err := f.svc.Profile("u1")
	require.NoError(t, err)
	require.Zero(t, p.DepositAttempts)
	require.Equal(t, 1, p.NextAttempt())
}

func TestService_Guards(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.Open("")
	require.ErrorIs(t, err, verification.ErrInvalidUser)

	_, err = f.svc.Generate(context.Background(), "ghost")
	require.ErrorIs(t, err, orchestrator.ErrNotOpen)

	require.ErrorIs(t, f.svc.Close("ghost"), orchestrator.ErrNotOpen)

	snap := f.svc.Snapshot("ghost")
	require.False(t, snap.Open)
	require.Equal(t, session.StepIdle, snap.Step)

	_, err = f.svc.Open("u1")
	require.NoError(t, err)
	_, err = f.svc.Open("u1")
	require.ErrorIs(t, err, orchestrator.ErrAlreadyOpen)
}

func TestService_CloseAll(t *testing.T) {
	f := newFixture(t)

	for _, id := range []string{"a", "b"} {
		_, err := f.svc.Open(id)
		require.NoError(t, err)
	}

	f.svc.CloseAll()

	require.False(t, f.svc.Snapshot("a").Open)
	require.False(t, f.svc.Snapshot("b").Open)
	require.Zero(t, f.clock.Pending())
}

func TestService_WhenSessionAutoCloses_ShouldReleaseIt(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.Open("u1")
	require.NoError(t, err)
	require.Equal(t, 1, f.svc.Active())

	f.runToClose(t, "u1")

	require.Zero(t, f.svc.Active())
	_, err = f.svc.Generate(context.Background(), "u1")
	require.ErrorIs(t, err, orchestrator.ErrNotOpen)
	require.ErrorIs(t, f.svc.Close("u1"), orchestrator.ErrNotOpen)
}

func TestService_WhenClosedExplicitly_ShouldReleaseIt(t *testing.T) {
	f := newFixture(t)

	for _, id := range []string{"a", "b"} {
		_, err := f.svc.Open(id)
		require.NoError(t, err)
	}
	require.Equal(t, 2, f.svc.Active())

	require.NoError(t, f.svc.Close("a"))
	require.Equal(t, 1, f.svc.Active())

	_, err := f.svc.Open("a")
	require.NoError(t, err)
	require.True(t, f.svc.Snapshot("a").Open)
	require.Equal(t, 2, f.svc.Active())

	f.svc.CloseAll()
	require.Zero(t, f.svc.Active())
	require.Zero(t, f.clock.Pending())
}
