package inmemory_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/rcarvalho-pb/kyc_deposit-go/internal/domain/charge"
	"github.com/rcarvalho-pb/kyc_deposit-go/internal/domain/profile"
	"github.com/rcarvalho-pb/kyc_deposit-go/internal/infrastructure/persistence/inmemory"
)

func TestProfileRepository_RecordAttempt_ShouldCreateAndIncrement(t *testing.T) {
	repo := inmemory.NewProfileRepository()

	_, err := repo.FindByUserID("u1")
	require.ErrorIs(t, err, profile.ErrProfileNotFound)

	p, err := repo.RecordAttempt("u1", false)
	require.NoError(t, err)
	require.Equal(t, 1, p.DepositAttempts)
	require.False(t, p.DepositVerified)

	p, err = repo.RecordAttempt("u1", true)
	require.NoError(t, err)
	require.Equal(t, 2, p.DepositAttempts)
	require.True(t, p.DepositVerified)
	require.Equal(t, 3, p.NextAttempt())
}

func TestProfileRepository_ShouldReturnCopies(t *testing.T) {
	repo := inmemory.NewProfileRepository()
	require.NoError(t, repo.Save(&profile.Profile{UserID: "u1"}))

	p, err := repo.FindByUserID("u1")
	require.NoError(t, err)
	p.DepositAttempts = 99

	stored, err := repo.FindByUserID("u1")
	require.NoError(t, err)
	require.Zero(t, stored.DepositAttempts)
}

func TestChargeRepository_Lifecycle(t *testing.T) {
	repo := inmemory.NewChargeRepository()

	require.NoError(t, repo.Save(&charge.Record{
		Charge: charge.Charge{TransactionID: "tx-1", Amount: decimal.NewFromInt(5)},
		Status: charge.StatusPending,
	}))

	n, err := repo.IncChecks("tx-1")
	require.NoError(t, err)
	require.Equal(t, 1, n)

	require.NoError(t, repo.MarkPaid("tx-1"))

	rec, err := repo.FindByTransactionID("tx-1")
	require.NoError(t, err)
	require.Equal(t, charge.StatusPaid, rec.Status)
	require.Equal(t, 1, rec.Checks)

	require.ErrorIs(t, repo.MarkPaid("missing"), charge.ErrChargeNotFound)
	_, err = repo.IncChecks("missing")
	require.ErrorIs(t, err, charge.ErrChargeNotFound)
	require.Len(t, repo.Charges(), 1)
}
