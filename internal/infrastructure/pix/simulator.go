// Package pix provides charge backends: an in-process simulator and an HTTP
// client for a remote service speaking the same JSON contract.
package pix

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/rcarvalho-pb/kyc_deposit-go/internal/domain/charge"
)

var ErrInvalidAmount = errors.New("amount must be positive")

// Simulator is a fictional charge backend. Charges stay pending until MarkPaid
// is called or, when AutoPayAfter is set, until they were checked that many
// times.
type Simulator struct {
	Repo         charge.Repository
	Merchant     Merchant
	AutoPayAfter int
	Now          func() time.Time
}

func (s *Simulator) CreatePix(ctx context.Context, amount decimal.Decimal) (charge.Charge, error) {
	if err := ctx.Err(); err != nil {
		return charge.Charge{}, err
	}
	if !amount.IsPositive() {
		return charge.Charge{}, ErrInvalidAmount
	}

	txID := uuid.NewString()
	c := charge.Charge{
		TransactionID: txID,
		PaymentCode:   BuildPayload(s.Merchant, amount, txID),
		Amount:        amount,
		CreatedAt:     s.now(),
	}

	if err := s.Repo.Save(&charge.Record{Charge: c, Status: charge.StatusPending}); err != nil {
		return charge.Charge{}, err
	}

	return c, nil
}

func (s *Simulator) CheckStatus(ctx context.Context, transactionID string) (charge.StatusResult, error) {
	if err := ctx.Err(); err != nil {
		return charge.StatusResult{}, err
	}

	checks, err := s.Repo.IncChecks(transactionID)
	if err != nil {
		return charge.StatusResult{}, err
	}

	rec, err := s.Repo.FindByTransactionID(transactionID)
	if err != nil {
		return charge.StatusResult{}, err
	}

	if rec.Status == charge.StatusPending && s.AutoPayAfter > 0 && checks >= s.AutoPayAfter {
		if err := s.Repo.MarkPaid(transactionID); err != nil {
			return charge.StatusResult{}, err
		}
		rec.Status = charge.StatusPaid
	}

	if rec.Status != charge.StatusPaid {
		return charge.StatusResult{Status: rec.Status, Value: decimal.Zero}, nil
	}
	return charge.StatusResult{Status: charge.StatusPaid, Value: rec.Amount}, nil
}

// MarkPaid settles a charge out of band, as a payer scanning the code would.
func (s *Simulator) MarkPaid(transactionID string) error {
	return s.Repo.MarkPaid(transactionID)
}

func (s *Simulator) now() time.Time {
	if s.Now == nil {
		return time.Now()
	}
	return s.Now()
}
