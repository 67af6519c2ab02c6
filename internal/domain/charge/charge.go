package charge

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

type Status string

const (
	StatusPending Status = "PENDING"
	StatusPaid    Status = "PAID"
)

// Charge is a generated payment request. It is immutable once created.
type Charge struct {
	TransactionID string          `json:"transaction_id"`
	PaymentCode   string          `json:"payment_code"`
	Amount        decimal.Decimal `json:"amount"`
	CreatedAt     time.Time       `json:"created_at"`
}

type StatusResult struct {
	Status Status          `json:"status"`
	Value  decimal.Decimal `json:"value"`
}

func (r StatusResult) IsPaid() bool {
	return r.Status == StatusPaid
}

// Service is the charge backend: it creates charges and reports their status.
type Service interface {
	CreatePix(ctx context.Context, amount decimal.Decimal) (Charge, error)
	CheckStatus(ctx context.Context, transactionID string) (StatusResult, error)
}
