package charge

import "errors"

var ErrChargeNotFound = errors.New("charge not found")

// Record is a charge as kept by a backend ledger.
type Record struct {
	Charge
	Status Status
	Checks int
}

type Repository interface {
	Save(*Record) error
	FindByTransactionID(string) (*Record, error)
	IncChecks(string) (int, error)
	MarkPaid(string) error
}
