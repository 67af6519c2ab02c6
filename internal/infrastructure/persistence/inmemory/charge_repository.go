package inmemory

import (
	"maps"
	"sync"

	"github.com/rcarvalho-pb/kyc_deposit-go/internal/domain/charge"
)

type ChargeRepository struct {
	mu      sync.RWMutex
	charges map[string]*charge.Record
}

func NewChargeRepository() *ChargeRepository {
	return &ChargeRepository{
		charges: make(map[string]*charge.Record),
	}
}

func (r *ChargeRepository) Save(rec *charge.Record) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored := *rec
	r.charges[rec.TransactionID] = &stored
	return nil
}

func (r *ChargeRepository) FindByTransactionID(id string) (*charge.Record, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rec, ok := r.charges[id]
	if !ok {
		return nil, charge.ErrChargeNotFound
	}

	out := *rec
	return &out, nil
}

func (r *ChargeRepository) IncChecks(id string) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	rec, ok := r.charges[id]
	if !ok {
		return 0, charge.ErrChargeNotFound
	}
	rec.Checks++
	return rec.Checks, nil
}

func (r *ChargeRepository) MarkPaid(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	rec, ok := r.charges[id]
	if !ok {
		return charge.ErrChargeNotFound
	}
	rec.Status = charge.StatusPaid
	return nil
}

func (r *ChargeRepository) Charges() map[string]*charge.Record {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return maps.Clone(r.charges)
}
