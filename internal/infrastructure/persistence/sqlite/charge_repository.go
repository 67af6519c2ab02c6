package sqlite

import (
	"database/sql"
	"errors"

	"github.com/rcarvalho-pb/kyc_deposit-go/internal/domain/charge"
)

type ChargeRepository struct {
	db *sql.DB
}

func NewChargeRepository(db *sql.DB) *ChargeRepository {
	return &ChargeRepository{db: db}
}

func (r *ChargeRepository) Save(rec *charge.Record) error {
	_, err := r.db.Exec(
		`INSERT INTO charges
		 (transaction_id, payment_code, amount, status, checks, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		rec.TransactionID,
		rec.PaymentCode,
		rec.Amount.String(),
		string(rec.Status),
		rec.Checks,
		rec.CreatedAt.UTC(),
	)
	return err
}

func (r *ChargeRepository) FindByTransactionID(id string) (*charge.Record, error) {
	row := r.db.QueryRow(
		`SELECT transaction_id, payment_code, amount, status, checks, created_at
		 FROM charges
		 WHERE transaction_id = ?`,
		id,
	)

	var rec charge.Record
	var status string

	if err := row.Scan(
		&rec.TransactionID,
		&rec.PaymentCode,
		&rec.Amount,
		&status,
		&rec.Checks,
		&rec.CreatedAt,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, charge.ErrChargeNotFound
		}
		return nil, err
	}

	rec.Status = charge.Status(status)
	return &rec, nil
}

func (r *ChargeRepository) IncChecks(id string) (int, error) {
	var checks int
	err := r.db.QueryRow(
		`UPDATE charges
		 SET checks = checks + 1
		 WHERE transaction_id = ?
		 RETURNING checks`,
		id,
	).Scan(&checks)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, charge.ErrChargeNotFound
	}
	return checks, err
}

func (r *ChargeRepository) MarkPaid(id string) error {
	res, err := r.db.Exec(
		`UPDATE charges
		 SET status = ?
		 WHERE transaction_id = ?`,
		string(charge.StatusPaid),
		id,
	)
	if err != nil {
		return err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return charge.ErrChargeNotFound
	}

	return nil
}
