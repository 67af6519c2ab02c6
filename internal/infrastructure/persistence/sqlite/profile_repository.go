package sqlite

import (
	"database/sql"
	"errors"
	"time"

	"github.com/rcarvalho-pb/kyc_deposit-go/internal/domain/profile"
)

type ProfileRepository struct {
	db  *sql.DB
	now func() time.Time
}

func NewProfileRepository(db *sql.DB) *ProfileRepository {
	return &ProfileRepository{
		db:  db,
		now: time.Now,
	}
}

func (r *ProfileRepository) Save(p *profile.Profile) error {
	_, err := r.db.Exec(
		`INSERT INTO profiles (user_id, deposit_attempts, deposit_verified, updated_at)
		 VALUES (?, ?, ?, ?)
		 ON CONFLICT(user_id) DO UPDATE SET
			deposit_attempts = excluded.deposit_attempts,
			deposit_verified = excluded.deposit_verified,
			updated_at = excluded.updated_at`,
		p.UserID,
		p.DepositAttempts,
		boolToInt(p.DepositVerified),
		r.now().UTC(),
	)
	return err
}

func (r *ProfileRepository) FindByUserID(userID string) (*profile.Profile, error) {
	return r.find(r.db, userID)
}

// RecordAttempt counts one finished deposit attempt. A verified flag is never
// cleared once set.
func (r *ProfileRepository) RecordAttempt(userID string, verified bool) (*profile.Profile, error) {
	tx, err := r.db.Begin()
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	_, err = tx.Exec(
		`INSERT INTO profiles (user_id, deposit_attempts, deposit_verified, updated_at)
		 VALUES (?, 1, ?, ?)
		 ON CONFLICT(user_id) DO UPDATE SET
			deposit_attempts = deposit_attempts + 1,
			deposit_verified = MAX(deposit_verified, excluded.deposit_verified),
			updated_at = excluded.updated_at`,
		userID,
		boolToInt(verified),
		r.now().UTC(),
	)
	if err != nil {
		return nil, err
	}

	p, err := r.find(tx, userID)
	if err != nil {
		return nil, err
	}

	return p, tx.Commit()
}

type queryRower interface {
	QueryRow(query string, args ...any) *sql.Row
}

func (r *ProfileRepository) find(q queryRower, userID string) (*profile.Profile, error) {
	row := q.QueryRow(
		`SELECT user_id, deposit_attempts, deposit_verified, updated_at
		 FROM profiles
		 WHERE user_id = ?`,
		userID,
	)

	var p profile.Profile
	var verified int

	if err := row.Scan(&p.UserID, &p.DepositAttempts, &verified, &p.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, profile.ErrProfileNotFound
		}
		return nil, err
	}

	p.DepositVerified = verified == 1
	return &p, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
