package profile

import "time"

// Profile tracks a user's deposit verification progress across modal sessions.
type Profile struct {
	UserID          string    `json:"user_id"`
	DepositAttempts int       `json:"deposit_attempts"`
	DepositVerified bool      `json:"deposit_verified"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// NextAttempt is the 1-indexed attempt number of the next deposit session.
func (p *Profile) NextAttempt() int {
	return p.DepositAttempts + 1
}
