package inmemory

import (
	"sync"
	"time"

	"github.com/rcarvalho-pb/kyc_deposit-go/internal/domain/profile"
)

type ProfileRepository struct {
	mu       sync.RWMutex
	profiles map[string]*profile.Profile
	now      func() time.Time
}

func NewProfileRepository() *ProfileRepository {
	return &ProfileRepository{
		profiles: make(map[string]*profile.Profile),
		now:      time.Now,
	}
}

func (r *ProfileRepository) Save(p *profile.Profile) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored := *p
	r.profiles[p.UserID] = &stored
	return nil
}

func (r *ProfileRepository) FindByUserID(userID string) (*profile.Profile, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.profiles[userID]
	if !ok {
		return nil, profile.ErrProfileNotFound
	}

	out := *p
	return &out, nil
}

func (r *ProfileRepository) RecordAttempt(userID string, verified bool) (*profile.Profile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.profiles[userID]
	if !ok {
		p = &profile.Profile{UserID: userID}
		r.profiles[userID] = p
	}

	p.DepositAttempts++
	if verified {
		p.DepositVerified = true
	}
	p.UpdatedAt = r.now()

	out := *p
	return &out, nil
}
