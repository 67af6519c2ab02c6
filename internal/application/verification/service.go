package verification

import (
	"context"
	"errors"
	"sync"

	"github.com/rcarvalho-pb/kyc_deposit-go/internal/application/orchestrator"
	"github.com/rcarvalho-pb/kyc_deposit-go/internal/domain/charge"
	"github.com/rcarvalho-pb/kyc_deposit-go/internal/domain/profile"
	"github.com/rcarvalho-pb/kyc_deposit-go/internal/domain/session"
	"github.com/rcarvalho-pb/kyc_deposit-go/internal/infra/logging"
)

var (
	ErrAlreadyVerified = errors.New("deposit already verified")
	ErrInvalidUser     = errors.New("invalid user id")
)

// Service is the caller of the deposit flow. It keeps one orchestrator per
// open session and owns the attempt counter that drives the outcome policy.
// Entries are dropped once their session closes.
type Service struct {
	Profiles        profile.Repository
	NewOrchestrator func(owner string) *orchestrator.Orchestrator
	Logger          logging.Logger

	mu       sync.Mutex
	sessions map[string]*orchestrator.Orchestrator
}

func (s *Service) Open(userID string) (session.Snapshot, error) {
	p, err := s.Profile(userID)
	if err != nil {
		return session.Snapshot{}, err
	}
	if p.DepositVerified {
		return session.Snapshot{}, ErrAlreadyVerified
	}

	o, err := s.register(userID)
	if err != nil {
		return session.Snapshot{}, err
	}

	snap, err := o.Open(p.NextAttempt(), s.callbacks(userID, o))
	if err != nil {
		s.forget(userID, o)
		return session.Snapshot{}, err
	}
	return snap, nil
}

func (s *Service) Generate(ctx context.Context, userID string) (charge.Charge, error) {
	o, ok := s.lookup(userID)
	if !ok {
		return charge.Charge{}, orchestrator.ErrNotOpen
	}
	return o.Generate(ctx)
}

func (s *Service) Close(userID string) error {
	o, ok := s.lookup(userID)
	if !ok {
		return orchestrator.ErrNotOpen
	}
	o.Close()
	s.forget(userID, o)
	return nil
}

func (s *Service) Snapshot(userID string) session.Snapshot {
	o, ok := s.lookup(userID)
	if !ok {
		return session.Snapshot{Owner: userID, Step: session.StepIdle}
	}
	return o.Snapshot()
}

// Profile returns the stored profile, or an empty one for users that never
// attempted a deposit.
func (s *Service) Profile(userID string) (*profile.Profile, error) {
	if userID == "" {
		return nil, ErrInvalidUser
	}

	p, err := s.Profiles.FindByUserID(userID)
	if errors.Is(err, profile.ErrProfileNotFound) {
		return &profile.Profile{UserID: userID}, nil
	}
	if err != nil {
		return nil, err
	}
	return p, nil
}

// Active reports how many sessions are currently open.
func (s *Service) Active() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// CloseAll tears down every open session.
func (s *Service) CloseAll() {
	s.mu.Lock()
	all := make([]*orchestrator.Orchestrator, 0, len(s.sessions))
	for _, o := range s.sessions {
		all = append(all, o)
	}
	s.sessions = nil
	s.mu.Unlock()

	for _, o := range all {
		o.Close()
	}
}

func (s *Service) callbacks(userID string, o *orchestrator.Orchestrator) orchestrator.Callbacks {
	return orchestrator.Callbacks{
		OnComplete: func() { s.recordAttempt(userID, true) },
		OnFailed:   func() { s.recordAttempt(userID, false) },
		OnClose: func() {
			s.forget(userID, o)
			s.logger().Info("deposit modal closed", map[string]any{"user-id": userID})
		},
	}
}

func (s *Service) recordAttempt(userID string, verified bool) {
	p, err := s.Profiles.RecordAttempt(userID, verified)
	if err != nil {
		s.logger().Error("record deposit attempt failed", map[string]any{
			"user-id":  userID,
			"verified": verified,
			"error":    err.Error(),
		})
		return
	}

	s.logger().Info("deposit attempt recorded", map[string]any{
		"user-id":  userID,
		"attempts": p.DepositAttempts,
		"verified": p.DepositVerified,
	})
}

// register reserves the user's slot. Open on the orchestrator runs after the
// lock is released because it publishes events that read snapshots back.
func (s *Service) register(userID string) (*orchestrator.Orchestrator, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.sessions[userID]; ok {
		return nil, orchestrator.ErrAlreadyOpen
	}
	if s.sessions == nil {
		s.sessions = make(map[string]*orchestrator.Orchestrator)
	}
	o := s.NewOrchestrator(userID)
	s.sessions[userID] = o
	return o, nil
}

// forget drops the entry only while it still belongs to o; a newer session for
// the same user keeps its slot.
func (s *Service) forget(userID string, o *orchestrator.Orchestrator) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.sessions[userID] == o {
		delete(s.sessions, userID)
	}
}

func (s *Service) lookup(userID string) (*orchestrator.Orchestrator, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	o, ok := s.sessions[userID]
	return o, ok
}

func (s *Service) logger() logging.Logger {
	if s.Logger == nil {
		return logging.Nop{}
	}
	return s.Logger
}
