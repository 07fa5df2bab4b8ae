package auth

import (
	"context"
	"strings"
	"sync"
)

// InMemory implements Store with in-process concurrency safety.
// NOTE: Replace with the Postgres store for durable deployments.
type InMemory struct {
	mu      sync.RWMutex
	byID    map[string]*Institute
	byEmail map[string]string // lowercased email -> instituteID
}

// NewInMemory creates an empty institute store.
func NewInMemory() *InMemory {
	return &InMemory{
		byID:    make(map[string]*Institute),
		byEmail: make(map[string]string),
	}
}

func (s *InMemory) Create(ctx context.Context, inst *Institute) error {
	if inst == nil || strings.TrimSpace(inst.InstituteID) == "" {
		return ErrInvalidInput
	}
	email := strings.ToLower(strings.TrimSpace(inst.Email))
	if email == "" {
		return ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.byEmail[email]; ok {
		return ErrEmailTaken
	}
	if _, ok := s.byID[inst.InstituteID]; ok {
		return ErrInvalidInput
	}
	cp := *inst
	cp.Email = email
	s.byID[cp.InstituteID] = &cp
	s.byEmail[email] = cp.InstituteID
	return nil
}

func (s *InMemory) Find(ctx context.Context, instituteID string) (*Institute, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	inst, ok := s.byID[instituteID]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *inst
	return &cp, nil
}

func (s *InMemory) FindByEmail(ctx context.Context, email string) (*Institute, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.byEmail[email]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *s.byID[id]
	return &cp, nil
}

func (s *InMemory) Update(ctx context.Context, inst *Institute) error {
	if inst == nil {
		return ErrInvalidInput
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	current, ok := s.byID[inst.InstituteID]
	if !ok {
		return ErrNotFound
	}
	cp := *inst
	// Email is immutable through Update; registration owns the email index.
	cp.Email = current.Email
	cp.PasswordHash = current.PasswordHash
	s.byID[cp.InstituteID] = &cp
	return nil
}

func (s *InMemory) UpdatePassword(ctx context.Context, instituteID, passwordHash string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	inst, ok := s.byID[instituteID]
	if !ok {
		return ErrNotFound
	}
	inst.PasswordHash = passwordHash
	return nil
}
