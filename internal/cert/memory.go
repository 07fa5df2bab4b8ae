package cert

import (
	"context"
	"strings"
	"sync"
)

// InMemory implements Store with in-process concurrency safety.
// NOTE: Replace with the Postgres store for durable deployments.
type InMemory struct {
	mu     sync.RWMutex
	byID   map[string]*Certificate
	byHash map[string]string // certificateHash -> certificateID
	order  []string          // insertion order of certificate IDs
}

// NewInMemory creates an empty certificate store.
func NewInMemory() *InMemory {
	return &InMemory{
		byID:   make(map[string]*Certificate),
		byHash: make(map[string]string),
	}
}

func (s *InMemory) Put(ctx context.Context, c *Certificate) error {
	if c == nil || c.CertificateID == "" {
		return ErrInvalidInput
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.byID[c.CertificateID]; ok {
		return ErrDuplicateID
	}
	if _, ok := s.byHash[c.CertificateHash]; ok {
		return ErrDuplicateHash
	}
	cp := *c
	s.byID[cp.CertificateID] = &cp
	s.byHash[cp.CertificateHash] = cp.CertificateID
	s.order = append(s.order, cp.CertificateID)
	return nil
}

func (s *InMemory) Get(ctx context.Context, certificateID string) (*Certificate, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.byID[certificateID]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *c
	return &cp, nil
}

func (s *InMemory) GetByHash(ctx context.Context, certificateHash string) (*Certificate, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.byHash[certificateHash]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *s.byID[id]
	return &cp, nil
}

func (s *InMemory) List(ctx context.Context, instituteID string, f Filters) ([]Certificate, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var res []Certificate
	// Insertion order tracks creation time; walk backwards for newest first.
	for i := len(s.order) - 1; i >= 0; i-- {
		c := s.byID[s.order[i]]
		if instituteID != "" && c.InstituteID != instituteID {
			continue
		}
		if !matches(c, f) {
			continue
		}
		res = append(res, *c)
	}
	return res, nil
}

func (s *InMemory) Update(ctx context.Context, c *Certificate) error {
	if c == nil {
		return ErrInvalidInput
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	current, ok := s.byID[c.CertificateID]
	if !ok {
		return ErrNotFound
	}
	cp := *c
	// Hash and anchor are immutable after issuance.
	cp.CertificateHash = current.CertificateHash
	cp.Anchor = current.Anchor
	s.byID[cp.CertificateID] = &cp
	return nil
}

func matches(c *Certificate, f Filters) bool {
	if f.Status != "" && c.Status != f.Status {
		return false
	}
	if f.Template != "" && c.Template != f.Template {
		return false
	}
	if f.Search != "" {
		q := strings.ToLower(f.Search)
		if !strings.Contains(strings.ToLower(c.StudentName), q) &&
			!strings.Contains(strings.ToLower(c.CourseName), q) &&
			!strings.Contains(strings.ToLower(c.CertificateID), q) {
			return false
		}
	}
	return true
}
