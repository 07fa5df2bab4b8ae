package auth

import (
	"context"
	"fmt"
	"strings"
	"time"

	"certchain.org/internal/ids"
)

// Session is the result of a successful register or login.
type Session struct {
	Institute Institute `json:"institute"`
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// Service provides institute account operations and token issuance.
type Service struct {
	store Store
	now   func() time.Time
}

// Option configures Service behavior.
type Option func(*Service)

// WithClock overrides the time source (useful for tests).
func WithClock(fn func() time.Time) Option {
	return func(s *Service) {
		if fn != nil {
			s.now = fn
		}
	}
}

// NewService constructs a Service over the given store.
func NewService(store Store, opts ...Option) *Service {
	svc := &Service{store: store, now: time.Now}
	for _, opt := range opts {
		opt(svc)
	}
	return svc
}

// Register creates an institute account and issues a token.
//
// Accounts are marked verified immediately: there is no out-of-band approval
// workflow in this deployment, which means issuance rights rest solely on
// owning an email address. Known trust-boundary weakness, kept visible here
// rather than buried in the store.
func (s *Service) Register(ctx context.Context, in RegisterInput) (Session, error) {
	name := strings.TrimSpace(in.Name)
	email := strings.ToLower(strings.TrimSpace(in.Email))
	org := strings.TrimSpace(in.Organization)

	switch {
	case len(name) < 2 || len(name) > 100:
		return Session{}, fmt.Errorf("%w: name must be 2-100 characters", ErrInvalidInput)
	case !validEmail(email):
		return Session{}, fmt.Errorf("%w: invalid email", ErrInvalidInput)
	case len(in.Password) < 8 || len(in.Password) > 128:
		return Session{}, fmt.Errorf("%w: password must be 8-128 characters", ErrInvalidInput)
	case len(org) < 2 || len(org) > 200:
		return Session{}, fmt.Errorf("%w: organization must be 2-200 characters", ErrInvalidInput)
	}

	if _, err := s.store.FindByEmail(ctx, email); err == nil {
		return Session{}, ErrEmailTaken
	}

	hash, err := HashPassword(in.Password)
	if err != nil {
		return Session{}, err
	}

	now := s.now().UTC()
	inst := Institute{
		InstituteID:  ids.NewInstituteID(),
		Name:         name,
		Email:        email,
		Organization: org,
		PasswordHash: hash,
		Address:      strings.TrimSpace(in.Address),
		Website:      strings.TrimSpace(in.Website),
		Phone:        strings.TrimSpace(in.Phone),
		IsVerified:   true,
		IsActive:     true,
		CreatedAt:    now,
		LastLogin:    now,
	}
	if err := s.store.Create(ctx, &inst); err != nil {
		return Session{}, err
	}
	return s.session(inst)
}

// Login authenticates credentials and issues a fresh token.
// Unknown email and wrong password both surface as ErrInvalidCredentials;
// a deactivated account is reported distinctly.
func (s *Service) Login(ctx context.Context, email, password string) (Session, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return Session{}, ErrInvalidCredentials
	}
	inst, err := s.store.FindByEmail(ctx, email)
	if err != nil {
		return Session{}, ErrInvalidCredentials
	}
	if !inst.IsActive {
		return Session{}, ErrAccountDisabled
	}
	if err := VerifyPassword(inst.PasswordHash, password); err != nil {
		return Session{}, ErrInvalidCredentials
	}

	inst.LastLogin = s.now().UTC()
	if err := s.store.Update(ctx, inst); err != nil {
		return Session{}, err
	}
	return s.session(*inst)
}

// Authenticate resolves a bearer token to its institute account.
func (s *Service) Authenticate(ctx context.Context, token string) (Institute, error) {
	claims, err := ParseAndValidate(token)
	if err != nil {
		return Institute{}, ErrInvalidToken
	}
	inst, err := s.store.Find(ctx, claims.InstituteID)
	if err != nil {
		return Institute{}, ErrInvalidToken
	}
	if !inst.IsActive {
		return Institute{}, ErrAccountDisabled
	}
	return *inst, nil
}

// Get returns the institute profile.
func (s *Service) Get(ctx context.Context, instituteID string) (Institute, error) {
	inst, err := s.store.Find(ctx, instituteID)
	if err != nil {
		return Institute{}, err
	}
	return *inst, nil
}

// UpdateProfile applies the provided profile fields.
func (s *Service) UpdateProfile(ctx context.Context, instituteID string, upd ProfileUpdate) (Institute, error) {
	inst, err := s.store.Find(ctx, instituteID)
	if err != nil {
		return Institute{}, err
	}
	if upd.Name != nil {
		name := strings.TrimSpace(*upd.Name)
		if len(name) < 2 || len(name) > 100 {
			return Institute{}, fmt.Errorf("%w: name must be 2-100 characters", ErrInvalidInput)
		}
		inst.Name = name
	}
	if upd.Organization != nil {
		org := strings.TrimSpace(*upd.Organization)
		if len(org) < 2 || len(org) > 200 {
			return Institute{}, fmt.Errorf("%w: organization must be 2-200 characters", ErrInvalidInput)
		}
		inst.Organization = org
	}
	if upd.Address != nil {
		inst.Address = strings.TrimSpace(*upd.Address)
	}
	if upd.Website != nil {
		inst.Website = strings.TrimSpace(*upd.Website)
	}
	if upd.Phone != nil {
		inst.Phone = strings.TrimSpace(*upd.Phone)
	}
	if err := s.store.Update(ctx, inst); err != nil {
		return Institute{}, err
	}
	return *inst, nil
}

// ChangePassword re-hashes the password after checking the current one.
func (s *Service) ChangePassword(ctx context.Context, instituteID, current, next string) error {
	if len(next) < 8 || len(next) > 128 {
		return fmt.Errorf("%w: password must be 8-128 characters", ErrInvalidInput)
	}
	inst, err := s.store.Find(ctx, instituteID)
	if err != nil {
		return err
	}
	if err := VerifyPassword(inst.PasswordHash, current); err != nil {
		return ErrPasswordMismatch
	}
	hash, err := HashPassword(next)
	if err != nil {
		return err
	}
	return s.store.UpdatePassword(ctx, instituteID, hash)
}

func (s *Service) session(inst Institute) (Session, error) {
	token, err := GenerateToken(inst, TokenTTL)
	if err != nil {
		return Session{}, err
	}
	inst.PasswordHash = ""
	return Session{
		Institute: inst,
		Token:     token,
		ExpiresAt: s.now().UTC().Add(TokenTTL),
	}, nil
}

func validEmail(email string) bool {
	if len(email) < 6 || len(email) > 254 {
		return false
	}
	at := strings.IndexByte(email, '@')
	if at <= 0 || at == len(email)-1 {
		return false
	}
	domain := email[at+1:]
	if strings.IndexByte(domain, '.') <= 0 {
		return false
	}
	return !strings.ContainsAny(email, " \t")
}
