package cert

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"certchain.org/internal/auth"
	"certchain.org/internal/chain"
	"certchain.org/internal/ids"
	"certchain.org/internal/obs"
)

// InstituteDirectory is the read-only view of institute accounts the
// certificate service needs. Satisfied by auth.Store implementations.
type InstituteDirectory interface {
	Find(ctx context.Context, instituteID string) (*auth.Institute, error)
}

// Service issues, lists and revokes certificates.
type Service struct {
	store      Store
	institutes InstituteDirectory
	ledger     chain.Ledger
	verifyBase string
	now        func() time.Time
}

// Option configures Service behavior.
type Option func(*Service)

// WithVerifyBaseURL sets the public base used to build verification URLs.
func WithVerifyBaseURL(base string) Option {
	return func(s *Service) { s.verifyBase = strings.TrimRight(base, "/") }
}

// WithClock overrides the time source (useful for tests).
func WithClock(fn func() time.Time) Option {
	return func(s *Service) {
		if fn != nil {
			s.now = fn
		}
	}
}

// NewService constructs the certificate service.
func NewService(store Store, institutes InstituteDirectory, ledger chain.Ledger, opts ...Option) *Service {
	svc := &Service{
		store:      store,
		institutes: institutes,
		ledger:     ledger,
		verifyBase: "http://localhost:3000/verify",
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(svc)
	}
	return svc
}

// Issue validates the input, anchors the content hash on the ledger and
// stores the new certificate with status active.
func (s *Service) Issue(ctx context.Context, in Input, instituteID string) (Certificate, error) {
	inst, err := s.institutes.Find(ctx, instituteID)
	if err != nil {
		return Certificate{}, ErrInstituteNotFound
	}
	if !inst.IsVerified || !inst.IsActive {
		return Certificate{}, fmt.Errorf("%w: institute must be verified and active to issue certificates", ErrNotPermitted)
	}

	norm, err := normalizeInput(in, inst)
	if err != nil {
		return Certificate{}, err
	}

	now := s.now().UTC()
	c := Certificate{
		CertificateID:      ids.NewCertificateID(),
		CertificateHash:    ContentHash(norm.StudentName, norm.CourseName, norm.CompletionDate, norm.IssuerName, norm.IssuerOrganization),
		StudentName:        norm.StudentName,
		CourseName:         norm.CourseName,
		CompletionDate:     norm.CompletionDate,
		IssuerName:         norm.IssuerName,
		IssuerOrganization: norm.IssuerOrganization,
		Description:        norm.Description,
		Grade:              norm.Grade,
		Duration:           norm.Duration,
		CertificateType:    norm.CertificateType,
		Template:           norm.Template,
		Status:             StatusActive,
		InstituteID:        inst.InstituteID,
		InstituteName:      inst.Name,
		CreatedAt:          now,
	}
	c.VerificationURL = s.verifyBase + "/" + c.CertificateID

	anchor, err := s.ledger.Record(ctx, c.CertificateHash)
	if err != nil {
		return Certificate{}, fmt.Errorf("anchor certificate: %w", err)
	}
	c.Anchor = anchor

	if err := s.store.Put(ctx, &c); err != nil {
		return Certificate{}, err
	}
	obs.CertificateIssued()
	return c, nil
}

// Get returns a certificate by its public identifier.
func (s *Service) Get(ctx context.Context, certificateID string) (Certificate, error) {
	c, err := s.store.Get(ctx, certificateID)
	if err != nil {
		return Certificate{}, err
	}
	return *c, nil
}

// List returns an institute's certificates, newest first, narrowed by filters.
func (s *Service) List(ctx context.Context, instituteID string, f Filters) ([]Certificate, error) {
	if f.Status != "" && !ValidStatus(f.Status) {
		return nil, fmt.Errorf("%w: unknown status %q", ErrInvalidInput, f.Status)
	}
	if f.Template != "" && !contains(Templates, f.Template) {
		return nil, fmt.Errorf("%w: unknown template %q", ErrInvalidInput, f.Template)
	}
	return s.store.List(ctx, instituteID, f)
}

// Search is a free-text lookup over student name, course name and id.
func (s *Service) Search(ctx context.Context, query, instituteID string) ([]Certificate, error) {
	return s.store.List(ctx, instituteID, Filters{Search: query})
}

// Revoke transitions a certificate to revoked. The caller must be the owning
// institute and the reason must be 10-500 characters. Revoking twice returns
// ErrAlreadyRevoked.
func (s *Service) Revoke(ctx context.Context, certificateID, instituteID, reason string) (Certificate, error) {
	reason = strings.TrimSpace(reason)
	if len(reason) < 10 || len(reason) > 500 {
		return Certificate{}, fmt.Errorf("%w: revocation reason must be 10-500 characters", ErrInvalidInput)
	}

	c, err := s.store.Get(ctx, certificateID)
	if err != nil {
		return Certificate{}, err
	}
	if c.InstituteID != instituteID {
		return Certificate{}, fmt.Errorf("%w: certificate belongs to another institute", ErrNotPermitted)
	}
	if c.Status == StatusRevoked {
		return Certificate{}, ErrAlreadyRevoked
	}

	now := s.now().UTC()
	c.Status = StatusRevoked
	c.RevokedAt = &now
	c.RevocationReason = reason
	if err := s.store.Update(ctx, c); err != nil {
		return Certificate{}, err
	}
	obs.CertificateRevoked()
	return *c, nil
}

// Stats aggregates the institute's certificates by status, template and type.
func (s *Service) Stats(ctx context.Context, instituteID string) (Stats, error) {
	certs, err := s.store.List(ctx, instituteID, Filters{})
	if err != nil {
		return Stats{}, err
	}
	st := Stats{
		Templates: make(map[string]int),
		Types:     make(map[string]int),
	}
	for _, c := range certs {
		st.Total++
		switch c.Status {
		case StatusActive:
			st.Active++
		case StatusRevoked:
			st.Revoked++
		}
		st.Templates[c.Template]++
		st.Types[c.CertificateType]++
	}
	return st, nil
}

type normalized struct {
	StudentName, CourseName, CompletionDate string
	IssuerName, IssuerOrganization          string
	Description, Grade, Duration            string
	CertificateType, Template               string
}

func normalizeInput(in Input, inst *auth.Institute) (normalized, error) {
	n := normalized{
		StudentName:        strings.TrimSpace(in.StudentName),
		CourseName:         strings.TrimSpace(in.CourseName),
		CompletionDate:     strings.TrimSpace(in.CompletionDate),
		IssuerName:         strings.TrimSpace(in.IssuerName),
		IssuerOrganization: strings.TrimSpace(in.IssuerOrganization),
		Description:        strings.TrimSpace(in.Description),
		Grade:              strings.TrimSpace(in.Grade),
		Duration:           strings.TrimSpace(in.Duration),
		CertificateType:    strings.TrimSpace(in.CertificateType),
		Template:           strings.TrimSpace(in.Template),
	}
	if n.IssuerName == "" {
		n.IssuerName = inst.Name
	}
	if n.IssuerOrganization == "" {
		n.IssuerOrganization = inst.Organization
	}
	if n.CertificateType == "" {
		n.CertificateType = "course"
	}
	if n.Template == "" {
		n.Template = "modern"
	}

	switch {
	case len(n.StudentName) < 2 || len(n.StudentName) > 100:
		return n, fmt.Errorf("%w: student name must be 2-100 characters", ErrInvalidInput)
	case len(n.CourseName) < 2 || len(n.CourseName) > 200:
		return n, fmt.Errorf("%w: course name must be 2-200 characters", ErrInvalidInput)
	case n.CompletionDate == "":
		return n, fmt.Errorf("%w: completion date is required", ErrInvalidInput)
	case len(n.IssuerName) > 100:
		return n, fmt.Errorf("%w: issuer name must be under 100 characters", ErrInvalidInput)
	case len(n.IssuerOrganization) > 200:
		return n, fmt.Errorf("%w: issuer organization must be under 200 characters", ErrInvalidInput)
	case len(n.Description) > 500:
		return n, fmt.Errorf("%w: description must be under 500 characters", ErrInvalidInput)
	case len(n.Grade) > 50:
		return n, fmt.Errorf("%w: grade must be under 50 characters", ErrInvalidInput)
	case len(n.Duration) > 100:
		return n, fmt.Errorf("%w: duration must be under 100 characters", ErrInvalidInput)
	case !contains(Types, n.CertificateType):
		return n, fmt.Errorf("%w: unknown certificate type %q", ErrInvalidInput, n.CertificateType)
	case !contains(Templates, n.Template):
		return n, fmt.Errorf("%w: unknown template %q", ErrInvalidInput, n.Template)
	}

	if _, err := parseCompletionDate(n.CompletionDate); err != nil {
		return n, fmt.Errorf("%w: completion date must be an ISO-8601 date", ErrInvalidInput)
	}
	return n, nil
}

func parseCompletionDate(raw string) (time.Time, error) {
	for _, layout := range []string{"2006-01-02", time.RFC3339} {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, nil
		}
	}
	return time.Time{}, errors.New("unsupported date layout")
}

func contains(set []string, v string) bool {
	for _, s := range set {
		if s == v {
			return true
		}
	}
	return false
}
