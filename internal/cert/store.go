package cert

import "context"

// Store is the certificate repository. Implementations must reject duplicate
// CertificateID and CertificateHash values and return defensive copies.
type Store interface {
	Put(ctx context.Context, c *Certificate) error
	Get(ctx context.Context, certificateID string) (*Certificate, error)
	GetByHash(ctx context.Context, certificateHash string) (*Certificate, error)
	// List returns an institute's certificates, newest first.
	List(ctx context.Context, instituteID string, f Filters) ([]Certificate, error)
	Update(ctx context.Context, c *Certificate) error
}
