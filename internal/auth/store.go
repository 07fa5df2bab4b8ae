package auth

import "context"

// Store describes persistence operations required for institute accounts.
// Implementations must treat email lookups as case-insensitive (emails are
// stored lowercased).
type Store interface {
	Create(ctx context.Context, inst *Institute) error
	Find(ctx context.Context, instituteID string) (*Institute, error)
	FindByEmail(ctx context.Context, email string) (*Institute, error)
	Update(ctx context.Context, inst *Institute) error
	UpdatePassword(ctx context.Context, instituteID, passwordHash string) error
}
