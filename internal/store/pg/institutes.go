package pg

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"certchain.org/internal/auth"
)

// Institutes is the PostgreSQL-backed institute account store.
type Institutes struct {
	db *sql.DB
}

var _ auth.Store = (*Institutes)(nil)

// NewInstitutes wraps an open database handle.
func NewInstitutes(db *sql.DB) *Institutes {
	return &Institutes{db: db}
}

const instColumns = `id, name, email, organization, password_hash, address, website, phone,
	is_verified, is_active, certificate_count, created_at, last_login`

func (s *Institutes) Create(ctx context.Context, inst *auth.Institute) error {
	_, err := s.db.ExecContext(ctx, `
		insert into institutes(`+instColumns+`)
		values ($1,$2,lower($3),$4,$5,$6,$7,$8,$9,$10,$11,$12,$13)
	`,
		inst.InstituteID, inst.Name, inst.Email, inst.Organization, inst.PasswordHash,
		inst.Address, inst.Website, inst.Phone,
		inst.IsVerified, inst.IsActive, inst.CertificateCount, inst.CreatedAt, nullTime(inst.LastLogin),
	)
	if uniqueViolation(err, "institutes_email_key") {
		return auth.ErrEmailTaken
	}
	return err
}

func (s *Institutes) Find(ctx context.Context, instituteID string) (*auth.Institute, error) {
	row := s.db.QueryRowContext(ctx, `select `+instColumns+` from institutes where id=$1`, instituteID)
	return scanInstitute(row)
}

func (s *Institutes) FindByEmail(ctx context.Context, email string) (*auth.Institute, error) {
	row := s.db.QueryRowContext(ctx, `select `+instColumns+` from institutes where email=lower($1)`, email)
	return scanInstitute(row)
}

// Update rewrites the mutable account fields. Email and the password hash are
// never touched here; UpdatePassword owns hash changes.
func (s *Institutes) Update(ctx context.Context, inst *auth.Institute) error {
	res, err := s.db.ExecContext(ctx, `
		update institutes set
			name=$2, organization=$3, address=$4, website=$5, phone=$6,
			is_verified=$7, is_active=$8, certificate_count=$9, last_login=$10
		where id=$1
	`,
		inst.InstituteID, inst.Name, inst.Organization, inst.Address, inst.Website, inst.Phone,
		inst.IsVerified, inst.IsActive, inst.CertificateCount, nullTime(inst.LastLogin),
	)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return auth.ErrNotFound
	}
	return nil
}

func (s *Institutes) UpdatePassword(ctx context.Context, instituteID, passwordHash string) error {
	res, err := s.db.ExecContext(ctx, `update institutes set password_hash=$2 where id=$1`, instituteID, passwordHash)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return auth.ErrNotFound
	}
	return nil
}

func scanInstitute(row rowScanner) (*auth.Institute, error) {
	var inst auth.Institute
	var lastLogin sql.NullTime
	err := row.Scan(
		&inst.InstituteID, &inst.Name, &inst.Email, &inst.Organization, &inst.PasswordHash,
		&inst.Address, &inst.Website, &inst.Phone,
		&inst.IsVerified, &inst.IsActive, &inst.CertificateCount, &inst.CreatedAt, &lastLogin,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, auth.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if lastLogin.Valid {
		inst.LastLogin = lastLogin.Time.UTC()
	}
	inst.CreatedAt = inst.CreatedAt.UTC()
	return &inst, nil
}

func nullTime(t time.Time) any {
	if t.IsZero() {
		return nil
	}
	return t
}
