package pg

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"certchain.org/internal/cert"
)

// Certificates is the PostgreSQL-backed certificate store.
type Certificates struct {
	db *sql.DB
}

var _ cert.Store = (*Certificates)(nil)

// NewCertificates wraps an open database handle.
func NewCertificates(db *sql.DB) *Certificates {
	return &Certificates{db: db}
}

const certColumns = `id, certificate_hash, student_name, course_name, completion_date,
	issuer_name, issuer_organization, description, grade, duration,
	certificate_type, template, status, tx_hash, block_number, contract_address,
	institute_id, institute_name, verification_url, created_at, revoked_at, revocation_reason`

func (s *Certificates) Put(ctx context.Context, c *cert.Certificate) error {
	_, err := s.db.ExecContext(ctx, `
		insert into certificates(`+certColumns+`)
		values ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,$19,$20,$21,$22)
	`,
		c.CertificateID, c.CertificateHash, c.StudentName, c.CourseName, c.CompletionDate,
		c.IssuerName, c.IssuerOrganization, c.Description, c.Grade, c.Duration,
		c.CertificateType, c.Template, string(c.Status), c.Anchor.TxHash, c.Anchor.BlockNumber, c.Anchor.ContractAddress,
		c.InstituteID, c.InstituteName, c.VerificationURL, c.CreatedAt, c.RevokedAt, nullIfEmpty(c.RevocationReason),
	)
	switch {
	case err == nil:
		return nil
	case uniqueViolation(err, "certificates_pkey"):
		return cert.ErrDuplicateID
	case uniqueViolation(err, "certificates_certificate_hash_key"):
		return cert.ErrDuplicateHash
	default:
		return err
	}
}

func (s *Certificates) Get(ctx context.Context, certificateID string) (*cert.Certificate, error) {
	row := s.db.QueryRowContext(ctx, `select `+certColumns+` from certificates where id=$1`, certificateID)
	return scanCertificate(row)
}

func (s *Certificates) GetByHash(ctx context.Context, certificateHash string) (*cert.Certificate, error) {
	row := s.db.QueryRowContext(ctx, `select `+certColumns+` from certificates where certificate_hash=$1`, certificateHash)
	return scanCertificate(row)
}

func (s *Certificates) List(ctx context.Context, instituteID string, f cert.Filters) ([]cert.Certificate, error) {
	query := `select ` + certColumns + ` from certificates where institute_id=$1`
	args := []any{instituteID}
	if f.Status != "" {
		args = append(args, string(f.Status))
		query += fmt.Sprintf(" and status=$%d", len(args))
	}
	if f.Template != "" {
		args = append(args, f.Template)
		query += fmt.Sprintf(" and template=$%d", len(args))
	}
	if q := strings.TrimSpace(f.Search); q != "" {
		args = append(args, "%"+q+"%")
		n := len(args)
		query += fmt.Sprintf(" and (student_name ilike $%d or course_name ilike $%d or id ilike $%d)", n, n, n)
	}
	query += " order by created_at desc, id desc"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var res []cert.Certificate
	for rows.Next() {
		c, err := scanCertificate(rows)
		if err != nil {
			return nil, err
		}
		res = append(res, *c)
	}
	return res, rows.Err()
}

// Update rewrites the mutable fields. CertificateHash and the ledger anchor
// are never touched.
func (s *Certificates) Update(ctx context.Context, c *cert.Certificate) error {
	res, err := s.db.ExecContext(ctx, `
		update certificates set
			student_name=$2, course_name=$3, completion_date=$4,
			issuer_name=$5, issuer_organization=$6, description=$7,
			grade=$8, duration=$9, certificate_type=$10, template=$11,
			status=$12, verification_url=$13, revoked_at=$14, revocation_reason=$15
		where id=$1
	`,
		c.CertificateID, c.StudentName, c.CourseName, c.CompletionDate,
		c.IssuerName, c.IssuerOrganization, c.Description,
		c.Grade, c.Duration, c.CertificateType, c.Template,
		string(c.Status), c.VerificationURL, c.RevokedAt, nullIfEmpty(c.RevocationReason),
	)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return cert.ErrNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanCertificate(row rowScanner) (*cert.Certificate, error) {
	var c cert.Certificate
	var status string
	var revokedAt sql.NullTime
	var reason sql.NullString
	err := row.Scan(
		&c.CertificateID, &c.CertificateHash, &c.StudentName, &c.CourseName, &c.CompletionDate,
		&c.IssuerName, &c.IssuerOrganization, &c.Description, &c.Grade, &c.Duration,
		&c.CertificateType, &c.Template, &status, &c.Anchor.TxHash, &c.Anchor.BlockNumber, &c.Anchor.ContractAddress,
		&c.InstituteID, &c.InstituteName, &c.VerificationURL, &c.CreatedAt, &revokedAt, &reason,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, cert.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	c.Status = cert.Status(status)
	if revokedAt.Valid {
		t := revokedAt.Time.UTC()
		c.RevokedAt = &t
	}
	if reason.Valid {
		c.RevocationReason = reason.String
	}
	c.CreatedAt = c.CreatedAt.UTC()
	return &c, nil
}

func nullIfEmpty(s string) any {
	if s == "" {
		return nil
	}
	return s
}
