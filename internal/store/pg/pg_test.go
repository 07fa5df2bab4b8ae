package pg

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"

	"certchain.org/internal/auth"
	"certchain.org/internal/cert"
	"certchain.org/internal/chain"
)

func certRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "certificate_hash", "student_name", "course_name", "completion_date",
		"issuer_name", "issuer_organization", "description", "grade", "duration",
		"certificate_type", "template", "status", "tx_hash", "block_number", "contract_address",
		"institute_id", "institute_name", "verification_url", "created_at", "revoked_at", "revocation_reason",
	})
}

func TestCertificatesGet(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	created := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	mock.ExpectQuery("from certificates where id=").
		WithArgs("CERT-1").
		WillReturnRows(certRows().AddRow(
			"CERT-1", "0xabc", "Jane Doe", "Algorithms", "2024-01-01",
			"Tech U", "Org", "", "", "",
			"course", "modern", "active", "0xdead", uint64(42), chain.ZeroAddress,
			"INST-1", "Tech U", "http://localhost:3000/verify/CERT-1", created, nil, nil,
		))

	got, err := NewCertificates(db).Get(context.Background(), "CERT-1")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.CertificateID != "CERT-1" || got.Status != cert.StatusActive {
		t.Fatalf("unexpected certificate: %+v", got)
	}
	if got.Anchor.TxHash != "0xdead" || got.Anchor.BlockNumber != 42 {
		t.Fatalf("anchor not restored: %+v", got.Anchor)
	}
	if got.RevokedAt != nil {
		t.Fatalf("unexpected revocation: %+v", got.RevokedAt)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestCertificatesGetNotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery("from certificates where id=").
		WithArgs("CERT-MISSING").
		WillReturnRows(certRows())

	if _, err := NewCertificates(db).Get(context.Background(), "CERT-MISSING"); !errors.Is(err, cert.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestCertificatesPutMapsDuplicates(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	c := &cert.Certificate{
		CertificateID:   "CERT-1",
		CertificateHash: "0xabc",
		Status:          cert.StatusActive,
		CreatedAt:       time.Now().UTC(),
	}

	mock.ExpectExec("insert into certificates").
		WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "certificates_pkey"})
	if err := NewCertificates(db).Put(context.Background(), c); !errors.Is(err, cert.ErrDuplicateID) {
		t.Fatalf("expected ErrDuplicateID, got %v", err)
	}

	mock.ExpectExec("insert into certificates").
		WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "certificates_certificate_hash_key"})
	if err := NewCertificates(db).Put(context.Background(), c); !errors.Is(err, cert.ErrDuplicateHash) {
		t.Fatalf("expected ErrDuplicateHash, got %v", err)
	}
}

func TestCertificatesListAppliesFilters(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	created := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	mock.ExpectQuery("from certificates where institute_id=(.+) and status=(.+) ilike (.+) order by created_at desc").
		WithArgs("INST-1", "active", "%jane%").
		WillReturnRows(certRows().AddRow(
			"CERT-1", "0xabc", "Jane Doe", "Algorithms", "2024-01-01",
			"Tech U", "Org", "", "", "",
			"course", "modern", "active", "0xdead", uint64(42), chain.ZeroAddress,
			"INST-1", "Tech U", "", created, nil, nil,
		))

	res, err := NewCertificates(db).List(context.Background(), "INST-1", cert.Filters{Status: cert.StatusActive, Search: "jane"})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(res) != 1 || res[0].CertificateID != "CERT-1" {
		t.Fatalf("unexpected listing: %+v", res)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestCertificatesUpdateNotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	mock.ExpectExec("update certificates set").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err = NewCertificates(db).Update(context.Background(), &cert.Certificate{CertificateID: "CERT-MISSING"})
	if !errors.Is(err, cert.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func instRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "name", "email", "organization", "password_hash", "address", "website", "phone",
		"is_verified", "is_active", "certificate_count", "created_at", "last_login",
	})
}

func TestInstitutesFindByEmail(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	created := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	mock.ExpectQuery("from institutes where email=lower").
		WithArgs("Admin@Tech.edu").
		WillReturnRows(instRows().AddRow(
			"INST-1", "Tech U", "admin@tech.edu", "Org", "hash", "", "", "",
			true, true, int64(3), created, nil,
		))

	inst, err := NewInstitutes(db).FindByEmail(context.Background(), "Admin@Tech.edu")
	if err != nil {
		t.Fatalf("FindByEmail: %v", err)
	}
	if inst.InstituteID != "INST-1" || !inst.IsVerified {
		t.Fatalf("unexpected institute: %+v", inst)
	}
	if !inst.LastLogin.IsZero() {
		t.Fatalf("expected zero last login: %v", inst.LastLogin)
	}
}

func TestInstitutesCreateMapsEmailConflict(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	mock.ExpectExec("insert into institutes").
		WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "institutes_email_key"})

	err = NewInstitutes(db).Create(context.Background(), &auth.Institute{
		InstituteID: "INST-1",
		Email:       "admin@tech.edu",
		CreatedAt:   time.Now().UTC(),
	})
	if !errors.Is(err, auth.ErrEmailTaken) {
		t.Fatalf("expected ErrEmailTaken, got %v", err)
	}
}

func TestInstitutesUpdatePasswordNotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	mock.ExpectExec("update institutes set password_hash=").
		WithArgs("INST-MISSING", "newhash").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err = NewInstitutes(db).UpdatePassword(context.Background(), "INST-MISSING", "newhash")
	if !errors.Is(err, auth.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
