package cert

import (
	"context"
	"errors"
	"testing"
	"time"
)

func seedCert(id, hash, institute, student, course string, status Status) *Certificate {
	return &Certificate{
		CertificateID:   id,
		CertificateHash: hash,
		StudentName:     student,
		CourseName:      course,
		CompletionDate:  "2024-01-01",
		Status:          status,
		InstituteID:     institute,
		Template:        "modern",
		CertificateType: "course",
		CreatedAt:       time.Now().UTC(),
	}
}

func TestInMemoryRejectsDuplicates(t *testing.T) {
	s := NewInMemory()
	ctx := context.Background()

	if err := s.Put(ctx, seedCert("c1", "h1", "i1", "Jane", "Algo", StatusActive)); err != nil {
		t.Fatal(err)
	}
	if err := s.Put(ctx, seedCert("c1", "h2", "i1", "Jane", "Algo", StatusActive)); !errors.Is(err, ErrDuplicateID) {
		t.Fatalf("expected ErrDuplicateID, got %v", err)
	}
	if err := s.Put(ctx, seedCert("c2", "h1", "i1", "Jane", "Algo", StatusActive)); !errors.Is(err, ErrDuplicateHash) {
		t.Fatalf("expected ErrDuplicateHash, got %v", err)
	}
}

func TestInMemoryListNewestFirstAndFilters(t *testing.T) {
	s := NewInMemory()
	ctx := context.Background()

	_ = s.Put(ctx, seedCert("c1", "h1", "i1", "Jane Doe", "Algorithms", StatusActive))
	_ = s.Put(ctx, seedCert("c2", "h2", "i1", "John Roe", "Databases", StatusRevoked))
	_ = s.Put(ctx, seedCert("c3", "h3", "i2", "Jane Doe", "Networks", StatusActive))

	all, err := s.List(ctx, "i1", Filters{})
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 2 || all[0].CertificateID != "c2" || all[1].CertificateID != "c1" {
		t.Fatalf("unexpected order: %+v", all)
	}

	active, _ := s.List(ctx, "i1", Filters{Status: StatusActive})
	if len(active) != 1 || active[0].CertificateID != "c1" {
		t.Fatalf("status filter failed: %+v", active)
	}

	search, _ := s.List(ctx, "i1", Filters{Search: "jane"})
	if len(search) != 1 || search[0].CertificateID != "c1" {
		t.Fatalf("search filter failed: %+v", search)
	}

	byID, _ := s.List(ctx, "i1", Filters{Search: "C2"})
	if len(byID) != 1 || byID[0].CertificateID != "c2" {
		t.Fatalf("id search failed: %+v", byID)
	}
}

func TestInMemoryUpdateKeepsImmutableFields(t *testing.T) {
	s := NewInMemory()
	ctx := context.Background()
	c := seedCert("c1", "h1", "i1", "Jane", "Algo", StatusActive)
	c.Anchor.TxHash = "0xabc"
	if err := s.Put(ctx, c); err != nil {
		t.Fatal(err)
	}

	mod := *c
	mod.CertificateHash = "tampered"
	mod.Anchor.TxHash = "0xdef"
	mod.Status = StatusRevoked
	if err := s.Update(ctx, &mod); err != nil {
		t.Fatal(err)
	}

	got, err := s.Get(ctx, "c1")
	if err != nil {
		t.Fatal(err)
	}
	if got.CertificateHash != "h1" || got.Anchor.TxHash != "0xabc" {
		t.Fatalf("immutable fields changed: %+v", got)
	}
	if got.Status != StatusRevoked {
		t.Fatalf("mutable field not applied: %s", got.Status)
	}

	// Hash index still resolves after update.
	if _, err := s.GetByHash(ctx, "h1"); err != nil {
		t.Fatalf("hash lookup after update: %v", err)
	}
}

func TestInMemoryGetReturnsCopy(t *testing.T) {
	s := NewInMemory()
	ctx := context.Background()
	_ = s.Put(ctx, seedCert("c1", "h1", "i1", "Jane", "Algo", StatusActive))

	got, _ := s.Get(ctx, "c1")
	got.StudentName = "mutated"

	again, _ := s.Get(ctx, "c1")
	if again.StudentName != "Jane" {
		t.Fatal("store exposed internal state")
	}
}
