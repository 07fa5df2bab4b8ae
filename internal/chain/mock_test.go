package chain

import (
	"context"
	"errors"
	"strings"
	"testing"
)

func TestMockRecordShape(t *testing.T) {
	m := NewMock()
	anchor, err := m.Record(context.Background(), "0xabc123")
	if err != nil {
		t.Fatalf("record: %v", err)
	}
	if !strings.HasPrefix(anchor.TxHash, "0x") || len(anchor.TxHash) != 66 {
		t.Fatalf("bad tx hash: %q", anchor.TxHash)
	}
	if anchor.BlockNumber >= 1_000_000 {
		t.Fatalf("block number out of range: %d", anchor.BlockNumber)
	}
	if anchor.ContractAddress != ZeroAddress {
		t.Fatalf("unexpected contract address: %q", anchor.ContractAddress)
	}
	if anchor.IsZero() {
		t.Fatal("recorded anchor must not be zero")
	}
}

func TestMockRecordUnique(t *testing.T) {
	m := NewMock()
	seen := make(map[string]bool)
	for i := 0; i < 1000; i++ {
		anchor, err := m.Record(context.Background(), "0xabc123")
		if err != nil {
			t.Fatal(err)
		}
		if seen[anchor.TxHash] {
			t.Fatalf("duplicate tx hash after %d records", i)
		}
		seen[anchor.TxHash] = true
	}
}

func TestMockRecordRejectsEmptyHash(t *testing.T) {
	m := NewMock()
	if _, err := m.Record(context.Background(), ""); err == nil {
		t.Fatal("expected error for empty hash")
	}
	if _, err := m.Record(context.Background(), ZeroHash); err == nil {
		t.Fatal("expected error for zero hash")
	}
}

func TestMockConfirm(t *testing.T) {
	m := NewMock()
	anchor, err := m.Record(context.Background(), "0xabc123")
	if err != nil {
		t.Fatal(err)
	}

	conf, err := m.Confirm(context.Background(), anchor)
	if err != nil {
		t.Fatalf("confirm: %v", err)
	}
	if !conf.Verified || !conf.HashExists || conf.Revoked {
		t.Fatalf("unexpected confirmation: %+v", conf)
	}
	if conf.TxHash != anchor.TxHash || conf.BlockNumber != anchor.BlockNumber {
		t.Fatalf("confirmation does not echo anchor: %+v", conf)
	}

	if _, err := m.Confirm(context.Background(), Anchor{}); !errors.Is(err, ErrNotAnchored) {
		t.Fatalf("expected ErrNotAnchored, got %v", err)
	}
}
