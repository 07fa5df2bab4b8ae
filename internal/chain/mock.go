package chain

import (
	"context"
	"crypto/rand"
	"encoding/binary"
	"fmt"
	"time"

	"github.com/ethereum/go-ethereum/common/hexutil"
)

// Mock fabricates ledger anchors. Every Record invents a random transaction
// hash and block number; every Confirm asserts the anchor is verified. This
// mirrors the demo deployment where no node is reachable and is NOT a
// cryptographic proof of anything.
type Mock struct {
	now func() time.Time
}

// NewMock creates a mock ledger.
func NewMock() *Mock {
	return &Mock{now: time.Now}
}

func (m *Mock) Record(ctx context.Context, contentHash string) (Anchor, error) {
	if contentHash == "" || contentHash == ZeroHash {
		return Anchor{}, fmt.Errorf("chain: empty content hash")
	}
	var buf [40]byte
	if _, err := rand.Read(buf[:]); err != nil {
		return Anchor{}, fmt.Errorf("chain: entropy: %w", err)
	}
	block := binary.BigEndian.Uint64(buf[32:]) % 1_000_000
	return Anchor{
		TxHash:          hexutil.Encode(buf[:32]),
		BlockNumber:     block,
		ContractAddress: ZeroAddress,
	}, nil
}

func (m *Mock) Confirm(ctx context.Context, anchor Anchor) (Confirmation, error) {
	if anchor.IsZero() {
		return Confirmation{
			Verified:     false,
			LastVerified: m.now().UTC(),
			Reason:       "certificate is not anchored",
		}, ErrNotAnchored
	}
	return Confirmation{
		Verified:     true,
		HashExists:   true,
		Revoked:      false,
		BlockNumber:  anchor.BlockNumber,
		TxHash:       anchor.TxHash,
		LastVerified: m.now().UTC(),
	}, nil
}
