// Package chain anchors certificate hashes on a ledger. The default
// implementation fabricates transaction references; a real node client can be
// substituted without touching the certificate service.
package chain

import (
	"context"
	"errors"
	"time"
)

// ZeroHash is the hash value used when nothing was anchored.
const ZeroHash = "0x0000000000000000000000000000000000000000000000000000000000000000"

// ZeroAddress is the contract address reported by the mock path.
const ZeroAddress = "0x0000000000000000000000000000000000000000"

// Anchor is the ledger reference attached to a certificate at issuance.
type Anchor struct {
	TxHash          string `json:"txHash"`
	BlockNumber     uint64 `json:"blockNumber"`
	ContractAddress string `json:"contractAddress"`
}

// IsZero reports whether the anchor carries no usable transaction reference.
func (a Anchor) IsZero() bool {
	return a.TxHash == "" || a.TxHash == ZeroHash
}

// Confirmation is the ledger's answer when an anchor is checked again.
type Confirmation struct {
	Verified     bool      `json:"verified"`
	HashExists   bool      `json:"hashExists"`
	Revoked      bool      `json:"isRevoked"`
	BlockNumber  uint64    `json:"blockNumber,omitempty"`
	TxHash       string    `json:"transactionHash,omitempty"`
	LastVerified time.Time `json:"lastVerified"`
	Reason       string    `json:"reason,omitempty"`
}

// ErrNotAnchored indicates a confirmation was requested for a zero anchor.
var ErrNotAnchored = errors.New("chain: certificate is not anchored")

// Ledger records content hashes and confirms previously recorded anchors.
type Ledger interface {
	Record(ctx context.Context, contentHash string) (Anchor, error)
	Confirm(ctx context.Context, anchor Anchor) (Confirmation, error)
}
