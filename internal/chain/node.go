package chain

import (
	"context"
	"crypto/rand"
	"fmt"
	"time"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/ethclient"
)

// Node anchors hashes against a live JSON-RPC endpoint. It pins the current
// head block number into the anchor but still fabricates the transaction hash:
// contract deployment is out of scope, so this path only proves the node is
// reachable. Dial failures fall back to the mock at wiring time.
type Node struct {
	client *ethclient.Client
	now    func() time.Time
}

// Dial connects to an Ethereum JSON-RPC endpoint.
func Dial(ctx context.Context, rawurl string) (*Node, error) {
	client, err := ethclient.DialContext(ctx, rawurl)
	if err != nil {
		return nil, fmt.Errorf("chain: dial %s: %w", rawurl, err)
	}
	return &Node{client: client, now: time.Now}, nil
}

// Close releases the underlying RPC connection.
func (n *Node) Close() {
	if n != nil && n.client != nil {
		n.client.Close()
	}
}

func (n *Node) Record(ctx context.Context, contentHash string) (Anchor, error) {
	if contentHash == "" || contentHash == ZeroHash {
		return Anchor{}, fmt.Errorf("chain: empty content hash")
	}
	head, err := n.client.BlockNumber(ctx)
	if err != nil {
		return Anchor{}, fmt.Errorf("chain: head block: %w", err)
	}
	var tx [32]byte
	if _, err := rand.Read(tx[:]); err != nil {
		return Anchor{}, fmt.Errorf("chain: entropy: %w", err)
	}
	return Anchor{
		TxHash:          hexutil.Encode(tx[:]),
		BlockNumber:     head,
		ContractAddress: ZeroAddress,
	}, nil
}

func (n *Node) Confirm(ctx context.Context, anchor Anchor) (Confirmation, error) {
	if anchor.IsZero() {
		return Confirmation{
			Verified:     false,
			LastVerified: n.now().UTC(),
			Reason:       "certificate is not anchored",
		}, ErrNotAnchored
	}
	head, err := n.client.BlockNumber(ctx)
	if err != nil {
		return Confirmation{
			Verified:     false,
			LastVerified: n.now().UTC(),
			Reason:       "node unreachable",
		}, fmt.Errorf("chain: head block: %w", err)
	}
	return Confirmation{
		Verified:     anchor.BlockNumber <= head,
		HashExists:   true,
		Revoked:      false,
		BlockNumber:  anchor.BlockNumber,
		TxHash:       anchor.TxHash,
		LastVerified: n.now().UTC(),
	}, nil
}
