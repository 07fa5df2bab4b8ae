package cert

import (
	"crypto/sha256"
	"strings"

	"github.com/ethereum/go-ethereum/common/hexutil"
)

// ContentHash returns the deterministic digest over a certificate's
// descriptive fields. The digest deliberately excludes timestamps and every
// fabricated ledger field so that re-hashing the same field tuple always
// reproduces the stored value and holders can verify by recomputation.
func ContentHash(studentName, courseName, completionDate, issuerName, issuerOrganization string) string {
	canonical := strings.Join([]string{
		strings.TrimSpace(studentName),
		strings.TrimSpace(courseName),
		strings.TrimSpace(completionDate),
		strings.TrimSpace(issuerName),
		strings.TrimSpace(issuerOrganization),
	}, "\x1f")
	sum := sha256.Sum256([]byte(canonical))
	return hexutil.Encode(sum[:])
}
