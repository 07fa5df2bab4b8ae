package ids

import (
	mathrand "math/rand"
	"strings"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

var (
	entropyMu sync.Mutex
	entropy   = ulid.Monotonic(mathrand.New(mathrand.NewSource(time.Now().UnixNano())), 0)
)

// New returns a lexicographically sortable identifier suitable for storage keys.
func New() string {
	entropyMu.Lock()
	defer entropyMu.Unlock()
	return ulid.MustNew(ulid.Timestamp(time.Now()), entropy).String()
}

// NewCertificateID returns an opaque public certificate identifier.
// The timestamp component of the ULID keeps identifiers sortable by
// issuance time; the entropy component makes collisions negligible.
func NewCertificateID() string {
	return "CERT-" + New()
}

// NewInstituteID returns an opaque public institute identifier.
func NewInstituteID() string {
	return "INST-" + New()
}

// IsCertificateID reports whether id carries the certificate prefix.
func IsCertificateID(id string) bool {
	return strings.HasPrefix(id, "CERT-")
}
