package cert

import (
	"errors"
	"time"

	"certchain.org/internal/chain"
)

// Status is the certificate lifecycle state. The only implemented transition
// is active -> revoked; "expired" is declared for forward compatibility but no
// rule produces it.
type Status string

const (
	StatusActive  Status = "active"
	StatusRevoked Status = "revoked"
	StatusExpired Status = "expired"
)

// ValidStatus reports whether s is a declared lifecycle state.
func ValidStatus(s Status) bool {
	switch s {
	case StatusActive, StatusRevoked, StatusExpired:
		return true
	}
	return false
}

// Certificate types and templates accepted at issuance.
var (
	Types     = []string{"course", "training", "achievement", "participation", "other"}
	Templates = []string{"modern", "classic"}
)

// Certificate is an issued credential. ChainTxHash, BlockNumber and
// ChainAddress are assigned once at creation and never change.
type Certificate struct {
	CertificateID      string       `json:"certificateId"`
	CertificateHash    string       `json:"certificateHash"`
	StudentName        string       `json:"studentName"`
	CourseName         string       `json:"courseName"`
	CompletionDate     string       `json:"completionDate"`
	IssuerName         string       `json:"issuerName"`
	IssuerOrganization string       `json:"issuerOrganization"`
	Description        string       `json:"description,omitempty"`
	Grade              string       `json:"grade,omitempty"`
	Duration           string       `json:"duration,omitempty"`
	CertificateType    string       `json:"certificateType"`
	Template           string       `json:"template"`
	Status             Status       `json:"status"`
	Anchor             chain.Anchor `json:"anchor"`
	InstituteID        string       `json:"instituteId"`
	InstituteName      string       `json:"instituteName"`
	VerificationURL    string       `json:"verificationUrl,omitempty"`
	CreatedAt          time.Time    `json:"createdAt"`
	RevokedAt          *time.Time   `json:"revokedAt,omitempty"`
	RevocationReason   string       `json:"revocationReason,omitempty"`
}

// Input carries caller-supplied fields for issuance.
type Input struct {
	StudentName        string `json:"studentName"`
	CourseName         string `json:"courseName"`
	CompletionDate     string `json:"completionDate"`
	IssuerName         string `json:"issuerName"`
	IssuerOrganization string `json:"issuerOrganization"`
	Description        string `json:"description"`
	Grade              string `json:"grade"`
	Duration           string `json:"duration"`
	CertificateType    string `json:"certificateType"`
	Template           string `json:"template"`
}

// Filters narrows certificate listings.
type Filters struct {
	Search   string
	Status   Status
	Template string
}

// Stats aggregates an institute's issued certificates.
type Stats struct {
	Total     int            `json:"total"`
	Active    int            `json:"active"`
	Revoked   int            `json:"revoked"`
	Templates map[string]int `json:"templates"`
	Types     map[string]int `json:"types"`
}

var (
	ErrNotFound          = errors.New("cert: certificate not found")
	ErrInvalidInput      = errors.New("cert: invalid input")
	ErrInstituteNotFound = errors.New("cert: institute not found")
	ErrNotPermitted      = errors.New("cert: institute not permitted")
	ErrAlreadyRevoked    = errors.New("cert: certificate already revoked")
	ErrDuplicateID       = errors.New("cert: certificate id already exists")
	ErrDuplicateHash     = errors.New("cert: certificate hash already exists")
)
