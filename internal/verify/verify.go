// Package verify answers whether an issued certificate is currently valid.
// Lookups that find nothing are soft failures: the caller gets isValid=false
// and a message, never an error, so "certificate is invalid" stays distinct
// from "request is malformed".
package verify

import (
	"context"
	"errors"
	"fmt"

	"certchain.org/internal/cert"
	"certchain.org/internal/chain"
	"certchain.org/internal/obs"
)

// MaxBulk caps the number of identifiers a single bulk request may carry.
const MaxBulk = 10

// ErrBatchSize rejects empty or oversized bulk requests before any lookup.
var ErrBatchSize = fmt.Errorf("verify: between 1 and %d certificate ids required", MaxBulk)

// Result is the outcome of a single verification.
type Result struct {
	CertificateID string              `json:"certificateId"`
	IsValid       bool                `json:"isValid"`
	Message       string              `json:"message"`
	Certificate   *cert.Certificate   `json:"certificate,omitempty"`
	Chain         *chain.Confirmation `json:"blockchainVerification,omitempty"`
}

// Summary aggregates a bulk verification.
type Summary struct {
	Total   int `json:"total"`
	Valid   int `json:"valid"`
	Invalid int `json:"invalid"`
}

// Checks are the individual deep-verification predicates.
type Checks struct {
	HashIntegrity bool `json:"hashIntegrity"`
	ChainStored   bool `json:"blockchainStored"`
	NotRevoked    bool `json:"notRevoked"`
}

// DeepResult composes basic verification, the ledger confirmation and the
// additional checks; IsValid is the conjunction of all of them.
type DeepResult struct {
	IsValid bool                `json:"isValid"`
	Message string              `json:"message"`
	Basic   Result              `json:"basicVerification"`
	Chain   *chain.Confirmation `json:"blockchainVerification,omitempty"`
	Checks  Checks              `json:"securityChecks"`
}

// Verifier resolves certificates and their ledger anchors.
type Verifier struct {
	certs  cert.Store
	ledger chain.Ledger
}

// New constructs a Verifier.
func New(certs cert.Store, ledger chain.Ledger) *Verifier {
	return &Verifier{certs: certs, ledger: ledger}
}

// Verify checks a certificate by its public identifier.
func (v *Verifier) Verify(ctx context.Context, certificateID string) (Result, error) {
	c, err := v.certs.Get(ctx, certificateID)
	if err != nil {
		if errors.Is(err, cert.ErrNotFound) {
			obs.VerificationObserved(false)
			return Result{
				CertificateID: certificateID,
				IsValid:       false,
				Message:       "Certificate not found",
			}, nil
		}
		return Result{}, err
	}
	return v.evaluate(ctx, c), nil
}

// VerifyByHash checks a certificate by its content hash.
func (v *Verifier) VerifyByHash(ctx context.Context, certificateHash string) (Result, error) {
	c, err := v.certs.GetByHash(ctx, certificateHash)
	if err != nil {
		if errors.Is(err, cert.ErrNotFound) {
			obs.VerificationObserved(false)
			return Result{
				IsValid: false,
				Message: "No certificate found with this hash",
			}, nil
		}
		return Result{}, err
	}
	return v.evaluate(ctx, c), nil
}

// BulkVerify verifies up to MaxBulk identifiers. The size check runs before
// any lookup; individual failures never abort the batch and results preserve
// input order.
func (v *Verifier) BulkVerify(ctx context.Context, certificateIDs []string) ([]Result, Summary, error) {
	if len(certificateIDs) == 0 || len(certificateIDs) > MaxBulk {
		return nil, Summary{}, ErrBatchSize
	}

	results := make([]Result, 0, len(certificateIDs))
	var summary Summary
	for _, id := range certificateIDs {
		res, err := v.Verify(ctx, id)
		if err != nil {
			res = Result{CertificateID: id, IsValid: false, Message: err.Error()}
		}
		results = append(results, res)
		summary.Total++
		if res.IsValid {
			summary.Valid++
		} else {
			summary.Invalid++
		}
	}
	return results, summary, nil
}

// DeepVerify layers the ledger confirmation and structural checks on top of
// basic verification.
func (v *Verifier) DeepVerify(ctx context.Context, certificateID string) (DeepResult, error) {
	basic, err := v.Verify(ctx, certificateID)
	if err != nil {
		return DeepResult{}, err
	}
	if basic.Certificate == nil {
		return DeepResult{
			IsValid: false,
			Message: "Certificate not found",
			Basic:   basic,
		}, nil
	}
	c := basic.Certificate

	checks := Checks{
		HashIntegrity: c.CertificateHash != "",
		ChainStored:   !c.Anchor.IsZero(),
		NotRevoked:    c.Status != cert.StatusRevoked,
	}

	var conf *chain.Confirmation
	chainVerified := false
	if checks.ChainStored {
		if got, err := v.ledger.Confirm(ctx, c.Anchor); err == nil {
			conf = &got
			chainVerified = got.Verified
		}
	}

	overall := basic.IsValid && chainVerified && checks.HashIntegrity && checks.NotRevoked
	msg := "Certificate verification failed"
	if overall {
		msg = "Certificate is fully verified"
	}
	return DeepResult{
		IsValid: overall,
		Message: msg,
		Basic:   basic,
		Chain:   conf,
		Checks:  checks,
	}, nil
}

func (v *Verifier) evaluate(ctx context.Context, c *cert.Certificate) Result {
	res := Result{
		CertificateID: c.CertificateID,
		Certificate:   c,
	}
	if c.Status == cert.StatusRevoked {
		res.Message = "Certificate has been revoked"
		obs.VerificationObserved(false)
		return res
	}
	if c.Status != cert.StatusActive {
		res.Message = "Certificate is not active"
		obs.VerificationObserved(false)
		return res
	}

	res.IsValid = true
	res.Message = "Certificate is valid and verified"
	if !c.Anchor.IsZero() {
		if conf, err := v.ledger.Confirm(ctx, c.Anchor); err == nil {
			res.Chain = &conf
		}
	}
	obs.VerificationObserved(true)
	return res
}
