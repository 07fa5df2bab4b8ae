package httpapi

import (
	"net/http"
	"strings"

	"certchain.org/internal/chain"
)

type verifyRequest struct {
	CertificateID string `json:"certificateId"`
}

// verifyHashRequest takes the hash under "hash"; "certificateHash" is kept
// as an alias for clients mirroring the certificate payload field name.
type verifyHashRequest struct {
	Hash            string `json:"hash"`
	CertificateHash string `json:"certificateHash"`
}

func (r verifyHashRequest) value() string {
	if h := strings.TrimSpace(r.Hash); h != "" {
		return h
	}
	return strings.TrimSpace(r.CertificateHash)
}

type bulkVerifyRequest struct {
	CertificateIDs []string `json:"certificateIds"`
}

func (a *API) handleVerification(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimPrefix(r.URL.Path, "/v1/verification/")
	if path == "" {
		writeError(w, r, http.StatusNotFound, "resource not found")
		return
	}

	switch path {
	case "verify":
		a.postOnly(w, r, a.verifyByID)
		return
	case "verify-hash":
		a.postOnly(w, r, a.verifyByHash)
		return
	case "bulk-verify":
		a.postOnly(w, r, a.bulkVerify)
		return
	case "deep-verify":
		a.postOnly(w, r, a.deepVerify)
		return
	}

	id, suffix, _ := strings.Cut(path, "/")
	if id == "" {
		writeError(w, r, http.StatusNotFound, "resource not found")
		return
	}
	if r.Method != http.MethodGet {
		methodNotAllowed(w, r, http.MethodGet)
		return
	}
	switch suffix {
	case "":
		a.verificationDetail(w, r, id)
	case "chain-status":
		a.chainStatus(w, r, id)
	default:
		writeError(w, r, http.StatusNotFound, "resource not found")
	}
}

func (a *API) postOnly(w http.ResponseWriter, r *http.Request, h http.HandlerFunc) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, r, http.MethodPost)
		return
	}
	h(w, r)
}

func (a *API) verifyByID(w http.ResponseWriter, r *http.Request) {
	var req verifyRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	if strings.TrimSpace(req.CertificateID) == "" {
		writeError(w, r, http.StatusBadRequest, "certificateId is required")
		return
	}
	res, err := a.verifier.Verify(r.Context(), strings.TrimSpace(req.CertificateID))
	if err != nil {
		handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (a *API) verifyByHash(w http.ResponseWriter, r *http.Request) {
	var req verifyHashRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	hash := req.value()
	if hash == "" {
		writeError(w, r, http.StatusBadRequest, "hash is required")
		return
	}
	res, err := a.verifier.VerifyByHash(r.Context(), hash)
	if err != nil {
		handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (a *API) bulkVerify(w http.ResponseWriter, r *http.Request) {
	var req bulkVerifyRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	results, summary, err := a.verifier.BulkVerify(r.Context(), req.CertificateIDs)
	if err != nil {
		handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"results": results,
		"summary": summary,
	})
}

func (a *API) deepVerify(w http.ResponseWriter, r *http.Request) {
	var req verifyRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	if strings.TrimSpace(req.CertificateID) == "" {
		writeError(w, r, http.StatusBadRequest, "certificateId is required")
		return
	}
	res, err := a.verifier.DeepVerify(r.Context(), strings.TrimSpace(req.CertificateID))
	if err != nil {
		handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// verificationDetail is the public lookup backing the shareable verification
// page.
func (a *API) verificationDetail(w http.ResponseWriter, r *http.Request, id string) {
	res, err := a.verifier.Verify(r.Context(), id)
	if err != nil {
		handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (a *API) chainStatus(w http.ResponseWriter, r *http.Request, id string) {
	res, err := a.verifier.Verify(r.Context(), id)
	if err != nil {
		handleDomainError(w, r, err)
		return
	}
	if res.Certificate == nil {
		writeError(w, r, http.StatusNotFound, "certificate not found")
		return
	}
	var conf *chain.Confirmation
	if res.Chain != nil {
		conf = res.Chain
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"certificateId": res.CertificateID,
		"anchor":        res.Certificate.Anchor,
		"confirmation":  conf,
	})
}
