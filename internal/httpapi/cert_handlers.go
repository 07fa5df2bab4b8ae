package httpapi

import (
	"net/http"
	"strings"

	"certchain.org/internal/audit"
	"certchain.org/internal/auth"
	"certchain.org/internal/cert"
	"certchain.org/internal/stream"
)

type revokeRequest struct {
	Reason string `json:"reason"`
}

func (a *API) handleCertificatesCollection(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		a.issueCertificate(w, r)
	case http.MethodGet:
		a.listCertificates(w, r)
	default:
		methodNotAllowed(w, r, http.MethodGet, http.MethodPost)
	}
}

func (a *API) handleCertificateResource(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimPrefix(r.URL.Path, "/v1/certificates/")
	if path == "" {
		writeError(w, r, http.StatusNotFound, "resource not found")
		return
	}

	if path == "stats" {
		if r.Method != http.MethodGet {
			methodNotAllowed(w, r, http.MethodGet)
			return
		}
		a.certificateStats(w, r)
		return
	}

	id, action, _ := strings.Cut(path, "/")
	if id == "" {
		writeError(w, r, http.StatusNotFound, "resource not found")
		return
	}

	switch action {
	case "":
		if r.Method != http.MethodGet {
			methodNotAllowed(w, r, http.MethodGet)
			return
		}
		a.getCertificate(w, r, id)
	case "revoke":
		switch r.Method {
		case http.MethodPut, http.MethodPatch, http.MethodPost:
			a.revokeCertificate(w, r, id)
		default:
			methodNotAllowed(w, r, http.MethodPut, http.MethodPatch, http.MethodPost)
		}
	case "pdf", "image":
		if r.Method != http.MethodGet {
			methodNotAllowed(w, r, http.MethodGet)
			return
		}
		a.renderCertificate(w, r, id)
	case "qr":
		if r.Method != http.MethodGet {
			methodNotAllowed(w, r, http.MethodGet)
			return
		}
		a.certificateQR(w, r, id)
	default:
		writeError(w, r, http.StatusNotFound, "resource not found")
	}
}

func (a *API) issueCertificate(w http.ResponseWriter, r *http.Request) {
	instituteID, ok := auth.InstituteIDFromContext(r.Context())
	if !ok {
		writeError(w, r, http.StatusUnauthorized, "authentication required")
		return
	}

	var in cert.Input
	if err := decodeJSON(w, r, &in); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	c, err := a.certs.Issue(r.Context(), in, instituteID)
	if err != nil {
		handleDomainError(w, r, err)
		return
	}

	_ = audit.LogEvent(r.Context(), "certificate.issued", map[string]any{
		"certificateId": c.CertificateID,
		"courseName":    c.CourseName,
	})
	if a.stream != nil {
		a.stream.Publish(stream.Event{
			Type:          stream.EventIssued,
			CertificateID: c.CertificateID,
			InstituteName: c.InstituteName,
			CourseName:    c.CourseName,
		})
	}

	w.Header().Set("Location", "/v1/certificates/"+c.CertificateID)
	writeJSON(w, http.StatusCreated, c)
}

func (a *API) listCertificates(w http.ResponseWriter, r *http.Request) {
	instituteID, ok := auth.InstituteIDFromContext(r.Context())
	if !ok {
		writeError(w, r, http.StatusUnauthorized, "authentication required")
		return
	}

	q := r.URL.Query()
	filters := cert.Filters{
		Search:   strings.TrimSpace(q.Get("search")),
		Status:   cert.Status(strings.TrimSpace(q.Get("status"))),
		Template: strings.TrimSpace(q.Get("template")),
	}
	certs, err := a.certs.List(r.Context(), instituteID, filters)
	if err != nil {
		handleDomainError(w, r, err)
		return
	}
	if certs == nil {
		certs = []cert.Certificate{}
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"certificates": certs,
		"total":        len(certs),
	})
}

func (a *API) getCertificate(w http.ResponseWriter, r *http.Request, id string) {
	c, err := a.certs.Get(r.Context(), id)
	if err != nil {
		handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

func (a *API) revokeCertificate(w http.ResponseWriter, r *http.Request, id string) {
	instituteID, ok := auth.InstituteIDFromContext(r.Context())
	if !ok {
		writeError(w, r, http.StatusUnauthorized, "authentication required")
		return
	}

	var req revokeRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	c, err := a.certs.Revoke(r.Context(), id, instituteID, req.Reason)
	if err != nil {
		handleDomainError(w, r, err)
		return
	}

	_ = audit.LogEvent(r.Context(), "certificate.revoked", map[string]any{
		"certificateId": c.CertificateID,
		"reason":        c.RevocationReason,
	})
	if a.stream != nil {
		a.stream.Publish(stream.Event{
			Type:          stream.EventRevoked,
			CertificateID: c.CertificateID,
			InstituteName: c.InstituteName,
			CourseName:    c.CourseName,
		})
	}

	writeJSON(w, http.StatusOK, c)
}

func (a *API) certificateStats(w http.ResponseWriter, r *http.Request) {
	instituteID, ok := auth.InstituteIDFromContext(r.Context())
	if !ok {
		writeError(w, r, http.StatusUnauthorized, "authentication required")
		return
	}
	stats, err := a.certs.Stats(r.Context(), instituteID)
	if err != nil {
		handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

func (a *API) renderCertificate(w http.ResponseWriter, r *http.Request, id string) {
	if a.renderer == nil {
		writeError(w, r, http.StatusServiceUnavailable, "document rendering is not configured")
		return
	}
	c, err := a.certs.Get(r.Context(), id)
	if err != nil {
		handleDomainError(w, r, err)
		return
	}
	body, contentType, err := a.renderer.RenderPDF(r.Context(), c)
	if err != nil {
		writeError(w, r, http.StatusInternalServerError, "rendering failed")
		return
	}
	w.Header().Set("Content-Type", contentType)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(body)
}

func (a *API) certificateQR(w http.ResponseWriter, r *http.Request, id string) {
	if a.qr == nil {
		writeError(w, r, http.StatusServiceUnavailable, "QR encoding is not configured")
		return
	}
	c, err := a.certs.Get(r.Context(), id)
	if err != nil {
		handleDomainError(w, r, err)
		return
	}
	body, contentType, err := a.qr.Encode(r.Context(), c.VerificationURL, 256)
	if err != nil {
		writeError(w, r, http.StatusInternalServerError, "QR encoding failed")
		return
	}
	w.Header().Set("Content-Type", contentType)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(body)
}
