// Package httpapi is the JSON HTTP surface of the certification service.
package httpapi

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"certchain.org/internal/auth"
	"certchain.org/internal/cert"
	"certchain.org/internal/obs"
	"certchain.org/internal/render"
	"certchain.org/internal/stream"
	"certchain.org/internal/verify"
)

// ReadyProbe reports readiness; with a DB configured it pings it.
type ReadyProbe struct {
	DB *sql.DB
}

func (rp ReadyProbe) Check(ctx context.Context) error {
	if rp.DB == nil {
		return nil
	}
	return rp.DB.PingContext(ctx)
}

type readinessChecker interface {
	Check(ctx context.Context) error
}

// API is the HTTP layer. Renderer and QR stay nil unless a document backend
// is wired in; the matching endpoints answer 503 meanwhile.
type API struct {
	mux        *http.ServeMux
	readyProbe ReadyProbe
	version    string

	institutes *auth.Service
	certs      *cert.Service
	verifier   *verify.Verifier
	stream     *stream.Stream

	renderer render.Renderer
	qr       render.QREncoder

	rateBurst  int
	ratePerSec int
}

func New(rp ReadyProbe, version string, institutes *auth.Service, certs *cert.Service, verifier *verify.Verifier, st *stream.Stream) *API {
	a := &API{
		mux:        http.NewServeMux(),
		readyProbe: rp,
		version:    version,
		institutes: institutes,
		certs:      certs,
		verifier:   verifier,
		stream:     st,
		rateBurst:  50,
		ratePerSec: 25,
	}

	a.mux.HandleFunc("/healthz", a.Healthz)
	a.mux.HandleFunc("/readyz", a.Ready)
	a.mux.HandleFunc("/v1/info", a.Info)

	a.mux.HandleFunc("/v1/certificates", a.handleCertificatesCollection)
	a.mux.HandleFunc("/v1/certificates/", a.handleCertificateResource)
	a.mux.HandleFunc("/v1/verification/", a.handleVerification)
	a.mux.HandleFunc("/v1/institutes/", a.handleInstitutes)

	a.mux.HandleFunc("/v1/stream", a.Stream)

	a.mux.Handle("/metrics", obs.Handler())

	a.mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	})

	return a
}

// SetRenderer wires a document renderer and QR encoder.
func (a *API) SetRenderer(r render.Renderer, qr render.QREncoder) {
	a.renderer = r
	a.qr = qr
}

// Handler returns the fully wrapped http.Handler.
func (a *API) Handler() http.Handler {
	h := a.withAuth(a.mux)
	h = MaxBodyBytes(h, 1<<20)
	h = RateLimit(h, a.rateBurst, a.ratePerSec)
	h = CORS(h)
	h = SecurityHeaders(h)
	h = LoggingJSON(h)
	h = RequestID(h)
	return obs.Instrument(h)
}

// --- service endpoints ---

func (a *API) Healthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":  "ok",
		"service": "certchain-api",
		"version": a.version,
	})
}

func (a *API) Ready(w http.ResponseWriter, r *http.Request) {
	if err := a.readyProbe.Check(r.Context()); err != nil {
		obs.SetReady(false)
		writeJSON(w, http.StatusServiceUnavailable, map[string]any{
			"status": "not_ready",
			"error":  err.Error(),
		})
		return
	}
	obs.SetReady(true)
	writeJSON(w, http.StatusOK, map[string]any{
		"status": "ready",
	})
}

func (a *API) Info(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"name":    "certchain-api",
		"time":    time.Now().UTC().Format(time.RFC3339),
		"version": a.version,
	})
}

// --- helpers ---

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, r *http.Request, code int, msg string) {
	payload := map[string]any{
		"error": msg,
	}
	if rid := RequestIDFromContext(r.Context()); rid != "" {
		payload["request_id"] = rid
	}
	writeJSON(w, code, payload)
}

func methodNotAllowed(w http.ResponseWriter, r *http.Request, allowed ...string) {
	w.Header().Set("Allow", strings.Join(allowed, ", "))
	writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	reader := http.MaxBytesReader(w, r.Body, 1<<20)
	defer reader.Close()
	dec := json.NewDecoder(reader)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return errors.New("request body is required")
		}
		return err
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		if err == nil {
			return errors.New("unexpected data after JSON body")
		}
		return err
	}
	return nil
}

// handleDomainError maps sentinel errors from the domain services onto HTTP
// statuses. Anything unrecognised becomes a generic 500.
func handleDomainError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, cert.ErrInvalidInput),
		errors.Is(err, auth.ErrInvalidInput),
		errors.Is(err, auth.ErrPasswordMismatch),
		errors.Is(err, verify.ErrBatchSize):
		writeError(w, r, http.StatusBadRequest, err.Error())
	case errors.Is(err, auth.ErrInvalidCredentials),
		errors.Is(err, auth.ErrInvalidToken):
		writeError(w, r, http.StatusUnauthorized, err.Error())
	case errors.Is(err, cert.ErrNotPermitted),
		errors.Is(err, auth.ErrAccountDisabled),
		errors.Is(err, auth.ErrNotVerified):
		writeError(w, r, http.StatusForbidden, err.Error())
	case errors.Is(err, cert.ErrNotFound),
		errors.Is(err, cert.ErrInstituteNotFound),
		errors.Is(err, auth.ErrNotFound):
		writeError(w, r, http.StatusNotFound, err.Error())
	case errors.Is(err, auth.ErrEmailTaken),
		errors.Is(err, cert.ErrAlreadyRevoked),
		errors.Is(err, cert.ErrDuplicateID),
		errors.Is(err, cert.ErrDuplicateHash):
		writeError(w, r, http.StatusConflict, err.Error())
	default:
		writeError(w, r, http.StatusInternalServerError, "internal error")
	}
}
