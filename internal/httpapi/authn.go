package httpapi

import (
	"errors"
	"net/http"
	"strings"

	"certchain.org/internal/auth"
)

const (
	authHeader = "Authorization"
	bearer     = "Bearer "
)

var publicPaths = []string{
	"/",
	"/healthz",
	"/readyz",
	"/metrics",
	"/v1/info",
	"/v1/stream",
	"/v1/institutes/register",
	"/v1/institutes/login",
}

// isPublic reports whether the request may proceed without a bearer token.
// The whole verification surface is public, as is reading a single
// certificate by id (the shareable verification page uses both).
func isPublic(r *http.Request) bool {
	path := r.URL.Path
	for _, p := range publicPaths {
		if path == p {
			return true
		}
	}
	if strings.HasPrefix(path, "/v1/verification/") {
		return true
	}
	if r.Method == http.MethodGet && strings.HasPrefix(path, "/v1/certificates/") {
		rest := strings.TrimPrefix(path, "/v1/certificates/")
		if rest != "" && rest != "stats" && !strings.Contains(rest, "/") {
			return true
		}
	}
	return false
}

func (a *API) withAuth(next http.Handler) http.Handler {
	if a == nil || a.institutes == nil {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodOptions {
			next.ServeHTTP(w, r)
			return
		}

		if isPublic(r) {
			next.ServeHTTP(w, r)
			return
		}

		token, err := extractBearerToken(r.Header.Get(authHeader))
		if err != nil {
			writeError(w, r, http.StatusUnauthorized, err.Error())
			return
		}

		inst, err := a.institutes.Authenticate(r.Context(), token)
		if err != nil {
			switch {
			case errors.Is(err, auth.ErrInvalidToken):
				writeError(w, r, http.StatusUnauthorized, "invalid token")
			case errors.Is(err, auth.ErrAccountDisabled):
				writeError(w, r, http.StatusForbidden, "account is deactivated")
			default:
				writeError(w, r, http.StatusInternalServerError, "authentication error")
			}
			return
		}

		ctx := auth.ContextWithInstitute(r.Context(), inst)
		ctx = auth.ContextWithToken(ctx, token)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func extractBearerToken(header string) (string, error) {
	header = strings.TrimSpace(header)
	if header == "" {
		return "", errors.New("missing bearer token")
	}
	if !strings.HasPrefix(strings.ToLower(header), strings.ToLower(bearer)) {
		return "", errors.New("invalid authorization scheme")
	}
	token := strings.TrimSpace(header[len(bearer):])
	if token == "" {
		return "", errors.New("missing bearer token")
	}
	return token, nil
}
