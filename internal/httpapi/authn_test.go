package httpapi

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestIsPublic(t *testing.T) {
	cases := []struct {
		method string
		path   string
		want   bool
	}{
		{http.MethodGet, "/healthz", true},
		{http.MethodGet, "/metrics", true},
		{http.MethodPost, "/v1/institutes/register", true},
		{http.MethodPost, "/v1/institutes/login", true},
		{http.MethodPost, "/v1/verification/verify", true},
		{http.MethodGet, "/v1/verification/CERT-1", true},
		{http.MethodGet, "/v1/certificates/CERT-1", true},
		{http.MethodGet, "/v1/certificates", false},
		{http.MethodGet, "/v1/certificates/stats", false},
		{http.MethodGet, "/v1/certificates/CERT-1/pdf", false},
		{http.MethodPost, "/v1/certificates/CERT-1/revoke", false},
		{http.MethodPost, "/v1/certificates", false},
		{http.MethodGet, "/v1/institutes/profile", false},
	}
	for _, tc := range cases {
		req := httptest.NewRequest(tc.method, tc.path, nil)
		if got := isPublic(req); got != tc.want {
			t.Errorf("%s %s: isPublic=%v, want %v", tc.method, tc.path, got, tc.want)
		}
	}
}

func TestExtractBearerToken(t *testing.T) {
	if _, err := extractBearerToken(""); err == nil {
		t.Fatal("expected error for empty header")
	}
	if _, err := extractBearerToken("Basic abc"); err == nil {
		t.Fatal("expected error for wrong scheme")
	}
	if _, err := extractBearerToken("Bearer "); err == nil {
		t.Fatal("expected error for empty token")
	}
	token, err := extractBearerToken("bearer my-token")
	if err != nil || token != "my-token" {
		t.Fatalf("unexpected result: %q, %v", token, err)
	}
}
