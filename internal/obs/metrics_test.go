package obs

import "testing"

func TestCanonicalPath(t *testing.T) {
	cases := map[string]string{
		"": "/",
		"/metrics":                             "/metrics",
		"/v1/certificates":                     "/v1/certificates",
		"/v1/certificates/stats":               "/v1/certificates/stats",
		"/v1/certificates/CERT-01ABC":          "/v1/certificates/:id",
		"/v1/certificates/CERT-01ABC/revoke":   "/v1/certificates/:id/revoke",
		"/v1/certificates/CERT-01ABC/pdf":      "/v1/certificates/:id/pdf",
		"/v1/verification/verify":              "/v1/verification/verify",
		"/v1/verification/bulk-verify":         "/v1/verification/bulk-verify",
		"/v1/verification/CERT-01ABC":          "/v1/verification/:id",
		"/v1/verification/CERT-X/chain-status": "/v1/verification/:id/chain-status",
		"/v1/certificates?search=jane":         "/v1/certificates",
	}
	for input, expected := range cases {
		if got := CanonicalPath(input); got != expected {
			t.Fatalf("CanonicalPath(%q)=%q, want %q", input, got, expected)
		}
	}
}
