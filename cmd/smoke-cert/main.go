// smoke-cert drives a running API through the full certificate lifecycle:
// register an institute, issue a certificate, verify it publicly, revoke it
// and confirm verification flips to invalid.
package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"
	"time"
)

func main() {
	base := os.Getenv("CERTCHAIN_API_URL")
	if base == "" {
		base = "http://localhost:8080"
	}
	client := &http.Client{Timeout: 10 * time.Second}

	email := fmt.Sprintf("smoke-%d@certchain.local", time.Now().UnixNano())
	var session struct {
		Token     string `json:"token"`
		Institute struct {
			InstituteID string `json:"instituteId"`
		} `json:"institute"`
	}
	mustPost(client, base+"/v1/institutes/register", map[string]any{
		"name":         "Smoke Institute",
		"email":        email,
		"password":     "smoke-password",
		"organization": "Smoke Org",
	}, "", http.StatusCreated, &session)
	if session.Token == "" {
		log.Fatal("register returned no token")
	}

	var issued struct {
		CertificateID string `json:"certificateId"`
		Status        string `json:"status"`
	}
	mustPost(client, base+"/v1/certificates", map[string]any{
		"studentName":    "Smoke Student",
		"courseName":     "Smoke Course",
		"completionDate": "2024-01-01",
	}, session.Token, http.StatusCreated, &issued)
	if issued.Status != "active" {
		log.Fatalf("expected active certificate, got %q", issued.Status)
	}

	var verdict struct {
		IsValid bool   `json:"isValid"`
		Message string `json:"message"`
	}
	mustPost(client, base+"/v1/verification/verify", map[string]any{
		"certificateId": issued.CertificateID,
	}, "", http.StatusOK, &verdict)
	if !verdict.IsValid {
		log.Fatalf("fresh certificate failed verification: %s", verdict.Message)
	}

	mustPost(client, base+"/v1/certificates/"+issued.CertificateID+"/revoke", map[string]any{
		"reason": "smoke test revocation, automated run",
	}, session.Token, http.StatusOK, nil)

	mustPost(client, base+"/v1/verification/verify", map[string]any{
		"certificateId": issued.CertificateID,
	}, "", http.StatusOK, &verdict)
	if verdict.IsValid {
		log.Fatal("revoked certificate still verifies as valid")
	}

	fmt.Printf("✅ certificate smoke test passed: %s\n", issued.CertificateID)
}

func mustPost(client *http.Client, url string, body map[string]any, token string, wantStatus int, out any) {
	payload, err := json.Marshal(body)
	if err != nil {
		log.Fatalf("marshal %s: %v", url, err)
	}
	req, err := http.NewRequest(http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		log.Fatalf("request %s: %v", url, err)
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := client.Do(req)
	if err != nil {
		log.Fatalf("post %s: %v", url, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != wantStatus {
		log.Fatalf("post %s: status %d, want %d", url, resp.StatusCode, wantStatus)
	}
	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			log.Fatalf("decode %s: %v", url, err)
		}
	}
}
