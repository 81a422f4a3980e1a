package client

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestCredentialsSeedRoundTrip(t *testing.T) {
	creds, err := GenerateCredentials("alice")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	restored, err := CredentialsFromSeed("alice", creds.Seed())
	if err != nil {
		t.Fatalf("restore: %v", err)
	}
	if !bytes.Equal(creds.PublicKey(), restored.PublicKey()) {
		t.Fatalf("restored identity has a different public key")
	}
}

func TestCredentialsFromBadSeed(t *testing.T) {
	if _, err := CredentialsFromSeed("x", "not base64!!"); err == nil {
		t.Fatalf("expected error for malformed base64")
	}
	// Valid base64, wrong length.
	if _, err := CredentialsFromSeed("x", "AAAA"); err == nil {
		t.Fatalf("expected error for short seed")
	}
}

func TestGeneratedCredentialsAreUnique(t *testing.T) {
	a, err := GenerateCredentials("a")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	b, err := GenerateCredentials("b")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if bytes.Equal(a.PublicKey(), b.PublicKey()) {
		t.Fatalf("two generated identities share a key")
	}
}

func TestAPIErrorFromResponse(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusConflict)
		json.NewEncoder(w).Encode(map[string]string{"status": "error", "message": "already exists"})
	}))
	defer ts.Close()

	c := New(ts.URL)
	_, err := c.ListAuthors()
	apiErr, ok := err.(*APIError)
	if !ok {
		t.Fatalf("expected APIError, got %v", err)
	}
	if apiErr.StatusCode != http.StatusConflict || apiErr.Message != "already exists" {
		t.Fatalf("unexpected error: %+v", apiErr)
	}
}

func TestSignedPostEnvelope(t *testing.T) {
	var got struct {
		Algo string `json:"algo"`
		Pubk string `json:"pubk"`
		Sig  string `json:"sig"`
		Msg  string `json:"msg"`
	}
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode envelope: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
	}))
	defer ts.Close()

	creds, err := GenerateCredentials("signer")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if err := New(ts.URL).DeleteAccount(creds); err != nil {
		t.Fatalf("signed post: %v", err)
	}
	if got.Algo != "ed25519" {
		t.Fatalf("unexpected algo %q", got.Algo)
	}
	if got.Pubk == "" || got.Sig == "" || got.Msg == "" {
		t.Fatalf("incomplete envelope: %+v", got)
	}
}
