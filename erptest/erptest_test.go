package erptest

import (
	"encoding/json"
	"net/http"
	"testing"
)

func TestServerServesFixturesAndCountsHits(t *testing.T) {
	server := New()
	defer server.Close()

	resp, err := http.Get(server.BaseURL() + "/api/v1/properties")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer resp.Body.Close()

	var body struct {
		Data []map[string]any `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode error: %v", err)
	}
	if len(body.Data) == 0 {
		t.Fatalf("expected property fixtures")
	}
	if server.Hits("/api/v1/properties") != 1 {
		t.Fatalf("expected 1 counted hit, got %d", server.Hits("/api/v1/properties"))
	}
}

func TestServerEnforcesBearerToken(t *testing.T) {
	server := New(WithToken("secret"))
	defer server.Close()

	resp, err := http.Get(server.BaseURL() + "/api/v1/users/me")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token, got %d", resp.StatusCode)
	}

	req, _ := http.NewRequest(http.MethodGet, server.BaseURL()+"/api/v1/users/me", nil)
	req.Header.Set("Authorization", "Bearer secret")
	resp, err = http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200 with token, got %d", resp.StatusCode)
	}
}
