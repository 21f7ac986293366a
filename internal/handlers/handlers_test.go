package handlers

import (
	"net/http"
	"testing"
)

func TestHealthEndpoint(t *testing.T) {
	env := setupTestEnv(t)

	resp := performRequest(t, env.app, http.MethodGet, "/api/health", nil, nil)
	body := decodeJSONMap(t, resp)

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, resp.StatusCode)
	}
	if body["status"] != "ok" {
		t.Fatalf("expected health status %q, got %v", "ok", body["status"])
	}
	if body["environment"] != "test" {
		t.Fatalf("expected environment %q, got %v", "test", body["environment"])
	}
	if _, ok := body["timestamp"].(string); !ok {
		t.Fatalf("expected timestamp field to be string, got %T", body["timestamp"])
	}
}
