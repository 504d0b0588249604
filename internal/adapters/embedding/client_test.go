package embedding

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestEmbed(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/embeddings" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}

		var req embeddingRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("failed to decode request: %v", err)
		}
		if req.Input != "quarterly revenue trends" {
			t.Errorf("input = %q", req.Input)
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"data": []map[string]any{{
				"embedding": []float32{0.1, 0.2, 0.3},
				"index":     0,
			}},
			"model": "test-embed",
		})
	}))
	defer server.Close()

	client := NewClient(server.URL, "", "test-embed", 3)
	vector, err := client.Embed(context.Background(), "quarterly revenue trends")
	if err != nil {
		t.Fatalf("Embed() error = %v", err)
	}
	if len(vector) != 3 {
		t.Errorf("len(vector) = %d, want 3", len(vector))
	}
}

func TestEmbed_DimensionMismatch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"data": []map[string]any{{"embedding": []float32{0.1, 0.2}, "index": 0}},
		})
	}))
	defer server.Close()

	client := NewClient(server.URL, "", "test-embed", 1536)
	if _, err := client.Embed(context.Background(), "text"); err == nil {
		t.Fatal("expected error for dimension mismatch")
	}
}

func TestEmbed_EmptyData(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{"data": []any{}})
	}))
	defer server.Close()

	client := NewClient(server.URL, "", "test-embed", 3)
	if _, err := client.Embed(context.Background(), "text"); err == nil {
		t.Fatal("expected error for empty data")
	}
}

func TestDimensions(t *testing.T) {
	client := NewClient("http://localhost:11434", "", "test-embed", 1536)
	if client.Dimensions() != 1536 {
		t.Errorf("Dimensions() = %d, want 1536", client.Dimensions())
	}
}
