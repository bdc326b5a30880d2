package media

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestHTTPStoreDelete(t *testing.T) {
	var gotPath string
	var gotPayload map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		_ = json.NewDecoder(r.Body).Decode(&gotPayload)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	store := NewHTTPStore(srv.URL, time.Second)
	if err := store.Delete(context.Background(), "media-123"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if gotPath != "/api/v1/destroy" {
		t.Fatalf("path = %s", gotPath)
	}
	if gotPayload["public_id"] != "media-123" {
		t.Fatalf("payload = %v", gotPayload)
	}
}

func TestHTTPStoreDeleteClientErrorNoRetry(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls++
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	store := NewHTTPStore(srv.URL, time.Second)
	if err := store.Delete(context.Background(), "missing"); err == nil {
		t.Fatal("expected error for 404")
	}
	if calls != 1 {
		t.Fatalf("calls = %d, client errors must not be retried", calls)
	}
}
