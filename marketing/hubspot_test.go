package marketing

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"marketflow/types"
)

func newHubSpotTestPlatform(srv *httptest.Server) *HubSpotPlatform {
	return &HubSpotPlatform{
		accessToken: "test-token",
		baseURL:     srv.URL,
		client:      &http.Client{Timeout: 5 * time.Second},
	}
}

func TestHubSpotConflictFallsBackToUpdate(t *testing.T) {
	var paths []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		paths = append(paths, r.Method+" "+r.URL.Path)
		switch {
		case r.Method == http.MethodPost && r.URL.Path == "/crm/v3/objects/contacts":
			// Conflict body deliberately avoids the words the old
			// text matching looked for; the status alone must decide.
			w.WriteHeader(http.StatusConflict)
			json.NewEncoder(w).Encode(map[string]any{"message": "duplicate value for email"})
		case r.Method == http.MethodPost && r.URL.Path == "/crm/v3/objects/contacts/search":
			json.NewEncoder(w).Encode(map[string]any{"results": []any{map[string]any{"id": "42"}}})
		case r.Method == http.MethodPut && r.URL.Path == "/crm/v3/objects/contacts/42":
			json.NewEncoder(w).Encode(map[string]any{"id": "42"})
		case r.Method == http.MethodPut && r.URL.Path == "/contacts/v1/lists/L1/add":
			json.NewEncoder(w).Encode(map[string]any{"updated": []any{42}})
		default:
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	p := newHubSpotTestPlatform(srv)
	resp, err := p.AddToList(context.Background(), "L1", []types.Lead{
		{Email: "lead@example.com", FirstName: "Demo", LastName: "Lead"},
	})
	if err != nil {
		t.Fatalf("AddToList returned error: %v", err)
	}
	if ok, _ := resp["success"].(bool); !ok {
		t.Fatalf("envelope = %v", resp)
	}
	if n, _ := resp["contacts_processed"].(int); n != 1 {
		t.Fatalf("contacts_processed = %v", resp["contacts_processed"])
	}

	want := []string{
		"POST /crm/v3/objects/contacts",
		"POST /crm/v3/objects/contacts/search",
		"PUT /crm/v3/objects/contacts/42",
		"PUT /contacts/v1/lists/L1/add",
	}
	if len(paths) != len(want) {
		t.Fatalf("requests = %v; want %v", paths, want)
	}
	for i := range want {
		if paths[i] != want[i] {
			t.Fatalf("request %d = %q; want %q", i, paths[i], want[i])
		}
	}
}

func TestHubSpotNonConflictErrorPropagates(t *testing.T) {
	var searchCalled bool
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/crm/v3/objects/contacts/search" {
			searchCalled = true
		}
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]any{"message": "invalid property"})
	}))
	defer srv.Close()

	p := newHubSpotTestPlatform(srv)
	resp, err := p.AddToList(context.Background(), "L1", []types.Lead{
		{Email: "lead@example.com"},
	})
	if err == nil {
		t.Fatalf("AddToList swallowed the API error: %v", resp)
	}
	if ok, _ := resp["success"].(bool); ok {
		t.Fatalf("envelope reports success on error: %v", resp)
	}
	if searchCalled {
		t.Fatalf("conflict lookup ran for a non-conflict error")
	}
}
