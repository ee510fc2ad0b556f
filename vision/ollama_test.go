package vision

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"marketflow/config"
)

func newQwenTestServer(t *testing.T, response string, status int) (*httptest.Server, *[]map[string]any) {
	t.Helper()
	var requests []map[string]any

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/api/tags" {
			w.WriteHeader(http.StatusOK)
			return
		}
		if r.URL.Path != "/api/generate" {
			t.Errorf("unexpected path %s", r.URL.Path)
			w.WriteHeader(http.StatusNotFound)
			return
		}

		var payload map[string]any
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			t.Errorf("bad request body: %v", err)
		}
		requests = append(requests, payload)

		w.WriteHeader(status)
		json.NewEncoder(w).Encode(map[string]any{"response": response})
	}))
	return srv, &requests
}

// base64 of "fake image bytes"
const fakeImageB64 = "ZmFrZSBpbWFnZSBieXRlcw=="

func TestQwenGenerateAltTextFromDataURL(t *testing.T) {
	srv, requests := newQwenTestServer(t, "Dashboard with conversion metrics", http.StatusOK)
	defer srv.Close()

	p := NewQwenProvider(srv.URL)
	got := p.GenerateAltText(context.Background(), "data:image/png;base64,"+fakeImageB64, "marketing analytics")
	if got != "Dashboard with conversion metrics" {
		t.Fatalf("GenerateAltText = %q", got)
	}

	if len(*requests) != 1 {
		t.Fatalf("expected 1 generate call, got %d", len(*requests))
	}
	images, _ := (*requests)[0]["images"].([]any)
	if len(images) != 1 || images[0] != fakeImageB64 {
		t.Fatalf("request images = %v; want unwrapped base64 payload", images)
	}
}

func TestQwenRejectsRemoteURLs(t *testing.T) {
	srv, requests := newQwenTestServer(t, "should never be used", http.StatusOK)
	defer srv.Close()

	p := NewQwenProvider(srv.URL)
	got := p.GenerateAltText(context.Background(), "https://example.com/img.png", "")
	if got != PlaceholderRemote {
		t.Fatalf("GenerateAltText = %q; want %q", got, PlaceholderRemote)
	}
	if len(*requests) != 0 {
		t.Fatalf("remote URL triggered %d generate calls; want 0", len(*requests))
	}
}

func TestQwenInvalidBase64Placeholder(t *testing.T) {
	srv, _ := newQwenTestServer(t, "unused", http.StatusOK)
	defer srv.Close()

	p := NewQwenProvider(srv.URL)
	if got := p.GenerateAltText(context.Background(), "not-valid-base64!!!", ""); got != PlaceholderUnavailable {
		t.Fatalf("GenerateAltText = %q; want %q", got, PlaceholderUnavailable)
	}
}

func TestQwenAltTextTruncation(t *testing.T) {
	long := strings.Repeat("screenshot of the marketing dashboard ", 6)
	srv, _ := newQwenTestServer(t, long, http.StatusOK)
	defer srv.Close()

	p := NewQwenProvider(srv.URL)
	got := p.GenerateAltText(context.Background(), "data:image/png;base64,"+fakeImageB64, "")
	if len(got) != 125 || !strings.HasSuffix(got, "...") {
		t.Fatalf("truncated alt text = %q (len %d)", got, len(got))
	}
}

func TestQwenServerErrorPlaceholder(t *testing.T) {
	srv, _ := newQwenTestServer(t, "", http.StatusInternalServerError)
	defer srv.Close()

	p := NewQwenProvider(srv.URL)
	if got := p.GenerateAltText(context.Background(), "data:image/png;base64,"+fakeImageB64, ""); got != PlaceholderUnavailable {
		t.Fatalf("GenerateAltText = %q; want %q", got, PlaceholderUnavailable)
	}
}

func TestQwenAnalyzeImageFallbackOnBadJSON(t *testing.T) {
	srv, _ := newQwenTestServer(t, "this is not json", http.StatusOK)
	defer srv.Close()

	p := NewQwenProvider(srv.URL)
	analysis := p.AnalyzeImage(context.Background(), "data:image/png;base64,"+fakeImageB64)
	if analysis.ContentType != "image" || analysis.AccessibilityScore != 5 {
		t.Fatalf("AnalyzeImage fallback = %+v", analysis)
	}
}

func TestServiceTimeoutFollowsProviderFamily(t *testing.T) {
	srv, _ := newQwenTestServer(t, "unused", http.StatusOK)
	defer srv.Close()

	local := NewServiceWithProvider(NewQwenProvider(srv.URL))
	if got := local.Timeout(); got != config.VisionLocalTimeout {
		t.Fatalf("local timeout = %v; want %v", got, config.VisionLocalTimeout)
	}

	gpt, err := NewGPTProvider("test-key")
	if err != nil {
		t.Fatalf("NewGPTProvider: %v", err)
	}
	cloud := NewServiceWithProvider(gpt)
	if got := cloud.Timeout(); got != config.VisionCloudTimeout {
		t.Fatalf("cloud timeout = %v; want %v", got, config.VisionCloudTimeout)
	}

	none := NewServiceWithProvider(nil)
	if got := none.Timeout(); got != config.VisionCloudTimeout {
		t.Fatalf("nil-provider timeout = %v; want %v", got, config.VisionCloudTimeout)
	}
}
