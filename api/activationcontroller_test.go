package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"marketflow/contentsource"
	"marketflow/enrichment"
	"marketflow/marketing"
	"marketflow/orchestrator"
	"marketflow/types"
	"marketflow/vision"
)

type fakeSource struct {
	fields  types.RawFields
	written []*types.ActivationResult
}

func (f *fakeSource) GetArticle(ctx context.Context, entryID string) types.RawArticle {
	return types.RawArticle{Sys: types.RawSys{ID: entryID}, Fields: f.fields}
}

func (f *fakeSource) WriteActivationLog(result *types.ActivationResult) error {
	f.written = append(f.written, result)
	return nil
}

func (f *fakeSource) ReadLatestActivationLog(entryID string) (*types.ActivationResult, error) {
	for i := len(f.written) - 1; i >= 0; i-- {
		if f.written[i].EntryID == entryID {
			return f.written[i], nil
		}
	}
	return nil, nil
}

type staticLimiter struct{ allowed bool }

func (l staticLimiter) Allow(string) (bool, error) { return l.allowed, nil }

type fakeProvider struct{}

func (fakeProvider) EnrichContent(ctx context.Context, article *types.Article) *types.EnrichmentPayload {
	return &types.EnrichmentPayload{
		SEOScore:                 85,
		SuggestedMetaDescription: "A meta description.",
		Keywords:                 []string{"marketing"},
		ToneAnalysis: map[string]float64{
			types.ToneProfessional:   0.9,
			types.ToneConfident:      0.8,
			types.ToneActionOriented: 0.85,
		},
		Provider: "fake",
	}
}

func (fakeProvider) Vision() *vision.Service { return vision.NewServiceWithProvider(nil) }
func (fakeProvider) Name() string            { return "fake" }

type okPlatform struct{}

func (okPlatform) AddToList(ctx context.Context, listID string, leads []types.Lead) (map[string]any, error) {
	return map[string]any{"success": true, "list_id": listID}, nil
}

func (okPlatform) TestConnection(ctx context.Context) map[string]any {
	return map[string]any{"success": true}
}

func (okPlatform) Name() string { return "OK Platform" }

func newTestRouter(source orchestrator.ArticleSource, allowed bool) *gin.Engine {
	gin.SetMode(gin.TestMode)
	engine := orchestrator.NewEngine(
		staticLimiter{allowed: allowed},
		source,
		enrichment.NewServiceWithProvider(fakeProvider{}),
		marketing.NewServiceWithPlatform(okPlatform{}),
		nil,
		nil,
	)
	return NewRouter(engine)
}

func postActivate(t *testing.T, router *gin.Engine, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/activate", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestActivateEndpointSuccess(t *testing.T) {
	source := &fakeSource{fields: contentsource.StubArticle("entry-1").Fields}
	router := newTestRouter(source, true)

	w := postActivate(t, router, `{"entry_id": "entry-1", "marketo_list_id": "ML_DEMO_001"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}

	var result types.ActivationResult
	if err := json.Unmarshal(w.Body.Bytes(), &result); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if result.Status != types.StatusSuccess {
		t.Fatalf("result status = %q, errors = %v", result.Status, result.Errors)
	}
	if result.EntryID != "entry-1" || result.ActivationID == "" {
		t.Fatalf("result = %+v", result)
	}
	if result.EnrichmentData == nil {
		t.Fatalf("enrichment data missing from response")
	}
}

func TestActivateEndpointMalformedBody(t *testing.T) {
	source := &fakeSource{fields: contentsource.StubArticle("entry-1").Fields}
	router := newTestRouter(source, true)

	cases := []struct {
		name string
		body string
	}{
		{"invalid json", `{"entry_id": `},
		{"missing entry_id", `{"marketo_list_id": "ML_DEMO_001"}`},
		{"missing list id", `{"entry_id": "entry-1"}`},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			w := postActivate(t, router, c.body)
			if w.Code != http.StatusUnprocessableEntity {
				t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
			}
		})
	}
}

func TestActivateEndpointValidationFailure(t *testing.T) {
	fields := contentsource.StubArticle("entry-1").Fields
	fields.CampaignTags = []string{"not-a-real-tag"}
	source := &fakeSource{fields: fields}
	router := newTestRouter(source, true)

	w := postActivate(t, router, `{"entry_id": "entry-1", "marketo_list_id": "ML_DEMO_001"}`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}

	var result types.ActivationResult
	if err := json.Unmarshal(w.Body.Bytes(), &result); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if result.Status != types.StatusError || len(result.Errors) == 0 {
		t.Fatalf("result = %+v", result)
	}
}

func TestActivateEndpointRateLimited(t *testing.T) {
	source := &fakeSource{fields: contentsource.StubArticle("entry-1").Fields}
	router := newTestRouter(source, false)

	w := postActivate(t, router, `{"entry_id": "entry-1", "marketo_list_id": "ML_DEMO_001"}`)
	if w.Code != http.StatusTooManyRequests {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}
	if !strings.Contains(w.Body.String(), "Rate limit exceeded") {
		t.Fatalf("body = %s", w.Body.String())
	}
}

func TestActivationLogEndpoint(t *testing.T) {
	source := &fakeSource{fields: contentsource.StubArticle("entry-1").Fields}
	router := newTestRouter(source, true)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/activation-log/entry-1", nil))
	if w.Code != http.StatusNotFound {
		t.Fatalf("status before any activation = %d", w.Code)
	}

	if w := postActivate(t, router, `{"entry_id": "entry-1", "marketo_list_id": "ML_DEMO_001"}`); w.Code != http.StatusOK {
		t.Fatalf("activation failed: %d %s", w.Code, w.Body.String())
	}

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/activation-log/entry-1", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}
	var record types.ActivationResult
	if err := json.Unmarshal(w.Body.Bytes(), &record); err != nil {
		t.Fatalf("decode record: %v", err)
	}
	if record.EntryID != "entry-1" {
		t.Fatalf("record = %+v", record)
	}
}
