package marketing

import (
	"context"
	"log"
	"sort"
	"strings"

	"marketflow/config"
	"marketflow/types"
)

// Platform is one outbound marketing automation backend. AddToList returns
// the platform's raw response envelope so the caller can audit it verbatim.
type Platform interface {
	AddToList(ctx context.Context, listID string, leads []types.Lead) (map[string]any, error)
	TestConnection(ctx context.Context) map[string]any
	Name() string
}

// NewPlatform builds the backend selected by MARKETING_PLATFORM ("mock"
// default). A real backend with missing or invalid credentials logs a
// warning and yields the mock instead of failing startup.
func NewPlatform() Platform {
	platform := strings.ToLower(config.GetEnvOrDefault("MARKETING_PLATFORM", "mock"))

	switch platform {
	case "marketo":
		p, err := NewMarketoPlatform()
		if err != nil {
			log.Printf("Warning: failed to initialize Marketo service: %v", err)
			log.Println("Falling back to mock service")
			return NewMockPlatform()
		}
		return p
	case "hubspot":
		p, err := NewHubSpotPlatform()
		if err != nil {
			log.Printf("Warning: failed to initialize HubSpot service: %v", err)
			log.Println("Falling back to mock service")
			return NewMockPlatform()
		}
		return p
	case "mock":
		return NewMockPlatform()
	default:
		log.Printf("Warning: unknown MARKETING_PLATFORM %q, defaulting to mock service", platform)
		return NewMockPlatform()
	}
}

// Service wraps the configured platform with a dispatcher and the outbound
// call budget. Real platforms go through the pooled dispatcher so concurrent
// activations cannot open unbounded upstream connections; the mock runs
// inline.
type Service struct {
	platform   Platform
	dispatcher dispatcher
}

func NewService() *Service {
	return NewServiceWithPlatform(NewPlatform())
}

func NewServiceWithPlatform(p Platform) *Service {
	var d dispatcher
	if p.Name() == "mock" {
		d = &inlineDispatcher{platform: p}
	} else {
		d = newPooledDispatcher(p, 4)
	}
	return &Service{platform: p, dispatcher: d}
}

func (s *Service) PlatformName() string { return s.platform.Name() }

func (s *Service) AddToList(ctx context.Context, listID string, leads []types.Lead) (map[string]any, error) {
	ctx, cancel := context.WithTimeout(ctx, config.PlatformTimeout)
	defer cancel()
	return s.dispatcher.dispatch(ctx, listID, leads)
}

func (s *Service) TestConnection(ctx context.Context) map[string]any {
	ctx, cancel := context.WithTimeout(ctx, config.PlatformTimeout)
	defer cancel()
	return s.platform.TestConnection(ctx)
}

type dispatcher interface {
	dispatch(ctx context.Context, listID string, leads []types.Lead) (map[string]any, error)
}

type inlineDispatcher struct {
	platform Platform
}

func (d *inlineDispatcher) dispatch(ctx context.Context, listID string, leads []types.Lead) (map[string]any, error) {
	return d.platform.AddToList(ctx, listID, leads)
}

// pooledDispatcher bounds concurrent outbound platform calls with a
// semaphore channel. Callers waiting for a slot honor context cancellation.
type pooledDispatcher struct {
	platform Platform
	sem      chan struct{}
}

func newPooledDispatcher(p Platform, maxConcurrent int) *pooledDispatcher {
	return &pooledDispatcher{
		platform: p,
		sem:      make(chan struct{}, maxConcurrent),
	}
}

func (d *pooledDispatcher) dispatch(ctx context.Context, listID string, leads []types.Lead) (map[string]any, error) {
	select {
	case d.sem <- struct{}{}:
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	type outcome struct {
		resp map[string]any
		err  error
	}
	done := make(chan outcome, 1)

	go func() {
		defer func() { <-d.sem }()
		resp, err := d.platform.AddToList(ctx, listID, leads)
		done <- outcome{resp: resp, err: err}
	}()

	select {
	case out := <-done:
		return out.resp, out.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// PlatformDetails describes one supported backend for the info endpoint.
type PlatformDetails struct {
	Name            string `json:"name"`
	Description     string `json:"description"`
	SetupComplexity string `json:"setup_complexity"`
	APIDocs         string `json:"api_docs"`
}

type PlatformInfo struct {
	CurrentPlatform    string          `json:"current_platform"`
	PlatformDetails    PlatformDetails `json:"platform_details"`
	AvailablePlatforms []string        `json:"available_platforms"`
}

var platformCatalog = map[string]PlatformDetails{
	"marketo": {
		Name:            "Marketo",
		Description:     "Enterprise marketing automation platform",
		SetupComplexity: "High (requires sandbox approval)",
		APIDocs:         "https://developers.marketo.com/rest-api/",
	},
	"hubspot": {
		Name:            "HubSpot",
		Description:     "Accessible marketing automation with free tier",
		SetupComplexity: "Low (free developer account)",
		APIDocs:         "https://developers.hubspot.com/docs/api/overview",
	},
	"mock": {
		Name:            "Mock Service",
		Description:     "Development/testing service with simulated responses",
		SetupComplexity: "None (no external dependencies)",
		APIDocs:         "Built-in mock implementation",
	},
}

// GetPlatformInfo reports the configured backend plus the full catalog of
// identifiers. Unknown configuration falls back to the mock entry.
func GetPlatformInfo() PlatformInfo {
	platform := strings.ToLower(config.GetEnvOrDefault("MARKETING_PLATFORM", "mock"))

	details, ok := platformCatalog[platform]
	if !ok {
		details = platformCatalog["mock"]
	}

	available := make([]string, 0, len(platformCatalog))
	for name := range platformCatalog {
		available = append(available, name)
	}
	sort.Strings(available)

	return PlatformInfo{
		CurrentPlatform:    platform,
		PlatformDetails:    details,
		AvailablePlatforms: available,
	}
}
