package marketing

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"marketflow/types"
)

// MockPlatform simulates a marketing backend for development and testing.
// Responses mirror the Marketo envelope shape without any external calls.
type MockPlatform struct {
	lists map[string]string
}

func NewMockPlatform() *MockPlatform {
	return &MockPlatform{
		lists: map[string]string{
			"ML_DEMO_001": "Product Launch Prospects",
			"ML_DEMO_002": "Thought Leadership Audience",
			"ML_DEMO_003": "Developer Community",
			"HS_LIST_001": "HubSpot Marketing Qualified Leads",
			"HS_LIST_002": "Content Engagement Audience",
		},
	}
}

func (m *MockPlatform) Name() string { return "mock" }

func (m *MockPlatform) AddToList(ctx context.Context, listID string, leads []types.Lead) (map[string]any, error) {
	// Simulate realistic API latency.
	select {
	case <-time.After(250 * time.Millisecond):
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	listName, ok := m.lists[listID]
	if !ok {
		listName = fmt.Sprintf("Unknown List (%s)", listID)
	}

	result := make([]any, 0, len(leads))
	for i, lead := range leads {
		email := lead.Email
		if email == "" {
			email = fmt.Sprintf("demo-%d@example.com", i)
		}
		result = append(result, map[string]any{
			"id":     i + 1,
			"status": "added",
			"email":  email,
		})
	}

	return map[string]any{
		"requestId":            fmt.Sprintf("mock_request_%d", rand.Intn(9000)+1000),
		"success":              true,
		"result":               result,
		"list_id":              listID,
		"list_name":            listName,
		"contacts_processed":   len(leads),
		"platform":             "mock",
		"mock_mode":            true,
		"simulated_latency_ms": 250,
	}, nil
}

func (m *MockPlatform) TestConnection(ctx context.Context) map[string]any {
	return map[string]any{
		"success":  true,
		"platform": "mock",
		"message":  "Mock service connection successful",
	}
}
