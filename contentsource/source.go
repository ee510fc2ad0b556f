package contentsource

import (
	"context"
	"log"
	"os"

	"marketflow/auditlog"
	"marketflow/types"
)

// Source resolves CMS entries and carries the activation audit entry points.
// When live credentials are absent or a fetch fails it serves the built-in
// stub article instead of erroring, so the pipeline stays demonstrable
// offline.
type Source struct {
	client   *contentfulClient
	store    *auditlog.Store
	liveMode bool
}

// NewSource connects to Contentful when CONTENTFUL_SPACE_ID and
// CONTENTFUL_ACCESS_TOKEN are both set and the space answers; otherwise it
// runs in stub mode.
func NewSource(ctx context.Context, store *auditlog.Store) *Source {
	spaceID := os.Getenv("CONTENTFUL_SPACE_ID")
	accessToken := os.Getenv("CONTENTFUL_ACCESS_TOKEN")

	if spaceID == "" || accessToken == "" {
		log.Println("Contentful credentials not found, using stub article source")
		return &Source{store: store}
	}

	client := newContentfulClient(spaceID, accessToken)
	if err := client.checkSpace(ctx); err != nil {
		log.Printf("Warning: Contentful connection failed, using stub article source: %v", err)
		return &Source{store: store}
	}

	return &Source{client: client, store: store, liveMode: true}
}

// NewStubSource always serves the sample article, used by tests.
func NewStubSource(store *auditlog.Store) *Source {
	return &Source{store: store}
}

func (s *Source) LiveMode() bool { return s.liveMode }

// GetArticle fetches the raw entry. Live fetch failures log and fall back to
// the stub article.
func (s *Source) GetArticle(ctx context.Context, entryID string) types.RawArticle {
	if !s.liveMode {
		return StubArticle(entryID)
	}

	raw, err := s.client.fetchEntry(ctx, entryID)
	if err != nil {
		log.Printf("Live Contentful API error: %v", err)
		log.Println("Falling back to stub article")
		return StubArticle(entryID)
	}
	return raw
}

// WriteActivationLog appends one audit record through the shared store.
func (s *Source) WriteActivationLog(result *types.ActivationResult) error {
	return s.store.Append(result)
}

// ReadLatestActivationLog returns the most recent audit record for entryID,
// or nil when none exists.
func (s *Source) ReadLatestActivationLog(entryID string) (*types.ActivationResult, error) {
	return s.store.ReadLatest(entryID)
}
