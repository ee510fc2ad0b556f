package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"

	"marketflow/auditlog"
	"marketflow/config"
	"marketflow/enrichment"
	"marketflow/marketing"
	"marketflow/ratelimit"
	"marketflow/types"
	"marketflow/validation"
)

// ErrRateLimited is returned before any side effect happens. Rate-limited
// requests are not audited.
var ErrRateLimited = errors.New("rate limit exceeded")

// ArticleSource resolves raw CMS entries and carries the audit entry points.
// Satisfied by contentsource.Source.
type ArticleSource interface {
	GetArticle(ctx context.Context, entryID string) types.RawArticle
	WriteActivationLog(result *types.ActivationResult) error
	ReadLatestActivationLog(entryID string) (*types.ActivationResult, error)
}

// Engine runs the activation pipeline: rate check, fetch, validate, enrich,
// dispatch, audit. Every run past the rate check produces exactly one
// ActivationResult which is appended to the audit log before returning.
type Engine struct {
	limiter  ratelimit.Limiter
	source   ArticleSource
	enricher *enrichment.Service
	platform *marketing.Service
	archive  *auditlog.Archive
	events   *auditlog.Publisher

	newID func() string
	now   func() time.Time
}

func NewEngine(
	limiter ratelimit.Limiter,
	source ArticleSource,
	enricher *enrichment.Service,
	platform *marketing.Service,
	archive *auditlog.Archive,
	events *auditlog.Publisher,
) *Engine {
	return &Engine{
		limiter:  limiter,
		source:   source,
		enricher: enricher,
		platform: platform,
		archive:  archive,
		events:   events,
		newID:    uuid.NewString,
		now:      time.Now,
	}
}

// Activate runs one activation for clientKey (the rate-limit identity,
// normally the client IP). The only non-nil error is ErrRateLimited; every
// other failure is reported inside the returned result.
func (e *Engine) Activate(ctx context.Context, clientKey string, req *types.ActivationRequest) (*types.ActivationResult, error) {
	allowed, err := e.limiter.Allow(clientKey)
	if err != nil {
		// Fail open: a broken limiter backend must not block activations.
		log.Printf("Warning: rate limiter check failed, allowing request: %v", err)
		allowed = true
	}
	if !allowed {
		return nil, ErrRateLimited
	}

	start := e.now()
	result := &types.ActivationResult{
		ActivationID: e.newID(),
		EntryID:      req.EntryID,
	}

	fetchCtx, cancel := context.WithTimeout(ctx, config.ContentSourceTimeout)
	raw := e.source.GetArticle(fetchCtx, req.EntryID)
	cancel()

	article, vErr := validation.ValidateArticle(raw.Fields)
	if vErr != nil {
		result.Errors = vErr.Violations
		result.ValidationFailed = true
		e.finalize(ctx, result, start)
		return result, nil
	}

	dispatch := true
	if req.EnrichmentWanted() {
		enrichCtx, cancel := context.WithTimeout(ctx, config.EnrichmentTimeout)
		payload := e.enricher.EnrichContent(enrichCtx, article)
		cancel()

		if article.HasImages {
			altCtx, cancel := context.WithTimeout(ctx, e.enricher.VisionTimeout())
			payload.GeneratedAltText = e.enricher.GenerateAltText(altCtx, raw.Fields, article)
			cancel()
		}

		result.EnrichmentData = payload
		if payload.Fallback || payload.Error != "" {
			result.Errors = append(result.Errors, fmt.Sprintf("AI enrichment failed: %s", payload.Error))
			dispatch = false
		} else {
			payload.BrandVoice = BrandVoice(payload.ToneAnalysis)
		}
	}

	if dispatch {
		lead := buildLead(result.ActivationID, article)
		resp, err := e.platform.AddToList(ctx, req.MarketoListID, []types.Lead{lead})
		result.MarketoResponse = resp
		if err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("Marketing platform dispatch failed: %v", err))
		} else if ok, _ := resp["success"].(bool); !ok {
			result.Errors = append(result.Errors, "Marketing platform dispatch failed: platform reported failure")
		}
	}

	e.finalize(ctx, result, start)
	return result, nil
}

// ReadLatestActivationLog exposes the audit point read for the HTTP layer.
func (e *Engine) ReadLatestActivationLog(entryID string) (*types.ActivationResult, error) {
	return e.source.ReadLatestActivationLog(entryID)
}

// finalize stamps status and timing, then writes the audit record. The local
// append and the optional S3/Kafka fan-out are best-effort: their failures
// are logged, never surfaced.
func (e *Engine) finalize(ctx context.Context, result *types.ActivationResult, start time.Time) {
	if len(result.Errors) == 0 {
		result.Status = types.StatusSuccess
	} else {
		result.Status = types.StatusError
	}
	result.ProcessingTime = e.now().Sub(start).Seconds()
	result.Timestamp = e.now().UTC()

	if err := e.source.WriteActivationLog(result); err != nil {
		log.Printf("Failed to write activation log: %v", err)
	} else {
		log.Printf("Activation log written for entry: %s", result.EntryID)
	}

	if err := e.archive.Upload(ctx, result); err != nil {
		log.Printf("Failed to archive activation record: %v", err)
	}
	if err := e.events.Publish(result); err != nil {
		log.Printf("Failed to publish activation event: %v", err)
	}
}

// buildLead synthesizes the platform lead from the activation identity and
// the validated article.
func buildLead(activationID string, article *types.Article) types.Lead {
	return types.Lead{
		Email:        fmt.Sprintf("activation-%s@example.com", activationID[:8]),
		FirstName:    "Demo",
		LastName:     "Lead",
		ContentTitle: article.Title,
		CampaignTags: strings.Join(article.CampaignTags, ","),
	}
}
