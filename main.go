package main

import (
	"context"
	"log"
	"net/http"
	"os"

	"github.com/joho/godotenv"

	"marketflow/api"
	"marketflow/auditlog"
	"marketflow/contentsource"
	"marketflow/enrichment"
	"marketflow/marketing"
	"marketflow/orchestrator"
	"marketflow/ratelimit"
)

func main() {
	// Load environment variables from .env if present (non-fatal if missing)
	_ = godotenv.Load()

	addr := ":8080"
	if v := os.Getenv("PORT"); v != "" {
		addr = ":" + v
	}

	ctx := context.Background()

	store := auditlog.NewStore("")
	source := contentsource.NewSource(ctx, store)
	enricher := enrichment.NewService()
	platform := marketing.NewService()
	limiter := ratelimit.NewLimiterFromEnv()
	archive := auditlog.NewArchiveFromEnv(ctx)
	events := auditlog.NewPublisherFromEnv()
	defer events.Close()

	engine := orchestrator.NewEngine(limiter, source, enricher, platform, archive, events)

	log.Printf("Content source live mode: %t", source.LiveMode())
	log.Printf("AI provider: %s", enricher.ProviderName())
	log.Printf("Marketing platform: %s", platform.PlatformName())

	r := api.NewRouter(engine)
	log.Printf("Starting API server on %s", addr)
	log.Println("API endpoints available:")
	log.Println("  GET  /health")
	log.Println("  GET  /platform")
	log.Println("  POST /activate")
	log.Println("  GET  /activation-log/:entry_id")

	if err := http.ListenAndServe(addr, r); err != nil {
		log.Fatalf("server error: %v", err)
	}
}
