package main

import (
	"context"
	"log"
	"strings"

	"applicon/resume-evaluator/internal/config"
	"applicon/resume-evaluator/internal/repositories"
	"applicon/resume-evaluator/internal/services"
)

// Rebuilds the Qdrant index from the evaluations already stored in Postgres.
// Run this after changing the collection, the chunking parameters, or the
// embedding model.
func main() {
	log.Println("🚀 Starting evaluation reindex...")

	// Load configuration
	cfg := config.Load()

	if cfg.Gemini.APIKey == "" || cfg.Qdrant.URL == "" {
		log.Fatal("❌ Reindexing requires GEMINI_API_KEY and QDRANT_URL")
	}

	db, err := config.InitDatabase(cfg)
	if err != nil {
		log.Fatalf("❌ Failed to initialize database: %v", err)
	}
	evalRepo := repositories.NewEvaluationRepository(db)

	geminiService, err := services.NewGeminiService(cfg.Gemini.APIKey, cfg.Matcher.MaxRetries)
	if err != nil {
		log.Fatalf("❌ Failed to initialize Gemini: %v", err)
	}

	vectorIndex, err := services.NewVectorIndexService(
		cfg.Qdrant.URL,
		cfg.Qdrant.APIKey,
		cfg.Qdrant.Collection,
		geminiService,
	)
	if err != nil {
		log.Fatalf("❌ Failed to initialize Qdrant: %v", err)
	}

	if err := vectorIndex.InitCollection(); err != nil {
		log.Fatalf("❌ Failed to initialize collection: %v", err)
	}

	evaluations, err := evalRepo.List(repositories.ListFilter{})
	if err != nil {
		log.Fatalf("❌ Failed to load evaluations: %v", err)
	}
	log.Printf("📄 Found %d evaluations to index", len(evaluations))

	ctx := context.Background()
	successCount := 0
	failCount := 0

	for i := range evaluations {
		eval := &evaluations[i]

		if strings.TrimSpace(eval.ResumeText) == "" {
			log.Printf("   ⚠️  Evaluation %s has no resume text, skipping...", eval.ID)
			continue
		}

		if err := vectorIndex.IndexEvaluation(ctx, eval); err != nil {
			log.Printf("   ❌ Failed to index evaluation %s: %v", eval.ID, err)
			failCount++
			continue
		}

		successCount++
		if successCount%10 == 0 {
			log.Printf("   📊 Progress: %d/%d evaluations indexed", successCount, len(evaluations))
		}
	}

	// Summary
	log.Println("\n" + strings.Repeat("=", 60))
	log.Printf("📊 Reindex Summary:")
	log.Printf("   ✅ Successful: %d evaluations", successCount)
	log.Printf("   ❌ Failed: %d evaluations", failCount)
	log.Println(strings.Repeat("=", 60))

	if failCount > 0 {
		log.Println("⚠️  Some evaluations failed to index. Please check the logs above.")
		return
	}

	log.Println("✅ All evaluations indexed successfully!")
}
