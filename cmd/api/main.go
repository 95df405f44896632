package main

import (
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"applicon/resume-evaluator/internal/config"
	"applicon/resume-evaluator/internal/handlers"
	"applicon/resume-evaluator/internal/parser"
	"applicon/resume-evaluator/internal/repositories"
	"applicon/resume-evaluator/internal/scoring"
	"applicon/resume-evaluator/internal/services"
)

func main() {
	// Load configuration
	cfg := config.Load()
	log.Println("✅ Config loaded successfully")

	// Initialize database
	db, err := config.InitDatabase(cfg)
	if err != nil {
		log.Fatalf("❌ Failed to initialize database: %v", err)
	}

	evalRepo := repositories.NewEvaluationRepository(db)
	log.Println("✅ Repositories initialized successfully")

	storageService := services.NewStorageService(cfg.Storage.UploadPath)
	if err := storageService.EnsureUploadDir(); err != nil {
		log.Fatalf("❌ Failed to create upload directory: %v", err)
	}

	docParser := parser.NewDocumentParser()
	resumeParser := parser.NewResumeParser(docParser)
	jdParser := parser.NewJDParser()
	scorer := scoring.NewRelevanceScorer()
	log.Println("✅ Parsers initialized successfully")

	// Gemini is optional. Without an API key the matcher runs on TF-IDF and
	// feedback is rule based.
	var geminiService services.GeminiService
	if cfg.Gemini.APIKey != "" {
		geminiService, err = services.NewGeminiService(cfg.Gemini.APIKey, cfg.Matcher.MaxRetries)
		if err != nil {
			log.Fatalf("❌ Failed to initialize Gemini AI: %v", err)
		}
		log.Println("✅ Gemini AI initialized successfully")
	} else {
		log.Println("⚠️  GEMINI_API_KEY not set, using TF-IDF matcher and rule-based feedback")
	}

	var vectorizer scoring.TextVectorizer
	if cfg.Matcher.Backend == "embedding" && geminiService != nil {
		vectorizer = scoring.NewEmbeddingVectorizer(geminiService)
		log.Println("✅ Semantic matcher using Gemini embeddings")
	} else {
		vectorizer = scoring.NewTFIDFVectorizer()
		log.Println("✅ Semantic matcher using TF-IDF")
	}

	var generator scoring.TextGenerator = scoring.NoopTextGenerator{}
	if geminiService != nil {
		generator = geminiService
	}
	matcher := scoring.NewSemanticMatcher(vectorizer, generator)

	// Qdrant is optional too and needs embeddings to be useful.
	var vectorIndex services.VectorIndexService
	if cfg.Qdrant.URL != "" && geminiService != nil {
		vectorIndex, err = services.NewVectorIndexService(
			cfg.Qdrant.URL,
			cfg.Qdrant.APIKey,
			cfg.Qdrant.Collection,
			geminiService,
		)
		if err != nil {
			log.Fatalf("❌ Failed to initialize Qdrant: %v", err)
		}
		if err := vectorIndex.InitCollection(); err != nil {
			log.Fatalf("❌ Failed to initialize Qdrant collection: %v", err)
		}
		log.Println("✅ Qdrant initialized successfully")
	} else {
		log.Println("⚠️  Vector index disabled (requires QDRANT_URL and GEMINI_API_KEY)")
	}

	emailService := services.NewEmailService(cfg.SMTP)
	if emailService.IsConfigured() {
		log.Println("✅ Email service initialized successfully")
	} else {
		log.Println("⚠️  Email service not configured, feedback emails disabled")
	}

	evaluatorService := services.NewEvaluatorService(
		docParser,
		resumeParser,
		jdParser,
		scorer,
		matcher,
		evalRepo,
		vectorIndex,
		emailService,
	)
	log.Println("✅ Evaluator service initialized")

	// Initialize Handlers
	evaluateHandler := handlers.NewEvaluationHandler(
		evaluatorService,
		storageService,
		cfg.Storage.MaxFileSize,
	)
	resultHandler := handlers.NewResultHandler(evalRepo, vectorIndex, emailService)
	log.Println("✅ Handlers initialized")

	// Create Fiber app
	app := fiber.New(fiber.Config{
		AppName:      "Applicon Resume Evaluator API",
		ReadTimeout:  60 * time.Second,
		WriteTimeout: 60 * time.Second,
		BodyLimit:    int(cfg.Storage.MaxFileSize) * 12,
		ErrorHandler: customErrorHandler,
	})

	// Middleware
	app.Use(recover.New())
	app.Use(logger.New(logger.Config{
		Format:     "[${time}] ${status} - ${latency} ${method} ${path}\n",
		TimeFormat: "2006-01-02 15:04:05",
	}))

	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
	}))

	// Routes
	api := app.Group("/api/v1")

	// Health check
	api.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status": "healthy",
			"time":   time.Now(),
		})
	})

	// API endpoints
	api.Post("/evaluate", evaluateHandler.HandleEvaluate)
	api.Post("/evaluate/batch", evaluateHandler.HandleEvaluateBatch)
	api.Get("/evaluations", resultHandler.HandleListEvaluations)
	api.Get("/evaluations/:id", resultHandler.HandleGetEvaluation)
	api.Get("/evaluations/:id/similar", resultHandler.HandleFindSimilar)
	api.Post("/evaluations/:id/email", resultHandler.HandleSendFeedback)
	api.Get("/statistics", resultHandler.HandleStatistics)
	api.Get("/job-titles", resultHandler.HandleJobTitles)
	api.Get("/candidates/top", resultHandler.HandleTopCandidates)

	// Root route
	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"message": "Applicon Resume Evaluator API",
			"version": "1.0.0",
			"endpoints": []string{
				"POST /api/v1/evaluate",
				"POST /api/v1/evaluate/batch",
				"GET /api/v1/evaluations",
				"GET /api/v1/evaluations/:id",
				"GET /api/v1/evaluations/:id/similar",
				"POST /api/v1/evaluations/:id/email",
				"GET /api/v1/statistics",
				"GET /api/v1/job-titles",
				"GET /api/v1/candidates/top",
			},
		})
	})

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-quit
		log.Println("\n🛑 Shutting down server...")
		if err := app.Shutdown(); err != nil {
			log.Printf("❌ Server forced to shutdown: %v", err)
		}
	}()

	// Start server
	addr := fmt.Sprintf(":%s", cfg.Server.Port)
	log.Printf("🚀 Server starting on %s\n", addr)
	log.Printf("📖 API Documentation: http://localhost%s\n", addr)

	if err := app.Listen(addr); err != nil {
		log.Fatalf("❌ Failed to start server: %v", err)
	}
}

func customErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError

	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
	}

	return c.Status(code).JSON(fiber.Map{
		"error": err.Error(),
		"code":  code,
	})
}
