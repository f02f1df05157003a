package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"alfredoptarigan/skillpilot/internal/config"
	"alfredoptarigan/skillpilot/internal/handlers"
	"alfredoptarigan/skillpilot/internal/logger"
	"alfredoptarigan/skillpilot/internal/models"
	"alfredoptarigan/skillpilot/internal/repositories"
	"alfredoptarigan/skillpilot/internal/services"
)

func main() {
	cfg := config.Load()

	appLog, err := logger.New(cfg.LogMode)
	if err != nil {
		log.Fatalf("failed to initialize logger: %v", err)
	}
	defer appLog.Sync()
	appLog.Info("config loaded", "env", cfg.Server.Env, "correlation_mode", cfg.Pipeline.CorrelationMode)

	// Audit log is optional; without it runs are discarded.
	runRepo := repositories.NewNopGenerationRunRepository()
	if cfg.Database.Enabled {
		db, err := config.InitDatabase(cfg)
		if err != nil {
			appLog.Fatal("failed to initialize database", "error", err)
		}
		runRepo = repositories.NewGenerationRunRepository(db)
		appLog.Info("audit database connected", "host", cfg.Database.Host, "db", cfg.Database.DBName)
	}

	// A missing key is not fatal: every generation degrades to fallback data.
	var gemini services.GeminiService
	gemini, err = services.NewGeminiService(context.Background(), cfg.Gemini.APIKey, cfg.Gemini.Model, appLog)
	if err != nil {
		if !errors.Is(err, models.ErrUpstreamUnavailable) {
			appLog.Fatal("failed to initialize Gemini", "error", err)
		}
		appLog.Warn("Gemini not configured, serving fallback data", "error", err.Error())
		gemini = nil
	}

	prompts, err := services.NewPromptBuilder()
	if err != nil {
		appLog.Fatal("failed to load prompt templates", "error", err)
	}

	validator := services.NewValidator()
	httpClient := &http.Client{Timeout: cfg.Pipeline.UpstreamTimeout}

	pipeline := services.NewPipeline(
		prompts,
		services.NewGenerationClient(gemini, validator, appLog),
		validator,
		services.NewFallbackProvider(),
		services.NewJSearchSource(httpClient, cfg.Sources.RapidAPIKey),
		services.NewCourseraSource(httpClient, cfg.Sources.CourseraAPIKey),
		services.NewYouTubeSource(httpClient, cfg.Sources.YouTubeAPIKey),
		services.NewGitHubSource(httpClient, cfg.Sources.GitHubToken),
		runRepo,
		services.PipelineOptions{
			CorrelationMode:   services.ParseCorrelationMode(cfg.Pipeline.CorrelationMode),
			GenerationTimeout: cfg.Pipeline.GenerationTimeout,
			UpstreamTimeout:   cfg.Pipeline.UpstreamTimeout,
		},
		appLog,
	)
	appLog.Info("pipeline initialized")

	app := newApp(cfg, pipeline, services.NewResumeParserService(), runRepo)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-quit
		appLog.Info("shutting down server")
		if err := app.Shutdown(); err != nil {
			appLog.Error("server forced to shutdown", "error", err)
		}
	}()

	addr := fmt.Sprintf(":%s", cfg.Server.Port)
	appLog.Info("server starting", "addr", addr)

	if err := app.Listen(addr); err != nil {
		appLog.Fatal("failed to start server", "error", err)
	}
}

func newApp(
	cfg *config.Config,
	pipeline *services.Pipeline,
	parser services.ResumeParserService,
	runRepo repositories.GenerationRunRepository,
) *fiber.App {
	matchHandler := handlers.NewMatchHandler(pipeline)
	searchHandler := handlers.NewSearchHandler(pipeline)
	assessmentHandler := handlers.NewAssessmentHandler(pipeline)
	roadmapHandler := handlers.NewRoadmapHandler(pipeline)
	projectHandler := handlers.NewProjectHandler(pipeline)
	careerHandler := handlers.NewCareerHandler(pipeline)
	resumeHandler := handlers.NewResumeHandler(parser, pipeline, cfg.Storage.MaxUploadSize)
	runHandler := handlers.NewRunHandler(runRepo)

	app := fiber.New(fiber.Config{
		AppName:      "SkillPilot Career API",
		ReadTimeout:  30 * time.Second,
		WriteTimeout: cfg.Pipeline.GenerationTimeout + 30*time.Second,
		BodyLimit:    int(cfg.Storage.MaxUploadSize),
		ErrorHandler: customErrorHandler,
	})

	app.Use(recover.New())
	app.Use(fiberlogger.New(fiberlogger.Config{
		Format:     "[${time}] ${status} - ${latency} ${method} ${path}\n",
		TimeFormat: "2006-01-02 15:04:05",
	}))

	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,OPTIONS",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
	}))

	api := app.Group("/api/v1")

	api.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status": "healthy",
			"time":   time.Now(),
		})
	})

	api.Post("/jobs/search", searchHandler.HandleSearchJobs)
	api.Post("/jobs/match", matchHandler.HandleMatchJobs)
	api.Post("/jobs/search-and-match", matchHandler.HandleSearchAndMatchJobs)

	api.Post("/courses/search", searchHandler.HandleSearchCourses)
	api.Post("/courses/match", matchHandler.HandleMatchCourses)
	api.Post("/courses/search-and-match", matchHandler.HandleSearchAndMatchCourses)

	api.Post("/videos/search", searchHandler.HandleSearchVideos)

	api.Post("/resume/parse", resumeHandler.HandleParse)
	api.Post("/resume/analyze", resumeHandler.HandleAnalyze)

	api.Post("/quiz/generate", assessmentHandler.HandleGenerateQuiz)
	api.Post("/quiz/score", assessmentHandler.HandleScoreQuiz)

	api.Post("/roadmap/generate", roadmapHandler.HandleGenerateRoadmap)

	api.Post("/projects/search", projectHandler.HandleSearchProjects)
	api.Post("/projects/recommend", projectHandler.HandleRecommendProjects)

	api.Post("/career/path", careerHandler.HandleCareerPath)
	api.Post("/career/advice", careerHandler.HandleCareerAdvice)

	api.Get("/runs", runHandler.HandleListRuns)
	api.Get("/runs/:id", runHandler.HandleGetRun)

	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"message": "SkillPilot Career API",
			"version": "1.0.0",
			"endpoints": []string{
				"POST /api/v1/jobs/search",
				"POST /api/v1/jobs/match",
				"POST /api/v1/jobs/search-and-match",
				"POST /api/v1/courses/search",
				"POST /api/v1/courses/match",
				"POST /api/v1/courses/search-and-match",
				"POST /api/v1/videos/search",
				"POST /api/v1/resume/parse",
				"POST /api/v1/resume/analyze",
				"POST /api/v1/quiz/generate",
				"POST /api/v1/quiz/score",
				"POST /api/v1/roadmap/generate",
				"POST /api/v1/projects/search",
				"POST /api/v1/projects/recommend",
				"POST /api/v1/career/path",
				"POST /api/v1/career/advice",
				"GET /api/v1/runs",
				"GET /api/v1/runs/:id",
			},
		})
	})

	return app
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
