package main

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/hibiken/asynq"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"
	"github.com/robfig/cron"

	config "github.com/shipsocial/shipsocial-api/configs"
	"github.com/shipsocial/shipsocial-api/internal/api/handlers"
	"github.com/shipsocial/shipsocial-api/internal/api/middleware"
	job "github.com/shipsocial/shipsocial-api/internal/jobs"
	"github.com/shipsocial/shipsocial-api/internal/logging"
	"github.com/shipsocial/shipsocial-api/internal/queue"
	"github.com/shipsocial/shipsocial-api/internal/quota"
	"github.com/shipsocial/shipsocial-api/internal/repository"
	"github.com/shipsocial/shipsocial-api/internal/scheduler"
	"github.com/shipsocial/shipsocial-api/internal/service"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: Failed to load environment variables", err)
	}

	cfg := config.LoadConfig()
	logCloser := logging.Setup(cfg.LogLevel, cfg.LogFile)
	defer logCloser.Close()

	if cfg.SecretKey == "" {
		log.Fatal("SECRET_KEY must be set")
	}

	seed, err := config.LoadSeed(cfg.SeedFile)
	if err != nil {
		log.Fatalf("Failed to load seed: %v", err)
	}

	db, err := sql.Open("postgres", cfg.PostgresURI)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	if err := db.Ping(); err != nil {
		log.Fatalf("Database is unreachable: %v", err)
	}

	migrateCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	err = repository.Migrate(migrateCtx, db)
	cancel()
	if err != nil {
		log.Fatalf("Failed to apply schema: %v", err)
	}

	postRepo := repository.NewPostRepository(db)
	windowRepo := repository.NewWindowRepository(db)
	brandRepo := repository.NewBrandRepository(db)
	pillarRepo := repository.NewPillarRepository(db)
	apiKeyRepository := repository.NewApiKeyRepository(db)

	quotaStore, closeQuotaStore := newQuotaStore(cfg, db)
	defer closeQuotaStore()

	quotaLoc, err := scheduler.LoadZone(cfg.Quota.TimeZone)
	if err != nil {
		log.Fatalf("Invalid QUOTA_TIMEZONE: %v", err)
	}
	limiter := quota.NewLimiter(quotaStore,
		quota.WithDailyLimit(cfg.Quota.DailyLimit),
		quota.WithLocation(quotaLoc),
	)

	assigner := scheduler.NewAssigner(nil, nil)
	r2Service := service.NewR2Service(cfg.R2)
	scheduleService := service.NewScheduleService(postRepo, windowRepo, assigner, cfg.DefaultTimeZone)
	postService := service.NewPostService(postRepo, pillarRepo, brandRepo, windowRepo, limiter, r2Service)
	windowService := service.NewWindowService(db, windowRepo, seed, cfg.DefaultTimeZone)
	brandService := service.NewBrandService(db, brandRepo, pillarRepo, windowRepo, postRepo, apiKeyRepository, limiter, seed, cfg.DefaultTimeZone)
	exportService := service.NewExportService(postRepo, brandRepo)
	apiKeyService := service.NewApiKeyService(apiKeyRepository)

	// publish queue
	var tasks queue.Enqueuer
	var taskServer *asynq.Server
	if cfg.AutoPublish {
		redisConn := asynq.RedisClientOpt{Addr: cfg.RedisURI}
		client := asynq.NewClient(redisConn)
		defer client.Close()
		tasks = client

		taskServer = asynq.NewServer(redisConn, asynq.Config{
			Concurrency: 10,
		})
		mux := asynq.NewServeMux()
		queue.NewQueue(scheduleService).Register(mux)

		slog.Info("starting the asynq server")
		if err := taskServer.Start(mux); err != nil {
			log.Fatalf("Could not start Asynq server: %v", err)
		}
	}

	// cron jobs
	sweepJob := job.NewPublishSweepJob(scheduleService)
	c := cron.New()
	if cfg.AutoPublish {
		if err := c.AddFunc(fmt.Sprintf("@every %s", cfg.SweepInterval), sweepJob.PublishOverdue); err != nil {
			log.Fatalf("Invalid SWEEP_INTERVAL: %v", err)
		}
	}
	c.Start()

	app := fiber.New(fiber.Config{
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		BodyLimit:    12 * 1024 * 1024, // 12 MB, assets are capped at 10 MB
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			slog.Error("unhandled error", "path", c.Path(), "error", err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
		},
	})

	app.Use(recover.New())
	app.Use(logger.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.FrontendURL,
		AllowMethods:     "GET,POST,PUT,PATCH,DELETE,OPTIONS",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization, X-API-Key",
		AllowCredentials: true,
		MaxAge:           3600,
	}))

	authMiddleware := middleware.NewAuthMiddleware(*cfg, apiKeyService)
	rateLimiter := middleware.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitRPS*2)

	app.Get("/health", handlers.Health(db))

	brand := handlers.NewBrandHandler(*cfg, brandService)
	app.Post("/onboard", rateLimiter.Handler(), brand.Onboard)

	api := app.Group("/api")
	api.Use(authMiddleware.AuthMiddleware())

	api.Get("/brand", brand.GetBrand)
	api.Put("/brand", brand.UpdateBrand)
	api.Post("/brand/reset", brand.ResetDemo)
	api.Get("/pillars", brand.ListPillars)
	api.Post("/pillars", brand.CreatePillar)
	api.Delete("/pillars/:id", brand.RemovePillar)

	windows := handlers.NewWindowHandler(windowService)
	api.Get("/windows", windows.ListWindows)
	api.Patch("/windows", windows.UpdateWindows)

	post := handlers.NewPostHandler(postService)
	api.Get("/posts", post.ListPosts)
	api.Post("/posts/generate", rateLimiter.Handler(), post.GeneratePost)
	api.Get("/posts/:id", post.GetPost)
	api.Delete("/posts/:id", post.RemovePost)
	api.Post("/posts/:id/regenerate", rateLimiter.Handler(), post.RegeneratePost)
	api.Post("/posts/:id/asset", post.UploadAsset)
	api.Get("/stats", post.Stats)

	schedule := handlers.NewScheduleHandler(scheduleService, tasks)
	api.Post("/posts/:id/schedule", schedule.SchedulePost)
	api.Post("/posts/:id/unschedule", schedule.UnschedulePost)
	api.Post("/posts/:id/publish", schedule.PublishPost)

	credits := handlers.NewCreditsHandler(limiter)
	api.Get("/credits", credits.GetCredits)
	api.Post("/credits/consume", credits.Consume)
	api.Post("/credits/refund", credits.Refund)
	api.Post("/credits/reset", credits.Reset)

	export := handlers.NewExportHandler(exportService)
	api.Get("/export/csv", export.ExportAll)
	api.Post("/export/csv", export.ExportSelected)

	apiKeys := handlers.NewApiKeyHandler(apiKeyService)
	api.Post("/api_key/new", apiKeys.CreateApiKey)
	api.Get("/api_key/list", apiKeys.ListKeys)
	api.Post("/api_key/remove", apiKeys.RemoveAPIKey)

	go func() {
		if err := app.Listen(":" + cfg.Port); err != nil {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()
	slog.Info("server is running", "port", cfg.Port, "auto_publish", cfg.AutoPublish, "quota_store", cfg.Quota.Store)

	gracefulShutdown(app, db, c, taskServer)
}

// newQuotaStore picks the quota backend named by QUOTA_STORE.
func newQuotaStore(cfg *config.Config, db *sql.DB) (quota.Store, func()) {
	switch cfg.Quota.Store {
	case "redis":
		rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisURI})
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := rdb.Ping(ctx).Err(); err != nil {
			log.Fatalf("Redis is unreachable: %v", err)
		}
		return repository.NewRedisQuotaRepository(rdb), func() { closeQuiet(rdb) }
	case "memory":
		slog.Warn("quota counters are kept in memory and reset on restart")
		return quota.NewMemoryStore(), func() {}
	case "postgres", "":
		return repository.NewQuotaRepository(db), func() {}
	}
	log.Fatalf("Unknown QUOTA_STORE %q", cfg.Quota.Store)
	return nil, nil
}

func closeQuiet(c io.Closer) {
	if err := c.Close(); err != nil {
		slog.Warn("close failed", "error", err)
	}
}

func closeDB(db *sql.DB) {
	fmt.Fprint(os.Stdout, "Closing database connection... ")
	if err := db.Close(); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to close database: %v", err)
		return
	}
	fmt.Fprintln(os.Stdout, "Done")
}

func gracefulShutdown(app *fiber.App, db *sql.DB, c *cron.Cron, taskServer *asynq.Server) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	<-quit
	log.Println("Shutting down server...")

	if err := app.Shutdown(); err != nil {
		log.Fatalf("Failed to shut down server: %v", err)
	}

	c.Stop()
	if taskServer != nil {
		taskServer.Shutdown()
	}

	closeDB(db)
	log.Println("Server shutdown complete.")
}
