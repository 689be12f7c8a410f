package main

import (
	"context"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gofiber/contrib/otelfiber"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/swagger"
	_ "github.com/joho/godotenv/autoload"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"bfhl/docs"
	"bfhl/internal/ai"
	"bfhl/internal/config"
	handlers "bfhl/internal/http/handler"
	"bfhl/internal/http/middleware"
	"bfhl/internal/logger"
	tracing "bfhl/internal/otel"
	"bfhl/internal/service"
)

// @title BFHL API
// @version 1.0
// @BasePath /
func main() {
	// Load configuration from environment variables (.env auto-loaded if present)
	cfg := config.Load()
	log := logger.New(cfg.LogLevel, cfg.Location())
	defer log.Sync()

	if err := cfg.Validate(); err != nil {
		log.Fatal("invalid configuration", zap.Error(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := tracing.Init(ctx, log)
	if err != nil {
		log.Fatal("failed to initialize tracing", zap.Error(err))
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	promMiddleware, err := middleware.NewPrometheusMiddleware(reg)
	if err != nil {
		log.Fatal("failed to register metrics", zap.Error(err))
	}

	if cfg.AI.APIKey == "" {
		log.Warn("OPENROUTER_API_KEY is not set; AI requests will fail")
	}
	answerer := ai.NewOpenRouter(cfg.AI)
	svc := service.NewBFHLService(answerer, cfg.Limits)

	app := fiber.New(fiber.Config{
		AppName:               "bfhl",
		ErrorHandler:          handlers.ErrorHandler(cfg.Identity),
		BodyLimit:             cfg.Limits.BodyLimitBytes,
		DisableStartupMessage: true,
	})

	// Register global middleware
	app.Use(recover.New())
	app.Use(middleware.RequestID())
	app.Use(otelfiber.Middleware())
	app.Use(middleware.AccessLog(log))
	app.Use(promMiddleware.Handler())
	app.Use(cors.New())

	app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(reg, promhttp.HandlerOpts{})))

	// Swagger UI with dynamic host and scheme
	app.Get("/swagger/*", func(c *fiber.Ctx) error {
		scheme := c.Protocol()
		if proto := c.Get("X-Forwarded-Proto"); proto != "" {
			scheme = strings.Split(proto, ",")[0]
		}

		docs.SwaggerInfo.Host = c.Get("Host")
		docs.SwaggerInfo.Schemes = []string{scheme}

		return swagger.HandlerDefault(c)
	})

	handlers.RegisterRoutes(app, svc, cfg.Identity, log)

	addr := ":" + cfg.Port
	errCh := make(chan error, 1)
	go func() {
		log.Info("server_started", zap.String("addr", addr))
		errCh <- app.Listen(addr)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			log.Error("server stopped", zap.Error(err))
		}
	case <-ctx.Done():
		log.Info("shutting_down")
		if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
			log.Error("server shutdown failed", zap.Error(err))
		}
	}

	flushCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := shutdownTracing(flushCtx); err != nil {
		log.Error("tracing shutdown failed", zap.Error(err))
	}
}
