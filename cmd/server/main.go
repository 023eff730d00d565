package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/cors"

	"eventdesk/internal/app"
	"eventdesk/internal/auth"
	"eventdesk/internal/cache"
	"eventdesk/internal/capabilities"
	"eventdesk/internal/config"
	"eventdesk/internal/domain/services"
	"eventdesk/internal/events"
	"eventdesk/internal/handler"
	"eventdesk/internal/middleware"
	"eventdesk/internal/platform/rabbitmq"
	"eventdesk/internal/platform/redis"
	"eventdesk/internal/render"
	"eventdesk/internal/service/chat"
	"eventdesk/internal/service/dispatch"
	"eventdesk/internal/service/llm"
	"eventdesk/internal/storage"
)

func main() {
	// Load .env file (silently ignore if it doesn't exist - for production)
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger, closeLog, err := config.NewLogger(cfg)
	if err != nil {
		log.Fatalf("Failed to setup logging: %v", err)
	}
	defer func() { _ = closeLog() }()
	slog.SetDefault(logger)

	logger.Info("server starting",
		"environment", cfg.Environment,
		"port", cfg.Port,
		"table_prefix", cfg.TablePrefix,
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	verifier, err := newVerifier(ctx, cfg, logger)
	if err != nil {
		log.Fatalf("Failed to create JWT verifier: %v", err)
	}
	defer verifier.Close()

	repos, err := app.OpenRepositories(ctx, cfg, logger)
	if err != nil {
		log.Fatalf("Failed to open repositories: %v", err)
	}
	defer repos.Close()

	// Response cache: Redis when configured, otherwise in-process
	var cacheStore cache.Store = cache.NewMemoryStore()
	if cfg.RedisAddr != "" {
		client, err := redis.New(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err != nil {
			log.Fatalf("Failed to connect to redis: %v", err)
		}
		defer client.Close()
		cacheStore = cache.NewRedisStore(client, "eventdesk:"+cfg.TablePrefix)
		logger.Info("redis cache connected", "addr", cfg.RedisAddr)
	}
	responseCache := cache.NewResponseCache(cacheStore, cfg.CacheTTL, logger)

	// Workspace change events: RabbitMQ when configured
	var publisher events.Publisher = events.Noop{}
	if cfg.AMQPURL != "" {
		conn, err := rabbitmq.New(ctx, cfg.AMQPURL, cfg.EventsQueue)
		if err != nil {
			log.Fatalf("Failed to connect to rabbitmq: %v", err)
		}
		defer conn.Close()
		publisher = events.NewAMQPPublisher(conn, cfg.EventsQueue)
		logger.Info("event publisher connected", "queue", cfg.EventsQueue)
	}
	notifier := events.Fanout{responseCache, events.NewNotifier(publisher, logger)}

	core, err := app.NewCore(repos, cfg, notifier, logger)
	if err != nil {
		log.Fatalf("Failed to setup core services: %v", err)
	}

	files, err := storage.NewLocal(cfg.FilesDir, "/files")
	if err != nil {
		log.Fatalf("Failed to setup file storage: %v", err)
	}

	capabilityRegistry, err := capabilities.NewRegistry()
	if err != nil {
		log.Fatalf("Failed to initialize capability registry: %v", err)
	}
	logger.Info("capability registry initialized", "functions", len(capabilityRegistry.Functions()))

	gateway := newGateway(cfg, logger)
	dispatcher := dispatch.NewDispatcher(core.Workspace, core.Reports, render.NewFileGenerator(files, logger), logger)
	chatService := chat.NewService(repos.Conversations, gateway, dispatcher, capabilityRegistry, cfg.HistoryLimit, logger)

	logger.Info("services initialized")

	mux := handler.NewRouter(handler.Handlers{
		Workspace: handler.NewWorkspaceHandler(core.Workspace, logger),
		Chat:      handler.NewChatHandler(chatService, responseCache, logger),
		Reports:   handler.NewReportHandler(core.Reports, logger),
		Files:     handler.NewFileHandler(files, logger),
	}, responseCache)

	// Build middleware chain
	// Order: CORS → Recovery → Auth → Routes
	var h http.Handler = mux
	h = middleware.AuthMiddleware(verifier, repos.Users, logger)(h)
	h = middleware.Recovery(logger)(h)

	// CORS - Must be before auth to handle OPTIONS pre-flight requests
	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   strings.Split(cfg.CORSOrigins, ","),
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposedHeaders:   []string{"Content-Disposition", "X-Cache"},
		AllowCredentials: true,
	})
	h = corsHandler.Handler(h)

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      h,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: cfg.LLMTimeout + 30*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("server shutdown", "error", err)
		}
	}()

	logger.Info("server listening", "port", cfg.Port)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatalf("Failed to start server: %v", err)
	}
	logger.Info("server stopped")
}

// newVerifier uses Supabase JWKS when configured. In dev without SUPABASE_URL a
// static identity (DEV_USER_ID) stands in.
func newVerifier(ctx context.Context, cfg *config.Config, logger *slog.Logger) (auth.JWTVerifier, error) {
	if cfg.SupabaseJWKSURL == "" && cfg.IsDev() && cfg.DevUserID != "" {
		return auth.NewStaticVerifier(cfg.DevUserID, logger)
	}
	v, err := auth.NewJWTVerifier(ctx, cfg.SupabaseJWKSURL, logger)
	if err != nil {
		return nil, err
	}
	return v, nil
}

func newGateway(cfg *config.Config, logger *slog.Logger) services.LLMGateway {
	gateway, err := llm.NewGateway(llm.Config{
		APIKey:      cfg.OpenAIAPIKey,
		BaseURL:     cfg.OpenAIBaseURL,
		Model:       cfg.LLMModel,
		Temperature: cfg.LLMTemperature,
		MaxTokens:   cfg.LLMMaxTokens,
		Timeout:     cfg.LLMTimeout,
	}, logger)
	if err != nil {
		logger.Warn("llm gateway disabled, chat requests will fail", "error", err)
		return llm.Disabled{}
	}
	logger.Info("llm gateway ready", "model", cfg.LLMModel)
	return gateway
}
