package config

import (
	"fmt"
	"os"
	"time"

	"StokAsistan/database/postgres"
	assistantHandler "StokAsistan/internal/api/assistant/handler"
	assistantRepository "StokAsistan/internal/api/assistant/repository"
	assistantService "StokAsistan/internal/api/assistant/service"
	inventoryRepository "StokAsistan/internal/api/inventory/repository"
	inventoryService "StokAsistan/internal/api/inventory/service"
	"StokAsistan/internal/middleware"
	"StokAsistan/pkg/gemini"
	"StokAsistan/pkg/nlp"
	"StokAsistan/pkg/openai"
	"StokAsistan/pkg/oracle"
	"StokAsistan/pkg/redis"
	"StokAsistan/pkg/utils"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/jmoiron/sqlx"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
)

type ServerOption func(*Server) error

type Server struct {
	engine       *fiber.App
	db           *sqlx.DB
	log          *logrus.Logger
	middleware   middleware.Middleware
	validator    *validator.Validate
	utils        utils.IUtils
	handlers     []handler
	redisServer  redis.IRedis
	appConfig    *AppConfig
	oracle       oracle.IOracle
	intentOracle nlp.IntentOracle
	scheduler    *Scheduler
	closers      []func()
}

type handler interface {
	Start(srv fiber.Router)
}

func NewServer(options ...ServerOption) (*Server, error) {
	server := &Server{}

	for _, option := range options {
		if err := option(server); err != nil {
			return nil, fmt.Errorf("failed to apply option: %w", err)
		}
	}

	if server.engine == nil {
		return nil, fmt.Errorf("fiber app is required")
	}
	if server.log == nil {
		return nil, fmt.Errorf("logger is required")
	}
	if server.appConfig == nil {
		return nil, fmt.Errorf("app config is required")
	}
	if server.oracle == nil {
		server.oracle = oracle.NewNop()
	}

	return server, nil
}

func WithFiber(fiberApp *fiber.App) ServerOption {
	return func(s *Server) error {
		s.engine = fiberApp
		return nil
	}
}

func WithLogger(logger *logrus.Logger) ServerOption {
	return func(s *Server) error {
		s.log = logger
		return nil
	}
}

func WithValidator(validator *validator.Validate) ServerOption {
	return func(s *Server) error {
		s.validator = validator
		return nil
	}
}

func WithAppConfig(cfg *AppConfig) ServerOption {
	return func(s *Server) error {
		s.appConfig = cfg
		return nil
	}
}

func WithDatabase() ServerOption {
	return func(s *Server) error {
		db, err := postgres.New()
		if err != nil {
			if s.log != nil {
				s.log.Errorf("Failed to connect to database: %v", err)
			}
			return fmt.Errorf("failed to create database connection: %w", err)
		}
		s.db = db
		s.closers = append(s.closers, func() { _ = db.Close() })
		return nil
	}
}

func WithRedisServer(redisServer redis.IRedis) ServerOption {
	return func(s *Server) error {
		s.redisServer = redisServer
		return nil
	}
}

func WithMiddleware() ServerOption {
	return func(s *Server) error {
		if s.log == nil {
			return fmt.Errorf("logger must be initialized before middleware")
		}
		s.middleware = middleware.New(s.log)
		return nil
	}
}

// WithOracle picks the remote text oracle from ORACLE_PROVIDER. A provider
// that cannot be created leaves the assistant on its local replies.
func WithOracle() ServerOption {
	return func(s *Server) error {
		if s.log == nil || s.appConfig == nil {
			return fmt.Errorf("logger and app config must be initialized before oracle")
		}

		cfg := s.appConfig.Oracle
		switch cfg.Provider {
		case "gemini":
			client, err := gemini.NewGeminiClient()
			if err != nil {
				s.log.Warnf("Gemini oracle disabled: %v", err)
				return nil
			}
			s.oracle = oracle.New(s.log, "gemini", client, gemini.IsRateLimit, cfg)
			s.closers = append(s.closers, client.Close)
		case "openai":
			client, err := openai.NewChatGPT()
			if err != nil {
				s.log.Warnf("OpenAI oracle disabled: %v", err)
				return nil
			}
			s.oracle = oracle.New(s.log, "openai", client, openai.IsRateLimit, cfg)
		case "", "none":
			s.oracle = oracle.NewNop()
		default:
			return fmt.Errorf("unknown oracle provider %q", cfg.Provider)
		}
		return nil
	}
}

// WithIntentOracle enables remote intent classification ahead of the
// pattern catalog.
func WithIntentOracle() ServerOption {
	return func(s *Server) error {
		if s.appConfig == nil || !s.appConfig.IntentOracleEnabled {
			return nil
		}

		client, err := openai.NewChatGPT()
		if err != nil {
			if s.log != nil {
				s.log.Warnf("Intent oracle disabled: %v", err)
			}
			return nil
		}
		s.intentOracle = client
		return nil
	}
}

func WithScheduler() ServerOption {
	return func(s *Server) error {
		if s.log == nil {
			return fmt.Errorf("logger must be initialized before scheduler")
		}
		s.scheduler = NewScheduler(s.log)
		return nil
	}
}

func WithUtils() ServerOption {
	return func(s *Server) error {
		s.utils = utils.New()
		return nil
	}
}

func (s *Server) RegisterHandler() {
	// Inventory
	inventoryRepo := inventoryRepository.New(s.db, s.log)
	inventoryServices := inventoryService.NewInventoryService(s.log, inventoryRepo, s.utils)

	// Assistant
	classifierOpts := []nlp.ClassifierOption{nlp.WithOracleTimeout(s.appConfig.IntentOracleTimeout)}
	if s.intentOracle != nil {
		classifierOpts = append(classifierOpts, nlp.WithIntentOracle(s.intentOracle))
	}
	classifier := nlp.NewClassifier(s.log, nlp.DefaultCatalog(), classifierOpts...)
	extractor := nlp.NewExtractor(nlp.DefaultRules())

	assistantRepo := assistantRepository.New(s.db, s.log)
	assistantServices := assistantService.NewAssistantService(
		s.log, assistantRepo, s.redisServer, s.utils, classifier, extractor, s.oracle, &s.appConfig.Assistant,
	)
	assistantHandlers := assistantHandler.New(s.log, s.validator, s.middleware, assistantServices, inventoryServices)

	if s.scheduler != nil {
		if err := s.scheduler.AddSessionCleanup(s.appConfig.SessionCleanupSpec, assistantServices); err != nil {
			s.log.Errorf("Invalid session cleanup schedule %q: %v", s.appConfig.SessionCleanupSpec, err)
		}
	}

	s.setupHealthCheck()
	s.setupMetrics()
	s.handlers = append(s.handlers, assistantHandlers)
}

func (s *Server) Run() error {
	s.engine.Use(s.middleware.NewRequestIDMiddleware())
	s.engine.Use(s.middleware.NewLoggingMiddleware())
	router := s.engine.Group("/api/v1")

	for _, h := range s.handlers {
		h.Start(router)
	}

	if s.scheduler != nil {
		s.scheduler.Start()
	}

	port := os.Getenv("APP_PORT")
	if port == "" {
		port = "3000"
	}

	return s.engine.Listen(fmt.Sprintf(":%s", port))
}

func (s *Server) Shutdown(timeout time.Duration) error {
	err := s.engine.ShutdownWithTimeout(timeout)

	if s.scheduler != nil {
		s.scheduler.Stop()
	}
	for i := len(s.closers) - 1; i >= 0; i-- {
		s.closers[i]()
	}

	return err
}

func (s *Server) setupHealthCheck() {
	s.engine.Get("/", func(ctx *fiber.Ctx) error {
		return ctx.JSON(fiber.Map{
			"message": "Server is Healthy!",
		})
	})
}

func (s *Server) setupMetrics() {
	s.engine.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))
}
