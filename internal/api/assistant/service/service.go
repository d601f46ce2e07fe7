package assistantService

import (
	"context"
	"time"

	"StokAsistan/internal/api/assistant"
	assistantRepository "StokAsistan/internal/api/assistant/repository"
	"StokAsistan/internal/entity"
	"StokAsistan/pkg/nlp"
	"StokAsistan/pkg/oracle"
	"StokAsistan/pkg/redis"
	"StokAsistan/pkg/utils"

	"github.com/sirupsen/logrus"
)

type IAssistantService interface {
	// ProcessNaturalLanguage never returns an error. Every failure is a
	// result with Success=false.
	ProcessNaturalLanguage(ctx context.Context, session assistant.SessionHandle, text string, caps assistant.Capabilities) assistant.ActionResult

	ResolveSession(ctx context.Context, clientID, sessionID, userID string) (entity.ChatSession, error)
	OpenSession(ctx context.Context, sessionID string) (assistant.SessionHandle, error)
	GetSessionHistory(ctx context.Context, sessionID string, limit int) ([]entity.ChatMessage, error)
	GetLearnedCommands(ctx context.Context) ([]entity.LearnedCommand, error)
	CleanupStaleSessions(ctx context.Context) (int64, error)
}

type Config struct {
	HistoryLimit    int           `env:"HISTORY_LIMIT" envDefault:"10"`
	SessionTTL      time.Duration `env:"SESSION_TTL" envDefault:"24h"`
	LearnedCacheTTL time.Duration `env:"LEARNED_CACHE_TTL" envDefault:"5m"`
}

type assistantService struct {
	log        *logrus.Logger
	repo       assistantRepository.Repository
	cache      redis.IRedis
	utils      utils.IUtils
	classifier nlp.IClassifier
	extractor  nlp.IExtractor
	oracle     oracle.IOracle
	config     *Config

	seed func() int64
	now  func() time.Time
}

func NewAssistantService(
	log *logrus.Logger,
	repo assistantRepository.Repository,
	cache redis.IRedis,
	utils utils.IUtils,
	classifier nlp.IClassifier,
	extractor nlp.IExtractor,
	oracle oracle.IOracle,
	config *Config,
) IAssistantService {
	return &assistantService{
		log:        log,
		repo:       repo,
		cache:      cache,
		utils:      utils,
		classifier: classifier,
		extractor:  extractor,
		oracle:     oracle,
		config:     config,
		seed:       func() int64 { return time.Now().UnixNano() },
		now:        time.Now,
	}
}
