package redis

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"StokAsistan/internal/entity"

	jsoniter "github.com/json-iterator/go"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

// ErrCacheMiss is returned when a key is absent or expired.
var ErrCacheMiss = errors.New("cache miss")

const (
	sessionKeyPrefix  = "assistant:session:"
	learnedCommandKey = "assistant:learned_commands"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

type IRedis interface {
	SetActiveSession(ctx context.Context, clientID, sessionID string, ttl time.Duration) error
	GetActiveSession(ctx context.Context, clientID string) (string, error)
	DeleteActiveSession(ctx context.Context, clientID string) error

	SetLearnedCommands(ctx context.Context, commands []entity.LearnedCommand, ttl time.Duration) error
	GetLearnedCommands(ctx context.Context) ([]entity.LearnedCommand, error)
	InvalidateLearnedCommands(ctx context.Context) error
}

type redisClient struct {
	client *redis.Client
}

func New() IRedis {
	db, _ := strconv.Atoi(os.Getenv("REDIS_DB"))
	redisAddr := os.Getenv("REDIS_ADDRESS")
	redisPassword := os.Getenv("REDIS_PASSWORD")

	logrus.Info(fmt.Sprintf("Connecting to Redis at %s...", redisAddr))

	client := redis.NewClient(&redis.Options{
		Addr:     redisAddr,
		Password: redisPassword,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if _, err := client.Ping(ctx).Result(); err != nil {
		logrus.Error(fmt.Sprintf("Failed to connect to Redis: %v", err))
	} else {
		logrus.Info("Successfully connected to Redis")
	}

	return &redisClient{client: client}
}

func NewFromClient(client *redis.Client) IRedis {
	return &redisClient{client: client}
}

func sessionKey(clientID string) string {
	return sessionKeyPrefix + clientID
}

func (r *redisClient) SetActiveSession(ctx context.Context, clientID, sessionID string, ttl time.Duration) error {
	if err := r.client.Set(ctx, sessionKey(clientID), sessionID, ttl).Err(); err != nil {
		logrus.Error(fmt.Sprintf("Error setting active session for client %s: %v", clientID, err))
		return err
	}
	return nil
}

func (r *redisClient) GetActiveSession(ctx context.Context, clientID string) (string, error) {
	val, err := r.client.Get(ctx, sessionKey(clientID)).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrCacheMiss
	} else if err != nil {
		logrus.Error(fmt.Sprintf("Error getting active session for client %s: %v", clientID, err))
		return "", err
	}
	return val, nil
}

func (r *redisClient) DeleteActiveSession(ctx context.Context, clientID string) error {
	if err := r.client.Del(ctx, sessionKey(clientID)).Err(); err != nil {
		logrus.Error(fmt.Sprintf("Error deleting active session for client %s: %v", clientID, err))
		return err
	}
	return nil
}

func (r *redisClient) SetLearnedCommands(ctx context.Context, commands []entity.LearnedCommand, ttl time.Duration) error {
	payload, err := json.Marshal(commands)
	if err != nil {
		return err
	}

	if err := r.client.Set(ctx, learnedCommandKey, payload, ttl).Err(); err != nil {
		logrus.Error(fmt.Sprintf("Error caching learned commands: %v", err))
		return err
	}
	logrus.Debug(fmt.Sprintf("Cached %d learned commands for %v", len(commands), ttl))
	return nil
}

func (r *redisClient) GetLearnedCommands(ctx context.Context) ([]entity.LearnedCommand, error) {
	payload, err := r.client.Get(ctx, learnedCommandKey).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrCacheMiss
	} else if err != nil {
		logrus.Error(fmt.Sprintf("Error reading learned commands: %v", err))
		return nil, err
	}

	var commands []entity.LearnedCommand
	if err := json.Unmarshal(payload, &commands); err != nil {
		return nil, err
	}
	return commands, nil
}

func (r *redisClient) InvalidateLearnedCommands(ctx context.Context) error {
	if err := r.client.Del(ctx, learnedCommandKey).Err(); err != nil {
		logrus.Error(fmt.Sprintf("Error invalidating learned commands: %v", err))
		return err
	}
	return nil
}
