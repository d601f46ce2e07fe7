package assistantService

import (
	"context"
	"errors"

	"StokAsistan/internal/api/assistant"
	"StokAsistan/internal/entity"
	contextPkg "StokAsistan/pkg/context"
	"StokAsistan/pkg/metrics"
	"StokAsistan/pkg/redis"

	"github.com/sirupsen/logrus"
)

const maxHistoryLimit = 100

// ResolveSession reuses the requested session, or the client's last active
// one, while it is fresh. Otherwise a new session is opened.
func (s *assistantService) ResolveSession(ctx context.Context, clientID, sessionID, userID string) (entity.ChatSession, error) {
	requestID := contextPkg.GetRequestID(ctx)
	if clientID == "" {
		return entity.ChatSession{}, assistant.ErrClientIDRequired
	}

	repo, err := s.repo.NewClient(false)
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to create repository client")
		return entity.ChatSession{}, err
	}

	candidate := sessionID
	if candidate == "" {
		candidate, err = s.cache.GetActiveSession(ctx, clientID)
		if err != nil && !errors.Is(err, redis.ErrCacheMiss) {
			s.log.WithFields(logrus.Fields{
				"request_id": requestID,
				"client_id":  clientID,
				"error":      err.Error(),
			}).Warn("Active session cache unavailable")
		}
	}

	if candidate != "" {
		session, err := repo.Sessions.GetSession(ctx, candidate)
		switch {
		case err == nil:
			if session.IsActive && session.ClientID == clientID && s.fresh(session) {
				return session, nil
			}
		case !errors.Is(err, assistant.ErrSessionNotFound):
			return entity.ChatSession{}, err
		}
	}

	now := s.now()
	id, err := s.utils.NewULIDFromTimestamp(now)
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to generate session ID")
		return entity.ChatSession{}, err
	}

	session := entity.ChatSession{
		ID:           "session_" + id,
		UserID:       userID,
		ClientID:     clientID,
		IsActive:     true,
		CreatedAt:    now,
		LastActivity: now,
	}
	if err := repo.Sessions.CreateSession(ctx, session); err != nil {
		return entity.ChatSession{}, err
	}

	if err := s.cache.SetActiveSession(ctx, clientID, session.ID, s.config.SessionTTL); err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"client_id":  clientID,
			"error":      err.Error(),
		}).Warn("Failed to cache active session")
	}

	return session, nil
}

func (s *assistantService) fresh(session entity.ChatSession) bool {
	return s.now().Sub(session.LastActivity) <= s.config.SessionTTL
}

func (s *assistantService) OpenSession(ctx context.Context, sessionID string) (assistant.SessionHandle, error) {
	if sessionID == "" {
		return assistant.SessionHandle{}, assistant.ErrInvalidSession
	}

	repo, err := s.repo.NewClient(false)
	if err != nil {
		return assistant.SessionHandle{}, err
	}

	session, err := repo.Sessions.GetSession(ctx, sessionID)
	if err != nil {
		return assistant.SessionHandle{}, err
	}
	if !session.IsActive || !s.fresh(session) {
		return assistant.SessionHandle{}, assistant.ErrInvalidSession
	}

	return assistant.SessionHandle{ID: session.ID, UserID: session.UserID}, nil
}

func (s *assistantService) GetSessionHistory(ctx context.Context, sessionID string, limit int) ([]entity.ChatMessage, error) {
	if limit <= 0 || limit > maxHistoryLimit {
		limit = s.config.HistoryLimit
	}

	repo, err := s.repo.NewClient(false)
	if err != nil {
		return nil, err
	}

	if _, err := repo.Sessions.GetSession(ctx, sessionID); err != nil {
		return nil, err
	}

	messages, err := repo.Messages.GetRecentMessages(ctx, sessionID, limit)
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": contextPkg.GetRequestID(ctx),
			"session_id": sessionID,
			"error":      err.Error(),
		}).Error("Failed to load session history")
		return nil, assistant.ErrHistoryUnavailable
	}

	return messages, nil
}

// CleanupStaleSessions deactivates sessions idle for longer than SessionTTL.
func (s *assistantService) CleanupStaleSessions(ctx context.Context) (int64, error) {
	repo, err := s.repo.NewClient(false)
	if err != nil {
		return 0, err
	}

	closed, err := repo.Sessions.DeactivateStaleSessions(ctx, s.now().Add(-s.config.SessionTTL))
	if err != nil {
		return 0, err
	}
	metrics.StaleSessionsClosed.Add(float64(closed))

	s.log.WithFields(logrus.Fields{
		"closed": closed,
	}).Info("Stale chat sessions deactivated")

	return closed, nil
}
