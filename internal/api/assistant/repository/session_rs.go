package assistantRepository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"StokAsistan/internal/api/assistant"
	"StokAsistan/internal/entity"
	contextPkg "StokAsistan/pkg/context"

	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus"
)

type ChatSessionDB struct {
	ID           sql.NullString `db:"id"`
	UserID       sql.NullString `db:"user_id"`
	ClientID     sql.NullString `db:"client_id"`
	IsActive     sql.NullBool   `db:"is_active"`
	CreatedAt    time.Time      `db:"created_at"`
	LastActivity time.Time      `db:"last_activity"`
}

func (r *sessionRepository) CreateSession(ctx context.Context, session entity.ChatSession) error {
	requestID := contextPkg.GetRequestID(ctx)

	argsKV := map[string]interface{}{
		"id":            session.ID,
		"user_id":       sql.NullString{String: session.UserID, Valid: session.UserID != ""},
		"client_id":     session.ClientID,
		"is_active":     session.IsActive,
		"created_at":    session.CreatedAt,
		"last_activity": session.LastActivity,
	}

	query, args, err := sqlx.Named(queryCreateSession, argsKV)
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("CreateSession named query preparation err")
		return err
	}
	query = r.q.Rebind(query)

	if _, err := r.q.ExecContext(ctx, query, args...); err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("CreateSession execution err")
		return err
	}

	return nil
}

func (r *sessionRepository) GetSession(ctx context.Context, id string) (entity.ChatSession, error) {
	requestID := contextPkg.GetRequestID(ctx)
	var sessionDB ChatSessionDB

	query, args, err := sqlx.Named(queryGetSession, map[string]interface{}{"id": id})
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("GetSession named query preparation err")
		return entity.ChatSession{}, err
	}
	query = r.q.Rebind(query)

	if err := r.q.QueryRowxContext(ctx, query, args...).StructScan(&sessionDB); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			r.log.WithFields(logrus.Fields{
				"request_id": requestID,
				"session_id": id,
			}).Debug("GetSession no session found")
			return entity.ChatSession{}, assistant.ErrSessionNotFound
		}
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("GetSession execution err")
		return entity.ChatSession{}, err
	}

	return r.makeChatSession(sessionDB), nil
}

func (r *sessionRepository) TouchSession(ctx context.Context, id string, at time.Time) error {
	requestID := contextPkg.GetRequestID(ctx)

	argsKV := map[string]interface{}{
		"id":            id,
		"last_activity": at,
	}

	query, args, err := sqlx.Named(queryTouchSession, argsKV)
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("TouchSession named query preparation err")
		return err
	}
	query = r.q.Rebind(query)

	result, err := r.q.ExecContext(ctx, query, args...)
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("TouchSession execution err")
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"session_id": id,
		}).Warn("TouchSession no active session")
		return assistant.ErrSessionNotFound
	}

	return nil
}

func (r *sessionRepository) DeactivateStaleSessions(ctx context.Context, cutoff time.Time) (int64, error) {
	requestID := contextPkg.GetRequestID(ctx)

	query, args, err := sqlx.Named(queryDeactivateStaleSessions, map[string]interface{}{"cutoff": cutoff})
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("DeactivateStaleSessions named query preparation err")
		return 0, err
	}
	query = r.q.Rebind(query)

	result, err := r.q.ExecContext(ctx, query, args...)
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("DeactivateStaleSessions execution err")
		return 0, err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, err
	}

	r.log.WithFields(logrus.Fields{
		"request_id":    requestID,
		"rows_affected": rowsAffected,
	}).Info("Deactivated stale chat sessions")

	return rowsAffected, nil
}

func (r *sessionRepository) makeChatSession(sessionDB ChatSessionDB) entity.ChatSession {
	return entity.ChatSession{
		ID:           sessionDB.ID.String,
		UserID:       sessionDB.UserID.String,
		ClientID:     sessionDB.ClientID.String,
		IsActive:     sessionDB.IsActive.Bool,
		CreatedAt:    sessionDB.CreatedAt,
		LastActivity: sessionDB.LastActivity,
	}
}
