package assistantRepository

import (
	"context"
	"database/sql"
	"time"

	"StokAsistan/internal/entity"
	contextPkg "StokAsistan/pkg/context"

	"github.com/jmoiron/sqlx"
	jsoniter "github.com/json-iterator/go"
	"github.com/sirupsen/logrus"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

type ChatMessageDB struct {
	ID            sql.NullString `db:"id"`
	SessionID     sql.NullString `db:"session_id"`
	Sender        sql.NullString `db:"sender"`
	Message       sql.NullString `db:"message"`
	Context       sql.NullString `db:"context"`
	CommandType   sql.NullString `db:"command_type"`
	CommandParams sql.NullString `db:"command_params"`
	CreatedAt     time.Time      `db:"created_at"`
}

func marshalJSON(v map[string]interface{}) (sql.NullString, error) {
	if len(v) == 0 {
		return sql.NullString{}, nil
	}
	b, err := json.Marshal(v)
	if err != nil {
		return sql.NullString{}, err
	}
	return sql.NullString{String: string(b), Valid: true}, nil
}

func unmarshalJSON(s sql.NullString) map[string]interface{} {
	if !s.Valid || s.String == "" {
		return nil
	}
	var v map[string]interface{}
	if err := json.UnmarshalFromString(s.String, &v); err != nil {
		return nil
	}
	return v
}

func (r *messageRepository) SaveMessage(ctx context.Context, msg entity.ChatMessage) error {
	requestID := contextPkg.GetRequestID(ctx)

	msgContext, err := marshalJSON(msg.Context)
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to marshal message context")
		return err
	}

	params, err := marshalJSON(msg.CommandParams)
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to marshal command params")
		return err
	}

	argsKV := map[string]interface{}{
		"id":             msg.ID,
		"session_id":     msg.SessionID,
		"sender":         string(msg.Sender),
		"message":        msg.Message,
		"context":        msgContext,
		"command_type":   sql.NullString{String: msg.CommandType, Valid: msg.CommandType != ""},
		"command_params": params,
		"created_at":     msg.CreatedAt,
	}

	query, args, err := sqlx.Named(querySaveMessage, argsKV)
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("SaveMessage named query preparation err")
		return err
	}
	query = r.q.Rebind(query)

	if _, err := r.q.ExecContext(ctx, query, args...); err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("SaveMessage execution err")
		return err
	}

	return nil
}

// GetRecentMessages returns the newest limit messages in chronological order.
func (r *messageRepository) GetRecentMessages(ctx context.Context, sessionID string, limit int) ([]entity.ChatMessage, error) {
	requestID := contextPkg.GetRequestID(ctx)

	argsKV := map[string]interface{}{
		"session_id": sessionID,
		"limit":      limit,
	}

	query, args, err := sqlx.Named(queryGetRecentMessages, argsKV)
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("GetRecentMessages named query preparation err")
		return nil, err
	}
	query = r.q.Rebind(query)

	var rows []ChatMessageDB
	if err := r.q.SelectContext(ctx, &rows, query, args...); err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("GetRecentMessages execution err")
		return nil, err
	}

	messages := make([]entity.ChatMessage, len(rows))
	for i, row := range rows {
		messages[len(rows)-1-i] = r.makeChatMessage(row)
	}

	return messages, nil
}

func (r *messageRepository) makeChatMessage(msgDB ChatMessageDB) entity.ChatMessage {
	return entity.ChatMessage{
		ID:            msgDB.ID.String,
		SessionID:     msgDB.SessionID.String,
		Sender:        entity.Sender(msgDB.Sender.String),
		Message:       msgDB.Message.String,
		Context:       unmarshalJSON(msgDB.Context),
		CommandType:   msgDB.CommandType.String,
		CommandParams: unmarshalJSON(msgDB.CommandParams),
		CreatedAt:     msgDB.CreatedAt,
	}
}
