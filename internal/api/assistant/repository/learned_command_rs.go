package assistantRepository

import (
	"context"
	"database/sql"
	"time"

	"StokAsistan/internal/api/assistant"
	"StokAsistan/internal/entity"
	contextPkg "StokAsistan/pkg/context"

	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus"
)

type LearnedCommandDB struct {
	ID             sql.NullString `db:"id"`
	TriggerPattern sql.NullString `db:"trigger_pattern"`
	ActionType     sql.NullString `db:"action_type"`
	ActionParams   sql.NullString `db:"action_params"`
	Description    sql.NullString `db:"description"`
	UsageCount     sql.NullInt64  `db:"usage_count"`
	LastUsedAt     sql.NullTime   `db:"last_used_at"`
	CreatedAt      time.Time      `db:"created_at"`
}

func (r *learnedCommandRepository) SaveLearnedCommand(ctx context.Context, cmd entity.LearnedCommand) error {
	requestID := contextPkg.GetRequestID(ctx)

	params, err := marshalJSON(cmd.ActionParams)
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to marshal action params")
		return err
	}

	argsKV := map[string]interface{}{
		"id":              cmd.ID,
		"trigger_pattern": cmd.TriggerPattern,
		"action_type":     cmd.ActionType,
		"action_params":   params,
		"description":     cmd.Description,
		"created_at":      cmd.CreatedAt,
	}

	query, args, err := sqlx.Named(querySaveLearnedCommand, argsKV)
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("SaveLearnedCommand named query preparation err")
		return err
	}
	query = r.q.Rebind(query)

	if _, err := r.q.ExecContext(ctx, query, args...); err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("SaveLearnedCommand execution err")
		return err
	}

	return nil
}

func (r *learnedCommandRepository) GetLearnedCommands(ctx context.Context) ([]entity.LearnedCommand, error) {
	requestID := contextPkg.GetRequestID(ctx)

	var rows []LearnedCommandDB
	if err := r.q.SelectContext(ctx, &rows, queryGetLearnedCommands); err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("GetLearnedCommands execution err")
		return nil, err
	}

	commands := make([]entity.LearnedCommand, 0, len(rows))
	for _, row := range rows {
		commands = append(commands, r.makeLearnedCommand(row))
	}

	return commands, nil
}

func (r *learnedCommandRepository) IncrementUsage(ctx context.Context, id string, at time.Time) error {
	requestID := contextPkg.GetRequestID(ctx)

	argsKV := map[string]interface{}{
		"id":           id,
		"last_used_at": at,
	}

	query, args, err := sqlx.Named(queryIncrementUsage, argsKV)
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("IncrementUsage named query preparation err")
		return err
	}
	query = r.q.Rebind(query)

	result, err := r.q.ExecContext(ctx, query, args...)
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("IncrementUsage execution err")
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return assistant.ErrCommandNotFound
	}

	return nil
}

func (r *learnedCommandRepository) makeLearnedCommand(cmdDB LearnedCommandDB) entity.LearnedCommand {
	cmd := entity.LearnedCommand{
		ID:             cmdDB.ID.String,
		TriggerPattern: cmdDB.TriggerPattern.String,
		ActionType:     cmdDB.ActionType.String,
		ActionParams:   unmarshalJSON(cmdDB.ActionParams),
		Description:    cmdDB.Description.String,
		UsageCount:     int(cmdDB.UsageCount.Int64),
		CreatedAt:      cmdDB.CreatedAt,
	}
	if cmdDB.LastUsedAt.Valid {
		at := cmdDB.LastUsedAt.Time
		cmd.LastUsedAt = &at
	}
	return cmd
}
