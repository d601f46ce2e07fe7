package assistantRepository

import (
	"context"
	"database/sql/driver"
	"errors"
	"io"
	"testing"
	"time"

	"StokAsistan/internal/api/assistant"
	"StokAsistan/internal/entity"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupMockDB(t *testing.T) (Client, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	log := logrus.New()
	log.SetOutput(io.Discard)

	client, err := New(sqlx.NewDb(db, "postgres"), log).NewClient(false)
	require.NoError(t, err)

	return client, mock
}

func TestSessionRepository_CreateSession(t *testing.T) {
	client, mock := setupMockDB(t)
	now := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)

	mock.ExpectExec(`INSERT INTO chat_sessions`).
		WithArgs("session_01", nil, "client-1", true, now, now).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := client.Sessions.CreateSession(context.Background(), entity.ChatSession{
		ID:           "session_01",
		ClientID:     "client-1",
		IsActive:     true,
		CreatedAt:    now,
		LastActivity: now,
	})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSessionRepository_GetSession(t *testing.T) {
	now := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	columns := []string{"id", "user_id", "client_id", "is_active", "created_at", "last_activity"}

	tests := []struct {
		name    string
		setup   func(mock sqlmock.Sqlmock)
		want    entity.ChatSession
		wantErr error
	}{
		{
			name: "found",
			setup: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`SELECT (.+) FROM chat_sessions`).
					WithArgs("session_01").
					WillReturnRows(sqlmock.NewRows(columns).
						AddRow("session_01", nil, "client-1", true, now, now))
			},
			want: entity.ChatSession{
				ID:           "session_01",
				ClientID:     "client-1",
				IsActive:     true,
				CreatedAt:    now,
				LastActivity: now,
			},
		},
		{
			name: "missing",
			setup: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`SELECT (.+) FROM chat_sessions`).
					WithArgs("session_01").
					WillReturnRows(sqlmock.NewRows(columns))
			},
			wantErr: assistant.ErrSessionNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, mock := setupMockDB(t)
			tt.setup(mock)

			got, err := client.Sessions.GetSession(context.Background(), "session_01")
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.want, got)
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestSessionRepository_TouchSession(t *testing.T) {
	now := time.Now()

	tests := []struct {
		name     string
		affected int64
		wantErr  error
	}{
		{name: "active", affected: 1},
		{name: "inactive or missing", affected: 0, wantErr: assistant.ErrSessionNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, mock := setupMockDB(t)
			mock.ExpectExec(`UPDATE chat_sessions SET last_activity`).
				WithArgs(now, "session_01").
				WillReturnResult(sqlmock.NewResult(0, tt.affected))

			err := client.Sessions.TouchSession(context.Background(), "session_01", now)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestSessionRepository_DeactivateStaleSessions(t *testing.T) {
	client, mock := setupMockDB(t)
	cutoff := time.Now().Add(-24 * time.Hour)

	mock.ExpectExec(`UPDATE chat_sessions\s+SET is_active = FALSE`).
		WithArgs(cutoff).
		WillReturnResult(sqlmock.NewResult(0, 3))

	n, err := client.Sessions.DeactivateStaleSessions(context.Background(), cutoff)
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMessageRepository_SaveMessage(t *testing.T) {
	now := time.Now()

	tests := []struct {
		name string
		msg  entity.ChatMessage
		args []driver.Value
	}{
		{
			name: "user message without command",
			msg: entity.ChatMessage{
				ID: "m1", SessionID: "s1", Sender: entity.SenderUser, Message: "merhaba", CreatedAt: now,
			},
			args: []driver.Value{"m1", "s1", "user", "merhaba", nil, nil, nil, now},
		},
		{
			name: "system message with command",
			msg: entity.ChatMessage{
				ID: "m2", SessionID: "s1", Sender: entity.SenderSystem, Message: "eklendi",
				CommandType:   "category_create",
				CommandParams: map[string]interface{}{"name": "İçecekler"},
				CreatedAt:     now,
			},
			args: []driver.Value{"m2", "s1", "system", "eklendi", nil, "category_create", `{"name":"İçecekler"}`, now},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, mock := setupMockDB(t)

			mock.ExpectExec(`INSERT INTO chat_messages`).
				WithArgs(tt.args...).
				WillReturnResult(sqlmock.NewResult(0, 1))

			require.NoError(t, client.Messages.SaveMessage(context.Background(), tt.msg))
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestMessageRepository_GetRecentMessages(t *testing.T) {
	client, mock := setupMockDB(t)
	t1 := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	t2 := t1.Add(time.Minute)

	columns := []string{"id", "session_id", "sender", "message", "context", "command_type", "command_params", "created_at"}
	mock.ExpectQuery(`SELECT (.+) FROM chat_messages`).
		WithArgs("s1", 10).
		WillReturnRows(sqlmock.NewRows(columns).
			AddRow("m2", "s1", "system", "Merhaba!", nil, "conversation_chat", nil, t2).
			AddRow("m1", "s1", "user", "selam", nil, nil, nil, t1))

	got, err := client.Messages.GetRecentMessages(context.Background(), "s1", 10)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "selam", got[0].Message)
	assert.Equal(t, entity.SenderUser, got[0].Sender)
	assert.Equal(t, "Merhaba!", got[1].Message)
	assert.Equal(t, "conversation_chat", got[1].CommandType)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLearnedCommandRepository(t *testing.T) {
	now := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)

	t.Run("save", func(t *testing.T) {
		client, mock := setupMockDB(t)
		mock.ExpectExec(`INSERT INTO learned_commands`).
			WithArgs("c1", "selam", "rewrite", `{"text":"merhaba de"}`, "desc", now).
			WillReturnResult(sqlmock.NewResult(0, 1))

		err := client.LearnedCommands.SaveLearnedCommand(context.Background(), entity.LearnedCommand{
			ID:             "c1",
			TriggerPattern: "selam",
			ActionType:     "rewrite",
			ActionParams:   map[string]interface{}{"text": "merhaba de"},
			Description:    "desc",
			CreatedAt:      now,
		})
		require.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("list", func(t *testing.T) {
		client, mock := setupMockDB(t)
		columns := []string{"id", "trigger_pattern", "action_type", "action_params", "description", "usage_count", "last_used_at", "created_at"}
		mock.ExpectQuery(`SELECT (.+) FROM learned_commands\s+ORDER BY usage_count DESC`).
			WillReturnRows(sqlmock.NewRows(columns).
				AddRow("c1", "selam", "rewrite", `{"text":"merhaba de"}`, "desc", 4, now, now).
				AddRow("c2", "stoklar", "rewrite", `{"text":"stok sayfasına git"}`, "desc", 0, nil, now))

		got, err := client.LearnedCommands.GetLearnedCommands(context.Background())
		require.NoError(t, err)
		require.Len(t, got, 2)
		assert.Equal(t, "merhaba de", got[0].ActionParams["text"])
		assert.Equal(t, 4, got[0].UsageCount)
		require.NotNil(t, got[0].LastUsedAt)
		assert.Nil(t, got[1].LastUsedAt)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("increment usage", func(t *testing.T) {
		client, mock := setupMockDB(t)
		mock.ExpectExec(`UPDATE learned_commands`).
			WithArgs(now, "c1").
			WillReturnResult(sqlmock.NewResult(0, 1))

		require.NoError(t, client.LearnedCommands.IncrementUsage(context.Background(), "c1", now))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("increment unknown", func(t *testing.T) {
		client, mock := setupMockDB(t)
		mock.ExpectExec(`UPDATE learned_commands`).
			WithArgs(now, "missing").
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := client.LearnedCommands.IncrementUsage(context.Background(), "missing", now)
		assert.ErrorIs(t, err, assistant.ErrCommandNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("list failure", func(t *testing.T) {
		client, mock := setupMockDB(t)
		mock.ExpectQuery(`SELECT (.+) FROM learned_commands`).WillReturnError(errors.New("db down"))

		_, err := client.LearnedCommands.GetLearnedCommands(context.Background())
		assert.Error(t, err)
	})
}
