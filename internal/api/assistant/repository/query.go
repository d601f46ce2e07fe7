package assistantRepository

const (
	queryCreateSession = `
		INSERT INTO chat_sessions (
			id, user_id, client_id, is_active, created_at, last_activity
		) VALUES (
			:id, :user_id, :client_id, :is_active, :created_at, :last_activity
		)
	`

	queryGetSession = `
		SELECT
			id, user_id, client_id, is_active, created_at, last_activity
		FROM chat_sessions
		WHERE id = :id
	`

	queryTouchSession = `
		UPDATE chat_sessions
		SET last_activity = :last_activity
		WHERE id = :id AND is_active = TRUE
	`

	queryDeactivateStaleSessions = `
		UPDATE chat_sessions
		SET is_active = FALSE
		WHERE is_active = TRUE AND last_activity < :cutoff
	`

	querySaveMessage = `
		INSERT INTO chat_messages (
			id, session_id, sender, message, context,
			command_type, command_params, created_at
		) VALUES (
			:id, :session_id, :sender, :message, :context,
			:command_type, :command_params, :created_at
		)
	`

	queryGetRecentMessages = `
		SELECT
			id, session_id, sender, message, context,
			command_type, command_params, created_at
		FROM chat_messages
		WHERE session_id = :session_id
		ORDER BY created_at DESC
		LIMIT :limit
	`

	querySaveLearnedCommand = `
		INSERT INTO learned_commands (
			id, trigger_pattern, action_type, action_params,
			description, usage_count, created_at
		) VALUES (
			:id, :trigger_pattern, :action_type, :action_params,
			:description, 0, :created_at
		)
	`

	queryGetLearnedCommands = `
		SELECT
			id, trigger_pattern, action_type, action_params,
			description, usage_count, last_used_at, created_at
		FROM learned_commands
		ORDER BY usage_count DESC, created_at ASC
	`

	queryIncrementUsage = `
		UPDATE learned_commands
		SET usage_count = usage_count + 1,
			last_used_at = :last_used_at
		WHERE id = :id
	`
)
