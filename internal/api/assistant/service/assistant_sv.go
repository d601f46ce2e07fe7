package assistantService

import (
	"context"
	"fmt"
	"runtime/debug"
	"strings"
	"time"

	"StokAsistan/internal/api/assistant"
	"StokAsistan/internal/entity"
	contextPkg "StokAsistan/pkg/context"
	"StokAsistan/pkg/metrics"
	"StokAsistan/pkg/nlp"

	"github.com/sirupsen/logrus"
)

const (
	msgNotUnderstood = "Üzgünüm, ne yapmak istediğinizi anlayamadım."
	msgInvalidInput  = "Geçersiz metin girişi"
)

func errorReply(err error) assistant.ActionResult {
	return assistant.Fail("Üzgünüm, bir hata oluştu: " + err.Error())
}

func (s *assistantService) ProcessNaturalLanguage(
	ctx context.Context,
	session assistant.SessionHandle,
	text string,
	caps assistant.Capabilities,
) (result assistant.ActionResult) {
	requestID := contextPkg.GetRequestID(ctx)

	defer func() {
		if r := recover(); r != nil {
			s.log.WithFields(logrus.Fields{
				"request_id": requestID,
				"session_id": session.ID,
				"panic":      fmt.Sprint(r),
				"stack":      string(debug.Stack()),
			}).Error("ProcessNaturalLanguage recovered from panic")
			result = errorReply(fmt.Errorf("%v", r))
		}
	}()

	if strings.TrimSpace(text) == "" {
		return errorReply(assistant.NewActionError(assistant.ErrInvalidInput, msgInvalidInput))
	}

	turn := &exchange{session: session, input: text, receivedAt: s.now()}
	return s.process(ctx, turn, text, caps, true)
}

// exchange is one user turn: what was said, and how it was interpreted.
type exchange struct {
	session    assistant.SessionHandle
	input      string
	receivedAt time.Time
	intent     *nlp.Intent
	params     nlp.Params
}

// process runs the pipeline on text. A learned rewrite re-enters once with
// allowRewrite=false.
func (s *assistantService) process(
	ctx context.Context,
	turn *exchange,
	text string,
	caps assistant.Capabilities,
	allowRewrite bool,
) assistant.ActionResult {
	if res, ok := s.learn(ctx, text); ok {
		return s.reply(ctx, turn, res)
	}

	// Learned triggers take precedence over canned small talk and history.
	if allowRewrite {
		if rewritten, ok := s.rewrite(ctx, text); ok {
			return s.process(ctx, turn, rewritten, caps, false)
		}
	}

	if reply, ok := s.converseLocally(text); ok {
		return s.reply(ctx, turn, assistant.Succeed(reply))
	}

	if isHistoryQuery(text) {
		return s.reply(ctx, turn, s.historySummary(ctx, turn.session))
	}

	intent := s.classifier.Classify(ctx, text)
	if intent == nil {
		metrics.IntentMisses.Inc()
		if answer, ok := s.oracle.Ask(ctx, text); ok {
			return s.reply(ctx, turn, assistant.Succeed(answer))
		}
		return s.reply(ctx, turn, assistant.Fail(msgNotUnderstood))
	}
	metrics.IntentsClassified.WithLabelValues(string(intent.Domain), string(intent.Action), intent.Source).Inc()

	params := s.extractor.Extract(text, intent)
	turn.intent, turn.params = intent, params

	res, err := s.execute(ctx, intent, params, caps)
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": contextPkg.GetRequestID(ctx),
			"operation":  intent.Key(),
			"error":      err.Error(),
		}).Warn("Action execution failed")
		res = errorReply(err)
	}

	return s.reply(ctx, turn, res)
}

func (s *assistantService) reply(ctx context.Context, turn *exchange, res assistant.ActionResult) assistant.ActionResult {
	s.logExchange(ctx, turn, res)
	return res
}

// logExchange appends both sides of the turn. Failures are logged only.
func (s *assistantService) logExchange(ctx context.Context, turn *exchange, res assistant.ActionResult) {
	if turn.session.ID == "" {
		return
	}
	requestID := contextPkg.GetRequestID(ctx)

	repo, err := s.repo.NewClient(true)
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to create repository client")
		return
	}
	defer repo.Rollback()

	userMsg, err := s.newMessage(turn.session.ID, entity.SenderUser, turn.input, turn.receivedAt)
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to generate message ID")
		return
	}
	if turn.session.UserID != "" {
		userMsg.Context = map[string]interface{}{"user_id": turn.session.UserID}
	}

	systemMsg, err := s.newMessage(turn.session.ID, entity.SenderSystem, res.Message, s.now())
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to generate message ID")
		return
	}
	systemMsg.Context = map[string]interface{}{"success": res.Success}
	if res.Action != nil {
		systemMsg.Context["action"] = res.Action
	}
	if turn.intent != nil {
		systemMsg.CommandType = turn.intent.Key()
		systemMsg.CommandParams = turn.params
	}

	for _, msg := range []entity.ChatMessage{userMsg, systemMsg} {
		if err := repo.Messages.SaveMessage(ctx, msg); err != nil {
			s.log.WithFields(logrus.Fields{
				"request_id": requestID,
				"session_id": turn.session.ID,
				"error":      err.Error(),
			}).Warn("Failed to save chat message")
			return
		}
	}

	if err := repo.Sessions.TouchSession(ctx, turn.session.ID, s.now()); err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"session_id": turn.session.ID,
			"error":      err.Error(),
		}).Warn("Failed to update session activity")
	}

	if err := repo.Commit(); err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to commit chat messages")
	}
}

func (s *assistantService) newMessage(sessionID string, sender entity.Sender, text string, at time.Time) (entity.ChatMessage, error) {
	id, err := s.utils.NewULIDFromTimestamp(at)
	if err != nil {
		return entity.ChatMessage{}, err
	}

	return entity.ChatMessage{
		ID:        id,
		SessionID: sessionID,
		Sender:    sender,
		Message:   text,
		CreatedAt: at,
	}, nil
}
