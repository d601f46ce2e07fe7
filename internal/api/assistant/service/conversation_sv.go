package assistantService

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"StokAsistan/internal/api/assistant"
	"StokAsistan/internal/entity"
	contextPkg "StokAsistan/pkg/context"
	"StokAsistan/pkg/nlp"
	"StokAsistan/pkg/redis"

	"github.com/sirupsen/logrus"
)

var (
	greetingPattern = regexp.MustCompile(`merhaba|selam|naber|nasılsın`)
	thanksPattern   = regexp.MustCompile(`teşekkür|sağol|eyvallah`)
	identityPattern = regexp.MustCompile(`sen kimsin|kendini tanıt|kimsin sen`)

	learnMarker  = regexp.MustCompile(`(?i)(?:öğren|kaydet|learn|save):`)
	learnCommand = regexp.MustCompile(`(?i)(?:öğren|kaydet|learn|save):\s*["“]([^"“”]+)["”]\s*->\s*["“]([^"“”]+)["”]`)
)

var (
	greetingReplies = []string{
		"Merhaba! Bugün size nasıl yardımcı olabilirim?",
		"Selam! Hoş geldiniz. Size nasıl destek olabilirim?",
		"Merhabalar! Stok yönetimi konusunda size yardımcı olmak için buradayım.",
		"Selamlar! Sistemle ilgili her konuda yardımcı olmaktan mutluluk duyarım.",
	}
	thanksReplies = []string{
		"Rica ederim! Başka bir konuda yardıma ihtiyacınız olursa buradayım.",
		"Ne demek, her zaman yardımcı olmaktan mutluluk duyarım!",
		"Rica ederim! Başka sorularınız varsa çekinmeden sorabilirsiniz.",
		"Önemli değil! Size yardımcı olabildiysem ne mutlu bana.",
	}
	identityReplies = []string{
		"Ben bu stok yönetim sisteminin AI asistanıyım. Size yardımcı olmak için buradayım ve sistemle ilgili her türlü işlemi yapabilirim.",
		"Stok yönetimi konusunda size yardımcı olmak için tasarlanmış bir yapay zeka asistanıyım. Ürünler, kategoriler, stok hareketleri gibi konularda size destek olabilirim.",
		"Merhaba! Ben sistemin AI asistanıyım. Stok yönetimi, ürün takibi, raporlama gibi konularda size yardımcı oluyorum. Nasıl destek olabilirim?",
	}
)

const (
	actionTypeRewrite = "rewrite"

	msgLearnFormat   = `Öğrenme komutu doğru formatta değil. Örnek: öğren: "selam" -> "merhaba de"`
	msgHistoryEmpty  = "Henüz hiç konuşma geçmişi yok."
	msgHistoryFailed = "Konuşma geçmişi alınırken bir hata oluştu."
	msgLearnFailed   = "Komut kaydedilemedi"
)

// pickReply is deterministic in seed.
func pickReply(seed int64, pool []string) string {
	if len(pool) == 0 {
		return ""
	}
	i := seed % int64(len(pool))
	if i < 0 {
		i = -i
	}
	return pool[i]
}

func (s *assistantService) converseLocally(text string) (string, bool) {
	lower := nlp.Lower(text)

	switch {
	case greetingPattern.MatchString(lower):
		return pickReply(s.seed(), greetingReplies), true
	case thanksPattern.MatchString(lower):
		return pickReply(s.seed(), thanksReplies), true
	case identityPattern.MatchString(lower):
		return pickReply(s.seed(), identityReplies), true
	}
	return "", false
}

func isHistoryQuery(text string) bool {
	lower := nlp.Lower(text)
	for _, kw := range []string{"geçmiş", "son konuşma", "history"} {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}

// learn handles `öğren: "X" -> "Y"`. ok=false means the text carries no marker.
func (s *assistantService) learn(ctx context.Context, text string) (assistant.ActionResult, bool) {
	if !learnMarker.MatchString(text) {
		return assistant.ActionResult{}, false
	}

	m := learnCommand.FindStringSubmatch(text)
	if m == nil {
		return assistant.Fail(msgLearnFormat), true
	}
	trigger, action := strings.TrimSpace(m[1]), strings.TrimSpace(m[2])
	if trigger == "" || action == "" {
		return assistant.Fail(msgLearnFormat), true
	}

	requestID := contextPkg.GetRequestID(ctx)
	now := s.now()

	id, err := s.utils.NewULIDFromTimestamp(now)
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to generate learned command ID")
		return errorReply(assistant.WrapActionError(assistant.ErrMutationFailed, msgLearnFailed, err)), true
	}

	cmd := entity.LearnedCommand{
		ID:             id,
		TriggerPattern: nlp.Lower(trigger),
		ActionType:     actionTypeRewrite,
		ActionParams:   map[string]interface{}{"text": action},
		Description:    fmt.Sprintf(`"%s" komutu geldiğinde "%s" işlemini yap`, trigger, action),
		CreatedAt:      now,
	}

	repo, err := s.repo.NewClient(false)
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to create repository client")
		return errorReply(assistant.WrapActionError(assistant.ErrMutationFailed, msgLearnFailed, err)), true
	}

	if err := repo.LearnedCommands.SaveLearnedCommand(ctx, cmd); err != nil {
		return errorReply(assistant.WrapActionError(assistant.ErrMutationFailed, msgLearnFailed, err)), true
	}
	s.invalidateLearnedCommands(ctx)

	return assistant.Succeed(fmt.Sprintf(`Yeni komut öğrenildi! "%s" -> "%s"`, trigger, action)), true
}

// rewrite replaces text with the action of the first learned trigger it contains.
func (s *assistantService) rewrite(ctx context.Context, text string) (string, bool) {
	commands, err := s.GetLearnedCommands(ctx)
	if err != nil || len(commands) == 0 {
		return "", false
	}

	lower := nlp.Lower(text)
	for _, cmd := range commands {
		if cmd.ActionType != actionTypeRewrite || cmd.TriggerPattern == "" {
			continue
		}
		if !strings.Contains(lower, cmd.TriggerPattern) {
			continue
		}
		target, ok := cmd.ActionParams["text"].(string)
		if !ok || strings.TrimSpace(target) == "" {
			continue
		}

		s.markUsed(ctx, cmd)
		return target, true
	}

	return "", false
}

func (s *assistantService) markUsed(ctx context.Context, cmd entity.LearnedCommand) {
	repo, err := s.repo.NewClient(false)
	if err == nil {
		err = repo.LearnedCommands.IncrementUsage(ctx, cmd.ID, s.now())
	}
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": contextPkg.GetRequestID(ctx),
			"command_id": cmd.ID,
			"error":      err.Error(),
		}).Warn("Failed to record learned command usage")
		return
	}
	s.invalidateLearnedCommands(ctx)
}

func (s *assistantService) invalidateLearnedCommands(ctx context.Context) {
	if err := s.cache.InvalidateLearnedCommands(ctx); err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": contextPkg.GetRequestID(ctx),
			"error":      err.Error(),
		}).Warn("Failed to invalidate learned command cache")
	}
}

// GetLearnedCommands reads through the cache.
func (s *assistantService) GetLearnedCommands(ctx context.Context) ([]entity.LearnedCommand, error) {
	requestID := contextPkg.GetRequestID(ctx)

	commands, err := s.cache.GetLearnedCommands(ctx)
	if err == nil {
		return commands, nil
	}
	if !errors.Is(err, redis.ErrCacheMiss) {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Warn("Learned command cache unavailable")
	}

	repo, err := s.repo.NewClient(false)
	if err != nil {
		return nil, err
	}

	commands, err = repo.LearnedCommands.GetLearnedCommands(ctx)
	if err != nil {
		return nil, err
	}

	if err := s.cache.SetLearnedCommands(ctx, commands, s.config.LearnedCacheTTL); err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Warn("Failed to cache learned commands")
	}

	return commands, nil
}

func (s *assistantService) historySummary(ctx context.Context, session assistant.SessionHandle) assistant.ActionResult {
	if session.ID == "" {
		return assistant.Succeed(msgHistoryEmpty)
	}

	repo, err := s.repo.NewClient(false)
	if err != nil {
		return assistant.Fail(msgHistoryFailed)
	}

	messages, err := repo.Messages.GetRecentMessages(ctx, session.ID, s.config.HistoryLimit)
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": contextPkg.GetRequestID(ctx),
			"session_id": session.ID,
			"error":      err.Error(),
		}).Error("Failed to load conversation history")
		return assistant.Fail(msgHistoryFailed)
	}
	if len(messages) == 0 {
		return assistant.Succeed(msgHistoryEmpty)
	}

	lines := make([]string, 0, len(messages))
	for _, msg := range messages {
		lines = append(lines, fmt.Sprintf("%s: %s", msg.Sender, msg.Message))
	}

	return assistant.Succeed("Son konuşmalar:\n" + strings.Join(lines, "\n"))
}
