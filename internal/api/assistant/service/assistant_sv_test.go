package assistantService

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"StokAsistan/internal/api/assistant"
	"StokAsistan/internal/entity"
	"StokAsistan/pkg/nlp"
	"StokAsistan/pkg/oracle"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProcessNaturalLanguage_Replies(t *testing.T) {
	tests := []struct {
		name        string
		text        string
		oracle      string
		wantSuccess bool
		wantMessage string
	}{
		{
			name:        "greeting",
			text:        "Merhaba",
			wantSuccess: true,
			wantMessage: greetingReplies[0],
		},
		{
			name:        "thanks",
			text:        "çok teşekkürler",
			wantSuccess: true,
			wantMessage: thanksReplies[0],
		},
		{
			name:        "identity",
			text:        "Sen kimsin?",
			wantSuccess: true,
			wantMessage: identityReplies[0],
		},
		{
			name:        "help",
			text:        "yardım",
			wantSuccess: true,
			wantMessage: assistant.HelpText,
		},
		{
			name:        "blank input",
			text:        "   ",
			wantMessage: "Üzgünüm, bir hata oluştu: Geçersiz metin girişi",
		},
		{
			name:        "unknown text without oracle answer",
			text:        "bugün hava çok güzel",
			wantMessage: "Üzgünüm, ne yapmak istediğinizi anlayamadım.",
		},
		{
			name:        "unknown text answered by oracle",
			text:        "bugün hava çok güzel",
			oracle:      "Güzel havanın tadını çıkarın!",
			wantSuccess: true,
			wantMessage: "Güzel havanın tadını çıkarın!",
		},
		{
			name:        "missing supplier name",
			text:        "tedarikçi ekle",
			wantMessage: "Üzgünüm, bir hata oluştu: Tedarikçi adı gerekli",
		},
		{
			name:        "malformed learn command",
			text:        "öğren: selam",
			wantMessage: msgLearnFormat,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t)
			env.oracle.answer = tt.oracle

			res := env.svc.ProcessNaturalLanguage(context.Background(), env.openSession("session_1"), tt.text, env.caps())

			assert.Equal(t, tt.wantSuccess, res.Success)
			assert.Equal(t, tt.wantMessage, res.Message)
		})
	}
}

func TestProcessNaturalLanguage_CreateCategory(t *testing.T) {
	env := newTestEnv(t)
	session := env.openSession("session_1")

	res := env.svc.ProcessNaturalLanguage(context.Background(), session, "kategori ekle adı İçecekler", env.caps())

	assert.True(t, res.Success)
	assert.Equal(t, `"İçecekler" kategorisi eklendi.`, res.Message)
	require.NotNil(t, res.Action)
	assert.Equal(t, assistant.ActionDirect, res.Action.Type)
	assert.Equal(t, "category_create", res.Action.Operation)

	require.Len(t, env.inv.categories, 1)
	assert.Equal(t, "İçecekler", env.inv.categories[0].Name)
	assert.Equal(t, "İçecekler kategorisi", env.inv.categories[0].Description)
	assert.Equal(t, defaultCategoryIcon, env.inv.categories[0].Icon)

	require.Len(t, env.store.messages, 2)
	user, system := env.store.messages[0], env.store.messages[1]
	assert.Equal(t, entity.SenderUser, user.Sender)
	assert.Equal(t, "kategori ekle adı İçecekler", user.Message)
	assert.Equal(t, entity.SenderSystem, system.Sender)
	assert.Equal(t, res.Message, system.Message)
	assert.Equal(t, "category_create", system.CommandType)
	assert.Equal(t, "İçecekler", system.CommandParams["name"])
	assert.Equal(t, true, system.Context["success"])
	assert.Equal(t, 1, env.store.commits)
	assert.Equal(t, testNow, env.store.sessions["session_1"].LastActivity)
}

func TestProcessNaturalLanguage_CreateProductWithNewCategory(t *testing.T) {
	env := newTestEnv(t)

	res := env.svc.ProcessNaturalLanguage(context.Background(), env.openSession("session_1"),
		"ürün ekle adı Kola fiyatı 15 kategori İçecekler", env.caps())

	assert.True(t, res.Success)
	assert.Equal(t, `"Kola" ürünü eklendi.`, res.Message)

	require.Len(t, env.inv.categories, 1)
	require.Len(t, env.inv.products, 1)
	product := env.inv.products[0]
	assert.Equal(t, "Kola", product.Name)
	assert.Equal(t, 15.0, product.PriceSelling)
	assert.Equal(t, env.inv.categories[0].ID, product.CategoryID)
	assert.Equal(t, entity.StatusActive, product.Status)
}

func TestProcessNaturalLanguage_Navigation(t *testing.T) {
	env := newTestEnv(t)

	res := env.svc.ProcessNaturalLanguage(context.Background(), env.openSession("session_1"),
		"stok hareketleri sayfasına git", env.caps())

	assert.True(t, res.Success)
	assert.Equal(t, `"stok hareketleri" sayfasına yönlendiriliyorsunuz.`, res.Message)
	require.NotNil(t, res.Action)
	assert.Equal(t, assistant.ActionNavigation, res.Action.Type)
	assert.Equal(t, "/stock-movements", res.Action.Path)
	assert.Equal(t, []string{"/stock-movements"}, env.nav.paths)
}

func TestProcessNaturalLanguage_NavigationWithDativeTarget(t *testing.T) {
	tests := []struct {
		text string
		want string
	}{
		{text: "ana sayfaya git", want: "/"},
		{text: "anasayfaya git", want: "/"},
		{text: "ürünlere git", want: "/products"},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			env := newTestEnv(t)

			res := env.svc.ProcessNaturalLanguage(context.Background(), env.openSession("session_1"), tt.text, env.caps())

			assert.True(t, res.Success)
			require.NotNil(t, res.Action)
			assert.Equal(t, tt.want, res.Action.Path)
			assert.Equal(t, []string{tt.want}, env.nav.paths)
		})
	}
}

func TestProcessNaturalLanguage_NilCapabilities(t *testing.T) {
	env := newTestEnv(t)

	res := env.svc.ProcessNaturalLanguage(context.Background(), env.openSession("session_1"), "kategori ekle adı İçecekler", nil)

	assert.False(t, res.Success)
	assert.Equal(t, "Üzgünüm, bir hata oluştu: Geçersiz parametreler", res.Message)
}

// stalledGenerator never answers; it returns only when ctx is done.
type stalledGenerator struct {
	calls int32
}

func (g *stalledGenerator) GenerateText(ctx context.Context, prompt string) (string, error) {
	atomic.AddInt32(&g.calls, 1)
	<-ctx.Done()
	return "", ctx.Err()
}

type stalledIntentOracle struct{}

func (stalledIntentOracle) ClassifyIntent(ctx context.Context, text string) (*nlp.OracleIntent, error) {
	<-ctx.Done()
	return nil, ctx.Err()
}

func stalledOracle(env *testEnv, gen oracle.TextGenerator) oracle.IOracle {
	return oracle.New(env.svc.log, "test", gen, nil, oracle.Config{
		Timeout:     50 * time.Millisecond,
		MaxAttempts: 1,
		RatePerSec:  10,
		Burst:       1,
	})
}

func TestProcessNaturalLanguage_StalledOracleTimesOut(t *testing.T) {
	env := newTestEnv(t)
	gen := &stalledGenerator{}
	env.svc.oracle = stalledOracle(env, gen)

	start := time.Now()
	res := env.svc.ProcessNaturalLanguage(context.Background(), env.openSession("session_1"), "bugün hava çok güzel", env.caps())

	assert.Less(t, time.Since(start), 2*time.Second)
	assert.False(t, res.Success)
	assert.Equal(t, "Üzgünüm, ne yapmak istediğinizi anlayamadım.", res.Message)
	assert.Equal(t, int32(1), atomic.LoadInt32(&gen.calls))

	require.Len(t, env.store.messages, 2)
	assert.Equal(t, "bugün hava çok güzel", env.store.messages[0].Message)
	assert.Equal(t, res.Message, env.store.messages[1].Message)
}

func TestProcessNaturalLanguage_StalledIntentOracleFallsBackToPatterns(t *testing.T) {
	env := newTestEnv(t)
	env.svc.oracle = stalledOracle(env, &stalledGenerator{})
	env.svc.classifier = nlp.NewClassifier(env.svc.log, nlp.DefaultCatalog(),
		nlp.WithIntentOracle(stalledIntentOracle{}),
		nlp.WithOracleTimeout(50*time.Millisecond),
	)

	start := time.Now()
	res := env.svc.ProcessNaturalLanguage(context.Background(), env.openSession("session_1"), "ürünler sayfasına git", env.caps())

	assert.Less(t, time.Since(start), 2*time.Second)
	assert.True(t, res.Success)
	require.NotNil(t, res.Action)
	assert.Equal(t, "/products", res.Action.Path)
	assert.Equal(t, []string{"/products"}, env.nav.paths)
}

func TestProcessNaturalLanguage_RecoversFromPanic(t *testing.T) {
	env := newTestEnv(t)
	env.inv.panicMsg = "boom"

	res := env.svc.ProcessNaturalLanguage(context.Background(), env.openSession("session_1"), "kategori ekle adı İçecekler", env.caps())

	assert.False(t, res.Success)
	assert.Equal(t, "Üzgünüm, bir hata oluştu: boom", res.Message)
	assert.Empty(t, env.store.messages)
}

func TestProcessNaturalLanguage_WithoutSessionSkipsLogging(t *testing.T) {
	env := newTestEnv(t)

	res := env.svc.ProcessNaturalLanguage(context.Background(), assistant.SessionHandle{}, "Merhaba", env.caps())

	assert.True(t, res.Success)
	assert.Empty(t, env.store.messages)
	assert.Zero(t, env.store.commits)
}

func TestProcessNaturalLanguage_SaveFailureKeepsResult(t *testing.T) {
	env := newTestEnv(t)
	env.store.saveErr = errors.New("disk full")

	res := env.svc.ProcessNaturalLanguage(context.Background(), env.openSession("session_1"), "Merhaba", env.caps())

	assert.True(t, res.Success)
	assert.Equal(t, greetingReplies[0], res.Message)
	assert.Zero(t, env.store.commits)
}

func TestProcessNaturalLanguage_History(t *testing.T) {
	env := newTestEnv(t)
	session := env.openSession("session_1")
	ctx := context.Background()

	empty := env.svc.ProcessNaturalLanguage(ctx, session, "geçmiş", env.caps())
	assert.Equal(t, msgHistoryEmpty, empty.Message)

	env.store.messages = nil
	env.svc.ProcessNaturalLanguage(ctx, session, "Merhaba", env.caps())
	res := env.svc.ProcessNaturalLanguage(ctx, session, "son konuşmalarımı göster", env.caps())

	assert.True(t, res.Success)
	assert.Equal(t, "Son konuşmalar:\nuser: Merhaba\nsystem: "+greetingReplies[0], res.Message)
	assert.Equal(t, 10, env.store.historyLimit)
}

func TestProcessNaturalLanguage_HistoryFailure(t *testing.T) {
	env := newTestEnv(t)
	env.store.historyErr = errors.New("timeout")

	res := env.svc.ProcessNaturalLanguage(context.Background(), env.openSession("session_1"), "geçmiş", env.caps())

	assert.False(t, res.Success)
	assert.Equal(t, msgHistoryFailed, res.Message)
}

func TestProcessNaturalLanguage_LearnAndRewrite(t *testing.T) {
	env := newTestEnv(t)
	session := env.openSession("session_1")
	ctx := context.Background()

	_, err := env.svc.GetLearnedCommands(ctx)
	require.NoError(t, err)
	assert.True(t, env.mr.Exists("assistant:learned_commands"))

	learned := env.svc.ProcessNaturalLanguage(ctx, session, `öğren: "Stoklara bak" -> "ürünler sayfasına git"`, env.caps())

	assert.True(t, learned.Success)
	assert.Equal(t, `Yeni komut öğrenildi! "Stoklara bak" -> "ürünler sayfasına git"`, learned.Message)
	require.Len(t, env.store.learned, 1)
	cmd := env.store.learned[0]
	assert.Equal(t, "stoklara bak", cmd.TriggerPattern)
	assert.Equal(t, actionTypeRewrite, cmd.ActionType)
	assert.Equal(t, "ürünler sayfasına git", cmd.ActionParams["text"])
	assert.False(t, env.mr.Exists("assistant:learned_commands"))

	env.store.messages = nil
	res := env.svc.ProcessNaturalLanguage(ctx, session, "lütfen stoklara bak", env.caps())

	assert.True(t, res.Success)
	require.NotNil(t, res.Action)
	assert.Equal(t, "/products", res.Action.Path)
	assert.Equal(t, []string{"/products"}, env.nav.paths)
	assert.Equal(t, 1, env.store.usage[cmd.ID])

	require.Len(t, env.store.messages, 2)
	assert.Equal(t, "lütfen stoklara bak", env.store.messages[0].Message)
	assert.Equal(t, "navigation_goto", env.store.messages[1].CommandType)
}

func TestProcessNaturalLanguage_LearnedTriggerBeatsSmallTalk(t *testing.T) {
	env := newTestEnv(t)
	session := env.openSession("session_1")
	ctx := context.Background()

	greeting := env.svc.ProcessNaturalLanguage(ctx, session, "selam", env.caps())
	assert.Contains(t, greetingReplies, greeting.Message)

	learned := env.svc.ProcessNaturalLanguage(ctx, session, `öğren: "selam" -> "ürünler sayfasına git"`, env.caps())
	require.True(t, learned.Success)

	res := env.svc.ProcessNaturalLanguage(ctx, session, "Selam", env.caps())

	assert.True(t, res.Success)
	require.NotNil(t, res.Action)
	assert.Equal(t, "/products", res.Action.Path)
	assert.Equal(t, []string{"/products"}, env.nav.paths)
	assert.Equal(t, 1, env.store.usage[env.store.learned[0].ID])
}

func TestProcessNaturalLanguage_LearnedGreetingRewrite(t *testing.T) {
	env := newTestEnv(t)
	session := env.openSession("session_1")
	ctx := context.Background()

	learned := env.svc.ProcessNaturalLanguage(ctx, session, `öğren: "günaydın" -> "merhaba de"`, env.caps())
	require.True(t, learned.Success)

	res := env.svc.ProcessNaturalLanguage(ctx, session, "günaydın", env.caps())

	assert.True(t, res.Success)
	assert.Contains(t, greetingReplies, res.Message)
	assert.Empty(t, env.nav.paths)
}

func TestGetLearnedCommands_ReadsThroughCache(t *testing.T) {
	env := newTestEnv(t)
	env.store.learned = []entity.LearnedCommand{{
		ID:             "cmd-1",
		TriggerPattern: "selam ver",
		ActionType:     actionTypeRewrite,
		ActionParams:   map[string]interface{}{"text": "merhaba"},
	}}
	ctx := context.Background()

	first, err := env.svc.GetLearnedCommands(ctx)
	require.NoError(t, err)
	require.Len(t, first, 1)

	env.store.learned = nil
	cached, err := env.svc.GetLearnedCommands(ctx)
	require.NoError(t, err)
	require.Len(t, cached, 1)
	assert.Equal(t, "cmd-1", cached[0].ID)
	assert.Equal(t, "merhaba", cached[0].ActionParams["text"])
}

func TestPickReply(t *testing.T) {
	pool := []string{"a", "b", "c"}

	assert.Equal(t, "a", pickReply(0, pool))
	assert.Equal(t, "b", pickReply(4, pool))
	assert.Equal(t, "c", pickReply(-2, pool))
	assert.Equal(t, "", pickReply(1, nil))
}
