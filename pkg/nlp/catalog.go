package nlp

import (
	"regexp"
	"strings"
)

type Domain string

const (
	DomainNavigation    Domain = "navigation"
	DomainModal         Domain = "modal"
	DomainCategory      Domain = "category"
	DomainProduct       Domain = "product"
	DomainSupplier      Domain = "supplier"
	DomainUnit          Domain = "unit"
	DomainStockMovement Domain = "stockMovement"
	DomainHelp          Domain = "help"
	DomainConversation  Domain = "conversation"
)

type Action string

const (
	ActionGoto     Action = "goto"
	ActionOpen     Action = "open"
	ActionCreate   Action = "create"
	ActionUpdate   Action = "update"
	ActionDelete   Action = "delete"
	ActionStock    Action = "stock"
	ActionAddSub   Action = "addSub"
	ActionIn       Action = "in"
	ActionOut      Action = "out"
	ActionCount    Action = "count"
	ActionTransfer Action = "transfer"
	ActionShow     Action = "show"
	ActionChat     Action = "chat"
)

const (
	SourcePattern = "pattern"
	SourceOracle  = "oracle"
)

// Intent is the classified (domain, action) pair for one input.
// Target holds the first capture group of the matching pattern, if any.
type Intent struct {
	Domain      Domain  `json:"domain"`
	Action      Action  `json:"action"`
	MatchedText string  `json:"matched_text"`
	Target      string  `json:"target,omitempty"`
	Confidence  float64 `json:"confidence"`
	Source      string  `json:"source"`
}

// Key is the "<domain>_<action>" operation name.
func (i Intent) Key() string {
	return string(i.Domain) + "_" + string(i.Action)
}

// Resolver maps lowercased text to an action. ok=false means the entry cannot
// name an action for this text and the catalog walk moves on.
type Resolver func(lower string) (Action, bool)

type Entry struct {
	Domain   Domain
	Patterns []*regexp.Regexp
	Action   Action
	Resolve  Resolver
	// Actions lists every action this entry can produce.
	Actions []Action
}

func (e Entry) action(lower string) (Action, bool) {
	if e.Resolve != nil {
		return e.Resolve(lower)
	}
	return e.Action, e.Action != ""
}

// Catalog is an ordered, read-only table of domain entries. The first entry
// whose pattern matches wins, so specific domains must precede generic ones.
type Catalog struct {
	entries   []Entry
	supported map[Domain]map[Action]struct{}
}

func NewCatalog(entries ...Entry) *Catalog {
	supported := make(map[Domain]map[Action]struct{}, len(entries))
	for _, e := range entries {
		actions := e.Actions
		if len(actions) == 0 && e.Action != "" {
			actions = []Action{e.Action}
		}
		if supported[e.Domain] == nil {
			supported[e.Domain] = make(map[Action]struct{})
		}
		for _, a := range actions {
			supported[e.Domain][a] = struct{}{}
		}
	}

	return &Catalog{entries: entries, supported: supported}
}

func (c *Catalog) Entries() []Entry {
	return c.entries
}

func (c *Catalog) Supports(domain Domain, action Action) bool {
	actions, ok := c.supported[domain]
	if !ok {
		return false
	}
	_, ok = actions[action]
	return ok
}

// Match walks the catalog in order against already-lowercased text.
func (c *Catalog) Match(lower string) (*Intent, bool) {
	for _, entry := range c.entries {
		for _, pattern := range entry.Patterns {
			m := pattern.FindStringSubmatch(lower)
			if m == nil {
				continue
			}

			action, ok := entry.action(lower)
			if !ok || !c.Supports(entry.Domain, action) {
				break
			}

			intent := &Intent{
				Domain:      entry.Domain,
				Action:      action,
				MatchedText: m[0],
				Confidence:  1,
				Source:      SourcePattern,
			}
			if len(m) > 1 {
				intent.Target = strings.TrimSpace(m[1])
			}
			return intent, true
		}
	}

	return nil, false
}

var (
	createVerbs = []string{"ekle", "oluştur", "kaydet"}
	updateVerbs = []string{"güncelle", "düzenle", "değiştir"}
	deleteVerbs = []string{"sil", "kaldır"}

	crudActions = []Action{ActionCreate, ActionUpdate, ActionDelete}

	productStockPattern = regexp.MustCompile(`stok\s+(?:güncelle|düzenle|gir|çıkar)|ürün(?:ün)?ün\s+stok`)
)

// resolveCRUD prefers explicit verbs over "yeni", so "güncelle ... yeni adı X"
// stays an update.
func resolveCRUD(lower string) (Action, bool) {
	switch {
	case hasWord(lower, createVerbs...):
		return ActionCreate, true
	case hasWord(lower, updateVerbs...):
		return ActionUpdate, true
	case hasWord(lower, deleteVerbs...):
		return ActionDelete, true
	case hasWord(lower, "yeni"):
		return ActionCreate, true
	}
	return "", false
}

func resolveCategory(lower string) (Action, bool) {
	if strings.Contains(lower, "alt kategori") && hasWord(lower, append(createVerbs, "yeni")...) {
		return ActionAddSub, true
	}
	return resolveCRUD(lower)
}

func resolveProduct(lower string) (Action, bool) {
	if productStockPattern.MatchString(lower) {
		return ActionStock, true
	}
	return resolveCRUD(lower)
}

func resolveStockMovement(lower string) (Action, bool) {
	switch {
	case strings.Contains(lower, "giriş"):
		return ActionIn, true
	case strings.Contains(lower, "çıkış"):
		return ActionOut, true
	case containsAny(lower, "sayım", "kontrol"):
		return ActionCount, true
	case strings.Contains(lower, "transfer"):
		return ActionTransfer, true
	}
	return ActionCreate, true
}

func compile(patterns ...string) []*regexp.Regexp {
	out := make([]*regexp.Regexp, 0, len(patterns))
	for _, p := range patterns {
		out = append(out, regexp.MustCompile(strings.ReplaceAll(p, "{L}", letters)))
	}
	return out
}

// DefaultCatalog returns the Turkish command catalog in evaluation order:
// category, stockMovement, product, supplier, unit, help, modal, navigation, conversation.
func DefaultCatalog() *Catalog {
	return NewCatalog(
		Entry{
			Domain: DomainCategory,
			Patterns: compile(
				`alt\s+kategori`,
				`([{L}]+)\s+adında\s+kategori\s+(?:ekle|oluştur|kaydet)`,
				`kategori\s+(?:ekle|oluştur|kaydet)`,
				`yeni\s+kategori`,
				`kategori\s+(?:güncelle|düzenle|sil)`,
				`kategori(?:si)?nin\s+(?:adını|açıklamasını)\s+(?:.*\s+)?(?:değiştir|güncelle)`,
				`kategoriyi\s+(?:sil|kaldır)`,
				`([{L}0-9]+)\s+kategorisini\s+(?:sil|kaldır|güncelle|düzenle)`,
			),
			Resolve: resolveCategory,
			Actions: append([]Action{ActionAddSub}, crudActions...),
		},
		Entry{
			Domain: DomainStockMovement,
			Patterns: compile(
				`stok\s+(?:hareketi|girişi?|çıkışı?)\s+(?:ekle|oluştur|kaydet|yap)`,
				`yeni\s+stok\s+(?:hareketi|girişi?|çıkışı?)`,
				`stok\s+(?:sayımı|kontrolü)\s+(?:başlat|yap|oluştur)`,
				`(?:depoya|rafa)\s+(?:giriş|çıkış|transfer)`,
			),
			Resolve: resolveStockMovement,
			Actions: []Action{ActionIn, ActionOut, ActionCount, ActionTransfer, ActionCreate},
		},
		Entry{
			Domain: DomainProduct,
			Patterns: compile(
				`ürün\s+(?:ekle|oluştur|kaydet)`,
				`yeni\s+ürün`,
				`ürün\s+(?:güncelle|düzenle|sil)`,
				`ürün(?:ün)?ün\s+(?:bilgilerini|detaylarını|stok|fiyat)\S*\s+(?:.*\s+)?(?:güncelle|değiştir|yap)`,
				`ürünü\s+(?:sil|kaldır)`,
				`stok\s+(?:güncelle|düzenle|gir|çıkar)`,
				`([{L}0-9]+)\s+ürününü\s+(?:sil|kaldır|güncelle|düzenle)`,
			),
			Resolve: resolveProduct,
			Actions: append([]Action{ActionStock}, crudActions...),
		},
		Entry{
			Domain: DomainSupplier,
			Patterns: compile(
				`tedarikçi\s+(?:ekle|oluştur|kaydet)`,
				`yeni\s+tedarikçi`,
				`tedarikçi\s+(?:güncelle|düzenle|sil)`,
				`tedarikçinin\s+(?:bilgilerini|detaylarını)\s+(?:güncelle|değiştir)`,
				`tedarikçiyi\s+(?:sil|kaldır)`,
				`([{L}0-9]+)\s+tedarikçisini\s+(?:sil|kaldır|güncelle|düzenle)`,
			),
			Resolve: resolveCRUD,
			Actions: crudActions,
		},
		Entry{
			Domain: DomainUnit,
			Patterns: compile(
				`birim\s+(?:ekle|oluştur|kaydet)`,
				`yeni\s+birim`,
				`birim\s+(?:güncelle|düzenle|sil)`,
				`birimin\s+(?:adını|detaylarını)\s+(?:güncelle|değiştir)`,
				`birimi\s+(?:sil|kaldır)`,
				`([{L}0-9]+)\s+birimini\s+(?:sil|kaldır|güncelle|düzenle)`,
			),
			Resolve: resolveCRUD,
			Actions: crudActions,
		},
		Entry{
			Domain: DomainHelp,
			Patterns: compile(
				`(?:yardım|help|komutlar|neler yapabilirsin|nasıl kullanılır)`,
				`(?:ne yapabilirsin|özellikler|yetenekler)`,
			),
			Action: ActionShow,
		},
		Entry{
			Domain: DomainModal,
			Patterns: compile(
				`([{L}\s]+)\s+(?:modalı(?:nı)?|penceresi(?:ni)?|formu(?:nu)?)\s+(?:aç|göster)`,
				`(?:yeni|ekle|oluştur)\s+([{L}\s]+)`,
				`([{L}\s]+)\s+(?:ekle|oluştur)`,
			),
			Action: ActionOpen,
		},
		Entry{
			Domain: DomainNavigation,
			Patterns: compile(
				`(?:git|gidelim|aç|göster|gir)\s+([{L}\s]+)\s+(?:sayfası|sayfasına|bölümü|bölümüne|sekmesi|sekmesine)`,
				`([{L}\s]+)\s+(?:sayfasını|bölümünü|sekmesini)\s+(?:aç|göster)`,
				`([{L}\s]+)\s+(?:listesi(?:ne)?|sayfası(?:na)?|bölümü(?:ne)?)`,
				`([{L}\s]+)\s+(?:git|gidelim|aç|göster)`,
			),
			Action: ActionGoto,
		},
		Entry{
			Domain: DomainConversation,
			Patterns: compile(
				`(?:merhaba|selam|naber|nasılsın)`,
				`(?:teşekkür|sağol|eyvallah)`,
			),
			Action: ActionChat,
		},
	)
}
