package assistantService

import (
	"context"
	"fmt"
	"io"
	"testing"
	"time"

	"StokAsistan/internal/api/assistant"
	assistantRepository "StokAsistan/internal/api/assistant/repository"
	"StokAsistan/internal/entity"
	"StokAsistan/pkg/nlp"
	"StokAsistan/pkg/redis"
	"StokAsistan/pkg/utils"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

var testNow = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

// fakeStore backs every repository of a Client with in-memory slices.
type fakeStore struct {
	sessions map[string]entity.ChatSession
	messages []entity.ChatMessage
	learned  []entity.LearnedCommand

	usage        map[string]int
	historyLimit int
	cutoff       time.Time
	commits      int
	saveErr      error
	historyErr   error
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		sessions: map[string]entity.ChatSession{},
		usage:    map[string]int{},
	}
}

type fakeRepo struct {
	store *fakeStore
}

func (r *fakeRepo) NewClient(tx bool) (assistantRepository.Client, error) {
	return assistantRepository.Client{
		Sessions:        r.store,
		Messages:        r.store,
		LearnedCommands: r.store,
		Commit: func() error {
			r.store.commits++
			return nil
		},
		Rollback: func() error { return nil },
	}, nil
}

func (s *fakeStore) CreateSession(ctx context.Context, session entity.ChatSession) error {
	s.sessions[session.ID] = session
	return nil
}

func (s *fakeStore) GetSession(ctx context.Context, id string) (entity.ChatSession, error) {
	session, ok := s.sessions[id]
	if !ok {
		return entity.ChatSession{}, assistant.ErrSessionNotFound
	}
	return session, nil
}

func (s *fakeStore) TouchSession(ctx context.Context, id string, at time.Time) error {
	session, ok := s.sessions[id]
	if !ok || !session.IsActive {
		return assistant.ErrSessionNotFound
	}
	session.LastActivity = at
	s.sessions[id] = session
	return nil
}

func (s *fakeStore) DeactivateStaleSessions(ctx context.Context, cutoff time.Time) (int64, error) {
	s.cutoff = cutoff
	var closed int64
	for id, session := range s.sessions {
		if session.IsActive && session.LastActivity.Before(cutoff) {
			session.IsActive = false
			s.sessions[id] = session
			closed++
		}
	}
	return closed, nil
}

func (s *fakeStore) SaveMessage(ctx context.Context, msg entity.ChatMessage) error {
	if s.saveErr != nil {
		return s.saveErr
	}
	s.messages = append(s.messages, msg)
	return nil
}

func (s *fakeStore) GetRecentMessages(ctx context.Context, sessionID string, limit int) ([]entity.ChatMessage, error) {
	s.historyLimit = limit
	if s.historyErr != nil {
		return nil, s.historyErr
	}

	var out []entity.ChatMessage
	for _, msg := range s.messages {
		if msg.SessionID == sessionID {
			out = append(out, msg)
		}
	}
	if len(out) > limit {
		out = out[len(out)-limit:]
	}
	return out, nil
}

func (s *fakeStore) SaveLearnedCommand(ctx context.Context, cmd entity.LearnedCommand) error {
	s.learned = append(s.learned, cmd)
	return nil
}

func (s *fakeStore) GetLearnedCommands(ctx context.Context) ([]entity.LearnedCommand, error) {
	return s.learned, nil
}

func (s *fakeStore) IncrementUsage(ctx context.Context, id string, at time.Time) error {
	s.usage[id]++
	return nil
}

type fakeOracle struct {
	answer string
	asked  []string
}

func (o *fakeOracle) Ask(ctx context.Context, text string) (string, bool) {
	o.asked = append(o.asked, text)
	return o.answer, o.answer != ""
}

// fakeInventory matches names case-insensitively with Turkish folding.
type fakeInventory struct {
	categories []entity.Category
	subs       []entity.SubCategory
	products   []entity.Product
	suppliers  []entity.Supplier
	units      []entity.Unit
	movements  []entity.StockMovement

	productUpdates []entity.ProductUpdate
	deleted        []string

	nextID    int
	findErr   error
	mutateErr error
	panicMsg  string
}

func (f *fakeInventory) id(prefix string) string {
	f.nextID++
	return fmt.Sprintf("%s-%d", prefix, f.nextID)
}

func sameName(a, b string) bool {
	return nlp.Lower(a) == nlp.Lower(b)
}

func (f *fakeInventory) AddCategory(ctx context.Context, category entity.Category) (entity.Category, error) {
	if f.panicMsg != "" {
		panic(f.panicMsg)
	}
	if f.mutateErr != nil {
		return entity.Category{}, f.mutateErr
	}
	category.ID = f.id("cat")
	f.categories = append(f.categories, category)
	return category, nil
}

func (f *fakeInventory) UpdateCategory(ctx context.Context, id string, update entity.CategoryUpdate) (entity.Category, error) {
	for i, c := range f.categories {
		if c.ID != id {
			continue
		}
		if update.Name != nil {
			c.Name = *update.Name
		}
		if update.Description != nil {
			c.Description = *update.Description
		}
		f.categories[i] = c
		return c, nil
	}
	return entity.Category{}, fmt.Errorf("category %s missing", id)
}

func (f *fakeInventory) DeleteCategory(ctx context.Context, id string) error {
	f.deleted = append(f.deleted, id)
	return f.mutateErr
}

func (f *fakeInventory) FindCategoryByName(ctx context.Context, name string) (entity.Category, bool, error) {
	if f.findErr != nil {
		return entity.Category{}, false, f.findErr
	}
	for _, c := range f.categories {
		if sameName(c.Name, name) {
			return c, true, nil
		}
	}
	return entity.Category{}, false, nil
}

func (f *fakeInventory) AddSubCategory(ctx context.Context, parentID string, sub entity.SubCategory) (entity.SubCategory, error) {
	sub.ID = f.id("sub")
	sub.CategoryID = parentID
	f.subs = append(f.subs, sub)
	return sub, nil
}

func (f *fakeInventory) AddProduct(ctx context.Context, product entity.Product) (entity.Product, error) {
	if f.mutateErr != nil {
		return entity.Product{}, f.mutateErr
	}
	product.ID = f.id("prd")
	f.products = append(f.products, product)
	return product, nil
}

func (f *fakeInventory) UpdateProduct(ctx context.Context, id string, update entity.ProductUpdate) (entity.Product, error) {
	if f.mutateErr != nil {
		return entity.Product{}, f.mutateErr
	}
	f.productUpdates = append(f.productUpdates, update)
	for i, p := range f.products {
		if p.ID != id {
			continue
		}
		if update.Name != nil {
			p.Name = *update.Name
		}
		if update.PriceSelling != nil {
			p.PriceSelling = *update.PriceSelling
		}
		if update.StockWarehouse != nil {
			p.StockWarehouse = *update.StockWarehouse
		}
		if update.CategoryID != nil {
			p.CategoryID = *update.CategoryID
		}
		f.products[i] = p
		return p, nil
	}
	return entity.Product{}, fmt.Errorf("product %s missing", id)
}

func (f *fakeInventory) DeleteProduct(ctx context.Context, id string) error {
	f.deleted = append(f.deleted, id)
	return f.mutateErr
}

func (f *fakeInventory) FindProduct(ctx context.Context, identifier string) (entity.Product, bool, error) {
	if f.findErr != nil {
		return entity.Product{}, false, f.findErr
	}
	for _, p := range f.products {
		if p.ID == identifier || p.Barcode == identifier || sameName(p.Name, identifier) {
			return p, true, nil
		}
	}
	return entity.Product{}, false, nil
}

func (f *fakeInventory) AddSupplier(ctx context.Context, supplier entity.Supplier) (entity.Supplier, error) {
	supplier.ID = f.id("sup")
	f.suppliers = append(f.suppliers, supplier)
	return supplier, nil
}

func (f *fakeInventory) UpdateSupplier(ctx context.Context, id string, update entity.SupplierUpdate) (entity.Supplier, error) {
	for i, s := range f.suppliers {
		if s.ID != id {
			continue
		}
		if update.Phone != nil {
			s.Phone = *update.Phone
		}
		f.suppliers[i] = s
		return s, nil
	}
	return entity.Supplier{}, fmt.Errorf("supplier %s missing", id)
}

func (f *fakeInventory) DeleteSupplier(ctx context.Context, id string) error {
	f.deleted = append(f.deleted, id)
	return f.mutateErr
}

func (f *fakeInventory) FindSupplierByName(ctx context.Context, name string) (entity.Supplier, bool, error) {
	if f.findErr != nil {
		return entity.Supplier{}, false, f.findErr
	}
	for _, s := range f.suppliers {
		if sameName(s.Name, name) {
			return s, true, nil
		}
	}
	return entity.Supplier{}, false, nil
}

func (f *fakeInventory) AddUnit(ctx context.Context, unit entity.Unit) (entity.Unit, error) {
	unit.ID = f.id("unit")
	f.units = append(f.units, unit)
	return unit, nil
}

func (f *fakeInventory) UpdateUnit(ctx context.Context, id string, update entity.UnitUpdate) (entity.Unit, error) {
	for i, u := range f.units {
		if u.ID != id {
			continue
		}
		if update.ShortName != nil {
			u.ShortName = *update.ShortName
		}
		f.units[i] = u
		return u, nil
	}
	return entity.Unit{}, fmt.Errorf("unit %s missing", id)
}

func (f *fakeInventory) DeleteUnit(ctx context.Context, id string) error {
	f.deleted = append(f.deleted, id)
	return f.mutateErr
}

func (f *fakeInventory) FindUnitByName(ctx context.Context, name string) (entity.Unit, bool, error) {
	if f.findErr != nil {
		return entity.Unit{}, false, f.findErr
	}
	for _, u := range f.units {
		if sameName(u.Name, name) {
			return u, true, nil
		}
	}
	return entity.Unit{}, false, nil
}

func (f *fakeInventory) AddStockMovement(ctx context.Context, movement entity.StockMovement) (entity.StockMovement, error) {
	movement.ID = f.id("mov")
	f.movements = append(f.movements, movement)
	return movement, nil
}

type recordingNavigator struct {
	paths []string
}

func (n *recordingNavigator) Navigate(ctx context.Context, path string) {
	n.paths = append(n.paths, path)
}

type testEnv struct {
	svc    *assistantService
	store  *fakeStore
	oracle *fakeOracle
	inv    *fakeInventory
	nav    *recordingNavigator
	mr     *miniredis.Miniredis
}

func (e *testEnv) caps() assistant.Capabilities {
	return assistant.WithNavigator(e.inv, e.nav)
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	log := logrus.New()
	log.SetOutput(io.Discard)

	mr := miniredis.RunT(t)
	cache := redis.NewFromClient(goredis.NewClient(&goredis.Options{Addr: mr.Addr()}))

	store := newFakeStore()
	orc := &fakeOracle{}

	svc := NewAssistantService(
		log,
		&fakeRepo{store: store},
		cache,
		utils.New(),
		nlp.NewClassifier(log, nlp.DefaultCatalog()),
		nlp.NewExtractor(nlp.DefaultRules()),
		orc,
		&Config{HistoryLimit: 10, SessionTTL: 24 * time.Hour, LearnedCacheTTL: 5 * time.Minute},
	).(*assistantService)
	svc.seed = func() int64 { return 0 }
	svc.now = func() time.Time { return testNow }

	return &testEnv{
		svc:    svc,
		store:  store,
		oracle: orc,
		inv:    &fakeInventory{},
		nav:    &recordingNavigator{},
		mr:     mr,
	}
}

// openSession stores an active session owned by client-1 and returns its handle.
func (e *testEnv) openSession(id string) assistant.SessionHandle {
	e.store.sessions[id] = entity.ChatSession{
		ID:           id,
		ClientID:     "client-1",
		IsActive:     true,
		CreatedAt:    testNow.Add(-time.Hour),
		LastActivity: testNow.Add(-time.Minute),
	}
	return assistant.SessionHandle{ID: id}
}
