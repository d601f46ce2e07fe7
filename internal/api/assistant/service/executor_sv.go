package assistantService

import (
	"context"
	"fmt"
	"math"
	"strconv"

	"StokAsistan/internal/api/assistant"
	"StokAsistan/internal/entity"
	contextPkg "StokAsistan/pkg/context"
	"StokAsistan/pkg/metrics"
	"StokAsistan/pkg/nlp"
	"StokAsistan/pkg/utils"

	"github.com/sirupsen/logrus"
)

const defaultCategoryIcon = "📦"

// execute performs at most one mutation per call; find-or-create of a
// product's category is the only second write.
func (s *assistantService) execute(
	ctx context.Context,
	intent *nlp.Intent,
	params nlp.Params,
	caps assistant.Capabilities,
) (res assistant.ActionResult, err error) {
	operation := intent.Key()
	defer func() {
		outcome := metrics.OutcomeSuccess
		if err != nil {
			outcome = metrics.OutcomeFailure
		}
		metrics.ActionsExecuted.WithLabelValues(operation, outcome).Inc()
	}()

	if caps == nil {
		return assistant.ActionResult{}, assistant.NewActionError(assistant.ErrInvalidParams, "Geçersiz parametreler")
	}
	if params == nil {
		params = nlp.Params{}
	}

	switch intent.Domain {
	case nlp.DomainNavigation:
		return s.navigate(ctx, intent, caps)
	case nlp.DomainModal:
		return openModal(intent)
	case nlp.DomainHelp:
		return assistant.Succeed(assistant.HelpText), nil
	case nlp.DomainConversation:
		return assistant.Succeed(pickReply(s.seed(), greetingReplies)), nil
	}

	ex := &executor{svc: s, ctx: ctx, caps: caps, params: params, intent: intent}

	switch operation {
	case "category_create":
		return ex.createCategory()
	case "category_update":
		return ex.updateCategory()
	case "category_delete":
		return ex.deleteCategory()
	case "category_addSub":
		return ex.addSubCategory()
	case "product_create":
		return ex.createProduct()
	case "product_update":
		return ex.updateProduct()
	case "product_delete":
		return ex.deleteProduct()
	case "product_stock":
		return ex.updateStock()
	case "supplier_create":
		return ex.createSupplier()
	case "supplier_update":
		return ex.updateSupplier()
	case "supplier_delete":
		return ex.deleteSupplier()
	case "unit_create":
		return ex.createUnit()
	case "unit_update":
		return ex.updateUnit()
	case "unit_delete":
		return ex.deleteUnit()
	case "stockMovement_in", "stockMovement_out", "stockMovement_transfer", "stockMovement_create":
		return ex.addStockMovement()
	case "stockMovement_count":
		return assistant.ActionResult{
			Success: true,
			Message: "Stok sayım penceresi açılıyor.",
			Action:  &assistant.Action{Type: assistant.ActionModal, ModalType: assistant.ModalStockCounting},
		}, nil
	}

	return assistant.ActionResult{}, assistant.NewActionError(assistant.ErrUnknownAction, "Bilinmeyen işlem: "+operation)
}

func (s *assistantService) navigate(ctx context.Context, intent *nlp.Intent, caps assistant.Capabilities) (assistant.ActionResult, error) {
	path, ok := assistant.ResolvePath(intent.Target)
	if !ok {
		return assistant.ActionResult{}, assistant.NewActionError(assistant.ErrPageNotFound,
			fmt.Sprintf(`"%s" sayfası bulunamadı`, intent.Target))
	}

	caps.Navigate(ctx, path)

	return assistant.ActionResult{
		Success: true,
		Message: fmt.Sprintf(`"%s" sayfasına yönlendiriliyorsunuz.`, intent.Target),
		Action:  &assistant.Action{Type: assistant.ActionNavigation, Path: path},
	}, nil
}

func openModal(intent *nlp.Intent) (assistant.ActionResult, error) {
	modalType, ok := assistant.ResolveModal(intent.Target)
	if !ok {
		return assistant.ActionResult{}, assistant.NewActionError(assistant.ErrModalNotFound,
			fmt.Sprintf(`"%s" için pencere bulunamadı`, intent.Target))
	}

	return assistant.ActionResult{
		Success: true,
		Message: fmt.Sprintf(`"%s" penceresi açılıyor.`, intent.Target),
		Action:  &assistant.Action{Type: assistant.ActionModal, ModalType: modalType},
	}, nil
}

// executor holds the state of one direct action.
type executor struct {
	svc    *assistantService
	ctx    context.Context
	caps   assistant.Capabilities
	params nlp.Params
	intent *nlp.Intent
}

func (e *executor) done(message string, data interface{}) (assistant.ActionResult, error) {
	return assistant.ActionResult{
		Success: true,
		Message: message,
		Action:  &assistant.Action{Type: assistant.ActionDirect, Operation: e.intent.Key()},
		Data:    data,
	}, nil
}

func (e *executor) require(field, message string) (string, error) {
	v, ok := e.params.String(field)
	if !ok {
		return "", assistant.NewActionError(assistant.ErrMissingField, message)
	}
	return v, nil
}

// ref is the entity an update or delete targets.
func (e *executor) ref(message string) (string, error) {
	if v, ok := e.params.String("ref"); ok {
		return v, nil
	}
	if v, ok := e.params.String("name"); ok {
		return v, nil
	}
	return "", assistant.NewActionError(assistant.ErrMissingField, message)
}

func (e *executor) mutationFailed(message string, err error) error {
	e.svc.log.WithFields(logrus.Fields{
		"request_id": contextPkg.GetRequestID(e.ctx),
		"operation":  e.intent.Key(),
		"error":      err.Error(),
	}).Error("Capability call failed")
	return assistant.WrapActionError(assistant.ErrMutationFailed, message, err)
}

func (e *executor) lookupFailed(message string, err error) error {
	e.svc.log.WithFields(logrus.Fields{
		"request_id": contextPkg.GetRequestID(e.ctx),
		"operation":  e.intent.Key(),
		"error":      err.Error(),
	}).Error("Capability lookup failed")
	return assistant.WrapActionError(assistant.ErrLookupFailed, message, err)
}

// hasAny reports whether the extractor produced at least one of fields.
func (e *executor) hasAny(fields ...string) bool {
	for _, field := range fields {
		if e.params.Has(field) {
			return true
		}
	}
	return false
}

func errNothingToUpdate() error {
	return assistant.NewActionError(assistant.ErrInvalidParams, "Güncellenecek bilgi bulunamadı")
}

func optional(p nlp.Params, field string) *string {
	if v, ok := p.String(field); ok {
		return &v
	}
	return nil
}

func (e *executor) findCategory(name string) (entity.Category, error) {
	category, ok, err := e.caps.FindCategoryByName(e.ctx, name)
	if err != nil {
		return entity.Category{}, e.lookupFailed("Kategori aranırken bir hata oluştu", err)
	}
	if !ok {
		return entity.Category{}, assistant.NewActionError(assistant.ErrNotFound,
			fmt.Sprintf(`"%s" isimli kategori bulunamadı.`, name))
	}
	return category, nil
}

func (e *executor) createCategory() (assistant.ActionResult, error) {
	name, err := e.require("name", "Kategori adı gerekli")
	if err != nil {
		return assistant.ActionResult{}, err
	}

	description, ok := e.params.String("description")
	if !ok {
		description = fmt.Sprintf("%s kategorisi", name)
	}

	category, err := e.caps.AddCategory(e.ctx, entity.Category{
		Name:        name,
		Description: description,
		Icon:        defaultCategoryIcon,
	})
	if err != nil {
		return assistant.ActionResult{}, e.mutationFailed("Kategori kaydedilemedi", err)
	}

	return e.done(fmt.Sprintf(`"%s" kategorisi eklendi.`, name), category)
}

func (e *executor) updateCategory() (assistant.ActionResult, error) {
	ref, err := e.ref("Güncellenecek kategori adı gerekli")
	if err != nil {
		return assistant.ActionResult{}, err
	}

	update := entity.CategoryUpdate{
		Name:        optional(e.params, "new_name"),
		Description: optional(e.params, "description"),
	}
	if !e.hasAny("new_name", "description") {
		return assistant.ActionResult{}, errNothingToUpdate()
	}

	category, err := e.findCategory(ref)
	if err != nil {
		return assistant.ActionResult{}, err
	}

	updated, err := e.caps.UpdateCategory(e.ctx, category.ID, update)
	if err != nil {
		return assistant.ActionResult{}, e.mutationFailed("Kategori güncellenemedi", err)
	}

	return e.done(fmt.Sprintf(`"%s" kategorisi güncellendi.`, category.Name), updated)
}

func (e *executor) deleteCategory() (assistant.ActionResult, error) {
	ref, err := e.ref("Silinecek kategori adı gerekli")
	if err != nil {
		return assistant.ActionResult{}, err
	}

	category, err := e.findCategory(ref)
	if err != nil {
		return assistant.ActionResult{}, err
	}

	if err := e.caps.DeleteCategory(e.ctx, category.ID); err != nil {
		return assistant.ActionResult{}, e.mutationFailed("Kategori silinemedi", err)
	}

	return e.done(fmt.Sprintf(`"%s" kategorisi silindi.`, category.Name), nil)
}

func (e *executor) addSubCategory() (assistant.ActionResult, error) {
	parentName, okParent := e.params.String("parent_name")
	subName, okSub := e.params.String("sub_name")
	if !okParent || !okSub {
		return assistant.ActionResult{}, assistant.NewActionError(assistant.ErrMissingField, "Ana kategori ve alt kategori adı gerekli")
	}

	parent, err := e.findCategory(parentName)
	if err != nil {
		return assistant.ActionResult{}, err
	}

	sub, err := e.caps.AddSubCategory(e.ctx, parent.ID, entity.SubCategory{
		CategoryID:  parent.ID,
		Name:        subName,
		Description: fmt.Sprintf("%s alt kategorisi", subName),
	})
	if err != nil {
		return assistant.ActionResult{}, e.mutationFailed("Alt kategori kaydedilemedi", err)
	}

	return e.done(fmt.Sprintf(`"%s" kategorisine "%s" alt kategorisi başarıyla eklendi.`, parent.Name, subName), sub)
}

// findOrCreateCategory matches case-insensitively and creates a category
// with the default icon on a miss. Repeating the call is not idempotent.
func (e *executor) findOrCreateCategory(name string) (entity.Category, error) {
	category, ok, err := e.caps.FindCategoryByName(e.ctx, name)
	if err != nil {
		return entity.Category{}, e.lookupFailed("Kategori aranırken bir hata oluştu", err)
	}
	if ok {
		return category, nil
	}

	category, err = e.caps.AddCategory(e.ctx, entity.Category{
		Name:        name,
		Description: fmt.Sprintf("%s kategorisi", name),
		Icon:        defaultCategoryIcon,
	})
	if err != nil {
		return entity.Category{}, e.mutationFailed("Kategori kaydedilemedi", err)
	}
	return category, nil
}

func (e *executor) findProduct(identifier string) (entity.Product, error) {
	product, ok, err := e.caps.FindProduct(e.ctx, identifier)
	if err != nil {
		return entity.Product{}, e.lookupFailed("Ürün aranırken bir hata oluştu", err)
	}
	if !ok {
		return entity.Product{}, assistant.NewActionError(assistant.ErrNotFound, "Ürün bulunamadı")
	}
	return product, nil
}

func (e *executor) createProduct() (assistant.ActionResult, error) {
	name, err := e.require("name", "Ürün adı gerekli")
	if err != nil {
		return assistant.ActionResult{}, err
	}

	product := entity.Product{
		Name:   name,
		Status: entity.StatusActive,
	}
	product.Barcode, _ = e.params.String("barcode")
	if len(product.Barcode) == 13 && !utils.ValidEAN13(product.Barcode) {
		return assistant.ActionResult{}, assistant.NewActionError(assistant.ErrInvalidParams,
			fmt.Sprintf("Geçersiz barkod: %s", product.Barcode))
	}
	product.Description, _ = e.params.String("description")
	product.PriceSelling, _ = e.params.Float("price_selling")
	product.StockWarehouse, _ = e.params.Int("stock_warehouse")

	if categoryName, ok := e.params.String("category_name"); ok {
		category, err := e.findOrCreateCategory(categoryName)
		if err != nil {
			return assistant.ActionResult{}, err
		}
		product.CategoryID = category.ID
	}

	created, err := e.caps.AddProduct(e.ctx, product)
	if err != nil {
		return assistant.ActionResult{}, e.mutationFailed("Ürün kaydedilemedi", err)
	}

	return e.done(fmt.Sprintf(`"%s" ürünü eklendi.`, name), created)
}

func (e *executor) updateProduct() (assistant.ActionResult, error) {
	ref, err := e.ref("Güncellenecek ürün adı gerekli")
	if err != nil {
		return assistant.ActionResult{}, err
	}

	update := entity.ProductUpdate{
		Name:        optional(e.params, "new_name"),
		Description: optional(e.params, "description"),
	}
	if price, ok := e.params.Float("price_selling"); ok {
		update.PriceSelling = &price
	}
	if stock, ok := e.params.Int("stock_warehouse"); ok {
		update.StockWarehouse = &stock
	}
	categoryName, hasCategory := e.params.String("category_name")

	if !e.hasAny("new_name", "description", "price_selling", "stock_warehouse", "category_name") {
		return assistant.ActionResult{}, errNothingToUpdate()
	}

	product, err := e.findProduct(ref)
	if err != nil {
		return assistant.ActionResult{}, err
	}

	if hasCategory {
		category, err := e.findOrCreateCategory(categoryName)
		if err != nil {
			return assistant.ActionResult{}, err
		}
		update.CategoryID = &category.ID
	}

	updated, err := e.caps.UpdateProduct(e.ctx, product.ID, update)
	if err != nil {
		return assistant.ActionResult{}, e.mutationFailed("Ürün güncellenemedi", err)
	}

	return e.done(fmt.Sprintf(`"%s" ürünü güncellendi.`, product.Name), updated)
}

func (e *executor) deleteProduct() (assistant.ActionResult, error) {
	ref, err := e.ref("Silinecek ürün adı gerekli")
	if err != nil {
		return assistant.ActionResult{}, err
	}

	product, err := e.findProduct(ref)
	if err != nil {
		return assistant.ActionResult{}, err
	}

	if err := e.caps.DeleteProduct(e.ctx, product.ID); err != nil {
		return assistant.ActionResult{}, e.mutationFailed("Ürün silinemedi", err)
	}

	return e.done(fmt.Sprintf(`"%s" ürünü silindi.`, product.Name), nil)
}

func (e *executor) updateStock() (assistant.ActionResult, error) {
	identifier, ok := e.params.String("name")
	if !ok {
		identifier, ok = e.params.String("barcode")
	}
	if !ok {
		identifier, ok = e.params.String("ref")
	}
	if !ok {
		return assistant.ActionResult{}, assistant.NewActionError(assistant.ErrMissingField, "Ürün adı veya barkodu gerekli")
	}

	stock, ok := e.params.Int("stock_warehouse")
	if !ok {
		return assistant.ActionResult{}, assistant.NewActionError(assistant.ErrMissingField, "Stok miktarı gerekli")
	}

	product, err := e.findProduct(identifier)
	if err != nil {
		return assistant.ActionResult{}, err
	}

	updated, err := e.caps.UpdateProduct(e.ctx, product.ID, entity.ProductUpdate{StockWarehouse: &stock})
	if err != nil {
		return assistant.ActionResult{}, e.mutationFailed("Stok güncellenemedi", err)
	}

	return e.done(fmt.Sprintf(`"%s" ürününün stoğu %d olarak güncellendi.`, product.Name, stock), updated)
}

func (e *executor) findSupplier(name string) (entity.Supplier, error) {
	supplier, ok, err := e.caps.FindSupplierByName(e.ctx, name)
	if err != nil {
		return entity.Supplier{}, e.lookupFailed("Tedarikçi aranırken bir hata oluştu", err)
	}
	if !ok {
		return entity.Supplier{}, assistant.NewActionError(assistant.ErrNotFound,
			fmt.Sprintf(`"%s" isimli tedarikçi bulunamadı.`, name))
	}
	return supplier, nil
}

func (e *executor) createSupplier() (assistant.ActionResult, error) {
	name, err := e.require("name", "Tedarikçi adı gerekli")
	if err != nil {
		return assistant.ActionResult{}, err
	}

	supplier := entity.Supplier{Name: name, Status: entity.StatusActive}
	supplier.Phone, _ = e.params.String("phone")
	supplier.Email, _ = e.params.String("email")
	supplier.ContactPerson, _ = e.params.String("contact_person")

	created, err := e.caps.AddSupplier(e.ctx, supplier)
	if err != nil {
		return assistant.ActionResult{}, e.mutationFailed("Tedarikçi kaydedilemedi", err)
	}

	return e.done(fmt.Sprintf(`"%s" tedarikçisi eklendi.`, name), created)
}

func (e *executor) updateSupplier() (assistant.ActionResult, error) {
	ref, err := e.ref("Güncellenecek tedarikçi adı gerekli")
	if err != nil {
		return assistant.ActionResult{}, err
	}

	update := entity.SupplierUpdate{
		Name:          optional(e.params, "new_name"),
		Phone:         optional(e.params, "phone"),
		Email:         optional(e.params, "email"),
		ContactPerson: optional(e.params, "contact_person"),
	}
	if !e.hasAny("new_name", "phone", "email", "contact_person") {
		return assistant.ActionResult{}, errNothingToUpdate()
	}

	supplier, err := e.findSupplier(ref)
	if err != nil {
		return assistant.ActionResult{}, err
	}

	updated, err := e.caps.UpdateSupplier(e.ctx, supplier.ID, update)
	if err != nil {
		return assistant.ActionResult{}, e.mutationFailed("Tedarikçi güncellenemedi", err)
	}

	return e.done(fmt.Sprintf(`"%s" tedarikçisi güncellendi.`, supplier.Name), updated)
}

func (e *executor) deleteSupplier() (assistant.ActionResult, error) {
	ref, err := e.ref("Silinecek tedarikçi adı gerekli")
	if err != nil {
		return assistant.ActionResult{}, err
	}

	supplier, err := e.findSupplier(ref)
	if err != nil {
		return assistant.ActionResult{}, err
	}

	if err := e.caps.DeleteSupplier(e.ctx, supplier.ID); err != nil {
		return assistant.ActionResult{}, e.mutationFailed("Tedarikçi silinemedi", err)
	}

	return e.done(fmt.Sprintf(`"%s" tedarikçisi silindi.`, supplier.Name), nil)
}

func (e *executor) findUnit(name string) (entity.Unit, error) {
	unit, ok, err := e.caps.FindUnitByName(e.ctx, name)
	if err != nil {
		return entity.Unit{}, e.lookupFailed("Birim aranırken bir hata oluştu", err)
	}
	if !ok {
		return entity.Unit{}, assistant.NewActionError(assistant.ErrNotFound,
			fmt.Sprintf(`"%s" isimli birim bulunamadı.`, name))
	}
	return unit, nil
}

func (e *executor) createUnit() (assistant.ActionResult, error) {
	name, err := e.require("name", "Birim adı gerekli")
	if err != nil {
		return assistant.ActionResult{}, err
	}

	unit := entity.Unit{Name: name, Status: entity.StatusActive}
	unit.ShortName, _ = e.params.String("short_name")

	created, err := e.caps.AddUnit(e.ctx, unit)
	if err != nil {
		return assistant.ActionResult{}, e.mutationFailed("Birim kaydedilemedi", err)
	}

	return e.done(fmt.Sprintf(`"%s" birimi eklendi.`, name), created)
}

func (e *executor) updateUnit() (assistant.ActionResult, error) {
	ref, err := e.ref("Güncellenecek birim adı gerekli")
	if err != nil {
		return assistant.ActionResult{}, err
	}

	update := entity.UnitUpdate{
		Name:      optional(e.params, "new_name"),
		ShortName: optional(e.params, "short_name"),
	}
	if !e.hasAny("new_name", "short_name") {
		return assistant.ActionResult{}, errNothingToUpdate()
	}

	unit, err := e.findUnit(ref)
	if err != nil {
		return assistant.ActionResult{}, err
	}

	updated, err := e.caps.UpdateUnit(e.ctx, unit.ID, update)
	if err != nil {
		return assistant.ActionResult{}, e.mutationFailed("Birim güncellenemedi", err)
	}

	return e.done(fmt.Sprintf(`"%s" birimi güncellendi.`, unit.Name), updated)
}

func (e *executor) deleteUnit() (assistant.ActionResult, error) {
	ref, err := e.ref("Silinecek birim adı gerekli")
	if err != nil {
		return assistant.ActionResult{}, err
	}

	unit, err := e.findUnit(ref)
	if err != nil {
		return assistant.ActionResult{}, err
	}

	if err := e.caps.DeleteUnit(e.ctx, unit.ID); err != nil {
		return assistant.ActionResult{}, e.mutationFailed("Birim silinemedi", err)
	}

	return e.done(fmt.Sprintf(`"%s" birimi silindi.`, unit.Name), nil)
}

var movementLabels = map[entity.MovementType]string{
	entity.MovementIn:       "stok girişi",
	entity.MovementOut:      "stok çıkışı",
	entity.MovementTransfer: "stok transferi",
}

func (e *executor) addStockMovement() (assistant.ActionResult, error) {
	name, err := e.require("name", "Ürün adı gerekli")
	if err != nil {
		return assistant.ActionResult{}, err
	}

	quantity, ok := e.params.Float("quantity")
	if !ok || quantity == 0 {
		return assistant.ActionResult{}, assistant.NewActionError(assistant.ErrMissingField, "Miktar gerekli")
	}

	var movementType entity.MovementType
	switch e.intent.Action {
	case nlp.ActionIn:
		movementType = entity.MovementIn
	case nlp.ActionOut:
		movementType = entity.MovementOut
	case nlp.ActionTransfer:
		movementType = entity.MovementTransfer
	default:
		movementType = entity.MovementIn
		if quantity < 0 {
			movementType = entity.MovementOut
		}
	}

	product, err := e.findProduct(name)
	if err != nil {
		return assistant.ActionResult{}, err
	}

	qty := math.Abs(quantity)
	movement := entity.StockMovement{
		Type:       movementType,
		ProductID:  product.ID,
		Quantity:   qty,
		UnitID:     product.UnitID,
		Price:      product.PriceSelling,
		TotalPrice: product.PriceSelling * qty,
		Status:     entity.StatusActive,
	}
	movement.Description, _ = e.params.String("description")

	created, err := e.caps.AddStockMovement(e.ctx, movement)
	if err != nil {
		return assistant.ActionResult{}, e.mutationFailed("Stok hareketi kaydedilemedi", err)
	}

	return e.done(fmt.Sprintf(`"%s" ürünü için %s adet %s kaydedildi.`,
		product.Name, strconv.FormatFloat(qty, 'f', -1, 64), movementLabels[movementType]), created)
}
