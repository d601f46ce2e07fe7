package inventoryService

import (
	"context"
	"errors"
	"strings"

	"StokAsistan/internal/api/inventory"
	inventoryRepository "StokAsistan/internal/api/inventory/repository"
	"StokAsistan/internal/entity"
	contextPkg "StokAsistan/pkg/context"
	"StokAsistan/pkg/utils"

	"github.com/sirupsen/logrus"
)

func (s *inventoryService) client(ctx context.Context) (inventoryRepository.Client, error) {
	repo, err := s.inventoryRepository.NewClient(false)
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": contextPkg.GetRequestID(ctx),
			"error":      err.Error(),
		}).Error("Failed to create new client")
	}
	return repo, err
}

func (s *inventoryService) newID(ctx context.Context) (string, error) {
	id, err := s.utils.NewULIDFromTimestamp(s.now())
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": contextPkg.GetRequestID(ctx),
			"error":      err.Error(),
		}).Error("Failed to generate ULID")
	}
	return id, err
}

// found turns a not-found sentinel into a plain miss.
func found(err, notFound error) (bool, error) {
	if err == nil {
		return true, nil
	}
	if errors.Is(err, notFound) {
		return false, nil
	}
	return false, err
}

func (s *inventoryService) AddCategory(ctx context.Context, category entity.Category) (entity.Category, error) {
	repo, err := s.client(ctx)
	if err != nil {
		return entity.Category{}, err
	}

	if category.ID, err = s.newID(ctx); err != nil {
		return entity.Category{}, err
	}
	category.CreatedAt = s.now()
	category.UpdatedAt = category.CreatedAt

	if err := repo.Categories.CreateCategory(ctx, category); err != nil {
		return entity.Category{}, err
	}

	s.log.WithFields(logrus.Fields{
		"request_id":  contextPkg.GetRequestID(ctx),
		"category_id": category.ID,
	}).Info("Category created")

	return category, nil
}

func (s *inventoryService) UpdateCategory(ctx context.Context, id string, update entity.CategoryUpdate) (entity.Category, error) {
	repo, err := s.client(ctx)
	if err != nil {
		return entity.Category{}, err
	}

	return repo.Categories.UpdateCategory(ctx, id, update, s.now())
}

func (s *inventoryService) DeleteCategory(ctx context.Context, id string) error {
	repo, err := s.client(ctx)
	if err != nil {
		return err
	}

	return repo.Categories.DeleteCategory(ctx, id)
}

func (s *inventoryService) FindCategoryByName(ctx context.Context, name string) (entity.Category, bool, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return entity.Category{}, false, nil
	}

	repo, err := s.client(ctx)
	if err != nil {
		return entity.Category{}, false, err
	}

	category, err := repo.Categories.GetCategoryByName(ctx, name)
	ok, err := found(err, inventory.ErrCategoryNotFound)
	return category, ok, err
}

func (s *inventoryService) AddSubCategory(ctx context.Context, parentID string, sub entity.SubCategory) (entity.SubCategory, error) {
	repo, err := s.client(ctx)
	if err != nil {
		return entity.SubCategory{}, err
	}

	if sub.ID, err = s.newID(ctx); err != nil {
		return entity.SubCategory{}, err
	}
	sub.CategoryID = parentID
	sub.CreatedAt = s.now()

	if err := repo.SubCategories.CreateSubCategory(ctx, sub); err != nil {
		return entity.SubCategory{}, err
	}

	return sub, nil
}

// AddProduct assigns an EAN-13 barcode when none is given. A given
// 13 digit barcode must carry a valid check digit.
func (s *inventoryService) AddProduct(ctx context.Context, product entity.Product) (entity.Product, error) {
	requestID := contextPkg.GetRequestID(ctx)

	if len(product.Barcode) == 13 && !utils.ValidEAN13(product.Barcode) {
		return entity.Product{}, inventory.ErrInvalidBarcode
	}

	repo, err := s.client(ctx)
	if err != nil {
		return entity.Product{}, err
	}

	if product.ID, err = s.newID(ctx); err != nil {
		return entity.Product{}, err
	}
	now := s.now()

	if product.Barcode == "" {
		product.Barcode, err = s.utils.GenerateBarcode(now)
		if err != nil {
			s.log.WithFields(logrus.Fields{
				"request_id": requestID,
				"error":      err.Error(),
			}).Error("Failed to generate barcode")
			return entity.Product{}, err
		}
	}
	if product.Status == "" {
		product.Status = entity.StatusActive
	}
	if product.PriceCurrency == "" {
		product.PriceCurrency = defaultCurrency
	}
	product.CreatedAt = now
	product.UpdatedAt = now

	if err := repo.Products.CreateProduct(ctx, product); err != nil {
		return entity.Product{}, err
	}

	s.log.WithFields(logrus.Fields{
		"request_id": requestID,
		"product_id": product.ID,
		"barcode":    product.Barcode,
	}).Info("Product created")

	return product, nil
}

func (s *inventoryService) UpdateProduct(ctx context.Context, id string, update entity.ProductUpdate) (entity.Product, error) {
	repo, err := s.client(ctx)
	if err != nil {
		return entity.Product{}, err
	}

	return repo.Products.UpdateProduct(ctx, id, update, s.now())
}

func (s *inventoryService) DeleteProduct(ctx context.Context, id string) error {
	repo, err := s.client(ctx)
	if err != nil {
		return err
	}

	return repo.Products.DeleteProduct(ctx, id)
}

func (s *inventoryService) FindProduct(ctx context.Context, identifier string) (entity.Product, bool, error) {
	identifier = strings.TrimSpace(identifier)
	if identifier == "" {
		return entity.Product{}, false, nil
	}

	repo, err := s.client(ctx)
	if err != nil {
		return entity.Product{}, false, err
	}

	product, err := repo.Products.FindProduct(ctx, identifier)
	ok, err := found(err, inventory.ErrProductNotFound)
	return product, ok, err
}

func (s *inventoryService) AddSupplier(ctx context.Context, supplier entity.Supplier) (entity.Supplier, error) {
	repo, err := s.client(ctx)
	if err != nil {
		return entity.Supplier{}, err
	}

	if supplier.ID, err = s.newID(ctx); err != nil {
		return entity.Supplier{}, err
	}
	if supplier.Status == "" {
		supplier.Status = entity.StatusActive
	}
	supplier.CreatedAt = s.now()
	supplier.UpdatedAt = supplier.CreatedAt

	if err := repo.Suppliers.CreateSupplier(ctx, supplier); err != nil {
		return entity.Supplier{}, err
	}

	return supplier, nil
}

func (s *inventoryService) UpdateSupplier(ctx context.Context, id string, update entity.SupplierUpdate) (entity.Supplier, error) {
	repo, err := s.client(ctx)
	if err != nil {
		return entity.Supplier{}, err
	}

	return repo.Suppliers.UpdateSupplier(ctx, id, update, s.now())
}

func (s *inventoryService) DeleteSupplier(ctx context.Context, id string) error {
	repo, err := s.client(ctx)
	if err != nil {
		return err
	}

	return repo.Suppliers.DeleteSupplier(ctx, id)
}

func (s *inventoryService) FindSupplierByName(ctx context.Context, name string) (entity.Supplier, bool, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return entity.Supplier{}, false, nil
	}

	repo, err := s.client(ctx)
	if err != nil {
		return entity.Supplier{}, false, err
	}

	supplier, err := repo.Suppliers.GetSupplierByName(ctx, name)
	ok, err := found(err, inventory.ErrSupplierNotFound)
	return supplier, ok, err
}

func (s *inventoryService) AddUnit(ctx context.Context, unit entity.Unit) (entity.Unit, error) {
	repo, err := s.client(ctx)
	if err != nil {
		return entity.Unit{}, err
	}

	if unit.ID, err = s.newID(ctx); err != nil {
		return entity.Unit{}, err
	}
	if unit.Status == "" {
		unit.Status = entity.StatusActive
	}
	unit.CreatedAt = s.now()

	if err := repo.Units.CreateUnit(ctx, unit); err != nil {
		return entity.Unit{}, err
	}

	return unit, nil
}

func (s *inventoryService) UpdateUnit(ctx context.Context, id string, update entity.UnitUpdate) (entity.Unit, error) {
	repo, err := s.client(ctx)
	if err != nil {
		return entity.Unit{}, err
	}

	return repo.Units.UpdateUnit(ctx, id, update)
}

func (s *inventoryService) DeleteUnit(ctx context.Context, id string) error {
	repo, err := s.client(ctx)
	if err != nil {
		return err
	}

	return repo.Units.DeleteUnit(ctx, id)
}

func (s *inventoryService) FindUnitByName(ctx context.Context, name string) (entity.Unit, bool, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return entity.Unit{}, false, nil
	}

	repo, err := s.client(ctx)
	if err != nil {
		return entity.Unit{}, false, err
	}

	unit, err := repo.Units.GetUnitByName(ctx, name)
	ok, err := found(err, inventory.ErrUnitNotFound)
	return unit, ok, err
}

func (s *inventoryService) AddStockMovement(ctx context.Context, movement entity.StockMovement) (entity.StockMovement, error) {
	repo, err := s.client(ctx)
	if err != nil {
		return entity.StockMovement{}, err
	}

	if movement.ID, err = s.newID(ctx); err != nil {
		return entity.StockMovement{}, err
	}
	if movement.Status == "" {
		movement.Status = entity.StatusActive
	}
	movement.CreatedAt = s.now()

	if err := repo.StockMovements.CreateStockMovement(ctx, movement); err != nil {
		return entity.StockMovement{}, err
	}

	s.log.WithFields(logrus.Fields{
		"request_id":  contextPkg.GetRequestID(ctx),
		"movement_id": movement.ID,
		"type":        movement.Type,
		"quantity":    movement.Quantity,
	}).Info("Stock movement recorded")

	return movement, nil
}
