package assistant

import (
	"context"

	"StokAsistan/internal/entity"
)

type Navigator interface {
	Navigate(ctx context.Context, path string)
}

type NavigatorFunc func(ctx context.Context, path string)

func (f NavigatorFunc) Navigate(ctx context.Context, path string) {
	f(ctx, path)
}

// NopNavigator is used by transports that hand the navigation action back to
// the client instead of performing it.
var NopNavigator = NavigatorFunc(func(context.Context, string) {})

// Inventory is the mutation surface the executor drives. Find* methods report
// a miss with ok=false and a nil error.
type Inventory interface {
	AddCategory(ctx context.Context, category entity.Category) (entity.Category, error)
	UpdateCategory(ctx context.Context, id string, update entity.CategoryUpdate) (entity.Category, error)
	DeleteCategory(ctx context.Context, id string) error
	FindCategoryByName(ctx context.Context, name string) (entity.Category, bool, error)
	AddSubCategory(ctx context.Context, parentID string, sub entity.SubCategory) (entity.SubCategory, error)

	AddProduct(ctx context.Context, product entity.Product) (entity.Product, error)
	UpdateProduct(ctx context.Context, id string, update entity.ProductUpdate) (entity.Product, error)
	DeleteProduct(ctx context.Context, id string) error
	FindProduct(ctx context.Context, identifier string) (entity.Product, bool, error)

	AddSupplier(ctx context.Context, supplier entity.Supplier) (entity.Supplier, error)
	UpdateSupplier(ctx context.Context, id string, update entity.SupplierUpdate) (entity.Supplier, error)
	DeleteSupplier(ctx context.Context, id string) error
	FindSupplierByName(ctx context.Context, name string) (entity.Supplier, bool, error)

	AddUnit(ctx context.Context, unit entity.Unit) (entity.Unit, error)
	UpdateUnit(ctx context.Context, id string, update entity.UnitUpdate) (entity.Unit, error)
	DeleteUnit(ctx context.Context, id string) error
	FindUnitByName(ctx context.Context, name string) (entity.Unit, bool, error)

	AddStockMovement(ctx context.Context, movement entity.StockMovement) (entity.StockMovement, error)
}

// Capabilities is everything one interpreter call may act on.
type Capabilities interface {
	Navigator
	Inventory
}

type capabilities struct {
	Inventory
	nav Navigator
}

func WithNavigator(inv Inventory, nav Navigator) Capabilities {
	if nav == nil {
		nav = NopNavigator
	}
	return &capabilities{Inventory: inv, nav: nav}
}

func (c *capabilities) Navigate(ctx context.Context, path string) {
	c.nav.Navigate(ctx, path)
}
