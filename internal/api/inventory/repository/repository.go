package inventoryRepository

import (
	"time"

	"StokAsistan/internal/entity"

	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus"
	"golang.org/x/net/context"
)

type SQLExecutor interface {
	sqlx.ExtContext
	QueryRowxContext(ctx context.Context, query string, args ...interface{}) *sqlx.Row
	Rebind(query string) string
}

func New(db *sqlx.DB, log *logrus.Logger) Repository {
	return &repository{
		DB:  db,
		log: log,
	}
}

type repository struct {
	DB  *sqlx.DB
	log *logrus.Logger
}

type Repository interface {
	NewClient(tx bool) (Client, error)
}

func (r *repository) NewClient(tx bool) (Client, error) {
	var sqlExecutor SQLExecutor
	var commitFunc, rollbackFunc func() error

	sqlExecutor = r.DB

	if tx {
		txx, err := r.DB.Beginx()
		if err != nil {
			return Client{}, err
		}

		sqlExecutor = txx
		commitFunc = txx.Commit
		rollbackFunc = txx.Rollback
	} else {
		commitFunc = func() error { return nil }
		rollbackFunc = func() error { return nil }
	}

	base := executor{q: sqlExecutor, log: r.log}

	return Client{
		Categories:     &categoryRepository{base},
		SubCategories:  &subCategoryRepository{base},
		Products:       &productRepository{base},
		Suppliers:      &supplierRepository{base},
		Units:          &unitRepository{base},
		StockMovements: &stockMovementRepository{base},
		Commit:         commitFunc,
		Rollback:       rollbackFunc,
	}, nil
}

type Client struct {
	Categories interface {
		CreateCategory(ctx context.Context, category entity.Category) error
		UpdateCategory(ctx context.Context, id string, update entity.CategoryUpdate, at time.Time) (entity.Category, error)
		DeleteCategory(ctx context.Context, id string) error
		GetCategoryByName(ctx context.Context, name string) (entity.Category, error)
	}

	SubCategories interface {
		CreateSubCategory(ctx context.Context, sub entity.SubCategory) error
	}

	Products interface {
		CreateProduct(ctx context.Context, product entity.Product) error
		UpdateProduct(ctx context.Context, id string, update entity.ProductUpdate, at time.Time) (entity.Product, error)
		DeleteProduct(ctx context.Context, id string) error
		FindProduct(ctx context.Context, identifier string) (entity.Product, error)
	}

	Suppliers interface {
		CreateSupplier(ctx context.Context, supplier entity.Supplier) error
		UpdateSupplier(ctx context.Context, id string, update entity.SupplierUpdate, at time.Time) (entity.Supplier, error)
		DeleteSupplier(ctx context.Context, id string) error
		GetSupplierByName(ctx context.Context, name string) (entity.Supplier, error)
	}

	Units interface {
		CreateUnit(ctx context.Context, unit entity.Unit) error
		UpdateUnit(ctx context.Context, id string, update entity.UnitUpdate) (entity.Unit, error)
		DeleteUnit(ctx context.Context, id string) error
		GetUnitByName(ctx context.Context, name string) (entity.Unit, error)
	}

	StockMovements interface {
		CreateStockMovement(ctx context.Context, movement entity.StockMovement) error
	}

	Commit   func() error
	Rollback func() error
}

type categoryRepository struct{ executor }

type subCategoryRepository struct{ executor }

type productRepository struct{ executor }

type supplierRepository struct{ executor }

type unitRepository struct{ executor }

type stockMovementRepository struct{ executor }
