package inventoryRepository

import (
	"context"
	"database/sql"
	"time"

	"StokAsistan/internal/api/inventory"
	"StokAsistan/internal/entity"
)

type ProductDB struct {
	ID             sql.NullString  `db:"id"`
	Barcode        sql.NullString  `db:"barcode"`
	Name           sql.NullString  `db:"name"`
	Description    sql.NullString  `db:"description"`
	CategoryID     sql.NullString  `db:"category_id"`
	UnitID         sql.NullString  `db:"unit_id"`
	SupplierID     sql.NullString  `db:"supplier_id"`
	StockWarehouse sql.NullInt64   `db:"stock_warehouse"`
	StockShelf     sql.NullInt64   `db:"stock_shelf"`
	StockMinLevel  sql.NullInt64   `db:"stock_min_level"`
	PriceBuying    sql.NullFloat64 `db:"price_buying"`
	PriceSelling   sql.NullFloat64 `db:"price_selling"`
	PriceCurrency  sql.NullString  `db:"price_currency"`
	VatRate        sql.NullFloat64 `db:"vat_rate"`
	Status         sql.NullString  `db:"status"`
	CreatedAt      time.Time       `db:"created_at"`
	UpdatedAt      time.Time       `db:"updated_at"`
}

func (r *productRepository) CreateProduct(ctx context.Context, product entity.Product) error {
	argsKV := map[string]interface{}{
		"id":              product.ID,
		"barcode":         nullString(product.Barcode),
		"name":            product.Name,
		"description":     nullString(product.Description),
		"category_id":     nullString(product.CategoryID),
		"unit_id":         nullString(product.UnitID),
		"supplier_id":     nullString(product.SupplierID),
		"stock_warehouse": product.StockWarehouse,
		"stock_shelf":     product.StockShelf,
		"stock_min_level": product.StockMinLevel,
		"price_buying":    product.PriceBuying,
		"price_selling":   product.PriceSelling,
		"price_currency":  product.PriceCurrency,
		"vat_rate":        product.VatRate,
		"status":          string(product.Status),
		"created_at":      product.CreatedAt,
		"updated_at":      product.UpdatedAt,
	}

	_, err := r.exec(ctx, "CreateProduct", queryCreateProduct, argsKV)
	return err
}

func (r *productRepository) UpdateProduct(ctx context.Context, id string, update entity.ProductUpdate, at time.Time) (entity.Product, error) {
	argsKV := map[string]interface{}{
		"id":              id,
		"name":            nullStringPtr(update.Name),
		"description":     nullStringPtr(update.Description),
		"category_id":     nullStringPtr(update.CategoryID),
		"stock_warehouse": nullInt64Ptr(update.StockWarehouse),
		"price_selling":   nullFloat64Ptr(update.PriceSelling),
		"updated_at":      at,
	}

	var productDB ProductDB
	if err := r.get(ctx, "UpdateProduct", &productDB, queryUpdateProduct, argsKV, inventory.ErrProductNotFound); err != nil {
		return entity.Product{}, err
	}

	return makeProduct(productDB), nil
}

func (r *productRepository) DeleteProduct(ctx context.Context, id string) error {
	return r.delete(ctx, "DeleteProduct", queryDeleteProduct, id, inventory.ErrProductNotFound)
}

// FindProduct matches the identifier against id, barcode and a partial name.
func (r *productRepository) FindProduct(ctx context.Context, identifier string) (entity.Product, error) {
	var productDB ProductDB
	err := r.get(ctx, "FindProduct", &productDB, queryFindProduct,
		map[string]interface{}{"identifier": identifier}, inventory.ErrProductNotFound)
	if err != nil {
		return entity.Product{}, err
	}

	return makeProduct(productDB), nil
}

func makeProduct(productDB ProductDB) entity.Product {
	return entity.Product{
		ID:             productDB.ID.String,
		Barcode:        productDB.Barcode.String,
		Name:           productDB.Name.String,
		Description:    productDB.Description.String,
		CategoryID:     productDB.CategoryID.String,
		UnitID:         productDB.UnitID.String,
		SupplierID:     productDB.SupplierID.String,
		StockWarehouse: int(productDB.StockWarehouse.Int64),
		StockShelf:     int(productDB.StockShelf.Int64),
		StockMinLevel:  int(productDB.StockMinLevel.Int64),
		PriceBuying:    productDB.PriceBuying.Float64,
		PriceSelling:   productDB.PriceSelling.Float64,
		PriceCurrency:  productDB.PriceCurrency.String,
		VatRate:        productDB.VatRate.Float64,
		Status:         entity.ProductStatus(productDB.Status.String),
		CreatedAt:      productDB.CreatedAt,
		UpdatedAt:      productDB.UpdatedAt,
	}
}
