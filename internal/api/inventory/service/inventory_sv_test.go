package inventoryService

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"StokAsistan/internal/api/inventory"
	inventoryRepository "StokAsistan/internal/api/inventory/repository"
	"StokAsistan/internal/entity"
	"StokAsistan/pkg/utils"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)

func setupService(t *testing.T) (*inventoryService, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	log := logrus.New()
	log.SetOutput(io.Discard)

	repo := inventoryRepository.New(sqlx.NewDb(db, "postgres"), log)
	svc := NewInventoryService(log, repo, utils.New()).(*inventoryService)
	svc.now = func() time.Time { return testNow }

	return svc, mock
}

func TestAddProduct_GeneratesBarcode(t *testing.T) {
	svc, mock := setupService(t)

	mock.ExpectExec(`INSERT INTO products`).
		WithArgs(
			sqlmock.AnyArg(), sqlmock.AnyArg(), "Kola", nil, "cat-1", nil, nil,
			int64(0), int64(0), int64(0),
			0.0, 15.0, defaultCurrency, 0.0,
			"active", testNow, testNow,
		).
		WillReturnResult(sqlmock.NewResult(0, 1))

	product, err := svc.AddProduct(context.Background(), entity.Product{
		Name:         "Kola",
		CategoryID:   "cat-1",
		PriceSelling: 15,
	})

	require.NoError(t, err)
	assert.NotEmpty(t, product.ID)
	assert.True(t, strings.HasPrefix(product.Barcode, utils.BarcodePrefix))
	assert.True(t, utils.ValidEAN13(product.Barcode))
	assert.Equal(t, entity.StatusActive, product.Status)
	assert.Equal(t, defaultCurrency, product.PriceCurrency)
	assert.Equal(t, testNow, product.CreatedAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAddProduct_KeepsGivenBarcode(t *testing.T) {
	svc, mock := setupService(t)

	mock.ExpectExec(`INSERT INTO products`).
		WithArgs(
			sqlmock.AnyArg(), "4006381333931", "Kalem", nil, nil, nil, nil,
			int64(0), int64(0), int64(0),
			0.0, 0.0, defaultCurrency, 0.0,
			"active", testNow, testNow,
		).
		WillReturnResult(sqlmock.NewResult(0, 1))

	product, err := svc.AddProduct(context.Background(), entity.Product{Name: "Kalem", Barcode: "4006381333931"})

	require.NoError(t, err)
	assert.Equal(t, "4006381333931", product.Barcode)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAddProduct_RejectsBadCheckDigit(t *testing.T) {
	svc, mock := setupService(t)

	_, err := svc.AddProduct(context.Background(), entity.Product{Name: "Kalem", Barcode: "4006381333932"})

	assert.ErrorIs(t, err, inventory.ErrInvalidBarcode)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFindCategoryByName(t *testing.T) {
	columns := []string{"id", "name", "description", "icon", "created_at", "updated_at"}

	tests := []struct {
		name    string
		input   string
		setup   func(mock sqlmock.Sqlmock)
		wantOK  bool
		wantErr bool
	}{
		{
			name:  "found",
			input: " İçecekler ",
			setup: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`FROM categories`).
					WithArgs("İçecekler").
					WillReturnRows(sqlmock.NewRows(columns).
						AddRow("cat-1", "İçecekler", nil, "📦", testNow, testNow))
			},
			wantOK: true,
		},
		{
			name:  "missing is not an error",
			input: "Temizlik",
			setup: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`FROM categories`).
					WithArgs("Temizlik").
					WillReturnRows(sqlmock.NewRows(columns))
			},
		},
		{
			name:  "database failure",
			input: "Temizlik",
			setup: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`FROM categories`).
					WithArgs("Temizlik").
					WillReturnError(errors.New("connection refused"))
			},
			wantErr: true,
		},
		{
			name:  "blank name skips the query",
			input: "  ",
			setup: func(mock sqlmock.Sqlmock) {},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, mock := setupService(t)
			tt.setup(mock)

			category, ok, err := svc.FindCategoryByName(context.Background(), tt.input)

			if tt.wantErr {
				assert.Error(t, err)
			} else {
				require.NoError(t, err)
			}
			assert.Equal(t, tt.wantOK, ok)
			if tt.wantOK {
				assert.Equal(t, "cat-1", category.ID)
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestFindProduct_Missing(t *testing.T) {
	svc, mock := setupService(t)

	mock.ExpectQuery(`FROM products`).
		WithArgs("Gazoz", "Gazoz", "Gazoz", "Gazoz", "Gazoz").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, ok, err := svc.FindProduct(context.Background(), "Gazoz")

	require.NoError(t, err)
	assert.False(t, ok)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAddStockMovement(t *testing.T) {
	svc, mock := setupService(t)

	mock.ExpectExec(`INSERT INTO stock_movements`).
		WithArgs(sqlmock.AnyArg(), "in", "prd-1", 10.0, "unit-1", 15.0, 150.0, nil, "active", testNow).
		WillReturnResult(sqlmock.NewResult(0, 1))

	movement, err := svc.AddStockMovement(context.Background(), entity.StockMovement{
		Type:       entity.MovementIn,
		ProductID:  "prd-1",
		Quantity:   10,
		UnitID:     "unit-1",
		Price:      15,
		TotalPrice: 150,
	})

	require.NoError(t, err)
	assert.NotEmpty(t, movement.ID)
	assert.Equal(t, entity.StatusActive, movement.Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAddSubCategory(t *testing.T) {
	svc, mock := setupService(t)

	mock.ExpectExec(`INSERT INTO sub_categories`).
		WithArgs(sqlmock.AnyArg(), "cat-1", "Gazlı", "Gazlı alt kategorisi", nil, testNow).
		WillReturnResult(sqlmock.NewResult(0, 1))

	sub, err := svc.AddSubCategory(context.Background(), "cat-1", entity.SubCategory{
		Name:        "Gazlı",
		Description: "Gazlı alt kategorisi",
	})

	require.NoError(t, err)
	assert.Equal(t, "cat-1", sub.CategoryID)
	assert.NoError(t, mock.ExpectationsWereMet())
}
