package inventoryRepository

import (
	"context"
	"database/sql"
	"time"

	"StokAsistan/internal/api/inventory"
	"StokAsistan/internal/entity"
)

type CategoryDB struct {
	ID          sql.NullString `db:"id"`
	Name        sql.NullString `db:"name"`
	Description sql.NullString `db:"description"`
	Icon        sql.NullString `db:"icon"`
	CreatedAt   time.Time      `db:"created_at"`
	UpdatedAt   time.Time      `db:"updated_at"`
}

func (r *categoryRepository) CreateCategory(ctx context.Context, category entity.Category) error {
	argsKV := map[string]interface{}{
		"id":          category.ID,
		"name":        category.Name,
		"description": nullString(category.Description),
		"icon":        nullString(category.Icon),
		"created_at":  category.CreatedAt,
		"updated_at":  category.UpdatedAt,
	}

	_, err := r.exec(ctx, "CreateCategory", queryCreateCategory, argsKV)
	return err
}

func (r *categoryRepository) UpdateCategory(ctx context.Context, id string, update entity.CategoryUpdate, at time.Time) (entity.Category, error) {
	argsKV := map[string]interface{}{
		"id":          id,
		"name":        nullStringPtr(update.Name),
		"description": nullStringPtr(update.Description),
		"icon":        nullStringPtr(update.Icon),
		"updated_at":  at,
	}

	var categoryDB CategoryDB
	if err := r.get(ctx, "UpdateCategory", &categoryDB, queryUpdateCategory, argsKV, inventory.ErrCategoryNotFound); err != nil {
		return entity.Category{}, err
	}

	return makeCategory(categoryDB), nil
}

func (r *categoryRepository) DeleteCategory(ctx context.Context, id string) error {
	return r.delete(ctx, "DeleteCategory", queryDeleteCategory, id, inventory.ErrCategoryNotFound)
}

func (r *categoryRepository) GetCategoryByName(ctx context.Context, name string) (entity.Category, error) {
	var categoryDB CategoryDB
	err := r.get(ctx, "GetCategoryByName", &categoryDB, queryGetCategoryByName,
		map[string]interface{}{"name": name}, inventory.ErrCategoryNotFound)
	if err != nil {
		return entity.Category{}, err
	}

	return makeCategory(categoryDB), nil
}

func (r *subCategoryRepository) CreateSubCategory(ctx context.Context, sub entity.SubCategory) error {
	argsKV := map[string]interface{}{
		"id":          sub.ID,
		"category_id": sub.CategoryID,
		"name":        sub.Name,
		"description": nullString(sub.Description),
		"icon":        nullString(sub.Icon),
		"created_at":  sub.CreatedAt,
	}

	_, err := r.exec(ctx, "CreateSubCategory", queryCreateSubCategory, argsKV)
	return err
}

func makeCategory(categoryDB CategoryDB) entity.Category {
	return entity.Category{
		ID:          categoryDB.ID.String,
		Name:        categoryDB.Name.String,
		Description: categoryDB.Description.String,
		Icon:        categoryDB.Icon.String,
		CreatedAt:   categoryDB.CreatedAt,
		UpdatedAt:   categoryDB.UpdatedAt,
	}
}
