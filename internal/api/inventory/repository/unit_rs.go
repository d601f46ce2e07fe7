package inventoryRepository

import (
	"context"
	"database/sql"
	"time"

	"StokAsistan/internal/api/inventory"
	"StokAsistan/internal/entity"
)

type UnitDB struct {
	ID        sql.NullString `db:"id"`
	Name      sql.NullString `db:"name"`
	ShortName sql.NullString `db:"short_name"`
	Type      sql.NullString `db:"type"`
	Status    sql.NullString `db:"status"`
	CreatedAt time.Time      `db:"created_at"`
}

func (r *unitRepository) CreateUnit(ctx context.Context, unit entity.Unit) error {
	argsKV := map[string]interface{}{
		"id":         unit.ID,
		"name":       unit.Name,
		"short_name": nullString(unit.ShortName),
		"type":       nullString(unit.Type),
		"status":     string(unit.Status),
		"created_at": unit.CreatedAt,
	}

	_, err := r.exec(ctx, "CreateUnit", queryCreateUnit, argsKV)
	return err
}

func (r *unitRepository) UpdateUnit(ctx context.Context, id string, update entity.UnitUpdate) (entity.Unit, error) {
	argsKV := map[string]interface{}{
		"id":         id,
		"name":       nullStringPtr(update.Name),
		"short_name": nullStringPtr(update.ShortName),
	}

	var unitDB UnitDB
	if err := r.get(ctx, "UpdateUnit", &unitDB, queryUpdateUnit, argsKV, inventory.ErrUnitNotFound); err != nil {
		return entity.Unit{}, err
	}

	return makeUnit(unitDB), nil
}

func (r *unitRepository) DeleteUnit(ctx context.Context, id string) error {
	return r.delete(ctx, "DeleteUnit", queryDeleteUnit, id, inventory.ErrUnitNotFound)
}

// GetUnitByName also accepts the short name ("kg", "ad").
func (r *unitRepository) GetUnitByName(ctx context.Context, name string) (entity.Unit, error) {
	var unitDB UnitDB
	err := r.get(ctx, "GetUnitByName", &unitDB, queryGetUnitByName,
		map[string]interface{}{"name": name}, inventory.ErrUnitNotFound)
	if err != nil {
		return entity.Unit{}, err
	}

	return makeUnit(unitDB), nil
}

func makeUnit(unitDB UnitDB) entity.Unit {
	return entity.Unit{
		ID:        unitDB.ID.String,
		Name:      unitDB.Name.String,
		ShortName: unitDB.ShortName.String,
		Type:      unitDB.Type.String,
		Status:    entity.ProductStatus(unitDB.Status.String),
		CreatedAt: unitDB.CreatedAt,
	}
}
