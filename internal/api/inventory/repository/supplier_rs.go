package inventoryRepository

import (
	"context"
	"database/sql"
	"time"

	"StokAsistan/internal/api/inventory"
	"StokAsistan/internal/entity"
)

type SupplierDB struct {
	ID            sql.NullString `db:"id"`
	Name          sql.NullString `db:"name"`
	ContactPerson sql.NullString `db:"contact_person"`
	Phone         sql.NullString `db:"phone"`
	Email         sql.NullString `db:"email"`
	Address       sql.NullString `db:"address"`
	Status        sql.NullString `db:"status"`
	CreatedAt     time.Time      `db:"created_at"`
	UpdatedAt     time.Time      `db:"updated_at"`
}

func (r *supplierRepository) CreateSupplier(ctx context.Context, supplier entity.Supplier) error {
	argsKV := map[string]interface{}{
		"id":             supplier.ID,
		"name":           supplier.Name,
		"contact_person": nullString(supplier.ContactPerson),
		"phone":          nullString(supplier.Phone),
		"email":          nullString(supplier.Email),
		"address":        nullString(supplier.Address),
		"status":         string(supplier.Status),
		"created_at":     supplier.CreatedAt,
		"updated_at":     supplier.UpdatedAt,
	}

	_, err := r.exec(ctx, "CreateSupplier", queryCreateSupplier, argsKV)
	return err
}

func (r *supplierRepository) UpdateSupplier(ctx context.Context, id string, update entity.SupplierUpdate, at time.Time) (entity.Supplier, error) {
	argsKV := map[string]interface{}{
		"id":             id,
		"name":           nullStringPtr(update.Name),
		"contact_person": nullStringPtr(update.ContactPerson),
		"phone":          nullStringPtr(update.Phone),
		"email":          nullStringPtr(update.Email),
		"updated_at":     at,
	}

	var supplierDB SupplierDB
	if err := r.get(ctx, "UpdateSupplier", &supplierDB, queryUpdateSupplier, argsKV, inventory.ErrSupplierNotFound); err != nil {
		return entity.Supplier{}, err
	}

	return makeSupplier(supplierDB), nil
}

func (r *supplierRepository) DeleteSupplier(ctx context.Context, id string) error {
	return r.delete(ctx, "DeleteSupplier", queryDeleteSupplier, id, inventory.ErrSupplierNotFound)
}

func (r *supplierRepository) GetSupplierByName(ctx context.Context, name string) (entity.Supplier, error) {
	var supplierDB SupplierDB
	err := r.get(ctx, "GetSupplierByName", &supplierDB, queryGetSupplierByName,
		map[string]interface{}{"name": name}, inventory.ErrSupplierNotFound)
	if err != nil {
		return entity.Supplier{}, err
	}

	return makeSupplier(supplierDB), nil
}

func makeSupplier(supplierDB SupplierDB) entity.Supplier {
	return entity.Supplier{
		ID:            supplierDB.ID.String,
		Name:          supplierDB.Name.String,
		ContactPerson: supplierDB.ContactPerson.String,
		Phone:         supplierDB.Phone.String,
		Email:         supplierDB.Email.String,
		Address:       supplierDB.Address.String,
		Status:        entity.ProductStatus(supplierDB.Status.String),
		CreatedAt:     supplierDB.CreatedAt,
		UpdatedAt:     supplierDB.UpdatedAt,
	}
}
