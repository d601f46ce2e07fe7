package inventoryRepository

import (
	"context"

	"StokAsistan/internal/entity"
)

func (r *stockMovementRepository) CreateStockMovement(ctx context.Context, movement entity.StockMovement) error {
	argsKV := map[string]interface{}{
		"id":          movement.ID,
		"type":        string(movement.Type),
		"product_id":  movement.ProductID,
		"quantity":    movement.Quantity,
		"unit_id":     nullString(movement.UnitID),
		"price":       movement.Price,
		"total_price": movement.TotalPrice,
		"description": nullString(movement.Description),
		"status":      string(movement.Status),
		"created_at":  movement.CreatedAt,
	}

	_, err := r.exec(ctx, "CreateStockMovement", queryCreateStockMovement, argsKV)
	return err
}
