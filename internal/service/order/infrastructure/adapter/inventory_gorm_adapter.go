// internal/service/order/infrastructure/adapter/inventory_gorm_adapter.go
package adapter

import (
	"context"

	"gorm.io/gorm"

	"github.com/MinoruSoga/tsunaguma-sub004/internal/service/order/domain"
	"github.com/MinoruSoga/tsunaguma-sub004/internal/service/order/infrastructure"
	"github.com/MinoruSoga/tsunaguma-sub004/internal/service/order/port"
)

// InventoryGormAdapter 实现了 port.InventoryService。
// 库存与订单同库，直接对变体行做原子增减。
type InventoryGormAdapter struct {
	db *gorm.DB
}

func NewInventoryGormAdapter(db *gorm.DB) *InventoryGormAdapter {
	return &InventoryGormAdapter{db: db}
}

func (a *InventoryGormAdapter) AdjustInventory(ctx context.Context, variantID string, delta int) error {
	result := a.db.WithContext(ctx).
		Model(&infrastructure.VariantModel{}).
		Where("id = ?", variantID).
		UpdateColumn("inventory_quantity", gorm.Expr("inventory_quantity + ?", delta))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.NotFound("variant %s", variantID)
	}
	return nil
}

var _ port.InventoryService = (*InventoryGormAdapter)(nil)
