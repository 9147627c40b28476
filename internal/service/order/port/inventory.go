// internal/service/order/port/inventory.go
package port

import "context"

// InventoryService 是库存子系统的出站端口。
type InventoryService interface {
	// AdjustInventory 调整某个商品变体的可售库存，delta 为正表示回补。
	AdjustInventory(ctx context.Context, variantID string, delta int) error
}
