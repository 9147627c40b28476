// internal/service/order/port/totals.go
package port

import (
	"context"

	"github.com/MinoruSoga/tsunaguma-sub004/internal/service/order/domain"
)

// TotalsService 是金额计算的出站端口。
// 行小计由聚合自身求和，运费与折扣额的口径委托给该协作方。
type TotalsService interface {
	ShippingTotal(ctx context.Context, order *domain.Order) (int64, error)
	DiscountTotal(ctx context.Context, order *domain.Order) (int64, error)
}
