// internal/service/order/infrastructure/adapter/totals_adapter.go
package adapter

import (
	"context"

	"github.com/MinoruSoga/tsunaguma-sub004/internal/service/order/domain"
	"github.com/MinoruSoga/tsunaguma-sub004/internal/service/order/port"
)

// TotalsAdapter 实现了 port.TotalsService。
// 运费取下单时落库的值；折扣额为各折扣规则数值之和，封顶到行小计。
type TotalsAdapter struct{}

func NewTotalsAdapter() *TotalsAdapter {
	return &TotalsAdapter{}
}

func (a *TotalsAdapter) ShippingTotal(_ context.Context, order *domain.Order) (int64, error) {
	return order.ShippingTotal, nil
}

func (a *TotalsAdapter) DiscountTotal(_ context.Context, order *domain.Order) (int64, error) {
	var total int64
	for _, d := range order.Discounts {
		total += d.RuleValue
	}
	if subtotal := order.Subtotal(); total > subtotal {
		total = subtotal
	}
	return total, nil
}

var _ port.TotalsService = (*TotalsAdapter)(nil)
