// internal/service/order/domain/settlement.go
package domain

import "time"

// SettlementSnapshot 是单个订单的金额拆解快照。
// 首次读取时惰性计算并落库，之后的读取直接命中缓存；
// 行项目变化不会自动失效，需要调用方显式清空后重算。
type SettlementSnapshot struct {
	Total         int64 `json:"total"`
	Subtotal      int64 `json:"subtotal"`
	ShippingTotal int64 `json:"shipping_total"`
	DiscountTotal int64 `json:"discount_total"`

	// DiscountIDs 记录计算快照时订单上挂着的折扣，
	// 用来保证缓存与产生它的折扣列表一致。
	DiscountIDs []string  `json:"discount_ids,omitempty"`
	CapturedAt  time.Time `json:"captured_at"`
}

// Equal 比较两次计算的金额拆解是否一致（不含时间戳）
func (s SettlementSnapshot) Equal(other SettlementSnapshot) bool {
	if s.Total != other.Total || s.Subtotal != other.Subtotal ||
		s.ShippingTotal != other.ShippingTotal || s.DiscountTotal != other.DiscountTotal {
		return false
	}
	if len(s.DiscountIDs) != len(other.DiscountIDs) {
		return false
	}
	for i := range s.DiscountIDs {
		if s.DiscountIDs[i] != other.DiscountIDs[i] {
			return false
		}
	}
	return true
}

// BillingSnapshot 是单个订单对店铺账单的贡献快照
type BillingSnapshot struct {
	Total         int64   `json:"total"`
	Subtotal      int64   `json:"subtotal"`
	ShippingTotal int64   `json:"shipping_total"`
	DiscountTotal int64   `json:"discount_total"`
	FeeTotal      int64   `json:"fee_total"`
	Rate          float64 `json:"rate"` // 该订单实际采用的佣金率（百分比）
}

// BillingSummary 是一个店铺在一个账期内的账单汇总。
// 所有字段都已四舍五入到货币整数单位；当前不接税费计算，TaxTotal 恒为 0。
type BillingSummary struct {
	Total         int64 `json:"total"`
	ShippingTotal int64 `json:"shipping_total"`
	DiscountTotal int64 `json:"discount_total"`
	TaxTotal      int64 `json:"tax_total"`
	Subtotal      int64 `json:"subtotal"`
	FeeTotal      int64 `json:"fee_total"`
}
