// internal/service/order/domain/discount.go
package domain

// DiscountType 区分折扣的来源
type DiscountType string

const (
	DiscountTypePoint     DiscountType = "point"      // 积分抵扣，由事件订阅方退还，不走 saga 的折扣回退
	DiscountTypePromoCode DiscountType = "promo_code" // 促销码
	DiscountTypeCoupon    DiscountType = "coupon"     // 优惠券
)

// Discount 是挂在订单上的一条折扣。
// 购物车阶段创建，结算时挂到订单；只有父订单（非子订单）确认取消时
// 才会回退消耗（usage_count 减一并删除用户持有记录）。
type Discount struct {
	ID               string
	Type             DiscountType
	RuleValue        int64 // 折扣规则的数值幅度
	UsageCount       int
	ParentDiscountID *string // 促销码的派生来源
}

// Reversible 判断该折扣的消耗是否由取消 saga 回退
func (d Discount) Reversible() bool {
	return d.Type == DiscountTypePromoCode || d.Type == DiscountTypeCoupon
}

// UserDiscount 是用户持有某折扣的授予记录
type UserDiscount struct {
	ID         string
	DiscountID string
	CustomerID string
}
