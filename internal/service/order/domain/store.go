// internal/service/order/domain/store.go
package domain

import "time"

// PlanType 是店铺的签约套餐
type PlanType string

const (
	PlanStandard PlanType = "standard"
	PlanPrime    PlanType = "prime"
)

// Store 持有店铺的账单配置。
// MarginRate 是对套餐默认佣金率的覆盖；SpecRate 是一个有时间窗口的
// 促销佣金率，窗口内创建的订单改用 SpecRate，窗口外回落到基础/覆盖佣金率。
type Store struct {
	ID      string
	OwnerID string

	PlanType     PlanType
	MarginRate   *float64
	SpecRate     *float64
	SpecStartsAt *time.Time
	SpecEndsAt   *time.Time
}

// CommissionDefaults 是各套餐的默认佣金率（百分比），来自配置
type CommissionDefaults struct {
	Standard float64
	Prime    float64
}

// baseRate 返回不考虑促销窗口时的佣金率
func (s *Store) baseRate(defaults CommissionDefaults) float64 {
	if s.MarginRate != nil {
		return *s.MarginRate
	}
	if s.PlanType == PlanPrime {
		return defaults.Prime
	}
	return defaults.Standard
}

// specActive 判断促销佣金率对给定下单时间是否生效，窗口为左闭右开
func (s *Store) specActive(orderCreatedAt time.Time) bool {
	if s.SpecRate == nil || *s.SpecRate == 0 {
		return false
	}
	if s.SpecStartsAt == nil || s.SpecEndsAt == nil {
		return false
	}
	return !orderCreatedAt.Before(*s.SpecStartsAt) && orderCreatedAt.Before(*s.SpecEndsAt)
}

// EffectiveRate 返回某笔订单适用的佣金率。
// 促销窗口内用 SpecRate；窗口外用覆盖佣金率，未覆盖则用套餐默认值。
func (s *Store) EffectiveRate(orderCreatedAt time.Time, defaults CommissionDefaults) float64 {
	if s.specActive(orderCreatedAt) {
		return *s.SpecRate
	}
	return s.baseRate(defaults)
}
