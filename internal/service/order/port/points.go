// internal/service/order/port/points.go
package port

import "context"

// PointService 是积分子系统的出站端口，订单取消后退还积分抵扣。
type PointService interface {
	RefundPoints(ctx context.Context, customerID string, amount int64) error
}
