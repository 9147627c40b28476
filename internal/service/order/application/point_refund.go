// internal/service/order/application/point_refund.go
package application

import (
	"context"

	"go.opentelemetry.io/otel/trace"

	"github.com/MinoruSoga/tsunaguma-sub004/internal/pkg/logger"
	"github.com/MinoruSoga/tsunaguma-sub004/internal/service/order/domain"
	"github.com/MinoruSoga/tsunaguma-sub004/internal/service/order/port"
)

// PointRefundHandler 订阅 order.canceled，退还积分抵扣。
// 积分折扣不走 saga 的折扣回退（那里只处理促销码/优惠券），
// 而是作为横切关注点在取消提交后异步退还。
type PointRefundHandler struct {
	uow    domain.UnitOfWork
	points port.PointService
	tracer trace.Tracer
}

func NewPointRefundHandler(uow domain.UnitOfWork, points port.PointService, tracer trace.Tracer) *PointRefundHandler {
	return &PointRefundHandler{uow: uow, points: points, tracer: tracer}
}

// Handle 查出订单上的积分折扣并逐条退还。
func (h *PointRefundHandler) Handle(ctx context.Context, event domain.CanceledEvent) error {
	ctx, span := h.tracer.Start(ctx, "subscriber.PointRefund")
	defer span.End()

	var discounts []domain.Discount
	err := h.uow.Do(ctx, func(ctx context.Context, repos domain.Repositories) error {
		var err error
		discounts, err = repos.Discounts.FindByOrder(ctx, event.OrderID)
		return err
	})
	if err != nil {
		span.RecordError(err)
		return err
	}

	for _, d := range discounts {
		if d.Type != domain.DiscountTypePoint {
			continue
		}
		if err := h.points.RefundPoints(ctx, event.CustomerID, d.RuleValue); err != nil {
			span.RecordError(err)
			logger.Ctx(ctx).Error().Err(err).
				Str("order_id", event.OrderID).
				Str("discount_id", d.ID).
				Msg("failed to refund points")
			return err
		}
	}
	return nil
}
