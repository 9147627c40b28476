// internal/service/order/application/saga/discount.go
package saga

import (
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

// DiscountReleaseHandler 回退父订单上的折扣消耗：
// 促销码/优惠券的 usage_count 减一，并删除用户持有记录。
// 积分抵扣不在这里处理，由 order.canceled 事件的订阅方退还。
// 仓储写入发生在 saga 事务内，失败由事务回滚兜底，无需注册补偿。
type DiscountReleaseHandler struct {
	NextHandler
}

func (h *DiscountReleaseHandler) Handle(cancelCtx *CancelContext) error {
	if cancelCtx.Order.IsSubOrder() {
		return h.executeNext(cancelCtx)
	}

	ctx, span := cancelCtx.Tracer.Start(cancelCtx.Ctx, "saga.DiscountRelease")
	defer span.End()

	discounts, err := cancelCtx.Repos.Discounts.FindByOrder(ctx, cancelCtx.Order.ID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to load order discounts")
		return err
	}

	released := 0
	for _, d := range discounts {
		if !d.Reversible() {
			continue
		}
		if err := cancelCtx.Repos.Discounts.DecrementUsage(ctx, d.ID); err != nil {
			span.RecordError(err)
			return err
		}
		if err := cancelCtx.Repos.Discounts.DeleteGrant(ctx, d.ID, cancelCtx.Order.CustomerID); err != nil {
			span.RecordError(err)
			return err
		}
		released++
	}

	span.SetAttributes(attribute.Int("discounts.released", released))
	return h.executeNext(cancelCtx)
}
