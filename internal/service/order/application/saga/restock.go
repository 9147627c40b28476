// internal/service/order/application/saga/restock.go
package saga

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/MinoruSoga/tsunaguma-sub004/internal/pkg/logger"
)

// RestockHandler 为店铺子订单回补库存。
// 父订单（非子订单）不占库存，由 DiscountReleaseHandler 处理折扣回退。
type RestockHandler struct {
	NextHandler
}

func (h *RestockHandler) Handle(cancelCtx *CancelContext) error {
	if !cancelCtx.Order.IsSubOrder() {
		return h.executeNext(cancelCtx)
	}

	ctx, span := cancelCtx.Tracer.Start(cancelCtx.Ctx, "saga.Restock")
	defer span.End()

	for _, item := range cancelCtx.Order.Items {
		item := item
		span.SetAttributes(
			attribute.String("variant.id", item.VariantID),
			attribute.Int("quantity", item.Quantity),
		)
		if err := cancelCtx.Inventory.AdjustInventory(ctx, item.VariantID, item.Quantity); err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "inventory restock failed")
			return err
		}

		// 回补已生效，后续环节失败时需要重新扣回
		cancelCtx.AddCompensation(func(compCtx context.Context) {
			compCtx, compSpan := cancelCtx.Tracer.Start(compCtx, "saga.compensation.Restock")
			defer compSpan.End()
			if err := cancelCtx.Inventory.AdjustInventory(compCtx, item.VariantID, -item.Quantity); err != nil {
				compSpan.RecordError(err)
				logger.Ctx(compCtx).Error().Err(err).
					Str("order_id", cancelCtx.Order.ID).
					Str("variant_id", item.VariantID).
					Msg("failed to compensate inventory restock, manual intervention required")
			}
		})
	}

	span.AddEvent("Inventory restored for all line items")
	return h.executeNext(cancelCtx)
}
