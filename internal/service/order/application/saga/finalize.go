// internal/service/order/application/saga/finalize.go
package saga

import (
	"go.opentelemetry.io/otel/codes"
)

// FinalizeHandler 写入取消终态：status / fulfillment_status / payment_status
// 全部置为 canceled，并记录 canceled_at。这是链上最后一个环节。
type FinalizeHandler struct {
	NextHandler
}

func (h *FinalizeHandler) Handle(cancelCtx *CancelContext) error {
	ctx, span := cancelCtx.Tracer.Start(cancelCtx.Ctx, "saga.Finalize")
	defer span.End()

	if err := cancelCtx.Order.ConfirmCancel(cancelCtx.Now); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "terminal state transition rejected")
		return err
	}

	if err := cancelCtx.Repos.Orders.Save(ctx, cancelCtx.Order); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to persist terminal state")
		return err
	}

	span.AddEvent("Order cancellation finalized")
	return h.executeNext(cancelCtx)
}
