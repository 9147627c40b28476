// internal/service/order/application/saga/guard.go
package saga

import (
	"go.opentelemetry.io/otel/codes"

	"github.com/MinoruSoga/tsunaguma-sub004/internal/service/order/domain"
)

// GuardHandler 校验不可逆取消的业务不变量。
// 这些校验每次调用都从持久化状态重新评估，因此失败后的重试是安全的。
type GuardHandler struct {
	NextHandler
}

func (h *GuardHandler) Handle(cancelCtx *CancelContext) error {
	_, span := cancelCtx.Tracer.Start(cancelCtx.Ctx, "saga.CancelGuard")
	defer span.End()

	order := cancelCtx.Order

	if len(order.Refunds) > 0 {
		err := domain.NotAllowed("order %s cannot be canceled: order has refunds", order.ID)
		span.RecordError(err)
		span.SetStatus(codes.Error, "guard rejected cancellation")
		return err
	}

	for _, f := range order.Fulfillments {
		if f.CanceledAt == nil {
			err := domain.NotAllowed("order %s cannot be canceled: fulfillment %s is not canceled", order.ID, f.ID)
			span.RecordError(err)
			return err
		}
	}
	for _, r := range order.Returns {
		if r.Status != domain.ReturnCanceled {
			err := domain.NotAllowed("order %s cannot be canceled: return %s is not canceled", order.ID, r.ID)
			span.RecordError(err)
			return err
		}
	}
	for _, s := range order.Swaps {
		if s.CanceledAt == nil {
			err := domain.NotAllowed("order %s cannot be canceled: swap %s is not canceled", order.ID, s.ID)
			span.RecordError(err)
			return err
		}
	}
	for _, c := range order.Claims {
		if c.CanceledAt == nil {
			err := domain.NotAllowed("order %s cannot be canceled: claim %s is not canceled", order.ID, c.ID)
			span.RecordError(err)
			return err
		}
	}

	span.AddEvent("Cancellation guard passed")
	return h.executeNext(cancelCtx)
}
