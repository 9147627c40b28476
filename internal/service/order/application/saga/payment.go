// internal/service/order/application/saga/payment.go
package saga

import (
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/MinoruSoga/tsunaguma-sub004/internal/pkg/logger"
)

// PaymentCancelHandler 逐笔撤销订单上的支付。
// 支付渠道侧的撤销没有可靠的反向操作，这里不注册补偿；
// 渠道调用失败会使整个 saga 中止并回滚本地写入。
type PaymentCancelHandler struct {
	NextHandler
}

func (h *PaymentCancelHandler) Handle(cancelCtx *CancelContext) error {
	ctx, span := cancelCtx.Tracer.Start(cancelCtx.Ctx, "saga.PaymentCancel")
	defer span.End()

	for _, payment := range cancelCtx.Order.Payments {
		if payment.CanceledAt != nil {
			continue
		}
		span.SetAttributes(attribute.String("payment.id", payment.ID))
		if err := cancelCtx.Payments.CancelPayment(ctx, payment); err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "payment cancellation failed")
			logger.Ctx(ctx).Error().Err(err).
				Str("order_id", cancelCtx.Order.ID).
				Str("payment_id", payment.ID).
				Msg("payment provider rejected cancellation")
			return err
		}
	}

	span.AddEvent("All payments canceled at provider")
	return h.executeNext(cancelCtx)
}
