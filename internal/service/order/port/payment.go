// internal/service/order/port/payment.go
package port

import (
	"context"

	"github.com/MinoruSoga/tsunaguma-sub004/internal/service/order/domain"
)

// PaymentService 是支付渠道的出站端口。
type PaymentService interface {
	// CancelPayment 请求支付渠道撤销一笔支付。
	CancelPayment(ctx context.Context, payment domain.Payment) error
}
