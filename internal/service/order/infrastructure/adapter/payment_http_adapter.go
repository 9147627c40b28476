// internal/service/order/infrastructure/adapter/payment_http_adapter.go
package adapter

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/MinoruSoga/tsunaguma-sub004/internal/pkg/httpclient"
	"github.com/MinoruSoga/tsunaguma-sub004/internal/service/order/domain"
	"github.com/MinoruSoga/tsunaguma-sub004/internal/service/order/port"
)

// PaymentHTTPAdapter 实现了 port.PaymentService，调用支付网关撤销支付。
type PaymentHTTPAdapter struct {
	client  *httpclient.Client
	baseURL string
}

func NewPaymentHTTPAdapter(client *httpclient.Client, baseURL string) *PaymentHTTPAdapter {
	return &PaymentHTTPAdapter{client: client, baseURL: baseURL}
}

type cancelPaymentRequest struct {
	PaymentID  string `json:"paymentId"`
	ProviderID string `json:"providerId"`
	Amount     int64  `json:"amount"`
}

func (a *PaymentHTTPAdapter) CancelPayment(ctx context.Context, payment domain.Payment) error {
	body, err := json.Marshal(cancelPaymentRequest{
		PaymentID:  payment.ID,
		ProviderID: payment.ProviderID,
		Amount:     payment.Amount,
	})
	if err != nil {
		return err
	}
	url := fmt.Sprintf("%s/payments/%s/cancel", a.baseURL, payment.ID)
	return a.client.PostJSON(ctx, url, body)
}

var _ port.PaymentService = (*PaymentHTTPAdapter)(nil)
