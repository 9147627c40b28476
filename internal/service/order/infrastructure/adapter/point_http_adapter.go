// internal/service/order/infrastructure/adapter/point_http_adapter.go
package adapter

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/MinoruSoga/tsunaguma-sub004/internal/pkg/httpclient"
	"github.com/MinoruSoga/tsunaguma-sub004/internal/service/order/port"
)

// PointHTTPAdapter 实现了 port.PointService，调用积分服务退还抵扣积分。
type PointHTTPAdapter struct {
	client  *httpclient.Client
	baseURL string
}

func NewPointHTTPAdapter(client *httpclient.Client, baseURL string) *PointHTTPAdapter {
	return &PointHTTPAdapter{client: client, baseURL: baseURL}
}

type refundPointsRequest struct {
	CustomerID string `json:"customerId"`
	Amount     int64  `json:"amount"`
}

func (a *PointHTTPAdapter) RefundPoints(ctx context.Context, customerID string, amount int64) error {
	body, err := json.Marshal(refundPointsRequest{CustomerID: customerID, Amount: amount})
	if err != nil {
		return err
	}
	url := fmt.Sprintf("%s/points/refund", a.baseURL)
	return a.client.PostJSON(ctx, url, body)
}

var _ port.PointService = (*PointHTTPAdapter)(nil)
