// internal/service/order/port/store.go
package port

import (
	"context"

	"github.com/MinoruSoga/tsunaguma-sub004/internal/service/order/domain"
)

// StoreService 是店铺账单配置的出站端口。
type StoreService interface {
	GetStoreByID(ctx context.Context, id string) (*domain.Store, error)
}
