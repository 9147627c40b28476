// internal/service/order/port/events.go
package port

import (
	"context"

	"github.com/MinoruSoga/tsunaguma-sub004/internal/service/order/domain"
)

// EventPublisher 是领域事件的出站端口。
// 方法集即事件集：每种事件一个方法，新增事件必须显式扩这个接口，
// 不存在按字符串名随意 emit 的口子。发布对核心是 fire-and-forget，
// 在触发写提交之后调用，核心不等待订阅方完成。
type EventPublisher interface {
	PublishCancelRequested(ctx context.Context, event domain.CancelRequestedEvent) error
	PublishCancelCompleted(ctx context.Context, event domain.CancelCompletedEvent) error
	PublishCancelCompletedShop(ctx context.Context, event domain.CancelCompletedShopEvent) error
	PublishCanceled(ctx context.Context, event domain.CanceledEvent) error
	PublishShipmentCompleted(ctx context.Context, event domain.ShipmentCompletedEvent) error
}
