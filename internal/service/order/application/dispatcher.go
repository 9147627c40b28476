// internal/service/order/application/dispatcher.go
package application

import (
	"context"

	"go.opentelemetry.io/otel/trace"

	"github.com/MinoruSoga/tsunaguma-sub004/internal/pkg/logger"
	"github.com/MinoruSoga/tsunaguma-sub004/internal/service/order/domain"
	"github.com/MinoruSoga/tsunaguma-sub004/internal/service/order/port"
)

// Dispatcher 在转发事件到外部发布器（Kafka）的同时，
// 将事件分发给进程内显式注册的类型化处理器（观察者）。
// 处理器在独立 goroutine 中运行：发布方不阻塞、不保证订阅方
// 相对事务可见性的执行顺序，处理器错误只记日志。
type Dispatcher struct {
	publisher port.EventPublisher

	canceledHandlers  []func(ctx context.Context, event domain.CanceledEvent) error
	shippedHandlers   []func(ctx context.Context, event domain.ShipmentCompletedEvent) error
	requestedHandlers []func(ctx context.Context, event domain.CancelRequestedEvent) error
}

func NewDispatcher(publisher port.EventPublisher) *Dispatcher {
	return &Dispatcher{publisher: publisher}
}

// OnCanceled 注册一个 order.canceled 的进程内处理器。
func (d *Dispatcher) OnCanceled(handler func(ctx context.Context, event domain.CanceledEvent) error) {
	d.canceledHandlers = append(d.canceledHandlers, handler)
}

// OnShipmentCompleted 注册一个 order.shipment_complete 的进程内处理器。
func (d *Dispatcher) OnShipmentCompleted(handler func(ctx context.Context, event domain.ShipmentCompletedEvent) error) {
	d.shippedHandlers = append(d.shippedHandlers, handler)
}

// OnCancelRequested 注册一个 order.request_cancel 的进程内处理器。
func (d *Dispatcher) OnCancelRequested(handler func(ctx context.Context, event domain.CancelRequestedEvent) error) {
	d.requestedHandlers = append(d.requestedHandlers, handler)
}

func (d *Dispatcher) PublishCancelRequested(ctx context.Context, event domain.CancelRequestedEvent) error {
	for _, handler := range d.requestedHandlers {
		go d.run(ctx, string(domain.EventCancelRequested), func(ctx context.Context) error { return handler(ctx, event) })
	}
	return d.publisher.PublishCancelRequested(ctx, event)
}

func (d *Dispatcher) PublishCancelCompleted(ctx context.Context, event domain.CancelCompletedEvent) error {
	return d.publisher.PublishCancelCompleted(ctx, event)
}

func (d *Dispatcher) PublishCancelCompletedShop(ctx context.Context, event domain.CancelCompletedShopEvent) error {
	return d.publisher.PublishCancelCompletedShop(ctx, event)
}

func (d *Dispatcher) PublishCanceled(ctx context.Context, event domain.CanceledEvent) error {
	for _, handler := range d.canceledHandlers {
		go d.run(ctx, string(domain.EventCanceled), func(ctx context.Context) error { return handler(ctx, event) })
	}
	return d.publisher.PublishCanceled(ctx, event)
}

func (d *Dispatcher) PublishShipmentCompleted(ctx context.Context, event domain.ShipmentCompletedEvent) error {
	for _, handler := range d.shippedHandlers {
		go d.run(ctx, string(domain.EventShipmentCompleted), func(ctx context.Context) error { return handler(ctx, event) })
	}
	return d.publisher.PublishShipmentCompleted(ctx, event)
}

// run 在脱离请求生命周期的上下文中执行处理器，保留链路信息
func (d *Dispatcher) run(ctx context.Context, name string, fn func(ctx context.Context) error) {
	detached := trace.ContextWithRemoteSpanContext(context.Background(), trace.SpanContextFromContext(ctx))
	if err := fn(detached); err != nil {
		logger.Ctx(detached).Error().Err(err).Str("event", name).Msg("event handler failed")
	}
}

var _ port.EventPublisher = (*Dispatcher)(nil)
