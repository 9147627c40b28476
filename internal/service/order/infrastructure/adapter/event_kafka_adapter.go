// internal/service/order/infrastructure/adapter/event_kafka_adapter.go
package adapter

import (
	"context"
	"encoding/json"

	"github.com/segmentio/kafka-go"

	"github.com/MinoruSoga/tsunaguma-sub004/internal/pkg/mq"
	"github.com/MinoruSoga/tsunaguma-sub004/internal/service/order/domain"
	"github.com/MinoruSoga/tsunaguma-sub004/internal/service/order/port"
)

// EventKafkaAdapter 实现了 port.EventPublisher。
// 所有订单事件发到同一个 topic，事件名放在消息头，
// 消息键取订单 ID 以保证同一订单的事件分区有序。
type EventKafkaAdapter struct {
	writer *kafka.Writer
}

func NewEventKafkaAdapter(writer *kafka.Writer) *EventKafkaAdapter {
	return &EventKafkaAdapter{writer: writer}
}

func (a *EventKafkaAdapter) publish(ctx context.Context, name domain.EventName, orderID string, event interface{}) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}
	return mq.ProduceMessage(ctx, a.writer, []byte(orderID), payload,
		kafka.Header{Key: "event", Value: []byte(name)})
}

func (a *EventKafkaAdapter) PublishCancelRequested(ctx context.Context, event domain.CancelRequestedEvent) error {
	return a.publish(ctx, domain.EventCancelRequested, event.OrderID, event)
}

func (a *EventKafkaAdapter) PublishCancelCompleted(ctx context.Context, event domain.CancelCompletedEvent) error {
	return a.publish(ctx, domain.EventCancelCompleted, event.OrderID, event)
}

func (a *EventKafkaAdapter) PublishCancelCompletedShop(ctx context.Context, event domain.CancelCompletedShopEvent) error {
	return a.publish(ctx, domain.EventCancelCompletedShop, event.OrderID, event)
}

func (a *EventKafkaAdapter) PublishCanceled(ctx context.Context, event domain.CanceledEvent) error {
	return a.publish(ctx, domain.EventCanceled, event.OrderID, event)
}

func (a *EventKafkaAdapter) PublishShipmentCompleted(ctx context.Context, event domain.ShipmentCompletedEvent) error {
	return a.publish(ctx, domain.EventShipmentCompleted, event.OrderID, event)
}

var _ port.EventPublisher = (*EventKafkaAdapter)(nil)
