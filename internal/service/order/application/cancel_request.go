// internal/service/order/application/cancel_request.go
package application

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/MinoruSoga/tsunaguma-sub004/internal/pkg/logger"
	"github.com/MinoruSoga/tsunaguma-sub004/internal/service/order/domain"
	"github.com/MinoruSoga/tsunaguma-sub004/internal/service/order/port"
)

// CancelRequestService 实现取消申请的状态机：
// Active -> CancelRequested -> (Active | CancelConfirmed)。
// 它只翻转标志位并发事件，不做任何补偿动作，可以安全重试。
type CancelRequestService struct {
	uow    domain.UnitOfWork
	events port.EventPublisher
	tracer trace.Tracer
}

func NewCancelRequestService(uow domain.UnitOfWork, events port.EventPublisher, tracer trace.Tracer) *CancelRequestService {
	return &CancelRequestService{uow: uow, events: events, tracer: tracer}
}

// RequestCancel 校验归属与前置状态后，把订单置为"已申请取消"。
func (s *CancelRequestService) RequestCancel(ctx context.Context, actor Actor, cmd RequestCancelCommand) error {
	ctx, span := s.tracer.Start(ctx, "app.RequestCancel")
	defer span.End()
	span.SetAttributes(attribute.String("order.id", cmd.OrderID))

	cancelType := domain.CancelType(cmd.CancelType)
	if cancelType != domain.CancelTypeBuyer && cancelType != domain.CancelTypeSeller {
		return domain.InvalidData("unknown cancel type %q", cmd.CancelType)
	}

	var event domain.CancelRequestedEvent
	err := s.uow.Do(ctx, func(ctx context.Context, repos domain.Repositories) error {
		order, err := repos.Orders.FindByID(ctx, cmd.OrderID)
		if err != nil {
			return err
		}
		if !actor.OwnsStore(order.StoreID) {
			return domain.NotAllowed("actor does not own store %s", order.StoreID)
		}
		if err := order.RequestCancel(cmd.Reason, cancelType); err != nil {
			return err
		}
		if err := repos.Orders.Save(ctx, order); err != nil {
			return err
		}
		event = domain.CancelRequestedEvent{
			EventID:    uuid.New().String(),
			OrderID:    order.ID,
			CustomerID: order.CustomerID,
			Reason:     cmd.Reason,
			CancelType: cancelType,
			At:         time.Now(),
		}
		return nil
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "cancel request rejected")
		return err
	}

	// 事件在事务提交之后发出，发布失败不影响已提交的状态
	if err := s.events.PublishCancelRequested(ctx, event); err != nil {
		logger.Ctx(ctx).Error().Err(err).Str("order_id", cmd.OrderID).Msg("failed to publish cancel requested event")
	}
	logger.Ctx(ctx).Info().Str("order_id", cmd.OrderID).Str("cancel_type", cmd.CancelType).Msg("cancel requested")
	return nil
}

// CloseCancelRequest 撤回取消申请，订单回到待处理状态。无事件副作用。
func (s *CancelRequestService) CloseCancelRequest(ctx context.Context, orderID string) error {
	ctx, span := s.tracer.Start(ctx, "app.CloseCancelRequest")
	defer span.End()
	span.SetAttributes(attribute.String("order.id", orderID))

	err := s.uow.Do(ctx, func(ctx context.Context, repos domain.Repositories) error {
		order, err := repos.Orders.FindByID(ctx, orderID)
		if err != nil {
			return err
		}
		if err := order.CloseCancelRequest(); err != nil {
			return err
		}
		return repos.Orders.Save(ctx, order)
	})
	if err != nil {
		span.RecordError(err)
		return err
	}
	logger.Ctx(ctx).Info().Str("order_id", orderID).Msg("cancel request closed")
	return nil
}

// MarkShipped 记录整单发货并发出发货完成事件。
// shipped_at 是账单聚合选单的依据。
func (s *CancelRequestService) MarkShipped(ctx context.Context, actor Actor, orderID string) error {
	ctx, span := s.tracer.Start(ctx, "app.MarkShipped")
	defer span.End()
	span.SetAttributes(attribute.String("order.id", orderID))

	now := time.Now()
	var event domain.ShipmentCompletedEvent
	err := s.uow.Do(ctx, func(ctx context.Context, repos domain.Repositories) error {
		order, err := repos.Orders.FindByID(ctx, orderID)
		if err != nil {
			return err
		}
		if !actor.OwnsStore(order.StoreID) {
			return domain.NotAllowed("actor does not own store %s", order.StoreID)
		}
		if err := order.MarkShipped(now); err != nil {
			return err
		}
		if err := repos.Orders.Save(ctx, order); err != nil {
			return err
		}
		event = domain.ShipmentCompletedEvent{
			EventID:    uuid.New().String(),
			OrderID:    order.ID,
			CustomerID: order.CustomerID,
			StoreID:    order.StoreID,
			ShippedAt:  now,
		}
		return nil
	})
	if err != nil {
		span.RecordError(err)
		return err
	}

	if err := s.events.PublishShipmentCompleted(ctx, event); err != nil {
		logger.Ctx(ctx).Error().Err(err).Str("order_id", orderID).Msg("failed to publish shipment completed event")
	}
	return nil
}
