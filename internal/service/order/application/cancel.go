// internal/service/order/application/cancel.go
package application

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/MinoruSoga/tsunaguma-sub004/internal/pkg/logger"
	"github.com/MinoruSoga/tsunaguma-sub004/internal/pkg/metrics"
	"github.com/MinoruSoga/tsunaguma-sub004/internal/service/order/application/saga"
	"github.com/MinoruSoga/tsunaguma-sub004/internal/service/order/domain"
	"github.com/MinoruSoga/tsunaguma-sub004/internal/service/order/port"
)

// CancellationSaga 执行不可逆的订单取消。
// 整个流程包在一个工作单元（数据库事务）里：守卫校验、库存/折扣回退、
// 支付撤销、终态写入，任一环节失败则事务回滚并触发外部调用的补偿，
// 不留下部分状态。重试由调用方负责，守卫每次都从持久化状态重新校验。
type CancellationSaga struct {
	uow       domain.UnitOfWork
	inventory port.InventoryService
	payments  port.PaymentService
	events    port.EventPublisher
	tracer    trace.Tracer
}

func NewCancellationSaga(
	uow domain.UnitOfWork,
	inventory port.InventoryService,
	payments port.PaymentService,
	events port.EventPublisher,
	tracer trace.Tracer,
) *CancellationSaga {
	return &CancellationSaga{
		uow:       uow,
		inventory: inventory,
		payments:  payments,
		events:    events,
		tracer:    tracer,
	}
}

// Cancel 确认取消一个处于"已申请取消"状态的订单。
// 确认方必须是下单客户本人或管理员。
func (s *CancellationSaga) Cancel(ctx context.Context, actor Actor, orderID string) error {
	ctx, span := s.tracer.Start(ctx, "app.CancelOrder")
	defer span.End()
	span.SetAttributes(attribute.String("order.id", orderID))

	var canceled *domain.Order
	err := s.uow.Do(ctx, func(ctx context.Context, repos domain.Repositories) error {
		order, err := repos.Orders.FindForCancellation(ctx, orderID)
		if err != nil {
			return err
		}
		if !actor.OwnsCustomer(order.CustomerID) {
			return domain.NotAllowed("actor is not the customer of order %s", orderID)
		}
		if order.CancelState() != domain.CancelStateRequested {
			return domain.NotAllowed("order %s cancel is not requested", orderID)
		}

		cancelCtx := &saga.CancelContext{
			Ctx:       ctx,
			Order:     order,
			Tracer:    s.tracer,
			Now:       time.Now(),
			Repos:     repos,
			Inventory: s.inventory,
			Payments:  s.payments,
		}

		if err := s.buildChain().Handle(cancelCtx); err != nil {
			logger.Ctx(ctx).Error().Err(err).Str("order_id", orderID).Msg("cancellation chain failed, compensating")
			span.RecordError(err)
			span.SetStatus(codes.Error, "cancellation chain failed")
			cancelCtx.TriggerCompensation(ctx)
			return err
		}

		canceled = order
		return nil
	})

	if err != nil {
		metrics.SagaOutcomes.WithLabelValues("failed").Inc()
		return err
	}
	metrics.SagaOutcomes.WithLabelValues("completed").Inc()

	// 事件在事务提交之后发出，订阅方独立运行，核心不等待其完成
	s.publishCancelEvents(ctx, canceled)

	logger.Ctx(ctx).Info().Str("order_id", orderID).Msg("order cancellation confirmed")
	span.AddEvent("Order cancellation committed")
	return nil
}

func (s *CancellationSaga) buildChain() saga.Handler {
	chain := new(saga.GuardHandler)
	chain.
		SetNext(new(saga.RestockHandler)).
		SetNext(new(saga.DiscountReleaseHandler)).
		SetNext(new(saga.PaymentCancelHandler)).
		SetNext(new(saga.FinalizeHandler))
	return chain
}

func (s *CancellationSaga) publishCancelEvents(ctx context.Context, order *domain.Order) {
	now := time.Now()

	completed := domain.CancelCompletedEvent{
		EventID:    uuid.New().String(),
		OrderID:    order.ID,
		CustomerID: order.CustomerID,
		At:         now,
	}
	if err := s.events.PublishCancelCompleted(ctx, completed); err != nil {
		logger.Ctx(ctx).Error().Err(err).Str("order_id", order.ID).Msg("failed to publish cancel completed event")
	}

	if order.IsSubOrder() {
		shop := domain.CancelCompletedShopEvent{
			EventID: uuid.New().String(),
			OrderID: order.ID,
			StoreID: order.StoreID,
			At:      now,
		}
		if err := s.events.PublishCancelCompletedShop(ctx, shop); err != nil {
			logger.Ctx(ctx).Error().Err(err).Str("order_id", order.ID).Msg("failed to publish shop cancel event")
		}
	}

	generic := domain.CanceledEvent{
		EventID:    uuid.New().String(),
		OrderID:    order.ID,
		CustomerID: order.CustomerID,
		StoreID:    order.StoreID,
		IsSubOrder: order.IsSubOrder(),
		At:         now,
	}
	if err := s.events.PublishCanceled(ctx, generic); err != nil {
		logger.Ctx(ctx).Error().Err(err).Str("order_id", order.ID).Msg("failed to publish canceled event")
	}
}
