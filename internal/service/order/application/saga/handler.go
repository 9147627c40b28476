// internal/service/order/application/saga/handler.go
package saga

import (
	"context"
	"sync"
	"time"

	"go.opentelemetry.io/otel/trace"

	"github.com/MinoruSoga/tsunaguma-sub004/internal/pkg/logger"
	"github.com/MinoruSoga/tsunaguma-sub004/internal/service/order/domain"
	"github.com/MinoruSoga/tsunaguma-sub004/internal/service/order/port"
)

// CancelContext 在取消 saga 的责任链中传递上下文数据。
// 所有外部依赖都是抽象接口；仓储是事务内的实例，
// 链上任一环节失败时事务整体回滚，已执行的外部调用由补偿栈撤销。
type CancelContext struct {
	Ctx    context.Context
	Order  *domain.Order
	Tracer trace.Tracer
	Now    time.Time

	// 事务内仓储
	Repos domain.Repositories

	// 出站端口
	Inventory port.InventoryService
	Payments  port.PaymentService

	// 补偿函数栈（LIFO）
	compensations []func(ctx context.Context)
	compLock      sync.Mutex
}

// AddCompensation 将一个补偿函数推入栈中，后注册的补偿先执行。
func (c *CancelContext) AddCompensation(comp func(ctx context.Context)) {
	c.compLock.Lock()
	defer c.compLock.Unlock()
	c.compensations = append([]func(context.Context){comp}, c.compensations...)
}

// TriggerCompensation 执行所有已注册的补偿函数。
// 数据库写入由事务回滚兜底，这里只撤销对外部协作方已生效的调用。
func (c *CancelContext) TriggerCompensation(ctx context.Context) {
	c.compLock.Lock()
	defer c.compLock.Unlock()
	logger.Ctx(ctx).Info().
		Str("order_id", c.Order.ID).
		Int("compensations", len(c.compensations)).
		Msg("executing cancellation compensations")
	for _, comp := range c.compensations {
		comp(ctx)
	}
}

// Handler 定义了责任链中每个节点的接口
type Handler interface {
	SetNext(handler Handler) Handler
	Handle(cancelCtx *CancelContext) error
}

// NextHandler 是一个辅助结构，嵌入到具体处理器中以减少重复代码
type NextHandler struct {
	next Handler
}

func (h *NextHandler) SetNext(handler Handler) Handler {
	h.next = handler
	return handler
}

func (h *NextHandler) executeNext(cancelCtx *CancelContext) error {
	if h.next != nil {
		return h.next.Handle(cancelCtx)
	}
	return nil
}
