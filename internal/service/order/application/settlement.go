// internal/service/order/application/settlement.go
package application

import (
	"context"
	"sort"
	"time"

	"github.com/samber/lo"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/MinoruSoga/tsunaguma-sub004/internal/pkg/metrics"
	"github.com/MinoruSoga/tsunaguma-sub004/internal/service/order/domain"
	"github.com/MinoruSoga/tsunaguma-sub004/internal/service/order/port"
)

// SettlementService 计算并缓存单个订单的金额拆解。
// 快照是写穿缓存：已有快照时直接返回，重算需要调用方显式清空。
// 行项目或折扣在首算之后变化不会触发失效。
type SettlementService struct {
	uow    domain.UnitOfWork
	totals port.TotalsService
	tracer trace.Tracer
}

func NewSettlementService(uow domain.UnitOfWork, totals port.TotalsService, tracer trace.Tracer) *SettlementService {
	return &SettlementService{uow: uow, totals: totals, tracer: tracer}
}

// CapturePrice 返回订单的结算快照，缺失时计算并落库。
// 对相同的行项目与折扣重复调用得到完全一致的结果。
func (s *SettlementService) CapturePrice(ctx context.Context, order *domain.Order) (domain.SettlementSnapshot, error) {
	ctx, span := s.tracer.Start(ctx, "app.CapturePrice")
	defer span.End()
	span.SetAttributes(attribute.String("order.id", order.ID))

	if order.Settlement != nil {
		metrics.SettlementCache.WithLabelValues("hit").Inc()
		span.AddEvent("Settlement snapshot cache hit")
		return *order.Settlement, nil
	}
	metrics.SettlementCache.WithLabelValues("miss").Inc()

	snapshot, err := s.compute(ctx, order)
	if err != nil {
		span.RecordError(err)
		return domain.SettlementSnapshot{}, err
	}

	// 缓存未命中时的落库是唯一的写入，单独包一个事务
	err = s.uow.Do(ctx, func(ctx context.Context, repos domain.Repositories) error {
		return repos.Orders.SaveSettlement(ctx, order.ID, &snapshot)
	})
	if err != nil {
		span.RecordError(err)
		return domain.SettlementSnapshot{}, err
	}

	order.Settlement = &snapshot
	return snapshot, nil
}

// CapturePriceByID 按 ID 加载订单后取结算快照。
func (s *SettlementService) CapturePriceByID(ctx context.Context, orderID string) (domain.SettlementSnapshot, error) {
	var order *domain.Order
	err := s.uow.Do(ctx, func(ctx context.Context, repos domain.Repositories) error {
		var err error
		order, err = repos.Orders.FindByID(ctx, orderID)
		return err
	})
	if err != nil {
		return domain.SettlementSnapshot{}, err
	}
	return s.CapturePrice(ctx, order)
}

// ClearSnapshot 显式清空快照，下一次读取会重算。
func (s *SettlementService) ClearSnapshot(ctx context.Context, orderID string) error {
	return s.uow.Do(ctx, func(ctx context.Context, repos domain.Repositories) error {
		return repos.Orders.SaveSettlement(ctx, orderID, nil)
	})
}

func (s *SettlementService) compute(ctx context.Context, order *domain.Order) (domain.SettlementSnapshot, error) {
	shipping, err := s.totals.ShippingTotal(ctx, order)
	if err != nil {
		return domain.SettlementSnapshot{}, err
	}
	discount, err := s.totals.DiscountTotal(ctx, order)
	if err != nil {
		return domain.SettlementSnapshot{}, err
	}

	// 折扣 ID 排序后写入，保证重算结果逐位一致
	discountIDs := lo.Map(order.Discounts, func(d domain.Discount, _ int) string { return d.ID })
	sort.Strings(discountIDs)

	return domain.SettlementSnapshot{
		Total:         order.Total,
		Subtotal:      order.Subtotal(),
		ShippingTotal: shipping,
		DiscountTotal: discount,
		DiscountIDs:   discountIDs,
		CapturedAt:    time.Now(),
	}, nil
}
