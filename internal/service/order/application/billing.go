// internal/service/order/application/billing.go
package application

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/MinoruSoga/tsunaguma-sub004/internal/pkg/logger"
	"github.com/MinoruSoga/tsunaguma-sub004/internal/pkg/metrics"
	"github.com/MinoruSoga/tsunaguma-sub004/internal/service/order/domain"
	"github.com/MinoruSoga/tsunaguma-sub004/internal/service/order/port"
)

// BillingConfig 是账单聚合的配置项。
// CompleteLag 会从账期两端同样扣除，反映发货到结算确认之间的固定延迟；
// 该常量没有更深的业务推导，保持为配置而不是派生值。
type BillingConfig struct {
	Commission  domain.CommissionDefaults
	CompleteLag time.Duration
}

// BillingService 把一个店铺在一个账期内的已完成子订单聚合成账单。
// 读多写少：唯一的写入是结算/账单快照的缓存未命中回填。
type BillingService struct {
	uow        domain.UnitOfWork
	stores     port.StoreService
	settlement *SettlementService
	cfg        BillingConfig
	tracer     trace.Tracer
}

func NewBillingService(uow domain.UnitOfWork, stores port.StoreService, settlement *SettlementService, cfg BillingConfig, tracer trace.Tracer) *BillingService {
	return &BillingService{uow: uow, stores: stores, settlement: settlement, cfg: cfg, tracer: tracer}
}

// AggregateBilling 聚合 [periodStart, periodEnd) 账期的店铺账单。
// 实际选单窗口是两端各前移 CompleteLag 的发货时间半开区间。
func (s *BillingService) AggregateBilling(ctx context.Context, storeID string, periodStart, periodEnd time.Time) (domain.BillingSummary, error) {
	ctx, span := s.tracer.Start(ctx, "app.AggregateBilling")
	defer span.End()
	span.SetAttributes(
		attribute.String("store.id", storeID),
		attribute.String("period.start", periodStart.Format(time.RFC3339)),
		attribute.String("period.end", periodEnd.Format(time.RFC3339)),
	)
	timer := prometheus.NewTimer(metrics.BillingDuration)
	defer timer.ObserveDuration()

	if !periodStart.Before(periodEnd) {
		return domain.BillingSummary{}, domain.InvalidData("billing period start %s is not before end %s", periodStart, periodEnd)
	}

	store, err := s.stores.GetStoreByID(ctx, storeID)
	if err != nil {
		span.RecordError(err)
		return domain.BillingSummary{}, err
	}

	from := periodStart.Add(-s.cfg.CompleteLag)
	to := periodEnd.Add(-s.cfg.CompleteLag)

	var orders []*domain.Order
	err = s.uow.Do(ctx, func(ctx context.Context, repos domain.Repositories) error {
		var err error
		orders, err = repos.Orders.FindShippedForBilling(ctx, storeID, from, to)
		return err
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to load billable orders")
		return domain.BillingSummary{}, err
	}

	var summary domain.BillingSummary
	feeTotal := decimal.Zero

	for _, order := range orders {
		snapshot, err := s.settlement.CapturePrice(ctx, order)
		if err != nil {
			span.RecordError(err)
			return domain.BillingSummary{}, err
		}

		rate := store.EffectiveRate(order.CreatedAt, s.cfg.Commission)
		fee := decimal.NewFromInt(snapshot.Subtotal).
			Mul(decimal.NewFromFloat(rate)).
			Div(decimal.NewFromInt(100))

		summary.Total += snapshot.Subtotal
		summary.ShippingTotal += snapshot.ShippingTotal
		summary.DiscountTotal += snapshot.DiscountTotal
		feeTotal = feeTotal.Add(fee)

		s.cacheOrderBilling(ctx, order, snapshot, rate, fee)
	}

	summary.FeeTotal = feeTotal.Round(0).IntPart()
	if store.PlanType == domain.PlanPrime {
		summary.Subtotal = summary.Total - summary.FeeTotal
	} else {
		summary.Subtotal = summary.Total + summary.ShippingTotal - summary.FeeTotal
	}

	span.SetAttributes(attribute.Int("orders.count", len(orders)))
	span.AddEvent("Billing aggregated")
	return summary, nil
}

// cacheOrderBilling 回填单订单的账单贡献快照，失败只记日志不影响聚合结果。
func (s *BillingService) cacheOrderBilling(ctx context.Context, order *domain.Order, snapshot domain.SettlementSnapshot, rate float64, fee decimal.Decimal) {
	billing := &domain.BillingSnapshot{
		Total:         snapshot.Total,
		Subtotal:      snapshot.Subtotal,
		ShippingTotal: snapshot.ShippingTotal,
		DiscountTotal: snapshot.DiscountTotal,
		FeeTotal:      fee.Round(0).IntPart(),
		Rate:          rate,
	}
	err := s.uow.Do(ctx, func(ctx context.Context, repos domain.Repositories) error {
		return repos.Orders.SaveBilling(ctx, order.ID, billing)
	})
	if err != nil {
		logger.Ctx(ctx).Warn().Err(err).Str("order_id", order.ID).Msg("failed to cache order billing snapshot")
	}
}

// MonthlyPeriod 返回某个自然月的账期边界（本地时区，左闭右开）。
func MonthlyPeriod(year int, month time.Month, loc *time.Location) (time.Time, time.Time) {
	start := time.Date(year, month, 1, 0, 0, 0, 0, loc)
	return start, start.AddDate(0, 1, 0)
}
