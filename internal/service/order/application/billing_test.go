package application

import (
	"context"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MinoruSoga/tsunaguma-sub004/internal/service/order/domain"
)

const billingLag = 7 * 24 * time.Hour

// billableOrder 构造一个可进入账单聚合的已发货子订单
func billableOrder(id string, unitPrice int64, shipping int64, createdAt, shippedAt time.Time) *domain.Order {
	parent := "order_parent"
	return &domain.Order{
		ID:                id,
		ParentID:          &parent,
		StoreID:           "store_1",
		CustomerID:        "cus_1",
		Status:            domain.StatusCompleted,
		FulfillmentStatus: domain.FulfillmentShipped,
		PaymentStatus:     domain.PaymentCaptured,
		Total:             unitPrice + shipping,
		ShippingTotal:     shipping,
		Items: []domain.OrderItem{
			{ID: id + "_item", VariantID: "var_1", UnitPrice: unitPrice, Quantity: 1},
		},
		CreatedAt: createdAt,
		ShippedAt: &shippedAt,
	}
}

func newBillingFixtureWithTotals(store *domain.Store, totals *fakeTotals) (*fakeUnitOfWork, *BillingService) {
	uow := newFakeUnitOfWork()
	settlement := NewSettlementService(uow, totals, testTracer)
	billing := NewBillingService(uow, &fakeStores{stores: map[string]*domain.Store{store.ID: store}}, settlement, BillingConfig{
		Commission:  domain.CommissionDefaults{Standard: 15, Prime: 10},
		CompleteLag: billingLag,
	}, testTracer)
	return uow, billing
}

func newBillingFixture(store *domain.Store) (*fakeUnitOfWork, *BillingService) {
	return newBillingFixtureWithTotals(store, &fakeTotals{})
}

func TestBillingService_AggregateBilling_StandardPlan(t *testing.T) {
	store := &domain.Store{ID: "store_1", PlanType: domain.PlanStandard, MarginRate: f64ptr(5)}
	uow, billing := newBillingFixtureWithTotals(store, &fakeTotals{shipping: 150})

	periodStart := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	periodEnd := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
	shipped := periodStart.Add(-billingLag).Add(48 * time.Hour)

	o1 := billableOrder("order_1", 1000, 100, shipped, shipped)
	o2 := billableOrder("order_2", 2000, 200, shipped, shipped.Add(time.Hour))
	uow.orders.put(o1)
	uow.orders.put(o2)

	summary, err := billing.AggregateBilling(context.Background(), "store_1", periodStart, periodEnd)
	require.NoError(t, err)

	assert.Equal(t, int64(3000), summary.Total)
	assert.Equal(t, int64(300), summary.ShippingTotal)
	assert.Equal(t, int64(0), summary.DiscountTotal)
	assert.Equal(t, int64(0), summary.TaxTotal)
	// 5% of 3000
	assert.Equal(t, int64(150), summary.FeeTotal)
	// standard: total + shipping - fee
	assert.Equal(t, int64(3150), summary.Subtotal)

	// 每个订单的账单贡献被回填缓存
	require.NotNil(t, uow.orders.orders["order_1"].Billing)
	assert.Equal(t, 5.0, uow.orders.orders["order_1"].Billing.Rate)
	assert.Equal(t, int64(50), uow.orders.orders["order_1"].Billing.FeeTotal)
}

func TestBillingService_AggregateBilling_PrimeSpecRate(t *testing.T) {
	specStart := time.Date(2026, 7, 1, 0, 0, 0, 0, time.UTC)
	specEnd := time.Date(2026, 7, 15, 0, 0, 0, 0, time.UTC)
	store := &domain.Store{
		ID: "store_1", PlanType: domain.PlanPrime,
		SpecRate: f64ptr(5), SpecStartsAt: &specStart, SpecEndsAt: &specEnd,
	}
	uow, billing := newBillingFixture(store)

	periodStart := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	periodEnd := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
	shipped := periodStart.Add(-billingLag).Add(48 * time.Hour)

	// 第一单在促销窗口内下单，第二单在窗口外
	inWindow := billableOrder("order_1", 1000, 0, specStart.Add(24*time.Hour), shipped)
	outWindow := billableOrder("order_2", 2000, 0, specEnd.Add(24*time.Hour), shipped)
	uow.orders.put(inWindow)
	uow.orders.put(outWindow)

	summary, err := billing.AggregateBilling(context.Background(), "store_1", periodStart, periodEnd)
	require.NoError(t, err)

	// 1000*5% + 2000*10%
	assert.Equal(t, int64(250), summary.FeeTotal)
	assert.Equal(t, int64(3000), summary.Total)
	// prime: total - fee，运费不归店铺
	assert.Equal(t, int64(2750), summary.Subtotal)

	assert.Equal(t, 5.0, uow.orders.orders["order_1"].Billing.Rate)
	assert.Equal(t, 10.0, uow.orders.orders["order_2"].Billing.Rate)
}

func TestBillingService_AggregateBilling_LagWindow(t *testing.T) {
	store := &domain.Store{ID: "store_1", PlanType: domain.PlanStandard}
	uow, billing := newBillingFixture(store)

	periodStart := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	periodEnd := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
	from := periodStart.Add(-billingLag)
	to := periodEnd.Add(-billingLag)

	uow.orders.put(billableOrder("order_at_from", 1000, 0, from, from))
	uow.orders.put(billableOrder("order_before_from", 1000, 0, from, from.Add(-time.Second)))
	uow.orders.put(billableOrder("order_at_to", 1000, 0, to, to))
	uow.orders.put(billableOrder("order_last_inside", 1000, 0, to, to.Add(-time.Second)))

	summary, err := billing.AggregateBilling(context.Background(), "store_1", periodStart, periodEnd)
	require.NoError(t, err)

	// 半开区间 [from, to)：恰在 from 发货的计入，恰在 to 发货的不计入
	assert.Equal(t, int64(2000), summary.Total)
}

func TestBillingService_AggregateBilling_Validation(t *testing.T) {
	store := &domain.Store{ID: "store_1", PlanType: domain.PlanStandard}
	_, billing := newBillingFixture(store)

	at := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)

	t.Run("empty period", func(t *testing.T) {
		_, err := billing.AggregateBilling(context.Background(), "store_1", at, at)
		assert.True(t, errors.Is(err, domain.ErrInvalidData))
	})

	t.Run("inverted period", func(t *testing.T) {
		_, err := billing.AggregateBilling(context.Background(), "store_1", at, at.Add(-time.Hour))
		assert.True(t, errors.Is(err, domain.ErrInvalidData))
	})

	t.Run("unknown store", func(t *testing.T) {
		_, err := billing.AggregateBilling(context.Background(), "store_missing", at, at.AddDate(0, 1, 0))
		assert.True(t, errors.Is(err, domain.ErrNotFound))
	})

	t.Run("store without orders yields a zero summary", func(t *testing.T) {
		summary, err := billing.AggregateBilling(context.Background(), "store_1", at, at.AddDate(0, 1, 0))
		require.NoError(t, err)
		assert.Equal(t, domain.BillingSummary{}, summary)
	})
}

func TestMonthlyPeriod(t *testing.T) {
	start, end := MonthlyPeriod(2026, time.February, time.UTC)
	assert.Equal(t, time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC), start)
	assert.Equal(t, time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC), end)
}

func f64ptr(v float64) *float64 { return &v }
