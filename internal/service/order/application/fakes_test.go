package application

import (
	"context"
	"time"

	"github.com/MinoruSoga/tsunaguma-sub004/internal/service/order/domain"
)

// 应用层测试使用内存仓储与可注入失败的出站端口替身，
// 不触碰数据库；仓储层行为由 infrastructure 包的 sqlmock 测试覆盖。

type fakeUnitOfWork struct {
	orders    *memOrderRepo
	discounts *memDiscountRepo
	rollbacks int
}

func newFakeUnitOfWork() *fakeUnitOfWork {
	return &fakeUnitOfWork{
		orders:    &memOrderRepo{orders: map[string]*domain.Order{}},
		discounts: &memDiscountRepo{byOrder: map[string][]domain.Discount{}, usage: map[string]int{}},
	}
}

func (u *fakeUnitOfWork) Do(ctx context.Context, fn func(ctx context.Context, repos domain.Repositories) error) error {
	err := fn(ctx, domain.Repositories{Orders: u.orders, Discounts: u.discounts})
	if err != nil {
		u.rollbacks++
	}
	return err
}

type memOrderRepo struct {
	orders map[string]*domain.Order
	saved  []*domain.Order
}

func (r *memOrderRepo) put(order *domain.Order) {
	r.orders[order.ID] = order
}

func (r *memOrderRepo) FindByID(_ context.Context, id string) (*domain.Order, error) {
	order, ok := r.orders[id]
	if !ok {
		return nil, domain.NotFound("order %s", id)
	}
	copied := *order
	return &copied, nil
}

func (r *memOrderRepo) FindForCancellation(ctx context.Context, id string) (*domain.Order, error) {
	return r.FindByID(ctx, id)
}

func (r *memOrderRepo) FindShippedForBilling(_ context.Context, storeID string, from, to time.Time) ([]*domain.Order, error) {
	var result []*domain.Order
	for _, order := range r.orders {
		if order.StoreID != storeID || !order.IsSubOrder() {
			continue
		}
		if order.Status != domain.StatusCompleted || order.FulfillmentStatus != domain.FulfillmentShipped {
			continue
		}
		if order.ShippedAt == nil || order.ShippedAt.Before(from) || !order.ShippedAt.Before(to) {
			continue
		}
		copied := *order
		result = append(result, &copied)
	}
	return result, nil
}

func (r *memOrderRepo) Save(_ context.Context, order *domain.Order) error {
	if _, ok := r.orders[order.ID]; !ok {
		return domain.NotFound("order %s", order.ID)
	}
	copied := *order
	r.orders[order.ID] = &copied
	r.saved = append(r.saved, &copied)
	return nil
}

func (r *memOrderRepo) SaveSettlement(_ context.Context, orderID string, snapshot *domain.SettlementSnapshot) error {
	order, ok := r.orders[orderID]
	if !ok {
		return domain.NotFound("order %s", orderID)
	}
	order.Settlement = snapshot
	return nil
}

func (r *memOrderRepo) SaveBilling(_ context.Context, orderID string, snapshot *domain.BillingSnapshot) error {
	order, ok := r.orders[orderID]
	if !ok {
		return domain.NotFound("order %s", orderID)
	}
	order.Billing = snapshot
	return nil
}

type memDiscountRepo struct {
	byOrder       map[string][]domain.Discount
	usage         map[string]int
	deletedGrants []string
}

func (r *memDiscountRepo) FindByOrder(_ context.Context, orderID string) ([]domain.Discount, error) {
	return r.byOrder[orderID], nil
}

func (r *memDiscountRepo) DecrementUsage(_ context.Context, discountID string) error {
	r.usage[discountID]--
	return nil
}

func (r *memDiscountRepo) DeleteGrant(_ context.Context, discountID, customerID string) error {
	r.deletedGrants = append(r.deletedGrants, discountID+":"+customerID)
	return nil
}

type capturePublisher struct {
	requested []domain.CancelRequestedEvent
	completed []domain.CancelCompletedEvent
	shop      []domain.CancelCompletedShopEvent
	canceled  []domain.CanceledEvent
	shipped   []domain.ShipmentCompletedEvent
}

func (p *capturePublisher) PublishCancelRequested(_ context.Context, e domain.CancelRequestedEvent) error {
	p.requested = append(p.requested, e)
	return nil
}

func (p *capturePublisher) PublishCancelCompleted(_ context.Context, e domain.CancelCompletedEvent) error {
	p.completed = append(p.completed, e)
	return nil
}

func (p *capturePublisher) PublishCancelCompletedShop(_ context.Context, e domain.CancelCompletedShopEvent) error {
	p.shop = append(p.shop, e)
	return nil
}

func (p *capturePublisher) PublishCanceled(_ context.Context, e domain.CanceledEvent) error {
	p.canceled = append(p.canceled, e)
	return nil
}

func (p *capturePublisher) PublishShipmentCompleted(_ context.Context, e domain.ShipmentCompletedEvent) error {
	p.shipped = append(p.shipped, e)
	return nil
}

type inventoryCall struct {
	variantID string
	delta     int
}

type fakeInventory struct {
	calls  []inventoryCall
	failOn string // variant ID
}

func (f *fakeInventory) AdjustInventory(_ context.Context, variantID string, delta int) error {
	if f.failOn != "" && f.failOn == variantID && delta > 0 {
		return domain.NotFound("variant %s", variantID)
	}
	f.calls = append(f.calls, inventoryCall{variantID: variantID, delta: delta})
	return nil
}

type fakePayments struct {
	canceled []string
	failOn   string // payment ID
}

func (f *fakePayments) CancelPayment(_ context.Context, payment domain.Payment) error {
	if f.failOn != "" && f.failOn == payment.ID {
		return domain.InvalidData("provider rejected payment %s", payment.ID)
	}
	f.canceled = append(f.canceled, payment.ID)
	return nil
}

type fakeTotals struct {
	shipping int64
	discount int64
	calls    int
}

func (f *fakeTotals) ShippingTotal(_ context.Context, _ *domain.Order) (int64, error) {
	f.calls++
	return f.shipping, nil
}

func (f *fakeTotals) DiscountTotal(_ context.Context, _ *domain.Order) (int64, error) {
	return f.discount, nil
}

type fakeStores struct {
	stores map[string]*domain.Store
}

func (f *fakeStores) GetStoreByID(_ context.Context, id string) (*domain.Store, error) {
	store, ok := f.stores[id]
	if !ok {
		return nil, domain.NotFound("store %s", id)
	}
	return store, nil
}

type pointRefund struct {
	customerID string
	amount     int64
}

type fakePoints struct {
	refunds []pointRefund
}

func (f *fakePoints) RefundPoints(_ context.Context, customerID string, amount int64) error {
	f.refunds = append(f.refunds, pointRefund{customerID: customerID, amount: amount})
	return nil
}
