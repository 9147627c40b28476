// internal/service/order/infrastructure/gorm_repository.go
package infrastructure

import (
	"context"
	"encoding/json"
	"time"

	"github.com/pkg/errors"
	"github.com/samber/lo"
	"gorm.io/gorm"

	"github.com/MinoruSoga/tsunaguma-sub004/internal/service/order/domain"
)

// GormOrderRepository 是 domain.OrderRepository 的 GORM 实现
type GormOrderRepository struct {
	db *gorm.DB
}

func NewGormOrderRepository(db *gorm.DB) *GormOrderRepository {
	return &GormOrderRepository{db: db}
}

func (r *GormOrderRepository) FindByID(ctx context.Context, id string) (*domain.Order, error) {
	var model OrderModel
	err := r.db.WithContext(ctx).
		Preload("Items").
		Preload("Discounts").
		Where("id = ?", id).
		First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NotFound("order %s", id)
		}
		return nil, err
	}
	return ToDomainOrder(&model), nil
}

// FindForCancellation 加载取消校验所需的全部关联。
func (r *GormOrderRepository) FindForCancellation(ctx context.Context, id string) (*domain.Order, error) {
	var model OrderModel
	err := r.db.WithContext(ctx).
		Preload("Items").
		Preload("Discounts").
		Preload("Payments").
		Preload("Fulfillments").
		Preload("Returns").
		Preload("Claims").
		Preload("Swaps").
		Preload("Refunds").
		Where("id = ?", id).
		First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NotFound("order %s", id)
		}
		return nil, err
	}
	return ToDomainOrder(&model), nil
}

func (r *GormOrderRepository) FindShippedForBilling(ctx context.Context, storeID string, from, to time.Time) ([]*domain.Order, error) {
	var models []OrderModel
	err := r.db.WithContext(ctx).
		Preload("Items").
		Preload("Discounts").
		Where("store_id = ?", storeID).
		Where("parent_id IS NOT NULL").
		Where("status = ?", string(domain.StatusCompleted)).
		Where("fulfillment_status = ?", string(domain.FulfillmentShipped)).
		Where("shipped_at >= ? AND shipped_at < ?", from, to).
		Order("shipped_at").
		Find(&models).Error
	if err != nil {
		return nil, err
	}
	return lo.Map(models, func(m OrderModel, _ int) *domain.Order { return ToDomainOrder(&m) }), nil
}

// Save 只写工作流字段与时间戳，行项目等关联不在这里变更。
func (r *GormOrderRepository) Save(ctx context.Context, order *domain.Order) error {
	result := r.db.WithContext(ctx).
		Model(&OrderModel{}).
		Where("id = ?", order.ID).
		Updates(orderWorkflowColumns(order))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.NotFound("order %s", order.ID)
	}
	return nil
}

// SaveSettlement 整体覆盖订单行上的结算快照，nil 清除该列。
// 按列更新不经过模型字段的序列化器，这里显式序列化成 JSON 再写入。
func (r *GormOrderRepository) SaveSettlement(ctx context.Context, orderID string, snapshot *domain.SettlementSnapshot) error {
	var payload interface{}
	if snapshot != nil {
		data, err := json.Marshal(snapshot)
		if err != nil {
			return errors.Wrapf(err, "marshal settlement snapshot for order %s", orderID)
		}
		payload = data
	}
	return r.updateSnapshotColumn(ctx, orderID, "metadata_price", payload)
}

func (r *GormOrderRepository) SaveBilling(ctx context.Context, orderID string, snapshot *domain.BillingSnapshot) error {
	var payload interface{}
	if snapshot != nil {
		data, err := json.Marshal(snapshot)
		if err != nil {
			return errors.Wrapf(err, "marshal billing snapshot for order %s", orderID)
		}
		payload = data
	}
	return r.updateSnapshotColumn(ctx, orderID, "metadata_billing", payload)
}

func (r *GormOrderRepository) updateSnapshotColumn(ctx context.Context, orderID, column string, payload interface{}) error {
	result := r.db.WithContext(ctx).
		Model(&OrderModel{}).
		Where("id = ?", orderID).
		Update(column, payload)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.NotFound("order %s", orderID)
	}
	return nil
}

// GormDiscountRepository 是 domain.DiscountRepository 的 GORM 实现
type GormDiscountRepository struct {
	db *gorm.DB
}

func NewGormDiscountRepository(db *gorm.DB) *GormDiscountRepository {
	return &GormDiscountRepository{db: db}
}

func (r *GormDiscountRepository) FindByOrder(ctx context.Context, orderID string) ([]domain.Discount, error) {
	var models []DiscountModel
	err := r.db.WithContext(ctx).
		Joins("JOIN order_discounts ON order_discounts.discount_id = discounts.id").
		Where("order_discounts.order_id = ?", orderID).
		Find(&models).Error
	if err != nil {
		return nil, err
	}
	return lo.Map(models, func(m DiscountModel, _ int) domain.Discount { return ToDomainDiscount(&m) }), nil
}

func (r *GormDiscountRepository) DecrementUsage(ctx context.Context, discountID string) error {
	result := r.db.WithContext(ctx).
		Model(&DiscountModel{}).
		Where("id = ? AND usage_count > 0", discountID).
		UpdateColumn("usage_count", gorm.Expr("usage_count - ?", 1))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.NotFound("discount %s with positive usage", discountID)
	}
	return nil
}

func (r *GormDiscountRepository) DeleteGrant(ctx context.Context, discountID, customerID string) error {
	return r.db.WithContext(ctx).
		Where("discount_id = ? AND customer_id = ?", discountID, customerID).
		Delete(&UserDiscountModel{}).Error
}

// GormUnitOfWork 把一段业务逻辑包进 gorm 事务。
// 事务内的仓储都绑定在同一个 *gorm.DB 事务句柄上，
// 并发对同一订单的变更由 InnoDB 行锁串行化。
type GormUnitOfWork struct {
	db *gorm.DB
}

func NewGormUnitOfWork(db *gorm.DB) *GormUnitOfWork {
	return &GormUnitOfWork{db: db}
}

func (u *GormUnitOfWork) Do(ctx context.Context, fn func(ctx context.Context, repos domain.Repositories) error) error {
	return u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(ctx, domain.Repositories{
			Orders:    NewGormOrderRepository(tx),
			Discounts: NewGormDiscountRepository(tx),
		})
	})
}

var (
	_ domain.OrderRepository    = (*GormOrderRepository)(nil)
	_ domain.DiscountRepository = (*GormDiscountRepository)(nil)
	_ domain.UnitOfWork         = (*GormUnitOfWork)(nil)
)
