// internal/service/order/domain/repository.go
package domain

import (
	"context"
	"time"
)

// OrderRepository 定义了订单聚合的持久化接口。
// 它位于领域层，由基础设施层实现。
type OrderRepository interface {
	// FindByID 根据 ID 查找订单（含行项目与折扣）。
	FindByID(ctx context.Context, id string) (*Order, error)

	// FindForCancellation 加载订单及取消校验所需的全部关联：
	// 履约、支付、退货、索赔、换货、退款。
	FindForCancellation(ctx context.Context, id string) (*Order, error)

	// FindShippedForBilling 选出某店铺在 [from, to) 内发货、
	// 且主状态为 completed 的子订单，供账单聚合使用。
	FindShippedForBilling(ctx context.Context, storeID string, from, to time.Time) ([]*Order, error)

	// Save 保存订单的工作流字段与时间戳。
	Save(ctx context.Context, order *Order) error

	// SaveSettlement 整体覆盖订单的结算快照。
	SaveSettlement(ctx context.Context, orderID string, snapshot *SettlementSnapshot) error

	// SaveBilling 整体覆盖订单的账单贡献快照。
	SaveBilling(ctx context.Context, orderID string, snapshot *BillingSnapshot) error
}

// DiscountRepository 定义了折扣及用户授予记录的持久化接口。
type DiscountRepository interface {
	// FindByOrder 通过订单-折扣关联表取出订单上的折扣。
	FindByOrder(ctx context.Context, orderID string) ([]Discount, error)

	// DecrementUsage 将折扣的已用次数减一。
	DecrementUsage(ctx context.Context, discountID string) error

	// DeleteGrant 删除某用户对某折扣的持有记录。
	DeleteGrant(ctx context.Context, discountID, customerID string) error
}

// Repositories 打包一次事务内可用的全部仓储。
type Repositories struct {
	Orders    OrderRepository
	Discounts DiscountRepository
}

// UnitOfWork 把一段业务逻辑包进单个数据库事务。
// fn 返回错误时整个事务回滚，不留下任何部分写入；
// 并发对同一订单的变更由数据库行锁串行化，核心不持有应用级互斥量。
type UnitOfWork interface {
	Do(ctx context.Context, fn func(ctx context.Context, repos Repositories) error) error
}
